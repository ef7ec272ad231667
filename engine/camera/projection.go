package camera

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Projection holds perspective projection parameters. It is constructed once
// with validated values and mutated only by Resize when the output surface
// changes size.
type Projection struct {
	aspect float32
	fovY   float32
	near   float32
	far    float32
}

// NewProjection creates a Projection after validating its parameters.
// Malformed parameters produce a degenerate matrix downstream, so they are
// rejected here rather than silently tolerated.
//
// Parameters:
//   - fovY: vertical field of view in radians, must be in (0, π)
//   - aspect: viewport aspect ratio (width/height), must be > 0
//   - near: near clipping plane distance, must be > 0
//   - far: far clipping plane distance, must be > near
//
// Returns:
//   - *Projection: the validated projection
//   - error: error describing the first invalid parameter
func NewProjection(fovY, aspect, near, far float32) (*Projection, error) {
	if fovY <= 0 || fovY >= math.Pi {
		return nil, fmt.Errorf("projection: fovY %v out of range (0, π)", fovY)
	}
	if aspect <= 0 {
		return nil, fmt.Errorf("projection: aspect %v must be > 0", aspect)
	}
	if near <= 0 {
		return nil, fmt.Errorf("projection: near %v must be > 0", near)
	}
	if far <= near {
		return nil, fmt.Errorf("projection: far %v must be > near %v", far, near)
	}
	return &Projection{
		aspect: aspect,
		fovY:   fovY,
		near:   near,
		far:    far,
	}, nil
}

// Resize recomputes the aspect ratio from new surface dimensions. This is the
// only mutator besides construction; field of view and clip planes are
// untouched. A zero or negative height is clamped to 1 to guard the division.
//
// Parameters:
//   - width: new surface width in pixels
//   - height: new surface height in pixels
func (p *Projection) Resize(width, height int) {
	if height < 1 {
		height = 1
	}
	if width < 1 {
		width = 1
	}
	p.aspect = float32(width) / float32(height)
}

// Matrix returns the perspective projection matrix in the OpenGL depth
// convention (Z in [-1, 1]). Callers compose it with
// common.DepthRangeCorrection for WebGPU clip space.
//
// Returns:
//   - mgl32.Mat4: the projection matrix
func (p *Projection) Matrix() mgl32.Mat4 {
	return mgl32.Perspective(p.fovY, p.aspect, p.near, p.far)
}

// Aspect returns the current aspect ratio (width/height).
func (p *Projection) Aspect() float32 {
	return p.aspect
}

// FovY returns the vertical field of view in radians.
func (p *Projection) FovY() float32 {
	return p.fovY
}

// Near returns the near clipping plane distance.
func (p *Projection) Near() float32 {
	return p.near
}

// Far returns the far clipping plane distance.
func (p *Projection) Far() float32 {
	return p.far
}
