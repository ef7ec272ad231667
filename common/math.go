package common

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// DepthRangeCorrection remaps clip-space depth from the OpenGL convention
// ([-1, 1]) produced by mgl32's projection helpers into the WebGPU convention
// ([0, 1]). X, Y, and W are unchanged. Compose it on the left of the
// projection matrix: corrected = DepthRangeCorrection * projection.
//
// mgl32.Mat4 is a [16]float32 in column-major order, matching the memory
// layout WebGPU expects for mat4x4<f32> uniform uploads.
var DepthRangeCorrection = mgl32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

// DirectionFromYawPitch converts yaw and pitch angles (radians) into a unit
// direction vector in a Y-up right-handed frame. Yaw 0 looks along +X; pitch
// rotates toward +Y.
//
// Parameters:
//   - yaw: horizontal angle in radians
//   - pitch: vertical angle in radians
//
// Returns:
//   - mgl32.Vec3: the normalized look direction
func DirectionFromYawPitch(yaw, pitch float32) mgl32.Vec3 {
	sinYaw, cosYaw := math32.Sincos(yaw)
	sinPitch, cosPitch := math32.Sincos(pitch)
	return mgl32.Vec3{cosPitch * cosYaw, sinPitch, cosPitch * sinYaw}
}

// LookTo builds a view matrix for a camera at eye looking along dir with the
// given up vector. This is the direction-based variant of look-at: the target
// point is eye + dir.
//
// Parameters:
//   - eye: camera position in world space
//   - dir: normalized look direction
//   - up: up vector (typically 0,1,0)
//
// Returns:
//   - mgl32.Mat4: the world-to-view transform
func LookTo(eye, dir, up mgl32.Vec3) mgl32.Mat4 {
	return mgl32.LookAtV(eye, eye.Add(dir), up)
}
