package main

import (
	"fmt"
	"strings"

	"github.com/chewxy/math32"
)

// generateTerrainGrid builds an OBJ-format heightfield used when no model is
// configured: a size×size world-unit grid of cells×cells quads, displaced by a
// rolling sine/cosine pattern. Texture coordinates span the full [0, 1] range
// across the grid so any texture tiles exactly once.
//
// Parameters:
//   - cells: the number of quads along each axis (minimum 1)
//   - size: the world-space edge length of the grid
//   - amplitude: the peak height of the rolling pattern
//
// Returns:
//   - []byte: the OBJ file contents
func generateTerrainGrid(cells int, size, amplitude float32) []byte {
	if cells < 1 {
		cells = 1
	}

	var b strings.Builder
	b.WriteString("# procedural terrain grid\n")

	verts := cells + 1
	step := size / float32(cells)
	half := size / 2

	for z := 0; z < verts; z++ {
		for x := 0; x < verts; x++ {
			wx := float32(x)*step - half
			wz := float32(z)*step - half
			wy := terrainHeight(wx, wz, amplitude)
			fmt.Fprintf(&b, "v %g %g %g\n", wx, wy, wz)
		}
	}

	for z := 0; z < verts; z++ {
		for x := 0; x < verts; x++ {
			fmt.Fprintf(&b, "vt %g %g\n", float32(x)/float32(cells), float32(z)/float32(cells))
		}
	}

	// Normals from the analytic height gradient.
	for z := 0; z < verts; z++ {
		for x := 0; x < verts; x++ {
			wx := float32(x)*step - half
			wz := float32(z)*step - half
			nx, ny, nz := terrainNormal(wx, wz, amplitude)
			fmt.Fprintf(&b, "vn %g %g %g\n", nx, ny, nz)
		}
	}

	// Two CCW triangles per cell. OBJ indices are 1-based.
	for z := 0; z < cells; z++ {
		for x := 0; x < cells; x++ {
			tl := z*verts + x + 1
			tr := tl + 1
			bl := tl + verts
			br := bl + 1
			fmt.Fprintf(&b, "f %d/%d/%d %d/%d/%d %d/%d/%d\n", tl, tl, tl, bl, bl, bl, tr, tr, tr)
			fmt.Fprintf(&b, "f %d/%d/%d %d/%d/%d %d/%d/%d\n", tr, tr, tr, bl, bl, bl, br, br, br)
		}
	}

	return []byte(b.String())
}

// terrainHeight evaluates the rolling height pattern at a world XZ position.
func terrainHeight(x, z, amplitude float32) float32 {
	return amplitude * math32.Sin(x*0.35) * math32.Cos(z*0.35)
}

// terrainNormal computes the surface normal at a world XZ position from the
// partial derivatives of terrainHeight.
func terrainNormal(x, z, amplitude float32) (nx, ny, nz float32) {
	dx := amplitude * 0.35 * math32.Cos(x*0.35) * math32.Cos(z*0.35)
	dz := -amplitude * 0.35 * math32.Sin(x*0.35) * math32.Sin(z*0.35)
	length := math32.Sqrt(dx*dx + 1 + dz*dz)
	return -dx / length, 1 / length, -dz / length
}
