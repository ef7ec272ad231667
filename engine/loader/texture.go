package loader

import (
	"fmt"
	"image"
	"log"

	"github.com/anthonynsimon/bild/transform"
	"github.com/kestrelgraphics/terraview/common"
)

// maxTextureDim is the largest texture dimension uploaded to the GPU. Images
// larger than this are downscaled to fit while preserving aspect ratio, since
// wgpu adapters commonly reject textures beyond 8192 texels per side.
const maxTextureDim = 8192

// decodeTexture decodes an ImportedTexture to RGBA staging data ready for GPU
// upload, downscaling oversized images to the adapter-safe limit.
//
// Parameters:
//   - tex: the texture reference to decode (embedded bytes or file path)
//
// Returns:
//   - common.TextureStagingData: the RGBA pixel data with dimensions
//   - error: error if decoding fails
func decodeTexture(tex *common.ImportedTexture) (common.TextureStagingData, error) {
	img, err := tex.Decode()
	if err != nil {
		return common.TextureStagingData{}, err
	}
	return common.ToRGBA(clampTextureSize(img)), nil
}

// decodeTextureOrFallback decodes a texture, substituting the checkerboard
// placeholder when the source is missing or undecodable. The viewer keeps
// running with visibly wrong (but obvious) texels rather than failing to start.
func decodeTextureOrFallback(tex *common.ImportedTexture) common.TextureStagingData {
	if tex == nil {
		return CheckerboardTexture(64, 8)
	}
	staging, err := decodeTexture(tex)
	if err != nil {
		log.Printf("loader: texture %q: %v; using checkerboard fallback", tex.Name, err)
		return CheckerboardTexture(64, 8)
	}
	return staging
}

// clampTextureSize downscales an image so that neither dimension exceeds
// maxTextureDim, preserving aspect ratio. Images within the limit are returned
// unchanged.
func clampTextureSize(img image.Image) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxTextureDim && h <= maxTextureDim {
		return img
	}

	scale := float64(maxTextureDim) / float64(w)
	if h > w {
		scale = float64(maxTextureDim) / float64(h)
	}
	newW := int(float64(w) * scale)
	newH := int(float64(h) * scale)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}
	return transform.Resize(img, newW, newH, transform.Linear)
}

// CheckerboardTexture generates a magenta/black checkerboard used as the
// fallback when a texture file is missing or fails to decode.
//
// Parameters:
//   - size: the texture width and height in pixels
//   - squares: the number of checker squares along each axis
//
// Returns:
//   - common.TextureStagingData: the RGBA checkerboard pixel data
func CheckerboardTexture(size, squares int) common.TextureStagingData {
	if size < 1 {
		size = 1
	}
	if squares < 1 {
		squares = 1
	}
	squareSize := size / squares
	if squareSize < 1 {
		squareSize = 1
	}

	pixels := make([]byte, size*size*4)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			i := (y*size + x) * 4
			if ((x/squareSize)+(y/squareSize))%2 == 0 {
				pixels[i] = 255 // magenta
				pixels[i+2] = 255
			}
			pixels[i+3] = 255
		}
	}

	return common.TextureStagingData{
		Pixels: pixels,
		Width:  uint32(size),
		Height: uint32(size),
	}
}

// LoadTextureFile loads a standalone image file into an ImportedTexture
// reference without decoding it. Decoding happens lazily at GPU init so
// texture files can be fanned out across the loader's worker pool.
//
// Parameters:
//   - name: the identifier for the texture
//   - path: the image file path
//
// Returns:
//   - *common.ImportedTexture: the texture reference
func LoadTextureFile(name, path string) *common.ImportedTexture {
	return &common.ImportedTexture{
		Name: name,
		Path: path,
	}
}

// formatTextureLabel builds a stable provider label for a standalone texture.
func formatTextureLabel(modelName, textureName string, index int) string {
	return fmt.Sprintf("%s_texture_%d_%s", modelName, index, textureName)
}
