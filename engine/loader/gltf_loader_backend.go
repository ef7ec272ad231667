package loader

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/kestrelgraphics/terraview/common"
	"github.com/kestrelgraphics/terraview/engine/model"
	"github.com/qmuntal/gltf"
)

// gltfLoaderBackendImpl is the implementation of gltfLoaderBackend.
type gltfLoaderBackendImpl struct{}

// gltfLoaderBackend is a loaderBackend implementation for glTF/GLB files.
// Parsing is delegated to qmuntal/gltf; this backend reads the accessor data
// into the engine's GPU vertex layout and extracts base-color materials.
type gltfLoaderBackend interface {
	loaderBackend
}

var _ gltfLoaderBackend = &gltfLoaderBackendImpl{}

// newGLTFLoaderBackend creates a new glTF loader backend.
//
// Returns:
//   - gltfLoaderBackend: the loader backend for glTF/GLB files
func newGLTFLoaderBackend() gltfLoaderBackend {
	return &gltfLoaderBackendImpl{}
}

func (b *gltfLoaderBackendImpl) Load(path string) (*model.ImportedModel, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open glTF %s: %w", path, err)
	}
	return b.docToImported(filepath.Base(path), filepath.Dir(path), doc)
}

func (b *gltfLoaderBackendImpl) LoadBuf(name string, data []byte) (*model.ImportedModel, error) {
	doc := new(gltf.Document)
	if err := gltf.NewDecoder(bytes.NewReader(data)).Decode(doc); err != nil {
		return nil, fmt.Errorf("failed to decode glTF buffer %q: %w", name, err)
	}
	return b.docToImported(name, "", doc)
}

// docToImported converts a parsed glTF document into the engine's ImportedModel.
// Each glTF mesh becomes one ImportedMesh with its triangle primitives merged.
func (b *gltfLoaderBackendImpl) docToImported(name, baseDir string, doc *gltf.Document) (*model.ImportedModel, error) {
	imported := &model.ImportedModel{Name: name}

	for _, m := range doc.Meshes {
		mesh := model.ImportedMesh{
			Name:          m.Name,
			MaterialIndex: -1,
		}

		for _, prim := range m.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
				continue
			}

			posIdx, ok := prim.Attributes[gltf.POSITION]
			if !ok {
				continue
			}
			positions, err := readVec3Accessor(doc, posIdx)
			if err != nil {
				return nil, fmt.Errorf("mesh %q: read positions: %w", m.Name, err)
			}

			var normals [][3]float32
			if normIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
				normals, err = readVec3Accessor(doc, normIdx)
				if err != nil {
					return nil, fmt.Errorf("mesh %q: read normals: %w", m.Name, err)
				}
			}

			var uvs [][2]float32
			if uvIdx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
				uvs, err = readVec2Accessor(doc, uvIdx)
				if err != nil {
					return nil, fmt.Errorf("mesh %q: read uvs: %w", m.Name, err)
				}
			}

			baseVertex := uint32(len(mesh.Vertices))
			for i := range positions {
				v := model.GPUVertex{Position: positions[i]}
				if i < len(normals) {
					v.Normal = normals[i]
				}
				if i < len(uvs) {
					v.TexCoord = uvs[i]
				}
				mesh.Vertices = append(mesh.Vertices, v)

				if len(mesh.Vertices) == 1 {
					mesh.BoundingMin = v.Position
					mesh.BoundingMax = v.Position
					continue
				}
				for axis := 0; axis < 3; axis++ {
					if v.Position[axis] < mesh.BoundingMin[axis] {
						mesh.BoundingMin[axis] = v.Position[axis]
					}
					if v.Position[axis] > mesh.BoundingMax[axis] {
						mesh.BoundingMax[axis] = v.Position[axis]
					}
				}
			}

			if prim.Indices != nil {
				indices, err := readIndexAccessor(doc, *prim.Indices)
				if err != nil {
					return nil, fmt.Errorf("mesh %q: read indices: %w", m.Name, err)
				}
				for _, idx := range indices {
					mesh.Indices = append(mesh.Indices, baseVertex+idx)
				}
			} else {
				// Non-indexed primitive: emit sequential triangle indices.
				for i := uint32(0); i < uint32(len(positions)); i++ {
					mesh.Indices = append(mesh.Indices, baseVertex+i)
				}
			}

			if prim.Material != nil && mesh.MaterialIndex < 0 {
				mesh.MaterialIndex = int(*prim.Material)
			}
		}

		imported.Meshes = append(imported.Meshes, mesh)
	}

	for _, m := range doc.Materials {
		imp := common.ImportedMaterial{
			Name:      m.Name,
			BaseColor: [4]float32{1, 1, 1, 1},
		}
		if pbr := m.PBRMetallicRoughness; pbr != nil {
			if pbr.BaseColorFactor != nil {
				for i, c := range pbr.BaseColorFactor {
					imp.BaseColor[i] = float32(c)
				}
			}
			if pbr.BaseColorTexture != nil {
				tex, err := extractGLTFTexture(doc, baseDir, int(pbr.BaseColorTexture.Index))
				if err != nil {
					return nil, fmt.Errorf("material %q: %w", m.Name, err)
				}
				imp.DiffuseTexture = tex
				if tex != nil {
					imp.DiffuseTexturePath = tex.Path
				}
			}
		}
		imported.Materials = append(imported.Materials, imp)
	}

	return imported, nil
}

// extractGLTFTexture resolves a glTF texture index to its image data. Embedded
// images (GLB buffer views) are copied out as raw bytes; external images keep
// a path resolved against the document's directory.
func extractGLTFTexture(doc *gltf.Document, baseDir string, textureIndex int) (*common.ImportedTexture, error) {
	if textureIndex < 0 || textureIndex >= len(doc.Textures) {
		return nil, fmt.Errorf("texture index %d out of range", textureIndex)
	}
	tex := doc.Textures[textureIndex]
	if tex.Source == nil {
		return nil, nil
	}
	img := doc.Images[*tex.Source]

	if img.BufferView != nil {
		bv := doc.BufferViews[*img.BufferView]
		buf := doc.Buffers[bv.Buffer]
		if buf.Data == nil {
			return nil, fmt.Errorf("image %q: buffer has no data", img.Name)
		}
		start := int(bv.ByteOffset)
		end := start + int(bv.ByteLength)
		data := make([]byte, end-start)
		copy(data, buf.Data[start:end])
		return &common.ImportedTexture{
			Name:     img.Name,
			Data:     data,
			MimeType: img.MimeType,
		}, nil
	}

	if img.URI != "" {
		path := filepath.Join(baseDir, img.URI)
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("image %q: %w", img.URI, err)
		}
		return &common.ImportedTexture{
			Name: img.Name,
			Path: path,
		}, nil
	}

	return nil, nil
}

// readVec3Accessor reads VEC3 float data from a glTF accessor.
func readVec3Accessor(doc *gltf.Document, accessorIdx int) ([][3]float32, error) {
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec3 {
		return nil, fmt.Errorf("expected VEC3 accessor, got %v", accessor.Type)
	}

	data, stride, err := accessorBytes(doc, accessor)
	if err != nil {
		return nil, err
	}
	if stride == 0 {
		stride = 12
	}

	result := make([][3]float32, accessor.Count)
	for i := range result {
		offset := i * stride
		for j := 0; j < 3; j++ {
			result[i][j] = readFloat32LE(data[offset+j*4:])
		}
	}
	return result, nil
}

// readVec2Accessor reads VEC2 float data from a glTF accessor.
func readVec2Accessor(doc *gltf.Document, accessorIdx int) ([][2]float32, error) {
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec2 {
		return nil, fmt.Errorf("expected VEC2 accessor, got %v", accessor.Type)
	}

	data, stride, err := accessorBytes(doc, accessor)
	if err != nil {
		return nil, err
	}
	if stride == 0 {
		stride = 8
	}

	result := make([][2]float32, accessor.Count)
	for i := range result {
		offset := i * stride
		for j := 0; j < 2; j++ {
			result[i][j] = readFloat32LE(data[offset+j*4:])
		}
	}
	return result, nil
}

// readIndexAccessor reads scalar index data from a glTF accessor, widening
// ubyte and ushort component types to uint32.
func readIndexAccessor(doc *gltf.Document, accessorIdx int) ([]uint32, error) {
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorScalar {
		return nil, fmt.Errorf("expected SCALAR accessor, got %v", accessor.Type)
	}

	data, stride, err := accessorBytes(doc, accessor)
	if err != nil {
		return nil, err
	}

	result := make([]uint32, accessor.Count)
	switch accessor.ComponentType {
	case gltf.ComponentUbyte:
		if stride == 0 {
			stride = 1
		}
		for i := range result {
			result[i] = uint32(data[i*stride])
		}
	case gltf.ComponentUshort:
		if stride == 0 {
			stride = 2
		}
		for i := range result {
			offset := i * stride
			result[i] = uint32(data[offset]) | uint32(data[offset+1])<<8
		}
	case gltf.ComponentUint:
		if stride == 0 {
			stride = 4
		}
		for i := range result {
			offset := i * stride
			result[i] = uint32(data[offset]) |
				uint32(data[offset+1])<<8 |
				uint32(data[offset+2])<<16 |
				uint32(data[offset+3])<<24
		}
	default:
		return nil, fmt.Errorf("unsupported index component type: %v", accessor.ComponentType)
	}

	return result, nil
}

// accessorBytes resolves an accessor to the underlying buffer bytes starting at
// the accessor's first element, along with the buffer view's byte stride.
func accessorBytes(doc *gltf.Document, accessor *gltf.Accessor) ([]byte, int, error) {
	if accessor.BufferView == nil {
		return nil, 0, fmt.Errorf("accessor has no buffer view")
	}
	bv := doc.BufferViews[*accessor.BufferView]
	buf := doc.Buffers[bv.Buffer]
	if buf.Data == nil {
		return nil, 0, fmt.Errorf("buffer %d has no data", bv.Buffer)
	}
	start := int(bv.ByteOffset) + int(accessor.ByteOffset)
	return buf.Data[start:], int(bv.ByteStride), nil
}

// readFloat32LE reads a little-endian float32 from the start of b.
func readFloat32LE(b []byte) float32 {
	bits := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
	return math.Float32frombits(bits)
}
