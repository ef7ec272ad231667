package loader

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/kestrelgraphics/terraview/common"
	"github.com/kestrelgraphics/terraview/engine/model"
	"github.com/udhos/gwob"
)

// objLoaderBackendImpl is the implementation of objLoaderBackend.
type objLoaderBackendImpl struct {
	options *gwob.ObjParserOptions
}

// objLoaderBackend is a loaderBackend implementation for Wavefront OBJ files.
// Parsing is delegated to gwob; this backend converts the strided coordinate
// data into the engine's GPU vertex layout and resolves the material library.
type objLoaderBackend interface {
	loaderBackend
}

var _ objLoaderBackend = &objLoaderBackendImpl{}

// newOBJLoaderBackend creates a new OBJ loader backend.
//
// Returns:
//   - objLoaderBackend: the loader backend for OBJ files
func newOBJLoaderBackend() objLoaderBackend {
	return &objLoaderBackendImpl{
		options: &gwob.ObjParserOptions{
			LogStats: false,
			Logger:   func(msg string) { log.Printf("loader: obj: %s", msg) },
		},
	}
}

func (b *objLoaderBackendImpl) Load(path string) (*model.ImportedModel, error) {
	o, err := gwob.NewObjFromFile(path, b.options)
	if err != nil {
		return nil, fmt.Errorf("failed to parse OBJ %s: %w", path, err)
	}

	name := filepath.Base(path)
	imported := b.objToImported(name, o)

	// Resolve the material library relative to the OBJ file.
	if o.Mtllib != "" {
		mtlPath := filepath.Join(filepath.Dir(path), o.Mtllib)
		lib, mtlErr := gwob.ReadMaterialLibFromFile(mtlPath, b.options)
		if mtlErr != nil {
			// A missing material library is not fatal; the model renders with
			// its fallback material.
			log.Printf("loader: obj: material lib %s unavailable: %v", mtlPath, mtlErr)
		} else {
			b.attachMaterials(imported, o, lib, filepath.Dir(path))
		}
	}

	return imported, nil
}

func (b *objLoaderBackendImpl) LoadBuf(name string, data []byte) (*model.ImportedModel, error) {
	o, err := gwob.NewObjFromBuf(name, data, b.options)
	if err != nil {
		return nil, fmt.Errorf("failed to parse OBJ buffer %q: %w", name, err)
	}
	return b.objToImported(name, o), nil
}

// objToImported converts a parsed gwob.Obj into the engine's ImportedModel.
// gwob produces a single strided coordinate array shared by all groups, so the
// entire object becomes one mesh; group material assignments are resolved in
// attachMaterials.
func (b *objLoaderBackendImpl) objToImported(name string, o *gwob.Obj) *model.ImportedModel {
	floatsPerVertex := o.StrideSize / 4
	vertexCount := 0
	if floatsPerVertex > 0 {
		vertexCount = len(o.Coord) / floatsPerVertex
	}

	offPos := o.StrideOffsetPosition / 4
	offTex := o.StrideOffsetTexture / 4
	offNorm := o.StrideOffsetNormal / 4

	vertices := make([]model.GPUVertex, vertexCount)
	boundingMin := [3]float32{0, 0, 0}
	boundingMax := [3]float32{0, 0, 0}

	for i := 0; i < vertexCount; i++ {
		base := i * floatsPerVertex

		v := model.GPUVertex{
			Position: [3]float32{
				o.Coord[base+offPos],
				o.Coord[base+offPos+1],
				o.Coord[base+offPos+2],
			},
		}
		if o.TextCoordFound {
			// OBJ texture coordinates use a bottom-left origin; WebGPU samples
			// with a top-left origin, so V is flipped here.
			v.TexCoord = [2]float32{
				o.Coord[base+offTex],
				1.0 - o.Coord[base+offTex+1],
			}
		}
		if o.NormCoordFound {
			v.Normal = [3]float32{
				o.Coord[base+offNorm],
				o.Coord[base+offNorm+1],
				o.Coord[base+offNorm+2],
			}
		}
		vertices[i] = v

		if i == 0 {
			boundingMin = v.Position
			boundingMax = v.Position
			continue
		}
		for axis := 0; axis < 3; axis++ {
			if v.Position[axis] < boundingMin[axis] {
				boundingMin[axis] = v.Position[axis]
			}
			if v.Position[axis] > boundingMax[axis] {
				boundingMax[axis] = v.Position[axis]
			}
		}
	}

	indices := make([]uint32, len(o.Indices))
	for i, idx := range o.Indices {
		indices[i] = uint32(idx)
	}

	return &model.ImportedModel{
		Name: name,
		Meshes: []model.ImportedMesh{
			{
				Name:          name,
				Vertices:      vertices,
				Indices:       indices,
				MaterialIndex: -1,
				BoundingMin:   boundingMin,
				BoundingMax:   boundingMax,
			},
		},
	}
}

// attachMaterials resolves the material referenced by each OBJ group against the
// parsed material library and records it on the imported model. Diffuse texture
// paths (map_Kd) are resolved relative to the OBJ file's directory.
func (b *objLoaderBackendImpl) attachMaterials(imported *model.ImportedModel, o *gwob.Obj, lib gwob.MaterialLib, baseDir string) {
	seen := make(map[string]int)

	for _, group := range o.Groups {
		if group.Usemtl == "" {
			continue
		}
		if _, ok := seen[group.Usemtl]; ok {
			continue
		}

		mtl, found := lib.Lib[group.Usemtl]
		if !found {
			log.Printf("loader: obj: group %q references unknown material %q", group.Name, group.Usemtl)
			continue
		}

		imp := common.ImportedMaterial{
			Name:      mtl.Name,
			BaseColor: [4]float32{mtl.Kd[0], mtl.Kd[1], mtl.Kd[2], 1.0},
		}
		if mtl.MapKd != "" {
			texPath := filepath.Join(baseDir, mtl.MapKd)
			imp.DiffuseTexturePath = texPath
			imp.DiffuseTexture = &common.ImportedTexture{
				Name: mtl.Name + "_diffuse",
				Path: texPath,
			}
		}

		seen[group.Usemtl] = len(imported.Materials)
		imported.Materials = append(imported.Materials, imp)
	}

	// Assign the first material to the combined mesh when any were found.
	if len(imported.Materials) > 0 && len(imported.Meshes) > 0 {
		imported.Meshes[0].MaterialIndex = 0
	}
}
