package viewer

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/mogaika/mdx_browser/utils/gltfutils"
)

// ExportGLTF writes a posed snapshot of the current model as binary glTF:
// one mesh per visible geoset with vertices already deformed at frame,
// plus a flat node per joint carrying its world-space position for the
// skeleton overlay. Hierarchy and skin weights are intentionally baked
// out, the consumer gets final geometry.
func (v *Viewer) ExportGLTF(w io.Writer, frame float32) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.system == nil {
		return errors.Errorf("No model loaded")
	}

	v.system.Update(frame)

	doc := gltfutils.NewDocument()

	doc.Materials = append(doc.Materials, &gltf.Material{
		Name:        "default",
		DoubleSided: true,
	})

	for iGeoset := range v.model.Geosets {
		g := &v.model.Geosets[iGeoset]
		if len(g.Vertices) == 0 || !v.system.GeosetVisible(iGeoset) {
			continue
		}

		positions, normals := v.system.DeformGeoset(iGeoset)

		attributes := make(map[string]uint32)
		attributes["POSITION"] = modeler.WritePosition(doc, positions)
		if len(g.Normals) == len(g.Vertices) {
			attributes["NORMAL"] = modeler.WriteNormal(doc, normals)
		}
		if len(g.TexCoords) == len(g.Vertices) {
			attributes["TEXCOORD_0"] = modeler.WriteTextureCoord(doc, g.TexCoords)
		}

		indices := make([]uint32, 0, len(g.Faces)*3)
		for _, face := range g.Faces {
			indices = append(indices, face[0], face[1], face[2])
		}
		indicesAccessor := modeler.WriteIndices(doc, indices)

		gltfMesh := &gltf.Mesh{
			Name: fmt.Sprintf("%s_geoset%d", v.model.Name, iGeoset),
			Primitives: []*gltf.Primitive{
				{
					Indices:    &indicesAccessor,
					Attributes: attributes,
					Material:   gltf.Index(0),
				},
			},
		}
		doc.Meshes = append(doc.Meshes, gltfMesh)
		doc.Nodes = append(doc.Nodes, &gltf.Node{
			Name: gltfMesh.Name,
			Mesh: gltf.Index(uint32(len(doc.Meshes) - 1)),
		})
	}

	sk := v.system.Skeleton()
	pose := v.system.Pose()
	for i := range sk.Joints {
		doc.Nodes = append(doc.Nodes, &gltf.Node{
			Name:        sk.Joints[i].Name,
			Translation: pose.Joints[i].Pos,
		})
	}

	return gltfutils.ExportBinary(w, doc)
}
