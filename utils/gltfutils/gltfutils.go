package gltfutils

import (
	"io"

	"github.com/qmuntal/gltf"
)

func NewDocument() *gltf.Document {
	return gltf.NewDocument()
}

// ExportBinary links every node into the default scene and writes the
// document as .glb.
func ExportBinary(w io.Writer, doc *gltf.Document) error {
	doc.Scenes[0].Nodes = doc.Scenes[0].Nodes[:0]
	for iNode := range doc.Nodes {
		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, uint32(iNode))
	}

	encoder := gltf.NewEncoder(w)
	encoder.AsBinary = true
	return encoder.Encode(doc)
}
