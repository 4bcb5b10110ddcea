package mdx

import (
	"encoding/json"
	"io"
	"io/ioutil"
	"log"
	"os"

	"github.com/pkg/errors"

	"github.com/mogaika/mdx_browser/utils"
)

// NewModelFromData decodes a model document and normalizes it so the
// animation core never has to re-check controller references.
func NewModelFromData(data []byte) (*Model, error) {
	m := new(Model)
	if err := json.Unmarshal(data, m); err != nil {
		return nil, errors.Wrapf(err, "Failed to unmarshal model document")
	}
	m.normalize()
	return m, nil
}

func NewModelFromReader(r io.Reader) (*Model, error) {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to read model document")
	}
	return NewModelFromData(data)
}

func LoadModelFromFile(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to open %q", path)
	}
	defer f.Close()
	return NewModelFromReader(f)
}

// normalize fixes up quirks that real-world documents carry: unnamed
// nodes, controller references that point nowhere, and referenced
// controllers without a single keyframe. Every recovery logs and keeps
// loading; the model must stay renderable in a degraded state.
func (m *Model) normalize() {
	for i := range m.Bones {
		m.normalizeNode(&m.Bones[i], "bone")
	}
	for i := range m.Helpers {
		m.normalizeNode(&m.Helpers[i], "helper")
	}
	for i := range m.GeosetAnims {
		ga := &m.GeosetAnims[i]
		ga.AlphaIdx = m.demoteBadController(ga.AlphaIdx, "geoset anim alpha")
	}
}

func (m *Model) normalizeNode(n *Node, kind string) {
	if n.Name == "" {
		n.Name = utils.RandomNodeName()
		log.Printf("[mdx] unnamed %s (object_id %d) renamed to %q", kind, n.ObjectID, n.Name)
	}
	n.TranslationIdx = m.demoteBadController(n.TranslationIdx, n.Name+" translation")
	n.RotationIdx = m.demoteBadController(n.RotationIdx, n.Name+" rotation")
	n.ScalingIdx = m.demoteBadController(n.ScalingIdx, n.Name+" scaling")
	n.VisibilityIdx = m.demoteBadController(n.VisibilityIdx, n.Name+" visibility")
}

// demoteBadController turns an out-of-range or empty controller reference
// into "not animated". Evaluating an empty track is a precondition
// violation, so such references must never reach the evaluator.
func (m *Model) demoteBadController(idx int32, channel string) int32 {
	if idx < 0 {
		return -1
	}
	if int(idx) >= len(m.Controllers) {
		log.Printf("[mdx] %s references controller %d of %d, dropping channel", channel, idx, len(m.Controllers))
		return -1
	}
	if len(m.Controllers[idx].Keyframes) == 0 {
		log.Printf("[mdx] %s references empty controller %d, dropping channel", channel, idx)
		return -1
	}
	return idx
}
