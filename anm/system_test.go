package anm

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/mdx_browser/mdx"
)

func spinModel() *mdx.Model {
	s := float32(math.Sqrt(0.5))
	m := &mdx.Model{
		Name:  "spin",
		Bones: []mdx.Node{restNode("root", 0, mdx.NODE_PARENT_NONE, [3]float32{0, 0, 0})},
		Controllers: []mdx.Controller{{
			InterpolationType: mdx.INTERP_LINEAR,
			GlobalSeqID:       -1,
			Keyframes: []mdx.Keyframe{
				{Frame: 0, Data: []float32{0, 0, 0, 1}},
				{Frame: 10, Data: []float32{0, 0, s, s}},
			},
		}},
		Geosets: []mdx.Geoset{{
			Vertices:     [][3]float32{{1, 0, 0}},
			Normals:      [][3]float32{{1, 0, 0}},
			Faces:        [][3]uint32{{0, 0, 0}},
			VertexGroups: []uint8{0},
			MatrixGroups: [][]uint32{{0}},
		}},
	}
	m.Bones[0].RotationIdx = 0
	return m
}

func TestSystemHalfwayRotation(t *testing.T) {
	s := NewSystem(spinModel())
	s.Update(5)

	// Halfway between identity and 90 degrees about Z the slerp yields
	// a 45 degree rotation, carrying the vertex to (cos45, sin45, 0).
	pos, _ := s.DeformGeoset(0)
	want := mgl32.Vec3{float32(math.Sqrt(0.5)), float32(math.Sqrt(0.5)), 0}
	if !almostEqualVec3(mgl32.Vec3(pos[0]), want) {
		t.Errorf("vertex at frame 5 %v; expected %v", pos[0], want)
	}

	if s.CurrentFrame() != 5 {
		t.Errorf("current frame %v; expected 5", s.CurrentFrame())
	}
}

func TestSystemBasePoseReset(t *testing.T) {
	s := NewSystem(spinModel())
	s.Update(10)
	s.ResetBasePose()

	pos, _ := s.DeformGeoset(0)
	if !almostEqualVec3(mgl32.Vec3(pos[0]), mgl32.Vec3{1, 0, 0}) {
		t.Errorf("vertex after reset %v; expected rest position (1,0,0)", pos[0])
	}
	if s.CurrentFrame() != 0 {
		t.Errorf("current frame %v; expected 0", s.CurrentFrame())
	}
}

func TestSystemGeosetAnimAlpha(t *testing.T) {
	m := spinModel()
	m.Controllers = append(m.Controllers, mdx.Controller{
		InterpolationType: mdx.INTERP_LINEAR,
		GlobalSeqID:       -1,
		Keyframes: []mdx.Keyframe{
			{Frame: 0, Data: []float32{1}},
			{Frame: 10, Data: []float32{0}},
		},
	})
	m.GeosetAnims = []mdx.GeosetAnim{{GeosetID: 0, Alpha: 1, AlphaIdx: 1}}

	s := NewSystem(m)

	if !s.GeosetVisible(0) {
		t.Errorf("geoset hidden at frame 0; expected visible")
	}
	s.Update(9.5)
	if s.GeosetVisible(0) {
		t.Errorf("geoset visible at frame 9.5; expected hidden below threshold")
	}
}

func TestSystemGeosetAnimStaticAlpha(t *testing.T) {
	m := spinModel()
	m.GeosetAnims = []mdx.GeosetAnim{{GeosetID: 0, Alpha: 0.1, AlphaIdx: -1}}

	s := NewSystem(m)
	if s.GeosetVisible(0) {
		t.Errorf("geoset visible with static alpha 0.1; expected hidden")
	}
}

func TestSystemGeosetVisibleOutOfRange(t *testing.T) {
	s := NewSystem(spinModel())
	if !s.GeosetVisible(-1) || !s.GeosetVisible(100) {
		t.Errorf("out-of-range geoset ids should report visible")
	}
}
