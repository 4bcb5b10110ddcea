package anm

import (
	"log"

	"github.com/mogaika/mdx_browser/mdx"
)

// System binds a model's skeleton, its pose buffer and the geoset alpha
// state together and evaluates them frame by frame. A System is built
// once per loaded model; loading another model means building a new
// System and swapping it in as a whole.
type System struct {
	model *mdx.Model
	skel  *Skeleton
	pose  *Pose

	geosetVisible []bool

	frame float32
}

func NewSystem(m *mdx.Model) *System {
	sk := NewSkeleton(m)
	s := &System{
		model:         m,
		skel:          sk,
		pose:          NewPose(sk),
		geosetVisible: make([]bool, len(m.Geosets)),
	}
	log.Printf("[anm] system ready: %d bones, %d helpers, %d tracks, %d geosets",
		sk.BoneCount(), len(sk.Joints)-sk.BoneCount(), len(sk.Tracks), len(m.Geosets))
	s.ResetBasePose()
	return s
}

// Update evaluates the whole skeleton and the geoset alpha channels at
// frame. The pose buffer is recomputed in full; nothing carries over
// from the previous frame.
func (s *System) Update(frame float32) {
	s.frame = frame
	s.skel.EvaluatePose(frame, s.pose)
	s.updateGeosetAnims(frame)
}

// ResetBasePose evaluates frame 0, the rest/base pose.
func (s *System) ResetBasePose() {
	s.Update(0)
}

func (s *System) updateGeosetAnims(frame float32) {
	for i := range s.geosetVisible {
		s.geosetVisible[i] = true
	}
	for i := range s.model.GeosetAnims {
		ga := &s.model.GeosetAnims[i]
		if ga.GeosetID < 0 || int(ga.GeosetID) >= len(s.geosetVisible) {
			continue
		}
		alpha := ga.Alpha
		if t := s.skel.track(ga.AlphaIdx); t != nil {
			data := t.Evaluate(frame)
			if len(data) > 0 {
				alpha = data[0]
			}
		}
		s.geosetVisible[ga.GeosetID] = alpha > visibilityThreshold
	}
}

func (s *System) Skeleton() *Skeleton {
	return s.skel
}

// Pose returns the working buffer of the last Update. The caller must
// not hold it across a model swap.
func (s *System) Pose() *Pose {
	return s.pose
}

func (s *System) CurrentFrame() float32 {
	return s.frame
}

func (s *System) GeosetVisible(idx int) bool {
	if idx < 0 || idx >= len(s.geosetVisible) {
		return true
	}
	return s.geosetVisible[idx]
}

// DeformGeoset skins geoset idx against the last evaluated pose into
// freshly allocated buffers.
func (s *System) DeformGeoset(idx int) (positions, normals [][3]float32) {
	g := &s.model.Geosets[idx]
	positions = make([][3]float32, len(g.Vertices))
	normals = make([][3]float32, len(g.Vertices))
	DeformGeoset(g, s.skel, s.pose, positions, normals)
	return positions, normals
}
