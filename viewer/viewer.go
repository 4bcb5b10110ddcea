package viewer

import (
	"log"
	"sync"

	"github.com/pkg/errors"

	"github.com/mogaika/mdx_browser/anm"
	"github.com/mogaika/mdx_browser/mdx"
)

// Viewer owns the currently displayed model and its animation state.
// Model replacement is atomic: the new skeleton and system are fully
// built before the swap, an in-flight evaluation never observes a
// half-loaded model. All evaluation goes through the mutex because the
// animation system keeps a single pose scratch buffer.
type Viewer struct {
	mu sync.Mutex

	model    *mdx.Model
	system   *anm.System
	playback *anm.Playback
}

func NewViewer() *Viewer {
	return &Viewer{}
}

func (v *Viewer) LoadModelFile(path string) error {
	m, err := mdx.LoadModelFromFile(path)
	if err != nil {
		return errors.Wrapf(err, "Failed to load model %q", path)
	}
	v.ReplaceModel(m)
	log.Printf("[viewer] loaded model %q: %d geosets, %d sequences", m.Name, len(m.Geosets), len(m.Sequences))
	return nil
}

// ReplaceModel swaps in a fully built model.
func (v *Viewer) ReplaceModel(m *mdx.Model) {
	system := anm.NewSystem(m)
	playback := anm.NewPlayback(m)

	v.mu.Lock()
	v.model = m
	v.system = system
	v.playback = playback
	v.mu.Unlock()
}

func (v *Viewer) Model() *mdx.Model {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.model
}

// JointPoseInfo is the wire form of one evaluated joint, consumed by the
// skeleton overlay renderer.
type JointPoseInfo struct {
	Name     string
	Parent   int32
	Matrix   [9]float32
	Position [3]float32
	Visible  bool
}

// PoseAt evaluates the skeleton at frame and returns a snapshot of every
// joint's absolute transform.
func (v *Viewer) PoseAt(frame float32) ([]JointPoseInfo, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.system == nil {
		return nil, errors.Errorf("No model loaded")
	}
	v.system.Update(frame)
	return v.poseSnapshotLocked(), nil
}

func (v *Viewer) poseSnapshotLocked() []JointPoseInfo {
	sk := v.system.Skeleton()
	pose := v.system.Pose()
	out := make([]JointPoseInfo, len(sk.Joints))
	for i := range sk.Joints {
		jp := &pose.Joints[i]
		out[i] = JointPoseInfo{
			Name:     sk.Joints[i].Name,
			Parent:   sk.Joints[i].Parent,
			Matrix:   jp.Mat,
			Position: jp.Pos,
			Visible:  jp.Visible,
		}
	}
	return out
}

// GeosetDeform is the wire form of one skinned geoset.
type GeosetDeform struct {
	Geoset    int
	Frame     float32
	Visible   bool
	Positions [][3]float32
	Normals   [][3]float32
}

// DeformedGeoset evaluates frame and skins geoset idx against the
// resulting pose.
func (v *Viewer) DeformedGeoset(idx int, frame float32) (*GeosetDeform, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.system == nil {
		return nil, errors.Errorf("No model loaded")
	}
	if idx < 0 || idx >= len(v.model.Geosets) {
		return nil, errors.Errorf("Geoset %d out of range (%d geosets)", idx, len(v.model.Geosets))
	}
	v.system.Update(frame)
	positions, normals := v.system.DeformGeoset(idx)
	return &GeosetDeform{
		Geoset:    idx,
		Frame:     frame,
		Visible:   v.system.GeosetVisible(idx),
		Positions: positions,
		Normals:   normals,
	}, nil
}

// Advance moves playback by dt seconds and returns the pose snapshot at
// the new frame, used by the websocket pose stream.
func (v *Viewer) Advance(dt float64) (frame float64, pose []JointPoseInfo, ok bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.system == nil || v.playback == nil || !v.playback.Playing() {
		return 0, nil, false
	}
	frame = v.playback.Advance(dt)
	v.system.Update(float32(frame))
	return frame, v.poseSnapshotLocked(), true
}

func (v *Viewer) Play() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.playback != nil {
		v.playback.Play()
	}
}

func (v *Viewer) Pause() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.playback != nil {
		v.playback.Pause()
	}
}

func (v *Viewer) Seek(frame float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.playback != nil {
		v.playback.Seek(frame)
	}
}

func (v *Viewer) SetSequence(idx int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.playback != nil {
		v.playback.SetSequence(idx)
	}
}

func (v *Viewer) SetSpeed(speed float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.playback != nil {
		v.playback.SetSpeed(speed)
	}
}

func (v *Viewer) SetFrameRate(fps float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.playback != nil {
		v.playback.SetFrameRate(fps)
	}
}

// PlaybackState is the wire form of the playback cursor.
type PlaybackState struct {
	Playing  bool
	Frame    float64
	Sequence int
}

func (v *Viewer) Playback() PlaybackState {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.playback == nil {
		return PlaybackState{Sequence: -1}
	}
	return PlaybackState{
		Playing:  v.playback.Playing(),
		Frame:    v.playback.Frame(),
		Sequence: v.playback.Sequence(),
	}
}
