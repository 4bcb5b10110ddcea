package anm

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/mdx_browser/mdx"
	"github.com/mogaika/mdx_browser/utils"
)

type Interpolation int

const (
	INTERP_STEP Interpolation = iota
	INTERP_LINEAR
	INTERP_HERMITE
)

// Track is one channel's keyframe sequence. Tracks are owned by the
// skeleton's controller table and referenced by index from joints;
// rotation channels additionally interpolate spherically (see
// EvaluateQuat), everything else goes through Evaluate.
type Track struct {
	Interp      Interpolation
	GlobalSeqID int32
	Keyframes   []mdx.Keyframe
}

func newTrack(c *mdx.Controller) Track {
	interp := INTERP_LINEAR
	switch c.InterpolationType {
	case mdx.INTERP_DONT:
		interp = INTERP_STEP
	case mdx.INTERP_LINEAR:
		interp = INTERP_LINEAR
	case mdx.INTERP_HERMITE, mdx.INTERP_BEZIER:
		interp = INTERP_HERMITE
	}
	return Track{
		Interp:      interp,
		GlobalSeqID: c.GlobalSeqID,
		Keyframes:   c.Keyframes,
	}
}

// bracket finds the tightest keyframe pair with
// before.Frame <= frame <= after.Frame. Keyframes are expected sorted by
// frame, but the linear scan stays correct enough on sloppy documents to
// never crash on them.
func (t *Track) bracket(frame float32) (before, after int) {
	before, after = -1, -1
	for i := range t.Keyframes {
		f := float32(t.Keyframes[i].Frame)
		if f <= frame {
			before = i
		}
		if f >= frame && after == -1 {
			after = i
			break
		}
	}
	return before, after
}

// Evaluate returns the channel value at an arbitrary, possibly
// fractional, frame. Frames outside the keyframe range clamp to the
// first/last keyframe. Calling this on an empty track is a caller bug;
// model loading demotes empty-track references so it cannot happen for
// parsed documents.
func (t *Track) Evaluate(frame float32) []float32 {
	before, after := t.bracket(frame)

	if before == -1 {
		return copyData(t.Keyframes[0].Data)
	}
	if after == -1 {
		return copyData(t.Keyframes[len(t.Keyframes)-1].Data)
	}
	if before == after {
		return copyData(t.Keyframes[before].Data)
	}

	kfBefore := &t.Keyframes[before]
	kfAfter := &t.Keyframes[after]
	s := (frame - float32(kfBefore.Frame)) / float32(kfAfter.Frame-kfBefore.Frame)

	switch t.Interp {
	case INTERP_STEP:
		return copyData(kfBefore.Data)
	case INTERP_HERMITE:
		return hermite(kfBefore, kfAfter, s)
	default:
		out := make([]float32, len(kfBefore.Data))
		for i, b := range kfBefore.Data {
			a := utils.FloatOrZero(kfAfter.Data, i)
			out[i] = b + (a-b)*s
		}
		return out
	}
}

// EvaluateQuat evaluates a rotation channel. Linear rotation tracks use
// normalized spherical interpolation instead of the per-component lerp,
// which is the only place the mode sets of scalar and rotation channels
// differ.
func (t *Track) EvaluateQuat(frame float32) mgl32.Quat {
	before, after := t.bracket(frame)

	if before == -1 {
		return utils.QuatFromData(t.Keyframes[0].Data)
	}
	if after == -1 {
		return utils.QuatFromData(t.Keyframes[len(t.Keyframes)-1].Data)
	}
	if before == after {
		return utils.QuatFromData(t.Keyframes[before].Data)
	}

	kfBefore := &t.Keyframes[before]
	kfAfter := &t.Keyframes[after]
	s := (frame - float32(kfBefore.Frame)) / float32(kfAfter.Frame-kfBefore.Frame)

	switch t.Interp {
	case INTERP_STEP:
		return utils.QuatFromData(kfBefore.Data)
	case INTERP_HERMITE:
		return utils.QuatFromData(hermite(kfBefore, kfAfter, s))
	default:
		q1 := utils.QuatFromData(kfBefore.Data).Normalize()
		q2 := utils.QuatFromData(kfAfter.Data).Normalize()
		return mgl32.QuatSlerp(q1, q2, s)
	}
}

// hermite blends with the cubic basis over before/after values and the
// outgoing/incoming tangents. Missing tangent components count as zero.
func hermite(before, after *mdx.Keyframe, s float32) []float32 {
	s2 := s * s
	s3 := s2 * s
	h1 := 2.0*s3 - 3.0*s2 + 1.0
	h2 := -2.0*s3 + 3.0*s2
	h3 := s3 - 2.0*s2 + s
	h4 := s3 - s2

	out := make([]float32, len(before.Data))
	for i, b := range before.Data {
		a := utils.FloatOrZero(after.Data, i)
		outTan := utils.FloatOrZero(before.OutTan, i)
		inTan := utils.FloatOrZero(after.InTan, i)
		out[i] = h1*b + h2*a + h3*outTan + h4*inTan
	}
	return out
}

func copyData(data []float32) []float32 {
	out := make([]float32, len(data))
	copy(out, data)
	return out
}
