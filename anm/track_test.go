package anm

import (
	"math"
	"testing"

	"github.com/mogaika/mdx_browser/mdx"
)

func almostEqual(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-5
}

func almostEqualSlice(a, b []float32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !almostEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

func linearTrack(frames []int32, values [][]float32) Track {
	kfs := make([]mdx.Keyframe, len(frames))
	for i := range frames {
		kfs[i] = mdx.Keyframe{Frame: frames[i], Data: values[i]}
	}
	return Track{Interp: INTERP_LINEAR, GlobalSeqID: -1, Keyframes: kfs}
}

func TestTrackClamp(t *testing.T) {
	track := linearTrack(
		[]int32{10, 20, 30},
		[][]float32{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}})

	tests := []struct {
		frame float32
		want  []float32
	}{
		{-100, []float32{1, 2, 3}},
		{0, []float32{1, 2, 3}},
		{9.999, []float32{1, 2, 3}},
		{30.001, []float32{7, 8, 9}},
		{1e6, []float32{7, 8, 9}},
	}
	for _, test := range tests {
		if got := track.Evaluate(test.frame); !almostEqualSlice(got, test.want) {
			t.Errorf("Evaluate(%v)=%v; expected %v", test.frame, got, test.want)
		}
	}
}

func TestTrackExactHit(t *testing.T) {
	frames := []int32{0, 10, 25}
	values := [][]float32{{-1, 0, 1}, {3, 3, 3}, {0.5, 0.25, 0.125}}

	for _, interp := range []Interpolation{INTERP_STEP, INTERP_LINEAR} {
		track := linearTrack(frames, values)
		track.Interp = interp
		for i := range frames {
			got := track.Evaluate(float32(frames[i]))
			if !almostEqualSlice(got, values[i]) {
				t.Errorf("interp %v: Evaluate(%d)=%v; expected %v", interp, frames[i], got, values[i])
			}
		}
	}
}

func TestTrackSingleKeyframe(t *testing.T) {
	track := linearTrack([]int32{5}, [][]float32{{42}})
	for _, frame := range []float32{0, 5, 100} {
		if got := track.Evaluate(frame); !almostEqualSlice(got, []float32{42}) {
			t.Errorf("Evaluate(%v)=%v; expected [42]", frame, got)
		}
	}
}

func TestTrackLinearIsAffine(t *testing.T) {
	track := linearTrack([]int32{10, 20}, [][]float32{{2, -4}, {6, 4}})

	for _, s := range []float32{0, 0.25, 0.5, 0.75, 1} {
		frame := 10 + s*10
		want := []float32{2 + 4*s, -4 + 8*s}
		if got := track.Evaluate(frame); !almostEqualSlice(got, want) {
			t.Errorf("Evaluate(%v)=%v; expected %v", frame, got, want)
		}
	}
}

func TestTrackStepHoldsBefore(t *testing.T) {
	track := linearTrack([]int32{0, 10}, [][]float32{{1}, {2}})
	track.Interp = INTERP_STEP

	if got := track.Evaluate(9.5); !almostEqualSlice(got, []float32{1}) {
		t.Errorf("Evaluate(9.5)=%v; expected [1]", got)
	}
	if got := track.Evaluate(10); !almostEqualSlice(got, []float32{2}) {
		t.Errorf("Evaluate(10)=%v; expected [2]", got)
	}
}

func TestTrackHermite(t *testing.T) {
	track := Track{
		Interp:      INTERP_HERMITE,
		GlobalSeqID: -1,
		Keyframes: []mdx.Keyframe{
			{Frame: 0, Data: []float32{0}, InTan: []float32{0.1}, OutTan: []float32{0.8}},
			{Frame: 10, Data: []float32{1}, InTan: []float32{0.4}, OutTan: []float32{0.2}},
		},
	}

	// s=0.5: h1=h2=0.5, h3=0.125, h4=-0.125
	// 0.5*0 + 0.5*1 + 0.125*0.8 - 0.125*0.4 = 0.55
	if got := track.Evaluate(5); !almostEqualSlice(got, []float32{0.55}) {
		t.Errorf("Evaluate(5)=%v; expected [0.55]", got)
	}

	// Endpoints reproduce keyframe values exactly
	if got := track.Evaluate(0); !almostEqualSlice(got, []float32{0}) {
		t.Errorf("Evaluate(0)=%v; expected [0]", got)
	}
	if got := track.Evaluate(10); !almostEqualSlice(got, []float32{1}) {
		t.Errorf("Evaluate(10)=%v; expected [1]", got)
	}
}

func TestTrackHermiteMissingTangents(t *testing.T) {
	track := Track{
		Interp:      INTERP_HERMITE,
		GlobalSeqID: -1,
		Keyframes: []mdx.Keyframe{
			{Frame: 0, Data: []float32{0}},
			{Frame: 10, Data: []float32{1}},
		},
	}
	// With zero tangents the hermite basis reduces to a smoothstep
	if got := track.Evaluate(5); !almostEqualSlice(got, []float32{0.5}) {
		t.Errorf("Evaluate(5)=%v; expected [0.5]", got)
	}
}

func TestTrackSlerpUnitLength(t *testing.T) {
	q1 := []float32{0, 0, 0, 1}
	s := float32(math.Sqrt(0.5))
	q2 := []float32{0, 0, s, s} // 90 degrees about Z

	track := linearTrack([]int32{0, 10}, [][]float32{q1, q2})

	for _, frame := range []float32{0, 1, 3.3, 5, 7.5, 10} {
		q := track.EvaluateQuat(frame)
		if !almostEqual(q.Len(), 1) {
			t.Errorf("EvaluateQuat(%v) length %v; expected 1", frame, q.Len())
		}
	}
}

func TestTrackSlerpHalfway(t *testing.T) {
	s := float32(math.Sqrt(0.5))
	track := linearTrack([]int32{0, 10},
		[][]float32{{0, 0, 0, 1}, {0, 0, s, s}})

	// Halfway between identity and 90deg about Z is 45deg about Z
	q := track.EvaluateQuat(5)
	sin, cos := math.Sincos(math.Pi / 8)
	if !almostEqual(q.Z(), float32(sin)) || !almostEqual(q.W, float32(cos)) {
		t.Errorf("EvaluateQuat(5)=%v; expected 45 degree Z rotation", q)
	}
}

func TestTrackModeMapping(t *testing.T) {
	tests := []struct {
		code uint32
		want Interpolation
	}{
		{mdx.INTERP_DONT, INTERP_STEP},
		{mdx.INTERP_LINEAR, INTERP_LINEAR},
		{mdx.INTERP_HERMITE, INTERP_HERMITE},
		{mdx.INTERP_BEZIER, INTERP_HERMITE},
		{99, INTERP_LINEAR},
	}
	for _, test := range tests {
		c := mdx.Controller{InterpolationType: test.code, GlobalSeqID: -1}
		if got := newTrack(&c); got.Interp != test.want {
			t.Errorf("newTrack(type=%d).Interp=%v; expected %v", test.code, got.Interp, test.want)
		}
	}
}
