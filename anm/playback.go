package anm

import (
	"github.com/mogaika/mdx_browser/mdx"
)

// DefaultFrameRate is how many track-time frames pass per wall-clock
// second. MDX sequence intervals are expressed in milliseconds.
const DefaultFrameRate = 1000.0

// Playback tracks where on a sequence's timeline the viewer currently
// is. It only moves the frame cursor; evaluation stays in System.
type Playback struct {
	sequences []mdx.Sequence
	seq       int

	frame     float64
	speed     float64
	frameRate float64
	playing   bool
}

func NewPlayback(m *mdx.Model) *Playback {
	pb := &Playback{
		sequences: m.Sequences,
		seq:       -1,
		speed:     1.0,
		frameRate: DefaultFrameRate,
	}
	if len(pb.sequences) != 0 {
		pb.SetSequence(0)
	}
	return pb
}

// SetSequence selects the active sequence and rewinds to its first
// frame. Out-of-range ids deselect and stop playback.
func (pb *Playback) SetSequence(idx int) {
	if idx < 0 || idx >= len(pb.sequences) {
		pb.seq = -1
		pb.frame = 0
		pb.playing = false
		return
	}
	pb.seq = idx
	pb.frame = float64(pb.sequences[idx].StartFrame)
}

func (pb *Playback) Sequence() int {
	return pb.seq
}

func (pb *Playback) Play() {
	if pb.seq >= 0 {
		pb.playing = true
	}
}

func (pb *Playback) Pause() {
	pb.playing = false
}

func (pb *Playback) Playing() bool {
	return pb.playing
}

func (pb *Playback) SetSpeed(speed float64) {
	pb.speed = speed
}

func (pb *Playback) SetFrameRate(fps float64) {
	if fps > 0 {
		pb.frameRate = fps
	}
}

func (pb *Playback) Seek(frame float64) {
	pb.frame = frame
}

func (pb *Playback) Frame() float64 {
	return pb.frame
}

// Advance moves the frame cursor by dt seconds of wall-clock time.
// Looping sequences wrap inside their interval; non-looping ones clamp
// at the last frame and pause. Returns the new frame.
func (pb *Playback) Advance(dt float64) float64 {
	if !pb.playing || pb.seq < 0 {
		return pb.frame
	}

	seq := &pb.sequences[pb.seq]
	start, end := float64(seq.StartFrame), float64(seq.EndFrame)

	pb.frame += dt * pb.frameRate * pb.speed
	if pb.frame >= end {
		if seq.NonLooping || end <= start {
			pb.frame = end
			pb.playing = false
		} else {
			span := end - start
			for pb.frame >= end {
				pb.frame -= span
			}
		}
	}
	return pb.frame
}
