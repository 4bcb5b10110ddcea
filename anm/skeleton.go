package anm

import (
	"log"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/mdx_browser/mdx"
)

// Joint is one immutable skeleton slot. Bones and helpers share a single
// slot space: bones first, then helpers, because matrix groups and parent
// references address them that way.
type Joint struct {
	Name     string
	ObjectID uint32
	Parent   int32 // slot index of parent joint, -1 for roots
	Pivot    mgl32.Vec3

	// Track table indices, -1 when a channel is not animated
	Translation int32
	Rotation    int32
	Scaling     int32
	Visibility  int32

	Billboarded bool

	// Unresolvable joints sit on a cyclic parent chain. They are
	// evaluated as roots instead of hanging the propagation walk.
	Unresolvable bool
}

// Skeleton owns the joints and the track table built from the model's
// controllers. It is immutable after construction; per-frame state lives
// in Pose. Replacing a model means building a fresh Skeleton and swapping
// it in whole.
type Skeleton struct {
	Joints []Joint
	Tracks []Track

	boneCount int
}

// NewSkeleton resolves the model's bone and helper lists into the
// combined slot space. Parent references come in as ObjectIDs, not slot
// positions, so an ObjectID lookup is built once here and never again.
func NewSkeleton(m *mdx.Model) *Skeleton {
	sk := &Skeleton{
		Joints:    make([]Joint, 0, len(m.Bones)+len(m.Helpers)),
		Tracks:    make([]Track, len(m.Controllers)),
		boneCount: len(m.Bones),
	}

	for i := range m.Controllers {
		sk.Tracks[i] = newTrack(&m.Controllers[i])
	}

	slotByObjectID := make(map[uint32]int32, len(m.Bones)+len(m.Helpers))
	for i := range m.Bones {
		slotByObjectID[m.Bones[i].ObjectID] = int32(i)
	}
	for i := range m.Helpers {
		slotByObjectID[m.Helpers[i].ObjectID] = int32(len(m.Bones) + i)
	}

	addNode := func(n *mdx.Node) {
		parent := int32(-1)
		if n.ParentID != mdx.NODE_PARENT_NONE {
			if slot, ok := slotByObjectID[uint32(n.ParentID)]; ok {
				parent = slot
			} else {
				log.Printf("[anm] joint %q parent object_id %d not found, treating as root", n.Name, n.ParentID)
			}
		}
		sk.Joints = append(sk.Joints, Joint{
			Name:        n.Name,
			ObjectID:    n.ObjectID,
			Parent:      parent,
			Pivot:       mgl32.Vec3(n.PivotPoint),
			Translation: n.TranslationIdx,
			Rotation:    n.RotationIdx,
			Scaling:     n.ScalingIdx,
			Visibility:  n.VisibilityIdx,
			Billboarded: n.Billboarded,
		})
	}
	for i := range m.Bones {
		addNode(&m.Bones[i])
	}
	for i := range m.Helpers {
		addNode(&m.Helpers[i])
	}

	sk.markCycles()

	return sk
}

// markCycles walks every parent chain once. A chain that does not reach a
// root within len(Joints) hops sits on a cycle; every joint on it is
// demoted to an unresolvable pseudo-root so the per-frame recursion can
// never loop. Fatal for the joints involved, not for the model.
func (sk *Skeleton) markCycles() {
	for i := range sk.Joints {
		steps := 0
		cur := int32(i)
		for cur >= 0 && steps <= len(sk.Joints) {
			cur = sk.Joints[cur].Parent
			steps++
		}
		if cur >= 0 {
			sk.Joints[i].Unresolvable = true
			log.Printf("[anm] joint %q is on a cyclic parent chain, demoting to root", sk.Joints[i].Name)
		}
	}
}

// BoneCount returns how many leading slots are bones; the remaining
// slots are helpers.
func (sk *Skeleton) BoneCount() int {
	return sk.boneCount
}

func (sk *Skeleton) track(idx int32) *Track {
	if idx < 0 || int(idx) >= len(sk.Tracks) {
		return nil
	}
	return &sk.Tracks[idx]
}
