package anm

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/mdx_browser/utils"
)

// visibilityThreshold binarizes animated visibility samples: alpha at or
// below it counts as hidden.
const visibilityThreshold = 0.2

// JointPose is the evaluated state of one joint for one frame. Mat holds
// rotation with non-uniform scale baked into its columns; Pos is the
// world-space position of the joint's pivot.
type JointPose struct {
	Quat    mgl32.Quat
	Mat     mgl32.Mat3
	Pos     mgl32.Vec3
	Scale   mgl32.Vec3
	Visible bool

	ready bool
}

// Pose is the evaluator's working buffer, indexed in parallel with
// Skeleton.Joints. It is scratch state: every EvaluatePose overwrites it
// in full, nothing persists between frames.
type Pose struct {
	Joints []JointPose
}

func NewPose(sk *Skeleton) *Pose {
	return &Pose{Joints: make([]JointPose, len(sk.Joints))}
}

// EvaluatePose computes every joint's world transform at frame.
// Phase A interpolates each joint's local channels independently, phase B
// propagates parent transforms down the hierarchy with a memoized
// parent-first walk.
func (sk *Skeleton) EvaluatePose(frame float32, p *Pose) {
	for i := range p.Joints {
		p.Joints[i].ready = false
	}

	for i := range sk.Joints {
		sk.interpJoint(i, frame, p)
	}

	// Helpers first, then bones. Correctness does not depend on the
	// order: calcJoint always resolves parents first and the ready
	// flags stop recomputation.
	for i := sk.boneCount; i < len(sk.Joints); i++ {
		sk.calcJoint(i, p)
	}
	for i := 0; i < sk.boneCount; i++ {
		sk.calcJoint(i, p)
	}
}

// interpJoint evaluates the four optional channels of one joint at frame
// and builds its local combined rotation/scale matrix. Channels without a
// track fall back to the rest pose: pivot translation, identity rotation,
// unit scale, visible.
func (sk *Skeleton) interpJoint(idx int, frame float32, p *Pose) {
	j := &sk.Joints[idx]
	jp := &p.Joints[idx]

	// Roots and cycle-demoted joints are absolute right away.
	jp.ready = j.Parent < 0 || j.Unresolvable

	if t := sk.track(j.Translation); t != nil {
		data := t.Evaluate(frame)
		jp.Pos = mgl32.Vec3{
			utils.FloatOrZero(data, 0) + j.Pivot[0],
			utils.FloatOrZero(data, 1) + j.Pivot[1],
			utils.FloatOrZero(data, 2) + j.Pivot[2],
		}
	} else {
		jp.Pos = j.Pivot
	}

	if t := sk.track(j.Rotation); t != nil {
		jp.Quat = t.EvaluateQuat(frame)
	} else {
		jp.Quat = mgl32.QuatIdent()
	}

	if t := sk.track(j.Scaling); t != nil {
		data := t.Evaluate(frame)
		jp.Scale = mgl32.Vec3{
			utils.FloatOrZero(data, 0),
			utils.FloatOrZero(data, 1),
			utils.FloatOrZero(data, 2),
		}
	} else {
		jp.Scale = mgl32.Vec3{1.0, 1.0, 1.0}
	}

	if t := sk.track(j.Visibility); t != nil {
		jp.Visible = utils.FloatOrZero(t.Evaluate(frame), 0) > visibilityThreshold
	} else {
		jp.Visible = true
	}

	jp.Mat = utils.ScaleMat3Columns(utils.QuatToMat3(jp.Quat), jp.Scale)
}

// calcJoint makes the joint's pose absolute by combining it with its
// parent chain. The walk is iterative: ancestors are collected until a
// ready joint (or root) is found, then transforms apply top-down. Bounded
// by the joint count so even a parent graph that slipped past load-time
// cycle detection cannot hang a frame.
func (sk *Skeleton) calcJoint(idx int, p *Pose) {
	if p.Joints[idx].ready {
		return
	}

	chain := make([]int32, 0, 32)
	for cur := int32(idx); !p.Joints[cur].ready; cur = sk.Joints[cur].Parent {
		chain = append(chain, cur)
		if len(chain) > len(sk.Joints) {
			p.Joints[idx].ready = true
			return
		}
	}

	for i := len(chain) - 1; i >= 0; i-- {
		cur := chain[i]
		sk.calcAbsolute(sk.Joints[cur].Parent, cur, p)
		p.Joints[cur].ready = true
	}
}

// calcAbsolute rebases the child's local pose onto the parent's absolute
// one. Billboarded joints ignore the parent rotation but still inherit
// its scale. Translations are expressed relative to the parent's pivot,
// which is why the pivot is subtracted before transforming.
func (sk *Skeleton) calcAbsolute(parent, child int32, p *Pose) {
	pp := &p.Joints[parent]
	cp := &p.Joints[child]

	if !sk.Joints[child].Billboarded {
		cp.Mat = pp.Mat.Mul3(cp.Mat)
	} else {
		scaled := utils.ScaleMat3Columns(mgl32.Ident3(), pp.Scale)
		cp.Mat = scaled.Mul3(cp.Mat)
	}

	local := cp.Pos.Sub(sk.Joints[parent].Pivot)
	cp.Pos = pp.Pos.Add(pp.Mat.Mul3x1(local))

	cp.Visible = cp.Visible && pp.Visible
}
