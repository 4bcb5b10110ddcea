package anm

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/mdx_browser/mdx"
)

// DeformGeoset recomputes world-space vertex positions and normals for
// one geoset from an evaluated pose. outPos and outNorm must hold
// len(g.Vertices) entries; vertices without a usable matrix group keep
// their original position and normal (pass-through, not an error).
//
// Every bone in a vertex's matrix group contributes equally; the format
// has no per-bone weights beyond group membership. Normals are averaged
// the same way and renormalized.
func DeformGeoset(g *mdx.Geoset, sk *Skeleton, p *Pose, outPos, outNorm [][3]float32) {
	for i := range g.Vertices {
		outPos[i] = g.Vertices[i]
		if i < len(g.Normals) {
			outNorm[i] = g.Normals[i]
		}

		if i >= len(g.VertexGroups) {
			continue
		}
		groupIdx := int(g.VertexGroups[i])
		if groupIdx >= len(g.MatrixGroups) {
			continue
		}
		group := g.MatrixGroups[groupIdx]
		if len(group) == 0 {
			continue
		}

		origPos := mgl32.Vec3(g.Vertices[i])
		var origNorm mgl32.Vec3
		if i < len(g.Normals) {
			origNorm = mgl32.Vec3(g.Normals[i])
		}

		var blendedPos, blendedNorm mgl32.Vec3
		for _, slot := range group {
			if int(slot) >= len(sk.Joints) {
				continue
			}
			jp := &p.Joints[slot]

			relative := origPos.Sub(sk.Joints[slot].Pivot)
			blendedPos = blendedPos.Add(jp.Mat.Mul3x1(relative).Add(jp.Pos))
			blendedNorm = blendedNorm.Add(jp.Mat.Mul3x1(origNorm))
		}

		// Averaged over the whole group, skipped slots included.
		weight := 1.0 / float32(len(group))
		blendedPos = blendedPos.Mul(weight)
		blendedNorm = blendedNorm.Mul(weight)
		if blendedNorm.Len() > 0 {
			blendedNorm = blendedNorm.Normalize()
		}

		outPos[i] = blendedPos
		if i < len(g.Normals) {
			outNorm[i] = blendedNorm
		}
	}
}
