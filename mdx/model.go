package mdx

// Model is a parsed MDX model document. The binary chunk reader lives
// outside of this repository; models arrive here as JSON documents with
// the chunk layout already resolved.
type Model struct {
	Name        string       `json:"name"`
	Geosets     []Geoset     `json:"geosets"`
	Textures    []Texture    `json:"textures,omitempty"`
	Sequences   []Sequence   `json:"sequences,omitempty"`
	Bones       []Node       `json:"bones"`
	Helpers     []Node       `json:"helpers,omitempty"`
	Controllers []Controller `json:"controllers,omitempty"`
	GeosetAnims []GeosetAnim `json:"geoset_anims,omitempty"`
}

// Node is one skeletal object, either a bone (may deform geometry through
// matrix groups) or a helper (pure hierarchy/attachment node). Both share
// the same shape; helpers simply never carry geoset references.
type Node struct {
	Name       string     `json:"name"`
	ObjectID   uint32     `json:"object_id"`
	ParentID   int32      `json:"parent_id"` // ObjectID of the parent, -1 for roots
	PivotPoint [3]float32 `json:"pivot_point"`

	GeosetID     *uint32 `json:"geoset_id,omitempty"`
	GeosetAnimID *uint32 `json:"geoset_anim_id,omitempty"`

	// Controller table indices, -1 when the channel is not animated
	TranslationIdx int32 `json:"translation_idx"`
	RotationIdx    int32 `json:"rotation_idx"`
	ScalingIdx     int32 `json:"scaling_idx"`
	VisibilityIdx  int32 `json:"visibility_idx"`

	Billboarded bool `json:"billboarded,omitempty"`
}

const NODE_PARENT_NONE = -1

// Controller is the animated-value source for one channel of one node.
// Interpolation type codes follow the chunk format: 0 none, 1 linear,
// 2 hermite, 3 bezier.
type Controller struct {
	InterpolationType uint32     `json:"interpolation_type"`
	GlobalSeqID       int32      `json:"global_seq_id"`
	Keyframes         []Keyframe `json:"keyframes"`
}

const (
	INTERP_DONT    = 0
	INTERP_LINEAR  = 1
	INTERP_HERMITE = 2
	INTERP_BEZIER  = 3
)

type Keyframe struct {
	Frame  int32     `json:"frame"`
	Data   []float32 `json:"data"`
	InTan  []float32 `json:"in_tan,omitempty"`
	OutTan []float32 `json:"out_tan,omitempty"`
}

type Geoset struct {
	Vertices  [][3]float32 `json:"vertices"`
	Normals   [][3]float32 `json:"normals"`
	TexCoords [][2]float32 `json:"tex_coords,omitempty"`
	Faces     [][3]uint32  `json:"faces"`

	MaterialID     *uint32    `json:"material_id,omitempty"`
	SelectionGroup uint32     `json:"selection_group,omitempty"`
	Unselectable   bool       `json:"unselectable,omitempty"`
	BoundsRadius   float32    `json:"bounds_radius,omitempty"`
	MinimumExtent  [3]float32 `json:"minimum_extent,omitempty"`
	MaximumExtent  [3]float32 `json:"maximum_extent,omitempty"`

	// VertexGroups holds per-vertex indices into MatrixGroups (GNDX chunk).
	// Every matrix group lists the skeleton slots (bones first, then
	// helpers) that jointly deform vertices assigned to it (MTGC+MATS).
	VertexGroups []uint8    `json:"vertex_groups"`
	MatrixGroups [][]uint32 `json:"matrix_groups"`
}

type Sequence struct {
	Name       string  `json:"name"`
	StartFrame uint32  `json:"start_frame"`
	EndFrame   uint32  `json:"end_frame"`
	Rarity     *uint32 `json:"rarity,omitempty"`
	NonLooping bool    `json:"non_looping"`
}

// GeosetAnim animates a geoset's alpha independently of the skeleton.
type GeosetAnim struct {
	GeosetID int32   `json:"geoset_id"`
	Alpha    float32 `json:"alpha"`
	AlphaIdx int32   `json:"alpha_idx"` // controller index, -1 for static alpha
}

type Texture struct {
	Filename      string `json:"filename"`
	ReplaceableID uint32 `json:"replaceable_id,omitempty"`
}
