package m2

// Fixed struct sizes for the targeted format variant. These are a version
// contract, not something inferred from counts.
const (
	vertexSize     = 48
	boneSize       = 108
	trackSize      = 28
	sequenceSize   = 68
	submeshSize    = 32
	batchSize      = 24
	textureSize    = 16
	attachmentSize = 48
	skinHeaderSize = 44
)

// Vertex is one source vertex. Bone indices go through the per-submesh
// bone-lookup table (see ResolveBone), never directly into the bone array.
type Vertex struct {
	Pos     [3]float32
	Weights [4]uint8
	Bones   [4]uint8
	Normal  [3]float32
	UV      [2]float32
	UV2     [2]float32
}

// Sequence is one animation clip.
type Sequence struct {
	AnimID        uint16
	SubID         uint16
	Start         uint32 // position on the shared keyframe timeline, ms
	End           uint32
	MoveSpeed     float32
	Flags         uint32
	BlendTime     uint32
	VariationNext int16 // -1 = none
	AliasNext     uint16
}

// Duration returns the clip length in milliseconds.
func (s Sequence) Duration() uint32 {
	if s.End < s.Start {
		return 0
	}
	return s.End - s.Start
}

// Track interpolation types.
const (
	InterpStep   = 0
	InterpLinear = 1
)

// Track holds one bone channel (translation, rotation or scale) with its
// keyframes already sliced per sequence and localized to clip time.
// A track with GlobalSeq >= 0 loops on its own timer; its keyframes live
// in Seq[0] and are already local to that loop.
type Track struct {
	Interp    uint16
	GlobalSeq int16 // -1 = sequence-driven
	Dim       int   // floats per value: 3 for vectors, 4 for quaternions
	Seq       []TrackSlice
}

// TrackSlice holds the keyframes for one sequence.
type TrackSlice struct {
	Times  []uint32
	Values []float32 // Dim floats per key
}

// Global reports whether the track runs on an independent global-sequence
// timer rather than following the active clip.
func (t *Track) Global() bool {
	return t.GlobalSeq >= 0
}

// Bone is one node of the skeleton tree.
type Bone struct {
	KeyBoneID   int32
	Flags       uint32
	Parent      int16 // -1 = root
	SubmeshID   uint16
	Pivot       [3]float32
	Translation Track
	Rotation    Track
	Scale       Track
}

// Texture definition types. Type 0 carries an embedded filename; the
// replaceable types are resolved externally by the client.
const (
	TexHardcoded = 0
	TexBody      = 1
	TexCape      = 2
	TexHair      = 6
	TexFur       = 8
	TexCreature1 = 11
	TexCreature2 = 12
	TexCreature3 = 13
)

// Texture is one entry of the texture definition table.
type Texture struct {
	Type     uint32
	Flags    uint32
	Filename string // only for TexHardcoded
}

// Submesh is one geoset: a sub-range of the skin's vertex/index lists.
// Index is the submesh's position in the unfiltered table, which is what
// batches reference.
type Submesh struct {
	Index          int
	ID             uint16
	Level          uint16
	VertexStart    uint16
	VertexCount    uint16
	IndexStart     uint16
	IndexCount     uint16
	BoneCount      uint16
	BoneComboIndex uint16
}

// Group returns the geoset group (interchangeable body-part category).
func (s Submesh) Group() int { return int(s.ID) / 100 }

// Variant returns the geoset variant within its group.
func (s Submesh) Variant() int { return int(s.ID) % 100 }

// Batch links one submesh to one texture pass via the texture lookup table.
type Batch struct {
	Flags             uint8
	Priority          int8
	SubmeshIndex      uint16
	ColorIndex        uint16
	MaterialIndex     uint16
	TextureComboIndex uint16
}

// Skin is the decoded embedded mesh-split section (first view only).
type Skin struct {
	Remap     []uint16 // local vertex index -> global vertex index
	Indices   []uint16 // triangle indices into Remap
	Submeshes []Submesh
	Batches   []Batch
	BoneCount uint32
}

// Attachment is a named bone-relative mount point (weapons, helmets, ...).
type Attachment struct {
	ID   uint32
	Bone uint32
	Pos  [3]float32
}

// Model is the result of a full parse of one M2 file.
type Model struct {
	Header          *Header
	Vertices        []Vertex
	Bones           []Bone
	Sequences       []Sequence
	GlobalSequences []uint32 // loop durations, ms
	Textures        []Texture
	TextureLookup   []uint16
	BoneLookup      []uint16
	Skin            *Skin
	Attachments     []Attachment
	Warnings        []string // degraded-but-recovered events, for the conversion log
}

// ResolveBone resolves a vertex's stored bone index through the submesh's
// slice of the bone-lookup table. Models without a lookup table address the
// bone array directly.
func ResolveBone(lookup []uint16, sub Submesh, idx uint8) (uint16, bool) {
	if len(lookup) == 0 {
		return uint16(idx), true
	}
	i := int(sub.BoneComboIndex) + int(idx)
	if i >= len(lookup) {
		return 0, false
	}
	return lookup[i], true
}

// ResolveTextureType follows batch -> texture lookup -> texture definition
// and returns the definition's type. Both hops are bounds-checked; a broken
// chain returns false rather than a wrong table entry.
func ResolveTextureType(b Batch, lookup []uint16, defs []Texture) (uint32, bool) {
	if int(b.TextureComboIndex) >= len(lookup) {
		return 0, false
	}
	ti := lookup[b.TextureComboIndex]
	if int(ti) >= len(defs) {
		return 0, false
	}
	return defs[ti].Type, true
}
