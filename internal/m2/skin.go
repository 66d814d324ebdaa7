package m2

import (
	"fmt"

	"wow-m2-converter/internal/m2reader"
)

// Reserved submesh id marking an empty placeholder entry.
const submeshIDNone = 0xFFFF

// ParseSkin decodes the embedded mesh-split section. Only the first view
// is consumed; lower-detail views are ignored. Placeholder submeshes
// (zero indices or the reserved empty id) are filtered out, but their
// table positions are preserved in Submesh.Index so batches still match.
func ParseSkin(r *m2reader.Reader, h *Header) (*Skin, error) {
	if h.Layout != LayoutClassic {
		return nil, fmt.Errorf("m2: skin: %w: version %d keeps skin profiles in external files", ErrUnsupportedVersion, h.Version)
	}
	if h.Views.Count == 0 {
		return nil, fmt.Errorf("m2: skin: model has no views")
	}
	if err := r.CheckArray(h.Views, skinHeaderSize); err != nil {
		return nil, fmt.Errorf("m2: skin: %w", err)
	}

	base := int(h.Views.Offset)

	remapDesc, err := r.Array(base)
	if err != nil {
		return nil, fmt.Errorf("m2: skin vertices: %w", err)
	}
	indexDesc, err := r.Array(base + 8)
	if err != nil {
		return nil, fmt.Errorf("m2: skin indices: %w", err)
	}
	// base+16 is the vertex-properties table; unused here.
	submeshDesc, err := r.Array(base + 24)
	if err != nil {
		return nil, fmt.Errorf("m2: skin submeshes: %w", err)
	}
	batchDesc, err := r.Array(base + 32)
	if err != nil {
		return nil, fmt.Errorf("m2: skin batches: %w", err)
	}
	boneCount, err := r.U32(base + 40)
	if err != nil {
		return nil, fmt.Errorf("m2: skin bone count: %w", err)
	}

	skin := &Skin{BoneCount: boneCount}

	if err := r.CheckArray(remapDesc, 2); err != nil {
		return nil, fmt.Errorf("m2: skin vertex remap: %w", err)
	}
	skin.Remap = make([]uint16, remapDesc.Count)
	for i := range skin.Remap {
		skin.Remap[i], _ = r.U16(int(remapDesc.Offset) + i*2)
	}

	if err := r.CheckArray(indexDesc, 2); err != nil {
		return nil, fmt.Errorf("m2: skin triangle indices: %w", err)
	}
	skin.Indices = make([]uint16, indexDesc.Count)
	for i := range skin.Indices {
		skin.Indices[i], _ = r.U16(int(indexDesc.Offset) + i*2)
	}

	if err := r.CheckArray(submeshDesc, submeshSize); err != nil {
		return nil, fmt.Errorf("m2: skin submesh table: %w", err)
	}
	for i := 0; i < int(submeshDesc.Count); i++ {
		off := int(submeshDesc.Offset) + i*submeshSize
		sm := Submesh{Index: i}
		sm.ID, _ = r.U16(off)
		sm.Level, _ = r.U16(off + 2)
		sm.VertexStart, _ = r.U16(off + 4)
		sm.VertexCount, _ = r.U16(off + 6)
		sm.IndexStart, _ = r.U16(off + 8)
		sm.IndexCount, _ = r.U16(off + 10)
		sm.BoneCount, _ = r.U16(off + 12)
		sm.BoneComboIndex, _ = r.U16(off + 14)
		if sm.IndexCount == 0 || sm.ID == submeshIDNone {
			continue
		}
		skin.Submeshes = append(skin.Submeshes, sm)
	}

	if err := r.CheckArray(batchDesc, batchSize); err != nil {
		return nil, fmt.Errorf("m2: skin batch table: %w", err)
	}
	for i := 0; i < int(batchDesc.Count); i++ {
		off := int(batchDesc.Offset) + i*batchSize
		var b Batch
		flags, _ := r.U8(off)
		prio, _ := r.U8(off + 1)
		b.Flags = flags
		b.Priority = int8(prio)
		b.SubmeshIndex, _ = r.U16(off + 4)
		b.ColorIndex, _ = r.U16(off + 8)
		b.MaterialIndex, _ = r.U16(off + 10)
		b.TextureComboIndex, _ = r.U16(off + 16)
		skin.Batches = append(skin.Batches, b)
	}

	return skin, nil
}
