package m2

import (
	"fmt"

	"wow-m2-converter/internal/m2reader"
)

// Parse decodes a complete in-memory M2 buffer into a Model. The input is
// never mutated; a fatal error means no usable model, not a partial one.
func Parse(data []byte) (*Model, error) {
	r := m2reader.New(data)

	h, err := ParseHeader(r)
	if err != nil {
		return nil, err
	}

	m := &Model{Header: h}

	if m.Vertices, err = ParseVertices(r, h); err != nil {
		return nil, err
	}
	if m.Sequences, err = ParseSequences(r, h); err != nil {
		return nil, err
	}
	if m.GlobalSequences, err = ParseGlobalSequences(r, h); err != nil {
		return nil, err
	}
	if m.Textures, err = ParseTextures(r, h); err != nil {
		return nil, err
	}
	if m.TextureLookup, err = parseU16Table(r, h.TextureLookup, "texture lookup"); err != nil {
		return nil, err
	}
	if m.BoneLookup, err = parseU16Table(r, h.BoneLookup, "bone lookup"); err != nil {
		return nil, err
	}

	var warnings []string
	if m.Bones, warnings, err = ParseBones(r, h, m.Sequences); err != nil {
		return nil, err
	}
	m.Warnings = warnings

	if m.Skin, err = ParseSkin(r, h); err != nil {
		return nil, err
	}
	if m.Attachments, err = ParseAttachments(r, h); err != nil {
		return nil, err
	}

	return m, nil
}

// ParseVertices decodes the 48-byte source vertices.
func ParseVertices(r *m2reader.Reader, h *Header) ([]Vertex, error) {
	if err := r.CheckArray(h.Vertices, vertexSize); err != nil {
		return nil, fmt.Errorf("m2: vertex table: %w", err)
	}
	verts := make([]Vertex, h.Vertices.Count)
	for i := range verts {
		off := int(h.Vertices.Offset) + i*vertexSize
		v := &verts[i]
		for k := 0; k < 3; k++ {
			v.Pos[k], _ = r.F32(off + k*4)
		}
		for k := 0; k < 4; k++ {
			v.Weights[k], _ = r.U8(off + 12 + k)
			v.Bones[k], _ = r.U8(off + 16 + k)
		}
		for k := 0; k < 3; k++ {
			v.Normal[k], _ = r.F32(off + 20 + k*4)
		}
		v.UV[0], _ = r.F32(off + 32)
		v.UV[1], _ = r.F32(off + 36)
		v.UV2[0], _ = r.F32(off + 40)
		v.UV2[1], _ = r.F32(off + 44)
	}
	return verts, nil
}

// ParseSequences decodes the 68-byte animation clip table.
func ParseSequences(r *m2reader.Reader, h *Header) ([]Sequence, error) {
	if err := r.CheckArray(h.Sequences, sequenceSize); err != nil {
		return nil, fmt.Errorf("m2: sequence table: %w", err)
	}
	seqs := make([]Sequence, h.Sequences.Count)
	for i := range seqs {
		off := int(h.Sequences.Offset) + i*sequenceSize
		s := &seqs[i]
		s.AnimID, _ = r.U16(off)
		s.SubID, _ = r.U16(off + 2)
		s.Start, _ = r.U32(off + 4)
		s.End, _ = r.U32(off + 8)
		s.MoveSpeed, _ = r.F32(off + 12)
		s.Flags, _ = r.U32(off + 16)
		s.BlendTime, _ = r.U32(off + 32)
		s.VariationNext, _ = r.I16(off + 64)
		s.AliasNext, _ = r.U16(off + 66)
	}
	return seqs, nil
}

// ParseGlobalSequences decodes the global-sequence loop durations (ms).
func ParseGlobalSequences(r *m2reader.Reader, h *Header) ([]uint32, error) {
	if err := r.CheckArray(h.GlobalSequences, 4); err != nil {
		return nil, fmt.Errorf("m2: global sequence table: %w", err)
	}
	out := make([]uint32, h.GlobalSequences.Count)
	for i := range out {
		out[i], _ = r.U32(int(h.GlobalSequences.Offset) + i*4)
	}
	return out, nil
}

// ParseTextures decodes the 16-byte texture definition table. Hardcoded
// entries carry an embedded filename; replaceable ones are resolved by
// the client and keep an empty name.
func ParseTextures(r *m2reader.Reader, h *Header) ([]Texture, error) {
	if err := r.CheckArray(h.Textures, textureSize); err != nil {
		return nil, fmt.Errorf("m2: texture table: %w", err)
	}
	texs := make([]Texture, h.Textures.Count)
	for i := range texs {
		off := int(h.Textures.Offset) + i*textureSize
		t := &texs[i]
		t.Type, _ = r.U32(off)
		t.Flags, _ = r.U32(off + 4)
		name, err := r.Array(off + 8)
		if err != nil {
			return nil, fmt.Errorf("m2: texture %d filename: %w", i, err)
		}
		if t.Type == TexHardcoded && name.Count > 0 {
			t.Filename, err = r.CString(int(name.Offset), int(name.Count))
			if err != nil {
				return nil, fmt.Errorf("m2: texture %d filename: %w", i, err)
			}
		}
	}
	return texs, nil
}

func parseU16Table(r *m2reader.Reader, d m2reader.ArrayDescriptor, what string) ([]uint16, error) {
	if err := r.CheckArray(d, 2); err != nil {
		return nil, fmt.Errorf("m2: %s table: %w", what, err)
	}
	out := make([]uint16, d.Count)
	for i := range out {
		out[i], _ = r.U16(int(d.Offset) + i*2)
	}
	return out, nil
}

// ParseAttachments decodes the raw 48-byte attachment table. No filtering
// happens here; plausibility filtering is a conversion policy, not a
// parsing one.
func ParseAttachments(r *m2reader.Reader, h *Header) ([]Attachment, error) {
	if err := r.CheckArray(h.Attachments, attachmentSize); err != nil {
		return nil, fmt.Errorf("m2: attachment table: %w", err)
	}
	out := make([]Attachment, h.Attachments.Count)
	for i := range out {
		off := int(h.Attachments.Offset) + i*attachmentSize
		a := &out[i]
		a.ID, _ = r.U32(off)
		a.Bone, _ = r.U32(off + 4)
		for k := 0; k < 3; k++ {
			a.Pos[k], _ = r.F32(off + 8 + k*4)
		}
	}
	return out, nil
}
