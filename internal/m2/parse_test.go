package m2

import (
	"testing"

	"wow-m2-converter/internal/m2reader"
)

func TestParseMinimalModel(t *testing.T) {
	m, err := Parse(buildMinimalModel())
	if err != nil {
		t.Fatal(err)
	}

	if len(m.Vertices) != 2 {
		t.Fatalf("vertices = %d", len(m.Vertices))
	}
	if m.Vertices[1].Pos != [3]float32{1, 0, 0} {
		t.Errorf("vertex 1 pos = %v", m.Vertices[1].Pos)
	}
	if m.Vertices[0].Weights != [4]uint8{255, 0, 0, 0} {
		t.Errorf("vertex 0 weights = %v", m.Vertices[0].Weights)
	}

	if len(m.Sequences) != 1 || m.Sequences[0].Duration() != 1000 {
		t.Fatalf("sequences = %+v", m.Sequences)
	}
	if m.Sequences[0].BlendTime != 150 {
		t.Errorf("blend time = %d", m.Sequences[0].BlendTime)
	}
	if m.Sequences[0].VariationNext != -1 {
		t.Errorf("variation next = %d", m.Sequences[0].VariationNext)
	}

	if len(m.Bones) != 1 || m.Bones[0].Parent != -1 {
		t.Fatalf("bones = %+v", m.Bones)
	}

	if len(m.Skin.Remap) != 2 || len(m.Skin.Indices) != 3 {
		t.Fatalf("skin remap %d indices %d", len(m.Skin.Remap), len(m.Skin.Indices))
	}
	if len(m.Skin.Submeshes) != 1 {
		t.Fatalf("submeshes = %+v", m.Skin.Submeshes)
	}
	sm := m.Skin.Submeshes[0]
	if sm.ID != 0 || sm.IndexCount != 3 || sm.VertexCount != 2 {
		t.Errorf("submesh = %+v", sm)
	}
}

func TestParseSkinFiltersPlaceholders(t *testing.T) {
	b := newBuilder(256)

	remapOff := b.append(u16le(0, 1))
	idxOff := b.append(u16le(0, 1, 0))

	sms := append(submesh(0, 0, 2, 0, 3), submesh(501, 0, 0, 0, 0)...) // zero indices
	sms = append(sms, submesh(0xFFFF, 0, 2, 0, 3)...)                  // reserved empty id
	sms = append(sms, submesh(502, 0, 2, 0, 3)...)
	smOff := b.append(sms)

	view := make([]byte, 44)
	copy(view[0:], u32le(2, remapOff, 3, idxOff))
	copy(view[24:], u32le(4, smOff))
	viewOff := b.append(view)
	b.putArray(0x4C, 1, viewOff)

	h, err := ParseHeader(m2reader.New(b.buf))
	if err != nil {
		t.Fatal(err)
	}
	skin, err := ParseSkin(m2reader.New(b.buf), h)
	if err != nil {
		t.Fatal(err)
	}

	if len(skin.Submeshes) != 2 {
		t.Fatalf("submeshes = %+v", skin.Submeshes)
	}
	// Table positions survive filtering so batches still match.
	if skin.Submeshes[0].Index != 0 || skin.Submeshes[1].Index != 3 {
		t.Errorf("indices = %d, %d", skin.Submeshes[0].Index, skin.Submeshes[1].Index)
	}
	if skin.Submeshes[1].ID != 502 {
		t.Errorf("id = %d", skin.Submeshes[1].ID)
	}
	if g, v := skin.Submeshes[1].Group(), skin.Submeshes[1].Variant(); g != 5 || v != 2 {
		t.Errorf("group/variant = %d/%d", g, v)
	}
}

func TestParseSkinTruncatedTable(t *testing.T) {
	b := newBuilder(256)
	view := make([]byte, 44)
	copy(view[0:], u32le(1000, 0xFFFF0)) // remap far past the buffer
	viewOff := b.append(view)
	b.putArray(0x4C, 1, viewOff)

	h, err := ParseHeader(m2reader.New(b.buf))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ParseSkin(m2reader.New(b.buf), h); err == nil {
		t.Fatal("out-of-bounds remap table accepted")
	}
}

func TestResolveBone(t *testing.T) {
	lookup := []uint16{4, 5, 6, 7}
	sub := Submesh{BoneComboIndex: 2}

	if got, ok := ResolveBone(lookup, sub, 1); !ok || got != 7 {
		t.Errorf("ResolveBone = %d, %v", got, ok)
	}
	if _, ok := ResolveBone(lookup, sub, 2); ok {
		t.Error("out-of-range lookup accepted")
	}
	// No lookup table: the stored index is already global.
	if got, ok := ResolveBone(nil, sub, 3); !ok || got != 3 {
		t.Errorf("direct ResolveBone = %d, %v", got, ok)
	}
}

func TestResolveTextureType(t *testing.T) {
	defs := []Texture{{Type: TexHardcoded}, {Type: TexBody}}
	lookup := []uint16{1, 0}

	b := Batch{TextureComboIndex: 0}
	if typ, ok := ResolveTextureType(b, lookup, defs); !ok || typ != TexBody {
		t.Errorf("type = %d, %v", typ, ok)
	}
	if _, ok := ResolveTextureType(Batch{TextureComboIndex: 5}, lookup, defs); ok {
		t.Error("broken first hop accepted")
	}
	if _, ok := ResolveTextureType(b, []uint16{9}, defs); ok {
		t.Error("broken second hop accepted")
	}
}
