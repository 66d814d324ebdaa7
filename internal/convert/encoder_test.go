package convert

import (
	"encoding/binary"
	"math"
	"strings"
	"testing"

	"wow-m2-converter/internal/m2"
)

// twoVertexModel mirrors the smallest convertible model: two vertices,
// one triangle, one submesh id 0, one bone, one sequence.
func twoVertexModel() *m2.Model {
	return &m2.Model{
		Header: &m2.Header{Version: 256, Name: "Test"},
		Vertices: []m2.Vertex{
			{Pos: [3]float32{0, 0, 0}, Weights: [4]uint8{255, 0, 0, 0}, UV: [2]float32{0, 0}},
			{Pos: [3]float32{1, 0, 0}, Weights: [4]uint8{255, 0, 0, 0}, UV: [2]float32{1, 1}},
		},
		Bones:     []m2.Bone{{Parent: -1}},
		Sequences: []m2.Sequence{{AnimID: 0, Start: 0, End: 1000}},
		Skin: &m2.Skin{
			Remap:   []uint16{0, 1},
			Indices: []uint16{0, 1, 0},
			Submeshes: []m2.Submesh{
				{Index: 0, ID: 0, VertexStart: 0, VertexCount: 2, IndexStart: 0, IndexCount: 3},
			},
		},
	}
}

func TestEncodeMinimalModel(t *testing.T) {
	art, err := Encode(twoVertexModel())
	if err != nil {
		t.Fatal(err)
	}

	man := art.Manifest
	if man.VertexCount != 2 || man.TriangleCount != 1 || man.IndexCount != 3 {
		t.Errorf("counts = %d/%d/%d", man.VertexCount, man.TriangleCount, man.IndexCount)
	}
	if man.VertexStride != 40 || man.VertexBytes != 80 || man.IndexBytes != 6 {
		t.Errorf("sizes = %d/%d/%d", man.VertexStride, man.VertexBytes, man.IndexBytes)
	}
	if len(man.Geosets) != 1 {
		t.Fatalf("geosets = %+v", man.Geosets)
	}
	g := man.Geosets[0]
	if g.ID != 0 || g.IndexStart != 0 || g.IndexCount != 3 || g.TextureType != -1 {
		t.Errorf("geoset = %+v", g)
	}

	wantMesh := 2*VertexStride + 3*2
	if len(art.Mesh) != wantMesh {
		t.Fatalf("mesh bytes = %d, want %d", len(art.Mesh), wantMesh)
	}

	// Second vertex: position at stride offset 40.
	x := math.Float32frombits(binary.LittleEndian.Uint32(art.Mesh[40:]))
	if x != 1 {
		t.Errorf("vertex 1 x = %v", x)
	}
	// Index buffer directly after the vertex buffer.
	idx := binary.LittleEndian.Uint16(art.Mesh[80+2:])
	if idx != 1 {
		t.Errorf("index 1 = %d", idx)
	}
}

func TestEncodeRejectsOutOfRangeIndex(t *testing.T) {
	m := twoVertexModel()
	m.Skin.Indices = []uint16{0, 1, 2} // 2 >= vertexCount

	if _, err := Encode(m); err == nil || !strings.Contains(err.Error(), "exceeds vertex count") {
		t.Fatalf("got %v, want index bound error", err)
	}
}

func TestEncodeResolvesBoneIndirection(t *testing.T) {
	m := twoVertexModel()
	m.Bones = []m2.Bone{{Parent: -1}, {Parent: 0}, {Parent: 0}, {Parent: 0}}
	m.BoneLookup = []uint16{9, 9, 3, 2} // combo slice starts at 2
	m.Skin.Submeshes[0].BoneComboIndex = 2
	m.Vertices[0].Bones = [4]uint8{0, 1, 0, 0}
	m.Vertices[0].Weights = [4]uint8{200, 55, 0, 0}
	m.Vertices[1].Bones = [4]uint8{1, 0, 0, 0}

	art, err := Encode(m)
	if err != nil {
		t.Fatal(err)
	}

	// Bone indices land at stride offset 32.
	if got := art.Mesh[32]; got != 3 {
		t.Errorf("vertex 0 bone 0 = %d, want lookup[2+0] = 3", got)
	}
	if got := art.Mesh[33]; got != 2 {
		t.Errorf("vertex 0 bone 1 = %d, want lookup[2+1] = 2", got)
	}
	// Zero-weight slots are not resolved.
	if got := art.Mesh[34]; got != 0 {
		t.Errorf("vertex 0 bone 2 = %d", got)
	}
}

func TestEncodeRejectsBrokenBoneLookup(t *testing.T) {
	m := twoVertexModel()
	m.BoneLookup = []uint16{0}
	m.Skin.Submeshes[0].BoneComboIndex = 0
	m.Vertices[0].Bones = [4]uint8{5, 0, 0, 0} // past the lookup table

	if _, err := Encode(m); err == nil {
		t.Fatal("out-of-range bone lookup accepted")
	}
}

func TestEncodeTextureTypeChain(t *testing.T) {
	m := twoVertexModel()
	m.Textures = []m2.Texture{{Type: m2.TexHardcoded}, {Type: m2.TexBody}}
	m.TextureLookup = []uint16{1}
	m.Skin.Batches = []m2.Batch{
		{SubmeshIndex: 0, TextureComboIndex: 0},
		{SubmeshIndex: 0, TextureComboIndex: 9}, // duplicate: first wins
	}

	art, err := Encode(m)
	if err != nil {
		t.Fatal(err)
	}
	if got := art.Manifest.Geosets[0].TextureType; got != m2.TexBody {
		t.Errorf("texture type = %d, want %d", got, m2.TexBody)
	}
}

func TestAttachmentFiltering(t *testing.T) {
	m := twoVertexModel()
	m.Attachments = []m2.Attachment{
		{ID: AttachHandRight, Bone: 0, Pos: [3]float32{0.1, 0, 1.2}},
		{ID: AttachHandLeft, Bone: 7, Pos: [3]float32{0, 0, 0}},     // bad bone
		{ID: AttachHelm, Bone: 0, Pos: [3]float32{4e6, 0, 0}},       // implausible
		{ID: 40, Bone: 0, Pos: [3]float32{0, 0, 0}},                 // uninteresting id
		{ID: AttachShield, Bone: 0, Pos: [3]float32{-0.2, 0.3, .5}}, // kept
	}

	art, err := Encode(m)
	if err != nil {
		t.Fatal(err)
	}
	if len(art.Manifest.Attachments) != 2 {
		t.Fatalf("attachments = %+v", art.Manifest.Attachments)
	}
	if art.Manifest.Attachments[0].ID != AttachHandRight {
		t.Errorf("first attachment = %+v", art.Manifest.Attachments[0])
	}

	dropped := 0
	for _, w := range art.Warnings {
		if strings.Contains(w, "dropped") {
			dropped++
		}
	}
	if dropped != 2 {
		t.Errorf("dropped-attachment warnings = %v", art.Warnings)
	}
}

func TestManifestJSONRoundTrip(t *testing.T) {
	art, err := Encode(twoVertexModel())
	if err != nil {
		t.Fatal(err)
	}
	data, err := MarshalManifest(art.Manifest)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"vertex_stride": 40`) {
		t.Errorf("manifest JSON missing stride: %s", data)
	}
}
