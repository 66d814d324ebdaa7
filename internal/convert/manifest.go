package convert

import (
	"encoding/json"
	"fmt"

	"wow-m2-converter/internal/m2"
)

// Manifest is the structured companion of the mesh binary. Downstream
// renderers depend on these fields exactly.
type Manifest struct {
	Name          string           `json:"name"`
	VertexCount   int              `json:"vertex_count"`
	IndexCount    int              `json:"index_count"`
	TriangleCount int              `json:"triangle_count"`
	VertexStride  int              `json:"vertex_stride"`
	VertexBytes   int              `json:"vertex_bytes"`
	IndexBytes    int              `json:"index_bytes"`
	Bones         []ManifestBone   `json:"bones"`
	Geosets       []ManifestGeoset `json:"geosets"`
	Attachments   []ManifestAttach `json:"attachments"`
}

type ManifestBone struct {
	Parent      int        `json:"parent"`
	Pivot       [3]float32 `json:"pivot"`
	Rotation    [4]float32 `json:"rotation"`    // rest pose, normalized
	Translation [3]float32 `json:"translation"` // rest pose
}

type ManifestGeoset struct {
	ID          int `json:"id"`
	IndexStart  int `json:"index_start"`
	IndexCount  int `json:"index_count"`
	TextureType int `json:"texture_type"` // -1 when no batch resolves
}

type ManifestAttach struct {
	ID   int        `json:"id"`
	Bone int        `json:"bone"`
	Pos  [3]float32 `json:"pos"`
}

func buildManifest(m *m2.Model, art *Artifacts) *Manifest {
	skin := m.Skin
	man := &Manifest{
		Name:          m.Header.Name,
		VertexCount:   len(skin.Remap),
		IndexCount:    len(skin.Indices),
		TriangleCount: len(skin.Indices) / 3,
		VertexStride:  VertexStride,
		VertexBytes:   len(skin.Remap) * VertexStride,
		IndexBytes:    len(skin.Indices) * 2,
	}

	for _, b := range m.Bones {
		mb := ManifestBone{
			Parent:   int(b.Parent),
			Pivot:    b.Pivot,
			Rotation: [4]float32{0, 0, 0, 1},
		}
		if rest, ok := firstKey(&b.Rotation); ok {
			copy(mb.Rotation[:], rest)
		}
		if rest, ok := firstKey(&b.Translation); ok {
			copy(mb.Translation[:], rest)
		}
		man.Bones = append(man.Bones, mb)
	}

	for _, sm := range skin.Submeshes {
		man.Geosets = append(man.Geosets, ManifestGeoset{
			ID:          int(sm.ID),
			IndexStart:  int(sm.IndexStart),
			IndexCount:  int(sm.IndexCount),
			TextureType: geosetTextureType(m, sm),
		})
	}

	man.Attachments = filterAttachments(m, art)
	return man
}

// firstKey returns the track's first keyframe value, the rest pose.
func firstKey(t *m2.Track) ([]float32, bool) {
	for _, s := range t.Seq {
		if len(s.Values) >= t.Dim {
			return s.Values[:t.Dim], true
		}
	}
	return nil, false
}

// geosetTextureType resolves the submesh's texture type through the
// batch -> lookup -> definition chain. The first batch referencing the
// submesh wins when duplicates exist; -1 means nothing resolved.
func geosetTextureType(m *m2.Model, sm m2.Submesh) int {
	for _, b := range m.Skin.Batches {
		if int(b.SubmeshIndex) != sm.Index {
			continue
		}
		if typ, ok := m2.ResolveTextureType(b, m.TextureLookup, m.Textures); ok {
			return int(typ)
		}
		return -1
	}
	return -1
}

// filterAttachments keeps the known-useful attachment ids, each validated
// against the bone count and a plausibility bound on offset magnitude.
// Implausible entries are dropped, not emitted; the ambiguity in the
// first few table entries of some inputs is a known open question.
func filterAttachments(m *m2.Model, art *Artifacts) []ManifestAttach {
	var out []ManifestAttach
	for i, a := range m.Attachments {
		if !keptAttachments[a.ID] {
			continue
		}
		if int(a.Bone) >= len(m.Bones) {
			art.Warnings = append(art.Warnings, fmt.Sprintf("attachment %d (id %d): bone %d of %d, dropped", i, a.ID, a.Bone, len(m.Bones)))
			continue
		}
		if !plausibleOffset(a.Pos) {
			art.Warnings = append(art.Warnings, fmt.Sprintf("attachment %d (id %d): implausible offset %v, dropped", i, a.ID, a.Pos))
			continue
		}
		out = append(out, ManifestAttach{ID: int(a.ID), Bone: int(a.Bone), Pos: a.Pos})
	}
	return out
}

func plausibleOffset(p [3]float32) bool {
	for _, v := range p {
		if v != v || v > maxAttachOffset || v < -maxAttachOffset {
			return false
		}
	}
	return true
}

// MarshalManifest renders the manifest as indented JSON.
func MarshalManifest(m *Manifest) ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("convert: manifest: %w", err)
	}
	return data, nil
}
