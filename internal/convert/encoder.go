package convert

import (
	"encoding/binary"
	"fmt"
	"math"

	"wow-m2-converter/internal/m2"
)

// VertexStride is the interleaved runtime vertex layout: 3xf32 position,
// 3xf32 normal, 2xf32 uv, 4xu8 bone indices, 4xu8 bone weights.
const VertexStride = 40

// Known-useful attachment ids kept in the output.
const (
	AttachShield        = 0
	AttachHandRight     = 1
	AttachHandLeft      = 2
	AttachShoulderRight = 5
	AttachShoulderLeft  = 6
	AttachHelm          = 11
)

var keptAttachments = map[uint32]bool{
	AttachShield:        true,
	AttachHandRight:     true,
	AttachHandLeft:      true,
	AttachShoulderRight: true,
	AttachShoulderLeft:  true,
	AttachHelm:          true,
}

// maxAttachOffset bounds plausible attachment offsets for a unit-scale
// character. The first few table entries of some source files decode to
// garbage positions; whether that is corruption or an undocumented
// leading field is unresolved, so implausible entries are dropped and
// logged instead of trusted.
const maxAttachOffset = 10.0

// Artifacts holds one model's conversion outputs, in memory. The driver
// owns all final writes.
type Artifacts struct {
	Mesh     []byte // vertex buffer immediately followed by u16 index buffer
	Manifest *Manifest
	Anim     []byte
	Warnings []string
}

// Encode converts a parsed model into the runtime artifacts. Any error is
// fatal for this model: no partially-valid artifact is ever returned.
func Encode(m *m2.Model) (*Artifacts, error) {
	if m.Skin == nil {
		return nil, fmt.Errorf("convert: model has no skin data")
	}

	art := &Artifacts{Warnings: append([]string(nil), m.Warnings...)}

	mesh, err := encodeMesh(m, art)
	if err != nil {
		return nil, err
	}
	art.Mesh = mesh

	art.Manifest = buildManifest(m, art)
	art.Anim = encodeAnim(m)

	return art, nil
}

// submeshOwners maps each local vertex index to the submesh whose vertex
// range covers it, for bone-lookup resolution.
func submeshOwners(skin *m2.Skin) []int {
	owners := make([]int, len(skin.Remap))
	for i := range owners {
		owners[i] = -1
	}
	for si, sm := range skin.Submeshes {
		end := int(sm.VertexStart) + int(sm.VertexCount)
		for v := int(sm.VertexStart); v < end && v < len(owners); v++ {
			owners[v] = si
		}
	}
	return owners
}

func encodeMesh(m *m2.Model, art *Artifacts) ([]byte, error) {
	skin := m.Skin
	vertexCount := len(skin.Remap)
	owners := submeshOwners(skin)

	buf := make([]byte, 0, vertexCount*VertexStride+len(skin.Indices)*2)
	var scratch [4]byte
	putF32 := func(v float32) {
		binary.LittleEndian.PutUint32(scratch[:], math.Float32bits(v))
		buf = append(buf, scratch[:]...)
	}

	badWeights := 0
	for local, global := range skin.Remap {
		if int(global) >= len(m.Vertices) {
			return nil, fmt.Errorf("convert: remap entry %d references vertex %d of %d", local, global, len(m.Vertices))
		}
		v := m.Vertices[global]

		// Resolve the two-step bone indirection once, here, so the
		// runtime never needs the lookup table.
		var bones [4]uint8
		for k := 0; k < 4; k++ {
			if v.Weights[k] == 0 {
				continue
			}
			owner := owners[local]
			var sub m2.Submesh
			if owner >= 0 {
				sub = skin.Submeshes[owner]
			}
			resolved, ok := m2.ResolveBone(m.BoneLookup, sub, v.Bones[k])
			if !ok {
				return nil, fmt.Errorf("convert: vertex %d: bone index %d misses the lookup table (combo %d)", local, v.Bones[k], sub.BoneComboIndex)
			}
			if int(resolved) >= len(m.Bones) {
				return nil, fmt.Errorf("convert: vertex %d: resolved bone %d of %d", local, resolved, len(m.Bones))
			}
			if resolved > 0xFF {
				return nil, fmt.Errorf("convert: vertex %d: bone %d does not fit a byte index", local, resolved)
			}
			bones[k] = uint8(resolved)
		}

		sum := int(v.Weights[0]) + int(v.Weights[1]) + int(v.Weights[2]) + int(v.Weights[3])
		if sum != 255 && sum != 0 {
			badWeights++
		}

		putF32(v.Pos[0])
		putF32(v.Pos[1])
		putF32(v.Pos[2])
		putF32(v.Normal[0])
		putF32(v.Normal[1])
		putF32(v.Normal[2])
		putF32(v.UV[0])
		putF32(v.UV[1])
		buf = append(buf, bones[0], bones[1], bones[2], bones[3])
		buf = append(buf, v.Weights[0], v.Weights[1], v.Weights[2], v.Weights[3])
	}
	if badWeights > 0 {
		art.Warnings = append(art.Warnings, fmt.Sprintf("%d vertices with bone weights not summing to 255", badWeights))
	}

	// Index buffer, unchanged: indices already reference the remapped
	// vertex order. The bound check is the postcondition every renderer
	// depends on.
	for i, idx := range skin.Indices {
		if int(idx) >= vertexCount {
			return nil, fmt.Errorf("convert: triangle index %d at position %d exceeds vertex count %d", idx, i, vertexCount)
		}
		binary.LittleEndian.PutUint16(scratch[:2], idx)
		buf = append(buf, scratch[0], scratch[1])
	}

	return buf, nil
}
