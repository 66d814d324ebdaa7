package m2

import (
	"fmt"

	"github.com/chewxy/math32"

	"wow-m2-converter/internal/m2reader"
)

// Track struct offsets within a bone: translation, rotation, scale.
const (
	boneTransOff = 12
	boneRotOff   = 40
	boneScaleOff = 68
	bonePivotOff = 96
)

// ParseBones decodes the bone table and each bone's three keyframe tracks.
// Keyframes are localized to per-sequence time on read. The returned
// warnings record recoverable degradations (identity-substituted
// quaternions); they belong in the conversion log.
func ParseBones(r *m2reader.Reader, h *Header, seqs []Sequence) ([]Bone, []string, error) {
	if err := r.CheckArray(h.Bones, boneSize); err != nil {
		return nil, nil, fmt.Errorf("m2: bone table: %w", err)
	}

	bones := make([]Bone, 0, h.Bones.Count)
	var warnings []string

	for i := 0; i < int(h.Bones.Count); i++ {
		off := int(h.Bones.Offset) + i*boneSize

		var b Bone
		b.KeyBoneID, _ = r.I32(off)
		b.Flags, _ = r.U32(off + 4)
		b.Parent, _ = r.I16(off + 8)
		b.SubmeshID, _ = r.U16(off + 10)
		for k := 0; k < 3; k++ {
			b.Pivot[k], _ = r.F32(off + bonePivotOff + k*4)
		}

		var err error
		b.Translation, err = parseTrack(r, off+boneTransOff, 3, seqs)
		if err != nil {
			return nil, nil, fmt.Errorf("m2: bone %d translation: %w", i, err)
		}
		var fixed int
		b.Rotation, fixed, err = parseQuatTrack(r, off+boneRotOff, seqs)
		if err != nil {
			return nil, nil, fmt.Errorf("m2: bone %d rotation: %w", i, err)
		}
		if fixed > 0 {
			warnings = append(warnings, fmt.Sprintf("bone %d: %d near-zero rotation quaternions replaced with identity", i, fixed))
		}
		b.Scale, err = parseTrack(r, off+boneScaleOff, 3, seqs)
		if err != nil {
			return nil, nil, fmt.Errorf("m2: bone %d scale: %w", i, err)
		}

		bones = append(bones, b)
	}

	if err := checkBoneTree(bones); err != nil {
		return nil, nil, err
	}
	return bones, warnings, nil
}

// checkBoneTree verifies parent links form a tree: parents in range and
// no cycles.
func checkBoneTree(bones []Bone) error {
	for i, b := range bones {
		if b.Parent < -1 || int(b.Parent) >= len(bones) {
			return fmt.Errorf("m2: bone %d: parent %d out of range", i, b.Parent)
		}
		seen := 0
		for p := int(b.Parent); p >= 0; p = int(bones[p].Parent) {
			seen++
			if seen > len(bones) {
				return fmt.Errorf("m2: bone %d: cycle in parent chain", i)
			}
		}
	}
	return nil
}

// parseTrack decodes one 28-byte track of dim-float values.
//
// A track with globalSeq >= 0 and no ranges table is a self-contained
// loop: all keys land in slice 0 with timestamps kept as-is (they are
// already local to the loop). Everything else is sequence-ranged: each
// sequence's [start, end) pair slices the flat arrays, and timestamps are
// localized by subtracting the sequence's start time. Conflating the two
// corrupts continuous loops (enchant glows, breathing).
func parseTrack(r *m2reader.Reader, off, dim int, seqs []Sequence) (Track, error) {
	var t Track
	t.Dim = dim

	interp, err := r.U16(off)
	if err != nil {
		return t, err
	}
	t.Interp = interp
	t.GlobalSeq, err = r.I16(off + 2)
	if err != nil {
		return t, err
	}

	ranges, err := r.Array(off + 4)
	if err != nil {
		return t, err
	}
	times, err := r.Array(off + 12)
	if err != nil {
		return t, err
	}
	values, err := r.Array(off + 20)
	if err != nil {
		return t, err
	}

	if err := r.CheckArray(ranges, 8); err != nil {
		return t, fmt.Errorf("ranges: %w", err)
	}
	if err := r.CheckArray(times, 4); err != nil {
		return t, fmt.Errorf("timestamps: %w", err)
	}
	if err := r.CheckArray(values, dim*4); err != nil {
		return t, fmt.Errorf("values: %w", err)
	}

	n := int(times.Count)
	if int(values.Count) < n {
		n = int(values.Count)
	}

	readKeys := func(start, end int) TrackSlice {
		var s TrackSlice
		if start < 0 || start >= end || start >= n {
			return s
		}
		if end > n {
			end = n
		}
		s.Times = make([]uint32, 0, end-start)
		s.Values = make([]float32, 0, (end-start)*dim)
		for k := start; k < end; k++ {
			ts, _ := r.U32(int(times.Offset) + k*4)
			s.Times = append(s.Times, ts)
			for d := 0; d < dim; d++ {
				v, _ := r.F32(int(values.Offset) + (k*dim+d)*4)
				s.Values = append(s.Values, v)
			}
		}
		return s
	}

	if t.GlobalSeq >= 0 && ranges.Count == 0 {
		t.Seq = []TrackSlice{readKeys(0, n)}
		return t, nil
	}

	t.Seq = make([]TrackSlice, len(seqs))
	for s := range seqs {
		if s >= int(ranges.Count) {
			continue
		}
		start, _ := r.U32(int(ranges.Offset) + s*8)
		end, _ := r.U32(int(ranges.Offset) + s*8 + 4)
		slice := readKeys(int(start), int(end))
		for k := range slice.Times {
			if slice.Times[k] >= seqs[s].Start {
				slice.Times[k] -= seqs[s].Start
			} else {
				slice.Times[k] = 0
			}
		}
		t.Seq[s] = slice
	}
	return t, nil
}

// parseQuatTrack decodes a rotation track and length-normalizes every
// quaternion. Near-zero quaternions become identity instead of NaN; the
// substitution count is reported so callers can log it.
func parseQuatTrack(r *m2reader.Reader, off int, seqs []Sequence) (Track, int, error) {
	t, err := parseTrack(r, off, 4, seqs)
	if err != nil {
		return t, 0, err
	}
	fixed := 0
	for si := range t.Seq {
		vals := t.Seq[si].Values
		for k := 0; k+4 <= len(vals); k += 4 {
			q, ok := normalizeQuat([4]float32{vals[k], vals[k+1], vals[k+2], vals[k+3]})
			if !ok {
				fixed++
			}
			vals[k], vals[k+1], vals[k+2], vals[k+3] = q[0], q[1], q[2], q[3]
		}
	}
	return t, fixed, nil
}

const quatEpsilon = 1e-6

// normalizeQuat returns the unit quaternion, or identity (and false) when
// the input length is too small to normalize safely.
func normalizeQuat(q [4]float32) ([4]float32, bool) {
	l := math32.Sqrt(q[0]*q[0] + q[1]*q[1] + q[2]*q[2] + q[3]*q[3])
	if l < quatEpsilon {
		return [4]float32{0, 0, 0, 1}, false
	}
	inv := 1 / l
	return [4]float32{q[0] * inv, q[1] * inv, q[2] * inv, q[3] * inv}, true
}
