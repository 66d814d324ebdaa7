package convert

import (
	"bytes"
	"encoding/binary"
	"math"

	"wow-m2-converter/internal/m2"
)

// Animation blob layout. All integers little-endian.
//
//	header:  "M2AN", u32 version, u32 boneCount, u32 seqCount,
//	         u32 globalSeqCount, u32 ofsSequences, u32 ofsGlobalSeqs,
//	         u32 ofsBoneTracks, u32 ofsKeyCounts
//	sequences:   per clip: u16 animID, u16 subID, u32 duration, u32 flags,
//	             u32 blendTime, i16 variationNext, u16 aliasNext
//	global seqs: u32 loop duration each
//	bone tracks: per bone: u8 interp x3, pad, i16 globalSeq x3, pad
//	key counts:  per (bone, sequence): u32 translation/rotation/scale
//	             keyframe counts; global-sequence keys count under
//	             sequence 0
//	key data:    streams in bone, sequence, track order: u32 timestamp
//	             followed by 3 (vectors) or 4 (quaternions) f32
const (
	AnimMagic   = "M2AN"
	AnimVersion = 1

	animHeaderSize = 36
	seqEntrySize   = 20
	boneEntrySize  = 12
	countEntrySize = 12
)

func encodeAnim(m *m2.Model) []byte {
	var buf bytes.Buffer

	seqCount := len(m.Sequences)
	boneCount := len(m.Bones)

	ofsSequences := animHeaderSize
	ofsGlobalSeqs := ofsSequences + seqCount*seqEntrySize
	ofsBoneTracks := ofsGlobalSeqs + len(m.GlobalSequences)*4
	ofsKeyCounts := ofsBoneTracks + boneCount*boneEntrySize

	writeU16 := func(v uint16) {
		var b [2]byte
		binary.LittleEndian.PutUint16(b[:], v)
		buf.Write(b[:])
	}
	writeU32 := func(v uint32) {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], v)
		buf.Write(b[:])
	}

	buf.WriteString(AnimMagic)
	writeU32(AnimVersion)
	writeU32(uint32(boneCount))
	writeU32(uint32(seqCount))
	writeU32(uint32(len(m.GlobalSequences)))
	writeU32(uint32(ofsSequences))
	writeU32(uint32(ofsGlobalSeqs))
	writeU32(uint32(ofsBoneTracks))
	writeU32(uint32(ofsKeyCounts))

	for _, s := range m.Sequences {
		writeU16(s.AnimID)
		writeU16(s.SubID)
		writeU32(s.Duration())
		writeU32(s.Flags)
		writeU32(s.BlendTime)
		writeU16(uint16(s.VariationNext))
		writeU16(s.AliasNext)
	}

	for _, d := range m.GlobalSequences {
		writeU32(d)
	}

	for i := range m.Bones {
		b := &m.Bones[i]
		buf.WriteByte(uint8(b.Translation.Interp))
		buf.WriteByte(uint8(b.Rotation.Interp))
		buf.WriteByte(uint8(b.Scale.Interp))
		buf.WriteByte(0)
		writeU16(uint16(b.Translation.GlobalSeq))
		writeU16(uint16(b.Rotation.GlobalSeq))
		writeU16(uint16(b.Scale.GlobalSeq))
		writeU16(0)
	}

	for i := range m.Bones {
		b := &m.Bones[i]
		for s := 0; s < seqCount; s++ {
			writeU32(uint32(len(trackSlice(&b.Translation, s).Times)))
			writeU32(uint32(len(trackSlice(&b.Rotation, s).Times)))
			writeU32(uint32(len(trackSlice(&b.Scale, s).Times)))
		}
	}

	writeKeys := func(t *m2.Track, s int) {
		slice := trackSlice(t, s)
		for k, ts := range slice.Times {
			writeU32(ts)
			for d := 0; d < t.Dim; d++ {
				writeU32(math.Float32bits(slice.Values[k*t.Dim+d]))
			}
		}
	}
	for i := range m.Bones {
		b := &m.Bones[i]
		for s := 0; s < seqCount; s++ {
			writeKeys(&b.Translation, s)
			writeKeys(&b.Rotation, s)
			writeKeys(&b.Scale, s)
		}
	}

	return buf.Bytes()
}

// trackSlice returns the keyframes a track contributes to the given
// sequence slot. A global-sequence track contributes its single loop
// under slot 0 and nothing elsewhere.
func trackSlice(t *m2.Track, s int) m2.TrackSlice {
	if t.Global() {
		if s == 0 && len(t.Seq) > 0 {
			return t.Seq[0]
		}
		return m2.TrackSlice{}
	}
	if s < len(t.Seq) {
		return t.Seq[s]
	}
	return m2.TrackSlice{}
}
