package m2

import (
	"encoding/binary"
	"math"
)

// builder assembles synthetic M2 buffers for tests. The header region is
// pre-sized for the classic layout; tables are appended behind it.
type builder struct {
	buf []byte
}

const testHeaderSize = 0x140

func newBuilder(version uint32) *builder {
	b := &builder{buf: make([]byte, testHeaderSize)}
	copy(b.buf, "MD20")
	binary.LittleEndian.PutUint32(b.buf[4:], version)
	return b
}

func (b *builder) putU32(off int, v uint32) {
	binary.LittleEndian.PutUint32(b.buf[off:], v)
}

func (b *builder) putArray(off int, count, dataOff uint32) {
	b.putU32(off, count)
	b.putU32(off+4, dataOff)
}

// append adds raw bytes and returns their offset.
func (b *builder) append(data []byte) uint32 {
	off := uint32(len(b.buf))
	b.buf = append(b.buf, data...)
	return off
}

func u16le(vs ...uint16) []byte {
	out := make([]byte, 2*len(vs))
	for i, v := range vs {
		binary.LittleEndian.PutUint16(out[i*2:], v)
	}
	return out
}

func u32le(vs ...uint32) []byte {
	out := make([]byte, 4*len(vs))
	for i, v := range vs {
		binary.LittleEndian.PutUint32(out[i*4:], v)
	}
	return out
}

func f32le(vs ...float32) []byte {
	out := make([]byte, 4*len(vs))
	for i, v := range vs {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(v))
	}
	return out
}

// vertex emits one 48-byte source vertex bound fully to bone index 0.
func vertex(x, y, z float32) []byte {
	out := make([]byte, 0, 48)
	out = append(out, f32le(x, y, z)...)
	out = append(out, 255, 0, 0, 0) // weights
	out = append(out, 0, 0, 0, 0)   // bone indices
	out = append(out, f32le(0, 0, 1)...)
	out = append(out, f32le(0.5, 0.5)...)
	out = append(out, f32le(0, 0)...)
	return out
}

// sequence emits one 68-byte clip.
func sequence(animID uint16, start, end uint32) []byte {
	out := make([]byte, 68)
	binary.LittleEndian.PutUint16(out[0:], animID)
	binary.LittleEndian.PutUint32(out[4:], start)
	binary.LittleEndian.PutUint32(out[8:], end)
	binary.LittleEndian.PutUint32(out[32:], 150)    // blend time
	binary.LittleEndian.PutUint16(out[64:], 0xFFFF) // variation next: none
	return out
}

// submesh emits one 32-byte skin section.
func submesh(id, vertexStart, vertexCount, indexStart, indexCount uint16) []byte {
	out := make([]byte, 32)
	binary.LittleEndian.PutUint16(out[0:], id)
	binary.LittleEndian.PutUint16(out[4:], vertexStart)
	binary.LittleEndian.PutUint16(out[6:], vertexCount)
	binary.LittleEndian.PutUint16(out[8:], indexStart)
	binary.LittleEndian.PutUint16(out[10:], indexCount)
	return out
}

// track emits a 28-byte empty track at buf[off].
func emptyTrack(buf []byte, off int) {
	binary.LittleEndian.PutUint16(buf[off+2:], 0xFFFF) // global seq -1
}

// bone emits one 108-byte bone with empty tracks.
func bone(parent int16, pivot [3]float32) []byte {
	out := make([]byte, 108)
	binary.LittleEndian.PutUint32(out[0:], 0xFFFFFFFF) // key bone id -1
	binary.LittleEndian.PutUint16(out[8:], uint16(parent))
	emptyTrack(out, 12)
	emptyTrack(out, 40)
	emptyTrack(out, 68)
	copy(out[96:], f32le(pivot[0], pivot[1], pivot[2]))
	return out
}

// buildMinimalModel assembles the two-vertex, one-triangle model used by
// the conversion tests: one submesh id 0 over remap [0,1] and triangle
// [0,1,0], one bone, one sequence.
func buildMinimalModel() []byte {
	b := newBuilder(256)

	vertOff := b.append(vertex(0, 0, 0))
	b.append(vertex(1, 0, 0))
	b.putArray(0x44, 2, vertOff)

	seqOff := b.append(sequence(0, 0, 1000))
	b.putArray(0x1C, 1, seqOff)

	boneOff := b.append(bone(-1, [3]float32{0, 0, 0}))
	b.putArray(0x34, 1, boneOff)

	remapOff := b.append(u16le(0, 1))
	idxOff := b.append(u16le(0, 1, 0))
	smOff := b.append(submesh(0, 0, 2, 0, 3))

	view := make([]byte, 44)
	binary.LittleEndian.PutUint32(view[0:], 2)
	binary.LittleEndian.PutUint32(view[4:], remapOff)
	binary.LittleEndian.PutUint32(view[8:], 3)
	binary.LittleEndian.PutUint32(view[12:], idxOff)
	binary.LittleEndian.PutUint32(view[24:], 1)
	binary.LittleEndian.PutUint32(view[28:], smOff)
	viewOff := b.append(view)
	b.putArray(0x4C, 1, viewOff)

	return b.buf
}
