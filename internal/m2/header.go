package m2

import (
	"errors"
	"fmt"

	"wow-m2-converter/internal/m2reader"
)

var (
	ErrBadMagic           = errors.New("bad magic")
	ErrUnsupportedVersion = errors.New("unsupported version")
)

const magic = "MD20"

// Layout identifies one of the two supported header shapes.
type Layout int

const (
	// LayoutClassic (versions 256-257): carries the playable-animation
	// lookup table and an inline views ArrayDescriptor. Fully convertible.
	LayoutClassic Layout = iota
	// LayoutWrath (version 264): no playable-animation lookup, views
	// reduced to a bare skin-profile count; skin data lives in external
	// files, so only the header and plain tables are readable.
	LayoutWrath
)

func (l Layout) String() string {
	if l == LayoutWrath {
		return "wrath"
	}
	return "classic"
}

// headerFields is one version's offset table. Each field is the byte
// offset of a count/offset pair, selected once after reading the version
// field. Never branch on version inside parsing logic; add a field here.
type headerFields struct {
	name            int
	globalSequences int
	sequences       int
	animationLookup int
	bones           int
	boneLookup      int
	vertices        int
	views           int // ArrayDescriptor for classic, bare u32 count for wrath
	viewsInline     bool
	textures        int
	textureLookup   int
	attachments     int
}

var classicFields = headerFields{
	name:            0x08,
	globalSequences: 0x14,
	sequences:       0x1C,
	animationLookup: 0x24,
	bones:           0x34,
	boneLookup:      0x8C,
	vertices:        0x44,
	views:           0x4C,
	viewsInline:     true,
	textures:        0x5C,
	textureLookup:   0x94,
	attachments:     0x104,
}

var wrathFields = headerFields{
	name:            0x08,
	globalSequences: 0x14,
	sequences:       0x1C,
	animationLookup: 0x24,
	bones:           0x2C,
	boneLookup:      0x78,
	vertices:        0x3C,
	views:           0x44,
	viewsInline:     false,
	textures:        0x50,
	textureLookup:   0x80,
	attachments:     0xF0,
}

func layoutFor(version uint32) (Layout, headerFields, bool) {
	switch version {
	case 256, 257:
		return LayoutClassic, classicFields, true
	case 264:
		return LayoutWrath, wrathFields, true
	}
	return 0, headerFields{}, false
}

// Header is the decoded M2 root header: typed offsets and counts for every
// table the converter consumes. Immutable after construction.
type Header struct {
	Version uint32
	Layout  Layout
	Name    string

	GlobalSequences m2reader.ArrayDescriptor
	Sequences       m2reader.ArrayDescriptor
	AnimationLookup m2reader.ArrayDescriptor
	Bones           m2reader.ArrayDescriptor
	BoneLookup      m2reader.ArrayDescriptor
	Vertices        m2reader.ArrayDescriptor
	Views           m2reader.ArrayDescriptor // zero for LayoutWrath
	ViewCount       uint32
	Textures        m2reader.ArrayDescriptor
	TextureLookup   m2reader.ArrayDescriptor
	Attachments     m2reader.ArrayDescriptor
}

// ParseHeader validates the magic tag and version, then decodes the header
// through the version's offset table.
func ParseHeader(r *m2reader.Reader) (*Header, error) {
	tag, err := r.Bytes(0, 4)
	if err != nil {
		return nil, fmt.Errorf("m2: header: %w", err)
	}
	if string(tag) != magic {
		return nil, fmt.Errorf("m2: %w: got %q, want %q", ErrBadMagic, string(tag), magic)
	}

	version, err := r.U32(4)
	if err != nil {
		return nil, fmt.Errorf("m2: header: %w", err)
	}
	layout, fields, ok := layoutFor(version)
	if !ok {
		return nil, fmt.Errorf("m2: %w: %d", ErrUnsupportedVersion, version)
	}

	h := &Header{Version: version, Layout: layout}

	nameDesc, err := r.Array(fields.name)
	if err != nil {
		return nil, fmt.Errorf("m2: header name: %w", err)
	}
	if nameDesc.Count > 0 {
		h.Name, err = r.CString(int(nameDesc.Offset), int(nameDesc.Count))
		if err != nil {
			return nil, fmt.Errorf("m2: header name: %w", err)
		}
	}

	read := func(dst *m2reader.ArrayDescriptor, off int, what string) error {
		d, e := r.Array(off)
		if e != nil {
			return fmt.Errorf("m2: header %s: %w", what, e)
		}
		*dst = d
		return nil
	}

	if err := read(&h.GlobalSequences, fields.globalSequences, "global sequences"); err != nil {
		return nil, err
	}
	if err := read(&h.Sequences, fields.sequences, "sequences"); err != nil {
		return nil, err
	}
	if err := read(&h.AnimationLookup, fields.animationLookup, "animation lookup"); err != nil {
		return nil, err
	}
	if err := read(&h.Bones, fields.bones, "bones"); err != nil {
		return nil, err
	}
	if err := read(&h.BoneLookup, fields.boneLookup, "bone lookup"); err != nil {
		return nil, err
	}
	if err := read(&h.Vertices, fields.vertices, "vertices"); err != nil {
		return nil, err
	}
	if fields.viewsInline {
		if err := read(&h.Views, fields.views, "views"); err != nil {
			return nil, err
		}
		h.ViewCount = h.Views.Count
	} else {
		n, e := r.U32(fields.views)
		if e != nil {
			return nil, fmt.Errorf("m2: header views: %w", e)
		}
		h.ViewCount = n
	}
	if err := read(&h.Textures, fields.textures, "textures"); err != nil {
		return nil, err
	}
	if err := read(&h.TextureLookup, fields.textureLookup, "texture lookup"); err != nil {
		return nil, err
	}
	if err := read(&h.Attachments, fields.attachments, "attachments"); err != nil {
		return nil, err
	}

	return h, nil
}
