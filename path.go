package typeval

import (
	"strconv"
	"strings"
)

// SegmentKind discriminates the three accessor kinds of a Path segment.
type SegmentKind int

const (
	FieldSegment SegmentKind = iota
	IndexSegment
	VariantSegment
)

// Segment is one step of an accessor trail: a field name, an array index
// or a union variant name.
type Segment struct {
	Kind  SegmentKind
	Name  string // field or variant name
	Index int    // array index, valid when Kind == IndexSegment
}

// Path is an immutable accessor trail locating a value inside a nested
// structure. The zero value is the root path. Paths tag errors and never
// affect control flow.
type Path struct {
	segs []Segment
}

// Root returns the empty path.
func Root() Path { return Path{} }

// Field returns a new path with a trailing field segment.
func (p Path) Field(name string) Path {
	return p.appended(Segment{Kind: FieldSegment, Name: name})
}

// Index returns a new path with a trailing index segment.
func (p Path) Index(i int) Path {
	return p.appended(Segment{Kind: IndexSegment, Index: i})
}

// Variant returns a new path with a trailing variant segment.
func (p Path) Variant(name string) Path {
	return p.appended(Segment{Kind: VariantSegment, Name: name})
}

func (p Path) appended(s Segment) Path {
	segs := make([]Segment, 0, len(p.segs)+1)
	segs = append(segs, p.segs...)
	segs = append(segs, s)
	return Path{segs: segs}
}

func (p Path) prepended(s Segment) Path {
	segs := make([]Segment, 0, len(p.segs)+1)
	segs = append(segs, s)
	segs = append(segs, p.segs...)
	return Path{segs: segs}
}

// IsRoot reports whether the path has no segments.
func (p Path) IsRoot() bool { return len(p.segs) == 0 }

// Segments returns a copy of the path's segments in order.
func (p Path) Segments() []Segment {
	out := make([]Segment, len(p.segs))
	copy(out, p.segs)
	return out
}

// String renders the path in dollar notation, e.g. "$.friends[2].name".
// Variant segments render like fields.
func (p Path) String() string {
	var b strings.Builder
	b.WriteByte('$')
	for _, s := range p.segs {
		switch s.Kind {
		case IndexSegment:
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(s.Index))
			b.WriteByte(']')
		default:
			b.WriteByte('.')
			b.WriteString(s.Name)
		}
	}
	return b.String()
}
