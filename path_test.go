package typeval_test

import (
	"testing"

	"github.com/typeval/typeval"
)

func TestPath_String(t *testing.T) {
	p := typeval.Root().Field("friends").Index(2).Field("name")
	if got := p.String(); got != "$.friends[2].name" {
		t.Fatalf("unexpected rendering: %q", got)
	}
	if got := typeval.Root().String(); got != "$" {
		t.Fatalf("unexpected rendering: %q", got)
	}
	if got := typeval.Root().Variant("circle").String(); got != "$.circle" {
		t.Fatalf("unexpected rendering: %q", got)
	}
}

func TestPath_Immutable(t *testing.T) {
	base := typeval.Root().Field("a")
	left := base.Field("b")
	right := base.Index(0)
	if left.String() != "$.a.b" || right.String() != "$.a[0]" || base.String() != "$.a" {
		t.Fatalf("paths should not share mutation: %s %s %s", base, left, right)
	}
}

func TestPath_Segments(t *testing.T) {
	p := typeval.Root().Field("x").Index(3)
	if p.IsRoot() {
		t.Fatalf("non-empty path reported as root")
	}
	if !typeval.Root().IsRoot() {
		t.Fatalf("root path not reported as root")
	}
	segs := p.Segments()
	if len(segs) != 2 || segs[0].Kind != typeval.FieldSegment || segs[0].Name != "x" ||
		segs[1].Kind != typeval.IndexSegment || segs[1].Index != 3 {
		t.Fatalf("unexpected segments: %#v", segs)
	}
	// the returned slice is a copy
	segs[0].Name = "mutated"
	if p.String() != "$.x[3]" {
		t.Fatalf("segment copy leaked back into the path: %s", p)
	}
}
