package retrieve

import (
	"fmt"

	"github.com/typeval/typeval"
)

// Order controls which argument of Merge takes precedence for winner-take
// capabilities (skip, take) and which side's orderBy entries come first.
type Order int

const (
	LeftBefore  Order = iota // a wins ties, a's orderBy entries precede b's
	RightBefore              // b wins ties, b's orderBy entries precede a's
)

// Merge combines two retrieve values for the same entity into one,
// deterministically:
//
//   - where: logical AND of both, wrapped in an AND combinator unless one
//     side is empty;
//   - select: recursive union, a boolean select-all dominating a partial
//     nested select;
//   - orderBy: concatenation, ordered by order;
//   - skip/take: the side named first by order wins when both are set.
//
// Nil maps are treated as empty retrieves.
func Merge(entity typeval.Type, a, b map[string]any, order Order) (map[string]any, error) {
	e, ok := typeval.Concretise(entity).(*typeval.EntityType)
	if !ok {
		return nil, fmt.Errorf("retrieve: %s is not an entity type", typeval.Describe(entity))
	}
	return mergeRetrieve(e.Fields(), a, b, order), nil
}

func mergeRetrieve(fields []typeval.Field, a, b map[string]any, order Order) map[string]any {
	out := map[string]any{}
	if w := mergeWhere(a["where"], b["where"]); w != nil {
		out["where"] = w
	}
	if s := mergeSelect(fields, a["select"], b["select"], order); s != nil {
		out["select"] = s
	}
	if o := mergeOrderBy(a["orderBy"], b["orderBy"], order); o != nil {
		out["orderBy"] = o
	}
	first, second := a, b
	if order == RightBefore {
		first, second = b, a
	}
	for _, k := range []string{"skip", "take"} {
		if v, ok := first[k]; ok {
			out[k] = v
		} else if v, ok := second[k]; ok {
			out[k] = v
		}
	}
	return out
}

func mergeWhere(a, b any) any {
	aw, aOK := nonEmptyMap(a)
	bw, bOK := nonEmptyMap(b)
	switch {
	case aOK && bOK:
		return map[string]any{"AND": []any{aw, bw}}
	case aOK:
		return aw
	case bOK:
		return bw
	default:
		return nil
	}
}

// mergeSelect unions two selection values field-wise. A boolean true on
// either side selects everything for that field; nested selections of a
// relation merge recursively as retrieves, nested selections of an
// embedded object merge recursively as selections.
func mergeSelect(fields []typeval.Field, a, b any, order Order) any {
	am, aOK := asMap(a)
	bm, bOK := asMap(b)
	if !aOK && !bOK {
		return nil
	}
	if !aOK {
		am = map[string]any{}
	}
	if !bOK {
		bm = map[string]any{}
	}
	out := map[string]any{}
	for _, f := range fields {
		av, aHas := am[f.Name]
		bv, bHas := bm[f.Name]
		if !aHas && !bHas {
			continue
		}
		if merged := mergeSelection(f.Type, av, bv, order); merged != nil {
			out[f.Name] = merged
		}
	}
	return out
}

func mergeSelection(fieldType typeval.Type, a, b any, order Order) any {
	if a == true || b == true {
		return true
	}
	am, aOK := asMap(a)
	bm, bOK := asMap(b)
	switch {
	case aOK && bOK:
		info := classify(fieldType)
		switch info.class {
		case classToOne, classToMany:
			return mergeRetrieve(info.entity.Fields(), am, bm, order)
		case classEmbedded:
			return mergeSelect(info.object.Fields(), am, bm, order)
		default:
			// no recursive shape to merge; the first side by order wins
			if order == RightBefore {
				return bm
			}
			return am
		}
	case aOK:
		return am
	case bOK:
		return bm
	case a == false || b == false:
		return false
	default:
		return nil
	}
}

func mergeOrderBy(a, b any, order Order) any {
	as, _ := a.([]any)
	bs, _ := b.([]any)
	if len(as) == 0 && len(bs) == 0 {
		return nil
	}
	first, second := as, bs
	if order == RightBefore {
		first, second = bs, as
	}
	out := make([]any, 0, len(first)+len(second))
	out = append(out, first...)
	out = append(out, second...)
	return out
}

func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

func nonEmptyMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	if !ok || len(m) == 0 {
		return nil, false
	}
	return m, true
}
