package typeval

import "sync"

// LazyType is an explicit indirection node used to express
// self-referential or mutually-referential type graphs. The producer runs
// at most once; the resolved node is cached in the LazyType itself, so
// node identity doubles as the cycle-detection key.
type LazyType struct {
	name     string
	produce  func() Type
	once     sync.Once
	resolved Type
}

// Lazy constructs a lazy type from a zero-argument producer. The producer
// must eventually yield a non-nil type; resolution never mutates shared
// state beyond the one-shot cache.
func Lazy(name string, produce func() Type) *LazyType {
	if produce == nil {
		panic("typeval: lazy producer must not be nil")
	}
	return &LazyType{name: name, produce: produce}
}

func (*LazyType) Kind() Kind { return KindLazy }
func (*LazyType) isType()    {}

// Name returns the lazy node's name, possibly empty.
func (t *LazyType) Name() string { return t.name }

// Concretise resolves one level of lazy indirection. Non-lazy types are
// returned unchanged. Repeated calls on the same node are cheap: the
// producer runs once and its result is memoized by node identity.
func Concretise(t Type) Type {
	l, ok := t.(*LazyType)
	if !ok {
		return t
	}
	l.once.Do(func() {
		l.resolved = l.produce()
		if l.resolved == nil {
			panic("typeval: lazy producer returned a nil type")
		}
	})
	return l.resolved
}

// concrete resolves lazy indirection to a fixpoint. A chain of lazy nodes
// pointing only at each other would not terminate; that is a malformed
// graph and the bounded walk panics instead of spinning.
func concrete(t Type) Type {
	if t == nil {
		panic("typeval: nil type")
	}
	const maxHops = 1000
	for i := 0; i < maxHops; i++ {
		l, ok := t.(*LazyType)
		if !ok {
			return t
		}
		t = Concretise(l)
	}
	panic("typeval: lazy type chain does not reach a concrete node")
}
