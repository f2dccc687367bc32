package xmlbind

import "github.com/go-xmlbind/xmlbind/dom"

// BuildResult is a tagged union over a bound object, a raw element snapshot,
// and emptiness. At most one variant is populated; callers discriminate with
// IsSetObject/IsSetElement before use.
type BuildResult[T any] struct {
	object    T
	element   *dom.Element
	hasObject bool
}

// ObjectResult wraps a bound object.
func ObjectResult[T any](obj T) BuildResult[T] {
	return BuildResult[T]{object: obj, hasObject: true}
}

// ElementResult wraps a raw element snapshot.
func ElementResult[T any](el *dom.Element) BuildResult[T] {
	return BuildResult[T]{element: el}
}

// EmptyResult holds neither variant.
func EmptyResult[T any]() BuildResult[T] {
	return BuildResult[T]{}
}

// IsSetObject reports whether the bound-object variant is populated.
func (r BuildResult[T]) IsSetObject() bool { return r.hasObject }

// IsSetElement reports whether the raw-snapshot variant is populated.
func (r BuildResult[T]) IsSetElement() bool { return r.element != nil }

// IsEmpty reports whether neither variant is populated.
func (r BuildResult[T]) IsEmpty() bool { return !r.hasObject && r.element == nil }

// Object returns the bound object; the zero value when not populated.
func (r BuildResult[T]) Object() T { return r.object }

// Element returns the raw snapshot; nil when not populated.
func (r BuildResult[T]) Element() *dom.Element { return r.element }
