// Package dom provides a minimal, navigable element tree used as the raw
// snapshot for subtrees no builder binds. It is deliberately small: elements,
// attributes, and text, in document order.
package dom

import "encoding/xml"

// Attr is a single attribute on an element.
type Attr struct {
	Name  xml.Name
	Value string
}

// Node is either an *Element or a Text run.
type Node interface {
	node()
}

// Text is a character data run inside an element.
type Text string

func (Text) node() {}

// Element is one element with its attributes and child nodes.
type Element struct {
	Name  xml.Name
	Attrs []Attr
	Nodes []Node
}

func (*Element) node() {}

// NewElement creates an element with the given qualified name.
func NewElement(namespaceURI, local string) *Element {
	return &Element{Name: xml.Name{Space: namespaceURI, Local: local}}
}

// AddAttr appends an attribute in document order.
func (e *Element) AddAttr(name xml.Name, value string) *Element {
	e.Attrs = append(e.Attrs, Attr{Name: name, Value: value})
	return e
}

// AddText appends a text run.
func (e *Element) AddText(s string) *Element {
	e.Nodes = append(e.Nodes, Text(s))
	return e
}

// AddChild appends a child element.
func (e *Element) AddChild(child *Element) *Element {
	e.Nodes = append(e.Nodes, child)
	return e
}

// Attr returns the value of the first attribute with the given local name in
// the no-namespace scope.
func (e *Element) Attr(local string) (string, bool) {
	return e.AttrNS("", local)
}

// AttrNS returns the value of the first attribute matching the qualified name.
func (e *Element) AttrNS(namespaceURI, local string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name.Space == namespaceURI && a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

// Children returns the child elements in document order.
func (e *Element) Children() []*Element {
	var out []*Element
	for _, n := range e.Nodes {
		if c, ok := n.(*Element); ok {
			out = append(out, c)
		}
	}
	return out
}

// Child returns the first child element matching the qualified name.
func (e *Element) Child(namespaceURI, local string) (*Element, bool) {
	for _, n := range e.Nodes {
		c, ok := n.(*Element)
		if ok && c.Name.Space == namespaceURI && c.Name.Local == local {
			return c, true
		}
	}
	return nil, false
}

// ChildrenNamed returns all child elements matching the qualified name.
func (e *Element) ChildrenNamed(namespaceURI, local string) []*Element {
	var out []*Element
	for _, n := range e.Nodes {
		c, ok := n.(*Element)
		if ok && c.Name.Space == namespaceURI && c.Name.Local == local {
			out = append(out, c)
		}
	}
	return out
}

// TextContent concatenates the text runs of this element and all descendants
// in document order.
func (e *Element) TextContent() string {
	var b []byte
	e.appendText(&b)
	return string(b)
}

// DirectText concatenates only the text runs directly under this element.
func (e *Element) DirectText() string {
	var b []byte
	for _, n := range e.Nodes {
		if t, ok := n.(Text); ok {
			b = append(b, t...)
		}
	}
	return string(b)
}

func (e *Element) appendText(b *[]byte) {
	for _, n := range e.Nodes {
		switch t := n.(type) {
		case Text:
			*b = append(*b, t...)
		case *Element:
			t.appendText(b)
		}
	}
}
