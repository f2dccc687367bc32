package xmlbind

import (
	"encoding/xml"
	"errors"
	"io"
)

// Cursor tracks nesting depth and namespace scopes over a pull-based Source.
// The depth is incremented when a start element is consumed and decremented
// when an end element is consumed, before the event becomes visible to the
// caller: while positioned on <a> the depth already counts a as open, and
// while positioned on </a> it no longer does.
//
// A Cursor owns its Source exclusively and is not safe for concurrent use.
type Cursor struct {
	src    Source
	kind   Kind
	name   xml.Name
	attrs  []Attr
	text   string
	depth  int
	ns     nsStack
	peeked *Token
	closed bool
}

// NewCursor wraps a Source. The cursor starts positioned before the first
// token with depth zero.
func NewCursor(src Source) *Cursor {
	return &Cursor{src: src, kind: KindStartDocument}
}

// Kind returns the kind of the event the cursor is positioned on.
func (c *Cursor) Kind() Kind { return c.kind }

// Depth returns the number of currently open elements at the cursor position.
func (c *Cursor) Depth() int { return c.depth }

// Location returns the byte offset of the current position when known.
func (c *Cursor) Location() int64 { return c.src.Location() }

// HasMore reports whether further tokens are obtainable. It peeks at the
// underlying source without updating depth or namespace state.
func (c *Cursor) HasMore() (bool, error) {
	if c.closed {
		return false, faultf(CodeSessionClosed, "cursor is closed")
	}
	if c.peeked != nil {
		return true, nil
	}
	if c.kind == KindEndDocument {
		return false, nil
	}
	tok, err := c.src.NextToken()
	if err != nil {
		if isEOF(err) {
			return false, nil
		}
		return false, cursorFault(err)
	}
	c.peeked = &tok
	return true, nil
}

// Advance consumes the next token and updates depth, namespace scopes, and the
// current-event state. At end of input the cursor settles on an end-document
// event; advancing further keeps it there.
func (c *Cursor) Advance() error {
	if c.closed {
		return faultf(CodeSessionClosed, "cursor is closed")
	}
	var tok Token
	if c.peeked != nil {
		tok = *c.peeked
		c.peeked = nil
	} else {
		if c.kind == KindEndDocument {
			return nil
		}
		t, err := c.src.NextToken()
		if err != nil {
			if isEOF(err) {
				c.enterEndDocument()
				return nil
			}
			return cursorFault(err)
		}
		tok = t
	}

	c.text = ""
	switch tok.Kind {
	case KindStartElement:
		c.depth++
		c.ns.push(scopeFromAttrs(tok.Attrs))
		c.name = tok.Name
		c.attrs = tok.Attrs
	case KindEndElement:
		c.depth--
		c.ns.pop()
		c.name = tok.Name
		c.attrs = nil
	case KindCharData, KindCData:
		c.text = tok.Text
		c.attrs = nil
	case KindEndDocument:
		c.enterEndDocument()
		return nil
	}
	c.kind = tok.Kind
	return nil
}

// NextTag advances until the next start or end element, returning its kind.
// It returns KindEndDocument when the input is exhausted first.
func (c *Cursor) NextTag() (Kind, error) {
	for {
		more, err := c.HasMore()
		if err != nil {
			return 0, err
		}
		if !more {
			c.enterEndDocument()
			return KindEndDocument, nil
		}
		if err := c.Advance(); err != nil {
			return 0, err
		}
		if c.kind == KindStartElement || c.kind == KindEndElement {
			return c.kind, nil
		}
	}
}

// Name returns the qualified name of the current start element.
func (c *Cursor) Name() (xml.Name, error) {
	if c.kind != KindStartElement {
		return xml.Name{}, positionFault("Name")
	}
	return c.name, nil
}

// Attributes snapshots the attributes of the current start element.
func (c *Cursor) Attributes() (AttributeSet, error) {
	if c.kind != KindStartElement {
		return AttributeSet{}, positionFault("Attributes")
	}
	return newAttributeSet(c.attrs), nil
}

// Text returns the character data of the current text event, or the empty
// string when the cursor is not positioned on one.
func (c *Cursor) Text() string { return c.text }

// Namespaces snapshots the prefix bindings visible at the current position.
func (c *Cursor) Namespaces() NamespaceContext {
	return NamespaceContext{bindings: c.ns.flatten()}
}

// Close releases the underlying source. Closing is idempotent and
// irreversible; a closed cursor fails every subsequent read.
func (c *Cursor) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.peeked = nil
	return c.src.Close()
}

func (c *Cursor) enterEndDocument() {
	c.kind = KindEndDocument
	c.name = xml.Name{}
	c.attrs = nil
	c.text = ""
}

func isEOF(err error) bool {
	return errors.Is(err, io.EOF)
}

// nsScope holds the prefix bindings declared on one element; nil when the
// element declares nothing.
type nsScope struct {
	bindings map[string]string
}

type nsStack struct {
	scopes []nsScope
}

func (s *nsStack) push(scope nsScope) {
	s.scopes = append(s.scopes, scope)
}

func (s *nsStack) pop() {
	if len(s.scopes) == 0 {
		return
	}
	s.scopes = s.scopes[:len(s.scopes)-1]
}

func (s *nsStack) flatten() map[string]string {
	out := make(map[string]string)
	for _, scope := range s.scopes {
		for p, uri := range scope.bindings {
			out[p] = uri
		}
	}
	return out
}

func scopeFromAttrs(attrs []Attr) nsScope {
	var bindings map[string]string
	for _, attr := range attrs {
		if !isNamespaceDecl(attr.Name) {
			continue
		}
		if bindings == nil {
			bindings = make(map[string]string)
		}
		if attr.Name.Space == xmlnsPrefix {
			bindings[attr.Name.Local] = attr.Value
		} else {
			bindings[""] = attr.Value
		}
	}
	return nsScope{bindings: bindings}
}
