package xmlbind

import (
	"encoding/xml"
	"strconv"
	"strings"
)

// XMLNamespace is the URI bound to the built-in xml prefix.
const XMLNamespace = "http://www.w3.org/XML/1998/namespace"

// xmlnsPrefix marks namespace declaration attributes as reported by drivers.
const xmlnsPrefix = "xmlns"

// AttributeSet is an ordered, immutable snapshot of the attributes present on
// one start element. Repeated names are preserved as-is; lookups return the
// first match. Namespace declarations are not part of the set.
type AttributeSet struct {
	attrs []Attr
}

// Len returns the number of attributes.
func (a AttributeSet) Len() int { return len(a.attrs) }

// IsEmpty reports whether the set holds no attributes.
func (a AttributeSet) IsEmpty() bool { return len(a.attrs) == 0 }

// Index returns the attribute at position i in document order.
func (a AttributeSet) Index(i int) Attr { return a.attrs[i] }

// Value returns the value of the first attribute with the given local name in
// the no-namespace scope.
func (a AttributeSet) Value(local string) (string, bool) {
	return a.ValueNS("", local)
}

// ValueNS returns the value of the first attribute matching the qualified name.
func (a AttributeSet) ValueNS(namespaceURI, local string) (string, bool) {
	for _, attr := range a.attrs {
		if attr.Name.Space == namespaceURI && attr.Name.Local == local {
			return attr.Value, true
		}
	}
	return "", false
}

// TextValue returns the value of the first matching attribute in the
// no-namespace scope as a TextContent, absent when the attribute is missing.
func (a AttributeSet) TextValue(local string) TextContent {
	v, ok := a.Value(local)
	if !ok {
		return TextContent{}
	}
	return TextOf(v)
}

// newAttributeSet filters namespace declarations out of the raw attribute list
// reported by the driver. The raw slice is owned by the cursor and copied here.
func newAttributeSet(raw []Attr) AttributeSet {
	if len(raw) == 0 {
		return AttributeSet{}
	}
	attrs := make([]Attr, 0, len(raw))
	for _, attr := range raw {
		if isNamespaceDecl(attr.Name) {
			continue
		}
		attrs = append(attrs, attr)
	}
	return AttributeSet{attrs: attrs}
}

func isNamespaceDecl(name xml.Name) bool {
	return name.Space == xmlnsPrefix || (name.Space == "" && name.Local == xmlnsPrefix)
}

// TextContent is an immutable concatenation of the character and CDATA runs of
// one text region. The zero value is absent.
type TextContent struct {
	s       string
	present bool
}

// TextOf wraps a raw string into a present TextContent.
func TextOf(s string) TextContent { return TextContent{s: s, present: true} }

// IsPresent reports whether any text region was captured at all.
func (t TextContent) IsPresent() bool { return t.present }

// String returns the raw concatenated text.
func (t TextContent) String() string { return t.s }

// Trimmed returns the text with surrounding XML whitespace removed.
func (t TextContent) Trimmed() string { return strings.TrimSpace(t.s) }

// Bool interprets the trimmed text as an xs:boolean literal.
func (t TextContent) Bool() (bool, bool) {
	switch t.Trimmed() {
	case "true", "1":
		return true, t.present
	case "false", "0":
		return false, t.present
	default:
		return false, false
	}
}

// Int64 interprets the trimmed text as a decimal integer.
func (t TextContent) Int64() (int64, bool) {
	if !t.present {
		return 0, false
	}
	v, err := strconv.ParseInt(t.Trimmed(), 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Float64 interprets the trimmed text as a floating point number.
func (t TextContent) Float64() (float64, bool) {
	if !t.present {
		return 0, false
	}
	v, err := strconv.ParseFloat(t.Trimmed(), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// NamespaceContext is a snapshot of the prefix bindings visible at one cursor
// position. The built-in xml prefix is always bound.
type NamespaceContext struct {
	bindings map[string]string
}

// Lookup resolves a prefix to its namespace URI. The empty prefix queries the
// default namespace.
func (n NamespaceContext) Lookup(prefix string) (string, bool) {
	if prefix == "xml" {
		return XMLNamespace, true
	}
	uri, ok := n.bindings[prefix]
	return uri, ok
}

// InScope returns a copy of all visible prefix bindings.
func (n NamespaceContext) InScope() map[string]string {
	out := make(map[string]string, len(n.bindings))
	for p, uri := range n.bindings {
		out[p] = uri
	}
	return out
}
