// Package token defines the pull-based token model shared by the root package
// and source drivers.
package token

import "encoding/xml"

// Kind represents token kinds from a generic XML source.
type Kind int

const (
	// KindStartDocument is the initial cursor position before the first
	// token is consumed. Sources never produce it.
	KindStartDocument Kind = iota
	KindStartElement
	KindEndElement
	KindCharData
	KindCData
	KindEndDocument
)

// String returns a short name for the kind, for traces and fault messages.
func (k Kind) String() string {
	switch k {
	case KindStartDocument:
		return "start-document"
	case KindStartElement:
		return "start-element"
	case KindEndElement:
		return "end-element"
	case KindCharData:
		return "char-data"
	case KindCData:
		return "cdata"
	case KindEndDocument:
		return "end-document"
	default:
		return "unknown"
	}
}

// Attr is a single attribute as reported by a source. Namespace declarations
// are delivered as ordinary attributes in the xmlns scope; the cursor routes
// them into its namespace stack.
type Attr struct {
	Name  xml.Name
	Value string
}

// Token represents a streaming token with approximate input offset. Name is
// valid for element tokens, Attrs for start elements, Text for character and
// CDATA tokens. Offset records the byte position when known (-1 otherwise).
type Token struct {
	Kind   Kind
	Name   xml.Name
	Attrs  []Attr
	Text   string
	Offset int64
}

// Source is the minimal pull interface required by the cursor. NextToken
// returns io.EOF once the input is exhausted; any other error indicates a
// malformed document. Sources are forward-only and not safe for concurrent
// use.
type Source interface {
	NextToken() (Token, error)
	Location() int64 // byte offset; -1 if unknown
	Close() error
}
