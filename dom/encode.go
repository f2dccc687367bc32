package dom

import (
	"encoding/xml"
	"io"
	"strings"
)

// Encode writes the subtree as well-formed markup. Prefixes from the source
// document are not preserved; namespaces are re-declared where needed, which
// is the stdlib encoder behavior.
func (e *Element) Encode(w io.Writer) error {
	enc := xml.NewEncoder(w)
	if err := e.encodeTokens(enc); err != nil {
		return err
	}
	return enc.Flush()
}

// String returns the subtree as markup text.
func (e *Element) String() string {
	var b strings.Builder
	if err := e.Encode(&b); err != nil {
		return ""
	}
	return b.String()
}

func (e *Element) encodeTokens(enc *xml.Encoder) error {
	start := xml.StartElement{Name: e.Name}
	if len(e.Attrs) > 0 {
		start.Attr = make([]xml.Attr, 0, len(e.Attrs))
		for _, a := range e.Attrs {
			start.Attr = append(start.Attr, xml.Attr{Name: a.Name, Value: a.Value})
		}
	}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	for _, n := range e.Nodes {
		switch t := n.(type) {
		case Text:
			if err := enc.EncodeToken(xml.CharData(t)); err != nil {
				return err
			}
		case *Element:
			if err := t.encodeTokens(enc); err != nil {
				return err
			}
		}
	}
	return enc.EncodeToken(start.End())
}
