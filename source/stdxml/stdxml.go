// Package stdxml adapts encoding/xml into the pull token model used by
// xmlbind. It is the default driver; alternative tokenizers can be plugged in
// through xmlbind.SetXMLDriver.
package stdxml

import (
	"bytes"
	"encoding/xml"
	"io"

	"github.com/go-xmlbind/xmlbind/internal/token"
)

type xmlSource struct {
	dec        *xml.Decoder
	closer     io.Closer
	lastOffset int64
	closed     bool
}

// NewReader wraps an io.Reader into a token.Source for XML. If r also
// implements io.Closer it is closed together with the source.
func NewReader(r io.Reader) token.Source {
	dec := xml.NewDecoder(r)
	closer, _ := r.(io.Closer)
	return &xmlSource{dec: dec, closer: closer, lastOffset: -1}
}

// NewBytes wraps a byte slice into a token.Source for XML.
func NewBytes(b []byte) token.Source {
	return NewReader(bytes.NewReader(b))
}

// NextToken returns the next element, character data, or end-of-input token.
// Comments, processing instructions, and directives are markup the binding
// layer never consumes, so they are skipped here. encoding/xml reports CDATA
// sections as plain character data; the CData kind is left to drivers whose
// tokenizer can tell the two apart.
func (s *xmlSource) NextToken() (token.Token, error) {
	if s.closed {
		return token.Token{}, io.EOF
	}
	for {
		tok, err := s.dec.Token()
		if err != nil {
			if err == io.EOF {
				return token.Token{}, io.EOF
			}
			return token.Token{}, err
		}
		s.lastOffset = s.dec.InputOffset()

		switch t := tok.(type) {
		case xml.StartElement:
			attrs := make([]token.Attr, 0, len(t.Attr))
			for _, a := range t.Attr {
				attrs = append(attrs, token.Attr{Name: a.Name, Value: a.Value})
			}
			return token.Token{
				Kind:   token.KindStartElement,
				Name:   t.Name,
				Attrs:  attrs,
				Offset: s.lastOffset,
			}, nil
		case xml.EndElement:
			return token.Token{
				Kind:   token.KindEndElement,
				Name:   t.Name,
				Offset: s.lastOffset,
			}, nil
		case xml.CharData:
			return token.Token{
				Kind:   token.KindCharData,
				Text:   string(t),
				Offset: s.lastOffset,
			}, nil
		case xml.Comment, xml.ProcInst, xml.Directive:
			continue
		}
	}
}

func (s *xmlSource) Location() int64 { return s.lastOffset }

// Close releases the underlying reader when it is closable. Close is
// idempotent; a closed source reports end of input from NextToken.
func (s *xmlSource) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}
