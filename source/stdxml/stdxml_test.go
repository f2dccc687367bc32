package stdxml_test

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/go-xmlbind/xmlbind/internal/token"
	"github.com/go-xmlbind/xmlbind/source/stdxml"
)

func drain(t *testing.T, src token.Source) []token.Token {
	t.Helper()
	var out []token.Token
	for {
		tok, err := src.NextToken()
		if errors.Is(err, io.EOF) {
			return out
		}
		if err != nil {
			t.Fatalf("NextToken: %v", err)
		}
		out = append(out, tok)
	}
}

func TestTokenSequence(t *testing.T) {
	src := stdxml.NewBytes([]byte(`<a x="1"><b/>text</a>`))
	toks := drain(t, src)

	wantKinds := []token.Kind{
		token.KindStartElement, // a
		token.KindStartElement, // b
		token.KindEndElement,   // b
		token.KindCharData,
		token.KindEndElement, // a
	}
	if len(toks) != len(wantKinds) {
		t.Fatalf("token count: got %d, want %d", len(toks), len(wantKinds))
	}
	for i, k := range wantKinds {
		if toks[i].Kind != k {
			t.Fatalf("token %d: got %v, want %v", i, toks[i].Kind, k)
		}
	}
	if toks[0].Name.Local != "a" || len(toks[0].Attrs) != 1 || toks[0].Attrs[0].Value != "1" {
		t.Fatalf("start token: %+v", toks[0])
	}
	if toks[3].Text != "text" {
		t.Fatalf("chardata: got %q", toks[3].Text)
	}
}

func TestSkipsNonContentMarkup(t *testing.T) {
	doc := `<?xml version="1.0"?><!-- lead --><a><?pi data?><!-- inner -->x</a>`
	toks := drain(t, stdxml.NewReader(strings.NewReader(doc)))

	for _, tok := range toks {
		switch tok.Kind {
		case token.KindStartElement, token.KindEndElement, token.KindCharData:
		default:
			t.Fatalf("unexpected kind %v", tok.Kind)
		}
	}
}

func TestMalformedInputSurfacesError(t *testing.T) {
	src := stdxml.NewBytes([]byte(`<a><b></a>`))
	for {
		_, err := src.NextToken()
		if err == nil {
			continue
		}
		if errors.Is(err, io.EOF) {
			t.Fatal("mismatched tags reported as clean end of input")
		}
		return
	}
}

func TestLocationAdvances(t *testing.T) {
	src := stdxml.NewBytes([]byte(`<a>hi</a>`))
	if src.Location() != -1 {
		t.Fatalf("initial location: got %d", src.Location())
	}
	if _, err := src.NextToken(); err != nil {
		t.Fatalf("NextToken: %v", err)
	}
	if src.Location() <= 0 {
		t.Fatalf("location after first token: got %d", src.Location())
	}
}

type closeTracker struct {
	io.Reader
	closed bool
}

func (c *closeTracker) Close() error {
	c.closed = true
	return nil
}

func TestCloseReleasesReader(t *testing.T) {
	r := &closeTracker{Reader: strings.NewReader(`<a/>`)}
	src := stdxml.NewReader(r)
	if err := src.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !r.closed {
		t.Fatal("underlying reader not closed")
	}
	if err := src.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if _, err := src.NextToken(); !errors.Is(err, io.EOF) {
		t.Fatalf("read after close: %v", err)
	}
}
