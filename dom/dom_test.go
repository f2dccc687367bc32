package dom_test

import (
	"encoding/xml"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/go-xmlbind/xmlbind/dom"
)

func buildSample() *dom.Element {
	item := dom.NewElement("", "item").
		AddAttr(xml.Name{Local: "id"}, "1").
		AddText("first")
	return dom.NewElement("urn:example", "list").
		AddChild(item).
		AddText("between").
		AddChild(dom.NewElement("", "item").AddAttr(xml.Name{Local: "id"}, "2")).
		AddChild(dom.NewElement("", "tail"))
}

func TestElementNavigation(t *testing.T) {
	root := buildSample()

	if got := len(root.Children()); got != 3 {
		t.Fatalf("children: got %d, want 3", got)
	}
	items := root.ChildrenNamed("", "item")
	if len(items) != 2 {
		t.Fatalf("items: got %d, want 2", len(items))
	}
	if v, ok := items[1].Attr("id"); !ok || v != "2" {
		t.Fatalf("second item id: got %q, %v", v, ok)
	}
	if _, ok := root.Child("", "missing"); ok {
		t.Fatal("Child found an element that does not exist")
	}
	tail, ok := root.Child("", "tail")
	if !ok || len(tail.Nodes) != 0 {
		t.Fatalf("tail: ok=%v nodes=%d", ok, len(tail.Nodes))
	}
}

func TestTextAggregation(t *testing.T) {
	root := buildSample()
	if got := root.TextContent(); got != "firstbetween" {
		t.Fatalf("TextContent: got %q", got)
	}
	if got := root.DirectText(); got != "between" {
		t.Fatalf("DirectText: got %q", got)
	}
}

func TestTreeEquality(t *testing.T) {
	want := &dom.Element{
		Name: xml.Name{Space: "urn:example", Local: "list"},
		Nodes: []dom.Node{
			&dom.Element{
				Name:  xml.Name{Local: "item"},
				Attrs: []dom.Attr{{Name: xml.Name{Local: "id"}, Value: "1"}},
				Nodes: []dom.Node{dom.Text("first")},
			},
			dom.Text("between"),
			&dom.Element{
				Name:  xml.Name{Local: "item"},
				Attrs: []dom.Attr{{Name: xml.Name{Local: "id"}, Value: "2"}},
			},
			&dom.Element{Name: xml.Name{Local: "tail"}},
		},
	}
	if diff := cmp.Diff(want, buildSample()); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	src := dom.NewElement("", "a").
		AddAttr(xml.Name{Local: "x"}, "1").
		AddText("one").
		AddChild(dom.NewElement("", "b").AddText("two"))

	markup := src.String()
	if markup == "" {
		t.Fatal("String returned empty markup")
	}

	// The stdlib decoder must see the same structure back.
	dec := xml.NewDecoder(strings.NewReader(markup))
	tok, err := dec.Token()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	start, ok := tok.(xml.StartElement)
	if !ok || start.Name.Local != "a" {
		t.Fatalf("first token: %#v", tok)
	}
	if len(start.Attr) != 1 || start.Attr[0].Value != "1" {
		t.Fatalf("attrs: %#v", start.Attr)
	}
}
