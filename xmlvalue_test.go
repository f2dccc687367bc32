package xmlbind_test

import (
	"strings"
	"testing"

	"github.com/go-xmlbind/xmlbind"
)

func TestTextContentZeroValueIsAbsent(t *testing.T) {
	var tc xmlbind.TextContent
	if tc.IsPresent() {
		t.Fatal("zero value reports present")
	}
	if _, ok := tc.Bool(); ok {
		t.Fatal("Bool ok on absent text")
	}
	if _, ok := tc.Int64(); ok {
		t.Fatal("Int64 ok on absent text")
	}
	if _, ok := tc.Float64(); ok {
		t.Fatal("Float64 ok on absent text")
	}
}

func TestTextContentConversions(t *testing.T) {
	cases := []struct {
		raw     string
		trimmed string
	}{
		{"  42 ", "42"},
		{"\n\ttrue\n", "true"},
	}
	for _, c := range cases {
		if got := xmlbind.TextOf(c.raw).Trimmed(); got != c.trimmed {
			t.Fatalf("Trimmed(%q): got %q, want %q", c.raw, got, c.trimmed)
		}
	}

	if v, ok := xmlbind.TextOf(" 42 ").Int64(); !ok || v != 42 {
		t.Fatalf("Int64: got %d, %v", v, ok)
	}
	if v, ok := xmlbind.TextOf("2.5").Float64(); !ok || v != 2.5 {
		t.Fatalf("Float64: got %g, %v", v, ok)
	}
	if v, ok := xmlbind.TextOf("1").Bool(); !ok || !v {
		t.Fatalf("Bool(1): got %v, %v", v, ok)
	}
	if v, ok := xmlbind.TextOf("false").Bool(); !ok || v {
		t.Fatalf("Bool(false): got %v, %v", v, ok)
	}
	if _, ok := xmlbind.TextOf("maybe").Bool(); ok {
		t.Fatal("Bool accepted a non-boolean literal")
	}
	if _, ok := xmlbind.TextOf("4x").Int64(); ok {
		t.Fatal("Int64 accepted a non-numeric literal")
	}
}

func TestAttributeSetLookups(t *testing.T) {
	reg := xmlbind.NewRegistry()
	r := xmlbind.NewReaderFrom(reg, strings.NewReader(`<e a="1" a="ignored" xmlns:p="urn:p" p:b="2"/>`))
	defer r.Close()

	if _, err := r.NextTag(); err != nil {
		t.Fatalf("NextTag: %v", err)
	}
	attrs, err := r.Attributes()
	if err != nil {
		t.Fatalf("Attributes: %v", err)
	}

	// Namespace declarations are filtered; repeated names keep document order.
	if attrs.Len() != 3 {
		t.Fatalf("Len: got %d, want 3", attrs.Len())
	}
	if v, ok := attrs.Value("a"); !ok || v != "1" {
		t.Fatalf("Value(a): got %q, %v", v, ok)
	}
	if v, ok := attrs.ValueNS("urn:p", "b"); !ok || v != "2" {
		t.Fatalf("ValueNS(urn:p, b): got %q, %v", v, ok)
	}
	if _, ok := attrs.Value("missing"); ok {
		t.Fatal("Value found a missing attribute")
	}
	if tc := attrs.TextValue("missing"); tc.IsPresent() {
		t.Fatal("TextValue present for a missing attribute")
	}
	if v, ok := attrs.TextValue("a").Int64(); !ok || v != 1 {
		t.Fatalf("TextValue(a).Int64: got %d, %v", v, ok)
	}
}

func TestNamespaceContextBuiltins(t *testing.T) {
	var ns xmlbind.NamespaceContext
	uri, ok := ns.Lookup("xml")
	if !ok || uri != xmlbind.XMLNamespace {
		t.Fatalf("xml prefix: got %q, %v", uri, ok)
	}
	if _, ok := ns.Lookup("undeclared"); ok {
		t.Fatal("undeclared prefix resolved")
	}
}
