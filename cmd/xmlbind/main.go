package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/goccy/go-json"

	"github.com/go-xmlbind/xmlbind"
	"github.com/go-xmlbind/xmlbind/dom"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	switch os.Args[1] {
	case "dump":
		dumpCmd(os.Args[2:])
	case "tokens":
		tokensCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "xmlbind CLI\n\nUsage:\n  xmlbind dump file.xml      print the document as JSON\n  xmlbind tokens file.xml    print a token/depth trace")
}

func dumpCmd(args []string) {
	fs := flag.NewFlagSet("dump", flag.ExitOnError)
	indent := fs.Bool("indent", true, "indent the JSON output")
	_ = fs.Parse(args)
	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(2)
	}

	f, err := os.Open(fs.Arg(0))
	if err != nil {
		slog.Error("open input", "path", fs.Arg(0), "err", err)
		os.Exit(1)
	}
	r := xmlbind.NewReaderFrom(nil, f)
	defer r.Close()

	kind, err := r.NextTag()
	if err != nil {
		slog.Error("read document", "err", err)
		os.Exit(1)
	}
	if kind != xmlbind.KindStartElement {
		slog.Error("document has no root element")
		os.Exit(1)
	}
	root, err := r.DOMElement()
	if err != nil {
		slog.Error("snapshot document", "err", err)
		os.Exit(1)
	}

	var out []byte
	if *indent {
		out, err = json.MarshalIndent(elementJSON(root), "", "  ")
	} else {
		out, err = json.Marshal(elementJSON(root))
	}
	if err != nil {
		slog.Error("encode JSON", "err", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}

// elementJSON renders an element tree as plain maps so it serializes the same
// under any JSON encoder.
func elementJSON(e *dom.Element) map[string]any {
	m := map[string]any{"local": e.Name.Local}
	if e.Name.Space != "" {
		m["namespace"] = e.Name.Space
	}
	if len(e.Attrs) > 0 {
		attrs := make([]map[string]string, 0, len(e.Attrs))
		for _, a := range e.Attrs {
			attr := map[string]string{"local": a.Name.Local, "value": a.Value}
			if a.Name.Space != "" {
				attr["namespace"] = a.Name.Space
			}
			attrs = append(attrs, attr)
		}
		m["attributes"] = attrs
	}
	var nodes []any
	for _, n := range e.Nodes {
		switch t := n.(type) {
		case dom.Text:
			nodes = append(nodes, string(t))
		case *dom.Element:
			nodes = append(nodes, elementJSON(t))
		}
	}
	if len(nodes) > 0 {
		m["content"] = nodes
	}
	return m
}

func tokensCmd(args []string) {
	fs := flag.NewFlagSet("tokens", flag.ExitOnError)
	_ = fs.Parse(args)
	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(2)
	}

	f, err := os.Open(fs.Arg(0))
	if err != nil {
		slog.Error("open input", "path", fs.Arg(0), "err", err)
		os.Exit(1)
	}
	defer f.Close()

	c := xmlbind.NewCursor(xmlbind.XMLReader(f))
	defer c.Close()
	for {
		more, err := c.HasMore()
		if err != nil {
			slog.Error("read token", "err", err)
			os.Exit(1)
		}
		if !more {
			return
		}
		if err := c.Advance(); err != nil {
			slog.Error("read token", "err", err)
			os.Exit(1)
		}
		switch c.Kind() {
		case xmlbind.KindStartElement:
			name, _ := c.Name()
			fmt.Printf("%-14s depth=%d name={%s}%s\n", c.Kind(), c.Depth(), name.Space, name.Local)
		case xmlbind.KindEndElement:
			fmt.Printf("%-14s depth=%d\n", c.Kind(), c.Depth())
		case xmlbind.KindCharData, xmlbind.KindCData:
			fmt.Printf("%-14s depth=%d text=%q\n", c.Kind(), c.Depth(), c.Text())
		}
	}
}
