package xmlbind

// Package xmlbind binds XML documents to typed Go objects without
// materializing a document tree for the parts being bound.
//
// It provides:
//
// - A depth-tracking Cursor over a pull-based token Source with namespace scopes
// - A concurrency-safe Registry mapping element names to ObjectBuilder
//   implementations and object types to ObjectSerializer implementations
// - A Reader session whose construction engine drives builders through a
//   depth-synchronized recursive descent (Object, ObjectUsingBuilder, Bind)
// - Raw fallbacks when no builder matches: dom.Element snapshots and literal
//   mixed-content echo
//
// Design policy:
// - Keep only public APIs in the root package; put the token model under
//   internal/ and drivers under source/.
// - Place the raw element tree under dom/, bulk registration under manifest/,
//   and the CLI under cmd/xmlbind.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	reg := xmlbind.NewRegistry()
//	_ = reg.RegisterBuilder(new(noteBuilder), "urn:example", "note", false)
//
//	r, err := xmlbind.NewReaderFrom(reg, file)
//	defer r.Close()
//	note, ok, err := xmlbind.Bind[*Note](r)
