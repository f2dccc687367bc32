package xmlbind

import (
	"encoding/xml"
	"io"
	"reflect"
	"strings"

	"github.com/go-xmlbind/xmlbind/dom"
)

type readerOptions struct {
	domFallback bool
	driver      XMLDriver
	props       map[string]any
}

// Option configures a Reader at construction time.
type Option func(*readerOptions)

// WithDOMFallback makes ObjectOrDOMElement capture unmatched elements as raw
// dom.Element snapshots instead of returning empty.
func WithDOMFallback() Option {
	return func(o *readerOptions) { o.domFallback = true }
}

// WithDriver selects the XML driver for this session only, overriding the
// process-wide default. It applies to NewReaderFrom.
func WithDriver(d XMLDriver) Option {
	return func(o *readerOptions) {
		if d != nil {
			o.driver = d
		}
	}
}

// WithProperty seeds a session property visible to builders.
func WithProperty(name string, value any) Option {
	return func(o *readerOptions) {
		if o.props == nil {
			o.props = make(map[string]any)
		}
		o.props[name] = value
	}
}

// Reader is one read session: it owns a Cursor, shares a Registry with other
// sessions, and runs the construction engine that hands control to builders.
// A Reader is forward-only and not safe for concurrent use. Stream-level
// faults are terminal: once one surfaces the session refuses further reads.
type Reader struct {
	registry     *Registry
	cursor       *Cursor
	domFallback  bool
	props        map[string]any
	builderCache map[reflect.Type]ObjectBuilder
	err          error
	closed       bool
}

// NewReader creates a read session over an already-constructed Source.
// A nil registry is replaced with an empty one.
func NewReader(reg *Registry, src Source, opts ...Option) *Reader {
	var o readerOptions
	for _, opt := range opts {
		opt(&o)
	}
	return newReader(reg, src, o)
}

// NewReaderFrom creates a read session over raw XML input, tokenized by the
// session driver (WithDriver) or the process-wide default.
func NewReaderFrom(reg *Registry, rd io.Reader, opts ...Option) *Reader {
	var o readerOptions
	for _, opt := range opts {
		opt(&o)
	}
	driver := o.driver
	if driver == nil {
		driver = getXMLDriver()
	}
	return newReader(reg, driver.NewReader(rd), o)
}

func newReader(reg *Registry, src Source, o readerOptions) *Reader {
	if reg == nil {
		reg = NewRegistry()
	}
	props := o.props
	if props == nil {
		props = make(map[string]any)
	}
	return &Reader{
		registry:     reg,
		cursor:       NewCursor(src),
		domFallback:  o.domFallback,
		props:        props,
		builderCache: make(map[reflect.Type]ObjectBuilder),
	}
}

// Registry returns the shared binding registry.
func (r *Reader) Registry() *Registry { return r.registry }

// Cursor exposes the session cursor, mainly so builders can inspect depth and
// namespace context while consuming children.
func (r *Reader) Cursor() *Cursor { return r.cursor }

// Depth returns the cursor depth.
func (r *Reader) Depth() int { return r.cursor.Depth() }

// Namespaces snapshots the prefix bindings at the current position.
func (r *Reader) Namespaces() NamespaceContext { return r.cursor.Namespaces() }

// IsCreateDOMAsFallback reports whether unmatched elements are snapshotted.
func (r *Reader) IsCreateDOMAsFallback() bool { return r.domFallback }

// Property returns a session property.
func (r *Reader) Property(name string) (any, bool) {
	v, ok := r.props[name]
	return v, ok
}

// SetProperty stores a session property.
func (r *Reader) SetProperty(name string, value any) {
	r.props[name] = value
}

// Close clears the builder cache and releases the underlying source. It is
// idempotent and runs on every exit path a caller defers it on.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	r.builderCache = nil
	return r.cursor.Close()
}

// guard refuses reads on closed or already-failed sessions. Faults are never
// retried internally: the document position cannot be rewound.
func (r *Reader) guard() error {
	if r.closed {
		return faultf(CodeSessionClosed, "session is closed")
	}
	return r.err
}

// fail records a terminal fault so every later read reports it.
func (r *Reader) fail(err error) error {
	if r.err == nil {
		r.err = err
	}
	return err
}

// HasMore reports whether further tokens are obtainable.
func (r *Reader) HasMore() (bool, error) {
	if err := r.guard(); err != nil {
		return false, err
	}
	more, err := r.cursor.HasMore()
	if err != nil {
		return false, r.fail(err)
	}
	return more, nil
}

// NextTag advances to the next start or end element.
func (r *Reader) NextTag() (Kind, error) {
	if err := r.guard(); err != nil {
		return 0, err
	}
	kind, err := r.cursor.NextTag()
	if err != nil {
		return 0, r.fail(err)
	}
	return kind, nil
}

// Name returns the qualified name of the current start element.
func (r *Reader) Name() (xml.Name, error) {
	return r.cursor.Name()
}

// Attributes snapshots the attributes of the current start element.
func (r *Reader) Attributes() (AttributeSet, error) {
	return r.cursor.Attributes()
}

// Object binds the element the cursor is positioned on, resolving the builder
// from the registry by qualified name. The second return is false, with a nil
// error, when no registered builder produces a T-assignable object or the
// input ends before the element closes.
func Object[T any](r *Reader) (T, bool, error) {
	var zero T
	if err := r.guard(); err != nil {
		return zero, false, err
	}
	name, err := r.cursor.Name()
	if err != nil {
		return zero, false, err
	}
	builder, ok := r.registry.LookupBuilderName(name)
	if !ok {
		return zero, false, nil
	}
	typed, ok, err := createAs[T](r, builder, name)
	if err != nil || !ok {
		return zero, false, err
	}
	built, ok, err := r.buildObject(any(typed), name, builder)
	if err != nil || !ok {
		return zero, false, err
	}
	return built.(T), true, nil
}

// ObjectUsingBuilder binds the current element with an explicit builder
// instance, bypassing registry lookup.
func ObjectUsingBuilder[T any](r *Reader, b ObjectBuilder) (T, bool, error) {
	var zero T
	if err := r.guard(); err != nil {
		return zero, false, err
	}
	name, err := r.cursor.Name()
	if err != nil {
		return zero, false, err
	}
	obj, err := b.CreateObject(name)
	if err != nil {
		return zero, false, r.fail(constructionFault(b, err))
	}
	if obj == nil {
		return zero, false, r.fail(nilObjectFault(b))
	}
	_, ok := obj.(T)
	if !ok {
		return zero, false, r.fail(faultf(CodeTypeMismatch,
			"the builder %T created %T, which is not the requested type", b, obj))
	}
	built, ok, err := r.buildObject(obj, name, b)
	if err != nil || !ok {
		return zero, false, err
	}
	return built.(T), true, nil
}

// ObjectUsingBuilderType binds the current element with a builder selected by
// type. One builder per type is lazily constructed per session and reused; a
// type without a usable zero construction is a fault at first use.
func ObjectUsingBuilderType[B ObjectBuilder, T any](r *Reader) (T, bool, error) {
	var zero T
	if err := r.guard(); err != nil {
		return zero, false, err
	}
	b, err := r.builderForType(reflect.TypeOf((*B)(nil)).Elem())
	if err != nil {
		return zero, false, err
	}
	return ObjectUsingBuilder[T](r, b)
}

func (r *Reader) builderForType(t reflect.Type) (ObjectBuilder, error) {
	if b, ok := r.builderCache[t]; ok {
		return b, nil
	}
	var v reflect.Value
	switch {
	case t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Struct:
		v = reflect.New(t.Elem())
	case t.Kind() == reflect.Struct:
		v = reflect.New(t).Elem()
	default:
		return nil, faultf(CodeNoDefaultConstructor,
			"the builder type %s cannot be zero-constructed", t)
	}
	b, ok := v.Interface().(ObjectBuilder)
	if !ok {
		return nil, faultf(CodeNoDefaultConstructor,
			"the builder type %s does not implement ObjectBuilder", t)
	}
	r.builderCache[t] = b
	return b, nil
}

// createAs creates the builder's empty object and checks T-assignability
// without consuming any input. A non-assignable object counts as a lookup
// miss, not a fault.
func createAs[T any](r *Reader, b ObjectBuilder, name xml.Name) (T, bool, error) {
	var zero T
	obj, err := b.CreateObject(name)
	if err != nil {
		return zero, false, r.fail(constructionFault(b, err))
	}
	if obj == nil {
		return zero, false, r.fail(nilObjectFault(b))
	}
	typed, ok := obj.(T)
	if !ok {
		return zero, false, nil
	}
	return typed, true, nil
}

// buildObject is the construction engine. The cursor must be positioned on the
// start element of the object; on the true exit it is positioned on the
// matching end element, at the same depth as before the start was consumed.
//
// stopAt is the depth at which the element's own end tag appears; childLevel
// is the depth of its immediate children. The loop inspects the current token
// before advancing, so a builder that left the cursor on a child's end tag or
// on an unconsumed child start is observed before the stream moves on.
func (r *Reader) buildObject(obj any, name xml.Name, b ObjectBuilder) (any, bool, error) {
	stopAt := r.cursor.Depth() - 1
	childLevel := r.cursor.Depth() + 1

	attrs, err := r.cursor.Attributes()
	if err != nil {
		return nil, false, err
	}
	if err := b.InitializeObject(obj, name, attrs, r); err != nil {
		return nil, false, r.fail(err)
	}

	for {
		if r.cursor.Kind() == KindStartElement && r.cursor.Depth() == childLevel {
			childName, err := r.cursor.Name()
			if err != nil {
				return nil, false, err
			}
			childAttrs, err := r.cursor.Attributes()
			if err != nil {
				return nil, false, err
			}
			if err := b.BuildChildObject(obj, childName, childAttrs, r); err != nil {
				return nil, false, r.fail(err)
			}
		}

		if r.cursor.Kind() == KindEndElement {
			if d := r.cursor.Depth(); d == stopAt {
				return obj, true, nil
			} else if d < stopAt {
				return nil, false, r.fail(depthFault(stopAt, d))
			}
		}

		more, err := r.cursor.HasMore()
		if err != nil {
			return nil, false, r.fail(err)
		}
		if !more {
			return nil, false, nil
		}
		if err := r.cursor.Advance(); err != nil {
			return nil, false, r.fail(err)
		}
	}
}

// TextContent consumes the text runs of the current element through the next
// markup boundary. It must be called where no further children are expected:
// it advances past text unconditionally and stops on the first start or end
// element it meets, leaving the cursor there.
func (r *Reader) TextContent() (TextContent, error) {
	if err := r.guard(); err != nil {
		return TextContent{}, err
	}
	if r.cursor.Kind() != KindStartElement {
		return TextContent{}, positionFault("TextContent")
	}
	var sb strings.Builder
	for {
		more, err := r.cursor.HasMore()
		if err != nil {
			return TextContent{}, r.fail(err)
		}
		if !more {
			break
		}
		if err := r.cursor.Advance(); err != nil {
			return TextContent{}, r.fail(err)
		}
		switch r.cursor.Kind() {
		case KindCharData, KindCData:
			sb.WriteString(r.cursor.Text())
		case KindStartElement, KindEndElement, KindEndDocument:
			return TextOf(sb.String()), nil
		}
	}
	return TextOf(sb.String()), nil
}

// DOMElement materializes the current element and its whole subtree as a raw
// dom.Element snapshot, leaving the cursor on the element's end tag.
func (r *Reader) DOMElement() (*dom.Element, error) {
	if err := r.guard(); err != nil {
		return nil, err
	}
	name, err := r.cursor.Name()
	if err != nil {
		return nil, err
	}
	stopAt := r.cursor.Depth() - 1
	root := snapshotElement(name, r.cursor.attrs)
	stack := []*dom.Element{root}

	for {
		more, err := r.cursor.HasMore()
		if err != nil {
			return nil, r.fail(err)
		}
		if !more {
			return nil, r.fail(faultf(CodeMalformed, "input ended inside element %s", nameString(name)))
		}
		if err := r.cursor.Advance(); err != nil {
			return nil, r.fail(err)
		}
		top := stack[len(stack)-1]
		switch r.cursor.Kind() {
		case KindStartElement:
			child := snapshotElement(r.cursor.name, r.cursor.attrs)
			top.AddChild(child)
			stack = append(stack, child)
		case KindEndElement:
			if r.cursor.Depth() == stopAt {
				return root, nil
			}
			stack = stack[:len(stack)-1]
		case KindCharData, KindCData:
			top.AddText(r.cursor.Text())
		}
	}
}

// MixedContent re-emits the content of the current element as literal markup
// text, excluding the element's own tags, and leaves the cursor on its end
// tag. Namespace prefixes from the source are not preserved.
func (r *Reader) MixedContent() (string, error) {
	if err := r.guard(); err != nil {
		return "", err
	}
	if r.cursor.Kind() != KindStartElement {
		return "", positionFault("MixedContent")
	}
	stopAt := r.cursor.Depth() - 1
	var sb strings.Builder
	enc := xml.NewEncoder(&sb)

	for {
		more, err := r.cursor.HasMore()
		if err != nil {
			return "", r.fail(err)
		}
		if !more {
			return "", r.fail(faultf(CodeMalformed, "input ended inside mixed content"))
		}
		if err := r.cursor.Advance(); err != nil {
			return "", r.fail(err)
		}
		if r.cursor.Kind() == KindEndElement && r.cursor.Depth() <= stopAt {
			break
		}
		if err := encodeCursorEvent(enc, r.cursor); err != nil {
			return "", r.fail(cursorFault(err))
		}
	}
	if err := enc.Flush(); err != nil {
		return "", r.fail(cursorFault(err))
	}
	return sb.String(), nil
}

func encodeCursorEvent(enc *xml.Encoder, c *Cursor) error {
	switch c.Kind() {
	case KindStartElement:
		start := xml.StartElement{Name: c.name}
		for _, a := range c.attrs {
			if isNamespaceDecl(a.Name) {
				continue
			}
			start.Attr = append(start.Attr, xml.Attr{Name: a.Name, Value: a.Value})
		}
		return enc.EncodeToken(start)
	case KindEndElement:
		return enc.EncodeToken(xml.EndElement{Name: c.name})
	case KindCharData, KindCData:
		return enc.EncodeToken(xml.CharData(c.Text()))
	default:
		return nil
	}
}

// ObjectOrDOMElement binds like Object and falls back, when no builder matches
// and the session was created WithDOMFallback, to a raw snapshot of the
// element. The result carries at most one populated variant.
func ObjectOrDOMElement[T any](r *Reader) (BuildResult[T], error) {
	obj, ok, err := Object[T](r)
	if err != nil {
		return BuildResult[T]{}, err
	}
	if ok {
		return ObjectResult(obj), nil
	}
	if r.domFallback && r.cursor.Kind() == KindStartElement {
		el, err := r.DOMElement()
		if err != nil {
			return BuildResult[T]{}, err
		}
		return ElementResult[T](el), nil
	}
	return EmptyResult[T](), nil
}

func snapshotElement(name xml.Name, raw []Attr) *dom.Element {
	el := &dom.Element{Name: name}
	for _, a := range raw {
		if isNamespaceDecl(a.Name) {
			continue
		}
		el.AddAttr(a.Name, a.Value)
	}
	return el
}
