package xmlbind

import (
	"encoding/xml"
	"reflect"
	"sync"

	"github.com/go-xmlbind/xmlbind/dom"
)

// ObjectBuilder constructs and populates one object type from one or more
// element names. Implementations must be stateless with respect to cursor
// position: a single instance is reused across invocations and sessions.
//
// BuildChildObject is handed control while the session is positioned on a
// child start element and must fully consume that child's subtree before
// returning, typically by binding it (ObjectUsingBuilder, Object), extracting
// its text (Reader.TextContent), or snapshotting it (Reader.DOMElement).
// Leaving the child unconsumed is allowed; the engine then skips it.
type ObjectBuilder interface {
	CreateObject(name xml.Name) (any, error)
	InitializeObject(obj any, name xml.Name, attrs AttributeSet, r *Reader) error
	BuildChildObject(obj any, name xml.Name, attrs AttributeSet, r *Reader) error
}

// ObjectSerializer is the write-side capability. Only its registry identity
// rules live here; the streaming encode path is out of scope.
type ObjectSerializer interface {
	CreateElement(obj any, namespaceURI string) (*dom.Element, error)
}

// Registry resolves builders by qualified element name and serializers by
// object type and namespace. It is the one shared, long-lived resource of the
// package: lookups and registrations are safe from any number of goroutines.
// Read sessions never mutate it.
type Registry struct {
	mu          sync.RWMutex
	builders    map[string]map[string]ObjectBuilder
	serializers map[reflect.Type]map[string]ObjectSerializer
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		builders:    make(map[string]map[string]ObjectBuilder),
		serializers: make(map[reflect.Type]map[string]ObjectSerializer),
	}
}

// RegisterBuilder registers b for the qualified element name. With
// failOnDuplicate an occupied key is a fault naming both implementations;
// otherwise the newer registration replaces the older. Manual registration is
// conventionally lenient while bulk registration (manifest.Apply) is strict.
func (r *Registry) RegisterBuilder(b ObjectBuilder, namespaceURI, localName string, failOnDuplicate bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	scope := r.builders[namespaceURI]
	if scope == nil {
		scope = make(map[string]ObjectBuilder)
		r.builders[namespaceURI] = scope
	}
	current, occupied := scope[localName]
	if occupied && failOnDuplicate {
		return faultf(CodeDuplicateRegistration,
			"two builders are registered for the same XML element %s: %T and %T",
			nameString(xml.Name{Space: namespaceURI, Local: localName}), b, current)
	}
	scope[localName] = b
	return nil
}

// LookupBuilder returns the builder registered for the qualified element name.
// There is no fallback across namespaces.
func (r *Registry) LookupBuilder(namespaceURI, localName string) (ObjectBuilder, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.builders[namespaceURI][localName]
	return b, ok
}

// LookupBuilderLocal queries the no-namespace scope.
func (r *Registry) LookupBuilderLocal(localName string) (ObjectBuilder, bool) {
	return r.LookupBuilder("", localName)
}

// LookupBuilderName resolves a builder for a qualified name value.
func (r *Registry) LookupBuilderName(name xml.Name) (ObjectBuilder, bool) {
	return r.LookupBuilder(name.Space, name.Local)
}

// RegisterSerializer registers s for the object type in the given namespace.
// The registrant supplies the type explicitly (reflect.TypeOf((*T)(nil)).Elem()); nothing
// is discovered by introspection. Duplicate handling matches RegisterBuilder.
func (r *Registry) RegisterSerializer(s ObjectSerializer, objectType reflect.Type, namespaceURI string, failOnDuplicate bool) error {
	if objectType == nil {
		return faultf(CodeDuplicateRegistration, "serializer %T registered with a nil object type", s)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	scope := r.serializers[objectType]
	if scope == nil {
		scope = make(map[string]ObjectSerializer)
		r.serializers[objectType] = scope
	}
	current, occupied := scope[namespaceURI]
	if occupied && failOnDuplicate {
		return faultf(CodeDuplicateRegistration,
			"two serializers are registered for the same object type %s: %T and %T",
			objectType, s, current)
	}
	scope[namespaceURI] = s
	return nil
}

// LookupSerializer returns the serializer registered for the object type in
// the given namespace. When no exact registration exists, the requested
// struct type's embedded fields are walked upward, so a serializer registered
// for an embedded base type answers for types that embed it. The empty
// namespace URI queries the no-namespace scope.
func (r *Registry) LookupSerializer(objectType reflect.Type, namespaceURI string) (ObjectSerializer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lookupSerializerLocked(objectType, namespaceURI)
}

func (r *Registry) lookupSerializerLocked(t reflect.Type, namespaceURI string) (ObjectSerializer, bool) {
	if t == nil {
		return nil, false
	}
	if s, ok := r.serializers[t][namespaceURI]; ok {
		return s, true
	}
	// Pointer-ness does not hide a registration for the other form.
	base := t
	if base.Kind() == reflect.Pointer {
		base = base.Elem()
		if s, ok := r.serializers[base][namespaceURI]; ok {
			return s, true
		}
	} else if s, ok := r.serializers[reflect.PointerTo(base)][namespaceURI]; ok {
		return s, true
	}
	if base.Kind() != reflect.Struct {
		return nil, false
	}
	for i := 0; i < base.NumField(); i++ {
		f := base.Field(i)
		if !f.Anonymous {
			continue
		}
		if s, ok := r.lookupSerializerLocked(f.Type, namespaceURI); ok {
			return s, true
		}
	}
	return nil, false
}

// SerializerFor returns the serializer registered for T in the given
// namespace, walking embedded types like Registry.LookupSerializer.
func SerializerFor[T any](r *Registry, namespaceURI string) (ObjectSerializer, bool) {
	return r.LookupSerializer(reflect.TypeOf((*T)(nil)).Elem(), namespaceURI)
}

func nameString(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return "{" + n.Space + "}" + n.Local
}
