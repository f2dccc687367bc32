// Package manifest applies an ahead-of-time registration list to a registry.
// A manifest is a load-time YAML document naming builder and serializer
// providers and the element names or namespaces they bind; the Go instances
// behind the provider names are supplied by the caller. Bulk application is
// strict: a key that is already occupied is an error, unlike manual
// Registry.RegisterBuilder calls which default to lenient replacement.
package manifest

import (
	"errors"
	"fmt"
	"io"
	"reflect"

	"gopkg.in/yaml.v3"

	"github.com/go-xmlbind/xmlbind"
)

var (
	// ErrUnknownProvider reports a manifest entry naming a provider the caller
	// did not supply.
	ErrUnknownProvider = errors.New("manifest: unknown provider")
	// ErrInvalidElement reports an element declaration without a local name.
	ErrInvalidElement = errors.New("manifest: element declaration needs a local name")
)

// Element identifies a qualified element name. Namespace may be empty for the
// no-namespace scope.
type Element struct {
	Namespace string `yaml:"namespace"`
	Local     string `yaml:"local"`
}

// BuilderDecl binds one provider to one or more element names.
type BuilderDecl struct {
	Provider string    `yaml:"provider"`
	Elements []Element `yaml:"elements"`
}

// SerializerDecl binds one provider to one or more namespaces. An empty list
// registers the provider in the no-namespace scope.
type SerializerDecl struct {
	Provider   string   `yaml:"provider"`
	Namespaces []string `yaml:"namespaces"`
}

// Manifest is the parsed registration list.
type Manifest struct {
	Builders    []BuilderDecl    `yaml:"builders"`
	Serializers []SerializerDecl `yaml:"serializers"`
}

// SerializerProvider pairs a serializer with the object type it is registered
// for. The type is supplied explicitly; nothing is discovered by reflection
// over the serializer itself.
type SerializerProvider struct {
	Serializer xmlbind.ObjectSerializer
	Type       reflect.Type
}

// Providers maps manifest provider names to concrete implementations.
type Providers struct {
	Builders    map[string]xmlbind.ObjectBuilder
	Serializers map[string]SerializerProvider
}

// Load reads and parses a manifest. Unknown fields are rejected.
func Load(r io.Reader) (*Manifest, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var m Manifest
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("manifest: parse: %w", err)
	}
	return &m, nil
}

// Parse parses a manifest from a byte slice.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("manifest: parse: %w", err)
	}
	return &m, nil
}

// Apply registers every declaration against reg in strict mode: conflicts with
// existing registrations, or within the manifest itself, surface as errors
// rather than replacing silently. Application stops at the first error.
func (m *Manifest) Apply(reg *xmlbind.Registry, p Providers) error {
	for _, decl := range m.Builders {
		builder, ok := p.Builders[decl.Provider]
		if !ok {
			return fmt.Errorf("%w: builder %q", ErrUnknownProvider, decl.Provider)
		}
		for _, el := range decl.Elements {
			if el.Local == "" {
				return fmt.Errorf("%w: builder %q", ErrInvalidElement, decl.Provider)
			}
			if err := reg.RegisterBuilder(builder, el.Namespace, el.Local, true); err != nil {
				return err
			}
		}
	}
	for _, decl := range m.Serializers {
		provider, ok := p.Serializers[decl.Provider]
		if !ok {
			return fmt.Errorf("%w: serializer %q", ErrUnknownProvider, decl.Provider)
		}
		namespaces := decl.Namespaces
		if len(namespaces) == 0 {
			namespaces = []string{""}
		}
		for _, ns := range namespaces {
			if err := reg.RegisterSerializer(provider.Serializer, provider.Type, ns, true); err != nil {
				return err
			}
		}
	}
	return nil
}
