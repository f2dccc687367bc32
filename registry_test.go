package xmlbind_test

import (
	"encoding/xml"
	"fmt"
	"reflect"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-xmlbind/xmlbind"
	"github.com/go-xmlbind/xmlbind/dom"
)

type otherBuilder struct{ builderB }

func TestRegistryBuilderLookup(t *testing.T) {
	reg := xmlbind.NewRegistry()
	require.NoError(t, reg.RegisterBuilder(builderB{}, "urn:x", "b", false))

	b, ok := reg.LookupBuilder("urn:x", "b")
	require.True(t, ok)
	assert.Equal(t, builderB{}, b)

	_, ok = reg.LookupBuilder("", "b")
	assert.False(t, ok, "no fallback across namespaces")
	_, ok = reg.LookupBuilder("urn:x", "other")
	assert.False(t, ok)
}

func TestRegistryLocalNameQueriesNoNamespaceScope(t *testing.T) {
	reg := xmlbind.NewRegistry()
	require.NoError(t, reg.RegisterBuilder(builderB{}, "", "b", false))

	b, ok := reg.LookupBuilderLocal("b")
	require.True(t, ok)
	assert.Equal(t, builderB{}, b)

	b, ok = reg.LookupBuilderName(xml.Name{Local: "b"})
	require.True(t, ok)
	assert.Equal(t, builderB{}, b)
}

func TestRegistryDuplicateHandling(t *testing.T) {
	reg := xmlbind.NewRegistry()
	require.NoError(t, reg.RegisterBuilder(builderB{}, "urn:x", "b", false))

	// Strict mode fails and names both implementations.
	err := reg.RegisterBuilder(otherBuilder{}, "urn:x", "b", true)
	require.Error(t, err)
	assert.True(t, xmlbind.IsCode(err, xmlbind.CodeDuplicateRegistration))
	assert.Contains(t, err.Error(), "otherBuilder")
	assert.Contains(t, err.Error(), "builderB")
	assert.Contains(t, err.Error(), "{urn:x}b")

	// The strict failure must not have replaced the registration.
	b, ok := reg.LookupBuilder("urn:x", "b")
	require.True(t, ok)
	assert.Equal(t, builderB{}, b)

	// Lenient mode replaces silently.
	require.NoError(t, reg.RegisterBuilder(otherBuilder{}, "urn:x", "b", false))
	b, ok = reg.LookupBuilder("urn:x", "b")
	require.True(t, ok)
	assert.Equal(t, otherBuilder{}, b)
}

type noteSerializer struct{ tag string }

func (s noteSerializer) CreateElement(any, string) (*dom.Element, error) {
	return dom.NewElement("", s.tag), nil
}

type baseNote struct{}

type extendedNote struct {
	baseNote
}

type wrappedNote struct {
	*baseNote
}

func TestRegistrySerializerLookup(t *testing.T) {
	reg := xmlbind.NewRegistry()
	ser := noteSerializer{tag: "note"}
	require.NoError(t, reg.RegisterSerializer(ser, reflect.TypeOf((*baseNote)(nil)).Elem(), "urn:n", false))

	got, ok := reg.LookupSerializer(reflect.TypeOf((*baseNote)(nil)).Elem(), "urn:n")
	require.True(t, ok)
	assert.Equal(t, ser, got)

	_, ok = reg.LookupSerializer(reflect.TypeOf((*baseNote)(nil)).Elem(), "urn:other")
	assert.False(t, ok, "no fallback across namespaces")
}

func TestRegistrySerializerCovariantMatch(t *testing.T) {
	reg := xmlbind.NewRegistry()
	ser := noteSerializer{tag: "note"}
	require.NoError(t, reg.RegisterSerializer(ser, reflect.TypeOf((*baseNote)(nil)).Elem(), "", false))

	// A query type embedding the registered type is answered by walking the
	// requested type upward.
	got, ok := xmlbind.SerializerFor[extendedNote](reg, "")
	require.True(t, ok)
	assert.Equal(t, ser, got)

	got, ok = xmlbind.SerializerFor[*extendedNote](reg, "")
	require.True(t, ok)
	assert.Equal(t, ser, got)

	got, ok = xmlbind.SerializerFor[wrappedNote](reg, "")
	require.True(t, ok)
	assert.Equal(t, ser, got)

	_, ok = xmlbind.SerializerFor[elemB](reg, "")
	assert.False(t, ok)
}

func TestRegistrySerializerDuplicateHandling(t *testing.T) {
	reg := xmlbind.NewRegistry()
	first := noteSerializer{tag: "one"}
	second := noteSerializer{tag: "two"}
	typ := reflect.TypeOf((*baseNote)(nil)).Elem()

	require.NoError(t, reg.RegisterSerializer(first, typ, "urn:n", false))
	err := reg.RegisterSerializer(second, typ, "urn:n", true)
	require.Error(t, err)
	assert.True(t, xmlbind.IsCode(err, xmlbind.CodeDuplicateRegistration))

	require.NoError(t, reg.RegisterSerializer(second, typ, "urn:n", false))
	got, ok := reg.LookupSerializer(typ, "urn:n")
	require.True(t, ok)
	assert.Equal(t, second, got)
}

func TestRegistryConcurrentAccess(t *testing.T) {
	reg := xmlbind.NewRegistry()
	const writers = 8
	const perWriter = 50

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(2)
		ns := fmt.Sprintf("urn:w%d", w)
		go func() {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				local := fmt.Sprintf("e%d", i)
				assert.NoError(t, reg.RegisterBuilder(builderB{}, ns, local, false))
			}
		}()
		go func() {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				reg.LookupBuilder(ns, fmt.Sprintf("e%d", i))
			}
		}()
	}
	wg.Wait()

	for w := 0; w < writers; w++ {
		for i := 0; i < perWriter; i++ {
			_, ok := reg.LookupBuilder(fmt.Sprintf("urn:w%d", w), fmt.Sprintf("e%d", i))
			require.True(t, ok, "registration lost for urn:w%d e%d", w, i)
		}
	}
}
