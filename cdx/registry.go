package cdx

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/goccy/go-yaml"
)

// The registry tables are declarative: object tags map to CDXML element
// names, property tags map to attribute names plus a value type selector.
// Both directions of every codec are driven by these tables, so adding
// support for a new tag usually means adding one line of YAML.

//go:embed objects.yml
var objectsYAML []byte

//go:embed properties.yml
var propertiesYAML []byte

// ObjectEntry describes a registered object tag.
type ObjectEntry struct {
	Tag  Tag
	Name string // CDXML element name
}

// PropertyEntry describes a registered property tag.
type PropertyEntry struct {
	Tag  Tag
	Name string // CDXML attribute name
	Type string // value type selector, see types.go
}

type registry struct {
	objects     map[Tag]ObjectEntry
	properties  map[Tag]PropertyEntry
	objectNames map[string]ObjectEntry
	propNames   map[string]PropertyEntry
}

var registryOnce sync.Once
var tagRegistry *registry

func theRegistry() *registry {
	registryOnce.Do(func() {
		r, err := loadRegistry(objectsYAML, propertiesYAML)
		if err != nil {
			panic(fmt.Sprintf("cdx: built-in tag registry is invalid: %v", err))
		}
		tagRegistry = r
	})
	return tagRegistry
}

func loadRegistry(objdata, propdata []byte) (*registry, error) {
	var objs map[uint16]string
	if err := yaml.Unmarshal(objdata, &objs); err != nil {
		return nil, fmt.Errorf("object table: %w", err)
	}
	var props map[uint16]struct {
		Name string `yaml:"name"`
		Type string `yaml:"type"`
	}
	if err := yaml.Unmarshal(propdata, &props); err != nil {
		return nil, fmt.Errorf("property table: %w", err)
	}
	r := &registry{
		objects:     make(map[Tag]ObjectEntry, len(objs)),
		properties:  make(map[Tag]PropertyEntry, len(props)),
		objectNames: make(map[string]ObjectEntry, len(objs)),
		propNames:   make(map[string]PropertyEntry, len(props)),
	}
	for t, name := range objs {
		tag := Tag(t)
		if !tag.IsObject() {
			return nil, fmt.Errorf("object table entry 0x%04X is not an object tag", t)
		}
		e := ObjectEntry{Tag: tag, Name: name}
		r.objects[tag] = e
		r.objectNames[name] = e
	}
	for t, spec := range props {
		tag := Tag(t)
		if tag.IsObject() {
			return nil, fmt.Errorf("property table entry 0x%04X is not a property tag", t)
		}
		if !knownValueType(spec.Type) {
			return nil, fmt.Errorf("property 0x%04X (%s) has unknown type %q", t, spec.Name, spec.Type)
		}
		e := PropertyEntry{Tag: tag, Name: spec.Name, Type: spec.Type}
		r.properties[tag] = e
		r.propNames[spec.Name] = e
	}
	return r, nil
}

// LookupObject resolves an object tag. A miss is a normal condition: the
// caller is expected to preserve the record opaquely.
func LookupObject(t Tag) (ObjectEntry, bool) {
	e, ok := theRegistry().objects[t]
	return e, ok
}

// LookupProperty resolves a property tag.
func LookupProperty(t Tag) (PropertyEntry, bool) {
	e, ok := theRegistry().properties[t]
	return e, ok
}

// LookupObjectName resolves a CDXML element name to its object tag.
func LookupObjectName(name string) (ObjectEntry, bool) {
	e, ok := theRegistry().objectNames[name]
	return e, ok
}

// LookupPropertyName resolves a CDXML attribute name to its property tag.
func LookupPropertyName(name string) (PropertyEntry, bool) {
	e, ok := theRegistry().propNames[name]
	return e, ok
}

// Some elements use a property with a value type deviating from the
// registry default. gepband stores band extents as plain INT32 where every
// other element uses fixed-point coordinates.
var contextOverrides = map[string]map[string]string{
	"gepband": {
		"Width":  "INT32",
		"Height": "INT32",
	},
}

// propertyType returns the value type selector for a property as it occurs
// on a concrete element.
func propertyType(element string, e PropertyEntry) string {
	if ov, ok := contextOverrides[element]; ok {
		if t, ok := ov[e.Name]; ok {
			return t
		}
	}
	return e.Type
}

// Properties carrying UTF-8 text regardless of the document font charsets.
var utf8Properties = map[string]bool{
	"Keyword": true,
	"Content": true,
}
