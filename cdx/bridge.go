package cdx

import "fmt"

// Helpers for the markup codec in the sister package cdxml. The CDXML
// side drives the same registry and value tables as the binary codec.

// ParseProp interprets a CDXML attribute as a typed property of the given
// element.
func ParseProp(element, attr, value string) (Prop, error) {
	e, ok := LookupPropertyName(attr)
	if !ok {
		return Prop{}, fmt.Errorf("no property registered for attribute %q", attr)
	}
	env := &decodeEnv{element: element, utf8: utf8Properties[e.Name]}
	v, err := parseValue(propertyType(element, e), value, env)
	if err != nil {
		return Prop{}, fmt.Errorf("attribute %s: %w", attr, err)
	}
	return Prop{Tag: e.Tag, Name: e.Name, Value: v}, nil
}

// NoteID reserves an object ID so that NewID never hands it out again.
func (d *Document) NoteID(id uint32) { d.noteID(id) }

// RelinkTables re-wires the document's Fonts and Colors fields to table
// values found among the root node's properties.
func (d *Document) RelinkTables() { d.hookTables() }

// CharsetName maps a code page number to the name ChemDraw writes in
// CDXML font tables.
func CharsetName(id uint16) string { return charsetName(id) }

// CharsetID maps a CDXML charset name to its code page number.
func CharsetID(name string) uint16 { return charsetID(name) }
