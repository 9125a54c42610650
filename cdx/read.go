package cdx

import (
	"fmt"
	"os"
)

// The binary stream is a 22 byte header, the document object, and a four
// byte trailer. Object records are tag(2) + id(4) + properties + nested
// objects + a 0x0000 end marker; property records are tag(2) + length(2,
// with 0xFFFF escaping to a four byte length) + payload.

// cdxHeader is the fixed file header of released ChemDraw versions.
var cdxHeader = []byte("VjCD0100\x04\x03\x02\x01\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00")

// DecodeOptions control the binary decoder.
type DecodeOptions struct {
	// AllowLegacy accepts pre-release documents whose header lacks the
	// document tag. Conversion of such files is best-effort.
	AllowLegacy bool
}

// errFileFormat produces user level errors for stream decoding.
func errFileFormat(message string) error {
	return fmt.Errorf("CDX file format: %s", message)
}

// Decode parses a binary CDX document.
func Decode(data []byte) (*Document, error) {
	return DecodeWithOptions(data, DecodeOptions{})
}

// DecodeFile reads and parses a binary CDX file.
func DecodeFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// DecodeWithOptions parses a binary CDX document. The returned document
// re-encodes byte-identically as long as it is not mutated, including
// records with unregistered tags and values with non-nominal widths.
func DecodeWithOptions(data []byte, opts DecodeOptions) (*Document, error) {
	if len(data) < len(cdxHeader)+6 {
		return nil, errFileFormat("too short for a document header")
	}
	if string(data[:len(cdxHeader)]) != string(cdxHeader) {
		return nil, errFileFormat("invalid header")
	}
	c := &cursor{data: data, pos: len(cdxHeader)}
	tag, err := c.peekU16()
	if err != nil {
		return nil, errFileFormat("truncated document record")
	}
	legacy := false
	if Tag(tag) != TagDocument {
		// Pre-release files omit the document tag and pad the header with
		// one extra byte before the document ID.
		if !opts.AllowLegacy {
			return nil, ErrLegacyDocument
		}
		tracer().Infof("legacy document header, conversion is best-effort")
		c.pos += 3
		legacy = true
	} else {
		c.pos += 2
	}
	dec := &decoder{c: c, doc: NewDocument()}
	root, err := dec.readObject(TagDocument, legacy)
	if err != nil {
		return nil, err
	}
	dec.doc.Root = root
	dec.doc.hookTables()
	dec.doc.Walk(func(n *Node) bool {
		dec.doc.noteID(n.ID)
		return true
	})
	for _, w := range dec.ec.warnings {
		tracer().Infof("decode: %s", w)
	}
	dec.doc.warnings = dec.ec.warnings
	if dec.ec.hasErrors() {
		for _, e := range dec.ec.errors {
			tracer().Errorf("decode: %s", e)
		}
		dec.doc.problems = dec.ec.errors
	}
	return dec.doc, nil
}

type decoder struct {
	c     *cursor
	ec    errorCollector
	doc   *Document
	fonts *FontTable // seen so far, for charset resolution
}

// readObject reads one object record whose tag has already been consumed.
func (d *decoder) readObject(tag Tag, legacyHeader bool) (*Node, error) {
	id, err := d.c.u32()
	if err != nil {
		return nil, DecodeError{Tag: tag, Issue: "truncated object ID", Severity: SeverityCritical, Offset: d.c.pos}
	}
	node := &Node{Tag: tag, ID: id}
	if e, ok := LookupObject(tag); ok {
		node.Name = e.Name
	} else {
		node.Unknown = true
		d.ec.addWarning(tag, "unregistered object tag, preserving subtree opaquely", d.c.pos)
	}
	if legacyHeader {
		// 23 bytes of unknown meaning precede the first property
		if _, err := d.c.take(23); err != nil {
			return nil, DecodeError{Tag: tag, Issue: "truncated legacy header", Severity: SeverityCritical, Offset: d.c.pos}
		}
	}
	tracer().Debugf("reading object %s with id %d", tag, id)
	for {
		if d.c.remaining() < 2 {
			// ChemDraw writes the file trailer as the document's end
			// marker plus two zero bytes; tolerate a bare EOF here
			if tag == TagDocument {
				return node, nil
			}
			return nil, DecodeError{Tag: tag, Issue: "unterminated object record", Severity: SeverityCritical, Offset: d.c.pos}
		}
		t, _ := d.c.u16()
		next := Tag(t)
		if next == TagEndOfObject {
			break
		}
		if next.IsObject() {
			child, err := d.readObject(next, false)
			if err != nil {
				return nil, err
			}
			node.AppendChild(child)
			continue
		}
		if err := d.readProperty(node, next); err != nil {
			return nil, err
		}
	}
	if node.Name == "objecttag" {
		retypeObjectTag(node)
	}
	return node, nil
}

// readProperty reads one property record whose tag has already been
// consumed and appends it to the node.
func (d *decoder) readProperty(node *Node, tag Tag) error {
	offset := d.c.pos
	n16, err := d.c.u16()
	if err != nil {
		return DecodeError{Tag: tag, Issue: "truncated property length", Severity: SeverityCritical, Offset: offset}
	}
	length := int(n16)
	if n16 == 0xFFFF { // length escape for payloads beyond 65534 bytes
		n32, err := d.c.u32()
		if err != nil {
			return DecodeError{Tag: tag, Issue: "truncated extended property length", Severity: SeverityCritical, Offset: offset}
		}
		length = int(n32)
	}
	payload, err := d.c.take(length)
	if err != nil {
		return DecodeError{
			Tag:      tag,
			Issue:    fmt.Sprintf("property payload of %d bytes exceeds stream", length),
			Severity: SeverityCritical,
			Offset:   offset,
		}
	}
	e, known := LookupProperty(tag)
	if !known {
		d.ec.addWarning(tag, "unregistered property tag, preserving payload opaquely", offset)
		node.Props = append(node.Props, Prop{Tag: tag, Value: Unformatted(append([]byte(nil), payload...))})
		return nil
	}
	env := &decodeEnv{element: node.Name, fonts: d.fonts, utf8: utf8Properties[e.Name]}
	v, err := decodeValue(propertyType(node.Name, e), payload, env)
	if err != nil {
		// A payload we cannot interpret is preserved opaquely rather than
		// failing the whole document. A broken shared table degrades
		// charset and color resolution document-wide, so it weighs more.
		severity := SeverityMinor
		if e.Name == "fonttable" || e.Name == "colortable" {
			severity = SeverityMajor
		}
		d.ec.addError(tag, err.Error(), severity, offset)
		node.Props = append(node.Props, Prop{Tag: tag, Value: Unformatted(append([]byte(nil), payload...))})
		return nil
	}
	if ft, ok := v.(*FontTable); ok {
		d.fonts = ft
	}
	tracer().Debugf("read property %s = %s", e.Name, v)
	node.Props = append(node.Props, Prop{Tag: tag, Name: e.Name, Value: v})
	return nil
}

// retypeObjectTag resolves the deferred typing of an objecttag's Value
// property once its TagType is known. The two properties may occur in
// either order in the stream.
func retypeObjectTag(node *Node) {
	tt, ok := node.Prop("TagType")
	if !ok {
		return
	}
	kind, ok := tt.(Enumerated)
	if !ok {
		return
	}
	for i, p := range node.Props {
		tv, ok := p.Value.(TagValue)
		if !ok || p.Name != "Value" {
			continue
		}
		switch kind.Code {
		case 1: // Double
			if v, err := decodeValue("FLOAT64", tv.Raw, nil); err == nil {
				tv.Typed = v
			}
		case 2: // Long
			if v, err := decodeValue("INT32", tv.Raw, nil); err == nil {
				tv.Typed = v
			}
		}
		node.Props[i].Value = tv
	}
}
