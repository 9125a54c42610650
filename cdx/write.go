package cdx

import (
	"bytes"
	"os"
)

// Encode serializes a document to its binary form. Encoding happens into
// an in-memory buffer; a failing validation therefore never produces a
// partial artifact. Documents holding references outside the shared
// tables are rejected with a ReferenceError before any byte is written.
func Encode(doc *Document) ([]byte, error) {
	if err := validateReferences(doc); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.Write(cdxHeader)
	writeNode(&buf, doc.Root)
	buf.Write([]byte{0, 0}) // file trailer
	return buf.Bytes(), nil
}

// EncodeFile serializes a document and writes it to path. The file is
// created only after the document has been encoded successfully.
func EncodeFile(doc *Document, path string) error {
	data, err := Encode(doc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func writeNode(buf *bytes.Buffer, n *Node) {
	if n.MarkupOnly {
		return
	}
	buf.Write(u16Bytes(uint16(n.Tag)))
	buf.Write(u32Bytes(n.ID))
	for _, p := range n.Props {
		writeProp(buf, p)
	}
	for _, c := range n.Children {
		writeNode(buf, c)
	}
	buf.Write(u16Bytes(uint16(TagEndOfObject)))
}

func writeProp(buf *bytes.Buffer, p Prop) {
	if b, ok := p.Value.(BooleanImplied); ok && !bool(b) {
		// absence is the only representation of false
		tracer().Debugf("skipping false implied boolean %s", p.Tag)
		return
	}
	payload := p.Value.Bytes()
	buf.Write(u16Bytes(uint16(p.Tag)))
	if len(payload) > 0xFFFE {
		buf.Write(u16Bytes(0xFFFF))
		buf.Write(u32Bytes(uint32(len(payload))))
	} else {
		buf.Write(u16Bytes(uint16(len(payload))))
	}
	buf.Write(payload)
}

// validateReferences enforces the table-bounds invariant: every color
// index and every style font must resolve inside the shared tables. Bond
// endpoint IDs must resolve to nodes of the document.
func validateReferences(doc *Document) error {
	ids := make(map[uint32]bool)
	doc.Walk(func(n *Node) bool {
		ids[n.ID] = true
		return true
	})
	var fail error
	doc.Walk(func(n *Node) bool {
		if fail != nil {
			return false
		}
		for _, p := range n.Props {
			switch v := p.Value.(type) {
			case ColorRef:
				if int(v.Index) > colorLimit(doc) {
					fail = ReferenceError{Kind: "color", Ref: int(v.Index), Limit: colorLimit(doc) + 1}
					return false
				}
			case FontStyle:
				if err := checkFontRef(doc, v); err != nil {
					fail = err
					return false
				}
			case *StyledText:
				for _, run := range v.Runs {
					if err := checkFontRef(doc, run.Style); err != nil {
						fail = err
						return false
					}
				}
			case UInt32:
				if p.Name == "B" || p.Name == "E" {
					if !ids[uint32(v)] {
						fail = ReferenceError{Kind: "object", Ref: int(v)}
						return false
					}
				}
			}
		}
		return true
	})
	return fail
}

func checkFontRef(doc *Document, fs FontStyle) error {
	if doc.Fonts == nil || len(doc.Fonts.Fonts) == 0 {
		return nil
	}
	if _, ok := doc.Fonts.Lookup(fs.Font); !ok {
		return ReferenceError{Kind: "font", Ref: int(fs.Font), Limit: len(doc.Fonts.Fonts)}
	}
	if int(fs.Color) > colorLimit(doc) {
		return ReferenceError{Kind: "color", Ref: int(fs.Color), Limit: colorLimit(doc) + 1}
	}
	return nil
}

// colorLimit is the highest color index a reference may carry. A document
// without a color table still has the implied black and white entries.
func colorLimit(doc *Document) int {
	if doc.Colors == nil {
		return 1
	}
	return doc.Colors.MaxIndex()
}
