package cdx

import (
	"bytes"
	"errors"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestEncodeEmptyDocument(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "chem.cdx")
	defer teardown()
	//
	data, err := Encode(NewDocument())
	if err != nil {
		t.Fatal(err)
	}
	want := append(append([]byte{}, cdxHeader...),
		0x00, 0x80, // document tag
		0x00, 0x00, 0x00, 0x00, // document ID
		0x00, 0x00, // end of object
		0x00, 0x00, // trailer
	)
	if !bytes.Equal(data, want) {
		t.Fatalf("unexpected stream:\n got %x\nwant %x", data, want)
	}
}

func TestEncodeSkipsFalseImpliedBooleans(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "chem.cdx")
	defer teardown()
	//
	doc := NewDocument()
	doc.Root.SetProp("IgnoreWarnings", BooleanImplied(false))
	withFalse, err := Encode(doc)
	if err != nil {
		t.Fatal(err)
	}
	empty, err := Encode(NewDocument())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(withFalse, empty) {
		t.Fatal("a false implied boolean must not be written")
	}
	doc.Root.SetProp("IgnoreWarnings", BooleanImplied(true))
	withTrue, err := Encode(doc)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(withTrue, empty) {
		t.Fatal("a true implied boolean must be written")
	}
}

func TestEncodeSkipsMarkupOnlyNodes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "chem.cdx")
	defer teardown()
	//
	doc := NewDocument()
	page := NewNode("page", doc.NewID())
	doc.Root.AppendChild(page)
	tag := NewNode("objecttag", doc.NewID())
	tag.MarkupOnly = true
	page.AppendChild(tag)
	data, err := Encode(doc)
	if err != nil {
		t.Fatal(err)
	}
	back, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(back.Pages()[0].Children) != 0 {
		t.Fatal("markup-only node leaked into the binary stream")
	}
}

func TestEncodeRejectsDanglingBondEndpoint(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "chem.cdx")
	defer teardown()
	//
	doc := NewDocument()
	page := NewNode("page", doc.NewID())
	doc.Root.AppendChild(page)
	frag := NewNode("fragment", doc.NewID())
	page.AppendChild(frag)
	atom := NewNode("n", doc.NewID())
	frag.AppendChild(atom)
	bond := NewNode("b", doc.NewID())
	bond.SetProp("B", UInt32(atom.ID))
	bond.SetProp("E", UInt32(999)) // no such node
	frag.AppendChild(bond)
	_, err := Encode(doc)
	var refErr ReferenceError
	if !errors.As(err, &refErr) {
		t.Fatalf("expected a ReferenceError, got %v", err)
	}
	if refErr.Kind != "object" || refErr.Ref != 999 {
		t.Fatalf("unexpected reference error: %v", refErr)
	}
}

func TestEncodeRejectsUnknownFont(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "chem.cdx")
	defer teardown()
	//
	doc := NewDocument()
	doc.EnsureFontTable().Register("Arial")
	text := NewNode("t", doc.NewID())
	text.SetProp("Text", NewText("label", FontStyle{Font: 42, Size: 200}))
	doc.Root.AppendChild(text)
	_, err := Encode(doc)
	var refErr ReferenceError
	if !errors.As(err, &refErr) {
		t.Fatalf("expected a ReferenceError, got %v", err)
	}
	if refErr.Kind != "font" || refErr.Ref != 42 {
		t.Fatalf("unexpected reference error: %v", refErr)
	}
}

func TestEncodeRejectsColorOutOfTable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "chem.cdx")
	defer teardown()
	//
	doc := NewDocument()
	ct := doc.EnsureColorTable()
	ct.Register(Color{0xFFFF, 0, 0})
	node := NewNode("n", doc.NewID())
	node.SetProp("color", ColorRef{Index: uint16(ct.MaxIndex() + 1)})
	doc.Root.AppendChild(node)
	_, err := Encode(doc)
	var refErr ReferenceError
	if !errors.As(err, &refErr) {
		t.Fatalf("expected a ReferenceError, got %v", err)
	}
	if refErr.Kind != "color" {
		t.Fatalf("unexpected reference error: %v", refErr)
	}
}

func TestEncodeChecksColorsWithoutTable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "chem.cdx")
	defer teardown()
	//
	// A document without a color table still carries the implied black
	// and white entries at indices 0 and 1.
	doc := NewDocument()
	node := NewNode("n", doc.NewID())
	node.SetProp("color", ColorRef{Index: 1})
	doc.Root.AppendChild(node)
	if _, err := Encode(doc); err != nil {
		t.Fatalf("white on a table-less document must encode, got %v", err)
	}
	node.SetProp("color", ColorRef{Index: 5})
	_, err := Encode(doc)
	var refErr ReferenceError
	if !errors.As(err, &refErr) {
		t.Fatalf("expected a ReferenceError, got %v", err)
	}
	if refErr.Kind != "color" || refErr.Ref != 5 || refErr.Limit != 2 {
		t.Fatalf("unexpected reference error: %v", refErr)
	}
	// same rule for the color slot of a font style
	doc = NewDocument()
	doc.EnsureFontTable().Register("Arial")
	text := NewNode("t", doc.NewID())
	text.SetProp("Text", NewText("label", FontStyle{Font: 1, Size: 200, Color: 7}))
	doc.Root.AppendChild(text)
	_, err = Encode(doc)
	if !errors.As(err, &refErr) {
		t.Fatalf("expected a ReferenceError, got %v", err)
	}
	if refErr.Kind != "color" || refErr.Ref != 7 {
		t.Fatalf("unexpected reference error: %v", refErr)
	}
}

func TestEncodeLongProperty(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "chem.cdx")
	defer teardown()
	//
	// payloads beyond 65534 bytes use the 0xFFFF length escape
	long := make([]byte, 0x10002)
	doc := NewDocument()
	doc.Root.Props = append(doc.Root.Props, Prop{Tag: Tag(0x7E02), Value: Unformatted(long)})
	data, err := Encode(doc)
	if err != nil {
		t.Fatal(err)
	}
	back, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	var got Unformatted
	for _, p := range back.Root.Props {
		if p.Tag == Tag(0x7E02) {
			got = p.Value.(Unformatted)
		}
	}
	if len(got) != len(long) {
		t.Fatalf("expected %d payload bytes, got %d", len(long), len(got))
	}
}
