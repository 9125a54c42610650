package cdxml

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/chemfile/chemdraw/cdx"
)

// ParseOptions control how strictly markup input is interpreted.
type ParseOptions struct {
	// Strict turns unknown elements and attributes into errors instead
	// of diagnostics.
	Strict bool
}

// Unmarshal parses CDXML markup into a document.
func Unmarshal(data []byte) (*cdx.Document, error) {
	return UnmarshalWithOptions(data, ParseOptions{})
}

// UnmarshalWithOptions parses CDXML markup into a document.
func UnmarshalWithOptions(data []byte, opts ParseOptions) (*cdx.Document, error) {
	return parse(bytes.NewReader(data), opts)
}

// Read parses CDXML markup from r into a document.
func Read(r io.Reader) (*cdx.Document, error) {
	return parse(r, ParseOptions{})
}

// ReadFile parses the CDXML file at path into a document.
func ReadFile(path string) (*cdx.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	doc, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

func parse(r io.Reader, opts ParseOptions) (*cdx.Document, error) {
	xdoc := etree.NewDocument()
	if _, err := xdoc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("not well-formed CDXML: %w", err)
	}
	root := xdoc.Root()
	if root == nil || root.Tag != "CDXML" {
		return nil, fmt.Errorf("not a CDXML document, root element is %q", elementName(root))
	}
	rd := &reader{doc: cdx.NewDocument(), strict: opts.Strict}
	if err := rd.fillNode(rd.doc.Root, root); err != nil {
		return nil, err
	}
	// Objects without an id attribute get one after the whole tree is
	// read, so freshly assigned ids never collide with declared ones.
	for _, n := range rd.missing {
		n.ID = rd.doc.NewID()
	}
	rd.doc.RelinkTables()
	// Texts encode in the charset of their first run's font. The font
	// table is only complete now, so binding happens after the full parse.
	if rd.doc.Fonts != nil {
		rd.doc.Walk(func(n *cdx.Node) bool {
			for _, p := range n.Props {
				if st, ok := p.Value.(*cdx.StyledText); ok {
					st.BindCharset(rd.doc.Fonts)
				}
			}
			return true
		})
	}
	return rd.doc, nil
}

func elementName(el *etree.Element) string {
	if el == nil {
		return ""
	}
	return el.Tag
}

// markupOnlyTags names objecttag variants which ChemDraw renders on its
// own from the surrounding structure. Writing them to binary output makes
// ChemDraw display the annotation twice, so such nodes are carried for
// markup round-trips only.
var markupOnlyTags = map[string]bool{
	"stereo":         true,
	"enhancedstereo": true,
	"residueID":      true,
}

type reader struct {
	doc     *cdx.Document
	strict  bool
	missing []*cdx.Node
}

// fillNode reads the attributes and children of el into node.
func (rd *reader) fillNode(node *cdx.Node, el *etree.Element) error {
	label := styleParts{}
	caption := styleParts{}
	hadID := false
	for _, a := range el.Attr {
		switch {
		case a.Key == "id":
			id, err := strconv.ParseUint(a.Value, 10, 32)
			if err != nil {
				return fmt.Errorf("element %s: bad id %q", el.Tag, a.Value)
			}
			node.ID = uint32(id)
			rd.doc.NoteID(node.ID)
			hadID = true
		case strings.HasPrefix(a.Key, "Label") && label.accept(strings.TrimPrefix(a.Key, "Label"), a.Value):
			// collected below into a single LabelStyle property
		case strings.HasPrefix(a.Key, "Caption") && caption.accept(strings.TrimPrefix(a.Key, "Caption"), a.Value):
			// collected below into a single CaptionStyle property
		default:
			p, err := cdx.ParseProp(el.Tag, a.Key, a.Value)
			if err != nil {
				if rd.strict {
					return fmt.Errorf("element %s: %w", el.Tag, err)
				}
				tracer().Infof("element %s: dropping attribute %s=%q: %v", el.Tag, a.Key, a.Value, err)
				continue
			}
			node.Props = append(node.Props, p)
		}
	}
	if label.present {
		node.SetProp("LabelStyle", label.fontStyle())
	}
	if caption.present {
		node.SetProp("CaptionStyle", caption.fontStyle())
	}
	var text *cdx.StyledText
	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "fonttable":
			node.SetProp("fonttable", parseFontTable(child))
		case "colortable":
			node.SetProp("colortable", parseColorTable(child))
		case "represent":
			rep, err := parseRepresent(child)
			if err != nil {
				if rd.strict {
					return err
				}
				tracer().Infof("dropping represent element: %v", err)
				continue
			}
			node.SetProp("represent", rep)
		case "s":
			if node.Name != "t" {
				tracer().Infof("stray s element under %s, dropped", node.Name)
				continue
			}
			if text == nil {
				text = &cdx.StyledText{}
			}
			text.AppendRun(child.Text(), styleFromRun(child))
		default:
			sub, err := rd.parseElement(child)
			if err != nil {
				return err
			}
			if sub != nil {
				node.AppendChild(sub)
			}
		}
	}
	if text != nil {
		node.SetProp("Text", text)
	}
	if node.Name == "objecttag" {
		if name, ok := node.Prop("Name"); ok && markupOnlyTags[name.String()] {
			node.MarkupOnly = true
		}
		retypeMarkupValue(node)
	}
	if !hadID && node.Tag != cdx.TagDocument {
		rd.missing = append(rd.missing, node)
	}
	return nil
}

func (rd *reader) parseElement(el *etree.Element) (*cdx.Node, error) {
	entry, ok := cdx.LookupObjectName(el.Tag)
	if !ok {
		if rd.strict {
			return nil, fmt.Errorf("unknown element %q", el.Tag)
		}
		tracer().Infof("dropping unknown element %q", el.Tag)
		return nil, nil
	}
	node := &cdx.Node{Tag: entry.Tag, Name: entry.Name}
	if err := rd.fillNode(node, el); err != nil {
		return nil, err
	}
	return node, nil
}

// styleParts accumulates the LabelFont/LabelSize/LabelFace attribute
// triple (or its Caption counterpart) which the binary format keeps as a
// single font style property.
type styleParts struct {
	present bool
	font    string
	size    string
	face    string
}

func (sp *styleParts) accept(key, value string) bool {
	switch key {
	case "Font":
		sp.font = value
	case "Size":
		sp.size = value
	case "Face":
		sp.face = value
	default:
		return false
	}
	sp.present = true
	return true
}

func (sp *styleParts) fontStyle() cdx.FontStyle {
	fs := cdx.FontStyle{Font: 1, Size: 12 * 20}
	if sp.font != "" {
		if v, err := strconv.ParseUint(sp.font, 10, 16); err == nil {
			fs.Font = uint16(v)
		}
	}
	if sp.size != "" {
		if v, err := strconv.ParseFloat(sp.size, 64); err == nil {
			fs.Size = uint16(v * 20)
		}
	}
	if sp.face != "" {
		if v, err := strconv.ParseUint(sp.face, 10, 16); err == nil {
			fs.Face = uint16(v)
		}
	}
	return fs
}

// styleFromRun reads the style attributes of an s element. Absent
// attributes default to plain black text in the implicit font 0.
func styleFromRun(el *etree.Element) cdx.FontStyle {
	fs := cdx.FontStyle{Size: 12 * 20}
	if v, err := strconv.ParseUint(el.SelectAttrValue("font", "0"), 10, 16); err == nil {
		fs.Font = uint16(v)
	}
	if v, err := strconv.ParseUint(el.SelectAttrValue("face", "0"), 10, 16); err == nil {
		fs.Face = uint16(v)
	}
	if v, err := strconv.ParseFloat(el.SelectAttrValue("size", "12"), 64); err == nil {
		fs.Size = uint16(v * 20)
	}
	if v, err := strconv.ParseUint(el.SelectAttrValue("color", "0"), 10, 16); err == nil {
		fs.Color = uint16(v)
	}
	return fs
}

func parseFontTable(el *etree.Element) *cdx.FontTable {
	ft := &cdx.FontTable{OSType: 1} // binary output declares Windows
	for _, fe := range el.SelectElements("font") {
		f := cdx.Font{Name: fe.SelectAttrValue("name", "")}
		if v, err := strconv.ParseUint(fe.SelectAttrValue("id", "0"), 10, 16); err == nil {
			f.ID = uint16(v)
		}
		f.Charset = cdx.CharsetID(fe.SelectAttrValue("charset", "iso-8859-1"))
		ft.Fonts = append(ft.Fonts, f)
	}
	return ft
}

func parseColorTable(el *etree.Element) *cdx.ColorTable {
	ct := &cdx.ColorTable{}
	for _, ce := range el.SelectElements("color") {
		ct.Colors = append(ct.Colors, cdx.Color{
			R: parseChannel(ce.SelectAttrValue("r", "0")),
			G: parseChannel(ce.SelectAttrValue("g", "0")),
			B: parseChannel(ce.SelectAttrValue("b", "0")),
		})
	}
	return ct
}

func parseChannel(s string) uint16 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return uint16(v * 65535.0)
}

func parseRepresent(el *etree.Element) (cdx.Represents, error) {
	attr := el.SelectAttrValue("attribute", "")
	e, ok := cdx.LookupPropertyName(attr)
	if !ok {
		return cdx.Represents{}, fmt.Errorf("represent references unknown attribute %q", attr)
	}
	id, err := strconv.ParseUint(el.SelectAttrValue("object", "0"), 10, 32)
	if err != nil {
		return cdx.Represents{}, fmt.Errorf("represent has bad object reference: %w", err)
	}
	return cdx.Represents{ObjectID: uint32(id), Attribute: e.Tag}, nil
}

// retypeMarkupValue resolves the type of an objecttag's Value attribute,
// which depends on the sibling TagType attribute. String-typed and
// untyped values keep their text payload.
func retypeMarkupValue(node *cdx.Node) {
	tt, ok := node.Prop("TagType")
	if !ok {
		return
	}
	kind, ok := tt.(cdx.Enumerated)
	if !ok {
		return
	}
	for i, p := range node.Props {
		tv, ok := p.Value.(cdx.TagValue)
		if !ok || p.Name != "Value" {
			continue
		}
		switch {
		case kind.Is("Double"):
			if v, err := strconv.ParseFloat(tv.String(), 64); err == nil {
				tv.Typed = cdx.Float64(v)
			}
		case kind.Is("Long"):
			if v, err := strconv.ParseInt(tv.String(), 10, 32); err == nil {
				tv.Typed = cdx.Int32(v)
			}
		}
		node.Props[i].Value = tv
	}
}
