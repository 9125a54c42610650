package cdxml

import (
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/chemfile/chemdraw/cdx"
)

// Header is the XML declaration and document type ChemDraw expects at the
// top of a CDXML file. ChemDraw refuses files whose header deviates from
// this exact spelling.
const Header = `<?xml version="1.0" encoding="UTF-8" ?>
<!DOCTYPE CDXML SYSTEM "http://www.cambridgesoft.com/xml/cdxml.dtd" >
`

// Marshal renders a document as CDXML markup, indented.
func Marshal(doc *cdx.Document) ([]byte, error) {
	var sb strings.Builder
	if err := Write(doc, &sb); err != nil {
		return nil, err
	}
	return []byte(sb.String()), nil
}

// Write renders a document as CDXML markup to w.
func Write(doc *cdx.Document, w io.Writer) error {
	xdoc := etree.NewDocument()
	wr := &writer{doc: doc}
	wr.buildElement(&xdoc.Element, doc.Root)
	xdoc.Indent(2)
	if _, err := io.WriteString(w, Header); err != nil {
		return err
	}
	if _, err := xdoc.WriteTo(w); err != nil {
		return err
	}
	return nil
}

// WriteFile renders a document as CDXML markup into a file. The document
// is rendered in memory first, so a rendering problem never leaves a
// partial file behind.
func WriteFile(doc *cdx.Document, path string) error {
	data, err := Marshal(doc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

type writer struct {
	doc *cdx.Document
}

func (wr *writer) buildElement(parent *etree.Element, n *cdx.Node) {
	if n.Unknown {
		tracer().Infof("dropping object with unregistered tag %s from markup", n.Tag)
		return
	}
	el := parent.CreateElement(n.Name)
	if n.Tag != cdx.TagDocument {
		el.CreateAttr("id", strconv.FormatUint(uint64(n.ID), 10))
	}
	var text *cdx.StyledText
	for _, p := range n.Props {
		switch {
		case p.Name == "":
			tracer().Infof("dropping property with unregistered tag %s from markup", p.Tag)
		case p.Name == "fonttable":
			if ft, ok := p.Value.(*cdx.FontTable); ok {
				buildFontTable(el, ft)
			}
		case p.Name == "colortable":
			if ct, ok := p.Value.(*cdx.ColorTable); ok {
				buildColorTable(el, ct)
			}
		case p.Name == "represent":
			if rep, ok := p.Value.(cdx.Represents); ok {
				buildRepresent(el, rep)
			}
		case p.Name == "LabelStyle":
			if fs, ok := p.Value.(cdx.FontStyle); ok {
				buildStyleAttrs(el, "Label", fs)
			}
		case p.Name == "CaptionStyle":
			if fs, ok := p.Value.(cdx.FontStyle); ok {
				buildStyleAttrs(el, "Caption", fs)
			}
		case p.Name == "Text" && n.Name == "t":
			// rendered as s children after the attributes
			text, _ = p.Value.(*cdx.StyledText)
		default:
			if order, ok := p.Value.(cdx.BondOrder); ok && order.String() == "" {
				continue // unspecified order has no markup spelling
			}
			el.CreateAttr(p.Name, sanitizeAttr(p.Value.String()))
		}
	}
	if text != nil {
		buildStyledText(el, text)
	}
	for _, c := range n.Children {
		wr.buildElement(el, c)
	}
}

func buildFontTable(parent *etree.Element, ft *cdx.FontTable) {
	el := parent.CreateElement("fonttable")
	for _, f := range ft.Fonts {
		fe := el.CreateElement("font")
		fe.CreateAttr("id", strconv.Itoa(int(f.ID)))
		fe.CreateAttr("charset", cdx.CharsetName(f.Charset))
		fe.CreateAttr("name", f.Name)
	}
}

func buildColorTable(parent *etree.Element, ct *cdx.ColorTable) {
	el := parent.CreateElement("colortable")
	for _, c := range ct.Colors {
		ce := el.CreateElement("color")
		ce.CreateAttr("r", formatChannel(c.R))
		ce.CreateAttr("g", formatChannel(c.G))
		ce.CreateAttr("b", formatChannel(c.B))
	}
}

func formatChannel(v uint16) string {
	return strconv.FormatFloat(float64(v)/65535.0, 'f', -1, 64)
}

func buildRepresent(parent *etree.Element, rep cdx.Represents) {
	el := parent.CreateElement("represent")
	el.CreateAttr("attribute", rep.Attribute.String())
	el.CreateAttr("object", strconv.FormatUint(uint64(rep.ObjectID), 10))
}

func buildStyleAttrs(el *etree.Element, prefix string, fs cdx.FontStyle) {
	el.CreateAttr(prefix+"Font", strconv.Itoa(int(fs.Font)))
	el.CreateAttr(prefix+"Size", strconv.FormatFloat(fs.SizePoints(), 'f', -1, 64))
	el.CreateAttr(prefix+"Face", strconv.Itoa(int(fs.Face)))
}

func buildStyledText(el *etree.Element, st *cdx.StyledText) {
	pieces := st.RunTexts()
	if len(pieces) == 0 && st.Text() != "" {
		// a text without runs still needs its content in markup
		se := el.CreateElement("s")
		se.SetText(sanitizeAttr(st.Text()))
		return
	}
	for i, run := range st.Runs {
		se := el.CreateElement("s")
		se.CreateAttr("font", strconv.Itoa(int(run.Style.Font)))
		se.CreateAttr("size", strconv.FormatFloat(run.Style.SizePoints(), 'f', -1, 64))
		se.CreateAttr("face", strconv.Itoa(int(run.Style.Face)))
		se.CreateAttr("color", strconv.Itoa(int(run.Style.Color)))
		se.SetText(sanitizeAttr(pieces[i]))
	}
}

// sanitizeAttr strips characters which are not valid in XML 1.0. Decoded
// binary strings occasionally carry stray control characters.
func sanitizeAttr(s string) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r == 0x09 || r == 0x0A || r == 0x0D:
			return r
		case r >= 0x20 && r <= 0xD7FF:
			return r
		case r >= 0xE000 && r <= 0xFFFD:
			return r
		case r >= 0x10000 && r <= 0x10FFFF:
			return r
		}
		return -1
	}, s)
	if clean != s {
		tracer().Infof("stripped control characters from attribute value")
	}
	return clean
}
