package chem

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/chemfile/chemdraw/cdx"
	"github.com/chemfile/chemdraw/internal/geom"
)

const cmToPoints = 28.346456693

// Bond-less structures, salts like NaCl, still need a plausible atom
// spacing. Empirically determined.
const defaultAvgBondLength = 0.825

// ChemDraw draws atom labels in the formula face by default, which picks
// sub- and superscripts per character.
const (
	defaultLabelFontID = 3
	defaultLabelFace   = cdx.FaceFormula
	defaultLabelSize   = 10
)

// defaultDocumentStyle holds the document-level settings of the ACS 1996
// drawing style. Sizes are in points, BondSpacing in percent.
var defaultDocumentStyle = map[string]string{
	"BondSpacing":           "12",
	"BondLength":            "14.40",
	"BoldWidth":             "2",
	"LineWidth":             "0.60",
	"MarginWidth":           "1.60",
	"HashSpacing":           "2.50",
	"ChainAngle":            "120",
	"HideImplicitHydrogens": "no",
	"LabelFont":             strconv.Itoa(defaultLabelFontID),
	"LabelSize":             strconv.Itoa(defaultLabelSize),
	"LabelFace":             strconv.Itoa(int(defaultLabelFace)),
	"CaptionFont":           strconv.Itoa(defaultLabelFontID),
	"CaptionSize":           "10",
	"CaptionFace":           "1",
}

// Options tune the conversion of a molecule to a document. The zero value
// selects the defaults: ACS 1996 document style, a 1 cm margin, enhanced
// stereo included, and undefined double bond stereo drawn as crossed
// (wavy) bonds.
type Options struct {
	Style            map[string]string // document-level attribute overrides
	Margin           float64           // distance from the page border in cm, 0 = 1 cm
	NoEnhancedStereo bool
	NoCrossedBonds   bool
}

// FromMolecule lays the molecule out as a drawing document: a page, one
// fragment per connected component, atom and bond nodes, and text labels
// for atoms ChemDraw draws with a symbol. Coordinates are scaled to the
// document's bond length, flipped to grow downwards, and placed with the
// given margin.
func FromMolecule(mol *Molecule, opts Options) (*cdx.Document, error) {
	if mol == nil {
		return nil, fmt.Errorf("molecule is nil")
	}
	if err := mol.Validate(); err != nil {
		return nil, err
	}
	doc := cdx.NewDocument()
	labelStyle, bondLength, err := applyDocumentStyle(doc, opts.Style)
	if err != nil {
		return nil, err
	}
	if len(mol.Atoms) == 0 {
		tracer().Infof("molecule has no atoms, document stays empty")
		return doc, nil
	}
	margin := opts.Margin
	if margin == 0 {
		margin = 1
	}
	coords, err := layout(mol, bondLength, margin)
	if err != nil {
		return nil, err
	}

	page := cdx.NewNode("page", doc.NewID())
	pb := builder{node: page}
	pb.attr("BoundingBox", "0 0 540 719.75")
	pb.attr("HeaderPosition", "36")
	pb.attr("FooterPosition", "36")
	pb.attr("PrintTrimMarks", "yes")
	pb.attr("HeightPages", "1")
	pb.attr("WidthPages", "1")
	if pb.err != nil {
		return nil, pb.err
	}
	doc.Root.AppendChild(page)

	atomIDs := make([]uint32, len(mol.Atoms))
	for _, comp := range mol.Components() {
		frag := cdx.NewNode("fragment", doc.NewID())
		fb := builder{node: frag}
		fb.attr("BoundingBox", boundingBoxOf(coords, comp))
		fb.attr("Z", "20")
		if fb.err != nil {
			return nil, fb.err
		}
		page.AppendChild(frag)
		inComp := make(map[int]bool, len(comp))
		for _, idx := range comp {
			inComp[idx] = true
			if err := buildAtom(doc, frag, mol, idx, coords, atomIDs, labelStyle, opts); err != nil {
				return nil, err
			}
		}
		for _, b := range mol.Bonds {
			if !inComp[b.Begin] {
				continue
			}
			if err := buildBond(doc, frag, b, atomIDs, opts); err != nil {
				return nil, err
			}
		}
	}
	return doc, nil
}

// RequireSingleComponent reports molecules whose graph is disconnected.
// Layout contexts which place one structure per slot cannot represent
// them.
func (m *Molecule) RequireSingleComponent() error {
	if n := len(m.Components()); n > 1 {
		return cdx.UnsupportedError{
			Op:     "single-fragment layout",
			Reason: fmt.Sprintf("molecule has %d disconnected components", n),
		}
	}
	return nil
}

// builder accumulates typed properties on a node, keeping the first
// conversion error.
type builder struct {
	node *cdx.Node
	err  error
}

func (b *builder) attr(key, value string) {
	if b.err != nil {
		return
	}
	p, err := cdx.ParseProp(b.node.Name, key, value)
	if err != nil {
		b.err = fmt.Errorf("element %s: %w", b.node.Name, err)
		return
	}
	b.node.Props = append(b.node.Props, p)
}

// applyDocumentStyle sets the document-level attributes, the label and
// caption styles, and the font and color tables. Returns the atom label
// style and the target bond length in points.
func applyDocumentStyle(doc *cdx.Document, overrides map[string]string) (cdx.FontStyle, float64, error) {
	style := make(map[string]string, len(defaultDocumentStyle))
	for k, v := range defaultDocumentStyle {
		style[k] = v
	}
	for k, v := range overrides {
		style[k] = v
	}

	labelStyle := fontStyleFrom(style, "Label")
	captionStyle := fontStyleFrom(style, "Caption")
	reconciled := []string{"LabelFont", "LabelSize", "LabelFace", "CaptionFont", "CaptionSize", "CaptionFace"}
	for _, k := range reconciled {
		delete(style, k)
	}

	keys := make([]string, 0, len(style))
	for k := range style {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	rb := builder{node: doc.Root}
	for _, k := range keys {
		rb.attr(k, style[k])
	}
	if rb.err != nil {
		return cdx.FontStyle{}, 0, rb.err
	}
	doc.Root.SetProp("LabelStyle", labelStyle)
	doc.Root.SetProp("CaptionStyle", captionStyle)

	ft := doc.EnsureFontTable()
	ft.Fonts = append(ft.Fonts, cdx.Font{ID: defaultLabelFontID, Charset: 1252, Name: "Arial"})
	ct := doc.EnsureColorTable()
	ct.Colors = append(ct.Colors,
		cdx.Color{R: 0xFFFF, G: 0xFFFF, B: 0xFFFF},
		cdx.Color{},
		cdx.Color{R: 0xFFFF},
		cdx.Color{R: 0xFFFF, G: 0xFFFF},
		cdx.Color{G: 0xFFFF},
		cdx.Color{G: 0xFFFF, B: 0xFFFF},
		cdx.Color{B: 0xFFFF},
		cdx.Color{R: 0xFFFF, B: 0xFFFF},
	)

	bondLength, err := strconv.ParseFloat(style["BondLength"], 64)
	if err != nil || bondLength <= 0 {
		return cdx.FontStyle{}, 0, fmt.Errorf("style has no usable BondLength: %q", style["BondLength"])
	}
	return labelStyle, bondLength, nil
}

func fontStyleFrom(style map[string]string, prefix string) cdx.FontStyle {
	fs := cdx.FontStyle{Font: defaultLabelFontID, Face: defaultLabelFace, Size: defaultLabelSize * 20}
	if v, err := strconv.ParseUint(style[prefix+"Font"], 10, 16); err == nil {
		fs.Font = uint16(v)
	}
	if v, err := strconv.ParseUint(style[prefix+"Face"], 10, 16); err == nil {
		fs.Face = uint16(v)
	}
	if v, err := strconv.ParseFloat(style[prefix+"Size"], 64); err == nil {
		fs.Size = uint16(v * 20)
	}
	return fs
}

// layout scales the molecule's coordinates so that its average bond
// length matches the document's, flips the y axis, and moves the drawing
// to margin centimeters from the top left page corner.
func layout(mol *Molecule, bondLength, margin float64) ([]geom.Point, error) {
	pts := make([]geom.Point, len(mol.Atoms))
	for i, a := range mol.Atoms {
		pts[i] = geom.Point{X: a.X, Y: a.Y}
	}
	avg := defaultAvgBondLength
	if len(mol.Bonds) > 0 {
		total := 0.0
		for _, b := range mol.Bonds {
			total += geom.Dist(pts[b.Begin], pts[b.End])
		}
		avg = total / float64(len(mol.Bonds))
	}
	if avg <= 0 {
		return nil, fmt.Errorf("molecule's average bond length is 0, structure has no extent")
	}
	ratio := bondLength / avg
	for i := range pts {
		pts[i].X *= ratio
		pts[i].Y *= -ratio // drawing files grow downwards
	}
	bounds := geom.Bounds(pts)
	dx := margin*cmToPoints - bounds.Left
	dy := margin*cmToPoints - bounds.Top
	for i := range pts {
		pts[i].X = geom.Round2(pts[i].X + dx)
		pts[i].Y = geom.Round2(pts[i].Y + dy)
	}
	return pts, nil
}

func boundingBoxOf(pts []geom.Point, indices []int) string {
	sel := make([]geom.Point, len(indices))
	for i, idx := range indices {
		sel[i] = pts[idx]
	}
	r := geom.Bounds(sel)
	return formatPts(r.Left) + " " + formatPts(r.Top) + " " + formatPts(r.Right) + " " + formatPts(r.Bottom)
}

func formatPts(v float64) string {
	return strconv.FormatFloat(geom.Round2(v), 'f', -1, 64)
}

func buildAtom(doc *cdx.Document, frag *cdx.Node, mol *Molecule, idx int,
	coords []geom.Point, atomIDs []uint32, labelStyle cdx.FontStyle, opts Options) error {

	a := mol.Atoms[idx]
	id := doc.NewID()
	atomIDs[idx] = id
	x, y := coords[idx].X, coords[idx].Y

	// ChemDraw has no atom-level radical drawing, the electron symbols
	// are separate graphic objects tied to the atom via a represent hook.
	switch a.Radical {
	case 1:
		radicalGraphic(doc, frag, id, "Electron",
			formatPts(x+4.52)+" "+formatPts(y-4.52)+" "+formatPts(x-3.0)+" "+formatPts(y-4.52))
	case 2:
		radicalGraphic(doc, frag, id, "LonePair",
			formatPts(x+1.87)+" "+formatPts(y-7.87)+" "+formatPts(x-1.87)+" "+formatPts(y-7.87))
	}

	node := cdx.NewNode("n", id)
	nb := builder{node: node}
	nb.attr("p", formatPts(x)+" "+formatPts(y))
	nb.attr("Z", strconv.Itoa(20+int(id)))
	nb.attr("Element", strconv.Itoa(a.Element))
	switch a.Radical {
	case 1:
		nb.attr("Radical", "Doublet")
	case 2:
		nb.attr("Radical", "Singlet")
	case 3:
		nb.attr("Radical", "Triplet")
	}
	if a.Stereo != "" {
		nb.attr("AS", a.Stereo)
	} else {
		nb.attr("AS", "N")
	}
	if !opts.NoEnhancedStereo && a.Group.Type != "" {
		nb.attr("EnhancedStereoType", a.Group.Type)
		nb.attr("EnhancedStereoGroupNum", strconv.Itoa(a.Group.Number))
	}
	if a.Charge != 0 {
		nb.attr("Charge", strconv.Itoa(a.Charge))
	}
	if a.Isotope != 0 {
		nb.attr("Isotope", strconv.Itoa(a.Isotope))
	}

	if a.Element != 6 || a.Charge != 0 || a.Radical > 0 {
		nb.attr("NumHydrogens", strconv.Itoa(a.Hydrogens))
		label := cdx.NewNode("t", doc.NewID())
		label.SetProp("Text", cdx.NewText(atomLabel(a), labelStyle))
		node.AppendChild(label)
	}
	if nb.err != nil {
		return nb.err
	}
	frag.AppendChild(node)
	return nil
}

// atomLabel spells an atom the way ChemDraw labels it: element symbol,
// implicit hydrogen count, charge suffix.
func atomLabel(a Atom) string {
	lbl := Symbol(a.Element)
	if lbl == "H" && a.Isotope == 2 {
		lbl = "D"
	}
	if a.Hydrogens > 0 {
		lbl += "H"
		if a.Hydrogens > 1 {
			lbl += strconv.Itoa(a.Hydrogens)
		}
	}
	switch {
	case a.Charge == 1:
		lbl += "+"
	case a.Charge > 1:
		lbl += "+" + strconv.Itoa(a.Charge)
	case a.Charge == -1:
		lbl += "-"
	case a.Charge < -1:
		lbl += strconv.Itoa(a.Charge) // the minus sign comes with the number
	}
	return lbl
}

func radicalGraphic(doc *cdx.Document, frag *cdx.Node, atomID uint32, symbol, boundingBox string) {
	g := cdx.NewNode("graphic", doc.NewID())
	gb := builder{node: g}
	gb.attr("BoundingBox", boundingBox)
	gb.attr("GraphicType", "Symbol")
	gb.attr("SymbolType", symbol)
	if gb.err != nil {
		tracer().Errorf("radical graphic dropped: %v", gb.err)
		return
	}
	if e, ok := cdx.LookupPropertyName("Radical"); ok {
		g.SetProp("represent", cdx.Represents{ObjectID: atomID, Attribute: e.Tag})
	}
	frag.AppendChild(g)
}

func buildBond(doc *cdx.Document, frag *cdx.Node, b Bond, atomIDs []uint32, opts Options) error {
	id := doc.NewID()
	node := cdx.NewNode("b", id)
	bb := builder{node: node}
	bb.attr("Z", strconv.Itoa(20+int(id)))
	bb.attr("B", strconv.FormatUint(uint64(atomIDs[b.Begin]), 10))
	bb.attr("E", strconv.FormatUint(uint64(atomIDs[b.End]), 10))

	display := b.Display
	switch b.Stereo {
	case "U":
		if b.Order == "2" && !opts.NoCrossedBonds {
			// crossed double bonds are spelled as wavy display in ChemDraw
			bb.attr("BS", "N")
			if display == "" {
				display = "Wavy"
			}
		} else {
			bb.attr("BS", "U")
		}
	case "E", "Z":
		bb.attr("BS", b.Stereo)
	default:
		bb.attr("BS", "N")
	}
	if b.Order != "" && b.Order != "1" {
		bb.attr("Order", b.Order)
	}
	if display != "" {
		bb.attr("Display", display)
	}
	if bb.err != nil {
		return bb.err
	}
	frag.AppendChild(node)
	return nil
}
