package styler

import (
	"fmt"
	"math"
	"strconv"

	"github.com/chemfile/chemdraw/cdx"
	"github.com/chemfile/chemdraw/internal/geom"
)

// Styler rewrites documents to one target style.
type Styler struct {
	style Style
}

// New creates a styler for an explicit style configuration.
func New(style Style) (*Styler, error) {
	if err := style.validate(); err != nil {
		return nil, err
	}
	return &Styler{style: style}, nil
}

// NewNamed creates a styler for a built-in style, "ACS 1996" or "Wiley".
func NewNamed(name string) (*Styler, error) {
	s, err := Named(name)
	if err != nil {
		return nil, err
	}
	return &Styler{style: s}, nil
}

// NewFromTemplate creates a styler with the style of an existing drawing
// file.
func NewFromTemplate(path string) (*Styler, error) {
	s, err := TemplateStyle(path)
	if err != nil {
		return nil, err
	}
	return &Styler{style: s}, nil
}

// Style returns the styler's target style.
func (st *Styler) Style() Style { return st.style }

// Attributes whose presence on an atom, label or bond overrides the
// document-level style. They are deleted so the new document settings
// take effect.
var (
	unwantedNodeProps = []string{"LabelStyle", "LineWidth"}
	keepTextProps     = map[string]bool{
		"p": true, "BoundingBox": true, "Justification": true,
		"LabelAlignment": true, "Z": true, "Text": true,
	}
	keepBondProps = map[string]bool{
		"Z": true, "B": true, "E": true, "BS": true, "Order": true,
		"BondCircularOrdering": true, "Display": true,
	}
	// 3D extents cannot be rescaled in the plane; the bounding box is
	// enough for correct rendering.
	graphic3DProps = []string{"Center3D", "MajorAxisEnd3D", "MinorAxisEnd3D"}
)

// Apply rewrites the document in place: document-level settings, a
// global rescale so the average bond length of the largest structure
// matches the style, label font and size rewrites, and removal of
// per-atom and per-bond style overrides.
func (st *Styler) Apply(doc *cdx.Document) error {
	s := st.style
	ft := doc.EnsureFontTable()
	fontID := ft.Register(s.LabelFont)
	tracer().Debugf("applying style with label font %q (id %d)", s.LabelFont, fontID)

	implicitWas := "no" // absence means "no"
	if v, ok := doc.Root.Prop("HideImplicitHydrogens"); ok {
		implicitWas = v.String()
	}
	hideImplicit := s.HideImplicitHydrogens
	implicitChanged := implicitWas != hideImplicit

	docAttrs := map[string]string{
		"BondSpacing":           s.BondSpacing,
		"BondLength":            s.BondLength,
		"BoldWidth":             s.BoldWidth,
		"LineWidth":             s.LineWidth,
		"MarginWidth":           s.MarginWidth,
		"HashSpacing":           s.HashSpacing,
		"HideImplicitHydrogens": hideImplicit,
	}
	for name, value := range docAttrs {
		if value == "" {
			continue
		}
		p, err := cdx.ParseProp("CDXML", name, value)
		if err != nil {
			return fmt.Errorf("style setting %s: %w", name, err)
		}
		doc.Root.SetProp(name, p.Value)
	}

	labelSize, err := strconv.ParseFloat(s.LabelSize, 64)
	if err != nil || labelSize <= 0 {
		return fmt.Errorf("style has no usable LabelSize: %q", s.LabelSize)
	}
	labelFace := uint16(0)
	if v, err := strconv.ParseUint(s.LabelFace, 10, 16); err == nil {
		labelFace = uint16(v)
	}
	doc.Root.SetProp("LabelStyle", cdx.FontStyle{Font: fontID, Face: labelFace, Size: uint16(labelSize * 20)})
	caption := cdx.FontStyle{Font: fontID, Size: uint16(labelSize * 20)}
	if v, ok := doc.Root.Prop("CaptionStyle"); ok {
		if fs, ok := v.(cdx.FontStyle); ok {
			caption = fs
		}
	}
	if cs, err := strconv.ParseFloat(s.CaptionSize, 64); err == nil && cs > 0 {
		caption.Size = uint16(cs * 20)
	}
	doc.Root.SetProp("CaptionStyle", caption)

	targetBL, _ := strconv.ParseFloat(s.BondLength, 64)

	frags := fragmentsOf(doc)
	scaling := 1.0
	if avg := documentBondLength(frags); avg > 0 {
		scaling = targetBL / avg
	}
	var global []geom.Point
	for _, f := range frags {
		for _, a := range f.atoms {
			global = append(global, a.pt)
		}
	}
	dx, dy := geom.Translation(global, geom.Scale(global, scaling))
	tracer().Debugf("rescaling document by %.4f, shifting by (%.2f, %.2f)", scaling, dx, dy)

	for _, page := range doc.Pages() {
		for _, child := range page.Children {
			if child.Name == "fragment" {
				continue
			}
			scaleNodeGeometry(child, scaling, dx, dy)
			if child.Name == "graphic" {
				for _, name := range graphic3DProps {
					child.DeleteProp(name)
				}
			}
		}
	}

	rs := runRestyler{fontID: fontID, size: uint16(labelSize * 20), face: labelFace}
	for _, f := range frags {
		if err := restyleFragment(f, scaling, dx, dy, rs, implicitChanged, hideImplicit == "yes"); err != nil {
			return err
		}
	}
	return nil
}

// fragData is one fragment with its atom nodes and their positions.
type fragData struct {
	node  *cdx.Node
	atoms []atomData
	bonds []*cdx.Node
	index map[uint32]int // atom node id to index in atoms
}

type atomData struct {
	node *cdx.Node
	pt   geom.Point
}

func fragmentsOf(doc *cdx.Document) []*fragData {
	var frags []*fragData
	doc.Walk(func(n *cdx.Node) bool {
		if n.Name != "fragment" {
			return true
		}
		f := &fragData{node: n, index: make(map[uint32]int)}
		n.Walk(func(c *cdx.Node) bool {
			switch c.Name {
			case "n":
				if v, ok := c.Prop("p"); ok {
					if p, ok := v.(cdx.Point2D); ok {
						f.index[c.ID] = len(f.atoms)
						f.atoms = append(f.atoms, atomData{node: c, pt: geom.Point{X: p.X.Points(), Y: p.Y.Points()}})
					}
				}
			case "b":
				f.bonds = append(f.bonds, c)
			}
			return true
		})
		frags = append(frags, f)
		return false
	})
	return frags
}

// documentBondLength returns the average bond length of the fragment
// with the most bonds, which stands in for the document's drawing scale.
func documentBondLength(frags []*fragData) float64 {
	best := -1
	bestBonds := 0
	for i, f := range frags {
		if len(f.bonds) > bestBonds {
			best, bestBonds = i, len(f.bonds)
		}
	}
	if best < 0 {
		return 0
	}
	f := frags[best]
	total, count := 0.0, 0
	for _, b := range f.bonds {
		bi, ok1 := bondEnd(f, b, "B")
		ei, ok2 := bondEnd(f, b, "E")
		if !ok1 || !ok2 {
			continue
		}
		total += geom.Dist(f.atoms[bi].pt, f.atoms[ei].pt)
		count++
	}
	if count == 0 {
		return 0
	}
	return math.Round(total/float64(count)*10) / 10
}

func bondEnd(f *fragData, b *cdx.Node, attr string) (int, bool) {
	v, ok := b.Prop(attr)
	if !ok {
		return 0, false
	}
	id, ok := v.(cdx.UInt32)
	if !ok {
		return 0, false
	}
	idx, ok := f.index[uint32(id)]
	return idx, ok
}

func restyleFragment(f *fragData, scaling, dx, dy float64,
	rs runRestyler, implicitChanged, hideImplicit bool) error {

	if len(f.atoms) == 0 {
		return fmt.Errorf("fragment %d has no atoms with coordinates", f.node.ID)
	}
	if _, ok := f.node.Prop("BoundingBox"); !ok {
		pts := make([]geom.Point, len(f.atoms))
		for i, a := range f.atoms {
			pts[i] = a.pt
		}
		f.node.SetProp("BoundingBox", rectValue(geom.Bounds(pts)))
	}
	scaleRect(f.node, scaling, dx, dy)

	// Labels are rescaled as a group anchored at their own center, so
	// they stay put relative to the atoms they annotate.
	var labels []*cdx.Node
	var labelPts []geom.Point
	for _, a := range f.atoms {
		for _, t := range a.node.ChildrenNamed("t") {
			if v, ok := t.Prop("p"); ok {
				if p, ok := v.(cdx.Point2D); ok {
					labels = append(labels, t)
					labelPts = append(labelPts, geom.Point{X: p.X.Points(), Y: p.Y.Points()})
				}
			}
		}
	}
	ldx, ldy := geom.Translation(labelPts, geom.Scale(labelPts, scaling))

	for _, a := range f.atoms {
		p := geom.Point{X: a.pt.X*scaling + dx, Y: a.pt.Y*scaling + dy}
		a.node.SetProp("p", pointValue(p))
		for _, name := range unwantedNodeProps {
			a.node.DeleteProp(name)
		}
		for _, t := range a.node.ChildrenNamed("t") {
			pruneProps(t, keepTextProps)
			restyleLabel(t, a.node, rs, implicitChanged, hideImplicit)
		}
	}
	for i, t := range labels {
		p := geom.Point{X: labelPts[i].X*scaling + ldx, Y: labelPts[i].Y*scaling + ldy}
		t.SetProp("p", pointValue(p))
	}

	for _, b := range f.bonds {
		pruneProps(b, keepBondProps)
		// type-query annotations on bonds keep a label of their own
		for _, tag := range b.ChildrenNamed("objecttag") {
			if v, ok := tag.Prop("Name"); ok && v.String() == "query" {
				for _, t := range tag.ChildrenNamed("t") {
					rs.scaled(0.75).restyleRuns(t)
				}
			}
		}
	}

	f.node.Walk(func(c *cdx.Node) bool {
		switch c.Name {
		case "graphic":
			scaleRect(c, scaling, dx, dy)
			for _, name := range graphic3DProps {
				c.DeleteProp(name)
			}
		case "curve":
			scaleCurve(c, scaling, dx, dy)
		}
		return true
	})
	return nil
}

func restyleLabel(t *cdx.Node, atom *cdx.Node, rs runRestyler, implicitChanged, hideImplicit bool) {
	v, ok := t.Prop("Text")
	if !ok {
		return
	}
	text, ok := v.(*cdx.StyledText)
	if !ok {
		return
	}
	rs.restyleRuns(t)
	if implicitChanged {
		if hv, ok := atom.Prop("NumHydrogens"); ok {
			if num, ok := hv.(cdx.UInt16); ok && num > 0 {
				adjustImplicitHydrogens(text, int(num), hideImplicit)
			}
		}
	}
}

// adjustImplicitHydrogens adds or removes the hydrogen count suffix of an
// atom label, "N" <-> "NH2".
func adjustImplicitHydrogens(text *cdx.StyledText, num int, hide bool) {
	s := text.Text()
	if s == "" {
		return
	}
	if !hide {
		s += "H"
		if num > 1 {
			s += strconv.Itoa(num)
		}
	} else {
		if len(s) > 1 && s[1] == 'H' {
			s = s[:1] // one-letter element symbol
		} else if len(s) > 2 {
			s = s[:2] // two-letter element symbol
		}
	}
	text.SetText(s)
}

// runRestyler rewrites the style runs of a text to the target label
// style.
type runRestyler struct {
	fontID uint16
	size   uint16
	face   uint16
}

func (rs runRestyler) scaled(factor float64) runRestyler {
	rs.size = uint16(float64(rs.size) * factor)
	return rs
}

func (rs runRestyler) restyleRuns(t *cdx.Node) {
	v, ok := t.Prop("Text")
	if !ok {
		return
	}
	text, ok := v.(*cdx.StyledText)
	if !ok {
		return
	}
	runs := text.Runs
	for i := range runs {
		runs[i].Style.Size = rs.size
		// face 64 is superscript; faces up to 64+31 add styling bits on
		// top of it. The formula face (96) handles scripts per character,
		// its styling bits transfer onto explicit superscripts.
		if runs[i].Style.Face^64 < 32 && rs.face >= 96 {
			runs[i].Style.Face = 64 | (rs.face - 96)
		} else {
			runs[i].Style.Face = rs.face
		}
		runs[i].Style.Font = rs.fontID
	}
	text.SetRuns(runs)
}

func pruneProps(n *cdx.Node, keep map[string]bool) {
	kept := n.Props[:0]
	for _, p := range n.Props {
		if keep[p.Name] {
			kept = append(kept, p)
		} else {
			tracer().Debugf("deleting style override %s from %s element", p.Name, n.Name)
		}
	}
	n.Props = kept
}

func scaleNodeGeometry(n *cdx.Node, scaling, dx, dy float64) {
	if v, ok := n.Prop("p"); ok {
		if p, ok := v.(cdx.Point2D); ok {
			n.SetProp("p", pointValue(geom.Point{
				X: p.X.Points()*scaling + dx,
				Y: p.Y.Points()*scaling + dy,
			}))
		}
	}
	scaleRect(n, scaling, dx, dy)
}

func scaleRect(n *cdx.Node, scaling, dx, dy float64) {
	v, ok := n.Prop("BoundingBox")
	if !ok {
		return
	}
	r, ok := v.(cdx.Rectangle)
	if !ok {
		return
	}
	rect := geom.Rect{
		Left: r.Left.Points(), Top: r.Top.Points(),
		Right: r.Right.Points(), Bottom: r.Bottom.Points(),
	}
	rect = rect.Scaled(scaling).Translated(dx, dy)
	n.SetProp("BoundingBox", rectValue(rect))
}

func scaleCurve(n *cdx.Node, scaling, dx, dy float64) {
	v, ok := n.Prop("CurvePoints")
	if !ok {
		return
	}
	cp, ok := v.(cdx.CurvePoints)
	if !ok {
		return
	}
	out := make(cdx.CurvePoints, len(cp))
	for i, p := range cp {
		out[i] = cdx.Point2D{
			X: cdx.CoordinateFromPoints(geom.Round2(p.X.Points()*scaling + dx)),
			Y: cdx.CoordinateFromPoints(geom.Round2(p.Y.Points()*scaling + dy)),
		}
	}
	n.SetProp("CurvePoints", out)
}

func pointValue(p geom.Point) cdx.Point2D {
	return cdx.Point2D{
		X: cdx.CoordinateFromPoints(geom.Round2(p.X)),
		Y: cdx.CoordinateFromPoints(geom.Round2(p.Y)),
	}
}

func rectValue(r geom.Rect) cdx.Rectangle {
	return cdx.Rectangle{
		Left:   cdx.CoordinateFromPoints(geom.Round2(r.Left)),
		Top:    cdx.CoordinateFromPoints(geom.Round2(r.Top)),
		Right:  cdx.CoordinateFromPoints(geom.Round2(r.Right)),
		Bottom: cdx.CoordinateFromPoints(geom.Round2(r.Bottom)),
	}
}
