package slides

import (
	"fmt"
	"math"
	"strconv"

	"github.com/chemfile/chemdraw/cdx"
	"github.com/chemfile/chemdraw/internal/geom"
	"github.com/chemfile/chemdraw/styler"
)

// Property is one line of text placed below a structure on the slide.
type Property struct {
	Name     string
	Value    string
	ShowName bool      // prefix the value with "Name: "
	Color    cdx.Color // zero value is black
}

func (p Property) displayValue() string {
	if p.ShowName {
		return p.Name + ": " + p.Value
	}
	return p.Value
}

// RGB builds a color from channel values between 0 and 1.
func RGB(r, g, b float64) cdx.Color {
	return cdx.Color{
		R: uint16(r * 65535),
		G: uint16(g * 65535),
		B: uint16(b * 65535),
	}
}

// HexColor parses a color of the form "#RRGGBB".
func HexColor(s string) (cdx.Color, error) {
	if len(s) != 7 || s[0] != '#' {
		return cdx.Color{}, fmt.Errorf("expected a #RRGGBB color, got %q", s)
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(s[1:], "%02x%02x%02x", &r, &g, &b); err != nil {
		return cdx.Color{}, fmt.Errorf("expected a #RRGGBB color, got %q", s)
	}
	return cdx.Color{R: uint16(r) * 257, G: uint16(g) * 257, B: uint16(b) * 257}, nil
}

// Generator composes structure grids. The zero value composes 7x3 slides
// of 30.4 x 13 cm in ACS 1996 style with four property lines of 10 pt
// Arial per structure.
type Generator struct {
	Columns, Rows int
	FontSize      float64
	Font          string
	Properties    int     // property lines per structure
	SlideWidth    float64 // cm
	SlideHeight   float64 // cm
	Style         string  // named style for the structures
}

func (g Generator) withDefaults() Generator {
	if g.Columns == 0 {
		g.Columns = 7
	}
	if g.Rows == 0 {
		g.Rows = 3
	}
	if g.FontSize == 0 {
		g.FontSize = 10
	}
	if g.Font == "" {
		g.Font = "Arial"
	}
	if g.Properties == 0 {
		g.Properties = 4
	}
	if g.SlideWidth == 0 {
		g.SlideWidth = 30.4
	}
	if g.SlideHeight == 0 {
		g.SlideHeight = 13
	}
	if g.Style == "" {
		g.Style = "ACS 1996"
	}
	return g
}

// grid holds the derived cell geometry of a slide, in points.
type grid struct {
	width, height    float64
	colWidth         float64
	rowHeight        float64
	margin           float64
	lineHeight       float64
	textHeight       float64
	molWidth         float64
	molHeight        float64
	fontSize         float64
	propertiesPerMol int
}

func (g Generator) geometry() grid {
	gr := grid{
		width:            g.SlideWidth / 2.54 * 72,
		height:           g.SlideHeight / 2.54 * 72,
		margin:           5,
		lineHeight:       g.FontSize + 3,
		fontSize:         g.FontSize,
		propertiesPerMol: g.Properties,
	}
	gr.colWidth = gr.width / float64(g.Columns)
	gr.rowHeight = gr.height / float64(g.Rows)
	gr.textHeight = math.Ceil(gr.lineHeight * float64(g.Properties))
	gr.molHeight = gr.rowHeight - gr.textHeight - gr.margin
	gr.molWidth = gr.colWidth - gr.margin
	return gr
}

// Compose styles each input document and places one per grid cell, with
// its property lines below the structure. Inputs beyond the grid's
// capacity are cut off silently; a docs/props length mismatch is an
// error.
func (g Generator) Compose(docs []*cdx.Document, props [][]Property) (*cdx.Document, error) {
	if docs == nil {
		return nil, fmt.Errorf("expected a list of documents, got none")
	}
	g = g.withDefaults()
	gr := g.geometry()
	capacity := g.Columns * g.Rows
	if len(docs) > capacity {
		tracer().Infof("slide holds %d structures, cutting off %d", capacity, len(docs)-capacity)
		docs = docs[:capacity]
	}
	if len(props) > capacity {
		props = props[:capacity]
	}
	if len(docs) != len(props) {
		return nil, fmt.Errorf("have %d documents but %d property sets", len(docs), len(props))
	}

	st, err := styler.NewNamed(g.Style)
	if err != nil {
		return nil, err
	}
	slide := cdx.NewDocument()
	if err := st.Apply(slide); err != nil {
		return nil, err
	}
	slide.EnsureColorTable()
	fontID := slide.Fonts.Register(g.Font)
	labelSize, _ := strconv.ParseFloat(st.Style().LabelSize, 64)

	page := cdx.NewNode("page", slide.NewID())
	pb := propSetter{node: page}
	pb.set("BoundingBox", fmt.Sprintf("0 0 %s %s", formatPts(gr.width), formatPts(gr.height)))
	pb.set("Width", formatPts(gr.width))
	pb.set("Height", formatPts(gr.height))
	pb.set("HeaderPosition", "36")
	pb.set("FooterPosition", "36")
	pb.set("PageOverlap", "0")
	pb.set("PrintTrimMarks", "yes")
	pb.set("HeightPages", "1")
	pb.set("WidthPages", "1")
	pb.set("DrawingSpace", "poster")
	if pb.err != nil {
		return nil, pb.err
	}
	slide.Root.AppendChild(page)

	for i, doc := range docs {
		if err := st.Apply(doc); err != nil {
			return nil, fmt.Errorf("structure %d: %w", i, err)
		}
		grp := buildGroup(slide, doc, i%g.Columns, i/g.Columns, gr, labelSize)
		if gr.propertiesPerMol > 0 {
			pr := props[i]
			if len(pr) > gr.propertiesPerMol {
				pr = pr[:gr.propertiesPerMol]
			}
			txt, err := propertyText(slide, pr, i%g.Columns, i/g.Columns, gr, fontID)
			if err != nil {
				return nil, fmt.Errorf("structure %d: %w", i, err)
			}
			grp.AppendChild(txt)
			for _, p := range pr {
				grp.AppendChild(annotation(slide, p.Name, p.Value))
			}
		}
		page.AppendChild(grp)
	}
	return slide, nil
}

// propSetter builds typed node properties, keeping the first error.
type propSetter struct {
	node *cdx.Node
	err  error
}

func (ps *propSetter) set(key, value string) {
	if ps.err != nil {
		return
	}
	p, err := cdx.ParseProp(ps.node.Name, key, value)
	if err != nil {
		ps.err = fmt.Errorf("element %s: %w", ps.node.Name, err)
		return
	}
	ps.node.SetProp(key, p.Value)
}

// buildGroup wraps the document's fragments into a group node scaled and
// moved into the given grid cell. The applied scaling is recorded as an
// annotation on the group.
func buildGroup(slide *cdx.Document, doc *cdx.Document, col, row int, gr grid, labelSize float64) *cdx.Node {
	var frags []*cdx.Node
	doc.Walk(func(n *cdx.Node) bool {
		if n.Name == "fragment" {
			frags = append(frags, n)
			return false
		}
		return true
	})

	grp := cdx.NewNode("group", slide.NewID())
	if len(frags) == 0 {
		setRect(grp, geom.Rect{Right: gr.molWidth, Bottom: gr.molHeight})
		dx, dy := gridTranslation(rectOf(grp), row, col, gr)
		setRect(grp, rectOf(grp).Translated(dx, dy))
		return grp
	}

	union := rectOf(frags[0])
	for _, f := range frags[1:] {
		r := rectOf(f)
		union.Left = math.Min(union.Left, r.Left)
		union.Top = math.Min(union.Top, r.Top)
		union.Right = math.Max(union.Right, r.Right)
		union.Bottom = math.Max(union.Bottom, r.Bottom)
	}
	setRect(grp, union)

	scaling := math.Min(gr.molWidth/union.Width(), gr.molHeight/union.Height())
	scaleNote := "100"
	if scaling < 1 {
		scaleNote = strconv.FormatFloat(1/scaling*100, 'f', -1, 64)
	}
	grp.AppendChild(annotation(slide, "Scaling Factor", scaleNote))

	if scaling < 1 {
		grpCenter := union.Center()
		scaled := union.Scaled(scaling)
		dx := grpCenter.X - scaled.Center().X
		dy := grpCenter.Y - scaled.Center().Y
		setRect(grp, scaled.Translated(dx, dy))
		dx, dy = gridTranslation(rectOf(grp), row, col, gr)
		setRect(grp, rectOf(grp).Translated(dx, dy))
		final := rectOf(grp).Center()

		for _, f := range frags {
			fc := rectOf(f).Center()
			distX := (fc.X - grpCenter.X) * scaling
			distY := (fc.Y - grpCenter.Y) * scaling
			scaleFragment(f, scaling, labelSize)
			fcScaled := rectOf(f).Center()
			translateFragment(f, final.X+distX-fcScaled.X, final.Y+distY-fcScaled.Y)
			retable(slide, doc, f)
			rehome(slide, f)
			grp.AppendChild(f)
		}
	} else {
		dx, dy := gridTranslation(rectOf(grp), row, col, gr)
		setRect(grp, rectOf(grp).Translated(dx, dy))
		for _, f := range frags {
			translateFragment(f, dx, dy)
			retable(slide, doc, f)
			rehome(slide, f)
			grp.AppendChild(f)
		}
	}
	return grp
}

// gridTranslation moves a bounding box to its grid cell, left aligned and
// vertically centered within the cell's structure area.
func gridTranslation(r geom.Rect, row, col int, gr grid) (dx, dy float64) {
	cellCenterY := float64(row)*gr.rowHeight + 0.5*gr.molHeight + gr.margin
	dx = float64(col)*gr.colWidth + gr.margin - r.Left
	dy = cellCenterY - r.Center().Y
	return dx, dy
}

func propertyText(slide *cdx.Document, props []Property, col, row int, gr grid, fontID uint16) (*cdx.Node, error) {
	yTop := float64(row)*gr.rowHeight + gr.molHeight + gr.margin
	xLeft := float64(col)*gr.colWidth + gr.margin
	xRight := float64(col+1)*gr.colWidth - gr.margin

	txt := cdx.NewNode("t", slide.NewID())
	tb := propSetter{node: txt}
	tb.set("LineHeight", formatPts(gr.lineHeight))
	tb.set("BoundingBox", fmt.Sprintf("%s %s %s %s",
		formatPts(xLeft), formatPts(yTop), formatPts(xRight), formatPts(yTop+gr.textHeight)))
	// baseline offset below the box's top edge, empirical for Arial
	tb.set("p", fmt.Sprintf("%s %s", formatPts(xLeft), formatPts(yTop+0.895*gr.fontSize)))
	if tb.err != nil {
		return nil, tb.err
	}

	text := &cdx.StyledText{}
	var lineStarts cdx.Int16List
	length := 0
	for i, p := range props {
		line := p.displayValue()
		if i+1 < len(props) {
			line += "\n"
		}
		text.AppendRun(line, cdx.FontStyle{
			Font:  fontID,
			Size:  uint16(gr.fontSize * 20),
			Color: colorIndex(slide.Colors, p.Color),
		})
		length += len(line)
		lineStarts = append(lineStarts, int16(length))
	}
	txt.SetProp("Text", text)
	txt.SetProp("LineStarts", lineStarts)
	return txt, nil
}

func annotation(slide *cdx.Document, keyword, content string) *cdx.Node {
	ann := cdx.NewNode("annotation", slide.NewID())
	ab := propSetter{node: ann}
	ab.set("Keyword", keyword)
	ab.set("Content", content)
	if ab.err != nil {
		tracer().Errorf("annotation %q dropped: %v", keyword, ab.err)
	}
	return ann
}

// colorIndex resolves a color to its table reference. Black and white
// have implied indices and are never added to the table.
func colorIndex(ct *cdx.ColorTable, c cdx.Color) uint16 {
	switch c {
	case cdx.ColorBlack:
		return 0
	case cdx.ColorWhite:
		return 1
	}
	return ct.Register(c)
}

func rectOf(n *cdx.Node) geom.Rect {
	if v, ok := n.Prop("BoundingBox"); ok {
		if r, ok := v.(cdx.Rectangle); ok {
			return geom.Rect{
				Left: r.Left.Points(), Top: r.Top.Points(),
				Right: r.Right.Points(), Bottom: r.Bottom.Points(),
			}
		}
	}
	return geom.Rect{}
}

func setRect(n *cdx.Node, r geom.Rect) {
	n.SetProp("BoundingBox", cdx.Rectangle{
		Left:   cdx.CoordinateFromPoints(geom.Round2(r.Left)),
		Top:    cdx.CoordinateFromPoints(geom.Round2(r.Top)),
		Right:  cdx.CoordinateFromPoints(geom.Round2(r.Right)),
		Bottom: cdx.CoordinateFromPoints(geom.Round2(r.Bottom)),
	})
}

// scaleFragment shrinks a fragment in place around its own center: atom
// and label positions, the bounding box, and the label font sizes.
func scaleFragment(f *cdx.Node, scaling, labelSize float64) {
	var pts []geom.Point
	var nodes []*cdx.Node
	f.Walk(func(n *cdx.Node) bool {
		if v, ok := n.Prop("p"); ok {
			if p, ok := v.(cdx.Point2D); ok {
				nodes = append(nodes, n)
				pts = append(pts, geom.Point{X: p.X.Points(), Y: p.Y.Points()})
			}
		}
		return true
	})
	scaled := geom.Scale(pts, scaling)
	dx, dy := geom.Translation(pts, scaled)
	for i, n := range nodes {
		n.SetProp("p", cdx.Point2D{
			X: cdx.CoordinateFromPoints(geom.Round2(scaled[i].X + dx)),
			Y: cdx.CoordinateFromPoints(geom.Round2(scaled[i].Y + dy)),
		})
	}
	setRect(f, rectOf(f).Scaled(scaling).Translated(dx, dy))

	size := uint16(geom.Round2(labelSize*scaling) * 20)
	f.Walk(func(n *cdx.Node) bool {
		if n.Name != "t" {
			return true
		}
		if v, ok := n.Prop("Text"); ok {
			if text, ok := v.(*cdx.StyledText); ok {
				runs := text.Runs
				for i := range runs {
					runs[i].Style.Size = size
				}
				text.SetRuns(runs)
			}
		}
		return true
	})
}

func translateFragment(f *cdx.Node, dx, dy float64) {
	f.Walk(func(n *cdx.Node) bool {
		if v, ok := n.Prop("p"); ok {
			if p, ok := v.(cdx.Point2D); ok {
				n.SetProp("p", cdx.Point2D{
					X: cdx.CoordinateFromPoints(geom.Round2(p.X.Points() + dx)),
					Y: cdx.CoordinateFromPoints(geom.Round2(p.Y.Points() + dy)),
				})
			}
		}
		return true
	})
	setRect(f, rectOf(f).Translated(dx, dy))
}

// retable rewrites font and color references of a moved fragment from
// its source document's tables to the slide's tables. Source and slide
// tables rarely agree on IDs.
func retable(slide *cdx.Document, doc *cdx.Document, sub *cdx.Node) {
	mapFont := func(id uint16) uint16 {
		if doc.Fonts == nil {
			return id
		}
		if f, ok := doc.Fonts.Lookup(id); ok {
			return slide.Fonts.Register(f.Name)
		}
		return id
	}
	mapColor := func(index uint16) uint16 {
		if doc.Colors == nil {
			return index
		}
		if c, ok := doc.Colors.Resolve(index); ok {
			return colorIndex(slide.Colors, c)
		}
		return index
	}
	sub.Walk(func(n *cdx.Node) bool {
		for i, p := range n.Props {
			switch v := p.Value.(type) {
			case *cdx.StyledText:
				runs := v.Runs
				for j := range runs {
					runs[j].Style.Font = mapFont(runs[j].Style.Font)
					runs[j].Style.Color = mapColor(runs[j].Style.Color)
				}
				v.SetRuns(runs)
			case cdx.FontStyle:
				v.Font = mapFont(v.Font)
				v.Color = mapColor(v.Color)
				n.Props[i].Value = v
			case cdx.ColorRef:
				n.Props[i].Value = cdx.ColorRef{Index: mapColor(v.Index)}
			}
		}
		return true
	})
}

// rehome moves a subtree into the slide's object ID space. References to
// renumbered objects, bond endpoints and represent hooks among them, are
// rewritten along the way.
func rehome(slide *cdx.Document, sub *cdx.Node) {
	mapping := make(map[uint32]uint32)
	sub.Walk(func(n *cdx.Node) bool {
		if n.ID != 0 {
			id := slide.NewID()
			mapping[n.ID] = id
			n.ID = id
		}
		return true
	})
	sub.Walk(func(n *cdx.Node) bool {
		for i, p := range n.Props {
			switch v := p.Value.(type) {
			case cdx.UInt32:
				if nv, ok := mapping[uint32(v)]; ok {
					n.Props[i].Value = cdx.UInt32(nv)
				}
			case cdx.ObjectIDList:
				out := make(cdx.ObjectIDList, len(v))
				for j, id := range v {
					if nv, ok := mapping[id]; ok {
						out[j] = nv
					} else {
						out[j] = id
					}
				}
				n.Props[i].Value = out
			case cdx.Represents:
				if nv, ok := mapping[v.ObjectID]; ok {
					v.ObjectID = nv
					n.Props[i].Value = v
				}
			}
		}
		return true
	})
}

func formatPts(v float64) string {
	return strconv.FormatFloat(geom.Round2(v), 'f', -1, 64)
}
