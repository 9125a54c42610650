package styler

import (
	"math"
	"testing"

	"github.com/chemfile/chemdraw/cdx"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

// drawnEthanol builds a three-atom chain drawn at bond length 28.8 pt,
// labeled in 12 pt Helvetica. ACS style halves the scale.
func drawnEthanol() *cdx.Document {
	doc := cdx.NewDocument()
	ft := doc.EnsureFontTable()
	helv := ft.Register("Helvetica")
	page := cdx.NewNode("page", doc.NewID())
	doc.Root.AppendChild(page)
	frag := cdx.NewNode("fragment", doc.NewID())
	page.AppendChild(frag)

	xs := []float64{10, 38.8, 67.6}
	atoms := make([]*cdx.Node, len(xs))
	for i, x := range xs {
		a := cdx.NewNode("n", doc.NewID())
		a.SetProp("p", cdx.Point2D{
			X: cdx.CoordinateFromPoints(x),
			Y: cdx.CoordinateFromPoints(10),
		})
		frag.AppendChild(a)
		atoms[i] = a
	}
	atoms[2].SetProp("Element", cdx.Int16(8))
	atoms[2].SetProp("NumHydrogens", cdx.UInt16(1))
	atoms[2].SetProp("LineWidth", cdx.CoordinateFromPoints(2))
	label := cdx.NewNode("t", doc.NewID())
	label.SetProp("Text", cdx.NewText("OH", cdx.FontStyle{Font: helv, Size: 240}))
	atoms[2].AppendChild(label)

	for i := 0; i < 2; i++ {
		b := cdx.NewNode("b", doc.NewID())
		b.SetProp("B", cdx.UInt32(atoms[i].ID))
		b.SetProp("E", cdx.UInt32(atoms[i+1].ID))
		b.SetProp("color", cdx.UInt16(3))
		frag.AppendChild(b)
	}
	return doc
}

func fragmentOf(t *testing.T, doc *cdx.Document) *cdx.Node {
	t.Helper()
	frags := doc.Pages()[0].ChildrenNamed("fragment")
	if len(frags) != 1 {
		t.Fatalf("expected one fragment, got %d", len(frags))
	}
	return frags[0]
}

func position(t *testing.T, n *cdx.Node) (float64, float64) {
	t.Helper()
	v, ok := n.Prop("p")
	if !ok {
		t.Fatal("node without a position")
	}
	p := v.(cdx.Point2D)
	return p.X.Points(), p.Y.Points()
}

func TestApplyRescalesToStyleBondLength(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "chem.style")
	defer teardown()
	//
	doc := drawnEthanol()
	st, err := NewNamed("ACS 1996")
	if err != nil {
		t.Fatal(err)
	}
	if err := st.Apply(doc); err != nil {
		t.Fatal(err)
	}
	atoms := fragmentOf(t, doc).ChildrenNamed("n")
	wantX := []float64{24.4, 38.8, 53.2}
	for i, a := range atoms {
		x, y := position(t, a)
		if math.Abs(x-wantX[i]) > 0.001 || math.Abs(y-10) > 0.001 {
			t.Errorf("atom %d at (%.2f, %.2f), expected (%.2f, 10)", i, x, y, wantX[i])
		}
	}
	// the drawing center must not move
	x0, _ := position(t, atoms[0])
	x2, _ := position(t, atoms[2])
	if math.Abs((x0+x2)/2-38.8) > 0.001 {
		t.Errorf("rescaling shifted the drawing, center now at %.2f", (x0+x2)/2)
	}
}

func TestApplySetsDocumentAttributes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "chem.style")
	defer teardown()
	//
	doc := drawnEthanol()
	st, err := NewNamed("ACS 1996")
	if err != nil {
		t.Fatal(err)
	}
	if err := st.Apply(doc); err != nil {
		t.Fatal(err)
	}
	v, ok := doc.Root.Prop("BondLength")
	if !ok || v.String() != "14.4" {
		t.Errorf("expected document bond length 14.4, got %v", v)
	}
	v, ok = doc.Root.Prop("LabelStyle")
	if !ok {
		t.Fatal("document has no label style")
	}
	fs := v.(cdx.FontStyle)
	arial, found := doc.Fonts.LookupName("Arial")
	if !found {
		t.Fatal("Arial was not registered in the font table")
	}
	if fs.Font != arial.ID || fs.Face != 96 || fs.Size != 200 {
		t.Errorf("unexpected label style %v", fs)
	}
	if _, ok := doc.Root.Prop("CaptionStyle"); !ok {
		t.Error("document has no caption style")
	}
	if _, ok := fragmentOf(t, doc).Prop("BoundingBox"); !ok {
		t.Error("fragment was not given a bounding box")
	}
}

func TestApplyRewritesLabelRuns(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "chem.style")
	defer teardown()
	//
	doc := drawnEthanol()
	st, err := NewNamed("ACS 1996")
	if err != nil {
		t.Fatal(err)
	}
	if err := st.Apply(doc); err != nil {
		t.Fatal(err)
	}
	atoms := fragmentOf(t, doc).ChildrenNamed("n")
	labels := atoms[2].ChildrenNamed("t")
	if len(labels) != 1 {
		t.Fatalf("expected one label on the oxygen, got %d", len(labels))
	}
	v, _ := labels[0].Prop("Text")
	text := v.(*cdx.StyledText)
	arial, _ := doc.Fonts.LookupName("Arial")
	for _, run := range text.Runs {
		if run.Style.Font != arial.ID || run.Style.Size != 200 || run.Style.Face != 96 {
			t.Errorf("label run not restyled: %v", run.Style)
		}
	}
}

func TestApplyKeepsSuperscriptRuns(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "chem.style")
	defer teardown()
	//
	doc := drawnEthanol()
	atoms := fragmentOf(t, doc).ChildrenNamed("n")
	label := atoms[2].ChildrenNamed("t")[0]
	v, _ := label.Prop("Text")
	text := v.(*cdx.StyledText)
	text.SetText("O")
	text.SetRuns([]cdx.StyleRun{{Start: 0, Style: cdx.FontStyle{Font: 1, Size: 240}}})
	text.AppendRun("-", cdx.FontStyle{Font: 1, Size: 160, Face: 64})
	//
	st, err := NewNamed("ACS 1996")
	if err != nil {
		t.Fatal(err)
	}
	if err := st.Apply(doc); err != nil {
		t.Fatal(err)
	}
	// target face 96 is the formula face; an explicit superscript run
	// keeps its script bit instead of being flattened
	if text.Runs[0].Style.Face != 96 {
		t.Errorf("plain run should get the formula face, got %d", text.Runs[0].Style.Face)
	}
	if text.Runs[1].Style.Face != 64 {
		t.Errorf("superscript run should stay superscript, got %d", text.Runs[1].Style.Face)
	}
	if text.Runs[1].Style.Size != 200 {
		t.Errorf("superscript run should get the label size, got %d", text.Runs[1].Style.Size)
	}
}

func TestApplyDeletesStyleOverrides(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "chem.style")
	defer teardown()
	//
	doc := drawnEthanol()
	st, err := NewNamed("ACS 1996")
	if err != nil {
		t.Fatal(err)
	}
	if err := st.Apply(doc); err != nil {
		t.Fatal(err)
	}
	frag := fragmentOf(t, doc)
	atoms := frag.ChildrenNamed("n")
	if _, ok := atoms[2].Prop("LineWidth"); ok {
		t.Error("per-atom line width survived restyling")
	}
	for i, b := range frag.ChildrenNamed("b") {
		if _, ok := b.Prop("color"); ok {
			t.Errorf("bond %d kept its color override", i)
		}
		if _, ok := b.Prop("B"); !ok {
			t.Errorf("bond %d lost its begin atom", i)
		}
	}
}

func TestApplyTogglesImplicitHydrogens(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "chem.style")
	defer teardown()
	//
	hide, err := Named("ACS 1996")
	if err != nil {
		t.Fatal(err)
	}
	hide.HideImplicitHydrogens = "yes"
	st, err := New(hide)
	if err != nil {
		t.Fatal(err)
	}
	doc := drawnEthanol()
	if err := st.Apply(doc); err != nil {
		t.Fatal(err)
	}
	label := fragmentOf(t, doc).ChildrenNamed("n")[2].ChildrenNamed("t")[0]
	v, _ := label.Prop("Text")
	if got := v.(*cdx.StyledText).Text(); got != "O" {
		t.Errorf("expected hydrogen suffix to be dropped, label reads %q", got)
	}
	// and back again
	show, err := NewNamed("ACS 1996")
	if err != nil {
		t.Fatal(err)
	}
	if err := show.Apply(doc); err != nil {
		t.Fatal(err)
	}
	if got := v.(*cdx.StyledText).Text(); got != "OH" {
		t.Errorf("expected hydrogen suffix to be restored, label reads %q", got)
	}
}

func TestApplyRejectsFragmentWithoutCoordinates(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "chem.style")
	defer teardown()
	//
	doc := cdx.NewDocument()
	page := cdx.NewNode("page", doc.NewID())
	doc.Root.AppendChild(page)
	frag := cdx.NewNode("fragment", doc.NewID())
	page.AppendChild(frag)
	frag.AppendChild(cdx.NewNode("n", doc.NewID()))
	//
	st, err := NewNamed("ACS 1996")
	if err != nil {
		t.Fatal(err)
	}
	if err := st.Apply(doc); err == nil {
		t.Error("expected a fragment without coordinates to be rejected")
	}
}
