package chem

import (
	"math"
	"testing"

	"github.com/chemfile/chemdraw/cdx"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

// ethanolMol is CCO with RDKit-like coordinates, bond length 1.5.
func ethanolMol() *Molecule {
	return &Molecule{
		Atoms: []Atom{
			{Element: 6, X: 0, Y: 0},
			{Element: 6, X: 1.5, Y: 0},
			{Element: 8, X: 2.25, Y: 1.3, Hydrogens: 1},
		},
		Bonds: []Bond{
			{Begin: 0, End: 1, Order: "1"},
			{Begin: 1, End: 2, Order: "1"},
		},
	}
}

func atomsOf(frag *cdx.Node) []*cdx.Node {
	return frag.ChildrenNamed("n")
}

func atomPos(t *testing.T, n *cdx.Node) (float64, float64) {
	t.Helper()
	v, ok := n.Prop("p")
	if !ok {
		t.Fatal("atom without a position")
	}
	p := v.(cdx.Point2D)
	return p.X.Points(), p.Y.Points()
}

func TestFromMoleculeStructure(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "chem.mol")
	defer teardown()
	//
	doc, err := FromMolecule(ethanolMol(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Pages()) != 1 {
		t.Fatalf("expected one page, got %d", len(doc.Pages()))
	}
	frags := doc.Pages()[0].ChildrenNamed("fragment")
	if len(frags) != 1 {
		t.Fatalf("expected one fragment, got %d", len(frags))
	}
	atoms := atomsOf(frags[0])
	bonds := frags[0].ChildrenNamed("b")
	if len(atoms) != 3 || len(bonds) != 2 {
		t.Fatalf("expected 3 atoms and 2 bonds, got %d and %d", len(atoms), len(bonds))
	}
	// carbons carry no label, the oxygen does
	if len(atoms[0].Children) != 0 {
		t.Fatal("plain carbon must not carry a label")
	}
	label := atoms[2].Children[0]
	v, _ := label.Prop("Text")
	if v.(*cdx.StyledText).Text() != "OH" {
		t.Fatalf("unexpected oxygen label: %q", v.(*cdx.StyledText).Text())
	}
	// the document carries the drawing style and tables
	if v, ok := doc.Root.Prop("BondLength"); !ok || v.String() != "14.4" {
		t.Fatalf("unexpected BondLength: %v", v)
	}
	if doc.Fonts == nil || doc.Colors == nil {
		t.Fatal("document misses its font or color table")
	}
	if len(doc.Colors.Colors) != 8 {
		t.Fatalf("expected the 8 standard colors, got %d", len(doc.Colors.Colors))
	}
	// the result must encode to both formats
	if _, err := cdx.Encode(doc); err != nil {
		t.Fatal(err)
	}
}

func TestFromMoleculeScalingAndFlip(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "chem.mol")
	defer teardown()
	//
	doc, err := FromMolecule(ethanolMol(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	frag := doc.Pages()[0].ChildrenNamed("fragment")[0]
	atoms := atomsOf(frag)
	x0, y0 := atomPos(t, atoms[0])
	x1, y1 := atomPos(t, atoms[1])
	_, y2 := atomPos(t, atoms[2])
	// the first bond is axis-parallel, so its drawn length must come
	// close to the document's 14.4 pt (coordinates round to 2 decimals)
	d := math.Hypot(x1-x0, y1-y0)
	if math.Abs(d-14.4) > 0.1 {
		t.Fatalf("bond drawn with length %v, want about 14.4", d)
	}
	// molecule y grows upwards, page y downwards: the oxygen, highest
	// in the molecule, must be the topmost atom on the page
	if !(y2 < y0 && y2 < y1) {
		t.Fatalf("y axis not flipped: y0=%v y1=%v y2=%v", y0, y1, y2)
	}
	// no coordinate may be left of the 1 cm margin
	for _, a := range atoms {
		x, y := atomPos(t, a)
		if x < 28.34 || y < 28.34 {
			t.Fatalf("atom inside the margin: %v %v", x, y)
		}
	}
}

func TestFromMoleculeChargedAtoms(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "chem.mol")
	defer teardown()
	//
	nacl := &Molecule{
		Atoms: []Atom{
			{Element: 11, Charge: 1, X: 0, Y: 0},
			{Element: 17, Charge: -1, X: 1.5, Y: 0},
		},
	}
	doc, err := FromMolecule(nacl, Options{})
	if err != nil {
		t.Fatal(err)
	}
	// two components, no bonds
	frags := doc.Pages()[0].ChildrenNamed("fragment")
	if len(frags) != 2 {
		t.Fatalf("expected 2 fragments, got %d", len(frags))
	}
	na := atomsOf(frags[0])[0]
	if v, _ := na.Prop("Charge"); v == nil || v.String() != "1" {
		t.Fatalf("unexpected charge: %v", v)
	}
	label := na.Children[0]
	v, _ := label.Prop("Text")
	if v.(*cdx.StyledText).Text() != "Na+" {
		t.Fatalf("unexpected label: %q", v.(*cdx.StyledText).Text())
	}
}

func TestFromMoleculeRadicals(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "chem.mol")
	defer teardown()
	//
	methyl := &Molecule{
		Atoms: []Atom{{Element: 6, Radical: 1, Hydrogens: 3, X: 0, Y: 0}},
	}
	doc, err := FromMolecule(methyl, Options{})
	if err != nil {
		t.Fatal(err)
	}
	frag := doc.Pages()[0].ChildrenNamed("fragment")[0]
	graphics := frag.ChildrenNamed("graphic")
	if len(graphics) != 1 {
		t.Fatalf("expected one radical graphic, got %d", len(graphics))
	}
	atom := atomsOf(frag)[0]
	if v, _ := atom.Prop("Radical"); v == nil || v.String() != "Doublet" {
		t.Fatalf("unexpected radical: %v", v)
	}
	// the graphic is hooked to the atom
	v, ok := graphics[0].Prop("represent")
	if !ok {
		t.Fatal("radical graphic misses its represent hook")
	}
	if v.(cdx.Represents).ObjectID != atom.ID {
		t.Fatal("represent hook points to the wrong atom")
	}
}

func TestFromMoleculeCrossedDoubleBond(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "chem.mol")
	defer teardown()
	//
	butene := &Molecule{
		Atoms: []Atom{
			{Element: 6, X: 0, Y: 0},
			{Element: 6, X: 1.5, Y: 0},
		},
		Bonds: []Bond{{Begin: 0, End: 1, Order: "2", Stereo: "U"}},
	}
	doc, err := FromMolecule(butene, Options{})
	if err != nil {
		t.Fatal(err)
	}
	bond := doc.Pages()[0].ChildrenNamed("fragment")[0].ChildrenNamed("b")[0]
	if v, _ := bond.Prop("Display"); v == nil || !v.(cdx.Enumerated).Is("Wavy") {
		t.Fatalf("expected a wavy display, got %v", v)
	}
	if v, _ := bond.Prop("BS"); v == nil || !v.(cdx.Enumerated).Is("N") {
		t.Fatalf("expected stereo N, got %v", v)
	}

	doc, err = FromMolecule(butene, Options{NoCrossedBonds: true})
	if err != nil {
		t.Fatal(err)
	}
	bond = doc.Pages()[0].ChildrenNamed("fragment")[0].ChildrenNamed("b")[0]
	if v, _ := bond.Prop("BS"); v == nil || !v.(cdx.Enumerated).Is("U") {
		t.Fatalf("expected stereo U without crossed bonds, got %v", v)
	}
	if _, ok := bond.Prop("Display"); ok {
		t.Fatal("unexpected display on an uncrossed bond")
	}
}
