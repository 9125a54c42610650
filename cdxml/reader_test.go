package cdxml

import (
	"strings"
	"testing"

	"github.com/chemfile/chemdraw/cdx"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestUnmarshalRejectsForeignXML(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "chem.cdxml")
	defer teardown()
	//
	if _, err := Unmarshal([]byte(`<svg></svg>`)); err == nil {
		t.Fatal("expected a non-CDXML root element to be rejected")
	}
	if _, err := Unmarshal([]byte(`<CDXML`)); err == nil {
		t.Fatal("expected malformed XML to be rejected")
	}
}

func TestUnmarshalRoundTrip(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "chem.cdxml")
	defer teardown()
	//
	data, err := Marshal(buildSample())
	if err != nil {
		t.Fatal(err)
	}
	doc, err := Unmarshal(data)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Fonts == nil || len(doc.Fonts.Fonts) != 1 || doc.Fonts.Fonts[0].Name != "Arial" {
		t.Fatalf("font table did not survive the round trip: %+v", doc.Fonts)
	}
	if doc.Colors == nil || len(doc.Colors.Colors) != 1 {
		t.Fatalf("color table did not survive the round trip: %+v", doc.Colors)
	}
	if doc.Colors.Colors[0].R != 0xFFFF {
		t.Fatalf("red channel did not survive the round trip: %d", doc.Colors.Colors[0].R)
	}
	frag := doc.Pages()[0].Children[0]
	if frag.Name != "fragment" || len(frag.Children) != 3 {
		t.Fatalf("unexpected fragment: %d children", len(frag.Children))
	}
	label := frag.Children[1].Children[0]
	v, ok := label.Prop("Text")
	if !ok {
		t.Fatal("label lost its text")
	}
	st := v.(*cdx.StyledText)
	if st.Text() != "OH" {
		t.Fatalf("unexpected label text: %q", st.Text())
	}
	if len(st.Runs) != 1 || st.Runs[0].Style.Size != 200 {
		t.Fatalf("unexpected label style: %+v", st.Runs)
	}
}

func TestUnmarshalLabelStyleTriple(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "chem.cdxml")
	defer teardown()
	//
	markup := `<CDXML LabelFont="3" LabelSize="10" LabelFace="96" CaptionSize="9"></CDXML>`
	doc, err := Unmarshal([]byte(markup))
	if err != nil {
		t.Fatal(err)
	}
	v, ok := doc.Root.Prop("LabelStyle")
	if !ok {
		t.Fatal("expected a LabelStyle property")
	}
	fs := v.(cdx.FontStyle)
	if fs.Font != 3 || fs.Size != 200 || fs.Face != 96 {
		t.Fatalf("unexpected label style: %+v", fs)
	}
	v, ok = doc.Root.Prop("CaptionStyle")
	if !ok {
		t.Fatal("expected a CaptionStyle property")
	}
	fs = v.(cdx.FontStyle)
	// missing triple parts fall back to font 1 at the declared size
	if fs.Font != 1 || fs.Size != 180 {
		t.Fatalf("unexpected caption style: %+v", fs)
	}
}

func TestUnmarshalAssignsMissingIDs(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "chem.cdxml")
	defer teardown()
	//
	markup := `<CDXML>
		<page id="7">
			<fragment>
				<n id="3"/>
				<n/>
			</fragment>
		</page>
	</CDXML>`
	doc, err := Unmarshal([]byte(markup))
	if err != nil {
		t.Fatal(err)
	}
	frag := doc.Pages()[0].Children[0]
	seen := map[uint32]bool{}
	doc.Walk(func(n *cdx.Node) bool {
		if n == doc.Root {
			return true
		}
		if seen[n.ID] {
			t.Fatalf("duplicate object ID %d", n.ID)
		}
		seen[n.ID] = true
		return true
	})
	if frag.ID <= 7 || frag.Children[1].ID <= 7 {
		t.Fatal("fresh IDs must not collide with declared ones")
	}
}

func TestUnmarshalMarkupOnlyStereoTags(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "chem.cdxml")
	defer teardown()
	//
	markup := `<CDXML>
		<page id="1">
			<objecttag id="2" Name="stereo" TagType="String"/>
			<objecttag id="3" Name="yield" TagType="String"/>
		</page>
	</CDXML>`
	doc, err := Unmarshal([]byte(markup))
	if err != nil {
		t.Fatal(err)
	}
	stereo := doc.FindNode(2)
	if stereo == nil || !stereo.MarkupOnly {
		t.Fatal("stereo indicator tags must be flagged markup-only")
	}
	yield := doc.FindNode(3)
	if yield == nil || yield.MarkupOnly {
		t.Fatal("ordinary object tags must be written to binary")
	}
	// markup output keeps them either way
	out, err := Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), `Name="stereo"`) {
		t.Fatal("markup-only tag missing from markup output")
	}
}

func TestUnmarshalObjectTagValueTyping(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "chem.cdxml")
	defer teardown()
	//
	markup := `<CDXML>
		<objecttag id="2" TagType="Double" Value="2.5"/>
		<objecttag id="3" TagType="Long" Value="42"/>
	</CDXML>`
	doc, err := Unmarshal([]byte(markup))
	if err != nil {
		t.Fatal(err)
	}
	v, _ := doc.FindNode(2).Prop("Value")
	if f, ok := v.(cdx.TagValue).Typed.(cdx.Float64); !ok || float64(f) != 2.5 {
		t.Fatalf("expected Float64 2.5, got %v", v)
	}
	v, _ = doc.FindNode(3).Prop("Value")
	if n, ok := v.(cdx.TagValue).Typed.(cdx.Int32); !ok || int32(n) != 42 {
		t.Fatalf("expected Int32 42, got %v", v)
	}
}

func TestUnmarshalStrictMode(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "chem.cdxml")
	defer teardown()
	//
	markup := `<CDXML><page id="1" Wobble="9"/></CDXML>`
	if _, err := UnmarshalWithOptions([]byte(markup), ParseOptions{Strict: true}); err == nil {
		t.Fatal("expected an unknown attribute to fail in strict mode")
	}
	doc, err := Unmarshal([]byte(markup))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := doc.Pages()[0].Prop("Wobble"); ok {
		t.Fatal("unknown attribute must be dropped in lenient mode")
	}

	unknown := `<CDXML><blob/></CDXML>`
	if _, err := UnmarshalWithOptions([]byte(unknown), ParseOptions{Strict: true}); err == nil {
		t.Fatal("expected an unknown element to fail in strict mode")
	}
	doc, err = Unmarshal([]byte(unknown))
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Root.Children) != 0 {
		t.Fatal("unknown element must be dropped in lenient mode")
	}
}

func TestUnmarshalRepresent(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "chem.cdxml")
	defer teardown()
	//
	markup := `<CDXML>
		<graphic id="5"><represent attribute="Radical" object="9"/></graphic>
	</CDXML>`
	doc, err := Unmarshal([]byte(markup))
	if err != nil {
		t.Fatal(err)
	}
	v, ok := doc.FindNode(5).Prop("represent")
	if !ok {
		t.Fatal("expected a represent property")
	}
	rep := v.(cdx.Represents)
	if rep.ObjectID != 9 || rep.Attribute.String() != "Radical" {
		t.Fatalf("unexpected represent: %+v", rep)
	}
}

func TestUnmarshalBindsTextCharset(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "chem.cdxml")
	defer teardown()
	//
	markup := `<CDXML><fonttable>` +
		`<font id="1" charset="utf-8" name="Arial"/>` +
		`<font id="2" charset="x-mac-roman" name="Times"/>` +
		`</fonttable><page id="10">` +
		`<t id="11"><s font="1" size="10" face="0" color="0">αβ</s></t>` +
		`<t id="12"><s font="2" size="10" face="0" color="0">π</s></t>` +
		`</page></CDXML>`
	doc, err := Unmarshal([]byte(markup))
	if err != nil {
		t.Fatal(err)
	}
	texts := doc.Pages()[0].ChildrenNamed("t")
	if len(texts) != 2 {
		t.Fatalf("expected 2 captions, got %d", len(texts))
	}
	v, _ := texts[0].Prop("Text")
	b := v.(*cdx.StyledText).Bytes()
	if !strings.HasSuffix(string(b), "αβ") {
		t.Errorf("text of a utf-8 font was transcoded: % X", b)
	}
	v, _ = texts[1].Prop("Text")
	b = v.(*cdx.StyledText).Bytes()
	if len(b) == 0 || b[len(b)-1] != 0xB9 {
		t.Errorf("text of a mac-roman font must encode pi as B9: % X", b)
	}
}
