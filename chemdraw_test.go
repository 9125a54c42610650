package chemdraw

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/chemfile/chemdraw/cdx"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func sampleDoc() *cdx.Document {
	doc := cdx.NewDocument()
	page := cdx.NewNode("page", doc.NewID())
	doc.Root.AppendChild(page)
	frag := cdx.NewNode("fragment", doc.NewID())
	page.AppendChild(frag)
	var atoms [2]*cdx.Node
	for i := range atoms {
		a := cdx.NewNode("n", doc.NewID())
		a.SetProp("p", cdx.Point2D{
			X: cdx.CoordinateFromPoints(float64(10 + 14*i)),
			Y: cdx.CoordinateFromPoints(10),
		})
		frag.AppendChild(a)
		atoms[i] = a
	}
	b := cdx.NewNode("b", doc.NewID())
	b.SetProp("B", cdx.UInt32(atoms[0].ID))
	b.SetProp("E", cdx.UInt32(atoms[1].ID))
	frag.AppendChild(b)
	return doc
}

func TestBase64RoundTrip(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "chem.convert")
	defer teardown()
	//
	encoded, err := ToBase64CDX(sampleDoc())
	if err != nil {
		t.Fatal(err)
	}
	doc, err := FromBase64CDX(encoded + "\n")
	if err != nil {
		t.Fatal(err)
	}
	frags := doc.Pages()[0].ChildrenNamed("fragment")
	if len(frags) != 1 || len(frags[0].Children) != 3 {
		t.Errorf("structure lost in the base64 round trip")
	}
	if _, err := FromBase64CDX("not/base64!!"); err == nil {
		t.Error("expected invalid base64 to be rejected")
	}
}

func TestReaderWriterRoundTrip(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "chem.convert")
	defer teardown()
	//
	var buf bytes.Buffer
	if err := WriteCDX(sampleDoc(), &buf); err != nil {
		t.Fatal(err)
	}
	doc, err := ReadCDX(&buf)
	if err != nil {
		t.Fatal(err)
	}
	markup, err := ToCDXML(doc)
	if err != nil {
		t.Fatal(err)
	}
	again, err := ReadCDXMLString(markup)
	if err != nil {
		t.Fatal(err)
	}
	if len(again.Pages()) != 1 {
		t.Errorf("expected one page, got %d", len(again.Pages()))
	}
}

func TestConvertByExtension(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "chem.convert")
	defer teardown()
	//
	dir := t.TempDir()
	source := filepath.Join(dir, "mol.cdxml")
	if err := WriteCDXMLFile(sampleDoc(), source); err != nil {
		t.Fatal(err)
	}
	target := filepath.Join(dir, "mol.cdx")
	if err := Convert(source, target); err != nil {
		t.Fatal(err)
	}
	doc, err := ReadCDXFile(target)
	if err != nil {
		t.Fatal(err)
	}
	frags := doc.Pages()[0].ChildrenNamed("fragment")
	if len(frags) != 1 || len(frags[0].ChildrenNamed("n")) != 2 {
		t.Error("structure lost in the file conversion")
	}
	//
	if err := Convert(source, filepath.Join(dir, "mol.mol")); err == nil {
		t.Error("expected an unknown target extension to be rejected")
	}
	if err := Convert(filepath.Join(dir, "mol.smi"), target); err == nil {
		t.Error("expected an unknown source extension to be rejected")
	}
}

func TestConvertBatch(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "chem.convert")
	defer teardown()
	//
	dir := t.TempDir()
	var jobs []Job
	for _, name := range []string{"a", "b", "c"} {
		source := filepath.Join(dir, name+".cdxml")
		if err := WriteCDXMLFile(sampleDoc(), source); err != nil {
			t.Fatal(err)
		}
		jobs = append(jobs, Job{Source: source, Target: filepath.Join(dir, name+".cdx")})
	}
	jobs[1].Source = filepath.Join(dir, "missing.cdxml")
	//
	results := ConvertBatch(context.Background(), jobs, 2)
	if len(results) != len(jobs) {
		t.Fatalf("expected %d results, got %d", len(jobs), len(results))
	}
	for i, r := range results {
		if r.Job != jobs[i] {
			t.Errorf("result %d reports job %v, expected %v", i, r.Job, jobs[i])
		}
	}
	if results[1].Err == nil {
		t.Error("expected the job with a missing source to fail")
	}
	if results[0].Err != nil || results[2].Err != nil {
		t.Errorf("a failing job must not fail its neighbors: %v, %v",
			results[0].Err, results[2].Err)
	}
	for _, name := range []string{"a", "c"} {
		if _, err := os.Stat(filepath.Join(dir, name+".cdx")); err != nil {
			t.Errorf("job output %s.cdx missing: %v", name, err)
		}
	}
}

func TestConvertBatchHonorsCancelation(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "chem.convert")
	defer teardown()
	//
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	jobs := []Job{{Source: "a.cdxml", Target: "a.cdx"}}
	results := ConvertBatch(ctx, jobs, 4)
	if !errors.Is(results[0].Err, context.Canceled) {
		t.Errorf("expected a canceled context error, got %v", results[0].Err)
	}
}
