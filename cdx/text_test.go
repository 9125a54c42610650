package cdx

import (
	"bytes"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestStyledTextRunOffsets(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "chem.cdx")
	defer teardown()
	//
	st := NewText("CH", FontStyle{Font: 3, Size: 200})
	st.AppendRun("3", FontStyle{Font: 3, Size: 150, Face: FaceSubscript})
	if len(st.Runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(st.Runs))
	}
	if st.Runs[1].Start != 2 {
		t.Fatalf("expected the second run to start at byte 2, got %d", st.Runs[1].Start)
	}
	if st.Text() != "CH3" {
		t.Fatalf("unexpected text: %q", st.Text())
	}
	texts := st.RunTexts()
	if len(texts) != 2 || texts[0] != "CH" || texts[1] != "3" {
		t.Fatalf("unexpected run texts: %v", texts)
	}
}

func TestStyledTextBinaryRoundTrip(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "chem.cdx")
	defer teardown()
	//
	st := NewText("H±O", FontStyle{Font: 1, Size: 240}) // plus-minus is CP-1252 0xB1
	data := st.Bytes()
	back, err := decodeString(data, &decodeEnv{})
	if err != nil {
		t.Fatal(err)
	}
	if back.Text() != "H±O" {
		t.Fatalf("unexpected text after round trip: %q", back.Text())
	}
	if len(back.Runs) != 1 || back.Runs[0].Style.Size != 240 {
		t.Fatalf("unexpected runs after round trip: %v", back.Runs)
	}
	if !bytes.Equal(back.Bytes(), data) {
		t.Fatal("unmutated text must re-encode byte-identically")
	}
}

func TestStyledTextLineSeparators(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "chem.cdx")
	defer teardown()
	//
	// '\n' everywhere except the binary form, which uses '\r'
	st := NewPlainText("one\ntwo")
	data := st.Bytes()
	if !bytes.Contains(data, []byte{'\r'}) || bytes.Contains(data, []byte{'\n'}) {
		t.Fatalf("binary form must code line breaks as CR: %x", data)
	}
	back, err := decodeString(data, &decodeEnv{})
	if err != nil {
		t.Fatal(err)
	}
	if back.Text() != "one\ntwo" {
		t.Fatalf("unexpected text after round trip: %q", back.Text())
	}
}

func TestStyledTextMutationDropsRawCache(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "chem.cdx")
	defer teardown()
	//
	st := NewText("old", FontStyle{Font: 1, Size: 200})
	original := append([]byte(nil), st.Bytes()...)
	st.SetText("new")
	if bytes.Equal(st.Bytes(), original) {
		t.Fatal("SetText must invalidate the cached payload")
	}
	st2 := NewText("same", FontStyle{Font: 1, Size: 200})
	before := append([]byte(nil), st2.Bytes()...)
	st2.SetRuns([]StyleRun{{Start: 0, Style: FontStyle{Font: 1, Size: 300}}})
	if bytes.Equal(st2.Bytes(), before) {
		t.Fatal("SetRuns must invalidate the cached payload")
	}
}

func TestFontStyleSizePoints(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "chem.cdx")
	defer teardown()
	//
	fs := FontStyle{Font: 3, Size: 200}
	if fs.SizePoints() != 10.0 {
		t.Fatalf("expected 10pt, got %v", fs.SizePoints())
	}
}
