package cdx

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestFontTableRegisterDeduplicates(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "chem.cdx")
	defer teardown()
	//
	ft := &FontTable{OSType: 1}
	arial := ft.Register("Arial")
	times := ft.Register("Times New Roman")
	if arial == times {
		t.Fatal("distinct fonts must get distinct IDs")
	}
	if again := ft.Register("Arial"); again != arial {
		t.Fatalf("re-registering a font must return its ID, got %d want %d", again, arial)
	}
	if len(ft.Fonts) != 2 {
		t.Fatalf("expected 2 fonts, got %d", len(ft.Fonts))
	}
	f, ok := ft.Lookup(arial)
	if !ok || f.Name != "Arial" {
		t.Fatalf("lookup of %d failed: %v", arial, f)
	}
}

func TestColorTableIndexScheme(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "chem.cdx")
	defer teardown()
	//
	ct := &ColorTable{}
	// indices 0 and 1 are the implied black and white entries
	if c, ok := ct.Resolve(0); !ok || c != ColorBlack {
		t.Fatalf("index 0 must resolve to black, got %v", c)
	}
	if c, ok := ct.Resolve(1); !ok || c != ColorWhite {
		t.Fatalf("index 1 must resolve to white, got %v", c)
	}
	red := Color{0xFFFF, 0, 0}
	idx := ct.Register(red)
	if idx != 2 {
		t.Fatalf("the first table entry must get index 2, got %d", idx)
	}
	if c, ok := ct.Resolve(idx); !ok || c != red {
		t.Fatalf("cannot resolve registered color: %v", c)
	}
	if again := ct.Register(red); again != idx {
		t.Fatalf("re-registering a color must return its index, got %d want %d", again, idx)
	}
	if ct.MaxIndex() != 2 {
		t.Fatalf("unexpected max index: %d", ct.MaxIndex())
	}
}

func TestFontTableBinaryRoundTrip(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "chem.cdx")
	defer teardown()
	//
	ft := &FontTable{OSType: 1}
	ft.Register("Arial")
	ft.Register("Symbol")
	back, err := decodeFontTable(ft.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if back.OSType != 1 || len(back.Fonts) != 2 {
		t.Fatalf("unexpected table after round trip: %+v", back)
	}
	if back.Fonts[1].Name != "Symbol" {
		t.Fatalf("unexpected font name: %s", back.Fonts[1].Name)
	}
}

func TestEnumeratedNames(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "chem.cdx")
	defer teardown()
	//
	v := NewEnum("Radical", "Singlet")
	e, ok := v.(Enumerated)
	if !ok {
		t.Fatalf("expected an Enumerated, got %T", v)
	}
	if !e.Is("Singlet") || e.String() != "Singlet" {
		t.Fatalf("unexpected enum value: %v", e)
	}
	back, err := decodeEnum(e.table, e.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if !back.Is("Singlet") {
		t.Fatalf("enum did not survive the binary round trip: %v", back)
	}
}

func TestEnumeratedTablesRoundTrip(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "chem.cdx")
	defer teardown()
	//
	// every spelling in every table must survive name -> code -> binary
	// -> name; duplicate spellings canonicalize to the lowest code
	for table, tab := range enumTables {
		for code, name := range tab.names {
			e := Enumerated{table: tab, Code: code}
			if e.String() != name {
				t.Errorf("%s: code %d spells %q, want %q", table, code, e.String(), name)
			}
			parsed, err := parseEnum(tab, name)
			if err != nil {
				t.Errorf("%s: cannot parse %q: %v", table, name, err)
				continue
			}
			if parsed.String() != name {
				t.Errorf("%s: %q parses to code %d spelling %q", table, name, parsed.Code, parsed.String())
			}
			back, err := decodeEnum(tab, e.Bytes())
			if err != nil {
				t.Errorf("%s: cannot decode %q back: %v", table, name, err)
				continue
			}
			if back.Code != code {
				t.Errorf("%s: code %d came back as %d", table, code, back.Code)
			}
		}
	}
}

func TestBondOrderSpellings(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "chem.cdx")
	defer teardown()
	//
	for _, e := range bondOrderNames {
		o := BondOrder(e.bit)
		if o.String() != e.name {
			t.Errorf("order %#04x spells %q, want %q", e.bit, o.String(), e.name)
		}
		back, err := ParseBondOrder(e.name)
		if err != nil {
			t.Errorf("cannot parse order %q: %v", e.name, err)
			continue
		}
		if back != o {
			t.Errorf("order %q parsed as %#04x, want %#04x", e.name, uint16(back), e.bit)
		}
	}
	// masks join their spellings in ascending bit order
	mixed, err := ParseBondOrder("1 1.5")
	if err != nil {
		t.Fatal(err)
	}
	if mixed != BondOrder(0x0081) || mixed.String() != "1 1.5" {
		t.Fatalf("unexpected mask: %#04x %q", uint16(mixed), mixed.String())
	}
	// the unspecified order spells as nothing and parses from "" and "0"
	if BondOrder(0xFFFF).String() != "" {
		t.Fatal("the unspecified order must have no spelling")
	}
	for _, s := range []string{"", "0"} {
		o, err := ParseBondOrder(s)
		if err != nil || o != BondOrder(0xFFFF) {
			t.Fatalf("%q must parse to the unspecified order, got %#04x, %v", s, uint16(o), err)
		}
	}
	if _, err := ParseBondOrder("7"); err == nil {
		t.Fatal("expected an unknown spelling to be rejected")
	}
}

func TestEnumeratedRejectsUnknownName(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "chem.cdx")
	defer teardown()
	//
	if _, err := parseEnum(enumTables["Radical"], "NoSuchState"); err == nil {
		t.Fatal("expected an unknown enum name to be rejected")
	}
}

func TestCoordinateConversion(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "chem.cdx")
	defer teardown()
	//
	c := CoordinateFromPoints(14.4)
	if c.Points() != 14.4 {
		// 14.4 pt is not exactly representable in 1/65536 units
		if d := c.Points() - 14.4; d > 0.0001 || d < -0.0001 {
			t.Fatalf("coordinate conversion off by %v", d)
		}
	}
	if CoordinateFromPoints(1).Points() != 1.0 {
		t.Fatal("integral point values must convert exactly")
	}
	if Coordinate(65536).String() != "1" {
		t.Fatalf("unexpected spelling: %s", Coordinate(65536).String())
	}
}
