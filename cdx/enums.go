package cdx

import (
	"fmt"
	"strconv"
	"strings"
)

// Enumerated properties are driven by per-property tables mapping binary
// codes to their CDXML spellings. The tables are the single source of
// truth for both directions; every entry is bijective except where two
// codes share a spelling on purpose (manual double bond positions, the
// second lone pair symbol).

type enumTable struct {
	name   string
	width  int // payload bytes: 1 or 2
	signed bool
	names  map[int]string
	codes  map[string]int
}

func newEnumTable(name string, width int, signed bool, names map[int]string) *enumTable {
	t := &enumTable{
		name:   name,
		width:  width,
		signed: signed,
		names:  names,
		codes:  make(map[string]int, len(names)),
	}
	for code, s := range names {
		if prev, ok := t.codes[s]; !ok || code < prev {
			t.codes[s] = code
		}
	}
	return t
}

// Enumerated is a property value constrained to a code table. Codes
// outside the table are carried through numerically. Some ChemDraw
// versions pad one-byte enumerations with garbage bytes (bracket usage
// being the usual suspect); the observed trailer is kept for re-emission.
type Enumerated struct {
	table   *enumTable
	Code    int
	trailer []byte
}

func (e Enumerated) Bytes() []byte {
	var b []byte
	switch e.table.width {
	case 1:
		b = []byte{byte(int8(e.Code))}
	default:
		b = u16Bytes(uint16(int16(e.Code)))
	}
	return append(b, e.trailer...)
}

func (e Enumerated) String() string {
	if s, ok := e.table.names[e.Code]; ok {
		return s
	}
	return strconv.Itoa(e.Code)
}

// Is reports whether the value spells as the given name.
func (e Enumerated) Is(name string) bool {
	return e.String() == name
}

func decodeEnum(t *enumTable, data binarySegm) (Enumerated, error) {
	if len(data) < t.width {
		return Enumerated{}, fmt.Errorf("enum %s: payload of %d bytes, need %d", t.name, len(data), t.width)
	}
	var code int
	switch t.width {
	case 1:
		if t.signed {
			code = int(int8(data[0]))
		} else {
			code = int(data[0])
		}
	default:
		if t.signed {
			code = int(int16(u16(data)))
		} else {
			code = int(u16(data))
		}
	}
	e := Enumerated{table: t, Code: code}
	if len(data) > t.width {
		e.trailer = append([]byte(nil), data[t.width:]...)
	}
	return e, nil
}

func parseEnum(t *enumTable, s string) (Enumerated, error) {
	if code, ok := t.codes[s]; ok {
		return Enumerated{table: t, Code: code}, nil
	}
	if code, err := strconv.Atoi(s); err == nil {
		return Enumerated{table: t, Code: code}, nil
	}
	return Enumerated{}, fmt.Errorf("enum %s: unknown value %q", t.name, s)
}

// NewEnum creates an enumeration value from its CDXML spelling. It panics
// on unknown table names and is meant for programmatic document building.
func NewEnum(table, name string) Value {
	t, ok := enumTables[table]
	if !ok {
		panic("cdx: no enumeration table " + table)
	}
	e, err := parseEnum(t, name)
	if err != nil {
		panic(err.Error())
	}
	return e
}

var enumTables = map[string]*enumTable{
	"NodeType": newEnumTable("NodeType", 2, true, map[int]string{
		0:  "Unspecified",
		1:  "Element",
		2:  "ElementList",
		3:  "ElementListNickname",
		4:  "Nickname",
		5:  "Fragment",
		6:  "Formula",
		7:  "GenericNickname",
		8:  "AnonymousAlternativeGroup",
		9:  "NamedAlternativeGroup",
		10: "MultiAttachment",
		11: "VariableAttachment",
		12: "ExternalConnectionPoint",
		13: "LinkNode",
		14: "Monomer",
	}),
	"LabelDisplay": newEnumTable("LabelDisplay", 1, true, map[int]string{
		0: "Auto",
		1: "Left",
		2: "Center",
		3: "Right",
		4: "Above",
		5: "Below",
		6: "BestInitial",
	}),
	"LabelAlignment": newEnumTable("LabelAlignment", 1, true, map[int]string{
		0: "Auto",
		1: "Left",
		2: "Center",
		3: "Right",
		4: "Above",
		5: "Below",
		6: "BestInitial",
	}),
	"Radical": newEnumTable("Radical", 1, false, map[int]string{
		0: "None",
		1: "Singlet",
		2: "Doublet",
		3: "Triplet",
	}),
	"Geometry": newEnumTable("Geometry", 1, true, map[int]string{
		0:  "Unknown",
		1:  "1",
		2:  "Linear",
		3:  "Bent",
		4:  "TrigonalPlanar",
		5:  "TrigonalPyramidal",
		6:  "SquarePlanar",
		7:  "Tetrahedral",
		8:  "TrigonalBipyramidal",
		9:  "SquarePyramidal",
		10: "5",
		11: "Octahedral",
		12: "6",
		13: "7",
		14: "8",
		15: "9",
		16: "10",
	}),
	"AtomCIPType": newEnumTable("AtomCIPType", 1, true, map[int]string{
		0: "U",
		1: "N",
		2: "R",
		3: "S",
		4: "r",
		5: "s",
		6: "u",
	}),
	"BondCIPType": newEnumTable("BondCIPType", 1, true, map[int]string{
		0: "U",
		1: "N",
		2: "E",
		3: "Z",
	}),
	"EnhancedStereoType": newEnumTable("EnhancedStereoType", 1, true, map[int]string{
		0: "Unspecified",
		1: "None",
		2: "Absolute",
		3: "Or",
		4: "And",
	}),
	"RingBondCount": newEnumTable("RingBondCount", 1, true, map[int]string{
		0: "Unspecified",
		1: "NoRingBonds",
		2: "AsDrawn",
		3: "SimpleRing",
		4: "Fused",
		5: "SpiroOrHigher",
	}),
	"UnsaturatedBonds": newEnumTable("UnsaturatedBonds", 1, true, map[int]string{
		0: "Unspecified",
		1: "MustBeAbsent",
		2: "MustBePresent",
	}),
	"RxnStereo": newEnumTable("RxnStereo", 1, true, map[int]string{
		0: "Unspecified",
		1: "Inversion",
		2: "Retention",
	}),
	"Translation": newEnumTable("Translation", 1, true, map[int]string{
		0: "Equal",
		1: "Broad",
		2: "Narrow",
		3: "Any",
	}),
	"IsotopicAbundance": newEnumTable("IsotopicAbundance", 1, true, map[int]string{
		0: "Unspecified",
		1: "Any",
		2: "Natural",
		3: "Enriched",
		4: "Deficient",
		5: "Nonnatural",
	}),
	"ExternalConnectionType": newEnumTable("ExternalConnectionType", 1, true, map[int]string{
		0: "Unspecified",
		1: "Diamond",
		2: "Star",
		3: "PolymerBead",
		4: "Wavy",
		5: "Residue",
		6: "Peptide",
		7: "DNA",
		8: "RNA",
		9: "MustBeExternal",
	}),
	"BondDisplay": newEnumTable("BondDisplay", 2, true, map[int]string{
		0:  "Solid",
		1:  "Dash",
		2:  "Hash",
		3:  "WedgedHashBegin",
		4:  "WedgedHashEnd",
		5:  "Bold",
		6:  "WedgeBegin",
		7:  "WedgeEnd",
		8:  "Wavy",
		9:  "HollowWedgeBegin",
		10: "HollowWedgeEnd",
		11: "WavyWedgeBegin",
		12: "WavyWedgeEnd",
		13: "Dot",
		14: "DashDot",
	}),
	// The 256-biased codes mark positions chosen manually; CDXML does not
	// distinguish them from the automatic ones.
	"DoublePosition": newEnumTable("DoublePosition", 2, true, map[int]string{
		0:   "Center",
		1:   "Right",
		2:   "Left",
		256: "Center",
		257: "Right",
		258: "Left",
	}),
	"Topology": newEnumTable("Topology", 1, true, map[int]string{
		0: "Unspecified",
		1: "Ring",
		2: "Chain",
		3: "RingOrChain",
	}),
	"RxnParticipation": newEnumTable("RxnParticipation", 1, true, map[int]string{
		0: "Unspecified",
		1: "ReactionCenter",
		2: "MakeOrBreak",
		3: "ChangeType",
		4: "MakeAndChange",
		5: "NotReactionCenter",
		6: "NoChange",
		7: "UnmappedAtoms",
	}),
	"Justification": newEnumTable("Justification", 1, true, map[int]string{
		-1: "Right",
		0:  "Left",
		1:  "Center",
		2:  "Full",
		3:  "Above",
		4:  "Below",
		5:  "Auto",
		6:  "BestInitial",
	}),
	"DrawingSpace": newEnumTable("DrawingSpace", 1, true, map[int]string{
		0: "pages",
		1: "poster",
	}),
	"AminoAcidTermini": newEnumTable("AminoAcidTermini", 1, true, map[int]string{
		1: "HOH",
		2: "NH2COOH",
	}),
	"GraphicType": newEnumTable("GraphicType", 2, true, map[int]string{
		0: "Undefined",
		1: "Line",
		2: "Arc",
		3: "Rectangle",
		4: "Oval",
		5: "Orbital",
		6: "Bracket",
		7: "Symbol",
	}),
	"OrbitalType": newEnumTable("OrbitalType", 2, true, map[int]string{
		0: "s",
		1: "oval",
		2: "lobe",
		3: "p",
		4: "hybridPlus",
		5: "hybridMinus",
		6: "dz2Plus",
		7: "dz2Minus",
		8: "dxy",
	}),
	"BracketType": newEnumTable("BracketType", 2, true, map[int]string{
		0: "RoundPair",
		1: "SquarePair",
		2: "CurlyPair",
		3: "Square",
		4: "Curly",
		5: "Round",
	}),
	// Code 13 is a second lone pair variant which spells identically.
	"SymbolType": newEnumTable("SymbolType", 2, true, map[int]string{
		0:  "LonePair",
		1:  "Electron",
		2:  "RadicalCation",
		3:  "RadicalAnion",
		4:  "CirclePlus",
		5:  "CircleMinus",
		6:  "Dagger",
		7:  "DoubleDagger",
		8:  "Plus",
		9:  "Minus",
		10: "Racemic",
		11: "Absolute",
		12: "Relative",
		13: "LonePair",
	}),
	"BracketUsage": newEnumTable("BracketUsage", 1, true, map[int]string{
		0:  "Unspecified",
		1:  "Unused1",
		2:  "Unused2",
		3:  "SRU",
		4:  "Monomer",
		5:  "Mer",
		6:  "Copolymer",
		7:  "CopolymerAlternating",
		8:  "CopolymerRandom",
		9:  "CopolymerBlock",
		10: "Crosslink",
		11: "Graft",
		12: "Modification",
		13: "Component",
		14: "MixtureUnordered",
		15: "MixtureOrdered",
		16: "MultipleGroup",
		17: "Generic",
		18: "Anypolymer",
	}),
	"PolymerRepeatPattern": newEnumTable("PolymerRepeatPattern", 1, true, map[int]string{
		0: "HeadToTail",
		1: "HeadToHead",
		2: "EitherUnknown",
	}),
	"PolymerFlipType": newEnumTable("PolymerFlipType", 1, true, map[int]string{
		0: "Unspecified",
		1: "NoFlip",
		2: "Flip",
	}),
	"TagType": newEnumTable("TagType", 2, true, map[int]string{
		0: "Unknown",
		1: "Double",
		2: "Long",
		3: "String",
	}),
	"Positioning": newEnumTable("Positioning", 1, true, map[int]string{
		0: "auto",
		1: "angle",
		2: "offset",
		3: "absolute",
	}),
}

// ---------------------------------------------------------------------------

// Bit-flag properties combine independently meaningful bits; CDXML spells
// a combination as space-separated names. A zero mask has its own name.

type flagTable struct {
	name  string
	width int // payload bytes: 1 or 2
	zero  string
	bits  []flagBit
}

type flagBit struct {
	bit  int
	name string
}

// FlagSet is a property value over a bit-flag table. Oval types are
// written as one byte by old ChemDraw versions and as two by newer ones;
// the observed width wins on re-emission.
type FlagSet struct {
	table *flagTable
	Mask  int
	width int // observed width, 0 means nominal
}

func (f FlagSet) Bytes() []byte {
	w := f.width
	if w == 0 {
		w = f.table.width
	}
	if w == 1 {
		return []byte{byte(f.Mask)}
	}
	return u16Bytes(uint16(f.Mask))
}

func (f FlagSet) String() string {
	if f.Mask == 0 {
		return f.table.zero
	}
	var parts []string
	for _, e := range f.table.bits {
		if e.bit != 0 && f.Mask&e.bit == e.bit {
			parts = append(parts, e.name)
		}
	}
	if len(parts) == 0 {
		return strconv.Itoa(f.Mask)
	}
	return strings.Join(parts, " ")
}

// Has reports whether the flag spelled name is set.
func (f FlagSet) Has(name string) bool {
	for _, e := range f.table.bits {
		if e.name == name {
			return e.bit == 0 && f.Mask == 0 || e.bit != 0 && f.Mask&e.bit == e.bit
		}
	}
	return false
}

func decodeFlags(t *flagTable, data binarySegm) (FlagSet, error) {
	switch len(data) {
	case 1:
		return FlagSet{table: t, Mask: int(data[0]), width: 1}, nil
	case 2:
		return FlagSet{table: t, Mask: int(u16(data)), width: 2}, nil
	}
	return FlagSet{}, fmt.Errorf("flags %s: payload of %d bytes", t.name, len(data))
}

func parseFlags(t *flagTable, s string) (FlagSet, error) {
	f := FlagSet{table: t}
	if s == t.zero {
		return f, nil
	}
	for _, part := range strings.Fields(s) {
		found := false
		for _, e := range t.bits {
			if e.name == part {
				f.Mask |= e.bit
				found = true
				break
			}
		}
		if !found {
			if n, err := strconv.Atoi(part); err == nil {
				f.Mask |= n
				continue
			}
			return FlagSet{}, fmt.Errorf("flags %s: unknown value %q", t.name, part)
		}
	}
	return f, nil
}

// NewFlags creates a flag set value from its CDXML spelling.
func NewFlags(table, names string) Value {
	t, ok := flagTables[table]
	if !ok {
		panic("cdx: no flag table " + table)
	}
	f, err := parseFlags(t, names)
	if err != nil {
		panic(err.Error())
	}
	return f
}

var flagTables = map[string]*flagTable{
	"ArrowType": {
		name: "ArrowType", width: 2, zero: "NoHead",
		bits: []flagBit{
			{1, "HalfHead"},
			{2, "FullHead"},
			{4, "Resonance"},
			{8, "Equilibrium"},
			{16, "Hollow"},
			{32, "RetroSynthetic"},
		},
	},
	"RectangleType": {
		name: "RectangleType", width: 2, zero: "Plain",
		bits: []flagBit{
			{1, "RoundEdge"},
			{2, "Shadow"},
			{4, "Shaded"},
			{8, "Filled"},
			{16, "Dashed"},
			{32, "Bold"},
		},
	},
	"OvalType": {
		name: "OvalType", width: 2, zero: "Plain",
		bits: []flagBit{
			{1, "Circle"},
			{2, "Shaded"},
			{4, "Filled"},
			{8, "Dashed"},
			{16, "Bold"},
			{32, "Shadowed"},
		},
	},
	"LineType": {
		name: "LineType", width: 2, zero: "Solid",
		bits: []flagBit{
			{1, "Dashed"},
			{2, "Bold"},
			{4, "Wavy"},
		},
	},
	"FillType": {
		name: "FillType", width: 2, zero: "Unspecified",
		bits: []flagBit{
			{1, "None"},
			{2, "Solid"},
			{4, "Shaded"},
			{8, "Gradient"},
			{16, "Pattern"},
		},
	},
}
