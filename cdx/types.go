package cdx

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Value is a typed property payload. Bytes returns the binary form of the
// value (little-endian, without the record header), String the CDXML
// attribute form. Values observed with non-nominal widths in the binary
// input reproduce the observed width from Bytes.
type Value interface {
	Bytes() []byte
	String() string
}

// ---------------------------------------------------------------------------

// Fixed-width integers. CDX stores everything little-endian.

type Int8 int8

func (v Int8) Bytes() []byte  { return []byte{byte(v)} }
func (v Int8) String() string { return strconv.Itoa(int(v)) }

type UInt8 uint8

func (v UInt8) Bytes() []byte  { return []byte{byte(v)} }
func (v UInt8) String() string { return strconv.Itoa(int(v)) }

type Int16 int16

func (v Int16) Bytes() []byte  { return u16Bytes(uint16(v)) }
func (v Int16) String() string { return strconv.Itoa(int(v)) }

type UInt16 uint16

func (v UInt16) Bytes() []byte  { return u16Bytes(uint16(v)) }
func (v UInt16) String() string { return strconv.Itoa(int(v)) }

type Int32 int32

func (v Int32) Bytes() []byte  { return u32Bytes(uint32(v)) }
func (v Int32) String() string { return strconv.Itoa(int(v)) }

type UInt32 uint32

func (v UInt32) Bytes() []byte  { return u32Bytes(uint32(v)) }
func (v UInt32) String() string { return strconv.FormatUint(uint64(v), 10) }

type Float64 float64

func (v Float64) Bytes() []byte  { return f64Bytes(float64(v)) }
func (v Float64) String() string { return formatRounded(float64(v), 6) }

// formatRounded renders a float rounded to the given number of decimal
// places, in the shortest representation ("0.5", not "0.50").
func formatRounded(v float64, places int) string {
	p := math.Pow10(places)
	r := math.Round(v*p) / p
	if r == 0 { // avoid "-0"
		r = 0
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

// ---------------------------------------------------------------------------

// Coordinate is a length in units of 1/65536 point, stored as a signed
// 32 bit integer. CDXML spells coordinates in points with two decimals.
type Coordinate int32

func (c Coordinate) Bytes() []byte { return u32Bytes(uint32(c)) }

// Points returns the coordinate in typographical points.
func (c Coordinate) Points() float64 { return float64(c) / 65536.0 }

func (c Coordinate) String() string { return formatRounded(c.Points(), 2) }

// CoordinateFromPoints converts a length in points to a Coordinate,
// clamping to the representable range. The ChemDraw JS API emits the
// nonsense value -70368744177664 for unset coordinates; it collapses to 0.
func CoordinateFromPoints(pts float64) Coordinate {
	v := math.Round(pts * 65536.0)
	if v > math.MaxInt32 || v < math.MinInt32 {
		return 0
	}
	return Coordinate(int32(v))
}

// Point2D is a position on a page. The binary order is y before x,
// the CDXML order "x y".
type Point2D struct {
	X, Y Coordinate
}

func (p Point2D) Bytes() []byte {
	b := make([]byte, 8)
	putU32(b, uint32(p.Y))
	putU32(b[4:], uint32(p.X))
	return b
}

func (p Point2D) String() string {
	return p.X.String() + " " + p.Y.String()
}

// Point3D is a position in 3D space, stored x, y, z in both forms.
type Point3D struct {
	X, Y, Z Coordinate
}

func (p Point3D) Bytes() []byte {
	b := make([]byte, 12)
	putU32(b, uint32(p.X))
	putU32(b[4:], uint32(p.Y))
	putU32(b[8:], uint32(p.Z))
	return b
}

func (p Point3D) String() string {
	return p.X.String() + " " + p.Y.String() + " " + p.Z.String()
}

// Rectangle is stored top, left, bottom, right in binary but spelled
// "left top right bottom" in CDXML.
type Rectangle struct {
	Top, Left, Bottom, Right Coordinate
}

func (r Rectangle) Bytes() []byte {
	b := make([]byte, 16)
	putU32(b, uint32(r.Top))
	putU32(b[4:], uint32(r.Left))
	putU32(b[8:], uint32(r.Bottom))
	putU32(b[12:], uint32(r.Right))
	return b
}

func (r Rectangle) String() string {
	return r.Left.String() + " " + r.Top.String() + " " + r.Right.String() + " " + r.Bottom.String()
}

// ---------------------------------------------------------------------------

// Boolean is a one-byte yes/no value.
type Boolean bool

func (v Boolean) Bytes() []byte {
	if v {
		return []byte{1}
	}
	return []byte{0}
}

func (v Boolean) String() string {
	if v {
		return "yes"
	}
	return "no"
}

// BooleanImplied is a zero-length value: its mere presence means true.
// A false BooleanImplied must not be written; the binary encoder skips it.
type BooleanImplied bool

func (v BooleanImplied) Bytes() []byte { return nil }

func (v BooleanImplied) String() string {
	if v {
		return "yes"
	}
	return "no"
}

// ---------------------------------------------------------------------------

// ColorRef is an index into the document color table. Some ChemDraw
// versions pad the two-byte index with two extra zero bytes; the observed
// trailer is kept and re-emitted.
type ColorRef struct {
	Index   uint16
	trailer []byte
}

func (c ColorRef) Bytes() []byte {
	return append(u16Bytes(c.Index), c.trailer...)
}

func (c ColorRef) String() string { return strconv.Itoa(int(c.Index)) }

// Charge is an atom charge, written as one byte by most ChemDraw versions
// but as four bytes by some.
type Charge struct {
	Val  int32
	wide bool
}

func (c Charge) Bytes() []byte {
	if c.wide {
		return u32Bytes(uint32(c.Val))
	}
	return []byte{byte(int8(c.Val))}
}

func (c Charge) String() string { return strconv.Itoa(int(c.Val)) }

// ---------------------------------------------------------------------------

// ObjectIDList holds references to other objects by ID, four bytes each
// with no count prefix.
type ObjectIDList []uint32

func (l ObjectIDList) Bytes() []byte {
	b := make([]byte, 0, 4*len(l))
	for _, id := range l {
		b = append(b, u32Bytes(id)...)
	}
	return b
}

func (l ObjectIDList) String() string {
	parts := make([]string, len(l))
	for i, id := range l {
		parts[i] = strconv.FormatUint(uint64(id), 10)
	}
	return strings.Join(parts, " ")
}

// Int16List is a count-prefixed list of 16 bit integers.
type Int16List []int16

func (l Int16List) Bytes() []byte {
	b := make([]byte, 0, 2+2*len(l))
	b = append(b, u16Bytes(uint16(len(l)))...)
	for _, v := range l {
		b = append(b, u16Bytes(uint16(v))...)
	}
	return b
}

func (l Int16List) String() string {
	parts := make([]string, len(l))
	for i, v := range l {
		parts[i] = strconv.Itoa(int(v))
	}
	return strings.Join(parts, " ")
}

// CurvePoints is a count-prefixed list of spline control points. As with
// Point2D, each binary point stores y before x.
type CurvePoints []Point2D

func (cp CurvePoints) Bytes() []byte {
	b := make([]byte, 0, 2+8*len(cp))
	b = append(b, u16Bytes(uint16(len(cp)))...)
	for _, p := range cp {
		b = append(b, p.Bytes()...)
	}
	return b
}

func (cp CurvePoints) String() string {
	parts := make([]string, len(cp))
	for i, p := range cp {
		parts[i] = p.String()
	}
	return strings.Join(parts, " ")
}

// Represents links an indicator object to the property of another object
// it stands for. CDXML renders it as a child element, not an attribute.
type Represents struct {
	ObjectID  uint32
	Attribute Tag
}

func (r Represents) Bytes() []byte {
	b := make([]byte, 6)
	putU32(b, r.ObjectID)
	putU16(b[4:], uint16(r.Attribute))
	return b
}

func (r Represents) String() string {
	return fmt.Sprintf("object %d attribute %s", r.ObjectID, r.Attribute)
}

// Unformatted is an opaque payload, spelled as lowercase hex in CDXML.
type Unformatted []byte

func (u Unformatted) Bytes() []byte  { return u }
func (u Unformatted) String() string { return hex.EncodeToString(u) }

// Compressed is an opaque compressed payload, spelled as base64 in CDXML.
type Compressed []byte

func (c Compressed) Bytes() []byte  { return c }
func (c Compressed) String() string { return base64.StdEncoding.EncodeToString(c) }

// ---------------------------------------------------------------------------

// Scaled numerics.

// TenthsInt16 stores a decimal number with one fractional digit as ten
// times its value (bond spacing, arrowhead size, angular size).
type TenthsInt16 int16

func (v TenthsInt16) Bytes() []byte { return u16Bytes(uint16(v)) }

func (v TenthsInt16) String() string {
	return formatRounded(float64(v)/10.0, 2)
}

// Angle is stored in units of 1/65536 degree (or radian, depending on the
// property; the scale factor is the same).
type Angle int32

func (v Angle) Bytes() []byte { return u32Bytes(uint32(v)) }

func (v Angle) String() string {
	return formatRounded(float64(v)/65536.0, 2)
}

// LineHeight stores text leading in twips, with two reserved codes.
type LineHeight uint16

func (v LineHeight) Bytes() []byte { return u16Bytes(uint16(v)) }

func (v LineHeight) String() string {
	switch v {
	case 0:
		return "variable"
	case 1:
		return "auto"
	}
	return formatRounded(float64(v)/20.0, 2)
}

// ---------------------------------------------------------------------------

// BondOrder is a bit mask over the possible orders of a query bond.
// CDXML spells a mask as space-separated order names; a zero mask means
// "unspecified" and encodes as 0xFFFF.
type BondOrder uint16

// Mask bits in ascending order, with their CDXML spellings.
var bondOrderNames = []struct {
	bit  uint16
	name string
}{
	{0x0001, "1"},
	{0x0002, "2"},
	{0x0004, "3"},
	{0x0008, "4"},
	{0x0010, "5"},
	{0x0020, "6"},
	{0x0040, "0.5"},
	{0x0080, "1.5"},
	{0x0100, "2.5"},
	{0x0200, "3.5"},
	{0x0400, "4.5"},
	{0x0800, "5.5"},
	{0x1000, "dative"},
	{0x2000, "ionic"},
	{0x4000, "hydrogen"},
	{0x8000, "threecenter"},
}

func (o BondOrder) Bytes() []byte { return u16Bytes(uint16(o)) }

func (o BondOrder) String() string {
	if o == 0xFFFF {
		return ""
	}
	var parts []string
	for _, e := range bondOrderNames {
		if uint16(o)&e.bit != 0 {
			parts = append(parts, e.name)
		}
	}
	return strings.Join(parts, " ")
}

// ParseBondOrder parses the CDXML spelling of a bond order mask.
// An empty or zero order yields the "unspecified" mask.
func ParseBondOrder(s string) (BondOrder, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "0" {
		return BondOrder(0xFFFF), nil
	}
	var mask uint16
	for _, part := range strings.Fields(s) {
		found := false
		for _, e := range bondOrderNames {
			if e.name == part {
				mask |= e.bit
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("unknown bond order %q", part)
		}
	}
	return BondOrder(mask), nil
}

// ---------------------------------------------------------------------------

// TagValue is the payload of an objecttag's Value property. Its type is
// determined by the sibling TagType property, which may arrive after the
// value in the stream; the decoder re-types the raw payload once the type
// is known (see retypeObjectTags).
type TagValue struct {
	Raw   []byte
	Typed Value // nil until re-typed; raw text payloads stay nil
}

func (tv TagValue) Bytes() []byte {
	if tv.Typed != nil {
		return tv.Typed.Bytes()
	}
	return tv.Raw
}

func (tv TagValue) String() string {
	if tv.Typed != nil {
		return tv.Typed.String()
	}
	s, _ := decodeCharset(tv.Raw, nil)
	return s
}
