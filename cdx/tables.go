package cdx

import (
	"fmt"

	"golang.org/x/text/encoding/charmap"
)

// The font table and the color table are document-wide resources: style
// runs, label styles and color properties refer into them by font ID and
// by table index. In binary they are ordinary properties of the document
// object; CDXML renders them as child elements. Both representations are
// backed by the same Value instances, reachable as Document.Fonts and
// Document.Colors.

// Font is an entry of the document font table.
type Font struct {
	ID      uint16
	Charset uint16 // Windows code page number
	Name    string
}

// FontTable is the document's font registry.
type FontTable struct {
	OSType uint16 // 0 = Mac, 1 = Windows
	Fonts  []Font
}

func (t *FontTable) Bytes() []byte {
	b := make([]byte, 0, 4+len(t.Fonts)*8)
	b = append(b, u16Bytes(t.OSType)...)
	b = append(b, u16Bytes(uint16(len(t.Fonts)))...)
	for _, f := range t.Fonts {
		name := encodeCharset(f.Name, nil)
		b = append(b, u16Bytes(f.ID)...)
		b = append(b, u16Bytes(f.Charset)...)
		b = append(b, u16Bytes(uint16(len(name)))...)
		b = append(b, name...)
	}
	return b
}

func (t *FontTable) String() string {
	return fmt.Sprintf("font table with %d entries", len(t.Fonts))
}

// Lookup finds a font by its table ID.
func (t *FontTable) Lookup(id uint16) (Font, bool) {
	for _, f := range t.Fonts {
		if f.ID == id {
			return f, true
		}
	}
	return Font{}, false
}

// LookupName finds a font by name.
func (t *FontTable) LookupName(name string) (Font, bool) {
	for _, f := range t.Fonts {
		if f.Name == name {
			return f, true
		}
	}
	return Font{}, false
}

// Register returns the ID of the font with the given name, adding a
// CP-1252 entry if the table does not have one yet.
func (t *FontTable) Register(name string) uint16 {
	if f, ok := t.LookupName(name); ok {
		return f.ID
	}
	var id uint16 = 1
	for _, f := range t.Fonts {
		if f.ID >= id {
			id = f.ID + 1
		}
	}
	t.Fonts = append(t.Fonts, Font{ID: id, Charset: 1252, Name: name})
	return id
}

// charmapFor resolves the charset of a font ID for string decoding.
func (t *FontTable) charmapFor(id uint16) (*charmap.Charmap, bool) {
	if f, ok := t.Lookup(id); ok {
		return charmapByID(f.Charset)
	}
	return charmap.Windows1252, false
}

func decodeFontTable(data binarySegm) (*FontTable, error) {
	c := &cursor{data: data}
	osType, err := c.u16()
	if err != nil {
		return nil, fmt.Errorf("font table: %w", err)
	}
	count, err := c.u16()
	if err != nil {
		return nil, fmt.Errorf("font table: %w", err)
	}
	t := &FontTable{OSType: osType, Fonts: make([]Font, 0, count)}
	for i := 0; i < int(count); i++ {
		id, err := c.u16()
		if err != nil {
			return nil, fmt.Errorf("font table entry %d: %w", i, err)
		}
		charset, err := c.u16()
		if err != nil {
			return nil, fmt.Errorf("font table entry %d: %w", i, err)
		}
		namelen, err := c.u16()
		if err != nil {
			return nil, fmt.Errorf("font table entry %d: %w", i, err)
		}
		name, err := c.take(int(namelen))
		if err != nil {
			return nil, fmt.Errorf("font table entry %d: name of %d bytes: %w", i, namelen, err)
		}
		t.Fonts = append(t.Fonts, Font{ID: id, Charset: charset, Name: decodeCharsetString(name, nil)})
	}
	return t, nil
}

// ---------------------------------------------------------------------------

// Color is an RGB triple with 16 bit channels. CDXML spells channels as
// fractions in [0,1].
type Color struct {
	R, G, B uint16
}

// Predefined colors for table building.
var (
	ColorBlack = Color{0, 0, 0}
	ColorWhite = Color{0xFFFF, 0xFFFF, 0xFFFF}
)

// ColorTable is the document's color registry. Color references count the
// two implied entries black (0) and white (1) before the table, so index
// i refers to Colors[i-2].
type ColorTable struct {
	Colors []Color
}

func (t *ColorTable) Bytes() []byte {
	b := make([]byte, 0, 2+len(t.Colors)*6)
	b = append(b, u16Bytes(uint16(len(t.Colors)))...)
	for _, col := range t.Colors {
		b = append(b, u16Bytes(col.R)...)
		b = append(b, u16Bytes(col.G)...)
		b = append(b, u16Bytes(col.B)...)
	}
	return b
}

func (t *ColorTable) String() string {
	return fmt.Sprintf("color table with %d entries", len(t.Colors))
}

// MaxIndex returns the highest valid color reference.
func (t *ColorTable) MaxIndex() int {
	return len(t.Colors) + 1
}

// Resolve returns the color behind a reference index.
func (t *ColorTable) Resolve(index uint16) (Color, bool) {
	switch index {
	case 0:
		return ColorBlack, true
	case 1:
		return ColorWhite, true
	}
	i := int(index) - 2
	if i < 0 || i >= len(t.Colors) {
		return Color{}, false
	}
	return t.Colors[i], true
}

// Register returns the reference index of the given color, appending it to
// the table if it is not present yet.
func (t *ColorTable) Register(c Color) uint16 {
	for i, have := range t.Colors {
		if have == c {
			return uint16(i + 2)
		}
	}
	t.Colors = append(t.Colors, c)
	return uint16(len(t.Colors) + 1)
}

func decodeColorTable(data binarySegm) (*ColorTable, error) {
	c := &cursor{data: data}
	count, err := c.u16()
	if err != nil {
		return nil, fmt.Errorf("color table: %w", err)
	}
	t := &ColorTable{Colors: make([]Color, 0, count)}
	for i := 0; i < int(count); i++ {
		seg, err := c.take(6)
		if err != nil {
			return nil, fmt.Errorf("color table entry %d: %w", i, err)
		}
		t.Colors = append(t.Colors, Color{R: u16(seg), G: u16(seg[2:]), B: u16(seg[4:])})
	}
	return t, nil
}
