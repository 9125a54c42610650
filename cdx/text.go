package cdx

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// FontStyle describes the rendering of a run of text: a font table
// reference, a face bit mask, a size in units of 1/20 point, and a color
// table reference.
type FontStyle struct {
	Font  uint16
	Face  uint16
	Size  uint16
	Color uint16
}

// Face bits. Superscript and subscript exclude each other; Formula lets
// ChemDraw pick between them per character.
const (
	FacePlain       = 0x00
	FaceBold        = 0x01
	FaceItalic      = 0x02
	FaceUnderline   = 0x04
	FaceOutline     = 0x08
	FaceShadow      = 0x10
	FaceSubscript   = 0x20
	FaceSuperscript = 0x40
	FaceFormula     = 0x60
)

func (fs FontStyle) Bytes() []byte {
	b := make([]byte, 8)
	putU16(b, fs.Font)
	putU16(b[2:], fs.Face)
	putU16(b[4:], fs.Size)
	putU16(b[6:], fs.Color)
	return b
}

// SizePoints returns the font size in points.
func (fs FontStyle) SizePoints() float64 { return float64(fs.Size) / 20.0 }

func (fs FontStyle) String() string {
	return fmt.Sprintf("font=%d size=%s face=%d color=%d",
		fs.Font, formatRounded(fs.SizePoints(), 2), fs.Face, fs.Color)
}

func decodeFontStyle(data binarySegm) (FontStyle, error) {
	if len(data) < 8 {
		return FontStyle{}, fmt.Errorf("font style: payload of %d bytes, need 8", len(data))
	}
	return FontStyle{
		Font:  u16(data),
		Face:  u16(data[2:]),
		Size:  u16(data[4:]),
		Color: u16(data[6:]),
	}, nil
}

// ---------------------------------------------------------------------------

// StyleRun marks the start of a styled range within the encoded text of a
// StyledText. Start is a byte index into the encoded form.
type StyleRun struct {
	Start uint16
	Style FontStyle
}

// StyledText is a string together with its style runs. The binary form is
// a run count, the runs, and the charset-coded text; the charset comes
// from the font table entry of the first run (CP-1252 when absent).
// Line separators are '\r' in binary and '\n' everywhere else.
//
// A StyledText decoded from binary keeps its original payload and
// reproduces it byte for byte; mutating the text or the runs drops the
// cached payload.
type StyledText struct {
	Runs []StyleRun
	text string
	raw  []byte
	enc  *charmap.Charmap // nil means CP-1252
	utf8 bool             // payload is UTF-8, regardless of fonts
}

// NewText creates a styled text with a single run.
func NewText(text string, style FontStyle) *StyledText {
	return &StyledText{
		Runs: []StyleRun{{Start: 0, Style: style}},
		text: text,
	}
}

// NewPlainText creates an unstyled text value (no runs).
func NewPlainText(text string) *StyledText {
	return &StyledText{text: text}
}

// Text returns the decoded text with '\n' line separators.
func (st *StyledText) Text() string { return st.text }

// SetText replaces the text, invalidating the cached binary payload.
func (st *StyledText) SetText(s string) {
	st.text = s
	st.raw = nil
}

// SetRuns replaces the style runs, invalidating the cached binary payload.
func (st *StyledText) SetRuns(runs []StyleRun) {
	st.Runs = runs
	st.raw = nil
}

// AppendRun appends a styled piece of text as a new run.
func (st *StyledText) AppendRun(text string, style FontStyle) {
	start := len(st.encodeText())
	st.Runs = append(st.Runs, StyleRun{Start: uint16(start), Style: style})
	st.text += text
	st.raw = nil
}

// BindCharset resolves the text's charset from the font table entry of
// its first style run, the way binary decoding does. Texts built from
// markup are plain strings in memory; binding decides how they encode.
// A cached binary payload is already charset-coded and stays untouched.
func (st *StyledText) BindCharset(fonts *FontTable) {
	if fonts == nil || len(st.Runs) == 0 {
		return
	}
	cm, isUTF8 := fonts.charmapFor(st.Runs[0].Style.Font)
	if isUTF8 {
		st.utf8 = true
		st.enc = nil
		return
	}
	st.utf8 = false
	st.enc = cm
}

// RunTexts returns the text pieces covered by the style runs, in run
// order. Run starts are byte indices into the encoded text, so pieces are
// cut on the encoded form and decoded separately.
func (st *StyledText) RunTexts() []string {
	if len(st.Runs) == 0 {
		return nil
	}
	var encoded []byte
	if st.raw != nil && len(st.raw) >= 2+10*len(st.Runs) {
		encoded = st.raw[2+10*len(st.Runs):]
	} else {
		encoded = st.encodeText()
	}
	pieces := make([]string, len(st.Runs))
	for i, run := range st.Runs {
		from := int(run.Start)
		to := len(encoded)
		if i+1 < len(st.Runs) {
			to = int(st.Runs[i+1].Start)
		}
		if from > len(encoded) || to > len(encoded) || from > to {
			continue
		}
		var piece string
		if st.utf8 {
			piece = string(encoded[from:to])
		} else {
			piece = decodeCharsetString(encoded[from:to], st.enc)
		}
		pieces[i] = strings.ReplaceAll(piece, "\r", "\n")
	}
	return pieces
}

func (st *StyledText) String() string { return st.text }

func (st *StyledText) Bytes() []byte {
	if st.raw != nil {
		return st.raw
	}
	encoded := st.encodeText()
	b := make([]byte, 0, 2+10*len(st.Runs)+len(encoded))
	b = append(b, u16Bytes(uint16(len(st.Runs)))...)
	for _, run := range st.Runs {
		b = append(b, u16Bytes(run.Start)...)
		b = append(b, run.Style.Bytes()...)
	}
	return append(b, encoded...)
}

func (st *StyledText) encodeText() []byte {
	text := strings.ReplaceAll(st.text, "\n", "\r")
	if st.utf8 {
		return []byte(text)
	}
	return encodeCharset(text, st.enc)
}

// decodeString interprets a property payload as a styled string. Newer
// ChemDraw versions occasionally write the text without any run count; a
// count which cannot fit the payload triggers the fallback.
func decodeString(data binarySegm, env *decodeEnv) (*StyledText, error) {
	st := &StyledText{raw: append([]byte(nil), data...)}
	if env != nil && env.utf8 {
		st.utf8 = true
	}
	if len(data) == 0 {
		return st, nil
	}
	var encoded binarySegm
	if len(data) < 2 {
		encoded = data
	} else {
		n := int(u16(data))
		if 2+n*10 > len(data) {
			tracer().Debugf("styled string with unfittable run count %d, re-reading without runs", n)
			encoded = data
		} else {
			for i := 0; i < n; i++ {
				off := 2 + i*10
				style, err := decodeFontStyle(data[off+2 : off+10])
				if err != nil {
					return nil, err
				}
				st.Runs = append(st.Runs, StyleRun{Start: u16(data[off:]), Style: style})
			}
			encoded = data[2+n*10:]
		}
	}
	if !st.utf8 && env != nil && env.fonts != nil && len(st.Runs) > 0 {
		if cm, isUTF8 := env.fonts.charmapFor(st.Runs[0].Style.Font); isUTF8 {
			st.utf8 = true
		} else {
			st.enc = cm
		}
	}
	var text string
	if st.utf8 {
		text = string(encoded)
		if !utf8.Valid(encoded) {
			text = decodeCharsetString(encoded, nil)
		}
	} else {
		text = decodeCharsetString(encoded, st.enc)
	}
	st.text = strings.ReplaceAll(text, "\r", "\n")
	return st, nil
}

// ---------------------------------------------------------------------------

// Charset plumbing. CDX identifies charsets by Windows code page numbers
// (plus the classic Mac OS script codes in the 10000 range). Everything we
// cannot map decodes as CP-1252, which is also what ChemDraw does for the
// ubiquitous "iso-8859-1" declaration.

func charmapByID(id uint16) (cm *charmap.Charmap, isUTF8 bool) {
	switch id {
	case 65001:
		return nil, true
	case 10000:
		return charmap.Macintosh, false
	case 437:
		return charmap.CodePage437, false
	case 850:
		return charmap.CodePage850, false
	case 0, 1252:
		return charmap.Windows1252, false
	}
	return charmap.Windows1252, false
}

// charsetID maps a CDXML charset name to its code page number.
func charsetID(name string) uint16 {
	switch strings.ToLower(strings.TrimPrefix(name, "x-")) {
	case "utf-8", "unicode":
		return 65001
	case "mac-roman", "mac":
		return 10000
	case "cp437", "ibm437":
		return 437
	case "cp850", "ibm850":
		return 850
	}
	return 1252
}

// charsetName maps a code page number to the name ChemDraw writes in CDXML.
func charsetName(id uint16) string {
	switch id {
	case 65001:
		return "utf-8"
	case 10000:
		return "x-mac-roman"
	case 437:
		return "cp437"
	case 850:
		return "cp850"
	}
	return "iso-8859-1"
}

func decodeCharsetString(b []byte, cm *charmap.Charmap) string {
	if cm == nil {
		cm = charmap.Windows1252
	}
	s, err := cm.NewDecoder().Bytes(b)
	if err != nil {
		// charmap decoders never fail, but keep the raw bytes just in case
		return string(b)
	}
	return string(s)
}

func decodeCharset(b []byte, cm *charmap.Charmap) (string, error) {
	return decodeCharsetString(b, cm), nil
}

func encodeCharset(s string, cm *charmap.Charmap) []byte {
	if cm == nil {
		cm = charmap.Windows1252
	}
	enc := encoding.ReplaceUnsupported(cm.NewEncoder())
	b, err := enc.Bytes([]byte(s))
	if err != nil {
		return []byte(s)
	}
	return b
}
