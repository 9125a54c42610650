package styler

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/chemfile/chemdraw/cdx"
	"github.com/chemfile/chemdraw/cdxml"
)

//go:embed styles.toml
var stylesTOML []byte

// Style holds the document-level settings a styler applies. All values
// are spelled the way CDXML attributes spell them; lengths are in points.
// LabelFont is a font name, not a font table id.
type Style struct {
	BondSpacing           string
	BondLength            string
	BoldWidth             string
	LineWidth             string
	MarginWidth           string
	HashSpacing           string
	CaptionSize           string
	LabelSize             string
	LabelFace             string
	LabelFont             string
	HideImplicitHydrogens string
}

func (s Style) validate() error {
	bl, err := strconv.ParseFloat(s.BondLength, 64)
	if err != nil || bl <= 0 {
		return fmt.Errorf("style has no usable BondLength: %q", s.BondLength)
	}
	if s.LabelFont == "" {
		return fmt.Errorf("style names no LabelFont")
	}
	return nil
}

var (
	loadStyles sync.Once
	styles     map[string]Style
	stylesErr  error
)

// Named returns a built-in style by name.
func Named(name string) (Style, error) {
	loadStyles.Do(func() {
		stylesErr = toml.Unmarshal(stylesTOML, &styles)
	})
	if stylesErr != nil {
		return Style{}, fmt.Errorf("built-in styles unreadable: %w", stylesErr)
	}
	s, ok := styles[name]
	if !ok {
		names := make([]string, 0, len(styles))
		for n := range styles {
			names = append(names, n)
		}
		sort.Strings(names)
		return Style{}, fmt.Errorf("%q is not a built-in style, have %s", name, strings.Join(names, ", "))
	}
	return s, nil
}

// StyleNames lists the built-in styles.
func StyleNames() []string {
	loadStyles.Do(func() {
		stylesErr = toml.Unmarshal(stylesTOML, &styles)
	})
	names := make([]string, 0, len(styles))
	for n := range styles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// LoadStyle reads a style from a TOML file holding a single top-level
// table of settings.
func LoadStyle(path string) (Style, error) {
	var s Style
	if _, err := toml.DecodeFile(path, &s); err != nil {
		return Style{}, fmt.Errorf("style config %s: %w", path, err)
	}
	if err := s.validate(); err != nil {
		return Style{}, fmt.Errorf("style config %s: %w", path, err)
	}
	return s, nil
}

// TemplateStyle extracts the style from an existing drawing file, binary
// or markup, picked by file extension. Any document can serve as a
// template; opening a ChemDraw style sheet and saving it as CDXML is the
// usual way to get one.
func TemplateStyle(path string) (Style, error) {
	var doc *cdx.Document
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cdx", ".cds":
		doc, err = cdx.DecodeFile(path)
	case ".cdxml":
		doc, err = cdxml.ReadFile(path)
	default:
		// markup templates are also passed around as plain strings
		data, rerr := os.ReadFile(path)
		if rerr != nil {
			return Style{}, rerr
		}
		doc, err = cdxml.Unmarshal(bytes.TrimSpace(data))
	}
	if err != nil {
		return Style{}, fmt.Errorf("style template %s: %w", path, err)
	}
	return DocumentStyle(doc)
}

// DocumentStyle reads the document-level style settings out of a
// document.
func DocumentStyle(doc *cdx.Document) (Style, error) {
	s := Style{HideImplicitHydrogens: "no"}
	get := func(name string) string {
		if v, ok := doc.Root.Prop(name); ok {
			return v.String()
		}
		return ""
	}
	s.BondSpacing = get("BondSpacing")
	s.BondLength = get("BondLength")
	s.BoldWidth = get("BoldWidth")
	s.LineWidth = get("LineWidth")
	s.MarginWidth = get("MarginWidth")
	s.HashSpacing = get("HashSpacing")
	if v := get("HideImplicitHydrogens"); v != "" {
		s.HideImplicitHydrogens = v
	}
	if v, ok := doc.Root.Prop("CaptionStyle"); ok {
		if fs, ok := v.(cdx.FontStyle); ok {
			s.CaptionSize = strconv.FormatFloat(fs.SizePoints(), 'f', -1, 64)
		}
	}
	if v, ok := doc.Root.Prop("LabelStyle"); ok {
		fs, ok := v.(cdx.FontStyle)
		if !ok {
			return Style{}, fmt.Errorf("template's label style is unreadable")
		}
		s.LabelSize = strconv.FormatFloat(fs.SizePoints(), 'f', -1, 64)
		s.LabelFace = strconv.Itoa(int(fs.Face))
		if doc.Fonts != nil {
			if f, ok := doc.Fonts.Lookup(fs.Font); ok {
				s.LabelFont = f.Name
			}
		}
	}
	if s.LabelFont == "" {
		// fall back to the template's first font
		if doc.Fonts != nil && len(doc.Fonts.Fonts) > 0 {
			s.LabelFont = doc.Fonts.Fonts[0].Name
		}
	}
	if err := s.validate(); err != nil {
		return Style{}, fmt.Errorf("template yields no usable style: %w", err)
	}
	return s, nil
}
