package main

import (
	"fmt"
	"strings"

	"github.com/chemfile/chemdraw/cdx"
	"github.com/pterm/pterm"
)

func printOp(intp *Intp, op *Op) (err error, stop bool) {
	pterm.Printf("PRINT %s\n", opNames[op.code])
	var cur *cdx.Node
	if cur, err = intp.checkLocation(); err != nil {
		return
	}
	sb := strings.Builder{}
	sb.WriteString(nodeLabel(cur))
	if cur.ID != 0 {
		sb.WriteString(fmt.Sprintf(" id=%d", cur.ID))
	}
	sb.WriteString(fmt.Sprintf(" |props|=%d |children|=%d", len(cur.Props), len(cur.Children)))
	if cur.Unknown {
		sb.WriteString(" (unknown object)")
	}
	pterm.Printf("Current location: %s\n", sb.String())
	return nil, false
}

func infoOp(intp *Intp, op *Op) (error, bool) {
	if err := intp.checkDocument(); err != nil {
		return err, false
	}
	doc := intp.doc.doc
	nodes := 0
	doc.Walk(func(*cdx.Node) bool { nodes++; return true })
	fonts, colors := 0, 0
	if doc.Fonts != nil {
		fonts = len(doc.Fonts.Fonts)
	}
	if doc.Colors != nil {
		colors = len(doc.Colors.Colors)
	}
	data := [][]string{
		{"File", intp.doc.filename},
		{"Pages", fmt.Sprintf("%d", len(doc.Pages()))},
		{"Objects", fmt.Sprintf("%d", nodes)},
		{"Fonts", fmt.Sprintf("%d", fonts)},
		{"Colors", fmt.Sprintf("%d", colors)},
		{"Warnings", fmt.Sprintf("%d", len(doc.Warnings()))},
		{"Problems", fmt.Sprintf("%d", len(doc.Problems()))},
	}
	pterm.DefaultTable.WithData(data).Render()
	for _, w := range doc.Warnings() {
		pterm.Warning.Println(w.String())
	}
	for _, e := range doc.Problems() {
		pterm.Error.Println(e.Error())
	}
	return nil, false
}

func nodesOp(intp *Intp, op *Op) (error, bool) {
	cur, err := intp.checkLocation()
	if err != nil {
		return err, false
	}
	if len(cur.Children) == 0 {
		pterm.Printf("%s has no children\n", nodeLabel(cur))
		return nil, false
	}
	data := [][]string{
		{"Index", "Element", "ID", "Props", "Children"},
	}
	for i, c := range cur.Children {
		data = append(data, []string{
			fmt.Sprintf("%d", i),
			nodeLabel(c),
			fmt.Sprintf("%d", c.ID),
			fmt.Sprintf("%d", len(c.Props)),
			fmt.Sprintf("%d", len(c.Children)),
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	return nil, false
}

func propsOp(intp *Intp, op *Op) (error, bool) {
	cur, err := intp.checkLocation()
	if err != nil {
		return err, false
	}
	if len(cur.Props) == 0 {
		pterm.Printf("%s has no properties\n", nodeLabel(cur))
		return nil, false
	}
	filter, _ := op.hasArg()
	data := [][]string{
		{"Attribute", "Tag", "Value"},
	}
	for _, p := range cur.Props {
		if filter != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter)) {
			continue
		}
		name := p.Name
		if name == "" {
			name = "(unknown)"
		}
		data = append(data, []string{
			name,
			p.Tag.String(),
			clip(p.Value.String(), 60),
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	return nil, false
}

func fontsOp(intp *Intp, op *Op) (error, bool) {
	if err := intp.checkDocument(); err != nil {
		return err, false
	}
	table := intp.doc.doc.Fonts
	if table == nil || len(table.Fonts) == 0 {
		pterm.Println("document has no font table")
		return nil, false
	}
	data := [][]string{
		{"ID", "Charset", "Name"},
	}
	for _, f := range table.Fonts {
		data = append(data, []string{
			fmt.Sprintf("%d", f.ID),
			fmt.Sprintf("%d", f.Charset),
			f.Name,
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	return nil, false
}

func colorsOp(intp *Intp, op *Op) (error, bool) {
	if err := intp.checkDocument(); err != nil {
		return err, false
	}
	table := intp.doc.doc.Colors
	if table == nil || len(table.Colors) == 0 {
		pterm.Println("document has no color table")
		return nil, false
	}
	data := [][]string{
		{"Index", "R", "G", "B"},
	}
	// references count the implied entries black and white
	for i, c := range table.Colors {
		data = append(data, []string{
			fmt.Sprintf("%d", i+2),
			fmt.Sprintf("%.3f", float64(c.R)/65535.0),
			fmt.Sprintf("%.3f", float64(c.G)/65535.0),
			fmt.Sprintf("%.3f", float64(c.B)/65535.0),
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	return nil, false
}

func textOp(intp *Intp, op *Op) (error, bool) {
	cur, err := intp.checkLocation()
	if err != nil {
		return err, false
	}
	v, ok := cur.Prop("Text")
	if !ok {
		return fmt.Errorf("%s has no text", nodeLabel(cur)), false
	}
	st, ok := v.(*cdx.StyledText)
	if !ok {
		pterm.Println(v.String())
		return nil, false
	}
	pterm.Printf("text: %q\n", st.Text())
	if len(st.Runs) == 0 {
		pterm.Println("text has no style runs")
		return nil, false
	}
	data := [][]string{
		{"Run", "Text", "Font", "Size", "Face", "Color"},
	}
	for i, text := range st.RunTexts() {
		style := st.Runs[i].Style
		data = append(data, []string{
			fmt.Sprintf("%d", i),
			clip(fmt.Sprintf("%q", text), 40),
			fmt.Sprintf("%d", style.Font),
			fmt.Sprintf("%.1fpt", style.SizePoints()),
			formatFace(style.Face),
			fmt.Sprintf("%d", style.Color),
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	return nil, false
}

func nodeLabel(n *cdx.Node) string {
	if n == nil {
		return "<none>"
	}
	if n.Name != "" {
		return n.Name
	}
	return n.Tag.String()
}

func formatFace(face uint16) string {
	if face == cdx.FacePlain {
		return "-"
	}
	if face == cdx.FaceFormula {
		return "Formula"
	}
	parts := make([]string, 0, 4)
	if face&cdx.FaceBold != 0 {
		parts = append(parts, "Bold")
	}
	if face&cdx.FaceItalic != 0 {
		parts = append(parts, "Italic")
	}
	if face&cdx.FaceUnderline != 0 {
		parts = append(parts, "Underline")
	}
	if face&cdx.FaceSubscript != 0 {
		parts = append(parts, "Subscript")
	}
	if face&cdx.FaceSuperscript != 0 {
		parts = append(parts, "Superscript")
	}
	if len(parts) == 0 {
		return fmt.Sprintf("0x%02x", face)
	}
	return strings.Join(parts, "|")
}

func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
