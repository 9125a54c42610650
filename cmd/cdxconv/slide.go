package main

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/chemfile/chemdraw"
	"github.com/chemfile/chemdraw/cdx"
	"github.com/chemfile/chemdraw/slides"
	"github.com/spf13/cobra"
)

type slideOpts struct {
	output    string
	data      string // CSV with one row of property values per input
	columns   int
	rows      int
	font      string
	fontSize  float64
	style     string
	width     float64
	height    float64
	showNames bool
}

func newSlideCmd() *cobra.Command {
	opts := slideOpts{output: "slide.cdxml"}

	cmd := &cobra.Command{
		Use:   "slide [files...]",
		Short: "Compose structures into a slide document",
		Long: `Slide arranges the structures of many CDX or CDXML files on a grid and
writes a single slide document. Property values for the text lines below
each structure come from a CSV file with a header row of property names
and one row per input file.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSlide(args, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", opts.output, "output slide file")
	cmd.Flags().StringVarP(&opts.data, "data", "d", "", "CSV file with property values")
	cmd.Flags().IntVarP(&opts.columns, "columns", "c", 0, "structures per row")
	cmd.Flags().IntVarP(&opts.rows, "rows", "r", 0, "rows per slide")
	cmd.Flags().StringVar(&opts.font, "font", "", "font for property text")
	cmd.Flags().Float64Var(&opts.fontSize, "font-size", 0, "font size for property text in pt")
	cmd.Flags().StringVarP(&opts.style, "style", "s", "", "style applied to the structures")
	cmd.Flags().Float64Var(&opts.width, "width", 0, "slide width in cm")
	cmd.Flags().Float64Var(&opts.height, "height", 0, "slide height in cm")
	cmd.Flags().BoolVar(&opts.showNames, "show-names", false, "prefix property values with their name")

	return cmd
}

func runSlide(inputs []string, opts *slideOpts) error {
	docs := make([]*cdx.Document, len(inputs))
	for i, in := range inputs {
		doc, err := readDocument(in)
		if err != nil {
			return err
		}
		docs[i] = doc
	}

	props, lines, err := loadProperties(opts.data, len(inputs), opts.showNames)
	if err != nil {
		return err
	}

	g := slides.Generator{
		Columns:     opts.columns,
		Rows:        opts.rows,
		FontSize:    opts.fontSize,
		Font:        opts.font,
		Properties:  lines,
		SlideWidth:  opts.width,
		SlideHeight: opts.height,
		Style:       opts.style,
	}
	slide, err := g.Compose(docs, props)
	if err != nil {
		return err
	}
	if err := chemdraw.WriteCDXMLFile(slide, opts.output); err != nil {
		return err
	}
	tracer().Infof("composed %d structures into %s", len(inputs), opts.output)
	return nil
}

// loadProperties reads the property CSV. The header row names the
// properties, every following row holds the values for one structure.
func loadProperties(path string, count int, showNames bool) ([][]slides.Property, int, error) {
	props := make([][]slides.Property, count)
	if path == "" {
		return props, 0, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", path, err)
	}
	if len(records) != count+1 {
		return nil, 0, fmt.Errorf("%s has %d data rows, want %d (one per input)", path, len(records)-1, count)
	}
	names := records[0]
	for i, row := range records[1:] {
		for j, value := range row {
			if j >= len(names) {
				return nil, 0, fmt.Errorf("%s row %d has more values than the header names", path, i+2)
			}
			props[i] = append(props[i], slides.Property{
				Name:     names[j],
				Value:    value,
				ShowName: showNames,
			})
		}
	}
	return props, len(names), nil
}
