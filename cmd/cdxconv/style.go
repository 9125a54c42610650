package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/chemfile/chemdraw/styler"
	"github.com/spf13/cobra"
)

type styleOpts struct {
	style    string // named style
	file     string // style definition in TOML
	template string // CDX/CDXML document to copy the style from
	output   string // output file, single input only
	suffix   string // output name suffix for in-place styling
}

func newStyleCmd() *cobra.Command {
	opts := styleOpts{style: "ACS 1996", suffix: "_styled"}

	cmd := &cobra.Command{
		Use:   "style [files...]",
		Short: "Normalize drawings to a publication style",
		Long: `Style rewrites the drawing settings of CDX or CDXML files to a uniform
publication style and rescales the structures to the style's bond length.
The style comes from a built-in name (` + strings.Join(styler.StyleNames(), ", ") + `),
from a TOML definition, or from a template document.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.output != "" && len(args) > 1 {
				return fmt.Errorf("--output needs a single input file")
			}
			st, err := buildStyler(&opts)
			if err != nil {
				return err
			}
			return runStyle(args, st, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.style, "style", "s", opts.style, "built-in style name")
	cmd.Flags().StringVarP(&opts.file, "style-file", "f", "", "style definition file (TOML)")
	cmd.Flags().StringVarP(&opts.template, "template", "T", "", "document to copy the style from")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single input only)")
	cmd.Flags().StringVar(&opts.suffix, "suffix", opts.suffix, "suffix for derived output names")

	return cmd
}

func buildStyler(opts *styleOpts) (*styler.Styler, error) {
	if opts.file != "" && opts.template != "" {
		return nil, fmt.Errorf("--style-file and --template are mutually exclusive")
	}
	if opts.file != "" {
		style, err := styler.LoadStyle(opts.file)
		if err != nil {
			return nil, err
		}
		return styler.New(style)
	}
	if opts.template != "" {
		return styler.NewFromTemplate(opts.template)
	}
	return styler.NewNamed(opts.style)
}

func runStyle(inputs []string, st *styler.Styler, opts *styleOpts) error {
	for _, in := range inputs {
		doc, err := readDocument(in)
		if err != nil {
			return err
		}
		if err := st.Apply(doc); err != nil {
			return fmt.Errorf("%s: %w", in, err)
		}
		target := opts.output
		if target == "" {
			e := filepath.Ext(in)
			target = strings.TrimSuffix(in, e) + opts.suffix + e
		}
		if err := writeDocument(doc, target); err != nil {
			return err
		}
		tracer().Infof("styled %s -> %s", in, target)
	}
	return nil
}
