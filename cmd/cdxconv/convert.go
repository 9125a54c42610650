package main

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/chemfile/chemdraw"
	"github.com/spf13/cobra"
)

type convertOpts struct {
	output  string // explicit target path, single input only
	format  string // target format when no explicit output is given
	workers int
}

func newConvertCmd() *cobra.Command {
	opts := convertOpts{workers: runtime.NumCPU()}

	cmd := &cobra.Command{
		Use:   "convert [files...]",
		Short: "Convert between CDX and CDXML",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.output != "" && len(args) > 1 {
				return fmt.Errorf("--output needs a single input file")
			}
			return runConvert(cmd, args, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single input only)")
	cmd.Flags().StringVarP(&opts.format, "to", "t", "", "target format: cdx or cdxml (default: the other one)")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", opts.workers, "parallel conversions")

	return cmd
}

func runConvert(cmd *cobra.Command, inputs []string, opts *convertOpts) error {
	jobs := make([]chemdraw.Job, len(inputs))
	for i, in := range inputs {
		target := opts.output
		if target == "" {
			var err error
			if target, err = targetPath(in, opts.format); err != nil {
				return err
			}
		}
		jobs[i] = chemdraw.Job{Source: in, Target: target}
	}

	results := chemdraw.ConvertBatch(cmd.Context(), jobs, opts.workers)
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", r.Job.Source, r.Err)
			continue
		}
		tracer().Infof("converted %s -> %s", r.Job.Source, r.Job.Target)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d conversions failed", failed, len(jobs))
	}
	return nil
}

// targetPath derives the output file name from the input and the requested
// format. Without a format the conversion toggles between binary and markup.
func targetPath(input, format string) (string, error) {
	srcExt := strings.ToLower(filepath.Ext(input))
	base := strings.TrimSuffix(input, filepath.Ext(input))
	switch format {
	case "":
		switch srcExt {
		case ".cdx", ".cds":
			return base + ".cdxml", nil
		case ".cdxml":
			return base + ".cdx", nil
		}
		return "", fmt.Errorf("unsupported file extension: %s", input)
	case "cdx":
		return base + ".cdx", nil
	case "cdxml":
		return base + ".cdxml", nil
	}
	return "", fmt.Errorf("unknown target format: %s (expected cdx|cdxml)", format)
}
