package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/chemfile/chemdraw"
	"github.com/chemfile/chemdraw/cdx"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/spf13/cobra"
)

// tracer traces with key 'chem.convert'
func tracer() tracing.Trace {
	return tracing.Select("chem.convert")
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130) // standard shell convention for SIGINT
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var verbose bool

	root := &cobra.Command{
		Use:          "cdxconv",
		Short:        "cdxconv converts, restyles and arranges ChemDraw files",
		Long:         `cdxconv is a tool for working with ChemDraw CDX and CDXML files: converting between the binary and the markup format, normalizing drawings to a publication style, and composing many structures into slide documents.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initTracing(verbose)
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newConvertCmd())
	root.AddCommand(newStyleCmd())
	root.AddCommand(newSlideCmd())

	return root.ExecuteContext(ctx)
}

func initTracing(verbose bool) error {
	level := "Info"
	if verbose {
		level = "Debug"
	}
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter":    "go",
		"trace.chem.cdx":     level,
		"trace.chem.cdxml":   level,
		"trace.chem.mol":     level,
		"trace.chem.style":   level,
		"trace.chem.slides":  level,
		"trace.chem.convert": level,
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		return fmt.Errorf("cannot configure tracing: %w", err)
	}
	tracing.SetTraceSelector(trace2go.Selector())
	return nil
}

// readDocument loads a CDX or CDXML file, selected by extension.
func readDocument(path string) (*cdx.Document, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cdx", ".cds":
		return chemdraw.ReadCDXFile(path)
	case ".cdxml":
		return chemdraw.ReadCDXMLFile(path)
	}
	return nil, fmt.Errorf("unsupported file extension: %s", path)
}

// writeDocument stores a document as CDX or CDXML, selected by extension.
func writeDocument(doc *cdx.Document, path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cdx", ".cds":
		return chemdraw.WriteCDXFile(doc, path)
	case ".cdxml":
		return chemdraw.WriteCDXMLFile(doc, path)
	}
	return fmt.Errorf("unsupported file extension: %s", path)
}
