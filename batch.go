package chemdraw

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/chemfile/chemdraw/cdx"
)

// Job is one file conversion: Source is read, converted by extension,
// and written to Target. Supported extensions are .cdx, .cds and .cdxml.
type Job struct {
	Source string
	Target string
}

// Result reports the outcome of one job. Err is nil on success.
type Result struct {
	Job Job
	Err error
}

// ConvertBatch runs the jobs on a bounded worker pool and returns one
// result per job, in job order. A failing job does not stop the others;
// ctx cancelation does. workers below 1 selects a single worker.
func ConvertBatch(ctx context.Context, jobs []Job, workers int) []Result {
	if workers < 1 {
		workers = 1
	}
	results := make([]Result, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = Result{Job: job, Err: err}
				return nil
			}
			err := Convert(job.Source, job.Target)
			if err != nil {
				tracer().Errorf("converting %s: %v", job.Source, err)
			}
			results[i] = Result{Job: job, Err: err}
			return nil
		})
	}
	g.Wait()
	return results
}

// Convert reads the source file and writes it to the target path, both
// interpreted by file extension.
func Convert(source, target string) error {
	doc, err := readByExtension(source)
	if err != nil {
		return err
	}
	return writeByExtension(doc, target)
}

func readByExtension(path string) (*cdx.Document, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cdx", ".cds":
		return cdx.DecodeFile(path)
	case ".cdxml":
		return ReadCDXMLFile(path)
	}
	return nil, fmt.Errorf("%s: unknown drawing file extension", path)
}

func writeByExtension(doc *cdx.Document, path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cdx", ".cds":
		return WriteCDXFile(doc, path)
	case ".cdxml":
		return WriteCDXMLFile(doc, path)
	}
	return fmt.Errorf("%s: unknown drawing file extension", path)
}
