package clamsweep

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	platformerrors "github.com/jmgilman/go/errors"
	"github.com/jmgilman/go/fs/billy"

	"github.com/jmgilman/clamsweep/archive"
	"github.com/jmgilman/clamsweep/clamav"
	"github.com/jmgilman/clamsweep/exclude"
)

// Result is the outcome of one run across all input paths.
type Result struct {
	// Aggregate holds the merged scan outcomes: extraction-derived files
	// first, then original-tree files, per input path, in input order.
	Aggregate *clamav.Aggregate

	// OutputRoot is the shared directory extraction results were placed in.
	OutputRoot string

	// OutputDirs lists every extraction output directory in discovery order.
	OutputDirs []string

	// ExtractionErrors lists the messages from failed extraction attempts.
	ExtractionErrors []string
}

// Run processes each input path: archives are recursively unpacked into the
// shared output root, the unpacked content is scanned, and then the original
// tree (or single file) is scanned with the output root excluded. Missing
// inputs are skipped with a warning. The returned error is reserved for
// setup failures and context expiry; per-file and per-archive failures are
// folded into the result instead.
func Run(ctx context.Context, inputs []string, opts ...Option) (*Result, error) {
	o := &options{
		fs:     billy.NewLocal(),
		logger: slog.New(slog.DiscardHandler),
		rar:    true,
	}
	for _, opt := range opts {
		opt(o)
	}

	outputDir := o.outputDir
	if outputDir == "" {
		dir, err := os.MkdirTemp("", "clamsweep-")
		if err != nil {
			return nil, platformerrors.Wrap(err, platformerrors.CodeInternal, "failed to create output directory")
		}
		outputDir = dir
	}

	scanner := o.scanner
	if scanner == nil {
		scanner = clamav.NewScanner(clamav.WithFS(o.fs), clamav.WithLogger(o.logger))
	}

	result := &Result{
		Aggregate:  &clamav.Aggregate{},
		OutputRoot: archive.CanonicalPath(outputDir),
	}

	for _, input := range inputs {
		canonical := archive.CanonicalPath(input)

		exists, err := o.fs.Exists(canonical)
		if err != nil || !exists {
			o.logger.Warn("path does not exist", "path", input)
			continue
		}
		info, err := o.fs.Stat(canonical)
		if err != nil {
			o.logger.Warn("failed to stat path", "path", canonical, "error", err)
			continue
		}

		o.logger.Info("processing input", "path", canonical)

		basePath := canonical
		if !info.IsDir() {
			basePath = filepath.Dir(canonical)
		}

		rules := exclude.NewRuleset(basePath, exclude.WithFS(o.fs), exclude.WithLogger(o.logger))
		extractor := archive.NewExtractor(
			archive.WithFS(o.fs),
			archive.WithLogger(o.logger),
			archive.WithRar(o.rar),
		)
		walker, err := archive.NewWalker(outputDir, rules, extractor)
		if err != nil {
			return result, platformerrors.Wrap(err, platformerrors.CodeInternal, "failed to prepare output root")
		}

		if _, err := walker.Walk(ctx, canonical, basePath); err != nil {
			return result, err
		}
		extracted := walker.Extracted()
		result.OutputDirs = append(result.OutputDirs, extracted...)
		result.ExtractionErrors = append(result.ExtractionErrors, walker.Errors()...)

		// Scan each directory this input produced rather than the whole
		// output root: with multiple inputs sharing one root, a root-wide
		// scan would count earlier inputs' files twice.
		for _, dir := range extracted {
			result.Aggregate.Merge(scanner.ScanDir(ctx, dir, nil, basePath, rules))
		}

		if info.IsDir() {
			result.Aggregate.Merge(scanner.ScanDir(ctx, canonical, []string{result.OutputRoot}, basePath, rules))
		} else if archive.Classify(canonical) == archive.KindUnsupported {
			one := &clamav.Aggregate{}
			one.Add(scanner.ScanFile(ctx, canonical))
			result.Aggregate.Merge(one)
		}

		if ctx.Err() != nil {
			return result, ctx.Err()
		}
	}

	return result, nil
}
