// Command clamsweep recursively unpacks archives found under the given
// paths and scans every resulting file with ClamAV, writing optional JSON
// and text reports.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/jmgilman/clamsweep"
	"github.com/jmgilman/clamsweep/clamav"
	"github.com/jmgilman/clamsweep/report"
)

func main() {
	cmd := &cli.Command{
		Name:      "clamsweep",
		Usage:     "recursively extract archives and scan the results with ClamAV",
		ArgsUsage: "PATH [PATH...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "output-dir",
				Usage: "directory for extracted archive content (default: temp directory)",
			},
			&cli.StringFlag{
				Name:  "json-report",
				Usage: "write a JSON report to `FILE`",
			},
			&cli.StringFlag{
				Name:  "text-report",
				Usage: "write a text report to `FILE`",
			},
			&cli.StringFlag{
				Name:  "clamscan",
				Usage: "clamscan binary name or path",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "load settings from a YAML `FILE`",
			},
			&cli.BoolFlag{
				Name:  "no-rar",
				Usage: "disable rar extraction",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "enable debug logging",
			},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	inputs := cmd.Args().Slice()
	if len(inputs) == 0 {
		return cli.Exit("at least one input path is required", 2)
	}

	level := slog.LevelInfo
	if cmd.Bool("verbose") {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg := &clamsweep.Config{}
	if path := cmd.String("config"); path != "" {
		loaded, err := clamsweep.LoadConfig(path)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	// Flags override config file settings.
	if cmd.IsSet("output-dir") {
		cfg.OutputDir = cmd.String("output-dir")
	}
	if cmd.IsSet("clamscan") {
		cfg.ClamscanPath = cmd.String("clamscan")
	}
	if cmd.IsSet("json-report") {
		cfg.JSONReport = cmd.String("json-report")
	}
	if cmd.IsSet("text-report") {
		cfg.TextReport = cmd.String("text-report")
	}
	rar := cfg.RarEnabled()
	if cmd.Bool("no-rar") {
		rar = false
	}

	scannerOpts := []clamav.Option{clamav.WithLogger(logger)}
	if cfg.ClamscanPath != "" {
		scannerOpts = append(scannerOpts, clamav.WithBinary(cfg.ClamscanPath))
	}
	if timeout := cfg.Timeout(); timeout > 0 {
		scannerOpts = append(scannerOpts, clamav.WithTimeout(timeout))
	}

	runOpts := []clamsweep.Option{
		clamsweep.WithLogger(logger),
		clamsweep.WithScanner(clamav.NewScanner(scannerOpts...)),
		clamsweep.WithRar(rar),
	}
	if cfg.OutputDir != "" {
		runOpts = append(runOpts, clamsweep.WithOutputDir(cfg.OutputDir))
	}

	result, err := clamsweep.Run(ctx, inputs, runOpts...)
	if err != nil {
		return err
	}

	logger.Info("run completed",
		"total", result.Aggregate.Total,
		"infected", result.Aggregate.Infected,
		"errors", result.Aggregate.Errored,
		"extracted", len(result.OutputDirs),
	)

	rep := report.FromAggregate(result.Aggregate)
	if cfg.JSONReport != "" {
		if err := writeReport(cfg.JSONReport, rep.WriteJSON); err != nil {
			return err
		}
		logger.Info("JSON report saved", "path", cfg.JSONReport)
	}
	if cfg.TextReport != "" {
		if err := writeReport(cfg.TextReport, rep.WriteText); err != nil {
			return err
		}
		logger.Info("text report saved", "path", cfg.TextReport)
	}
	return nil
}

// writeReport creates the report file, making parent directories as needed.
func writeReport(path string, write func(w io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report %s: %w", path, err)
	}
	defer f.Close()
	return write(f)
}
