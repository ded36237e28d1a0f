package clamav

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/jmgilman/go/fs/billy"
	"github.com/jmgilman/go/fs/core"
)

const (
	// DefaultBinary is the scan engine invoked when none is configured.
	DefaultBinary = "clamscan"

	// DefaultTimeout bounds one engine invocation per file.
	DefaultTimeout = 5 * time.Minute

	// unknownInfection is reported when an infected exit carries no
	// parseable FOUND line.
	unknownInfection = "Unknown infection"
)

// Scanner classifies files by invoking the external scan engine.
type Scanner struct {
	fs      core.FS
	logger  *slog.Logger
	runner  Runner
	binary  string
	timeout time.Duration
}

// Option configures a Scanner during construction.
type Option func(*Scanner)

// WithBinary sets the scan engine binary name or path.
func WithBinary(binary string) Option {
	return func(s *Scanner) {
		s.binary = binary
	}
}

// WithTimeout sets the per-file scan timeout. Zero disables the bound.
func WithTimeout(timeout time.Duration) Option {
	return func(s *Scanner) {
		s.timeout = timeout
	}
}

// WithRunner sets the subprocess runner, typically a mock in tests.
func WithRunner(runner Runner) Option {
	return func(s *Scanner) {
		s.runner = runner
	}
}

// WithFS sets the filesystem used for directory walks.
func WithFS(fsys core.FS) Option {
	return func(s *Scanner) {
		s.fs = fsys
	}
}

// WithLogger sets the logger for scan progress and infections.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scanner) {
		s.logger = logger
	}
}

// NewScanner creates a Scanner with the default clamscan binary, a real
// subprocess runner, and the 5-minute per-file timeout.
func NewScanner(opts ...Option) *Scanner {
	s := &Scanner{
		fs:      billy.NewLocal(),
		logger:  slog.New(slog.DiscardHandler),
		runner:  NewCommandRunner(),
		binary:  DefaultBinary,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ScanFile scans a single file and always returns an Outcome: engine
// failures, launch failures, and timeouts fold into an error outcome rather
// than propagating.
func (s *Scanner) ScanFile(ctx context.Context, path string) Outcome {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	result, err := s.runner.Run(ctx, s.binary, "--no-summary", path)
	if err != nil {
		msg := err.Error()
		if errors.Is(err, context.DeadlineExceeded) {
			msg = "Scan timeout"
		}
		return Outcome{File: path, Status: StatusError, Err: msg}
	}

	switch result.ExitCode {
	case 0:
		return Outcome{File: path, Status: StatusClean}
	case 1:
		signature := parseInfection(result.Stdout)
		s.logger.Warn("infection found", "file", path, "infection", signature)
		return Outcome{File: path, Status: StatusInfected, Signature: signature}
	default:
		return Outcome{File: path, Status: StatusError, Err: strings.TrimSpace(result.Stderr)}
	}
}

// parseInfection extracts the signature name from clamscan output. For a
// line like "x.txt: Eicar-Test-Signature FOUND" the captured signature is
// everything after the first colon, trimmed, FOUND marker included.
func parseInfection(stdout string) string {
	for _, line := range strings.Split(strings.TrimSpace(stdout), "\n") {
		if !strings.Contains(line, "FOUND") {
			continue
		}
		if idx := strings.Index(line, ":"); idx >= 0 {
			return strings.TrimSpace(line[idx+1:])
		}
		return strings.TrimSpace(line)
	}
	return unknownInfection
}
