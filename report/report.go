// Package report renders scan aggregates as JSON and plain-text reports.
// The JSON shape matches what downstream report consumers parse:
// total_files, infected_files, error_files, and an ordered results list.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jmgilman/clamsweep/clamav"
)

// Record is one per-file entry in a report.
type Record struct {
	Status    string `json:"status"`
	File      string `json:"file"`
	Infection string `json:"infection,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Report is the serializable summary of a scan run.
type Report struct {
	TotalFiles    int      `json:"total_files"`
	InfectedFiles int      `json:"infected_files"`
	ErrorFiles    int      `json:"error_files"`
	Results       []Record `json:"results"`
}

// FromAggregate converts a scan aggregate into its report form.
func FromAggregate(agg *clamav.Aggregate) *Report {
	r := &Report{
		TotalFiles:    agg.Total,
		InfectedFiles: agg.Infected,
		ErrorFiles:    agg.Errored,
		Results:       make([]Record, 0, len(agg.Outcomes)),
	}
	for _, o := range agg.Outcomes {
		r.Results = append(r.Results, Record{
			Status:    string(o.Status),
			File:      o.File,
			Infection: o.Signature,
			Error:     o.Err,
		})
	}
	return r
}

// WriteJSON writes the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

// WriteText writes the report in the human-readable layout: a header,
// summary counts, then infected and errored files when present.
func (r *Report) WriteText(w io.Writer) error {
	var b strings.Builder
	rule := strings.Repeat("=", 60)
	divider := strings.Repeat("-", 60)

	b.WriteString("ClamAV Malware Scan Report\n")
	b.WriteString(rule + "\n\n")
	fmt.Fprintf(&b, "Total files scanned: %d\n", r.TotalFiles)
	fmt.Fprintf(&b, "Infected files: %d\n", r.InfectedFiles)
	fmt.Fprintf(&b, "Errors: %d\n\n", r.ErrorFiles)

	if r.InfectedFiles > 0 {
		b.WriteString("Infected Files:\n")
		b.WriteString(divider + "\n")
		for _, rec := range r.Results {
			if rec.Status != string(clamav.StatusInfected) {
				continue
			}
			fmt.Fprintf(&b, "File: %s\n", rec.File)
			infection := rec.Infection
			if infection == "" {
				infection = "Unknown"
			}
			fmt.Fprintf(&b, "Infection: %s\n\n", infection)
		}
	}

	if r.ErrorFiles > 0 {
		b.WriteString("\nErrors:\n")
		b.WriteString(divider + "\n")
		for _, rec := range r.Results {
			if rec.Status != string(clamav.StatusError) {
				continue
			}
			fmt.Fprintf(&b, "File: %s\n", rec.File)
			detail := rec.Error
			if detail == "" {
				detail = "Unknown"
			}
			fmt.Fprintf(&b, "Error: %s\n\n", detail)
		}
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
