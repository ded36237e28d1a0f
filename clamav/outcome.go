package clamav

// Status classifies the result of scanning one file.
type Status string

const (
	// StatusClean marks a file the engine found no signatures in.
	StatusClean Status = "clean"

	// StatusInfected marks a file the engine matched a signature against.
	StatusInfected Status = "infected"

	// StatusError marks a file the engine could not scan.
	StatusError Status = "error"
)

// Outcome is the classification of one scanned file. It is produced once and
// immediately folded into an Aggregate.
type Outcome struct {
	// File is the absolute path of the scanned file.
	File string

	// Status is the outcome classification.
	Status Status

	// Signature names the matched signature when Status is StatusInfected.
	Signature string

	// Err describes the failure when Status is StatusError.
	Err string
}

// Aggregate accumulates scan outcomes and their summary counts.
// The invariant Total == len(Outcomes) holds after every Add and Merge;
// Infected+Errored never exceeds Total.
type Aggregate struct {
	// Total is the number of files scanned.
	Total int

	// Infected is the number of files with an infected outcome.
	Infected int

	// Errored is the number of files with an error outcome.
	Errored int

	// Outcomes holds every per-file outcome in scan order.
	Outcomes []Outcome
}

// Add folds one outcome into the aggregate.
func (a *Aggregate) Add(o Outcome) {
	a.Total++
	switch o.Status {
	case StatusInfected:
		a.Infected++
	case StatusError:
		a.Errored++
	}
	a.Outcomes = append(a.Outcomes, o)
}

// Merge appends another aggregate's outcomes and sums its counts. Merging is
// associative and commutative with respect to the counts; outcome order is a
// timeline only.
func (a *Aggregate) Merge(other *Aggregate) {
	if other == nil {
		return
	}
	a.Total += other.Total
	a.Infected += other.Infected
	a.Errored += other.Errored
	a.Outcomes = append(a.Outcomes, other.Outcomes...)
}
