package domain

import (
	"time"
)

// CanonicalDateFormat is the layout used whenever a snapshot date is
// rendered as a string (file names, CSV headers, store keys).
const CanonicalDateFormat = "20060102"

// Holding represents one position in a fund's holdings disclosure.
// The identifier is an opaque code and is never interpreted as a
// number, even when it looks like one.
type Holding struct {
	Identifier string `json:"identifier" csv:"identifier" validate:"required"`
	Label      string `json:"label" csv:"label"`
	Quantity   int64  `json:"quantity" csv:"quantity" validate:"min=0"`
}

// Snapshot is one point-in-time, deduplicated collection of holdings
// for a single document. Holdings are sorted by quantity descending,
// ties broken by identifier ascending. Snapshots are immutable once
// built; a later run only compares against them.
type Snapshot struct {
	Date     time.Time `json:"date" validate:"required"`
	Holdings []Holding `json:"holdings" validate:"dive"`
}

// DateKey returns the canonical date string that keys this snapshot
// in the store.
func (s *Snapshot) DateKey() string {
	return s.Date.Format(CanonicalDateFormat)
}

// ByIdentifier returns the holdings indexed by identifier. Quantities
// for identifiers appearing more than once (same code, different
// label) are summed.
func (s *Snapshot) ByIdentifier() map[string]Holding {
	m := make(map[string]Holding, len(s.Holdings))
	for _, h := range s.Holdings {
		if prev, ok := m[h.Identifier]; ok {
			prev.Quantity += h.Quantity
			if prev.Label == "" {
				prev.Label = h.Label
			}
			m[h.Identifier] = prev
			continue
		}
		m[h.Identifier] = h
	}
	return m
}

// DiffStatus classifies a single identifier's change between two
// snapshots.
type DiffStatus string

const (
	StatusNew  DiffStatus = "NEW"
	StatusUp   DiffStatus = "UP"
	StatusDown DiffStatus = "DOWN"
	StatusOut  DiffStatus = "OUT"
	StatusSame DiffStatus = "SAME"
)

// Rank orders statuses for report output: the most consequential
// changes come first.
func (s DiffStatus) Rank() int {
	switch s {
	case StatusNew:
		return 0
	case StatusUp:
		return 1
	case StatusDown:
		return 2
	case StatusOut:
		return 3
	case StatusSame:
		return 4
	default:
		return 5
	}
}

// DiffEntry records how one identifier changed between the previous
// and current snapshots. Exactly one entry exists per identifier
// present in either snapshot.
type DiffEntry struct {
	Identifier   string     `json:"identifier" csv:"identifier"`
	Label        string     `json:"label" csv:"label"`
	PrevQuantity int64      `json:"prev_quantity" csv:"prev_quantity"`
	CurrQuantity int64      `json:"curr_quantity" csv:"curr_quantity"`
	Delta        int64      `json:"delta" csv:"delta"`
	Status       DiffStatus `json:"status" csv:"status"`
}

// ReportGroup holds the top entries for one status, ordered with the
// largest move in the direction implied by the status first.
type ReportGroup struct {
	Status  DiffStatus  `json:"status"`
	Total   int         `json:"total"`
	Entries []DiffEntry `json:"entries"`
}

// Report is the structured summary of a diff run, ready for rendering
// by any sink.
type Report struct {
	PrevDate    string        `json:"prev_date"`
	CurrDate    string        `json:"curr_date"`
	TotalDiffs  int           `json:"total_diffs"`
	Groups      []ReportGroup `json:"groups"`
	GeneratedAt time.Time     `json:"generated_at"`
}
