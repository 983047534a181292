package dataprocessing

import (
	"sort"

	"etfcli/pkg/contracts/domain"
)

// Diff outer-joins two snapshots by identifier and classifies every
// identifier's change. It is pure and total: each identifier present
// in either snapshot appears exactly once in the output, and
// well-formed snapshots never produce an error.
//
// Labels prefer the current snapshot, falling back to the previous
// one; a missing label is never a failure.
//
// Ordering: status rank NEW < UP < DOWN < OUT < SAME, then delta
// descending, then identifier ascending. This surfaces the most
// consequential changes first regardless of status.
func Diff(previous, current *domain.Snapshot) []domain.DiffEntry {
	prev := indexSnapshot(previous)
	curr := indexSnapshot(current)

	identifiers := make([]string, 0, len(prev)+len(curr))
	seen := make(map[string]bool, len(prev)+len(curr))
	for id := range curr {
		identifiers = append(identifiers, id)
		seen[id] = true
	}
	for id := range prev {
		if !seen[id] {
			identifiers = append(identifiers, id)
		}
	}

	entries := make([]domain.DiffEntry, 0, len(identifiers))
	for _, id := range identifiers {
		p := prev[id]
		c := curr[id]

		label := c.Label
		if label == "" {
			label = p.Label
		}

		entries = append(entries, domain.DiffEntry{
			Identifier:   id,
			Label:        label,
			PrevQuantity: p.Quantity,
			CurrQuantity: c.Quantity,
			Delta:        c.Quantity - p.Quantity,
			Status:       classify(p.Quantity, c.Quantity),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Status.Rank() != entries[j].Status.Rank() {
			return entries[i].Status.Rank() < entries[j].Status.Rank()
		}
		if entries[i].Delta != entries[j].Delta {
			return entries[i].Delta > entries[j].Delta
		}
		return entries[i].Identifier < entries[j].Identifier
	})

	return entries
}

func classify(prev, curr int64) domain.DiffStatus {
	switch {
	case prev == 0 && curr > 0:
		return domain.StatusNew
	case prev > 0 && curr == 0:
		return domain.StatusOut
	case curr > prev:
		return domain.StatusUp
	case curr < prev:
		return domain.StatusDown
	default:
		return domain.StatusSame
	}
}

func indexSnapshot(s *domain.Snapshot) map[string]domain.Holding {
	if s == nil {
		return map[string]domain.Holding{}
	}
	return s.ByIdentifier()
}
