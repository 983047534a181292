package dataprocessing

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"etfcli/pkg/contracts/domain"
)

// Summarizer groups and bounds diff entries for human consumption.
// It consumes Differ output only and performs no I/O.
type Summarizer struct {
	logger *slog.Logger
	topN   int
}

// SummarizerConfig holds configuration options for the Summarizer.
type SummarizerConfig struct {
	TopN int // Maximum entries per status group
}

// DefaultSummarizerConfig returns the configuration used by the
// processor when nothing is overridden.
func DefaultSummarizerConfig() SummarizerConfig {
	return SummarizerConfig{TopN: 15}
}

// NewSummarizer creates a new diff summarizer with the given
// configuration.
func NewSummarizer(logger *slog.Logger, config SummarizerConfig) *Summarizer {
	if logger == nil {
		logger = slog.Default()
	}
	if config.TopN <= 0 {
		config.TopN = DefaultSummarizerConfig().TopN
	}
	return &Summarizer{
		logger: logger,
		topN:   config.TopN,
	}
}

// statusOrder fixes the group order of the rendered report.
var statusOrder = []domain.DiffStatus{
	domain.StatusNew,
	domain.StatusUp,
	domain.StatusDown,
	domain.StatusOut,
	domain.StatusSame,
}

// Summarize groups entries by status and keeps the top N per group.
// NEW and UP groups order by delta descending; DOWN and OUT order by
// delta ascending (most negative first), so each group leads with the
// largest move in the direction its status implies. SAME orders by
// quantity descending. Statuses with no entries produce no group.
func (s *Summarizer) Summarize(ctx context.Context, prevDate, currDate string, entries []domain.DiffEntry) *domain.Report {
	s.logger.InfoContext(ctx, "summarizing diff entries",
		slog.Int("entry_count", len(entries)),
		slog.Int("top_n", s.topN))

	byStatus := make(map[domain.DiffStatus][]domain.DiffEntry)
	for _, e := range entries {
		byStatus[e.Status] = append(byStatus[e.Status], e)
	}

	report := &domain.Report{
		PrevDate:    prevDate,
		CurrDate:    currDate,
		TotalDiffs:  len(entries),
		GeneratedAt: time.Now(),
	}

	for _, status := range statusOrder {
		group := byStatus[status]
		if len(group) == 0 {
			continue
		}

		sortGroup(status, group)

		total := len(group)
		if len(group) > s.topN {
			group = group[:s.topN]
		}

		report.Groups = append(report.Groups, domain.ReportGroup{
			Status:  status,
			Total:   total,
			Entries: group,
		})
	}

	s.logger.InfoContext(ctx, "summary generated",
		slog.Int("group_count", len(report.Groups)))

	return report
}

func sortGroup(status domain.DiffStatus, group []domain.DiffEntry) {
	switch status {
	case domain.StatusNew, domain.StatusUp:
		sort.SliceStable(group, func(i, j int) bool {
			if group[i].Delta != group[j].Delta {
				return group[i].Delta > group[j].Delta
			}
			return group[i].Identifier < group[j].Identifier
		})
	case domain.StatusDown, domain.StatusOut:
		sort.SliceStable(group, func(i, j int) bool {
			if group[i].Delta != group[j].Delta {
				return group[i].Delta < group[j].Delta
			}
			return group[i].Identifier < group[j].Identifier
		})
	default:
		sort.SliceStable(group, func(i, j int) bool {
			if group[i].CurrQuantity != group[j].CurrQuantity {
				return group[i].CurrQuantity > group[j].CurrQuantity
			}
			return group[i].Identifier < group[j].Identifier
		})
	}
}
