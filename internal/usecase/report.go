package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"ArgusIntel/internal/domain"
	"ArgusIntel/internal/ports"
)

// Reporter builds the plain-text defense intelligence report from stored
// records.
type Reporter struct {
	repository ports.IntelligenceRepository
}

// NewReporter wires the read-only repository.
func NewReporter(repo ports.IntelligenceRepository) *Reporter {
	return &Reporter{repository: repo}
}

// Build renders the threat summary, recent high-threat headlines, defense
// entity statistics, and the last 24 hours of alerts.
func (r *Reporter) Build(ctx context.Context, now time.Time) (string, error) {
	if r.repository == nil {
		return "", fmt.Errorf("repository is not configured")
	}

	summary, err := r.repository.ThreatSummary(ctx)
	if err != nil {
		return "", fmt.Errorf("threat summary: %w", err)
	}

	var b strings.Builder
	b.WriteString("DEFENSE INTELLIGENCE REPORT\n")
	b.WriteString("===========================\n\n")
	b.WriteString("THREAT LEVEL SUMMARY:\n")
	fmt.Fprintf(&b, "  HIGH:   %d articles\n", summary.High)
	fmt.Fprintf(&b, "  MEDIUM: %d articles\n", summary.Medium)
	fmt.Fprintf(&b, "  LOW:    %d articles\n", summary.Low)

	if summary.High > 0 {
		headlines, err := r.repository.RecentByLevel(ctx, domain.ThreatHigh, 5)
		if err != nil {
			return "", fmt.Errorf("recent high-threat: %w", err)
		}
		b.WriteString("\nRECENT HIGH-THREAT ARTICLES:\n")
		for i, h := range headlines {
			fmt.Fprintf(&b, "  %d. %s\n     %s\n", i+1, h.Title, h.URL)
			if len(h.KeyIndicators) > 0 {
				fmt.Fprintf(&b, "     Indicators: %s\n", strings.Join(h.KeyIndicators, ", "))
			}
		}
	}

	entityCounts, err := r.repository.DefenseEntityCounts(ctx)
	if err != nil {
		return "", fmt.Errorf("entity counts: %w", err)
	}
	if len(entityCounts) > 0 {
		b.WriteString("\nDEFENSE ENTITIES DETECTED:\n")
		types := make([]string, 0, len(entityCounts))
		for typ := range entityCounts {
			types = append(types, string(typ))
		}
		sort.Strings(types)
		for _, typ := range types {
			fmt.Fprintf(&b, "  %s: %d\n", typ, entityCounts[domain.EntityType(typ)])
		}
	}

	alerts, err := r.repository.AlertCountSince(ctx, now.Add(-24*time.Hour))
	if err != nil {
		return "", fmt.Errorf("alert count: %w", err)
	}
	fmt.Fprintf(&b, "\nALERTS (last 24 hours): %d\n", alerts)

	return b.String(), nil
}
