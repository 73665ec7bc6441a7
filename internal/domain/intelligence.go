package domain

import "time"

// ThreatLevel is the discrete classification of an article, ordered
// LOW < MEDIUM < HIGH.
type ThreatLevel int

const (
	ThreatLow ThreatLevel = iota
	ThreatMedium
	ThreatHigh
)

// String renders the level the way it is persisted and reported.
func (t ThreatLevel) String() string {
	switch t {
	case ThreatHigh:
		return "HIGH"
	case ThreatMedium:
		return "MEDIUM"
	default:
		return "LOW"
	}
}

// ParseThreatLevel maps a stored level string back to its enum value.
func ParseThreatLevel(s string) ThreatLevel {
	switch s {
	case "HIGH":
		return ThreatHigh
	case "MEDIUM":
		return ThreatMedium
	default:
		return ThreatLow
	}
}

// ScoreResult is the output of relevance scoring. MatchedHighImpact is set
// whenever at least one high-impact keyword was present, in which case
// RelevanceScore already includes the high-impact contribution.
type ScoreResult struct {
	RelevanceScore    float64
	MatchedCategories []string
	MatchedHighImpact bool
	HighImpactMatches []string
}

// Alert types emitted by the alert generator.
const (
	AlertCriticalThreat = "critical_threat"
	AlertSecurityWatch  = "security_watch"
)

// Alert is a single actionable notification derived from one article.
type Alert struct {
	ID          string
	Type        string
	Level       ThreatLevel
	Description string
}

// IntelligenceRecord is the immutable result of analyzing one article.
// It is created once by the assembler and handed to the persistence layer,
// which owns reconciliation by article URL.
type IntelligenceRecord struct {
	Article            Article
	Score              ScoreResult
	Level              ThreatLevel
	Entities           []Entity
	Alerts             []Alert
	ExtractionDegraded bool
	ContentLength      int
	WordCount          int
	AnalyzedAt         time.Time
}

// ThreatSummary aggregates stored articles by threat level.
type ThreatSummary struct {
	High   int
	Medium int
	Low    int
}

// ArticleHeadline is a lightweight projection used by reports and the
// read-only HTTP API.
type ArticleHeadline struct {
	Title          string
	URL            string
	Level          ThreatLevel
	RelevanceScore float64
	KeyIndicators  []string
	ScrapedAt      time.Time
}
