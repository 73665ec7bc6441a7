package analysis

// KeywordCategory is one weighted group of general-tier keywords. Every
// case-insensitive occurrence of a keyword contributes Weight to the
// relevance score.
type KeywordCategory struct {
	Keywords []string
	Weight   float64
}

// Config is the immutable keyword/lexicon/threshold state for one engine
// instance. Components copy what they need at construction, so several
// independently tuned pipelines can run side by side.
type Config struct {
	// HighImpactKeywords force HIGH classification by mere presence.
	// Each distinct matched keyword adds HighImpactWeight exactly once,
	// regardless of how often it repeats.
	HighImpactKeywords []string
	HighImpactWeight   float64

	// Categories hold the general tier, keyed by category name.
	Categories map[string]KeywordCategory

	// Classification thresholds, both closed lower bounds.
	MediumThreshold float64
	LowThreshold    float64

	// Curated lexicons for mentions the generic recognizer does not know.
	MilitaryUnitLexicon []string
	WeaponLexicon       []string
}
