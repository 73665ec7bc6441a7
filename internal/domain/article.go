package domain

import "time"

// Article is a cleaned plain-text news item handed over by the scraper.
// The URL is the unique key used for deduplication downstream.
type Article struct {
	Title     string
	Content   string
	URL       string
	Source    string
	ScrapedAt time.Time
}

// CandidateLabel is the generic label assigned by the external NER capability.
type CandidateLabel string

const (
	LabelPerson CandidateLabel = "PERSON"
	LabelOrg    CandidateLabel = "ORG"
	LabelGPE    CandidateLabel = "GPE"
	LabelOther  CandidateLabel = "OTHER"
)

// EntityCandidate is a raw mention produced by the recognizer. Transient,
// never persisted; the extractor maps it onto domain entity types.
type EntityCandidate struct {
	Text  string
	Label CandidateLabel
	Start int
	End   int
}

// EntityType classifies an extracted mention into a domain category.
type EntityType string

const (
	EntityPerson       EntityType = "PERSON"
	EntityOrganization EntityType = "ORG"
	EntityLocation     EntityType = "LOCATION"
	EntityMilitaryUnit EntityType = "MILITARY_UNIT"
	EntityWeapon       EntityType = "WEAPON"
)

// Entity categories as stored alongside each mention.
const (
	CategoryStandard = "STANDARD"
	CategoryDefense  = "DEFENSE"
)

// Entity is a deduplicated, domain-typed mention extracted from an article.
type Entity struct {
	Text     string
	Type     EntityType
	Category string
}
