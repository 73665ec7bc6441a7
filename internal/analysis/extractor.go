package analysis

import (
	"context"
	"log/slog"
	"strings"

	"ArgusIntel/internal/domain"
	"ArgusIntel/internal/ports"
)

// Markers that tag a generic ORG candidate as a military unit.
var militaryOrgMarkers = []string{
	"army", "navy", "force", "military", "defense", "regiment", "brigade", "battalion",
}

// Extractor turns raw article text into deduplicated domain entities. The
// generic recognizer provides person/organization/location candidates; the
// curated lexicons catch military units and weapon systems it does not know.
type Extractor struct {
	recognizer    ports.EntityRecognizer
	militaryUnits []string
	weapons       []string
	logger        *slog.Logger
}

// NewExtractor wires the injectable recognizer with the configured lexicons.
func NewExtractor(cfg Config, recognizer ports.EntityRecognizer, logger *slog.Logger) *Extractor {
	return &Extractor{
		recognizer:    recognizer,
		militaryUnits: cfg.MilitaryUnitLexicon,
		weapons:       cfg.WeaponLexicon,
		logger:        logger,
	}
}

// Extract runs the recognizer once and scans the lexicons independently.
// When the recognizer is unavailable the lexicon-derived entities are still
// returned and degraded reports true; extraction never fails the pipeline.
func (e *Extractor) Extract(ctx context.Context, text string) (entities []domain.Entity, degraded bool) {
	seen := map[string]struct{}{}
	genericTexts := map[string]struct{}{}

	add := func(ent domain.Entity) {
		key := normalizeEntityText(ent.Text) + "|" + string(ent.Type)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		entities = append(entities, ent)
	}

	if e.recognizer != nil {
		candidates, err := e.recognizer.Recognize(ctx, text)
		if err != nil {
			degraded = true
			if e.logger != nil {
				e.logger.Warn("recognizer unavailable, falling back to lexicons", "error", err)
			}
		} else {
			for _, cand := range candidates {
				ent, ok := mapCandidate(cand)
				if !ok {
					continue
				}
				genericTexts[normalizeEntityText(ent.Text)] = struct{}{}
				add(ent)
				if ent.Type == domain.EntityOrganization && isMilitaryOrg(ent.Text) {
					add(domain.Entity{Text: ent.Text, Type: domain.EntityMilitaryUnit, Category: domain.CategoryDefense})
				}
			}
		}
	} else {
		degraded = true
	}

	lower := strings.ToLower(text)
	e.scanLexicon(lower, e.militaryUnits, domain.EntityMilitaryUnit, genericTexts, add)
	e.scanLexicon(lower, e.weapons, domain.EntityWeapon, genericTexts, add)

	return entities, degraded
}

func (e *Extractor) scanLexicon(lowerText string, lexicon []string, typ domain.EntityType, covered map[string]struct{}, add func(domain.Entity)) {
	for _, term := range lexicon {
		if !strings.Contains(lowerText, strings.ToLower(term)) {
			continue
		}
		if _, ok := covered[normalizeEntityText(term)]; ok {
			continue
		}
		add(domain.Entity{Text: term, Type: typ, Category: domain.CategoryDefense})
	}
}

func mapCandidate(cand domain.EntityCandidate) (domain.Entity, bool) {
	text := strings.TrimSpace(cand.Text)
	if len([]rune(text)) < 2 {
		return domain.Entity{}, false
	}

	switch cand.Label {
	case domain.LabelPerson:
		return domain.Entity{Text: text, Type: domain.EntityPerson, Category: domain.CategoryStandard}, true
	case domain.LabelOrg:
		return domain.Entity{Text: text, Type: domain.EntityOrganization, Category: domain.CategoryStandard}, true
	case domain.LabelGPE:
		return domain.Entity{Text: text, Type: domain.EntityLocation, Category: domain.CategoryStandard}, true
	default:
		return domain.Entity{}, false
	}
}

func isMilitaryOrg(text string) bool {
	lower := strings.ToLower(text)
	for _, marker := range militaryOrgMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// normalizeEntityText lowercases, trims, and collapses internal whitespace
// so dedup keys are stable across formatting variants.
func normalizeEntityText(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}
