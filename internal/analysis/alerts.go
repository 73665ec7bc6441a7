package analysis

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"ArgusIntel/internal/domain"
)

// AlertGenerator decides whether a classified article warrants alerts and
// composes their descriptions. Descriptions are template-built so the same
// inputs always produce the same text.
type AlertGenerator struct{}

// NewAlertGenerator returns a stateless generator.
func NewAlertGenerator() *AlertGenerator {
	return &AlertGenerator{}
}

// Generate applies the alerting rules:
//
//	HIGH   -> exactly one critical_threat alert
//	MEDIUM -> one security_watch alert, only when a concrete military unit
//	          or weapon system was mentioned
//	LOW    -> never alerts
func (g *AlertGenerator) Generate(level domain.ThreatLevel, entities []domain.Entity, res domain.ScoreResult) []domain.Alert {
	switch level {
	case domain.ThreatHigh:
		return []domain.Alert{{
			ID:          uuid.NewString(),
			Type:        domain.AlertCriticalThreat,
			Level:       domain.ThreatHigh,
			Description: criticalDescription(res),
		}}
	case domain.ThreatMedium:
		assets := defenseAssets(entities)
		if len(assets) == 0 {
			return nil
		}
		return []domain.Alert{{
			ID:          uuid.NewString(),
			Type:        domain.AlertSecurityWatch,
			Level:       domain.ThreatMedium,
			Description: fmt.Sprintf("Article contains medium-level security content mentioning defense assets: %s", strings.Join(assets, ", ")),
		}}
	default:
		return nil
	}
}

func criticalDescription(res domain.ScoreResult) string {
	desc := "Article contains high-level security content"
	if len(res.HighImpactMatches) > 0 {
		desc += fmt.Sprintf(". Key indicators: %s", strings.Join(res.HighImpactMatches, ", "))
	}
	if len(res.MatchedCategories) > 0 {
		desc += fmt.Sprintf(". Categories: %s", strings.Join(res.MatchedCategories, ", "))
	}
	return desc
}

func defenseAssets(entities []domain.Entity) []string {
	var assets []string
	for _, ent := range entities {
		if ent.Type == domain.EntityMilitaryUnit || ent.Type == domain.EntityWeapon {
			assets = append(assets, ent.Text)
		}
	}
	return assets
}
