package service

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/court-vision/internal/datasource"
	"github.com/yourusername/court-vision/internal/models"
)

// DocumentValidator screens a props document for content the batch run
// cannot analyze. Problems are advisory: the run proceeds and skips the
// offending pieces, the validator just makes the skips visible up front.
type DocumentValidator struct {
	logger *logrus.Logger
}

// NewDocumentValidator creates a new props document validator
func NewDocumentValidator(baseLogger *logrus.Logger) *DocumentValidator {
	return &DocumentValidator{logger: baseLogger}
}

// ValidateEvent returns the problems that keep parts of an event out of
// the analysis
func (v *DocumentValidator) ValidateEvent(event *datasource.Event) []string {
	var problems []string

	if event.HomeTeam == "" {
		problems = append(problems, "home_team is required")
	}
	if event.AwayTeam == "" {
		problems = append(problems, "away_team is required; players cannot be matched to an opponent")
	}
	if len(event.Bookmakers) == 0 {
		problems = append(problems, "event has no bookmakers")
	}

	for _, bookmaker := range event.Bookmakers {
		if bookmaker.Key == "" {
			problems = append(problems, "bookmaker with empty key")
			continue
		}
		for _, market := range bookmaker.Markets {
			if _, err := models.ParseMarket(market.Key); err != nil {
				problems = append(problems, fmt.Sprintf("bookmaker %s carries unsupported market %q", bookmaker.Key, market.Key))
				continue
			}
			for _, outcome := range market.Outcomes {
				if outcome.Description == "" {
					problems = append(problems, fmt.Sprintf("market %s has an outcome with no player name", market.Key))
				}
				if outcome.Point <= 0 {
					problems = append(problems, fmt.Sprintf("market %s line for %q is %v", market.Key, outcome.Description, outcome.Point))
				}
			}
		}
	}

	return problems
}

// ValidateDocument walks every event, logs its problems and returns the
// total problem count
func (v *DocumentValidator) ValidateDocument(doc *datasource.PropsDocument) int {
	total := 0

	if doc.Skipped > 0 {
		v.logger.Warnf("Document dropped %d malformed events during decode", doc.Skipped)
		total += doc.Skipped
	}

	for _, eventID := range doc.EventIDs {
		event, ok := doc.Get(eventID)
		if !ok {
			continue
		}
		for _, problem := range v.ValidateEvent(event) {
			v.logger.WithField("event_id", eventID).Warn(problem)
			total++
		}
	}

	return total
}
