// Package progress turns daily review counts into dashboard figures.
package progress

import (
	"math"

	"github.com/vytor/studyflash/internal/models"
)

// ComputeDailyProgress returns the number of cards reviewed in log, or 0 when no log exists.
func ComputeDailyProgress(log *models.DailyStudyLog) int {
	if log == nil {
		return 0
	}
	return log.CardsReviewed
}

// ComputeProgressPercent returns completedToday as a percentage of dailyGoal, capped at 100.
// It returns nil when no positive goal is set.
func ComputeProgressPercent(completedToday int, dailyGoal *int) *int {
	if dailyGoal == nil || *dailyGoal <= 0 {
		return nil
	}
	if completedToday < 0 {
		completedToday = 0
	}
	pct := int(math.Round(float64(completedToday) / float64(*dailyGoal) * 100))
	if pct > 100 {
		pct = 100
	}
	return &pct
}
