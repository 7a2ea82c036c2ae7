package session

import (
	"time"

	"github.com/vytor/studyflash/internal/models"
)

// StreakRule decides how a finished session moves the user's streak.
type StreakRule struct {
	// ResetOnGap restarts the streak at 1 when the previous study day is not yesterday.
	ResetOnGap bool
}

// Next returns the streak after studying on today (YYYY-MM-DD) and whether it changed.
// The streak moves at most once per calendar day.
func (r StreakRule) Next(stats models.UserStats, today string) (streak int, changed bool) {
	if stats.LastStudyDate == today {
		return stats.CurrentStreak, false
	}
	if r.ResetOnGap && stats.LastStudyDate != "" && !isDayBefore(stats.LastStudyDate, today) {
		return 1, true
	}
	return stats.CurrentStreak + 1, true
}

func isDayBefore(prev, today string) bool {
	t, err := time.Parse(models.DateLayout, today)
	if err != nil {
		return false
	}
	return t.AddDate(0, 0, -1).Format(models.DateLayout) == prev
}
