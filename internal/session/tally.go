// Package session tracks a live study session and derives streak updates from it.
package session

import (
	"time"

	"github.com/vytor/studyflash/internal/models"
)

// Tally is the running count of ratings in one session.
type Tally struct {
	Again         int       `json:"again"`
	Hard          int       `json:"hard"`
	Good          int       `json:"good"`
	Easy          int       `json:"easy"`
	CardsReviewed int       `json:"cards_reviewed"`
	StartedAt     time.Time `json:"started_at"`
}

// Record returns t with one more rating counted. Invalid ratings are ignored.
func (t Tally) Record(r models.Rating) Tally {
	switch r {
	case models.RatingAgain:
		t.Again++
	case models.RatingHard:
		t.Hard++
	case models.RatingGood:
		t.Good++
	case models.RatingEasy:
		t.Easy++
	default:
		return t
	}
	t.CardsReviewed++
	return t
}

// Merge adds o's counts to t and keeps the earlier non-zero start time.
func (t Tally) Merge(o Tally) Tally {
	t.Again += o.Again
	t.Hard += o.Hard
	t.Good += o.Good
	t.Easy += o.Easy
	t.CardsReviewed += o.CardsReviewed
	if t.StartedAt.IsZero() || (!o.StartedAt.IsZero() && o.StartedAt.Before(t.StartedAt)) {
		t.StartedAt = o.StartedAt
	}
	return t
}

// Summary is reported when a session ends.
type Summary struct {
	SessionID       string `json:"session_id"`
	Tally           Tally  `json:"tally"`
	PriorToday      int    `json:"prior_today"`
	TodayTotal      int    `json:"today_total"`
	CurrentStreak   int    `json:"current_streak"`
	NewStreakDay    bool   `json:"new_streak_day"`
	ProgressPercent *int   `json:"progress_percent"`
}
