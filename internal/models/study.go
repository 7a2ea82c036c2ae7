package models

import "time"

// DateLayout is the calendar-date format used for study days.
const DateLayout = "2006-01-02"

// StudyDate returns the calendar date of t in loc.
func StudyDate(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateLayout)
}

type DailyStudyLog struct {
	UserID        int64  `json:"user_id"`
	StudyDate     string `json:"study_date"`
	CardsReviewed int    `json:"cards_reviewed"`
}

type UserStats struct {
	UserID        int64  `json:"user_id"`
	Username      string `json:"username"`
	CurrentStreak int    `json:"current_streak"`
	LastStudyDate string `json:"last_study_date,omitempty"`
	DailyGoal     *int   `json:"daily_goal,omitempty"`
}

// DailyProgress is the dashboard view of today's study.
type DailyProgress struct {
	StudyDate      string `json:"study_date"`
	CompletedToday int    `json:"completed_today"`
	DailyGoal      *int   `json:"daily_goal"`
	Percent        *int   `json:"percent"`
	CurrentStreak  int    `json:"current_streak"`
}
