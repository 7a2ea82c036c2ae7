package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/vytor/studyflash/internal/logger"
	"github.com/vytor/studyflash/internal/models"
	"github.com/vytor/studyflash/internal/repository"
)

type studyLogRepository struct {
	db *sql.DB
}

// NewStudyLogRepository creates a new StudyLogRepository implementation
func NewStudyLogRepository(db *sql.DB) repository.StudyLogRepository {
	return &studyLogRepository{db: db}
}

func (r *studyLogRepository) GetForDate(ctx context.Context, userID int64, date string) (*models.DailyStudyLog, error) {
	log := logger.FromContext(ctx).WithPrefix("study_log_repo")

	l := models.DailyStudyLog{UserID: userID, StudyDate: date}
	err := conn(ctx, r.db).QueryRowContext(ctx, `
SELECT cards_reviewed FROM daily_study_logs WHERE user_id = ? AND study_date = ?
`, userID, date).Scan(&l.CardsReviewed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get study log: %v", err)
		return nil, err
	}
	return &l, nil
}

// Increment adds cards to the user's log for date, creating it on first use.
func (r *studyLogRepository) Increment(ctx context.Context, userID int64, date string, cards int) error {
	log := logger.FromContext(ctx).WithPrefix("study_log_repo")
	log.Debug("incrementing study log: user_id=%d, date=%s, cards=%d", userID, date, cards)

	_, err := conn(ctx, r.db).ExecContext(ctx, `
INSERT INTO daily_study_logs (user_id, study_date, cards_reviewed)
VALUES (?, ?, ?)
ON CONFLICT (user_id, study_date) DO UPDATE SET cards_reviewed = cards_reviewed + excluded.cards_reviewed
`, userID, date, cards)
	if err != nil {
		log.Error("failed to increment study log: %v", err)
	}
	return err
}
