package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/vytor/studyflash/internal/logger"
	"github.com/vytor/studyflash/internal/models"
	"github.com/vytor/studyflash/internal/repository"
)

type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository implementation
func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, username string) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("creating user: username=%s", username)

	res, err := conn(ctx, r.db).ExecContext(ctx, `INSERT INTO users (username) VALUES (?)`, username)
	if err != nil {
		log.Error("failed to create user: %v", err)
		return 0, err
	}
	return res.LastInsertId()
}

func (r *userRepository) GetStats(ctx context.Context, userID int64) (*models.UserStats, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")

	var s models.UserStats
	var lastStudy sql.NullString
	var goal sql.NullInt64
	err := conn(ctx, r.db).QueryRowContext(ctx, `
SELECT id, username, current_streak, last_study_date, daily_goal FROM users WHERE id = ?
`, userID).Scan(&s.UserID, &s.Username, &s.CurrentStreak, &lastStudy, &goal)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("user not found: id=%d", userID)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get user stats: %v", err)
		return nil, err
	}
	s.LastStudyDate = lastStudy.String
	if goal.Valid {
		g := int(goal.Int64)
		s.DailyGoal = &g
	}
	return &s, nil
}

func (r *userRepository) SetStreak(ctx context.Context, userID int64, streak int, lastStudyDate string) error {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("setting streak: user_id=%d, streak=%d, last_study_date=%s", userID, streak, lastStudyDate)

	_, err := conn(ctx, r.db).ExecContext(ctx, `
UPDATE users SET current_streak = ?, last_study_date = ? WHERE id = ?
`, streak, lastStudyDate, userID)
	if err != nil {
		log.Error("failed to set streak: %v", err)
	}
	return err
}

func (r *userRepository) SetDailyGoal(ctx context.Context, userID int64, goal *int) error {
	log := logger.FromContext(ctx).WithPrefix("user_repo")

	var v any
	if goal != nil {
		v = *goal
	}
	_, err := conn(ctx, r.db).ExecContext(ctx, `UPDATE users SET daily_goal = ? WHERE id = ?`, v, userID)
	if err != nil {
		log.Error("failed to set daily goal: %v", err)
	}
	return err
}
