package services

import (
	"context"
	"time"

	"github.com/vytor/studyflash/internal/clock"
	"github.com/vytor/studyflash/internal/errors"
	"github.com/vytor/studyflash/internal/logger"
	"github.com/vytor/studyflash/internal/models"
	"github.com/vytor/studyflash/internal/progress"
	"github.com/vytor/studyflash/internal/repository"
)

// ProgressService handles the daily goal and today's progress towards it
type ProgressService interface {
	GetDailyProgress(ctx context.Context, userID int64) (*models.DailyProgress, error)
	SetDailyGoal(ctx context.Context, userID int64, goal *int) error
}

type progressService struct {
	users    repository.UserRepository
	logs     repository.StudyLogRepository
	clock    clock.Clock
	location *time.Location
}

// NewProgressService creates a new ProgressService
func NewProgressService(users repository.UserRepository, logs repository.StudyLogRepository, clk clock.Clock, loc *time.Location) ProgressService {
	if clk == nil {
		clk = clock.Real{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &progressService{users: users, logs: logs, clock: clk, location: loc}
}

func (s *progressService) GetDailyProgress(ctx context.Context, userID int64) (*models.DailyProgress, error) {
	log := logger.FromContext(ctx)
	today := models.StudyDate(s.clock.Now(), s.location)
	log.Debug("getting daily progress: user_id=%d, date=%s", userID, today)

	stats, err := s.users.GetStats(ctx, userID)
	if err != nil {
		log.Error("failed to get user stats: %v", err)
		return nil, errors.NewStorageError(err)
	}
	if stats == nil {
		return nil, errors.NewNotFoundError("user", userID)
	}

	studyLog, err := s.logs.GetForDate(ctx, userID, today)
	if err != nil {
		log.Error("failed to get study log: %v", err)
		return nil, errors.NewStorageError(err)
	}

	completed := progress.ComputeDailyProgress(studyLog)
	return &models.DailyProgress{
		StudyDate:      today,
		CompletedToday: completed,
		DailyGoal:      stats.DailyGoal,
		Percent:        progress.ComputeProgressPercent(completed, stats.DailyGoal),
		CurrentStreak:  stats.CurrentStreak,
	}, nil
}

// SetDailyGoal sets a positive goal, or clears it when goal is nil.
func (s *progressService) SetDailyGoal(ctx context.Context, userID int64, goal *int) error {
	log := logger.FromContext(ctx)

	if goal != nil && *goal <= 0 {
		return errors.NewValidationError("daily_goal", "must be positive")
	}

	stats, err := s.users.GetStats(ctx, userID)
	if err != nil {
		log.Error("failed to get user stats: %v", err)
		return errors.NewStorageError(err)
	}
	if stats == nil {
		return errors.NewNotFoundError("user", userID)
	}

	if err := s.users.SetDailyGoal(ctx, userID, goal); err != nil {
		log.Error("failed to set daily goal: %v", err)
		return errors.NewStorageError(err)
	}
	log.Info("daily goal updated: user_id=%d", userID)
	return nil
}
