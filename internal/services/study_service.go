package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vytor/studyflash/internal/clock"
	"github.com/vytor/studyflash/internal/due"
	"github.com/vytor/studyflash/internal/errors"
	"github.com/vytor/studyflash/internal/flashcard"
	"github.com/vytor/studyflash/internal/logger"
	"github.com/vytor/studyflash/internal/models"
	"github.com/vytor/studyflash/internal/progress"
	"github.com/vytor/studyflash/internal/repository"
	"github.com/vytor/studyflash/internal/session"
	"github.com/vytor/studyflash/internal/tags"
)

// StudyService handles rating cards, building review queues and study sessions
type StudyService interface {
	RateCard(ctx context.Context, userID, cardID int64, rating models.Rating, opts RateOptions) (*RateResult, error)
	GetDueCards(ctx context.Context, userID int64, batchNumber int, tagIDs []int) (*models.DueBatch, error)
	StartSession(ctx context.Context, userID int64) (string, error)
	SessionTally(ctx context.Context, userID int64, sessionID string) (session.Tally, error)
	EndSession(ctx context.Context, userID int64, sessionID string) (*session.Summary, error)
}

// RateOptions carries the optional parts of a rating.
type RateOptions struct {
	SessionID      string
	IdempotencyKey string
	TimeSeconds    float64
	// TagIDs scopes the next card to the queue the user is studying.
	TagIDs []int
}

// RateResult is the rescheduled card plus the next card in the user's queue.
// NextCard is nil when nothing is due.
type RateResult struct {
	Card           models.Card  `json:"card"`
	NextCard       *models.Card `json:"next_card"`
	RemainingCount int          `json:"remaining_count"`
}

// StudyDeps groups what the study service needs.
type StudyDeps struct {
	Cards    repository.CardRepository
	Reviews  repository.ReviewRepository
	Logs     repository.StudyLogRepository
	Users    repository.UserRepository
	Tx       repository.Transactor
	Sessions session.Store
	Due      *due.Resolver
	Tags     *tags.Resolver
	Clock    clock.Clock
	Location *time.Location
	Streak   session.StreakRule
	Params   flashcard.Params
}

type studyService struct {
	StudyDeps
}

// NewStudyService creates a new StudyService
func NewStudyService(deps StudyDeps) StudyService {
	if deps.Clock == nil {
		deps.Clock = clock.Real{}
	}
	if deps.Location == nil {
		deps.Location = time.UTC
	}
	if deps.Params.EaseAdjustment == nil {
		deps.Params = flashcard.DefaultParams()
	}
	return &studyService{StudyDeps: deps}
}

func (s *studyService) RateCard(ctx context.Context, userID, cardID int64, rating models.Rating, opts RateOptions) (*RateResult, error) {
	log := logger.FromContext(ctx)
	log.Debug("rating card: user_id=%d, card_id=%d, rating=%s", userID, cardID, rating)

	if !rating.Valid() {
		return nil, errors.NewValidationError("rating", "must be one of again, hard, good, easy")
	}
	if opts.TimeSeconds < 0 {
		return nil, errors.NewValidationError("time_seconds", "cannot be negative")
	}
	if err := s.validateTags(opts.TagIDs); err != nil {
		return nil, err
	}

	now := s.Clock.Now()
	var rated models.Card
	err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if opts.IdempotencyKey != "" {
			seen, err := s.Reviews.ExistsByKey(ctx, userID, opts.IdempotencyKey)
			if err != nil {
				return err
			}
			if seen {
				return repository.ErrDuplicateReview
			}
		}

		card, err := s.Cards.GetForUser(ctx, userID, cardID)
		if err != nil {
			return err
		}
		if card == nil {
			return errors.NewNotFoundError("card", cardID)
		}

		updated, err := s.Params.ApplyRating(*card, rating, now)
		if err != nil {
			return err
		}

		version, err := s.Cards.UpdateSchedule(ctx, userID, updated)
		if err != nil {
			return err
		}
		updated.Version = version

		if _, err := s.Reviews.Insert(ctx, models.Review{
			UserID:         userID,
			CardID:         cardID,
			Rating:         rating,
			IntervalDays:   updated.IntervalDays,
			EaseFactor:     updated.EaseFactor,
			TimeSeconds:    opts.TimeSeconds,
			IdempotencyKey: opts.IdempotencyKey,
			ReviewedAt:     now,
		}); err != nil {
			return err
		}

		rated = updated
		return nil
	})
	if err != nil {
		return nil, s.rateError(ctx, userID, cardID, err)
	}
	log.Debug("card rescheduled: card_id=%d, interval=%d, ease=%.2f, next_review=%s",
		cardID, rated.IntervalDays, rated.EaseFactor, rated.NextReview.Format(time.RFC3339))

	if opts.SessionID != "" {
		s.Sessions.Update(userID, opts.SessionID, func(t session.Tally) session.Tally {
			if t.StartedAt.IsZero() {
				t.StartedAt = now
			}
			return t.Record(rating)
		})
	}

	result := &RateResult{Card: rated}
	batch, err := s.Due.Resolve(ctx, userID, 0, opts.TagIDs, now)
	if err != nil {
		// the rating is committed; only the look-ahead is missing
		log.Warn("failed to resolve next card: %v", err)
		return result, nil
	}
	if !batch.IsNewCardsFallback && len(batch.Cards) > 0 {
		next := batch.Cards[0]
		result.NextCard = &next
		result.RemainingCount = batch.TotalDue
	}
	return result, nil
}

func (s *studyService) rateError(ctx context.Context, userID, cardID int64, err error) error {
	log := logger.FromContext(ctx)

	switch {
	case errors.IsAppError(err):
		return err
	case stderrors.Is(err, repository.ErrDuplicateReview):
		log.Info("duplicate rating ignored: user_id=%d, card_id=%d", userID, cardID)
		return errors.NewConflictError("rating already recorded", err)
	case stderrors.Is(err, repository.ErrStaleSchedule):
		log.Warn("concurrent rating lost: user_id=%d, card_id=%d", userID, cardID)
		return errors.NewConflictError("card was rated concurrently, reload and retry", err)
	case stderrors.Is(err, flashcard.ErrCorruptState):
		log.Error("invariant violation: user_id=%d, card_id=%d: %v", userID, cardID, err)
		return errors.NewInvariantError(err)
	case stderrors.Is(err, flashcard.ErrInvalidRating):
		return errors.NewValidationError("rating", err.Error())
	}
	log.Error("failed to rate card: %v", err)
	return errors.NewStorageError(err)
}

func (s *studyService) GetDueCards(ctx context.Context, userID int64, batchNumber int, tagIDs []int) (*models.DueBatch, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting due cards: user_id=%d, batch=%d, tags=%v", userID, batchNumber, tagIDs)

	if batchNumber < 0 {
		return nil, errors.NewValidationError("batch", "cannot be negative")
	}
	if err := s.validateTags(tagIDs); err != nil {
		return nil, err
	}

	batch, err := s.Due.Resolve(ctx, userID, batchNumber, tagIDs, s.Clock.Now())
	if err != nil {
		log.Error("failed to resolve due cards: %v", err)
		return nil, errors.NewStorageError(err)
	}
	return batch, nil
}

func (s *studyService) validateTags(tagIDs []int) error {
	var unknown []string
	for _, id := range tagIDs {
		if _, ok := s.Tags.Lookup(id); !ok {
			unknown = append(unknown, fmt.Sprint(id))
		}
	}
	if len(unknown) > 0 {
		return errors.NewValidationError("tags", "unknown tag ids: "+strings.Join(unknown, ","))
	}
	return nil
}

func (s *studyService) StartSession(ctx context.Context, userID int64) (string, error) {
	id := uuid.NewString()
	s.Sessions.Set(userID, id, session.Tally{StartedAt: s.Clock.Now()})
	logger.FromContext(ctx).Debug("session started: user_id=%d, session_id=%s", userID, id)
	return id, nil
}

func (s *studyService) SessionTally(ctx context.Context, userID int64, sessionID string) (session.Tally, error) {
	if sessionID == "" {
		return session.Tally{}, errors.NewValidationError("session_id", "is required")
	}
	return s.Sessions.Get(userID, sessionID), nil
}

// EndSession folds the session's tally into the user's streak and daily log.
// A session with no reviewed cards writes nothing. The tally is taken out of
// the store up front so a concurrent end of the same session counts nothing,
// and it is merged back if the writes fail.
func (s *studyService) EndSession(ctx context.Context, userID int64, sessionID string) (*session.Summary, error) {
	log := logger.FromContext(ctx)

	if sessionID == "" {
		return nil, errors.NewValidationError("session_id", "is required")
	}

	tally := s.Sessions.Take(userID, sessionID)
	today := models.StudyDate(s.Clock.Now(), s.Location)
	summary := &session.Summary{SessionID: sessionID, Tally: tally}
	log.Debug("ending session: user_id=%d, session_id=%s, cards=%d, date=%s", userID, sessionID, tally.CardsReviewed, today)

	var goal *int
	err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		stats, err := s.Users.GetStats(ctx, userID)
		if err != nil {
			return err
		}
		if stats == nil {
			return errors.NewNotFoundError("user", userID)
		}
		goal = stats.DailyGoal

		prior, err := s.Logs.GetForDate(ctx, userID, today)
		if err != nil {
			return err
		}
		summary.PriorToday = progress.ComputeDailyProgress(prior)
		summary.CurrentStreak = stats.CurrentStreak

		if tally.CardsReviewed == 0 {
			return nil
		}

		streak, changed := s.Streak.Next(*stats, today)
		if changed {
			if err := s.Users.SetStreak(ctx, userID, streak, today); err != nil {
				return err
			}
		}
		summary.CurrentStreak = streak
		summary.NewStreakDay = changed
		return s.Logs.Increment(ctx, userID, today, tally.CardsReviewed)
	})
	if err != nil {
		if tally != (session.Tally{}) {
			s.Sessions.Update(userID, sessionID, tally.Merge)
		}
		if errors.IsAppError(err) {
			return nil, err
		}
		log.Error("failed to end session: %v", err)
		return nil, errors.NewStorageError(err)
	}

	summary.TodayTotal = summary.PriorToday + tally.CardsReviewed
	summary.ProgressPercent = progress.ComputeProgressPercent(summary.TodayTotal, goal)
	log.Info("session ended: user_id=%d, cards=%d, today=%d, streak=%d", userID, tally.CardsReviewed, summary.TodayTotal, summary.CurrentStreak)
	return summary, nil
}
