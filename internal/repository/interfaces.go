package repository

import (
	"context"
	"errors"
	"time"

	"github.com/vytor/studyflash/internal/models"
)

var (
	// ErrStaleSchedule is returned when a schedule write loses its version check.
	ErrStaleSchedule = errors.New("schedule was modified concurrently")
	// ErrDuplicateReview is returned when an idempotency key was already used by the user.
	ErrDuplicateReview = errors.New("duplicate review")
)

// CardRepository handles cards and the per-user schedule attached to each of them.
// Read methods return cards as seen by userID: a card the user never reviewed
// carries the creation defaults.
type CardRepository interface {
	Insert(ctx context.Context, card models.Card) (int64, error)
	GetForUser(ctx context.Context, userID, cardID int64) (*models.Card, error)
	// ListDueForUser returns the cards whose next review is at or before now.
	ListDueForUser(ctx context.Context, userID int64, now time.Time) ([]models.Card, error)
	ListNewForUser(ctx context.Context, userID int64, limit int) ([]models.Card, error)
	// UpdateSchedule stores card's schedule for userID if the stored version
	// still equals card.Version, and bumps the version.
	UpdateSchedule(ctx context.Context, userID int64, card models.Card) (int64, error)
}

// ReviewRepository handles review history.
type ReviewRepository interface {
	Insert(ctx context.Context, review models.Review) (int64, error)
	ExistsByKey(ctx context.Context, userID int64, key string) (bool, error)
	ListForCard(ctx context.Context, userID, cardID int64) ([]models.Review, error)
}

// StudyLogRepository handles daily study logs.
type StudyLogRepository interface {
	GetForDate(ctx context.Context, userID int64, date string) (*models.DailyStudyLog, error)
	Increment(ctx context.Context, userID int64, date string, cards int) error
}

// UserRepository handles users and their streak and goal state.
type UserRepository interface {
	Create(ctx context.Context, username string) (int64, error)
	GetStats(ctx context.Context, userID int64) (*models.UserStats, error)
	SetStreak(ctx context.Context, userID int64, streak int, lastStudyDate string) error
	SetDailyGoal(ctx context.Context, userID int64, goal *int) error
}

// CollectionRepository handles collections and their membership.
type CollectionRepository interface {
	Insert(ctx context.Context, c models.Collection) (int64, error)
	AddMember(ctx context.Context, collectionID, userID int64) error
	ListForUser(ctx context.Context, userID int64) ([]models.Collection, error)
}

// Transactor runs fn in a single transaction. Repositories called with the
// ctx passed to fn join that transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
