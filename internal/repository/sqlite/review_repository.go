package sqlite

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/studyflash/internal/logger"
	"github.com/vytor/studyflash/internal/models"
	"github.com/vytor/studyflash/internal/repository"
)

type reviewRepository struct {
	db *sql.DB
}

// NewReviewRepository creates a new ReviewRepository implementation
func NewReviewRepository(db *sql.DB) repository.ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Insert(ctx context.Context, rv models.Review) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("review_repo")
	log.Debug("inserting review: user_id=%d, card_id=%d, rating=%s, time=%.2fs", rv.UserID, rv.CardID, rv.Rating, rv.TimeSeconds)

	var key any
	if rv.IdempotencyKey != "" {
		key = rv.IdempotencyKey
	}

	res, err := conn(ctx, r.db).ExecContext(ctx, `
INSERT INTO review_history (user_id, card_id, rating, interval_days, ease_factor, time_seconds, idempotency_key, reviewed_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`, rv.UserID, rv.CardID, int(rv.Rating), rv.IntervalDays, rv.EaseFactor, rv.TimeSeconds, key, rv.ReviewedAt.UTC())
	if err != nil {
		if isUniqueViolation(err) {
			log.Debug("duplicate review key: user_id=%d, key=%s", rv.UserID, rv.IdempotencyKey)
			return 0, repository.ErrDuplicateReview
		}
		log.Error("failed to insert review: %v", err)
		return 0, err
	}
	return res.LastInsertId()
}

func (r *reviewRepository) ExistsByKey(ctx context.Context, userID int64, key string) (bool, error) {
	if key == "" {
		return false, nil
	}
	var exists bool
	err := conn(ctx, r.db).QueryRowContext(ctx, `
SELECT EXISTS (SELECT 1 FROM review_history WHERE user_id = ? AND idempotency_key = ?)
`, userID, key).Scan(&exists)
	if err != nil {
		logger.FromContext(ctx).WithPrefix("review_repo").Error("failed to check review key: %v", err)
	}
	return exists, err
}

func (r *reviewRepository) ListForCard(ctx context.Context, userID, cardID int64) ([]models.Review, error) {
	log := logger.FromContext(ctx).WithPrefix("review_repo")

	query, args, err := sqlBuilder.Select(
		"id", "user_id", "card_id", "rating", "interval_days", "ease_factor", "time_seconds", "idempotency_key", "reviewed_at",
	).
		From("review_history").
		Where(squirrel.Eq{"user_id": userID, "card_id": cardID}).
		OrderBy("reviewed_at", "id").
		ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list reviews: %v", err)
		return nil, err
	}
	defer rows.Close()

	var reviews []models.Review
	for rows.Next() {
		var rv models.Review
		var key sql.NullString
		if err := rows.Scan(&rv.ID, &rv.UserID, &rv.CardID, &rv.Rating, &rv.IntervalDays, &rv.EaseFactor, &rv.TimeSeconds, &key, &rv.ReviewedAt); err != nil {
			log.Error("failed to scan review row: %v", err)
			return nil, err
		}
		rv.IdempotencyKey = key.String
		reviews = append(reviews, rv)
	}
	return reviews, rows.Err()
}
