package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/studyflash/internal/logger"
	"github.com/vytor/studyflash/internal/models"
	"github.com/vytor/studyflash/internal/repository"
)

type cardRepository struct {
	db *sql.DB
}

// NewCardRepository creates a new CardRepository implementation
func NewCardRepository(db *sql.DB) repository.CardRepository {
	return &cardRepository{db: db}
}

// visibleCards selects every card in a collection userID owns or is a member of,
// joined with userID's schedule row when one exists.
func visibleCards(userID int64) squirrel.SelectBuilder {
	return sqlBuilder.Select(
		"c.id", "c.collection_id", "c.kind", "c.content", "c.created_at",
		"s.interval_days", "s.ease_factor", "s.next_review", "s.times_reviewed",
		"s.consecutive_correct", "s.last_reviewed_at", "s.version",
	).
		From("cards c").
		Join("collections col ON col.id = c.collection_id").
		LeftJoin("card_schedules s ON s.card_id = c.id AND s.user_id = ?", userID).
		Where(squirrel.Or{
			squirrel.Eq{"col.owner_id": userID},
			squirrel.Expr("col.id IN (SELECT collection_id FROM collection_members WHERE user_id = ?)", userID),
		})
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (models.Card, error) {
	var c models.Card
	var interval, timesReviewed, consecutive, version sql.NullInt64
	var ease sql.NullFloat64
	var next, last sql.NullTime
	if err := row.Scan(&c.ID, &c.CollectionID, &c.Kind, &c.Content, &c.CreatedAt,
		&interval, &ease, &next, &timesReviewed, &consecutive, &last, &version); err != nil {
		return c, err
	}

	if !version.Valid {
		// never reviewed by this user
		c.EaseFactor = models.DefaultEaseFactor
		c.NextReview = c.CreatedAt
		return c, nil
	}
	c.IntervalDays = int(interval.Int64)
	c.EaseFactor = ease.Float64
	c.NextReview = next.Time
	c.TimesReviewed = int(timesReviewed.Int64)
	c.ConsecutiveCorrect = int(consecutive.Int64)
	c.Version = version.Int64
	if last.Valid {
		t := last.Time
		c.LastReviewedAt = &t
	}
	return c, nil
}

func (r *cardRepository) Insert(ctx context.Context, c models.Card) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("inserting card: collection_id=%d, kind=%s, tags=%v", c.CollectionID, c.Kind, c.TagIDs)

	var id int64
	err := inTx(ctx, r.db, func(q DBTX) error {
		res, err := q.ExecContext(ctx, `
INSERT INTO cards (collection_id, kind, content, created_at)
VALUES (?, ?, ?, ?)
`, c.CollectionID, c.Kind, c.Content, c.CreatedAt.UTC())
		if err != nil {
			return err
		}
		if id, err = res.LastInsertId(); err != nil {
			return err
		}
		for _, tag := range c.TagIDs {
			if _, err := q.ExecContext(ctx, `INSERT OR IGNORE INTO card_tags (card_id, tag_id) VALUES (?, ?)`, id, tag); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Error("failed to insert card: %v", err)
		return 0, err
	}
	log.Debug("card inserted: id=%d", id)
	return id, nil
}

func (r *cardRepository) GetForUser(ctx context.Context, userID, cardID int64) (*models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("getting card: user_id=%d, card_id=%d", userID, cardID)

	query, args, err := visibleCards(userID).Where(squirrel.Eq{"c.id": cardID}).ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	c, err := scanCard(conn(ctx, r.db).QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("card not visible: user_id=%d, card_id=%d", userID, cardID)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get card: %v", err)
		return nil, err
	}

	cards := []models.Card{c}
	if err := r.loadTags(ctx, cards); err != nil {
		return nil, err
	}
	return &cards[0], nil
}

func (r *cardRepository) ListDueForUser(ctx context.Context, userID int64, now time.Time) ([]models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("listing due cards: user_id=%d, now=%s", userID, now.Format(time.RFC3339))

	// julianday normalises the stored offsets before comparing
	query := visibleCards(userID).
		Where("julianday(COALESCE(s.next_review, c.created_at)) <= julianday(?)", now.UTC()).
		OrderBy("c.id")
	return r.list(ctx, query)
}

func (r *cardRepository) ListNewForUser(ctx context.Context, userID int64, limit int) ([]models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("listing new cards: user_id=%d, limit=%d", userID, limit)

	if limit <= 0 {
		return []models.Card{}, nil
	}
	query := visibleCards(userID).
		Where(squirrel.Or{squirrel.Eq{"s.interval_days": nil}, squirrel.Eq{"s.interval_days": 0}}).
		OrderBy("c.id").
		Limit(uint64(limit))
	return r.list(ctx, query)
}

func (r *cardRepository) list(ctx context.Context, q squirrel.SelectBuilder) ([]models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")

	query, args, err := q.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list cards: %v", err)
		return nil, err
	}
	defer rows.Close()

	cards := []models.Card{}
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			log.Error("failed to scan card row: %v", err)
			return nil, err
		}
		cards = append(cards, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	if err := r.loadTags(ctx, cards); err != nil {
		return nil, err
	}
	log.Debug("found %d cards", len(cards))
	return cards, nil
}

// tagChunkSize keeps the IN list well below sqlite's bound variable limit.
const tagChunkSize = 500

func (r *cardRepository) loadTags(ctx context.Context, cards []models.Card) error {
	index := make(map[int64]int, len(cards))
	for i, c := range cards {
		index[c.ID] = i
	}
	for start := 0; start < len(cards); start += tagChunkSize {
		end := min(start+tagChunkSize, len(cards))
		ids := make([]int64, 0, end-start)
		for _, c := range cards[start:end] {
			ids = append(ids, c.ID)
		}
		if err := r.loadTagChunk(ctx, cards, index, ids); err != nil {
			return err
		}
	}
	return nil
}

func (r *cardRepository) loadTagChunk(ctx context.Context, cards []models.Card, index map[int64]int, ids []int64) error {
	log := logger.FromContext(ctx).WithPrefix("card_repo")

	query, args, err := sqlBuilder.Select("card_id", "tag_id").
		From("card_tags").
		Where(squirrel.Eq{"card_id": ids}).
		OrderBy("card_id", "tag_id").
		ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return err
	}

	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to load card tags: %v", err)
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var cardID int64
		var tagID int
		if err := rows.Scan(&cardID, &tagID); err != nil {
			log.Error("failed to scan card tag row: %v", err)
			return err
		}
		i := index[cardID]
		cards[i].TagIDs = append(cards[i].TagIDs, tagID)
	}
	return rows.Err()
}

func (r *cardRepository) UpdateSchedule(ctx context.Context, userID int64, c models.Card) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("updating schedule: user_id=%d, card_id=%d, version=%d, interval=%d, ease=%.2f",
		userID, c.ID, c.Version, c.IntervalDays, c.EaseFactor)

	var lastReviewed any
	if c.LastReviewedAt != nil {
		lastReviewed = c.LastReviewedAt.UTC()
	}

	q := conn(ctx, r.db)
	var res sql.Result
	var err error
	if c.Version == 0 {
		res, err = q.ExecContext(ctx, `
INSERT INTO card_schedules (user_id, card_id, interval_days, ease_factor, next_review, times_reviewed, consecutive_correct, last_reviewed_at, version)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, 1)
ON CONFLICT (user_id, card_id) DO NOTHING
`, userID, c.ID, c.IntervalDays, c.EaseFactor, c.NextReview.UTC(), c.TimesReviewed, c.ConsecutiveCorrect, lastReviewed)
	} else {
		res, err = q.ExecContext(ctx, `
UPDATE card_schedules
SET interval_days = ?, ease_factor = ?, next_review = ?, times_reviewed = ?, consecutive_correct = ?, last_reviewed_at = ?, version = version + 1
WHERE user_id = ? AND card_id = ? AND version = ?
`, c.IntervalDays, c.EaseFactor, c.NextReview.UTC(), c.TimesReviewed, c.ConsecutiveCorrect, lastReviewed, userID, c.ID, c.Version)
	}
	if err != nil {
		log.Error("failed to update schedule: %v", err)
		return 0, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		log.Warn("stale schedule: user_id=%d, card_id=%d, version=%d", userID, c.ID, c.Version)
		return 0, repository.ErrStaleSchedule
	}
	return c.Version + 1, nil
}
