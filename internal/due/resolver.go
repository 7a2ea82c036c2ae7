package due

import (
	"context"
	"fmt"
	"time"

	"github.com/vytor/studyflash/internal/logger"
	"github.com/vytor/studyflash/internal/models"
	"github.com/vytor/studyflash/internal/repository"
)

const DefaultBatchSize = 50

// Resolver builds a user's global review queue across every collection they can study.
type Resolver struct {
	cards     repository.CardRepository
	batchSize int
}

func NewResolver(cards repository.CardRepository, batchSize int) *Resolver {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Resolver{cards: cards, batchSize: batchSize}
}

func (r *Resolver) BatchSize() int {
	return r.batchSize
}

// Resolve returns batch batchNumber of the cards due at now, optionally
// restricted to tagIDs. Paging and TotalDue follow the filtered queue. When
// nothing matches, batch 0 holds up to one batch of never-learned cards and is
// flagged as a fallback; TotalDue then reports the unfiltered due count.
func (r *Resolver) Resolve(ctx context.Context, userID int64, batchNumber int, tagIDs []int, now time.Time) (*models.DueBatch, error) {
	log := logger.FromContext(ctx).WithPrefix("due")

	candidates, err := r.cards.ListDueForUser(ctx, userID, now)
	if err != nil {
		return nil, fmt.Errorf("list due cards: %w", err)
	}

	dueCards, notDue := Partition(candidates, now)
	if len(notDue) > 0 {
		log.Debug("dropped %d candidates not due at %s for user %d", len(notDue), now.Format(time.RFC3339Nano), userID)
	}
	filtered := FilterByTags(dueCards, tagIDs)

	if len(filtered) == 0 {
		return r.fallback(ctx, userID, batchNumber, len(dueCards))
	}

	SortQueue(filtered)
	page := Page(filtered, batchNumber, r.batchSize)
	log.Debug("user %d: %d due, %d after tag filter, batch %d has %d cards", userID, len(dueCards), len(filtered), batchNumber, len(page))

	return &models.DueBatch{
		Cards:          nonNil(page),
		TotalDue:       len(filtered),
		BatchNumber:    batchNumber,
		HasMoreBatches: (batchNumber+1)*r.batchSize < len(filtered),
	}, nil
}

// fallback serves never-learned cards as a single batch, ignoring any tag filter.
func (r *Resolver) fallback(ctx context.Context, userID int64, batchNumber, totalDue int) (*models.DueBatch, error) {
	log := logger.FromContext(ctx).WithPrefix("due")

	batch := &models.DueBatch{
		Cards:       []models.Card{},
		TotalDue:    totalDue,
		BatchNumber: batchNumber,
	}
	if batchNumber != 0 {
		log.Debug("no due cards for user %d and batch %d is past the fallback batch", userID, batchNumber)
		return batch, nil
	}

	fresh, err := r.cards.ListNewForUser(ctx, userID, r.batchSize)
	if err != nil {
		return nil, fmt.Errorf("list new cards: %w", err)
	}
	SortQueue(fresh)
	log.Debug("no due cards for user %d, fallback to %d new cards", userID, len(fresh))

	batch.Cards = nonNil(fresh)
	batch.IsNewCardsFallback = len(fresh) > 0
	return batch, nil
}

func nonNil(cards []models.Card) []models.Card {
	if cards == nil {
		return []models.Card{}
	}
	return cards
}
