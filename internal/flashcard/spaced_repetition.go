package flashcard

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/vytor/studyflash/internal/models"
)

var (
	// ErrInvalidRating means the rating is outside Again..Easy.
	ErrInvalidRating = errors.New("invalid rating")
	// ErrCorruptState means the stored schedule breaks the card invariants.
	ErrCorruptState = errors.New("corrupt card schedule")
)

// ApplyReview updates card scheduling with the default parameters.
func ApplyReview(card models.Card, rating models.Rating, now time.Time) (models.Card, error) {
	return DefaultParams().ApplyRating(card, rating, now)
}

// ApplyRating returns card rescheduled for rating at now. The input card is not modified.
func (p Params) ApplyRating(card models.Card, rating models.Rating, now time.Time) (models.Card, error) {
	if !rating.Valid() {
		return card, fmt.Errorf("%w: %d", ErrInvalidRating, int(rating))
	}
	if card.EaseFactor < p.MinEaseFactor || math.IsNaN(card.EaseFactor) {
		return card, fmt.Errorf("%w: card %d has ease factor %.2f", ErrCorruptState, card.ID, card.EaseFactor)
	}
	if card.IntervalDays < 0 {
		return card, fmt.Errorf("%w: card %d has interval %d", ErrCorruptState, card.ID, card.IntervalDays)
	}

	interval := p.nextInterval(card.IntervalDays, card.EaseFactor, rating)

	ef := card.EaseFactor + p.EaseAdjustment[rating]
	if ef < p.MinEaseFactor {
		ef = p.MinEaseFactor
	}

	card.TimesReviewed++
	if rating.Passed() {
		card.ConsecutiveCorrect++
	} else {
		card.ConsecutiveCorrect = 0
	}
	reviewedAt := now
	card.LastReviewedAt = &reviewedAt
	card.IntervalDays = interval
	card.EaseFactor = ef
	// Calendar days, so a DST change does not shift the review hour.
	card.NextReview = now.AddDate(0, 0, interval)
	return card, nil
}

func (p Params) nextInterval(current int, ef float64, rating models.Rating) int {
	if rating == models.RatingAgain {
		return 0
	}
	if current == 0 {
		return p.FirstIntervals[rating]
	}

	var grown float64
	switch rating {
	case models.RatingHard:
		grown = float64(current) * p.HardIntervalModifier
	case models.RatingGood:
		grown = float64(current) * ef
	case models.RatingEasy:
		grown = float64(current) * ef * p.EasyBonus
	}

	next := int(math.Round(grown))
	if next <= current {
		next = current + 1
	}
	return next
}
