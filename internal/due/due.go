// Package due selects which cards a user should review next.
package due

import (
	"slices"
	"time"

	"github.com/vytor/studyflash/internal/models"
)

// IsDue reports whether c is due at now. A card scheduled exactly at now is due.
func IsDue(c models.Card, now time.Time) bool {
	return !c.NextReview.After(now)
}

// Partition splits cards into those due at now and the rest. Every card lands
// in exactly one of the two slices and input order is kept.
func Partition(cards []models.Card, now time.Time) (due, notDue []models.Card) {
	for _, c := range cards {
		if IsDue(c, now) {
			due = append(due, c)
		} else {
			notDue = append(notDue, c)
		}
	}
	return due, notDue
}

// FilterByTags keeps cards carrying at least one of tagIDs. An empty tagIDs keeps everything.
func FilterByTags(cards []models.Card, tagIDs []int) []models.Card {
	if len(tagIDs) == 0 {
		return cards
	}
	out := make([]models.Card, 0, len(cards))
	for _, c := range cards {
		if c.HasAnyTag(tagIDs) {
			out = append(out, c)
		}
	}
	return out
}

// SortQueue orders cards by next review, oldest first, then by id.
func SortQueue(cards []models.Card) {
	slices.SortStableFunc(cards, func(a, b models.Card) int {
		if c := a.NextReview.Compare(b.NextReview); c != 0 {
			return c
		}
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
}

// Page returns batch number b of size from cards, or nil past the end.
func Page(cards []models.Card, b, size int) []models.Card {
	start := b * size
	if b < 0 || size <= 0 || start >= len(cards) {
		return nil
	}
	end := min(start+size, len(cards))
	return cards[start:end]
}
