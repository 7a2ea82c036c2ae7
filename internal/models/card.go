package models

import (
	"slices"
	"time"
)

const (
	DefaultEaseFactor = 2.5
	MinEaseFactor     = 1.3
)

type CardKind string

const (
	CardKindFlashcard      CardKind = "flashcard"
	CardKindMultipleChoice CardKind = "multiple_choice"
)

// Valid reports whether k is a known card kind.
func (k CardKind) Valid() bool {
	return k == CardKindFlashcard || k == CardKindMultipleChoice
}

// Card is one reviewable item together with the requesting user's schedule for it.
// Version is zero until the user reviews the card for the first time.
type Card struct {
	ID                 int64      `json:"id"`
	CollectionID       int64      `json:"collection_id"`
	Kind               CardKind   `json:"kind"`
	Content            string     `json:"content"`
	TagIDs             []int      `json:"tag_ids"`
	IntervalDays       int        `json:"interval_days"`
	EaseFactor         float64    `json:"ease_factor"`
	NextReview         time.Time  `json:"next_review"`
	TimesReviewed      int        `json:"times_reviewed"`
	ConsecutiveCorrect int        `json:"consecutive_correct"`
	LastReviewedAt     *time.Time `json:"last_reviewed_at,omitempty"`
	Version            int64      `json:"version"`
	CreatedAt          time.Time  `json:"created_at"`
}

// NewCard returns a card with the creation defaults: never reviewed and due immediately.
func NewCard(collectionID int64, kind CardKind, content string, tagIDs []int, now time.Time) Card {
	return Card{
		CollectionID: collectionID,
		Kind:         kind,
		Content:      content,
		TagIDs:       tagIDs,
		IntervalDays: 0,
		EaseFactor:   DefaultEaseFactor,
		NextReview:   now,
		CreatedAt:    now,
	}
}

// HasAnyTag reports whether the card carries at least one of tagIDs.
func (c Card) HasAnyTag(tagIDs []int) bool {
	for _, id := range tagIDs {
		if slices.Contains(c.TagIDs, id) {
			return true
		}
	}
	return false
}

// Review is one persisted rating of a card by a user.
type Review struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"user_id"`
	CardID         int64     `json:"card_id"`
	Rating         Rating    `json:"rating"`
	IntervalDays   int       `json:"interval_days"`
	EaseFactor     float64   `json:"ease_factor"`
	TimeSeconds    float64   `json:"time_seconds"`
	IdempotencyKey string    `json:"idempotency_key,omitempty"`
	ReviewedAt     time.Time `json:"reviewed_at"`
}
