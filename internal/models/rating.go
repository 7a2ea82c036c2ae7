package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Rating is the learner's answer to a review, ordered by severity.
type Rating int

const (
	RatingAgain Rating = 1
	RatingHard  Rating = 2
	RatingGood  Rating = 3
	RatingEasy  Rating = 4
)

// Ratings lists every rating from most to least severe.
var Ratings = []Rating{RatingAgain, RatingHard, RatingGood, RatingEasy}

func (r Rating) String() string {
	switch r {
	case RatingAgain:
		return "again"
	case RatingHard:
		return "hard"
	case RatingGood:
		return "good"
	case RatingEasy:
		return "easy"
	default:
		return "unknown"
	}
}

// Valid reports whether r is one of the four known ratings.
func (r Rating) Valid() bool {
	return r >= RatingAgain && r <= RatingEasy
}

// Passed reports whether the card was recalled (Good or Easy).
func (r Rating) Passed() bool {
	return r >= RatingGood
}

// ParseRating accepts a rating name ("again", "Hard", ...) or its number (1-4).
func ParseRating(s string) (Rating, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, r := range Ratings {
		if s == r.String() {
			return r, nil
		}
	}
	if n, err := strconv.Atoi(s); err == nil && Rating(n).Valid() {
		return Rating(n), nil
	}
	return 0, fmt.Errorf("unknown rating %q", s)
}

// MarshalText encodes the rating by name.
func (r Rating) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("unknown rating %d", int(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText decodes a rating name or number.
func (r *Rating) UnmarshalText(b []byte) error {
	parsed, err := ParseRating(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
