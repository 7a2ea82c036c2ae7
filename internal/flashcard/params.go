package flashcard

import "github.com/vytor/studyflash/internal/models"

// Params holds the per-rating constants of the SM-2 variant.
type Params struct {
	MinEaseFactor float64

	// EaseAdjustment is added to the ease factor for each rating.
	EaseAdjustment map[models.Rating]float64

	HardIntervalModifier float64
	EasyBonus            float64

	// FirstIntervals apply when a card with a zero interval is recalled.
	FirstIntervals map[models.Rating]int
}

// DefaultParams returns the standard SM-2 parameterisation.
func DefaultParams() Params {
	return Params{
		MinEaseFactor: models.MinEaseFactor,
		EaseAdjustment: map[models.Rating]float64{
			models.RatingAgain: -0.20,
			models.RatingHard:  -0.15,
			models.RatingGood:  0,
			models.RatingEasy:  0.15,
		},
		HardIntervalModifier: 1.2,
		EasyBonus:            1.3,
		FirstIntervals: map[models.Rating]int{
			models.RatingHard: 1,
			models.RatingGood: 1,
			models.RatingEasy: 2,
		},
	}
}
