package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/studyflash/internal/errors"
	"github.com/vytor/studyflash/internal/validation"
)

type rateBody struct {
	Rating      string  `json:"rating" validate:"required,rating"`
	SessionID   string  `json:"session_id,omitempty" validate:"omitempty,uuid"`
	TimeSeconds float64 `json:"time_seconds" validate:"gte=0"`
}

func TestValidate(t *testing.T) {
	v := validation.New()

	assert.NoError(t, v.Validate(rateBody{Rating: "good"}))
	assert.NoError(t, v.Validate(rateBody{Rating: "4", SessionID: "5f0c7a1e-3c56-4d8a-9a55-0b7e6a2d1c10", TimeSeconds: 2}))

	err := v.Validate(rateBody{Rating: "perfect", SessionID: "nope", TimeSeconds: -1})
	require.Error(t, err)

	appErr := errors.As(err)
	assert.Equal(t, errors.ErrCodeValidation, appErr.Code)
	assert.Equal(t, map[string]string{
		"rating":       "must be one of again, hard, good, easy or 1-4",
		"session_id":   "must be a valid UUID",
		"time_seconds": "must be greater than or equal to 0",
	}, appErr.Details)

	err = v.Validate(rateBody{})
	assert.Equal(t, "is required", errors.As(err).Details["rating"])
}
