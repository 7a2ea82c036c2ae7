package models_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/studyflash/internal/models"
)

func TestParseRating(t *testing.T) {
	tests := []struct {
		in   string
		want models.Rating
	}{
		{"again", models.RatingAgain},
		{" Hard ", models.RatingHard},
		{"GOOD", models.RatingGood},
		{"easy", models.RatingEasy},
		{"1", models.RatingAgain},
		{"4", models.RatingEasy},
	}
	for _, tt := range tests {
		got, err := models.ParseRating(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	for _, bad := range []string{"", "0", "5", "perfect", "good!"} {
		_, err := models.ParseRating(bad)
		assert.Error(t, err, bad)
	}
}

func TestRating_Ordering(t *testing.T) {
	assert.Less(t, models.RatingAgain, models.RatingHard)
	assert.Less(t, models.RatingHard, models.RatingGood)
	assert.Less(t, models.RatingGood, models.RatingEasy)
	assert.False(t, models.RatingHard.Passed())
	assert.True(t, models.RatingGood.Passed())
}

func TestRating_JSON(t *testing.T) {
	var body struct {
		Rating models.Rating `json:"rating"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"rating":"easy"}`), &body))
	assert.Equal(t, models.RatingEasy, body.Rating)

	out, err := json.Marshal(body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"rating":"easy"}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"rating":"meh"}`), &body))
}

func TestCard_HasAnyTag(t *testing.T) {
	card := models.Card{TagIDs: []int{2, 5}}

	assert.True(t, card.HasAnyTag([]int{5}))
	assert.True(t, card.HasAnyTag([]int{1, 2}))
	assert.False(t, card.HasAnyTag([]int{3}))
	assert.False(t, card.HasAnyTag(nil))
}
