package progress_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/studyflash/internal/models"
	"github.com/vytor/studyflash/internal/progress"
)

func goal(n int) *int { return &n }

func TestComputeDailyProgress(t *testing.T) {
	assert.Equal(t, 0, progress.ComputeDailyProgress(nil))
	assert.Equal(t, 17, progress.ComputeDailyProgress(&models.DailyStudyLog{CardsReviewed: 17}))
}

func TestComputeProgressPercent_Scenarios(t *testing.T) {
	tests := []struct {
		name      string
		completed int
		goal      *int
		want      *int
	}{
		{"over goal caps at 100", 150, goal(100), goal(100)},
		{"nothing done", 0, goal(50), goal(0)},
		{"exactly goal", 20, goal(20), goal(100)},
		{"rounds half up", 1, goal(8), goal(13)},
		{"rounds down", 1, goal(3), goal(33)},
		{"no goal", 10, nil, nil},
		{"zero goal", 10, goal(0), nil},
		{"negative goal", 10, goal(-5), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := progress.ComputeProgressPercent(tt.completed, tt.goal)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestComputeProgressPercent_Bounds(t *testing.T) {
	for g := 1; g <= 60; g++ {
		for done := 0; done <= 120; done++ {
			got := progress.ComputeProgressPercent(done, goal(g))
			require.NotNil(t, got)
			assert.GreaterOrEqual(t, *got, 0)
			assert.LessOrEqual(t, *got, 100)
			if done >= g {
				assert.Equal(t, 100, *got, "done=%d goal=%d", done, g)
			} else {
				want := int(math.Round(float64(done) / float64(g) * 100))
				assert.Equal(t, want, *got, "done=%d goal=%d", done, g)
			}
		}
	}
}
