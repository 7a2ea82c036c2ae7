package services_test

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vytor/studyflash/internal/clock"
	"github.com/vytor/studyflash/internal/errors"
	"github.com/vytor/studyflash/internal/models"
	"github.com/vytor/studyflash/internal/services"
	"github.com/vytor/studyflash/internal/testutil/mocks"
)

func TestGetDailyProgress(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	tests := []struct {
		name        string
		goal        *int
		log         *models.DailyStudyLog
		wantDone    int
		wantPercent *int
	}{
		{name: "no log and no goal", wantDone: 0},
		{name: "half way", goal: intPtr(20), log: &models.DailyStudyLog{CardsReviewed: 10}, wantDone: 10, wantPercent: intPtr(50)},
		{name: "over goal caps at 100", goal: intPtr(5), log: &models.DailyStudyLog{CardsReviewed: 12}, wantDone: 12, wantPercent: intPtr(100)},
		{name: "goal without log", goal: intPtr(5), wantDone: 0, wantPercent: intPtr(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(mocks.MockUserRepository)
			logs := new(mocks.MockStudyLogRepository)
			// 2024-05-10 23:30 UTC is already the 11th in Tokyo
			svc := services.NewProgressService(users, logs, clock.NewFixed(time.Date(2024, 5, 10, 23, 30, 0, 0, time.UTC)), tokyo)

			users.On("GetStats", mock.Anything, int64(1)).Return(&models.UserStats{UserID: 1, CurrentStreak: 4, DailyGoal: tt.goal}, nil)
			if tt.log != nil {
				logs.On("GetForDate", mock.Anything, int64(1), "2024-05-11").Return(tt.log, nil)
			} else {
				logs.On("GetForDate", mock.Anything, int64(1), "2024-05-11").Return(nil, nil)
			}

			p, err := svc.GetDailyProgress(context.Background(), 1)
			require.NoError(t, err)

			assert.Equal(t, "2024-05-11", p.StudyDate)
			assert.Equal(t, tt.wantDone, p.CompletedToday)
			assert.Equal(t, tt.wantPercent, p.Percent)
			assert.Equal(t, 4, p.CurrentStreak)
		})
	}
}

func TestGetDailyProgress_Errors(t *testing.T) {
	users := new(mocks.MockUserRepository)
	logs := new(mocks.MockStudyLogRepository)
	svc := services.NewProgressService(users, logs, clock.NewFixed(studyNow), time.UTC)

	users.On("GetStats", mock.Anything, int64(2)).Return(nil, nil)
	users.On("GetStats", mock.Anything, int64(3)).Return(nil, stderrors.New("database is locked"))

	_, err := svc.GetDailyProgress(context.Background(), 2)
	assert.True(t, errors.HasCode(err, errors.ErrCodeNotFound))

	_, err = svc.GetDailyProgress(context.Background(), 3)
	assert.True(t, errors.HasCode(err, errors.ErrCodeStorage))
}

func TestSetDailyGoal(t *testing.T) {
	users := new(mocks.MockUserRepository)
	logs := new(mocks.MockStudyLogRepository)
	svc := services.NewProgressService(users, logs, nil, nil)

	err := svc.SetDailyGoal(context.Background(), 1, intPtr(0))
	assert.True(t, errors.HasCode(err, errors.ErrCodeValidation))

	users.On("GetStats", mock.Anything, int64(1)).Return(&models.UserStats{UserID: 1}, nil)
	users.On("SetDailyGoal", mock.Anything, int64(1), intPtr(25)).Return(nil)
	users.On("SetDailyGoal", mock.Anything, int64(1), (*int)(nil)).Return(nil)

	require.NoError(t, svc.SetDailyGoal(context.Background(), 1, intPtr(25)))
	require.NoError(t, svc.SetDailyGoal(context.Background(), 1, nil))
	users.AssertExpectations(t)
}

func intPtr(v int) *int {
	return &v
}
