package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/studyflash/internal/models"
)

// MockStudyLogRepository is a mock implementation of repository.StudyLogRepository
type MockStudyLogRepository struct {
	mock.Mock
}

func (m *MockStudyLogRepository) GetForDate(ctx context.Context, userID int64, date string) (*models.DailyStudyLog, error) {
	args := m.Called(ctx, userID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DailyStudyLog), args.Error(1)
}

func (m *MockStudyLogRepository) Increment(ctx context.Context, userID int64, date string, cards int) error {
	args := m.Called(ctx, userID, date, cards)
	return args.Error(0)
}
