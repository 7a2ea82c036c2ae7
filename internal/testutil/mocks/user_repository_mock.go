package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/studyflash/internal/models"
)

// MockUserRepository is a mock implementation of repository.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, username string) (int64, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) GetStats(ctx context.Context, userID int64) (*models.UserStats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserStats), args.Error(1)
}

func (m *MockUserRepository) SetStreak(ctx context.Context, userID int64, streak int, lastStudyDate string) error {
	args := m.Called(ctx, userID, streak, lastStudyDate)
	return args.Error(0)
}

func (m *MockUserRepository) SetDailyGoal(ctx context.Context, userID int64, goal *int) error {
	args := m.Called(ctx, userID, goal)
	return args.Error(0)
}
