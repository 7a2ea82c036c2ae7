package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/studyflash/internal/models"
)

// MockReviewRepository is a mock implementation of repository.ReviewRepository
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Insert(ctx context.Context, review models.Review) (int64, error) {
	args := m.Called(ctx, review)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReviewRepository) ExistsByKey(ctx context.Context, userID int64, key string) (bool, error) {
	args := m.Called(ctx, userID, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockReviewRepository) ListForCard(ctx context.Context, userID, cardID int64) ([]models.Review, error) {
	args := m.Called(ctx, userID, cardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Review), args.Error(1)
}
