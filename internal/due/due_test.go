package due_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vytor/studyflash/internal/due"
	"github.com/vytor/studyflash/internal/models"
	"github.com/vytor/studyflash/internal/testutil/mocks"
)

var now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func card(id int64, next time.Time, interval int, tags ...int) models.Card {
	return models.Card{
		ID:           id,
		IntervalDays: interval,
		EaseFactor:   models.DefaultEaseFactor,
		NextReview:   next,
		TagIDs:       tags,
	}
}

func ids(cards []models.Card) []int64 {
	out := make([]int64, 0, len(cards))
	for _, c := range cards {
		out = append(out, c.ID)
	}
	return out
}

func TestPartition_BoundaryInstants(t *testing.T) {
	cards := []models.Card{
		card(1, now.Add(-time.Second), 1),
		card(2, now, 1),
		card(3, now.Add(time.Second), 1),
	}

	dueCards, notDue := due.Partition(cards, now)

	assert.Equal(t, []int64{1, 2}, ids(dueCards))
	assert.Equal(t, []int64{3}, ids(notDue))
}

func TestPartition_CoversEveryCardOnce(t *testing.T) {
	cards := []models.Card{
		card(1, time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC), 0),
		card(2, time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC), 30),
		card(3, now.AddDate(0, 0, -3), 2),
		card(4, now.AddDate(0, 0, 3), 2),
		card(5, now, 0),
	}

	dueCards, notDue := due.Partition(cards, now)

	assert.Len(t, dueCards, 3)
	assert.Len(t, notDue, 2)
	assert.ElementsMatch(t, ids(cards), append(ids(dueCards), ids(notDue)...))
	for _, c := range dueCards {
		assert.True(t, due.IsDue(c, now))
	}
	for _, c := range notDue {
		assert.False(t, due.IsDue(c, now))
	}
}

func TestPartition_Empty(t *testing.T) {
	dueCards, notDue := due.Partition(nil, now)
	assert.Empty(t, dueCards)
	assert.Empty(t, notDue)
}

func TestFilterByTags(t *testing.T) {
	cards := []models.Card{card(1, now, 1, 1, 2), card(2, now, 1, 3), card(3, now, 1)}

	assert.Equal(t, []int64{1, 2, 3}, ids(due.FilterByTags(cards, nil)))
	assert.Equal(t, []int64{1}, ids(due.FilterByTags(cards, []int{2})))
	assert.Equal(t, []int64{1, 2}, ids(due.FilterByTags(cards, []int{1, 3})))
	assert.Empty(t, due.FilterByTags(cards, []int{9}))
}

func TestSortQueue_OldestFirstThenID(t *testing.T) {
	cards := []models.Card{
		card(5, now.Add(-time.Hour), 1),
		card(2, now.Add(-2*time.Hour), 1),
		card(3, now.Add(-time.Hour), 1),
	}

	due.SortQueue(cards)

	assert.Equal(t, []int64{2, 3, 5}, ids(cards))
}

func TestPage(t *testing.T) {
	cards := []models.Card{card(1, now, 0), card(2, now, 0), card(3, now, 0)}

	assert.Equal(t, []int64{1, 2}, ids(due.Page(cards, 0, 2)))
	assert.Equal(t, []int64{3}, ids(due.Page(cards, 1, 2)))
	assert.Nil(t, due.Page(cards, 2, 2))
	assert.Nil(t, due.Page(cards, -1, 2))
}

func TestResolver_BatchesDueCards(t *testing.T) {
	repo := new(mocks.MockCardRepository)
	var all []models.Card
	for i := int64(1); i <= 5; i++ {
		all = append(all, card(i, now.Add(-time.Duration(i)*time.Minute), 1))
	}
	all = append(all, card(6, now.Add(time.Hour), 1))
	repo.On("ListDueForUser", mock.Anything, int64(7), mock.Anything).Return(all, nil)

	r := due.NewResolver(repo, 2)

	first, err := r.Resolve(context.Background(), 7, 0, nil, now)
	require.NoError(t, err)
	assert.Equal(t, []int64{5, 4}, ids(first.Cards))
	assert.Equal(t, 5, first.TotalDue)
	assert.True(t, first.HasMoreBatches)
	assert.False(t, first.IsNewCardsFallback)

	last, err := r.Resolve(context.Background(), 7, 2, nil, now)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, ids(last.Cards))
	assert.Equal(t, 2, last.BatchNumber)
	assert.False(t, last.HasMoreBatches)

	repo.AssertExpectations(t)
}

func TestResolver_TagFilterAppliedBeforeBatching(t *testing.T) {
	repo := new(mocks.MockCardRepository)
	repo.On("ListDueForUser", mock.Anything, int64(1), mock.Anything).Return([]models.Card{
		card(1, now.Add(-3*time.Minute), 1, 4),
		card(2, now.Add(-2*time.Minute), 1, 5),
		card(3, now.Add(-1*time.Minute), 1, 4, 5),
	}, nil)

	r := due.NewResolver(repo, 10)
	batch, err := r.Resolve(context.Background(), 1, 0, []int{5}, now)

	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3}, ids(batch.Cards))
	assert.Equal(t, 2, batch.TotalDue, "total counts the filtered queue")
	assert.False(t, batch.HasMoreBatches)
	repo.AssertNotCalled(t, "ListNewForUser", mock.Anything, mock.Anything, mock.Anything)
}

func TestResolver_TagFilteredPaging(t *testing.T) {
	repo := new(mocks.MockCardRepository)
	var all []models.Card
	for i := int64(1); i <= 10; i++ {
		if i%3 == 0 {
			all = append(all, card(i, now.Add(-time.Duration(i)*time.Minute), 1, 1))
		} else {
			all = append(all, card(i, now.Add(-time.Duration(i)*time.Minute), 1, 2))
		}
	}
	repo.On("ListDueForUser", mock.Anything, int64(1), mock.Anything).Return(all, nil)

	r := due.NewResolver(repo, 2)

	first, err := r.Resolve(context.Background(), 1, 0, []int{1}, now)
	require.NoError(t, err)
	assert.Equal(t, []int64{9, 6}, ids(first.Cards))
	assert.Equal(t, 3, first.TotalDue)
	assert.True(t, first.HasMoreBatches)

	second, err := r.Resolve(context.Background(), 1, 1, []int{1}, now)
	require.NoError(t, err)
	assert.Equal(t, []int64{3}, ids(second.Cards))
	assert.Equal(t, 3, second.TotalDue)
	assert.False(t, second.HasMoreBatches)

	unfiltered, err := r.Resolve(context.Background(), 1, 0, nil, now)
	require.NoError(t, err)
	assert.Equal(t, 10, unfiltered.TotalDue)
}

func TestResolver_FallsBackToNewCards(t *testing.T) {
	repo := new(mocks.MockCardRepository)
	repo.On("ListDueForUser", mock.Anything, int64(1), mock.Anything).Return([]models.Card{
		card(1, now.AddDate(0, 0, 3), 3),
	}, nil)
	repo.On("ListNewForUser", mock.Anything, int64(1), 10).Return([]models.Card{
		card(9, now.AddDate(0, 0, 1), 0),
		card(8, now.AddDate(0, 0, 1), 0),
	}, nil)

	r := due.NewResolver(repo, 10)
	batch, err := r.Resolve(context.Background(), 1, 0, nil, now)

	require.NoError(t, err)
	assert.True(t, batch.IsNewCardsFallback)
	assert.Equal(t, []int64{8, 9}, ids(batch.Cards))
	assert.Zero(t, batch.TotalDue)
	assert.False(t, batch.HasMoreBatches)
}

func TestResolver_FallbackWhenTagFilterEmptiesQueue(t *testing.T) {
	repo := new(mocks.MockCardRepository)
	repo.On("ListDueForUser", mock.Anything, int64(1), mock.Anything).Return([]models.Card{
		card(1, now.Add(-time.Minute), 2, 1),
	}, nil)
	repo.On("ListNewForUser", mock.Anything, int64(1), 10).Return([]models.Card{card(2, now.Add(time.Hour), 0, 3)}, nil)

	batch, err := due.NewResolver(repo, 10).Resolve(context.Background(), 1, 0, []int{2}, now)

	require.NoError(t, err)
	assert.True(t, batch.IsNewCardsFallback)
	assert.Equal(t, []int64{2}, ids(batch.Cards), "fallback ignores the tag filter")
	assert.Equal(t, 1, batch.TotalDue)
}

func TestResolver_FallbackIsASingleBatch(t *testing.T) {
	repo := new(mocks.MockCardRepository)
	repo.On("ListDueForUser", mock.Anything, int64(1), mock.Anything).Return([]models.Card{}, nil)

	batch, err := due.NewResolver(repo, 10).Resolve(context.Background(), 1, 7, nil, now)

	require.NoError(t, err)
	assert.Equal(t, 7, batch.BatchNumber)
	assert.Empty(t, batch.Cards)
	assert.NotNil(t, batch.Cards)
	assert.False(t, batch.IsNewCardsFallback)
	assert.False(t, batch.HasMoreBatches)
	repo.AssertNotCalled(t, "ListNewForUser", mock.Anything, mock.Anything, mock.Anything)
}

func TestResolver_NothingAtAll(t *testing.T) {
	repo := new(mocks.MockCardRepository)
	repo.On("ListDueForUser", mock.Anything, int64(1), mock.Anything).Return([]models.Card{}, nil)
	repo.On("ListNewForUser", mock.Anything, int64(1), due.DefaultBatchSize).Return([]models.Card{}, nil)

	batch, err := due.NewResolver(repo, 0).Resolve(context.Background(), 1, 0, nil, now)

	require.NoError(t, err)
	assert.False(t, batch.IsNewCardsFallback)
	assert.NotNil(t, batch.Cards)
	assert.Empty(t, batch.Cards)
}

func TestResolver_StorageError(t *testing.T) {
	repo := new(mocks.MockCardRepository)
	dbErr := errors.New("disk I/O error")
	repo.On("ListDueForUser", mock.Anything, int64(1), mock.Anything).Return(nil, dbErr)

	_, err := due.NewResolver(repo, 10).Resolve(context.Background(), 1, 0, nil, now)

	assert.ErrorIs(t, err, dbErr)
}
