package services_test

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/vytor/studyflash/internal/clock"
	"github.com/vytor/studyflash/internal/due"
	"github.com/vytor/studyflash/internal/errors"
	"github.com/vytor/studyflash/internal/models"
	"github.com/vytor/studyflash/internal/repository/sqlite"
	"github.com/vytor/studyflash/internal/services"
	"github.com/vytor/studyflash/internal/session"
	"github.com/vytor/studyflash/internal/tags"
	"github.com/vytor/studyflash/internal/testutil"
)

// StudyFlowSuite drives the services against a real database.
type StudyFlowSuite struct {
	suite.Suite
	db       *sql.DB
	clock    *clock.Fixed
	study    services.StudyService
	progress services.ProgressService
	deps     services.StudyDeps
	userID   int64
	cards    []int64
}

// gatedStore holds every Take until parties callers have arrived, so the
// calls race inside the store.
type gatedStore struct {
	session.Store
	arrived sync.WaitGroup
}

func newGatedStore(inner session.Store, parties int) *gatedStore {
	g := &gatedStore{Store: inner}
	g.arrived.Add(parties)
	return g
}

func (g *gatedStore) Take(userID int64, sessionID string) session.Tally {
	g.arrived.Done()
	g.arrived.Wait()
	return g.Store.Take(userID, sessionID)
}

func (s *StudyFlowSuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.clock = clock.NewFixed(time.Date(2024, 5, 10, 8, 0, 0, 0, time.UTC))

	cardRepo := sqlite.NewCardRepository(s.db)
	users := sqlite.NewUserRepository(s.db)
	logs := sqlite.NewStudyLogRepository(s.db)
	s.deps = services.StudyDeps{
		Cards:    cardRepo,
		Reviews:  sqlite.NewReviewRepository(s.db),
		Logs:     logs,
		Users:    users,
		Tx:       sqlite.NewTransactor(s.db),
		Sessions: session.NewMemoryStore(),
		Due:      due.NewResolver(cardRepo, 2),
		Tags:     tags.NewResolver(tags.DefaultGoldenList()),
		Clock:    s.clock,
		Location: time.UTC,
	}
	s.study = services.NewStudyService(s.deps)
	s.progress = services.NewProgressService(users, logs, s.clock, time.UTC)

	s.userID = testutil.SeedUser(s.T(), s.db, "learner")
	collectionID := testutil.SeedCollection(s.T(), s.db, s.userID, "Safety basics")
	created := s.clock.Now().Add(-time.Hour)
	s.cards = []int64{
		testutil.SeedCard(s.T(), s.db, collectionID, created, 1),
		testutil.SeedCard(s.T(), s.db, collectionID, created, 2),
		testutil.SeedCard(s.T(), s.db, collectionID, created, 1, 2),
	}
}

func (s *StudyFlowSuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *StudyFlowSuite) TestSessionLifecycle() {
	ctx := context.Background()

	goal := 4
	s.Require().NoError(s.progress.SetDailyGoal(ctx, s.userID, &goal))

	batch, err := s.study.GetDueCards(ctx, s.userID, 0, nil)
	s.Require().NoError(err)
	s.Assert().Equal(3, batch.TotalDue)
	s.Assert().Len(batch.Cards, 2)
	s.Assert().True(batch.HasMoreBatches)

	sessionID, err := s.study.StartSession(ctx, s.userID)
	s.Require().NoError(err)

	res, err := s.study.RateCard(ctx, s.userID, s.cards[0], models.RatingGood, services.RateOptions{SessionID: sessionID, IdempotencyKey: "r1"})
	s.Require().NoError(err)
	s.Assert().Equal(1, res.Card.IntervalDays)
	s.Require().NotNil(res.NextCard)
	s.Assert().Equal(2, res.RemainingCount)

	_, err = s.study.RateCard(ctx, s.userID, s.cards[0], models.RatingGood, services.RateOptions{SessionID: sessionID, IdempotencyKey: "r1"})
	s.Assert().True(errors.HasCode(err, errors.ErrCodeConflict), "a retried rating is not applied twice")

	_, err = s.study.RateCard(ctx, s.userID, s.cards[1], models.RatingAgain, services.RateOptions{SessionID: sessionID, IdempotencyKey: "r2"})
	s.Require().NoError(err)

	tally, err := s.study.SessionTally(ctx, s.userID, sessionID)
	s.Require().NoError(err)
	s.Assert().Equal(2, tally.CardsReviewed)
	s.Assert().Equal(1, tally.Good)
	s.Assert().Equal(1, tally.Again)

	summary, err := s.study.EndSession(ctx, s.userID, sessionID)
	s.Require().NoError(err)
	s.Assert().Equal(1, summary.CurrentStreak)
	s.Assert().True(summary.NewStreakDay)
	s.Assert().Equal(2, summary.TodayTotal)
	s.Require().NotNil(summary.ProgressPercent)
	s.Assert().Equal(50, *summary.ProgressPercent)

	// a second session on the same day keeps the streak and adds to the log
	second, err := s.study.StartSession(ctx, s.userID)
	s.Require().NoError(err)
	_, err = s.study.RateCard(ctx, s.userID, s.cards[2], models.RatingEasy, services.RateOptions{SessionID: second})
	s.Require().NoError(err)
	summary, err = s.study.EndSession(ctx, s.userID, second)
	s.Require().NoError(err)
	s.Assert().Equal(1, summary.CurrentStreak)
	s.Assert().False(summary.NewStreakDay)
	s.Assert().Equal(2, summary.PriorToday)
	s.Assert().Equal(3, summary.TodayTotal)

	p, err := s.progress.GetDailyProgress(ctx, s.userID)
	s.Require().NoError(err)
	s.Assert().Equal(3, p.CompletedToday)
	s.Require().NotNil(p.Percent)
	s.Assert().Equal(75, *p.Percent)

	// the next day extends the streak
	s.clock.Advance(24 * time.Hour)
	third, err := s.study.StartSession(ctx, s.userID)
	s.Require().NoError(err)
	_, err = s.study.RateCard(ctx, s.userID, s.cards[0], models.RatingGood, services.RateOptions{SessionID: third})
	s.Require().NoError(err)
	summary, err = s.study.EndSession(ctx, s.userID, third)
	s.Require().NoError(err)
	s.Assert().Equal(2, summary.CurrentStreak)
	s.Assert().Equal(0, summary.PriorToday)
}

func (s *StudyFlowSuite) TestTagFilterAndFallback() {
	ctx := context.Background()

	batch, err := s.study.GetDueCards(ctx, s.userID, 0, []int{2})
	s.Require().NoError(err)
	s.Assert().Equal([]int64{s.cards[1], s.cards[2]}, []int64{batch.Cards[0].ID, batch.Cards[1].ID})
	s.Assert().False(batch.HasMoreBatches)

	for _, id := range s.cards {
		_, err := s.study.RateCard(ctx, s.userID, id, models.RatingGood, services.RateOptions{})
		s.Require().NoError(err)
	}

	batch, err = s.study.GetDueCards(ctx, s.userID, 0, nil)
	s.Require().NoError(err)
	s.Assert().Zero(batch.TotalDue)
	s.Assert().False(batch.IsNewCardsFallback, "every card has been learned")
	s.Assert().Empty(batch.Cards)

	s.clock.Advance(24 * time.Hour)
	batch, err = s.study.GetDueCards(ctx, s.userID, 0, nil)
	s.Require().NoError(err)
	s.Assert().Equal(3, batch.TotalDue)
}

func (s *StudyFlowSuite) TestConcurrentEndCountsSessionOnce() {
	ctx := context.Background()
	store := newGatedStore(session.NewMemoryStore(), 2)
	deps := s.deps
	deps.Sessions = store
	study := services.NewStudyService(deps)

	sessionID, err := study.StartSession(ctx, s.userID)
	s.Require().NoError(err)
	for _, id := range s.cards {
		_, err := study.RateCard(ctx, s.userID, id, models.RatingGood, services.RateOptions{SessionID: sessionID})
		s.Require().NoError(err)
	}

	summaries := make([]int, 2)
	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range summaries {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			summary, err := study.EndSession(ctx, s.userID, sessionID)
			errs[i] = err
			if err == nil {
				summaries[i] = summary.Tally.CardsReviewed
			}
		}(i)
	}
	wg.Wait()

	s.Require().NoError(errs[0])
	s.Require().NoError(errs[1])
	s.Assert().ElementsMatch([]int{3, 0}, summaries)

	p, err := s.progress.GetDailyProgress(ctx, s.userID)
	s.Require().NoError(err)
	s.Assert().Equal(3, p.CompletedToday)
	s.Assert().Equal(1, p.CurrentStreak)
}

func (s *StudyFlowSuite) TestFailedEndKeepsRatingsMadeMeanwhile() {
	ctx := context.Background()

	sessionID, err := s.study.StartSession(ctx, s.userID)
	s.Require().NoError(err)
	_, err = s.study.RateCard(ctx, s.userID, s.cards[0], models.RatingGood, services.RateOptions{SessionID: sessionID})
	s.Require().NoError(err)

	// without the log table the end fails after the tally was taken
	_, err = s.db.ExecContext(ctx, `DROP TABLE daily_study_logs`)
	s.Require().NoError(err)
	_, err = s.study.EndSession(ctx, s.userID, sessionID)
	s.Require().True(errors.HasCode(err, errors.ErrCodeStorage))

	_, err = s.study.RateCard(ctx, s.userID, s.cards[1], models.RatingEasy, services.RateOptions{SessionID: sessionID})
	s.Require().NoError(err)

	tally, err := s.study.SessionTally(ctx, s.userID, sessionID)
	s.Require().NoError(err)
	s.Assert().Equal(2, tally.CardsReviewed)
	s.Assert().Equal(1, tally.Good)
	s.Assert().Equal(1, tally.Easy)
	s.Assert().Equal(s.clock.Now(), tally.StartedAt)
}

func TestStudyFlowSuite(t *testing.T) {
	suite.Run(t, new(StudyFlowSuite))
}
