package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/vytor/dailyenglish/internal/models"
	"github.com/vytor/dailyenglish/internal/repository"
	"github.com/vytor/dailyenglish/internal/repository/sqlite"
	"github.com/vytor/dailyenglish/internal/testutil"
)

type SummaryRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.SummaryRepository
}

func (s *SummaryRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewSummaryRepository(s.db)
}

func (s *SummaryRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *SummaryRepositorySuite) TestGetMissing() {
	got, err := s.repo.GetSummary(context.Background(), "nobody")
	s.Require().NoError(err)
	s.Assert().Nil(got)
}

func (s *SummaryRepositorySuite) TestUpsertPreservesLastLogin() {
	ctx := context.Background()
	id := models.Identity{UID: "u1", Email: "u1@example.com", DisplayName: "Linh"}
	login := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	s.Require().NoError(s.repo.TouchLogin(ctx, id, login))

	active := time.Date(2025, 3, 10, 21, 30, 0, 0, time.UTC)
	s.Require().NoError(s.repo.UpsertSummary(ctx, models.StudentSummary{
		UID:               "u1",
		DisplayName:       "Linh",
		Email:             "u1@example.com",
		LastActive:        active,
		CurrentMonthScore: 40,
		PrevMonthCoins:    25,
		TotalStudyMinutes: 90,
	}))

	got, err := s.repo.GetSummary(ctx, "u1")
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Require().NotNil(got.LastLogin, "upsert without last_login must keep the stored value")
	s.Assert().True(login.Equal(*got.LastLogin))
	s.Assert().True(active.Equal(got.LastActive))
	s.Assert().Equal(40, got.CurrentMonthScore)
	s.Assert().Equal(25, got.PrevMonthCoins)
	s.Assert().Equal(90, got.TotalStudyMinutes)
}

func (s *SummaryRepositorySuite) TestUpsertOverwritesTotals() {
	ctx := context.Background()

	s.Require().NoError(s.repo.UpsertSummary(ctx, models.StudentSummary{UID: "u1", CurrentMonthScore: 10, LastActive: time.Now()}))
	s.Require().NoError(s.repo.UpsertSummary(ctx, models.StudentSummary{UID: "u1", CurrentMonthScore: 30, LastActive: time.Now()}))

	got, err := s.repo.GetSummary(ctx, "u1")
	s.Require().NoError(err)
	s.Assert().Equal(30, got.CurrentMonthScore)
	s.Assert().Nil(got.LastLogin)
}

func (s *SummaryRepositorySuite) TestTouchLoginCreatesRow() {
	ctx := context.Background()
	id := models.Identity{UID: "u2", DisplayName: "Minh", PhotoURL: "http://photo"}

	s.Require().NoError(s.repo.TouchLogin(ctx, id, time.Now()))

	got, err := s.repo.GetSummary(ctx, "u2")
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Assert().Equal("Minh", got.DisplayName)
	s.Assert().Equal("http://photo", got.PhotoURL)
	s.Assert().True(got.LastActive.IsZero())
}

func (s *SummaryRepositorySuite) TestListOrdersByLastActive() {
	ctx := context.Background()
	base := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	s.Require().NoError(s.repo.UpsertSummary(ctx, models.StudentSummary{UID: "old", LastActive: base.Add(-time.Hour)}))
	s.Require().NoError(s.repo.UpsertSummary(ctx, models.StudentSummary{UID: "new", LastActive: base}))

	list, err := s.repo.ListSummaries(ctx)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Assert().Equal("new", list[0].UID)
	s.Assert().Equal("old", list[1].UID)
}

func TestSummaryRepositorySuite(t *testing.T) {
	suite.Run(t, new(SummaryRepositorySuite))
}
