package postgres_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"github.com/vytor/dailyenglish/internal/db"
	"github.com/vytor/dailyenglish/internal/models"
	"github.com/vytor/dailyenglish/internal/repository"
	"github.com/vytor/dailyenglish/internal/repository/postgres"
)

// StoreSuite runs against a real database named by POSTGRES_TEST_DSN.
type StoreSuite struct {
	suite.Suite
	close func()
	store repository.Store
	uid   string
}

func (s *StoreSuite) SetupSuite() {
	dsn := os.Getenv("POSTGRES_TEST_DSN")
	if dsn == "" {
		s.T().Skip("POSTGRES_TEST_DSN not set")
	}
	pool, err := db.OpenPostgres(context.Background(), dsn, 4)
	s.Require().NoError(err)
	s.close = pool.Close
	s.store = postgres.NewStore(pool)
}

func (s *StoreSuite) TearDownSuite() {
	if s.close != nil {
		s.close()
	}
}

func (s *StoreSuite) SetupTest() {
	// Unique per test so runs never collide on a shared database.
	s.uid = "test-" + uuid.NewString()
}

func (s *StoreSuite) TestDayLogRoundTrip() {
	ctx := context.Background()
	day := models.DailyLog{WritingContent: "hello there", WritingDone: true, TotalMoney: 10}

	s.Require().NoError(s.store.SaveDayLog(ctx, s.uid, "2025-03-10", day))
	s.Require().NoError(s.store.SaveDayLog(ctx, s.uid, "2025-03-10", models.DailyLog{StudyMinutes: 4}))

	logs, err := s.store.ListDayLogs(ctx, s.uid)
	s.Require().NoError(err)
	s.Assert().Equal(models.LogsMap{"2025-03-10": {StudyMinutes: 4}}, logs)
}

func (s *StoreSuite) TestSummaryKeepsLastLogin() {
	ctx := context.Background()
	login := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	s.Require().NoError(s.store.TouchLogin(ctx, models.Identity{UID: s.uid, DisplayName: "Linh"}, login))
	s.Require().NoError(s.store.UpsertSummary(ctx, models.StudentSummary{UID: s.uid, DisplayName: "Linh", LastActive: login.Add(time.Hour), CurrentMonthScore: 20}))

	got, err := s.store.GetSummary(ctx, s.uid)
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Require().NotNil(got.LastLogin)
	s.Assert().True(login.Equal(*got.LastLogin))
	s.Assert().Equal(20, got.CurrentMonthScore)
}

func (s *StoreSuite) TestGetMissingSummary() {
	got, err := s.store.GetSummary(context.Background(), s.uid)
	s.Require().NoError(err)
	s.Assert().Nil(got)
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}
