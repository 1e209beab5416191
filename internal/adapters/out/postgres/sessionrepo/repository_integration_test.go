package sessionrepo_test

import (
	"context"
	"testing"
	"time"

	postgres_adapter "shipping/internal/adapters/out/postgres"
	"shipping/internal/adapters/out/postgres/sessionrepo"
	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/core/domain/model/session"
	"shipping/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type SessionRepositoryTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	repo      *sessionrepo.GormSessionRepository
}

func (suite *SessionRepositoryTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2)),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{TranslateError: true})
	suite.Require().NoError(err)
	suite.db = db

	err = postgres_adapter.Migrate(db)
	suite.Require().NoError(err)

	suite.repo = sessionrepo.NewGormSessionRepository(db)
}

func (suite *SessionRepositoryTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE sessions").Error
	suite.Require().NoError(err)
}

func (suite *SessionRepositoryTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *SessionRepositoryTestSuite) TestAddAndGet_RoundTrip() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	s, err := session.NewSession(kernel.NewUUID(), kernel.NewUUID(), now)
	suite.Require().NoError(err)

	location, err := kernel.NewGeoLocation(52.52, 13.405)
	suite.Require().NoError(err)
	err = s.Start(location, now.Add(time.Minute))
	suite.Require().NoError(err)

	err = suite.repo.Add(ctx, s)
	suite.Require().NoError(err)

	retrieved, err := suite.repo.Get(ctx, s.ID())
	suite.Require().NoError(err)
	suite.Equal(s.ID(), retrieved.ID())
	suite.Equal(s.ShipperID(), retrieved.ShipperID())
	suite.Equal(session.InProgress, retrieved.Status())
	suite.Require().NotNil(retrieved.StartedAt())
	suite.True(retrieved.StartedAt().Equal(now.Add(time.Minute)))
	suite.Require().NotNil(retrieved.StartLocation())
	suite.InDelta(52.52, retrieved.StartLocation().Lat(), 1e-9)
}

func (suite *SessionRepositoryTestSuite) TestGet_NotFound() {
	_, err := suite.repo.Get(context.Background(), kernel.NewUUID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *SessionRepositoryTestSuite) TestAdd_SecondActiveSessionForShipperIsRejected() {
	ctx := context.Background()
	shipperID := kernel.NewUUID()

	first, err := session.NewSession(kernel.NewUUID(), shipperID, time.Now().UTC())
	suite.Require().NoError(err)
	err = suite.repo.Add(ctx, first)
	suite.Require().NoError(err)

	second, err := session.NewSession(kernel.NewUUID(), shipperID, time.Now().UTC())
	suite.Require().NoError(err)
	err = suite.repo.Add(ctx, second)
	suite.Require().ErrorIs(err, errs.ErrActiveSessionExists)
}

func (suite *SessionRepositoryTestSuite) TestAdd_NewSessionAllowedAfterTerminal() {
	ctx := context.Background()
	shipperID := kernel.NewUUID()
	now := time.Now().UTC()

	first, err := session.NewSession(kernel.NewUUID(), shipperID, now)
	suite.Require().NoError(err)
	err = suite.repo.Add(ctx, first)
	suite.Require().NoError(err)

	err = first.Fail("shipper reported vehicle breakdown", now.Add(time.Hour))
	suite.Require().NoError(err)
	err = suite.repo.Update(ctx, first)
	suite.Require().NoError(err)

	second, err := session.NewSession(kernel.NewUUID(), shipperID, now.Add(2*time.Hour))
	suite.Require().NoError(err)
	err = suite.repo.Add(ctx, second)
	suite.Require().NoError(err, "terminal session should release the shipper slot")

	active, err := suite.repo.GetActiveByShipper(ctx, shipperID)
	suite.Require().NoError(err)
	suite.Equal(second.ID(), active.ID())
}

func (suite *SessionRepositoryTestSuite) TestGetActiveByShipper_NoActiveSession() {
	ctx := context.Background()
	shipperID := kernel.NewUUID()

	s, err := session.NewSession(kernel.NewUUID(), shipperID, time.Now().UTC())
	suite.Require().NoError(err)
	err = suite.repo.Add(ctx, s)
	suite.Require().NoError(err)

	err = s.Fail("closed", time.Now().UTC())
	suite.Require().NoError(err)
	err = suite.repo.Update(ctx, s)
	suite.Require().NoError(err)

	_, err = suite.repo.GetActiveByShipper(ctx, shipperID)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *SessionRepositoryTestSuite) TestGetActiveOlderThan_FallsBackToCreatedAt() {
	ctx := context.Background()
	now := time.Now().UTC()

	// Never started; its effective start is created_at.
	stale, err := session.NewSession(kernel.NewUUID(), kernel.NewUUID(), now.Add(-20*time.Hour))
	suite.Require().NoError(err)
	err = suite.repo.Add(ctx, stale)
	suite.Require().NoError(err)

	// Started recently; not overdue.
	fresh, err := session.NewSession(kernel.NewUUID(), kernel.NewUUID(), now.Add(-20*time.Hour))
	suite.Require().NoError(err)
	location, err := kernel.NewGeoLocation(52.52, 13.405)
	suite.Require().NoError(err)
	err = fresh.Start(location, now.Add(-time.Hour))
	suite.Require().NoError(err)
	err = suite.repo.Add(ctx, fresh)
	suite.Require().NoError(err)

	// Terminal sessions are never overdue.
	closed, err := session.NewSession(kernel.NewUUID(), kernel.NewUUID(), now.Add(-20*time.Hour))
	suite.Require().NoError(err)
	err = suite.repo.Add(ctx, closed)
	suite.Require().NoError(err)
	err = closed.Fail("done", now)
	suite.Require().NoError(err)
	err = suite.repo.Update(ctx, closed)
	suite.Require().NoError(err)

	overdue, err := suite.repo.GetActiveOlderThan(ctx, now.Add(-16*time.Hour))
	suite.Require().NoError(err)
	suite.Require().Len(overdue, 1)
	suite.Equal(stale.ID(), overdue[0].ID())
}

func TestSessionRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(SessionRepositoryTestSuite))
}
