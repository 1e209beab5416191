package assignmentrepo_test

import (
	"context"
	"testing"
	"time"

	postgres_adapter "shipping/internal/adapters/out/postgres"
	"shipping/internal/adapters/out/postgres/assignmentrepo"
	"shipping/internal/core/domain/model/assignment"
	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type AssignmentRepositoryTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	repo      *assignmentrepo.GormAssignmentRepository
}

func (suite *AssignmentRepositoryTestSuite) SetupSuite() {
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

	suite.repo = assignmentrepo.NewGormAssignmentRepository(db)
}

func (suite *AssignmentRepositoryTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE assignments, assignment_parcels").Error
	suite.Require().NoError(err)
}

func (suite *AssignmentRepositoryTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *AssignmentRepositoryTestSuite) newAssignment(
	sessionID kernel.UUID,
	routeOrder int,
	parcelIDs ...kernel.UUID,
) *assignment.Assignment {
	destination, err := kernel.NewGeoLocation(48.137, 11.575)
	suite.Require().NoError(err)

	a, err := assignment.NewAssignment(
		kernel.NewUUID(), sessionID, parcelIDs,
		"addr-1", &destination, routeOrder, time.Now().UTC())
	suite.Require().NoError(err)
	return a
}

func (suite *AssignmentRepositoryTestSuite) TestAddAndGet_RoundTrip() {
	ctx := context.Background()
	sessionID := kernel.NewUUID()
	parcel1 := kernel.NewUUID()
	parcel2 := kernel.NewUUID()

	a := suite.newAssignment(sessionID, 1, parcel1, parcel2)
	err := a.SetRouteMetrics(4200, 600)
	suite.Require().NoError(err)

	err = suite.repo.Add(ctx, a)
	suite.Require().NoError(err)

	retrieved, err := suite.repo.Get(ctx, a.ID())
	suite.Require().NoError(err)
	suite.Equal(a.ID(), retrieved.ID())
	suite.Equal(sessionID, retrieved.SessionID())
	suite.Equal(assignment.Pending, retrieved.Status())
	suite.Equal("addr-1", retrieved.DeliveryAddressID())
	suite.Equal(1, retrieved.RouteOrder())
	suite.InDelta(4200, retrieved.DistanceMeters(), 1e-9)
	suite.Len(retrieved.ParcelIDs(), 2)
	suite.True(retrieved.HoldsParcel(parcel1))
	suite.True(retrieved.HoldsParcel(parcel2))
}

func (suite *AssignmentRepositoryTestSuite) TestAdd_ParcelAlreadyHeldIsRejected() {
	ctx := context.Background()
	parcelID := kernel.NewUUID()

	first := suite.newAssignment(kernel.NewUUID(), 1, parcelID)
	err := suite.repo.Add(ctx, first)
	suite.Require().NoError(err)

	second := suite.newAssignment(kernel.NewUUID(), 1, parcelID)
	err = suite.repo.Add(ctx, second)
	suite.Require().ErrorIs(err, errs.ErrDuplicateAssignment)
}

func (suite *AssignmentRepositoryTestSuite) TestUpdate_TerminalStatusReleasesParcels() {
	ctx := context.Background()
	parcelID := kernel.NewUUID()

	first := suite.newAssignment(kernel.NewUUID(), 1, parcelID)
	err := suite.repo.Add(ctx, first)
	suite.Require().NoError(err)

	err = first.Succeed()
	suite.Require().NoError(err)
	err = suite.repo.Update(ctx, first)
	suite.Require().NoError(err)

	_, err = suite.repo.GetActiveByParcel(ctx, parcelID)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)

	// The parcel is assignable again.
	second := suite.newAssignment(kernel.NewUUID(), 1, parcelID)
	err = suite.repo.Add(ctx, second)
	suite.Require().NoError(err)

	holder, err := suite.repo.GetActiveByParcel(ctx, parcelID)
	suite.Require().NoError(err)
	suite.Equal(second.ID(), holder.ID())
}

func (suite *AssignmentRepositoryTestSuite) TestGetBySession_OrderedByRoutePosition() {
	ctx := context.Background()
	sessionID := kernel.NewUUID()

	third := suite.newAssignment(sessionID, 3, kernel.NewUUID())
	first := suite.newAssignment(sessionID, 1, kernel.NewUUID())
	second := suite.newAssignment(sessionID, 2, kernel.NewUUID())

	for _, a := range []*assignment.Assignment{third, first, second} {
		err := suite.repo.Add(ctx, a)
		suite.Require().NoError(err)
	}

	assignments, err := suite.repo.GetBySession(ctx, sessionID)
	suite.Require().NoError(err)
	suite.Require().Len(assignments, 3)
	suite.Equal(first.ID(), assignments[0].ID())
	suite.Equal(second.ID(), assignments[1].ID())
	suite.Equal(third.ID(), assignments[2].ID())
}

func (suite *AssignmentRepositoryTestSuite) TestCountPendingBySession() {
	ctx := context.Background()
	sessionID := kernel.NewUUID()

	pending := suite.newAssignment(sessionID, 1, kernel.NewUUID())
	done := suite.newAssignment(sessionID, 2, kernel.NewUUID())

	err := suite.repo.Add(ctx, pending)
	suite.Require().NoError(err)
	err = suite.repo.Add(ctx, done)
	suite.Require().NoError(err)

	err = done.Succeed()
	suite.Require().NoError(err)
	err = suite.repo.Update(ctx, done)
	suite.Require().NoError(err)

	count, err := suite.repo.CountPendingBySession(ctx, sessionID)
	suite.Require().NoError(err)
	suite.Equal(1, count)
}

func (suite *AssignmentRepositoryTestSuite) TestNextRouteOrder() {
	ctx := context.Background()
	sessionID := kernel.NewUUID()

	next, err := suite.repo.NextRouteOrder(ctx, sessionID)
	suite.Require().NoError(err)
	suite.Equal(1, next, "Empty session starts at route position 1")

	a := suite.newAssignment(sessionID, 4, kernel.NewUUID())
	err = suite.repo.Add(ctx, a)
	suite.Require().NoError(err)

	next, err = suite.repo.NextRouteOrder(ctx, sessionID)
	suite.Require().NoError(err)
	suite.Equal(5, next)
}

func TestAssignmentRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(AssignmentRepositoryTestSuite))
}
