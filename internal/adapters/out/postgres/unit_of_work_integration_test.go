package postgres_test

import (
	"context"
	"testing"
	"time"

	postgres_adapter "shipping/internal/adapters/out/postgres"
	"shipping/internal/adapters/out/postgres/outboxrepo"
	"shipping/internal/core/domain/model/assignment"
	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/core/domain/model/parcel"
	"shipping/internal/core/domain/model/session"
	"shipping/internal/core/ports"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite verifies the GORM-based Unit of Work
// against a real PostgreSQL database.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   ports.UnitOfWorkFactory
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
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

	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(db)
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec(
		"TRUNCATE TABLE parcels, sessions, assignments, assignment_parcels, " +
			"confirmation_points, location_points, outbox_events").Error
	suite.Require().NoError(err)
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWorkFactory_Create() {
	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()

	suite.NotSame(uow1, uow2, "Factory should create separate instances")
	suite.NotNil(uow1.ParcelRepository())
	suite.NotNil(uow1.SessionRepository())
	suite.NotNil(uow2.AssignmentRepository())
	suite.NotNil(uow2.EventPublisher())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionLifecycle() {
	ctx := context.Background()
	uow := suite.factory.Create()

	err := uow.Begin(ctx)
	suite.Require().NoError(err)

	// Multiple begin calls must not open nested transactions.
	err = uow.Begin(ctx)
	suite.Require().NoError(err)

	err = uow.Commit(ctx)
	suite.Require().NoError(err)

	err = uow.Begin(ctx)
	suite.Require().NoError(err)

	err = uow.Rollback(ctx)
	suite.Require().NoError(err)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionErrors() {
	ctx := context.Background()
	uow := suite.factory.Create()

	err := uow.Commit(ctx)
	suite.Require().Error(err, "Should error when committing without active transaction")

	err = uow.Rollback(ctx)
	suite.Require().Error(err, "Should error when rolling back without active transaction")
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_CommitPersistsStateAndOutboxTogether() {
	ctx := context.Background()
	uow := suite.factory.Create()

	testSession := createTestSession()

	err := uow.Begin(ctx)
	suite.Require().NoError(err)

	err = uow.SessionRepository().Add(ctx, testSession)
	suite.Require().NoError(err)

	err = uow.EventPublisher().Publish(ctx, ports.LifecycleEvent{
		EntityType: ports.EntitySession,
		EntityID:   testSession.ID().String(),
		Action:     "CREATED",
		OccurredAt: time.Now().UTC(),
	})
	suite.Require().NoError(err)

	err = uow.Commit(ctx)
	suite.Require().NoError(err)

	newUow := suite.factory.Create()
	retrieved, err := newUow.SessionRepository().Get(ctx, testSession.ID())
	suite.Require().NoError(err)
	suite.Equal(testSession.ID(), retrieved.ID())

	outbox := outboxrepo.NewGormOutboxRepository(suite.db)
	pending, err := outbox.GetPending(ctx, 10)
	suite.Require().NoError(err)
	suite.Len(pending, 1)
	suite.Equal(testSession.ID().String(), pending[0].EntityID)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_RollbackDiscardsStateAndOutbox() {
	ctx := context.Background()
	uow := suite.factory.Create()

	testSession := createTestSession()
	testParcel := createTestParcel()

	err := uow.Begin(ctx)
	suite.Require().NoError(err)

	err = uow.SessionRepository().Add(ctx, testSession)
	suite.Require().NoError(err)
	err = uow.ParcelRepository().Add(ctx, testParcel)
	suite.Require().NoError(err)
	err = uow.EventPublisher().Publish(ctx, ports.LifecycleEvent{
		EntityType: ports.EntitySession,
		EntityID:   testSession.ID().String(),
		Action:     "CREATED",
		OccurredAt: time.Now().UTC(),
	})
	suite.Require().NoError(err)

	// Visible within the transaction.
	_, err = uow.SessionRepository().Get(ctx, testSession.ID())
	suite.Require().NoError(err)

	err = uow.Rollback(ctx)
	suite.Require().NoError(err)

	newUow := suite.factory.Create()
	_, err = newUow.SessionRepository().Get(ctx, testSession.ID())
	suite.Require().Error(err, "Session should not exist after rollback")
	_, err = newUow.ParcelRepository().Get(ctx, testParcel.ID())
	suite.Require().Error(err, "Parcel should not exist after rollback")

	outbox := outboxrepo.NewGormOutboxRepository(suite.db)
	pending, err := outbox.GetPending(ctx, 10)
	suite.Require().NoError(err)
	suite.Empty(pending, "Outbox row should not exist after rollback")
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_RepositoryIsolation() {
	ctx := context.Background()

	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()

	parcel1 := createTestParcel()
	parcel2 := createTestParcel()

	err := uow1.Begin(ctx)
	suite.Require().NoError(err)
	err = uow2.Begin(ctx)
	suite.Require().NoError(err)

	err = uow1.ParcelRepository().Add(ctx, parcel1)
	suite.Require().NoError(err)
	err = uow2.ParcelRepository().Add(ctx, parcel2)
	suite.Require().NoError(err)

	_, err = uow1.ParcelRepository().Get(ctx, parcel1.ID())
	suite.Require().NoError(err, "UOW1 should see its own parcel")
	_, err = uow1.ParcelRepository().Get(ctx, parcel2.ID())
	suite.Require().Error(err, "UOW1 should not see UOW2's parcel")

	err = uow1.Commit(ctx)
	suite.Require().NoError(err)
	err = uow2.Rollback(ctx)
	suite.Require().NoError(err)

	newUow := suite.factory.Create()
	_, err = newUow.ParcelRepository().Get(ctx, parcel1.ID())
	suite.Require().NoError(err, "Committed parcel should persist")
	_, err = newUow.ParcelRepository().Get(ctx, parcel2.ID())
	suite.Require().Error(err, "Rolled back parcel should not persist")
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_ScanWorkflow() {
	ctx := context.Background()
	uow := suite.factory.Create()

	testParcel := createTestParcel()
	testSession := createTestSession()

	err := uow.Begin(ctx)
	suite.Require().NoError(err)

	err = uow.ParcelRepository().Add(ctx, testParcel)
	suite.Require().NoError(err)
	err = uow.SessionRepository().Add(ctx, testSession)
	suite.Require().NoError(err)

	_, err = testParcel.Apply(parcel.ScanQR, time.Now().UTC())
	suite.Require().NoError(err)
	err = uow.ParcelRepository().Update(ctx, testParcel)
	suite.Require().NoError(err)

	testAssignment := createTestAssignment(testSession.ID(), testParcel.ID())
	err = uow.AssignmentRepository().Add(ctx, testAssignment)
	suite.Require().NoError(err)

	err = uow.Commit(ctx)
	suite.Require().NoError(err)

	newUow := suite.factory.Create()

	retrievedParcel, err := newUow.ParcelRepository().Get(ctx, testParcel.ID())
	suite.Require().NoError(err)
	suite.Equal(parcel.OnRoute, retrievedParcel.Status())

	holder, err := newUow.AssignmentRepository().GetActiveByParcel(ctx, testParcel.ID())
	suite.Require().NoError(err)
	suite.Equal(testAssignment.ID(), holder.ID())
	suite.Equal(testSession.ID(), holder.SessionID())
}

func createTestSession() *session.Session {
	s, _ := session.NewSession(kernel.NewUUID(), kernel.NewUUID(), time.Now().UTC())
	return s
}

func createTestParcel() *parcel.Parcel {
	p, _ := parcel.NewParcel(kernel.NewUUID(), nil, nil)
	return p
}

func createTestAssignment(sessionID, parcelID kernel.UUID) *assignment.Assignment {
	destination, _ := kernel.NewGeoLocation(52.52, 13.405)
	a, _ := assignment.NewAssignment(
		kernel.NewUUID(), sessionID, []kernel.UUID{parcelID},
		"addr-1", &destination, 1, time.Now().UTC())
	return a
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
