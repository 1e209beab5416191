package commands_test

import (
	"testing"

	"shipping/internal/core/application/usecases/commands"
	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAcceptTransferCommandHandler_Handle_RecordsHandoff(t *testing.T) {
	ctx := t.Context()
	receivingSession := newActiveSession(t, kernel.NewUUID())
	parcelID := kernel.NewUUID()
	heldAssignment := newPendingAssignment(t, receivingSession.ID(), parcelID)
	location, err := kernel.NewGeoLocation(52.52, 13.405)
	require.NoError(t, err)

	cmd, err := commands.NewAcceptTransferCommand(receivingSession.ID(), parcelID, location)
	require.NoError(t, err)

	sessionRepo := new(MockSessionRepository)
	assignmentRepo := new(MockAssignmentRepository)
	trackingRepo := new(MockTrackingRepository)
	publisher := new(MockEventPublisher)

	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("SessionRepository").Return(sessionRepo)
	uow.On("AssignmentRepository").Return(assignmentRepo)
	uow.On("TrackingRepository").Return(trackingRepo)
	uow.On("EventPublisher").Return(publisher)
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	assignmentRepo.On("GetActiveByParcel", ctx, parcelID).Return(heldAssignment, nil).Once()
	sessionRepo.On("Get", ctx, receivingSession.ID()).Return(receivingSession, nil).Once()
	trackingRepo.On("AddLocationPoint", ctx, mock.AnythingOfType("*tracking.LocationPoint")).Return(nil).Once()
	publisher.On("Publish", ctx, mock.AnythingOfType("ports.LifecycleEvent")).Return(nil).Once()

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewAcceptTransferCommandHandler(factory)
	require.NoError(t, h.Handle(ctx, cmd))
	trackingRepo.AssertExpectations(t)
}

func TestAcceptTransferCommandHandler_Handle_ParcelHeldElsewhereConflicts(t *testing.T) {
	ctx := t.Context()
	receivingSession := newActiveSession(t, kernel.NewUUID())
	otherSession := newActiveSession(t, kernel.NewUUID())
	parcelID := kernel.NewUUID()
	heldAssignment := newPendingAssignment(t, otherSession.ID(), parcelID)
	location, err := kernel.NewGeoLocation(52.52, 13.405)
	require.NoError(t, err)

	cmd, err := commands.NewAcceptTransferCommand(receivingSession.ID(), parcelID, location)
	require.NoError(t, err)

	assignmentRepo := new(MockAssignmentRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("AssignmentRepository").Return(assignmentRepo)
	uow.On("Rollback", ctx).Return(nil).Once()
	assignmentRepo.On("GetActiveByParcel", ctx, parcelID).Return(heldAssignment, nil).Once()

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewAcceptTransferCommandHandler(factory)
	err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, errs.ErrTransferConflict)
}
