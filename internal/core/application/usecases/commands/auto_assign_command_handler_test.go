package commands_test

import (
	"log/slog"
	"testing"

	"shipping/internal/core/application/usecases/commands"
	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/core/ports"
	"shipping/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func autoAssignFixture(t *testing.T) (commands.AutoAssignCommand, kernel.UUID, kernel.UUID) {
	t.Helper()
	shipperID := kernel.NewUUID()
	parcelID := kernel.NewUUID()
	destination, err := kernel.NewGeoLocation(48.137, 11.575)
	require.NoError(t, err)

	cmd, err := commands.NewAutoAssignCommand(
		[]kernel.UUID{shipperID},
		[]commands.AutoAssignParcel{{
			ParcelID:          parcelID,
			DeliveryAddressID: "addr-1",
			Destination:       destination,
		}},
		"bike", "balanced")
	require.NoError(t, err)
	return cmd, shipperID, parcelID
}

func TestAutoAssignCommandHandler_Handle_CreatesAssignmentsFromProposal(t *testing.T) {
	ctx := t.Context()
	cmd, shipperID, parcelID := autoAssignFixture(t)
	destination, _ := kernel.NewGeoLocation(48.137, 11.575)

	proposal := &ports.Proposal{
		Plans: []ports.ShipperPlan{{
			ShipperID: shipperID,
			Stops: []ports.ProposalStop{{
				DeliveryAddressID: "addr-1",
				Destination:       destination,
				ParcelIDs:         []kernel.UUID{parcelID},
			}},
		}},
		Stats: ports.LoadStats{MeanStopsPerShipper: 1, MaxStops: 1, MinStops: 1},
	}

	optimizer := new(MockOptimizerClient)
	optimizer.On("ProposeAssignments", ctx, mock.AnythingOfType("ports.ProposalRequest")).
		Return(proposal, nil).Once()

	activeSession := newActiveSession(t, shipperID)
	sessionRepo := new(MockSessionRepository)
	assignmentRepo := new(MockAssignmentRepository)
	publisher := new(MockEventPublisher)

	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("SessionRepository").Return(sessionRepo)
	uow.On("AssignmentRepository").Return(assignmentRepo)
	uow.On("EventPublisher").Return(publisher)
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	sessionRepo.On("GetActiveByShipper", ctx, shipperID).Return(activeSession, nil).Once()
	assignmentRepo.On("NextRouteOrder", ctx, activeSession.ID()).Return(1, nil).Once()
	assignmentRepo.On("Add", ctx, mock.AnythingOfType("*assignment.Assignment")).Return(nil).Once()
	publisher.On("Publish", ctx, mock.AnythingOfType("ports.LifecycleEvent")).Return(nil).Once()

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewAutoAssignCommandHandler(factory, optimizer, slog.Default())
	result, err := h.Handle(ctx, cmd)
	require.NoError(t, err)

	assert.Len(t, result.CreatedAssignmentIDs, 1)
	assert.Empty(t, result.UnassignedParcelIDs)
	assert.Empty(t, result.FailedShipperIDs)
	assert.Equal(t, proposal.Stats, result.Stats)
}

func TestAutoAssignCommandHandler_Handle_OptimizerOutagePropagates(t *testing.T) {
	ctx := t.Context()
	cmd, _, _ := autoAssignFixture(t)

	optimizer := new(MockOptimizerClient)
	optimizer.On("ProposeAssignments", ctx, mock.AnythingOfType("ports.ProposalRequest")).
		Return(nil, errs.NewCollaboratorUnavailableError("optimizer", assert.AnError)).Once()

	h := commands.NewAutoAssignCommandHandler(new(MockUoWFactory), optimizer, slog.Default())
	_, err := h.Handle(ctx, cmd)
	require.ErrorIs(t, err, errs.ErrCollaboratorUnavailable)
}

func TestAutoAssignCommandHandler_Handle_FailedPlanIsIsolated(t *testing.T) {
	ctx := t.Context()
	cmd, shipperID, parcelID := autoAssignFixture(t)
	destination, _ := kernel.NewGeoLocation(48.137, 11.575)

	proposal := &ports.Proposal{
		Plans: []ports.ShipperPlan{{
			ShipperID: shipperID,
			Stops: []ports.ProposalStop{{
				DeliveryAddressID: "addr-1",
				Destination:       destination,
				ParcelIDs:         []kernel.UUID{parcelID},
			}},
		}},
	}

	optimizer := new(MockOptimizerClient)
	optimizer.On("ProposeAssignments", ctx, mock.AnythingOfType("ports.ProposalRequest")).
		Return(proposal, nil).Once()

	activeSession := newActiveSession(t, shipperID)
	sessionRepo := new(MockSessionRepository)
	assignmentRepo := new(MockAssignmentRepository)

	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("SessionRepository").Return(sessionRepo)
	uow.On("AssignmentRepository").Return(assignmentRepo)
	uow.On("EventPublisher").Return(new(MockEventPublisher))
	uow.On("Rollback", ctx).Return(nil).Once()

	sessionRepo.On("GetActiveByShipper", ctx, shipperID).Return(activeSession, nil).Once()
	assignmentRepo.On("NextRouteOrder", ctx, activeSession.ID()).Return(1, nil).Once()
	assignmentRepo.On("Add", ctx, mock.AnythingOfType("*assignment.Assignment")).
		Return(errs.NewDuplicateAssignmentError(parcelID.String())).Once()

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewAutoAssignCommandHandler(factory, optimizer, slog.Default())
	result, err := h.Handle(ctx, cmd)
	require.NoError(t, err)

	assert.Empty(t, result.CreatedAssignmentIDs)
	assert.Equal(t, []kernel.UUID{shipperID}, result.FailedShipperIDs)
	assert.Equal(t, []kernel.UUID{parcelID}, result.UnassignedParcelIDs)
}

func TestNewAutoAssignCommand_Validation(t *testing.T) {
	destination, _ := kernel.NewGeoLocation(48.137, 11.575)
	parcels := []commands.AutoAssignParcel{{
		ParcelID:          kernel.NewUUID(),
		DeliveryAddressID: "addr-1",
		Destination:       destination,
	}}

	_, err := commands.NewAutoAssignCommand(nil, parcels, "bike", "balanced")
	require.ErrorIs(t, err, commands.ErrShippersAreRequired)

	_, err = commands.NewAutoAssignCommand([]kernel.UUID{kernel.NewUUID()}, nil, "bike", "balanced")
	require.ErrorIs(t, err, commands.ErrParcelsAreRequired)
}
