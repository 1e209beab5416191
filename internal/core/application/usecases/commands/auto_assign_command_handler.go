package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"shipping/internal/core/domain/model/assignment"
	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/core/domain/model/session"
	"shipping/internal/core/ports"
	"shipping/internal/pkg/errs"
)

// AutoAssignResult reports what the auto-assignment produced.
type AutoAssignResult struct {
	CreatedAssignmentIDs []kernel.UUID
	UnassignedParcelIDs  []kernel.UUID
	FailedShipperIDs     []kernel.UUID
	Stats                ports.LoadStats
}

// AutoAssignCommandHandler handles the business logic for optimizer-driven
// assignment. Asks the optimizer for a proposal and turns each grouping into
// one assignment per stop under the shipper's session. Parcels stay in the
// warehouse until the shipper scans them; only custody is established here.
//
// Each shipper's plan is applied in its own transaction: one failing shipper
// is logged and reported, the other plans still land. Optimizer failures
// propagate as errs.CollaboratorUnavailableError.
type AutoAssignCommandHandler struct {
	uowFactory      UoWFactory
	optimizerClient ports.OptimizerClient
	logger          *slog.Logger
}

// NewAutoAssignCommandHandler creates a handler for auto-assignment.
func NewAutoAssignCommandHandler(
	uowFactory UoWFactory, optimizerClient ports.OptimizerClient, logger *slog.Logger,
) AutoAssignCommandHandler {
	return AutoAssignCommandHandler{
		uowFactory:      uowFactory,
		optimizerClient: optimizerClient,
		logger:          logger,
	}
}

// Handle processes the auto-assignment command.
func (h AutoAssignCommandHandler) Handle(
	ctx context.Context, cmd AutoAssignCommand,
) (*AutoAssignResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	request := ports.ProposalRequest{
		ShipperIDs: cmd.ShipperIDs(),
		Vehicle:    cmd.Vehicle(),
		Mode:       cmd.Mode(),
	}
	for _, offeredParcel := range cmd.Parcels() {
		request.Parcels = append(request.Parcels, ports.ProposalParcel{
			ParcelID:          offeredParcel.ParcelID,
			DeliveryAddressID: offeredParcel.DeliveryAddressID,
			Destination:       offeredParcel.Destination,
		})
	}

	proposal, err := h.optimizerClient.ProposeAssignments(ctx, request)
	if err != nil {
		return nil, err
	}

	result := &AutoAssignResult{
		UnassignedParcelIDs: proposal.UnassignedParcelIDs,
		Stats:               proposal.Stats,
	}

	for _, plan := range proposal.Plans {
		created, planErr := h.applyPlan(ctx, plan)
		if errors.Is(planErr, errs.ErrActiveSessionExists) {
			created, planErr = h.applyPlan(ctx, plan)
		}
		if planErr != nil {
			h.logger.Error("shipper plan failed",
				"shipperId", plan.ShipperID.String(), "error", planErr)
			result.FailedShipperIDs = append(result.FailedShipperIDs, plan.ShipperID)
			for _, stop := range plan.Stops {
				result.UnassignedParcelIDs = append(result.UnassignedParcelIDs, stop.ParcelIDs...)
			}
			continue
		}
		result.CreatedAssignmentIDs = append(result.CreatedAssignmentIDs, created...)
	}

	return result, nil
}

// applyPlan creates the assignments of one shipper's plan in a single
// transaction, opening a session for the shipper if needed.
func (h AutoAssignCommandHandler) applyPlan(
	ctx context.Context, plan ports.ShipperPlan,
) ([]kernel.UUID, error) {
	now := time.Now().UTC()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	activeSession, created, err := getOrCreateSession(ctx, uow, plan.ShipperID, now)
	if err != nil {
		return nil, err
	}

	assignmentRepo := uow.AssignmentRepository()
	publisher := uow.EventPublisher()

	routeOrder, err := assignmentRepo.NextRouteOrder(ctx, activeSession.ID())
	if err != nil {
		return nil, err
	}

	var createdIDs []kernel.UUID
	for _, stop := range plan.Stops {
		destination := stop.Destination
		newAssignment, assignErr := assignment.NewAssignment(
			kernel.NewUUID(), activeSession.ID(),
			stop.ParcelIDs, stop.DeliveryAddressID, &destination,
			routeOrder, now)
		if assignErr != nil {
			return nil, assignErr
		}
		if assignErr = assignmentRepo.Add(ctx, newAssignment); assignErr != nil {
			return nil, assignErr
		}

		if assignErr = publisher.Publish(ctx, ports.LifecycleEvent{
			EntityType: ports.EntityAssignment,
			EntityID:   newAssignment.ID().String(),
			Action:     assignment.Pending.String(),
			OccurredAt: now,
		}); assignErr != nil {
			return nil, assignErr
		}

		createdIDs = append(createdIDs, newAssignment.ID())
		routeOrder++
	}

	if created {
		if err = publisher.Publish(ctx, ports.LifecycleEvent{
			EntityType: ports.EntitySession,
			EntityID:   activeSession.ID().String(),
			Action:     session.Created.String(),
			OccurredAt: now,
		}); err != nil {
			return nil, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return createdIDs, nil
}
