// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"shipping/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// ParcelRepoFactory provides access to the parcel repository within a transaction.
	ParcelRepoFactory interface {
		ParcelRepository() ports.ParcelRepository
	}

	// SessionRepoFactory provides access to the session repository within a transaction.
	SessionRepoFactory interface {
		SessionRepository() ports.SessionRepository
	}

	// AssignmentRepoFactory provides access to the assignment repository within a transaction.
	AssignmentRepoFactory interface {
		AssignmentRepository() ports.AssignmentRepository
	}

	// TrackingRepoFactory provides access to the tracking repository within a transaction.
	TrackingRepoFactory interface {
		TrackingRepository() ports.TrackingRepository
	}

	// EventPublisherFactory provides the outbox publisher bound to the
	// transaction, so lifecycle events commit with the state they describe.
	EventPublisherFactory interface {
		EventPublisher() ports.EventPublisher
	}

	// ParcelUoW manages transactions for parcel-only operations.
	// Used by the confirmation sweeps, which touch no other aggregate.
	ParcelUoW interface {
		TxManager
		ParcelRepoFactory
		EventPublisherFactory
	}

	// ParcelUoWFactory creates new parcel unit of work instances.
	ParcelUoWFactory interface {
		Create() ParcelUoW
	}

	// UoW manages transactions across the parcel, session, assignment and
	// tracking aggregates. Used by commands that coordinate custody changes.
	//
	// Example:
	//
	//	uow := factory.Create()
	//	err := uow.Begin(ctx)
	//	defer uow.Rollback(ctx)
	//
	//	parcelRepo := uow.ParcelRepository()
	//	assignmentRepo := uow.AssignmentRepository()
	//	// ... perform operations
	//
	//	err = uow.Commit(ctx)
	UoW interface {
		TxManager
		ParcelRepoFactory
		SessionRepoFactory
		AssignmentRepoFactory
		TrackingRepoFactory
		EventPublisherFactory
	}

	// UoWFactory creates new unit of work instances for cross-aggregate operations.
	UoWFactory interface {
		Create() UoW
	}
)
