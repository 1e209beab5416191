package postgres

import (
	"shipping/internal/adapters/out/postgres/assignmentrepo"
	"shipping/internal/adapters/out/postgres/outboxrepo"
	"shipping/internal/adapters/out/postgres/parcelrepo"
	"shipping/internal/adapters/out/postgres/sessionrepo"
	"shipping/internal/adapters/out/postgres/trackingrepo"

	"gorm.io/gorm"
)

// Migrate creates the schema and the partial unique indexes backing the
// concurrency invariants. AutoMigrate cannot express partial indexes, so
// they are created with raw SQL:
//
//   - a shipper has at most one session in an active status
//   - a parcel is held by at most one active assignment membership
//
// Violations surface as gorm.ErrDuplicatedKey and are translated by the
// repositories into domain errors.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&parcelrepo.ParcelDTO{},
		&sessionrepo.SessionDTO{},
		&assignmentrepo.AssignmentDTO{},
		&assignmentrepo.AssignmentParcelDTO{},
		&trackingrepo.ConfirmationPointDTO{},
		&trackingrepo.LocationPointDTO{},
		&outboxrepo.OutboxEventDTO{},
	)
	if err != nil {
		return err
	}

	err = db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS uniq_sessions_active_shipper
		ON sessions (shipper_id)
		WHERE status IN ('CREATED', 'IN_PROGRESS')
	`).Error
	if err != nil {
		return err
	}

	return db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS uniq_assignment_parcels_active
		ON assignment_parcels (parcel_id)
		WHERE active
	`).Error
}
