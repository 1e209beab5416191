package sessionrepo

import (
	"context"
	"errors"
	"time"

	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/core/domain/model/session"
	"shipping/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormSessionRepository implements SessionRepository using GORM.
type GormSessionRepository struct {
	db *gorm.DB
}

// NewGormSessionRepository creates a new GORM session repository.
func NewGormSessionRepository(db *gorm.DB) *GormSessionRepository {
	return &GormSessionRepository{db: db}
}

// Add saves a new session to the database. A unique index violation on the
// shipper's active session is surfaced as ActiveSessionExistsError so the
// caller can retry against the winning session.
func (r *GormSessionRepository) Add(ctx context.Context, aggregate *session.Session) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewActiveSessionExistsErrorWithCause(aggregate.ShipperID().String(), err)
		}
		return err
	}

	return nil
}

// Update saves an existing session to the database.
func (r *GormSessionRepository) Update(ctx context.Context, aggregate *session.Session) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&SessionDTO{}).
		Where("id = ?", dto.ID).
		Select("status", "started_at", "ended_at", "start_lat", "start_lon", "fail_reason").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// Get retrieves a session by ID.
func (r *GormSessionRepository) Get(ctx context.Context, id kernel.UUID) (*session.Session, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto SessionDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("session", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetActiveByShipper retrieves the shipper's open session.
func (r *GormSessionRepository) GetActiveByShipper(
	ctx context.Context,
	shipperID kernel.UUID,
) (*session.Session, error) {
	if err := shipperID.Validate(); err != nil {
		return nil, err
	}

	var dto SessionDTO
	err := r.db.WithContext(ctx).
		First(&dto, "shipper_id = ? AND status IN ?",
			shipperID.Bytes(), activeStatuses()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("activeSession", shipperID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetActiveOlderThan retrieves open sessions whose effective start is before
// the cutoff. Sessions never explicitly started fall back to their creation
// time.
func (r *GormSessionRepository) GetActiveOlderThan(
	ctx context.Context,
	cutoff time.Time,
) ([]*session.Session, error) {
	var dtos []SessionDTO
	err := r.db.WithContext(ctx).
		Find(&dtos, "status IN ? AND COALESCE(started_at, created_at) < ?",
			activeStatuses(), cutoff).Error
	if err != nil {
		return nil, err
	}

	sessions := make([]*session.Session, 0, len(dtos))
	for _, dto := range dtos {
		s, convErr := toDomain(dto)
		if convErr != nil {
			return nil, convErr
		}
		sessions = append(sessions, s)
	}

	return sessions, nil
}

func activeStatuses() []string {
	return []string{session.Created.String(), session.InProgress.String()}
}
