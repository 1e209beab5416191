package outboxrepo

import (
	"context"
	"time"

	"shipping/internal/core/ports"

	"gorm.io/gorm"
)

// GormOutboxRepository implements EventPublisher by appending outbox rows.
// When bound to the unit of work's transaction, the row commits or rolls
// back together with the state change it describes.
type GormOutboxRepository struct {
	db *gorm.DB
}

// NewGormOutboxRepository creates a new GORM outbox repository.
func NewGormOutboxRepository(db *gorm.DB) *GormOutboxRepository {
	return &GormOutboxRepository{db: db}
}

// Publish appends a pending outbox row for the event.
func (r *GormOutboxRepository) Publish(ctx context.Context, event ports.LifecycleEvent) error {
	dto := fromLifecycleEvent(event, time.Now().UTC())
	return r.db.WithContext(ctx).Create(&dto).Error
}

// GetPending returns up to limit undelivered events in creation order.
// Used by the relay that forwards events to downstream consumers.
func (r *GormOutboxRepository) GetPending(ctx context.Context, limit int) ([]OutboxEventDTO, error) {
	var dtos []OutboxEventDTO
	err := r.db.WithContext(ctx).
		Where("status = ?", StatusPending).
		Order("created_at").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}
	return dtos, nil
}

// MarkProcessed stamps a delivered event.
func (r *GormOutboxRepository) MarkProcessed(ctx context.Context, dto OutboxEventDTO) error {
	now := time.Now().UTC()
	return r.db.WithContext(ctx).Model(&OutboxEventDTO{}).
		Where("id = ?", dto.ID).
		Updates(map[string]any{
			"status":       StatusProcessed,
			"processed_at": &now,
		}).Error
}

// MarkFailed records a delivery failure and bumps the retry counter. Events
// that exhaust their retries stay failed and need operator attention.
func (r *GormOutboxRepository) MarkFailed(ctx context.Context, dto OutboxEventDTO, cause error) error {
	msg := cause.Error()
	return r.db.WithContext(ctx).Model(&OutboxEventDTO{}).
		Where("id = ?", dto.ID).
		Updates(map[string]any{
			"status":     StatusFailed,
			"retries":    gorm.Expr("retries + 1"),
			"last_error": &msg,
		}).Error
}
