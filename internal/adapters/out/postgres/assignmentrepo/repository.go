package assignmentrepo

import (
	"context"
	"errors"

	"shipping/internal/core/domain/model/assignment"
	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormAssignmentRepository implements AssignmentRepository using GORM.
type GormAssignmentRepository struct {
	db *gorm.DB
}

// NewGormAssignmentRepository creates a new GORM assignment repository.
func NewGormAssignmentRepository(db *gorm.DB) *GormAssignmentRepository {
	return &GormAssignmentRepository{db: db}
}

// Add saves a new assignment and its parcel memberships. A unique index
// violation on an active membership is surfaced as DuplicateAssignmentError
// so races over the same parcel lose deterministically.
func (r *GormAssignmentRepository) Add(ctx context.Context, aggregate *assignment.Assignment) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, members := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	if err := r.db.WithContext(ctx).Create(&members).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewDuplicateAssignmentErrorWithCause(memberParcelIDs(members), err)
		}
		return err
	}

	return nil
}

// Update saves an existing assignment. Moving to a terminal status releases
// the parcel memberships so the parcels become assignable again.
func (r *GormAssignmentRepository) Update(ctx context.Context, aggregate *assignment.Assignment) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, _ := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&AssignmentDTO{}).
		Where("id = ?", dto.ID).
		Select("status", "fail_reason", "route_order", "distance_meters", "duration_seconds").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	if aggregate.Status().IsTerminal() {
		err := r.db.WithContext(ctx).Model(&AssignmentParcelDTO{}).
			Where("assignment_id = ?", dto.ID).
			Update("active", false).Error
		if err != nil {
			return err
		}
	}

	return nil
}

// Get retrieves an assignment by ID.
func (r *GormAssignmentRepository) Get(ctx context.Context, id kernel.UUID) (*assignment.Assignment, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto AssignmentDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("assignment", id.String())
		}
		return nil, err
	}

	return r.loadAggregate(ctx, dto)
}

// GetActiveByParcel retrieves the assignment currently holding the parcel.
func (r *GormAssignmentRepository) GetActiveByParcel(
	ctx context.Context,
	parcelID kernel.UUID,
) (*assignment.Assignment, error) {
	if err := parcelID.Validate(); err != nil {
		return nil, err
	}

	var member AssignmentParcelDTO
	err := r.db.WithContext(ctx).
		First(&member, "parcel_id = ? AND active", parcelID.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("activeAssignment", parcelID.String())
		}
		return nil, err
	}

	var dto AssignmentDTO
	if err = r.db.WithContext(ctx).First(&dto, "id = ?", member.AssignmentID).Error; err != nil {
		return nil, err
	}

	return r.loadAggregate(ctx, dto)
}

// GetBySession retrieves all assignments of a session in route order.
func (r *GormAssignmentRepository) GetBySession(
	ctx context.Context,
	sessionID kernel.UUID,
) ([]*assignment.Assignment, error) {
	if err := sessionID.Validate(); err != nil {
		return nil, err
	}

	var dtos []AssignmentDTO
	err := r.db.WithContext(ctx).
		Order("route_order").
		Find(&dtos, "session_id = ?", sessionID.Bytes()).Error
	if err != nil {
		return nil, err
	}

	assignments := make([]*assignment.Assignment, 0, len(dtos))
	for _, dto := range dtos {
		a, loadErr := r.loadAggregate(ctx, dto)
		if loadErr != nil {
			return nil, loadErr
		}
		assignments = append(assignments, a)
	}

	return assignments, nil
}

// CountPendingBySession counts the session's assignments still awaiting an
// outcome.
func (r *GormAssignmentRepository) CountPendingBySession(
	ctx context.Context,
	sessionID kernel.UUID,
) (int, error) {
	if err := sessionID.Validate(); err != nil {
		return 0, err
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&AssignmentDTO{}).
		Where("session_id = ? AND status = ?", sessionID.Bytes(), assignment.Pending.String()).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return int(count), nil
}

// NextRouteOrder returns the route position after the session's current last
// assignment.
func (r *GormAssignmentRepository) NextRouteOrder(
	ctx context.Context,
	sessionID kernel.UUID,
) (int, error) {
	if err := sessionID.Validate(); err != nil {
		return 0, err
	}

	var last int
	err := r.db.WithContext(ctx).Model(&AssignmentDTO{}).
		Where("session_id = ?", sessionID.Bytes()).
		Select("COALESCE(MAX(route_order), 0)").
		Scan(&last).Error
	if err != nil {
		return 0, err
	}

	return last + 1, nil
}

func (r *GormAssignmentRepository) loadAggregate(
	ctx context.Context,
	dto AssignmentDTO,
) (*assignment.Assignment, error) {
	var members []AssignmentParcelDTO
	err := r.db.WithContext(ctx).
		Order("parcel_id").
		Find(&members, "assignment_id = ?", dto.ID).Error
	if err != nil {
		return nil, err
	}

	return toDomain(dto, members)
}

func memberParcelIDs(members []AssignmentParcelDTO) string {
	ids := ""
	for i, member := range members {
		if i > 0 {
			ids += ","
		}
		ids += member.ParcelID.String()
	}
	return ids
}
