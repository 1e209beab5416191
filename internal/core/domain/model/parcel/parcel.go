package parcel

import (
	"errors"
	"time"

	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/pkg/errs"
)

// ErrParcelIsNotConstructed is returned when a Parcel instance was not created
// through the NewParcel or RestoreParcel factory methods.
var ErrParcelIsNotConstructed = errors.New("Parcel must be created via NewParcel or RestoreParcel")

// Parcel represents a single package tracked through the delivery state
// machine. The aggregate owns the parcel's status; all mutation goes through
// Apply so the transition table in status.go is the only authority on legal
// lifecycle moves.
//
// Invariants:
//   - Must have a valid unique identifier
//   - deliveredAt is stamped exactly once, on the first entry into Delivered
//   - Status changes only via Apply (or ReturnToWarehouse on session close)
//   - When both delivery-window bounds are set, the window start precedes its end
type Parcel struct {
	// id is the unique identifier for the parcel
	id kernel.UUID

	// status is the current state in the delivery lifecycle
	status Status

	// deliveredAt is set on the first transition into Delivered and never
	// changed afterwards
	deliveredAt *time.Time

	// windowFrom and windowTo bound the requested delivery window; either
	// may be nil when the customer gave no constraint
	windowFrom *time.Time
	windowTo   *time.Time

	// isConstructed ensures the parcel was created via a factory method
	isConstructed bool
}

// NewParcel creates a parcel in InWarehouse status with an optional delivery
// window. Returns an error if the id is invalid or the window bounds are
// inverted.
func NewParcel(id kernel.UUID, windowFrom, windowTo *time.Time) (*Parcel, error) {
	p := &Parcel{
		status:        InWarehouse,
		isConstructed: true,
	}

	if err := errors.Join(
		p.setID(id),
		p.setWindow(windowFrom, windowTo),
	); err != nil {
		return nil, err
	}

	return p, nil
}

// RestoreParcel reconstructs a parcel from persistence. Unlike NewParcel it
// accepts any valid status and an already-stamped deliveredAt.
func RestoreParcel(
	id kernel.UUID,
	status Status,
	deliveredAt *time.Time,
	windowFrom, windowTo *time.Time,
) (*Parcel, error) {
	p := &Parcel{
		isConstructed: true,
	}

	if err := errors.Join(
		p.setID(id),
		status.Validate(),
		p.setWindow(windowFrom, windowTo),
	); err != nil {
		return nil, err
	}

	p.status = status
	p.deliveredAt = deliveredAt
	return p, nil
}

// Validate ensures the Parcel instance was properly constructed through a
// factory method. Call when reconstructing parcels from external input.
func (p *Parcel) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrParcelIsNotConstructed
	}
	return nil
}

// IsEqual compares two parcels by their unique identifiers.
func (p *Parcel) IsEqual(other *Parcel) bool {
	return other != nil && p.id.IsEqual(other.id)
}

// ID returns the parcel's unique identifier.
func (p *Parcel) ID() kernel.UUID {
	return p.id
}

// Status returns the current status of the parcel.
func (p *Parcel) Status() Status {
	return p.status
}

// DeliveredAt returns the timestamp of the first entry into Delivered,
// or nil if the parcel has not been delivered.
func (p *Parcel) DeliveredAt() *time.Time {
	return p.deliveredAt
}

// WindowFrom returns the start of the requested delivery window, if any.
func (p *Parcel) WindowFrom() *time.Time {
	return p.windowFrom
}

// WindowTo returns the end of the requested delivery window, if any.
func (p *Parcel) WindowTo() *time.Time {
	return p.windowTo
}

// Apply runs the given event through the state machine and mutates the parcel
// accordingly. deliveredAt is stamped with now on the first entry into
// Delivered only.
//
// The returned Effect tells the caller what else the transition requires:
// EffectSkipPersist means the parcel must NOT be written back (the
// CONFIRM_REMINDER no-op), so callers check it before persisting.
func (p *Parcel) Apply(event Event, now time.Time) (Effect, error) {
	next, effect, err := p.status.Apply(event)
	if err != nil {
		return EffectNone, err
	}

	if effect.Has(EffectSkipPersist) {
		return effect, nil
	}

	p.status = next
	if effect.Has(EffectSetDeliveredAt) && p.deliveredAt == nil {
		stamped := now
		p.deliveredAt = &stamped
	}

	return effect, nil
}

// ReturnToWarehouse puts the parcel back into InWarehouse when its owning
// session closes without delivering it. Delayed parcels go through the
// END_SESSION transition; parcels still on route take the equivalent path.
// A parcel still InWarehouse was assigned but never scanned, so there is
// nothing to return; releasing custody is the assignment's job. Any other
// status is rejected.
func (p *Parcel) ReturnToWarehouse() error {
	switch p.status {
	case Delayed:
		_, err := p.Apply(EndSession, time.Time{})
		return err
	case OnRoute:
		p.status = InWarehouse
		return nil
	case InWarehouse:
		return nil
	default:
		return errs.NewInvalidTransitionError("parcel", p.status.String(), EndSession.String())
	}
}

func (p *Parcel) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	p.id = id
	return nil
}

func (p *Parcel) setWindow(from, to *time.Time) error {
	if from != nil && to != nil && !from.Before(*to) {
		return errs.NewValueIsInvalidError("delivery window bounds are inverted")
	}
	p.windowFrom = from
	p.windowTo = to
	return nil
}
