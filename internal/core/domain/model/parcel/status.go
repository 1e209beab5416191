package parcel

import (
	"fmt"

	"shipping/internal/pkg/errs"
)

// Status represents the lifecycle state of a parcel.
//
// State transitions:
//
//	IN_WAREHOUSE ──SCAN_QR──> ON_ROUTE ──DELIVERY_SUCCESSFUL──> DELIVERED
//	ON_ROUTE ──CAN_NOT_DELIVERY/ACCIDENT──> FAILED
//	ON_ROUTE ──POSTPONE──> DELAYED ──END_SESSION──> IN_WAREHOUSE
//	DELIVERED ──CUSTOMER_RECEIVED/CONFIRM_TIMEOUT──> SUCCEEDED
//	DELIVERED ──CUSTOMER_REJECT──> FAILED
//	DELIVERED ──CUSTOMER_CONFIRM_NOT_RECEIVED──> DISPUTE
//	DISPUTE ──MISSUNDERSTANDING_DISPUTE──> SUCCEEDED
//	DISPUTE ──FAULT_DISPUTE──> LOST
//
// SUCCEEDED, FAILED, and LOST are terminal: no event is legal from them.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// InWarehouse is the initial status of every parcel. Parcels in this
	// status can be scanned into a delivery session.
	InWarehouse

	// OnRoute indicates the parcel is out for delivery within a session.
	OnRoute

	// Delivered indicates the parcel reached the customer and awaits
	// confirmation within the configured confirmation window.
	Delivered

	// Dispute indicates the customer claims non-receipt after delivery.
	Dispute

	// Delayed indicates delivery was postponed beyond the current session.
	Delayed

	// Succeeded is the terminal status of a confirmed delivery.
	Succeeded

	// Failed is the terminal status of an unsuccessful delivery.
	Failed

	// Lost is the terminal status of a dispute resolved against the shipper.
	Lost
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:     "UNKNOWN",
		InWarehouse: "IN_WAREHOUSE",
		OnRoute:     "ON_ROUTE",
		Delivered:   "DELIVERED",
		Dispute:     "DISPUTE",
		Delayed:     "DELAYED",
		Succeeded:   "SUCCEEDED",
		Failed:      "FAILED",
		Lost:        "LOST",
	}
}

// Validate checks if the Status value is one of the defined parcel statuses.
// Unknown (0) and any other values are invalid.
func (s Status) Validate() error {
	if _, ok := getStatusStrings()[s]; !ok || s == Unknown {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%d is not a valid parcel status", s))
	}
	return nil
}

// String returns the wire name of the status. It implements fmt.Stringer and
// is safe to call on any Status value, including invalid ones.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// IsTerminal reports whether the status has no outgoing transitions.
func (s Status) IsTerminal() bool {
	return s == Succeeded || s == Failed || s == Lost
}

// StatusFromString parses the wire name back into a Status. Used when
// restoring parcels from persistence.
func StatusFromString(s string) (Status, error) {
	for status, str := range getStatusStrings() {
		if str == s && status != Unknown {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid",
		fmt.Errorf("%q is not a valid parcel status", s))
}

// Effect is a bitmask of side effects a transition asks its caller to carry
// out. The state machine itself performs no I/O.
type Effect uint8

const (
	// EffectSetDeliveredAt asks the caller to stamp deliveredAt, set only on
	// the first entry into Delivered.
	EffectSetDeliveredAt Effect = 1 << iota

	// EffectSkipPersist marks a same-state no-op transition that must not be
	// written back to storage. Used by CONFIRM_REMINDER, which exists purely
	// to trigger a notification.
	EffectSkipPersist
)

// EffectNone is the empty effect set.
const EffectNone Effect = 0

// Has reports whether the effect set contains f.
func (e Effect) Has(f Effect) bool {
	return e&f != 0
}

type transition struct {
	next   Status
	effect Effect
}

// transitions is the full legal lifecycle of a parcel. Any (status, event)
// pair absent from this table is an invalid transition. Terminal statuses
// are rejected before the lookup, so they carry no rows.
func transitions() map[Status]map[Event]transition {
	return map[Status]map[Event]transition{
		InWarehouse: {
			ScanQR: {next: OnRoute},
		},
		OnRoute: {
			DeliverySuccessful: {next: Delivered, effect: EffectSetDeliveredAt},
			CanNotDelivery:     {next: Failed},
			Postpone:           {next: Delayed},
			Accident:           {next: Failed},
		},
		Delayed: {
			EndSession: {next: InWarehouse},
		},
		Delivered: {
			CustomerReceived:           {next: Succeeded},
			ConfirmTimeout:             {next: Succeeded},
			CustomerReject:             {next: Failed},
			CustomerConfirmNotReceived: {next: Dispute},
			ConfirmReminder:            {next: Delivered, effect: EffectSkipPersist},
		},
		Dispute: {
			MissunderstandingDispute: {next: Succeeded},
			FaultDispute:             {next: Lost},
		},
	}
}

// Apply resolves the transition for the given event. It is a pure function:
// no I/O, deterministic, and exhaustive over the transition table.
//
// Returns the next status and the side effects the caller must perform, or
// an InvalidTransitionError naming the current status and event. Events
// applied to a terminal status yield an "already finalized" error.
func (s Status) Apply(e Event) (Status, Effect, error) {
	if err := e.Validate(); err != nil {
		return Unknown, EffectNone, err
	}

	if s.IsTerminal() {
		return Unknown, EffectNone, errs.NewAlreadyFinalizedError("parcel", s.String(), e.String())
	}

	t, ok := transitions()[s][e]
	if !ok {
		return Unknown, EffectNone, errs.NewInvalidTransitionError("parcel", s.String(), e.String())
	}

	return t.next, t.effect, nil
}
