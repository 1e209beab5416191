package parcel

import (
	"fmt"

	"shipping/internal/pkg/errs"
)

// Event is a lifecycle event fed into the parcel state machine. Events come
// from shipper actions (scan, delivery outcome), customer confirmations, and
// the scheduler sweeps (CONFIRM_TIMEOUT, CONFIRM_REMINDER).
type Event int

const (
	// EventUnknown represents an invalid or undefined event.
	EventUnknown Event = iota

	// ScanQR registers a parcel into a delivery session.
	ScanQR

	// DeliverySuccessful reports the parcel was handed over at the destination.
	DeliverySuccessful

	// CanNotDelivery reports the delivery could not be carried out.
	CanNotDelivery

	// Postpone defers the delivery beyond the current session.
	Postpone

	// Accident reports the parcel was lost or damaged on route.
	Accident

	// CustomerReceived is the customer's explicit receipt confirmation.
	CustomerReceived

	// ConfirmTimeout is the synthetic event raised by the timeout sweep when
	// the confirmation window lapses without a customer response.
	ConfirmTimeout

	// CustomerReject is the customer's explicit refusal of the delivery.
	CustomerReject

	// CustomerConfirmNotReceived is the customer's claim of non-receipt,
	// opening a dispute.
	CustomerConfirmNotReceived

	// ConfirmReminder is the synthetic event raised by the reminder sweep.
	// It is a same-state no-op used only to trigger a notification.
	ConfirmReminder

	// MissunderstandingDispute resolves a dispute in the shipper's favor.
	MissunderstandingDispute

	// FaultDispute resolves a dispute against the shipper.
	FaultDispute

	// EndSession returns a delayed parcel to the warehouse when its owning
	// session closes.
	EndSession
)

func getEventStrings() map[Event]string {
	return map[Event]string{
		EventUnknown:               "UNKNOWN",
		ScanQR:                     "SCAN_QR",
		DeliverySuccessful:         "DELIVERY_SUCCESSFUL",
		CanNotDelivery:             "CAN_NOT_DELIVERY",
		Postpone:                   "POSTPONE",
		Accident:                   "ACCIDENT",
		CustomerReceived:           "CUSTOMER_RECEIVED",
		ConfirmTimeout:             "CONFIRM_TIMEOUT",
		CustomerReject:             "CUSTOMER_REJECT",
		CustomerConfirmNotReceived: "CUSTOMER_CONFIRM_NOT_RECEIVED",
		ConfirmReminder:            "CONFIRM_REMINDER",
		MissunderstandingDispute:   "MISSUNDERSTANDING_DISPUTE",
		FaultDispute:               "FAULT_DISPUTE",
		EndSession:                 "END_SESSION",
	}
}

// Validate checks if the Event value is one of the defined lifecycle events.
func (e Event) Validate() error {
	if _, ok := getEventStrings()[e]; !ok || e == EventUnknown {
		return errs.NewValueIsInvalidErrorWithCause("event is invalid",
			fmt.Errorf("%d is not a valid parcel event", e))
	}
	return nil
}

// String returns the wire name of the event. It implements fmt.Stringer and
// is safe to call on any Event value, including invalid ones.
func (e Event) String() string {
	if str, ok := getEventStrings()[e]; ok {
		return str
	}
	return "UNKNOWN"
}

// EventFromString parses the wire name back into an Event. Used by the
// inbound surfaces that receive events as strings.
func EventFromString(s string) (Event, error) {
	for event, str := range getEventStrings() {
		if str == s && event != EventUnknown {
			return event, nil
		}
	}
	return EventUnknown, errs.NewValueIsInvalidErrorWithCause("event is invalid",
		fmt.Errorf("%q is not a valid parcel event", s))
}
