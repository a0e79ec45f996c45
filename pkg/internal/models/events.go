package models

import "strings"

type EventKind = string

const (
	EventAppointmentBooked        = EventKind("appointment.booked")
	EventAppointmentStatusChanged = EventKind("appointment.status")
	EventAppointmentCancelled     = EventKind("appointment.cancelled")
	EventPaymentCompleted         = EventKind("payment.completed")
)

type AppointmentStatus = string

const (
	StatusBooked    = AppointmentStatus("booked")
	StatusCancelled = AppointmentStatus("cancelled")
	StatusCheckin   = AppointmentStatus("checkin")
	StatusCheckout  = AppointmentStatus("checkout")
	StatusOther     = AppointmentStatus("other")
)

// ParseStatus accepts both the status names and the numeric codes
// used by the scheduler (1 booked, 0 cancelled, 3 checkout, 4 checkin).
func ParseStatus(raw string) AppointmentStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "booked", "confirmed":
		return StatusBooked
	case "0", "cancelled", "canceled":
		return StatusCancelled
	case "4", "checkin", "check-in":
		return StatusCheckin
	case "3", "checkout", "check-out":
		return StatusCheckout
	default:
		return StatusOther
	}
}

// Event is a lifecycle notification coming from the scheduler or the shop.
type Event struct {
	Kind    EventKind
	EventID EventID
	Status  AppointmentStatus
	Actor   string
	Items   []OrderItem
}

// OrderItem is a line of a completed order, optionally bound to an appointment.
type OrderItem struct {
	EventID EventID `json:"event_id"`
}
