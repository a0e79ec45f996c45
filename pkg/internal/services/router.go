package services

import (
	"context"
	"errors"

	"git.solsynth.dev/hypernet/telemed/pkg/internal/models"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

// RoomLifecycle is what the router drives.
type RoomLifecycle interface {
	CreateRoom(ctx context.Context, id models.EventID, opts models.RoomOptions) (models.Room, error)
	EndRoom(ctx context.Context, id models.EventID) (bool, error)
}

type Action = string

const (
	ActionNone   = Action("none")
	ActionCreate = Action("create")
	ActionEnd    = Action("end")
)

type eventHandler func(ctx context.Context, event models.Event) (Action, error)

// EventRouter turns scheduler and shop notifications into room operations.
type EventRouter struct {
	rooms    RoomLifecycle
	handlers map[models.EventKind]eventHandler
}

func NewEventRouter(rooms RoomLifecycle) *EventRouter {
	v := &EventRouter{rooms: rooms}
	v.handlers = map[models.EventKind]eventHandler{
		models.EventAppointmentBooked:        v.handleBooked,
		models.EventAppointmentStatusChanged: v.handleStatusChanged,
		models.EventAppointmentCancelled:     v.handleCancelled,
		models.EventPaymentCompleted:         v.handlePaymentCompleted,
	}
	return v
}

// Dispatch applies the policy for one event. Malformed events are dropped
// with a warning and never reported back as errors; storage faults are.
func (v *EventRouter) Dispatch(ctx context.Context, event models.Event) (Action, error) {
	handler, ok := v.handlers[event.Kind]
	if !ok {
		log.Warn().Str("kind", event.Kind).Msg("Got an event of unknown kind, ignored...")
		return ActionNone, nil
	}
	return handler(ctx, event)
}

func (v *EventRouter) OnAppointmentBooked(ctx context.Context, id models.EventID, actor string) (Action, error) {
	return v.Dispatch(ctx, models.Event{Kind: models.EventAppointmentBooked, EventID: id, Actor: actor})
}

func (v *EventRouter) OnAppointmentStatusChanged(ctx context.Context, id models.EventID, status string, actor string) (Action, error) {
	return v.Dispatch(ctx, models.Event{
		Kind:    models.EventAppointmentStatusChanged,
		EventID: id,
		Status:  models.ParseStatus(status),
		Actor:   actor,
	})
}

func (v *EventRouter) OnAppointmentCancelled(ctx context.Context, id models.EventID) (Action, error) {
	return v.Dispatch(ctx, models.Event{Kind: models.EventAppointmentCancelled, EventID: id})
}

func (v *EventRouter) OnPaymentCompleted(ctx context.Context, items []models.OrderItem, actor string) (Action, error) {
	return v.Dispatch(ctx, models.Event{Kind: models.EventPaymentCompleted, Items: items, Actor: actor})
}

func invalidEvent(event models.Event) (Action, error) {
	log.Warn().Str("kind", event.Kind).Msg("Got an event without appointment id, ignored...")
	return ActionNone, nil
}

func (v *EventRouter) create(ctx context.Context, event models.Event, id models.EventID) (Action, error) {
	if _, err := v.rooms.CreateRoom(ctx, id, models.RoomOptions{CreatedBy: event.Actor}); err != nil {
		return ActionNone, err
	}
	return ActionCreate, nil
}

func (v *EventRouter) end(ctx context.Context, id models.EventID) (Action, error) {
	if _, err := v.rooms.EndRoom(ctx, id); err != nil {
		return ActionNone, err
	}
	return ActionEnd, nil
}

func (v *EventRouter) handleBooked(ctx context.Context, event models.Event) (Action, error) {
	if event.EventID.IsZero() {
		return invalidEvent(event)
	}
	return v.create(ctx, event, event.EventID)
}

func (v *EventRouter) handleStatusChanged(ctx context.Context, event models.Event) (Action, error) {
	if event.EventID.IsZero() {
		return invalidEvent(event)
	}

	switch event.Status {
	case models.StatusBooked:
		return v.create(ctx, event, event.EventID)
	case models.StatusCancelled:
		return v.end(ctx, event.EventID)
	default:
		log.Debug().Str("event", event.EventID.String()).Str("status", event.Status).
			Msg("Appointment status needs no room change.")
		return ActionNone, nil
	}
}

func (v *EventRouter) handleCancelled(ctx context.Context, event models.Event) (Action, error) {
	if event.EventID.IsZero() {
		return invalidEvent(event)
	}
	return v.end(ctx, event.EventID)
}

func (v *EventRouter) handlePaymentCompleted(ctx context.Context, event models.Event) (Action, error) {
	ids := lo.Uniq(lo.FilterMap(event.Items, func(item models.OrderItem, _ int) (models.EventID, bool) {
		return models.EventID(item.EventID.String()), !item.EventID.IsZero()
	}))
	if len(ids) == 0 {
		log.Debug().Int("items", len(event.Items)).Msg("Completed order carries no appointment, ignored.")
		return ActionNone, nil
	}

	// Every bound appointment gets its attempt even after an earlier one failed.
	var errs []error
	for _, id := range ids {
		if _, err := v.create(ctx, event, id); err != nil {
			log.Error().Err(err).Str("event", id.String()).Msg("Unable to create room for paid appointment...")
			errs = append(errs, err)
		}
	}
	if len(errs) == len(ids) {
		return ActionNone, errors.Join(errs...)
	}
	return ActionCreate, errors.Join(errs...)
}
