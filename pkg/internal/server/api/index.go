package api

import (
	"time"

	"git.solsynth.dev/hypernet/telemed/pkg/internal/config"
	"git.solsynth.dev/hypernet/telemed/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
)

// Handler carries what the route handlers need. It is built once at startup.
type Handler struct {
	Rooms    *services.RoomManager
	Events   *services.EventRouter
	Settings config.Settings
	Now      func() time.Time
}

func MapAPIs(app *fiber.App, baseURL string, h *Handler) {
	if h.Now == nil {
		h.Now = time.Now
	}

	api := app.Group(baseURL).Name("API")
	{
		events := api.Group("/events").Name("Events API")
		{
			events.Post("/appointments/booked", h.appointmentBooked)
			events.Post("/appointments/status", h.appointmentStatusChanged)
			events.Post("/appointments/cancelled", h.appointmentCancelled)
			events.Post("/payments/completed", h.paymentCompleted)
		}

		rooms := api.Group("/rooms").Name("Rooms API")
		{
			rooms.Get("/:eventId", h.getRoom)
			rooms.Post("/:eventId", h.createRoom)
			rooms.Delete("/:eventId", h.endRoom)
			rooms.Post("/:eventId/join", h.joinRoom)
		}
	}
}
