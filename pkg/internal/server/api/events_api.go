package api

import (
	"git.solsynth.dev/hypernet/telemed/pkg/internal/server/exts"
	"git.solsynth.dev/hypernet/telemed/pkg/internal/models"
	"github.com/gofiber/fiber/v2"
)

// Appointment ids are deliberately not required here. An event without one
// is acknowledged as a no-op so the scheduler does not keep redelivering it.

func (h *Handler) appointmentBooked(c *fiber.Ctx) error {
	var data struct {
		EventID models.EventID `json:"event_id"`
		Actor   string         `json:"actor" validate:"max=64"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	action, err := h.Events.OnAppointmentBooked(c.UserContext(), data.EventID, data.Actor)
	if err != nil {
		return toHttpError(err)
	}
	return c.JSON(fiber.Map{"action": action})
}

func (h *Handler) appointmentStatusChanged(c *fiber.Ctx) error {
	var data struct {
		EventID models.EventID    `json:"event_id"`
		Status  models.StatusCode `json:"status"`
		Actor   string            `json:"actor" validate:"max=64"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	action, err := h.Events.OnAppointmentStatusChanged(c.UserContext(), data.EventID, string(data.Status), data.Actor)
	if err != nil {
		return toHttpError(err)
	}
	return c.JSON(fiber.Map{"action": action})
}

func (h *Handler) appointmentCancelled(c *fiber.Ctx) error {
	var data struct {
		EventID models.EventID `json:"event_id"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	action, err := h.Events.OnAppointmentCancelled(c.UserContext(), data.EventID)
	if err != nil {
		return toHttpError(err)
	}
	return c.JSON(fiber.Map{"action": action})
}

func (h *Handler) paymentCompleted(c *fiber.Ctx) error {
	var data struct {
		OrderID string             `json:"order_id"`
		Items   []models.OrderItem `json:"items"`
		Actor   string             `json:"actor" validate:"max=64"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	// A partially failed order still answers with an error so the shop
	// redelivers it. Rooms created on the first pass are kept and reused.
	action, err := h.Events.OnPaymentCompleted(c.UserContext(), data.Items, data.Actor)
	if err != nil {
		return toHttpError(err)
	}
	return c.JSON(fiber.Map{"action": action})
}
