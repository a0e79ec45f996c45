package api

import (
	"time"

	"git.solsynth.dev/hypernet/telemed/pkg/internal/config"
	"git.solsynth.dev/hypernet/telemed/pkg/internal/server/exts"
	"git.solsynth.dev/hypernet/telemed/pkg/internal/models"
	"git.solsynth.dev/hypernet/telemed/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

// eventIdParam copies the path param out of the request buffer, which fiber
// reuses once the handler returns.
func eventIdParam(c *fiber.Ctx) (models.EventID, error) {
	id := models.EventID(utils.CopyString(c.Params("eventId")))
	if id.IsZero() {
		return id, fiber.NewError(fiber.StatusBadRequest, "appointment id is required")
	}
	return id, nil
}

func (h *Handler) getRoom(c *fiber.Ctx) error {
	id, err := eventIdParam(c)
	if err != nil {
		return err
	}

	if room, err := h.Rooms.GetRoom(c.UserContext(), id); err != nil {
		return toHttpError(err)
	} else {
		return c.JSON(room)
	}
}

func (h *Handler) createRoom(c *fiber.Ctx) error {
	id, err := eventIdParam(c)
	if err != nil {
		return err
	}

	var data struct {
		Actor    string         `json:"actor" validate:"max=64"`
		Metadata map[string]any `json:"metadata"`
	}
	if len(c.Body()) > 0 {
		if err := exts.BindAndValidate(c, &data); err != nil {
			return err
		}
	}

	room, err := h.Rooms.CreateRoom(c.UserContext(), id, models.RoomOptions{
		CreatedBy: data.Actor,
		Metadata:  data.Metadata,
	})
	if err != nil {
		return toHttpError(err)
	}
	return c.JSON(room)
}

func (h *Handler) endRoom(c *fiber.Ctx) error {
	id, err := eventIdParam(c)
	if err != nil {
		return err
	}

	ended, err := h.Rooms.EndRoom(c.UserContext(), id)
	if err != nil {
		return toHttpError(err)
	}
	return c.JSON(fiber.Map{"ended": ended})
}

func (h *Handler) joinRoom(c *fiber.Ctx) error {
	id, err := eventIdParam(c)
	if err != nil {
		return err
	}

	var data struct {
		UserID   string     `json:"user_id" validate:"required,max=64"`
		Role     string     `json:"role" validate:"omitempty,oneof=doctor patient guest"`
		StartsAt *time.Time `json:"starts_at"`
		EndsAt   *time.Time `json:"ends_at"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	if data.StartsAt != nil {
		var endsAt time.Time
		if data.EndsAt != nil {
			endsAt = *data.EndsAt
		}
		if !services.WithinAccessWindow(h.Now(), *data.StartsAt, endsAt, h.Settings.AccessWindow) {
			return fiber.NewError(fiber.StatusForbidden, "the consultation is not open for joining at this time")
		}
	}

	join, err := h.Rooms.GetJoinData(c.UserContext(), id, data.UserID, models.NormalizeRole(data.Role))
	if err != nil {
		return toHttpError(err)
	}

	return c.JSON(struct {
		models.JoinData
		Provider string          `json:"provider"`
		Branding config.Branding `json:"branding"`
	}{
		JoinData: join,
		Provider: h.Rooms.Provider().Name(),
		Branding: h.Settings.Branding,
	})
}
