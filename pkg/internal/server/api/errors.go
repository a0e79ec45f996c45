package api

import (
	"errors"

	"git.solsynth.dev/hypernet/telemed/pkg/internal/services"
	"git.solsynth.dev/hypernet/telemed/pkg/internal/store"
	"github.com/gofiber/fiber/v2"
)

// toHttpError maps service failures to status codes. Storage faults answer
// 503 so the event source redelivers.
func toHttpError(err error) error {
	switch {
	case errors.Is(err, services.ErrRoomNotFound), errors.Is(err, store.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrNotConfigured):
		return fiber.NewError(fiber.StatusServiceUnavailable, "teleconsultation is not ready: "+err.Error())
	case errors.Is(err, store.ErrStorage):
		return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}
