package storage

import (
	"errors"

	"backend-trailmeet/internal/auth"
	"backend-trailmeet/internal/validation"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/covers", authMiddleware, func(c *fiber.Ctx) error {
		var req CoverRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		cover, err := svc.RegisterCover(c.Context(), auth.UserID(c), req)
		var invalid *validation.Error
		switch {
		case errors.Is(err, ErrTooLarge):
			return fiber.NewError(fiber.StatusRequestEntityTooLarge, err.Error())
		case errors.Is(err, ErrNotImage):
			return fiber.NewError(fiber.StatusUnsupportedMediaType, err.Error())
		case errors.As(err, &invalid):
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		case err != nil:
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(cover)
	})

	r.Delete("/covers/:id", authMiddleware, func(c *fiber.Ctx) error {
		err := svc.RemoveCover(c.Context(), auth.UserID(c), c.Params("id"))
		switch {
		case errors.Is(err, ErrInvalidID):
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		case errors.Is(err, ErrNotFound):
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		case err != nil:
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}
