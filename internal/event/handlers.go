package event

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, now func() time.Time) {
	if now == nil {
		now = time.Now
	}

	r.Get("/", func(c *fiber.Ctx) error {
		events, err := svc.List(c.Context())
		if err != nil {
			return listError(err)
		}
		return respond(c, events)
	})

	r.Get("/upcoming", func(c *fiber.Ctx) error {
		events, err := svc.Upcoming(c.Context(), now())
		if err != nil {
			return listError(err)
		}
		return respond(c, events)
	})
}

func listError(err error) error {
	if errors.Is(err, ErrNoDatabase) {
		return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
	}
	return fiber.NewError(fiber.StatusInternalServerError, err.Error())
}

func respond(c *fiber.Ctx, events []Event) error {
	if c.QueryBool("grouped") {
		return c.JSON(GroupByDate(events))
	}
	return c.JSON(events)
}
