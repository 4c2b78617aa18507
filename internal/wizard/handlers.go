package wizard

import (
	"encoding/json"
	"errors"
	"slices"

	"backend-trailmeet/internal/activity"
	"backend-trailmeet/internal/auth"
	"backend-trailmeet/internal/event"
	"backend-trailmeet/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type activityRequest struct {
	Activity string `json:"activity"`
}

type advanceResponse struct {
	State State        `json:"state"`
	Event *event.Event `json:"event,omitempty"`
}

type closeResponse struct {
	Result string `json:"result"`
	State  State  `json:"state"`
}

func RegisterRoutes(r fiber.Router, sessions *Sessions, authMiddleware fiber.Handler) {
	r.Post("/open", authMiddleware, func(c *fiber.Ctx) error {
		return c.JSON(sessions.Get(auth.UserID(c)).Open(c.Context()))
	})

	r.Get("/", authMiddleware, func(c *fiber.Ctx) error {
		return c.JSON(sessions.Get(auth.UserID(c)).State())
	})

	r.Put("/activity", authMiddleware, func(c *fiber.Ctx) error {
		var req activityRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		t, err := activity.Parse(req.Activity)
		if err != nil {
			return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
		}
		state, err := sessions.Get(auth.UserID(c)).SelectActivity(c.Context(), t)
		if err != nil {
			return toHTTPError(err)
		}
		return c.JSON(state)
	})

	r.Patch("/draft", authMiddleware, func(c *fiber.Ctx) error {
		var patch map[string]json.RawMessage
		if err := json.Unmarshal(c.Body(), &patch); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		state, err := applyPatch(c, sessions.Get(auth.UserID(c)), patch)
		if err != nil {
			return toHTTPError(err)
		}
		return c.JSON(state)
	})

	r.Post("/advance", authMiddleware, func(c *fiber.Ctx) error {
		state, ev, err := sessions.Get(auth.UserID(c)).Advance(c.Context())
		if err != nil {
			return toHTTPError(err)
		}
		if ev != nil {
			c.Status(fiber.StatusCreated)
		}
		return c.JSON(advanceResponse{State: state, Event: ev})
	})

	r.Post("/retreat", authMiddleware, func(c *fiber.Ctx) error {
		state, err := sessions.Get(auth.UserID(c)).Retreat()
		if err != nil {
			return toHTTPError(err)
		}
		return c.JSON(state)
	})

	r.Post("/close", authMiddleware, func(c *fiber.Ctx) error {
		ctrl := sessions.Get(auth.UserID(c))
		result := ctrl.Close()
		return c.JSON(closeResponse{Result: result.String(), State: ctrl.State()})
	})

	r.Post("/discard", authMiddleware, func(c *fiber.Ctx) error {
		ctrl := sessions.Get(auth.UserID(c))
		if err := ctrl.Discard(c.Context()); err != nil {
			return toHTTPError(err)
		}
		return c.JSON(ctrl.State())
	})

	r.Post("/submit", authMiddleware, func(c *fiber.Ctx) error {
		ev, err := sessions.Get(auth.UserID(c)).Submit(c.Context())
		if err != nil {
			return toHTTPError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(ev)
	})
}

var patchFields = []string{
	"route_id", "date", "time", "event_name", "max_participants",
	"description", "add_disclaimer", "cover_photo_url",
}

// applyPatch decodes and checks every field in the patch before touching the
// draft, then applies them together in a fixed order. Null clears nullable
// fields.
func applyPatch(c *fiber.Ctx, ctrl *Controller, patch map[string]json.RawMessage) (State, error) {
	for key := range patch {
		if !slices.Contains(patchFields, key) {
			return State{}, fiber.NewError(fiber.StatusBadRequest, "unknown field "+key)
		}
	}

	edits := make([]Edit, 0, len(patch))
	for _, key := range patchFields {
		raw, ok := patch[key]
		if !ok {
			continue
		}
		edit, err := patchEdit(ctrl, key, raw)
		if err != nil {
			return State{}, err
		}
		edits = append(edits, edit)
	}
	return ctrl.Apply(c.Context(), edits...)
}

func patchEdit(ctrl *Controller, key string, raw json.RawMessage) (Edit, error) {
	switch key {
	case "route_id":
		var v *string
		if err := decodeField(raw, &v); err != nil {
			return nil, err
		}
		return ctrl.RouteEdit(deref(v))
	case "date":
		var v *string
		if err := decodeField(raw, &v); err != nil {
			return nil, err
		}
		if v == nil {
			return DateEdit(nil), nil
		}
		t, err := parseDate(*v, ctrl.location())
		if err != nil {
			return nil, errors.Join(ErrInvalidValue, err)
		}
		return DateEdit(&t), nil
	case "time":
		var v *string
		if err := decodeField(raw, &v); err != nil {
			return nil, err
		}
		return TimeEdit(deref(v))
	case "event_name":
		var v string
		err := decodeField(raw, &v)
		return NameEdit(v), err
	case "max_participants":
		var v int
		err := decodeField(raw, &v)
		return ParticipantsEdit(v), err
	case "description":
		var v string
		err := decodeField(raw, &v)
		return DescriptionEdit(v), err
	case "add_disclaimer":
		var v bool
		err := decodeField(raw, &v)
		return DisclaimerEdit(v), err
	case "cover_photo_url":
		var v *string
		if err := decodeField(raw, &v); err != nil {
			return nil, err
		}
		return CoverPhotoEdit(deref(v)), nil
	}
	return nil, fiber.NewError(fiber.StatusBadRequest, "unknown field "+key)
}

func decodeField(raw json.RawMessage, dst any) error {
	if err := json.Unmarshal(raw, dst); err != nil {
		return errors.Join(ErrInvalidValue, err)
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func toHTTPError(err error) error {
	var submitErr *SubmitError
	var fiberErr *fiber.Error
	var invalid *validation.Error
	switch {
	case errors.As(err, &fiberErr):
		return fiberErr
	case errors.As(err, &invalid):
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, ErrNotAuthenticated):
		return fiber.NewError(fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrMissingFields), errors.Is(err, ErrStepIncomplete), errors.Is(err, ErrInvalidValue):
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, ErrSubmitInFlight), errors.Is(err, ErrClosed):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.As(err, &submitErr):
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}
