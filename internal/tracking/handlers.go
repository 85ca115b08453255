package tracking

import (
	"errors"
	"strconv"

	"github.com/AI-DreDaline/AI-DreDaline-BE/internal/auth"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/start", authMiddleware, func(c *fiber.Ctx) error {
		var req StartSessionRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		// the token wins over the body
		if uid := auth.UserID(c); uid != "" {
			req.UserID = uid
		}
		resp, err := svc.StartSession(c.Context(), req)
		if err != nil {
			return httpError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(resp)
	})

	r.Post("/:id/tracking", authMiddleware, func(c *fiber.Ctx) error {
		var req TrackRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := svc.TrackSample(c.Context(), c.Params("id"), req); err != nil {
			return httpError(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	r.Patch("/:id/pause", authMiddleware, func(c *fiber.Ctx) error {
		if err := svc.PauseSession(c.Context(), c.Params("id")); err != nil {
			return httpError(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	r.Patch("/:id/resume", authMiddleware, func(c *fiber.Ctx) error {
		if err := svc.ResumeSession(c.Context(), c.Params("id")); err != nil {
			return httpError(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	r.Post("/:id/complete", authMiddleware, func(c *fiber.Ctx) error {
		resp, err := svc.CompleteSession(c.Context(), c.Params("id"))
		if err != nil {
			return httpError(err)
		}
		return c.JSON(resp)
	})

	r.Get("/statistics/:userId", func(c *fiber.Ctx) error {
		stats, err := svc.GetUserStatistics(c.Context(), c.Params("userId"))
		if err != nil {
			return httpError(err)
		}
		return c.JSON(stats)
	})

	r.Get("/", func(c *fiber.Ctx) error {
		page, err := intQuery(c, "page", 0)
		if err != nil {
			return err
		}
		size, err := intQuery(c, "size", 10)
		if err != nil {
			return err
		}
		result, err := svc.ListCompletedSessions(c.Context(), c.Query("userId"), page, size)
		if err != nil {
			return httpError(err)
		}
		return c.JSON(result)
	})

	r.Get("/:id", func(c *fiber.Ctx) error {
		session, err := svc.GetSessionDetail(c.Context(), c.Params("id"))
		if err != nil {
			return httpError(err)
		}
		return c.JSON(session)
	})

	r.Get("/:id/points", func(c *fiber.Ctx) error {
		points, err := svc.ListGpsPoints(c.Context(), c.Params("id"))
		if err != nil {
			return httpError(err)
		}
		return c.JSON(points)
	})

	r.Get("/:id/analysis", func(c *fiber.Ctx) error {
		analysis, err := svc.AnalyzeSession(c.Context(), c.Params("id"))
		if err != nil {
			return httpError(err)
		}
		return c.JSON(analysis)
	})
}

func intQuery(c *fiber.Ctx, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, key+" must be an integer")
	}
	return v, nil
}

// httpError maps domain errors to status codes. Anything unclassified is
// returned as is and ends up as a 500 in the server's error handler.
func httpError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidState), errors.Is(err, ErrValidation):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, ErrConflict):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, ErrUpstreamUnavailable):
		return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
	default:
		return err
	}
}
