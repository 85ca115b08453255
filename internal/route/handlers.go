package route

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service) {
	r.Get("/:id", func(c *fiber.Ctx) error {
		route, err := svc.GetRoute(c.Context(), c.Params("id"))
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		if err != nil {
			return err
		}
		return c.JSON(route)
	})

	r.Get("/:id/guidance", func(c *fiber.Ctx) error {
		points, err := svc.RouteGuidance(c.Context(), c.Params("id"))
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		if err != nil {
			return err
		}
		return c.JSON(points)
	})
}
