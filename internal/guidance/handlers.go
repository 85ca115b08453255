package guidance

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(r fiber.Router, svc *Service) {
	r.Get("/:id", func(c *fiber.Ctx) error {
		g, err := svc.TextAndAudio(c.Context(), c.Params("id"))
		if err != nil {
			return err
		}
		return c.JSON(g)
	})
}
