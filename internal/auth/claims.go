package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const userIDLocal = "user_id"

// Claims is the token payload issued by the account service.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// UserID returns the user id stored by JWTMiddleware, or "" when the request
// was not authenticated.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(userIDLocal).(string)
	return id
}
