package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

var parseMiddlewareClaimsFn = jwt.ParseWithClaims

// JWTMiddleware accepts HS256 bearer tokens signed with secret and carrying a
// user_id claim. The id is stored for UserID.
func JWTMiddleware(secret string) fiber.Handler {
	key := []byte(secret)
	keyFunc := func(_ *jwt.Token) (interface{}, error) { return key, nil }

	return func(c *fiber.Ctx) error {
		raw := bearerToken(c.Get(fiber.HeaderAuthorization))
		if raw == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}

		token, err := parseMiddlewareClaimsFn(raw, &Claims{}, keyFunc,
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired())
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}

		claims, ok := token.Claims.(*Claims)
		if !ok || !token.Valid || claims.UserID == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "token invalid")
		}

		c.Locals(userIDLocal, claims.UserID)
		return c.Next()
	}
}

func bearerToken(header string) string {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
