package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const userIDLocal = "user_id"

// JWTMiddleware rejects requests without a valid access token issued by svc.
// The token's subject is stored in locals and read back with UserID.
func JWTMiddleware(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerFromHeader(c.Get(fiber.HeaderAuthorization))
		if token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}

		userID, err := svc.ValidateAccessToken(token)
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return fiber.NewError(fiber.StatusUnauthorized, "token expired")
		case err != nil:
			return fiber.NewError(fiber.StatusUnauthorized, ErrTokenInvalid.Error())
		case userID == "":
			return fiber.NewError(fiber.StatusUnauthorized, "token has no subject")
		}

		c.Locals(userIDLocal, userID)
		return c.Next()
	}
}
