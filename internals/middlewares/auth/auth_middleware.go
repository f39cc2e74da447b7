// internals/middlewares/auth/auth_middleware.go
package auth

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"

	"lingoboard_backend/internals/configs"
	helper "lingoboard_backend/internals/helpers"
	helperAuth "lingoboard_backend/internals/helpers/auth"
)

const expirySkew = 30 * time.Second

// AuthMiddleware verifies the HMAC-signed access token and stores the caller in Locals:
// "user_id" (string UUID), "roles" ([]string) and "user_name" when present.
func AuthMiddleware(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, err := extractBearerToken(c)
		if err != nil {
			return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
		}

		secretKey := configs.JWTSecret
		if secretKey == "" {
			log.Println("[ERROR] JWT_SECRET is empty")
			return helper.JsonError(c, fiber.StatusInternalServerError, "missing JWT secret")
		}

		claims := jwt.MapClaims{}
		parser := jwt.Parser{SkipClaimsValidation: true}
		if _, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(secretKey), nil
		}); err != nil {
			log.Println("[AUTH] token parse:", err)
			return helper.JsonError(c, fiber.StatusUnauthorized, "unauthorized - token parse error")
		}

		if err := validateTokenExpiry(claims, expirySkew, time.Now()); err != nil {
			log.Println("[AUTH] exp:", err)
			return helper.JsonError(c, fiber.StatusUnauthorized, "unauthorized - token expired")
		}

		userID, err := extractUserID(claims)
		if err != nil {
			log.Println("[AUTH] user_id:", err)
			return helper.JsonError(c, fiber.StatusUnauthorized, "unauthorized - invalid or missing user id")
		}

		if err := ensureUserActive(db, userID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return helper.JsonError(c, fiber.StatusUnauthorized, "unauthorized - user not found")
			}
			if errors.Is(err, errUserInactive) {
				return helper.JsonError(c, fiber.StatusForbidden, "your account has been deactivated")
			}
			log.Println("[AUTH] ensureUserActive:", err)
			return helper.JsonError(c, fiber.StatusInternalServerError, "internal server error")
		}

		roles := extractRoles(claims)
		if len(roles) == 0 {
			if roles, err = loadRoles(db, userID); err != nil {
				log.Println("[AUTH] loadRoles:", err)
				return helper.JsonError(c, fiber.StatusInternalServerError, "internal server error")
			}
		}

		c.Locals(helperAuth.LocUserID, userID.String())
		c.Locals(helperAuth.LocRoles, roles)
		if name, ok := claims["user_name"].(string); ok {
			c.Locals(helperAuth.LocName, name)
		}
		helper.SetRawAccessToken(c, tokenString)
		return c.Next()
	}
}
