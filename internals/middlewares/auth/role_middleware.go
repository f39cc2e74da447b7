package auth

import (
	"log"

	"github.com/gofiber/fiber/v2"

	helper "lingoboard_backend/internals/helpers"
	helperAuth "lingoboard_backend/internals/helpers/auth"
)

// RoleMiddlewareWithCustomError lets the request through when the caller holds one of allowedRoles.
func RoleMiddlewareWithCustomError(allowedRoles []string, customForbiddenMessage string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		roles := helperAuth.GetRoles(c)
		if len(roles) == 0 {
			return helper.JsonError(c, fiber.StatusUnauthorized, "unauthorized: missing role information")
		}

		if helperAuth.HasAnyRole(c, allowedRoles...) {
			return c.Next()
		}

		log.Printf("[AUTH] %s %s denied for roles %v", c.Method(), c.Path(), roles)
		if customForbiddenMessage == "" {
			customForbiddenMessage = "forbidden: you are not authorized to access this resource"
		}
		return helper.JsonErrorCode(c, fiber.StatusForbidden, "FORBIDDEN", customForbiddenMessage)
	}
}

func OnlyRolesSlice(message string, allowedRoles []string) fiber.Handler {
	return RoleMiddlewareWithCustomError(allowedRoles, message)
}
