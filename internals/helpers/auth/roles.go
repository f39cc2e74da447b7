package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"lingoboard_backend/internals/constants"
	helper "lingoboard_backend/internals/helpers"
)

// Locals keys written by the auth middleware.
const (
	LocUserID = "user_id"
	LocRoles  = "roles"
	LocName   = "user_name"
)

// GetRoles returns the caller's roles from Locals; nil when none were set.
func GetRoles(c *fiber.Ctx) []string {
	switch v := c.Locals(LocRoles).(type) {
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, it := range v {
			if s, ok := it.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
		return out
	case string:
		if strings.TrimSpace(v) == "" {
			return nil
		}
		return []string{strings.TrimSpace(v)}
	default:
		return nil
	}
}

// HasRole compares case-insensitively.
func HasRole(c *fiber.Ctx, role string) bool {
	for _, r := range GetRoles(c) {
		if strings.EqualFold(r, role) {
			return true
		}
	}
	return false
}

func HasAnyRole(c *fiber.Ctx, roles ...string) bool {
	for _, r := range roles {
		if HasRole(c, r) {
			return true
		}
	}
	return false
}

func IsTeacherOrAdmin(c *fiber.Ctx) bool {
	return HasAnyRole(c, constants.TeacherAndAbove...)
}

// CurrentUser returns the caller id, failing with 401 for anonymous requests.
func CurrentUser(c *fiber.Ctx) (uuid.UUID, error) {
	return helper.GetUserIDFromToken(c)
}

// EnsureTeacher: 403 unless the caller is a teacher or an admin.
func EnsureTeacher(c *fiber.Ctx, feature string) (uuid.UUID, error) {
	id, err := CurrentUser(c)
	if err != nil {
		return uuid.Nil, err
	}
	if !IsTeacherOrAdmin(c) {
		return uuid.Nil, fiber.NewError(fiber.StatusForbidden, constants.RoleErrorTeacher(feature))
	}
	return id, nil
}
