// internals/middlewares/auth/claim_utils.go
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"

	userModel "lingoboard_backend/internals/features/users/user/model"
	helper "lingoboard_backend/internals/helpers"
)

var errUserInactive = errors.New("user inactive")

/* ======== Extractors ======== */

func extractBearerToken(c *fiber.Ctx) (string, error) {
	tok := strings.Trim(helper.GetRawAccessToken(c), "\"'")
	if tok == "" {
		return "", fmt.Errorf("unauthorized - no token provided")
	}
	return tok, nil
}

func validateTokenExpiry(claims jwt.MapClaims, skew time.Duration, now time.Time) error {
	expVal, ok := claims["exp"]
	if !ok {
		return fmt.Errorf("token has no exp")
	}

	var expUnix int64
	switch t := expVal.(type) {
	case float64:
		expUnix = int64(t)
	case int64:
		expUnix = t
	case json.Number:
		n, err := t.Int64()
		if err != nil {
			return fmt.Errorf("invalid exp format")
		}
		expUnix = n
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid exp format")
		}
		expUnix = n
	default:
		return fmt.Errorf("invalid exp type")
	}

	expTime := time.Unix(expUnix, 0).UTC()
	if now.UTC().After(expTime.Add(skew)) {
		return fmt.Errorf("token expired at %v", expTime)
	}
	return nil
}

// extractUserID accepts "id", "sub" or "user_id".
func extractUserID(claims jwt.MapClaims) (uuid.UUID, error) {
	for _, k := range []string{"id", "sub", "user_id"} {
		if s, ok := claims[k].(string); ok && strings.TrimSpace(s) != "" {
			return uuid.Parse(strings.TrimSpace(s))
		}
	}
	return uuid.Nil, fmt.Errorf("no user id")
}

// extractRoles reads the "roles" array, falling back to a single "role".
func extractRoles(claims jwt.MapClaims) []string {
	if rr := toStringSlice(claims["roles"]); len(rr) > 0 {
		return rr
	}
	if r, ok := claims["role"].(string); ok && strings.TrimSpace(r) != "" {
		return []string{strings.TrimSpace(r)}
	}
	return nil
}

func ensureUserActive(db *gorm.DB, userID uuid.UUID) error {
	var user struct {
		IsActive bool `gorm:"column:user_is_active"`
	}
	if err := db.Model(&userModel.UserModel{}).
		Select("user_is_active").
		Where("user_id = ?", userID).
		Take(&user).Error; err != nil {
		return err
	}
	if !user.IsActive {
		return errUserInactive
	}
	return nil
}

// loadRoles is used when the token carries no role claim.
func loadRoles(db *gorm.DB, userID uuid.UUID) ([]string, error) {
	var names []string
	err := db.Model(&userModel.RoleModel{}).
		Joins("JOIN user_roles ur ON ur.role_id = roles.role_id").
		Where("ur.user_id = ?", userID).
		Order("roles.role_name").
		Pluck("roles.role_name", &names).Error
	return names, err
}

/* ======== Helpers ======== */

func toStringSlice(v interface{}) []string {
	switch t := v.(type) {
	case []string:
		return t
	case []interface{}:
		out := make([]string, 0, len(t))
		for _, it := range t {
			if s, ok := it.(string); ok {
				s = strings.TrimSpace(s)
				if s != "" {
					out = append(out, s)
				}
			}
		}
		return out
	default:
		return nil
	}
}
