package user

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"lingoboard_backend/internals/constants"
	authHelper "lingoboard_backend/internals/features/users/auth/helper"
	"lingoboard_backend/internals/features/users/user/model"
)

type UserSeed struct {
	UserName string   `json:"user_name"`
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Roles    []string `json:"roles"`
}

// SeedRoles inserts the fixed role set, leaving existing rows alone.
func SeedRoles(db *gorm.DB) error {
	rows := make([]model.RoleModel, 0, len(constants.AllRoles))
	for _, name := range constants.AllRoles {
		rows = append(rows, model.RoleModel{Name: name})
	}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "role_name"}},
		DoNothing: true,
	}).Create(&rows).Error
}

// SeedUsersFromJSON reads a JSON array of UserSeed. Plaintext passwords are bcrypt-hashed,
// users whose email already exists are skipped. Returns the number of users inserted.
func SeedUsersFromJSON(db *gorm.DB, filePath string) (int, error) {
	log.Println("📥 Reading user seed file:", filePath)

	file, err := os.ReadFile(filePath)
	if err != nil {
		return 0, fmt.Errorf("read seed file: %w", err)
	}

	var inputs []UserSeed
	if err := json.Unmarshal(file, &inputs); err != nil {
		return 0, fmt.Errorf("decode seed file: %w", err)
	}
	return SeedUsers(db, inputs)
}

func SeedUsers(db *gorm.DB, inputs []UserSeed) (int, error) {
	if err := SeedRoles(db); err != nil {
		return 0, fmt.Errorf("seed roles: %w", err)
	}

	var roles []model.RoleModel
	if err := db.Find(&roles).Error; err != nil {
		return 0, err
	}
	roleIDs := make(map[string]model.RoleModel, len(roles))
	for _, r := range roles {
		roleIDs[strings.ToLower(r.Name)] = r
	}

	inserted := 0
	for _, data := range inputs {
		email := authHelper.NormalizeEmail(data.Email)
		if !authHelper.IsValidEmail(email) {
			log.Printf("⚠️ Skipping user with invalid email %q", data.Email)
			continue
		}

		var existing model.UserModel
		err := db.Where("user_email = ?", email).Take(&existing).Error
		if err == nil {
			log.Printf("ℹ️ User '%s' already exists, skipped.", email)
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return inserted, err
		}

		password := data.Password
		if !authHelper.IsBcryptHash(password) {
			if password, err = authHelper.HashPassword(password); err != nil {
				log.Printf("❌ Failed to hash password for '%s': %v", email, err)
				continue
			}
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			u := model.UserModel{
				UserName: strings.TrimSpace(data.UserName),
				Email:    email,
				Password: password,
				IsActive: true,
			}
			if err := tx.Create(&u).Error; err != nil {
				return err
			}
			now := time.Now().UTC()
			for _, name := range data.Roles {
				r, ok := roleIDs[strings.ToLower(strings.TrimSpace(name))]
				if !ok {
					return fmt.Errorf("unknown role %q", name)
				}
				if err := tx.Create(&model.UserRoleModel{UserID: u.ID, RoleID: r.ID, AssignedAt: &now}).Error; err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			log.Printf("❌ Failed to insert user '%s': %v", email, err)
			continue
		}
		inserted++
		log.Printf("✅ Inserted user '%s'", email)
	}
	return inserted, nil
}
