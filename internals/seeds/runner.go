package seeds

import (
	"log"

	"gorm.io/gorm"

	users "lingoboard_backend/internals/seeds/users/auth"
)

const DefaultUsersFile = "internals/seeds/users/auth/data_users.json"

func RunAllSeeds(db *gorm.DB, usersFile string) error {
	if usersFile == "" {
		usersFile = DefaultUsersFile
	}

	//* Roles + users
	n, err := users.SeedUsersFromJSON(db, usersFile)
	if err != nil {
		return err
	}
	log.Printf("🌱 Seeding done, %d user(s) inserted", n)
	return nil
}
