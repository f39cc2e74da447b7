package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	asgRoutes "lingoboard_backend/internals/features/lessons/assignments/route"
)

// LessonsRoutes mounts every lessons feature under an authenticated router.
func LessonsRoutes(r fiber.Router, db *gorm.DB) {
	asgRoutes.AssignmentRoutes(r, db)
}
