package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"lingoboard_backend/internals/constants"
	asgCtl "lingoboard_backend/internals/features/lessons/assignments/controller"
	"lingoboard_backend/internals/middlewares"
	authMiddleware "lingoboard_backend/internals/middlewares/auth"
)

// AssignmentRoutes mounts the assignment endpoints. r must already run the auth middleware.
// Static paths are registered before the /:id ones.
func AssignmentRoutes(r fiber.Router, db *gorm.DB) {
	ctl := asgCtl.NewAssignmentController(db)

	teacherOnly := authMiddleware.OnlyRolesSlice(
		constants.RoleErrorTeacher("assignment management"),
		constants.TeacherAndAbove,
	)
	submitLimit := middlewares.SubmitRateLimiter()

	g := r.Group("/assignments")

	// student
	g.Get("/student", ctl.ListMine)

	// teacher: progress & grading
	g.Get("/progress/students", teacherOnly, ctl.StudentProgress)
	g.Get("/student/:studentId/assignments", teacherOnly, ctl.StudentSubmissions)
	g.Get("/submission/:submissionId/grading", teacherOnly, ctl.GradingView)
	g.Post("/submission/:submissionId/grade", teacherOnly, ctl.Grade)

	// teacher: CRUD
	g.Post("/", teacherOnly, ctl.Create)
	g.Get("/", teacherOnly, ctl.List)
	g.Put("/:id", teacherOnly, ctl.Update)
	g.Delete("/:id", teacherOnly, ctl.Delete)
	g.Get("/:id/teacher-detail", teacherOnly, ctl.TeacherDetail)

	// student: per assignment
	g.Get("/:id/details", ctl.Detail)
	g.Post("/:id/submit", submitLimit, ctl.Submit)
	g.Post("/:id/draft", submitLimit, ctl.SaveDraft)
}
