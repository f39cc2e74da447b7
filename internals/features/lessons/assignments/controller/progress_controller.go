package controller

import (
	"github.com/gofiber/fiber/v2"

	helper "lingoboard_backend/internals/helpers"
	helperAuth "lingoboard_backend/internals/helpers/auth"
)

// GET /api/assignments/progress/students
func (h *AssignmentController) StudentProgress(c *fiber.Ctx) error {
	if _, err := helperAuth.EnsureTeacher(c, "student progress"); err != nil {
		return helper.FromFiberError(c, err)
	}

	items, err := h.Svc.StudentProgress(c.UserContext())
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonList(c, "ok", items, nil)
}

// GET /api/assignments/student/:studentId/assignments
func (h *AssignmentController) StudentSubmissions(c *fiber.Ctx) error {
	if _, err := helperAuth.EnsureTeacher(c, "student progress"); err != nil {
		return helper.FromFiberError(c, err)
	}
	studentID, err := helper.ParseUUIDParam(c, "studentId")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	items, err := h.Svc.StudentSubmissionsForTeacher(c.UserContext(), studentID)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonList(c, "ok", items, nil)
}
