package controller

import (
	"github.com/gofiber/fiber/v2"

	asgDTO "lingoboard_backend/internals/features/lessons/assignments/dto"
	asgService "lingoboard_backend/internals/features/lessons/assignments/service"
	helper "lingoboard_backend/internals/helpers"
	helperAuth "lingoboard_backend/internals/helpers/auth"
)

// GET /api/assignments/submission/:submissionId/grading
func (h *AssignmentController) GradingView(c *fiber.Ctx) error {
	callerID, err := helperAuth.EnsureTeacher(c, "grading")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	submissionID, err := helper.ParseUUIDParam(c, "submissionId")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	if err := h.Svc.AssertSubmissionOwner(c.UserContext(), submissionID, callerID); err != nil {
		return helper.FromServiceError(c, err)
	}
	view, err := h.Svc.SubmissionForGrading(c.UserContext(), submissionID)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonOK(c, "ok", view)
}

// POST /api/assignments/submission/:submissionId/grade
func (h *AssignmentController) Grade(c *fiber.Ctx) error {
	callerID, err := helperAuth.EnsureTeacher(c, "grading")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	submissionID, err := helper.ParseUUIDParam(c, "submissionId")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req asgDTO.GradeRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "invalid payload")
		}
	}
	if err := validateAssignment.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}
	in, err := req.ToInput(callerID)
	if err != nil {
		return helper.JsonErrorCode(c, fiber.StatusBadRequest, asgService.CodeValidation, err.Error())
	}

	if err := h.Svc.AssertSubmissionOwner(c.UserContext(), submissionID, callerID); err != nil {
		return helper.FromServiceError(c, err)
	}
	res, err := h.Svc.Grade(c.UserContext(), submissionID, in)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonOK(c, "submission graded", res)
}
