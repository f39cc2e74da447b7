package controller

import (
	"bytes"
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	asgDTO "lingoboard_backend/internals/features/lessons/assignments/dto"
	asgService "lingoboard_backend/internals/features/lessons/assignments/service"
	helper "lingoboard_backend/internals/helpers"
	helperAuth "lingoboard_backend/internals/helpers/auth"
)

// GET /api/assignments/student
func (h *AssignmentController) ListMine(c *fiber.Ctx) error {
	studentID, err := helperAuth.CurrentUser(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	items, err := h.Svc.ListStudentAssignments(c.UserContext(), studentID)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonList(c, "ok", items, nil)
}

// GET /api/assignments/:id/details
func (h *AssignmentController) Detail(c *fiber.Ctx) error {
	studentID, err := helperAuth.CurrentUser(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	detail, err := h.Svc.StudentAssignmentDetail(c.UserContext(), id, studentID)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonOK(c, "ok", detail)
}

// POST /api/assignments/:id/submit
func (h *AssignmentController) Submit(c *fiber.Ctx) error {
	studentID, err := helperAuth.CurrentUser(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req asgDTO.SubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if err := validateAssignment.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}
	answers, err := req.ToInputs()
	if err != nil {
		return helper.JsonErrorCode(c, fiber.StatusBadRequest, asgService.CodeValidation, err.Error())
	}

	res, err := h.Svc.Submit(c.UserContext(), id, studentID, answers)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonOK(c, "answers submitted", res)
}

// POST /api/assignments/:id/draft
func (h *AssignmentController) SaveDraft(c *fiber.Ctx) error {
	studentID, err := helperAuth.CurrentUser(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req asgDTO.DraftRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid payload")
	}
	draft := bytes.TrimSpace(req.Answers)
	if len(draft) > 0 && !json.Valid(draft) {
		return helper.JsonErrorCode(c, fiber.StatusBadRequest, asgService.CodeValidation, "answers must be valid JSON")
	}

	if err := h.Svc.SaveDraft(c.UserContext(), id, studentID, draft); err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonOK(c, "draft saved", fiber.Map{"assignment_id": id})
}
