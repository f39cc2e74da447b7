// internals/features/lessons/assignments/controller/assignment_controller.go
package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	asgDTO "lingoboard_backend/internals/features/lessons/assignments/dto"
	asgService "lingoboard_backend/internals/features/lessons/assignments/service"
	helper "lingoboard_backend/internals/helpers"
	helperAuth "lingoboard_backend/internals/helpers/auth"
)

type AssignmentController struct {
	DB  *gorm.DB
	Svc *asgService.AssignmentService
}

func NewAssignmentController(db *gorm.DB) *AssignmentController {
	return &AssignmentController{DB: db, Svc: asgService.NewAssignmentService(db)}
}

var validateAssignment = validator.New()

var teacherListSort = map[string]string{
	"created_at": "assignment_created_at",
	"deadline":   "assignment_deadline",
	"title":      "assignment_title",
}

// ===================== CREATE =====================
// POST /api/assignments
func (h *AssignmentController) Create(c *fiber.Ctx) error {
	ownerID, err := helperAuth.EnsureTeacher(c, "assignment management")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req asgDTO.CreateAssignmentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if err := validateAssignment.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}
	in, err := req.ToInput(ownerID)
	if err != nil {
		return helper.JsonErrorCode(c, fiber.StatusBadRequest, asgService.CodeValidation, err.Error())
	}

	res, err := h.Svc.Create(c.UserContext(), in)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonCreated(c, "assignment created", res)
}

// ===================== LIST (teacher) =====================
// GET /api/assignments?page=&per_page=&sort_by=&order=
func (h *AssignmentController) List(c *fiber.Ctx) error {
	ownerID, err := helperAuth.EnsureTeacher(c, "assignment management")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	p := helper.ParseFiber(c, "created_at", "desc", helper.DefaultOpts)
	items, total, err := h.Svc.ListTeacherAssignments(c.UserContext(), asgService.ListAssignmentsQuery{
		OwnerID: ownerID,
		Limit:   p.Limit(),
		Offset:  p.Offset(),
		Order:   p.SafeOrder(teacherListSort, "created_at"),
	})
	if err != nil {
		return helper.FromServiceError(c, err)
	}

	pg := p.Pagination(total)
	return helper.JsonList(c, "ok", items, &pg)
}

// ===================== UPDATE =====================
// PUT /api/assignments/:id
func (h *AssignmentController) Update(c *fiber.Ctx) error {
	ownerID, err := helperAuth.EnsureTeacher(c, "assignment management")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req asgDTO.UpdateAssignmentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if err := validateAssignment.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}
	in, err := req.ToInput(ownerID)
	if err != nil {
		return helper.JsonErrorCode(c, fiber.StatusBadRequest, asgService.CodeValidation, err.Error())
	}

	res, err := h.Svc.Update(c.UserContext(), id, in)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonUpdated(c, "assignment updated", res)
}

// ===================== DELETE =====================
// DELETE /api/assignments/:id
func (h *AssignmentController) Delete(c *fiber.Ctx) error {
	ownerID, err := helperAuth.EnsureTeacher(c, "assignment management")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	res, err := h.Svc.Delete(c.UserContext(), id, ownerID)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonDeleted(c, "assignment deleted", res)
}

// ===================== DETAIL (teacher) =====================
// GET /api/assignments/:id/teacher-detail
func (h *AssignmentController) TeacherDetail(c *fiber.Ctx) error {
	callerID, err := helperAuth.EnsureTeacher(c, "assignment management")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	detail, err := h.Svc.TeacherAssignmentDetail(c.UserContext(), id, callerID)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonOK(c, "ok", detail)
}
