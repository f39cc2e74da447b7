package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"lingoboard_backend/internals/features/lessons/assignments/model"
	"lingoboard_backend/internals/features/lessons/assignments/service"
)

/* ===================== REQUESTS ===================== */

type QuestionRequest struct {
	Kind    string                 `json:"kind" validate:"required"`
	Text    string                 `json:"text" validate:"required"`
	Score   *int                   `json:"score" validate:"required,min=0"`
	Options []model.QuestionOption `json:"options" validate:"omitempty"`
}

// CreateAssignmentRequest: the owner comes from the token, never from the body.
type CreateAssignmentRequest struct {
	Title          string            `json:"title" validate:"required,max=255"`
	Description    *string           `json:"description" validate:"omitempty"`
	Deadline       string            `json:"deadline" validate:"required"` // YYYY-MM-DD or RFC3339
	TotalScore     *int              `json:"total_score" validate:"required,min=0"`
	AssignType     string            `json:"assign_type" validate:"omitempty"`
	AssigneeEmails []string          `json:"assignee_emails" validate:"omitempty,dive,required"`
	Questions      []QuestionRequest `json:"questions" validate:"required,min=1,dive"`
}

// UpdateAssignmentRequest replaces the whole assignment, questions included.
type UpdateAssignmentRequest = CreateAssignmentRequest

// ParseDeadline accepts a calendar date or a full timestamp; only the date part is kept.
func ParseDeadline(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(model.DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("deadline must be a date (YYYY-MM-DD)")
	}
	return model.TruncateDay(t), nil
}

// ToInput builds the engine input. Empty assign_type means ALL.
func (r CreateAssignmentRequest) ToInput(ownerID uuid.UUID) (service.AssignmentInput, error) {
	deadline, err := ParseDeadline(r.Deadline)
	if err != nil {
		return service.AssignmentInput{}, err
	}

	assignType := model.AssignTypeAll
	if strings.TrimSpace(r.AssignType) != "" {
		t, ok := model.ParseAssignType(r.AssignType)
		if !ok {
			return service.AssignmentInput{}, fmt.Errorf("assign_type must be ALL or SPECIFIC")
		}
		assignType = t
	}

	questions := make([]service.QuestionInput, 0, len(r.Questions))
	for i, q := range r.Questions {
		kind, ok := model.ParseQuestionKind(q.Kind)
		if !ok {
			return service.AssignmentInput{}, fmt.Errorf("question %d: kind must be multiple_choice or essay", i+1)
		}
		score := 0
		if q.Score != nil {
			score = *q.Score
		}
		questions = append(questions, service.QuestionInput{
			Kind:    kind,
			Text:    q.Text,
			Score:   score,
			Options: q.Options,
		})
	}

	total := 0
	if r.TotalScore != nil {
		total = *r.TotalScore
	}

	var desc *string
	if r.Description != nil {
		if d := strings.TrimSpace(*r.Description); d != "" {
			desc = &d
		}
	}

	return service.AssignmentInput{
		OwnerID:        ownerID,
		Title:          r.Title,
		Description:    desc,
		Deadline:       deadline,
		TotalScore:     total,
		AssignType:     assignType,
		AssigneeEmails: r.AssigneeEmails,
		Questions:      questions,
	}, nil
}
