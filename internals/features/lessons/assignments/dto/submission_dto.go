package dto

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"lingoboard_backend/internals/features/lessons/assignments/model"
	"lingoboard_backend/internals/features/lessons/assignments/service"
)

type AnswerRequest struct {
	QuestionID string           `json:"question_id" validate:"required"`
	Answer     model.FlexString `json:"answer"`
}

type SubmitRequest struct {
	Answers []AnswerRequest `json:"answers" validate:"required,min=1,dive"`
}

func (r SubmitRequest) ToInputs() ([]service.AnswerInput, error) {
	out := make([]service.AnswerInput, 0, len(r.Answers))
	for i, a := range r.Answers {
		qid, err := uuid.Parse(strings.TrimSpace(a.QuestionID))
		if err != nil {
			return nil, fmt.Errorf("answers[%d]: question_id is not a valid id", i)
		}
		out = append(out, service.AnswerInput{QuestionID: qid, Answer: a.Answer.String()})
	}
	return out, nil
}

// DraftRequest carries the client's in-progress answers as-is.
type DraftRequest struct {
	Answers json.RawMessage `json:"answers"`
}

type GradeRequest struct {
	Scores   map[string]int `json:"scores"`
	Feedback *string        `json:"feedback" validate:"omitempty,max=5000"`
}

func (r GradeRequest) ToInput(graderID uuid.UUID) (service.GradeInput, error) {
	scores := make(map[uuid.UUID]int, len(r.Scores))
	for k, v := range r.Scores {
		qid, err := uuid.Parse(strings.TrimSpace(k))
		if err != nil {
			return service.GradeInput{}, fmt.Errorf("scores: %q is not a valid question id", k)
		}
		scores[qid] = v
	}
	return service.GradeInput{Scores: scores, Feedback: r.Feedback, GraderID: graderID}, nil
}
