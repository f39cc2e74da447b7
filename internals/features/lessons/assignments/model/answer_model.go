// file: internals/features/lessons/assignments/model/answer_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AnswerModel is a per-student, per-question record. Rows outlive their question:
// deleting an assignment keeps the student's answer history.
type AnswerModel struct {
	AnswerID          uuid.UUID `gorm:"column:answer_id;type:uuid;primaryKey" json:"answer_id"`
	AnswerStudentID   uuid.UUID `gorm:"column:answer_student_id;type:uuid;not null;uniqueIndex:uq_answers_student_question" json:"answer_student_id"`
	AnswerQuestionID  uuid.UUID `gorm:"column:answer_question_id;type:uuid;not null;uniqueIndex:uq_answers_student_question;index" json:"answer_question_id"`
	AnswerText        string    `gorm:"column:answer_text;type:text;not null" json:"answer_text"`
	AnswerScore       *int      `gorm:"column:answer_score" json:"answer_score"`
	AnswerSubmittedAt time.Time `gorm:"column:answer_submitted_at;not null" json:"answer_submitted_at"`
}

func (AnswerModel) TableName() string { return "answers" }

func (m *AnswerModel) BeforeCreate(tx *gorm.DB) error {
	if m.AnswerID == uuid.Nil {
		m.AnswerID = uuid.New()
	}
	return nil
}
