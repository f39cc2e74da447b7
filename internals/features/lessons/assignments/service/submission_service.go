// file: internals/features/lessons/assignments/service/submission_service.go
package service

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"lingoboard_backend/internals/features/lessons/assignments/model"
)

// AnswerInput is one submitted answer: an option id for multiple choice, free text for essays.
type AnswerInput struct {
	QuestionID uuid.UUID
	Answer     string
}

type SubmitResult struct {
	SubmissionID  uuid.UUID              `json:"submission_id"`
	Score         int                    `json:"score"`
	Status        model.SubmissionStatus `json:"status"`
	AnsweredCount int                    `json:"answered_count"`
	NeedsGrading  bool                   `json:"needs_grading"`
}

/* =========================================================
   SUBMIT
========================================================= */

// Submit records the student's answers, auto-grades multiple choice and moves the
// submission to SUBMITTED, or PENDING_GRADING when the assignment has essays.
func (s *AssignmentService) Submit(ctx context.Context, assignmentID, studentID uuid.UUID, answers []AnswerInput) (*SubmitResult, error) {
	if studentID == uuid.Nil {
		return nil, forbiddenErr("an authenticated student is required")
	}
	if len(answers) == 0 {
		return nil, validationErr("answers are required")
	}

	now := s.now()
	var res SubmitResult
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Shared lock: an edit or delete of the same assignment waits for us.
		var a model.AssignmentModel
		if err := tx.Clauses(clause.Locking{Strength: "SHARE"}).
			First(&a, "assignment_id = ?", assignmentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// no assignment means no submission row for this student either
				return denyErr(CodeNotAssigned, "this assignment is not assigned to you")
			}
			return err
		}

		sub, err := lockStudentSubmission(tx, assignmentID, studentID)
		if err != nil {
			return err
		}
		if sub.SubmissionStatus == model.SubmissionStatusGraded {
			return rejectErr(CodeAlreadyGraded, "this assignment has already been graded")
		}
		if !a.IsOpenAt(now) {
			return rejectErr(CodeDeadlinePassed, "the deadline (%s) has passed", a.DeadlineDay().Format(model.DateLayout))
		}

		questions, err := loadQuestions(tx, assignmentID)
		if err != nil {
			return err
		}
		byID := make(map[uuid.UUID]*model.QuestionModel, len(questions))
		hasEssay := false
		for i := range questions {
			byID[questions[i].QuestionID] = &questions[i]
			if questions[i].IsEssay() {
				hasEssay = true
			}
		}

		// Last answer per question wins.
		picked := make(map[uuid.UUID]int, len(answers))
		rows := make([]model.AnswerModel, 0, len(answers))
		for _, in := range answers {
			q, ok := byID[in.QuestionID]
			if !ok {
				log.Printf("[AssignmentService] Submit assignment_id=%s: skipping answer for foreign question %s", assignmentID, in.QuestionID)
				continue
			}
			row := model.AnswerModel{
				AnswerStudentID:   studentID,
				AnswerQuestionID:  q.QuestionID,
				AnswerText:        strings.TrimSpace(in.Answer),
				AnswerScore:       q.AutoScore(in.Answer),
				AnswerSubmittedAt: now,
			}
			if idx, dup := picked[q.QuestionID]; dup {
				rows[idx] = row
				continue
			}
			picked[q.QuestionID] = len(rows)
			rows = append(rows, row)
		}

		total := 0
		for _, r := range rows {
			if r.AnswerScore != nil {
				total += *r.AnswerScore
			}
		}

		// A re-submission replaces the whole answer set, so withdrawn answers stop counting.
		if err := tx.Where("answer_student_id = ? AND answer_question_id IN ?", studentID, questionIDs(questions)).
			Delete(&model.AnswerModel{}).Error; err != nil {
			return err
		}

		if len(rows) > 0 {
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "answer_student_id"}, {Name: "answer_question_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"answer_text", "answer_score", "answer_submitted_at"}),
			}).Create(&rows).Error; err != nil {
				return err
			}
		}

		next := model.SubmissionStatusSubmitted
		if hasEssay {
			next = model.SubmissionStatusPendingGrading
		}
		if !sub.SubmissionStatus.CanMoveTo(next) {
			return rejectErr(CodeLocked, "submission cannot move from %s to %s", sub.SubmissionStatus, next)
		}

		if err := tx.Model(sub).Updates(map[string]any{
			"submission_status":        next,
			"submission_score":         total,
			"submission_submitted_at":  now,
			"submission_draft_answers": nil,
		}).Error; err != nil {
			return err
		}

		res = SubmitResult{
			SubmissionID:  sub.SubmissionID,
			Score:         total,
			Status:        next,
			AnsweredCount: len(rows),
			NeedsGrading:  hasEssay,
		}
		return nil
	})
	if err != nil {
		return nil, wrap(err)
	}

	log.Printf("[AssignmentService] Submitted assignment_id=%s student_id=%s score=%d status=%s",
		assignmentID, studentID, res.Score, res.Status)
	return &res, nil
}

/* =========================================================
   DRAFT
========================================================= */

// SaveDraft stores an opaque snapshot of in-progress answers and marks the work IN_PROGRESS.
// Nothing is scored and no Answer rows are written.
func (s *AssignmentService) SaveDraft(ctx context.Context, assignmentID, studentID uuid.UUID, draft []byte) error {
	if studentID == uuid.Nil {
		return forbiddenErr("an authenticated student is required")
	}
	if len(draft) == 0 {
		draft = []byte("[]")
	}

	db := s.DB.WithContext(ctx)

	var sub model.SubmissionModel
	if err := db.Select("submission_id", "submission_status").
		Where("submission_assignment_id = ? AND submission_student_id = ?", assignmentID, studentID).
		First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return denyErr(CodeNotAssigned, "this assignment is not assigned to you")
		}
		return wrap(err)
	}

	// Guarded by status so a concurrent submit cannot be pushed back to IN_PROGRESS.
	upd := db.Model(&model.SubmissionModel{}).
		Where("submission_id = ? AND submission_status IN ?", sub.SubmissionID, model.OpenStatuses).
		Updates(map[string]any{
			"submission_status":        model.SubmissionStatusInProgress,
			"submission_draft_answers": datatypes.JSON(draft),
		})
	if upd.Error != nil {
		return wrap(upd.Error)
	}
	if upd.RowsAffected == 0 {
		return rejectErr(CodeLocked, "this assignment has already been submitted")
	}
	return nil
}

/* =========================================================
   helpers
========================================================= */

func lockStudentSubmission(tx *gorm.DB, assignmentID, studentID uuid.UUID) (*model.SubmissionModel, error) {
	var sub model.SubmissionModel
	if err := tx.Clauses(lockForUpdate).
		Where("submission_assignment_id = ? AND submission_student_id = ?", assignmentID, studentID).
		First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, denyErr(CodeNotAssigned, "this assignment is not assigned to you")
		}
		return nil, err
	}
	return &sub, nil
}

func loadQuestions(tx *gorm.DB, assignmentID uuid.UUID) ([]model.QuestionModel, error) {
	var qs []model.QuestionModel
	err := tx.Where("question_assignment_id = ?", assignmentID).
		Order("question_position ASC").
		Find(&qs).Error
	return qs, err
}
