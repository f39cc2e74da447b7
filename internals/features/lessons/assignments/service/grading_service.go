// file: internals/features/lessons/assignments/service/grading_service.go
package service

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"lingoboard_backend/internals/features/lessons/assignments/model"
)

// GradeInput carries per-question scores. Questions left out keep their current score.
type GradeInput struct {
	Scores   map[uuid.UUID]int
	Feedback *string
	GraderID uuid.UUID
}

type GradeResult struct {
	SubmissionID uuid.UUID              `json:"submission_id"`
	Score        int                    `json:"score"`
	Status       model.SubmissionStatus `json:"status"`
	Applied      int                    `json:"applied"`
	Missing      []uuid.UUID            `json:"missing,omitempty"`
}

// Grade applies teacher scores and re-aggregates the submission total from every Answer the
// student has for the assignment's questions, so repeated or partial calls converge.
// Ownership of the parent assignment is checked by the caller (see AssertSubmissionOwner).
func (s *AssignmentService) Grade(ctx context.Context, submissionID uuid.UUID, in GradeInput) (*GradeResult, error) {
	now := s.now()
	var res GradeResult
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sub, err := lockSubmission(tx, submissionID)
		if err != nil {
			return err
		}
		if !sub.SubmissionStatus.IsHandedIn() {
			return rejectErr(CodeNotSubmitted, "the student has not submitted this assignment yet")
		}

		questions, err := loadQuestions(tx, sub.SubmissionAssignmentID)
		if err != nil {
			return err
		}
		maxByID := make(map[uuid.UUID]int, len(questions))
		questionIDs := make([]uuid.UUID, 0, len(questions))
		for _, q := range questions {
			maxByID[q.QuestionID] = q.QuestionMaxScore
			questionIDs = append(questionIDs, q.QuestionID)
		}

		for qid, score := range in.Scores {
			maxScore, ok := maxByID[qid]
			if !ok {
				continue
			}
			if score < 0 || score > maxScore {
				return validationErr("score for question %s must be between 0 and %d", qid, maxScore)
			}
		}

		for qid, score := range in.Scores {
			if _, ok := maxByID[qid]; !ok {
				log.Printf("[AssignmentService] Grade submission_id=%s: question %s is not part of the assignment, skipped", submissionID, qid)
				continue
			}
			upd := tx.Model(&model.AnswerModel{}).
				Where("answer_student_id = ? AND answer_question_id = ?", sub.SubmissionStudentID, qid).
				Update("answer_score", score)
			if upd.Error != nil {
				return upd.Error
			}
			if upd.RowsAffected == 0 {
				log.Printf("[AssignmentService] Grade submission_id=%s: no answer for question %s, nothing to score", submissionID, qid)
				res.Missing = append(res.Missing, qid)
				continue
			}
			res.Applied++
		}

		total, err := sumAnswerScores(tx, sub.SubmissionStudentID, questionIDs)
		if err != nil {
			return err
		}

		updates := map[string]any{
			"submission_status":    model.SubmissionStatusGraded,
			"submission_score":     total,
			"submission_graded_at": now,
		}
		if in.GraderID != uuid.Nil {
			updates["submission_graded_by"] = in.GraderID
		}
		if in.Feedback != nil {
			fb := strings.TrimSpace(*in.Feedback)
			updates["submission_feedback"] = &fb
		}
		if err := tx.Model(sub).Updates(updates).Error; err != nil {
			return err
		}

		res.SubmissionID = sub.SubmissionID
		res.Score = total
		res.Status = model.SubmissionStatusGraded
		return nil
	})
	if err != nil {
		return nil, wrap(err)
	}

	log.Printf("[AssignmentService] Graded submission_id=%s score=%d applied=%d", submissionID, res.Score, res.Applied)
	return &res, nil
}

// AssertSubmissionOwner fails with FORBIDDEN unless callerID owns the submission's assignment.
func (s *AssignmentService) AssertSubmissionOwner(ctx context.Context, submissionID, callerID uuid.UUID) error {
	if callerID == uuid.Nil {
		return forbiddenErr("an authenticated teacher is required")
	}
	var owners []uuid.UUID
	err := s.DB.WithContext(ctx).
		Table("submissions AS s").
		Joins("JOIN assignments a ON a.assignment_id = s.submission_assignment_id").
		Where("s.submission_id = ?", submissionID).
		Limit(1).
		Pluck("a.assignment_owner_id", &owners).Error
	if err != nil {
		return wrap(err)
	}
	if len(owners) == 0 {
		return notFoundErr("submission not found")
	}
	if owners[0] != callerID {
		return forbiddenErr("you do not own the assignment of this submission")
	}
	return nil
}

func lockSubmission(tx *gorm.DB, submissionID uuid.UUID) (*model.SubmissionModel, error) {
	var sub model.SubmissionModel
	if err := tx.Clauses(lockForUpdate).
		First(&sub, "submission_id = ?", submissionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundErr("submission not found")
		}
		return nil, err
	}
	return &sub, nil
}

func sumAnswerScores(tx *gorm.DB, studentID uuid.UUID, questionIDs []uuid.UUID) (int, error) {
	if len(questionIDs) == 0 {
		return 0, nil
	}
	var total int64
	err := tx.Model(&model.AnswerModel{}).
		Select("COALESCE(SUM(answer_score), 0)").
		Where("answer_student_id = ? AND answer_question_id IN ?", studentID, questionIDs).
		Scan(&total).Error
	return int(total), err
}
