// file: internals/features/lessons/assignments/service/assignment_service.go
package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"lingoboard_backend/internals/features/lessons/assignments/model"
)

/* =========================================================
   SERVICE
========================================================= */

// AssignmentService runs the assignment lifecycle: creation and fan-out, edits, deletion,
// submission with auto-grading, manual grading and the read models around them.
// Every mutation runs in one transaction; nothing partial is ever committed.
type AssignmentService struct {
	DB *gorm.DB

	// Now is the clock used for deadlines and timestamps.
	Now func() time.Time
}

func NewAssignmentService(db *gorm.DB) *AssignmentService {
	return &AssignmentService{DB: db, Now: time.Now}
}

func (s *AssignmentService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

/* =========================================================
   INPUT
========================================================= */

type QuestionInput struct {
	Kind    model.QuestionKind
	Text    string
	Score   int
	Options []model.QuestionOption
}

// AssignmentInput is the cleaned payload for create and update. OwnerID is the caller.
type AssignmentInput struct {
	OwnerID        uuid.UUID
	Title          string
	Description    *string
	Deadline       time.Time
	TotalScore     int
	AssignType     model.AssignType
	AssigneeEmails []string
	Questions      []QuestionInput
}

// MutationResult reports what a create or update persisted.
type MutationResult struct {
	AssignmentID     uuid.UUID `json:"id"`
	QuestionCount    int       `json:"question_count"`
	TargetCount      int       `json:"target_count"`
	AssignedCount    int64     `json:"assigned_count"`
	UnresolvedEmails []string  `json:"unresolved_emails"`
}

type DeleteResult struct {
	AssignmentID       uuid.UUID `json:"assignment_id"`
	QuestionsDeleted   int64     `json:"questions_deleted"`
	SubmissionsDeleted int64     `json:"submissions_deleted"`
}

// validateInput normalizes in place. Required fields come first, then the score sum,
// then the multiple-choice shape.
func validateInput(in *AssignmentInput) error {
	if in.OwnerID == uuid.Nil {
		return forbiddenErr("an authenticated teacher is required")
	}
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return validationErr("title is required")
	}
	if in.Deadline.IsZero() {
		return validationErr("deadline is required")
	}
	if in.TotalScore < 0 {
		return validationErr("total score must not be negative")
	}
	switch in.AssignType {
	case model.AssignTypeAll:
		in.AssigneeEmails = nil
	case model.AssignTypeSpecific:
		in.AssigneeEmails = normalizeEmails(in.AssigneeEmails)
		if len(in.AssigneeEmails) == 0 {
			return validationErr("assignee emails are required when assign type is specific")
		}
	default:
		return validationErr("assign type must be all or specific")
	}
	if len(in.Questions) == 0 {
		return validationErr("at least one question is required")
	}

	sum := 0
	for i := range in.Questions {
		q := &in.Questions[i]
		q.Text = strings.TrimSpace(q.Text)
		if q.Text == "" {
			return validationErr("question %d: text is required", i+1)
		}
		if q.Kind != model.QuestionKindMultipleChoice && q.Kind != model.QuestionKindEssay {
			return validationErr("question %d: unknown kind %q", i+1, q.Kind)
		}
		if q.Score < 0 {
			return validationErr("question %d: score must not be negative", i+1)
		}
		sum += q.Score
	}
	if sum != in.TotalScore {
		return rejectErr(CodeScoreMismatch,
			"sum of question scores (%d) does not match the assignment total score (%d)", sum, in.TotalScore)
	}

	for i := range in.Questions {
		q := &in.Questions[i]
		if q.Kind != model.QuestionKindMultipleChoice {
			q.Options = nil
			continue
		}
		content := model.QuestionContent{Prompt: q.Text, Options: q.Options}
		if err := content.ValidateOptions(); err != nil {
			return validationErr("question %d: %v", i+1, err)
		}
	}
	return nil
}

func assigneeColumn(in *AssignmentInput) pq.StringArray {
	if in.AssignType != model.AssignTypeSpecific {
		return nil
	}
	return pq.StringArray(in.AssigneeEmails)
}

func buildQuestions(assignmentID uuid.UUID, qs []QuestionInput) []model.QuestionModel {
	rows := make([]model.QuestionModel, 0, len(qs))
	for i, q := range qs {
		rows = append(rows, model.QuestionModel{
			QuestionAssignmentID: assignmentID,
			QuestionKind:         q.Kind,
			QuestionContent:      datatypes.NewJSONType(model.QuestionContent{Prompt: q.Text, Options: q.Options}),
			QuestionMaxScore:     q.Score,
			QuestionPosition:     i,
		})
	}
	return rows
}

/* =========================================================
   CREATE
========================================================= */

// Create persists the header, the questions and one ASSIGNED submission per targeted student.
func (s *AssignmentService) Create(ctx context.Context, in AssignmentInput) (*MutationResult, error) {
	if err := validateInput(&in); err != nil {
		return nil, err
	}

	var res MutationResult
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := model.AssignmentModel{
			AssignmentOwnerID:        in.OwnerID,
			AssignmentTitle:          in.Title,
			AssignmentDescription:    in.Description,
			AssignmentDeadline:       model.TruncateDay(in.Deadline),
			AssignmentTotalScore:     in.TotalScore,
			AssignmentAssignType:     in.AssignType,
			AssignmentAssigneeEmails: assigneeColumn(&in),
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}

		questions := buildQuestions(row.AssignmentID, in.Questions)
		if err := tx.Create(&questions).Error; err != nil {
			return err
		}

		fan, err := fanOut(tx, row.AssignmentID, in.AssignType, in.AssigneeEmails)
		if err != nil {
			return err
		}

		res = MutationResult{
			AssignmentID:     row.AssignmentID,
			QuestionCount:    len(questions),
			TargetCount:      fan.targets,
			AssignedCount:    fan.created,
			UnresolvedEmails: fan.unresolved,
		}
		return nil
	})
	if err != nil {
		log.Printf("[AssignmentService] Create failed owner=%s: %v", in.OwnerID, err)
		return nil, wrap(err)
	}

	log.Printf("[AssignmentService] Created assignment_id=%s questions=%d assigned=%d unresolved=%d",
		res.AssignmentID, res.QuestionCount, res.AssignedCount, len(res.UnresolvedEmails))
	return &res, nil
}

/* =========================================================
   UPDATE
========================================================= */

// Update replaces header, questions and untouched submissions. It is refused once any
// student has handed in work.
func (s *AssignmentService) Update(ctx context.Context, id uuid.UUID, in AssignmentInput) (*MutationResult, error) {
	if err := validateInput(&in); err != nil {
		return nil, err
	}

	var res MutationResult
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		a, err := lockOwnedAssignment(tx, id, in.OwnerID)
		if err != nil {
			return err
		}
		if n, err := countHandedIn(tx, id); err != nil {
			return err
		} else if n > 0 {
			return rejectErr(CodeLocked,
				"cannot edit: %d student(s) already submitted this assignment, create a new assignment instead", n)
		}

		if err := tx.Model(a).Updates(map[string]any{
			"assignment_title":           in.Title,
			"assignment_description":     in.Description,
			"assignment_deadline":        model.TruncateDay(in.Deadline),
			"assignment_total_score":     in.TotalScore,
			"assignment_assign_type":     in.AssignType,
			"assignment_assignee_emails": assigneeColumn(&in),
		}).Error; err != nil {
			return err
		}

		if err := tx.Where("question_assignment_id = ?", id).Delete(&model.QuestionModel{}).Error; err != nil {
			return err
		}
		questions := buildQuestions(id, in.Questions)
		if err := tx.Create(&questions).Error; err != nil {
			return err
		}

		if err := tx.
			Where("submission_assignment_id = ? AND submission_status IN ?", id, model.OpenStatuses).
			Delete(&model.SubmissionModel{}).Error; err != nil {
			return err
		}

		fan, err := fanOut(tx, id, in.AssignType, in.AssigneeEmails)
		if err != nil {
			return err
		}

		res = MutationResult{
			AssignmentID:     id,
			QuestionCount:    len(questions),
			TargetCount:      fan.targets,
			AssignedCount:    fan.created,
			UnresolvedEmails: fan.unresolved,
		}
		return nil
	})
	if err != nil {
		return nil, wrap(err)
	}

	log.Printf("[AssignmentService] Updated assignment_id=%s questions=%d assigned=%d",
		id, res.QuestionCount, res.AssignedCount)
	return &res, nil
}

/* =========================================================
   DELETE
========================================================= */

// Delete removes submissions, then questions, then the assignment. Answers stay.
func (s *AssignmentService) Delete(ctx context.Context, id, callerID uuid.UUID) (*DeleteResult, error) {
	if callerID == uuid.Nil {
		return nil, forbiddenErr("an authenticated teacher is required")
	}

	res := DeleteResult{AssignmentID: id}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockOwnedAssignment(tx, id, callerID); err != nil {
			return err
		}
		if n, err := countHandedIn(tx, id); err != nil {
			return err
		} else if n > 0 {
			return rejectErr(CodeLocked,
				"cannot delete: %d student(s) already submitted this assignment, hide it instead", n)
		}

		subs := tx.Where("submission_assignment_id = ?", id).Delete(&model.SubmissionModel{})
		if subs.Error != nil {
			return subs.Error
		}
		qs := tx.Where("question_assignment_id = ?", id).Delete(&model.QuestionModel{})
		if qs.Error != nil {
			return qs.Error
		}
		if err := tx.Where("assignment_id = ?", id).Delete(&model.AssignmentModel{}).Error; err != nil {
			return err
		}

		res.SubmissionsDeleted = subs.RowsAffected
		res.QuestionsDeleted = qs.RowsAffected
		return nil
	})
	if err != nil {
		return nil, wrap(err)
	}

	log.Printf("[AssignmentService] Deleted assignment_id=%s questions=%d submissions=%d",
		id, res.QuestionsDeleted, res.SubmissionsDeleted)
	return &res, nil
}

/* =========================================================
   TX helpers
========================================================= */

var lockForUpdate = clause.Locking{Strength: "UPDATE"}

func lockAssignment(tx *gorm.DB, id uuid.UUID) (*model.AssignmentModel, error) {
	var a model.AssignmentModel
	if err := tx.Clauses(lockForUpdate).
		First(&a, "assignment_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundErr("assignment not found")
		}
		return nil, err
	}
	return &a, nil
}

func lockOwnedAssignment(tx *gorm.DB, id, ownerID uuid.UUID) (*model.AssignmentModel, error) {
	a, err := lockAssignment(tx, id)
	if err != nil {
		return nil, err
	}
	if a.AssignmentOwnerID != ownerID {
		return nil, forbiddenErr("you do not own this assignment")
	}
	return a, nil
}

func countHandedIn(tx *gorm.DB, assignmentID uuid.UUID) (int64, error) {
	var n int64
	err := tx.Model(&model.SubmissionModel{}).
		Where("submission_assignment_id = ? AND submission_status IN ?", assignmentID, model.LockingStatuses).
		Count(&n).Error
	return n, err
}
