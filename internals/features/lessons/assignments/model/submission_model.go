// file: internals/features/lessons/assignments/model/submission_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SubmissionStatus string

const (
	SubmissionStatusAssigned       SubmissionStatus = "assigned"
	SubmissionStatusInProgress     SubmissionStatus = "in_progress"
	SubmissionStatusPendingGrading SubmissionStatus = "pending_grading"
	SubmissionStatusSubmitted      SubmissionStatus = "submitted"
	SubmissionStatusGraded         SubmissionStatus = "graded"
)

// LockingStatuses block editing or deleting the parent assignment.
var LockingStatuses = []SubmissionStatus{
	SubmissionStatusSubmitted,
	SubmissionStatusPendingGrading,
	SubmissionStatusGraded,
}

// OpenStatuses are untouched work, safe to discard and regenerate on edit.
var OpenStatuses = []SubmissionStatus{
	SubmissionStatusAssigned,
	SubmissionStatusInProgress,
}

// rank orders statuses; SUBMITTED and PENDING_GRADING share a level.
func (s SubmissionStatus) rank() int {
	switch s {
	case SubmissionStatusAssigned:
		return 0
	case SubmissionStatusInProgress:
		return 1
	case SubmissionStatusSubmitted, SubmissionStatusPendingGrading:
		return 2
	case SubmissionStatusGraded:
		return 3
	default:
		return -1
	}
}

func (s SubmissionStatus) Valid() bool { return s.rank() >= 0 }

// CanMoveTo reports whether next is not behind s.
func (s SubmissionStatus) CanMoveTo(next SubmissionStatus) bool {
	return s.Valid() && next.Valid() && next.rank() >= s.rank()
}

// IsHandedIn is true once the student has submitted, whether graded or not.
func (s SubmissionStatus) IsHandedIn() bool { return s.rank() >= 2 }

// Progress is the percent shown to students for a status.
func (s SubmissionStatus) Progress() int {
	switch s {
	case SubmissionStatusInProgress:
		return 50
	case SubmissionStatusSubmitted, SubmissionStatusPendingGrading, SubmissionStatusGraded:
		return 100
	default:
		return 0
	}
}

// Label is the display text used by the teacher dashboard.
func (s SubmissionStatus) Label() string {
	switch s {
	case SubmissionStatusAssigned:
		return "Not started"
	case SubmissionStatusInProgress:
		return "In progress"
	case SubmissionStatusSubmitted:
		return "Submitted"
	case SubmissionStatusPendingGrading:
		return "Awaiting grading"
	case SubmissionStatusGraded:
		return "Graded"
	default:
		return "Unknown"
	}
}

// SubmissionModel: one row per (assignment, student).
type SubmissionModel struct {
	SubmissionID           uuid.UUID        `gorm:"column:submission_id;type:uuid;primaryKey" json:"submission_id"`
	SubmissionAssignmentID uuid.UUID        `gorm:"column:submission_assignment_id;type:uuid;not null;uniqueIndex:uq_submissions_assignment_student" json:"submission_assignment_id"`
	SubmissionStudentID    uuid.UUID        `gorm:"column:submission_student_id;type:uuid;not null;uniqueIndex:uq_submissions_assignment_student;index" json:"submission_student_id"`
	SubmissionStatus       SubmissionStatus `gorm:"column:submission_status;size:24;not null" json:"submission_status"`
	SubmissionScore        *int             `gorm:"column:submission_score" json:"submission_score"`
	SubmissionSubmittedAt  *time.Time       `gorm:"column:submission_submitted_at" json:"submission_submitted_at,omitempty"`

	// Opaque snapshot of in-progress answers; never scored.
	SubmissionDraftAnswers *datatypes.JSON `gorm:"column:submission_draft_answers;type:jsonb" json:"submission_draft_answers,omitempty"`

	SubmissionFeedback *string    `gorm:"column:submission_feedback;type:text" json:"submission_feedback,omitempty"`
	SubmissionGradedBy *uuid.UUID `gorm:"column:submission_graded_by;type:uuid" json:"submission_graded_by,omitempty"`
	SubmissionGradedAt *time.Time `gorm:"column:submission_graded_at" json:"submission_graded_at,omitempty"`

	SubmissionCreatedAt time.Time `gorm:"column:submission_created_at;autoCreateTime" json:"submission_created_at"`
	SubmissionUpdatedAt time.Time `gorm:"column:submission_updated_at;autoUpdateTime" json:"submission_updated_at"`
}

func (SubmissionModel) TableName() string { return "submissions" }

func (m *SubmissionModel) BeforeCreate(tx *gorm.DB) error {
	if m.SubmissionID == uuid.Nil {
		m.SubmissionID = uuid.New()
	}
	return nil
}
