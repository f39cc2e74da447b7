// file: internals/features/lessons/assignments/model/assignment_model.go
package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// DateLayout is how deadlines travel over the wire.
const DateLayout = "2006-01-02"

type AssignType string

const (
	AssignTypeAll      AssignType = "all"
	AssignTypeSpecific AssignType = "specific"
)

// ParseAssignType accepts any casing; empty means "all".
func ParseAssignType(s string) (AssignType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return AssignTypeAll, true
	case "specific":
		return AssignTypeSpecific, true
	default:
		return "", false
	}
}

// AssignmentModel is owned by its creator. Questions and Submissions reference it by id;
// there are no FK cascades, deletion order is handled by the service.
type AssignmentModel struct {
	AssignmentID          uuid.UUID  `gorm:"column:assignment_id;type:uuid;primaryKey" json:"assignment_id"`
	AssignmentOwnerID     uuid.UUID  `gorm:"column:assignment_owner_id;type:uuid;not null;index" json:"assignment_owner_id"`
	AssignmentTitle       string     `gorm:"column:assignment_title;size:255;not null" json:"assignment_title"`
	AssignmentDescription *string    `gorm:"column:assignment_description;type:text" json:"assignment_description,omitempty"`
	AssignmentDeadline    time.Time  `gorm:"column:assignment_deadline;type:date;not null" json:"assignment_deadline"`
	AssignmentTotalScore  int        `gorm:"column:assignment_total_score;not null" json:"assignment_total_score"`
	AssignmentAssignType  AssignType `gorm:"column:assignment_assign_type;size:16;not null" json:"assignment_assign_type"`

	// Only set when AssignType is specific.
	AssignmentAssigneeEmails pq.StringArray `gorm:"column:assignment_assignee_emails;type:text[]" json:"assignment_assignee_emails,omitempty"`

	AssignmentCreatedAt time.Time `gorm:"column:assignment_created_at;autoCreateTime" json:"assignment_created_at"`
	AssignmentUpdatedAt time.Time `gorm:"column:assignment_updated_at;autoUpdateTime" json:"assignment_updated_at"`
}

func (AssignmentModel) TableName() string { return "assignments" }

func (m *AssignmentModel) BeforeCreate(tx *gorm.DB) error {
	if m.AssignmentID == uuid.Nil {
		m.AssignmentID = uuid.New()
	}
	return nil
}

// DeadlineDay returns the deadline as a UTC calendar day.
func (m *AssignmentModel) DeadlineDay() time.Time {
	return TruncateDay(m.AssignmentDeadline)
}

// IsOpenAt reports whether now falls on or before the deadline day (UTC).
func (m *AssignmentModel) IsOpenAt(now time.Time) bool {
	return !TruncateDay(now).After(m.DeadlineDay())
}

// ClosesAt is the first instant after the deadline day.
func (m *AssignmentModel) ClosesAt() time.Time {
	return m.DeadlineDay().Add(24 * time.Hour)
}

func TruncateDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
