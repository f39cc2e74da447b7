// file: internals/features/lessons/assignments/model/question_model.go
package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type QuestionKind string

const (
	QuestionKindMultipleChoice QuestionKind = "multiple_choice"
	QuestionKindEssay          QuestionKind = "essay"
)

func ParseQuestionKind(s string) (QuestionKind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "multiple_choice", "multiple-choice", "mcq", "choice", "tno":
		return QuestionKindMultipleChoice, true
	case "essay", "text", "tl":
		return QuestionKindEssay, true
	default:
		return "", false
	}
}

// FlexString decodes a JSON string or number into its textual form.
// Option ids and submitted answers arrive as either.
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return errors.New("value must be a string or a number")
	}
	*f = FlexString(n.String())
	return nil
}

func (f FlexString) String() string { return string(f) }

// LooseEqual compares two answer values the way a browser form does:
// equal text, or equal numbers ("2" == "2.0").
func LooseEqual(a, b string) bool {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	if a == b {
		return true
	}
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	return errA == nil && errB == nil && fa == fb
}

type QuestionOption struct {
	ID        FlexString `json:"id"`
	Text      string     `json:"text"`
	IsCorrect bool       `json:"is_correct"`
}

// QuestionContent is the stored blob: prompt for every kind, options for multiple choice only.
type QuestionContent struct {
	Prompt  string           `json:"prompt"`
	Options []QuestionOption `json:"options,omitempty"`
}

// ValidateOptions checks the multiple-choice shape: at least two options,
// non-empty unique ids, exactly one correct.
func (c QuestionContent) ValidateOptions() error {
	if len(c.Options) < 2 {
		return errors.New("multiple choice needs at least 2 options")
	}
	seen := make(map[string]struct{}, len(c.Options))
	correct := 0
	for _, op := range c.Options {
		id := strings.TrimSpace(op.ID.String())
		if id == "" {
			return errors.New("option id must not be empty")
		}
		if _, dup := seen[id]; dup {
			return errors.New("option ids must be unique")
		}
		seen[id] = struct{}{}
		if strings.TrimSpace(op.Text) == "" {
			return errors.New("option text must not be empty")
		}
		if op.IsCorrect {
			correct++
		}
	}
	if correct != 1 {
		return errors.New("exactly one option must be marked correct")
	}
	return nil
}

type QuestionModel struct {
	QuestionID           uuid.UUID                           `gorm:"column:question_id;type:uuid;primaryKey" json:"question_id"`
	QuestionAssignmentID uuid.UUID                           `gorm:"column:question_assignment_id;type:uuid;not null;index" json:"question_assignment_id"`
	QuestionKind         QuestionKind                        `gorm:"column:question_kind;size:24;not null" json:"question_kind"`
	QuestionContent      datatypes.JSONType[QuestionContent] `gorm:"column:question_content;type:jsonb;not null" json:"question_content"`
	QuestionMaxScore     int                                 `gorm:"column:question_max_score;not null" json:"question_max_score"`
	QuestionPosition     int                                 `gorm:"column:question_position;not null;default:0" json:"question_position"`
}

func (QuestionModel) TableName() string { return "questions" }

func (m *QuestionModel) BeforeCreate(tx *gorm.DB) error {
	if m.QuestionID == uuid.Nil {
		m.QuestionID = uuid.New()
	}
	return nil
}

func (m *QuestionModel) IsMultipleChoice() bool { return m.QuestionKind == QuestionKindMultipleChoice }
func (m *QuestionModel) IsEssay() bool          { return m.QuestionKind == QuestionKindEssay }

func (m QuestionModel) Content() QuestionContent { return m.QuestionContent.Data() }

func (m QuestionModel) CorrectOption() (QuestionOption, bool) {
	for _, op := range m.Content().Options {
		if op.IsCorrect {
			return op, true
		}
	}
	return QuestionOption{}, false
}

// AutoScore grades a submitted answer. Essays return nil (manual grading);
// multiple choice returns the max score on a match with the correct option, else 0.
func (m *QuestionModel) AutoScore(answer string) *int {
	if !m.IsMultipleChoice() {
		return nil
	}
	earned := 0
	if op, ok := m.CorrectOption(); ok && LooseEqual(op.ID.String(), answer) {
		earned = m.QuestionMaxScore
	}
	return &earned
}

/* =========================
   Views
========================= */

type OptionView struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	IsCorrect *bool  `json:"is_correct,omitempty"`
}

type QuestionView struct {
	ID       uuid.UUID    `json:"id"`
	Kind     QuestionKind `json:"kind"`
	Text     string       `json:"text"`
	MaxScore int          `json:"max_score"`
	Options  []OptionView `json:"options,omitempty"`
}

// ToView renders the question; correct flags are included only when revealCorrect.
func (m *QuestionModel) ToView(revealCorrect bool) QuestionView {
	c := m.Content()
	v := QuestionView{
		ID:       m.QuestionID,
		Kind:     m.QuestionKind,
		Text:     c.Prompt,
		MaxScore: m.QuestionMaxScore,
	}
	if m.IsMultipleChoice() {
		v.Options = make([]OptionView, 0, len(c.Options))
		for _, op := range c.Options {
			ov := OptionView{ID: op.ID.String(), Text: op.Text}
			if revealCorrect {
				isCorrect := op.IsCorrect
				ov.IsCorrect = &isCorrect
			}
			v.Options = append(v.Options, ov)
		}
	}
	return v
}
