// file: internals/features/lessons/assignments/service/query_service.go
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"lingoboard_backend/internals/features/lessons/assignments/model"
	userModel "lingoboard_backend/internals/features/users/user/model"
)

/* =========================================================
   READ MODELS
========================================================= */

type TeacherAssignmentItem struct {
	ID             uuid.UUID        `json:"id"`
	OwnerID        uuid.UUID        `json:"owner_id"`
	Title          string           `json:"title"`
	Description    *string          `json:"description,omitempty"`
	Deadline       string           `json:"deadline"`
	TotalScore     int              `json:"total_score"`
	AssignType     model.AssignType `json:"assign_type"`
	QuestionCount  int64            `json:"question_count"`
	AssigneesCount int64            `json:"assignees_count"`
	SubmittedCount int64            `json:"submitted_count"`
	GradedCount    int64            `json:"graded_count"`
	CreatedAt      time.Time        `json:"created_at"`
	IsPastDeadline bool             `json:"is_past_deadline"`
}

type StudentAssignmentItem struct {
	ID               uuid.UUID              `json:"id"`
	SubmissionID     uuid.UUID              `json:"submission_id"`
	Title            string                 `json:"title"`
	Description      *string                `json:"description,omitempty"`
	Deadline         string                 `json:"deadline"`
	TotalScore       int                    `json:"total_score"`
	Status           model.SubmissionStatus `json:"status"`
	SubmittedAt      *time.Time             `json:"submitted_at"`
	Score            *int                   `json:"score"`
	RemainingTime    string                 `json:"remaining_time"`
	RemainingSeconds int64                  `json:"remaining_seconds"`
	IsOverdue        bool                   `json:"is_overdue"`
	Progress         int                    `json:"progress"`
	QuestionCount    int64                  `json:"question_count"`
}

type AssignmentHeader struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	Deadline    string    `json:"deadline"`
	TotalScore  int       `json:"total_score"`
	IsOverdue   bool      `json:"is_overdue"`
}

type PriorAnswer struct {
	QuestionID uuid.UUID `json:"question_id"`
	Answer     string    `json:"answer"`
	Score      *int      `json:"score,omitempty"`
}

type StudentSubmissionView struct {
	ID          uuid.UUID              `json:"id"`
	Status      model.SubmissionStatus `json:"status"`
	SubmittedAt *time.Time             `json:"submitted_at"`
	Score       *int                   `json:"score"`
	Feedback    *string                `json:"feedback,omitempty"`
	Answers     []PriorAnswer          `json:"answers"`
	Draft       json.RawMessage        `json:"draft,omitempty"`
}

type StudentAssignmentDetail struct {
	Assignment AssignmentHeader      `json:"assignment"`
	Questions  []model.QuestionView  `json:"questions"`
	Submission StudentSubmissionView `json:"submission"`
}

type TeacherAssignmentDetail struct {
	AssignmentHeader
	OwnerID        uuid.UUID            `json:"owner_id"`
	AssignType     model.AssignType     `json:"assign_type"`
	AssigneeEmails []string             `json:"assignee_emails"`
	AssigneesCount int64                `json:"assignees_count"`
	SubmittedCount int64                `json:"submitted_count"`
	Locked         bool                 `json:"locked"`
	Questions      []model.QuestionView `json:"questions"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

type GradingQuestion struct {
	model.QuestionView
	StudentAnswer *string `json:"student_answer"`
	EarnedScore   int     `json:"earned_score"`
	AutoGraded    bool    `json:"auto_graded"`
}

type GradingView struct {
	SubmissionID    uuid.UUID              `json:"submission_id"`
	StudentID       uuid.UUID              `json:"student_id"`
	StudentName     string                 `json:"student_name"`
	StudentEmail    string                 `json:"student_email"`
	AssignmentID    uuid.UUID              `json:"assignment_id"`
	AssignmentTitle string                 `json:"assignment_title"`
	Questions       []GradingQuestion      `json:"questions"`
	TotalScore      *int                   `json:"total_score"`
	MaxTotalScore   int                    `json:"max_total_score"`
	Status          model.SubmissionStatus `json:"status"`
	SubmittedAt     *time.Time             `json:"submitted_at"`
	Feedback        *string                `json:"feedback,omitempty"`
}

type StudentProgressItem struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Progress        int       `json:"progress"`
	CompletedCounts string    `json:"completed_counts"`
	Completed       int64     `json:"completed"`
	Total           int64     `json:"total"`
}

type StudentSubmissionItem struct {
	SubmissionID  uuid.UUID              `json:"submission_id"`
	AssignmentID  uuid.UUID              `json:"assignment_id"`
	Title         string                 `json:"title"`
	Deadline      string                 `json:"deadline"`
	SubmittedAt   *time.Time             `json:"submitted_at"`
	Status        model.SubmissionStatus `json:"status"`
	StatusDisplay string                 `json:"status_display"`
	Score         *int                   `json:"score"`
	TotalScore    int                    `json:"total_score"`
}

// ListAssignmentsQuery filters the teacher list. A nil OwnerID lists every owner.
type ListAssignmentsQuery struct {
	OwnerID uuid.UUID
	Limit   int
	Offset  int
	Order   string
}

/* =========================================================
   TEACHER LIST
========================================================= */

func (s *AssignmentService) ListTeacherAssignments(ctx context.Context, q ListAssignmentsQuery) ([]TeacherAssignmentItem, int64, error) {
	db := s.DB.WithContext(ctx)

	base := db.Model(&model.AssignmentModel{})
	if q.OwnerID != uuid.Nil {
		base = base.Where("assignment_owner_id = ?", q.OwnerID)
	}
	base = base.Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, wrap(err)
	}

	order := q.Order
	if order == "" {
		order = "assignment_created_at DESC"
	}
	var rows []model.AssignmentModel
	find := base.Order(order).Order("assignment_id ASC")
	if q.Limit > 0 {
		find = find.Limit(q.Limit).Offset(q.Offset)
	}
	if err := find.Find(&rows).Error; err != nil {
		return nil, 0, wrap(err)
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.AssignmentID)
	}
	stats, err := submissionStats(db, ids)
	if err != nil {
		return nil, 0, wrap(err)
	}
	qCounts, err := questionCounts(db, ids)
	if err != nil {
		return nil, 0, wrap(err)
	}

	now := s.now()
	out := make([]TeacherAssignmentItem, 0, len(rows))
	for i := range rows {
		r := &rows[i]
		st := stats[r.AssignmentID]
		out = append(out, TeacherAssignmentItem{
			ID:             r.AssignmentID,
			OwnerID:        r.AssignmentOwnerID,
			Title:          r.AssignmentTitle,
			Description:    r.AssignmentDescription,
			Deadline:       r.DeadlineDay().Format(model.DateLayout),
			TotalScore:     r.AssignmentTotalScore,
			AssignType:     r.AssignmentAssignType,
			QuestionCount:  qCounts[r.AssignmentID],
			AssigneesCount: st.total,
			SubmittedCount: st.handedIn,
			GradedCount:    st.graded,
			CreatedAt:      r.AssignmentCreatedAt,
			IsPastDeadline: !r.IsOpenAt(now),
		})
	}
	return out, total, nil
}

/* =========================================================
   STUDENT LIST
========================================================= */

// ListStudentAssignments returns every assignment the student owes, soonest deadline first.
func (s *AssignmentService) ListStudentAssignments(ctx context.Context, studentID uuid.UUID) ([]StudentAssignmentItem, error) {
	if studentID == uuid.Nil {
		return nil, validationErr("student id is required")
	}
	db := s.DB.WithContext(ctx)

	var subs []model.SubmissionModel
	if err := db.Where("submission_student_id = ?", studentID).Find(&subs).Error; err != nil {
		return nil, wrap(err)
	}
	if len(subs) == 0 {
		return []StudentAssignmentItem{}, nil
	}

	byID, err := assignmentsByID(db, submissionAssignmentIDs(subs))
	if err != nil {
		return nil, wrap(err)
	}
	qCounts, err := questionCounts(db, submissionAssignmentIDs(subs))
	if err != nil {
		return nil, wrap(err)
	}

	now := s.now()
	out := make([]StudentAssignmentItem, 0, len(subs))
	for i := range subs {
		sub := &subs[i]
		a, ok := byID[sub.SubmissionAssignmentID]
		if !ok {
			continue
		}
		left := a.ClosesAt().Sub(now)
		overdue := left <= 0
		secs := int64(0)
		if !overdue {
			secs = int64(left / time.Second)
		}
		out = append(out, StudentAssignmentItem{
			ID:               a.AssignmentID,
			SubmissionID:     sub.SubmissionID,
			Title:            a.AssignmentTitle,
			Description:      a.AssignmentDescription,
			Deadline:         a.DeadlineDay().Format(model.DateLayout),
			TotalScore:       a.AssignmentTotalScore,
			Status:           sub.SubmissionStatus,
			SubmittedAt:      sub.SubmissionSubmittedAt,
			Score:            sub.SubmissionScore,
			RemainingTime:    RemainingText(left),
			RemainingSeconds: secs,
			IsOverdue:        overdue,
			Progress:         sub.SubmissionStatus.Progress(),
			QuestionCount:    qCounts[a.AssignmentID],
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Deadline != out[j].Deadline {
			return out[i].Deadline < out[j].Deadline
		}
		return out[i].Title < out[j].Title
	})
	return out, nil
}

// RemainingText renders the time left before a deadline closes.
func RemainingText(left time.Duration) string {
	if left <= 0 {
		return "Overdue"
	}
	days := int(left / (24 * time.Hour))
	hours := int((left % (24 * time.Hour)) / time.Hour)
	switch {
	case days > 0:
		return plural(days, "day")
	case hours > 0:
		return plural(hours, "hour")
	default:
		return "Less than 1 hour"
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

/* =========================================================
   DETAILS
========================================================= */

// StudentAssignmentDetail is the student's view: questions, prior answers and the draft.
// Correct flags are revealed only once the work is graded.
func (s *AssignmentService) StudentAssignmentDetail(ctx context.Context, assignmentID, studentID uuid.UUID) (*StudentAssignmentDetail, error) {
	if studentID == uuid.Nil {
		return nil, forbiddenErr("an authenticated student is required")
	}
	db := s.DB.WithContext(ctx)

	a, err := findAssignment(db, assignmentID)
	if err != nil {
		return nil, err
	}

	var sub model.SubmissionModel
	if err := db.Where("submission_assignment_id = ? AND submission_student_id = ?", assignmentID, studentID).
		First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, forbiddenErr("you do not have access to this assignment")
		}
		return nil, wrap(err)
	}
	questions, err := loadQuestions(db, assignmentID)
	if err != nil {
		return nil, wrap(err)
	}

	graded := sub.SubmissionStatus == model.SubmissionStatusGraded
	views := make([]model.QuestionView, 0, len(questions))
	for i := range questions {
		views = append(views, questions[i].ToView(graded))
	}

	answers, err := studentAnswers(db, studentID, questionIDs(questions))
	if err != nil {
		return nil, wrap(err)
	}
	prior := make([]PriorAnswer, 0, len(answers))
	for _, ans := range answers {
		pa := PriorAnswer{QuestionID: ans.AnswerQuestionID, Answer: ans.AnswerText}
		if graded {
			pa.Score = ans.AnswerScore
		}
		prior = append(prior, pa)
	}

	view := StudentSubmissionView{
		ID:          sub.SubmissionID,
		Status:      sub.SubmissionStatus,
		SubmittedAt: sub.SubmissionSubmittedAt,
		Score:       sub.SubmissionScore,
		Feedback:    sub.SubmissionFeedback,
		Answers:     prior,
	}
	if sub.SubmissionDraftAnswers != nil && len(*sub.SubmissionDraftAnswers) > 0 {
		view.Draft = json.RawMessage(*sub.SubmissionDraftAnswers)
	}

	return &StudentAssignmentDetail{
		Assignment: s.header(a),
		Questions:  views,
		Submission: view,
	}, nil
}

// TeacherAssignmentDetail returns the full assignment, correct flags included. Owner only.
func (s *AssignmentService) TeacherAssignmentDetail(ctx context.Context, assignmentID, callerID uuid.UUID) (*TeacherAssignmentDetail, error) {
	db := s.DB.WithContext(ctx)

	a, err := findAssignment(db, assignmentID)
	if err != nil {
		return nil, err
	}
	if a.AssignmentOwnerID != callerID {
		return nil, forbiddenErr("you do not own this assignment")
	}

	questions, err := loadQuestions(db, assignmentID)
	if err != nil {
		return nil, wrap(err)
	}
	views := make([]model.QuestionView, 0, len(questions))
	for i := range questions {
		views = append(views, questions[i].ToView(true))
	}

	stats, err := submissionStats(db, []uuid.UUID{assignmentID})
	if err != nil {
		return nil, wrap(err)
	}
	st := stats[assignmentID]

	emails := []string(a.AssignmentAssigneeEmails)
	if emails == nil {
		emails = []string{}
	}
	return &TeacherAssignmentDetail{
		AssignmentHeader: s.header(a),
		OwnerID:          a.AssignmentOwnerID,
		AssignType:       a.AssignmentAssignType,
		AssigneeEmails:   emails,
		AssigneesCount:   st.total,
		SubmittedCount:   st.handedIn,
		Locked:           st.handedIn > 0,
		Questions:        views,
		CreatedAt:        a.AssignmentCreatedAt,
		UpdatedAt:        a.AssignmentUpdatedAt,
	}, nil
}

// SubmissionForGrading merges each question with the student's answer for the grading screen.
func (s *AssignmentService) SubmissionForGrading(ctx context.Context, submissionID uuid.UUID) (*GradingView, error) {
	db := s.DB.WithContext(ctx)

	var sub model.SubmissionModel
	if err := db.First(&sub, "submission_id = ?", submissionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundErr("submission not found")
		}
		return nil, wrap(err)
	}

	a, err := findAssignment(db, sub.SubmissionAssignmentID)
	if err != nil {
		return nil, err
	}

	var student userModel.UserModel
	if err := db.Select("user_id", "user_name", "user_email").
		Where("user_id = ?", sub.SubmissionStudentID).
		Limit(1).Find(&student).Error; err != nil {
		return nil, wrap(err)
	}

	questions, err := loadQuestions(db, a.AssignmentID)
	if err != nil {
		return nil, wrap(err)
	}
	answers, err := studentAnswers(db, sub.SubmissionStudentID, questionIDs(questions))
	if err != nil {
		return nil, wrap(err)
	}
	byQuestion := make(map[uuid.UUID]*model.AnswerModel, len(answers))
	for i := range answers {
		byQuestion[answers[i].AnswerQuestionID] = &answers[i]
	}

	items := make([]GradingQuestion, 0, len(questions))
	for i := range questions {
		q := &questions[i]
		gq := GradingQuestion{QuestionView: q.ToView(true), AutoGraded: q.IsMultipleChoice()}
		if ans, ok := byQuestion[q.QuestionID]; ok {
			text := ans.AnswerText
			gq.StudentAnswer = &text
			if ans.AnswerScore != nil {
				gq.EarnedScore = *ans.AnswerScore
			}
		}
		items = append(items, gq)
	}

	return &GradingView{
		SubmissionID:    sub.SubmissionID,
		StudentID:       sub.SubmissionStudentID,
		StudentName:     student.UserName,
		StudentEmail:    student.Email,
		AssignmentID:    a.AssignmentID,
		AssignmentTitle: a.AssignmentTitle,
		Questions:       items,
		TotalScore:      sub.SubmissionScore,
		MaxTotalScore:   a.AssignmentTotalScore,
		Status:          sub.SubmissionStatus,
		SubmittedAt:     sub.SubmissionSubmittedAt,
		Feedback:        sub.SubmissionFeedback,
	}, nil
}

/* =========================================================
   PROGRESS
========================================================= */

// StudentProgress summarizes every student: completed is any handed-in status.
func (s *AssignmentService) StudentProgress(ctx context.Context) ([]StudentProgressItem, error) {
	db := s.DB.WithContext(ctx)

	var students []userModel.UserModel
	if err := db.Select("user_id", "user_name", "user_email").
		Where("user_id IN (?)", studentIDsQuery(db)).
		Order("user_name ASC").
		Find(&students).Error; err != nil {
		return nil, wrap(err)
	}
	if len(students) == 0 {
		return []StudentProgressItem{}, nil
	}

	ids := make([]uuid.UUID, 0, len(students))
	for _, u := range students {
		ids = append(ids, u.ID)
	}

	type countRow struct {
		StudentID uuid.UUID
		Total     int64
		Completed int64
	}
	var counts []countRow
	if err := db.Model(&model.SubmissionModel{}).
		Select(`submission_student_id AS student_id,
			COUNT(*) AS total,
			SUM(CASE WHEN submission_status IN ? THEN 1 ELSE 0 END) AS completed`, model.LockingStatuses).
		Where("submission_student_id IN ?", ids).
		Group("submission_student_id").
		Scan(&counts).Error; err != nil {
		return nil, wrap(err)
	}
	byStudent := make(map[uuid.UUID]countRow, len(counts))
	for _, c := range counts {
		byStudent[c.StudentID] = c
	}

	out := make([]StudentProgressItem, 0, len(students))
	for _, u := range students {
		c := byStudent[u.ID]
		out = append(out, StudentProgressItem{
			ID:              u.ID,
			Name:            u.UserName,
			Email:           u.Email,
			Progress:        percent(c.Completed, c.Total),
			CompletedCounts: fmt.Sprintf("%d/%d", c.Completed, c.Total),
			Completed:       c.Completed,
			Total:           c.Total,
		})
	}
	return out, nil
}

func percent(part, whole int64) int {
	if whole <= 0 {
		return 0
	}
	return int(math.Round(float64(part) * 100 / float64(whole)))
}

// StudentSubmissionsForTeacher lists one student's submissions, latest hand-in first.
// Rows whose assignment no longer exists are skipped.
func (s *AssignmentService) StudentSubmissionsForTeacher(ctx context.Context, studentID uuid.UUID) ([]StudentSubmissionItem, error) {
	db := s.DB.WithContext(ctx)

	var subs []model.SubmissionModel
	if err := db.Where("submission_student_id = ?", studentID).Find(&subs).Error; err != nil {
		return nil, wrap(err)
	}
	byID, err := assignmentsByID(db, submissionAssignmentIDs(subs))
	if err != nil {
		return nil, wrap(err)
	}

	out := make([]StudentSubmissionItem, 0, len(subs))
	for i := range subs {
		sub := &subs[i]
		a, ok := byID[sub.SubmissionAssignmentID]
		if !ok {
			continue
		}
		out = append(out, StudentSubmissionItem{
			SubmissionID:  sub.SubmissionID,
			AssignmentID:  a.AssignmentID,
			Title:         a.AssignmentTitle,
			Deadline:      a.DeadlineDay().Format(model.DateLayout),
			SubmittedAt:   sub.SubmissionSubmittedAt,
			Status:        sub.SubmissionStatus,
			StatusDisplay: sub.SubmissionStatus.Label(),
			Score:         sub.SubmissionScore,
			TotalScore:    a.AssignmentTotalScore,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		ti, tj := out[i].SubmittedAt, out[j].SubmittedAt
		switch {
		case ti != nil && tj != nil:
			return ti.After(*tj)
		case ti != nil:
			return true
		case tj != nil:
			return false
		default:
			return out[i].Deadline < out[j].Deadline
		}
	})
	return out, nil
}

/* =========================================================
   helpers
========================================================= */

type statRow struct {
	total    int64
	handedIn int64
	graded   int64
}

func submissionStats(db *gorm.DB, assignmentIDs []uuid.UUID) (map[uuid.UUID]statRow, error) {
	out := make(map[uuid.UUID]statRow, len(assignmentIDs))
	if len(assignmentIDs) == 0 {
		return out, nil
	}
	type row struct {
		AssignmentID uuid.UUID
		Status       model.SubmissionStatus
		N            int64
	}
	var rows []row
	if err := db.Model(&model.SubmissionModel{}).
		Select("submission_assignment_id AS assignment_id, submission_status AS status, COUNT(*) AS n").
		Where("submission_assignment_id IN ?", assignmentIDs).
		Group("submission_assignment_id, submission_status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		st := out[r.AssignmentID]
		st.total += r.N
		if r.Status.IsHandedIn() {
			st.handedIn += r.N
		}
		if r.Status == model.SubmissionStatusGraded {
			st.graded += r.N
		}
		out[r.AssignmentID] = st
	}
	return out, nil
}

func questionCounts(db *gorm.DB, assignmentIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	out := make(map[uuid.UUID]int64, len(assignmentIDs))
	if len(assignmentIDs) == 0 {
		return out, nil
	}
	type row struct {
		AssignmentID uuid.UUID
		N            int64
	}
	var rows []row
	if err := db.Model(&model.QuestionModel{}).
		Select("question_assignment_id AS assignment_id, COUNT(*) AS n").
		Where("question_assignment_id IN ?", assignmentIDs).
		Group("question_assignment_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.AssignmentID] = r.N
	}
	return out, nil
}

func assignmentsByID(db *gorm.DB, ids []uuid.UUID) (map[uuid.UUID]*model.AssignmentModel, error) {
	out := make(map[uuid.UUID]*model.AssignmentModel, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []model.AssignmentModel
	if err := db.Where("assignment_id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		out[rows[i].AssignmentID] = &rows[i]
	}
	return out, nil
}

func submissionAssignmentIDs(subs []model.SubmissionModel) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(subs))
	ids := make([]uuid.UUID, 0, len(subs))
	for _, s := range subs {
		if _, ok := seen[s.SubmissionAssignmentID]; ok {
			continue
		}
		seen[s.SubmissionAssignmentID] = struct{}{}
		ids = append(ids, s.SubmissionAssignmentID)
	}
	return ids
}

func questionIDs(qs []model.QuestionModel) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(qs))
	for _, q := range qs {
		ids = append(ids, q.QuestionID)
	}
	return ids
}

func studentAnswers(db *gorm.DB, studentID uuid.UUID, qids []uuid.UUID) ([]model.AnswerModel, error) {
	if len(qids) == 0 {
		return nil, nil
	}
	var rows []model.AnswerModel
	err := db.Where("answer_student_id = ? AND answer_question_id IN ?", studentID, qids).Find(&rows).Error
	return rows, err
}

func findAssignment(db *gorm.DB, id uuid.UUID) (*model.AssignmentModel, error) {
	var a model.AssignmentModel
	if err := db.First(&a, "assignment_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundErr("assignment not found")
		}
		return nil, wrap(err)
	}
	return &a, nil
}

func (s *AssignmentService) header(a *model.AssignmentModel) AssignmentHeader {
	return AssignmentHeader{
		ID:          a.AssignmentID,
		Title:       a.AssignmentTitle,
		Description: a.AssignmentDescription,
		Deadline:    a.DeadlineDay().Format(model.DateLayout),
		TotalScore:  a.AssignmentTotalScore,
		IsOverdue:   !a.IsOpenAt(s.now()),
	}
}
