package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"lingoboard_backend/internals/constants"
	"lingoboard_backend/internals/features/lessons/assignments/model"
	userModel "lingoboard_backend/internals/features/users/user/model"
)

var (
	testNow      = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	testDeadline = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
)

type fixture struct {
	t    *testing.T
	db   *gorm.DB
	svc  *AssignmentService
	ctx  context.Context
	now  time.Time
	role map[string]uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&userModel.UserModel{},
		&userModel.RoleModel{},
		&userModel.UserRoleModel{},
		&model.AssignmentModel{},
		&model.QuestionModel{},
		&model.SubmissionModel{},
		&model.AnswerModel{},
	))

	f := &fixture{t: t, db: db, ctx: context.Background(), now: testNow, role: map[string]uuid.UUID{}}
	f.svc = NewAssignmentService(db)
	f.svc.Now = func() time.Time { return f.now }

	for _, name := range constants.AllRoles {
		r := userModel.RoleModel{Name: name}
		require.NoError(t, db.Create(&r).Error)
		f.role[name] = r.ID
	}
	return f
}

func (f *fixture) user(name, email, role string) uuid.UUID {
	f.t.Helper()
	u := userModel.UserModel{UserName: name, Email: email, Password: "x"}
	require.NoError(f.t, f.db.Create(&u).Error)
	require.NoError(f.t, f.db.Create(&userModel.UserRoleModel{UserID: u.ID, RoleID: f.role[role]}).Error)
	return u.ID
}

func (f *fixture) count(m any, where ...any) int64 {
	f.t.Helper()
	var n int64
	q := f.db.Model(m)
	if len(where) > 0 {
		q = q.Where(where[0], where[1:]...)
	}
	require.NoError(f.t, q.Count(&n).Error)
	return n
}

func (f *fixture) submission(assignmentID, studentID uuid.UUID) model.SubmissionModel {
	f.t.Helper()
	var sub model.SubmissionModel
	require.NoError(f.t, f.db.
		Where("submission_assignment_id = ? AND submission_student_id = ?", assignmentID, studentID).
		First(&sub).Error)
	return sub
}

func (f *fixture) questions(assignmentID uuid.UUID) []model.QuestionModel {
	f.t.Helper()
	qs, err := loadQuestions(f.db, assignmentID)
	require.NoError(f.t, err)
	return qs
}

func mcqInput(text string, score int, correct string, ids ...string) QuestionInput {
	opts := make([]model.QuestionOption, 0, len(ids))
	for _, id := range ids {
		opts = append(opts, model.QuestionOption{ID: model.FlexString(id), Text: "option " + id, IsCorrect: id == correct})
	}
	return QuestionInput{Kind: model.QuestionKindMultipleChoice, Text: text, Score: score, Options: opts}
}

func essayInput(text string, score int) QuestionInput {
	return QuestionInput{Kind: model.QuestionKindEssay, Text: text, Score: score}
}

// twoChoiceInput is the 60/40 multiple-choice assignment used across tests.
func twoChoiceInput(owner uuid.UUID) AssignmentInput {
	return AssignmentInput{
		OwnerID:    owner,
		Title:      "Unit 3 vocabulary",
		Deadline:   testDeadline,
		TotalScore: 100,
		AssignType: model.AssignTypeAll,
		Questions: []QuestionInput{
			mcqInput("Pick the synonym of big", 60, "b", "a", "b", "c"),
			mcqInput("Pick the antonym of cold", 40, "2", "1", "2"),
		},
	}
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	require.Truef(t, IsCode(err, code), "want %s, got %v", code, err)
}
