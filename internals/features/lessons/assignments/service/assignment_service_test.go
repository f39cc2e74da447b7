package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lingoboard_backend/internals/constants"
	"lingoboard_backend/internals/features/lessons/assignments/model"
)

func TestCreateFansOutToEveryStudent(t *testing.T) {
	f := newFixture(t)
	teacher := f.user("Ms Lan", "lan@school.test", constants.RoleTeacher)
	s1 := f.user("An", "an@school.test", constants.RoleStudent)
	s2 := f.user("Binh", "binh@school.test", constants.RoleStudent)

	res, err := f.svc.Create(f.ctx, twoChoiceInput(teacher))
	require.NoError(t, err)

	assert.Equal(t, 2, res.QuestionCount)
	assert.Equal(t, 2, res.TargetCount)
	assert.EqualValues(t, 2, res.AssignedCount)
	assert.Empty(t, res.UnresolvedEmails)

	for _, sid := range []uuid.UUID{s1, s2} {
		sub := f.submission(res.AssignmentID, sid)
		assert.Equal(t, model.SubmissionStatusAssigned, sub.SubmissionStatus)
		assert.Nil(t, sub.SubmissionScore)
	}
	assert.EqualValues(t, 0, f.count(&model.SubmissionModel{}, "submission_student_id = ?", teacher))

	qs := f.questions(res.AssignmentID)
	require.Len(t, qs, 2)
	assert.Equal(t, "Pick the synonym of big", qs[0].Content().Prompt)
	assert.Len(t, qs[0].Content().Options, 3)
	assert.Equal(t, 0, qs[0].QuestionPosition)
}

func TestCreateScoreMismatchPersistsNothing(t *testing.T) {
	f := newFixture(t)
	teacher := f.user("Ms Lan", "lan@school.test", constants.RoleTeacher)
	f.user("An", "an@school.test", constants.RoleStudent)

	in := twoChoiceInput(teacher)
	in.TotalScore = 90

	_, err := f.svc.Create(f.ctx, in)
	assertCode(t, err, CodeScoreMismatch)
	assert.Contains(t, err.Error(), "(100)")

	assert.Zero(t, f.count(&model.AssignmentModel{}))
	assert.Zero(t, f.count(&model.QuestionModel{}))
	assert.Zero(t, f.count(&model.SubmissionModel{}))
}

func TestCreateFanOutFailureRollsBack(t *testing.T) {
	f := newFixture(t)
	teacher := f.user("Ms Lan", "lan@school.test", constants.RoleTeacher)
	f.user("An", "an@school.test", constants.RoleStudent)

	// assignment and questions are already written when the fan-out insert fails
	require.NoError(t, f.db.Exec(`CREATE TRIGGER fail_submissions BEFORE INSERT ON submissions
		BEGIN SELECT RAISE(ABORT, 'submissions unavailable'); END`).Error)

	_, err := f.svc.Create(f.ctx, twoChoiceInput(teacher))
	assertCode(t, err, CodeInternal)

	assert.Zero(t, f.count(&model.AssignmentModel{}))
	assert.Zero(t, f.count(&model.QuestionModel{}))
	assert.Zero(t, f.count(&model.SubmissionModel{}))

	require.NoError(t, f.db.Exec(`DROP TRIGGER fail_submissions`).Error)
	res, err := f.svc.Create(f.ctx, twoChoiceInput(teacher))
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.AssignedCount)
	assert.EqualValues(t, 1, f.count(&model.AssignmentModel{}))
}

func TestCreateSpecificEmails(t *testing.T) {
	f := newFixture(t)
	teacher := f.user("Ms Lan", "lan@school.test", constants.RoleTeacher)
	an := f.user("An", "an@school.test", constants.RoleStudent)
	f.user("Binh", "binh@school.test", constants.RoleStudent)

	in := twoChoiceInput(teacher)
	in.AssignType = model.AssignTypeSpecific
	in.AssigneeEmails = []string{" AN@school.test ", "ghost@school.test", "an@school.test"}

	res, err := f.svc.Create(f.ctx, in)
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.AssignedCount)
	assert.Equal(t, []string{"ghost@school.test"}, res.UnresolvedEmails)
	assert.Equal(t, model.SubmissionStatusAssigned, f.submission(res.AssignmentID, an).SubmissionStatus)
	assert.EqualValues(t, 1, f.count(&model.SubmissionModel{}))

	var stored model.AssignmentModel
	require.NoError(t, f.db.First(&stored, "assignment_id = ?", res.AssignmentID).Error)
	assert.Equal(t, []string{"an@school.test", "ghost@school.test"}, []string(stored.AssignmentAssigneeEmails))
}

func TestCreateSpecificWithOnlyUnknownEmails(t *testing.T) {
	f := newFixture(t)
	teacher := f.user("Ms Lan", "lan@school.test", constants.RoleTeacher)

	in := twoChoiceInput(teacher)
	in.AssignType = model.AssignTypeSpecific
	in.AssigneeEmails = []string{"nobody@school.test"}

	res, err := f.svc.Create(f.ctx, in)
	require.NoError(t, err)
	assert.Zero(t, res.AssignedCount)
	assert.Equal(t, []string{"nobody@school.test"}, res.UnresolvedEmails)
	assert.Zero(t, f.count(&model.SubmissionModel{}))
	assert.EqualValues(t, 1, f.count(&model.AssignmentModel{}))
}

func TestCreateValidation(t *testing.T) {
	f := newFixture(t)
	teacher := f.user("Ms Lan", "lan@school.test", constants.RoleTeacher)

	tests := []struct {
		name   string
		mutate func(in *AssignmentInput)
		code   string
	}{
		{name: "missing owner", mutate: func(in *AssignmentInput) { in.OwnerID = uuid.Nil }, code: CodeForbidden},
		{name: "blank title", mutate: func(in *AssignmentInput) { in.Title = "  " }, code: CodeValidation},
		{name: "missing deadline", mutate: func(in *AssignmentInput) { in.Deadline = time.Time{} }, code: CodeValidation},
		{name: "specific without emails", mutate: func(in *AssignmentInput) { in.AssignType = model.AssignTypeSpecific }, code: CodeValidation},
		{name: "unknown assign type", mutate: func(in *AssignmentInput) { in.AssignType = "class" }, code: CodeValidation},
		{name: "no questions", mutate: func(in *AssignmentInput) { in.Questions = nil; in.TotalScore = 0 }, code: CodeValidation},
		{name: "two correct options", mutate: func(in *AssignmentInput) {
			in.Questions[1].Options[0].IsCorrect = true
		}, code: CodeValidation},
		{name: "single option", mutate: func(in *AssignmentInput) {
			in.Questions[1].Options = in.Questions[1].Options[1:]
		}, code: CodeValidation},
		{name: "negative score", mutate: func(in *AssignmentInput) {
			in.Questions[0].Score = -10
			in.TotalScore = 30
		}, code: CodeValidation},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := twoChoiceInput(teacher)
			tc.mutate(&in)
			_, err := f.svc.Create(f.ctx, in)
			assertCode(t, err, tc.code)
		})
	}
	assert.Zero(t, f.count(&model.AssignmentModel{}))
}

func TestUpdateReplacesQuestionsAndOpenSubmissions(t *testing.T) {
	f := newFixture(t)
	teacher := f.user("Ms Lan", "lan@school.test", constants.RoleTeacher)
	an := f.user("An", "an@school.test", constants.RoleStudent)
	binh := f.user("Binh", "binh@school.test", constants.RoleStudent)

	created, err := f.svc.Create(f.ctx, twoChoiceInput(teacher))
	require.NoError(t, err)
	require.NoError(t, f.svc.SaveDraft(f.ctx, created.AssignmentID, an, []byte(`[{"question":1}]`)))
	oldQuestions := f.questions(created.AssignmentID)

	in := AssignmentInput{
		OwnerID:        teacher,
		Title:          "Unit 3 vocabulary (v2)",
		Deadline:       testDeadline.AddDate(0, 0, 2),
		TotalScore:     50,
		AssignType:     model.AssignTypeSpecific,
		AssigneeEmails: []string{"binh@school.test"},
		Questions:      []QuestionInput{essayInput("Describe your town", 50)},
	}
	res, err := f.svc.Update(f.ctx, created.AssignmentID, in)
	require.NoError(t, err)
	assert.Equal(t, 1, res.QuestionCount)
	assert.EqualValues(t, 1, res.AssignedCount)

	qs := f.questions(created.AssignmentID)
	require.Len(t, qs, 1)
	assert.NotEqual(t, oldQuestions[0].QuestionID, qs[0].QuestionID)
	assert.True(t, qs[0].IsEssay())

	assert.Zero(t, f.count(&model.SubmissionModel{}, "submission_student_id = ?", an))
	assert.Equal(t, model.SubmissionStatusAssigned, f.submission(created.AssignmentID, binh).SubmissionStatus)

	var a model.AssignmentModel
	require.NoError(t, f.db.First(&a, "assignment_id = ?", created.AssignmentID).Error)
	assert.Equal(t, "Unit 3 vocabulary (v2)", a.AssignmentTitle)
	assert.Equal(t, 50, a.AssignmentTotalScore)
	assert.Equal(t, "2026-03-12", a.DeadlineDay().Format(model.DateLayout))
}

func TestUpdateLockedOnceWorkIsHandedIn(t *testing.T) {
	f := newFixture(t)
	teacher := f.user("Ms Lan", "lan@school.test", constants.RoleTeacher)
	an := f.user("An", "an@school.test", constants.RoleStudent)
	binh := f.user("Binh", "binh@school.test", constants.RoleStudent)

	created, err := f.svc.Create(f.ctx, twoChoiceInput(teacher))
	require.NoError(t, err)
	qs := f.questions(created.AssignmentID)

	_, err = f.svc.Submit(f.ctx, created.AssignmentID, an, []AnswerInput{{QuestionID: qs[0].QuestionID, Answer: "b"}})
	require.NoError(t, err)
	before := f.submission(created.AssignmentID, binh)

	in := twoChoiceInput(teacher)
	in.Title = "changed"
	_, err = f.svc.Update(f.ctx, created.AssignmentID, in)
	assertCode(t, err, CodeLocked)
	assert.Contains(t, err.Error(), "1 student(s)")

	after := f.questions(created.AssignmentID)
	require.Len(t, after, 2)
	assert.Equal(t, qs[0].QuestionID, after[0].QuestionID)
	assert.Equal(t, before.SubmissionID, f.submission(created.AssignmentID, binh).SubmissionID)
	assert.EqualValues(t, 2, f.count(&model.SubmissionModel{}))
}

func TestUpdateOwnershipAndExistence(t *testing.T) {
	f := newFixture(t)
	teacher := f.user("Ms Lan", "lan@school.test", constants.RoleTeacher)
	other := f.user("Mr Hai", "hai@school.test", constants.RoleTeacher)

	created, err := f.svc.Create(f.ctx, twoChoiceInput(teacher))
	require.NoError(t, err)

	_, err = f.svc.Update(f.ctx, created.AssignmentID, twoChoiceInput(other))
	assertCode(t, err, CodeForbidden)

	_, err = f.svc.Update(f.ctx, uuid.New(), twoChoiceInput(teacher))
	assertCode(t, err, CodeNotFound)

	bad := twoChoiceInput(teacher)
	bad.TotalScore = 1
	_, err = f.svc.Update(f.ctx, created.AssignmentID, bad)
	assertCode(t, err, CodeScoreMismatch)
}

func TestDeleteWithoutSubmissionsThenNotFound(t *testing.T) {
	f := newFixture(t)
	teacher := f.user("Ms Lan", "lan@school.test", constants.RoleTeacher)

	in := twoChoiceInput(teacher)
	in.AssignType = model.AssignTypeSpecific
	in.AssigneeEmails = []string{"nobody@school.test"}
	created, err := f.svc.Create(f.ctx, in)
	require.NoError(t, err)

	res, err := f.svc.Delete(f.ctx, created.AssignmentID, teacher)
	require.NoError(t, err)
	assert.Zero(t, res.SubmissionsDeleted)
	assert.EqualValues(t, 2, res.QuestionsDeleted)
	assert.Zero(t, f.count(&model.AssignmentModel{}))
	assert.Zero(t, f.count(&model.QuestionModel{}))

	_, err = f.svc.Delete(f.ctx, created.AssignmentID, teacher)
	assertCode(t, err, CodeNotFound)
}

func TestDeleteRemovesOpenSubmissions(t *testing.T) {
	f := newFixture(t)
	teacher := f.user("Ms Lan", "lan@school.test", constants.RoleTeacher)
	f.user("An", "an@school.test", constants.RoleStudent)
	f.user("Binh", "binh@school.test", constants.RoleStudent)

	created, err := f.svc.Create(f.ctx, twoChoiceInput(teacher))
	require.NoError(t, err)

	other := f.user("Mr Hai", "hai@school.test", constants.RoleTeacher)
	_, err = f.svc.Delete(f.ctx, created.AssignmentID, other)
	assertCode(t, err, CodeForbidden)

	_, err = f.svc.Delete(f.ctx, created.AssignmentID, uuid.Nil)
	assertCode(t, err, CodeForbidden)

	res, err := f.svc.Delete(f.ctx, created.AssignmentID, teacher)
	require.NoError(t, err)
	assert.EqualValues(t, 2, res.SubmissionsDeleted)
	assert.Zero(t, f.count(&model.SubmissionModel{}))
}

func TestDeleteLockedKeepsEverything(t *testing.T) {
	f := newFixture(t)
	teacher := f.user("Ms Lan", "lan@school.test", constants.RoleTeacher)
	an := f.user("An", "an@school.test", constants.RoleStudent)

	created, err := f.svc.Create(f.ctx, twoChoiceInput(teacher))
	require.NoError(t, err)
	qs := f.questions(created.AssignmentID)
	_, err = f.svc.Submit(f.ctx, created.AssignmentID, an, []AnswerInput{{QuestionID: qs[1].QuestionID, Answer: "2"}})
	require.NoError(t, err)

	_, err = f.svc.Delete(f.ctx, created.AssignmentID, teacher)
	assertCode(t, err, CodeLocked)
	assert.Contains(t, err.Error(), "hide it instead")

	assert.EqualValues(t, 1, f.count(&model.AssignmentModel{}))
	assert.EqualValues(t, 2, f.count(&model.QuestionModel{}))
	assert.EqualValues(t, 1, f.count(&model.SubmissionModel{}))
	assert.EqualValues(t, 1, f.count(&model.AnswerModel{}))
}
