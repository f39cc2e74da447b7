package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"lingoboard_backend/internals/configs"
	"lingoboard_backend/internals/constants"
	"lingoboard_backend/internals/features/lessons/assignments/model"
	userModel "lingoboard_backend/internals/features/users/user/model"
	authMiddleware "lingoboard_backend/internals/middlewares/auth"
)

const testSecret = "route-test-secret"

type httpFixture struct {
	t   *testing.T
	db  *gorm.DB
	app *fiber.App
}

func newHTTPFixture(t *testing.T) *httpFixture {
	t.Helper()
	configs.JWTSecret = testSecret

	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&userModel.UserModel{}, &userModel.RoleModel{}, &userModel.UserRoleModel{},
		&model.AssignmentModel{}, &model.QuestionModel{}, &model.SubmissionModel{}, &model.AnswerModel{},
	))
	for _, name := range constants.AllRoles {
		require.NoError(t, db.Create(&userModel.RoleModel{Name: name}).Error)
	}

	app := fiber.New()
	AssignmentRoutes(app.Group("/api", authMiddleware.AuthMiddleware(db)), db)
	return &httpFixture{t: t, db: db, app: app}
}

func (f *httpFixture) user(name, email, role string) uuid.UUID {
	f.t.Helper()
	u := userModel.UserModel{UserName: name, Email: email, Password: "x", IsActive: true}
	require.NoError(f.t, f.db.Create(&u).Error)
	var r userModel.RoleModel
	require.NoError(f.t, f.db.Where("role_name = ?", role).Take(&r).Error)
	require.NoError(f.t, f.db.Create(&userModel.UserRoleModel{UserID: u.ID, RoleID: r.ID}).Error)
	return u.ID
}

func token(t *testing.T, id uuid.UUID, roles ...string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"id":  id.String(),
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	if len(roles) > 0 {
		claims["roles"] = roles
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

type envelope struct {
	Success   bool            `json:"success"`
	Message   string          `json:"message"`
	ErrorCode string          `json:"error_code"`
	Data      json.RawMessage `json:"data"`
}

func (f *httpFixture) do(method, path, tok string, body any) (int, envelope) {
	f.t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(f.t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(f.t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(f.t, err)
	if len(raw) > 0 {
		require.NoError(f.t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp.StatusCode, env
}

func createBody(total int) fiber.Map {
	return fiber.Map{
		"title":       "Unit 3 vocabulary",
		"deadline":    time.Now().UTC().AddDate(0, 0, 7).Format(model.DateLayout),
		"total_score": total,
		"assign_type": "ALL",
		"questions": []fiber.Map{
			{
				"kind": "multiple_choice", "text": "Pick the synonym of big", "score": 60,
				"options": []fiber.Map{
					{"id": "a", "text": "small", "is_correct": false},
					{"id": "b", "text": "large", "is_correct": true},
				},
			},
			{"kind": "essay", "text": "Describe your home", "score": 40},
		},
	}
}

func TestRoutesRequireToken(t *testing.T) {
	f := newHTTPFixture(t)

	status, env := f.do(http.MethodGet, "/api/assignments/student", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.False(t, env.Success)

	status, _ = f.do(http.MethodGet, "/api/assignments/student", "not-a-jwt", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestStudentCannotManageAssignments(t *testing.T) {
	f := newHTTPFixture(t)
	an := f.user("An", "an@school.test", constants.RoleStudent)

	status, env := f.do(http.MethodPost, "/api/assignments", token(t, an, constants.RoleStudent), createBody(100))
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", env.ErrorCode)
}

func TestCreateRejectsScoreMismatch(t *testing.T) {
	f := newHTTPFixture(t)
	teacher := f.user("Ms Lan", "lan@school.test", constants.RoleTeacher)

	status, env := f.do(http.MethodPost, "/api/assignments", token(t, teacher, constants.RoleTeacher), createBody(90))
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "SCORE_MISMATCH", env.ErrorCode)
	assert.Contains(t, env.Message, "does not match")

	var n int64
	require.NoError(t, f.db.Model(&model.AssignmentModel{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestCreateRejectsMissingFields(t *testing.T) {
	f := newHTTPFixture(t)
	teacher := f.user("Ms Lan", "lan@school.test", constants.RoleTeacher)

	body := createBody(100)
	delete(body, "title")
	status, env := f.do(http.MethodPost, "/api/assignments", token(t, teacher, constants.RoleTeacher), body)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", env.ErrorCode)
}

func TestAssignmentLifecycleOverHTTP(t *testing.T) {
	f := newHTTPFixture(t)
	teacher := f.user("Ms Lan", "lan@school.test", constants.RoleTeacher)
	an := f.user("An", "an@school.test", constants.RoleStudent)
	// roles resolved from the database when the token carries none
	teacherTok := token(t, teacher)
	studentTok := token(t, an, constants.RoleStudent)

	status, env := f.do(http.MethodPost, "/api/assignments", teacherTok, createBody(100))
	require.Equal(t, fiber.StatusCreated, status, env.Message)
	var created struct {
		ID            uuid.UUID `json:"id"`
		AssignedCount int64     `json:"assigned_count"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.EqualValues(t, 1, created.AssignedCount)

	// teacher list
	status, env = f.do(http.MethodGet, "/api/assignments?page=1&per_page=10", teacherTok, nil)
	require.Equal(t, fiber.StatusOK, status)
	var list []struct {
		ID             uuid.UUID `json:"id"`
		AssigneesCount int64     `json:"assignees_count"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list, 1)
	assert.EqualValues(t, 1, list[0].AssigneesCount)

	// student list
	status, env = f.do(http.MethodGet, "/api/assignments/student", studentTok, nil)
	require.Equal(t, fiber.StatusOK, status)
	var mine []struct {
		ID           uuid.UUID `json:"id"`
		SubmissionID uuid.UUID `json:"submission_id"`
		Progress     int       `json:"progress"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &mine))
	require.Len(t, mine, 1)
	assert.Equal(t, created.ID, mine[0].ID)
	assert.Zero(t, mine[0].Progress)

	// student detail hides the correct flags
	status, env = f.do(http.MethodGet, fmt.Sprintf("/api/assignments/%s/details", created.ID), studentTok, nil)
	require.Equal(t, fiber.StatusOK, status)
	var detail struct {
		Questions []model.QuestionView `json:"questions"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &detail))
	require.Len(t, detail.Questions, 2)
	for _, op := range detail.Questions[0].Options {
		assert.Nil(t, op.IsCorrect)
	}
	mcq, essay := detail.Questions[0].ID, detail.Questions[1].ID

	// draft, then submit
	status, _ = f.do(http.MethodPost, fmt.Sprintf("/api/assignments/%s/draft", created.ID), studentTok,
		fiber.Map{"answers": fiber.Map{mcq.String(): "a"}})
	require.Equal(t, fiber.StatusOK, status)

	status, env = f.do(http.MethodPost, fmt.Sprintf("/api/assignments/%s/submit", created.ID), studentTok, fiber.Map{
		"answers": []fiber.Map{
			{"question_id": mcq.String(), "answer": "b"},
			{"question_id": essay.String(), "answer": "A flat near the river."},
		},
	})
	require.Equal(t, fiber.StatusOK, status, env.Message)
	var submitted struct {
		Score        int    `json:"score"`
		Status       string `json:"status"`
		NeedsGrading bool   `json:"needs_grading"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &submitted))
	assert.Equal(t, 60, submitted.Score)
	assert.Equal(t, string(model.SubmissionStatusPendingGrading), submitted.Status)
	assert.True(t, submitted.NeedsGrading)

	// edits are locked now
	status, env = f.do(http.MethodPut, fmt.Sprintf("/api/assignments/%s", created.ID), teacherTok, createBody(100))
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "LOCKED", env.ErrorCode)

	// grading view
	sub := mine[0].SubmissionID
	status, env = f.do(http.MethodGet, fmt.Sprintf("/api/assignments/submission/%s/grading", sub), teacherTok, nil)
	require.Equal(t, fiber.StatusOK, status)
	var view struct {
		StudentEmail string `json:"student_email"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, "an@school.test", view.StudentEmail)

	// grade
	status, env = f.do(http.MethodPost, fmt.Sprintf("/api/assignments/submission/%s/grade", sub), teacherTok, fiber.Map{
		"scores":   fiber.Map{essay.String(): 35},
		"feedback": "Nice detail.",
	})
	require.Equal(t, fiber.StatusOK, status, env.Message)
	var graded struct {
		Score  int    `json:"score"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &graded))
	assert.Equal(t, 95, graded.Score)
	assert.Equal(t, string(model.SubmissionStatusGraded), graded.Status)

	// progress
	status, env = f.do(http.MethodGet, "/api/assignments/progress/students", teacherTok, nil)
	require.Equal(t, fiber.StatusOK, status)
	var progress []struct {
		ID       uuid.UUID `json:"id"`
		Progress int       `json:"progress"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &progress))
	require.Len(t, progress, 1)
	assert.Equal(t, 100, progress[0].Progress)

	status, env = f.do(http.MethodGet, fmt.Sprintf("/api/assignments/student/%s/assignments", an), teacherTok, nil)
	require.Equal(t, fiber.StatusOK, status)
	var subs []struct {
		StatusDisplay string `json:"status_display"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &subs))
	require.Len(t, subs, 1)
	assert.Equal(t, "Graded", subs[0].StatusDisplay)

	// delete is blocked by graded work
	status, env = f.do(http.MethodDelete, fmt.Sprintf("/api/assignments/%s", created.ID), teacherTok, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "LOCKED", env.ErrorCode)
}

func TestGradingRequiresOwnership(t *testing.T) {
	f := newHTTPFixture(t)
	teacher := f.user("Ms Lan", "lan@school.test", constants.RoleTeacher)
	other := f.user("Mr Hai", "hai@school.test", constants.RoleTeacher)
	an := f.user("An", "an@school.test", constants.RoleStudent)

	status, env := f.do(http.MethodPost, "/api/assignments", token(t, teacher, constants.RoleTeacher), createBody(100))
	require.Equal(t, fiber.StatusCreated, status, env.Message)

	var sub model.SubmissionModel
	require.NoError(t, f.db.Where("submission_student_id = ?", an).Take(&sub).Error)

	otherTok := token(t, other, constants.RoleTeacher)
	status, env = f.do(http.MethodPost, fmt.Sprintf("/api/assignments/submission/%s/grade", sub.SubmissionID), otherTok, fiber.Map{})
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", env.ErrorCode)

	status, _ = f.do(http.MethodGet, fmt.Sprintf("/api/assignments/submission/%s/grading", uuid.New()), otherTok, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestUnassignedStudentIsForbidden(t *testing.T) {
	f := newHTTPFixture(t)
	teacher := f.user("Ms Lan", "lan@school.test", constants.RoleTeacher)

	status, env := f.do(http.MethodPost, "/api/assignments", token(t, teacher, constants.RoleTeacher), createBody(100))
	require.Equal(t, fiber.StatusCreated, status, env.Message)
	var created struct {
		ID uuid.UUID `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))

	late := f.user("Cuong", "cuong@school.test", constants.RoleStudent)
	tok := token(t, late, constants.RoleStudent)

	status, _ = f.do(http.MethodGet, fmt.Sprintf("/api/assignments/%s/details", created.ID), tok, nil)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, env = f.do(http.MethodPost, fmt.Sprintf("/api/assignments/%s/submit", created.ID), tok,
		fiber.Map{"answers": []fiber.Map{{"question_id": uuid.NewString(), "answer": "b"}}})
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "NOT_ASSIGNED", env.ErrorCode)
}

func TestInactiveUserIsRejected(t *testing.T) {
	f := newHTTPFixture(t)
	an := f.user("An", "an@school.test", constants.RoleStudent)
	require.NoError(t, f.db.Model(&userModel.UserModel{}).Where("user_id = ?", an).Update("user_is_active", false).Error)

	status, _ := f.do(http.MethodGet, "/api/assignments/student", token(t, an, constants.RoleStudent), nil)
	assert.Equal(t, fiber.StatusForbidden, status)
}
