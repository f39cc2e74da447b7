package service

import (
	"log"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"lingoboard_backend/internals/constants"
	"lingoboard_backend/internals/features/lessons/assignments/model"
	authHelper "lingoboard_backend/internals/features/users/auth/helper"
	userModel "lingoboard_backend/internals/features/users/user/model"
)

const fanOutBatchSize = 500

type fanOutResult struct {
	targets    int
	created    int64
	unresolved []string
}

// normalizeEmails lowercases, trims and de-duplicates while keeping the input order.
func normalizeEmails(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, e := range in {
		e = authHelper.NormalizeEmail(e)
		if e == "" {
			continue
		}
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	return out
}

// studentIDsQuery selects the ids of every user holding the Student role.
func studentIDsQuery(db *gorm.DB) *gorm.DB {
	return db.Session(&gorm.Session{NewDB: true}).
		Table("user_roles AS ur").
		Select("ur.user_id").
		Joins("JOIN roles r ON r.role_id = ur.role_id").
		Where("r.role_name = ?", constants.RoleStudent)
}

// resolveTargets returns the students an assignment goes to. For "all" that is every
// user holding the Student role; for "specific" it is every user whose email is listed.
// Listed emails with no matching user are returned as unresolved.
func resolveTargets(tx *gorm.DB, assignType model.AssignType, emails []string) ([]uuid.UUID, []string, error) {
	if assignType == model.AssignTypeAll {
		var ids []uuid.UUID
		err := tx.Model(&userModel.UserModel{}).
			Where("user_id IN (?)", studentIDsQuery(tx)).
			Pluck("user_id", &ids).Error
		return ids, nil, err
	}

	if len(emails) == 0 {
		return nil, nil, nil
	}

	var rows []userModel.UserModel
	if err := tx.Select("user_id", "user_email").
		Where("LOWER(user_email) IN ?", emails).
		Find(&rows).Error; err != nil {
		return nil, nil, err
	}

	found := make(map[string]struct{}, len(rows))
	ids := make([]uuid.UUID, 0, len(rows))
	for _, u := range rows {
		found[strings.ToLower(u.Email)] = struct{}{}
		ids = append(ids, u.ID)
	}

	var unresolved []string
	for _, e := range emails {
		if _, ok := found[e]; !ok {
			unresolved = append(unresolved, e)
		}
	}
	return ids, unresolved, nil
}

// fanOut inserts one ASSIGNED submission per target. Existing (assignment, student)
// pairs are left alone, so only fresh rows are counted.
func fanOut(tx *gorm.DB, assignmentID uuid.UUID, assignType model.AssignType, emails []string) (fanOutResult, error) {
	ids, unresolved, err := resolveTargets(tx, assignType, emails)
	if err != nil {
		return fanOutResult{}, err
	}
	res := fanOutResult{targets: len(ids), unresolved: unresolved}
	if len(unresolved) > 0 {
		log.Printf("[AssignmentService] assignment_id=%s unresolved assignee emails: %v", assignmentID, unresolved)
	}
	if len(ids) == 0 {
		return res, nil
	}

	rows := make([]model.SubmissionModel, 0, len(ids))
	for _, sid := range ids {
		rows = append(rows, model.SubmissionModel{
			SubmissionAssignmentID: assignmentID,
			SubmissionStudentID:    sid,
			SubmissionStatus:       model.SubmissionStatusAssigned,
		})
	}

	ins := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "submission_assignment_id"}, {Name: "submission_student_id"}},
		DoNothing: true,
	}).CreateInBatches(&rows, fanOutBatchSize)
	if ins.Error != nil {
		return res, ins.Error
	}
	res.created = ins.RowsAffected
	return res, nil
}
