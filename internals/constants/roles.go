package constants

import "fmt"

// Role names as stored in roles.role_name and carried in the JWT "roles" claim.
const (
	RoleStudent = "Student"
	RoleTeacher = "Teacher"
	RoleAdmin   = "Admin"
)

const (
	ErrOnlyTeachersCanAccess = "only teachers or admins may access %s"
)

func RoleErrorTeacher(feature string) string {
	return fmt.Sprintf(ErrOnlyTeachersCanAccess, feature)
}

var (
	AllRoles = []string{
		RoleStudent,
		RoleTeacher,
		RoleAdmin,
	}

	TeacherAndAbove = []string{
		RoleTeacher,
		RoleAdmin,
	}
)
