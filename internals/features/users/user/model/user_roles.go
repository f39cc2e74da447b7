package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RoleModel struct {
	ID          uuid.UUID `gorm:"column:role_id;type:uuid;primaryKey" json:"role_id"`
	Name        string    `gorm:"column:role_name;size:100;uniqueIndex;not null" json:"role_name"`
	Description *string   `gorm:"column:role_description;size:255" json:"role_description,omitempty"`
}

func (RoleModel) TableName() string { return "roles" }

func (r *RoleModel) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

type UserRoleModel struct {
	ID         uuid.UUID  `gorm:"column:user_role_id;type:uuid;primaryKey" json:"user_role_id"`
	UserID     uuid.UUID  `gorm:"column:user_id;type:uuid;not null;uniqueIndex:uq_user_roles_user_role" json:"user_id"`
	RoleID     uuid.UUID  `gorm:"column:role_id;type:uuid;not null;uniqueIndex:uq_user_roles_user_role" json:"role_id"`
	AssignedAt *time.Time `gorm:"column:assigned_at" json:"assigned_at,omitempty"`
}

func (UserRoleModel) TableName() string { return "user_roles" }

func (ur *UserRoleModel) BeforeCreate(tx *gorm.DB) error {
	if ur.ID == uuid.Nil {
		ur.ID = uuid.New()
	}
	return nil
}
