package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserModel maps the users table. Emails are unique and stored lower-cased.
type UserModel struct {
	ID        uuid.UUID `gorm:"column:user_id;type:uuid;primaryKey" json:"id"`
	UserName  string    `gorm:"column:user_name;size:255;not null" json:"user_name"`
	Email     string    `gorm:"column:user_email;size:255;uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"column:user_password;size:255;not null" json:"-"`
	Phone     *string   `gorm:"column:user_phone;size:20" json:"phone,omitempty"`
	IsActive  bool      `gorm:"column:user_is_active;not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"column:user_created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:user_updated_at;autoUpdateTime" json:"updated_at"`
}

func (UserModel) TableName() string { return "users" }

func (u *UserModel) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
