package models

import (
	"time"
)

type UserRole string

const (
	RoleUser    UserRole = "user"
	RoleAdmin   UserRole = "admin"
	RoleProctor UserRole = "proctor"
	RoleStudent UserRole = "student"
)

type User struct {
	ID     uint     `json:"id" gorm:"primaryKey"`
	OpenID string   `json:"open_id" gorm:"uniqueIndex;not null;size:255" validate:"required,max=255"`
	Name   string   `json:"name" gorm:"size:100"`
	Email  *string  `json:"email" gorm:"uniqueIndex;size:255" validate:"omitempty,email"`
	Role   UserRole `json:"role" gorm:"default:user;size:20" validate:"omitempty,oneof=user admin proctor student"`

	// Identity provider info
	LoginMethod *string `json:"login_method" gorm:"size:50"`
	PhotoURL    *string `json:"photo_url" gorm:"size:500"`

	// Institution info
	Department *string `json:"department" gorm:"size:100"`
	StudentID  *string `json:"student_id" gorm:"size:50"`

	LastSignedIn time.Time `json:"last_signed_in"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
