package models

import "time"

type UserRole string

const (
	RoleVisitor UserRole = "visitor"
	RoleEditor  UserRole = "editor"
	RoleAdmin   UserRole = "admin"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleVisitor, RoleEditor, RoleAdmin:
		return true
	}
	return false
}

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
	UserStatusDeleted   UserStatus = "deleted"
)

func (s UserStatus) Valid() bool {
	switch s {
	case UserStatusActive, UserStatusSuspended, UserStatusDeleted:
		return true
	}
	return false
}

type User struct {
	ID        string     `json:"id" gorm:"primaryKey;size:191"`
	Name      string     `json:"name" gorm:"not null;size:255"`
	Email     string     `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Password  string     `json:"-" gorm:"not null;size:255"`
	Role      UserRole   `json:"role" gorm:"not null;default:'visitor';size:20"`
	Status    UserStatus `json:"status" gorm:"not null;default:'active';size:20"`
	Avatar    *string    `json:"avatar" gorm:"size:500"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// IsActiveAdmin is the gate used by every moderation operation.
func (u *User) IsActiveAdmin() bool {
	return u != nil && u.Role == RoleAdmin && u.Status == UserStatusActive
}

// Session is a server-side login session backing a JWT bearer token.
type Session struct {
	ID        string    `json:"id" gorm:"primaryKey;size:191"`
	UserID    string    `json:"user_id" gorm:"not null;index;size:191"`
	Token     string    `json:"-" gorm:"uniqueIndex;not null;size:500"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`

	User User `json:"-" gorm:"foreignKey:UserID"`
}
