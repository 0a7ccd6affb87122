package models

import "time"

// PlacePermission grants a named capability subset on one place to one user,
// resolved from an invited email address. The grant participates in access
// checks only after AcceptedAt is set.
type PlacePermission struct {
	ID         string     `json:"id" gorm:"primaryKey;size:191"`
	PlaceID    string     `json:"place_id" gorm:"not null;size:191;uniqueIndex:idx_place_permissions_user_place"`
	UserID     string     `json:"user_id" gorm:"not null;size:191;uniqueIndex:idx_place_permissions_user_place"`
	CanEdit    bool       `json:"can_edit" gorm:"default:false"`
	CanDelete  bool       `json:"can_delete" gorm:"default:false"`
	InvitedBy  string     `json:"invited_by" gorm:"not null;size:191"`
	InvitedAt  time.Time  `json:"invited_at"`
	AcceptedAt *time.Time `json:"accepted_at"`

	Place   Place `json:"-" gorm:"foreignKey:PlaceID"`
	User    User  `json:"-" gorm:"foreignKey:UserID"`
	Inviter User  `json:"-" gorm:"foreignKey:InvitedBy"`
}

func (PlacePermission) TableName() string {
	return "place_permissions"
}

// Accepted reports whether the grant is usable for access checks.
func (p *PlacePermission) Accepted() bool {
	return p != nil && p.AcceptedAt != nil
}
