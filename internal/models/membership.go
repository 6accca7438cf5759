package models

import "time"

// Membership roles.
const (
	MembershipRoleMember        = "member"
	MembershipRoleAdministrator = "administrator"
)

// Membership relates a user to a memorial with a role. At most one row
// exists per (memorial, user) pair.
type Membership struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	MemorialID uint      `json:"memorial_id" gorm:"index;uniqueIndex:idx_memberships_memorial_user"`
	UserID     uint      `json:"user_id" gorm:"index;uniqueIndex:idx_memberships_memorial_user"`
	Role       string    `json:"role" gorm:"size:20;default:member"`
	CreatedAt  time.Time `json:"created_at"`
}

// JoinMemorialRequest defines the request body for joining via invite link
type JoinMemorialRequest struct {
	InviteToken string `json:"invite_token" validate:"required"`
}

// UpdateMembershipRoleRequest defines the request body for changing a member's role
type UpdateMembershipRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=member administrator"`
}
