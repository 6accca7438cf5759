package models

import "time"

// Privacy levels for a memorial page.
const (
	PrivacyPublic  = "public"
	PrivacyPrivate = "private"
)

// Memorial represents a memorial page for a deceased person or pet.
// OwnerID and Privacy are the inputs to every access decision.
type Memorial struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	OwnerID     uint      `json:"owner_id" gorm:"index"`
	Name        string    `json:"name"`
	Kind        string    `json:"kind" gorm:"size:10"` // person or pet
	Privacy     string    `json:"privacy" gorm:"size:10;default:public"`
	InviteToken string    `json:"-" gorm:"size:64;uniqueIndex"` // token for the private invite link
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateMemorialRequest defines the request body for creating a memorial
type CreateMemorialRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=120"`
	Kind    string `json:"kind" validate:"required,oneof=person pet"`
	Privacy string `json:"privacy" validate:"omitempty,oneof=public private"`
}

// UpdateMemorialRequest defines the request body for updating a memorial
type UpdateMemorialRequest struct {
	Name    string `json:"name,omitempty" validate:"omitempty,min=1,max=120"`
	Privacy string `json:"privacy,omitempty" validate:"omitempty,oneof=public private"`
}
