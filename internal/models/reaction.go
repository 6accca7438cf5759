package models

import "time"

// The closed set of reaction kinds a user can leave on a memorial.
const (
	ReactionKerze  = "kerze"
	ReactionLiebe  = "liebe"
	ReactionBlumen = "blumen"
	ReactionTraene = "traene"
	ReactionTaube  = "taube"
)

// AllReactionKinds lists every valid reaction kind. Count responses carry
// an entry for each of these, zero included.
var AllReactionKinds = []string{
	ReactionKerze,
	ReactionLiebe,
	ReactionBlumen,
	ReactionTraene,
	ReactionTaube,
}

// IsValidReactionKind reports whether kind is one of the five known kinds.
func IsValidReactionKind(kind string) bool {
	for _, k := range AllReactionKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// Toggle outcomes.
const (
	ReactionAdded   = "added"
	ReactionRemoved = "removed"
)

// Reaction represents one user's reaction of one kind on a memorial.
// The row's existence is the "has reacted" state; the composite unique
// index guarantees at most one row per (memorial, user, kind).
type Reaction struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	MemorialID uint      `json:"memorial_id" gorm:"index;uniqueIndex:idx_reactions_memorial_user_kind"`
	UserID     uint      `json:"user_id" gorm:"index;uniqueIndex:idx_reactions_memorial_user_kind"`
	Kind       string    `json:"kind" gorm:"size:20;uniqueIndex:idx_reactions_memorial_user_kind"`
	CreatedAt  time.Time `json:"created_at"`
}

// ToggleReactionRequest defines the request body for toggling a reaction
type ToggleReactionRequest struct {
	Kind string `json:"kind" validate:"required"`
}
