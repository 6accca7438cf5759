package models

import "time"

// SavedMemorial represents a memorial a user bookmarked for quick access
type SavedMemorial struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UserID     uint      `json:"user_id" gorm:"index;uniqueIndex:idx_user_memorial_save"`
	MemorialID uint      `json:"memorial_id" gorm:"index;uniqueIndex:idx_user_memorial_save"`
	CreatedAt  time.Time `json:"created_at"`
}
