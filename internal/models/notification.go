package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Notification activity types.
const (
	NotificationTypeReaction   = "reaction"
	NotificationTypeCondolence = "condolence-entry"
)

// KindSet is the set of reaction kinds accumulated on a merged
// notification, stored as a JSON array in a text column.
type KindSet []string

// Contains reports whether the set already holds kind.
func (s KindSet) Contains(kind string) bool {
	for _, k := range s {
		if k == kind {
			return true
		}
	}
	return false
}

// Union returns the set with kind added; adding a kind that is already
// present returns the set unchanged, so repeated activity of the same
// kind never inflates the count.
func (s KindSet) Union(kind string) KindSet {
	if s.Contains(kind) {
		return s
	}
	return append(s, kind)
}

// Value implements driver.Valuer.
func (s KindSet) Value() (driver.Value, error) {
	if s == nil {
		s = KindSet{}
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (s *KindSet) Scan(value interface{}) error {
	if value == nil {
		*s = KindSet{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("unsupported kind set column type %T", value)
	}
}

// Notification represents an aggregated activity notification for a
// memorial's owner. One row per (recipient, memorial, actor, type) key is
// open for merging within the aggregation window; older rows are history.
type Notification struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Type        string    `json:"type" gorm:"size:30;index:idx_notifications_merge_key"`
	RecipientID uint      `json:"recipient_id" gorm:"index;index:idx_notifications_merge_key"`
	MemorialID  uint      `json:"memorial_id" gorm:"index:idx_notifications_merge_key"`
	ActorID     uint      `json:"actor_id" gorm:"index:idx_notifications_merge_key"`
	ActorName   string    `json:"actor_name"`
	Kinds       KindSet   `json:"kinds" gorm:"type:text"`
	Count       int       `json:"count"`
	IsRead      bool      `json:"is_read" gorm:"default:false;index"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
	UpdatedAt   time.Time `json:"updated_at"`
}
