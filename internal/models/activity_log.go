package models

import "time"

// ActivityLog stores one activity document as written, legacy or current.
// Documents are never rewritten; UserID is lifted out of the document so
// the per-user filter can run in SQL.
type ActivityLog struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	UserID   string `gorm:"size:128;index" json:"user_id"`
	Document string `gorm:"type:text;not null" json:"document"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
