package models

import (
	"time"
)

// Comment is immutable once created; questions, answers and users point to it
// through join tables.
type Comment struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Text            string    `gorm:"type:text;not null" json:"text" validate:"required"`
	CommentBy       string    `gorm:"not null;index" json:"comment_by" validate:"required"`
	CommentDateTime time.Time `gorm:"not null;index" json:"comment_date_time" validate:"required"`
}
