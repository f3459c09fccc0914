package models

import (
	"html/template"
	"strings"
	"time"
)

type Question struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"not null" json:"title" validate:"required"`
	Text        string    `gorm:"type:text;not null" json:"text" validate:"required"`
	Tags        []Tag     `gorm:"many2many:question_tags;" json:"tags"`
	AskedBy     string    `gorm:"not null;index" json:"asked_by" validate:"required"`
	AskDateTime time.Time `gorm:"not null;index" json:"ask_date_time" validate:"required"`
	Views       int       `gorm:"not null;default:0" json:"views"` // 浏览量，只增不减
	Answers     []Answer  `gorm:"many2many:question_answers;" json:"answers"`
	Comments    []Comment `gorm:"many2many:question_comments;" json:"comments"`

	// 非数据库字段，详情页渲染用
	TextHTML template.HTML `gorm:"-" json:"text_html,omitempty"`
}

// Normalize replaces nil collections with empty ones and tallies answer votes
// so responses always carry arrays.
func (q *Question) Normalize() {
	if q.Tags == nil {
		q.Tags = make([]Tag, 0)
	}
	if q.Answers == nil {
		q.Answers = make([]Answer, 0)
	}
	if q.Comments == nil {
		q.Comments = make([]Comment, 0)
	}
	for i := range q.Answers {
		q.Answers[i].TallyVotes()
	}
}

// HasTag reports whether the question carries a tag with the given name.
// Names are compared case-insensitively.
func (q *Question) HasTag(name string) bool {
	for _, t := range q.Tags {
		if strings.EqualFold(t.Name, name) {
			return true
		}
	}
	return false
}
