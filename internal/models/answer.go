package models

import (
	"html/template"
	"sort"
	"time"
)

const (
	VoteUp   = 1
	VoteDown = -1
)

type Answer struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	QuestionID  uint         `gorm:"not null;index" json:"question_id" validate:"required"`
	Text        string       `gorm:"type:text;not null" json:"text" validate:"required"`
	AnsBy       string       `gorm:"not null;index" json:"ans_by" validate:"required"`
	AnsDateTime time.Time    `gorm:"not null;index" json:"ans_date_time" validate:"required"`
	Votes       []AnswerVote `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Comments    []Comment    `gorm:"many2many:answer_comments;" json:"comments"`

	// 非数据库字段，由 Votes 计算或渲染时填充
	UpVotes   []uint        `gorm:"-" json:"up_votes"`
	DownVotes []uint        `gorm:"-" json:"down_votes"`
	TextHTML  template.HTML `gorm:"-" json:"text_html,omitempty"`
}

// AnswerVote is one user's vote on one answer. The composite primary key keeps
// a user out of both vote sets at once.
type AnswerVote struct {
	AnswerID  uint      `gorm:"primaryKey;autoIncrement:false" json:"answer_id"`
	UserID    uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	Value     int       `gorm:"not null" json:"value"` // 1 or -1
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TallyVotes splits the loaded vote rows into the up/down voter id sets.
func (a *Answer) TallyVotes() {
	a.UpVotes = make([]uint, 0)
	a.DownVotes = make([]uint, 0)
	for _, v := range a.Votes {
		switch v.Value {
		case VoteUp:
			a.UpVotes = append(a.UpVotes, v.UserID)
		case VoteDown:
			a.DownVotes = append(a.DownVotes, v.UserID)
		}
	}
	sort.Slice(a.UpVotes, func(i, j int) bool { return a.UpVotes[i] < a.UpVotes[j] })
	sort.Slice(a.DownVotes, func(i, j int) bool { return a.DownVotes[i] < a.DownVotes[j] })
	if a.Comments == nil {
		a.Comments = make([]Comment, 0)
	}
}

// HasUpvote reports whether userID is in the upvoter set.
func (a *Answer) HasUpvote(userID uint) bool {
	return containsID(a.UpVotes, userID)
}

func (a *Answer) HasDownvote(userID uint) bool {
	return containsID(a.DownVotes, userID)
}

func containsID(ids []uint, id uint) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
