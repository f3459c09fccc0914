package models

import (
	"time"
)

type User struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Username  string     `gorm:"uniqueIndex;not null" json:"username" validate:"required"`
	Email     string     `gorm:"uniqueIndex;not null" json:"email" validate:"required"`
	Password  string     `gorm:"not null" json:"-" validate:"required"` // bcrypt hash
	Questions []Question `gorm:"many2many:user_questions;" json:"-"`
	Answers   []Answer   `gorm:"many2many:user_answers;" json:"-"`
	Comments  []Comment  `gorm:"many2many:user_comments;" json:"-"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Profile 用户主页数据，内容已展开为完整记录（而非 id）
type Profile struct {
	ID        uint       `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	CreatedAt time.Time  `json:"created_at"`
	Questions []Question `json:"questions"`
	Answers   []Answer   `json:"answers"`
	Comments  []Comment  `json:"comments"`
}
