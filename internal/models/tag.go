package models

import (
	"time"
)

type Tag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name" validate:"required"`
	CreatedAt time.Time `json:"created_at"`
}

// TagCount 标签及引用它的问题数量
type TagCount struct {
	Name string `json:"name"`
	Qcnt int64  `json:"qcnt"`
}
