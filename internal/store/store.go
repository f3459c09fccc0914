// Package store holds one repository per entity. Every repository wraps the
// same *gorm.DB; lookups that find nothing return (nil, nil).
package store

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrDuplicate is returned when a unique index rejects an insert.
	ErrDuplicate = errors.New("duplicate record")
	// ErrPlaintextPassword guards against persisting an unhashed password.
	ErrPlaintextPassword = errors.New("password must be hashed before it is stored")
)

// Store bundles the repositories.
type Store struct {
	db        *gorm.DB
	Tags      *TagStore
	Comments  *CommentStore
	Answers   *AnswerStore
	Questions *QuestionStore
	Users     *UserStore
}

func New(db *gorm.DB) *Store {
	return &Store{
		db:        db,
		Tags:      NewTagStore(db),
		Comments:  NewCommentStore(db),
		Answers:   NewAnswerStore(db),
		Questions: NewQuestionStore(db),
		Users:     NewUserStore(db),
	}
}

// DB exposes the underlying handle (health checks, seeding transactions).
func (s *Store) DB() *gorm.DB {
	return s.db
}

// appendRef 在 many2many 关联表中追加一条引用，重复追加不报错
func appendRef(tx *gorm.DB, table, ownerCol string, ownerID uint, refCol string, refID uint) error {
	return tx.Table(table).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(map[string]interface{}{ownerCol: ownerID, refCol: refID}).
		Error
}

// exists reports whether a row with the given primary key exists.
func exists(tx *gorm.DB, model interface{}, id uint) (bool, error) {
	var count int64
	if err := tx.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
