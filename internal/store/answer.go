package store

import (
	"context"
	"fmt"
	"time"

	"qaboard/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AnswerStore struct {
	db *gorm.DB
}

func NewAnswerStore(db *gorm.DB) *AnswerStore {
	return &AnswerStore{db: db}
}

func byCommentDate(tx *gorm.DB) *gorm.DB {
	return tx.Order("comment_date_time DESC")
}

func byAnswerDate(tx *gorm.DB) *gorm.DB {
	return tx.Order("ans_date_time DESC")
}

// withAnswerRefs preloads the vote rows and comments of an answer query.
func withAnswerRefs(tx *gorm.DB) *gorm.DB {
	return tx.Preload("Votes").Preload("Comments", byCommentDate)
}

// Create validates and inserts an answer. Votes and comments start empty.
func (s *AnswerStore) Create(ctx context.Context, a *models.Answer) error {
	if err := models.Validate(a); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(a).Error; err != nil {
		return fmt.Errorf("create answer: %w", err)
	}
	a.Votes = nil
	a.Comments = nil
	a.TallyVotes()
	return nil
}

func (s *AnswerStore) FindByID(ctx context.Context, id uint) (*models.Answer, error) {
	var answer models.Answer
	err := withAnswerRefs(s.db.WithContext(ctx)).First(&answer, id).Error
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find answer %d: %w", id, err)
	}
	answer.TallyVotes()
	return &answer, nil
}

// GetMostRecent returns the answers among ids, newest first.
func (s *AnswerStore) GetMostRecent(ctx context.Context, ids []uint) ([]models.Answer, error) {
	answers := make([]models.Answer, 0, len(ids))
	if len(ids) == 0 {
		return answers, nil
	}
	err := withAnswerRefs(s.db.WithContext(ctx)).
		Where("id IN ?", ids).
		Order("ans_date_time DESC").
		Find(&answers).Error
	if err != nil {
		return nil, fmt.Errorf("find recent answers: %w", err)
	}
	for i := range answers {
		answers[i].TallyVotes()
	}
	return answers, nil
}

// GetLatestAnswerDate returns the latest AnsDateTime of the given answers;
// ok is false for an empty list.
func GetLatestAnswerDate(answers []models.Answer) (latest time.Time, ok bool) {
	for _, a := range answers {
		if !ok || a.AnsDateTime.After(latest) {
			latest = a.AnsDateTime
			ok = true
		}
	}
	return latest, ok
}

// FindByIDAndAddComment appends commentID to the answer's comments and returns
// the updated answer, or nil if the answer does not exist.
func (s *AnswerStore) FindByIDAndAddComment(ctx context.Context, answerID, commentID uint) (*models.Answer, error) {
	tx := s.db.WithContext(ctx)
	ok, err := exists(tx, &models.Answer{}, answerID)
	if err != nil {
		return nil, fmt.Errorf("find answer %d: %w", answerID, err)
	}
	if !ok {
		return nil, nil
	}
	if err := appendRef(tx, "answer_comments", "answer_id", answerID, "comment_id", commentID); err != nil {
		return nil, fmt.Errorf("add comment to answer %d: %w", answerID, err)
	}
	return s.FindByID(ctx, answerID)
}

// FindByIDAndAddUpvote toggles userID's upvote: an existing upvote is removed,
// otherwise the user becomes an upvoter (leaving the downvoters if present).
func (s *AnswerStore) FindByIDAndAddUpvote(ctx context.Context, answerID, userID uint) (*models.Answer, error) {
	return s.toggleVote(ctx, answerID, userID, models.VoteUp)
}

// FindByIDAndAddDownvote is the mirror of FindByIDAndAddUpvote.
func (s *AnswerStore) FindByIDAndAddDownvote(ctx context.Context, answerID, userID uint) (*models.Answer, error) {
	return s.toggleVote(ctx, answerID, userID, models.VoteDown)
}

// toggleVote 在一个事务中完成：同向票存在则删除（取消投票），
// 否则 upsert 成新方向（覆盖反向票）。不在内存中读改写投票集合
func (s *AnswerStore) toggleVote(ctx context.Context, answerID, userID uint, value int) (*models.Answer, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 锁住回答行，同一回答上的投票串行执行（sqlite 驱动忽略 FOR UPDATE）
		var locked models.Answer
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			First(&locked, answerID).Error; err != nil {
			return err
		}

		// 1. 取消同向票
		res := tx.Where("answer_id = ? AND user_id = ? AND value = ?", answerID, userID, value).
			Delete(&models.AnswerVote{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}

		// 2. 新投票或切换方向
		vote := models.AnswerVote{AnswerID: answerID, UserID: userID, Value: value}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "answer_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(&vote).Error
	})
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("vote on answer %d: %w", answerID, err)
	}
	return s.FindByID(ctx, answerID)
}
