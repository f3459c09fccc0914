package store

import (
	"context"
	"errors"
	"fmt"

	"qaboard/internal/models"
	"qaboard/internal/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// Create inserts a user whose Password is already a bcrypt hash.
func (s *UserStore) Create(ctx context.Context, u *models.User) error {
	if err := models.Validate(u); err != nil {
		return err
	}
	if !utils.IsPasswordHash(u.Password) {
		return ErrPlaintextPassword
	}
	err := s.db.WithContext(ctx).Omit(clause.Associations).Create(u).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *UserStore) findOne(ctx context.Context, query interface{}, args ...interface{}) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where(query, args...).First(&user).Error
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

func (s *UserStore) FindByID(ctx context.Context, id uint) (*models.User, error) {
	return s.findOne(ctx, "id = ?", id)
}

func (s *UserStore) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.findOne(ctx, "username = ?", username)
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, "email = ?", email)
}

// FindByUsernameOrEmail is the single uniqueness lookup used at signup.
func (s *UserStore) FindByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error) {
	return s.findOne(ctx, "username = ? OR email = ?", username, email)
}

func (s *UserStore) appendTo(ctx context.Context, table, refCol string, userID, refID uint) error {
	if err := appendRef(s.db.WithContext(ctx), table, "user_id", userID, refCol, refID); err != nil {
		return fmt.Errorf("append %s to user %d: %w", refCol, userID, err)
	}
	return nil
}

func (s *UserStore) AddQuestion(ctx context.Context, u *models.User, questionID uint) error {
	return s.appendTo(ctx, "user_questions", "question_id", u.ID, questionID)
}

func (s *UserStore) AddAnswer(ctx context.Context, u *models.User, answerID uint) error {
	return s.appendTo(ctx, "user_answers", "answer_id", u.ID, answerID)
}

func (s *UserStore) AddComment(ctx context.Context, u *models.User, commentID uint) error {
	return s.appendTo(ctx, "user_comments", "comment_id", u.ID, commentID)
}

// findAndAppend appends a reference and returns the user, nil if the user
// does not exist.
func (s *UserStore) findAndAppend(ctx context.Context, table, refCol string, userID, refID uint) (*models.User, error) {
	user, err := s.FindByID(ctx, userID)
	if err != nil || user == nil {
		return nil, err
	}
	if err := s.appendTo(ctx, table, refCol, userID, refID); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserStore) FindByIDAndAddQuestion(ctx context.Context, userID, questionID uint) (*models.User, error) {
	return s.findAndAppend(ctx, "user_questions", "question_id", userID, questionID)
}

func (s *UserStore) FindByIDAndAddAnswer(ctx context.Context, userID, answerID uint) (*models.User, error) {
	return s.findAndAppend(ctx, "user_answers", "answer_id", userID, answerID)
}

func (s *UserStore) FindByIDAndAddComment(ctx context.Context, userID, commentID uint) (*models.User, error) {
	return s.findAndAppend(ctx, "user_comments", "comment_id", userID, commentID)
}

// GetProfileByID returns the user with owned questions, answers and comments
// resolved to records, newest first. nil when the user does not exist.
func (s *UserStore) GetProfileByID(ctx context.Context, userID uint) (*models.Profile, error) {
	var user models.User
	err := s.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("ask_date_time DESC")
		}).
		Preload("Questions.Tags").
		Preload("Questions.Answers", byAnswerDate).
		Preload("Questions.Answers.Votes").
		Preload("Questions.Answers.Comments", byCommentDate).
		Preload("Questions.Comments", byCommentDate).
		Preload("Answers", byAnswerDate).
		Preload("Answers.Votes").
		Preload("Answers.Comments", byCommentDate).
		Preload("Comments", byCommentDate).
		First(&user, userID).Error
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load profile of user %d: %w", userID, err)
	}

	profile := &models.Profile{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
		Questions: user.Questions,
		Answers:   user.Answers,
		Comments:  user.Comments,
	}
	if profile.Questions == nil {
		profile.Questions = make([]models.Question, 0)
	}
	if profile.Answers == nil {
		profile.Answers = make([]models.Answer, 0)
	}
	if profile.Comments == nil {
		profile.Comments = make([]models.Comment, 0)
	}
	normalizeAll(profile.Questions)
	for i := range profile.Answers {
		profile.Answers[i].TallyVotes()
	}
	return profile, nil
}
