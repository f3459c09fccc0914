package store

import (
	"context"
	"fmt"
	"sort"
	"time"

	"qaboard/internal/models"

	"gorm.io/gorm"
)

type QuestionStore struct {
	db *gorm.DB
}

func NewQuestionStore(db *gorm.DB) *QuestionStore {
	return &QuestionStore{db: db}
}

// withQuestionRefs preloads tags, answers (newest first, with votes and
// comments) and the question's own comments.
func withQuestionRefs(tx *gorm.DB) *gorm.DB {
	return tx.
		Preload("Tags").
		Preload("Answers", byAnswerDate).
		Preload("Answers.Votes").
		Preload("Answers.Comments", byCommentDate).
		Preload("Comments", byCommentDate)
}

func normalizeAll(questions []models.Question) {
	for i := range questions {
		questions[i].Normalize()
	}
}

// Create validates every required field (all failures are reported together)
// and inserts the question with references to its already stored tags.
func (s *QuestionStore) Create(ctx context.Context, q *models.Question) error {
	if err := models.Validate(q); err != nil {
		return err
	}
	err := s.db.WithContext(ctx).
		Omit("Tags.*", "Answers", "Comments").
		Create(q).Error
	if err != nil {
		return fmt.Errorf("create question: %w", err)
	}
	q.Normalize()
	return nil
}

func (s *QuestionStore) FindByID(ctx context.Context, id uint) (*models.Question, error) {
	var q models.Question
	err := withQuestionRefs(s.db.WithContext(ctx)).First(&q, id).Error
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find question %d: %w", id, err)
	}
	q.Normalize()
	return &q, nil
}

func (s *QuestionStore) incrementViews(ctx context.Context, id uint) (bool, error) {
	res := s.db.WithContext(ctx).
		Model(&models.Question{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1))
	if res.Error != nil {
		return false, fmt.Errorf("increment views of question %d: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// IncrementViews adds exactly one view in a single UPDATE and refreshes
// q.Views from the database.
func (s *QuestionStore) IncrementViews(ctx context.Context, q *models.Question) error {
	ok, err := s.incrementViews(ctx, q.ID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("increment views of question %d: %w", q.ID, gorm.ErrRecordNotFound)
	}
	row := s.db.WithContext(ctx).Model(&models.Question{}).Select("views").Where("id = ?", q.ID).Row()
	if err := row.Scan(&q.Views); err != nil {
		return fmt.Errorf("reload views of question %d: %w", q.ID, err)
	}
	return nil
}

// FindByIDAndIncrementViews increments atomically, then fetches. nil when the
// question does not exist.
func (s *QuestionStore) FindByIDAndIncrementViews(ctx context.Context, id uint) (*models.Question, error) {
	ok, err := s.incrementViews(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return s.FindByID(ctx, id)
}

// AddAnswer appends answerID to the question's answers and reloads them.
func (s *QuestionStore) AddAnswer(ctx context.Context, q *models.Question, answerID uint) error {
	tx := s.db.WithContext(ctx)
	if err := appendRef(tx, "question_answers", "question_id", q.ID, "answer_id", answerID); err != nil {
		return fmt.Errorf("add answer to question %d: %w", q.ID, err)
	}
	var answers []models.Answer
	err := withAnswerRefs(tx).
		Order("ans_date_time DESC").
		Where("id IN (?)", tx.Table("question_answers").Select("answer_id").Where("question_id = ?", q.ID)).
		Find(&answers).Error
	if err != nil {
		return fmt.Errorf("reload answers of question %d: %w", q.ID, err)
	}
	q.Answers = answers
	q.Normalize()
	return nil
}

// AddComment attaches a comment to a question; nil when it does not exist.
func (s *QuestionStore) AddComment(ctx context.Context, questionID, commentID uint) (*models.Question, error) {
	tx := s.db.WithContext(ctx)
	ok, err := exists(tx, &models.Question{}, questionID)
	if err != nil {
		return nil, fmt.Errorf("find question %d: %w", questionID, err)
	}
	if !ok {
		return nil, nil
	}
	if err := appendRef(tx, "question_comments", "question_id", questionID, "comment_id", commentID); err != nil {
		return nil, fmt.Errorf("add comment to question %d: %w", questionID, err)
	}
	return s.FindByID(ctx, questionID)
}

// GetNewestQuestions returns every question, most recently asked first.
func (s *QuestionStore) GetNewestQuestions(ctx context.Context) ([]models.Question, error) {
	questions := make([]models.Question, 0)
	err := withQuestionRefs(s.db.WithContext(ctx)).
		Order("ask_date_time DESC, id DESC").
		Find(&questions).Error
	if err != nil {
		return nil, fmt.Errorf("list newest questions: %w", err)
	}
	normalizeAll(questions)
	return questions, nil
}

// GetUnansweredQuestions returns questions with no answers, newest first.
func (s *QuestionStore) GetUnansweredQuestions(ctx context.Context) ([]models.Question, error) {
	questions := make([]models.Question, 0)
	err := withQuestionRefs(s.db.WithContext(ctx)).
		Where("NOT EXISTS (SELECT 1 FROM question_answers WHERE question_answers.question_id = questions.id)").
		Order("ask_date_time DESC, id DESC").
		Find(&questions).Error
	if err != nil {
		return nil, fmt.Errorf("list unanswered questions: %w", err)
	}
	normalizeAll(questions)
	return questions, nil
}

// LastActivity is the later of the ask time and the latest answer time.
func LastActivity(q *models.Question) time.Time {
	if latest, ok := GetLatestAnswerDate(q.Answers); ok && latest.After(q.AskDateTime) {
		return latest
	}
	return q.AskDateTime
}

// GetActiveQuestions orders every question by its last activity, most recent
// first. Ties fall back to ask time, then id, both descending.
func (s *QuestionStore) GetActiveQuestions(ctx context.Context) ([]models.Question, error) {
	questions, err := s.GetNewestQuestions(ctx)
	if err != nil {
		return nil, err
	}

	activity := make(map[uint]time.Time, len(questions))
	for i := range questions {
		activity[questions[i].ID] = LastActivity(&questions[i])
	}
	sort.SliceStable(questions, func(i, j int) bool {
		ai, aj := activity[questions[i].ID], activity[questions[j].ID]
		if !ai.Equal(aj) {
			return ai.After(aj)
		}
		if !questions[i].AskDateTime.Equal(questions[j].AskDateTime) {
			return questions[i].AskDateTime.After(questions[j].AskDateTime)
		}
		return questions[i].ID > questions[j].ID
	})
	return questions, nil
}

// GetQuestionCountByTag counts questions per tag. Only tags referenced by at
// least one question appear.
func (s *QuestionStore) GetQuestionCountByTag(ctx context.Context) ([]models.TagCount, error) {
	counts := make([]models.TagCount, 0)
	err := s.db.WithContext(ctx).
		Table("tags").
		Select("tags.name AS name, COUNT(question_tags.question_id) AS qcnt").
		Joins("JOIN question_tags ON question_tags.tag_id = tags.id").
		Group("tags.id, tags.name").
		Order("tags.name ASC").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("count questions by tag: %w", err)
	}
	return counts, nil
}
