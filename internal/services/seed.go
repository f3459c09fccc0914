package services

import (
	"context"
	"fmt"
	"time"

	"qaboard/internal/models"
	"qaboard/internal/store"
	"qaboard/internal/utils"

	"github.com/rs/zerolog"
)

type seedUser struct {
	username string
	email    string
	password string
}

type seedQuestion struct {
	title   string
	text    string
	tags    []string
	askedBy string
	age     time.Duration
	answers []seedAnswer
}

type seedAnswer struct {
	text  string
	by    string
	age   time.Duration
	upBy  []string
	notes []string
}

var seedUsers = []seedUser{
	{"alice", "alice@example.com", "password123"},
	{"bob", "bob@example.com", "password123"},
	{"carol", "carol@example.com", "password123"},
}

var seedQuestions = []seedQuestion{
	{
		title:   "How do I update state based on the previous state in React?",
		text:    "Calling `setCount(count + 1)` twice only increments once. What is the right way?",
		tags:    []string{"react", "javascript"},
		askedBy: "alice",
		age:     72 * time.Hour,
		answers: []seedAnswer{
			{
				text:  "Pass an updater function: `setCount(c => c + 1)`.",
				by:    "bob",
				age:   70 * time.Hour,
				upBy:  []string{"alice", "carol"},
				notes: []string{"This also works inside effects."},
			},
		},
	},
	{
		title:   "When should I reach for useReducer instead of useState?",
		text:    "My component has five related pieces of state and the handlers are getting messy.",
		tags:    []string{"react", "hooks"},
		askedBy: "carol",
		age:     48 * time.Hour,
	},
	{
		title:   "Difference between == and === in JavaScript",
		text:    "Is there ever a reason to use `==`?",
		tags:    []string{"javascript"},
		askedBy: "bob",
		age:     24 * time.Hour,
		answers: []seedAnswer{
			{
				text: "`==` coerces types first. `x == null` is the one common idiom.",
				by:   "alice",
				age:  2 * time.Hour,
				upBy: []string{"bob"},
			},
		},
	},
}

// Seeder 写入示例用户、标签、问题、回答与评论
type Seeder struct {
	store *store.Store
	log   zerolog.Logger
	now   func() time.Time
}

func NewSeeder(s *store.Store, log zerolog.Logger) *Seeder {
	return &Seeder{store: s, log: log, now: time.Now}
}

// Seed is idempotent: if the first sample user already exists nothing is
// written. It reports whether data was inserted.
func (s *Seeder) Seed(ctx context.Context) (bool, error) {
	existing, err := s.store.Users.FindByUsername(ctx, seedUsers[0].username)
	if err != nil {
		return false, err
	}
	if existing != nil {
		s.log.Info().Msg("sample data already present, skipping seed")
		return false, nil
	}

	users := make(map[string]*models.User, len(seedUsers))
	for _, su := range seedUsers {
		hash, err := utils.HashPassword(su.password)
		if err != nil {
			return false, fmt.Errorf("hash password: %w", err)
		}
		u := &models.User{Username: su.username, Email: su.email, Password: hash}
		if err := s.store.Users.Create(ctx, u); err != nil {
			return false, fmt.Errorf("seed user %s: %w", su.username, err)
		}
		users[su.username] = u
	}

	now := s.now()
	for _, sq := range seedQuestions {
		if err := s.seedQuestion(ctx, users, sq, now); err != nil {
			return false, err
		}
	}

	s.log.Info().
		Int("users", len(seedUsers)).
		Int("questions", len(seedQuestions)).
		Msg("sample data seeded")
	return true, nil
}

func (s *Seeder) seedQuestion(ctx context.Context, users map[string]*models.User, sq seedQuestion, now time.Time) error {
	tags, err := s.store.Tags.FindOrCreateMany(ctx, sq.tags)
	if err != nil {
		return err
	}
	q := &models.Question{
		Title:       sq.title,
		Text:        sq.text,
		Tags:        tags,
		AskedBy:     sq.askedBy,
		AskDateTime: now.Add(-sq.age),
	}
	if err := s.store.Questions.Create(ctx, q); err != nil {
		return fmt.Errorf("seed question %q: %w", sq.title, err)
	}
	if err := s.store.Users.AddQuestion(ctx, users[sq.askedBy], q.ID); err != nil {
		return err
	}

	for _, sa := range sq.answers {
		a := &models.Answer{
			QuestionID:  q.ID,
			Text:        sa.text,
			AnsBy:       sa.by,
			AnsDateTime: now.Add(-sa.age),
		}
		if err := s.store.Answers.Create(ctx, a); err != nil {
			return fmt.Errorf("seed answer: %w", err)
		}
		if err := s.store.Questions.AddAnswer(ctx, q, a.ID); err != nil {
			return err
		}
		if err := s.store.Users.AddAnswer(ctx, users[sa.by], a.ID); err != nil {
			return err
		}
		for _, name := range sa.upBy {
			if _, err := s.store.Answers.FindByIDAndAddUpvote(ctx, a.ID, users[name].ID); err != nil {
				return err
			}
		}
		for _, note := range sa.notes {
			c := &models.Comment{Text: note, CommentBy: sq.askedBy, CommentDateTime: now.Add(-sa.age + time.Hour)}
			if err := s.store.Comments.Create(ctx, c); err != nil {
				return err
			}
			if _, err := s.store.Answers.FindByIDAndAddComment(ctx, a.ID, c.ID); err != nil {
				return err
			}
			if err := s.store.Users.AddComment(ctx, users[sq.askedBy], c.ID); err != nil {
				return err
			}
		}
	}
	return nil
}
