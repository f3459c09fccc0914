package store_test

import (
	"context"
	"testing"
	"time"

	"qaboard/internal/models"
	"qaboard/internal/store"
	"qaboard/internal/testutil"
	"qaboard/internal/utils"

	"github.com/stretchr/testify/require"
)

func createQuestion(t *testing.T, s *store.Store, title string, askedAt time.Time, tags ...string) *models.Question {
	t.Helper()
	ctx := context.Background()
	tagRecs, err := s.Tags.FindOrCreateMany(ctx, tags)
	require.NoError(t, err)
	q := &models.Question{
		Title:       title,
		Text:        "body of " + title,
		Tags:        tagRecs,
		AskedBy:     "alice",
		AskDateTime: askedAt,
	}
	require.NoError(t, s.Questions.Create(ctx, q))
	return q
}

func createAnswer(t *testing.T, s *store.Store, q *models.Question, answeredAt time.Time) *models.Answer {
	t.Helper()
	ctx := context.Background()
	a := &models.Answer{
		QuestionID:  q.ID,
		Text:        "an answer",
		AnsBy:       "bob",
		AnsDateTime: answeredAt,
	}
	require.NoError(t, s.Answers.Create(ctx, a))
	require.NoError(t, s.Questions.AddAnswer(ctx, q, a.ID))
	return a
}

func createUser(t *testing.T, s *store.Store, username string) *models.User {
	t.Helper()
	hash, err := utils.HashPassword("password123")
	require.NoError(t, err)
	u := &models.User{Username: username, Email: username + "@example.com", Password: hash}
	require.NoError(t, s.Users.Create(context.Background(), u))
	return u
}

func titles(questions []models.Question) []string {
	out := make([]string, len(questions))
	for i, q := range questions {
		out[i] = q.Title
	}
	return out
}

var base = testutil.Base
