package services

import (
	"context"
	"testing"
	"time"

	"qaboard/internal/models"
	"qaboard/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSearch(t *testing.T) {
	q := ParseSearch("  [React] Hooks [ go ]  state ")
	assert.Equal(t, []string{"react", "go"}, q.Tags)
	assert.Equal(t, []string{"hooks", "state"}, q.Words)
	assert.False(t, q.Empty())

	assert.True(t, ParseSearch("   ").Empty())
}

func TestFilterQuestions(t *testing.T) {
	questions := []models.Question{
		{ID: 1, Title: "Understanding useEffect", Tags: []models.Tag{{Name: "react"}}},
		{ID: 2, Title: "Custom hooks in practice", Tags: []models.Tag{{Name: "javascript"}}},
		{ID: 3, Title: "Goroutine leaks", Tags: []models.Tag{{Name: "go"}}},
	}

	ids := func(qs []models.Question) []uint {
		out := make([]uint, len(qs))
		for i, q := range qs {
			out[i] = q.ID
		}
		return out
	}

	assert.Equal(t, []uint{1, 2, 3}, ids(FilterQuestions(questions, "")))
	assert.Equal(t, []uint{1, 2}, ids(FilterQuestions(questions, "[react] hooks")))
	assert.Equal(t, []uint{3}, ids(FilterQuestions(questions, "[GO]")))
	assert.Equal(t, []uint{3}, ids(FilterQuestions(questions, "LEAKS")))
	assert.Empty(t, FilterQuestions(questions, "[rust] borrow"))
}

func TestListQuestionsOrders(t *testing.T) {
	s := testutil.NewStore(t)
	ctx := context.Background()

	add := func(title string, at time.Time, tags ...string) *models.Question {
		tagRecs, err := s.Tags.FindOrCreateMany(ctx, tags)
		require.NoError(t, err)
		q := &models.Question{Title: title, Text: "x", Tags: tagRecs, AskedBy: "alice", AskDateTime: at}
		require.NoError(t, s.Questions.Create(ctx, q))
		return q
	}
	old := add("react state", testutil.Base, "react")
	add("go channels", testutil.Base.Add(time.Hour), "go")

	a := &models.Answer{QuestionID: old.ID, Text: "y", AnsBy: "bob", AnsDateTime: testutil.Base.Add(2 * time.Hour)}
	require.NoError(t, s.Answers.Create(ctx, a))
	require.NoError(t, s.Questions.AddAnswer(ctx, old, a.ID))

	list := func(order, search string) []string {
		qs, err := ListQuestions(ctx, s.Questions, order, search)
		require.NoError(t, err)
		out := make([]string, len(qs))
		for i, q := range qs {
			out[i] = q.Title
		}
		return out
	}

	assert.Equal(t, []string{"go channels", "react state"}, list(OrderNewest, ""))
	assert.Equal(t, []string{"go channels", "react state"}, list("bogus", ""))
	assert.Equal(t, []string{"react state", "go channels"}, list(OrderActive, ""))
	assert.Equal(t, []string{"go channels"}, list(OrderUnanswered, ""))
	assert.Equal(t, []string{"react state"}, list(OrderActive, "[react]"))
	assert.Empty(t, list(OrderUnanswered, "[react]"))
}
