package store_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"qaboard/internal/models"
	"qaboard/internal/store"
	"qaboard/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAnswerValidation(t *testing.T) {
	s := testutil.NewStore(t)

	err := s.Answers.Create(context.Background(), &models.Answer{Text: "orphan"})
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	paths := make([]string, 0, len(verr.Errors))
	for _, fe := range verr.Errors {
		paths = append(paths, fe.Path)
	}
	assert.ElementsMatch(t, []string{"question_id", "ans_by", "ans_date_time"}, paths)
}

func TestCreateAnswerStartsEmpty(t *testing.T) {
	s := testutil.NewStore(t)
	q := createQuestion(t, s, "q", base)
	a := createAnswer(t, s, q, base.Add(time.Minute))

	assert.NotZero(t, a.ID)
	assert.Empty(t, a.UpVotes)
	assert.Empty(t, a.DownVotes)
	assert.NotNil(t, a.Comments)
}

func TestUpvoteTwiceRestoresState(t *testing.T) {
	s := testutil.NewStore(t)
	ctx := context.Background()
	q := createQuestion(t, s, "q", base)
	a := createAnswer(t, s, q, base)

	got, err := s.Answers.FindByIDAndAddUpvote(ctx, a.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, []uint{7}, got.UpVotes)
	assert.Empty(t, got.DownVotes)

	got, err = s.Answers.FindByIDAndAddUpvote(ctx, a.ID, 7)
	require.NoError(t, err)
	assert.Empty(t, got.UpVotes)
	assert.Empty(t, got.DownVotes)
}

func TestConcurrentUpvoteTogglesCancelOut(t *testing.T) {
	s := testutil.NewStore(t)
	ctx := context.Background()
	q := createQuestion(t, s, "q", base)
	a := createAnswer(t, s, q, base)

	const n = 10
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Answers.FindByIDAndAddUpvote(ctx, a.ID, 7)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := s.Answers.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, got.UpVotes)
	assert.Empty(t, got.DownVotes)
}

func TestVoteSwitchesSides(t *testing.T) {
	s := testutil.NewStore(t)
	ctx := context.Background()
	q := createQuestion(t, s, "q", base)
	a := createAnswer(t, s, q, base)

	_, err := s.Answers.FindByIDAndAddUpvote(ctx, a.ID, 1)
	require.NoError(t, err)
	_, err = s.Answers.FindByIDAndAddUpvote(ctx, a.ID, 2)
	require.NoError(t, err)

	got, err := s.Answers.FindByIDAndAddDownvote(ctx, a.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint{2}, got.UpVotes)
	assert.Equal(t, []uint{1}, got.DownVotes)
	assert.False(t, got.HasUpvote(1))
	assert.True(t, got.HasDownvote(1))

	got, err = s.Answers.FindByIDAndAddDownvote(ctx, a.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint{2}, got.UpVotes)
	assert.Empty(t, got.DownVotes)
}

func TestVoteOnMissingAnswer(t *testing.T) {
	s := testutil.NewStore(t)
	ctx := context.Background()

	got, err := s.Answers.FindByIDAndAddUpvote(ctx, 404, 1)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = s.Answers.FindByIDAndAddDownvote(ctx, 404, 1)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFindByIDAndAddComment(t *testing.T) {
	s := testutil.NewStore(t)
	ctx := context.Background()
	q := createQuestion(t, s, "q", base)
	a := createAnswer(t, s, q, base)

	c := &models.Comment{Text: "nice", CommentBy: "carol", CommentDateTime: base}
	require.NoError(t, s.Comments.Create(ctx, c))

	got, err := s.Answers.FindByIDAndAddComment(ctx, a.ID, c.ID)
	require.NoError(t, err)
	require.Len(t, got.Comments, 1)
	assert.Equal(t, "nice", got.Comments[0].Text)

	missing, err := s.Answers.FindByIDAndAddComment(ctx, 404, c.ID)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestGetMostRecent(t *testing.T) {
	s := testutil.NewStore(t)
	ctx := context.Background()
	q := createQuestion(t, s, "q", base)
	oldest := createAnswer(t, s, q, base.Add(1*time.Hour))
	newest := createAnswer(t, s, q, base.Add(3*time.Hour))
	middle := createAnswer(t, s, q, base.Add(2*time.Hour))
	createAnswer(t, s, q, base.Add(4*time.Hour))

	got, err := s.Answers.GetMostRecent(ctx, []uint{oldest.ID, middle.ID, newest.ID})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, newest.ID, got[0].ID)
	assert.Equal(t, middle.ID, got[1].ID)
	assert.Equal(t, oldest.ID, got[2].ID)

	empty, err := s.Answers.GetMostRecent(ctx, nil)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestGetLatestAnswerDate(t *testing.T) {
	_, ok := store.GetLatestAnswerDate(nil)
	assert.False(t, ok)

	latest, ok := store.GetLatestAnswerDate([]models.Answer{
		{AnsDateTime: base.Add(time.Hour)},
		{AnsDateTime: base.Add(3 * time.Hour)},
		{AnsDateTime: base},
	})
	assert.True(t, ok)
	assert.True(t, latest.Equal(base.Add(3*time.Hour)))
}
