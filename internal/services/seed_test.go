package services

import (
	"context"
	"testing"

	"qaboard/internal/testutil"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedIsIdempotent(t *testing.T) {
	s := testutil.NewStore(t)
	ctx := context.Background()
	seeder := NewSeeder(s, zerolog.Nop())

	inserted, err := seeder.Seed(ctx)
	require.NoError(t, err)
	assert.True(t, inserted)

	tags, err := s.Tags.List(ctx)
	require.NoError(t, err)
	questions, err := s.Questions.GetNewestQuestions(ctx)
	require.NoError(t, err)
	assert.Len(t, questions, len(seedQuestions))

	inserted, err = seeder.Seed(ctx)
	require.NoError(t, err)
	assert.False(t, inserted)

	tagsAgain, err := s.Tags.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(tags), len(tagsAgain))
	questionsAgain, err := s.Questions.GetNewestQuestions(ctx)
	require.NoError(t, err)
	assert.Len(t, questionsAgain, len(seedQuestions))

	alice, err := s.Users.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	profile, err := s.Users.GetProfileByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, profile.Questions, 1)
	assert.Len(t, profile.Answers, 1)
}
