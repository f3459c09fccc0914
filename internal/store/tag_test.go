package store_test

import (
	"context"
	"testing"

	"qaboard/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindOrCreateManyKeepsInputOrder(t *testing.T) {
	s := testutil.NewStore(t)
	ctx := context.Background()

	first, err := s.Tags.FindOrCreateMany(ctx, []string{"react", "", "  go ", "react"})
	require.NoError(t, err)
	require.Len(t, first, 3)
	assert.Equal(t, "react", first[0].Name)
	assert.Equal(t, "go", first[1].Name)
	assert.Equal(t, first[0].ID, first[2].ID)

	again, err := s.Tags.FindOrCreateMany(ctx, []string{"go", "javascript"})
	require.NoError(t, err)
	require.Len(t, again, 2)
	assert.Equal(t, first[1].ID, again[0].ID, "existing tag is reused")

	all, err := s.Tags.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "go", all[0].Name)
	assert.Equal(t, "javascript", all[1].Name)
	assert.Equal(t, "react", all[2].Name)
}

func TestFindOrCreateManyEmpty(t *testing.T) {
	s := testutil.NewStore(t)

	tags, err := s.Tags.FindOrCreateMany(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, tags)
}

func TestValidateTagsComparesCounts(t *testing.T) {
	s := testutil.NewStore(t)
	ctx := context.Background()

	tags, err := s.Tags.FindOrCreateMany(ctx, []string{"a", "b"})
	require.NoError(t, err)

	ok, err := s.Tags.ValidateTags(ctx, []uint{tags[0].ID, tags[1].ID})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Tags.ValidateTags(ctx, []uint{tags[0].ID})
	require.NoError(t, err)
	assert.False(t, ok)

	// 只比较数量，不校验 id 是否存在
	ok, err = s.Tags.ValidateTags(ctx, []uint{998, 999})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFindByName(t *testing.T) {
	s := testutil.NewStore(t)
	ctx := context.Background()

	missing, err := s.Tags.FindByName(ctx, "rust")
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = s.Tags.FindOrCreateMany(ctx, []string{"rust"})
	require.NoError(t, err)
	found, err := s.Tags.FindByName(ctx, "rust")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "rust", found.Name)
}
