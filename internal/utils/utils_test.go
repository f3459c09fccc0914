package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("password123")
	require.NoError(t, err)

	assert.NotEqual(t, "password123", hash)
	assert.True(t, IsPasswordHash(hash))
	assert.False(t, IsPasswordHash("password123"))
	assert.True(t, CheckPasswordHash("password123", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))

	other, err := HashPassword("password123")
	require.NoError(t, err)
	assert.NotEqual(t, hash, other, "salted")
}

func TestCacheTTL(t *testing.T) {
	c, err := NewCache(4)
	require.NoError(t, err)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Set("k", 42, time.Minute)
	assert.Equal(t, 42, c.Get("k"))

	now = now.Add(time.Minute - time.Second)
	assert.Equal(t, 42, c.Get("k"))

	// 恰好到期即失效
	now = now.Add(time.Second)
	assert.Nil(t, c.Get("k"))

	c.Set("k", 1, time.Minute)
	c.Delete("k")
	assert.Nil(t, c.Get("k"))
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c, err := NewCache(2)
	require.NoError(t, err)

	c.Set("a", 1, time.Hour)
	c.Set("b", 2, time.Hour)
	c.Get("a")
	c.Set("c", 3, time.Hour)

	assert.Equal(t, 1, c.Get("a"))
	assert.Nil(t, c.Get("b"))
	assert.Equal(t, 3, c.Get("c"))
}

func TestRenderMarkdown(t *testing.T) {
	assert.Equal(t, "", string(RenderMarkdown("")))

	html := string(RenderMarkdown("Use **bold** and `code`\n\n```go\nfmt.Println()\n```"))
	assert.Contains(t, html, "<strong>bold</strong>")
	assert.Contains(t, html, "<code>code</code>")
	assert.Contains(t, html, `class="language-go"`)

	unsafe := string(RenderMarkdown("hi <script>alert(1)</script> [x](javascript:alert(1))"))
	assert.False(t, strings.Contains(unsafe, "<script>"))
	assert.False(t, strings.Contains(unsafe, "javascript:"))
}
