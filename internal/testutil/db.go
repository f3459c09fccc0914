// Package testutil provides per-test databases backed by in-memory sqlite.
package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"qaboard/internal/config"
	"qaboard/internal/db"
	"qaboard/internal/store"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var dbSeq atomic.Int64

// NewDB opens a fresh, migrated in-memory database private to t.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, dbSeq.Add(1))
	gdb, err := db.Open(config.DatabaseConfig{Driver: "sqlite", DSN: dsn}, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb, zerolog.Nop()))

	t.Cleanup(func() {
		_ = db.Close(gdb)
	})
	return gdb
}

// NewStore wraps NewDB in a store.
func NewStore(t testing.TB) *store.Store {
	t.Helper()
	return store.New(NewDB(t))
}

// AuthConfig is a fixed auth configuration for tests.
func AuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret: "test-secret",
		TokenTTL:  "1h",
		Issuer:    "qaboard-test",
	}
}

// Base is a fixed reference time; tests offset from it to get a deterministic
// order.
var Base = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
