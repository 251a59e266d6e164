// Package teststore provides a sqlite-backed store for driver tests.
package teststore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Mishleyn/T-Prep/internal/profile"
	"github.com/Mishleyn/T-Prep/store"
	"github.com/Mishleyn/T-Prep/store/db/sqlite"
)

// NewTestingStore opens a fresh sqlite store in the test's temp dir.
func NewTestingStore(ctx context.Context, t *testing.T) *store.Store {
	dir := t.TempDir()
	p := &profile.Profile{
		Mode:   "dev",
		Data:   dir,
		DSN:    filepath.Join(dir, "tprep_test.db"),
		Driver: "sqlite",
	}

	driver, err := sqlite.NewDB(p)
	require.NoError(t, err)

	st := store.New(driver, p)
	require.NoError(t, st.Migrate(ctx))
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}
