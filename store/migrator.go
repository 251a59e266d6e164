package store

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/Mishleyn/T-Prep/internal/version"
)

// Migrate brings the backing schema up to date and stamps the schema version.
// The schema statements are idempotent; the stamp gates downgrades: a database
// written by a newer release refuses to start under an older binary.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.driver.Migrate(ctx); err != nil {
		return errors.Wrap(err, "failed to apply schema")
	}

	currentSchemaVersion := version.GetSchemaVersion(s.profile.Mode)
	storedSchemaVersion, err := s.driver.GetSchemaVersion(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get stored schema version")
	}

	if storedSchemaVersion != "" && !version.IsVersionGreaterOrEqualThan(currentSchemaVersion, storedSchemaVersion) {
		return errors.Errorf("cannot downgrade schema version from %s to %s", storedSchemaVersion, currentSchemaVersion)
	}
	if storedSchemaVersion == currentSchemaVersion {
		return nil
	}

	if err := s.driver.UpsertSchemaVersion(ctx, currentSchemaVersion); err != nil {
		return errors.Wrap(err, "failed to stamp schema version")
	}
	slog.Info("stamped schema version", "from", storedSchemaVersion, "to", currentSchemaVersion)
	return nil
}
