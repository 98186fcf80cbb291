// Package migration applies the embedded SQL migrations with golang-migrate.
package migration

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5" // registers pgx5://
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

var (
	// ErrDSNRequired is returned when the database url is empty.
	ErrDSNRequired = errors.New("migration: database url is required")
	// ErrDirection is returned for anything other than Up or Down.
	ErrDirection = errors.New("migration: direction must be up or down")
)

// Run applies every migration in dir of fsys in the given direction. Being
// already at the target version is not an error.
func Run(dsn string, fsys fs.FS, dir string, direction Direction) error {
	if dsn == "" {
		return ErrDSNRequired
	}
	if direction != Up && direction != Down {
		return fmt.Errorf("%w, got %q", ErrDirection, direction)
	}

	src, err := iofs.New(fsys, dir)
	if err != nil {
		return fmt.Errorf("migration: open source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, driverURL(dsn))
	if err != nil {
		return fmt.Errorf("migration: init: %w", err)
	}
	defer func() { _, _ = m.Close() }() //nolint:errcheck // close errors carry nothing actionable

	if direction == Up {
		err = m.Up()
	} else {
		err = m.Down()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration: %s: %w", direction, err)
	}

	return nil
}

// driverURL rewrites a libpq style url to the pgx/v5 driver scheme.
func driverURL(dsn string) string {
	for _, prefix := range []string{"postgresql://", "postgres://"} {
		if rest, ok := strings.CutPrefix(dsn, prefix); ok {
			return "pgx5://" + rest
		}
	}
	return dsn
}
