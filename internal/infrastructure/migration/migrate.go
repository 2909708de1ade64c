package migration

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	// Blank import required for SQLite driver registration for migrations
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Migrator is the interface onto migrate.Migrate itself.
type Migrator interface {
	Up() error
	Close() (error, error)
}

// MigrationEngine builds a migrator for a database URL, so tests can
// substitute a fake without touching the filesystem or the database.
type MigrationEngine func(databaseURL string) (Migrator, error)

type Migration struct {
	databaseURL string
	engine      MigrationEngine
}

func NewMigration(databaseURL string, engine MigrationEngine) *Migration {
	return &Migration{
		databaseURL: databaseURL,
		engine:      engine,
	}
}

// DefaultEngine is the real implementation backed by the embedded
// migration files.
func DefaultEngine(databaseURL string) (Migrator, error) {
	source, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to open migration source: %w", err)
	}
	return migrate.NewWithSourceInstance("iofs", source, databaseURL)
}

func (mg *Migration) Up() (err error) {
	m, err := mg.engine(mg.databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		serr, dberr := m.Close()
		if serr != nil {
			if err != nil {
				err = fmt.Errorf("%w; migration source error: %v", err, serr)
			} else {
				err = serr
			}
		}
		if dberr != nil {
			if err != nil {
				err = fmt.Errorf("%w; migration database error: %v", err, dberr)
			} else {
				err = dberr
			}
		}
	}()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("%w; migration up error", err)
	}
	return nil
}
