// Package db wires the server repositories to a PostgreSQL database and
// applies the embedded schema migrations.
package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/eranshir/scenic/internal/server/migrations"
	"github.com/eranshir/scenic/internal/server/repositories/records"
)

// Manager owns the database handle and the per-table repositories.
type Manager struct {
	db       *sql.DB
	spots    records.Repository
	comments records.Repository
	plans    records.Repository
}

// NewManager opens the database via the pgx stdlib driver, runs migrations
// and builds the repositories.
func NewManager(ctx context.Context, dsn string) (*Manager, error) {
	handle, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	m := &Manager{
		db:       handle,
		spots:    records.NewSpotRepository(handle),
		comments: records.NewCommentRepository(handle),
		plans:    records.NewPlanRepository(handle),
	}
	if err := m.RunMigrations(ctx); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}
	return m, nil
}

// RunMigrations applies the embedded schema migrations.
func (m *Manager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.UpContext(ctx, m.db, ".")
}

// Conn exposes the underlying handle.
func (m *Manager) Conn() *sql.DB { return m.db }

// Spots returns the spot record repository.
func (m *Manager) Spots() records.Repository { return m.spots }

// Comments returns the comment record repository.
func (m *Manager) Comments() records.Repository { return m.comments }

// Plans returns the plan record repository.
func (m *Manager) Plans() records.Repository { return m.plans }

// Close closes the database handle.
func (m *Manager) Close() error { return m.db.Close() }
