package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Omarlsant/job-scraper/internal/config"
	"github.com/Omarlsant/job-scraper/internal/models"
)

// Repository appends job listings to one table.
type Repository struct {
	db        *sql.DB
	dialect   dialect
	namespace string
	table     string
}

// ConnectDB opens a single-connection handle and pings the server.
func ConnectDB(ctx context.Context, dbCfg config.Database, st config.Storage) (*Repository, error) {
	d, err := dialectFor(dbCfg.Driver)
	if err != nil {
		return nil, err
	}

	db, err := d.open(dbCfg)
	if err != nil {
		return nil, err
	}
	// one run, one connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	return newRepository(db, d, d.namespace(dbCfg, st), st.Table), nil
}

func newRepository(db *sql.DB, d dialect, namespace, table string) *Repository {
	return &Repository{
		db:        db,
		dialect:   d,
		namespace: namespace,
		table:     table,
	}
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Table returns the qualified table name.
func (r *Repository) Table() string {
	return qualify(r.dialect, r.namespace, r.table)
}

// EnsureSchema creates the target database and table when they are missing.
// It is safe to call on every run.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		for _, stmt := range r.dialect.schemaStatements(r.namespace, r.table) {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("failed to ensure schema: %w", err)
			}
		}
		return nil
	})
}

// InsertListings stores every listing in one transaction. On any error the
// whole batch is rolled back and nothing is stored.
func (r *Repository) InsertListings(ctx context.Context, listings []models.JobListing) (int, error) {
	if len(listings) == 0 {
		return 0, nil
	}

	query := insertStatement(r.dialect, r.Table())
	inserted := 0
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		for i, job := range listings {
			if _, err := tx.ExecContext(ctx, query, job.Values()...); err != nil {
				return fmt.Errorf("failed to insert listing %d (%q): %w", i, job.Title, err)
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

// CountListings returns the number of stored rows.
func (r *Repository) CountListings(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+r.Table()).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count listings: %w", err)
	}
	return n, nil
}

func (r *Repository) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
