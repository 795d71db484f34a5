package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/marvko/vendtrack/internal/models"
)

// SnapshotRepository is the storage contract the check cycle depends on.
type SnapshotRepository interface {
	// GetState returns the last stored state for a location.
	GetState(ctx context.Context, locationID string) (*models.State, error)
	// UpdateState atomically replaces the stored state for the snapshot's location.
	UpdateState(ctx context.Context, state *models.State) error
}

// SubscriptionRepository manages the chats that receive change notifications.
type SubscriptionRepository interface {
	SubscribeChat(ctx context.Context, chatID int64) error
	UnsubscribeChat(ctx context.Context, chatID int64) error
	GetSubscribedChats(ctx context.Context) ([]int64, error)
}

// Repository is the SQLite-backed store for per-location snapshots and
// notification subscriptions.
type Repository struct {
	db  *sql.DB
	log *slog.Logger
}

// NewRepository opens (or creates) the database file and runs the initial
// schema migration.
func NewRepository(ctx context.Context, log *slog.Logger, storagePath string) (*Repository, error) {
	dtb, err := sql.Open("sqlite3", fmt.Sprintf("%s?_pragma=foreign_keys(1)", storagePath))
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err = dtb.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("unable to establish connection to database: %w", err)
	}

	if err = initSchema(ctx, dtb); err != nil {
		return nil, fmt.Errorf("DB schema initialization error: %w", err)
	}

	return &Repository{db: dtb, log: log}, nil
}

// NewForTest wraps an existing database handle, bypassing the schema
// migration. Intended for tests with a mocked connection.
func NewForTest(dtb *sql.DB) *Repository {
	return &Repository{db: dtb, log: slog.Default()}
}

// initSchema creates the necessary tables if they don't already exist.
func initSchema(ctx context.Context, dtb *sql.DB) error {
	const migrationQuery = `
	CREATE TABLE IF NOT EXISTS snapshots (
		location_id TEXT PRIMARY KEY NOT NULL,
		location_name TEXT NOT NULL,
		fetched_at TIMESTAMP NOT NULL,
		page_hash TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS products (
		location_id TEXT NOT NULL,
		product_id TEXT NOT NULL,
		name TEXT NOT NULL,
		name_normalized TEXT NOT NULL,
		category TEXT,
		price TEXT,
		quantity INTEGER,
		info TEXT,
		pic_url TEXT,
		is_vegetarian INTEGER NOT NULL DEFAULT 0,
		is_gluten_free INTEGER NOT NULL DEFAULT 0,
		is_promo INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (location_id, product_id)
	);

	CREATE TABLE IF NOT EXISTS subscriptions (
		chat_id INTEGER PRIMARY KEY
	);
	`
	_, err := dtb.ExecContext(ctx, migrationQuery)
	if err != nil {
		return fmt.Errorf("failed to execute migration query: %w", err)
	}

	return nil
}

// Close closes the connection to the database.
func (r *Repository) Close() error {
	if err := r.db.Close(); err != nil {
		r.log.Error("failed to close the database", "op", "repository.sqlite.Close", "error", err)
		return fmt.Errorf("failed to close the database: %w", err)
	}

	return nil
}

// DB is a getter for database handler.
func (r *Repository) DB() *sql.DB {
	return r.db
}
