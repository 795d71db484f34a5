package checker

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/marvko/vendtrack/internal/diff"
	"github.com/marvko/vendtrack/internal/models"
	"github.com/marvko/vendtrack/internal/repository"
	"github.com/marvko/vendtrack/internal/repository/sqlite"
)

// Fetcher retrieves the raw markup of the watched page.
type Fetcher interface {
	FetchPage(ctx context.Context) ([]byte, error)
}

// PageParser builds a snapshot from the markup of one page.
type PageParser interface {
	ParseSnapshot(
		ctx context.Context,
		page io.Reader,
		locationID, locationName string,
		fetchedAt time.Time,
	) (*models.Snapshot, error)
}

// Location identifies the watched page. It is configured, not scraped.
type Location struct {
	ID   string
	Name string
}

// Checker is an orchestrator that performs a full verification cycle for one
// location.
type Checker struct {
	log      *slog.Logger
	fetcher  Fetcher
	parser   PageParser
	repo     sqlite.SnapshotRepository
	location Location
}

type Interface interface {
	// CheckForUpdates performs the full change checking algorithm.
	CheckForUpdates(ctx context.Context) (*models.Changes, error)
}

// NewChecker creates a new Checker instance.
func NewChecker(
	log *slog.Logger,
	fetcher Fetcher,
	parser PageParser,
	repo sqlite.SnapshotRepository,
	location Location,
) *Checker {
	return &Checker{log: log, fetcher: fetcher, parser: parser, repo: repo, location: location}
}

// CheckForUpdates performs the full change checking algorithm:
// fetch the page, short-circuit on an unchanged page hash, parse a fresh
// snapshot, diff it against the stored one, persist the new state and return
// the changes.
func (c *Checker) CheckForUpdates(ctx context.Context) (*models.Changes, error) {
	const opn = "checker.CheckForUpdates"
	log := c.log.With("op", opn, "location", c.location.ID)

	log.InfoContext(ctx, "Fetching page to check for updates")
	body, err := c.fetcher.FetchPage(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to fetch page: %w", opn, err)
	}

	newPageHash := calculateHash(body)
	log.DebugContext(ctx, "Calculated new page hash", "hash", newPageHash)

	oldState, err := c.repo.GetState(ctx, c.location.ID)
	if err != nil && !errors.Is(err, repository.ErrSnapshotNotFound) {
		return nil, fmt.Errorf("%s: failed to get old state: %w", opn, err)
	}

	if err == nil && oldState.PageHash == newPageHash {
		log.InfoContext(ctx, "Page hash has not changed. No updates.")
		return &models.Changes{}, nil
	}
	log.InfoContext(ctx, "Page hash differs or first run. Starting full analysis...")

	newSnapshot, err := c.parser.ParseSnapshot(
		ctx, bytes.NewReader(body), c.location.ID, c.location.Name, time.Now(),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse snapshot: %w", opn, err)
	}
	log.InfoContext(ctx, "Successfully parsed snapshot", "count", len(newSnapshot.Products))

	oldSnapshot := c.baseline(oldState)
	changes, err := diff.Snapshots(oldSnapshot, newSnapshot)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to diff snapshots: %w", opn, err)
	}
	log.InfoContext(
		ctx,
		"Change detection complete",
		"added",
		len(changes.Added),
		"removed",
		len(changes.Removed),
		"updated",
		len(changes.Updated),
		"unchanged",
		changes.UnchangedCount,
	)

	newState := &models.State{PageHash: newPageHash, Snapshot: newSnapshot}
	if err = c.repo.UpdateState(ctx, newState); err != nil {
		return nil, fmt.Errorf("%s: failed to update state in repository: %w", opn, err)
	}
	log.InfoContext(ctx, "Successfully updated state in repository")

	return changes, nil
}

// baseline returns the stored snapshot, or an empty snapshot of the same
// location on the first run so that every product counts as added.
func (c *Checker) baseline(oldState *models.State) *models.Snapshot {
	if oldState != nil && oldState.Snapshot != nil {
		return oldState.Snapshot
	}
	return &models.Snapshot{
		LocationID:   c.location.ID,
		LocationName: c.location.Name,
		Products:     map[string]models.Product{},
	}
}

// calculateHash calculates the SHA256 hash for a slice of bytes.
func calculateHash(data []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(data))
}
