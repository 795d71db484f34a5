package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/marvko/vendtrack/internal/models"
	"github.com/marvko/vendtrack/internal/repository"
)

// GetState loads the last stored page hash and snapshot for a location.
func (r *Repository) GetState(ctx context.Context, locationID string) (*models.State, error) {
	const opn = "repository.sqlite.GetState"

	var (
		locationName string
		fetchedAt    time.Time
		pageHash     string
	)
	err := r.db.QueryRowContext(
		ctx,
		"SELECT location_name, fetched_at, page_hash FROM snapshots WHERE location_id = ?",
		locationID,
	).Scan(&locationName, &fetchedAt, &pageHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("%s: failed to get snapshot metadata: %w", opn, err)
	}

	rows, err := r.db.QueryContext(
		ctx,
		`SELECT product_id, name, name_normalized, category, price, quantity, info, pic_url,
			is_vegetarian, is_gluten_free, is_promo
		FROM products WHERE location_id = ?`,
		locationID,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get products: %w", opn, err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var (
			product  models.Product
			category sql.NullString
			price    sql.NullString
			quantity sql.NullInt64
			info     sql.NullString
			picURL   sql.NullString
		)
		err = rows.Scan(
			&product.ID, &product.Name, &product.NameNormalized, &category, &price, &quantity,
			&info, &picURL, &product.IsVegetarian, &product.IsGlutenFree, &product.IsPromo,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to scan product: %w", opn, err)
		}

		product.Category = category.String
		product.Info = info.String
		product.PicURL = picURL.String
		if quantity.Valid {
			product.Quantity = models.SomeInt(quantity.Int64)
		}
		if price.Valid {
			amount, decErr := decimal.NewFromString(price.String)
			if decErr != nil {
				return nil, fmt.Errorf("%s: failed to parse stored price %q: %w", opn, price.String, decErr)
			}
			product.Price = decimal.NullDecimal{Decimal: amount, Valid: true}
		}

		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iteration error: %w", opn, err)
	}

	snapshot, err := models.NewSnapshot(locationID, locationName, fetchedAt, products)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to rebuild snapshot: %w", opn, err)
	}

	return &models.State{PageHash: pageHash, Snapshot: snapshot}, nil
}

// UpdateState atomically replaces the stored state for the snapshot's
// location using a transaction.
func (r *Repository) UpdateState(ctx context.Context, state *models.State) error {
	const opn = "repository.sqlite.UpdateState"
	snapshot := state.Snapshot

	tx, err := r.db.BeginTx(ctx, nil) //nolint:varnamelen // tx its a default naming for transaction
	if err != nil {
		return fmt.Errorf("%s: failed to begin transaction: %w", opn, err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit only returns sql.ErrTxDone

	_, err = tx.ExecContext(
		ctx,
		"INSERT OR REPLACE INTO snapshots (location_id, location_name, fetched_at, page_hash) VALUES (?, ?, ?, ?)",
		snapshot.LocationID, snapshot.LocationName, snapshot.FetchedAt, state.PageHash,
	)
	if err != nil {
		return fmt.Errorf("%s: failed to update snapshot metadata: %w", opn, err)
	}

	_, err = tx.ExecContext(ctx, "DELETE FROM products WHERE location_id = ?", snapshot.LocationID)
	if err != nil {
		return fmt.Errorf("%s: failed to delete old products: %w", opn, err)
	}

	stmt, err := tx.PrepareContext(
		ctx,
		`INSERT INTO products (location_id, product_id, name, name_normalized, category, price,
			quantity, info, pic_url, is_vegetarian, is_gluten_free, is_promo)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("%s: failed to prepare insert statement: %w", opn, err)
	}
	defer stmt.Close()

	for _, id := range snapshot.ProductIDs() {
		product := snapshot.Products[id]

		var price sql.NullString
		if product.Price.Valid {
			price = sql.NullString{String: product.Price.Decimal.String(), Valid: true}
		}
		var quantity sql.NullInt64
		if product.Quantity.Valid {
			quantity = sql.NullInt64{Int64: product.Quantity.Value, Valid: true}
		}

		_, err = stmt.ExecContext(
			ctx,
			snapshot.LocationID, product.ID, product.Name, product.NameNormalized, product.Category,
			price, quantity, product.Info, product.PicURL,
			product.IsVegetarian, product.IsGlutenFree, product.IsPromo,
		)
		if err != nil {
			return fmt.Errorf("%s: failed to insert product %s: %w", opn, product.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: failed to commit transaction: %w", opn, err)
	}

	return nil
}
