// Package diff compares two snapshots of the same location and produces the
// minimal set of differences between them. It holds no state: concurrent
// calls on disjoint snapshot pairs do not interact.
package diff

import (
	"fmt"
	"sort"

	"github.com/marvko/vendtrack/internal/models"
)

// LocationMismatchError means the caller tried to diff snapshots of two
// unrelated pages. That is a caller bug and is never silently tolerated.
type LocationMismatchError struct {
	Old string
	New string
}

func (e *LocationMismatchError) Error() string {
	return fmt.Sprintf("cannot diff snapshots of different locations: %q vs %q", e.Old, e.New)
}

// Snapshots compares the old snapshot with the new one. Every product ID in
// either snapshot lands in exactly one of added, removed, updated or the
// unchanged count. Added and removed are sorted by ID, so the result is
// deterministic for a given pair of snapshots.
func Snapshots(oldSnap, newSnap *models.Snapshot) (*models.Changes, error) {
	if oldSnap.LocationID != newSnap.LocationID {
		return nil, &LocationMismatchError{Old: oldSnap.LocationID, New: newSnap.LocationID}
	}

	changes := &models.Changes{Updated: make(map[string]models.FieldDiff)}

	for id, newProduct := range newSnap.Products {
		oldProduct, found := oldSnap.Products[id]
		if !found {
			changes.Added = append(changes.Added, newProduct)
			continue
		}
		fields := fieldDiff(oldProduct, newProduct)
		if fields.Empty() {
			changes.UnchangedCount++
		} else {
			changes.Updated[id] = fields
		}
	}

	for id, oldProduct := range oldSnap.Products {
		if _, found := newSnap.Products[id]; !found {
			changes.Removed = append(changes.Removed, oldProduct)
		}
	}

	sortByID(changes.Added)
	sortByID(changes.Removed)

	return changes, nil
}

// fieldDiff compares two records of the same product field by field, using
// value equality. Only changed fields are filled in. Availability is derived
// from the quantity and is reported only when the quantity crosses the
// "in stock" boundary, not on every quantity change.
func fieldDiff(oldProduct, newProduct models.Product) models.FieldDiff {
	var fields models.FieldDiff

	if oldProduct.Name != newProduct.Name {
		fields.Name = &models.StringChange{Old: oldProduct.Name, New: newProduct.Name}
	}
	if !oldProduct.PriceEqual(newProduct) {
		fields.Price = &models.PriceChange{Old: oldProduct.Price, New: newProduct.Price}
	}
	if !oldProduct.Quantity.Equal(newProduct.Quantity) {
		fields.Quantity = &models.QuantityChange{Old: oldProduct.Quantity, New: newProduct.Quantity}
	}
	if oldProduct.IsAvailable() != newProduct.IsAvailable() {
		fields.Availability = &models.BoolChange{Old: oldProduct.IsAvailable(), New: newProduct.IsAvailable()}
	}
	if oldProduct.Info != newProduct.Info {
		fields.Info = &models.StringChange{Old: oldProduct.Info, New: newProduct.Info}
	}
	if oldProduct.PicURL != newProduct.PicURL {
		fields.PicURL = &models.StringChange{Old: oldProduct.PicURL, New: newProduct.PicURL}
	}

	return fields
}

func sortByID(products []models.Product) {
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
}
