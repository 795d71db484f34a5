package models

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/antzucaro/matchr"

	"github.com/marvko/vendtrack/internal/normalize"
)

// DuplicateIdentityError is returned when two extracted items on the same
// page resolve to the same identity and cannot be told apart. It indicates a
// markup anomaly, so the whole snapshot build fails instead of silently
// dropping one of the items.
type DuplicateIdentityError struct {
	ID   string
	Name string
}

func (e *DuplicateIdentityError) Error() string {
	return fmt.Sprintf("duplicate product identity %q (name %q)", e.ID, e.Name)
}

// Snapshot is one complete, immutable capture of all products on one page at
// one fetch time. Comparing two snapshots never mutates either, so a
// snapshot is safe to share read-only across concurrent callers.
type Snapshot struct {
	LocationID   string             `json:"locationId"`
	LocationName string             `json:"locationName"`
	FetchedAt    time.Time          `json:"fetchedAt"`
	Products     map[string]Product `json:"products"`
}

// NewSnapshot builds an identity-keyed snapshot from products in page order.
// It fails with *DuplicateIdentityError when two products collide on the
// same ID.
func NewSnapshot(locationID, locationName string, fetchedAt time.Time, products []Product) (*Snapshot, error) {
	byID := make(map[string]Product, len(products))
	for _, product := range products {
		if _, exists := byID[product.ID]; exists {
			return nil, &DuplicateIdentityError{ID: product.ID, Name: product.Name}
		}
		byID[product.ID] = product
	}

	return &Snapshot{
		LocationID:   locationID,
		LocationName: locationName,
		FetchedAt:    fetchedAt,
		Products:     byID,
	}, nil
}

// Product returns the product with the given ID, or false if the snapshot
// does not contain it.
func (s *Snapshot) Product(id string) (Product, bool) {
	product, ok := s.Products[id]
	return product, ok
}

// ProductIDs returns the IDs of all products in the snapshot, sorted.
func (s *Snapshot) ProductIDs() []string {
	ids := make([]string, 0, len(s.Products))
	for id := range s.Products {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// FindByName returns all products whose name matches the given one,
// case-insensitive and ignoring diacritics. With partial set, a substring
// match is enough. Results are sorted by ID.
func (s *Snapshot) FindByName(name string, partial bool) []Product {
	query := normalize.Name(name)

	var matched []Product
	for _, id := range s.ProductIDs() {
		product := s.Products[id]
		if partial {
			if strings.Contains(product.NameNormalized, query) {
				matched = append(matched, product)
			}
		} else if product.NameNormalized == query {
			matched = append(matched, product)
		}
	}
	return matched
}

// Closest returns the product whose normalized name is most similar to the
// given one, together with the Jaro-Winkler similarity score. It returns
// false when the snapshot is empty.
func (s *Snapshot) Closest(name string) (Product, float64, bool) {
	query := normalize.Name(name)

	var (
		best      Product
		bestScore float64
		found     bool
	)
	for _, id := range s.ProductIDs() {
		product := s.Products[id]
		score := matchr.JaroWinkler(query, product.NameNormalized, false)
		if !found || score > bestScore {
			best = product
			bestScore = score
			found = true
		}
	}
	return best, bestScore, found
}

// PageURL returns the public URL of the product page for a location ID.
func PageURL(locationID string) string {
	return "https://my.freshpoint.cz/device/product-list/" + locationID
}

// URL returns the public URL of the page this snapshot was captured from.
func (s *Snapshot) URL() string {
	return PageURL(s.LocationID)
}
