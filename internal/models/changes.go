package models

import "github.com/shopspring/decimal"

// StringChange is an old/new pair for a text field.
type StringChange struct {
	Old string `json:"old"`
	New string `json:"new"`
}

// PriceChange is an old/new pair for the selling price. Either side may be
// absent when the page did not carry a parsable price at that fetch.
type PriceChange struct {
	Old decimal.NullDecimal `json:"old"`
	New decimal.NullDecimal `json:"new"`
}

// Dropped reports whether both prices are known and the new one is lower.
func (c PriceChange) Dropped() bool {
	return c.Old.Valid && c.New.Valid && c.New.Decimal.LessThan(c.Old.Decimal)
}

// Raised reports whether both prices are known and the new one is higher.
func (c PriceChange) Raised() bool {
	return c.Old.Valid && c.New.Valid && c.New.Decimal.GreaterThan(c.Old.Decimal)
}

// QuantityChange is an old/new pair for the stock count.
type QuantityChange struct {
	Old NullInt `json:"old"`
	New NullInt `json:"new"`
}

// Depleted reports that a previously stocked item ran out.
func (c QuantityChange) Depleted() bool {
	return c.Old.Valid && c.Old.Value > 0 && c.New.Valid && c.New.Value == 0
}

// Restocked reports that a previously sold-out item is back in stock.
func (c QuantityChange) Restocked() bool {
	return c.Old.Valid && c.Old.Value == 0 && c.New.Valid && c.New.Value > 0
}

// LastPiece reports that the stock just dropped to a single item.
func (c QuantityChange) LastPiece() bool {
	return c.Old.Valid && c.Old.Value > 1 && c.New.Valid && c.New.Value == 1
}

// BoolChange is an old/new pair for a derived boolean field.
type BoolChange struct {
	Old bool `json:"old"`
	New bool `json:"new"`
}

// FieldDiff describes which fields of one product changed between two
// snapshots. Unchanged fields stay nil, so the changeset stays minimal. A
// FieldDiff with no set fields is never emitted.
type FieldDiff struct {
	Name         *StringChange   `json:"name,omitempty"`
	Price        *PriceChange    `json:"price,omitempty"`
	Quantity     *QuantityChange `json:"quantity,omitempty"`
	Availability *BoolChange     `json:"availability,omitempty"`
	Info         *StringChange   `json:"info,omitempty"`
	PicURL       *StringChange   `json:"picUrl,omitempty"`
}

// Empty reports whether no field changed.
func (d FieldDiff) Empty() bool {
	return d.Name == nil && d.Price == nil && d.Quantity == nil &&
		d.Availability == nil && d.Info == nil && d.PicURL == nil
}

// Changes is the comparison result between two snapshots of the same
// location. Every product ID present in either snapshot lands in exactly one
// of Added, Removed, Updated or the unchanged count.
type Changes struct {
	// Added and Removed are sorted by product ID.
	Added   []Product `json:"added"`
	Removed []Product `json:"removed"`
	// Updated maps product IDs to the fields that changed.
	Updated map[string]FieldDiff `json:"updated"`
	// UnchangedCount is diagnostic only.
	UnchangedCount int `json:"unchangedCount"`
}

// Empty reports whether nothing was added, removed or updated.
func (c *Changes) Empty() bool {
	return len(c.Added) == 0 && len(c.Removed) == 0 && len(c.Updated) == 0
}

// State is the complete per-location state held between two check cycles:
// the hash of the raw page and the snapshot parsed from it.
type State struct {
	PageHash string
	Snapshot *Snapshot
}
