package models

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// NullInt is a non-negative count that may be unknown. An invalid NullInt
// means the value could not be read from the page, which is different from
// a known count of zero.
type NullInt struct {
	Value int64
	Valid bool
}

// SomeInt returns a known count.
func SomeInt(v int64) NullInt {
	return NullInt{Value: v, Valid: true}
}

// Equal reports whether two counts are the same. Two unknown counts are
// considered equal.
func (n NullInt) Equal(other NullInt) bool {
	if n.Valid != other.Valid {
		return false
	}
	return !n.Valid || n.Value == other.Value
}

// MarshalJSON encodes an unknown count as JSON null.
func (n NullInt) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return strconv.AppendInt(nil, n.Value, 10), nil
}

// UnmarshalJSON decodes JSON null as an unknown count.
func (n *NullInt) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*n = NullInt{}
		return nil
	}
	value, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return err
	}
	*n = NullInt{Value: value, Valid: true}
	return nil
}

// Product is one item listed on a vending page. It is a value object: a new
// fetch produces wholly new instances, nothing mutates a Product after it is
// built.
type Product struct {
	// ID is the stable identity of the item across fetches. It is the
	// source-provided identifier when the page carries one, otherwise a
	// deterministic hash of the normalized name and the item's position.
	ID string `json:"id"`
	// Name is the display name as shown on the page, diacritics included.
	Name string `json:"name"`
	// NameNormalized is the lowercase, ASCII-folded form of Name. It is
	// always derived, never set independently.
	NameNormalized string `json:"nameNormalized"`
	// Category is the heading the item is listed under. Informational only,
	// it does not participate in change detection.
	Category string `json:"category,omitempty"`
	// Price is the current selling price, or invalid when the page did not
	// carry a parsable price.
	Price decimal.NullDecimal `json:"price"`
	// Quantity is the stock count, or invalid when unknown.
	Quantity NullInt `json:"quantity"`
	// Info and PicURL are opaque pass-through strings from the page.
	Info   string `json:"info,omitempty"`
	PicURL string `json:"picUrl,omitempty"`
	// Dietary and promo flags from the page data attributes. Informational
	// only, like Category.
	IsVegetarian bool `json:"isVegetarian"`
	IsGlutenFree bool `json:"isGlutenFree"`
	IsPromo      bool `json:"isPromo"`
}

// IsAvailable reports whether the item can be bought: the quantity is known
// and greater than zero.
func (p Product) IsAvailable() bool {
	return p.Quantity.Valid && p.Quantity.Value > 0
}

// IsSoldOut reports a known stock count of zero.
func (p Product) IsSoldOut() bool {
	return p.Quantity.Valid && p.Quantity.Value == 0
}

// IsLastPiece reports a known stock count of exactly one.
func (p Product) IsLastPiece() bool {
	return p.Quantity.Valid && p.Quantity.Value == 1
}

// PriceEqual compares prices by value, to the cent. Two absent prices are
// equal.
func (p Product) PriceEqual(other Product) bool {
	if p.Price.Valid != other.Price.Valid {
		return false
	}
	return !p.Price.Valid || p.Price.Decimal.Equal(other.Price.Decimal)
}

// Equal reports value equality over the tracked fields: name, price,
// quantity, info and picture URL. Category and the dietary flags are
// pass-through metadata and are deliberately not compared.
func (p Product) Equal(other Product) bool {
	return p.Name == other.Name &&
		p.PriceEqual(other) &&
		p.Quantity.Equal(other.Quantity) &&
		p.Info == other.Info &&
		p.PicURL == other.PicURL
}
