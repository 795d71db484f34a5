package models_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marvko/vendtrack/internal/models"
)

func knownPrice(s string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.RequireFromString(s), Valid: true}
}

func TestPriceChange_Flags(t *testing.T) {
	testCases := []struct {
		name    string
		change  models.PriceChange
		dropped bool
		raised  bool
	}{
		{
			name:    "price dropped",
			change:  models.PriceChange{Old: knownPrice("79.90"), New: knownPrice("69.90")},
			dropped: true,
		},
		{
			name:   "price raised",
			change: models.PriceChange{Old: knownPrice("69.90"), New: knownPrice("79.90")},
			raised: true,
		},
		{
			name:   "price appeared",
			change: models.PriceChange{New: knownPrice("79.90")},
		},
		{
			name:   "price disappeared",
			change: models.PriceChange{Old: knownPrice("79.90")},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.dropped, tc.change.Dropped())
			assert.Equal(t, tc.raised, tc.change.Raised())
		})
	}
}

func TestQuantityChange_Flags(t *testing.T) {
	testCases := []struct {
		name      string
		change    models.QuantityChange
		depleted  bool
		restocked bool
		lastPiece bool
	}{
		{
			name:     "stock ran out",
			change:   models.QuantityChange{Old: models.SomeInt(3), New: models.SomeInt(0)},
			depleted: true,
		},
		{
			name:      "stock came back",
			change:    models.QuantityChange{Old: models.SomeInt(0), New: models.SomeInt(5)},
			restocked: true,
		},
		{
			name:      "down to last piece",
			change:    models.QuantityChange{Old: models.SomeInt(4), New: models.SomeInt(1)},
			lastPiece: true,
		},
		{
			name:   "plain decrease",
			change: models.QuantityChange{Old: models.SomeInt(5), New: models.SomeInt(3)},
		},
		{
			name:   "count became unknown",
			change: models.QuantityChange{Old: models.SomeInt(3), New: models.NullInt{}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.depleted, tc.change.Depleted())
			assert.Equal(t, tc.restocked, tc.change.Restocked())
			assert.Equal(t, tc.lastPiece, tc.change.LastPiece())
		})
	}
}

func TestFieldDiff_Empty(t *testing.T) {
	assert.True(t, models.FieldDiff{}.Empty())

	withName := models.FieldDiff{Name: &models.StringChange{Old: "a", New: "b"}}
	assert.False(t, withName.Empty())

	withQuantity := models.FieldDiff{
		Quantity: &models.QuantityChange{Old: models.SomeInt(1), New: models.SomeInt(2)},
	}
	assert.False(t, withQuantity.Empty())
}

func TestChanges_Empty(t *testing.T) {
	assert.True(t, (&models.Changes{}).Empty())
	assert.True(t, (&models.Changes{UnchangedCount: 42}).Empty())

	withAdded := &models.Changes{Added: []models.Product{{ID: "1"}}}
	assert.False(t, withAdded.Empty())

	withUpdated := &models.Changes{Updated: map[string]models.FieldDiff{"1": {}}}
	assert.False(t, withUpdated.Empty())
}

func TestNullInt_JSON(t *testing.T) {
	t.Run("known count", func(t *testing.T) {
		data, err := json.Marshal(models.SomeInt(3))
		require.NoError(t, err)
		assert.Equal(t, "3", string(data))

		var decoded models.NullInt
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, models.SomeInt(3), decoded)
	})

	t.Run("unknown count encodes as null", func(t *testing.T) {
		data, err := json.Marshal(models.NullInt{})
		require.NoError(t, err)
		assert.Equal(t, "null", string(data))

		var decoded models.NullInt
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.False(t, decoded.Valid)
	})
}

func TestProduct_Equal(t *testing.T) {
	base := models.Product{
		ID:             "101",
		Name:           "Kuřecí sendvič",
		NameNormalized: "kureci sendvic",
		Category:       "Sendviče",
		Price:          knownPrice("79.90"),
		Quantity:       models.SomeInt(2),
		Info:           "Chléb, kuřecí maso",
		PicURL:         "https://images.example/101.jpg",
	}

	t.Run("equal to itself", func(t *testing.T) {
		assert.True(t, base.Equal(base))
	})

	t.Run("price compared by value", func(t *testing.T) {
		other := base
		other.Price = knownPrice("79.9")
		assert.True(t, base.Equal(other))
	})

	t.Run("category and flags do not affect equality", func(t *testing.T) {
		other := base
		other.Category = "Jiná sekce"
		other.IsVegetarian = true
		other.IsPromo = true
		assert.True(t, base.Equal(other))
	})

	t.Run("tracked field differences are detected", func(t *testing.T) {
		byName := base
		byName.Name = "Kuřecí wrap"
		assert.False(t, base.Equal(byName))

		byPrice := base
		byPrice.Price = knownPrice("69.90")
		assert.False(t, base.Equal(byPrice))

		byQuantity := base
		byQuantity.Quantity = models.NullInt{}
		assert.False(t, base.Equal(byQuantity))

		byInfo := base
		byInfo.Info = ""
		assert.False(t, base.Equal(byInfo))
	})
}

func TestProduct_Availability(t *testing.T) {
	inStock := models.Product{Quantity: models.SomeInt(2)}
	assert.True(t, inStock.IsAvailable())
	assert.False(t, inStock.IsSoldOut())
	assert.False(t, inStock.IsLastPiece())

	soldOut := models.Product{Quantity: models.SomeInt(0)}
	assert.False(t, soldOut.IsAvailable())
	assert.True(t, soldOut.IsSoldOut())

	lastPiece := models.Product{Quantity: models.SomeInt(1)}
	assert.True(t, lastPiece.IsAvailable())
	assert.True(t, lastPiece.IsLastPiece())

	unknown := models.Product{}
	assert.False(t, unknown.IsAvailable())
	assert.False(t, unknown.IsSoldOut())
}
