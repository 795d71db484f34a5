package diff_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marvko/vendtrack/internal/diff"
	"github.com/marvko/vendtrack/internal/models"
)

func price(s string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.RequireFromString(s), Valid: true}
}

func snapshot(t *testing.T, locationID string, products ...models.Product) *models.Snapshot {
	t.Helper()

	snap, err := models.NewSnapshot(locationID, "Kampus Dejvice",
		time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC), products)
	require.NoError(t, err)
	return snap
}

func TestSnapshots_NoChanges(t *testing.T) {
	products := []models.Product{
		{ID: "101", Name: "Kuřecí sendvič", Price: price("79.90"), Quantity: models.SomeInt(2)},
		{ID: "102", Name: "Kofola", Price: price("35.00"), Quantity: models.SomeInt(0)},
	}

	changes, err := diff.Snapshots(snapshot(t, "296", products...), snapshot(t, "296", products...))

	require.NoError(t, err)
	assert.True(t, changes.Empty())
	assert.Equal(t, 2, changes.UnchangedCount)
}

func TestSnapshots_PriceComparedByValue(t *testing.T) {
	oldSnap := snapshot(t, "296",
		models.Product{ID: "101", Name: "Kofola", Price: price("12.5"), Quantity: models.SomeInt(3)})
	newSnap := snapshot(t, "296",
		models.Product{ID: "101", Name: "Kofola", Price: price("12.50"), Quantity: models.SomeInt(3)})

	changes, err := diff.Snapshots(oldSnap, newSnap)

	require.NoError(t, err)
	assert.True(t, changes.Empty())
	assert.Equal(t, 1, changes.UnchangedCount)
}

func TestSnapshots_AddedAndRemovedSorted(t *testing.T) {
	oldSnap := snapshot(t, "296",
		models.Product{ID: "901", Name: "Starý"},
		models.Product{ID: "105", Name: "Zmizelý"},
	)
	newSnap := snapshot(t, "296",
		models.Product{ID: "310", Name: "Nový"},
		models.Product{ID: "102", Name: "Další nový"},
	)

	changes, err := diff.Snapshots(oldSnap, newSnap)

	require.NoError(t, err)
	require.Len(t, changes.Added, 2)
	assert.Equal(t, "102", changes.Added[0].ID)
	assert.Equal(t, "310", changes.Added[1].ID)
	require.Len(t, changes.Removed, 2)
	assert.Equal(t, "105", changes.Removed[0].ID)
	assert.Equal(t, "901", changes.Removed[1].ID)
	assert.Empty(t, changes.Updated)
}

func TestSnapshots_FieldDiffs(t *testing.T) {
	oldSnap := snapshot(t, "296", models.Product{
		ID:       "101",
		Name:     "Kuřecí sendvič",
		Price:    price("79.90"),
		Quantity: models.SomeInt(1),
		Info:     "Chléb, kuřecí maso",
		PicURL:   "https://images.example/old.jpg",
	})
	newSnap := snapshot(t, "296", models.Product{
		ID:       "101",
		Name:     "Kuřecí sendvič XL",
		Price:    price("89.90"),
		Quantity: models.SomeInt(0),
		Info:     "Chléb, kuřecí maso, sýr",
		PicURL:   "https://images.example/new.jpg",
	})

	changes, err := diff.Snapshots(oldSnap, newSnap)

	require.NoError(t, err)
	require.Contains(t, changes.Updated, "101")
	fields := changes.Updated["101"]

	require.NotNil(t, fields.Name)
	assert.Equal(t, "Kuřecí sendvič", fields.Name.Old)
	assert.Equal(t, "Kuřecí sendvič XL", fields.Name.New)

	require.NotNil(t, fields.Price)
	assert.True(t, fields.Price.Raised())

	require.NotNil(t, fields.Quantity)
	assert.True(t, fields.Quantity.Depleted())

	require.NotNil(t, fields.Availability)
	assert.True(t, fields.Availability.Old)
	assert.False(t, fields.Availability.New)

	require.NotNil(t, fields.Info)
	require.NotNil(t, fields.PicURL)
}

func TestSnapshots_AvailabilityOnlyOnBoundary(t *testing.T) {
	t.Run("quantity change within stock", func(t *testing.T) {
		oldSnap := snapshot(t, "296",
			models.Product{ID: "101", Name: "Kofola", Quantity: models.SomeInt(3)})
		newSnap := snapshot(t, "296",
			models.Product{ID: "101", Name: "Kofola", Quantity: models.SomeInt(5)})

		changes, err := diff.Snapshots(oldSnap, newSnap)

		require.NoError(t, err)
		fields := changes.Updated["101"]
		require.NotNil(t, fields.Quantity)
		assert.Nil(t, fields.Availability)
	})

	t.Run("restock crosses the boundary", func(t *testing.T) {
		oldSnap := snapshot(t, "296",
			models.Product{ID: "101", Name: "Kofola", Quantity: models.SomeInt(0)})
		newSnap := snapshot(t, "296",
			models.Product{ID: "101", Name: "Kofola", Quantity: models.SomeInt(4)})

		changes, err := diff.Snapshots(oldSnap, newSnap)

		require.NoError(t, err)
		fields := changes.Updated["101"]
		require.NotNil(t, fields.Quantity)
		assert.True(t, fields.Quantity.Restocked())
		require.NotNil(t, fields.Availability)
		assert.True(t, fields.Availability.New)
	})
}

func TestSnapshots_AbsentValues(t *testing.T) {
	oldSnap := snapshot(t, "296",
		models.Product{ID: "101", Name: "Kofola", Price: price("35.00"), Quantity: models.SomeInt(2)})
	newSnap := snapshot(t, "296",
		models.Product{ID: "101", Name: "Kofola"})

	changes, err := diff.Snapshots(oldSnap, newSnap)

	require.NoError(t, err)
	fields := changes.Updated["101"]

	require.NotNil(t, fields.Price)
	assert.False(t, fields.Price.New.Valid)
	assert.False(t, fields.Price.Dropped())

	require.NotNil(t, fields.Quantity)
	assert.False(t, fields.Quantity.New.Valid)
	assert.False(t, fields.Quantity.Depleted())

	// Unknown quantity is not available, so the boundary is crossed.
	require.NotNil(t, fields.Availability)
	assert.False(t, fields.Availability.New)
}

func TestSnapshots_MetadataIgnored(t *testing.T) {
	oldSnap := snapshot(t, "296", models.Product{
		ID: "101", Name: "Kofola", Category: "Nápoje", Quantity: models.SomeInt(2)})
	newSnap := snapshot(t, "296", models.Product{
		ID: "101", Name: "Kofola", Category: "Limonády", Quantity: models.SomeInt(2), IsPromo: true})

	changes, err := diff.Snapshots(oldSnap, newSnap)

	require.NoError(t, err)
	assert.True(t, changes.Empty())
	assert.Equal(t, 1, changes.UnchangedCount)
}

func TestSnapshots_LocationMismatch(t *testing.T) {
	oldSnap := snapshot(t, "296")
	newSnap := snapshot(t, "297")

	_, err := diff.Snapshots(oldSnap, newSnap)

	var mismatch *diff.LocationMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "296", mismatch.Old)
	assert.Equal(t, "297", mismatch.New)
}

func TestSnapshots_Partition(t *testing.T) {
	oldSnap := snapshot(t, "296",
		models.Product{ID: "1", Name: "Stálý", Quantity: models.SomeInt(2)},
		models.Product{ID: "2", Name: "Zdražený", Price: price("10.00")},
		models.Product{ID: "3", Name: "Odebraný"},
	)
	newSnap := snapshot(t, "296",
		models.Product{ID: "1", Name: "Stálý", Quantity: models.SomeInt(2)},
		models.Product{ID: "2", Name: "Zdražený", Price: price("12.00")},
		models.Product{ID: "4", Name: "Přidaný"},
	)

	changes, err := diff.Snapshots(oldSnap, newSnap)

	require.NoError(t, err)
	total := len(changes.Added) + len(changes.Removed) + len(changes.Updated) + changes.UnchangedCount
	assert.Equal(t, 4, total)
	assert.Len(t, changes.Added, 1)
	assert.Len(t, changes.Removed, 1)
	assert.Len(t, changes.Updated, 1)
	assert.Equal(t, 1, changes.UnchangedCount)
}
