package database

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func productByName(t *testing.T, db *DB, name string) ProductDetail {
	t.Helper()
	products, err := db.GetProductsWithDetails()
	require.NoError(t, err)
	for _, p := range products {
		if p.Name == name {
			return p
		}
	}
	t.Fatalf("product %q not found", name)
	return ProductDetail{}
}

func TestAddReview_UpdatesCountAndAverage(t *testing.T) {
	db := openTestDB(t)
	seedShop(t, db)

	before := productByName(t, db, "Laptop")
	require.Equal(t, int64(2), before.ReviewCount)

	res := db.AddReview(1, 2, 3, "fine")
	require.True(t, res.OK(), "add review failed: %v", res.Err)
	assert.Equal(t, OpAddReview, res.Op)

	after := productByName(t, db, "Laptop")
	assert.Equal(t, int64(3), after.ReviewCount)
	assert.Equal(t, "4", after.AvgRating.Decimal.String())

	count, err := db.CountReviews(1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestAddReview_FirstReviewSetsAverage(t *testing.T) {
	db := openTestDB(t)
	seedShop(t, db)

	res := db.AddReview(2, 1, 4, "")
	require.True(t, res.OK())

	mouse := productByName(t, db, "Mouse")
	assert.Equal(t, int64(1), mouse.ReviewCount)
	require.True(t, mouse.AvgRating.Valid)
	assert.Equal(t, "4", mouse.AvgRating.Decimal.String())
}

func TestAddReview_UnknownProductIsRejected(t *testing.T) {
	db := openTestDB(t)
	seedShop(t, db)

	before := countRows(t, db, "reviews")

	res := db.AddReview(999, 1, 5, "ghost")
	assert.False(t, res.OK())
	assert.ErrorIs(t, res.Err, ErrForeignKey)
	assert.Equal(t, before, countRows(t, db, "reviews"))
}

func TestAddReview_UnknownCustomerIsRejected(t *testing.T) {
	db := openTestDB(t)
	seedShop(t, db)

	before := countRows(t, db, "reviews")

	res := db.AddReview(1, 42, 5, "who?")
	assert.False(t, res.OK())
	assert.ErrorIs(t, res.Err, ErrForeignKey)
	assert.Equal(t, before, countRows(t, db, "reviews"))
}

func TestAddReview_RatingNotRangeChecked(t *testing.T) {
	db := openTestDB(t)
	seedShop(t, db)

	res := db.AddReview(4, 1, 9, "off the scale")
	assert.True(t, res.OK())
}

func TestUpsertProductSupplier_InsertsNewLink(t *testing.T) {
	db := openTestDB(t)
	seedShop(t, db)

	before := countRows(t, db, "product_suppliers")

	res := db.UpsertProductSupplier(3, 1, decimal.RequireFromString("12.5"), 4)
	require.True(t, res.OK(), "upsert failed: %v", res.Err)
	assert.Equal(t, OpUpsertProductSupplier, res.Op)
	assert.Equal(t, before+1, countRows(t, db, "product_suppliers"))

	link, err := db.GetProductSupplier(3, 1)
	require.NoError(t, err)
	require.NotNil(t, link)
	assert.Equal(t, "12.5", link.PurchasePrice.String())
	assert.Equal(t, int64(4), link.DeliveryDays)
}

func TestUpsertProductSupplier_UpdatesExistingLinkInPlace(t *testing.T) {
	db := openTestDB(t)
	seedShop(t, db)

	before := countRows(t, db, "product_suppliers")

	res := db.UpsertProductSupplier(1, 1, decimal.NewFromInt(645), 6)
	require.True(t, res.OK())
	assert.Equal(t, before, countRows(t, db, "product_suppliers"))

	link, err := db.GetProductSupplier(1, 1)
	require.NoError(t, err)
	require.NotNil(t, link)
	assert.Equal(t, "645", link.PurchasePrice.String())
	assert.Equal(t, int64(6), link.DeliveryDays)
}

func TestUpsertProductSupplier_Idempotent(t *testing.T) {
	db := openTestDB(t)
	seedShop(t, db)

	price := decimal.RequireFromString("99.99")

	first := db.UpsertProductSupplier(4, 3, price, 2)
	require.True(t, first.OK())
	once, err := db.GetProductSupplier(4, 3)
	require.NoError(t, err)
	total := countRows(t, db, "product_suppliers")

	second := db.UpsertProductSupplier(4, 3, price, 2)
	require.True(t, second.OK())
	twice, err := db.GetProductSupplier(4, 3)
	require.NoError(t, err)

	require.NotNil(t, once)
	require.NotNil(t, twice)
	assert.True(t, once.PurchasePrice.Equal(twice.PurchasePrice))
	assert.Equal(t, once.DeliveryDays, twice.DeliveryDays)
	assert.Equal(t, "99.99", twice.PurchasePrice.String())
	assert.Equal(t, total, countRows(t, db, "product_suppliers"))

	n, err := db.CountProductSuppliers(4, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestUpsertProductSupplier_UnknownSupplierIsRejected(t *testing.T) {
	db := openTestDB(t)
	seedShop(t, db)

	before := countRows(t, db, "product_suppliers")

	res := db.UpsertProductSupplier(1, 77, decimal.NewFromInt(1), 1)
	assert.False(t, res.OK())
	assert.ErrorIs(t, res.Err, ErrForeignKey)
	assert.Equal(t, before, countRows(t, db, "product_suppliers"))
}

func TestGetProductSupplier_Missing(t *testing.T) {
	db := openTestDB(t)
	seedShop(t, db)

	link, err := db.GetProductSupplier(4, 1)
	require.NoError(t, err)
	assert.Nil(t, link)
}

func TestWriteResult_OK(t *testing.T) {
	assert.True(t, WriteResult{Op: OpAddReview}.OK())
	assert.False(t, WriteResult{Op: OpAddReview, Err: ErrStorage}.OK())
}
