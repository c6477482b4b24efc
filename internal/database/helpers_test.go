package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// openTestDB returns a migrated database in a temp dir, closed at test end.
func openTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(filepath.Join(t.TempDir(), "shop.db"))
	require.NoError(t, err, "failed to open db")
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.Migrate(), "failed to migrate")
	return db
}

func mustExec(t *testing.T, db *DB, query string, args ...any) {
	t.Helper()
	_, err := db.exec(query, args...)
	require.NoError(t, err, "seed statement failed: %s", query)
}

// seedShop loads a small catalogue:
//
//	Electronics: Laptop (1000.5, stock 5, tags novelty+sale, reviews 5 and 4),
//	             Mouse (20, stock 30, tag sale)
//	Books:       Novel (15, stock 10, tag Novelty, review 3)
//	Garden:      no products
//	Unsorted (5, stock 0) has no category, tags or reviews.
func seedShop(t *testing.T, db *DB) {
	t.Helper()

	mustExec(t, db, `INSERT INTO categories (id, name) VALUES (1, 'Electronics'), (2, 'Books'), (3, 'Garden')`)
	mustExec(t, db, `
		INSERT INTO products (id, name, price, stock_quantity, category_id) VALUES
			(1, 'Laptop', 1000.5, 5, 1),
			(2, 'Mouse', 20, 30, 1),
			(3, 'Novel', 15, 10, 2),
			(4, 'Unsorted', 5, 0, NULL)
	`)
	mustExec(t, db, `INSERT INTO product_details (product_id, weight_kg, manufacturer, warranty_months) VALUES (1, 2.5, 'Acme', 24)`)
	mustExec(t, db, `INSERT INTO tags (id, name) VALUES (1, 'novelty'), (2, 'sale'), (3, 'Novelty')`)
	// Laptop is linked to "sale" twice
	mustExec(t, db, `INSERT INTO product_tags (product_id, tag_id) VALUES (1, 1), (1, 2), (1, 2), (2, 2), (3, 3)`)
	mustExec(t, db, `INSERT INTO customers (id, name, email) VALUES (1, 'Alice', 'alice@example.com'), (2, 'Bob', NULL)`)
	mustExec(t, db, `
		INSERT INTO reviews (product_id, customer_id, rating, comment) VALUES
			(1, 1, 5, 'great'),
			(1, 2, 4, 'good'),
			(3, 1, 3, 'ok')
	`)
	mustExec(t, db, `INSERT INTO suppliers (id, company_name) VALUES (1, 'Acme Supply'), (2, 'Book Depot'), (3, 'Idle Co')`)
	mustExec(t, db, `
		INSERT INTO product_suppliers (product_id, supplier_id, purchase_price, delivery_days) VALUES
			(1, 1, 900, 5),
			(2, 1, 15, 3),
			(3, 2, 10, 7)
	`)
}

func countRows(t *testing.T, db *DB, table string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.queryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}
