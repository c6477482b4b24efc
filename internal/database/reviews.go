package database

import (
	"fmt"

	"github.com/rs/zerolog"
)

// AddReview inserts one review. Rating is stored as given; referential checks
// on product and customer are left to the foreign keys.
func (db *DB) AddReview(productID, customerID int64, rating int, comment string) WriteResult {
	return db.runWrite(OpAddReview,
		func(e *zerolog.Event) {
			e.Int64("product_id", productID).Int64("customer_id", customerID).Int("rating", rating)
		},
		`INSERT INTO reviews (product_id, customer_id, rating, comment) VALUES (?, ?, ?, ?)`,
		productID, customerID, rating, comment,
	)
}

// CountReviews returns the number of reviews stored for a product.
func (db *DB) CountReviews(productID int64) (int64, error) {
	var count int64
	if err := db.queryRow(`SELECT COUNT(*) FROM reviews WHERE product_id = ?`, productID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count reviews: %w", err)
	}
	return count, nil
}
