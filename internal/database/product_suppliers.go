package database

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// ProductSupplier is one product/supplier link with its purchase terms.
type ProductSupplier struct {
	ProductID     int64
	SupplierID    int64
	PurchasePrice decimal.Decimal
	DeliveryDays  int64
}

// UpsertProductSupplier links a product to a supplier or updates the existing
// link's purchase price and delivery days. Repeating the call is a no-op.
func (db *DB) UpsertProductSupplier(productID, supplierID int64, purchasePrice decimal.Decimal, deliveryDays int) WriteResult {
	return db.runWrite(OpUpsertProductSupplier,
		func(e *zerolog.Event) {
			e.Int64("product_id", productID).Int64("supplier_id", supplierID).
				Str("purchase_price", purchasePrice.String()).Int("delivery_days", deliveryDays)
		},
		`INSERT INTO product_suppliers (product_id, supplier_id, purchase_price, delivery_days)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(product_id, supplier_id) DO UPDATE SET
			purchase_price = excluded.purchase_price,
			delivery_days = excluded.delivery_days`,
		productID, supplierID, purchasePrice, deliveryDays,
	)
}

// GetProductSupplier returns the link between a product and a supplier, or nil if none exists.
func (db *DB) GetProductSupplier(productID, supplierID int64) (*ProductSupplier, error) {
	link := &ProductSupplier{}
	err := db.queryRow(`
		SELECT product_id, supplier_id, purchase_price, delivery_days
		FROM product_suppliers WHERE product_id = ? AND supplier_id = ?
	`, productID, supplierID).Scan(&link.ProductID, &link.SupplierID, &link.PurchasePrice, &link.DeliveryDays)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product supplier: %w", err)
	}
	return link, nil
}

// CountProductSuppliers returns the number of links stored for a product/supplier pair.
func (db *DB) CountProductSuppliers(productID, supplierID int64) (int64, error) {
	var count int64
	err := db.queryRow(`
		SELECT COUNT(*) FROM product_suppliers WHERE product_id = ? AND supplier_id = ?
	`, productID, supplierID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count product suppliers: %w", err)
	}
	return count, nil
}
