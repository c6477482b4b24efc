package database

import (
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"
)

// ProductDetail is a product joined with its category, details, tags and review summary.
type ProductDetail struct {
	ID             int64
	Name           string
	Price          decimal.Decimal
	StockQuantity  int64
	CategoryName   *string
	WeightKg       decimal.NullDecimal
	Manufacturer   *string
	WarrantyMonths *int64
	Tags           []string
	AvgRating      decimal.NullDecimal
	ReviewCount    int64
}

// SupplierStats summarises a supplier's product links.
// TotalStock sums product stock once per link row of this supplier.
type SupplierStats struct {
	SupplierID       int64
	CompanyName      string
	ProductsSupplied int64
	AvgPurchasePrice decimal.NullDecimal
	TotalStock       int64
}

// TaggedProduct is a product matched by tag, carrying all of its tags.
type TaggedProduct struct {
	ID           int64
	Name         string
	Price        decimal.Decimal
	CategoryName *string
	AllTags      []string
}

// CategoryStats summarises the products and reviews of one category.
type CategoryStats struct {
	CategoryID   int64
	CategoryName string
	ProductCount int64
	AvgPrice     decimal.NullDecimal
	MaxPrice     decimal.NullDecimal
	MinPrice     decimal.NullDecimal
	TotalStock   int64
	TotalReviews int64
	AvgRating    decimal.NullDecimal
}

// Tags and reviews are aggregated per product in subqueries, so one product
// yields one row. Tag names are joined with tagSeparator because names may
// contain commas; IN collapses repeated links to the same tag.
const productsWithDetailsQuery = `
	SELECT
		p.id, p.name, p.price, p.stock_quantity,
		c.name AS category_name,
		pd.weight_kg, pd.manufacturer, pd.warranty_months,
		(
			SELECT GROUP_CONCAT(t.name, char(31))
			FROM tags t
			WHERE t.id IN (SELECT pt.tag_id FROM product_tags pt WHERE pt.product_id = p.id)
		) AS tags,
		rs.avg_rating,
		COALESCE(rs.review_count, 0) AS review_count
	FROM products p
	LEFT JOIN categories c ON p.category_id = c.id
	LEFT JOIN product_details pd ON p.id = pd.product_id
	LEFT JOIN (
		SELECT product_id, ROUND(AVG(rating), 2) AS avg_rating, COUNT(*) AS review_count
		FROM reviews
		GROUP BY product_id
	) rs ON p.id = rs.product_id
	ORDER BY p.name, p.id
`

// GetProductsWithDetails returns every product with category, details, tags and
// review summary, ordered by name.
func (db *DB) GetProductsWithDetails() ([]ProductDetail, error) {
	rows, err := db.query(productsWithDetailsQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query products with details: %w", err)
	}
	defer rows.Close()

	var products []ProductDetail
	for rows.Next() {
		var (
			p              ProductDetail
			categoryName   sql.NullString
			manufacturer   sql.NullString
			warrantyMonths sql.NullInt64
			tags           sql.NullString
		)
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Price, &p.StockQuantity,
			&categoryName,
			&p.WeightKg, &manufacturer, &warrantyMonths,
			&tags,
			&p.AvgRating, &p.ReviewCount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan product details: %w", err)
		}
		p.CategoryName = nullStringToPtr(categoryName)
		p.Manufacturer = nullStringToPtr(manufacturer)
		p.WarrantyMonths = nullInt64ToPtr(warrantyMonths)
		p.Tags = splitConcat(tags)
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate products with details: %w", err)
	}

	return products, nil
}

const supplierStatisticsQuery = `
	SELECT
		s.id, s.company_name,
		COUNT(DISTINCT ps.product_id) AS products_supplied,
		ROUND(AVG(ps.purchase_price), 2) AS avg_purchase_price,
		COALESCE(SUM(p.stock_quantity), 0) AS total_stock
	FROM suppliers s
	LEFT JOIN product_suppliers ps ON s.id = ps.supplier_id
	LEFT JOIN products p ON ps.product_id = p.id
	GROUP BY s.id, s.company_name
	ORDER BY products_supplied DESC, s.id
`

// GetSupplierStatistics returns per-supplier link statistics, busiest suppliers first.
func (db *DB) GetSupplierStatistics() ([]SupplierStats, error) {
	rows, err := db.query(supplierStatisticsQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query supplier statistics: %w", err)
	}
	defer rows.Close()

	var stats []SupplierStats
	for rows.Next() {
		var s SupplierStats
		if err := rows.Scan(&s.SupplierID, &s.CompanyName, &s.ProductsSupplied, &s.AvgPurchasePrice, &s.TotalStock); err != nil {
			return nil, fmt.Errorf("failed to scan supplier statistics: %w", err)
		}
		stats = append(stats, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate supplier statistics: %w", err)
	}

	return stats, nil
}

// The filter is an EXISTS so the tag list is built from every tag of a match.
const productsByTagQuery = `
	SELECT
		p.id, p.name, p.price,
		c.name AS category_name,
		(
			SELECT GROUP_CONCAT(t.name, char(31))
			FROM tags t
			WHERE t.id IN (SELECT pt.tag_id FROM product_tags pt WHERE pt.product_id = p.id)
		) AS all_tags
	FROM products p
	LEFT JOIN categories c ON p.category_id = c.id
	WHERE EXISTS (
		SELECT 1
		FROM product_tags pt
		INNER JOIN tags t ON pt.tag_id = t.id
		WHERE pt.product_id = p.id AND t.name = ?
	)
	ORDER BY p.id
`

// GetProductsByTag returns products carrying a tag with exactly tagName, each
// with its full tag list, ordered by product id.
func (db *DB) GetProductsByTag(tagName string) ([]TaggedProduct, error) {
	rows, err := db.query(productsByTagQuery, tagName)
	if err != nil {
		return nil, fmt.Errorf("failed to query products by tag %q: %w", tagName, err)
	}
	defer rows.Close()

	var products []TaggedProduct
	for rows.Next() {
		var (
			p            TaggedProduct
			categoryName sql.NullString
			tags         sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &categoryName, &tags); err != nil {
			return nil, fmt.Errorf("failed to scan tagged product: %w", err)
		}
		p.CategoryName = nullStringToPtr(categoryName)
		p.AllTags = splitConcat(tags)
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate products by tag: %w", err)
	}

	return products, nil
}

// Product aggregates run over one row per product; reviews are summed from a
// per-product subquery so they do not repeat product rows.
const categoryAnalysisQuery = `
	SELECT
		c.id, c.name,
		COUNT(p.id) AS product_count,
		ROUND(AVG(p.price), 2) AS avg_price,
		MAX(p.price) AS max_price,
		MIN(p.price) AS min_price,
		COALESCE(SUM(p.stock_quantity), 0) AS total_stock,
		COALESCE(SUM(rs.review_count), 0) AS total_reviews,
		ROUND(SUM(rs.rating_sum) * 1.0 / SUM(rs.review_count), 2) AS avg_rating
	FROM categories c
	LEFT JOIN products p ON c.id = p.category_id
	LEFT JOIN (
		SELECT product_id, COUNT(*) AS review_count, SUM(rating) AS rating_sum
		FROM reviews
		GROUP BY product_id
	) rs ON p.id = rs.product_id
	GROUP BY c.id, c.name
	ORDER BY product_count DESC, c.name
`

// CategoryAnalysis returns price, stock and review aggregates per category,
// largest categories first.
func (db *DB) CategoryAnalysis() ([]CategoryStats, error) {
	rows, err := db.query(categoryAnalysisQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query category analysis: %w", err)
	}
	defer rows.Close()

	var stats []CategoryStats
	for rows.Next() {
		var s CategoryStats
		if err := rows.Scan(
			&s.CategoryID, &s.CategoryName,
			&s.ProductCount,
			&s.AvgPrice, &s.MaxPrice, &s.MinPrice,
			&s.TotalStock, &s.TotalReviews,
			&s.AvgRating,
		); err != nil {
			return nil, fmt.Errorf("failed to scan category analysis: %w", err)
		}
		stats = append(stats, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate category analysis: %w", err)
	}

	return stats, nil
}
