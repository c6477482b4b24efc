package database

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

// Migrate runs all database migrations
func (db *DB) Migrate() error {
	log.Info().Msg("Running database migrations")

	// Create migrations table if not exists
	_, err := db.exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	currentVersion, err := db.SchemaVersion()
	if err != nil {
		return err
	}

	log.Debug().Int("current_version", currentVersion).Msg("Current schema version")

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		log.Info().Int("version", migration.Version).Str("name", migration.Name).Msg("Applying migration")

		if err := db.Transaction(func(tx *sql.Tx) error {
			statements := splitSQLStatements(migration.SQL)
			for i, stmt := range statements {
				if _, err := tx.Exec(stmt); err != nil {
					return fmt.Errorf("migration %d statement %d failed: %w", migration.Version, i+1, err)
				}
			}

			if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", migration.Version); err != nil {
				return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
			}

			return nil
		}); err != nil {
			return err
		}
	}

	log.Info().Msg("Database migrations complete")
	return nil
}

// SchemaVersion returns the highest applied migration version, or 0.
func (db *DB) SchemaVersion() (int, error) {
	var version int
	err := db.queryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("failed to get current migration version: %w", err)
	}
	return version, nil
}

type migration struct {
	Version int
	Name    string
	SQL     string
}

// splitSQLStatements splits a SQL string into individual statements.
// A semicolon ends a statement only outside quoted text, so string literals
// may span lines and contain ";". Comments outside quoted text are dropped
// and only non-empty statements are returned.
func splitSQLStatements(sql string) []string {
	var statements []string
	var current strings.Builder
	var quote rune

	flush := func() {
		stmt := strings.TrimSpace(current.String())
		if stmt != "" && stmt != ";" {
			statements = append(statements, stmt)
		}
		current.Reset()
	}

	for line := range strings.SplitSeq(sql, "\n") {
		trimmed := strings.TrimSpace(line)
		if quote == 0 && (trimmed == "" || strings.HasPrefix(trimmed, "--")) {
			continue
		}

		runes := []rune(line)
	scan:
		for i, r := range runes {
			switch {
			case quote != 0:
				// '' inside a literal closes and reopens it, which leaves quote unchanged overall
				if r == quote {
					quote = 0
				}
			case r == '-' && i+1 < len(runes) && runes[i+1] == '-':
				break scan
			case r == '\'' || r == '"' || r == '`':
				quote = r
			case r == ';':
				current.WriteRune(r)
				flush()
				continue
			}
			current.WriteRune(r)
		}
		current.WriteString("\n")
	}

	flush()
	return statements
}

var migrations = []migration{
	{
		// The shop tables may already exist when the schema was created outside shopdb
		Version: 1,
		Name:    "shop_schema",
		SQL: `
			CREATE TABLE IF NOT EXISTS categories (
				id INTEGER PRIMARY KEY,
				name TEXT NOT NULL
			);

			CREATE TABLE IF NOT EXISTS products (
				id INTEGER PRIMARY KEY,
				name TEXT NOT NULL,
				price NUMERIC NOT NULL,
				stock_quantity INTEGER NOT NULL DEFAULT 0 CHECK (stock_quantity >= 0),
				category_id INTEGER REFERENCES categories(id) ON DELETE SET NULL
			);

			CREATE INDEX IF NOT EXISTS idx_products_category ON products(category_id);

			-- One-to-one extension of products
			CREATE TABLE IF NOT EXISTS product_details (
				product_id INTEGER PRIMARY KEY REFERENCES products(id) ON DELETE CASCADE,
				weight_kg REAL,
				manufacturer TEXT,
				warranty_months INTEGER
			);

			CREATE TABLE IF NOT EXISTS tags (
				id INTEGER PRIMARY KEY,
				name TEXT NOT NULL UNIQUE
			);

			-- Link rows are not unique; reports de-duplicate tag names
			CREATE TABLE IF NOT EXISTS product_tags (
				product_id INTEGER NOT NULL REFERENCES products(id) ON DELETE CASCADE,
				tag_id INTEGER NOT NULL REFERENCES tags(id) ON DELETE CASCADE
			);

			CREATE INDEX IF NOT EXISTS idx_product_tags_product ON product_tags(product_id);
			CREATE INDEX IF NOT EXISTS idx_product_tags_tag ON product_tags(tag_id);

			CREATE TABLE IF NOT EXISTS customers (
				id INTEGER PRIMARY KEY,
				name TEXT NOT NULL,
				email TEXT
			);

			CREATE TABLE IF NOT EXISTS reviews (
				id INTEGER PRIMARY KEY,
				product_id INTEGER NOT NULL REFERENCES products(id) ON DELETE CASCADE,
				customer_id INTEGER NOT NULL REFERENCES customers(id),
				rating INTEGER NOT NULL,
				comment TEXT,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			);

			CREATE INDEX IF NOT EXISTS idx_reviews_product ON reviews(product_id);

			CREATE TABLE IF NOT EXISTS suppliers (
				id INTEGER PRIMARY KEY,
				company_name TEXT NOT NULL
			);

			CREATE TABLE IF NOT EXISTS product_suppliers (
				id INTEGER PRIMARY KEY,
				product_id INTEGER NOT NULL REFERENCES products(id) ON DELETE CASCADE,
				supplier_id INTEGER NOT NULL REFERENCES suppliers(id) ON DELETE CASCADE,
				purchase_price NUMERIC NOT NULL,
				delivery_days INTEGER NOT NULL,
				UNIQUE (product_id, supplier_id)
			);

			CREATE INDEX IF NOT EXISTS idx_product_suppliers_supplier ON product_suppliers(supplier_id);
		`,
	},
	{
		Version: 2,
		Name:    "settings",
		SQL: `
			CREATE TABLE IF NOT EXISTS settings (
				key TEXT PRIMARY KEY,
				value TEXT NOT NULL,
				updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			);
		`,
	},
}
