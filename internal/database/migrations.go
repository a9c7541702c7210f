package database

import (
	"fmt"
	"log/slog"
	"strings"
)

const schema = `
CREATE TABLE IF NOT EXISTS manufacturers (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    manufacturer_id TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL,
    description TEXT DEFAULT '',
    country TEXT NOT NULL,
    website TEXT NOT NULL,
    image_path TEXT,
    creation_date DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS products (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    product_id TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL,
    description TEXT DEFAULT '',
    version TEXT NOT NULL,
    rating TEXT NOT NULL,
    release_date DATETIME,
    image_path TEXT,
    manufacturer_id INTEGER NOT NULL REFERENCES manufacturers(id)
);

CREATE TABLE IF NOT EXISTS malware (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    malware_id TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL,
    description TEXT DEFAULT '',
    threat_level TEXT NOT NULL,
    discovery_date DATETIME,
    malware_type TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS signatures (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    signature_id TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL,
    data TEXT NOT NULL,
    creation_date DATETIME NOT NULL,
    malware_id INTEGER NOT NULL REFERENCES malware(id),
    manufacturer_id INTEGER REFERENCES manufacturers(id) ON DELETE SET NULL
);

CREATE INDEX IF NOT EXISTS idx_products_manufacturer ON products(manufacturer_id);
CREATE INDEX IF NOT EXISTS idx_signatures_malware ON signatures(malware_id);
CREATE INDEX IF NOT EXISTS idx_signatures_manufacturer ON signatures(manufacturer_id);
`

// fixSchemaDrift detects and corrects two column shapes left behind by old
// deployments: signatures.manufacturer_id created with a TEXT type, and
// products.manufacturer_id missing entirely. Runs once at startup against
// the live column metadata. Corrections that fail are logged and skipped;
// the application proceeds regardless.
func (db *DB) fixSchemaDrift() {
	if err := db.fixSignatureManufacturerColumn(); err != nil {
		slog.Warn("schema drift correction for signatures failed", "error", err)
	}
	if err := db.fixProductManufacturerColumn(); err != nil {
		slog.Warn("schema drift correction for products failed", "error", err)
	}
}

type columnInfo struct {
	name     string
	declType string
}

func (db *DB) tableColumns(table string) ([]columnInfo, error) {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return nil, fmt.Errorf("reading column metadata: %w", err)
	}
	defer rows.Close()

	var cols []columnInfo
	for rows.Next() {
		var (
			cid        int
			name, typ  string
			notNull    int
			defaultVal any
			pk         int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &defaultVal, &pk); err != nil {
			return nil, fmt.Errorf("scanning column metadata: %w", err)
		}
		cols = append(cols, columnInfo{name: name, declType: typ})
	}
	return cols, rows.Err()
}

func (db *DB) fixSignatureManufacturerColumn() error {
	cols, err := db.tableColumns("signatures")
	if err != nil {
		return err
	}
	if len(cols) == 0 {
		return nil // table does not exist yet, migrate will create it
	}

	for _, col := range cols {
		if col.name != "manufacturer_id" {
			continue
		}
		if strings.Contains(strings.ToUpper(col.declType), "INT") {
			return nil
		}
		slog.Info("correcting signatures.manufacturer_id column type",
			"declared_type", col.declType)
		if _, err := db.Exec("ALTER TABLE signatures DROP COLUMN manufacturer_id"); err != nil {
			return fmt.Errorf("dropping column: %w", err)
		}
		if _, err := db.Exec("ALTER TABLE signatures ADD COLUMN manufacturer_id INTEGER REFERENCES manufacturers(id)"); err != nil {
			return fmt.Errorf("re-adding column: %w", err)
		}
		return nil
	}
	return nil
}

func (db *DB) fixProductManufacturerColumn() error {
	cols, err := db.tableColumns("products")
	if err != nil {
		return err
	}
	if len(cols) == 0 {
		return nil
	}

	for _, col := range cols {
		if col.name == "manufacturer_id" {
			return nil
		}
	}

	slog.Info("adding missing products.manufacturer_id column")
	if _, err := db.Exec("ALTER TABLE products ADD COLUMN manufacturer_id INTEGER REFERENCES manufacturers(id)"); err != nil {
		return fmt.Errorf("adding column: %w", err)
	}

	// Existing rows get the first manufacturer so the foreign key holds.
	if _, err := db.Exec(`UPDATE products SET manufacturer_id = (SELECT MIN(id) FROM manufacturers) WHERE manufacturer_id IS NULL`); err != nil {
		slog.Warn("backfilling products.manufacturer_id failed", "error", err)
	}
	return nil
}
