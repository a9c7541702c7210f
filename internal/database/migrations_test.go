package database

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execLegacySchema prepares a database file shaped like an old deployment
// before the drift corrections existed.
func execLegacySchema(t *testing.T, path string, stmts ...string) {
	t.Helper()
	raw, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer raw.Close()
	for _, stmt := range stmts {
		_, err := raw.Exec(stmt)
		require.NoError(t, err)
	}
}

func columnType(t *testing.T, db *DB, table, column string) (string, bool) {
	t.Helper()
	cols, err := db.tableColumns(table)
	require.NoError(t, err)
	for _, col := range cols {
		if col.name == column {
			return col.declType, true
		}
	}
	return "", false
}

func TestSignatureManufacturerColumnDriftCorrected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.db")
	execLegacySchema(t, path,
		`CREATE TABLE signatures (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			signature_id TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			data TEXT NOT NULL,
			creation_date DATETIME NOT NULL,
			malware_id INTEGER NOT NULL,
			manufacturer_id TEXT
		)`,
	)

	db, err := New(path)
	require.NoError(t, err)
	defer db.Close()

	typ, ok := columnType(t, db, "signatures", "manufacturer_id")
	require.True(t, ok)
	assert.Contains(t, typ, "INT")
}

func TestSignatureManufacturerColumnLeftAloneWhenCorrect(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")

	db, err := New(path)
	require.NoError(t, err)
	m := addManufacturer(t, db, "MAN-0001", "Norton", "USA")
	w := addMalware(t, db, "MAL-0001", "WannaCry", ThreatCritical, "Ransomware", nil)
	addSignature(t, db, "SIG-0001", "WannaCry Signature", w.ID, &m.ID)
	db.Close()

	// Reopening runs the drift check against an already-correct schema.
	db, err = New(path)
	require.NoError(t, err)
	defer db.Close()

	s, err := db.GetSignatureByBusinessID("SIG-0001")
	require.NoError(t, err)
	require.NotNil(t, s)
	require.NotNil(t, s.ManufacturerID)
	assert.Equal(t, m.ID, *s.ManufacturerID)
}

func TestProductManufacturerColumnAddedAndBackfilled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.db")
	execLegacySchema(t, path,
		`CREATE TABLE manufacturers (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			manufacturer_id TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			description TEXT DEFAULT '',
			country TEXT NOT NULL,
			website TEXT NOT NULL,
			image_path TEXT,
			creation_date DATETIME NOT NULL
		)`,
		`INSERT INTO manufacturers (manufacturer_id, name, description, country, website, creation_date)
		 VALUES ('MAN-0001', 'Kaspersky Lab', '', 'Russia', 'https://www.kaspersky.com', '2020-01-01T00:00:00Z')`,
		`CREATE TABLE products (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			product_id TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			description TEXT DEFAULT '',
			version TEXT NOT NULL,
			rating TEXT NOT NULL,
			release_date DATETIME,
			image_path TEXT
		)`,
		`INSERT INTO products (product_id, name, description, version, rating)
		 VALUES ('PROD-0001', 'Kaspersky Internet Security', '', '21.3', '4.7')`,
	)

	db, err := New(path)
	require.NoError(t, err)
	defer db.Close()

	_, ok := columnType(t, db, "products", "manufacturer_id")
	require.True(t, ok)

	p, err := db.GetProductByBusinessID("PROD-0001")
	require.NoError(t, err)
	require.NotNil(t, p)

	m, err := db.GetManufacturerByBusinessID("MAN-0001")
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, m.ID, p.ManufacturerID)
}
