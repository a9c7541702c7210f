package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextIDEmptyCatalog(t *testing.T) {
	db := newTestDB(t)

	id, err := db.NextManufacturerID()
	require.NoError(t, err)
	assert.Equal(t, "MAN-0001", id)

	id, err = db.NextProductID()
	require.NoError(t, err)
	assert.Equal(t, "PROD-0001", id)

	id, err = db.NextMalwareID()
	require.NoError(t, err)
	assert.Equal(t, "MAL-0001", id)

	id, err = db.NextSignatureID()
	require.NoError(t, err)
	assert.Equal(t, "SIG-0001", id)
}

func TestNextIDSequential(t *testing.T) {
	db := newTestDB(t)
	addManufacturer(t, db, "MAN-0001", "Kaspersky Lab", "Russia")
	addManufacturer(t, db, "MAN-0002", "Norton", "USA")

	id, err := db.NextManufacturerID()
	require.NoError(t, err)
	assert.Equal(t, "MAN-0003", id)
}

func TestNextIDContinuesFromMax(t *testing.T) {
	db := newTestDB(t)
	addManufacturer(t, db, "MAN-0042", "Bitdefender", "Romania")

	id, err := db.NextManufacturerID()
	require.NoError(t, err)
	assert.Equal(t, "MAN-0043", id)
}

func TestNextIDUnparseableMaxFallsBackToSeed(t *testing.T) {
	db := newTestDB(t)

	// A legacy row whose id does not follow the PREFIX-NNNN convention.
	_, err := db.Exec(
		`INSERT INTO manufacturers (manufacturer_id, name, description, country, website, creation_date)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		"legacy-key", "Old Vendor", "imported", "Unknown", "https://example.com", time.Now(),
	)
	require.NoError(t, err)

	id, err := db.NextManufacturerID()
	require.NoError(t, err)
	assert.Equal(t, "MAN-0001", id)
}
