package database

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
)

// nextID computes the next business id for a table as max(numeric suffix)+1
// in PREFIX-NNNN form. An empty table, or a stored maximum that does not
// parse as PREFIX-number, yields the seed id PREFIX-0001. Pure read, no
// side effects.
func (db *DB) nextID(table, column, prefix string) (string, error) {
	seed := fmt.Sprintf("%s-0001", prefix)

	var maxID sql.NullString
	query := fmt.Sprintf("SELECT MAX(%s) FROM %s", column, table)
	if err := db.QueryRow(query).Scan(&maxID); err != nil {
		return "", fmt.Errorf("reading max %s: %w", column, err)
	}
	if !maxID.Valid || maxID.String == "" {
		return seed, nil
	}

	suffix, ok := strings.CutPrefix(maxID.String, prefix+"-")
	if !ok {
		return seed, nil
	}
	n, err := strconv.Atoi(suffix)
	if err != nil {
		return seed, nil
	}
	return fmt.Sprintf("%s-%04d", prefix, n+1), nil
}

func (db *DB) NextManufacturerID() (string, error) {
	return db.nextID("manufacturers", "manufacturer_id", ManufacturerIDPrefix)
}

func (db *DB) NextProductID() (string, error) {
	return db.nextID("products", "product_id", ProductIDPrefix)
}

func (db *DB) NextMalwareID() (string, error) {
	return db.nextID("malware", "malware_id", MalwareIDPrefix)
}

func (db *DB) NextSignatureID() (string, error) {
	return db.nextID("signatures", "signature_id", SignatureIDPrefix)
}
