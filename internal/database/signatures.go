package database

import (
	"database/sql"
	"fmt"
	"strings"
)

// SignatureFilter narrows ListSignatures. Zero values match everything.
type SignatureFilter struct {
	Name           string // substring, case-insensitive
	MalwareID      int64  // internal malware row id
	ManufacturerID int64  // internal manufacturer row id
}

func (db *DB) CreateSignature(s *Signature) error {
	if err := checkRequired(s); err != nil {
		return err
	}
	existing, err := db.GetSignatureByBusinessID(s.SignatureID)
	if err != nil {
		return err
	}
	if existing != nil {
		return &DuplicateIDError{ID: s.SignatureID}
	}

	res, err := db.Exec(
		`INSERT INTO signatures (signature_id, name, data, creation_date, malware_id, manufacturer_id)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		s.SignatureID, s.Name, s.Data, s.CreationDate, s.MalwareID, s.ManufacturerID,
	)
	if err != nil {
		return fmt.Errorf("insert signature: %w", err)
	}
	s.ID, _ = res.LastInsertId()
	return nil
}

func (db *DB) GetSignature(id int64) (*Signature, error) {
	return db.scanSignature(db.QueryRow(
		`SELECT id, signature_id, name, data, creation_date, malware_id, manufacturer_id
		 FROM signatures WHERE id = ?`, id))
}

func (db *DB) GetSignatureByBusinessID(businessID string) (*Signature, error) {
	return db.scanSignature(db.QueryRow(
		`SELECT id, signature_id, name, data, creation_date, malware_id, manufacturer_id
		 FROM signatures WHERE signature_id = ?`, businessID))
}

func (db *DB) scanSignature(row *sql.Row) (*Signature, error) {
	s := &Signature{}
	err := row.Scan(&s.ID, &s.SignatureID, &s.Name, &s.Data, &s.CreationDate,
		&s.MalwareID, &s.ManufacturerID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get signature: %w", err)
	}
	return s, nil
}

// ListSignatures returns signatures joined to their malware's and
// manufacturer's names. Both joins are LEFT: the manufacturer link is
// optional, and a dangling malware reference must not hide the row.
func (db *DB) ListSignatures(f SignatureFilter) ([]Signature, error) {
	query := `SELECT s.id, s.signature_id, s.name, s.data, s.creation_date,
	                 s.malware_id, s.manufacturer_id,
	                 COALESCE(w.malware_id, ''), COALESCE(w.name, ''), COALESCE(m.name, '')
	          FROM signatures s
	          LEFT JOIN malware w ON s.malware_id = w.id
	          LEFT JOIN manufacturers m ON s.manufacturer_id = m.id`

	var conds []string
	var args []any
	if f.Name != "" {
		conds = append(conds, "s.name LIKE ?")
		args = append(args, "%"+f.Name+"%")
	}
	if f.MalwareID != 0 {
		conds = append(conds, "s.malware_id = ?")
		args = append(args, f.MalwareID)
	}
	if f.ManufacturerID != 0 {
		conds = append(conds, "s.manufacturer_id = ?")
		args = append(args, f.ManufacturerID)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY s.signature_id"

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list signatures: %w", err)
	}
	defer rows.Close()

	var signatures []Signature
	for rows.Next() {
		var s Signature
		if err := rows.Scan(&s.ID, &s.SignatureID, &s.Name, &s.Data, &s.CreationDate,
			&s.MalwareID, &s.ManufacturerID, &s.MalwareBusinessID, &s.MalwareName, &s.ManufacturerName); err != nil {
			return nil, fmt.Errorf("scan signature: %w", err)
		}
		signatures = append(signatures, s)
	}
	return signatures, rows.Err()
}

// UpdateSignature overwrites the whole record identified by s.ID.
func (db *DB) UpdateSignature(s *Signature) error {
	if err := checkRequired(s); err != nil {
		return err
	}
	_, err := db.Exec(
		`UPDATE signatures SET signature_id = ?, name = ?, data = ?, creation_date = ?,
		        malware_id = ?, manufacturer_id = ? WHERE id = ?`,
		s.SignatureID, s.Name, s.Data, s.CreationDate, s.MalwareID, s.ManufacturerID, s.ID,
	)
	if err != nil {
		return fmt.Errorf("update signature: %w", err)
	}
	return nil
}

// DeleteSignature removes a signature. Signatures have no dependents.
func (db *DB) DeleteSignature(id int64) error {
	if _, err := db.Exec(`DELETE FROM signatures WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete signature: %w", err)
	}
	return nil
}
