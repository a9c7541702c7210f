package database

import (
	"database/sql"
	"fmt"
	"strings"
)

// MalwareFilter narrows ListMalware. Zero values match everything.
type MalwareFilter struct {
	Name        string // substring, case-insensitive
	ThreatLevel string // exact
	MalwareType string // exact
}

func (db *DB) CreateMalware(m *Malware) error {
	if err := checkRequired(m); err != nil {
		return err
	}
	existing, err := db.GetMalwareByBusinessID(m.MalwareID)
	if err != nil {
		return err
	}
	if existing != nil {
		return &DuplicateIDError{ID: m.MalwareID}
	}

	res, err := db.Exec(
		`INSERT INTO malware (malware_id, name, description, threat_level, discovery_date, malware_type)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		m.MalwareID, m.Name, m.Description, m.ThreatLevel, m.DiscoveryDate, m.MalwareType,
	)
	if err != nil {
		return fmt.Errorf("insert malware: %w", err)
	}
	m.ID, _ = res.LastInsertId()
	return nil
}

func (db *DB) GetMalware(id int64) (*Malware, error) {
	return db.scanMalware(db.QueryRow(
		`SELECT id, malware_id, name, description, threat_level, discovery_date, malware_type
		 FROM malware WHERE id = ?`, id))
}

func (db *DB) GetMalwareByBusinessID(businessID string) (*Malware, error) {
	return db.scanMalware(db.QueryRow(
		`SELECT id, malware_id, name, description, threat_level, discovery_date, malware_type
		 FROM malware WHERE malware_id = ?`, businessID))
}

func (db *DB) scanMalware(row *sql.Row) (*Malware, error) {
	m := &Malware{}
	var discovered sql.NullTime
	err := row.Scan(&m.ID, &m.MalwareID, &m.Name, &m.Description, &m.ThreatLevel,
		&discovered, &m.MalwareType)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get malware: %w", err)
	}
	if discovered.Valid {
		m.DiscoveryDate = &discovered.Time
	}
	return m, nil
}

func (db *DB) ListMalware(f MalwareFilter) ([]Malware, error) {
	query := `SELECT w.id, w.malware_id, w.name, w.description, w.threat_level,
	                 w.discovery_date, w.malware_type,
	                 (SELECT COUNT(*) FROM signatures s WHERE s.malware_id = w.id) AS signature_count
	          FROM malware w`

	var conds []string
	var args []any
	if f.Name != "" {
		conds = append(conds, "w.name LIKE ?")
		args = append(args, "%"+f.Name+"%")
	}
	if f.ThreatLevel != "" {
		conds = append(conds, "w.threat_level = ?")
		args = append(args, f.ThreatLevel)
	}
	if f.MalwareType != "" {
		conds = append(conds, "w.malware_type = ?")
		args = append(args, f.MalwareType)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY w.malware_id"

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list malware: %w", err)
	}
	defer rows.Close()

	var entries []Malware
	for rows.Next() {
		var m Malware
		var discovered sql.NullTime
		if err := rows.Scan(&m.ID, &m.MalwareID, &m.Name, &m.Description, &m.ThreatLevel,
			&discovered, &m.MalwareType, &m.SignatureCount); err != nil {
			return nil, fmt.Errorf("scan malware: %w", err)
		}
		if discovered.Valid {
			m.DiscoveryDate = &discovered.Time
		}
		entries = append(entries, m)
	}
	return entries, rows.Err()
}

// UpdateMalware overwrites the whole record identified by m.ID.
func (db *DB) UpdateMalware(m *Malware) error {
	if err := checkRequired(m); err != nil {
		return err
	}
	_, err := db.Exec(
		`UPDATE malware SET malware_id = ?, name = ?, description = ?, threat_level = ?,
		        discovery_date = ?, malware_type = ? WHERE id = ?`,
		m.MalwareID, m.Name, m.Description, m.ThreatLevel, m.DiscoveryDate, m.MalwareType, m.ID,
	)
	if err != nil {
		return fmt.Errorf("update malware: %w", err)
	}
	return nil
}

// DeleteMalware refuses to delete malware that still has signatures,
// reporting the dependent count.
func (db *DB) DeleteMalware(id int64) error {
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM signatures WHERE malware_id = ?`, id).Scan(&count); err != nil {
		return fmt.Errorf("counting dependent signatures: %w", err)
	}
	if count > 0 {
		return &DependencyExistsError{Entity: "malware", Dependent: "signature", Count: count}
	}

	if _, err := db.Exec(`DELETE FROM malware WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete malware: %w", err)
	}
	return nil
}
