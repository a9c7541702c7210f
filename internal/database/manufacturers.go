package database

import (
	"database/sql"
	"fmt"
	"strings"
)

// ManufacturerFilter narrows ListManufacturers. Zero values match everything.
type ManufacturerFilter struct {
	Name    string // substring, case-insensitive
	Country string // exact
}

func (db *DB) CreateManufacturer(m *Manufacturer) error {
	if err := checkRequired(m); err != nil {
		return err
	}
	existing, err := db.GetManufacturerByBusinessID(m.ManufacturerID)
	if err != nil {
		return err
	}
	if existing != nil {
		return &DuplicateIDError{ID: m.ManufacturerID}
	}

	res, err := db.Exec(
		`INSERT INTO manufacturers (manufacturer_id, name, description, country, website, image_path, creation_date)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.ManufacturerID, m.Name, m.Description, m.Country, m.Website, m.ImagePath, m.CreationDate,
	)
	if err != nil {
		return fmt.Errorf("insert manufacturer: %w", err)
	}
	m.ID, _ = res.LastInsertId()
	return nil
}

func (db *DB) GetManufacturer(id int64) (*Manufacturer, error) {
	return db.scanManufacturer(db.QueryRow(
		`SELECT id, manufacturer_id, name, description, country, website, image_path, creation_date
		 FROM manufacturers WHERE id = ?`, id))
}

func (db *DB) GetManufacturerByBusinessID(businessID string) (*Manufacturer, error) {
	return db.scanManufacturer(db.QueryRow(
		`SELECT id, manufacturer_id, name, description, country, website, image_path, creation_date
		 FROM manufacturers WHERE manufacturer_id = ?`, businessID))
}

func (db *DB) scanManufacturer(row *sql.Row) (*Manufacturer, error) {
	m := &Manufacturer{}
	err := row.Scan(&m.ID, &m.ManufacturerID, &m.Name, &m.Description, &m.Country,
		&m.Website, &m.ImagePath, &m.CreationDate)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get manufacturer: %w", err)
	}
	return m, nil
}

func (db *DB) ListManufacturers(f ManufacturerFilter) ([]Manufacturer, error) {
	query := `SELECT m.id, m.manufacturer_id, m.name, m.description, m.country, m.website,
	                 m.image_path, m.creation_date,
	                 (SELECT COUNT(*) FROM products p WHERE p.manufacturer_id = m.id) AS product_count
	          FROM manufacturers m`

	var conds []string
	var args []any
	if f.Name != "" {
		conds = append(conds, "m.name LIKE ?")
		args = append(args, "%"+f.Name+"%")
	}
	if f.Country != "" {
		conds = append(conds, "m.country = ?")
		args = append(args, f.Country)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY m.manufacturer_id"

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list manufacturers: %w", err)
	}
	defer rows.Close()

	var manufacturers []Manufacturer
	for rows.Next() {
		var m Manufacturer
		if err := rows.Scan(&m.ID, &m.ManufacturerID, &m.Name, &m.Description, &m.Country,
			&m.Website, &m.ImagePath, &m.CreationDate, &m.ProductCount); err != nil {
			return nil, fmt.Errorf("scan manufacturer: %w", err)
		}
		manufacturers = append(manufacturers, m)
	}
	return manufacturers, rows.Err()
}

// UpdateManufacturer overwrites the whole record identified by m.ID.
func (db *DB) UpdateManufacturer(m *Manufacturer) error {
	if err := checkRequired(m); err != nil {
		return err
	}
	_, err := db.Exec(
		`UPDATE manufacturers SET manufacturer_id = ?, name = ?, description = ?, country = ?,
		        website = ?, image_path = ?, creation_date = ? WHERE id = ?`,
		m.ManufacturerID, m.Name, m.Description, m.Country, m.Website, m.ImagePath, m.CreationDate, m.ID,
	)
	if err != nil {
		return fmt.Errorf("update manufacturer: %w", err)
	}
	return nil
}

// DeleteManufacturer refuses to delete a manufacturer that still owns
// products, reporting the dependent count.
func (db *DB) DeleteManufacturer(id int64) error {
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM products WHERE manufacturer_id = ?`, id).Scan(&count); err != nil {
		return fmt.Errorf("counting dependent products: %w", err)
	}
	if count > 0 {
		return &DependencyExistsError{Entity: "manufacturer", Dependent: "product", Count: count}
	}

	if _, err := db.Exec(`DELETE FROM manufacturers WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete manufacturer: %w", err)
	}
	return nil
}
