package database

import (
	"database/sql"
	"fmt"
	"strings"
)

// ProductFilter narrows ListProducts. Zero values match everything.
type ProductFilter struct {
	Name           string // substring, case-insensitive
	ManufacturerID int64  // internal manufacturer row id
}

func (db *DB) CreateProduct(p *Product) error {
	if err := checkRequired(p); err != nil {
		return err
	}
	existing, err := db.GetProductByBusinessID(p.ProductID)
	if err != nil {
		return err
	}
	if existing != nil {
		return &DuplicateIDError{ID: p.ProductID}
	}

	res, err := db.Exec(
		`INSERT INTO products (product_id, name, description, version, rating, release_date, image_path, manufacturer_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ProductID, p.Name, p.Description, p.Version, p.Rating, p.ReleaseDate, p.ImagePath, p.ManufacturerID,
	)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	p.ID, _ = res.LastInsertId()
	return nil
}

func (db *DB) GetProduct(id int64) (*Product, error) {
	return db.scanProduct(db.QueryRow(
		`SELECT p.id, p.product_id, p.name, p.description, p.version, p.rating,
		        p.release_date, p.image_path, p.manufacturer_id, m.name
		 FROM products p JOIN manufacturers m ON p.manufacturer_id = m.id
		 WHERE p.id = ?`, id))
}

func (db *DB) GetProductByBusinessID(businessID string) (*Product, error) {
	return db.scanProduct(db.QueryRow(
		`SELECT p.id, p.product_id, p.name, p.description, p.version, p.rating,
		        p.release_date, p.image_path, p.manufacturer_id, m.name
		 FROM products p JOIN manufacturers m ON p.manufacturer_id = m.id
		 WHERE p.product_id = ?`, businessID))
}

func (db *DB) scanProduct(row *sql.Row) (*Product, error) {
	p := &Product{}
	var release sql.NullTime
	err := row.Scan(&p.ID, &p.ProductID, &p.Name, &p.Description, &p.Version, &p.Rating,
		&release, &p.ImagePath, &p.ManufacturerID, &p.ManufacturerName)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if release.Valid {
		p.ReleaseDate = &release.Time
	}
	return p, nil
}

// ListProducts returns products joined to their manufacturer's name so
// display never needs per-row lookups.
func (db *DB) ListProducts(f ProductFilter) ([]Product, error) {
	query := `SELECT p.id, p.product_id, p.name, p.description, p.version, p.rating,
	                 p.release_date, p.image_path, p.manufacturer_id, m.name
	          FROM products p JOIN manufacturers m ON p.manufacturer_id = m.id`

	var conds []string
	var args []any
	if f.Name != "" {
		conds = append(conds, "p.name LIKE ?")
		args = append(args, "%"+f.Name+"%")
	}
	if f.ManufacturerID != 0 {
		conds = append(conds, "p.manufacturer_id = ?")
		args = append(args, f.ManufacturerID)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY p.product_id"

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		var release sql.NullTime
		if err := rows.Scan(&p.ID, &p.ProductID, &p.Name, &p.Description, &p.Version, &p.Rating,
			&release, &p.ImagePath, &p.ManufacturerID, &p.ManufacturerName); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		if release.Valid {
			p.ReleaseDate = &release.Time
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// UpdateProduct overwrites the whole record identified by p.ID.
func (db *DB) UpdateProduct(p *Product) error {
	if err := checkRequired(p); err != nil {
		return err
	}
	_, err := db.Exec(
		`UPDATE products SET product_id = ?, name = ?, description = ?, version = ?, rating = ?,
		        release_date = ?, image_path = ?, manufacturer_id = ? WHERE id = ?`,
		p.ProductID, p.Name, p.Description, p.Version, p.Rating, p.ReleaseDate, p.ImagePath, p.ManufacturerID, p.ID,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// DeleteProduct removes a product. Products have no dependents.
func (db *DB) DeleteProduct(id int64) error {
	if _, err := db.Exec(`DELETE FROM products WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}
