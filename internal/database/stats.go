package database

import (
	"database/sql"
	"fmt"
	"sort"
	"time"
)

// CatalogCounts is the global summary block shared by the dashboard and
// both report families.
type CatalogCounts struct {
	Manufacturers int `json:"manufacturers"`
	Products      int `json:"products"`
	Malware       int `json:"malware"`
	Signatures    int `json:"signatures"`
	Countries     int `json:"countries"`
	MalwareTypes  int `json:"malware_types"`

	// Per-threat-level malware counts, keyed by ThreatLevels values.
	ByThreatLevel map[string]int `json:"by_threat_level"`
}

func (db *DB) GetCatalogCounts() (*CatalogCounts, error) {
	c := &CatalogCounts{ByThreatLevel: make(map[string]int)}

	counts := []struct {
		query string
		dest  *int
	}{
		{`SELECT COUNT(*) FROM manufacturers`, &c.Manufacturers},
		{`SELECT COUNT(*) FROM products`, &c.Products},
		{`SELECT COUNT(*) FROM malware`, &c.Malware},
		{`SELECT COUNT(*) FROM signatures`, &c.Signatures},
		{`SELECT COUNT(DISTINCT country) FROM manufacturers`, &c.Countries},
		{`SELECT COUNT(DISTINCT malware_type) FROM malware`, &c.MalwareTypes},
	}
	for _, q := range counts {
		if err := db.QueryRow(q.query).Scan(q.dest); err != nil {
			return nil, fmt.Errorf("catalog counts: %w", err)
		}
	}

	for _, level := range ThreatLevels {
		var n int
		if err := db.QueryRow(`SELECT COUNT(*) FROM malware WHERE threat_level = ?`, level).Scan(&n); err != nil {
			return nil, fmt.Errorf("threat level counts: %w", err)
		}
		c.ByThreatLevel[level] = n
	}

	return c, nil
}

// ManufacturerStat is one row of the per-manufacturer product distribution.
type ManufacturerStat struct {
	Name         string `json:"name"`
	Country      string `json:"country"`
	ProductCount int    `json:"product_count"`
}

// MarketShare returns the manufacturer's share of totalProducts as a
// fraction in [0, 1]. Zero when there are no products at all.
func (s ManufacturerStat) MarketShare(totalProducts int) float64 {
	if totalProducts == 0 {
		return 0
	}
	return float64(s.ProductCount) / float64(totalProducts)
}

func (db *DB) ManufacturerProductCounts() ([]ManufacturerStat, error) {
	rows, err := db.Query(
		`SELECT m.name, m.country,
		        (SELECT COUNT(*) FROM products p WHERE p.manufacturer_id = m.id)
		 FROM manufacturers m ORDER BY m.manufacturer_id`)
	if err != nil {
		return nil, fmt.Errorf("manufacturer product counts: %w", err)
	}
	defer rows.Close()

	var stats []ManufacturerStat
	for rows.Next() {
		var s ManufacturerStat
		if err := rows.Scan(&s.Name, &s.Country, &s.ProductCount); err != nil {
			return nil, fmt.Errorf("scan manufacturer stat: %w", err)
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// MalwareTypeStat is one row of the per-type malware breakdown.
type MalwareTypeStat struct {
	MalwareType string `json:"malware_type"`
	Count       int    `json:"count"`
	// TopThreatLevel is the most common threat level within the type. Ties
	// resolve to whichever level the store groups first.
	TopThreatLevel string `json:"top_threat_level"`
	// AvgAgeDays is the mean of (today - discovery_date) in days over rows
	// with a discovery date, truncated to an integer. Zero when no row in
	// the type has a discovery date.
	AvgAgeDays int `json:"avg_age_days"`
}

func (db *DB) MalwareTypeStats() ([]MalwareTypeStat, error) {
	rows, err := db.Query(
		`SELECT malware_type, COUNT(*) FROM malware GROUP BY malware_type ORDER BY malware_type`)
	if err != nil {
		return nil, fmt.Errorf("malware type counts: %w", err)
	}
	defer rows.Close()

	var stats []MalwareTypeStat
	for rows.Next() {
		var s MalwareTypeStat
		if err := rows.Scan(&s.MalwareType, &s.Count); err != nil {
			return nil, fmt.Errorf("scan malware type stat: %w", err)
		}
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	today := time.Now()
	for i := range stats {
		var top sql.NullString
		err := db.QueryRow(
			`SELECT threat_level FROM malware WHERE malware_type = ?
			 GROUP BY threat_level ORDER BY COUNT(*) DESC LIMIT 1`,
			stats[i].MalwareType).Scan(&top)
		if err != nil && err != sql.ErrNoRows {
			return nil, fmt.Errorf("top threat level: %w", err)
		}
		stats[i].TopThreatLevel = top.String

		age, err := db.avgAgeDays(stats[i].MalwareType, today)
		if err != nil {
			return nil, err
		}
		stats[i].AvgAgeDays = age
	}
	return stats, nil
}

func (db *DB) avgAgeDays(malwareType string, today time.Time) (int, error) {
	rows, err := db.Query(
		`SELECT discovery_date FROM malware WHERE malware_type = ? AND discovery_date IS NOT NULL`,
		malwareType)
	if err != nil {
		return 0, fmt.Errorf("discovery dates: %w", err)
	}
	defer rows.Close()

	totalDays, count := 0, 0
	for rows.Next() {
		var discovered time.Time
		if err := rows.Scan(&discovered); err != nil {
			return 0, fmt.Errorf("scan discovery date: %w", err)
		}
		totalDays += int(today.Sub(discovered).Hours() / 24)
		count++
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, nil
	}
	return totalDays / count, nil
}

// YearCount is the number of products released in a single year.
type YearCount struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

// ReleaseYearCounts groups products by release year, ascending. Rows
// without a release date are skipped. The grouping happens in Go: the
// driver stores time.Time in a format SQLite's date functions do not parse.
func (db *DB) ReleaseYearCounts() ([]YearCount, error) {
	rows, err := db.Query(`SELECT release_date FROM products WHERE release_date IS NOT NULL`)
	if err != nil {
		return nil, fmt.Errorf("release year counts: %w", err)
	}
	defer rows.Close()

	byYear := make(map[int]int)
	for rows.Next() {
		var released time.Time
		if err := rows.Scan(&released); err != nil {
			return nil, fmt.Errorf("scan release date: %w", err)
		}
		byYear[released.Year()]++
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	years := make([]YearCount, 0, len(byYear))
	for y, n := range byYear {
		years = append(years, YearCount{Year: y, Count: n})
	}
	sort.Slice(years, func(i, j int) bool { return years[i].Year < years[j].Year })
	return years, nil
}

// RecentProductCount counts products released within the last `days` days.
// Compared in Go for the same reason as ReleaseYearCounts.
func (db *DB) RecentProductCount(days int) (int, error) {
	rows, err := db.Query(`SELECT release_date FROM products WHERE release_date IS NOT NULL`)
	if err != nil {
		return 0, fmt.Errorf("recent product count: %w", err)
	}
	defer rows.Close()

	cutoff := time.Now().AddDate(0, 0, -days)
	n := 0
	for rows.Next() {
		var released time.Time
		if err := rows.Scan(&released); err != nil {
			return 0, fmt.Errorf("scan release date: %w", err)
		}
		if !released.Before(cutoff) {
			n++
		}
	}
	return n, rows.Err()
}
