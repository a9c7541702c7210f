package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarketShare(t *testing.T) {
	stats := []ManufacturerStat{
		{Name: "A", ProductCount: 3},
		{Name: "B", ProductCount: 1},
		{Name: "C", ProductCount: 0},
	}
	total := 4

	assert.InDelta(t, 0.75, stats[0].MarketShare(total), 1e-9)
	assert.InDelta(t, 0.25, stats[1].MarketShare(total), 1e-9)
	assert.Zero(t, stats[2].MarketShare(total))

	// No products at all never divides by zero.
	assert.Zero(t, stats[0].MarketShare(0))
}

func TestCatalogCounts(t *testing.T) {
	db := newTestDB(t)
	a := addManufacturer(t, db, "MAN-0001", "Kaspersky Lab", "Russia")
	addManufacturer(t, db, "MAN-0002", "Norton", "USA")
	addManufacturer(t, db, "MAN-0003", "Bitdefender", "Romania")
	addProduct(t, db, "PROD-0001", "Kaspersky Internet Security", a.ID, nil)
	addMalware(t, db, "MAL-0001", "WannaCry", ThreatCritical, "Ransomware", nil)
	addMalware(t, db, "MAL-0002", "Trojan.Win32.Generic", ThreatHigh, "Trojan", nil)
	addMalware(t, db, "MAL-0003", "Emotet", ThreatHigh, "Trojan", nil)

	counts, err := db.GetCatalogCounts()
	require.NoError(t, err)
	assert.Equal(t, 3, counts.Manufacturers)
	assert.Equal(t, 1, counts.Products)
	assert.Equal(t, 3, counts.Malware)
	assert.Equal(t, 0, counts.Signatures)
	assert.Equal(t, 3, counts.Countries)
	assert.Equal(t, 2, counts.MalwareTypes)
	assert.Equal(t, 1, counts.ByThreatLevel[ThreatCritical])
	assert.Equal(t, 2, counts.ByThreatLevel[ThreatHigh])
	assert.Equal(t, 0, counts.ByThreatLevel[ThreatLow])
}

func TestManufacturerProductCounts(t *testing.T) {
	db := newTestDB(t)
	a := addManufacturer(t, db, "MAN-0001", "Kaspersky Lab", "Russia")
	b := addManufacturer(t, db, "MAN-0002", "Norton", "USA")
	addProduct(t, db, "PROD-0001", "Kaspersky Internet Security", a.ID, nil)
	addProduct(t, db, "PROD-0002", "Kaspersky Total Security", a.ID, nil)
	addProduct(t, db, "PROD-0003", "Norton 360", b.ID, nil)

	stats, err := db.ManufacturerProductCounts()
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, "Kaspersky Lab", stats[0].Name)
	assert.Equal(t, 2, stats[0].ProductCount)
	assert.Equal(t, "Norton", stats[1].Name)
	assert.Equal(t, 1, stats[1].ProductCount)
}

func TestMalwareTypeStats(t *testing.T) {
	db := newTestDB(t)
	tenDaysAgo := time.Now().AddDate(0, 0, -10)
	twentyDaysAgo := time.Now().AddDate(0, 0, -20)
	addMalware(t, db, "MAL-0001", "Trojan.Win32.Generic", ThreatHigh, "Trojan", &tenDaysAgo)
	addMalware(t, db, "MAL-0002", "Emotet", ThreatHigh, "Trojan", &twentyDaysAgo)
	addMalware(t, db, "MAL-0003", "Zeus", ThreatCritical, "Trojan", nil)
	addMalware(t, db, "MAL-0004", "Conficker", ThreatMedium, "Worm", nil)

	stats, err := db.MalwareTypeStats()
	require.NoError(t, err)
	require.Len(t, stats, 2)

	trojan := stats[0]
	assert.Equal(t, "Trojan", trojan.MalwareType)
	assert.Equal(t, 3, trojan.Count)
	assert.Equal(t, ThreatHigh, trojan.TopThreatLevel)
	assert.Equal(t, 15, trojan.AvgAgeDays)

	worm := stats[1]
	assert.Equal(t, "Worm", worm.MalwareType)
	assert.Equal(t, 1, worm.Count)
	assert.Equal(t, ThreatMedium, worm.TopThreatLevel)
	// No discovery dates in the type.
	assert.Zero(t, worm.AvgAgeDays)
}

func TestReleaseYearCounts(t *testing.T) {
	db := newTestDB(t)
	m := addManufacturer(t, db, "MAN-0001", "Norton", "USA")
	d2022 := time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC)
	d2024a := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	d2024b := time.Date(2024, 11, 2, 0, 0, 0, 0, time.UTC)
	addProduct(t, db, "PROD-0001", "Norton 360", m.ID, &d2022)
	addProduct(t, db, "PROD-0002", "Norton AntiVirus Plus", m.ID, &d2024a)
	addProduct(t, db, "PROD-0003", "Norton Secure VPN", m.ID, &d2024b)
	addProduct(t, db, "PROD-0004", "Norton Utilities", m.ID, nil)

	years, err := db.ReleaseYearCounts()
	require.NoError(t, err)
	require.Len(t, years, 2)
	assert.Equal(t, YearCount{Year: 2022, Count: 1}, years[0])
	assert.Equal(t, YearCount{Year: 2024, Count: 2}, years[1])
}

func TestRecentProductCount(t *testing.T) {
	db := newTestDB(t)
	m := addManufacturer(t, db, "MAN-0001", "Norton", "USA")
	fiveDaysAgo := time.Now().AddDate(0, 0, -5)
	sixtyDaysAgo := time.Now().AddDate(0, 0, -60)
	addProduct(t, db, "PROD-0001", "Norton 360", m.ID, &fiveDaysAgo)
	addProduct(t, db, "PROD-0002", "Norton AntiVirus Plus", m.ID, &sixtyDaysAgo)
	addProduct(t, db, "PROD-0003", "Norton Utilities", m.ID, nil)

	n, err := db.RecentProductCount(30)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
