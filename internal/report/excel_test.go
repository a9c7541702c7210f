package report

import (
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/nvolkova/avcatalog/internal/database"
)

func newTestCatalog(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

// populateCatalog inserts one record of each entity and returns the ids.
func populateCatalog(t *testing.T, db *database.DB) (*database.Manufacturer, *database.Product, *database.Malware, *database.Signature) {
	t.Helper()

	release := time.Date(2023, 5, 10, 0, 0, 0, 0, time.UTC)
	discovered := time.Date(2017, 5, 12, 0, 0, 0, 0, time.UTC)

	m := &database.Manufacturer{
		ManufacturerID: "MAN-0001",
		Name:           "Kaspersky Lab",
		Description:    "Cyber threat protection systems",
		Country:        "Russia",
		Website:        "https://www.kaspersky.com",
		CreationDate:   time.Now(),
	}
	require.NoError(t, db.CreateManufacturer(m))

	p := &database.Product{
		ProductID:      "PROD-0001",
		Name:           "Kaspersky Internet Security",
		Description:    "Consumer security suite",
		Version:        "21.3",
		Rating:         "4.7",
		ReleaseDate:    &release,
		ManufacturerID: m.ID,
	}
	require.NoError(t, db.CreateProduct(p))

	w := &database.Malware{
		MalwareID:     "MAL-0001",
		Name:          "WannaCry",
		Description:   "Ransomware worm",
		ThreatLevel:   database.ThreatCritical,
		DiscoveryDate: &discovered,
		MalwareType:   "Ransomware",
	}
	require.NoError(t, db.CreateMalware(w))

	s := &database.Signature{
		SignatureID:    "SIG-0001",
		Name:           "WannaCry Signature",
		Data:           "4D5A90000300000004000000FFFF0000",
		CreationDate:   time.Now(),
		MalwareID:      w.ID,
		ManufacturerID: &m.ID,
	}
	require.NoError(t, db.CreateSignature(s))

	return m, p, w, s
}

// labeledValue finds the row whose first cell equals label and returns the
// second cell, as formatted by the workbook.
func labeledValue(t *testing.T, f *excelize.File, sheet, label string) string {
	t.Helper()
	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	for _, row := range rows {
		if len(row) > 1 && row[0] == label {
			return row[1]
		}
	}
	t.Fatalf("no row labeled %q on sheet %q", label, sheet)
	return ""
}

// countIDRows counts data rows on a sheet whose first cell carries the
// given business id prefix.
func countIDRows(t *testing.T, f *excelize.File, sheet, prefix string) int {
	t.Helper()
	pattern := regexp.MustCompile("^" + prefix + `-\d{4}$`)
	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	n := 0
	for _, row := range rows {
		if len(row) > 0 && pattern.MatchString(row[0]) {
			n++
		}
	}
	return n
}

func sheetContains(t *testing.T, f *excelize.File, sheet, want string) bool {
	t.Helper()
	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	for _, row := range rows {
		for _, cell := range row {
			if cell == want {
				return true
			}
		}
	}
	return false
}

func TestWriteWorkbook(t *testing.T) {
	db := newTestCatalog(t)
	populateCatalog(t, db)

	dir := t.TempDir()
	gen := NewGenerator(db, dir, "", "")
	path := filepath.Join(dir, "catalog.xlsx")
	require.NoError(t, gen.WriteWorkbook(path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"Catalog Data", "Analytics", "Visualization"}, f.GetSheetList())

	title, err := f.GetCellValue("Catalog Data", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Antivirus Signature Catalog", title)

	assert.True(t, sheetContains(t, f, "Catalog Data", "Kaspersky Lab"))
	assert.True(t, sheetContains(t, f, "Catalog Data", "Kaspersky Internet Security"))
	assert.True(t, sheetContains(t, f, "Catalog Data", "WannaCry"))
	assert.True(t, sheetContains(t, f, "Catalog Data", "MAL-0001 - WannaCry"))

	analyticsTitle, err := f.GetCellValue("Analytics", "A1")
	require.NoError(t, err)
	assert.Equal(t, "CATALOG ANALYTICS", analyticsTitle)
	assert.True(t, sheetContains(t, f, "Analytics", "Kaspersky Lab"))

	vizTitle, err := f.GetCellValue("Visualization", "A1")
	require.NoError(t, err)
	assert.Equal(t, "CATALOG AT A GLANCE", vizTitle)
}

func TestWriteWorkbookSummaryTotals(t *testing.T) {
	db := newTestCatalog(t)
	populateCatalog(t, db)

	dir := t.TempDir()
	gen := NewGenerator(db, dir, "", "")
	path := filepath.Join(dir, "totals.xlsx")
	require.NoError(t, gen.WriteWorkbook(path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	// Summary block on the analytics sheet reports one of each entity.
	assert.Equal(t, "1", labeledValue(t, f, "Analytics", "Total manufacturers"))
	assert.Equal(t, "1", labeledValue(t, f, "Analytics", "Total antivirus products"))
	assert.Equal(t, "1", labeledValue(t, f, "Analytics", "Total malware"))
	assert.Equal(t, "1", labeledValue(t, f, "Analytics", "Total signatures"))

	// The raw-data sheet carries exactly one row per entity.
	assert.Equal(t, 1, countIDRows(t, f, "Catalog Data", "MAN"))
	assert.Equal(t, 1, countIDRows(t, f, "Catalog Data", "PROD"))
	assert.Equal(t, 1, countIDRows(t, f, "Catalog Data", "MAL"))
	assert.Equal(t, 1, countIDRows(t, f, "Catalog Data", "SIG"))
}

func TestWriteWorkbookEmptyCatalog(t *testing.T) {
	db := newTestCatalog(t)

	dir := t.TempDir()
	gen := NewGenerator(db, dir, "", "")
	path := filepath.Join(dir, "empty.xlsx")
	require.NoError(t, gen.WriteWorkbook(path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	// Section banners are present even without catalog rows.
	assert.True(t, sheetContains(t, f, "Catalog Data", "ANTIVIRUS MANUFACTURERS"))
	assert.True(t, sheetContains(t, f, "Visualization", "No release date data available for the trend chart"))
}

func TestWriteWorkbookOrphanSignature(t *testing.T) {
	db := newTestCatalog(t)
	_, _, w, _ := populateCatalog(t, db)

	_, err := db.Exec("PRAGMA foreign_keys=OFF")
	require.NoError(t, err)
	_, err = db.Exec("UPDATE signatures SET malware_id = ? WHERE signature_id = 'SIG-0001'", w.ID+100)
	require.NoError(t, err)

	dir := t.TempDir()
	gen := NewGenerator(db, dir, "", "")
	path := filepath.Join(dir, "orphan.xlsx")
	require.NoError(t, gen.WriteWorkbook(path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.True(t, sheetContains(t, f, "Catalog Data", "Malware not found"))
}

func TestExportWorkbookCreatesDirectory(t *testing.T) {
	db := newTestCatalog(t)
	populateCatalog(t, db)

	dir := filepath.Join(t.TempDir(), "exports")
	gen := NewGenerator(db, dir, "", "")

	path, err := gen.ExportWorkbook()
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.Equal(t, ".xlsx", filepath.Ext(path))
}
