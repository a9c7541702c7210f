package report

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvolkova/avcatalog/internal/database"
)

// requireFont skips the test when no TTF font can be resolved on the host.
func requireFont(t *testing.T, g *Generator) {
	t.Helper()
	if _, _, err := g.resolveFonts(); err != nil {
		t.Skipf("skipping PDF test: %v", err)
	}
}

func assertPDFFile(t *testing.T, path string) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Greater(t, len(data), 4)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestWriteStatisticalReport(t *testing.T) {
	db := newTestCatalog(t)
	populateCatalog(t, db)

	dir := t.TempDir()
	gen := NewGenerator(db, dir, "", "")
	requireFont(t, gen)

	path := filepath.Join(dir, "statistical.pdf")
	require.NoError(t, gen.WriteStatisticalReport(path))
	assertPDFFile(t, path)
}

func TestWriteStatisticalReportEmptyCatalog(t *testing.T) {
	db := newTestCatalog(t)

	dir := t.TempDir()
	gen := NewGenerator(db, dir, "", "")
	requireFont(t, gen)

	path := filepath.Join(dir, "statistical-empty.pdf")
	require.NoError(t, gen.WriteStatisticalReport(path))
	assertPDFFile(t, path)
}

func TestWriteDetailedReport(t *testing.T) {
	db := newTestCatalog(t)
	populateCatalog(t, db)

	dir := t.TempDir()
	gen := NewGenerator(db, dir, "", "")
	requireFont(t, gen)

	path := filepath.Join(dir, "detailed.pdf")
	require.NoError(t, gen.WriteDetailedReport(path))
	assertPDFFile(t, path)
}

func TestWriteDetailedReportEmptyCatalog(t *testing.T) {
	db := newTestCatalog(t)

	dir := t.TempDir()
	gen := NewGenerator(db, dir, "", "")
	requireFont(t, gen)

	path := filepath.Join(dir, "detailed-empty.pdf")
	require.NoError(t, gen.WriteDetailedReport(path))
	assertPDFFile(t, path)
}

func TestWriteDetailedReportOrphanSignature(t *testing.T) {
	db := newTestCatalog(t)
	_, _, w, _ := populateCatalog(t, db)

	_, err := db.Exec("PRAGMA foreign_keys=OFF")
	require.NoError(t, err)
	_, err = db.Exec("UPDATE signatures SET malware_id = ? WHERE signature_id = 'SIG-0001'", w.ID+100)
	require.NoError(t, err)

	dir := t.TempDir()
	gen := NewGenerator(db, dir, "", "")
	requireFont(t, gen)

	// Orphaned rows render with placeholders instead of failing the export.
	path := filepath.Join(dir, "detailed-orphan.pdf")
	require.NoError(t, gen.WriteDetailedReport(path))
	assertPDFFile(t, path)
}

func TestGeneralStatisticsRows(t *testing.T) {
	counts := &database.CatalogCounts{
		Manufacturers: 3,
		Products:      4,
		Malware:       2,
		Signatures:    5,
		Countries:     3,
		MalwareTypes:  2,
		ByThreatLevel: map[string]int{database.ThreatCritical: 1},
	}

	rows := generalStatisticsRows(counts, 2)
	require.Len(t, rows, 8)
	assert.Equal(t, []string{"Total manufacturers", "3"}, rows[0])
	assert.Equal(t, []string{"Total antivirus products", "4"}, rows[1])
	assert.Equal(t, []string{"Total malware", "2"}, rows[2])
	assert.Equal(t, []string{"Total detection signatures", "5"}, rows[3])
	assert.Equal(t, []string{"Critical threats", "1"}, rows[5])
	assert.Equal(t, []string{"New products in the last 30 days", "2"}, rows[7])
}

func TestSignatureListingRowsResolvesNames(t *testing.T) {
	db := newTestCatalog(t)
	populateCatalog(t, db)

	gen := NewGenerator(db, t.TempDir(), "", "")
	signatures, err := db.ListSignatures(database.SignatureFilter{})
	require.NoError(t, err)

	rows := gen.signatureListingRows(signatures)
	require.Len(t, rows, 1)
	assert.Equal(t, "SIG-0001", rows[0][0])
	assert.Equal(t, "MAL-0001 - WannaCry", rows[0][2])
	assert.Equal(t, "Kaspersky Lab", rows[0][3])
}

func TestSignatureListingRowsPlaceholders(t *testing.T) {
	db := newTestCatalog(t)
	_, _, w, _ := populateCatalog(t, db)

	// Break the malware link and drop the manufacturer link entirely.
	_, err := db.Exec("PRAGMA foreign_keys=OFF")
	require.NoError(t, err)
	_, err = db.Exec("UPDATE signatures SET malware_id = ?, manufacturer_id = NULL WHERE signature_id = 'SIG-0001'", w.ID+100)
	require.NoError(t, err)

	gen := NewGenerator(db, t.TempDir(), "", "")
	signatures, err := db.ListSignatures(database.SignatureFilter{})
	require.NoError(t, err)

	rows := gen.signatureListingRows(signatures)
	require.Len(t, rows, 1)
	assert.Equal(t, "Malware not found", rows[0][2])
	assert.Equal(t, "Not specified", rows[0][3])

	// A manufacturer link pointing at a missing row gets its own placeholder.
	_, err = db.Exec("UPDATE signatures SET manufacturer_id = 999 WHERE signature_id = 'SIG-0001'")
	require.NoError(t, err)
	signatures, err = db.ListSignatures(database.SignatureFilter{})
	require.NoError(t, err)

	rows = gen.signatureListingRows(signatures)
	require.Len(t, rows, 1)
	assert.Equal(t, "Manufacturer not found", rows[0][3])
}

func TestFmtDate(t *testing.T) {
	assert.Equal(t, "N/A", fmtDate(nil))

	when := time.Date(2023, 5, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "10.05.2023", fmtDate(&when))
}

func TestResolveFontsMissingEverything(t *testing.T) {
	db := newTestCatalog(t)
	gen := NewGenerator(db, t.TempDir(), filepath.Join(t.TempDir(), "missing.ttf"), "")

	// The configured path does not exist; resolution falls through to the
	// well-known candidates and errors only when none of those exist either.
	regular, _, err := gen.resolveFonts()
	if err != nil {
		assert.Empty(t, regular)
		return
	}
	assert.NotEmpty(t, regular)
}
