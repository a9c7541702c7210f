package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/nvolkova/avcatalog/internal/database"
)

// Generator renders the current catalog into export documents. It only
// reads the store; concurrent exports never conflict beyond sharing the
// output directory.
type Generator struct {
	db       *database.DB
	dir      string
	font     string
	boldFont string
}

func NewGenerator(db *database.DB, dir, font, boldFont string) *Generator {
	return &Generator{db: db, dir: dir, font: font, boldFont: boldFont}
}

// ExportWorkbook writes the three-sheet spreadsheet export into the
// configured directory under a timestamped name and returns the path.
func (g *Generator) ExportWorkbook() (string, error) {
	path := g.exportPath("catalog", "xlsx")
	if err := g.WriteWorkbook(path); err != nil {
		return "", err
	}
	return path, nil
}

// ExportStatisticalReport writes the statistical PDF into the configured
// directory and returns the path.
func (g *Generator) ExportStatisticalReport() (string, error) {
	path := g.exportPath("statistical-report", "pdf")
	if err := g.WriteStatisticalReport(path); err != nil {
		return "", err
	}
	return path, nil
}

// ExportDetailedReport writes the detailed PDF into the configured
// directory and returns the path.
func (g *Generator) ExportDetailedReport() (string, error) {
	path := g.exportPath("detailed-report", "pdf")
	if err := g.WriteDetailedReport(path); err != nil {
		return "", err
	}
	return path, nil
}

func (g *Generator) exportPath(name, ext string) string {
	os.MkdirAll(g.dir, 0755)
	filename := fmt.Sprintf("%s-%s.%s", name, time.Now().Format("20060102-150405"), ext)
	return filepath.Join(g.dir, filename)
}

// fmtDate renders a nullable date in day.month.year form, N/A when absent.
func fmtDate(t *time.Time) string {
	if t == nil {
		return "N/A"
	}
	return t.Format("02.01.2006")
}

const notSpecified = "Not specified"
