package report

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/nvolkova/avcatalog/internal/database"
)

// WriteStatisticalReport renders the summary-statistics PDF at the given
// path. A failed section is logged and replaced with a placeholder
// paragraph; the rest of the document still renders.
func (g *Generator) WriteStatisticalReport(path string) error {
	font, boldFont, err := g.resolveFonts()
	if err != nil {
		return err
	}
	d, err := newDocument(font, boldFont, 72)
	if err != nil {
		return err
	}

	d.centeredLine("STATISTICAL REPORT", true, 16)
	d.centeredLine("Antivirus Signature Catalog", true, 14)
	d.spacer(10)
	d.centeredLine("Generated: "+time.Now().Format("02.01.2006 15:04"), false, 10)
	d.spacer(30)

	d.heading("GENERAL STATISTICS")
	if err := g.writeGeneralStatistics(d); err != nil {
		slog.Error("statistical report: general statistics section failed", "error", err)
		d.para("General statistics are unavailable: " + err.Error())
	}
	d.spacer(20)

	d.heading("TOP 5 MANUFACTURERS")
	if err := g.writeTopManufacturers(d); err != nil {
		slog.Error("statistical report: top manufacturers section failed", "error", err)
		d.para("Manufacturer analysis is unavailable: " + err.Error())
	}
	d.spacer(20)

	d.heading("THREAT LEVEL DISTRIBUTION")
	if err := g.writeThreatDistribution(d); err != nil {
		slog.Error("statistical report: threat distribution section failed", "error", err)
		d.para("Threat distribution is unavailable: " + err.Error())
	}

	return d.write(path)
}

// generalStatisticsRows builds the metric/value pairs of the general
// statistics table.
func generalStatisticsRows(counts *database.CatalogCounts, recent int) [][]string {
	return [][]string{
		{"Total manufacturers", fmt.Sprintf("%d", counts.Manufacturers)},
		{"Total antivirus products", fmt.Sprintf("%d", counts.Products)},
		{"Total malware", fmt.Sprintf("%d", counts.Malware)},
		{"Total detection signatures", fmt.Sprintf("%d", counts.Signatures)},
		{"Manufacturer countries", fmt.Sprintf("%d", counts.Countries)},
		{"Critical threats", fmt.Sprintf("%d", counts.ByThreatLevel[database.ThreatCritical])},
		{"Malware types", fmt.Sprintf("%d", counts.MalwareTypes)},
		{"New products in the last 30 days", fmt.Sprintf("%d", recent)},
	}
}

func (g *Generator) writeGeneralStatistics(d *document) error {
	counts, err := g.db.GetCatalogCounts()
	if err != nil {
		return err
	}
	recent, err := g.db.RecentProductCount(30)
	if err != nil {
		return err
	}

	d.drawTable(pdfTable{
		headers:    []string{"Metric", "Value"},
		widths:     []float64{220, 110},
		headerFill: colorHeaderBlu,
		zebra:      &colorRowBeige,
	}, generalStatisticsRows(counts, recent), nil)
	return nil
}

func (g *Generator) writeTopManufacturers(d *document) error {
	stats, err := g.db.ManufacturerProductCounts()
	if err != nil {
		return err
	}
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].ProductCount > stats[j].ProductCount
	})
	if len(stats) > 5 {
		stats = stats[:5]
	}

	rows := make([][]string, 0, len(stats))
	for _, s := range stats {
		rows = append(rows, []string{s.Name, fmt.Sprintf("%d", s.ProductCount)})
	}

	d.drawTable(pdfTable{
		headers:    []string{"Manufacturer", "Products"},
		widths:     []float64{250, 140},
		headerFill: colorHeaderPlm,
		zebra:      &colorRowOlive,
	}, rows, nil)
	return nil
}

func (g *Generator) writeThreatDistribution(d *document) error {
	counts, err := g.db.GetCatalogCounts()
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(database.ThreatLevels))
	for _, level := range database.ThreatLevels {
		rows = append(rows, []string{level, fmt.Sprintf("%d", counts.ByThreatLevel[level])})
	}

	d.drawTable(pdfTable{
		headers:    []string{"Threat level", "Count"},
		widths:     []float64{180, 110},
		headerFill: colorHeaderRed,
		zebra:      &colorRowPink,
	}, rows, nil)
	return nil
}
