package report

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/nvolkova/avcatalog/internal/database"
)

// WriteDetailedReport renders the full tabular listing PDF at the given
// path: four numbered sections, one per entity, each ending with a row
// total. A failed section is logged and replaced with a placeholder
// paragraph without aborting the rest.
func (g *Generator) WriteDetailedReport(path string) error {
	font, boldFont, err := g.resolveFonts()
	if err != nil {
		return err
	}
	d, err := newDocument(font, boldFont, 36)
	if err != nil {
		return err
	}

	d.centeredLine("DETAILED REPORT", true, 16)
	d.centeredLine("Antivirus Signature Catalog", true, 14)
	d.spacer(5)
	d.centeredLine("Generated: "+time.Now().Format("02.01.2006 15:04"), false, 10)
	d.spacer(30)

	sections := []struct {
		title string
		write func(*document) error
	}{
		{"1. ANTIVIRUS MANUFACTURERS", g.writeManufacturersListing},
		{"2. ANTIVIRUS PRODUCTS", g.writeProductsListing},
		{"3. MALWARE", g.writeMalwareListing},
		{"4. DETECTION SIGNATURES", g.writeSignaturesListing},
	}
	for _, sec := range sections {
		d.heading(sec.title)
		if err := sec.write(d); err != nil {
			slog.Error("detailed report section failed", "section", sec.title, "error", err)
			d.para("Section data could not be loaded: " + err.Error())
		}
		d.spacer(20)
	}

	return d.write(path)
}

func (g *Generator) writeManufacturersListing(d *document) error {
	manufacturers, err := g.db.ListManufacturers(database.ManufacturerFilter{})
	if err != nil {
		return err
	}
	if len(manufacturers) == 0 {
		d.para("No manufacturer data")
		return nil
	}

	rows := make([][]string, 0, len(manufacturers))
	for _, m := range manufacturers {
		created := m.CreationDate
		rows = append(rows, []string{
			m.ManufacturerID, m.Name, m.Country, m.Website, fmtDate(&created),
		})
	}

	d.drawTable(pdfTable{
		headers:    []string{"ID", "Name", "Country", "Website", "Created"},
		widths:     []float64{70, 145, 80, 150, 78},
		headerFill: colorHeaderBlu,
		zebra:      &colorRowBeige,
	}, rows, nil)
	d.spacer(8)
	d.para(fmt.Sprintf("Total manufacturers: %d", len(manufacturers)))
	return nil
}

func (g *Generator) writeProductsListing(d *document) error {
	products, err := g.db.ListProducts(database.ProductFilter{})
	if err != nil {
		return err
	}
	if len(products) == 0 {
		d.para("No product data")
		return nil
	}

	rows := make([][]string, 0, len(products))
	for _, p := range products {
		rows = append(rows, []string{
			p.ProductID, p.Name, p.ManufacturerName, p.Version, p.Rating, fmtDate(p.ReleaseDate),
		})
	}

	d.drawTable(pdfTable{
		headers:    []string{"ID", "Name", "Manufacturer", "Version", "Rating", "Released"},
		widths:     []float64{62, 130, 110, 60, 60, 78},
		headerFill: colorHeaderPlm,
		zebra:      &colorRowOlive,
	}, rows, nil)
	d.spacer(8)
	d.para(fmt.Sprintf("Total antivirus products: %d", len(products)))
	return nil
}

func (g *Generator) writeMalwareListing(d *document) error {
	entries, err := g.db.ListMalware(database.MalwareFilter{})
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		d.para("No malware data")
		return nil
	}

	rows := make([][]string, 0, len(entries))
	for _, m := range entries {
		rows = append(rows, []string{
			m.MalwareID, m.Name, m.MalwareType, m.ThreatLevel, fmtDate(m.DiscoveryDate),
		})
	}

	threatFill := func(row, col int) *rgb {
		if col != 3 {
			return nil
		}
		switch entries[row].ThreatLevel {
		case database.ThreatCritical:
			return &colorRowPink
		case database.ThreatHigh:
			return &colorRowOrange
		}
		return nil
	}

	d.drawTable(pdfTable{
		headers:    []string{"ID", "Name", "Type", "Threat level", "Discovered"},
		widths:     []float64{62, 180, 100, 100, 78},
		headerFill: colorHeaderRed,
	}, rows, threatFill)
	d.spacer(8)
	d.para(fmt.Sprintf("Total malware: %d", len(entries)))
	return nil
}

// signatureListingRows resolves malware and manufacturer names per row
// with individual lookups, tolerating dangling references: a missing
// malware or manufacturer renders a placeholder instead of failing the
// section.
func (g *Generator) signatureListingRows(signatures []database.Signature) [][]string {
	rows := make([][]string, 0, len(signatures))
	for _, s := range signatures {
		malwareName := "Malware not found"
		if m, err := g.db.GetMalware(s.MalwareID); err == nil && m != nil {
			malwareName = fmt.Sprintf("%s - %s", m.MalwareID, m.Name)
		}

		manufacturerName := notSpecified
		if s.ManufacturerID != nil {
			manufacturerName = "Manufacturer not found"
			if m, err := g.db.GetManufacturer(*s.ManufacturerID); err == nil && m != nil {
				manufacturerName = m.Name
			}
		}

		created := s.CreationDate
		rows = append(rows, []string{
			s.SignatureID, s.Name, malwareName, manufacturerName, fmtDate(&created),
		})
	}
	return rows
}

func (g *Generator) writeSignaturesListing(d *document) error {
	signatures, err := g.db.ListSignatures(database.SignatureFilter{})
	if err != nil {
		return err
	}
	if len(signatures) == 0 {
		d.para("No signature data")
		return nil
	}

	d.drawTable(pdfTable{
		headers:    []string{"ID", "Name", "Malware", "Manufacturer", "Created"},
		widths:     []float64{62, 130, 150, 100, 78},
		headerFill: colorHeaderTea,
		zebra:      &colorRowBlue,
	}, g.signatureListingRows(signatures), nil)
	d.spacer(8)
	d.para(fmt.Sprintf("Total signatures: %d", len(signatures)))
	return nil
}
