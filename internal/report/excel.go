package report

import (
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/nvolkova/avcatalog/internal/database"
)

const (
	sheetData      = "Catalog Data"
	sheetAnalytics = "Analytics"
	sheetViz       = "Visualization"
)

// Threat level cell fills, most to least severe.
var threatFills = map[string]string{
	database.ThreatCritical: "FF0000",
	database.ThreatHigh:     "FF6B6B",
	database.ThreatMedium:   "FFD966",
	database.ThreatLow:      "A9D08E",
}

type workbookStyles struct {
	title    int
	section  int
	header   int
	cell     int
	center   int
	date     int
	percent  int
	intCell  int
	bold     int
	infoBox  int
	infoVal  int
	infoDesc int
	threat   map[string]int
}

func newWorkbookStyles(f *excelize.File) (*workbookStyles, error) {
	st := &workbookStyles{threat: make(map[string]int)}
	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
	dateFmt := "dd.mm.yyyy"

	var err error
	st.title, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"366092"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})
	if err != nil {
		return nil, fmt.Errorf("title style: %w", err)
	}
	st.section, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"E6E6E6"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border:    border,
	})
	if err != nil {
		return nil, fmt.Errorf("section style: %w", err)
	}
	st.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	st.cell, err = f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true},
		Border:    border,
	})
	if err != nil {
		return nil, fmt.Errorf("cell style: %w", err)
	}
	st.center, err = f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border:    border,
	})
	if err != nil {
		return nil, fmt.Errorf("center style: %w", err)
	}
	st.date, err = f.NewStyle(&excelize.Style{
		CustomNumFmt: &dateFmt,
		Border:       border,
	})
	if err != nil {
		return nil, fmt.Errorf("date style: %w", err)
	}
	st.percent, err = f.NewStyle(&excelize.Style{
		NumFmt:    10, // 0.00%
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border:    border,
	})
	if err != nil {
		return nil, fmt.Errorf("percent style: %w", err)
	}
	st.intCell, err = f.NewStyle(&excelize.Style{
		NumFmt:    1, // 0
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border:    border,
	})
	if err != nil {
		return nil, fmt.Errorf("int style: %w", err)
	}
	st.bold, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Border: border,
	})
	if err != nil {
		return nil, fmt.Errorf("bold style: %w", err)
	}
	st.infoBox, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"F2F2F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    border,
	})
	if err != nil {
		return nil, fmt.Errorf("info box style: %w", err)
	}
	st.infoVal, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 16},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"E6F0FF"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})
	if err != nil {
		return nil, fmt.Errorf("info value style: %w", err)
	}
	st.infoDesc, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Italic: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"F2F2F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})
	if err != nil {
		return nil, fmt.Errorf("info desc style: %w", err)
	}

	for level, fill := range threatFills {
		fontColor := "000000"
		if level == database.ThreatCritical {
			fontColor = "FFFFFF"
		}
		id, err := f.NewStyle(&excelize.Style{
			Font:   &excelize.Font{Color: fontColor},
			Fill:   excelize.Fill{Type: "pattern", Color: []string{fill}, Pattern: 1},
			Border: border,
		})
		if err != nil {
			return nil, fmt.Errorf("threat style: %w", err)
		}
		st.threat[level] = id
	}

	return st, nil
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

// WriteWorkbook renders the full catalog into a three-sheet workbook at
// the given path.
func (g *Generator) WriteWorkbook(path string) error {
	f := excelize.NewFile()
	defer f.Close()

	st, err := newWorkbookStyles(f)
	if err != nil {
		return err
	}

	f.SetSheetName("Sheet1", sheetData)
	if _, err := f.NewSheet(sheetAnalytics); err != nil {
		return fmt.Errorf("creating analytics sheet: %w", err)
	}
	if _, err := f.NewSheet(sheetViz); err != nil {
		return fmt.Errorf("creating visualization sheet: %w", err)
	}

	if err := g.writeDataSheet(f, st); err != nil {
		return err
	}
	if err := g.writeAnalyticsSheet(f, st); err != nil {
		return err
	}
	if err := g.writeVisualizationSheet(f, st); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func (g *Generator) writeSectionBanner(f *excelize.File, st *workbookStyles, row int, title string, headers []string) error {
	if err := f.MergeCell(sheetData, cellName(1, row), cellName(7, row)); err != nil {
		return fmt.Errorf("merging section banner: %w", err)
	}
	f.SetCellValue(sheetData, cellName(1, row), title)
	f.SetCellStyle(sheetData, cellName(1, row), cellName(7, row), st.section)

	for col, h := range headers {
		f.SetCellValue(sheetData, cellName(col+1, row+1), h)
		f.SetCellStyle(sheetData, cellName(col+1, row+1), cellName(col+1, row+1), st.header)
	}
	return nil
}

func (g *Generator) writeDataSheet(f *excelize.File, st *workbookStyles) error {
	if err := f.MergeCell(sheetData, "A1", "G1"); err != nil {
		return fmt.Errorf("merging title: %w", err)
	}
	f.SetCellValue(sheetData, "A1", "Antivirus Signature Catalog")
	f.SetCellStyle(sheetData, "A1", "G1", st.title)

	row := 3
	var err error
	if row, err = g.writeManufacturerSection(f, st, row); err != nil {
		return err
	}
	row++
	if row, err = g.writeProductSection(f, st, row); err != nil {
		return err
	}
	row++
	if row, err = g.writeMalwareSection(f, st, row); err != nil {
		return err
	}
	row++
	if _, err = g.writeSignatureSection(f, st, row); err != nil {
		return err
	}

	widths := map[string]float64{"A": 12, "B": 25, "C": 15, "D": 20, "E": 15, "F": 12, "G": 30}
	for col, w := range widths {
		f.SetColWidth(sheetData, col, col, w)
	}

	return f.SetPanes(sheetData, &excelize.Panes{
		Freeze: true, YSplit: 2, TopLeftCell: "A3", ActivePane: "bottomLeft",
	})
}

func (g *Generator) writeManufacturerSection(f *excelize.File, st *workbookStyles, start int) (int, error) {
	headers := []string{"ID", "Name", "Country", "Website", "Created", "Products", "Description"}
	if err := g.writeSectionBanner(f, st, start, "ANTIVIRUS MANUFACTURERS", headers); err != nil {
		return 0, err
	}

	manufacturers, err := g.db.ListManufacturers(database.ManufacturerFilter{})
	if err != nil {
		return 0, fmt.Errorf("loading manufacturers: %w", err)
	}

	row := start + 2
	for _, m := range manufacturers {
		created := m.CreationDate
		cells := []struct {
			v     any
			style int
		}{
			{m.ManufacturerID, st.center},
			{m.Name, st.cell},
			{m.Country, st.cell},
			{m.Website, st.cell},
			{created, st.date},
			{m.ProductCount, st.center},
			{m.Description, st.cell},
		}
		for col, c := range cells {
			f.SetCellValue(sheetData, cellName(col+1, row), c.v)
			f.SetCellStyle(sheetData, cellName(col+1, row), cellName(col+1, row), c.style)
		}
		row++
	}
	return row, nil
}

func (g *Generator) writeProductSection(f *excelize.File, st *workbookStyles, start int) (int, error) {
	headers := []string{"ID", "Name", "Manufacturer", "Version", "Rating", "Released", "Description"}
	if err := g.writeSectionBanner(f, st, start, "ANTIVIRUS PRODUCTS", headers); err != nil {
		return 0, err
	}

	products, err := g.db.ListProducts(database.ProductFilter{})
	if err != nil {
		return 0, fmt.Errorf("loading products: %w", err)
	}

	row := start + 2
	for _, p := range products {
		f.SetCellValue(sheetData, cellName(1, row), p.ProductID)
		f.SetCellStyle(sheetData, cellName(1, row), cellName(1, row), st.center)
		f.SetCellValue(sheetData, cellName(2, row), p.Name)
		f.SetCellStyle(sheetData, cellName(2, row), cellName(2, row), st.cell)
		f.SetCellValue(sheetData, cellName(3, row), p.ManufacturerName)
		f.SetCellStyle(sheetData, cellName(3, row), cellName(3, row), st.cell)
		f.SetCellValue(sheetData, cellName(4, row), p.Version)
		f.SetCellStyle(sheetData, cellName(4, row), cellName(4, row), st.center)
		f.SetCellValue(sheetData, cellName(5, row), p.Rating)
		f.SetCellStyle(sheetData, cellName(5, row), cellName(5, row), st.center)
		if p.ReleaseDate != nil {
			f.SetCellValue(sheetData, cellName(6, row), *p.ReleaseDate)
			f.SetCellStyle(sheetData, cellName(6, row), cellName(6, row), st.date)
		} else {
			f.SetCellValue(sheetData, cellName(6, row), "N/A")
			f.SetCellStyle(sheetData, cellName(6, row), cellName(6, row), st.center)
		}
		f.SetCellValue(sheetData, cellName(7, row), p.Description)
		f.SetCellStyle(sheetData, cellName(7, row), cellName(7, row), st.cell)
		row++
	}
	return row, nil
}

func (g *Generator) writeMalwareSection(f *excelize.File, st *workbookStyles, start int) (int, error) {
	headers := []string{"ID", "Name", "Type", "Threat level", "Discovered", "Signatures", "Description"}
	if err := g.writeSectionBanner(f, st, start, "MALWARE", headers); err != nil {
		return 0, err
	}

	entries, err := g.db.ListMalware(database.MalwareFilter{})
	if err != nil {
		return 0, fmt.Errorf("loading malware: %w", err)
	}

	row := start + 2
	for _, m := range entries {
		threatStyle, ok := st.threat[m.ThreatLevel]
		if !ok {
			threatStyle = st.cell
		}
		f.SetCellValue(sheetData, cellName(1, row), m.MalwareID)
		f.SetCellStyle(sheetData, cellName(1, row), cellName(1, row), st.center)
		f.SetCellValue(sheetData, cellName(2, row), m.Name)
		f.SetCellStyle(sheetData, cellName(2, row), cellName(2, row), st.cell)
		f.SetCellValue(sheetData, cellName(3, row), m.MalwareType)
		f.SetCellStyle(sheetData, cellName(3, row), cellName(3, row), st.cell)
		f.SetCellValue(sheetData, cellName(4, row), m.ThreatLevel)
		f.SetCellStyle(sheetData, cellName(4, row), cellName(4, row), threatStyle)
		if m.DiscoveryDate != nil {
			f.SetCellValue(sheetData, cellName(5, row), *m.DiscoveryDate)
			f.SetCellStyle(sheetData, cellName(5, row), cellName(5, row), st.date)
		} else {
			f.SetCellValue(sheetData, cellName(5, row), "N/A")
			f.SetCellStyle(sheetData, cellName(5, row), cellName(5, row), st.center)
		}
		f.SetCellValue(sheetData, cellName(6, row), m.SignatureCount)
		f.SetCellStyle(sheetData, cellName(6, row), cellName(6, row), st.center)
		f.SetCellValue(sheetData, cellName(7, row), m.Description)
		f.SetCellStyle(sheetData, cellName(7, row), cellName(7, row), st.cell)
		row++
	}
	return row, nil
}

func (g *Generator) writeSignatureSection(f *excelize.File, st *workbookStyles, start int) (int, error) {
	headers := []string{"ID", "Name", "Malware", "Manufacturer", "Created", "Pattern data"}
	if err := g.writeSectionBanner(f, st, start, "DETECTION SIGNATURES", headers); err != nil {
		return 0, err
	}

	signatures, err := g.db.ListSignatures(database.SignatureFilter{})
	if err != nil {
		return 0, fmt.Errorf("loading signatures: %w", err)
	}

	row := start + 2
	for _, s := range signatures {
		malware := "Malware not found"
		if s.MalwareBusinessID != "" {
			malware = fmt.Sprintf("%s - %s", s.MalwareBusinessID, s.MalwareName)
		}
		manufacturer := s.ManufacturerName
		if manufacturer == "" {
			manufacturer = notSpecified
		}

		f.SetCellValue(sheetData, cellName(1, row), s.SignatureID)
		f.SetCellStyle(sheetData, cellName(1, row), cellName(1, row), st.center)
		f.SetCellValue(sheetData, cellName(2, row), s.Name)
		f.SetCellStyle(sheetData, cellName(2, row), cellName(2, row), st.cell)
		f.SetCellValue(sheetData, cellName(3, row), malware)
		f.SetCellStyle(sheetData, cellName(3, row), cellName(3, row), st.cell)
		f.SetCellValue(sheetData, cellName(4, row), manufacturer)
		f.SetCellStyle(sheetData, cellName(4, row), cellName(4, row), st.cell)
		f.SetCellValue(sheetData, cellName(5, row), s.CreationDate)
		f.SetCellStyle(sheetData, cellName(5, row), cellName(5, row), st.date)
		f.SetCellValue(sheetData, cellName(6, row), s.Data)
		f.SetCellStyle(sheetData, cellName(6, row), cellName(6, row), st.cell)
		row++
	}
	return row, nil
}

func (g *Generator) writeAnalyticsSheet(f *excelize.File, st *workbookStyles) error {
	if err := f.MergeCell(sheetAnalytics, "A1", "F1"); err != nil {
		return fmt.Errorf("merging analytics title: %w", err)
	}
	f.SetCellValue(sheetAnalytics, "A1", "CATALOG ANALYTICS")
	f.SetCellStyle(sheetAnalytics, "A1", "F1", st.title)

	widths := map[string]float64{"A": 25, "B": 15, "C": 18, "D": 15, "E": 12, "F": 15}
	for col, w := range widths {
		f.SetColWidth(sheetAnalytics, col, col, w)
	}

	counts, err := g.db.GetCatalogCounts()
	if err != nil {
		return fmt.Errorf("loading catalog counts: %w", err)
	}
	manufacturerStats, err := g.db.ManufacturerProductCounts()
	if err != nil {
		return fmt.Errorf("loading manufacturer stats: %w", err)
	}
	typeStats, err := g.db.MalwareTypeStats()
	if err != nil {
		return fmt.Errorf("loading malware type stats: %w", err)
	}

	row := g.writeManufacturerStats(f, st, 3, manufacturerStats, counts.Products)
	row = g.writeMalwareTypeStats(f, st, row+2, typeStats)
	row = g.writeSummaryBlock(f, st, row+2, counts)

	g.writeAnalyticsCharts(f, row, manufacturerStats, counts)
	return nil
}

func (g *Generator) writeManufacturerStats(f *excelize.File, st *workbookStyles, start int, stats []database.ManufacturerStat, totalProducts int) int {
	f.MergeCell(sheetAnalytics, cellName(1, start), cellName(4, start))
	f.SetCellValue(sheetAnalytics, cellName(1, start), "MANUFACTURER STATISTICS")
	f.SetCellStyle(sheetAnalytics, cellName(1, start), cellName(4, start), st.section)

	headers := []string{"Manufacturer", "Products", "Market share", "Country"}
	for col, h := range headers {
		f.SetCellValue(sheetAnalytics, cellName(col+1, start+1), h)
		f.SetCellStyle(sheetAnalytics, cellName(col+1, start+1), cellName(col+1, start+1), st.header)
	}

	row := start + 2
	for _, s := range stats {
		f.SetCellValue(sheetAnalytics, cellName(1, row), s.Name)
		f.SetCellStyle(sheetAnalytics, cellName(1, row), cellName(1, row), st.cell)
		f.SetCellValue(sheetAnalytics, cellName(2, row), s.ProductCount)
		f.SetCellStyle(sheetAnalytics, cellName(2, row), cellName(2, row), st.intCell)
		f.SetCellValue(sheetAnalytics, cellName(3, row), s.MarketShare(totalProducts))
		f.SetCellStyle(sheetAnalytics, cellName(3, row), cellName(3, row), st.percent)
		f.SetCellValue(sheetAnalytics, cellName(4, row), s.Country)
		f.SetCellStyle(sheetAnalytics, cellName(4, row), cellName(4, row), st.cell)
		row++
	}
	return row
}

func (g *Generator) writeMalwareTypeStats(f *excelize.File, st *workbookStyles, start int, stats []database.MalwareTypeStat) int {
	f.MergeCell(sheetAnalytics, cellName(1, start), cellName(4, start))
	f.SetCellValue(sheetAnalytics, cellName(1, start), "MALWARE STATISTICS")
	f.SetCellStyle(sheetAnalytics, cellName(1, start), cellName(4, start), st.section)

	headers := []string{"Type", "Count", "Top threat level", "Avg age (days)"}
	for col, h := range headers {
		f.SetCellValue(sheetAnalytics, cellName(col+1, start+1), h)
		f.SetCellStyle(sheetAnalytics, cellName(col+1, start+1), cellName(col+1, start+1), st.header)
	}

	row := start + 2
	for _, s := range stats {
		top := s.TopThreatLevel
		if top == "" {
			top = "N/A"
		}
		f.SetCellValue(sheetAnalytics, cellName(1, row), s.MalwareType)
		f.SetCellStyle(sheetAnalytics, cellName(1, row), cellName(1, row), st.cell)
		f.SetCellValue(sheetAnalytics, cellName(2, row), s.Count)
		f.SetCellStyle(sheetAnalytics, cellName(2, row), cellName(2, row), st.intCell)
		f.SetCellValue(sheetAnalytics, cellName(3, row), top)
		f.SetCellStyle(sheetAnalytics, cellName(3, row), cellName(3, row), st.cell)
		f.SetCellValue(sheetAnalytics, cellName(4, row), s.AvgAgeDays)
		f.SetCellStyle(sheetAnalytics, cellName(4, row), cellName(4, row), st.intCell)
		row++
	}
	return row
}

func (g *Generator) writeSummaryBlock(f *excelize.File, st *workbookStyles, start int, counts *database.CatalogCounts) int {
	f.MergeCell(sheetAnalytics, cellName(1, start), cellName(3, start))
	f.SetCellValue(sheetAnalytics, cellName(1, start), "SUMMARY")
	f.SetCellStyle(sheetAnalytics, cellName(1, start), cellName(3, start), st.section)

	headers := []string{"Metric", "Value", "Note"}
	for col, h := range headers {
		f.SetCellValue(sheetAnalytics, cellName(col+1, start+1), h)
		f.SetCellStyle(sheetAnalytics, cellName(col+1, start+1), cellName(col+1, start+1), st.header)
	}

	type summaryRow struct {
		metric string
		value  *int
		note   string
		bold   bool
	}
	rows := []summaryRow{
		{"Total manufacturers", &counts.Manufacturers, "Unique companies", false},
		{"Total antivirus products", &counts.Products, "Catalog entries", false},
		{"Total malware", &counts.Malware, "Known threats", false},
		{"Total signatures", &counts.Signatures, "Detection patterns", false},
		{"Manufacturer countries", &counts.Countries, "Unique countries", false},
		{"Malware types", &counts.MalwareTypes, "Threat categories", false},
		{"", nil, "", false},
		{"Threat levels:", nil, "", true},
	}
	for _, level := range database.ThreatLevels {
		n := counts.ByThreatLevel[level]
		rows = append(rows, summaryRow{"- " + level, &n, "", false})
	}

	row := start + 2
	for _, r := range rows {
		metricStyle := st.cell
		if r.bold {
			metricStyle = st.bold
		}
		f.SetCellValue(sheetAnalytics, cellName(1, row), r.metric)
		f.SetCellStyle(sheetAnalytics, cellName(1, row), cellName(1, row), metricStyle)
		if r.value != nil {
			f.SetCellValue(sheetAnalytics, cellName(2, row), *r.value)
			f.SetCellStyle(sheetAnalytics, cellName(2, row), cellName(2, row), st.intCell)
		}
		f.SetCellValue(sheetAnalytics, cellName(3, row), r.note)
		f.SetCellStyle(sheetAnalytics, cellName(3, row), cellName(3, row), st.cell)
		row++
	}
	return row
}

// writeAnalyticsCharts fills auxiliary data cells in columns F/G and anchors
// the column and pie charts next to them. Chart failures are logged, never
// fatal to the export.
func (g *Generator) writeAnalyticsCharts(f *excelize.File, afterRow int, stats []database.ManufacturerStat, counts *database.CatalogCounts) {
	if len(stats) > 0 {
		dataStart := 5
		for i, s := range stats {
			f.SetCellValue(sheetAnalytics, cellName(6, dataStart+i), s.Name)
			f.SetCellValue(sheetAnalytics, cellName(7, dataStart+i), s.ProductCount)
		}
		chart := &excelize.Chart{
			Type: excelize.Col,
			Series: []excelize.ChartSeries{{
				Name:       "Products",
				Categories: fmt.Sprintf("%s!$F$%d:$F$%d", sheetAnalytics, dataStart, dataStart+len(stats)-1),
				Values:     fmt.Sprintf("%s!$G$%d:$G$%d", sheetAnalytics, dataStart, dataStart+len(stats)-1),
			}},
			Title: []excelize.RichTextRun{{Text: "Products per manufacturer"}},
			XAxis: excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: "Manufacturer"}}},
			YAxis: excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: "Products"}}},
		}
		if err := f.AddChart(sheetAnalytics, cellName(9, 4), chart); err != nil {
			slog.Warn("adding products chart failed", "error", err)
		}
	}

	threatStart := afterRow + 5
	for i, level := range database.ThreatLevels {
		f.SetCellValue(sheetAnalytics, cellName(6, threatStart+i), level)
		f.SetCellValue(sheetAnalytics, cellName(7, threatStart+i), counts.ByThreatLevel[level])
	}
	pie := &excelize.Chart{
		Type: excelize.Pie,
		Series: []excelize.ChartSeries{{
			Name:       "Threat levels",
			Categories: fmt.Sprintf("%s!$F$%d:$F$%d", sheetAnalytics, threatStart, threatStart+len(database.ThreatLevels)-1),
			Values:     fmt.Sprintf("%s!$G$%d:$G$%d", sheetAnalytics, threatStart, threatStart+len(database.ThreatLevels)-1),
		}},
		Title: []excelize.RichTextRun{{Text: "Malware by threat level"}},
	}
	if err := f.AddChart(sheetAnalytics, cellName(9, threatStart), pie); err != nil {
		slog.Warn("adding threat level chart failed", "error", err)
	}
}

func (g *Generator) writeVisualizationSheet(f *excelize.File, st *workbookStyles) error {
	if err := f.MergeCell(sheetViz, "A1", "F1"); err != nil {
		return fmt.Errorf("merging visualization title: %w", err)
	}
	f.SetCellValue(sheetViz, "A1", "CATALOG AT A GLANCE")
	f.SetCellStyle(sheetViz, "A1", "F1", st.title)

	counts, err := g.db.GetCatalogCounts()
	if err != nil {
		return fmt.Errorf("loading catalog counts: %w", err)
	}

	indicators := []struct {
		label string
		value int
		desc  string
	}{
		{"Total catalog records", counts.Products + counts.Malware + counts.Signatures, "All objects combined"},
		{"Antivirus products", counts.Products, "Catalog entries"},
		{"Malware entries", counts.Malware, "Known threats"},
		{"Detection signatures", counts.Signatures, "Protection patterns"},
		{"Manufacturers", counts.Manufacturers, "Companies worldwide"},
		{"Critical threats", counts.ByThreatLevel[database.ThreatCritical], "Highest priority"},
	}

	// Three indicator boxes per row, each two columns wide and three rows
	// tall (label / value / description).
	row, col := 4, 1
	for _, ind := range indicators {
		f.MergeCell(sheetViz, cellName(col, row), cellName(col+1, row))
		f.SetCellValue(sheetViz, cellName(col, row), ind.label)
		f.SetCellStyle(sheetViz, cellName(col, row), cellName(col+1, row), st.infoBox)

		f.MergeCell(sheetViz, cellName(col, row+1), cellName(col+1, row+1))
		f.SetCellValue(sheetViz, cellName(col, row+1), ind.value)
		f.SetCellStyle(sheetViz, cellName(col, row+1), cellName(col+1, row+1), st.infoVal)

		f.MergeCell(sheetViz, cellName(col, row+2), cellName(col+1, row+2))
		f.SetCellValue(sheetViz, cellName(col, row+2), ind.desc)
		f.SetCellStyle(sheetViz, cellName(col, row+2), cellName(col+1, row+2), st.infoDesc)

		col += 2
		if col > 6 {
			col = 1
			row += 4
		}
	}

	return g.writeReleaseTrendChart(f)
}

func (g *Generator) writeReleaseTrendChart(f *excelize.File) error {
	years, err := g.db.ReleaseYearCounts()
	if err != nil {
		return fmt.Errorf("loading release year counts: %w", err)
	}

	dataStart := 31
	if len(years) == 0 {
		f.SetCellValue(sheetViz, cellName(1, dataStart), "No release date data available for the trend chart")
		return nil
	}

	for i, y := range years {
		f.SetCellValue(sheetViz, cellName(1, dataStart+i), y.Year)
		f.SetCellValue(sheetViz, cellName(2, dataStart+i), y.Count)
	}

	chart := &excelize.Chart{
		Type: excelize.Line,
		Series: []excelize.ChartSeries{{
			Name:       "Product releases",
			Categories: fmt.Sprintf("%s!$A$%d:$A$%d", sheetViz, dataStart, dataStart+len(years)-1),
			Values:     fmt.Sprintf("%s!$B$%d:$B$%d", sheetViz, dataStart, dataStart+len(years)-1),
			Marker:     excelize.ChartMarker{Symbol: "circle", Size: 6},
		}},
		Title: []excelize.RichTextRun{{Text: "Product releases per year"}},
		XAxis: excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: "Year"}}},
		YAxis: excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: "Releases"}}},
	}
	if err := f.AddChart(sheetViz, cellName(1, 15), chart); err != nil {
		slog.Warn("adding release trend chart failed", "error", err)
	}
	return nil
}
