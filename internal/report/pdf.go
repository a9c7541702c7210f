package report

import (
	"fmt"
	"os"

	"github.com/signintech/gopdf"
)

const (
	pageWidth  = 595.28 // A4 portrait, points
	pageHeight = 841.89
)

// Well-known TTF locations tried when the config does not name a font.
// gopdf has no built-in fonts, so a TTF must be found somewhere.
var fontCandidates = []string{
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/TTF/DejaVuSans.ttf",
	"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf",
	"/System/Library/Fonts/Supplemental/Arial.ttf",
}

var boldFontCandidates = []string{
	"/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf",
	"/usr/share/fonts/dejavu/DejaVuSans-Bold.ttf",
	"/usr/share/fonts/TTF/DejaVuSans-Bold.ttf",
	"/usr/share/fonts/truetype/liberation/LiberationSans-Bold.ttf",
	"/System/Library/Fonts/Supplemental/Arial Bold.ttf",
}

func firstExisting(configured string, candidates []string) string {
	if configured != "" {
		if _, err := os.Stat(configured); err == nil {
			return configured
		}
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return ""
}

// resolveFonts picks the regular and bold TTF files for PDF output. The
// bold face falls back to the regular file when no bold variant exists.
func (g *Generator) resolveFonts() (regular, bold string, err error) {
	regular = firstExisting(g.font, fontCandidates)
	if regular == "" {
		return "", "", fmt.Errorf("no usable TTF font found; set exports.font in the config")
	}
	bold = firstExisting(g.boldFont, boldFontCandidates)
	if bold == "" {
		bold = regular
	}
	return regular, bold, nil
}

type rgb struct{ r, g, b uint8 }

var (
	colorBlack     = rgb{0, 0, 0}
	colorWhite     = rgb{255, 255, 255}
	colorHeaderBlu = rgb{62, 103, 103}  // #3e6767
	colorHeaderPlm = rgb{108, 88, 104}  // #6c5868
	colorHeaderRed = rgb{140, 74, 74}   // #8c4a4a
	colorHeaderTea = rgb{90, 142, 156}  // #5a8e9c
	colorRowBeige  = rgb{244, 244, 189} // #f4f4bd
	colorRowOlive  = rgb{232, 232, 200} // #e8e8c8
	colorRowBlue   = rgb{230, 240, 255} // #e6f0ff
	colorRowPink   = rgb{255, 204, 204} // #ffcccc
	colorRowOrange = rgb{255, 235, 204} // #ffebcc
)

// document wraps a gopdf instance with margin and page-number bookkeeping.
// Every page gets a bottom-right page number the moment it is added.
type document struct {
	pdf                  *gopdf.GoPdf
	margin, marginBottom float64
	y                    float64
	pageNum              int
}

func newDocument(fontPath, boldFontPath string, margin float64) (*document, error) {
	pdf := &gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})

	if err := pdf.AddTTFFont("sans", fontPath); err != nil {
		return nil, fmt.Errorf("loading font %s: %w", fontPath, err)
	}
	if err := pdf.AddTTFFont("sans-bold", boldFontPath); err != nil {
		return nil, fmt.Errorf("loading bold font %s: %w", boldFontPath, err)
	}

	d := &document{pdf: pdf, margin: margin, marginBottom: 40}
	d.addPage()
	return d, nil
}

func (d *document) addPage() {
	d.pdf.AddPage()
	d.pageNum++
	d.y = d.margin

	d.setFont(false, 9)
	text := fmt.Sprintf("Page %d", d.pageNum)
	w, _ := d.pdf.MeasureTextWidth(text)
	d.pdf.SetXY(pageWidth-d.margin-w, pageHeight-30)
	d.pdf.Cell(nil, text)
}

func (d *document) setFont(bold bool, size float64) {
	family := "sans"
	if bold {
		family = "sans-bold"
	}
	d.pdf.SetFont(family, "", size)
}

func (d *document) setTextColor(c rgb) { d.pdf.SetTextColor(c.r, c.g, c.b) }

func (d *document) contentBottom() float64 { return pageHeight - d.marginBottom }

// ensureRoom starts a new page when fewer than h points remain.
func (d *document) ensureRoom(h float64) {
	if d.y+h > d.contentBottom() {
		d.addPage()
	}
}

func (d *document) spacer(h float64) { d.y += h }

func (d *document) centeredLine(text string, bold bool, size float64) {
	d.ensureRoom(size + 6)
	d.setFont(bold, size)
	w, _ := d.pdf.MeasureTextWidth(text)
	d.pdf.SetXY((pageWidth-w)/2, d.y)
	d.pdf.Cell(nil, text)
	d.y += size + 6
}

func (d *document) heading(text string) {
	d.ensureRoom(30)
	d.setFont(true, 14)
	d.pdf.SetXY(d.margin, d.y)
	d.pdf.Cell(nil, text)
	d.y += 26
}

func (d *document) para(text string) {
	d.ensureRoom(18)
	d.setFont(false, 10)
	d.pdf.SetXY(d.margin, d.y)
	d.pdf.Cell(nil, text)
	d.y += 16
}

// truncateToWidth shortens text with an ellipsis so it fits the cell.
func (d *document) truncateToWidth(text string, maxWidth float64) string {
	w, err := d.pdf.MeasureTextWidth(text)
	if err != nil || w <= maxWidth {
		return text
	}
	runes := []rune(text)
	for len(runes) > 1 {
		runes = runes[:len(runes)-1]
		candidate := string(runes) + "..."
		if w, err = d.pdf.MeasureTextWidth(candidate); err == nil && w <= maxWidth {
			return candidate
		}
	}
	return "..."
}

// pdfTable describes a bordered table with a colored header row.
type pdfTable struct {
	headers    []string
	widths     []float64
	headerFill rgb
	zebra      *rgb // alternate-row fill, nil for plain rows
}

const tableRowHeight = 18.0

func (d *document) drawTableHeader(t pdfTable) {
	x := d.margin
	d.setFont(true, 9)
	for i, h := range t.headers {
		d.pdf.SetFillColor(t.headerFill.r, t.headerFill.g, t.headerFill.b)
		d.pdf.RectFromUpperLeftWithStyle(x, d.y, t.widths[i], tableRowHeight, "F")
		d.setTextColor(colorWhite)
		d.pdf.SetXY(x, d.y)
		d.pdf.CellWithOption(&gopdf.Rect{W: t.widths[i], H: tableRowHeight},
			d.truncateToWidth(h, t.widths[i]-4),
			gopdf.CellOption{Align: gopdf.Center | gopdf.Middle, Border: gopdf.AllBorders})
		x += t.widths[i]
	}
	d.setTextColor(colorBlack)
	d.y += tableRowHeight
}

// drawTable renders rows under a header, breaking pages as needed. cellFill,
// when non-nil, can shade an individual cell (used for threat levels).
func (d *document) drawTable(t pdfTable, rows [][]string, cellFill func(row, col int) *rgb) {
	d.ensureRoom(tableRowHeight * 2)
	d.drawTableHeader(t)

	for rowIdx, row := range rows {
		if d.y+tableRowHeight > d.contentBottom() {
			d.addPage()
			d.drawTableHeader(t)
		}

		x := d.margin
		d.setFont(false, 8)
		for col, text := range row {
			fill := t.zebra
			if rowIdx%2 == 0 {
				fill = nil
			}
			if cellFill != nil {
				if f := cellFill(rowIdx, col); f != nil {
					fill = f
				}
			}
			if fill != nil {
				d.pdf.SetFillColor(fill.r, fill.g, fill.b)
				d.pdf.RectFromUpperLeftWithStyle(x, d.y, t.widths[col], tableRowHeight, "F")
			}
			d.pdf.SetXY(x+2, d.y)
			d.pdf.CellWithOption(&gopdf.Rect{W: t.widths[col] - 2, H: tableRowHeight},
				d.truncateToWidth(text, t.widths[col]-6),
				gopdf.CellOption{Align: gopdf.Left | gopdf.Middle})
			d.pdf.SetStrokeColor(128, 128, 128)
			d.pdf.RectFromUpperLeftWithStyle(x, d.y, t.widths[col], tableRowHeight, "D")
			x += t.widths[col]
		}
		d.y += tableRowHeight
	}
	d.pdf.SetStrokeColor(0, 0, 0)
}

func (d *document) write(path string) error {
	if err := d.pdf.WritePdf(path); err != nil {
		return fmt.Errorf("writing pdf: %w", err)
	}
	return nil
}
