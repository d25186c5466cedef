package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"

	"mis-reports/internal/records"
	"mis-reports/internal/report"

	"github.com/go-pdf/fpdf"
	"github.com/rs/zerolog/log"
)

// A4 portrait, millimetres.
const (
	pageWidth    = 210.0
	pageHeight   = 297.0
	pageMargin   = 10.0
	headerHeight = 32.0
	footerSpace  = 15.0
	rowHeight    = 7.0
)

var (
	brandColor  = [3]int{37, 99, 235}
	stripeColor = [3]int{243, 244, 246}
	headerColor = [3]int{229, 231, 235}
	textColor   = [3]int{31, 41, 55}
)

// "#" followed by records.DetailColumns; widths sum to the printable width.
var pdfColumnWidths = []float64{8, 40, 20, 22, 14, 32, 22, 32}

// PDFRenderer produces the paginated tabular document.
type PDFRenderer struct {
	Logo     *LogoLoader
	Compress bool
}

func (r *PDFRenderer) Format() Format { return FormatPDF }

func (r *PDFRenderer) Render(ctx context.Context, w io.Writer, rep *report.Report, meta Metadata) error {
	if rep == nil {
		return ErrNoReportAvailable
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(r.Compress)
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, footerSpace)
	pdf.AliasNbPages("")
	pdf.SetTitle(meta.Title(), true)
	pdf.SetCreator("mis-reports", true)
	pdf.SetCreationDate(meta.GeneratedAt)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(107, 114, 128)
		pdf.CellFormat(0, 8, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	r.header(ctx, pdf, tr, meta)
	summarySection(pdf, rep)
	recordsSection(pdf, tr, rep.Records)

	return pdf.Output(w)
}

func (r *PDFRenderer) header(ctx context.Context, pdf *fpdf.Fpdf, tr func(string) string, meta Metadata) {
	pdf.SetFillColor(brandColor[0], brandColor[1], brandColor[2])
	pdf.Rect(0, 0, pageWidth, headerHeight, "F")

	textX := pageMargin
	if logo := r.loadLogo(ctx); logo != nil {
		pdf.RegisterImageOptionsReader("logo", fpdf.ImageOptions{ImageType: logo.ImageType}, bytes.NewReader(logo.Data))
		if pdf.Ok() {
			pdf.ImageOptions("logo", pageMargin, 6, 0, 20, false, fpdf.ImageOptions{ImageType: logo.ImageType}, 0, "")
			textX += 26
		} else {
			log.Warn().Err(pdf.Error()).Msg("Skipping unreadable report logo")
			pdf.ClearError()
		}
	}

	pdf.SetTextColor(255, 255, 255)
	pdf.SetXY(textX, 7)
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 8, tr(meta.Title()), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	if meta.OrgName != "" {
		pdf.SetX(textX)
		pdf.CellFormat(0, 5, tr(meta.OrgName), "", 1, "L", false, 0, "")
	}
	pdf.SetX(textX)
	pdf.CellFormat(0, 5, "Generated: "+meta.GeneratedLabel(), "", 1, "L", false, 0, "")
	pdf.SetX(textX)
	pdf.CellFormat(0, 5, "Period: "+meta.PeriodLabel(), "", 1, "L", false, 0, "")
	if filters := meta.FilterLabel(); filters != "" {
		pdf.SetX(textX)
		pdf.CellFormat(0, 5, tr("Filters: "+filters), "", 1, "L", false, 0, "")
	}

	pdf.SetY(headerHeight + 8)
	pdf.SetTextColor(textColor[0], textColor[1], textColor[2])
}

func (r *PDFRenderer) loadLogo(ctx context.Context) *Logo {
	logo, err := r.Logo.Load(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Report logo unavailable")
		return nil
	}
	return logo
}

func sectionTitle(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(brandColor[0], brandColor[1], brandColor[2])
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
	pdf.SetTextColor(textColor[0], textColor[1], textColor[2])
}

func summarySection(pdf *fpdf.Fpdf, rep *report.Report) {
	sectionTitle(pdf, "Executive Summary")
	for i, row := range SummaryRows(rep.Summary) {
		fill := i%2 == 0
		pdf.SetFillColor(stripeColor[0], stripeColor[1], stripeColor[2])
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(60, rowHeight, row.Label, "", 0, "L", fill, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(40, rowHeight, row.Value, "", 1, "R", fill, 0, "")
	}
	pdf.Ln(6)
}

func recordsSection(pdf *fpdf.Fpdf, tr func(string) string, recs []records.NormalizedRecord) {
	sectionTitle(pdf, "Detailed Records")
	if len(recs) == 0 {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.CellFormat(0, rowHeight, "No records found for the selected period.", "", 1, "L", false, 0, "")
		return
	}

	tableHeader(pdf)
	pdf.SetFont("Helvetica", "", 8)
	for i, rec := range recs {
		if pdf.GetY()+rowHeight > pageHeight-footerSpace {
			pdf.AddPage()
			tableHeader(pdf)
			pdf.SetFont("Helvetica", "", 8)
		}
		fill := i%2 == 1
		pdf.SetFillColor(stripeColor[0], stripeColor[1], stripeColor[2])
		cells := append([]string{strconv.Itoa(i + 1)}, rec.Cells()...)
		for j, cell := range cells {
			ln := 0
			if j == len(cells)-1 {
				ln = 1
			}
			pdf.CellFormat(pdfColumnWidths[j], rowHeight, fitText(pdf, tr(cell), pdfColumnWidths[j]-2), "B", ln, "L", fill, 0, "")
		}
	}
}

func tableHeader(pdf *fpdf.Fpdf) {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(headerColor[0], headerColor[1], headerColor[2])
	columns := append([]string{"#"}, records.DetailColumns...)
	for j, col := range columns {
		ln := 0
		if j == len(columns)-1 {
			ln = 1
		}
		pdf.CellFormat(pdfColumnWidths[j], rowHeight, col, "1", ln, "L", true, 0, "")
	}
}

// fitText truncates s with an ellipsis so it fits within width at the current
// font. s is already translated to the single-byte font encoding.
func fitText(pdf *fpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	for len(s) > 0 && pdf.GetStringWidth(s+"...") > width {
		s = s[:len(s)-1]
	}
	return s + "..."
}
