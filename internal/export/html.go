package export

import (
	"bytes"
	"context"
	"html/template"
	"io"
	"strconv"

	"mis-reports/internal/report"

	"github.com/rs/zerolog/log"
)

var printTemplate = template.Must(template.New("print").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Meta.Title}}</title>
<style>
  body { font-family: Helvetica, Arial, sans-serif; color: #1f2937; margin: 24px; }
  header { display: flex; align-items: center; gap: 16px; border-bottom: 3px solid #2563eb; padding-bottom: 12px; margin-bottom: 20px; }
  header img { height: 56px; }
  h1 { font-size: 20px; margin: 0 0 4px; color: #2563eb; }
  .meta { font-size: 12px; color: #4b5563; }
  .cards { display: grid; grid-template-columns: repeat(2, 1fr); gap: 12px; margin-bottom: 12px; }
  .card { border: 1px solid #e5e7eb; border-radius: 6px; padding: 12px; }
  .card .label { font-size: 12px; color: #6b7280; }
  .card .value { font-size: 22px; font-weight: bold; }
  .completed { font-size: 13px; margin-bottom: 20px; }
  table { width: 100%; border-collapse: collapse; font-size: 12px; }
  th { background: #e5e7eb; text-align: left; }
  th, td { padding: 6px 8px; border-bottom: 1px solid #e5e7eb; }
  tbody tr:nth-child(even) { background: #f3f4f6; }
  @media print { body { margin: 0; } }
</style>
</head>
<body>
<header>
  {{if .LogoURI}}<img src="{{.LogoURI}}" alt="logo">{{end}}
  <div>
    <h1>{{.Meta.Title}}</h1>
    {{if .Meta.OrgName}}<div class="meta">{{.Meta.OrgName}}</div>{{end}}
    <div class="meta">Period: {{.Meta.PeriodLabel}}</div>
    <div class="meta">Generated: {{.Meta.GeneratedLabel}}</div>
    {{with .Meta.FilterLabel}}<div class="meta">Filters: {{.}}</div>{{end}}
  </div>
</header>
<section class="cards">
  {{range .Cards}}<div class="card"><div class="label">{{.Label}}</div><div class="value">{{.Value}}</div></div>
  {{end}}
</section>
<p class="completed">Completed: <strong>{{.Completed}}</strong></p>
<table>
  <thead><tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr></thead>
  <tbody>
  {{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
  {{else}}<tr><td colspan="6">No records found for the selected period.</td></tr>
  {{end}}
  </tbody>
</table>
<script>window.addEventListener('load', function () { window.print(); });</script>
</body>
</html>
`))

var printColumns = []string{"#", "Name", "Status", "Date", "Ward", "Habitation"}

type printData struct {
	Meta      Metadata
	LogoURI   template.URL
	Cards     []SummaryRow
	Completed string
	Columns   []string
	Rows      [][]string
}

// HTMLRenderer produces the self-contained print document.
type HTMLRenderer struct {
	Logo *LogoLoader
}

func (r *HTMLRenderer) Format() Format { return FormatHTML }

func (r *HTMLRenderer) Render(ctx context.Context, w io.Writer, rep *report.Report, meta Metadata) error {
	if rep == nil {
		return ErrNoReportAvailable
	}

	rows := SummaryRows(rep.Summary)
	data := printData{
		Meta:      meta,
		Cards:     []SummaryRow{rows[0], rows[1], rows[2], rows[4]},
		Completed: rows[3].Value,
		Columns:   printColumns,
		Rows:      make([][]string, 0, len(rep.Records)),
	}
	for i, rec := range rep.Records {
		cells := rec.Cells()
		data.Rows = append(data.Rows, append([]string{strconv.Itoa(i + 1)}, cells[:len(printColumns)-1]...))
	}

	logo, err := r.Logo.Load(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Report logo unavailable")
	} else if logo != nil {
		data.LogoURI = template.URL(logo.DataURI())
	}

	return printTemplate.Execute(w, data)
}

// Viewer opens a rendered print document in a viewing context the process does
// not own. The document prints itself once loaded.
type Viewer interface {
	Open(doc io.Reader) error
}

// Print renders the print document and hands it to viewer.
func Print(ctx context.Context, r *HTMLRenderer, viewer Viewer, rep *report.Report, meta Metadata) error {
	if rep == nil {
		return ErrNoReportAvailable
	}
	var buf bytes.Buffer
	if err := r.Render(ctx, &buf, rep, meta); err != nil {
		return err
	}
	return viewer.Open(&buf)
}
