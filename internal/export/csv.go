package export

import (
	"bufio"
	"context"
	"io"
	"strconv"
	"strings"

	"mis-reports/internal/records"
	"mis-reports/internal/report"
	"mis-reports/internal/stats"
)

const utf8BOM = "\uFEFF"

// CSVRenderer serializes a report as sectioned, fully quoted CSV.
type CSVRenderer struct {
	// Delimiter defaults to a comma.
	Delimiter rune
}

func (r *CSVRenderer) Format() Format { return FormatCSV }

func (r *CSVRenderer) Render(_ context.Context, w io.Writer, rep *report.Report, meta Metadata) error {
	if rep == nil {
		return ErrNoReportAvailable
	}

	cw := newQuotedWriter(w, r.Delimiter)
	cw.raw(utf8BOM)

	cw.row(meta.Title())
	if meta.OrgName != "" {
		cw.row("Organization", meta.OrgName)
	}
	cw.row("Module", meta.ModuleLabel)
	cw.row("Category", meta.CategoryLabel)
	cw.row("Period", meta.PeriodLabel())
	cw.row("Generated", meta.GeneratedLabel())
	if filters := meta.FilterLabel(); filters != "" {
		cw.row("Filters", filters)
	}
	cw.blank()

	cw.row("EXECUTIVE SUMMARY")
	cw.row("Metric", "Value")
	for _, s := range SummaryRows(rep.Summary) {
		cw.row(s.Label, s.Value)
	}
	cw.row("Active Rate", percent(rep.Summary.ActiveRate()))
	cw.row("Pending Rate", percent(rep.Summary.PendingRate()))
	cw.blank()

	if rep.Chart.HasData() {
		writeTrend(cw, rep.Chart)
		cw.blank()
	}

	cw.row("DETAILED RECORDS")
	cw.row(append(append([]string{"#"}, records.DetailColumns...), "Additional Info")...)
	for i, rec := range rep.Records {
		fields := append([]string{strconv.Itoa(i + 1)}, rec.Cells()...)
		cw.row(append(fields, rec.AdditionalInfo())...)
	}
	cw.blank()

	cw.row("REPORT METADATA")
	cw.row("Generated By", "MIS Reports")
	cw.row("Report Type", meta.CategoryLabel)
	cw.row("Export Format", "CSV")
	cw.row("Record Count", strconv.Itoa(len(rep.Records)))

	return cw.flush()
}

func writeTrend(cw *quotedWriter, chart stats.ChartSeries) {
	cw.row("MONTHLY TREND")
	cw.row("Month", "Count")
	for i, label := range chart.Labels {
		cw.row(label, strconv.Itoa(chart.Counts[i]))
	}
}

// quotedWriter wraps every field in double quotes and doubles embedded quotes,
// terminating rows with CRLF. The first write error sticks.
type quotedWriter struct {
	w     *bufio.Writer
	delim string
	err   error
}

func newQuotedWriter(w io.Writer, delim rune) *quotedWriter {
	if delim == 0 {
		delim = ','
	}
	return &quotedWriter{w: bufio.NewWriter(w), delim: string(delim)}
}

func (q *quotedWriter) raw(s string) {
	if q.err == nil {
		_, q.err = q.w.WriteString(s)
	}
}

func (q *quotedWriter) row(fields ...string) {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}
	q.raw(strings.Join(quoted, q.delim) + "\r\n")
}

func (q *quotedWriter) blank() {
	q.raw("\r\n")
}

func (q *quotedWriter) flush() error {
	if q.err != nil {
		return q.err
	}
	return q.w.Flush()
}
