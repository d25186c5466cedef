package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"mis-reports/internal/records"
	"mis-reports/internal/registry"
	"mis-reports/internal/report"
	"mis-reports/internal/stats"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrNoReportAvailable is returned when an export is attempted before any
// report has been generated.
var ErrNoReportAvailable = errors.New("no report available; generate a report first")

// Format identifies an export format.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatCSV  Format = "csv"
	FormatHTML Format = "html"
)

// Formats lists every supported format.
func Formats() []Format {
	return []Format{FormatPDF, FormatCSV, FormatHTML}
}

// ParseFormat accepts a format name in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatPDF, FormatCSV, FormatHTML:
		return f, nil
	case "print":
		return FormatHTML, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

// MIMEType returns the content type served for the format.
func (f Format) MIMEType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatCSV:
		return "text/csv; charset=utf-8"
	default:
		return "text/html; charset=utf-8"
	}
}

// Renderer writes one report in one format. Implementations must not modify rep
// and must return ErrNoReportAvailable before writing anything when rep is nil.
type Renderer interface {
	Format() Format
	Render(ctx context.Context, w io.Writer, rep *report.Report, meta Metadata) error
}

// CategoryLabeler resolves display labels for categories.
type CategoryLabeler interface {
	CategoryLabel(module registry.Module, category string) string
}

// Metadata is the presentation context shared by every renderer.
type Metadata struct {
	Module        registry.Module   `json:"module"`
	ModuleLabel   string            `json:"moduleLabel"`
	CategoryLabel string            `json:"categoryLabel"`
	Period        report.DateRange  `json:"period"`
	Filters       map[string]string `json:"filters,omitempty"`
	GeneratedAt   time.Time         `json:"generatedAt"`
	OrgName       string            `json:"orgName,omitempty"`
}

// NewMetadata derives presentation metadata from a generated snapshot.
func NewMetadata(labels CategoryLabeler, snap report.Snapshot, orgName string) Metadata {
	req := snap.Request
	return Metadata{
		Module:        req.Module,
		ModuleLabel:   req.Module.Label(),
		CategoryLabel: labels.CategoryLabel(req.Module, req.Category),
		Period:        req.DateRange,
		Filters:       req.Filters,
		GeneratedAt:   snap.GeneratedAt,
		OrgName:       orgName,
	}
}

const timestampLayout = "2006-01-02 15:04"

func (m Metadata) Title() string {
	return fmt.Sprintf("%s - %s Report", m.ModuleLabel, m.CategoryLabel)
}

func (m Metadata) PeriodLabel() string {
	return fmt.Sprintf("%s to %s", m.Period.Start.Format(records.DateLayout), m.Period.End.Format(records.DateLayout))
}

func (m Metadata) GeneratedLabel() string {
	return m.GeneratedAt.Format(timestampLayout)
}

// FilterLabel renders the applied filters as "key=value" pairs in key order.
func (m Metadata) FilterLabel() string {
	keys := make([]string, 0, len(m.Filters))
	for k, v := range m.Filters {
		if v != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + m.Filters[k]
	}
	return strings.Join(parts, "; ")
}

// ModuleFileLabel is the module key title-cased segment by segment,
// e.g. "social-justice" becomes "SocialJustice".
func ModuleFileLabel(m registry.Module) string {
	caser := cases.Title(language.English)
	var b strings.Builder
	for _, part := range strings.FieldsFunc(string(m), func(r rune) bool { return r == '-' || r == '_' || r == ' ' }) {
		b.WriteString(caser.String(part))
	}
	return b.String()
}

// FileName is the download name of an exported artifact:
// {Module}_{CategoryLabel}_Report_{start}_to_{end}.{ext}
func FileName(meta Metadata, f Format) string {
	category := strings.NewReplacer("/", "-", "\\", "-").Replace(meta.CategoryLabel)
	return fmt.Sprintf("%s_%s_Report_%s_to_%s.%s",
		ModuleFileLabel(meta.Module),
		category,
		meta.Period.Start.Format(records.DateLayout),
		meta.Period.End.Format(records.DateLayout),
		string(f),
	)
}

// SummaryRow is one label/value pair of the executive summary.
type SummaryRow struct {
	Label string
	Value string
}

// SummaryRows are the summary figures every format prints, formatted once.
func SummaryRows(s stats.Summary) []SummaryRow {
	return []SummaryRow{
		{"Total Records", strconv.Itoa(s.TotalRecords)},
		{"Active", strconv.Itoa(s.Active)},
		{"Pending", strconv.Itoa(s.Pending)},
		{"Completed", strconv.Itoa(s.Completed)},
		{"Completion Rate", percent(s.CompletionRate)},
	}
}

func percent(v int) string {
	return strconv.Itoa(v) + "%"
}
