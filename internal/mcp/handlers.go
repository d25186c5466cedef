package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"mis-reports/internal/export"
	"mis-reports/internal/records"
	"mis-reports/internal/registry"
	"mis-reports/internal/report"
	"mis-reports/internal/stats"
	"mis-reports/internal/visuals"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

type ListCategoriesInput struct {
	Module string `json:"module,omitempty" jsonschema:"optional module key (education, health, social-justice); lists all modules when empty"`
}

type CategoryInfo struct {
	Key        string   `json:"key"`
	Label      string   `json:"label"`
	FilterKeys []string `json:"filter_keys"`
}

type ModuleInfo struct {
	Key        string         `json:"key"`
	Label      string         `json:"label"`
	Exportable bool           `json:"exportable"`
	Categories []CategoryInfo `json:"categories"`
}

type ListCategoriesOutput struct {
	Modules []ModuleInfo `json:"modules"`
}

type GenerateReportInput struct {
	Module    string            `json:"module" jsonschema:"module key, e.g. health"`
	Category  string            `json:"category" jsonschema:"category key, e.g. tuberculosis"`
	StartDate string            `json:"start_date" jsonschema:"inclusive start date, YYYY-MM-DD"`
	EndDate   string            `json:"end_date" jsonschema:"inclusive end date, YYYY-MM-DD"`
	Filters   map[string]string `json:"filters,omitempty" jsonschema:"optional filters; keys the category does not accept are ignored"`
}

type RecordRow struct {
	Name           string `json:"name"`
	Status         string `json:"status"`
	Date           string `json:"date"`
	Ward           string `json:"ward"`
	Habitation     string `json:"habitation"`
	Class          string `json:"class"`
	Treatment      string `json:"treatment"`
	AdditionalInfo string `json:"additional_info,omitempty"`
}

type GenerateReportOutput struct {
	ReportID string            `json:"report_id"`
	Title    string            `json:"title"`
	Period   string            `json:"period"`
	Summary  stats.Summary     `json:"summary"`
	Chart    stats.ChartSeries `json:"chart"`
	Records  []RecordRow       `json:"records"`
}

type ExportReportInput struct {
	Formats []string `json:"formats,omitempty" jsonschema:"formats to write: pdf, csv, html; all when empty"`
	Print   bool     `json:"print,omitempty" jsonschema:"open the print document in the system browser"`
}

type ExportReportOutput struct {
	ReportID  string            `json:"report_id"`
	Artifacts []export.Artifact `json:"artifacts"`
	Printed   bool              `json:"printed"`
}

func (s *Server) handleListCategories(_ context.Context, _ *mcp.CallToolRequest, in ListCategoriesInput) (*mcp.CallToolResult, ListCategoriesOutput, error) {
	modules := registry.Modules()
	if in.Module != "" {
		m, ok := registry.ParseModule(in.Module)
		if !ok {
			return nil, ListCategoriesOutput{}, fmt.Errorf("unknown module %q", in.Module)
		}
		modules = []registry.Module{m}
	}

	out := ListCategoriesOutput{Modules: make([]ModuleInfo, 0, len(modules))}
	for _, m := range modules {
		info := ModuleInfo{Key: string(m), Label: m.Label(), Exportable: s.deps.CanExport(string(m))}
		for _, c := range s.deps.Registry.Categories(m) {
			keys := append(append([]string{}, registry.CommonFilterKeys...), c.FilterKeys...)
			info.Categories = append(info.Categories, CategoryInfo{Key: c.Key, Label: c.Label, FilterKeys: keys})
		}
		out.Modules = append(out.Modules, info)
	}
	return nil, out, nil
}

func (s *Server) handleGenerateReport(ctx context.Context, _ *mcp.CallToolRequest, in GenerateReportInput) (*mcp.CallToolResult, GenerateReportOutput, error) {
	req, err := report.ParseRequest(in.Module, in.Category, in.StartDate, in.EndDate, in.Filters)
	if err != nil {
		return nil, GenerateReportOutput{}, err
	}

	snap, err := s.deps.Session.GenerateRequest(ctx, req)
	if err != nil {
		log.Warn().Err(err).Str("module", in.Module).Str("category", in.Category).Msg("generate_report failed")
		return nil, GenerateReportOutput{}, errors.New(report.UserMessage(err))
	}

	meta := export.NewMetadata(s.deps.Registry, snap, s.deps.OrgName)
	out := GenerateReportOutput{
		ReportID: snap.ID,
		Title:    meta.Title(),
		Period:   meta.PeriodLabel(),
		Summary:  snap.Report.Summary,
		Chart:    snap.Report.Chart,
		Records:  make([]RecordRow, 0, len(snap.Report.Records)),
	}
	for _, rec := range snap.Report.Records {
		out.Records = append(out.Records, toRow(rec))
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: summaryText(meta, snap.Report)}},
	}, out, nil
}

func (s *Server) handleExportReport(ctx context.Context, _ *mcp.CallToolRequest, in ExportReportInput) (*mcp.CallToolResult, ExportReportOutput, error) {
	snap, ok := s.deps.Session.Current()
	if !ok {
		return nil, ExportReportOutput{}, export.ErrNoReportAvailable
	}
	if !s.deps.CanExport(string(snap.Request.Module)) {
		return nil, ExportReportOutput{}, fmt.Errorf("export is not permitted for module %s", snap.Request.Module)
	}

	formats := make([]export.Format, 0, len(in.Formats))
	for _, name := range in.Formats {
		f, err := export.ParseFormat(name)
		if err != nil {
			return nil, ExportReportOutput{}, err
		}
		formats = append(formats, f)
	}

	meta := export.NewMetadata(s.deps.Registry, snap, s.deps.OrgName)
	artifacts, err := s.deps.Exporter.Export(ctx, snap.Report, meta, formats...)
	if err != nil {
		return nil, ExportReportOutput{}, err
	}
	out := ExportReportOutput{ReportID: snap.ID, Artifacts: artifacts}

	if in.Print {
		if err := export.Print(ctx, s.deps.Print, s.deps.Viewer, snap.Report, meta); err != nil {
			log.Warn().Err(err).Msg("Opening print document failed")
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: "Exported, but the print document could not be opened: " + err.Error()}},
			}, out, nil
		}
		out.Printed = true
	}
	return nil, out, nil
}

func toRow(rec records.NormalizedRecord) RecordRow {
	cells := rec.Cells()
	return RecordRow{
		Name:           cells[0],
		Status:         cells[1],
		Date:           cells[2],
		Ward:           cells[3],
		Habitation:     cells[4],
		Class:          cells[5],
		Treatment:      cells[6],
		AdditionalInfo: rec.AdditionalInfo(),
	}
}

func summaryText(meta export.Metadata, rep *report.Report) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## %s\n\nPeriod: %s\n\n", meta.Title(), meta.PeriodLabel()))
	for _, row := range export.SummaryRows(rep.Summary) {
		sb.WriteString(fmt.Sprintf("- %s: %s\n", row.Label, row.Value))
	}
	if chart := visuals.GenerateTrendChart(rep.Chart, meta.CategoryLabel+" by Month"); chart != "" {
		sb.WriteString("\n" + chart + "\n")
	}
	if pie := visuals.GenerateStatusPie(rep.Summary); pie != "" {
		sb.WriteString("\n" + pie + "\n")
	}
	return sb.String()
}
