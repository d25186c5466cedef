package mcp

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"mis-reports/internal/backend"
	"mis-reports/internal/export"
	"mis-reports/internal/registry"
	"mis-reports/internal/report"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type mockClient struct {
	backend.Client
	ListFunc func(ctx context.Context, collection string, params map[string]string) (any, error)
}

func (m *mockClient) List(ctx context.Context, collection string, params map[string]string) (any, error) {
	return m.ListFunc(ctx, collection, params)
}

type captureViewer struct {
	opened int
	err    error
}

func (v *captureViewer) Open(doc io.Reader) error {
	v.opened++
	_, _ = io.ReadAll(doc)
	return v.err
}

func tbBackend() *mockClient {
	return &mockClient{ListFunc: func(context.Context, string, map[string]string) (any, error) {
		return map[string]any{"records": []any{
			map[string]any{"firstName": "Asha", "lastName": "Rao", "status": "completed", "date": "2024-03-05", "diseaseType": "TB"},
			map[string]any{"firstName": "Ravi", "status": "active", "date": "2024-03-06"},
			map[string]any{"status": "pending", "date": "not a date"},
		}}, nil
	}}
}

func newTestServer(t *testing.T, client backend.Client, canExport func(string) bool) (*Server, *captureViewer) {
	t.Helper()
	reg := registry.New(client)
	viewer := &captureViewer{}
	html := &export.HTMLRenderer{}
	return NewServer(Dependencies{
		Registry:  reg,
		Session:   report.NewSession(report.NewGenerator(reg)),
		Exporter:  export.NewExporter(t.TempDir(), &export.PDFRenderer{}, &export.CSVRenderer{}, html),
		Print:     html,
		Viewer:    viewer,
		CanExport: canExport,
	}), viewer
}

func tbInput() GenerateReportInput {
	return GenerateReportInput{Module: "health", Category: "tuberculosis", StartDate: "2024-01-01", EndDate: "2024-12-31"}
}

func TestHandleListCategories(t *testing.T) {
	s, _ := newTestServer(t, tbBackend(), func(m string) bool { return m == "education" })

	_, out, err := s.handleListCategories(context.Background(), nil, ListCategoriesInput{})
	if err != nil {
		t.Fatal(err)
	}
	if len(out.Modules) != 3 || !out.Modules[0].Exportable || out.Modules[1].Exportable {
		t.Errorf("unexpected modules %+v", out.Modules)
	}

	_, out, err = s.handleListCategories(context.Background(), nil, ListCategoriesInput{Module: "socialJustice"})
	if err != nil {
		t.Fatal(err)
	}
	if len(out.Modules) != 1 || len(out.Modules[0].Categories) != 5 {
		t.Fatalf("unexpected social justice listing %+v", out.Modules)
	}
	if keys := out.Modules[0].Categories[1].FilterKeys; keys[0] != "status" || keys[len(keys)-1] != "groupType" {
		t.Errorf("unexpected filter keys %v", keys)
	}

	if _, _, err := s.handleListCategories(context.Background(), nil, ListCategoriesInput{Module: "finance"}); err == nil {
		t.Error("expected an error for an unknown module")
	}
}

func TestHandleGenerateReport(t *testing.T) {
	s, _ := newTestServer(t, tbBackend(), nil)

	res, out, err := s.handleGenerateReport(context.Background(), nil, tbInput())
	if err != nil {
		t.Fatal(err)
	}
	if out.ReportID == "" || out.Summary.TotalRecords != 3 || out.Summary.CompletionRate != 33 {
		t.Errorf("unexpected output %+v", out.Summary)
	}
	if out.Records[0].Name != "Asha Rao" || out.Records[0].AdditionalInfo != "Disease Type: TB" || out.Records[2].Date != "-" {
		t.Errorf("unexpected rows %+v", out.Records)
	}
	text := res.Content[0].(*mcp.TextContent).Text
	if !strings.Contains(text, "Completion Rate: 33%") || !strings.Contains(text, "xychart-beta") {
		t.Errorf("unexpected summary text:\n%s", text)
	}
}

func TestHandleGenerateReport_Errors(t *testing.T) {
	failing := &mockClient{ListFunc: func(context.Context, string, map[string]string) (any, error) {
		return nil, errors.New("Service temporarily unavailable")
	}}
	s, _ := newTestServer(t, failing, nil)

	in := tbInput()
	in.EndDate = ""
	if _, _, err := s.handleGenerateReport(context.Background(), nil, in); err == nil || err.Error() != report.ErrMissingDateRange.Error() {
		t.Errorf("expected missing date range, got %v", err)
	}

	if _, _, err := s.handleGenerateReport(context.Background(), nil, tbInput()); err == nil || err.Error() != "Service temporarily unavailable" {
		t.Errorf("expected the backend message, got %v", err)
	}
}

func TestHandleExportReport(t *testing.T) {
	s, viewer := newTestServer(t, tbBackend(), nil)

	if _, _, err := s.handleExportReport(context.Background(), nil, ExportReportInput{}); !errors.Is(err, export.ErrNoReportAvailable) {
		t.Fatalf("expected ErrNoReportAvailable, got %v", err)
	}

	if _, _, err := s.handleGenerateReport(context.Background(), nil, tbInput()); err != nil {
		t.Fatal(err)
	}
	_, out, err := s.handleExportReport(context.Background(), nil, ExportReportInput{Formats: []string{"csv", "PDF"}, Print: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(out.Artifacts) != 2 || out.Artifacts[0].Name != "Health_Tuberculosis_Report_2024-01-01_to_2024-12-31.csv" {
		t.Errorf("unexpected artifacts %+v", out.Artifacts)
	}
	if !out.Printed || viewer.opened != 1 {
		t.Error("expected the print document to be opened once")
	}

	viewer.err = errors.New("no browser")
	res, out, err := s.handleExportReport(context.Background(), nil, ExportReportInput{Formats: []string{"html"}, Print: true})
	if err != nil || out.Printed || res == nil || len(out.Artifacts) != 1 {
		t.Errorf("expected files to be exported despite the print failure, got %v %+v", err, out)
	}

	if _, _, err := s.handleExportReport(context.Background(), nil, ExportReportInput{Formats: []string{"xlsx"}}); err == nil {
		t.Error("expected an error for an unsupported format")
	}
}

func TestHandleExportReport_NotPermitted(t *testing.T) {
	s, _ := newTestServer(t, tbBackend(), func(string) bool { return false })
	if _, _, err := s.handleGenerateReport(context.Background(), nil, tbInput()); err != nil {
		t.Fatal(err)
	}
	if _, _, err := s.handleExportReport(context.Background(), nil, ExportReportInput{}); err == nil {
		t.Error("expected export to be refused")
	}
}

func TestToolsOverInMemoryTransport(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestServer(t, tbBackend(), nil)

	clientTransport, serverTransport := mcp.NewInMemoryTransports()
	ss, err := s.Build().Connect(ctx, serverTransport, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer ss.Close()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer cs.Close()

	tools, err := cs.ListTools(ctx, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(tools.Tools) != 3 {
		t.Errorf("expected 3 tools, got %d", len(tools.Tools))
	}

	res, err := cs.CallTool(ctx, &mcp.CallToolParams{Name: "export_report", Arguments: map[string]any{}})
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsError {
		t.Error("expected export before generate to be a tool error")
	}

	res, err = cs.CallTool(ctx, &mcp.CallToolParams{Name: "generate_report", Arguments: map[string]any{
		"module":     "health",
		"category":   "tuberculosis",
		"start_date": "2024-01-01",
		"end_date":   "2024-12-31",
		"filters":    map[string]any{"wardNo": "7"},
	}})
	if err != nil {
		t.Fatal(err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %v", res.Content)
	}
	structured, ok := res.StructuredContent.(map[string]any)
	if !ok {
		t.Fatalf("expected structured content, got %T", res.StructuredContent)
	}
	summary := structured["summary"].(map[string]any)
	if summary["totalRecords"] != float64(3) {
		t.Errorf("unexpected summary %v", summary)
	}
}
