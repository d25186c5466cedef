package mcp

import "github.com/modelcontextprotocol/go-sdk/mcp"

func (s *Server) registerTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_categories",
		Description: "List report modules and their categories, including the filter keys each category accepts. Guidance: Call this first to pick a valid module/category pair for 'generate_report'.",
	}, s.handleListCategories)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_report",
		Description: "Generate a report for one category over an inclusive date range. Returns summary figures (total, active, pending, completed, completion rate), a 12-month trend and the normalized records. The report becomes the session's current report. Guidance: Use 'export_report' next to produce PDF, CSV or print documents.",
	}, s.handleGenerateReport)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "export_report",
		Description: "Export the session's current report to files (pdf, csv, html) and optionally open the print document in the browser. Fails if no report has been generated yet.",
	}, s.handleExportReport)
}
