package commands

import (
	"mis-reports/internal/backend"
	"mis-reports/internal/config"
	"mis-reports/internal/export"
	"mis-reports/internal/registry"
	"mis-reports/internal/report"
)

// app wires the report pipeline from configuration.
type app struct {
	cfg       *config.AppConfig
	registry  *registry.Registry
	generator *report.Generator
	html      *export.HTMLRenderer
	exporter  *export.Exporter
}

func newApp(cfg *config.AppConfig, exportDir string) *app {
	reg := registry.New(backend.NewClient(cfg.Backend))
	logo := export.NewLogoLoader(cfg.LogoSource, nil)
	html := &export.HTMLRenderer{Logo: logo}
	if exportDir == "" {
		exportDir = cfg.ExportDir
	}
	return &app{
		cfg:       cfg,
		registry:  reg,
		generator: report.NewGenerator(reg),
		html:      html,
		exporter: export.NewExporter(exportDir,
			&export.PDFRenderer{Logo: logo, Compress: cfg.CompressPDF},
			&export.CSVRenderer{},
			html,
		),
	}
}
