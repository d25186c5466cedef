package commands

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"mis-reports/internal/export"
	"mis-reports/internal/report"

	"github.com/spf13/cobra"
)

var (
	exportFlags   requestFlags
	exportFormats []string
	exportOut     string
	exportPrint   bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Generate a report and write it as PDF, CSV and/or print HTML",
	Example: `  mis-reports export -m health -c tuberculosis --start 2024-01-01 --end 2024-12-31 --format pdf,csv
  mis-reports export -m social-justice -c legal-aid --start 2024-01-01 --end 2024-03-31 --print`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		req, err := exportFlags.request()
		if err != nil {
			return err
		}
		if !cfg.CanExport(string(req.Module)) {
			return fmt.Errorf("export is not permitted for module %s", req.Module)
		}

		formats := make([]export.Format, 0, len(exportFormats))
		for _, name := range exportFormats {
			if name == "all" {
				formats = export.Formats()
				break
			}
			f, err := export.ParseFormat(name)
			if err != nil {
				return err
			}
			formats = append(formats, f)
		}

		a := newApp(cfg, exportOut)
		session := report.NewSession(a.generator)
		snap, err := session.GenerateRequest(cmd.Context(), req)
		if err != nil {
			return errors.New(report.UserMessage(err))
		}

		meta := export.NewMetadata(a.registry, snap, cfg.OrgName)
		artifacts, err := a.exporter.Export(cmd.Context(), snap.Report, meta, formats...)
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		for _, art := range artifacts {
			fmt.Fprintf(tw, "%s\t%s\t%d bytes\n", art.Format, art.Path, art.Size)
		}
		tw.Flush() //nolint:errcheck

		if exportPrint {
			return export.Print(cmd.Context(), a.html, export.BrowserViewer{}, snap.Report, meta)
		}
		return nil
	},
}

func init() {
	exportFlags.bind(exportCmd)
	exportCmd.Flags().StringSliceVar(&exportFormats, "format", []string{"all"}, "formats to write: pdf, csv, html or all")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output directory (defaults to EXPORT_DIR)")
	exportCmd.Flags().BoolVar(&exportPrint, "print", false, "open the print document in the browser")
	rootCmd.AddCommand(exportCmd)
}
