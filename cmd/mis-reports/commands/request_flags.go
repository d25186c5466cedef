package commands

import (
	"mis-reports/internal/report"

	"github.com/spf13/cobra"
)

// requestFlags are the report selection flags shared by generate and export.
type requestFlags struct {
	module   string
	category string
	start    string
	end      string
	filters  map[string]string
}

func (f *requestFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.module, "module", "m", "", "module key (education, health, social-justice)")
	cmd.Flags().StringVarP(&f.category, "category", "c", "", "category key, e.g. tuberculosis")
	cmd.Flags().StringVar(&f.start, "start", "", "inclusive start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.end, "end", "", "inclusive end date (YYYY-MM-DD)")
	cmd.Flags().StringToStringVarP(&f.filters, "filter", "f", nil, "filter as key=value, repeatable")
}

func (f *requestFlags) request() (report.Request, error) {
	return report.ParseRequest(f.module, f.category, f.start, f.end, f.filters)
}
