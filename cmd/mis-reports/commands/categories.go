package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"mis-reports/internal/registry"

	"github.com/spf13/cobra"
)

var categoriesModule string

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List modules, categories and the filters each category accepts",
	RunE: func(cmd *cobra.Command, _ []string) error {
		modules := registry.Modules()
		if categoriesModule != "" {
			m, ok := registry.ParseModule(categoriesModule)
			if !ok {
				return fmt.Errorf("unknown module %q", categoriesModule)
			}
			modules = []registry.Module{m}
		}
		formatCategories(cmd.OutOrStdout(), registry.New(nil), modules)
		return nil
	},
}

func formatCategories(out io.Writer, reg *registry.Registry, modules []registry.Module) {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "MODULE\tCATEGORY\tLABEL\tFILTERS")
	for _, m := range modules {
		for _, c := range reg.Categories(m) {
			filters := append(append([]string{}, registry.CommonFilterKeys...), c.FilterKeys...)
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", m, c.Key, c.Label, strings.Join(filters, ", "))
		}
	}
	tw.Flush() //nolint:errcheck
}

func init() {
	categoriesCmd.Flags().StringVarP(&categoriesModule, "module", "m", "", "only list this module")
	rootCmd.AddCommand(categoriesCmd)
}
