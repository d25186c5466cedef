package visuals

import (
	"fmt"
	"math"
	"strings"

	"mis-reports/internal/stats"
)

// GenerateTrendChart creates a Mermaid xychart-beta bar chart of records per month.
func GenerateTrendChart(chart stats.ChartSeries, title string) string {
	if !chart.HasData() {
		return ""
	}

	labels := make([]string, len(chart.Labels))
	values := make([]string, len(chart.Counts))
	maxVal := 0
	for i, label := range chart.Labels {
		labels[i] = fmt.Sprintf("%q", label)
	}
	for i, count := range chart.Counts {
		values[i] = fmt.Sprintf("%d", count)
		if count > maxVal {
			maxVal = count
		}
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString(fmt.Sprintf("    title %q\n", title))
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"Records\" 0 --> %d\n", maxVal+int(math.Max(1, float64(maxVal)*0.2))))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(values, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// GenerateStatusPie creates a Mermaid pie chart of the status breakdown.
// Records with any other status are shown as "Other".
func GenerateStatusPie(summary stats.Summary) string {
	if summary.TotalRecords == 0 {
		return ""
	}
	other := summary.TotalRecords - summary.Active - summary.Pending - summary.Completed

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("pie title Status Breakdown\n")
	for _, slice := range []struct {
		label string
		value int
	}{
		{"Active", summary.Active},
		{"Pending", summary.Pending},
		{"Completed", summary.Completed},
		{"Other", other},
	} {
		if slice.value > 0 {
			sb.WriteString(fmt.Sprintf("    %q : %d\n", slice.label, slice.value))
		}
	}
	sb.WriteString("```")
	return sb.String()
}
