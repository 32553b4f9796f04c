package reverify

import (
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/schollz/progressbar/v3"
)

// NewProgress returns a spinner-style progress bar for the pagination loop;
// the total page count is unknown up front.
func NewProgress(out io.Writer) *progressbar.ProgressBar {
	return progressbar.NewOptions(-1,
		progressbar.OptionSetDescription("scanning users"),
		progressbar.OptionSetWriter(out),
		progressbar.OptionShowCount(),
		progressbar.OptionSpinnerType(14),
	)
}

// WriteReport renders the end-of-run summary table.
func WriteReport(w io.Writer, report *Report, dryRun bool) {
	if dryRun {
		_, _ = color.New(color.FgYellow, color.Bold).Fprintln(w, "DRY RUN: no users were deactivated")
	}

	table := tablewriter.NewWriter(w)
	table.Header("Metric", "Count")
	_ = table.Append("Pages scanned", strconv.Itoa(report.Pages))
	_ = table.Append("Users scanned", strconv.Itoa(report.Scanned))
	_ = table.Append("Users targeted", strconv.Itoa(report.Targeted))
	_ = table.Append("Users deactivated", strconv.Itoa(report.Deactivated))
	_ = table.Append("Failures", strconv.Itoa(report.Failed))
	_ = table.Render()

	if report.Failed > 0 {
		_, _ = color.New(color.FgRed, color.Bold).Fprintf(w, "%d deactivation(s) failed\n", report.Failed)
	}
}
