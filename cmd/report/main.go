// Command report prints the dashboard KPIs and segment breakdowns for a
// selection without starting the web server.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"sales-dashboard/internal/config"
	"sales-dashboard/internal/dataset"
	"sales-dashboard/internal/export"
	"sales-dashboard/internal/format"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/services"
)

type reportOptions struct {
	file        string
	selection   models.Selection
	showOptions bool
	xlsxPath    string
	logLevel    string
}

func newRootCmd() *cobra.Command {
	var opts reportOptions

	cmd := &cobra.Command{
		Use:           "report",
		Short:         "Print sales KPIs and segment breakdowns for a filter selection",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.file, "file", "f", "", "orders CSV or XLSX file (default: DATA_CSV_FILE)")
	flags.StringArrayVar(&opts.selection.Region, "region", nil, "region to keep; repeat for several")
	flags.StringArrayVar(&opts.selection.State, "state", nil, "state to keep; repeat for several")
	flags.StringArrayVar(&opts.selection.City, "city", nil, "city to keep; repeat for several")
	flags.StringArrayVar(&opts.selection.Category, "category", nil, "category to keep; repeat for several")
	flags.StringArrayVar(&opts.selection.SubCategory, "sub-category", nil, "sub-category to keep; repeat for several")
	flags.StringArrayVar(&opts.selection.ProductName, "product", nil, "product name to keep; repeat for several")
	flags.BoolVar(&opts.showOptions, "options", false, "list the values each filter offers")
	flags.StringVar(&opts.xlsxPath, "xlsx", "", "also write the workbook to this path")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	return cmd
}

func runReport(ctx context.Context, out, errOut io.Writer, opts reportOptions) error {
	logger := observability.NewLoggerTo(errOut, config.LoggerConfig{Level: opts.logLevel, Format: "text"})

	if opts.file == "" {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		opts.file = cfg.Data.CSVFile
	}

	dashboard := services.NewDashboard(dataset.NewStore(1, logger), logger)
	if err := dashboard.Load(ctx, opts.file); err != nil {
		return err
	}

	dash, orders := dashboard.BuildRows(ctx, opts.selection)

	fmt.Fprintf(out, "Sales Dashboard: %s\n", opts.file)
	writeSelection(out, dash.Selection)
	writeMetrics(out, dash.Summary)
	writeSegments(out, "Profit", dash.Summary.SegmentProfit)
	writeSegments(out, "Sales", dash.Summary.SegmentSales)
	if opts.showOptions {
		writeOptions(out, dash.Options)
	}

	if opts.xlsxPath != "" {
		if err := writeWorkbook(opts.xlsxPath, dash, orders); err != nil {
			return err
		}
		fmt.Fprintf(out, "\nWorkbook written to %s\n", opts.xlsxPath)
	}
	return nil
}

func writeSelection(out io.Writer, sel models.Selection) {
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Filter", "Selected"})
	for _, f := range models.Fields {
		selected := "All"
		if values := sel.Get(f); len(values) > 0 {
			selected = strings.Join(values, "; ")
		}
		table.Append([]string{f.Label(), selected})
	}
	table.Render()
}

func writeMetrics(out io.Writer, s models.Summary) {
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Metric", "Value", "Delta"})
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT})
	table.Append([]string{"Sales Forecast", format.Currency(s.Metrics.SalesForecast), ""})
	table.Append([]string{"Total Sales", format.Currency(s.Metrics.TotalSales), format.Delta(s.Metrics.SalesDelta)})
	table.Append([]string{"Total Profit", format.Currency(s.Metrics.ProfitEarned), ""})
	table.SetFooter([]string{"Orders", format.Number(s.RowCount), ""})
	table.Render()
}

func writeSegments(out io.Writer, name string, totals []models.SegmentTotal) {
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Segment", name})
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT})
	for _, t := range totals {
		table.Append([]string{t.Segment, format.Money(t.Value)})
	}
	table.Render()
}

func writeOptions(out io.Writer, opts models.Options) {
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Filter", "Offered", "Values"})
	table.SetAutoWrapText(false)
	for _, f := range models.Fields {
		values := opts.Get(f)
		shown := values
		if len(shown) > 5 {
			shown = shown[:5]
		}
		list := strings.Join(shown, "; ")
		if len(values) > len(shown) {
			list += "; ..."
		}
		table.Append([]string{f.Label(), format.Number(len(values)), list})
	}
	table.Render()
}

func writeWorkbook(path string, dash models.Dashboard, orders []models.Order) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create workbook: %w", err)
	}
	if err := export.Workbook(f, dash, orders); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "report:", err)
		stop()
		os.Exit(1)
	}
}
