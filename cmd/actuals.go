package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jefftune/tune-reporting-go/endpoint"
)

var (
	actualsGroup     string
	actualsTimestamp string
)

// actualsCmd represents the actuals command
var actualsCmd = &cobra.Command{
	Use:   "actuals",
	Short: "Query aggregated actuals statistics",
	Long: `Query the actuals endpoint for aggregated attribution measures over
a date range. By default matching records are fetched directly; --export
queues a report job instead and downloads the result.`,
	RunE: runActuals,
}

var actualsExport bool

func init() {
	rootCmd.AddCommand(actualsCmd)

	actualsCmd.Flags().StringVar(&startDate, "start", "", "start of the reporting window (YYYY-MM-DD or YYYY-MM-DD HH:MM:SS)")
	actualsCmd.Flags().StringVar(&endDate, "end", "", "end of the reporting window")
	actualsCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "server-side filter expression")
	actualsCmd.Flags().StringVar(&fieldsList, "fields", "", "comma-separated fields (default: recommended fields)")
	actualsCmd.Flags().StringVarP(&actualsGroup, "group", "g", "", "comma-separated grouping fields")
	actualsCmd.Flags().StringVar(&actualsTimestamp, "timestamp", "", "time bucket (hour, datehour, date, week, month)")
	actualsCmd.Flags().StringVar(&exportFormat, "format", "csv", "export format (csv or json)")
	actualsCmd.Flags().StringVar(&responseTZ, "timezone", "", "response timezone")
	actualsCmd.Flags().StringVar(&rowFilterExpr, "row-filter", "", "client-side row filter expression applied after download")
	actualsCmd.Flags().StringVarP(&outputDir, "output", "o", "", "directory to write reports to (default: print to stdout)")
	actualsCmd.Flags().BoolVar(&actualsExport, "export", false, "queue an export job instead of a direct find")
	actualsCmd.Flags().BoolVar(&countOnly, "count", false, "only count matching records")
}

func runActuals(cmd *cobra.Command, args []string) error {
	if startDate == "" || endDate == "" {
		return fmt.Errorf("--start and --end are required")
	}

	ctx := context.Background()
	ep := endpoint.NewActuals(client, auth(), logger)

	params := logParams(nil)
	if actualsGroup != "" {
		params["group"] = actualsGroup
	}
	if actualsTimestamp != "" {
		params["timestamp"] = actualsTimestamp
	}

	if countOnly {
		count, err := countRecords(ctx, ep, params)
		if err != nil {
			return err
		}
		fmt.Printf("%d records\n", count)
		return nil
	}

	if actualsExport {
		// The actuals export requires an explicit projection.
		if fieldsList == "" {
			params["fields"] = strings.Join(ep.Fields(endpoint.FieldsRecommended), ",")
		}
		params["format"] = exportFormat
		return runExport(ctx, ep, params, exportFormat, rowFilterExpr, outputDir, "actuals")
	}

	call, err := ep.Find(ctx, params, nil)
	if err != nil {
		return err
	}
	resp, err := call.Wait(ctx)
	if err != nil {
		return err
	}

	encoded, err := json.MarshalIndent(resp.Data(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}
	fmt.Println(string(encoded))
	return nil
}
