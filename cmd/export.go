package cmd

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jefftune/tune-reporting-go/endpoint"
	"github.com/jefftune/tune-reporting-go/report"
)

// runExport submits an export job and drives it to completion: poll until the
// queue reports 100 percent, fetch the download URL, then download and print
// or save the report.
func runExport(ctx context.Context, ep *endpoint.Endpoint, params map[string]any,
	format, rowFilterExpr, outputDir, name string) error {

	call, err := ep.Export(ctx, params, nil)
	if err != nil {
		return err
	}
	resp, err := call.Wait(ctx)
	if err != nil {
		return err
	}

	jobID, err := endpoint.JobID(resp)
	if err != nil {
		return err
	}
	logger.Info().
		Str("endpoint", ep.Controller()).
		Str("job_id", jobID).
		Msg("Export job queued")

	reportURL, err := waitForReport(ctx, ep, jobID)
	if err != nil {
		return err
	}
	logger.Debug().Str("url", reportURL).Msg("Export job complete")

	return deliverReport(ctx, reportURL, format, rowFilterExpr, outputDir, name)
}

// waitForReport polls the export queue for jobID until it completes, then
// resolves the report download URL. The poll cadence and attempt ceiling come
// from the export configuration.
func waitForReport(ctx context.Context, ep *endpoint.Endpoint, jobID string) (string, error) {
	interval := time.Duration(cfg.Export.PollIntervalSeconds) * time.Second

	for attempt := 1; attempt <= cfg.Export.PollLimit; attempt++ {
		call, err := ep.Status(ctx, jobID, nil)
		if err != nil {
			return "", err
		}
		resp, err := call.Wait(ctx)
		if err != nil {
			return "", err
		}

		percent, err := endpoint.PercentComplete(resp)
		if err != nil {
			return "", err
		}
		logger.Debug().
			Str("job_id", jobID).
			Int("percent", percent).
			Int("attempt", attempt).
			Msg("Export job status")

		if percent >= 100 {
			fetchCall, err := ep.Fetch(ctx, jobID, nil)
			if err != nil {
				return "", err
			}
			fetchResp, err := fetchCall.Wait(ctx)
			if err != nil {
				return "", err
			}
			return endpoint.ReportURL(fetchResp)
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(interval):
		}
	}

	return "", fmt.Errorf("export job %s did not complete within %d polls", jobID, cfg.Export.PollLimit)
}

// deliverReport downloads the completed report, applies the optional row
// filter and either writes it under outputDir or prints it to stdout.
func deliverReport(ctx context.Context, reportURL, format, rowFilterExpr, outputDir, name string) error {
	var rowFilter *report.RowFilter
	if rowFilterExpr != "" {
		var err error
		rowFilter, err = report.CompileRowFilter(rowFilterExpr)
		if err != nil {
			return fmt.Errorf("invalid row filter: %w", err)
		}
	}

	switch format {
	case "json":
		rows, err := reader.ReadJSON(ctx, reportURL)
		if err != nil {
			return err
		}
		if rowFilter != nil {
			rows = rowFilter.FilterJSON(rows)
		}
		return writeJSONReport(rows, outputDir, name)
	default:
		rows, err := reader.ReadCSV(ctx, reportURL)
		if err != nil {
			return err
		}
		if rowFilter != nil {
			filtered := rowFilter.FilterCSV(rows)
			logger.Debug().
				Int("matched", len(filtered)).
				Int("total", len(rows)).
				Msg("Applied row filter")
			rows = filtered
		}
		return writeCSVReport(rows, outputDir, name)
	}
}

func writeJSONReport(rows []map[string]any, outputDir, name string) error {
	encoded, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if outputDir == "" {
		fmt.Println(string(encoded))
		return nil
	}
	path := filepath.Join(outputDir, name+".json")
	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	fmt.Printf("Wrote %d rows to %s\n", len(rows), path)
	return nil
}

func writeCSVReport(rows []map[string]string, outputDir, name string) error {
	if outputDir == "" {
		for _, row := range rows {
			pairs := make([]string, 0, len(row))
			for _, column := range sortedColumns(rows) {
				pairs = append(pairs, column+"="+row[column])
			}
			fmt.Println(strings.Join(pairs, " "))
		}
		fmt.Printf("\n%d rows\n", len(rows))
		return nil
	}

	path := filepath.Join(outputDir, name+".csv")
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	columns := sortedColumns(rows)
	writer := csv.NewWriter(file)
	if err := writer.Write(columns); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	record := make([]string, len(columns))
	for _, row := range rows {
		for i, column := range columns {
			record[i] = row[column]
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	fmt.Printf("Wrote %d rows to %s\n", len(rows), path)
	return nil
}

func sortedColumns(rows []map[string]string) []string {
	if len(rows) == 0 {
		return nil
	}
	columns := make([]string, 0, len(rows[0]))
	for column := range rows[0] {
		columns = append(columns, column)
	}
	sort.Strings(columns)
	return columns
}
