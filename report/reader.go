package report

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
)

// Reader downloads completed export reports from their delivery URLs.
type Reader struct {
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewReader creates a report reader. A nil httpClient falls back to
// http.DefaultClient.
func NewReader(httpClient *http.Client, logger zerolog.Logger) *Reader {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Reader{
		httpClient: httpClient,
		logger:     logger,
	}
}

// fetch downloads the report body from the given URL.
func (r *Reader) fetch(ctx context.Context, reportURL string) ([]byte, error) {
	reportURL = strings.TrimSpace(reportURL)
	if reportURL == "" {
		return nil, fmt.Errorf("report URL is required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reportURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	r.logger.Debug().
		Str("url", reportURL).
		Msg("Downloading report")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("report download failed with status %d: %s", resp.StatusCode, string(body))
	}

	return body, nil
}

// ReadCSV downloads a CSV report and returns one map per data row, keyed by
// the header row's column names. Rows shorter than the header are padded with
// empty strings.
func (r *Reader) ReadCSV(ctx context.Context, reportURL string) ([]map[string]string, error) {
	body, err := r.fetch(ctx, reportURL)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(strings.NewReader(string(body)))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV report: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	header := records[0]
	rows := make([]map[string]string, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(record) {
				row[name] = record[i]
			} else {
				row[name] = ""
			}
		}
		rows = append(rows, row)
	}

	r.logger.Debug().
		Int("rows", len(rows)).
		Msg("Parsed CSV report")

	return rows, nil
}

// ReadJSON downloads a JSON report and returns its rows. Reports are delivered
// either as a bare array of row objects or as an object wrapping that array
// under "data".
func (r *Reader) ReadJSON(ctx context.Context, reportURL string) ([]map[string]any, error) {
	body, err := r.fetch(ctx, reportURL)
	if err != nil {
		return nil, err
	}

	var rows []map[string]any
	if err := json.Unmarshal(body, &rows); err == nil {
		return rows, nil
	}

	var wrapped struct {
		Data []map[string]any `json:"data"`
	}
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, fmt.Errorf("failed to parse JSON report: %w", err)
	}

	r.logger.Debug().
		Int("rows", len(wrapped.Data)).
		Msg("Parsed JSON report")

	return wrapped.Data, nil
}
