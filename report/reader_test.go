package report

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "text/csv")
		w.Write([]byte("site_name,country,installs\nBig App,US,250\nSmall App,DE,12\nShort Row,FR\n"))
	}))
	defer server.Close()

	reader := NewReader(server.Client(), zerolog.Nop())
	rows, err := reader.ReadCSV(context.Background(), server.URL+"/report.csv")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Big App", rows[0]["site_name"])
	assert.Equal(t, "250", rows[0]["installs"])
	assert.Equal(t, "DE", rows[1]["country"])
	// rows shorter than the header pad missing columns
	assert.Equal(t, "", rows[2]["installs"])
}

func TestReadCSVEmptyBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	reader := NewReader(server.Client(), zerolog.Nop())
	rows, err := reader.ReadCSV(context.Background(), server.URL+"/report.csv")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestReadJSONBareArray(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"site_name":"Big App","installs":250},{"site_name":"Small App","installs":12}]`))
	}))
	defer server.Close()

	reader := NewReader(server.Client(), zerolog.Nop())
	rows, err := reader.ReadJSON(context.Background(), server.URL+"/report.json")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Big App", rows[0]["site_name"])
	assert.Equal(t, float64(250), rows[0]["installs"])
}

func TestReadJSONWrappedArray(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[{"site_name":"Big App"}]}`))
	}))
	defer server.Close()

	reader := NewReader(server.Client(), zerolog.Nop())
	rows, err := reader.ReadJSON(context.Background(), server.URL+"/report.json")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Big App", rows[0]["site_name"])
}

func TestReadReportHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	reader := NewReader(server.Client(), zerolog.Nop())
	_, err := reader.ReadCSV(context.Background(), server.URL+"/report.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")

	_, err = reader.ReadJSON(context.Background(), server.URL+"/report.json")
	require.Error(t, err)
}

func TestReadReportEmptyURL(t *testing.T) {
	reader := NewReader(nil, zerolog.Nop())
	_, err := reader.ReadCSV(context.Background(), "  ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "report URL is required")
}

func TestReadReportUnparseable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json at all`))
	}))
	defer server.Close()

	reader := NewReader(server.Client(), zerolog.Nop())
	_, err := reader.ReadJSON(context.Background(), server.URL+"/report.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse JSON report")
}
