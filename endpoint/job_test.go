package endpoint

import (
	"net/http"
	"testing"

	"github.com/jefftune/tune-reporting-go/service"
)

func responseWithData(t *testing.T, data any) *service.Response {
	t.Helper()
	body := map[string]any{"status_code": float64(200), "data": data}
	return service.NewResponse("https://example.com/v2/test.json", body, http.Header{}, 200)
}

func TestJobIDAcceptsBothShapes(t *testing.T) {
	// log/actuals vintage: data is the identifier itself
	jobID, err := JobID(responseWithData(t, "job-123"))
	if err != nil {
		t.Fatalf("bare string shape: %v", err)
	}
	if jobID != "job-123" {
		t.Fatalf("jobID = %q", jobID)
	}

	// cohort vintage: data wraps the identifier
	jobID, err = JobID(responseWithData(t, map[string]any{"job_id": "job-456"}))
	if err != nil {
		t.Fatalf("object shape: %v", err)
	}
	if jobID != "job-456" {
		t.Fatalf("jobID = %q", jobID)
	}
}

func TestJobIDMissing(t *testing.T) {
	cases := []any{
		nil,
		"",
		map[string]any{"other": "x"},
		map[string]any{"job_id": ""},
		42.0,
	}
	for _, data := range cases {
		if _, err := JobID(responseWithData(t, data)); err == nil {
			t.Fatalf("expected error for data %v", data)
		}
	}

	if _, err := JobID(nil); err == nil {
		t.Fatal("expected error for nil response")
	}
}

func TestPercentComplete(t *testing.T) {
	percent, err := PercentComplete(responseWithData(t, map[string]any{"percent_complete": float64(42)}))
	if err != nil {
		t.Fatalf("numeric: %v", err)
	}
	if percent != 42 {
		t.Fatalf("percent = %d", percent)
	}

	percent, err = PercentComplete(responseWithData(t, map[string]any{"percent_complete": "100"}))
	if err != nil {
		t.Fatalf("string: %v", err)
	}
	if percent != 100 {
		t.Fatalf("percent = %d", percent)
	}

	if _, err := PercentComplete(responseWithData(t, map[string]any{})); err == nil {
		t.Fatal("expected error when percent_complete absent")
	}
	if _, err := PercentComplete(responseWithData(t, "job-1")); err == nil {
		t.Fatal("expected error for non-object data")
	}
}

func TestReportURL(t *testing.T) {
	reportURL, err := ReportURL(responseWithData(t, map[string]any{
		"percent_complete": float64(100),
		"url":              "https://reports.example.com/r.csv",
	}))
	if err != nil {
		t.Fatalf("ReportURL: %v", err)
	}
	if reportURL != "https://reports.example.com/r.csv" {
		t.Fatalf("url = %q", reportURL)
	}

	if _, err := ReportURL(responseWithData(t, map[string]any{"url": ""})); err == nil {
		t.Fatal("expected error for empty url")
	}

	if _, err := ReportURL(responseWithData(t, map[string]any{})); err == nil {
		t.Fatal("expected error when url absent")
	} else if _, ok := err.(*service.ServiceError); !ok {
		t.Fatalf("expected *service.ServiceError, got %T", err)
	}
}
