package endpoint

import (
	"strings"

	"github.com/jefftune/tune-reporting-go/service"
)

// JobID extracts the export job identifier from an export response. Endpoint
// vintages disagree on the payload shape: log and actuals exports return the
// identifier as the data value itself, while cohort exports wrap it in a
// {"job_id": ...} object. Both resolve here.
func JobID(resp *service.Response) (string, error) {
	if resp == nil {
		return "", &service.ServiceError{Message: "export response is not defined"}
	}
	switch data := resp.Data().(type) {
	case string:
		if strings.TrimSpace(data) != "" {
			return data, nil
		}
	case map[string]any:
		if jobID, ok := data["job_id"].(string); ok && strings.TrimSpace(jobID) != "" {
			return jobID, nil
		}
		return "", &service.ServiceError{
			Message:    `export response data does not contain "job_id"`,
			RequestURL: resp.RequestURL(),
		}
	}
	return "", &service.ServiceError{
		Message:    "export response did not return a job identifier",
		RequestURL: resp.RequestURL(),
	}
}

// PercentComplete extracts data.percent_complete from a status response.
func PercentComplete(resp *service.Response) (int, error) {
	if resp == nil {
		return 0, &service.ServiceError{Message: "status response is not defined"}
	}
	data, ok := resp.Data().(map[string]any)
	if !ok {
		return 0, &service.ServiceError{
			Message:    "status response did not return export data",
			RequestURL: resp.RequestURL(),
		}
	}
	switch percent := data["percent_complete"].(type) {
	case float64:
		return int(percent), nil
	case string:
		// some vintages report the percentage as a string
		trimmed := strings.TrimSpace(percent)
		if trimmed != "" {
			n := 0
			for _, r := range trimmed {
				if r < '0' || r > '9' {
					n = -1
					break
				}
				n = n*10 + int(r-'0')
			}
			if n >= 0 {
				return n, nil
			}
		}
	}
	return 0, &service.ServiceError{
		Message:    `status response does not contain "percent_complete"`,
		RequestURL: resp.RequestURL(),
	}
}

// ReportURL extracts data.url from a completed job's fetch response.
func ReportURL(resp *service.Response) (string, error) {
	if resp == nil {
		return "", &service.ServiceError{Message: "fetch response is not defined"}
	}
	data, ok := resp.Data().(map[string]any)
	if !ok {
		return "", &service.ServiceError{
			Message:    "fetch response did not return export data",
			RequestURL: resp.RequestURL(),
		}
	}
	reportURL, ok := data["url"].(string)
	if !ok || strings.TrimSpace(reportURL) == "" {
		return "", &service.ServiceError{
			Message:    `fetch response does not contain "url"`,
			RequestURL: resp.RequestURL(),
		}
	}
	return reportURL, nil
}
