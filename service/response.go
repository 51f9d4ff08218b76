package service

import (
	"encoding/json"
	"net/http"
)

// Response is an immutable view over a completed HTTP exchange with the
// report service: the request URL, the decoded JSON body, the response
// headers and the transport-level status code.
type Response struct {
	requestURL string
	body       map[string]any
	headers    http.Header
	httpCode   int
}

// NewResponse constructs a response. The body is the decoded JSON document,
// or nil when the exchange produced none.
func NewResponse(requestURL string, body map[string]any, headers http.Header, httpCode int) *Response {
	return &Response{
		requestURL: requestURL,
		body:       body,
		headers:    headers,
		httpCode:   httpCode,
	}
}

// RequestURL returns the URL the request was dispatched to.
func (r *Response) RequestURL() string { return r.requestURL }

// HTTPCode returns the transport-level HTTP status code.
func (r *Response) HTTPCode() int { return r.httpCode }

// Headers returns the HTTP response headers.
func (r *Response) Headers() http.Header { return r.headers }

// Body returns the decoded JSON body, or nil when undecodable.
func (r *Response) Body() map[string]any { return r.body }

// StatusCode returns the vendor status_code field of the body, or 0 when
// absent.
func (r *Response) StatusCode() int {
	if r.body == nil {
		return 0
	}
	if code, ok := r.body["status_code"].(float64); ok {
		return int(code)
	}
	return 0
}

// Data returns the data payload of the body, or nil.
func (r *Response) Data() any {
	if r.body == nil {
		return nil
	}
	return r.body["data"]
}

// Errors returns the service-reported errors array, or nil when absent or
// empty. Callers should treat a non-200 HTTP code or a non-nil errors slice
// as the general failure predicate before trusting Data.
func (r *Response) Errors() []any {
	if r.body == nil {
		return nil
	}
	errs, ok := r.body["errors"].([]any)
	if !ok || len(errs) == 0 {
		return nil
	}
	return errs
}

// ToJSON exposes the request URL and response body for introspection.
func (r *Response) ToJSON() map[string]any {
	return map[string]any{
		"requestUrl":   r.requestURL,
		"responseJson": r.body,
	}
}

func (r *Response) String() string {
	out, err := json.Marshal(r.ToJSON())
	if err != nil {
		return r.requestURL
	}
	return string(out)
}
