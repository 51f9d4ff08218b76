package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
)

// Callback receives the outcome of a dispatched request, error-first. It is
// invoked at most once per call, before the result is published on the call
// handle.
type Callback func(err error, resp *Response)

// Result is the single outcome of a call: exactly one of Response or Err is
// set.
type Result struct {
	Response *Response
	Err      error
}

// Call is the handle returned by Client.Do. Its channel yields the outcome
// exactly once; the optional callback fires with the same outcome.
type Call struct {
	done chan Result
}

// Done returns the completion channel. It receives exactly one Result.
func (c *Call) Done() <-chan Result {
	return c.done
}

// Wait blocks until the call completes or ctx is cancelled.
func (c *Call) Wait(ctx context.Context) (*Response, error) {
	select {
	case result := <-c.done:
		return result.Response, result.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Client executes report requests over HTTPS GET and classifies the results.
// Each call runs on its own goroutine with its own request copy; the client
// itself holds no per-call state.
type Client struct {
	host       string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a client for the given API host. An empty host selects
// the default; a host without a scheme is dialed over HTTPS. A nil httpClient
// leaves transport policy (timeouts included) to http.DefaultClient.
func NewClient(host string, httpClient *http.Client, logger zerolog.Logger) *Client {
	if host == "" {
		host = DefaultAPIHost
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		host:       strings.TrimRight(host, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

// Do dispatches the request asynchronously and returns its call handle
// immediately. The outcome is delivered both to the optional callback and on
// the handle's channel, each exactly once. There is no retry; transport
// failures are reported the same way as service failures.
func (c *Client) Do(ctx context.Context, req *Request, callback Callback) *Call {
	call := &Call{done: make(chan Result, 1)}

	go func() {
		resp, err := c.exchange(ctx, req)
		if callback != nil {
			callback(err, resp)
		}
		call.done <- Result{Response: resp, Err: err}
	}()

	return call
}

func (c *Client) baseURL() string {
	if strings.Contains(c.host, "://") {
		return c.host
	}
	return "https://" + c.host
}

func (c *Client) exchange(ctx context.Context, req *Request) (*Response, error) {
	path, err := req.Path()
	if err != nil {
		return nil, err
	}
	requestURL := c.baseURL() + path

	c.logger.Debug().
		Str("controller", req.Controller()).
		Str("action", req.Action()).
		Str("url", requestURL).
		Msg("Dispatching report request")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json; charset=utf-8")
	httpReq.Header.Set("User-Agent", SDKName+"/"+SDKVersion)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, &ServiceError{
			Message:        "unable to parse response body as JSON",
			HTTPStatusCode: httpResp.StatusCode,
			RequestURL:     requestURL,
		}
	}

	if serviceErr := classify(body, httpResp.StatusCode, requestURL); serviceErr != nil {
		c.logger.Debug().
			Int("status_code", serviceErr.ServiceStatusCode).
			Int("http_code", serviceErr.HTTPStatusCode).
			Str("message", serviceErr.Message).
			Msg("Report request failed")
		return nil, serviceErr
	}

	return NewResponse(requestURL, body, httpResp.Header, httpResp.StatusCode), nil
}

// classify inspects the vendor status_code field. Values outside [200, 206]
// are failures carrying the first service-reported error message, or the
// generic unreachable-host message when the errors array is absent entirely.
func classify(body map[string]any, httpCode int, requestURL string) *ServiceError {
	code, ok := body["status_code"].(float64)
	if !ok {
		return nil
	}
	statusCode := int(code)
	if statusCode >= 200 && statusCode <= 206 {
		return nil
	}

	serviceErr := &ServiceError{
		ServiceStatusCode: statusCode,
		HTTPStatusCode:    httpCode,
		RequestURL:        requestURL,
	}

	errs, present := body["errors"]
	if !present {
		serviceErr.Message = "unable to reach host"
		return serviceErr
	}
	if list, ok := errs.([]any); ok && len(list) > 0 {
		if first, ok := list[0].(map[string]any); ok {
			if message, ok := first["message"].(string); ok {
				serviceErr.Message = message
			}
		}
	}
	return serviceErr
}
