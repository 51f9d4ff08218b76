package service

import (
	"fmt"
	"sort"
	"strings"
)

// SDK identity reported with every request.
const (
	SDKName    = "tune-reporting-go"
	SDKVersion = "1.0.0"
)

// Service location defaults.
const (
	DefaultAPIHost = "api.mobileapptracking.com"
	APIVersion     = "v2"
)

// Auth names the credential attached to a request: either a long-lived API
// key or a short-lived session token exchanged for one.
type Auth struct {
	Type string // "api_key" or "session_token"
	Key  string
}

// Accepted values for Auth.Type.
const (
	AuthTypeAPIKey       = "api_key"
	AuthTypeSessionToken = "session_token"
)

// AuthTypes lists the accepted values for Auth.Type.
var AuthTypes = []string{AuthTypeAPIKey, AuthTypeSessionToken}

// Request represents one fully specified report API call. It is read-only
// after construction; the query string is derived on demand.
type Request struct {
	controller string
	action     string
	auth       Auth
	params     map[string]any
}

// NewRequest creates a request for the given controller and action. The
// parameter map is stored as-is; callers hand over ownership.
func NewRequest(controller, action string, auth Auth, params map[string]any) (*Request, error) {
	if strings.TrimSpace(controller) == "" {
		return nil, NewInvalidArgument(`parameter "controller" is not defined`)
	}
	if strings.TrimSpace(action) == "" {
		return nil, NewInvalidArgument(`parameter "action" is not defined`)
	}
	if params == nil {
		params = make(map[string]any)
	}
	return &Request{
		controller: controller,
		action:     action,
		auth:       auth,
		params:     params,
	}, nil
}

// Controller returns the resource path segment for this request.
func (r *Request) Controller() string { return r.controller }

// Action returns the operation name within the controller.
func (r *Request) Action() string { return r.action }

// Auth returns the credential configured for this request.
func (r *Request) Auth() Auth { return r.auth }

// builder assembles the query string: SDK identity first, then the auth
// credential under the precedence rule, then every caller parameter subject
// to the per-field normalization rules.
func (r *Request) builder() (*QueryStringBuilder, error) {
	qs := NewQueryStringBuilder()
	if err := qs.Add("sdk", SDKName); err != nil {
		return nil, err
	}
	if err := qs.Add("ver", SDKVersion); err != nil {
		return nil, err
	}

	params := make(map[string]any, len(r.params))
	for name, value := range r.params {
		params[name] = value
	}

	// A session token in the parameter map wins over any api_key entry.
	// With neither present, the configured credential is injected.
	if token, ok := params["session_token"].(string); ok && strings.TrimSpace(token) != "" {
		delete(params, "api_key")
	} else if emptyParam(params, "session_token") && emptyParam(params, "api_key") {
		if r.auth.Type != "" && r.auth.Key != "" {
			if err := qs.Add(r.auth.Type, r.auth.Key); err != nil {
				return nil, err
			}
		}
	}

	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := qs.Add(name, params[name]); err != nil {
			return nil, err
		}
	}
	return qs, nil
}

func emptyParam(params map[string]any, name string) bool {
	v, ok := params[name]
	if !ok || v == nil {
		return true
	}
	s, isString := v.(string)
	return isString && strings.TrimSpace(s) == ""
}

// QueryStringMap returns the assembled query string as a name/value map.
func (r *Request) QueryStringMap() (map[string]string, error) {
	qs, err := r.builder()
	if err != nil {
		return nil, err
	}
	return qs.Map(), nil
}

// QueryString returns the assembled, percent-encoded query string.
func (r *Request) QueryString() (string, error) {
	qs, err := r.builder()
	if err != nil {
		return "", err
	}
	return qs.Encode(), nil
}

// Path returns /{version}/{controller}/{action}.json with the query string
// appended when non-empty.
func (r *Request) Path() (string, error) {
	path := fmt.Sprintf("/%s/%s/%s.json", APIVersion, r.controller, r.action)
	qs, err := r.QueryString()
	if err != nil {
		return "", err
	}
	if qs != "" {
		path = path + "?" + qs
	}
	return path, nil
}

// URL returns the full HTTPS URL against the default API host.
func (r *Request) URL() (string, error) {
	path, err := r.Path()
	if err != nil {
		return "", err
	}
	return "https://" + DefaultAPIHost + path, nil
}
