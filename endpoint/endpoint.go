// Package endpoint layers per-resource parameter validation and request
// assembly over the service client. Each concrete endpoint is a configuration
// value (controller path, SDK filter flags, recommended fields, validator
// sets) consumed by the shared operation methods, not a subclass.
package endpoint

import (
	"context"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jefftune/tune-reporting-go/service"
)

// Actions shared across report endpoints.
const (
	actionCount       = "count"
	actionFind        = "find"
	actionExportQueue = "find_export_queue"
	actionExport      = "export"
	actionDownload    = "download"
	actionStatus      = "status"
	actionDefine      = "define"

	exportController = "export"
)

// FieldsMode selects which field list Fields returns.
type FieldsMode int

const (
	// FieldsRecommended returns the endpoint's hardcoded default projection.
	FieldsRecommended FieldsMode = iota
	// FieldsAll defers to the endpoint's describe call; see Define.
	FieldsAll
)

// rule is one validation step for an operation. Required rules always run;
// optional rules run only when the caller supplied a non-empty value.
type rule struct {
	key      string
	required bool
	validate func(map[string]any) error
}

func required(key string, fn func(map[string]any) error) rule {
	return rule{key: key, required: true, validate: fn}
}

func optional(key string, fn func(map[string]any) error) rule {
	return rule{key: key, validate: fn}
}

func dateRule(key string) rule {
	return rule{key: key, required: true, validate: func(p map[string]any) error {
		return validateDateTime(p, key)
	}}
}

// Endpoint is one report resource family: its controller path, the SDK
// filter flags, the recommended projection and the validator sets for each
// of the four standard operations.
type Endpoint struct {
	controller string
	client     *service.Client
	auth       service.Auth
	logger     zerolog.Logger

	filterDebugMode     bool
	filterTestProfileID bool
	fieldsRecommended   []string

	countRules  []rule
	findRules   []rule
	exportRules []rule

	exportAction     string
	statusController string
	statusAction     string
}

// Controller returns the REST resource path segment for this endpoint.
func (e *Endpoint) Controller() string { return e.controller }

// Fields returns the field list for the given mode. The recommended list is
// fixed per endpoint; full discovery is served by the describe call, so
// FieldsAll yields nil and callers should issue Define instead.
func (e *Endpoint) Fields(mode FieldsMode) []string {
	if mode == FieldsRecommended {
		return slices.Clone(e.fieldsRecommended)
	}
	return nil
}

// Count counts records matching the criteria in params.
func (e *Endpoint) Count(ctx context.Context, params map[string]any, callback service.Callback) (*service.Call, error) {
	return e.reportRequest(ctx, actionCount, params, e.countRules, nil, callback)
}

// Find returns records matching the criteria in params.
func (e *Endpoint) Find(ctx context.Context, params map[string]any, callback service.Callback) (*service.Call, error) {
	return e.reportRequest(ctx, actionFind, params, e.findRules, nil, callback)
}

// Export places a report-generation job on the export queue and resolves to
// a response whose data carries the job identifier.
func (e *Endpoint) Export(ctx context.Context, params map[string]any, callback service.Callback) (*service.Call, error) {
	return e.reportRequest(ctx, e.exportAction, params, e.exportRules,
		map[string]any{"format": "csv"}, callback)
}

// Status queries the export queue for the completion percentage of jobID.
// Polling cadence and termination are the caller's responsibility.
func (e *Endpoint) Status(ctx context.Context, jobID string, callback service.Callback) (*service.Call, error) {
	return e.jobRequest(ctx, jobID, callback)
}

// Fetch resolves a completed job to a response whose data carries the report
// download URL. By convention callers invoke it once Status reports 100.
func (e *Endpoint) Fetch(ctx context.Context, jobID string, callback service.Callback) (*service.Call, error) {
	return e.jobRequest(ctx, jobID, callback)
}

// Define requests the endpoint's field metadata, covering full field
// discovery beyond the recommended list.
func (e *Endpoint) Define(ctx context.Context, callback service.Callback) (*service.Call, error) {
	return e.dispatch(ctx, e.controller, actionDefine, map[string]any{}, callback)
}

func (e *Endpoint) jobRequest(ctx context.Context, jobID string, callback service.Callback) (*service.Call, error) {
	if strings.TrimSpace(jobID) == "" {
		return nil, service.NewInvalidArgument(`parameter "jobID" is not defined`)
	}
	params := map[string]any{"job_id": strings.TrimSpace(jobID)}
	return e.dispatch(ctx, e.statusController, e.statusAction, params, callback)
}

// reportRequest runs the operation's validators on a deep copy of the
// caller's map, applies defaults for absent keys, injects the SDK filter and
// dispatches.
func (e *Endpoint) reportRequest(ctx context.Context, action string, params map[string]any,
	rules []rule, defaults map[string]any, callback service.Callback) (*service.Call, error) {

	copied := deepCopy(params)
	for _, r := range rules {
		if r.required {
			if err := r.validate(copied); err != nil {
				return nil, err
			}
			continue
		}
		if value, ok := copied[r.key]; ok && !isEmptyValue(value) {
			if err := r.validate(copied); err != nil {
				return nil, err
			}
		}
	}
	for key, value := range defaults {
		if existing, ok := copied[key]; !ok || isEmptyValue(existing) {
			copied[key] = value
		}
	}

	e.injectSDKFilter(copied)

	return e.dispatch(ctx, e.controller, action, copied, callback)
}

// injectSDKFilter ANDs the configured debug-mode/test-profile predicates onto
// the caller's filter, preserving operator precedence with one outer set of
// parentheses.
func (e *Endpoint) injectSDKFilter(params map[string]any) {
	var parts []string
	if filter, ok := params["filter"].(string); ok && filter != "" {
		parts = append(parts, filter)
	}
	if e.filterDebugMode {
		parts = append(parts, "(debug_mode=0 OR debug_mode is NULL)")
	}
	if e.filterTestProfileID {
		parts = append(parts, "(test_profile_id=0 OR test_profile_id IS NULL)")
	}
	if len(parts) == 0 {
		return
	}
	params["filter"] = "(" + strings.Join(parts, " AND ") + ")"
}

func (e *Endpoint) dispatch(ctx context.Context, controller, action string,
	params map[string]any, callback service.Callback) (*service.Call, error) {

	req, err := service.NewRequest(controller, action, e.auth, params)
	if err != nil {
		return nil, err
	}

	e.logger.Debug().
		Str("controller", controller).
		Str("action", action).
		Msg("Dispatching endpoint operation")

	return e.client.Do(ctx, req, callback), nil
}
