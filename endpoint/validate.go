package endpoint

import (
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/jefftune/tune-reporting-go/service"
)

// Allowed choice sets for enumerated parameters.
var (
	CohortIntervals   = []string{"year_day", "year_week", "year_month", "year"}
	AggregationTypes  = []string{"incremental", "cumulative"}
	Timestamps        = []string{"hour", "datehour", "date", "week", "month"}
	Formats           = []string{"csv", "json"}
	RetentionMeasures = []string{"installs", "opens"}
)

// dateTimeLayouts are the accepted shapes for start_date/end_date values.
var dateTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// deepCopy clones a parameter map so validation never mutates the caller's
// original across repeated calls.
func deepCopy(params map[string]any) map[string]any {
	out := make(map[string]any, len(params))
	for name, value := range params {
		switch v := value.(type) {
		case []string:
			out[name] = slices.Clone(v)
		case map[string]string:
			cloned := make(map[string]string, len(v))
			for k, val := range v {
				cloned[k] = val
			}
			out[name] = cloned
		case map[string]any:
			out[name] = deepCopy(v)
		default:
			out[name] = v
		}
	}
	return out
}

func isEmptyValue(v any) bool {
	switch value := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(value) == ""
	case []string:
		return len(value) == 0
	case map[string]string:
		return len(value) == 0
	default:
		return false
	}
}

// validateDateTime requires key to hold a date or date-time string.
func validateDateTime(params map[string]any, key string) error {
	raw, ok := params[key]
	if !ok {
		return service.NewInvalidArgument("key %q not provided", key)
	}
	value, ok := raw.(string)
	if !ok || strings.TrimSpace(value) == "" {
		return service.NewInvalidArgument("parameter %q is not a date-time string", key)
	}
	value = strings.TrimSpace(value)
	for _, layout := range dateTimeLayouts {
		if _, err := time.Parse(layout, value); err == nil {
			params[key] = value
			return nil
		}
	}
	return service.NewInvalidArgument("invalid parameter %q provided value: %q", key, value)
}

// validateEnum requires key to hold one of the allowed choices,
// case-insensitively; the stored value is normalized to lower case.
func validateEnum(params map[string]any, key string, allowed []string) error {
	raw, ok := params[key]
	if !ok {
		return service.NewInvalidArgument("key %q not provided", key)
	}
	value, ok := raw.(string)
	if !ok || strings.TrimSpace(value) == "" {
		return service.NewInvalidArgument("invalid parameter %q provided type: %v", key, raw)
	}
	value = strings.ToLower(strings.TrimSpace(value))
	if !slices.Contains(allowed, value) {
		return service.NewInvalidArgument("invalid parameter %q provided choice: %q", key, value)
	}
	params[key] = value
	return nil
}

// validateCohortInterval validates cohort_interval and renames it to the
// wire-level "interval" parameter.
func validateCohortInterval(params map[string]any) error {
	if err := validateEnum(params, "cohort_interval", CohortIntervals); err != nil {
		return err
	}
	params["interval"] = params["cohort_interval"]
	delete(params, "cohort_interval")
	return nil
}

// fieldList normalizes a string or string-slice parameter to a canonical
// comma-joined list with all whitespace removed.
func fieldList(params map[string]any, key string) error {
	raw := params[key]
	var joined string
	switch v := raw.(type) {
	case string:
		joined = v
	case []string:
		joined = strings.Join(v, ",")
	default:
		return service.NewInvalidArgument("parameter %q is not a field list", key)
	}
	joined = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, joined)
	if joined == "" {
		return service.NewInvalidArgument("parameter %q is not defined", key)
	}
	params[key] = joined
	return nil
}

func validateFields(params map[string]any) error {
	if _, ok := params["fields"]; !ok {
		return service.NewInvalidArgument(`key "fields" not provided`)
	}
	return fieldList(params, "fields")
}

func validateGroup(params map[string]any) error {
	if _, ok := params["group"]; !ok {
		return service.NewInvalidArgument(`key "group" not provided`)
	}
	return fieldList(params, "group")
}

// filterKeywords is the operator/keyword whitelist for the server-evaluated
// filter expression.
var filterKeywords = map[string]bool{
	"AND": true, "OR": true, "NOT": true,
	"IS": true, "NULL": true, "IN": true, "BETWEEN": true,
	"LIKE": true, "NOT_LIKE": true, "RLIKE": true, "NOT_RLIKE": true,
}

// validateFilter collapses runs of whitespace and rejects expressions with
// characters or keywords the service does not accept.
func validateFilter(params map[string]any) error {
	raw, ok := params["filter"].(string)
	if !ok || strings.TrimSpace(raw) == "" {
		return service.NewInvalidArgument(`parameter "filter" is not valid`)
	}
	filter := strings.Join(strings.Fields(raw), " ")

	depth := 0
	rest := filter
	for rest != "" {
		r := rune(rest[0])
		switch {
		case r == ' ' || r == ',':
			rest = rest[1:]
		case r == '(':
			depth++
			rest = rest[1:]
		case r == ')':
			depth--
			if depth < 0 {
				return service.NewInvalidArgument("invalid parameter \"filter\" provided: %q", filter)
			}
			rest = rest[1:]
		case r == '\'' || r == '"':
			end := strings.IndexRune(rest[1:], r)
			if end < 0 {
				return service.NewInvalidArgument("invalid parameter \"filter\" provided: %q", filter)
			}
			rest = rest[end+2:]
		case strings.ContainsRune("=<>!", r):
			n := 1
			if len(rest) > 1 && rest[1] == '=' {
				n = 2
			}
			rest = rest[n:]
		case unicode.IsDigit(r) || r == '-' || r == '.':
			rest = strings.TrimLeft(rest[1:], "0123456789.")
		case unicode.IsLetter(r) || r == '_':
			end := strings.IndexFunc(rest, func(c rune) bool {
				return !unicode.IsLetter(c) && !unicode.IsDigit(c) && c != '_' && c != '.'
			})
			var word string
			if end < 0 {
				word, rest = rest, ""
			} else {
				word, rest = rest[:end], rest[end:]
			}
			if filterKeywords[strings.ToUpper(word)] {
				break
			}
			// anything else must look like a field name
			if word != strings.ToLower(word) {
				return service.NewInvalidArgument("invalid parameter \"filter\" provided: %q", word)
			}
		default:
			return service.NewInvalidArgument("invalid parameter \"filter\" provided character: %q", string(r))
		}
	}
	if depth != 0 {
		return service.NewInvalidArgument("unbalanced parentheses in parameter \"filter\": %q", filter)
	}

	params["filter"] = filter
	return nil
}

// nonNegativeInt normalizes limit/page values supplied as ints or numeric
// strings.
func nonNegativeInt(params map[string]any, key string) error {
	var n int
	switch v := params[key].(type) {
	case int:
		n = v
	case int64:
		n = int(v)
	case float64:
		n = int(v)
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return service.NewInvalidArgument("invalid parameter %q provided value: %q", key, v)
		}
		n = parsed
	default:
		return service.NewInvalidArgument("invalid parameter %q provided type: %v", key, v)
	}
	if n < 0 {
		return service.NewInvalidArgument("invalid parameter %q provided value: %d", key, n)
	}
	params[key] = n
	return nil
}

func validateLimit(params map[string]any) error {
	return nonNegativeInt(params, "limit")
}

func validatePage(params map[string]any) error {
	return nonNegativeInt(params, "page")
}

// validateSort requires a field→direction mapping with directions in
// {ASC, DESC}, normalized to upper case.
func validateSort(params map[string]any) error {
	var spec map[string]string
	switch v := params["sort"].(type) {
	case map[string]string:
		spec = v
	case map[string]any:
		spec = make(map[string]string, len(v))
		for field, dir := range v {
			s, ok := dir.(string)
			if !ok {
				return service.NewInvalidArgument("invalid sort direction for field %q", field)
			}
			spec[field] = s
		}
	default:
		return service.NewInvalidArgument(`parameter "sort" is not a sort specification`)
	}
	if len(spec) == 0 {
		return service.NewInvalidArgument(`parameter "sort" is not defined`)
	}
	normalized := make(map[string]string, len(spec))
	for field, direction := range spec {
		direction = strings.ToUpper(strings.TrimSpace(direction))
		if direction != "ASC" && direction != "DESC" {
			return service.NewInvalidArgument("invalid sort direction: %q", direction)
		}
		normalized[field] = direction
	}
	params["sort"] = normalized
	return nil
}

func validateResponseTimezone(params map[string]any) error {
	raw, ok := params["response_timezone"]
	if !ok {
		return service.NewInvalidArgument(`key "response_timezone" not provided`)
	}
	value, ok := raw.(string)
	if !ok || strings.TrimSpace(value) == "" {
		return service.NewInvalidArgument(`parameter "response_timezone" is not valid`)
	}
	params["response_timezone"] = strings.TrimSpace(value)
	return nil
}

func validateFormat(params map[string]any) error {
	return validateEnum(params, "format", Formats)
}

func validateTimestamp(params map[string]any) error {
	return validateEnum(params, "timestamp", Timestamps)
}
