package service

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	allWhitespace  = regexp.MustCompile(`\s+`)
	sortDirections = map[string]bool{"ASC": true, "DESC": true}
)

// normalizers maps parameter names to the string normalization applied before
// the value is stored. Adding a rule for a new field is a table edit.
var normalizers = map[string]func(string) string{
	// remove all whitespace from comma-joined field lists
	"fields": func(s string) string { return allWhitespace.ReplaceAllString(s, "") },
	"group":  func(s string) string { return allWhitespace.ReplaceAllString(s, "") },
	// collapse runs of whitespace to a single space
	"filter": func(s string) string { return allWhitespace.ReplaceAllString(s, " ") },
}

// QueryStringBuilder incrementally builds the query string for a report
// action. Repeated adds with the same name overwrite the previous value.
type QueryStringBuilder struct {
	values map[string]string
}

// NewQueryStringBuilder creates an empty builder.
func NewQueryStringBuilder() *QueryStringBuilder {
	return &QueryStringBuilder{values: make(map[string]string)}
}

// Add stores a name/value pair, applying the per-field normalization rules.
// Nil, empty-string and empty-slice values are skipped without error.
func (b *QueryStringBuilder) Add(name string, value any) error {
	if value == nil {
		return nil
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return NewInvalidArgument(`parameter "name" is not defined`)
	}

	switch v := value.(type) {
	case string:
		v = strings.TrimSpace(v)
		if v == "" {
			return nil
		}
		b.set(name, v)
	case []string:
		if len(v) == 0 {
			return nil
		}
		b.set(name, strings.Join(v, ","))
	case bool:
		if v {
			b.values[name] = "true"
		} else {
			b.values[name] = "false"
		}
	case int:
		b.values[name] = strconv.Itoa(v)
	case int64:
		b.values[name] = strconv.FormatInt(v, 10)
	case float64:
		b.values[name] = strconv.FormatFloat(v, 'f', -1, 64)
	case map[string]string:
		if name != "sort" {
			return NewInvalidArgument("parameter %q does not accept a sort specification", name)
		}
		return b.addSort(v)
	default:
		b.set(name, fmt.Sprintf("%v", v))
	}

	return nil
}

// addSort emits one entry per sorted field as sort[field]=DIRECTION.
func (b *QueryStringBuilder) addSort(spec map[string]string) error {
	for field, direction := range spec {
		direction = strings.ToUpper(strings.TrimSpace(direction))
		if !sortDirections[direction] {
			return NewInvalidArgument("invalid sort direction: %q", direction)
		}
		b.values["sort["+field+"]"] = direction
	}
	return nil
}

func (b *QueryStringBuilder) set(name, value string) {
	if normalize, ok := normalizers[name]; ok {
		value = normalize(value)
	}
	b.values[name] = value
}

// Map returns the accumulated name/value pairs.
func (b *QueryStringBuilder) Map() map[string]string {
	out := make(map[string]string, len(b.values))
	for k, v := range b.values {
		out[k] = v
	}
	return out
}

// Encode serializes the accumulated pairs as a percent-encoded query string
// with names in sorted order.
func (b *QueryStringBuilder) Encode() string {
	names := make([]string, 0, len(b.values))
	for name := range b.values {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	for _, name := range names {
		if sb.Len() > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(name))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(b.values[name]))
	}
	return sb.String()
}
