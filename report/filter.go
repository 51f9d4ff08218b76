package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// CompilationError indicates a row filter expression could not be compiled.
type CompilationError struct {
	Expression string
	Reason     string
	Err        error
}

func (e *CompilationError) Error() string {
	return fmt.Sprintf("compilation error in '%s': %s", e.Expression, e.Reason)
}

func (e *CompilationError) Unwrap() error {
	return e.Err
}

// RowFilter evaluates a boolean expression against downloaded report rows.
// Column names become expression variables, so an expression like
// `num(installs) > 100 && contains(country, "us")` selects matching rows.
type RowFilter struct {
	expression string
	program    *vm.Program
}

// CompileRowFilter compiles an expression into an executable row filter.
func CompileRowFilter(expression string) (*RowFilter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
		}
	}

	program, err := expr.Compile(expression,
		expr.Env(createHelperFunctions()),
		expr.AllowUndefinedVariables(), // report columns vary per endpoint
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	return &RowFilter{
		expression: expression,
		program:    program,
	}, nil
}

// Match evaluates the filter against a single report row. Rows that fail
// evaluation are treated as non-matching.
func (f *RowFilter) Match(row map[string]any) bool {
	env := createRuntimeEnvironment(row)

	result, err := expr.Run(f.program, env)
	if err != nil {
		return false
	}

	// Result is guaranteed to be bool due to AsBool() option during compilation
	return result.(bool)
}

// Expression returns the original expression.
func (f *RowFilter) Expression() string {
	return f.expression
}

// FilterCSV returns the CSV rows matched by the filter.
func (f *RowFilter) FilterCSV(rows []map[string]string) []map[string]string {
	matched := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		env := make(map[string]any, len(row))
		for name, value := range row {
			env[name] = value
		}
		if f.Match(env) {
			matched = append(matched, row)
		}
	}
	return matched
}

// FilterJSON returns the JSON rows matched by the filter.
func (f *RowFilter) FilterJSON(rows []map[string]any) []map[string]any {
	matched := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		if f.Match(row) {
			matched = append(matched, row)
		}
	}
	return matched
}

// createHelperFunctions creates the static helper functions used during compilation
func createHelperFunctions() map[string]any {
	funcs := make(map[string]any, 16)
	addHelperFunctions(funcs)
	return funcs
}

// addHelperFunctions adds all helper functions to the provided map
func addHelperFunctions(env map[string]any) {
	// Numeric helper: report columns arrive as strings in CSV exports
	env["num"] = func(value any) float64 {
		switch v := value.(type) {
		case float64:
			return v
		case int:
			return float64(v)
		case string:
			n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return 0
			}
			return n
		}
		return 0
	}
	// String helpers
	env["contains"] = func(str, substr string) bool {
		return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
	}
	env["startsWith"] = func(str, prefix string) bool {
		return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
	}
	env["endsWith"] = func(str, suffix string) bool {
		return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
	}
	env["lower"] = strings.ToLower
	env["upper"] = strings.ToUpper
	// Date helpers
	env["parseDate"] = func(dateStr string) time.Time {
		t, _ := time.Parse("2006-01-02", dateStr)
		return t
	}
	env["now"] = time.Now
}

// createRuntimeEnvironment creates the runtime environment for filter evaluation
func createRuntimeEnvironment(row map[string]any) map[string]any {
	env := make(map[string]any, len(row)+16)
	addHelperFunctions(env)
	for name, value := range row {
		env[name] = value
	}
	env["Row"] = row
	return env
}
