package filter

import (
	"fmt"
	"maps"
	"strconv"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Filter is a compiled expression evaluated against a single record of an
// API response, such as one beer or one brewery.
type Filter struct {
	expression string
	program    *vm.Program
	helpers    map[string]any
}

// Compiler compiles filter expressions
type Compiler struct {
	helperFuncs map[string]any
	cache       *lruCache[*Filter]
}

// CompilerOption configures a Compiler
type CompilerOption func(*Compiler)

// WithCache enables filter caching with the specified size
func WithCache(size int) CompilerOption {
	return func(c *Compiler) {
		if size > 0 {
			c.cache = newLRUCache[*Filter](size)
		}
	}
}

// WithCustomFunctions adds custom helper functions
func WithCustomFunctions(funcs map[string]any) CompilerOption {
	return func(c *Compiler) {
		maps.Copy(c.helperFuncs, funcs)
	}
}

// NewCompiler creates a new expr-based filter compiler
func NewCompiler(opts ...CompilerOption) *Compiler {
	c := &Compiler{
		helperFuncs: createHelperFunctions(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var defaultCompiler = NewCompiler(WithCache(64))

// Compile compiles expression with the package-level cached compiler
func Compile(expression string) (*Filter, error) {
	return defaultCompiler.Compile(expression)
}

// Compile compiles an expression into an executable filter
func (c *Compiler) Compile(expression string) (*Filter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
		}
	}

	if c.cache != nil {
		if cached, ok := c.cache.Get(expression); ok {
			return cached, nil
		}
	}

	// Record fields are unknown until evaluation
	program, err := expr.Compile(expression,
		expr.Env(c.helperFuncs),
		expr.AllowUndefinedVariables(),
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	filter := &Filter{
		expression: expression,
		program:    program,
		helpers:    c.helperFuncs,
	}

	if c.cache != nil {
		c.cache.Put(expression, filter)
	}

	return filter, nil
}

// Clear removes all cached filters
func (c *Compiler) Clear() {
	if c.cache != nil {
		c.cache.Clear()
	}
}

// Size returns the number of cached filters
func (c *Compiler) Size() int {
	if c.cache != nil {
		return c.cache.Size()
	}
	return 0
}

// Expression returns the original expression
func (f *Filter) Expression() string {
	return f.expression
}

// Match evaluates the filter against record. Evaluation errors count as no match.
func (f *Filter) Match(record map[string]any) bool {
	result, err := expr.Run(f.program, createRuntimeEnvironment(record, f.helpers))
	if err != nil {
		return false
	}
	// AsBool guarantees the type
	return result.(bool)
}

// createHelperFunctions creates the static helper functions used during compilation
func createHelperFunctions() map[string]any {
	funcs := make(map[string]any, 16)
	addHelperFunctions(funcs)
	funcs["has"] = func(string) bool { return false }
	return funcs
}

func addHelperFunctions(env map[string]any) {
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
	env["str"] = toString
	// abv, ibu and friends may arrive as numbers or quoted strings
	env["num"] = toNumber
	// Date helpers
	env["parseDate"] = parseDate
	env["daysSince"] = func(date string) int {
		t := parseDate(date)
		if t.IsZero() {
			return 0
		}
		return int(time.Since(t).Hours() / 24)
	}
	env["now"] = time.Now
}

// createRuntimeEnvironment exposes the record's fields as variables next to the helpers
func createRuntimeEnvironment(record, helpers map[string]any) map[string]any {
	env := make(map[string]any, len(record)+len(helpers)+1)
	maps.Copy(env, record)
	maps.Copy(env, helpers)

	env["Record"] = record
	env["has"] = func(field string) bool {
		value, ok := record[field]
		return ok && value != nil && value != ""
	}

	return env
}

func toNumber(value any) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return f
	case bool:
		if v {
			return 1
		}
		return 0
	default:
		return 0
	}
}

func toString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func parseDate(date string) time.Time {
	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, date); err == nil {
			return t
		}
	}
	return time.Time{}
}
