package dao

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Filter narrows the displayed page on the client. Plain text matches name,
// email, job and company. Text starting with "=" is an expression over the
// user fields.
type Filter struct {
	raw     string
	text    string
	program *vm.Program
}

// NewFilter compiles a filter.
func NewFilter(text string) (*Filter, error) {
	text = strings.TrimSpace(text)
	f := Filter{raw: text, text: strings.ToLower(text)}
	if !strings.HasPrefix(text, "=") {
		return &f, nil
	}

	src := strings.TrimSpace(strings.TrimPrefix(text, "="))
	if src == "" {
		return nil, fmt.Errorf("empty filter expression: %w", ErrInvalidArg)
	}
	program, err := expr.Compile(src, expr.Env(map[string]interface{}{}), expr.AllowUndefinedVariables(), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile filter %q: %w", src, err)
	}
	f.program = program

	return &f, nil
}

// IsEmpty reports whether the filter lets everything through.
func (f *Filter) IsEmpty() bool {
	return f == nil || (f.program == nil && f.text == "")
}

// String returns the filter as entered.
func (f *Filter) String() string {
	if f == nil {
		return ""
	}
	return f.raw
}

// Match reports whether u passes the filter.
func (f *Filter) Match(u User) (bool, error) {
	if f.IsEmpty() {
		return true, nil
	}
	if f.program != nil {
		out, err := expr.Run(f.program, u.Fields())
		if err != nil {
			return false, fmt.Errorf("run filter: %w", err)
		}
		ok, _ := out.(bool)
		return ok, nil
	}
	for _, s := range []string{u.Name, u.Email, u.Job, u.Company} {
		if strings.Contains(strings.ToLower(s), f.text) {
			return true, nil
		}
	}

	return false, nil
}

// Apply returns the users passing the filter, keeping order.
func (f *Filter) Apply(uu []User) ([]User, error) {
	if f.IsEmpty() {
		return uu, nil
	}
	out := make([]User, 0, len(uu))
	for _, u := range uu {
		ok, err := f.Match(u)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, u)
		}
	}

	return out, nil
}
