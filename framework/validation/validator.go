// Package validation checks flat string maps against pipe-separated rules.
//
//	v := validation.Make(map[string]string{"name": "Alice"}, validation.Rules{
//	    "name": "required|min:2|max:100",
//	})
//	if v.Fails() {
//	    return v.Errors()
//	}
//
// Rules: required, integer, numeric, alpha_dash, min:n, max:n (characters),
// gte:n, lte:n (numeric), in:a,b, not_in:a,b, regex:pattern. Validation of
// a field stops at its first failing rule.
package validation

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ── Types ────────────────────────────────────────────────────────────────────

// Errors holds validation messages per field.
// JSON output: {"errors": {"field": ["msg1", "msg2"]}}
type Errors struct {
	Bag map[string][]string `json:"errors"`
}

func (e *Errors) add(field, msg string) {
	if e.Bag == nil {
		e.Bag = make(map[string][]string)
	}
	e.Bag[field] = append(e.Bag[field], msg)
}

// Has returns true if there are any errors.
func (e *Errors) Has() bool { return len(e.Bag) > 0 }

// First returns the first error for a field.
func (e *Errors) First(field string) string {
	if msgs, ok := e.Bag[field]; ok && len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// Error joins every message, fields in sorted order.
func (e *Errors) Error() string {
	fields := make([]string, 0, len(e.Bag))
	for f := range e.Bag {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	var msgs []string
	for _, f := range fields {
		msgs = append(msgs, e.Bag[f]...)
	}
	return strings.Join(msgs, " ")
}

// ── Validator ────────────────────────────────────────────────────────────────

// Rules is a map of field → pipe-separated rule string.
type Rules map[string]string

// Validator validates a flat map of input values.
type Validator struct {
	data   map[string]string
	rules  Rules
	errors *Errors
	ran    bool
}

// Make creates a new Validator.
func Make(data map[string]string, rules Rules) *Validator {
	return &Validator{
		data:   data,
		rules:  rules,
		errors: &Errors{},
	}
}

// Fails runs validation and returns true if any rule fails.
func (v *Validator) Fails() bool {
	if !v.ran {
		v.validate()
		v.ran = true
	}
	return v.errors.Has()
}

// Passes runs validation and returns true if all rules pass.
func (v *Validator) Passes() bool { return !v.Fails() }

// Errors returns the validation error bag.
func (v *Validator) Errors() *Errors { return v.errors }

// ── Core validation loop ─────────────────────────────────────────────────────

func (v *Validator) validate() {
	for field, spec := range v.rules {
		value := v.data[field]
		for _, r := range strings.Split(spec, "|") {
			name, param, _ := strings.Cut(strings.TrimSpace(r), ":")
			rl, ok := builtin[name]
			if !ok || rl.passes(value, param) {
				continue
			}
			v.errors.add(field, fmt.Sprintf(rl.message, field, param))
			break
		}
	}
}

// ── Rules ────────────────────────────────────────────────────────────────────

// rule pairs a predicate with its message. message is formatted with the
// field name and the rule parameter; %.0s drops an unused parameter.
type rule struct {
	passes  func(value, param string) bool
	message string
}

var alphaDash = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

var builtin = map[string]rule{
	"required": {
		func(v, _ string) bool { return strings.TrimSpace(v) != "" },
		"The %s field is required.%.0s",
	},
	"integer": {
		func(v, _ string) bool { _, err := strconv.Atoi(v); return err == nil },
		"The %s must be an integer.%.0s",
	},
	"numeric": {
		func(v, _ string) bool { _, ok := number(v); return ok },
		"The %s must be a number.%.0s",
	},
	"alpha_dash": {
		func(v, _ string) bool { return alphaDash.MatchString(v) },
		"The %s may only contain letters, numbers, dashes and underscores.%.0s",
	},
	"min": {
		func(v, p string) bool { return utf8.RuneCountInString(v) >= atoi(p) },
		"The %s must be at least %s characters.",
	},
	"max": {
		func(v, p string) bool { return utf8.RuneCountInString(v) <= atoi(p) },
		"The %s may not be greater than %s characters.",
	},
	"gte": {
		func(v, p string) bool { return compare(v, p, func(a, b float64) bool { return a >= b }) },
		"The %s must be greater than or equal to %s.",
	},
	"lte": {
		func(v, p string) bool { return compare(v, p, func(a, b float64) bool { return a <= b }) },
		"The %s must be less than or equal to %s.",
	},
	"in": {
		func(v, p string) bool { return oneOf(v, p) },
		"The selected %s is invalid.%.0s",
	},
	"not_in": {
		func(v, p string) bool { return !oneOf(v, p) },
		"The selected %s is invalid.%.0s",
	},
	"regex": {
		func(v, p string) bool {
			re, err := regexp.Compile(p)
			return err == nil && re.MatchString(v)
		},
		"The %s format is invalid.%.0s",
	},
}

func number(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	return f, err == nil
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// compare fails when value is not a number.
func compare(value, param string, ok func(a, b float64) bool) bool {
	a, isNum := number(value)
	b, _ := number(param)
	return isNum && ok(a, b)
}

func oneOf(value, list string) bool {
	for _, item := range strings.Split(list, ",") {
		if strings.TrimSpace(item) == value {
			return true
		}
	}
	return false
}
