// Package errors provides the engine's single structured error type.
// It mirrors the teacher codebase's error-report idiom: a Report struct
// carrying a stable code, a category (spec.md §7's error-kind sum), a
// region, and a message, wrapped as a plain error via ReportError so
// callers that only want fmt/%v still work while errors.As can recover
// the structured form.
package errors

import (
	"encoding/json"

	stderrors "errors"

	"github.com/waclang/waccheck/internal/ir"
)

// Category is one of spec.md §7's error kinds.
type Category string

const (
	CategoryInvalid     Category = "validation"
	CategorySyntax      Category = "parsing"
	CategoryLink        Category = "link failure"
	CategoryTrap        Category = "runtime trap"
	CategoryExhaustion  Category = "resource exhaustion"
	CategoryCrash       Category = "runtime crash"
	CategoryEncoding    Category = "encoding error"
	CategoryScript      Category = "script error"
	CategoryIO          Category = "i/o error"
	CategoryAssertion   Category = "assertion failure"
)

// Report is the canonical structured error for this engine. Every check
// that can fail returns *Report (wrapped via Wrap) rather than a bare
// error, so the region and category survive to the CLI/assertion runner.
type Report struct {
	Schema   string         `json:"schema"`
	Code     string         `json:"code"`
	Category Category       `json:"category"`
	Message  string         `json:"message"`
	Region   *ir.Region     `json:"region,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}

const SchemaV1 = "waccheck.error/v1"

// New builds a Report with the standard schema tag.
func New(code string, category Category, region ir.Region, message string) *Report {
	return &Report{
		Schema:   SchemaV1,
		Code:     code,
		Category: category,
		Message:  message,
		Region:   &region,
	}
}

// WithData attaches structured data to a Report and returns it (for
// chaining at the call site).
func (r *Report) WithData(key string, value any) *Report {
	if r.Data == nil {
		r.Data = make(map[string]any)
	}
	r.Data[key] = value
	return r
}

// ReportError wraps a Report so it satisfies the error interface while
// staying recoverable through errors.As.
type ReportError struct {
	Rep *Report
}

func (e *ReportError) Error() string {
	if e.Rep == nil {
		return "unknown error"
	}
	return e.Rep.Code + ": " + e.Rep.Message
}

// Wrap turns a Report into an error. Call sites should `return
// errors.Wrap(r)` rather than constructing ReportError directly.
func Wrap(r *Report) error {
	if r == nil {
		return nil
	}
	return &ReportError{Rep: r}
}

// As extracts a *Report from an error chain.
func As(err error) (*Report, bool) {
	var re *ReportError
	if stderrors.As(err, &re) {
		return re.Rep, true
	}
	return nil, false
}

// ToJSON marshals a Report deterministically (sorted map keys come for
// free from Go's struct field order plus json.Marshal's sorted-map
// behavior for `Data`).
func (r *Report) ToJSON(indent bool) (string, error) {
	var data []byte
	var err error
	if indent {
		data, err = json.MarshalIndent(r, "", "  ")
	} else {
		data, err = json.Marshal(r)
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}
