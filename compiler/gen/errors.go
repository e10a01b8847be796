// Package gen drives script generation: it resolves the table dependency
// graph, runs the dialect's section generators over every table in resolved
// order, and assembles the resulting sections into complete, self-checked
// script artifacts.
package gen

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure cases.
var (
	// ErrEmptySchema indicates a nil or empty schema was handed to the resolver.
	ErrEmptySchema = errors.New("sqlforge: empty schema")
	// ErrInvalidSchema indicates a schema definition error.
	ErrInvalidSchema = errors.New("sqlforge: invalid schema")
	// ErrMissingConfig indicates a configuration error.
	ErrMissingConfig = errors.New("sqlforge: missing configuration")
	// ErrNoDialect indicates generation was started without a dialect.
	ErrNoDialect = errors.New("sqlforge: no dialect set")
	// ErrPipelineDone indicates Run was called on a pipeline that already ran.
	ErrPipelineDone = errors.New("sqlforge: pipeline already run")
)

// SchemaError represents a schema definition error.
type SchemaError struct {
	Table   string // Table name
	Field   string // Field name (if applicable)
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	var b strings.Builder
	b.WriteString("sqlforge: schema error")
	if e.Table != "" {
		b.WriteString(" on table ")
		b.WriteString(e.Table)
	}
	if e.Field != "" {
		b.WriteString(" field ")
		b.WriteString(e.Field)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *SchemaError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for SchemaError.
func (e *SchemaError) Is(target error) bool {
	return target == ErrInvalidSchema
}

// NewSchemaError creates a new SchemaError.
func NewSchemaError(table, field, message string, cause error) *SchemaError {
	return &SchemaError{
		Table:   table,
		Field:   field,
		Message: message,
		Cause:   cause,
	}
}

// ConfigError represents a configuration error.
type ConfigError struct {
	Option  string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("sqlforge: config error for %q (value: %v): %s", e.Option, e.Value, e.Message)
	}
	return fmt.Sprintf("sqlforge: config error for %q: %s", e.Option, e.Message)
}

// Is reports whether the target matches the sentinel error for ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrMissingConfig
}

// NewConfigError creates a new ConfigError.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{
		Option:  option,
		Value:   value,
		Message: message,
	}
}

// Severity classifies a Diagnostic.
type Severity string

// Diagnostic severities. Warnings never stop a run; errors mark an artifact
// that could not be produced, and the run still continues with the rest.
const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Diagnostic is a non-fatal finding recorded during resolution or
// generation: a broken dependency edge, a skipped constraint, a script that
// failed its structural self-check. The pipeline collects them; the caller
// decides how to surface them.
type Diagnostic struct {
	Severity Severity
	Table    string
	Artifact string
	Message  string
}

// String renders the diagnostic as a single human-readable line.
func (d Diagnostic) String() string {
	var b strings.Builder
	b.WriteString(string(d.Severity))
	if d.Table != "" {
		b.WriteString(" [")
		b.WriteString(d.Table)
		if d.Artifact != "" {
			b.WriteString("/")
			b.WriteString(d.Artifact)
		}
		b.WriteString("]")
	}
	b.WriteString(": ")
	b.WriteString(d.Message)
	return b.String()
}

// warnf builds a warning diagnostic.
func warnf(table, artifact, format string, args ...any) Diagnostic {
	return Diagnostic{
		Severity: SeverityWarning,
		Table:    table,
		Artifact: artifact,
		Message:  fmt.Sprintf(format, args...),
	}
}

// errorf builds an error diagnostic.
func errorf(table, artifact, format string, args ...any) Diagnostic {
	return Diagnostic{
		Severity: SeverityError,
		Table:    table,
		Artifact: artifact,
		Message:  fmt.Sprintf(format, args...),
	}
}
