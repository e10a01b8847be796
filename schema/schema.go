// Package schema defines the typed representation of a table set that the
// compiler packages consume: tables, fields, keys, foreign-key references,
// check constraints and field triggers.
//
// A Schema is loaded once (see compiler/load), validated, and treated as
// immutable for the rest of the run. Everything downstream of this package
// only reads it.
package schema

import (
	"fmt"
	"strings"
)

// TriggerEvent is the timing/operation pair a field trigger fires on.
type TriggerEvent string

// Supported trigger events.
const (
	BeforeInsert       TriggerEvent = "before_insert"
	BeforeUpdate       TriggerEvent = "before_update"
	BeforeInsertUpdate TriggerEvent = "before_insert_update"
	AfterInsert        TriggerEvent = "after_insert"
	AfterUpdate        TriggerEvent = "after_update"
	AfterInsertUpdate  TriggerEvent = "after_insert_update"
)

// Valid reports if e is one of the supported trigger events.
func (e TriggerEvent) Valid() bool {
	switch e {
	case BeforeInsert, BeforeUpdate, BeforeInsertUpdate,
		AfterInsert, AfterUpdate, AfterInsertUpdate:
		return true
	}
	return false
}

// Before reports if the event fires before the row operation.
func (e TriggerEvent) Before() bool {
	return strings.HasPrefix(string(e), "before_")
}

// Operations returns the row operations the event covers, in firing order.
func (e TriggerEvent) Operations() []string {
	switch e {
	case BeforeInsert, AfterInsert:
		return []string{"INSERT"}
	case BeforeUpdate, AfterUpdate:
		return []string{"UPDATE"}
	case BeforeInsertUpdate, AfterInsertUpdate:
		return []string{"INSERT", "UPDATE"}
	}
	return nil
}

// ForeignKey describes the target of a foreign-key field.
type ForeignKey struct {
	ReferencedTable  string `json:"referenced_table,omitempty" yaml:"referenced_table,omitempty"`
	ReferencedColumn string `json:"referenced_column,omitempty" yaml:"referenced_column,omitempty"`
}

// Trigger describes an automatic assignment attached to a single field.
type Trigger struct {
	Enabled   bool         `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Event     TriggerEvent `json:"event,omitempty" yaml:"event,omitempty"`
	Action    string       `json:"action,omitempty" yaml:"action,omitempty"`
	Condition string       `json:"condition,omitempty" yaml:"condition,omitempty"`
}

// Field is a single column definition within a Table.
type Field struct {
	// Name is the column identifier. Unique within its table.
	Name string `json:"name" yaml:"name"`
	// Type is the dialect type string, e.g. "VARCHAR2(100)" or "NUMBER".
	Type string `json:"type" yaml:"type"`
	// Nullable defaults to true; the loader back-fills it when the
	// definition omits the attribute.
	Nullable bool `json:"nullable" yaml:"nullable"`
	// PrimaryKey marks the field as part of the table's primary key.
	PrimaryKey bool `json:"is_primary_key,omitempty" yaml:"is_primary_key,omitempty"`
	// IsForeignKey marks the field as a foreign key. ForeignKey carries the
	// target; a marked field without a resolvable target is skipped with a
	// warning at generation time, never fatally.
	IsForeignKey bool        `json:"is_foreign_key,omitempty" yaml:"is_foreign_key,omitempty"`
	ForeignKey   *ForeignKey `json:"foreign_key,omitempty" yaml:"foreign_key,omitempty"`
	// Unique requests a single-column unique constraint.
	Unique bool `json:"unique,omitempty" yaml:"unique,omitempty"`
	// Default is a literal or a dialect keyword such as "current timestamp".
	Default string `json:"default,omitempty" yaml:"default,omitempty"`
	// AllowedValues is an ordered literal set. It implies a check constraint
	// and drives seed-data cycling.
	AllowedValues []string `json:"allowed_values,omitempty" yaml:"allowed_values,omitempty"`
	// Comment is free documentation text emitted as a COMMENT ON statement.
	Comment string `json:"comment,omitempty" yaml:"comment,omitempty"`
	// Trigger, when enabled, generates an automatic assignment for the field.
	Trigger *Trigger `json:"trigger,omitempty" yaml:"trigger,omitempty"`
}

// HasDefault reports if the field carries a default value.
func (f *Field) HasDefault() bool { return f.Default != "" }

// HasTrigger reports if the field carries an enabled trigger.
func (f *Field) HasTrigger() bool { return f.Trigger != nil && f.Trigger.Enabled }

// HasAllowedValues reports if the field restricts its values to a literal set.
func (f *Field) HasAllowedValues() bool { return len(f.AllowedValues) > 0 }

// auditSuffixes are name endings that mark a column as system-managed.
var auditSuffixes = []string{"created_at", "updated_at", "created_on", "updated_on", "created_by", "updated_by", "deleted_at"}

// IsAudit reports if the field is an audit column (creation/update stamp),
// excluded from CRUD input parameters because the database manages it.
func (f *Field) IsAudit() bool {
	name := strings.ToLower(f.Name)
	for _, s := range auditSuffixes {
		if name == s || strings.HasSuffix(name, "_"+s) {
			return true
		}
	}
	return false
}

// SystemManaged reports if the database populates the field on its own,
// either because it is an audit column, has a live default such as a current
// timestamp keyword, or has an enabled trigger assigning it.
func (f *Field) SystemManaged() bool {
	if f.IsAudit() || f.HasTrigger() {
		return true
	}
	return f.HasDefault() && IsLiveDefault(f.Default)
}

// IsLiveDefault reports if the default value is a dialect keyword evaluated
// by the database at insert time rather than a fixed literal.
func IsLiveDefault(def string) bool {
	switch strings.ToLower(strings.TrimSpace(def)) {
	case "current timestamp", "current_timestamp", "now", "sysdate", "current user", "current_user", "user":
		return true
	}
	return false
}

// Table is an ordered field list plus its dependency bookkeeping.
type Table struct {
	Name   string   `json:"name" yaml:"name"`
	Fields []*Field `json:"fields" yaml:"fields"`
	// ReferencingTo lists the tables this table's foreign keys point to.
	// The dependency resolver orders creation scripts from it.
	ReferencingTo []string `json:"referencing_to,omitempty" yaml:"referencing_to,omitempty"`
	// ReferencedBy is the informational inverse of ReferencingTo.
	ReferencedBy []string `json:"referenced_by,omitempty" yaml:"referenced_by,omitempty"`
}

// Field returns the field with the given name, or nil.
func (t *Table) Field(name string) *Field {
	for _, f := range t.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Columns returns the field names in declaration order.
func (t *Table) Columns() []string {
	cols := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		cols[i] = f.Name
	}
	return cols
}

// PrimaryKey returns all fields marked as primary key, in declaration order.
func (t *Table) PrimaryKey() []*Field {
	var pk []*Field
	for _, f := range t.Fields {
		if f.PrimaryKey {
			pk = append(pk, f)
		}
	}
	return pk
}

// PKField returns the first primary-key field, or nil. Generators that need
// a single addressable key (CRUD, seed data) use it.
func (t *Table) PKField() *Field {
	for _, f := range t.Fields {
		if f.PrimaryKey {
			return f
		}
	}
	return nil
}

// HasPrimaryKey reports if the table declares at least one primary-key field.
func (t *Table) HasPrimaryKey() bool { return t.PKField() != nil }

// ForeignKeys returns the fields marked as foreign keys, in declaration order.
func (t *Table) ForeignKeys() []*Field {
	var fks []*Field
	for _, f := range t.Fields {
		if f.IsForeignKey {
			fks = append(fks, f)
		}
	}
	return fks
}

// DisplayFields returns the fields worth projecting when another table joins
// against this one: everything except primary-key, foreign-key and audit
// columns. Derived from the field list so referencing tables never need an
// external allow-list.
func (t *Table) DisplayFields() []*Field {
	var out []*Field
	for _, f := range t.Fields {
		if f.PrimaryKey || f.IsForeignKey || f.IsAudit() {
			continue
		}
		out = append(out, f)
	}
	return out
}

// Schema is the full table set being compiled for one dialect.
type Schema struct {
	Dialect string   `json:"dialect,omitempty" yaml:"dialect,omitempty"`
	Tables  []*Table `json:"tables" yaml:"tables"`
}

// Table returns the table with the given name, or nil.
func (s *Schema) Table(name string) *Table {
	for _, t := range s.Tables {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// Validate checks the structural invariants the generators rely on: table
// names unique within the schema, field names unique within each table, and
// trigger events drawn from the supported set. Foreign keys pointing at
// unknown tables are deliberately not fatal here; the constraint generator
// skips them with a warning instead.
func (s *Schema) Validate() error {
	if s == nil || len(s.Tables) == 0 {
		return fmt.Errorf("schema: no tables defined")
	}
	tables := make(map[string]struct{}, len(s.Tables))
	for _, t := range s.Tables {
		if t.Name == "" {
			return fmt.Errorf("schema: table with empty name")
		}
		if _, ok := tables[t.Name]; ok {
			return fmt.Errorf("schema: table %q redeclared", t.Name)
		}
		tables[t.Name] = struct{}{}
		if len(t.Fields) == 0 {
			return fmt.Errorf("schema: table %q has no fields", t.Name)
		}
		fields := make(map[string]struct{}, len(t.Fields))
		for _, f := range t.Fields {
			if f.Name == "" {
				return fmt.Errorf("schema: table %q has a field with empty name", t.Name)
			}
			if _, ok := fields[f.Name]; ok {
				return fmt.Errorf("schema: field %q redeclared for table %q", f.Name, t.Name)
			}
			fields[f.Name] = struct{}{}
			if f.Trigger != nil && f.Trigger.Enabled && !f.Trigger.Event.Valid() {
				return fmt.Errorf("schema: field %q of table %q has unknown trigger event %q", f.Name, t.Name, f.Trigger.Event)
			}
		}
	}
	return nil
}
