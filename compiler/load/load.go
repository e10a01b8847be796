// Package load reads a schema definition file, validates it against the
// embedded JSON Schema, and builds the immutable schema.Schema the compiler
// packages consume. Definitions are accepted as JSON or YAML; both share one
// attribute vocabulary.
package load

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	js "github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/syssam/sqlforge/schema"
)

//go:embed schema.json
var definitionSchema string

var (
	compileOnce sync.Once
	compiled    *js.Schema
	compileErr  error
)

// validator compiles the embedded JSON Schema once per process.
func validator() (*js.Schema, error) {
	compileOnce.Do(func() {
		c := js.NewCompiler()
		if err := c.AddResource("definition.json", strings.NewReader(definitionSchema)); err != nil {
			compileErr = fmt.Errorf("load: add definition schema: %w", err)
			return
		}
		compiled, compileErr = c.Compile("definition.json")
	})
	return compiled, compileErr
}

// definition mirrors the on-disk document. It is a separate representation
// from schema.Field because the file format allows omitting attributes whose
// zero value is not the default, e.g. nullable.
type definition struct {
	Dialect string      `json:"dialect" yaml:"dialect"`
	Tables  []*tableDef `json:"tables" yaml:"tables"`
}

type tableDef struct {
	Name          string      `json:"name" yaml:"name"`
	Fields        []*fieldDef `json:"fields" yaml:"fields"`
	ReferencingTo []string    `json:"referencing_to" yaml:"referencing_to"`
	ReferencedBy  []string    `json:"referenced_by" yaml:"referenced_by"`
}

type fieldDef struct {
	Name          string             `json:"name" yaml:"name"`
	Type          string             `json:"type" yaml:"type"`
	Nullable      *bool              `json:"nullable" yaml:"nullable"`
	PrimaryKey    bool               `json:"is_primary_key" yaml:"is_primary_key"`
	IsForeignKey  bool               `json:"is_foreign_key" yaml:"is_foreign_key"`
	ForeignKey    *schema.ForeignKey `json:"foreign_key" yaml:"foreign_key"`
	Unique        bool               `json:"unique" yaml:"unique"`
	Default       string             `json:"default" yaml:"default"`
	AllowedValues []string           `json:"allowed_values" yaml:"allowed_values"`
	Comment       string             `json:"comment" yaml:"comment"`
	Trigger       *schema.Trigger    `json:"trigger" yaml:"trigger"`
}

// File reads, validates and builds the schema from a definition file.
// The extension picks the syntax: .yaml and .yml parse as YAML, everything
// else as JSON.
func File(path string) (*schema.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load: read %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML(data)
	default:
		return JSON(data)
	}
}

// JSON validates and builds the schema from a JSON definition document.
func JSON(data []byte) (*schema.Schema, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("load: parse definition: %w", err)
	}
	if err := validate(doc); err != nil {
		return nil, err
	}
	var def definition
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("load: decode definition: %w", err)
	}
	return build(&def)
}

// YAML validates and builds the schema from a YAML definition document. The
// document is normalized through JSON first so both syntaxes are validated
// and decoded by exactly the same path.
func YAML(data []byte) (*schema.Schema, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("load: parse definition: %w", err)
	}
	normalized, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("load: normalize definition: %w", err)
	}
	return JSON(normalized)
}

// validate checks the decoded document against the embedded JSON Schema.
func validate(doc any) error {
	v, err := validator()
	if err != nil {
		return err
	}
	if err := v.Validate(doc); err != nil {
		return fmt.Errorf("load: definition rejected: %w", err)
	}
	return nil
}

// build converts the file representation into the schema model, applies the
// format defaults, resolves the dependency edges and runs the structural
// validation every consumer relies on.
func build(def *definition) (*schema.Schema, error) {
	sc := &schema.Schema{Dialect: def.Dialect}
	for _, td := range def.Tables {
		t := &schema.Table{
			Name:          td.Name,
			ReferencingTo: append([]string(nil), td.ReferencingTo...),
			ReferencedBy:  append([]string(nil), td.ReferencedBy...),
		}
		for _, fd := range td.Fields {
			t.Fields = append(t.Fields, buildField(fd))
		}
		sc.Tables = append(sc.Tables, t)
	}
	resolveEdges(sc)
	if err := sc.Validate(); err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	return sc, nil
}

// buildField converts one field definition. Nullability defaults to true
// when the attribute is omitted.
func buildField(fd *fieldDef) *schema.Field {
	nullable := true
	if fd.Nullable != nil {
		nullable = *fd.Nullable
	}
	f := &schema.Field{
		Name:          fd.Name,
		Type:          fd.Type,
		Nullable:      nullable,
		PrimaryKey:    fd.PrimaryKey,
		IsForeignKey:  fd.IsForeignKey,
		ForeignKey:    fd.ForeignKey,
		Unique:        fd.Unique,
		Default:       fd.Default,
		AllowedValues: append([]string(nil), fd.AllowedValues...),
		Comment:       fd.Comment,
		Trigger:       fd.Trigger,
	}
	// A foreign-key target implies the marker even when the definition
	// leaves it out.
	if f.ForeignKey != nil {
		f.IsForeignKey = true
	}
	return f
}

// resolveEdges back-fills ReferencingTo and ReferencedBy from the declared
// foreign keys, keeping any edges the definition spells out explicitly.
// Self-references and targets outside the schema never become edges; the
// constraint generator reports unresolvable targets later.
func resolveEdges(sc *schema.Schema) {
	for _, t := range sc.Tables {
		for _, f := range t.ForeignKeys() {
			if f.ForeignKey == nil {
				continue
			}
			ref := f.ForeignKey.ReferencedTable
			if ref == "" || ref == t.Name || sc.Table(ref) == nil {
				continue
			}
			t.ReferencingTo = appendUnique(t.ReferencingTo, ref)
			target := sc.Table(ref)
			target.ReferencedBy = appendUnique(target.ReferencedBy, t.Name)
		}
	}
}

func appendUnique(list []string, s string) []string {
	for _, have := range list {
		if have == s {
			return list
		}
	}
	return append(list, s)
}
