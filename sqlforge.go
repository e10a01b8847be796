// Package sqlforge compiles a declarative schema definition (tables, fields,
// keys, constraints, triggers) into a dependency-ordered set of database
// scripts: table creation, constraints, triggers, documentation comments,
// read views, synthetic seed data and a CRUD access package per table.
//
// The package ties the pieces together for embedding callers:
//
//	result, err := sqlforge.Generate(ctx, "schema.json", "output")
//	if err != nil {
//		// empty or malformed definition; nothing was written
//	}
//	for _, d := range result.Diagnostics {
//		log.Println(d)
//	}
//
// Definitions are loaded by compiler/load, resolved and generated by
// compiler/gen, and rendered by the dialect generator set under
// compiler/gen/oracle.
package sqlforge

import (
	"context"
	"fmt"

	"github.com/syssam/sqlforge/compiler/gen"
	"github.com/syssam/sqlforge/compiler/gen/oracle"
	"github.com/syssam/sqlforge/compiler/load"
	"github.com/syssam/sqlforge/dialect"
	"github.com/syssam/sqlforge/schema"
)

// Version of the sqlforge module.
const Version = "0.1.0"

// Result carries everything a run produced beyond the files on disk.
type Result struct {
	// Artifacts in resolved creation order, as written.
	Artifacts []gen.Artifact
	// Diagnostics recorded during resolution and generation. Warnings and
	// per-artifact errors land here; they never abort the run.
	Diagnostics []gen.Diagnostic
	// Explanation is the human-readable description of the creation order.
	Explanation string
	// Metrics summarizes the files written.
	Metrics gen.WriterMetrics
}

// Generate compiles the definition file and writes the scripts under outDir,
// one subdirectory per artifact category. The only fatal outcomes are an
// unreadable or rejected definition, an unsupported dialect, and write
// failures; everything else surfaces as a diagnostic on the Result.
func Generate(ctx context.Context, definition, outDir string, opts ...gen.Option) (*Result, error) {
	sc, err := load.File(definition)
	if err != nil {
		return nil, err
	}
	return Compile(ctx, sc, outDir, opts...)
}

// Compile runs the pipeline over an already-loaded schema and writes the
// scripts under outDir.
func Compile(ctx context.Context, sc *schema.Schema, outDir string, opts ...gen.Option) (*Result, error) {
	if sc.Dialect != "" && !dialect.Supported(sc.Dialect) {
		return nil, fmt.Errorf("sqlforge: unsupported dialect %q", sc.Dialect)
	}

	p, err := gen.NewPipeline(sc, oracle.New(sc), opts...)
	if err != nil {
		return nil, err
	}
	artifacts, err := p.Run(ctx)
	if err != nil {
		return nil, err
	}

	w := gen.NewWriter(outDir)
	if err := w.Write(ctx, artifacts); err != nil {
		return nil, err
	}
	return &Result{
		Artifacts:   artifacts,
		Diagnostics: p.Diagnostics(),
		Explanation: p.Graph().Explanation(),
		Metrics:     w.Metrics(),
	}, nil
}

// Validate loads and checks the definition file without generating anything.
// It returns the schema for callers that want to inspect it.
func Validate(definition string) (*schema.Schema, error) {
	return load.File(definition)
}
