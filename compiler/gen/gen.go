package gen

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/syssam/sqlforge/schema"
)

// State is the pipeline's lifecycle phase.
type State uint8

// Pipeline states. Done is terminal; a pipeline is not reusable.
const (
	StateResolving State = iota
	StateGenerating
	StateDone
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateResolving:
		return "resolving"
	case StateGenerating:
		return "generating"
	case StateDone:
		return "done"
	}
	return "unknown"
}

// Pipeline runs the dependency resolver once, then the dialect's generator
// set for every table in resolved order, and returns the finished artifacts.
// Each table's artifacts are produced as one unit, never interleaved;
// with Workers > 1 tables are generated concurrently, but the returned slice
// still follows the resolved order exactly, since per-table output depends
// only on the read-only schema.
type Pipeline struct {
	cfg     *Config
	dialect Dialect
	schema  *schema.Schema

	mu    sync.Mutex
	state State
	graph *Graph
	diags []Diagnostic
}

// NewPipeline builds a pipeline for the schema with the given dialect and
// run options.
func NewPipeline(sc *schema.Schema, d Dialect, opts ...Option) (*Pipeline, error) {
	if d == nil {
		return nil, ErrNoDialect
	}
	cfg := DefaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	return &Pipeline{cfg: cfg, dialect: d, schema: sc, state: StateResolving}, nil
}

// State returns the current lifecycle phase.
func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Graph returns the resolved dependency graph, or nil before Run.
func (p *Pipeline) Graph() *Graph {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.graph
}

// Diagnostics returns every finding recorded so far, resolution first, then
// generation findings grouped per table in resolved order.
func (p *Pipeline) Diagnostics() []Diagnostic {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Diagnostic(nil), p.diags...)
}

// tableResult collects one table's artifacts and findings, keyed by resolved
// position so concurrent generation still yields deterministic output.
type tableResult struct {
	artifacts []Artifact
	diags     []Diagnostic
}

// Run executes the pipeline once. The only fatal outcomes are an empty or
// malformed schema and a spent pipeline; every per-artifact failure is
// recorded as a diagnostic and the run keeps going to maximize usable output.
func (p *Pipeline) Run(ctx context.Context) ([]Artifact, error) {
	p.mu.Lock()
	if p.state != StateResolving {
		p.mu.Unlock()
		return nil, ErrPipelineDone
	}
	p.state = StateGenerating
	p.mu.Unlock()

	graph, err := NewGraph(p.schema)
	if err != nil {
		p.mu.Lock()
		p.state = StateDone
		p.mu.Unlock()
		return nil, err
	}
	p.mu.Lock()
	p.graph = graph
	p.diags = append(p.diags, graph.Diagnostics()...)
	p.mu.Unlock()

	asm := NewAssembler(p.cfg, p.dialect.Name())
	results := make([]tableResult, len(graph.Nodes))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(p.cfg.Workers)
	for i, t := range graph.Nodes {
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			results[i] = p.generateTable(asm, t, i+1)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		p.mu.Lock()
		p.state = StateDone
		p.mu.Unlock()
		return nil, err
	}

	var artifacts []Artifact
	p.mu.Lock()
	for _, r := range results {
		artifacts = append(artifacts, r.artifacts...)
		p.diags = append(p.diags, r.diags...)
	}
	p.state = StateDone
	p.mu.Unlock()
	return artifacts, nil
}

// generateTable produces every artifact for one table: the combined table
// script first, then the view, seed-data and package scripts, each with its
// own header and footer.
func (p *Pipeline) generateTable(asm *Assembler, t *schema.Table, order int) tableResult {
	var res tableResult

	var sections []*Section
	for _, sg := range p.dialect.TableGenerators() {
		s, err := sg.Generate(t)
		if err != nil {
			res.diags = append(res.diags, errorf(t.Name, sg.SectionName(), "section failed: %v", err))
			continue
		}
		if s == nil {
			continue
		}
		for _, w := range s.Warnings {
			res.diags = append(res.diags, warnf(t.Name, sg.SectionName(), "%s", w))
		}
		if strings.TrimSpace(s.Body) == "" {
			continue
		}
		sections = append(sections, s)
	}
	content := asm.Assemble(t, sections)
	res.diags = append(res.diags, asm.Verify(t.Name, string(CategoryTables), content, len(sections))...)
	res.artifacts = append(res.artifacts, Artifact{
		Category:    CategoryTables,
		SubCategory: t.Name,
		FileName:    fileName(order, p.dialect.Ident(t.Name), ""),
		Order:       order,
		Content:     content,
	})

	singles := []struct {
		gen      SectionGenerator
		category Category
		suffix   string
	}{
		{p.dialect.ViewGenerator(), CategoryViews, "view"},
		{p.dialect.DataGenerator(), CategoryData, "data"},
		{p.dialect.PackageGenerator(), CategoryPackages, "pkg"},
	}
	for _, sg := range singles {
		s, err := sg.gen.Generate(t)
		if err != nil {
			res.diags = append(res.diags, errorf(t.Name, string(sg.category), "artifact failed: %v", err))
			continue
		}
		if s == nil {
			continue
		}
		for _, w := range s.Warnings {
			res.diags = append(res.diags, warnf(t.Name, string(sg.category), "%s", w))
		}
		if strings.TrimSpace(s.Body) == "" {
			continue
		}
		content := asm.Assemble(t, []*Section{s})
		res.diags = append(res.diags, asm.Verify(t.Name, string(sg.category), content, 1)...)
		res.artifacts = append(res.artifacts, Artifact{
			Category:    sg.category,
			SubCategory: t.Name,
			FileName:    fileName(order, p.dialect.Ident(t.Name), sg.suffix),
			Order:       order,
			Content:     content,
		})
	}
	return res
}
