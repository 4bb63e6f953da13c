package strata

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/gobwas/glob"

	"github.com/jward/strata/internal/classify"
	"github.com/jward/strata/internal/flow"
	"github.com/jward/strata/internal/graph"
	"github.com/jward/strata/internal/ingest"
	"github.com/jward/strata/internal/lang"
	"github.com/jward/strata/internal/model"
	"github.com/jward/strata/internal/nav"
	"github.com/jward/strata/internal/resolve"
)

// Engine orchestrates the strata pipeline: tree discovery, parallel
// per-language extraction, navigation detection, symbol resolution,
// classification, and flow synthesis. Construct one explicitly with New and
// scope its lifetime to the caller; there is no process-wide instance.
type Engine struct {
	cfg      Config
	logger   *log.Logger
	parser   *lang.JavaParser
	registry *lang.Registry
	detector *nav.Detector

	useParallel bool
	workers     int
}

// Option configures an Engine.
type Option func(*Engine)

// WithLanguages restricts which languages the Engine will process.
func WithLanguages(languages ...model.Language) Option {
	return func(e *Engine) {
		e.cfg.Languages = make([]string, 0, len(languages))
		for _, l := range languages {
			e.cfg.Languages = append(e.cfg.Languages, string(l))
		}
	}
}

// WithExcludes adds glob patterns (matched against slash-separated paths
// relative to the analysis root) to skip during discovery.
func WithExcludes(patterns ...string) Option {
	return func(e *Engine) {
		e.cfg.Excludes = append(e.cfg.Excludes, patterns...)
	}
}

// WithParallel controls the extraction worker pool. When true (default),
// files are extracted concurrently and joined before resolution. Set false
// for serial processing.
func WithParallel(parallel bool) Option {
	return func(e *Engine) {
		e.useParallel = parallel
	}
}

// WithWorkers caps the extraction pool size. Values below 1 keep the
// default (NumCPU).
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n >= 1 {
			e.workers = n
		}
	}
}

// WithLogger replaces the default stderr logger.
func WithLogger(logger *log.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithConfig applies a loaded configuration. Options applied after this one
// override its fields.
func WithConfig(cfg Config) Option {
	return func(e *Engine) {
		e.cfg = cfg
	}
}

// New creates an Engine.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		useParallel: true,
		workers:     runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = log.NewWithOptions(os.Stderr, log.Options{Level: log.WarnLevel})
	}
	if e.cfg.Workers > 0 && e.workers == runtime.NumCPU() {
		e.workers = e.cfg.Workers
	}

	e.parser = lang.NewJavaParser(lang.DefaultTreeCacheSize)
	e.registry = lang.NewRegistry(e.parser)
	e.detector = nav.NewDetector(e.parser, e.logger)
	return e, nil
}

// fileOutput is one file's extraction and detection yield.
type fileOutput struct {
	comps []*model.Component
	flows []model.NavigationFlow
	diags []model.Diagnostic
}

// Analyze runs the full pipeline over the tree rooted at root and returns
// the finished in-memory collections. Per-file failures degrade to
// diagnostics; only an unreadable root is fatal.
func (e *Engine) Analyze(ctx context.Context, root string) (*Result, error) {
	tree, err := ingest.Scan(root, ingest.Options{
		Excludes:    e.compiledExcludes(),
		Languages:   e.languageFilter(),
		MaxFileSize: e.cfg.MaxFileSize,
		Logger:      e.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("strata: %w", err)
	}

	outputs, err := e.extract(ctx, tree)
	if err != nil {
		return nil, err
	}

	// Join: flatten per-file outputs. Stubs are sorted before resolution so
	// registry construction (duplicate-id canonicalization, the last-writer
	// simple-name index) never depends on completion order.
	var stubs []*model.Component
	var flows []model.NavigationFlow
	diags := tree.Diagnostics
	for _, out := range outputs {
		stubs = append(stubs, out.comps...)
		flows = append(flows, out.flows...)
		diags = append(diags, out.diags...)
	}
	sort.Slice(stubs, func(i, j int) bool {
		if stubs[i].FilePath != stubs[j].FilePath {
			return stubs[i].FilePath < stubs[j].FilePath
		}
		return stubs[i].ID < stubs[j].ID
	})
	sort.Slice(flows, func(i, j int) bool {
		if flows[i].SourceScreenID != flows[j].SourceScreenID {
			return flows[i].SourceScreenID < flows[j].SourceScreenID
		}
		return flows[i].FlowID < flows[j].FlowID
	})

	// Resolution barrier: requires the complete stub set.
	resolver := resolve.New(e.logger)
	comps := resolver.Resolve(stubs)
	diags = append(diags, resolver.Diagnostics()...)

	comps = e.crossCheckManifest(comps, tree.Manifest)
	classify.Apply(comps)

	sort.Slice(comps, func(i, j int) bool { return comps[i].ID < comps[j].ID })
	sort.Slice(diags, func(i, j int) bool {
		if diags[i].Path != diags[j].Path {
			return diags[i].Path < diags[j].Path
		}
		return diags[i].Message < diags[j].Message
	})

	rels := graph.Build(comps, flows)
	userFlows, procs := flow.Synthesize(comps, flows, tree.Manifest.LauncherNames())

	return &Result{
		Root:            root,
		Components:      comps,
		Relationships:   rels,
		NavigationFlows: flows,
		UserFlows:       userFlows,
		Processes:       procs,
		Manifest:        tree.Manifest,
		Dependencies:    tree.Dependencies,
		Diagnostics:     diags,
		Lookups:         resolver.Lookups(),
	}, nil
}

// extract runs extraction and navigation detection over every discovered
// file, parallel or serial per configuration.
func (e *Engine) extract(ctx context.Context, tree *ingest.Tree) ([]fileOutput, error) {
	if e.useParallel && e.workers > 1 {
		return e.extractParallel(ctx, tree)
	}
	outputs := make([]fileOutput, 0, len(tree.Files))
	for _, f := range tree.Files {
		outputs = append(outputs, e.processFile(ctx, f))
	}
	return outputs, nil
}

// processFile reads one file, extracts component stubs, and detects
// navigation flows. Every failure path is soft: the worst outcome is an
// empty output plus a diagnostic.
func (e *Engine) processFile(ctx context.Context, f ingest.SourceFile) fileOutput {
	var out fileOutput

	content, err := os.ReadFile(f.Path)
	if err != nil {
		e.logger.Warn("skipping unreadable file", "path", f.Rel, "err", err)
		out.diags = append(out.diags, model.Diagnostic{
			Path: f.Rel, Stage: "read", Message: err.Error(),
		})
		return out
	}

	if extractor, ok := e.registry.ForLanguage(f.Language); ok {
		comps, extErr := extractor.Extract(ctx, content, f.Rel)
		if extErr != nil {
			e.logger.Warn("partial extraction", "path", f.Rel, "err", extErr)
			out.diags = append(out.diags, model.Diagnostic{
				Path: f.Rel, Stage: "extract", Message: extErr.Error(),
			})
		}
		out.comps = comps
	}

	out.flows = e.detector.DetectFile(ctx, f.Rel, content, f.Language)
	return out
}

// crossCheckManifest reconciles the component set against the manifest's
// activity declarations: a declared activity present in source is pinned to
// the UI layer (the classifier honors it as an explicit upstream signal);
// one absent from source becomes a UI-layer external placeholder.
func (e *Engine) crossCheckManifest(comps []*model.Component, manifest model.ManifestInfo) []*model.Component {
	if len(manifest.Activities) == 0 {
		return comps
	}

	byID := make(map[string]*model.Component, len(comps))
	bySimple := make(map[string]*model.Component, len(comps))
	for _, c := range comps {
		byID[c.ID] = c
		bySimple[c.Name] = c
	}

	for _, act := range manifest.Activities {
		if c, ok := byID[act.Name]; ok {
			c.Layer = model.LayerUI
			continue
		}
		simple := model.SimpleName(act.Name)
		if c, ok := bySimple[simple]; ok {
			c.Layer = model.LayerUI
			continue
		}
		e.logger.Info("manifest activity missing from source", "activity", act.Name)
		placeholder := &model.Component{
			ID:          act.Name,
			Name:        simple,
			Kind:        model.KindExternal,
			Placeholder: true,
			Layer:       model.LayerUI,
		}
		byID[act.Name] = placeholder
		comps = append(comps, placeholder)
	}
	return comps
}

func (e *Engine) compiledExcludes() []glob.Glob {
	globs, err := ingest.CompileExcludes(e.cfg.Excludes)
	if err != nil {
		e.logger.Warn("ignoring invalid exclude patterns", "err", err)
	}
	return globs
}

func (e *Engine) languageFilter() map[model.Language]bool {
	if len(e.cfg.Languages) == 0 {
		return nil
	}
	filter := make(map[model.Language]bool, len(e.cfg.Languages))
	for _, l := range e.cfg.Languages {
		filter[model.Language(l)] = true
	}
	return filter
}
