// Package ingest walks a source tree, classifies files by language, and
// parses side-channel metadata (manifest, build descriptors). It decides
// which files exist; extracting them is the engine's job.
package ingest

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gobwas/glob"

	"github.com/jward/strata/internal/lang"
	"github.com/jward/strata/internal/model"
)

// skipDirs are build, vendor, and tooling directories excluded by name.
// Hidden directories are excluded separately by their leading dot.
var skipDirs = map[string]bool{
	"build":        true,
	"node_modules": true,
	"vendor":       true,
	"__pycache__":  true,
	"out":          true,
	"dist":         true,
	"target":       true,
	"Pods":         true,
	"DerivedData":  true,
}

// DefaultMaxFileSize bounds individual source files (2MB). Larger files are
// skipped with a diagnostic; generated sources past this size rarely carry
// structure worth the parse cost.
const DefaultMaxFileSize int64 = 2 * 1024 * 1024

// Options configures a scan.
type Options struct {
	// Excludes are compiled glob patterns matched against slash-separated
	// paths relative to the scan root.
	Excludes []glob.Glob

	// Languages restricts scanning to the given languages. Nil means all.
	Languages map[model.Language]bool

	// MaxFileSize overrides DefaultMaxFileSize when positive.
	MaxFileSize int64

	Logger *log.Logger
}

// CompileExcludes compiles raw glob patterns, returning an error naming the
// first bad pattern.
func CompileExcludes(patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("exclude pattern %q: %w", p, err)
		}
		globs = append(globs, g)
	}
	return globs, nil
}

// SourceFile is one file selected for extraction.
type SourceFile struct {
	Path     string // absolute path
	Rel      string // slash-separated path relative to the scan root
	Language model.Language
}

// Tree is the result of a scan: source files plus side-channel metadata.
// Manifest and Dependencies degrade to zero values when their files are
// absent or unparseable — that is a diagnostic, never a failure.
type Tree struct {
	Root         string
	Files        []SourceFile
	Manifest     model.ManifestInfo
	Dependencies []model.ProjectDependency
	Diagnostics  []model.Diagnostic
}

// Scan walks root depth-first, skipping hidden/build/vendor directories by
// name and anything matching the exclude globs. Side-channel files
// (AndroidManifest.xml, build.gradle / build.gradle.kts) are parsed in
// place; everything else is dispatched by extension.
func Scan(root string, opts Options) (*Tree, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(os.Stderr)
	}
	maxSize := opts.MaxFileSize
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}

	tree := &Tree{Root: root}
	manifestSeen := false

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			tree.Diagnostics = append(tree.Diagnostics, model.Diagnostic{
				Path: path, Stage: "scan", Message: err.Error(),
			})
			return nil
		}
		name := d.Name()
		if d.IsDir() {
			if path != root && (strings.HasPrefix(name, ".") || skipDirs[name]) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)
		for _, g := range opts.Excludes {
			if g.Match(rel) {
				return nil
			}
		}

		// Side-channel files first: they are metadata, not components.
		switch name {
		case "AndroidManifest.xml":
			if manifestSeen {
				return nil
			}
			info, mErr := ParseManifestFile(path)
			if mErr != nil {
				logger.Warn("manifest unparseable, continuing without it", "path", rel, "err", mErr)
				tree.Diagnostics = append(tree.Diagnostics, model.Diagnostic{
					Path: rel, Stage: "manifest", Message: mErr.Error(),
				})
				return nil
			}
			tree.Manifest = info
			manifestSeen = true
			return nil
		case "build.gradle", "build.gradle.kts":
			deps, gErr := ParseGradleFile(path)
			if gErr != nil {
				logger.Warn("build descriptor unparseable, continuing without it", "path", rel, "err", gErr)
				tree.Diagnostics = append(tree.Diagnostics, model.Diagnostic{
					Path: rel, Stage: "gradle", Message: gErr.Error(),
				})
				return nil
			}
			tree.Dependencies = append(tree.Dependencies, deps...)
			return nil
		}

		language, ok := lang.LanguageForFile(path)
		if !ok {
			return nil
		}
		if opts.Languages != nil && !opts.Languages[language] {
			return nil
		}
		if info, iErr := d.Info(); iErr == nil && info.Size() > maxSize {
			logger.Debug("skipping oversized file", "path", rel, "size", info.Size())
			tree.Diagnostics = append(tree.Diagnostics, model.Diagnostic{
				Path: rel, Stage: "scan", Message: fmt.Sprintf("file exceeds %d bytes, skipped", maxSize),
			})
			return nil
		}

		tree.Files = append(tree.Files, SourceFile{Path: path, Rel: rel, Language: language})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ingest: walk %s: %w", root, err)
	}
	return tree, nil
}
