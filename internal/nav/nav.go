// Package nav detects screen-to-screen navigation flows. It is independent
// of the structural resolver: it reads each file's raw source (or its cached
// parse tree, for Java) and emits flow edges by matching per-dialect
// navigation idioms.
//
// Detection never fails a run. A file that cannot be parsed contributes zero
// flows and a log line. Condition metadata on flows — enclosing branch text,
// extra-data keys — is advisory enrichment only; nothing downstream may
// treat it as authoritative.
package nav

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/jward/strata/internal/lang"
	"github.com/jward/strata/internal/model"
)

// ImplicitTarget formats the placeholder target recorded for action-based
// transitions with no explicit destination type.
func ImplicitTarget(action string) string {
	return "[Implicit] " + action
}

// PreviousScreen is the placeholder target for back-style transitions whose
// destination is only known at runtime. The flow synthesizer skips bracketed
// placeholder targets, so these never masquerade as real screens.
const PreviousScreen = "[Previous]"

// Detector recognizes navigation idioms per language dialect. The Java path
// walks the tree-sitter AST (reusing the extraction-phase parse via the
// shared JavaParser cache); Kotlin and Dart use lexical matching.
type Detector struct {
	parser *lang.JavaParser
	logger *log.Logger
}

// NewDetector creates a Detector. A nil logger falls back to stderr.
func NewDetector(parser *lang.JavaParser, logger *log.Logger) *Detector {
	if logger == nil {
		logger = log.New(os.Stderr)
	}
	return &Detector{parser: parser, logger: logger}
}

// DetectFile scans one file and returns its flows. The source screen id is
// the file's simple name. Never panics and never aborts: any per-file parse
// error is logged and yields zero flows.
func (d *Detector) DetectFile(ctx context.Context, path string, content []byte, language model.Language) []model.NavigationFlow {
	source := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	b := newFlowBuilder(source)

	switch language {
	case model.LangJava:
		pf, err := d.parser.Parse(ctx, path, content)
		if err != nil {
			d.logger.Warn("navigation detection skipped, parse failed", "path", path, "err", err)
			return nil
		}
		detectJava(pf, b)
	case model.LangKotlin:
		detectKotlin(string(content), b)
	case model.LangDart:
		detectDart(string(content), b)
	}
	return b.flows
}

// flowBuilder accumulates flows for a single file and assigns deterministic
// flow ids (per source/target/type counter), so the final flow set does not
// depend on file-processing order.
type flowBuilder struct {
	source string
	flows  []model.NavigationFlow
	seq    map[string]int
}

func newFlowBuilder(source string) *flowBuilder {
	return &flowBuilder{source: source, seq: make(map[string]int)}
}

func (b *flowBuilder) add(target string, typ model.NavigationType, conditions []string) {
	if target == "" || target == b.source {
		return
	}
	key := fmt.Sprintf("%s->%s:%s", b.source, target, typ)
	n := b.seq[key]
	b.seq[key] = n + 1
	b.flows = append(b.flows, model.NavigationFlow{
		FlowID:         fmt.Sprintf("%s#%d", key, n),
		SourceScreenID: b.source,
		TargetScreenID: target,
		Type:           typ,
		Conditions:     conditions,
	})
}

var (
	condIfRe   = regexp.MustCompile(`\bif\s*\(([^)]*)\)`)
	condWhenRe = regexp.MustCompile(`\bwhen\s*\(([^)]*)\)`)
	extraRe    = regexp.MustCompile(`\.putExtra\(\s*"([^"]+)"`)
	argumentRe = regexp.MustCompile(`arguments\s*\[\s*['"]([^'"]+)['"]`)
)

// conditionWindow is how many lines around a match the lexical dialects
// inspect for branch conditions and extra-data calls.
const conditionWindow = 4

// lexicalConditions collects best-effort condition metadata around a match
// offset: the nearest enclosing if/when condition in the preceding lines,
// and extra-data keys in the following lines. Purely heuristic.
func lexicalConditions(src string, offset int) []string {
	before := windowBefore(src, offset, conditionWindow)
	after := windowAfter(src, offset, conditionWindow)

	var conds []string
	for _, re := range []*regexp.Regexp{condIfRe, condWhenRe} {
		if ms := re.FindAllStringSubmatch(before, -1); len(ms) > 0 {
			cond := strings.TrimSpace(ms[len(ms)-1][1])
			if cond != "" {
				conds = append(conds, cond)
			}
			break
		}
	}
	for _, re := range []*regexp.Regexp{extraRe, argumentRe} {
		for _, m := range re.FindAllStringSubmatch(after, -1) {
			conds = append(conds, "extra:"+m[1])
		}
	}
	return conds
}

func windowBefore(src string, offset, lines int) string {
	start := offset
	for i := 0; i < lines && start > 0; i++ {
		nl := strings.LastIndexByte(src[:start], '\n')
		if nl < 0 {
			start = 0
			break
		}
		start = nl
	}
	return src[start:offset]
}

func windowAfter(src string, offset, lines int) string {
	end := offset
	for i := 0; i <= lines && end < len(src); i++ {
		nl := strings.IndexByte(src[end:], '\n')
		if nl < 0 {
			end = len(src)
			break
		}
		end += nl + 1
	}
	return src[offset:end]
}
