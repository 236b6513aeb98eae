// Package validate statically checks microgame sources against the
// lifecycle contract. It is advisory: nothing at runtime depends on it.
//
// A microgame is any type with a Prompt method. For each one the checker
// looks for the lifecycle methods, a literal prompt and duration, an explicit
// Win or Fail call, and a registry.Register call whose descriptor agrees
// with the source. Optionally the descriptors are compared with a live
// catalog.
package validate

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/vovakirdan/microware/internal/registry"
)

// MaxPromptLen is the longest prompt that reads at a glance.
const MaxPromptLen = 10

// Lifecycle lists the methods every microgame must have. The last three are
// satisfied by embedding microgame.Base.
var Lifecycle = []string{"Prompt", "Duration", "Setup", "WireInput", "Update", "Render", "Teardown"}

var baseProvides = map[string]bool{"Update": true, "Render": true, "Teardown": true}

// Catalog is the slice of a registry catalog the validator compares with.
type Catalog interface {
	Describe(key string) (registry.Descriptor, bool)
}

// Options configure a validation pass.
type Options struct {
	Band    registry.Band
	Catalog Catalog // nil skips the runtime cross-check
}

// Finding is one problem found in the sources.
type Finding struct {
	Pos      token.Position
	Severity registry.Severity
	Message  string
}

func (f Finding) String() string {
	if f.Pos.IsValid() {
		return fmt.Sprintf("%s: %s: %s", f.Pos, f.Severity, f.Message)
	}
	return fmt.Sprintf("%s: %s", f.Severity, f.Message)
}

// Game is the result for one microgame type.
type Game struct {
	Dir      string
	Package  string
	Type     string
	Key      string // from the matching registry.Register call, if any
	Prompt   string
	Duration time.Duration
	Findings []Finding
}

// Passed reports whether the game has no errors. Warnings do not fail it.
func (g Game) Passed() bool {
	for _, f := range g.Findings {
		if f.Severity == registry.Error {
			return false
		}
	}
	return true
}

// Report collects every game found under a directory, plus findings that
// belong to no single game.
type Report struct {
	Games    []Game
	Findings []Finding
}

// Errors counts error findings across the report.
func (r *Report) Errors() int {
	n := count(r.Findings, registry.Error)
	for _, g := range r.Games {
		n += count(g.Findings, registry.Error)
	}
	return n
}

// Warnings counts warning findings across the report.
func (r *Report) Warnings() int {
	n := count(r.Findings, registry.Warning)
	for _, g := range r.Games {
		n += count(g.Findings, registry.Warning)
	}
	return n
}

func count(findings []Finding, s registry.Severity) int {
	n := 0
	for _, f := range findings {
		if f.Severity == s {
			n++
		}
	}
	return n
}

// Dir validates every package under root. Test files, testdata and
// directories starting with "." or "_" are skipped.
func Dir(root string, opts Options) (*Report, error) {
	if opts.Band == (registry.Band{}) {
		opts.Band = registry.DefaultBand
	}
	dirs, err := packageDirs(root)
	if err != nil {
		return nil, fmt.Errorf("validate: cannot walk %s: %w", root, err)
	}

	report := &Report{}
	for _, dir := range dirs {
		if err := checkDir(report, dir, opts); err != nil {
			return nil, err
		}
	}
	sort.Slice(report.Games, func(i, j int) bool {
		if report.Games[i].Dir != report.Games[j].Dir {
			return report.Games[i].Dir < report.Games[j].Dir
		}
		return report.Games[i].Type < report.Games[j].Type
	})
	return report, nil
}

func packageDirs(root string) ([]string, error) {
	var dirs []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		name := d.Name()
		if path != root && (name == "testdata" || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
			return filepath.SkipDir
		}
		dirs = append(dirs, path)
		return nil
	})
	return dirs, err
}

func checkDir(report *Report, dir string, opts Options) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("validate: cannot read %s: %w", dir, err)
	}

	fset := token.NewFileSet()
	byPkg := map[string][]*ast.File{}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		f, err := parser.ParseFile(fset, filepath.Join(dir, name), nil, parser.SkipObjectResolution)
		if err != nil {
			report.Findings = append(report.Findings, Finding{
				Severity: registry.Error,
				Message:  fmt.Sprintf("cannot parse %s: %v", filepath.Join(dir, name), err),
			})
			continue
		}
		byPkg[f.Name.Name] = append(byPkg[f.Name.Name], f)
	}

	names := make([]string, 0, len(byPkg))
	for name := range byPkg {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		p := newPackage(fset, dir, name, byPkg[name])
		games, orphans := p.check(opts)
		report.Games = append(report.Games, games...)
		report.Findings = append(report.Findings, orphans...)
	}
	return nil
}
