package validate

import (
	"fmt"
	"go/ast"
	"go/token"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/tools/go/ast/inspector"

	"github.com/vovakirdan/microware/internal/registry"
)

// registration is a registry.Register call found in the sources.
type registration struct {
	pos      token.Pos
	key      string
	prompt   string
	duration time.Duration
	hasDur   bool
	matched  bool
}

// pkg is the parsed view of one package.
type pkg struct {
	fset    *token.FileSet
	dir     string
	name    string
	ins     *inspector.Inspector
	consts  map[string]ast.Expr
	types   map[string]*ast.TypeSpec
	methods map[string]map[string]*ast.FuncDecl
	embeds  map[string]bool // types embedding microgame.Base
	resolve map[string]bool // types whose methods call Win or Fail
	regs    []*registration
}

func newPackage(fset *token.FileSet, dir, name string, files []*ast.File) *pkg {
	p := &pkg{
		fset:    fset,
		dir:     dir,
		name:    name,
		ins:     inspector.New(files),
		consts:  map[string]ast.Expr{},
		types:   map[string]*ast.TypeSpec{},
		methods: map[string]map[string]*ast.FuncDecl{},
		embeds:  map[string]bool{},
		resolve: map[string]bool{},
	}

	// Package-level constants only; iota blocks are not evaluated.
	for _, f := range files {
		for _, decl := range f.Decls {
			gen, ok := decl.(*ast.GenDecl)
			if !ok || (gen.Tok != token.CONST && gen.Tok != token.VAR) {
				continue
			}
			for _, spec := range gen.Specs {
				vs := spec.(*ast.ValueSpec)
				for i, id := range vs.Names {
					if i < len(vs.Values) {
						p.consts[id.Name] = vs.Values[i]
					}
				}
			}
		}
	}

	filter := []ast.Node{(*ast.TypeSpec)(nil), (*ast.FuncDecl)(nil), (*ast.CallExpr)(nil)}
	p.ins.WithStack(filter, func(n ast.Node, push bool, stack []ast.Node) bool {
		if !push {
			return true
		}
		switch n := n.(type) {
		case *ast.TypeSpec:
			p.addType(n)
		case *ast.FuncDecl:
			if recv := receiverType(n); recv != "" {
				if p.methods[recv] == nil {
					p.methods[recv] = map[string]*ast.FuncDecl{}
				}
				p.methods[recv][n.Name.Name] = n
			}
		case *ast.CallExpr:
			p.addCall(n, stack)
		}
		return true
	})
	return p
}

func (p *pkg) addType(ts *ast.TypeSpec) {
	p.types[ts.Name.Name] = ts
	st, ok := ts.Type.(*ast.StructType)
	if !ok {
		return
	}
	for _, field := range st.Fields.List {
		if len(field.Names) == 0 && isSelector(field.Type, "microgame", "Base") {
			p.embeds[ts.Name.Name] = true
		}
	}
}

func (p *pkg) addCall(call *ast.CallExpr, stack []ast.Node) {
	if isSelector(call.Fun, "registry", "Register") {
		p.addRegistration(call)
		return
	}
	sel, ok := call.Fun.(*ast.SelectorExpr)
	if !ok || (sel.Sel.Name != "Win" && sel.Sel.Name != "Fail") || len(call.Args) != 0 {
		return
	}
	for i := len(stack) - 1; i >= 0; i-- {
		if fn, ok := stack[i].(*ast.FuncDecl); ok {
			if recv := receiverType(fn); recv != "" {
				p.resolve[recv] = true
			}
			return
		}
	}
}

func (p *pkg) addRegistration(call *ast.CallExpr) {
	reg := &registration{pos: call.Pos()}
	p.regs = append(p.regs, reg)
	if len(call.Args) == 0 {
		return
	}
	lit, ok := call.Args[0].(*ast.CompositeLit)
	if !ok {
		return
	}
	for _, elt := range lit.Elts {
		kv, ok := elt.(*ast.KeyValueExpr)
		if !ok {
			continue
		}
		field, ok := kv.Key.(*ast.Ident)
		if !ok {
			continue
		}
		switch field.Name {
		case "Key":
			reg.key, _ = p.stringValue(kv.Value, 0)
		case "Prompt":
			reg.prompt, _ = p.stringValue(kv.Value, 0)
		case "Duration":
			reg.duration, reg.hasDur = p.durationValue(kv.Value)
		}
	}
}

// check validates every game type and returns the per-game results plus
// registrations no game claimed.
func (p *pkg) check(opts Options) ([]Game, []Finding) {
	var names []string
	for name := range p.types {
		if _, ok := p.methods[name]["Prompt"]; ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	games := make([]Game, 0, len(names))
	for _, name := range names {
		games = append(games, p.checkGame(name, opts))
	}

	var orphans []Finding
	for _, reg := range p.regs {
		if reg.matched {
			continue
		}
		orphans = append(orphans, Finding{
			Pos:      p.fset.Position(reg.pos),
			Severity: registry.Error,
			Message:  fmt.Sprintf("registration %q with prompt %q matches no microgame in package %s", reg.key, reg.prompt, p.name),
		})
	}
	return games, orphans
}

func (p *pkg) checkGame(name string, opts Options) Game {
	g := Game{Dir: p.dir, Package: p.name, Type: name}
	methods := p.methods[name]
	pos := p.types[name].Pos()
	add := func(at token.Pos, s registry.Severity, format string, args ...any) {
		g.Findings = append(g.Findings, Finding{
			Pos:      p.fset.Position(at),
			Severity: s,
			Message:  fmt.Sprintf(format, args...),
		})
	}

	for _, m := range Lifecycle {
		if _, ok := methods[m]; ok {
			continue
		}
		if baseProvides[m] && p.embeds[name] {
			continue
		}
		add(pos, registry.Error, "%s is missing lifecycle method %s", name, m)
	}

	promptFn := methods["Prompt"]
	prompt, ok := p.stringValue(returned(promptFn), 0)
	switch {
	case !ok:
		add(promptFn.Pos(), registry.Warning, "prompt is not a string constant")
	case prompt == "":
		add(promptFn.Pos(), registry.Error, "prompt is empty")
	default:
		g.Prompt = prompt
		if utf8.RuneCountInString(prompt) > MaxPromptLen {
			add(promptFn.Pos(), registry.Warning, "prompt %q is longer than %d characters", prompt, MaxPromptLen)
		}
		if !strings.ContainsRune(prompt, '!') {
			add(promptFn.Pos(), registry.Warning, "prompt %q has no exclamation mark", prompt)
		}
	}

	if durFn, ok := methods["Duration"]; ok {
		d, ok := p.durationValue(returned(durFn))
		switch {
		case !ok:
			add(durFn.Pos(), registry.Warning, "duration is not a constant expression")
		case d <= 0:
			add(durFn.Pos(), registry.Error, "duration %v is not positive", d)
		default:
			g.Duration = d
			if !opts.Band.Contains(d) {
				add(durFn.Pos(), registry.Warning, "duration %v outside %v..%v", d, opts.Band.Min, opts.Band.Max)
			}
		}
	}

	if !p.resolve[name] {
		if _, ok := methods["WinsOnTimeout"]; !ok {
			add(pos, registry.Error, "%s never calls Win or Fail and does not win on timeout", name)
		}
	}

	if td, ok := methods["Teardown"]; ok && td.Body != nil && len(td.Body.List) == 0 {
		add(td.Pos(), registry.Warning, "Teardown is empty; embed microgame.Base instead")
	}

	p.checkRegistration(&g, pos, opts, add)
	return g
}

func (p *pkg) checkRegistration(g *Game, pos token.Pos, opts Options, add func(token.Pos, registry.Severity, string, ...any)) {
	var reg *registration
	for _, r := range p.regs {
		if !r.matched && g.Prompt != "" && r.prompt == g.Prompt {
			reg = r
			break
		}
	}
	// A package with one game and one registration pairs them up.
	if reg == nil && len(p.regs) == 1 && !p.regs[0].matched && p.gameCount() == 1 {
		reg = p.regs[0]
	}
	if reg == nil {
		add(pos, registry.Warning, "%s is never passed to registry.Register", g.Type)
		return
	}
	reg.matched = true
	g.Key = reg.key

	if reg.key == "" {
		add(reg.pos, registry.Error, "registration has no literal key")
	}
	if g.Prompt != "" && reg.prompt != g.Prompt {
		add(reg.pos, registry.Error, "descriptor prompt %q does not match Prompt() %q", reg.prompt, g.Prompt)
	}
	if reg.hasDur && g.Duration > 0 && reg.duration != g.Duration {
		add(reg.pos, registry.Error, "descriptor duration %v does not match Duration() %v", reg.duration, g.Duration)
	}

	if opts.Catalog == nil || reg.key == "" {
		return
	}
	live, ok := opts.Catalog.Describe(reg.key)
	if !ok {
		add(reg.pos, registry.Warning, "%q is not in the runtime catalog", reg.key)
		return
	}
	if reg.prompt != "" && live.Prompt != reg.prompt {
		add(reg.pos, registry.Error, "runtime catalog prompt %q differs from source %q", live.Prompt, reg.prompt)
	}
	if reg.hasDur && live.Duration != reg.duration {
		add(reg.pos, registry.Error, "runtime catalog duration %v differs from source %v", live.Duration, reg.duration)
	}
}

func (p *pkg) gameCount() int {
	n := 0
	for name := range p.types {
		if _, ok := p.methods[name]["Prompt"]; ok {
			n++
		}
	}
	return n
}
