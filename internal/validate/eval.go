package validate

import (
	"go/ast"
	"go/token"
	"math"
	"strconv"
	"time"
)

// maxDepth bounds constant lookups so cyclic declarations cannot loop.
const maxDepth = 8

var timeUnits = map[string]time.Duration{
	"Nanosecond":  time.Nanosecond,
	"Microsecond": time.Microsecond,
	"Millisecond": time.Millisecond,
	"Second":      time.Second,
	"Minute":      time.Minute,
	"Hour":        time.Hour,
}

func receiverType(fn *ast.FuncDecl) string {
	if fn.Recv == nil || len(fn.Recv.List) == 0 {
		return ""
	}
	expr := fn.Recv.List[0].Type
	for {
		switch t := expr.(type) {
		case *ast.StarExpr:
			expr = t.X
		case *ast.IndexExpr:
			expr = t.X
		case *ast.IndexListExpr:
			expr = t.X
		case *ast.Ident:
			return t.Name
		default:
			return ""
		}
	}
}

func isSelector(expr ast.Expr, pkg, name string) bool {
	sel, ok := expr.(*ast.SelectorExpr)
	if !ok || sel.Sel.Name != name {
		return false
	}
	id, ok := sel.X.(*ast.Ident)
	return ok && id.Name == pkg
}

// returned is the expression of a method whose body is a single return.
func returned(fn *ast.FuncDecl) ast.Expr {
	if fn == nil || fn.Body == nil || len(fn.Body.List) != 1 {
		return nil
	}
	ret, ok := fn.Body.List[0].(*ast.ReturnStmt)
	if !ok || len(ret.Results) != 1 {
		return nil
	}
	return ret.Results[0]
}

func (p *pkg) stringValue(expr ast.Expr, depth int) (string, bool) {
	if depth > maxDepth {
		return "", false
	}
	switch e := expr.(type) {
	case *ast.BasicLit:
		if e.Kind != token.STRING {
			return "", false
		}
		s, err := strconv.Unquote(e.Value)
		return s, err == nil
	case *ast.ParenExpr:
		return p.stringValue(e.X, depth+1)
	case *ast.Ident:
		v, ok := p.consts[e.Name]
		if !ok {
			return "", false
		}
		return p.stringValue(v, depth+1)
	case *ast.BinaryExpr:
		if e.Op != token.ADD {
			return "", false
		}
		a, ok := p.stringValue(e.X, depth+1)
		if !ok {
			return "", false
		}
		b, ok := p.stringValue(e.Y, depth+1)
		return a + b, ok
	}
	return "", false
}

func (p *pkg) durationValue(expr ast.Expr) (time.Duration, bool) {
	v, ok := p.number(expr, 0)
	if !ok || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return time.Duration(math.Round(v)), true
}

// number evaluates a constant numeric expression in nanoseconds when it
// involves time units.
func (p *pkg) number(expr ast.Expr, depth int) (float64, bool) {
	if depth > maxDepth {
		return 0, false
	}
	switch e := expr.(type) {
	case *ast.BasicLit:
		if e.Kind != token.INT && e.Kind != token.FLOAT {
			return 0, false
		}
		v, err := strconv.ParseFloat(e.Value, 64)
		if err != nil {
			n, ierr := strconv.ParseInt(e.Value, 0, 64)
			return float64(n), ierr == nil
		}
		return v, true
	case *ast.ParenExpr:
		return p.number(e.X, depth+1)
	case *ast.Ident:
		v, ok := p.consts[e.Name]
		if !ok {
			return 0, false
		}
		return p.number(v, depth+1)
	case *ast.SelectorExpr:
		id, ok := e.X.(*ast.Ident)
		if !ok || id.Name != "time" {
			return 0, false
		}
		unit, ok := timeUnits[e.Sel.Name]
		return float64(unit), ok
	case *ast.CallExpr:
		// time.Duration(x) conversions.
		if isSelector(e.Fun, "time", "Duration") && len(e.Args) == 1 {
			return p.number(e.Args[0], depth+1)
		}
		return 0, false
	case *ast.BinaryExpr:
		a, ok := p.number(e.X, depth+1)
		if !ok {
			return 0, false
		}
		b, ok := p.number(e.Y, depth+1)
		if !ok {
			return 0, false
		}
		switch e.Op {
		case token.MUL:
			return a * b, true
		case token.QUO:
			if b == 0 {
				return 0, false
			}
			return a / b, true
		case token.ADD:
			return a + b, true
		case token.SUB:
			return a - b, true
		}
	}
	return 0, false
}
