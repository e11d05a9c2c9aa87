package lifetime

import (
	"fmt"

	"github.com/shkschneider/czar/internal/ast"
	"github.com/shkschneider/czar/internal/diagnostic"
)

// checkStackBudget estimates fn's worst-case C stack frame by summing
// every local declared anywhere in its body, including both arms of
// every branch — a deliberately conservative count, since CZar performs
// no liveness analysis of its own to narrow it.
func (a *Analyzer) checkStackBudget(fn *ast.Function) {
	total := 0
	for _, p := range fn.Params {
		total += a.sizeOf(p.Type)
	}
	total += a.blockSize(fn.Body)

	switch {
	case total >= errorThreshold:
		a.diags.Errorf(fn.Line(), diagnostic.StackOverflow,
			"function %q's estimated stack frame is %s, at or above the %s limit",
			fn.Name, formatBytes(total), formatBytes(errorThreshold))
	case total >= warnThreshold:
		a.diags.Warnf(fn.Line(), diagnostic.StackWarning,
			"function %q's estimated stack frame is %s, approaching the %s limit",
			fn.Name, formatBytes(total), formatBytes(warnThreshold))
	}
}

func (a *Analyzer) blockSize(b *ast.Block) int {
	total := 0
	for _, stmt := range b.Stmts {
		total += a.stmtSize(stmt)
	}
	return total
}

func (a *Analyzer) stmtSize(stmt ast.Stmt) int {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		t := s.Type
		if t == nil && s.Init != nil {
			t = s.Init.Type()
		}
		return a.sizeOf(t)
	case *ast.If:
		total := a.blockSize(s.Then)
		for _, ei := range s.ElseIfs {
			total += a.blockSize(ei.Body)
		}
		if s.Else != nil {
			total += a.blockSize(s.Else)
		}
		return total
	case *ast.While:
		return a.blockSize(s.Body)
	case *ast.ForIn:
		return a.blockSize(s.Body)
	case *ast.RepeatN:
		return a.blockSize(s.Body)
	default:
		return 0
	}
}

func formatBytes(n int) string {
	const ki = 1024
	if n >= ki*ki {
		return fmt.Sprintf("%.1f MiB", float64(n)/float64(ki*ki))
	}
	return fmt.Sprintf("%d B", n)
}
