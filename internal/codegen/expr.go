package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shkschneider/czar/internal/ast"
)

// expr renders an expression to a single C expression fragment. It
// never emits a trailing newline or semicolon; callers own statement
// termination.
func (p *Printer) expr(e ast.Expr) string {
	switch ex := e.(type) {
	case *ast.IntLit:
		return ex.Value
	case *ast.FloatLit:
		return ex.Value
	case *ast.StringLit:
		return fmt.Sprintf("cz_string_literal(%s, %d)", strconv.Quote(ex.Value), len(ex.Value))
	case *ast.BoolLit:
		if ex.Value {
			return "true"
		}
		return "false"
	case *ast.NullLit:
		return "NULL"
	case *ast.CharLit:
		return strconv.QuoteRune(ex.Value)
	case *ast.Ident:
		return ex.Name
	case *ast.FieldExpr:
		return p.expr(ex.Receiver) + "->" + ex.Name
	case *ast.IndexExpr:
		return fmt.Sprintf("%s.data[%s]", p.expr(ex.Receiver), p.expr(ex.Index))
	case *ast.SliceExpr:
		return p.sliceExpr(ex)
	case *ast.UnaryExpr:
		return p.unaryExpr(ex)
	case *ast.BinaryExpr:
		return fmt.Sprintf("(%s %s %s)", p.expr(ex.Left), ex.Op, p.expr(ex.Right))
	case *ast.CallExpr:
		return p.callExpr(ex)
	case *ast.StaticMethodCall:
		args := make([]string, len(ex.Args))
		for i, a := range ex.Args {
			args[i] = p.expr(a)
		}
		return fmt.Sprintf("%s_%s(%s)", ex.TypeName, ex.Method, strings.Join(args, ", "))
	case *ast.StructLit:
		return p.structLit(ex.TypeName, ex.Fields)
	case *ast.ArrayLit:
		elems := make([]string, len(ex.Elements))
		for i, el := range ex.Elements {
			elems[i] = p.expr(el)
		}
		return fmt.Sprintf("{%s}", strings.Join(elems, ", "))
	case *ast.MapLit:
		return p.mapLiteralCall("cz_map_new", ex.Entries)
	case *ast.PairLit:
		return fmt.Sprintf("cz_pair_make(%s, %s)", p.expr(ex.Left), p.expr(ex.Right))
	case *ast.NewHeap:
		return p.newHeap(ex.TypeName, ex.Fields)
	case *ast.NewArray:
		return p.newArray(ex)
	case *ast.NewMap:
		return p.mapLiteralCall("cz_map_new_heap", ex.Entries)
	case *ast.CastExpr:
		return fmt.Sprintf("(%s)(%s)", cType(ex.Target, ""), p.expr(ex.Value))
	case *ast.SafeCastExpr:
		return fmt.Sprintf("cz_safe_cast_%s(%s, %s)", baseName(ex.Target), p.expr(ex.Value), p.expr(ex.Fallback))
	case *ast.CloneExpr:
		return fmt.Sprintf("cz_clone(%s)", p.expr(ex.Value))
	case *ast.NullCheckExpr:
		return fmt.Sprintf("cz_null_check(%s)", p.expr(ex.Value))
	case *ast.IsCheckExpr:
		return fmt.Sprintf("cz_is_type(%s, %s)", p.expr(ex.Value), strconv.Quote(baseName(ex.Target)))
	case *ast.TypeOfExpr:
		return fmt.Sprintf("cz_typeof(%s)", p.expr(ex.Value))
	case *ast.SizeOfExpr:
		return fmt.Sprintf("sizeof(%s)", cType(ex.Target, ""))
	case *ast.DirectiveExpr:
		return p.directiveExpr(ex)
	case *ast.ImplicitCastExpr:
		return fmt.Sprintf("(%s)(%s)", cType(ex.Target, ""), p.expr(ex.Value))
	case *ast.MutArgExpr:
		return p.expr(ex.Value)
	default:
		return "/* unsupported expression */"
	}
}

func (p *Printer) unaryExpr(ex *ast.UnaryExpr) string {
	switch ex.Op {
	case "&":
		return "(&" + p.expr(ex.Operand) + ")"
	case "*":
		return "(*" + p.expr(ex.Operand) + ")"
	case "!":
		return "(!" + p.expr(ex.Operand) + ")"
	default: // "-"
		return "(-" + p.expr(ex.Operand) + ")"
	}
}

func (p *Printer) sliceExpr(ex *ast.SliceExpr) string {
	low := "0"
	if ex.Low != nil {
		low = p.expr(ex.Low)
	}
	high := fmt.Sprintf("%s.len", p.expr(ex.Receiver))
	if ex.High != nil {
		high = p.expr(ex.High)
	}
	return fmt.Sprintf("cz_slice_of(%s, %s, %s)", p.expr(ex.Receiver), low, high)
}

// callExpr lowers a call, including the receiver.method(args) sugar
// that the type checker leaves as Callee==*FieldExpr: it becomes a free
// function call with the receiver prepended as the first argument.
func (p *Printer) callExpr(ex *ast.CallExpr) string {
	args := make([]string, len(ex.Args))
	for i, a := range ex.Args {
		args[i] = p.expr(a)
	}
	if field, ok := ex.Callee.(*ast.FieldExpr); ok {
		recv := p.expr(field.Receiver)
		allArgs := append([]string{recv}, args...)
		return fmt.Sprintf("%s(%s)", field.Name, strings.Join(allArgs, ", "))
	}
	return fmt.Sprintf("%s(%s)", p.expr(ex.Callee), strings.Join(args, ", "))
}

func (p *Printer) structLit(typeName string, fields []ast.FieldInit) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = fmt.Sprintf(".%s = %s", f.Name, p.expr(f.Value))
	}
	return fmt.Sprintf("(%s){%s}", typeName, strings.Join(parts, ", "))
}

func (p *Printer) newHeap(typeName string, fields []ast.FieldInit) string {
	lit := p.structLit(typeName, fields)
	return fmt.Sprintf("cz_heap_alloc_%s(%s)", typeName, lit)
}

func (p *Printer) newArray(ex *ast.NewArray) string {
	elemType := ex.ElemType
	elems := make([]string, len(ex.Elements))
	for i, el := range ex.Elements {
		elems[i] = p.expr(el)
	}
	return fmt.Sprintf("cz_heap_alloc_array_%s((%s[]){%s}, %d)",
		baseName(elemType), cType(elemType, ""), strings.Join(elems, ", "), len(elems))
}

func (p *Printer) mapLiteralCall(ctor string, entries []ast.MapEntry) string {
	parts := make([]string, 0, len(entries)*2)
	for _, e := range entries {
		parts = append(parts, p.expr(e.Key), p.expr(e.Value))
	}
	return fmt.Sprintf("%s(%d, %s)", ctor, len(entries), strings.Join(parts, ", "))
}

func (p *Printer) directiveExpr(ex *ast.DirectiveExpr) string {
	switch ex.Name {
	case "FILE":
		return strconv.Quote(p.opts.SourceFile)
	case "LINE":
		return strconv.Itoa(ex.Line())
	case "FUNCTION":
		return "__func__"
	case "DEBUG":
		return "CZ_DEBUG"
	default:
		return "0"
	}
}
