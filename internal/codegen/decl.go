package codegen

import (
	"fmt"
	"strings"

	"github.com/shkschneider/czar/internal/ast"
	"github.com/shkschneider/czar/internal/ctype"
)

func (p *Printer) printEnumTypedef(e *ast.Enum) {
	p.line("typedef enum {")
	p.indent++
	for i, v := range e.Values {
		suffix := ","
		if i == len(e.Values)-1 {
			suffix = ""
		}
		p.line("%s_%s%s", e.Name, v, suffix)
	}
	p.indent--
	p.line("} %s;", e.Name)
	p.blank()
}

func (p *Printer) printStructBody(s *ast.Struct) {
	p.line("struct %s {", s.Name)
	p.indent++
	for _, f := range s.Fields {
		p.line("%s;", cType(f.Type, f.Name))
	}
	p.indent--
	p.line("};")
	p.blank()
}

// functionSignature renders fn's C declarator: `retType name(params)`.
func (p *Printer) functionSignature(fn *ast.Function) string {
	var params []string
	if fn.Receiver != "" {
		recv := &ctype.Pointer{Elem: &ctype.Named{Name: fn.Receiver}}
		params = append(params, cType(recv, "self"))
	}
	for _, prm := range fn.Params {
		params = append(params, cType(prm.Type, prm.Name))
	}
	if len(params) == 0 {
		params = append(params, "void")
	}
	return fmt.Sprintf("%s %s(%s)", cType(fn.ReturnType, ""), fn.CName, strings.Join(params, ", "))
}

func (p *Printer) printFunction(fn *ast.Function) {
	if fn.Unsafe {
		p.line("%s {", p.functionSignature(fn))
		p.indent++
		p.raw(fn.RawC)
		if !strings.HasSuffix(fn.RawC, "\n") {
			p.blank()
		}
		p.indent--
		p.line("}")
		p.blank()
		return
	}

	p.lineFor(fn.Line(), "%s {", p.functionSignature(fn))
	p.indent++
	p.printBlock(fn.Body)
	p.indent--
	p.line("}")
	p.blank()
}
