package codegen

import (
	"fmt"

	"github.com/shkschneider/czar/internal/ctype"
)

var primitiveCNames = map[string]string{
	ctype.I8:   "int8_t",
	ctype.U8:   "uint8_t",
	ctype.I16:  "int16_t",
	ctype.U16:  "uint16_t",
	ctype.I32:  "int32_t",
	ctype.U32:  "uint32_t",
	ctype.I64:  "int64_t",
	ctype.U64:  "uint64_t",
	ctype.F32:  "float",
	ctype.F64:  "double",
	ctype.Bool: "bool",
	ctype.Char: "char",
}

// cType renders t as a C type, formatted around name (empty for an
// anonymous type). C's declarator syntax reads inside-out for pointers
// and arrays, so this can't be a simple string concatenation the way
// most of CZ's own type rendering is.
func cType(t ctype.Type, name string) string {
	switch ty := t.(type) {
	case nil:
		return joinDecl("void", name)
	case *ctype.Named:
		if c, ok := primitiveCNames[ty.Name]; ok {
			return joinDecl(c, name)
		}
		return joinDecl(ty.Name, name) // struct/enum typedef, same spelling in C
	case *ctype.Pointer:
		return cType(ty.Elem, "*"+name)
	case *ctype.Nullable:
		// nullable(T) lowers to T* for struct/enum refs (NULL is the
		// absent state) and to cz_optional_T for value types.
		if ctype.IsStructOrEnumRef(ty.Elem) || isPointerElem(ty.Elem) {
			return cType(ty.Elem, "*"+name)
		}
		return joinDecl(fmt.Sprintf("cz_optional_%s", baseName(ty.Elem)), name)
	case *ctype.Array:
		return cType(ty.Elem, fmt.Sprintf("%s[%d]", name, ty.Size))
	case *ctype.Slice:
		return joinDecl(fmt.Sprintf("cz_slice_%s", baseName(ty.Elem)), name)
	case *ctype.Varargs:
		return joinDecl(fmt.Sprintf("cz_slice_%s", baseName(ty.Elem)), name)
	case *ctype.Map:
		return joinDecl(fmt.Sprintf("cz_map_%s_%s", baseName(ty.Key), baseName(ty.Value)), name)
	case *ctype.Pair:
		return joinDecl(fmt.Sprintf("cz_pair_%s_%s", baseName(ty.Left), baseName(ty.Right)), name)
	case *ctype.StringT:
		return joinDecl("cz_string", name)
	case *ctype.Void:
		return joinDecl("void", name)
	case *ctype.Any:
		return joinDecl("cz_any", name)
	default:
		return joinDecl("void", name)
	}
}

func isPointerElem(t ctype.Type) bool {
	_, ok := t.(*ctype.Pointer)
	return ok
}

func joinDecl(base, name string) string {
	if name == "" {
		return base
	}
	if name[0] == '*' {
		return base + " " + name
	}
	return base + " " + name
}

// baseName renders t as an identifier-safe fragment for composite
// runtime type names (cz_slice_i32, cz_map_string_i32, ...).
func baseName(t ctype.Type) string {
	switch ty := t.(type) {
	case nil:
		return "void"
	case *ctype.Named:
		if c, ok := primitiveCNames[ty.Name]; ok {
			return c
		}
		return ty.Name
	case *ctype.Pointer:
		return baseName(ty.Elem) + "_ptr"
	case *ctype.StringT:
		return "string"
	case *ctype.Void:
		return "void"
	default:
		return "any"
	}
}
