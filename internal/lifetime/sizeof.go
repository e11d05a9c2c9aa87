package lifetime

import "github.com/shkschneider/czar/internal/ctype"

const pointerSize = 8

// sizeOf estimates t's footprint on the C stack. Struct sizes were
// already resolved by internal/check and are read directly off the
// struct declaration rather than recomputed here.
func (a *Analyzer) sizeOf(t ctype.Type) int {
	switch ty := t.(type) {
	case nil:
		return 0
	case *ctype.Named:
		if w, ok := ctype.PrimitiveWidth(ty.Name); ok {
			return w
		}
		if _, ok := a.enums[ty.Name]; ok {
			return 4
		}
		if s, ok := a.structs[ty.Name]; ok {
			if s.ByteSize > 0 {
				return s.ByteSize
			}
		}
		return pointerSize
	case *ctype.Pointer:
		return pointerSize
	case *ctype.Nullable:
		return pointerSize
	case *ctype.Any:
		return pointerSize
	case *ctype.Array:
		return ty.Size * a.sizeOf(ty.Elem)
	case *ctype.Slice:
		return pointerSize * 2
	case *ctype.Varargs:
		return pointerSize * 2
	case *ctype.Map:
		return pointerSize
	case *ctype.Pair:
		return a.sizeOf(ty.Left) + a.sizeOf(ty.Right)
	case *ctype.StringT:
		return pointerSize * 2
	case *ctype.Void:
		return 0
	default:
		return pointerSize
	}
}
