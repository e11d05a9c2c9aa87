package ctype

import "testing"

func TestNamedEquals(t *testing.T) {
	a := &Named{Name: "u8"}
	b := &Named{Name: "u8"}
	c := &Named{Name: "f32"}

	if !a.Equals(b) {
		t.Errorf("expected u8 == u8")
	}
	if a.Equals(c) {
		t.Errorf("expected u8 != f32")
	}
}

func TestPointerAndNullableEquals(t *testing.T) {
	p1 := &Pointer{Elem: &Named{Name: "Foo"}}
	p2 := &Pointer{Elem: &Named{Name: "Foo"}}
	n := &Nullable{Elem: &Named{Name: "Foo"}}

	if !p1.Equals(p2) {
		t.Errorf("expected deep pointer equality")
	}
	if p1.Equals(n) {
		t.Errorf("pointer(Foo) must not equal nullable(Foo)")
	}
}

func TestArrayEqualsRequiresSameSize(t *testing.T) {
	a := &Array{Elem: &Named{Name: "i32"}, Size: 3}
	b := &Array{Elem: &Named{Name: "i32"}, Size: 4}
	if a.Equals(b) {
		t.Errorf("arrays with different sizes must not be equal")
	}
}

func TestPrimitiveWidths(t *testing.T) {
	cases := map[string]int{I8: 1, U8: 1, Bool: 1, Char: 1, I16: 2, I32: 4, F32: 4, I64: 8, F64: 8}
	for name, want := range cases {
		got, ok := PrimitiveWidth(name)
		if !ok || got != want {
			t.Errorf("PrimitiveWidth(%s) = %d, %v; want %d", name, got, ok, want)
		}
	}
}

func TestIsPointerLike(t *testing.T) {
	if !IsPointerLike(&Pointer{Elem: &Named{Name: "T"}}) {
		t.Errorf("pointer should be pointer-like")
	}
	if !IsPointerLike(&Nullable{Elem: &Named{Name: "T"}}) {
		t.Errorf("nullable should be pointer-like")
	}
	if IsPointerLike(&Slice{Elem: &Named{Name: "T"}}) {
		t.Errorf("slice should not be pointer-like")
	}
}

func TestNullTyped(t *testing.T) {
	n := NullTyped()
	nn, ok := n.(*Nullable)
	if !ok {
		t.Fatalf("expected *Nullable")
	}
	if _, ok := nn.Elem.(*Void); !ok {
		t.Fatalf("expected nullable(void)")
	}
}
