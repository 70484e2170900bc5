package datum

import "testing"

func TestIntegerFloatEquality(t *testing.T) {
	i := Integer{Val: 2}
	f := Float{Val: 2.0}
	if !i.Equal(f) || !f.Equal(i) {
		t.Error("integer and float with same numeric value should be equal")
	}
}

func TestListCopyOnWrite(t *testing.T) {
	l := NewList([]Value{Integer{Val: 1}, Integer{Val: 2}})
	l2 := l.Set(1, Integer{Val: 99})
	if l.Get(1).(Integer).Val != 1 {
		t.Error("original list mutated by Set")
	}
	if l2.Get(1).(Integer).Val != 99 {
		t.Error("new list missing update")
	}
}

func TestListOutOfRangeIsVoid(t *testing.T) {
	l := EmptyList()
	if _, ok := l.Get(5).(Void); !ok {
		t.Error("out-of-range list index should yield Void")
	}
}

func TestPropListCountAndIlk(t *testing.T) {
	p := EmptyPropList()
	if p.Len() != 0 {
		t.Errorf("expected empty prop list, got len %d", p.Len())
	}
	p = p.Set("a", Integer{Val: 1}).Set("b", Integer{Val: 2})
	if p.Len() != 2 {
		t.Errorf("expected 2 entries, got %d", p.Len())
	}
	if _, ok := p.Get("c"); ok {
		t.Error("absent key should not be found")
	}
}

func TestSymbolInterningCaseInsensitive(t *testing.T) {
	tbl := NewSymbolTable()
	a := tbl.Intern("MouseDown")
	b := tbl.Intern("mousedown")
	if !a.Equal(b) {
		t.Error("case-insensitive names should intern to the same symbol")
	}
	if a.Name() != "MouseDown" {
		t.Errorf("expected original spelling preserved, got %q", a.Name())
	}
}

func TestToNumberStringCoercion(t *testing.T) {
	v, ok := ToNumber(String{Val: "40"})
	if !ok {
		t.Fatal("expected numeric string to coerce")
	}
	if v.(Integer).Val != 40 {
		t.Errorf("got %v, want 40", v)
	}

	if _, ok := ToNumber(VOID); ok {
		t.Error("Void should not coerce to a number")
	}
}

func TestTruthiness(t *testing.T) {
	cases := []struct {
		v    Value
		want bool
	}{
		{Integer{Val: 0}, false},
		{Integer{Val: 1}, true},
		{String{Val: ""}, false},
		{String{Val: "x"}, true},
		{EmptyList(), false},
		{NewList([]Value{Integer{Val: 1}}), true},
		{VOID, false},
	}
	for _, c := range cases {
		if c.v.Truthy() != c.want {
			t.Errorf("%v.Truthy() = %v, want %v", c.v, c.v.Truthy(), c.want)
		}
	}
}
