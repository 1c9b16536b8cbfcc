package symtab

import "testing"

type stubInfo struct{ populated bool }

func (s stubInfo) IsPopulated() bool { return s.populated }

func TestNewIDGrowsEveryRegisteredTableInLockstep(t *testing.T) {
	g := NewGen()
	a := NewTable[stubInfo]()
	b := NewTable[stubInfo]()
	Register(g, a)
	Register(g, b)

	id := g.NewID(KindVal, "x")
	if a.Len() != 1 || b.Len() != 1 {
		t.Fatalf("expected both registered tables to grow to length 1, got a=%d b=%d", a.Len(), b.Len())
	}

	g.NewID(KindTemp, "t")
	if a.Len() != 2 || b.Len() != 2 {
		t.Fatalf("expected both tables to grow again, got a=%d b=%d", a.Len(), b.Len())
	}

	if _, ok := a.Get(id); ok {
		t.Fatalf("expected a fresh slot to read back as unpopulated")
	}
	a.Set(id, stubInfo{populated: true})
	if v, ok := a.Get(id); !ok || !v.populated {
		t.Fatalf("expected Set then Get to round-trip the populated entry")
	}
}

func TestRegisterGrowsLateComerToCurrentLength(t *testing.T) {
	g := NewGen()
	first := NewTable[stubInfo]()
	Register(g, first)
	g.NewID(KindVal, "a")
	g.NewID(KindVal, "b")

	late := NewTable[stubInfo]()
	Register(g, late)
	if late.Len() != first.Len() {
		t.Fatalf("expected late-registered table to catch up to length %d, got %d", first.Len(), late.Len())
	}
}

func TestIDKeyIgnoresPrefix(t *testing.T) {
	a := ID{Kind: KindVal, Prefix: "x", Num: 3}
	b := ID{Kind: KindVal, Prefix: "y", Num: 3}
	if a.Key() != b.Key() {
		t.Fatalf("expected two ids with the same Kind/Num but different Prefix to share a Key")
	}
	if a == b {
		t.Fatalf("expected ID equality (struct ==) to still distinguish differing Prefix, only Key() should ignore it")
	}
}

func TestNoneID(t *testing.T) {
	if !NONE.IsNone() {
		t.Fatalf("expected the zero ID to report IsNone")
	}
	if (ID{Kind: KindVal, Num: 0}).IsNone() {
		t.Fatalf("did not expect a real KindVal id with Num 0 to be treated as none")
	}
}

func TestGenResetDetachesTables(t *testing.T) {
	g := NewGen()
	tbl := NewTable[stubInfo]()
	Register(g, tbl)
	g.NewID(KindVal, "x")
	g.Reset()
	if g.Len() != 0 {
		t.Fatalf("expected Reset to zero the counter")
	}
	g.NewID(KindVal, "y")
	if tbl.Len() != 1 {
		t.Fatalf("expected a detached table to stop growing after Reset, got len=%d", tbl.Len())
	}
}
