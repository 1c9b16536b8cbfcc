package symtab

// Populated is implemented by every per-stage info payload
// (ast.Info, kform.Info, cform.Info) so Table[T] can tell a real
// entry apart from an append-only slot nobody has filled in yet.
type Populated interface {
	IsPopulated() bool
}

// Table is one of the parallel, append-only, id-indexed symbol tables
// a compilation keeps — one per pipeline stage (AST info, K-form
// info, C-form info). Table[T] is one such slot, generic over the
// per-stage info payload; synchronization across the parallel tables
// is driven by Gen, which grows every registered Table in lockstep.
type Table[T Populated] struct {
	entries []T
	frozen  bool
}

func NewTable[T Populated]() *Table[T] { return &Table[T]{} }

// Set overwrites the entry for id. Panics if id is out of range —
// callers must always go through Gen.NewID first.
func (t *Table[T]) Set(id ID, info T) {
	t.entries[id.Num] = info
}

// Get returns the entry for id and whether it has been populated.
// Reading an empty entry is a compile error that needs a source
// location to report, so Get only reports presence — the caller
// decides how to turn absence into a diagnostic.
func (t *Table[T]) Get(id ID) (T, bool) {
	var zero T
	if id.Num < 0 || id.Num >= len(t.entries) {
		return zero, false
	}
	v := t.entries[id.Num]
	return v, v.IsPopulated()
}

// MustGet is Get without the presence flag, for callers that already
// know (e.g. from an invariant) that the slot is populated.
func (t *Table[T]) MustGet(id ID) T {
	v, _ := t.Get(id)
	return v
}

func (t *Table[T]) Len() int { return len(t.entries) }

// Freeze marks the table as done growing for its stage. Frozen is
// advisory bookkeeping; it does not prevent further Set calls, only
// documents stage boundaries for diagnostics/debugging.
func (t *Table[T]) Freeze()      { t.frozen = true }
func (t *Table[T]) Frozen() bool { return t.frozen }

func (t *Table[T]) grow(n int) {
	var zero T
	for len(t.entries) < n {
		t.entries = append(t.entries, zero)
	}
}
