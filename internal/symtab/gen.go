package symtab

// growable is the type-erased side of Table[T] that Gen needs: grow
// every registered table to the same length whenever a new id is
// minted, so the tables stay length-synchronized without Gen needing
// to know each table's payload type.
type growable interface {
	grow(n int)
}

// Gen is the shared, monotonic id counter a Compilation threads
// through every pass. Each of the three stage tables (AST info, K-form
// info, C-form info) registers itself with the same Gen so that
// NewID's single counter indexes all three in lockstep: minting an id
// appends an empty slot to every registered table at once.
type Gen struct {
	next   int
	tables []growable
}

func NewGen() *Gen { return &Gen{} }

// Register adds a table to the set grown by every future NewID call.
// Tables already containing entries when registered are grown to the
// generator's current length immediately, so registration order
// doesn't matter.
func Register[T Populated](g *Gen, t *Table[T]) {
	t.grow(g.next)
	g.tables = append(g.tables, t)
}

// NewID atomically appends a zero-value entry to every registered
// table and returns a fresh identifier.
func (g *Gen) NewID(kind Kind, prefix string) ID {
	id := ID{Kind: kind, Prefix: prefix, Num: g.next}
	g.next++
	for _, t := range g.tables {
		t.grow(g.next)
	}
	return id
}

// Len returns the number of ids minted so far.
func (g *Gen) Len() int { return g.next }

// Reset reinitializes the counter and detaches every previously registered
// table. Existing Table[T] values are left as-is (their owner, a new
// Compilation, will allocate fresh ones); Reset exists mainly so a
// Gen itself can be reused across compilations in tests without
// leaking registrations.
func (g *Gen) Reset() {
	g.next = 0
	g.tables = nil
}
