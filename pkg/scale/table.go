// Package scale holds the static utility-class lookup tables: spacing steps,
// the type scale, palette colours, font weights and display keywords.
//
// Tables are built once at package initialisation and never mutated.
// All access goes through the Lookup* functions.
package scale

// Entry is one key/token pair of a Table.
type Entry[K comparable] struct {
	Key   K
	Token string
}

// Table is an ordered, read-only mapping from a normalised key to a
// utility token.
type Table[K comparable] struct {
	entries []Entry[K]
	index   map[K]string
}

func newTable[K comparable](entries ...Entry[K]) *Table[K] {
	t := &Table[K]{
		entries: entries,
		index:   make(map[K]string, len(entries)),
	}
	for _, e := range entries {
		t.index[e.Key] = e.Token
	}
	return t
}

// Lookup returns the token for key. A miss is reported with ok == false.
func (t *Table[K]) Lookup(key K) (string, bool) {
	tok, ok := t.index[key]
	return tok, ok
}

// Entries returns a copy of the table in canonical order.
func (t *Table[K]) Entries() []Entry[K] {
	out := make([]Entry[K], len(t.entries))
	copy(out, t.entries)
	return out
}

// Len returns the number of entries.
func (t *Table[K]) Len() int {
	return len(t.entries)
}
