package parser

import (
	"sort"
	"strings"

	"github.com/emirpasic/gods/sets/treeset"
)

// An lr1Item is a dotted production with a lookahead set. Within a closed
// state two items never share a core (production and dot position); closure
// merges their lookaheads instead.
type lr1Item struct {
	prodID    int
	dot       int
	lookahead *treeset.Set // terminal names
}

func newLR1Item(prodID, dot int, lookahead ...string) *lr1Item {
	la := treeset.NewWithStringComparator()
	for _, s := range lookahead {
		la.Add(s)
	}
	return &lr1Item{prodID: prodID, dot: dot, lookahead: la}
}

// lookaheadEqual reports set equality of two lookahead sets
func lookaheadEqual(a, b *treeset.Set) bool {
	if a.Size() != b.Size() {
		return false
	}
	for _, v := range a.Values() {
		if !b.Contains(v) {
			return false
		}
	}
	return true
}

// render returns the items.txt form of the item: the dotted right-hand side
// followed by the lookahead set in braces
func (it *lr1Item) render(prods []Production) string {
	p := prods[it.prodID]

	var b strings.Builder
	b.WriteString("  " + p.Left + " -> ")
	for k, sym := range p.Right {
		if k == it.dot {
			b.WriteString(".")
		}
		b.WriteString(sym + " ")
	}
	if it.dot == len(p.Right) {
		b.WriteString(".")
	}
	b.WriteString(" , { ")
	for _, la := range setStrings(it.lookahead) {
		b.WriteString(la + " ")
	}
	b.WriteString("}")

	return b.String()
}

// state is a closed collection of LR(1) items, kept sorted by core for
// deterministic comparison and listing.
type state []*lr1Item

func (st state) sortItems() {
	sort.Slice(st, func(i, j int) bool {
		if st[i].prodID != st[j].prodID {
			return st[i].prodID < st[j].prodID
		}
		return st[i].dot < st[j].dot
	})
}

// equal is set equality of the contained items, lookaheads included. Both
// states are sorted and cores are unique, so index-wise comparison suffices.
func (st state) equal(other state) bool {
	if len(st) != len(other) {
		return false
	}
	for i := range st {
		a, b := st[i], other[i]
		if a.prodID != b.prodID || a.dot != b.dot || !lookaheadEqual(a.lookahead, b.lookahead) {
			return false
		}
	}
	return true
}
