package parser

import (
	"github.com/emirpasic/gods/sets/treeset"
)

// epsilon marks the empty string inside FIRST sets.
const epsilon = "epsilon"

// endMarker is the end-of-input terminal.
const endMarker = "#"

// Production is one fixed rule of the while-language grammar.
type Production struct {
	ID    int
	Left  string
	Right []string
}

// The frozen grammar. Production 0 is the augmented start S' → B; the start
// symbol proper is B, a statement block. "i" stands for any identifier and
// "n" for any numeric literal.
var productions = []Production{
	{0, "S'", []string{"B"}},
	{1, "A", []string{"while", "(", "L", ")", "M", "{", "B", "}"}},
	{2, "L", []string{"L", "||", "M1"}},
	{3, "L", []string{"M1"}},
	{4, "M1", []string{"M1", "&&", "N"}},
	{5, "M1", []string{"N"}},
	{6, "N", []string{"!", "N"}},
	{7, "N", []string{"C"}},
	{8, "N", []string{"(", "L", ")"}},
	{9, "C", []string{"E", "ROP", "E"}},
	{10, "B", []string{"S", ";", "B"}},
	{11, "B", []string{"S", ";"}},
	{12, "B", []string{"A", "B"}},
	{13, "B", []string{"A"}},
	{14, "S", []string{"i", "=", "E"}},
	{15, "E", []string{"E", "+", "F"}},
	{16, "E", []string{"E", "-", "F"}},
	{17, "E", []string{"F"}},
	{18, "F", []string{"F", "*", "G"}},
	{19, "F", []string{"F", "/", "G"}},
	{20, "F", []string{"G"}},
	{21, "G", []string{"-", "G"}},
	{22, "G", []string{"i"}},
	{23, "G", []string{"n"}},
	{24, "G", []string{"(", "E", ")"}},
	{25, "ROP", []string{">"}},
	{26, "ROP", []string{"<"}},
	{27, "ROP", []string{"=="}},
	{28, "ROP", []string{">="}},
	{29, "ROP", []string{"<="}},
	{30, "ROP", []string{"!="}},
	{31, "G", []string{"i", "++"}},
	{32, "G", []string{"++", "i"}},
	{33, "G", []string{"i", "--"}},
	{34, "G", []string{"--", "i"}},
	{35, "S", []string{"G"}},
	{36, "S", []string{"break"}},
	{37, "S", []string{"continue"}},
	{38, "M", []string{}},
	{39, "S", []string{"int", "i"}},
	{40, "S", []string{"float", "i"}},
	{41, "S", []string{"int", "i", "=", "E"}},
	{42, "S", []string{"float", "i", "=", "E"}},
	{43, "G", []string{"true"}},
	{44, "G", []string{"false"}},
	{45, "N", []string{"G"}},
}

// grammar carries the production list together with the induced symbol sets
// and the FIRST sets. Sorted sets keep the table dumps deterministic.
type grammar struct {
	prods []Production
	vn    *treeset.Set            // nonterminals
	vt    *treeset.Set            // terminals, including "#"
	first map[string]*treeset.Set // FIRST per nonterminal, may contain epsilon
}

func newGrammar() *grammar {
	g := &grammar{
		prods: productions,
		vn:    treeset.NewWithStringComparator(),
		vt:    treeset.NewWithStringComparator(),
		first: map[string]*treeset.Set{},
	}

	for _, p := range g.prods {
		g.vn.Add(p.Left)
	}
	for _, p := range g.prods {
		for _, s := range p.Right {
			if !g.vn.Contains(s) {
				g.vt.Add(s)
			}
		}
	}
	g.vt.Add(endMarker)

	g.computeFirst()

	return g
}

func (g *grammar) isTerminal(sym string) bool {
	return g.vt.Contains(sym)
}

func (g *grammar) isNonterminal(sym string) bool {
	return g.vn.Contains(sym)
}

// computeFirst builds FIRST for every nonterminal by fixed-point iteration:
// terminals start a set, nonterminals contribute their FIRST minus epsilon,
// and epsilon survives only if the whole right-hand side is nullable.
func (g *grammar) computeFirst() {
	for _, p := range g.prods {
		if _, ok := g.first[p.Left]; !ok {
			g.first[p.Left] = treeset.NewWithStringComparator()
		}
	}

	changed := true
	for changed {
		changed = false
		for _, p := range g.prods {
			fs := g.first[p.Left]
			before := fs.Size()

			if len(p.Right) == 0 {
				fs.Add(epsilon)
			} else {
				allNullable := true
				for _, sym := range p.Right {
					if g.isTerminal(sym) {
						fs.Add(sym)
						allNullable = false
						break
					}
					nullable := false
					for _, v := range g.first[sym].Values() {
						name := v.(string)
						if name == epsilon {
							nullable = true
							continue
						}
						fs.Add(name)
					}
					if !nullable {
						allNullable = false
						break
					}
				}
				if allNullable {
					fs.Add(epsilon)
				}
			}

			if fs.Size() > before {
				changed = true
			}
		}
	}
}

// firstOf generalises FIRST to a string of grammar symbols
func (g *grammar) firstOf(symbols []string) *treeset.Set {
	res := treeset.NewWithStringComparator()
	for _, sym := range symbols {
		if g.isTerminal(sym) {
			res.Add(sym)
			return res
		}
		nullable := false
		if fs, ok := g.first[sym]; ok {
			for _, v := range fs.Values() {
				name := v.(string)
				if name == epsilon {
					nullable = true
					continue
				}
				res.Add(name)
			}
		}
		if !nullable {
			return res
		}
	}
	res.Add(epsilon)
	return res
}

// setStrings returns the sorted string members of a set
func setStrings(s *treeset.Set) []string {
	values := s.Values()
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, v.(string))
	}
	return out
}

// cloneSet returns an independent copy of a string set
func cloneSet(s *treeset.Set) *treeset.Set {
	out := treeset.NewWithStringComparator()
	out.Add(s.Values()...)
	return out
}
