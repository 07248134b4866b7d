package parser

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/emirpasic/gods/sets/treeset"
)

type actionKind int

const (
	actionError actionKind = iota
	actionShift
	actionReduce
	actionAccept
)

// action is the tagged value stored in the ACTION table; a missing entry
// signals a syntax error at lookup time.
type action struct {
	kind   actionKind
	target int
}

// String renders the action in table.csv notation: S<n>, r<n> or acc
func (a action) String() string {
	switch a.kind {
	case actionShift:
		return "S" + strconv.Itoa(a.target)
	case actionReduce:
		return "r" + strconv.Itoa(a.target)
	case actionAccept:
		return "acc"
	}
	return ""
}

// closure repeatedly predicts productions behind the dot: for every item
// [A → α·Bβ, a] and production B → γ it adds [B → ·γ, FIRST(βa)], merging
// lookaheads into an existing item with the same core, until nothing grows.
func (p *Parser) closure(items state) state {
	changed := true
	for changed {
		changed = false
		for i := 0; i < len(items); i++ {
			cur := items[i]
			prod := p.g.prods[cur.prodID]
			if cur.dot >= len(prod.Right) {
				continue
			}
			b := prod.Right[cur.dot]
			if !p.g.isNonterminal(b) {
				continue
			}

			beta := prod.Right[cur.dot+1:]
			next := treeset.NewWithStringComparator()
			for _, la := range setStrings(cur.lookahead) {
				betaLa := append(append([]string{}, beta...), la)
				for _, s := range setStrings(p.g.firstOf(betaLa)) {
					if s != epsilon {
						next.Add(s)
					}
				}
			}

			for _, cand := range p.g.prods {
				if cand.Left != b {
					continue
				}
				var existing *lr1Item
				for _, it := range items {
					if it.prodID == cand.ID && it.dot == 0 {
						existing = it
						break
					}
				}
				if existing == nil {
					items = append(items, &lr1Item{prodID: cand.ID, dot: 0, lookahead: cloneSet(next)})
					changed = true
				} else {
					before := existing.lookahead.Size()
					existing.lookahead.Add(next.Values()...)
					if existing.lookahead.Size() > before {
						changed = true
					}
				}
			}
		}
	}

	return items
}

// gotoState advances the dot over sym in every item that carries it, then
// closes the result
func (p *Parser) gotoState(st state, sym string) state {
	next := state{}
	for _, it := range st {
		prod := p.g.prods[it.prodID]
		if it.dot < len(prod.Right) && prod.Right[it.dot] == sym {
			next = append(next, &lr1Item{prodID: it.prodID, dot: it.dot + 1, lookahead: cloneSet(it.lookahead)})
		}
	}

	return p.closure(next)
}

// buildTables enumerates the canonical LR(1) states from the closure of
// [S' → ·B, #] and fills the ACTION and GOTO tables. State identity is set
// equality of items, lookaheads included; ids follow discovery order.
func (p *Parser) buildTables() {
	i0 := p.closure(state{newLR1Item(0, 0, endMarker)})
	i0.sortItems()
	p.states = []state{i0}

	for i := 0; i < len(p.states); i++ {
		symbols := treeset.NewWithStringComparator()
		for _, it := range p.states[i] {
			prod := p.g.prods[it.prodID]
			if it.dot < len(prod.Right) {
				symbols.Add(prod.Right[it.dot])
			}
		}

		for _, v := range symbols.Values() {
			sym := v.(string)
			next := p.gotoState(p.states[i], sym)
			next.sortItems()

			nextID := -1
			for k := range p.states {
				if p.states[k].equal(next) {
					nextID = k
					break
				}
			}
			if nextID == -1 {
				p.states = append(p.states, next)
				nextID = len(p.states) - 1
			}

			if p.g.isTerminal(sym) {
				p.setAction(i, sym, action{kind: actionShift, target: nextID})
			} else {
				if p.gotoTable[i] == nil {
					p.gotoTable[i] = map[string]int{}
				}
				p.gotoTable[i][sym] = nextID
			}
		}

		for _, it := range p.states[i] {
			prod := p.g.prods[it.prodID]
			if it.dot != len(prod.Right) {
				continue
			}
			for _, la := range setStrings(it.lookahead) {
				act := action{kind: actionReduce, target: it.prodID}
				if it.prodID == 0 {
					act = action{kind: actionAccept}
				}
				p.setAction(i, la, act)
			}
		}
	}
}

// setAction fills an ACTION cell. The grammar is expected to be conflict
// free; a collision is logged and resolved deterministically: last write
// wins, accept over reduce.
func (p *Parser) setAction(stateID int, terminal string, act action) {
	if p.actionTable[stateID] == nil {
		p.actionTable[stateID] = map[string]action{}
	}
	if prev, ok := p.actionTable[stateID][terminal]; ok && prev != act {
		if prev.kind == actionAccept && act.kind == actionReduce {
			log.Warn("ACTION conflict", "state", stateID, "terminal", terminal, "kept", prev.String(), "dropped", act.String())
			return
		}
		log.Warn("ACTION conflict", "state", stateID, "terminal", terminal, "kept", act.String(), "dropped", prev.String())
	}
	p.actionTable[stateID][terminal] = act
}

// SaveItems writes the human-readable listing of every state and its items
func (p *Parser) SaveItems(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var b strings.Builder
	b.WriteString("LR(1) 项目集合\n")
	for i, st := range p.states {
		fmt.Fprintf(&b, "I%d:\n", i)
		for _, it := range st {
			b.WriteString(it.render(p.g.prods) + "\n")
		}
		b.WriteString("\n")
	}

	_, err = f.WriteString(b.String())
	return err
}

// SaveTableCSV writes the ACTION and GOTO tables as one CSV: a header row
// of terminals then nonterminals (S' excluded), one row per state with
// S<n>/r<n>/acc cells, blanks for absent actions and plain integers for
// GOTO targets.
func (p *Parser) SaveTableCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	terminals := setStrings(p.g.vt)
	nonterminals := make([]string, 0, p.g.vn.Size())
	for _, n := range setStrings(p.g.vn) {
		if n != "S'" {
			nonterminals = append(nonterminals, n)
		}
	}

	w := csv.NewWriter(f)
	defer w.Flush()

	header := append(append([]string{"State"}, terminals...), nonterminals...)
	if err := w.Write(header); err != nil {
		return err
	}

	for i := range p.states {
		row := []string{strconv.Itoa(i)}
		for _, t := range terminals {
			row = append(row, p.actionTable[i][t].String())
		}
		for _, n := range nonterminals {
			if to, ok := p.gotoTable[i][n]; ok {
				row = append(row, strconv.Itoa(to))
			} else {
				row = append(row, "")
			}
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

// LoadTableCSV reads a table.csv back into its logical ACTION and GOTO
// mappings. Cell syntax decides the table: S<n> shifts, r<n> reduces, acc
// accepts, a plain integer is a GOTO target.
func LoadTableCSV(path string) (map[int]map[string]action, map[int]map[string]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("empty table file: %s", path)
	}

	header := records[0]
	actions := map[int]map[string]action{}
	gotos := map[int]map[string]int{}

	for _, row := range records[1:] {
		stateID, err := strconv.Atoi(row[0])
		if err != nil {
			return nil, nil, fmt.Errorf("bad state id %q: %w", row[0], err)
		}
		actions[stateID] = map[string]action{}
		gotos[stateID] = map[string]int{}

		for j := 1; j < len(row) && j < len(header); j++ {
			cell := row[j]
			if cell == "" {
				continue
			}
			sym := header[j]
			switch {
			case cell == "acc":
				actions[stateID][sym] = action{kind: actionAccept}
			case cell[0] == 'S':
				n, err := strconv.Atoi(cell[1:])
				if err != nil {
					return nil, nil, fmt.Errorf("bad shift cell %q: %w", cell, err)
				}
				actions[stateID][sym] = action{kind: actionShift, target: n}
			case cell[0] == 'r':
				n, err := strconv.Atoi(cell[1:])
				if err != nil {
					return nil, nil, fmt.Errorf("bad reduce cell %q: %w", cell, err)
				}
				actions[stateID][sym] = action{kind: actionReduce, target: n}
			default:
				n, err := strconv.Atoi(cell)
				if err != nil {
					return nil, nil, fmt.Errorf("bad goto cell %q: %w", cell, err)
				}
				gotos[stateID][sym] = n
			}
		}
	}

	return actions, gotos, nil
}
