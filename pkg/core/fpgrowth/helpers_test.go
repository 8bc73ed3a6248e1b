package fpgrowth

import (
	"context"
	"fmt"
	"math/bits"
	"math/rand/v2"
	"slices"
	"strconv"
	"strings"
	"testing"
)

// table is a minimal in-memory Dataset for tests.
type table struct {
	names   []string
	rows    [][]bool
	weights []int
}

func (d *table) NumRows() int                 { return len(d.rows) }
func (d *table) NumColumns() int              { return len(d.names) }
func (d *table) ColumnName(col int) string    { return d.names[col] }
func (d *table) PositiveValue(int) int        { return 1 }
func (d *table) IsPositive(row, col int) bool { return d.rows[row][col] }

func (d *table) Weight(row int) int {
	if d.weights == nil {
		return 1
	}
	return d.weights[row]
}

// transactions builds a table with one column per distinct item, in order of
// first appearance.
func transactions(txs ...string) *table {
	d := &table{}
	index := map[string]int{}
	var parsed [][]string
	for _, tx := range txs {
		items := strings.Fields(tx)
		parsed = append(parsed, items)
		for _, it := range items {
			if _, ok := index[it]; !ok {
				index[it] = len(d.names)
				d.names = append(d.names, it)
			}
		}
	}
	for _, items := range parsed {
		row := make([]bool, len(d.names))
		for _, it := range items {
			row[index[it]] = true
		}
		d.rows = append(d.rows, row)
	}
	return d
}

// abcd is a four-row dataset in which every pair is frequent at 0.5 but the
// triple is not.
func abcd() *table {
	return transactions("A B", "A B C", "B C", "A C")
}

func randomTable(rng *rand.Rand, maxRows, maxCols int, weighted bool) *table {
	rows := rng.IntN(maxRows) + 1
	cols := rng.IntN(maxCols) + 1
	density := 0.2 + rng.Float64()*0.6

	d := &table{names: make([]string, cols)}
	for c := range d.names {
		d.names[c] = "c" + strconv.Itoa(c)
	}
	for range rows {
		row := make([]bool, cols)
		for c := range row {
			row[c] = rng.Float64() < density
		}
		d.rows = append(d.rows, row)
	}
	if weighted {
		d.weights = make([]int, rows)
		for i := range d.weights {
			d.weights[i] = rng.IntN(3) + 1
		}
	}
	return d
}

// oracle enumerates every column subset and returns the supports of those that
// reach minCount, keyed like FrequentItemSet.Key.
func oracle(d *table, minCount, maxItems int, must []int) map[string]int {
	var mustMask uint
	for _, c := range must {
		mustMask |= 1 << c
	}

	out := map[string]int{}
	n := d.NumColumns()
	for mask := uint(1); mask < 1<<n; mask++ {
		if mask&mustMask != mustMask {
			continue
		}
		if maxItems > 0 && bits.OnesCount(mask) > maxItems {
			continue
		}
		support := 0
		for row := range d.rows {
			all := true
			for c := 0; c < n && all; c++ {
				if mask&(1<<c) != 0 && !d.rows[row][c] {
					all = false
				}
			}
			if all {
				support += d.Weight(row)
			}
		}
		if support < minCount {
			continue
		}
		var attrs []string
		for c := 0; c < n; c++ {
			if mask&(1<<c) != 0 {
				attrs = append(attrs, strconv.Itoa(c))
			}
		}
		out[strings.Join(attrs, ",")] = support
	}
	return out
}

// collect keys itemsets like oracle. It fails on duplicates and on entry
// supports that grow along a set.
func collect(t *testing.T, sets []FrequentItemSet) map[string]int {
	t.Helper()
	out := make(map[string]int, len(sets))
	for _, s := range sets {
		k := s.Key()
		if _, dup := out[k]; dup {
			t.Errorf("itemset %s reported twice", k)
		}
		out[k] = s.Support()

		entries := s.Entries()
		for i := 1; i < len(entries); i++ {
			if entries[i].Support > entries[i-1].Support {
				t.Errorf("itemset %s: entry supports increase: %v", k, entries)
				break
			}
		}
	}
	return out
}

func diff(got, want map[string]int) string {
	var b strings.Builder
	var keys []string
	for k := range want {
		keys = append(keys, k)
	}
	for k := range got {
		if _, ok := want[k]; !ok {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	for _, k := range keys {
		g, gok := got[k]
		w, wok := want[k]
		switch {
		case !gok:
			fmt.Fprintf(&b, "  missing {%s}: %d\n", k, w)
		case !wok:
			fmt.Fprintf(&b, "  unexpected {%s}: %d\n", k, g)
		case g != w:
			fmt.Fprintf(&b, "  {%s}: got %d, want %d\n", k, g, w)
		}
	}
	return b.String()
}

// snapshot copies every node and header stack of t.
func snapshot(t *Tree) [][]int {
	var out [][]int
	for id := range t.nodes {
		out = append(out, t.nodes[id].freq.Values())
	}
	for _, h := range t.headers.byRank {
		if h != nil {
			out = append(out, h.freq.Values())
		}
	}
	return out
}

func mineTree(t *testing.T, p Projection, tree *Tree, minCount, maxItems int) []FrequentItemSet {
	t.Helper()
	m := newMiner(tree.Items(), minCount, maxItems)
	if err := m.mine(context.Background(), newConditional(p, tree), FrequentItemSet{}); err != nil {
		t.Fatalf("mine() error: %v", err)
	}
	return m.found
}
