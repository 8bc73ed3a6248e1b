package fpgrowth

import (
	"math"
	"slices"
)

// Dataset is the binary view of a tabular dataset that the miner reads.
//
// Every column exposed by a Dataset is two-valued: a row either carries the
// column's positive value or it does not. Row weights are multiplicities; a raw
// transaction has weight 1.
type Dataset interface {
	NumRows() int
	NumColumns() int
	ColumnName(col int) string
	// PositiveValue returns the domain index of the column's positive value.
	PositiveValue(col int) int
	IsPositive(row, col int) bool
	Weight(row int) int
}

// Item is one attribute taking its positive value.
//
// Items are small comparable values and can be used as map keys.
type Item struct {
	Attr  int // column index in the source dataset
	Value int // domain index of the positive value
}

// ItemTable registers the items of one mining attempt.
//
// Items are stored by rank: rank 0 is the item with the highest global support.
// Ties are broken by column order, so ranks are deterministic for a given
// dataset. Only items that reached the minimum count are present.
type ItemTable struct {
	items   []Item
	names   []string
	support []int
	rank    map[Item]int
}

// NewItemTable scans ds once, counts the weighted support of every column, and
// keeps the items whose support is at least minCount.
func NewItemTable(ds Dataset, minCount int) *ItemTable {
	cols := ds.NumColumns()
	counts := make([]int, cols)
	for row := 0; row < ds.NumRows(); row++ {
		w := ds.Weight(row)
		for col := 0; col < cols; col++ {
			if ds.IsPositive(row, col) {
				counts[col] += w
			}
		}
	}

	kept := make([]int, 0, cols)
	for col, c := range counts {
		if c >= minCount && c > 0 {
			kept = append(kept, col)
		}
	}
	slices.SortStableFunc(kept, func(a, b int) int {
		return counts[b] - counts[a]
	})

	t := &ItemTable{
		items:   make([]Item, len(kept)),
		names:   make([]string, len(kept)),
		support: make([]int, len(kept)),
		rank:    make(map[Item]int, len(kept)),
	}
	for r, col := range kept {
		it := Item{Attr: col, Value: ds.PositiveValue(col)}
		t.items[r] = it
		t.names[r] = ds.ColumnName(col)
		t.support[r] = counts[col]
		t.rank[it] = r
	}
	return t
}

// Len returns the number of registered items.
func (t *ItemTable) Len() int { return len(t.items) }

// Item returns the item at rank r.
func (t *ItemTable) Item(r int) Item { return t.items[r] }

// Name returns the attribute name of the item at rank r.
func (t *ItemTable) Name(r int) string { return t.names[r] }

// Support returns the global support of the item at rank r.
func (t *ItemTable) Support(r int) int { return t.support[r] }

// Rank returns the rank of it, or false if it was pruned or never registered.
func (t *ItemTable) Rank(it Item) (int, bool) {
	r, ok := t.rank[it]
	return r, ok
}

// Row returns the ranks of the items present in row, most frequent first.
// The result reuses buf when it has enough capacity.
func (t *ItemTable) Row(ds Dataset, row int, buf []int) []int {
	buf = buf[:0]
	for r, it := range t.items {
		if ds.IsPositive(row, it.Attr) {
			buf = append(buf, r)
		}
	}
	return buf
}

// MinCount converts a relative support into the absolute row count a set must
// reach: ceil(minSupport * total). The count is never below 1 so that an item
// with no occurrences can never qualify.
func MinCount(minSupport float64, total int) int {
	n := int(math.Ceil(minSupport*float64(total) - 1e-9))
	if n < 1 {
		return 1
	}
	return n
}

// TotalWeight returns the sum of all row weights of ds.
func TotalWeight(ds Dataset) int {
	total := 0
	for row := 0; row < ds.NumRows(); row++ {
		total += ds.Weight(row)
	}
	return total
}
