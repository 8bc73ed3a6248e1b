package fpgrowth

import (
	"slices"
	"strconv"
	"strings"
)

// Entry is one item of a FrequentItemSet together with the support of the set
// at the moment the item was added.
type Entry struct {
	Item    Item
	Support int
}

// FrequentItemSet is an ordered set of items and its support.
//
// Items appear in the order they were added during mining. The support of
// entry i is the support of the first i+1 items, so supports never increase
// along the set. A FrequentItemSet returned by the engine is never modified.
type FrequentItemSet struct {
	entries []Entry
}

// NewFrequentItemSet builds an itemset from entries. The slice is copied.
func NewFrequentItemSet(entries ...Entry) FrequentItemSet {
	return FrequentItemSet{entries: slices.Clone(entries)}
}

// Len returns the number of items in the set.
func (s FrequentItemSet) Len() int { return len(s.entries) }

// Support returns the support of the whole set, or 0 for the empty set.
func (s FrequentItemSet) Support() int {
	if len(s.entries) == 0 {
		return 0
	}
	return s.entries[len(s.entries)-1].Support
}

// Items returns the items in insertion order.
func (s FrequentItemSet) Items() []Item {
	out := make([]Item, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.Item
	}
	return out
}

// Entries returns a copy of the entries in insertion order.
func (s FrequentItemSet) Entries() []Entry {
	return slices.Clone(s.entries)
}

// Contains reports whether it is a member of the set.
func (s FrequentItemSet) Contains(it Item) bool {
	for _, e := range s.entries {
		if e.Item == it {
			return true
		}
	}
	return false
}

// Key returns a canonical string for the set of items, independent of the
// order they were added in. Two itemsets with the same members have equal keys.
func (s FrequentItemSet) Key() string {
	attrs := make([]int, len(s.entries))
	for i, e := range s.entries {
		attrs[i] = e.Item.Attr
	}
	slices.Sort(attrs)
	var b strings.Builder
	for i, a := range attrs {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(a))
	}
	return b.String()
}

// with returns a copy of s extended by e.
func (s FrequentItemSet) with(e Entry) FrequentItemSet {
	entries := make([]Entry, len(s.entries), len(s.entries)+1)
	copy(entries, s.entries)
	return FrequentItemSet{entries: append(entries, e)}
}
