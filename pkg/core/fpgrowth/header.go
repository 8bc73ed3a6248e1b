package fpgrowth

// Header indexes every occurrence of one item in a Tree.
//
// The sibling chain lists the item's nodes in the order they were created. The
// frequency stack holds the item's support at each mining depth; position 0 is
// the global support of the item within the tree.
type Header struct {
	rank int
	head NodeID
	tail NodeID
	size int
	freq FrequencyStack
}

// Rank returns the rank of the header's item in the owning ItemTable.
func (h *Header) Rank() int { return h.rank }

// Support returns the item's support at depth.
func (h *Header) Support(depth int) int { return h.freq.Get(depth) }

// Nodes returns the number of tree nodes in the sibling chain.
func (h *Header) Nodes() int { return h.size }

// Stack returns the header's frequency stack.
func (h *Header) Stack() *FrequencyStack { return &h.freq }

// HeaderTable maps item ranks to headers and remembers the order in which items
// were first inserted into the tree. Mining visits items in that order.
type HeaderTable struct {
	byRank []*Header
	order  []int
}

func newHeaderTable(items int) *HeaderTable {
	return &HeaderTable{byRank: make([]*Header, items)}
}

// Get returns the header of rank r, or nil if the item never occurred.
func (ht *HeaderTable) Get(r int) *Header {
	if r < 0 || r >= len(ht.byRank) {
		return nil
	}
	return ht.byRank[r]
}

// Order returns the item ranks in table order. The slice must not be modified.
func (ht *HeaderTable) Order() []int { return ht.order }

// Len returns the number of items that have at least one node.
func (ht *HeaderTable) Len() int { return len(ht.order) }

// link appends node id to the sibling chain of rank r, creating the header on
// first use.
func (ht *HeaderTable) link(t *Tree, r int, id NodeID) *Header {
	h := ht.byRank[r]
	if h == nil {
		h = &Header{rank: r, head: id, tail: id}
		ht.byRank[r] = h
		ht.order = append(ht.order, r)
	} else {
		t.nodes[h.tail].sibling = id
		h.tail = id
	}
	h.size++
	return h
}
