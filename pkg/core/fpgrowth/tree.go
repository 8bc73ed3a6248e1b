package fpgrowth

import "slices"

// NodeID addresses a node in a Tree. Nodes live in a single arena slice and all
// links between them are indices into that slice.
type NodeID int32

const (
	// RootID is the virtual root of every tree. It carries no item.
	RootID NodeID = 0

	noNode NodeID = -1
)

type node struct {
	rank     int // -1 for the root
	parent   NodeID
	sibling  NodeID
	children map[int]NodeID
	freq     FrequencyStack
}

// Tree is an FP-tree: a prefix tree over rank-sorted transactions plus the
// header table indexing every node of each item.
//
// Construction only writes depth 0 of the frequency stacks. Mining pushes and
// pops the higher depths in place, so a Tree is not safe for concurrent use and
// must be mined by at most one goroutine at a time.
type Tree struct {
	items   *ItemTable
	headers *HeaderTable
	nodes   []node
}

// NewTree creates an empty tree over the given items.
func NewTree(items *ItemTable) *Tree {
	return &Tree{
		items:   items,
		headers: newHeaderTable(items.Len()),
		nodes:   []node{{rank: -1, parent: noNode, sibling: noNode}},
	}
}

// BuildTree counts item supports in ds, prunes items below minCount, and
// inserts every row restricted to the surviving items.
func BuildTree(ds Dataset, minCount int) *Tree {
	items := NewItemTable(ds, minCount)
	t := NewTree(items)
	var buf []int
	for row := 0; row < ds.NumRows(); row++ {
		buf = items.Row(ds, row, buf)
		if len(buf) > 0 {
			t.Insert(buf, ds.Weight(row))
		}
	}
	return t
}

// Insert adds one transaction with the given multiplicity.
//
// ranks must be sorted ascending, which is most frequent first. Missing
// children are created and linked into their item's sibling chain.
func (t *Tree) Insert(ranks []int, weight int) {
	if weight <= 0 {
		return
	}
	cur := RootID
	for _, r := range ranks {
		child, ok := t.nodes[cur].children[r]
		var h *Header
		if ok {
			h = t.headers.byRank[r]
		} else {
			child = t.newNode(r, cur)
			h = t.headers.link(t, r, child)
		}
		t.nodes[child].freq.Increase(0, weight)
		h.freq.Increase(0, weight)
		cur = child
	}
}

func (t *Tree) newNode(r int, parent NodeID) NodeID {
	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, node{rank: r, parent: parent, sibling: noNode})
	if t.nodes[parent].children == nil {
		t.nodes[parent].children = make(map[int]NodeID)
	}
	t.nodes[parent].children[r] = id
	return id
}

// Items returns the item table the tree was built over.
func (t *Tree) Items() *ItemTable { return t.items }

// Headers returns the tree's header table.
func (t *Tree) Headers() *HeaderTable { return t.headers }

// Len returns the number of item nodes, excluding the root.
func (t *Tree) Len() int { return len(t.nodes) - 1 }

// Rank returns the item rank of node id, or -1 for the root.
func (t *Tree) Rank(id NodeID) int { return t.nodes[id].rank }

// Parent returns the parent of id. The root has no parent and returns RootID.
func (t *Tree) Parent(id NodeID) NodeID {
	if id == RootID {
		return RootID
	}
	return t.nodes[id].parent
}

// Count returns the number of transactions passing through id.
func (t *Tree) Count(id NodeID) int {
	if id == RootID {
		n := 0
		for _, c := range t.nodes[RootID].children {
			n += t.nodes[c].freq.Get(0)
		}
		return n
	}
	return t.nodes[id].freq.Get(0)
}

// Stack returns the frequency stack of node id.
func (t *Tree) Stack(id NodeID) *FrequencyStack { return &t.nodes[id].freq }

// Children returns the children of id ordered by item rank.
func (t *Tree) Children(id NodeID) []NodeID {
	kids := make([]NodeID, 0, len(t.nodes[id].children))
	for _, c := range t.nodes[id].children {
		kids = append(kids, c)
	}
	slices.SortFunc(kids, func(a, b NodeID) int {
		return t.nodes[a].rank - t.nodes[b].rank
	})
	return kids
}

// Chain returns the sibling chain of rank r in creation order.
func (t *Tree) Chain(r int) []NodeID {
	h := t.headers.Get(r)
	if h == nil {
		return nil
	}
	out := make([]NodeID, 0, h.size)
	for id := h.head; id != noNode; id = t.nodes[id].sibling {
		out = append(out, id)
	}
	return out
}

// =============================================================================
// In-place conditional levels
// =============================================================================

// emptyAt reports whether no transaction contributes at depth.
func (t *Tree) emptyAt(depth int) bool {
	for _, c := range t.nodes[RootID].children {
		if t.nodes[c].freq.Get(depth) > 0 {
			return false
		}
	}
	return true
}

// bump increases node id and its item's header at depth.
func (t *Tree) bump(id NodeID, depth, v int) {
	n := &t.nodes[id]
	n.freq.Increase(depth, v)
	t.headers.byRank[n.rank].freq.Increase(depth, v)
}

// drop pops depth from node id and its item's header.
func (t *Tree) drop(id NodeID, depth int) {
	n := &t.nodes[id]
	n.freq.Pop(depth)
	t.headers.byRank[n.rank].freq.Pop(depth)
}

// projectAt builds the conditional level depth+1 for rank r: the prefix paths
// above every r node carry that node's frequency at depth.
func (t *Tree) projectAt(r, depth int) {
	h := t.headers.byRank[r]
	for id := h.head; id != noNode; id = t.nodes[id].sibling {
		f := t.nodes[id].freq.Get(depth)
		if f <= 0 {
			continue
		}
		for a := t.nodes[id].parent; a != RootID; a = t.nodes[a].parent {
			t.bump(a, depth+1, f)
		}
	}
}

// backtrackAt undoes projectAt(r, depth).
func (t *Tree) backtrackAt(r, depth int) {
	h := t.headers.byRank[r]
	for id := h.head; id != noNode; id = t.nodes[id].sibling {
		if t.nodes[id].freq.Get(depth) <= 0 {
			continue
		}
		for a := t.nodes[id].parent; a != RootID; a = t.nodes[a].parent {
			t.drop(a, depth+1)
		}
	}
}

// restrictAt builds level depth+1 from the whole transactions that contain r:
// the r nodes themselves, the paths above them, and every subtree below them
// keep their depth frequencies.
func (t *Tree) restrictAt(r, depth int) {
	h := t.headers.byRank[r]
	for id := h.head; id != noNode; id = t.nodes[id].sibling {
		f := t.nodes[id].freq.Get(depth)
		if f <= 0 {
			continue
		}
		t.bump(id, depth+1, f)
		for a := t.nodes[id].parent; a != RootID; a = t.nodes[a].parent {
			t.bump(a, depth+1, f)
		}
		t.restrictBelow(id, depth)
	}
}

func (t *Tree) restrictBelow(id NodeID, depth int) {
	for _, c := range t.nodes[id].children {
		f := t.nodes[c].freq.Get(depth)
		if f <= 0 {
			continue
		}
		t.bump(c, depth+1, f)
		t.restrictBelow(c, depth)
	}
}

// unrestrictAt undoes restrictAt(r, depth).
func (t *Tree) unrestrictAt(r, depth int) {
	h := t.headers.byRank[r]
	for id := h.head; id != noNode; id = t.nodes[id].sibling {
		if t.nodes[id].freq.Get(depth) <= 0 {
			continue
		}
		t.drop(id, depth+1)
		for a := t.nodes[id].parent; a != RootID; a = t.nodes[a].parent {
			t.drop(a, depth+1)
		}
		t.unrestrictBelow(id, depth)
	}
}

func (t *Tree) unrestrictBelow(id NodeID, depth int) {
	for _, c := range t.nodes[id].children {
		if t.nodes[c].freq.Get(depth) <= 0 {
			continue
		}
		t.drop(c, depth+1)
		t.unrestrictBelow(c, depth)
	}
}

// =============================================================================
// Path helpers used by the cloning strategy
// =============================================================================

// prefixPath appends the ranks above id, root first, to buf.
func (t *Tree) prefixPath(id NodeID, buf []int) []int {
	buf = buf[:0]
	for a := t.nodes[id].parent; a != RootID; a = t.nodes[a].parent {
		buf = append(buf, t.nodes[a].rank)
	}
	slices.Reverse(buf)
	return buf
}

// transactions calls fn once per distinct root path that ends a transaction,
// with the number of transactions ending there. path is reused between calls.
func (t *Tree) transactions(fn func(path []int, weight int)) {
	var path []int
	var walk func(id NodeID)
	walk = func(id NodeID) {
		n := &t.nodes[id]
		end := n.freq.Get(0)
		for _, c := range n.children {
			end -= t.nodes[c].freq.Get(0)
		}
		path = append(path, n.rank)
		if end > 0 {
			fn(path, end)
		}
		for _, c := range t.Children(id) {
			walk(c)
		}
		path = path[:len(path)-1]
	}
	for _, c := range t.Children(RootID) {
		walk(c)
	}
}
