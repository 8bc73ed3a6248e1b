package fpgrowth

import (
	"reflect"
	"slices"
	"strings"
	"testing"
)

func TestMinCount(t *testing.T) {
	tests := []struct {
		support float64
		total   int
		want    int
	}{
		{0.5, 4, 2},
		{0.3, 10, 3},
		{0.25, 10, 3},
		{1, 4, 4},
		{0, 4, 1},
		{0.5, 0, 1},
		{0.01, 50, 1},
	}
	for _, tt := range tests {
		if got := MinCount(tt.support, tt.total); got != tt.want {
			t.Errorf("MinCount(%v, %d) = %d, want %d", tt.support, tt.total, got, tt.want)
		}
	}
}

func TestItemTableRanks(t *testing.T) {
	// supports: x=1 y=3 z=3 w=2
	d := transactions("x y z", "y z w", "y z w")
	items := NewItemTable(d, 2)

	if items.Len() != 3 {
		t.Fatalf("Len() = %d, want 3 (x pruned)", items.Len())
	}
	var names []string
	for r := 0; r < items.Len(); r++ {
		names = append(names, items.Name(r))
	}
	if want := []string{"y", "z", "w"}; !slices.Equal(names, want) {
		t.Errorf("rank order = %v, want %v", names, want)
	}
	if items.Support(0) != 3 || items.Support(2) != 2 {
		t.Errorf("supports = %d, %d, want 3, 2", items.Support(0), items.Support(2))
	}
	if _, ok := items.Rank(Item{Attr: 0, Value: 1}); ok {
		t.Error("pruned item x should have no rank")
	}
	if r, ok := items.Rank(Item{Attr: 3, Value: 1}); !ok || r != 2 {
		t.Errorf("Rank(w) = %d, %v, want 2, true", r, ok)
	}
	if got := items.Row(d, 0, nil); !slices.Equal(got, []int{0, 1}) {
		t.Errorf("Row(0) = %v, want [0 1]", got)
	}
}

func TestItemTableWeights(t *testing.T) {
	d := transactions("a", "b", "b")
	d.weights = []int{5, 1, 1}

	items := NewItemTable(d, 1)
	if items.Name(0) != "a" || items.Support(0) != 5 {
		t.Errorf("rank 0 = %s:%d, want a:5", items.Name(0), items.Support(0))
	}
	if TotalWeight(d) != 7 {
		t.Errorf("TotalWeight() = %d, want 7", TotalWeight(d))
	}
}

func TestBuildTree(t *testing.T) {
	tree := BuildTree(abcd(), 2)

	// A-B, A-B-C, B-C, A-C share prefixes into six nodes.
	if tree.Len() != 6 {
		t.Errorf("Len() = %d, want 6", tree.Len())
	}
	if tree.Count(RootID) != 4 {
		t.Errorf("Count(root) = %d, want 4", tree.Count(RootID))
	}
	if got := tree.Headers().Order(); !slices.Equal(got, []int{0, 1, 2}) {
		t.Errorf("header order = %v, want [0 1 2]", got)
	}

	for r, want := range []struct{ nodes, support int }{{1, 3}, {2, 3}, {3, 3}} {
		h := tree.Headers().Get(r)
		if h.Nodes() != want.nodes || h.Support(0) != want.support {
			t.Errorf("header %s: nodes=%d support=%d, want %d, %d",
				tree.Items().Name(r), h.Nodes(), h.Support(0), want.nodes, want.support)
		}
		if got := len(tree.Chain(r)); got != want.nodes {
			t.Errorf("Chain(%s) has %d nodes, want %d", tree.Items().Name(r), got, want.nodes)
		}
	}

	kids := tree.Children(RootID)
	if len(kids) != 2 || tree.Rank(kids[0]) != 0 || tree.Rank(kids[1]) != 1 {
		t.Fatalf("root children ranks wrong: %v", kids)
	}
	if tree.Count(kids[0]) != 3 || tree.Count(kids[1]) != 1 {
		t.Errorf("root child counts = %d, %d, want 3, 1", tree.Count(kids[0]), tree.Count(kids[1]))
	}
	if tree.Parent(kids[0]) != RootID || tree.Parent(RootID) != RootID {
		t.Error("Parent() of a root child and of the root should be the root")
	}
}

func TestTreeInsertIgnoresNonPositiveWeight(t *testing.T) {
	tree := NewTree(NewItemTable(abcd(), 1))
	tree.Insert([]int{0, 1}, 0)
	tree.Insert([]int{0, 1}, -2)
	if tree.Len() != 0 {
		t.Errorf("Len() = %d, want 0", tree.Len())
	}
	if tree.Headers().Get(0) != nil {
		t.Error("no header should be created")
	}
}

func TestTreeTransactions(t *testing.T) {
	d := transactions("A B", "A B", "A", "B C")
	tree := BuildTree(d, 1)

	got := map[string]int{}
	total := 0
	tree.transactions(func(path []int, weight int) {
		var names []string
		for _, r := range path {
			names = append(names, tree.Items().Name(r))
		}
		got[strings.Join(names, " ")] = weight
		total += weight
	})

	want := map[string]int{"A B": 2, "A": 1, "B C": 1}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("transactions() = %v, want %v", got, want)
	}
	if total != d.NumRows() {
		t.Errorf("total weight = %d, want %d", total, d.NumRows())
	}
}

func TestProjectAndBacktrack(t *testing.T) {
	tree := BuildTree(abcd(), 2)
	before := snapshot(tree)

	// C occurs under A-B, B and A.
	c := 2
	tree.projectAt(c, 0)
	if got := tree.Headers().Get(0).Support(1); got != 2 {
		t.Errorf("A support at depth 1 = %d, want 2", got)
	}
	if got := tree.Headers().Get(1).Support(1); got != 2 {
		t.Errorf("B support at depth 1 = %d, want 2", got)
	}
	if got := tree.Headers().Get(c).Support(1); got != 0 {
		t.Errorf("C support at depth 1 = %d, want 0", got)
	}

	tree.backtrackAt(c, 0)
	if after := snapshot(tree); !reflect.DeepEqual(before, after) {
		t.Errorf("stacks not restored:\nbefore %v\nafter  %v", before, after)
	}
}

func TestRestrictKeepsWholeTransactions(t *testing.T) {
	tree := BuildTree(abcd(), 2)
	before := snapshot(tree)

	// Transactions with A: A-B, A-B-C, A-C.
	tree.restrictAt(0, 0)
	want := []int{3, 2, 2}
	for r, w := range want {
		if got := tree.Headers().Get(r).Support(1); got != w {
			t.Errorf("%s support after restrict = %d, want %d", tree.Items().Name(r), got, w)
		}
	}
	if tree.emptyAt(1) {
		t.Error("restricted level should not be empty")
	}

	tree.unrestrictAt(0, 0)
	if after := snapshot(tree); !reflect.DeepEqual(before, after) {
		t.Errorf("stacks not restored:\nbefore %v\nafter  %v", before, after)
	}
	if !tree.emptyAt(1) {
		t.Error("depth 1 should be empty after unrestrict")
	}
}
