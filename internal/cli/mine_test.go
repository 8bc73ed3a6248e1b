package cli

import (
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/fpminer/pkg/core/fpgrowth"
	"github.com/matzehuels/fpminer/pkg/report"
)

func sampleSets() []report.ItemSet {
	return []report.ItemSet{
		{Items: []string{"bread", "milk"}, Supports: []int{3, 2}, Support: 2},
		{Items: []string{"milk"}, Supports: []int{3}, Support: 3},
		{Items: []string{"eggs"}, Supports: []int{2}, Support: 2},
		{Items: []string{"bread"}, Supports: []int{3}, Support: 3},
	}
}

func TestSortItemSets(t *testing.T) {
	sets := sampleSets()
	sorted := sortItemSets(sets)

	var got []string
	for _, s := range sorted {
		got = append(got, itemSetLabel(s))
	}
	want := []string{"{bread}", "{milk}", "{eggs}", "{bread, milk}"}
	if !slices.Equal(got, want) {
		t.Errorf("sortItemSets() = %v, want %v", got, want)
	}
	if itemSetLabel(sets[0]) != "{bread, milk}" {
		t.Error("sortItemSets() must not reorder its input")
	}
}

func TestItemSetLabelSortsNames(t *testing.T) {
	mined := report.ItemSet{Items: []string{"eggs", "bread"}, Supports: []int{2, 2}, Support: 2}
	if got := itemSetLabel(mined); got != "{bread, eggs}" {
		t.Errorf("itemSetLabel() = %q, want {bread, eggs}", got)
	}
	if mined.Items[0] != "eggs" {
		t.Error("itemSetLabel() must not reorder the itemset")
	}
}

func TestRenderItemSetTable(t *testing.T) {
	sets := sortItemSets(sampleSets())

	all := renderItemSetTable(sets, 4, 0)
	for _, want := range []string{"Itemset", "{bread, milk}", "75.0%", "50.0%"} {
		if !strings.Contains(all, want) {
			t.Errorf("table missing %q:\n%s", want, all)
		}
	}

	top := renderItemSetTable(sets, 4, 2)
	if strings.Contains(top, "{eggs}") || !strings.Contains(top, "{milk}") {
		t.Errorf("top 2 should hold bread and milk only:\n%s", top)
	}
}

func TestRelativeSupport(t *testing.T) {
	tests := []struct {
		support, rows int
		want          string
	}{
		{3, 4, "75.0%"},
		{1, 3, "33.3%"},
		{0, 0, "0.0%"},
	}
	for _, tt := range tests {
		if got := relativeSupport(tt.support, tt.rows); got != tt.want {
			t.Errorf("relativeSupport(%d, %d) = %q, want %q", tt.support, tt.rows, got, tt.want)
		}
	}
}

func TestProgressMessage(t *testing.T) {
	start := progressMessage(fpgrowth.Progress{Attempt: 2, MinSupport: 0.09, Item: -1, Items: 7})
	if start != "Attempt 2: mining at support 0.09..." {
		t.Errorf("progressMessage(start) = %q", start)
	}
	item := progressMessage(fpgrowth.Progress{Attempt: 1, MinSupport: 0.1, Item: 2, Items: 7})
	if item != "Attempt 1: item 3/7 at support 0.1..." {
		t.Errorf("progressMessage(item) = %q", item)
	}
}
