// Package fpgrowth mines frequent itemsets with the FP-Growth algorithm.
//
// # Overview
//
// Mining runs in three stages:
//
//  1. Count: [NewItemTable] scans the dataset once, counts the support of every
//     binary column and keeps the items that reach the minimum count. Items are
//     ranked by descending support, ties broken by column order.
//  2. Build: [BuildTree] inserts every row, restricted to the surviving items
//     and sorted by rank, into an FP-tree. Shared prefixes share nodes; every
//     node of an item is linked into that item's [Header].
//  3. Mine: the engine walks the header table recursively. For each frequent
//     item it records the grown itemset and descends into the item's
//     conditional pattern base.
//
// # Conditional levels in place
//
// Canonical FP-Growth builds a new conditional tree for every item at every
// level. By default this package reuses the one tree instead: every node and
// header owns a [FrequencyStack] indexed by mining depth. Projecting an item at
// depth d pushes the item's frequencies onto the paths above its nodes at
// depth d+1; backtracking pops them again. After a complete pass every stack is
// back at its length from before the pass.
//
// The same recursion can run against freshly cloned conditional trees by
// setting [Options.Projection] to [ProjectClone]. Both strategies produce the
// same itemsets with the same supports.
//
// # Constraints and retries
//
// [Options.MustContain] forces every item whose attribute name matches into
// each itemset. If one of them is not frequent the attempt yields nothing.
// With [Options.FindMinNumberOfItemsets] the engine relaxes the minimum
// support by [RelaxFactor] until enough itemsets are found or the attempts run
// out.
//
// # Concurrency
//
// A [Tree] is mutated while it is mined and must not be shared between
// goroutines. [Engine.Mine] builds its own trees, so an [Engine] can be used
// concurrently.
//
// # Example
//
//	ds, _ := dataset.FromTransactions([][]string{{"A", "B"}, {"A", "B", "C"}, {"B", "C"}, {"A", "C"}})
//	res, err := fpgrowth.NewEngine(fpgrowth.Options{MinSupport: 0.5}).Mine(ctx, ds)
//	if err != nil {
//	    return err
//	}
//	for _, s := range res.ItemSets {
//	    fmt.Println(res.Names(s), s.Support())
//	}
package fpgrowth
