package fpgrowth_test

import (
	"context"
	"fmt"
	"regexp"

	"github.com/matzehuels/fpminer/pkg/core/dataset"
	"github.com/matzehuels/fpminer/pkg/core/fpgrowth"
)

func ExampleEngine_Mine() {
	ds, _ := dataset.FromTransactions([][]string{
		{"bread", "milk"},
		{"bread", "milk", "eggs"},
		{"milk", "eggs"},
		{"bread", "eggs"},
	})

	res, err := fpgrowth.NewEngine(fpgrowth.Options{MinSupport: 0.5}).Mine(context.Background(), ds)
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, s := range res.ItemSets {
		fmt.Println(res.Names(s), s.Support())
	}
	// Output:
	// [bread] 3
	// [milk] 3
	// [milk bread] 2
	// [eggs] 3
	// [eggs bread] 2
	// [eggs milk] 2
}

func ExampleOptions_mustContain() {
	ds, _ := dataset.FromTransactions([][]string{
		{"bread", "milk"},
		{"bread", "milk", "eggs"},
		{"milk", "eggs"},
		{"bread", "eggs"},
	})

	opts := fpgrowth.Options{
		MinSupport:  0.5,
		MustContain: regexp.MustCompile("^eggs$"),
	}
	res, _ := fpgrowth.NewEngine(opts).Mine(context.Background(), ds)
	for _, s := range res.ItemSets {
		fmt.Println(res.Names(s), s.Support())
	}
	// Output:
	// [eggs] 3
	// [eggs bread] 2
	// [eggs milk] 2
}

func ExampleEngine_Mine_adaptive() {
	ds, _ := dataset.FromTransactions([][]string{
		{"a", "b"}, {"a", "c"}, {"b", "c"}, {"a", "b", "c"},
	})

	opts := fpgrowth.Options{
		MinSupport:              1,
		FindMinNumberOfItemsets: true,
		MinNumberOfItemsets:     3,
	}
	res, _ := fpgrowth.NewEngine(opts).Mine(context.Background(), ds)
	fmt.Println("attempts:", len(res.Attempts))
	fmt.Println("itemsets:", len(res.ItemSets))
	fmt.Printf("support: %.3f\n", res.MinSupport)
	// Output:
	// attempts: 4
	// itemsets: 3
	// support: 0.729
}

func ExampleMinCount() {
	fmt.Println(fpgrowth.MinCount(0.5, 4))
	fmt.Println(fpgrowth.MinCount(0.3, 10))
	fmt.Println(fpgrowth.MinCount(0, 10))
	// Output:
	// 2
	// 3
	// 1
}
