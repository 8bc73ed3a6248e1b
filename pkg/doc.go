// Package pkg provides the libraries behind fpminer, a frequent itemset miner
// built on FP-Growth.
//
// # Overview
//
// fpminer reads tabular or basket datasets, turns every usable column into a
// binary item and mines all itemsets whose support reaches a threshold. The
// pkg directory is organized into three areas:
//
//  1. [core] - Domain logic (dataset loading, FP-tree, mining)
//  2. [infra] - Infrastructure (result cache, run reports, observability)
//  3. [pipeline] - Orchestration (load → binarize → mine → report)
//
// # Architecture
//
// The typical data flow through fpminer:
//
//	CSV / basket file
//	         ↓
//	    [core/dataset] package (parse + binarize)
//	         ↓
//	    [core/fpgrowth] package (FP-tree + mining + adaptive support)
//	         ↓
//	    [report] package (run report) and [cache] package (result cache)
//
// # Quick Start
//
// Mine a dataset in a few lines:
//
//	import (
//	    "github.com/matzehuels/fpminer/pkg/core/dataset"
//	    "github.com/matzehuels/fpminer/pkg/core/fpgrowth"
//	)
//
//	tbl, _ := dataset.ReadFile("groceries.csv", dataset.FormatCSV, dataset.CSVOptions{})
//	ds, _, _ := dataset.Binarize(tbl, "")
//
//	engine := fpgrowth.NewEngine(fpgrowth.Options{MinSupport: 0.05})
//	res, _ := engine.Mine(ctx, ds)
//	for _, set := range res.ItemSets {
//	    fmt.Println(res.Names(set), set.Support())
//	}
//
// # Main Packages
//
// ## Core Domain Logic
//
//   - [core/dataset]: CSV and basket readers, positive value resolution
//   - [core/fpgrowth]: FP-tree, conditional projection, mining engine, DOT/SVG
//
// ## Infrastructure
//
//   - [cache]: Result cache with file, Redis and null backends
//   - [report]: Run reports stored on disk or in MongoDB
//   - [observability]: Hooks for mining, cache and HTTP events
//   - [observability/metrics]: Prometheus implementation of the hooks
//   - [errors]: Error codes and input validation
//   - [buildinfo]: Version information set at build time
//
// ## Orchestration
//
//   - [pipeline]: Shared options, caching and report handling for the CLI
//     and the HTTP API
package pkg
