package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/matzehuels/fpminer/pkg/cache"
	"github.com/matzehuels/fpminer/pkg/core/fpgrowth"
	"github.com/matzehuels/fpminer/pkg/observability"
)

// TreeResult is a rendered FP-tree.
type TreeResult struct {
	Data     []byte `json:"data"`
	Output   string `json:"output"`
	Items    int    `json:"items"`
	Nodes    int    `json:"nodes"`
	MinCount int    `json:"min_count"`

	RenderTime time.Duration `json:"-"`
	CacheHit   bool          `json:"-"`
}

// Tree builds the depth-0 FP-tree of in and renders it as DOT or SVG.
func (r *Runner) Tree(ctx context.Context, in Input, opts TreeOptions) (*TreeResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	key := r.Keyer.TreeKey(cache.Hash(in.Data), opts.TreeKeyOpts())
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var res TreeResult
			if err := json.Unmarshal(data, &res); err == nil {
				observability.Cache().OnCacheHit(ctx, "tree")
				res.CacheHit = true
				return &res, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "tree")
	}

	ds, _, err := Load(in, opts.DatasetOptions, r.Logger)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	minCount := fpgrowth.MinCount(opts.MinSupport, fpgrowth.TotalWeight(ds))
	tree := fpgrowth.BuildTree(ds, minCount)
	res := &TreeResult{
		Output:   opts.Output,
		Items:    tree.Items().Len(),
		Nodes:    tree.Len(),
		MinCount: minCount,
	}
	if res.Data, err = Render(ctx, tree, opts); err != nil {
		return nil, err
	}
	res.RenderTime = time.Since(start)

	r.Logger.Info("rendered tree",
		"items", res.Items,
		"nodes", res.Nodes,
		"min_count", minCount,
		"output", opts.Output,
		"duration", res.RenderTime)

	if data, err := json.Marshal(res); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLTree); err == nil {
			observability.Cache().OnCacheSet(ctx, "tree", len(data))
		}
	}
	return res, nil
}

// Render draws tree in the requested output format.
func Render(ctx context.Context, tree *fpgrowth.Tree, opts TreeOptions) ([]byte, error) {
	dot := tree.ToDOT(fpgrowth.DOTOptions{Siblings: opts.Siblings, MaxNodes: opts.MaxNodes})
	switch opts.Output {
	case OutputDOT:
		return []byte(dot), nil
	case OutputSVG, "":
		svg, err := fpgrowth.RenderSVG(ctx, dot)
		if err != nil {
			return nil, fmt.Errorf("render svg: %w", err)
		}
		return svg, nil
	default:
		return nil, ValidateOutput(opts.Output)
	}
}
