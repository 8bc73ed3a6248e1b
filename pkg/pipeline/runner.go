package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/fpminer/pkg/cache"
	"github.com/matzehuels/fpminer/pkg/core/fpgrowth"
	"github.com/matzehuels/fpminer/pkg/observability"
	"github.com/matzehuels/fpminer/pkg/report"
)

// Runner encapsulates pipeline execution with caching and run reports.
// Both CLI and API use it so that they share cache keys and report handling.
//
// The Runner keeps no per-run state. Multiple goroutines can safely use the
// same Runner with different inputs and options.
type Runner struct {
	Cache   cache.Cache
	Keyer   cache.Keyer
	Reports report.Store
	Logger  *log.Logger
}

// NewRunner creates a runner.
// A nil keyer means DefaultKeyer, a nil cache disables caching and a nil store
// disables reports.
func NewRunner(c cache.Cache, keyer cache.Keyer, reports report.Store, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if reports == nil {
		reports = report.NewNullStore()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:   c,
		Keyer:   keyer,
		Reports: reports,
		Logger:  logger,
	}
}

// Execute mines in with caching and stores a run report.
//
// Invalid options and unusable datasets are returned before anything is mined.
// A report that cannot be saved fails the whole run. Cancellation of ctx is
// returned unwrapped.
func (r *Runner) Execute(ctx context.Context, in Input, opts Options) (res *Result, err error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := r.logger(opts)

	start := time.Now()
	observability.Mining().OnMineStart(ctx, in.Name)
	defer func() {
		n := 0
		if res != nil {
			n = len(res.ItemSets)
		}
		observability.Mining().OnMineComplete(ctx, in.Name, n, time.Since(start), err)
	}()

	hash := cache.Hash(in.Data)
	key := r.Keyer.ResultKey(hash, opts.ResultKeyOpts())

	if !opts.Refresh {
		if cached, ok := r.cachedResult(ctx, key); ok {
			logger.Info("using cached result", "itemsets", len(cached.ItemSets), "report", cached.ReportID)
			cached.CacheInfo = CacheInfo{Hit: true, Key: key}
			return cached, nil
		}
	}

	res, err = r.mine(ctx, in, hash, opts, logger)
	if err != nil {
		return nil, err
	}
	res.CacheInfo.Key = key

	rep := report.New(in.Name, hash)
	rep.Rows = res.Rows
	rep.Columns = len(res.Columns)
	rep.Dropped = res.Dropped
	rep.Settings = opts.Settings()
	rep.Attempts = res.Attempts
	rep.FinalMinSupport = res.MinSupport
	rep.FinalMinCount = res.MinCount
	rep.ItemSets = res.ItemSets
	rep.DurationMS = time.Since(start).Milliseconds()
	if err := r.Reports.Save(ctx, rep); err != nil {
		return nil, fmt.Errorf("save report: %w", err)
	}
	if _, disabled := r.Reports.(*report.NullStore); !disabled {
		res.ReportID = rep.ID
	}

	if data, err := json.Marshal(res); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLResult); err != nil {
			logger.Warn("cache write failed", "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "result", len(data))
		}
	}
	return res, nil
}

// mine loads the dataset and runs the engine.
func (r *Runner) mine(ctx context.Context, in Input, hash string, opts Options, logger *log.Logger) (*Result, error) {
	loadStart := time.Now()
	ds, dropped, err := Load(in, opts.DatasetOptions, logger)
	if err != nil {
		return nil, err
	}
	loadTime := time.Since(loadStart)
	logger.Info("loaded dataset",
		"input", in.Name,
		"rows", ds.NumRows(),
		"columns", ds.NumColumns(),
		"dropped", len(dropped),
		"duration", loadTime)

	engineOpts, err := opts.EngineOptions()
	if err != nil {
		return nil, err
	}
	progress := engineOpts.Progress
	engineOpts.Progress = func(p fpgrowth.Progress) {
		if p.Item < 0 {
			logger.Debug("mining attempt", "attempt", p.Attempt, "min_support", p.MinSupport, "min_count", p.MinCount)
		}
		if progress != nil {
			progress(p)
		}
	}

	mineStart := time.Now()
	out, err := fpgrowth.NewEngine(engineOpts).Mine(ctx, ds)
	if err != nil {
		return nil, err
	}

	res := &Result{
		DatasetHash: hash,
		Columns:     ds.ColumnNames(),
		Dropped:     dropped,
		ItemSets:    ItemSets(out),
		Attempts:    Attempts(out),
		MinSupport:  out.MinSupport,
		MinCount:    out.MinCount,
		Rows:        out.Rows,
		Stats: Stats{
			LoadTime: loadTime,
			MineTime: time.Since(mineStart),
		},
	}
	for i, a := range out.Attempts {
		observability.Mining().OnAttempt(ctx, i+1, a.MinSupport, a.ItemSets, a.Duration)
	}
	if n := len(out.Attempts); n > 0 {
		last := out.Attempts[n-1]
		res.Stats.Items = last.Items
		res.Stats.Nodes = last.Nodes
		if last.Abandoned {
			logger.Warn("mandatory items are not frequent", "must_contain", opts.MustContain, "min_support", last.MinSupport)
		}
	}

	logger.Info("mined itemsets",
		"count", len(res.ItemSets),
		"attempts", len(res.Attempts),
		"min_support", res.MinSupport,
		"min_count", res.MinCount,
		"duration", res.Stats.MineTime)
	return res, nil
}

// cachedResult looks up and decodes a cached result. Undecodable entries are
// treated as misses.
func (r *Runner) cachedResult(ctx context.Context, key string) (*Result, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, "result")
		return nil, false
	}
	var res Result
	if err := json.Unmarshal(data, &res); err != nil {
		observability.Cache().OnCacheMiss(ctx, "result")
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, "result")
	return &res, true
}

// Close releases resources held by the runner.
func (r *Runner) Close() error {
	var first error
	if r.Cache != nil {
		first = r.Cache.Close()
	}
	if r.Reports != nil {
		if err := r.Reports.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (r *Runner) logger(opts Options) *log.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return r.Logger
}

// ItemSets converts engine itemsets into their presentation form.
func ItemSets(res *fpgrowth.Result) []report.ItemSet {
	out := make([]report.ItemSet, 0, len(res.ItemSets))
	for _, s := range res.ItemSets {
		entries := s.Entries()
		supports := make([]int, len(entries))
		for i, e := range entries {
			supports[i] = e.Support
		}
		out = append(out, report.ItemSet{
			Items:    res.Names(s),
			Supports: supports,
			Support:  s.Support(),
		})
	}
	return out
}

// Attempts converts the engine's attempt log into its report form.
func Attempts(res *fpgrowth.Result) []report.Attempt {
	out := make([]report.Attempt, 0, len(res.Attempts))
	for _, a := range res.Attempts {
		out = append(out, report.Attempt{
			MinSupport: a.MinSupport,
			MinCount:   a.MinCount,
			Items:      a.Items,
			Nodes:      a.Nodes,
			ItemSets:   a.ItemSets,
			Abandoned:  a.Abandoned,
			DurationMS: a.Duration.Milliseconds(),
		})
	}
	return out
}
