package fpgrowth

import (
	"context"
	"regexp"
	"slices"
	"time"

	errs "github.com/matzehuels/fpminer/pkg/errors"
)

// Defaults applied by NewEngine to zero-valued options.
const (
	DefaultMinSupport          = 0.1
	DefaultMinNumberOfItemsets = 1
	DefaultMaxNumberOfRetries  = 10

	// RelaxFactor scales the relative support between two attempts.
	RelaxFactor = 0.9
)

// Options configures an Engine.
type Options struct {
	// MinSupport is the minimum relative support in [0, 1].
	MinSupport float64

	// MaxItems caps the length of an itemset. Zero or negative means no cap.
	MaxItems int

	// MustContain selects mandatory items by attribute name. Every returned
	// itemset contains every item whose name matches. Nil disables the
	// constraint.
	MustContain *regexp.Regexp

	// FindMinNumberOfItemsets enables the adaptive loop: while fewer than
	// MinNumberOfItemsets itemsets are found, MinSupport is multiplied by
	// RelaxFactor and mining is repeated, at most MaxNumberOfRetries times in
	// total.
	FindMinNumberOfItemsets bool
	MinNumberOfItemsets     int
	MaxNumberOfRetries      int

	// Projection selects the conditional tree strategy. Empty means in place.
	Projection Projection

	// Progress, when set, is called at every checkpoint: once at the start of
	// each attempt and, in unconstrained mode, once per top-level header item.
	Progress func(Progress)
}

// Progress describes a mining checkpoint.
type Progress struct {
	Attempt    int     // 1-based attempt number
	MinSupport float64 // relative support of the attempt
	MinCount   int     // absolute support of the attempt
	Item       int     // index of the top-level header item, or -1 at attempt start
	Items      int     // number of top-level header items, or 0 at attempt start
}

// Attempt records one pass of the adaptive loop.
type Attempt struct {
	MinSupport float64
	MinCount   int
	Items      int // items that survived pruning
	Nodes      int // tree nodes, excluding the root
	ItemSets   int
	Abandoned  bool // a mandatory item was not frequent
	Duration   time.Duration
}

// Result is the outcome of Engine.Mine. The itemsets are those of the final
// attempt.
type Result struct {
	ItemSets   []FrequentItemSet
	Attempts   []Attempt
	MinSupport float64
	MinCount   int
	Rows       int // total row weight

	names []string
}

// Name returns the attribute name of it.
func (r *Result) Name(it Item) string {
	if it.Attr < 0 || it.Attr >= len(r.names) {
		return ""
	}
	return r.names[it.Attr]
}

// Names returns the attribute names of the items of s in insertion order.
func (r *Result) Names(s FrequentItemSet) []string {
	out := make([]string, 0, s.Len())
	for _, e := range s.entries {
		out = append(out, r.Name(e.Item))
	}
	return out
}

// Engine mines frequent itemsets with FP-Growth.
//
// An Engine holds only configuration; every call to Mine builds its own trees,
// so one Engine may serve concurrent calls on different datasets.
type Engine struct {
	opts Options
}

// NewEngine creates an engine, filling zero-valued options with defaults.
func NewEngine(opts Options) *Engine {
	if opts.MinNumberOfItemsets == 0 {
		opts.MinNumberOfItemsets = DefaultMinNumberOfItemsets
	}
	if opts.MaxNumberOfRetries == 0 {
		opts.MaxNumberOfRetries = DefaultMaxNumberOfRetries
	}
	if opts.Projection == "" {
		opts.Projection = ProjectInPlace
	}
	return &Engine{opts: opts}
}

// Options returns the engine's effective options.
func (e *Engine) Options() Options { return e.opts }

// Validate checks the engine's options.
func (e *Engine) Validate() error {
	if err := errs.ValidateSupport(e.opts.MinSupport); err != nil {
		return err
	}
	if e.opts.FindMinNumberOfItemsets {
		if err := errs.ValidateRetries(e.opts.MaxNumberOfRetries); err != nil {
			return err
		}
		if e.opts.MinNumberOfItemsets < 0 {
			return errs.New(errs.ErrCodeInvalidOption, "min_number_of_itemsets must not be negative, got %d", e.opts.MinNumberOfItemsets)
		}
	}
	switch e.opts.Projection {
	case ProjectInPlace, ProjectClone:
	default:
		return errs.New(errs.ErrCodeInvalidOption, "invalid projection: %q (must be one of: inplace, clone)", e.opts.Projection)
	}
	return nil
}

// Mine runs the adaptive loop over ds and returns the itemsets of the last
// attempt.
//
// A dataset without columns is an input error. A must-contain item that is not
// frequent, or a dataset where nothing is frequent, yields an empty result.
// Cancellation of ctx is observed at checkpoints only and returns ctx.Err()
// without a partial result.
func (e *Engine) Mine(ctx context.Context, ds Dataset) (*Result, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	if ds.NumColumns() == 0 {
		return nil, errs.New(errs.ErrCodeNoBinaryColumns, "dataset has no usable binary columns")
	}

	res := &Result{
		Rows:  TotalWeight(ds),
		names: make([]string, ds.NumColumns()),
	}
	for col := range res.names {
		res.names[col] = ds.ColumnName(col)
	}

	support := e.opts.MinSupport
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		minCount := MinCount(support, res.Rows)
		e.report(Progress{Attempt: attempt, MinSupport: support, MinCount: minCount, Item: -1})

		found, a, err := e.attempt(ctx, ds, attempt, support, minCount)
		if err != nil {
			return nil, err
		}
		res.Attempts = append(res.Attempts, a)
		res.ItemSets = found
		res.MinSupport = support
		res.MinCount = minCount

		if !e.retry(attempt, len(found)) {
			return res, nil
		}
		support *= RelaxFactor
	}
}

func (e *Engine) retry(attempt, found int) bool {
	return e.opts.FindMinNumberOfItemsets &&
		found < e.opts.MinNumberOfItemsets &&
		attempt < e.opts.MaxNumberOfRetries
}

func (e *Engine) report(p Progress) {
	if e.opts.Progress != nil {
		e.opts.Progress(p)
	}
}

// attempt builds a fresh tree at minCount and mines it once.
func (e *Engine) attempt(ctx context.Context, ds Dataset, attempt int, support float64, minCount int) ([]FrequentItemSet, Attempt, error) {
	start := time.Now()
	tree := BuildTree(ds, minCount)
	a := Attempt{
		MinSupport: support,
		MinCount:   minCount,
		Items:      tree.Items().Len(),
		Nodes:      tree.Len(),
	}

	m := newMiner(tree.Items(), minCount, e.opts.MaxItems)
	m.checkpoint = func(ctx context.Context, item, items int) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		e.report(Progress{Attempt: attempt, MinSupport: support, MinCount: minCount, Item: item, Items: items})
		return nil
	}
	c := newConditional(e.opts.Projection, tree)

	var err error
	if e.opts.MustContain == nil {
		err = m.mine(ctx, c, FrequentItemSet{})
	} else {
		mandatory, frequent := Mandatory(ds, tree, e.opts.MustContain)
		if len(mandatory) > 0 {
			m.top = -1
		}
		if frequent {
			frequent, err = m.constrain(ctx, c, mandatory, FrequentItemSet{})
		}
		a.Abandoned = !frequent
	}
	if err != nil {
		return nil, a, err
	}

	a.ItemSets = len(m.found)
	a.Duration = time.Since(start)
	return m.found, a, nil
}

// Mandatory returns the ranks of the items whose attribute name matches
// pattern, in header-table order. It reports false if a matching attribute was
// pruned from the tree, which means that attribute cannot reach the minimum
// support.
func Mandatory(ds Dataset, t *Tree, pattern *regexp.Regexp) ([]int, bool) {
	var ranks []int
	for col := 0; col < ds.NumColumns(); col++ {
		if !pattern.MatchString(ds.ColumnName(col)) {
			continue
		}
		r, ok := t.items.Rank(Item{Attr: col, Value: ds.PositiveValue(col)})
		if !ok || t.headers.Get(r) == nil {
			return nil, false
		}
		ranks = append(ranks, r)
	}

	pos := make(map[int]int, len(t.headers.order))
	for i, r := range t.headers.order {
		pos[r] = i
	}
	slices.SortFunc(ranks, func(a, b int) int { return pos[a] - pos[b] })
	return ranks, true
}
