package fpgrowth

import "slices"

// Projection selects how conditional pattern bases are materialized.
type Projection string

const (
	// ProjectInPlace reuses the single tree and simulates every conditional
	// tree through the depth-indexed frequency stacks.
	ProjectInPlace Projection = "inplace"

	// ProjectClone builds a fresh FP-tree for every conditional pattern base.
	// It allocates far more but shares no state between levels.
	ProjectClone Projection = "clone"
)

// conditional is the view of the current conditional pattern base that the
// miner works against. Every project or restrict is undone by exactly one
// backtrack, in reverse order.
type conditional interface {
	// depth returns the number of items projected or restricted so far.
	depth() int

	// empty reports whether no transaction contributes to the current level.
	empty() bool

	// order returns the item ranks to visit at the current level.
	order() []int

	// support returns the support of rank r at the current level.
	support(r int) int

	// project descends to the prefix paths of r.
	project(r int)

	// restrict descends to the whole transactions containing r.
	restrict(r int)

	// backtrack returns to the level before the last project or restrict.
	backtrack()
}

func newConditional(p Projection, t *Tree) conditional {
	if p == ProjectClone {
		return &cloning{items: t.items, trees: []*Tree{t}}
	}
	return &inPlace{t: t}
}

// =============================================================================
// In-place strategy
// =============================================================================

type step struct {
	rank     int
	restrict bool
}

type inPlace struct {
	t     *Tree
	d     int
	trail []step
}

func (p *inPlace) depth() int   { return p.d }
func (p *inPlace) empty() bool  { return p.t.emptyAt(p.d) }
func (p *inPlace) order() []int { return p.t.headers.order }

func (p *inPlace) support(r int) int {
	h := p.t.headers.Get(r)
	if h == nil {
		return 0
	}
	return h.freq.Get(p.d)
}

func (p *inPlace) project(r int) {
	p.t.projectAt(r, p.d)
	p.trail = append(p.trail, step{rank: r})
	p.d++
}

func (p *inPlace) restrict(r int) {
	p.t.restrictAt(r, p.d)
	p.trail = append(p.trail, step{rank: r, restrict: true})
	p.d++
}

func (p *inPlace) backtrack() {
	last := p.trail[len(p.trail)-1]
	p.trail = p.trail[:len(p.trail)-1]
	p.d--
	if last.restrict {
		p.t.unrestrictAt(last.rank, p.d)
	} else {
		p.t.backtrackAt(last.rank, p.d)
	}
}

// =============================================================================
// Cloning strategy
// =============================================================================

type cloning struct {
	items *ItemTable
	trees []*Tree
}

func (c *cloning) top() *Tree   { return c.trees[len(c.trees)-1] }
func (c *cloning) depth() int   { return len(c.trees) - 1 }
func (c *cloning) empty() bool  { return c.top().emptyAt(0) }
func (c *cloning) order() []int { return c.top().headers.order }

func (c *cloning) support(r int) int {
	h := c.top().headers.Get(r)
	if h == nil {
		return 0
	}
	return h.freq.Get(0)
}

func (c *cloning) project(r int) {
	src := c.top()
	dst := NewTree(c.items)
	var path []int
	for _, id := range src.Chain(r) {
		f := src.Count(id)
		if f <= 0 {
			continue
		}
		path = src.prefixPath(id, path)
		if len(path) > 0 {
			dst.Insert(path, f)
		}
	}
	c.trees = append(c.trees, dst)
}

func (c *cloning) restrict(r int) {
	src := c.top()
	dst := NewTree(c.items)
	var rest []int
	src.transactions(func(path []int, weight int) {
		i := slices.Index(path, r)
		if i < 0 {
			return
		}
		rest = append(append(rest[:0], path[:i]...), path[i+1:]...)
		if len(rest) > 0 {
			dst.Insert(rest, weight)
		}
	})
	c.trees = append(c.trees, dst)
}

func (c *cloning) backtrack() {
	c.trees = c.trees[:len(c.trees)-1]
}
