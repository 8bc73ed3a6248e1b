package fpgrowth

import "context"

// miner enumerates the frequent itemsets of one attempt.
type miner struct {
	items    *ItemTable
	minCount int
	maxItems int

	// top is the depth whose header items are checkpoints. It is -1 in
	// constrained mode, where no per-item checkpoints are taken.
	top        int
	checkpoint func(ctx context.Context, item, items int) error

	inPrefix []bool
	found    []FrequentItemSet
}

func newMiner(items *ItemTable, minCount, maxItems int) *miner {
	return &miner{
		items:    items,
		minCount: minCount,
		maxItems: maxItems,
		inPrefix: make([]bool, items.Len()),
		checkpoint: func(ctx context.Context, _, _ int) error {
			return ctx.Err()
		},
	}
}

// mine grows prefix by every item that is frequent at the current level of c
// and recurses into the conditional level of each.
func (m *miner) mine(ctx context.Context, c conditional, prefix FrequentItemSet) error {
	depth := c.depth()
	if c.empty() {
		return nil
	}
	if m.maxItems > 0 && depth >= m.maxItems {
		return nil
	}

	order := c.order()
	for i, r := range order {
		if depth == m.top {
			if err := m.checkpoint(ctx, i, len(order)); err != nil {
				return err
			}
		}
		if m.inPrefix[r] {
			continue
		}
		support := c.support(r)
		if support < m.minCount {
			continue
		}

		child := prefix.with(Entry{Item: m.items.Item(r), Support: support})
		m.found = append(m.found, child)
		if m.maxItems > 0 && depth+1 >= m.maxItems {
			continue
		}

		c.project(r)
		m.inPrefix[r] = true
		err := m.mine(ctx, c, child)
		m.inPrefix[r] = false
		c.backtrack()
		if err != nil {
			return err
		}
	}
	return nil
}

// constrain forces the mandatory ranks into the prefix one at a time and then
// mines freely inside the transactions that contain all of them. It reports
// false when a mandatory item is not frequent, in which case nothing is found.
func (m *miner) constrain(ctx context.Context, c conditional, mandatory []int, prefix FrequentItemSet) (bool, error) {
	if len(mandatory) == 0 {
		if prefix.Len() > 0 && (m.maxItems <= 0 || prefix.Len() <= m.maxItems) {
			m.found = append(m.found, prefix)
		}
		return true, m.mine(ctx, c, prefix)
	}

	r := mandatory[0]
	support := c.support(r)
	if support < m.minCount {
		return false, nil
	}

	c.restrict(r)
	m.inPrefix[r] = true
	ok, err := m.constrain(ctx, c, mandatory[1:], prefix.with(Entry{Item: m.items.Item(r), Support: support}))
	m.inPrefix[r] = false
	c.backtrack()
	return ok, err
}
