package fpgrowth

// FrequencyStack holds one counter per mining depth.
//
// Position 0 is filled during tree construction. Positions above 0 are pushed
// while a conditional level is being projected and popped again on backtrack, so
// a stack touched at depth d has exactly d+1 entries while that level is active.
//
// The zero value is an empty stack ready to use.
type FrequencyStack struct {
	vals []int
}

// Increase adds v at depth.
//
// If depth is the top index the top entry is incremented. If depth is one past
// the top a new entry with value v is pushed. Any other depth is ignored: a
// stack can only grow one level at a time.
func (s *FrequencyStack) Increase(depth, v int) {
	switch n := len(s.vals); {
	case depth == n-1:
		s.vals[n-1] += v
	case depth == n:
		s.vals = append(s.vals, v)
	}
}

// Get returns the counter at depth, or 0 if the stack was never pushed that far.
func (s *FrequencyStack) Get(depth int) int {
	n := len(s.vals)
	switch {
	case depth < 0 || depth >= n:
		return 0
	case depth == n-1:
		return s.vals[n-1]
	default:
		return s.vals[depth]
	}
}

// Pop removes the entry at depth.
//
// Popping the top shrinks the stack by one. Popping an interior entry erases it
// and shifts the entries above it down. Popping beyond the top is a no-op, which
// makes repeated pops of the same level along shared paths harmless.
func (s *FrequencyStack) Pop(depth int) {
	n := len(s.vals)
	switch {
	case depth < 0 || depth >= n:
		return
	case depth == n-1:
		s.vals = s.vals[:n-1]
	default:
		s.vals = append(s.vals[:depth], s.vals[depth+1:]...)
	}
}

// Len returns the number of entries on the stack.
func (s *FrequencyStack) Len() int {
	return len(s.vals)
}

// Values returns a copy of the stack contents, bottom first.
func (s *FrequencyStack) Values() []int {
	out := make([]int, len(s.vals))
	copy(out, s.vals)
	return out
}
