// Package resolver implements first-match-wins resolver chains for the
// gateway's extension points: remote order-id generation and express
// shipping-method resolution.
package resolver

import (
	"context"
	"sort"
)

// Resolver produces a result for a subject, or reports that it has none.
// Returning ok=false passes the subject to the next resolver in the chain.
type Resolver[C, R any] interface {
	Resolve(ctx context.Context, subject C) (result R, ok bool, err error)
}

// Func adapts a plain function to a Resolver.
type Func[C, R any] func(ctx context.Context, subject C) (R, bool, error)

// Resolve implements Resolver.
func (f Func[C, R]) Resolve(ctx context.Context, subject C) (R, bool, error) {
	return f(ctx, subject)
}

type entry[C, R any] struct {
	resolver Resolver[C, R]
	priority int
	seq      int
}

// Chain queries registered resolvers in order and returns the first
// result. Resolvers with a higher priority run first; ties run in
// registration order. An exhausted chain is not an error: callers must
// treat ok=false as "no resolution".
type Chain[C, R any] struct {
	entries []entry[C, R]
	seq     int
}

// Register adds a resolver with the given priority weight.
func (c *Chain[C, R]) Register(priority int, r Resolver[C, R]) {
	c.entries = append(c.entries, entry[C, R]{resolver: r, priority: priority, seq: c.seq})
	c.seq++
	sort.SliceStable(c.entries, func(i, j int) bool {
		if c.entries[i].priority != c.entries[j].priority {
			return c.entries[i].priority > c.entries[j].priority
		}
		return c.entries[i].seq < c.entries[j].seq
	})
}

// RegisterFunc adds a function resolver with the given priority weight.
func (c *Chain[C, R]) RegisterFunc(priority int, f Func[C, R]) {
	c.Register(priority, f)
}

// Resolve runs the chain. The first resolver error aborts resolution.
func (c *Chain[C, R]) Resolve(ctx context.Context, subject C) (R, bool, error) {
	var zero R
	for _, e := range c.entries {
		result, ok, err := e.resolver.Resolve(ctx, subject)
		if err != nil {
			return zero, false, err
		}
		if ok {
			return result, true, nil
		}
	}
	return zero, false, nil
}

// Len returns the number of registered resolvers.
func (c *Chain[C, R]) Len() int {
	return len(c.entries)
}
