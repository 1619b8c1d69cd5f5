// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package arb

import "sync"

// DepthContext is a counter shared by the arbitraries taking part in the same
// recursive structure. It biases size and branch decisions such that
// recursive structures terminate. Every increment is paired with a decrement
// on all exit paths, so the counter never leaks across calls.
type DepthContext struct {
	depth int
}

func NewDepthContext() *DepthContext {
	return &DepthContext{}
}

// Depth returns the current depth.
func (c *DepthContext) Depth() int {
	return c.depth
}

// Descend increases the depth by n and returns the function restoring it.
// Use it as
//
//	defer ctx.Descend(n)()
func (c *DepthContext) Descend(n int) func() {
	c.depth += n
	return func() {
		c.depth -= n
	}
}

// DepthRegistry hands out depth contexts by identifier. Arbitraries created
// with the context of the same identifier share their depth.
type DepthRegistry struct {
	mu       sync.Mutex
	contexts map[string]*DepthContext
}

func NewDepthRegistry() *DepthRegistry {
	return &DepthRegistry{contexts: map[string]*DepthContext{}}
}

// For returns the depth context registered for id, creating it on first use.
func (r *DepthRegistry) For(id string) *DepthContext {
	r.mu.Lock()
	defer r.mu.Unlock()
	ctx, found := r.contexts[id]
	if !found {
		ctx = NewDepthContext()
		r.contexts[id] = ctx
	}
	return ctx
}
