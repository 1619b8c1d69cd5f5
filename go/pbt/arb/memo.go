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

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultMemoDepth is the depth used by a MemoScope created without depth.
const DefaultMemoDepth = 10

const memoCacheSize = 64

// MemoScope carries the remaining depth shared by the memoized builders of a
// recursive structure. It is not safe for concurrent use while arbitraries
// are being built.
type MemoScope struct {
	remainingDepth int
}

func NewMemoScope() *MemoScope {
	return &MemoScope{remainingDepth: DefaultMemoDepth}
}

// RemainingDepth returns the depth a nested Get call would build for.
func (s *MemoScope) RemainingDepth() int {
	return s.remainingDepth
}

// Memo builds arbitraries for recursive structures bounded by a maximal
// depth. Arbitraries are built once per depth and cached.
type Memo[T any] struct {
	scope   *MemoScope
	builder func(maxDepth int) Arbitrary[T]
	cache   *lru.Cache[int, Arbitrary[T]]
}

// NewMemo creates a memoized builder. While builder runs for depth n, nested
// calls to Get on memos sharing the scope build for depth n-1.
func NewMemo[T any](scope *MemoScope, builder func(maxDepth int) Arbitrary[T]) *Memo[T] {
	cache, err := lru.New[int, Arbitrary[T]](memoCacheSize)
	if err != nil {
		panic(err)
	}
	return &Memo[T]{scope: scope, builder: builder, cache: cache}
}

// Get returns the arbitrary for the remaining depth of the scope.
func (m *Memo[T]) Get() Arbitrary[T] {
	return m.At(m.scope.remainingDepth)
}

// At returns the arbitrary for the given maximal depth.
func (m *Memo[T]) At(maxDepth int) Arbitrary[T] {
	if arb, found := m.cache.Get(maxDepth); found {
		return arb
	}
	previous := m.scope.remainingDepth
	m.scope.remainingDepth = maxDepth - 1
	defer func() { m.scope.remainingDepth = previous }()
	arb := m.builder(maxDepth)
	m.cache.Add(maxDepth, arb)
	return arb
}
