// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package stream

import (
	"slices"
	"testing"
)

// naturals returns an infinite stream 0, 1, 2, ... and a counter of the
// number of elements actually produced.
func naturals() (*Stream[int], *int) {
	produced := 0
	return New(func() (int, bool) {
		produced++
		return produced - 1, true
	}), &produced
}

func TestStream_NilIsEmpty(t *testing.T) {
	if _, ok := Nil[int]().Next(); ok {
		t.Errorf("nil stream should be empty")
	}
}

func TestStream_OfProducesValuesInOrder(t *testing.T) {
	if want, got := []int{1, 2, 3}, Of(1, 2, 3).ToSlice(); !slices.Equal(want, got) {
		t.Errorf("unexpected elements, wanted %v, got %v", want, got)
	}
}

func TestStream_ExhaustedStreamStaysExhausted(t *testing.T) {
	calls := 0
	s := New(func() (int, bool) {
		calls++
		return calls, calls < 2
	})
	s.ToSlice()
	if _, ok := s.Next(); ok {
		t.Errorf("exhausted stream produced another element")
	}
	if want, got := 2, calls; want != got {
		t.Errorf("source pulled after exhaustion, wanted %d calls, got %d", want, got)
	}
}

func TestStream_MapAndFilterAreLazy(t *testing.T) {
	s, produced := naturals()
	res := Map(s.Filter(func(i int) bool { return i%2 == 0 }), func(i int) int { return i * 10 }).Take(3).ToSlice()
	if want, got := []int{0, 20, 40}, res; !slices.Equal(want, got) {
		t.Errorf("unexpected elements, wanted %v, got %v", want, got)
	}
	if want, got := 5, *produced; want != got {
		t.Errorf("stream computed too many elements, wanted %d, got %d", want, got)
	}
}

func TestStream_JoinOnlyBuildsLaterStreamsWhenNeeded(t *testing.T) {
	built := false
	s := Of(1, 2).Join(Lazy(func() *Stream[int] {
		built = true
		return Of(3)
	}))
	s.Next()
	s.Next()
	if built {
		t.Errorf("second stream built before the first one was exhausted")
	}
	if v, ok := s.Next(); !ok || v != 3 {
		t.Errorf("unexpected element, got %d, %t", v, ok)
	}
	if !built {
		t.Errorf("second stream should have been built")
	}
}

func TestStream_JoinConcatenatesInOrder(t *testing.T) {
	res := Nil[int]().Join(Of(1), Nil[int](), Of(2, 3)).ToSlice()
	if want, got := []int{1, 2, 3}, res; !slices.Equal(want, got) {
		t.Errorf("unexpected elements, wanted %v, got %v", want, got)
	}
}

func TestStream_DropSkipsElementsOnFirstPull(t *testing.T) {
	s, produced := naturals()
	dropped := s.Drop(3)
	if *produced != 0 {
		t.Errorf("drop should not pull before the first request")
	}
	if v, _ := dropped.Next(); v != 3 {
		t.Errorf("unexpected first element after drop, got %d", v)
	}
}

func TestStream_DropBeyondEndIsEmpty(t *testing.T) {
	if _, ok := Of(1, 2).Drop(5).Next(); ok {
		t.Errorf("dropping beyond the end should produce an empty stream")
	}
}

func TestStream_GetNthOrLast(t *testing.T) {
	tests := []struct {
		values []int
		n      int
		want   int
		found  bool
	}{
		{[]int{}, 0, 0, false},
		{[]int{4, 5, 6}, 0, 4, true},
		{[]int{4, 5, 6}, 2, 6, true},
		{[]int{4, 5, 6}, 10, 6, true},
	}
	for _, test := range tests {
		got, found := FromSlice(test.values).GetNthOrLast(test.n)
		if got != test.want || found != test.found {
			t.Errorf("GetNthOrLast(%v, %d) = %d, %t, wanted %d, %t", test.values, test.n, got, found, test.want, test.found)
		}
	}
}

func TestStream_EveryAndHasStopEarly(t *testing.T) {
	s, produced := naturals()
	if !s.Has(func(i int) bool { return i == 4 }) {
		t.Errorf("element 4 should be found")
	}
	if want, got := 5, *produced; want != got {
		t.Errorf("stream computed too many elements, wanted %d, got %d", want, got)
	}
	if Of(1, 2, 3).Every(func(i int) bool { return i < 3 }) {
		t.Errorf("not every element is smaller than 3")
	}
}

func TestStream_AllStopsWhenYieldReturnsFalse(t *testing.T) {
	s, _ := naturals()
	seen := []int{}
	s.All(func(i int) bool {
		seen = append(seen, i)
		return i < 2
	})
	if want, got := []int{0, 1, 2}, seen; !slices.Equal(want, got) {
		t.Errorf("unexpected elements, wanted %v, got %v", want, got)
	}
}
