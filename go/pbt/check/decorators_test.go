// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package check

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Fantom-foundation/pbt/go/pbt/arb"
	"github.com/Fantom-foundation/pbt/go/pbt/random"
)

func TestTimeout_SyncPropertiesAreNotWrapped(t *testing.T) {
	p := ForAll(arb.Must(arb.Integer(0, 10)), func(int) error { return nil })
	if got := Timeout(p, time.Millisecond); got != p {
		t.Errorf("sync property should be returned unchanged")
	}
}

func TestTimeout_FastPredicatesPass(t *testing.T) {
	p := Timeout(ForAllAsync(arb.Must(arb.Integer(0, 10)), func(context.Context, int) error { return nil }), time.Second)
	if out := p.Run(context.Background(), 1); out != nil {
		t.Errorf("unexpected failure: %v", out)
	}
}

func TestTimeout_PredicateContextIsCancelled(t *testing.T) {
	cancelled := make(chan struct{})
	p := Timeout(ForAllAsync(arb.Must(arb.Integer(0, 10)), func(ctx context.Context, _ int) error {
		<-ctx.Done()
		close(cancelled)
		return ctx.Err()
	}), 5*time.Millisecond)
	out := p.Run(context.Background(), 1)
	var failure *Failure
	if !errors.As(out, &failure) {
		t.Fatalf("expected a failure, got %v", out)
	}
	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Errorf("predicate context was not cancelled")
	}
}

func TestUnbiased_DisablesBias(t *testing.T) {
	var biasFactors []int
	a := biasRecordingArbitrary{arb.Must(arb.Integer(0, 10)), &biasFactors}
	p := Unbiased(ForAll[int](a, func(int) error { return nil }))
	p.Generate(random.New(1), 0)
	p.Generate(random.New(1), 500)
	for _, bias := range biasFactors {
		if bias != 0 {
			t.Errorf("unbiased property generated with bias %d", bias)
		}
	}
}

type biasRecordingArbitrary struct {
	arb.Arbitrary[int]
	biasFactors *[]int
}

func (b biasRecordingArbitrary) Generate(rnd *random.Random, biasFactor int) *arb.Value[int] {
	*b.biasFactors = append(*b.biasFactors, biasFactor)
	return b.Arbitrary.Generate(rnd, biasFactor)
}

func TestSkipAfter_SkipsOnceDeadlinePassed(t *testing.T) {
	start := time.Unix(0, 0)
	current := start
	now := func() time.Time { return current }
	for _, interrupt := range []bool{false, true} {
		current = start
		p := skipAfter(ForAll(arb.Must(arb.Integer(0, 10)), func(int) error { return nil }), now, time.Second, interrupt)
		if out := p.Run(context.Background(), 1); out != nil {
			t.Errorf("unexpected outcome before deadline: %v", out)
		}
		current = start.Add(time.Second)
		var precondition *PreconditionFailure
		if !errors.As(p.Run(context.Background(), 1), &precondition) {
			t.Fatalf("expected a skip after deadline")
		}
		if want, got := interrupt, precondition.InterruptExecution; want != got {
			t.Errorf("unexpected interrupt flag, wanted %t, got %t", want, got)
		}
	}
}

func TestIgnoreEqualValues_ReusesOutcomes(t *testing.T) {
	calls := 0
	p := ForAll(arb.Must(arb.Integer(0, 10)), func(v int) error {
		calls++
		if v > 5 {
			return errors.New("too large")
		}
		return nil
	})
	reusing := IgnoreEqualValues(p, false)
	reusing.Run(context.Background(), 7)
	if out := reusing.Run(context.Background(), 7); out == nil {
		t.Errorf("reused outcome should be the failure")
	}
	reusing.Run(context.Background(), 1)
	if want, got := 2, calls; want != got {
		t.Errorf("unexpected number of evaluations, wanted %d, got %d", want, got)
	}

	skipping := IgnoreEqualValues(p, true)
	skipping.Run(context.Background(), 3)
	var precondition *PreconditionFailure
	if !errors.As(skipping.Run(context.Background(), 3), &precondition) {
		t.Errorf("repeated value should be skipped")
	}
}

func TestCheck_IgnoreEqualValuesEvaluatesConstantOnce(t *testing.T) {
	calls := 0
	p := ForAll(arb.Must(arb.Constant(1)), func(int) error {
		calls++
		return nil
	})
	params := testParameters()
	params.IgnoreEqualValues = true
	details, err := Check(p, params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if details.Failed {
		t.Errorf("check should pass")
	}
	if want, got := 1, calls; want != got {
		t.Errorf("unexpected number of evaluations, wanted %d, got %d", want, got)
	}
}

func TestCheck_SkipEqualValuesAbortsOnConstant(t *testing.T) {
	params := testParameters()
	params.SkipEqualValues = true
	params.NumRuns = 5
	params.MaxSkipsPerRun = 1
	details, err := Check(ForAll(arb.Must(arb.Constant(1)), func(int) error { return nil }), params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !details.Failed || details.NumRuns != 1 {
		t.Errorf("check should abort after one run, got %+v", details)
	}
}
