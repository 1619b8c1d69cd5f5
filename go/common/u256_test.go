// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package common

import (
	"math/big"
	"testing"
)

func TestU256_NewU256PadsLeadingZeros(t *testing.T) {
	if want, got := "0000000000000000 0000000000000000 0000000000000001 0000000000000002", NewU256(1, 2).String(); want != got {
		t.Errorf("unexpected value, wanted %s, got %s", want, got)
	}
}

func TestU256_ArithmeticWrapsAround(t *testing.T) {
	max := MaxU256()
	if got := max.Add(NewU256(1)); !got.IsZero() {
		t.Errorf("max+1 should wrap to zero, got %v", got)
	}
	if got := NewU256(0).Sub(NewU256(1)); !got.Eq(max) {
		t.Errorf("0-1 should wrap to max, got %v", got)
	}
	if got := NewU256(7).Mul(NewU256(6)); got.Uint64() != 42 {
		t.Errorf("unexpected product, got %v", got)
	}
	if got := NewU256(43).Div(NewU256(6)); got.Uint64() != 7 {
		t.Errorf("unexpected quotient, got %v", got)
	}
	if got := NewU256(43).Mod(NewU256(6)); got.Uint64() != 1 {
		t.Errorf("unexpected remainder, got %v", got)
	}
}

func TestU256_BigConversionRoundTrip(t *testing.T) {
	tests := []U256{NewU256(), NewU256(1), NewU256(1, 2, 3, 4), MaxU256()}
	for _, test := range tests {
		got, ok := U256FromBig(test.ToBig())
		if !ok {
			t.Fatalf("failed to convert %v", test)
		}
		if !got.Eq(test) {
			t.Errorf("round trip failed, wanted %v, got %v", test, got)
		}
	}
}

func TestU256_BigConversionRejectsOutOfRange(t *testing.T) {
	if _, ok := U256FromBig(big.NewInt(-1)); ok {
		t.Errorf("negative values should be rejected")
	}
	tooBig := new(big.Int).Lsh(big.NewInt(1), 256)
	if _, ok := U256FromBig(tooBig); ok {
		t.Errorf("values with more than 256 bits should be rejected")
	}
}
