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
	"errors"
	"fmt"
	"testing"
)

const errTest = ConstErr("test error")

func TestConstErr_CanBeWrappedAndDetected(t *testing.T) {
	err := fmt.Errorf("%w, with details", errTest)
	if !errors.Is(err, errTest) {
		t.Errorf("wrapped error not detected, got %v", err)
	}
	if want, got := "test error, with details", err.Error(); want != got {
		t.Errorf("unexpected message, wanted %s, got %s", want, got)
	}
}
