// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package check is a generated GoMock package.
package check

import (
	reflect "reflect"

	gomock "go.uber.org/mock/gomock"
)

// MockTB is a mock of TB interface.
type MockTB struct {
	ctrl     *gomock.Controller
	recorder *MockTBMockRecorder
}

// MockTBMockRecorder is the mock recorder for MockTB.
type MockTBMockRecorder struct {
	mock *MockTB
}

// NewMockTB creates a new mock instance.
func NewMockTB(ctrl *gomock.Controller) *MockTB {
	mock := &MockTB{ctrl: ctrl}
	mock.recorder = &MockTBMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockTB) EXPECT() *MockTBMockRecorder {
	return m.recorder
}

// Fatal mocks base method.
func (m *MockTB) Fatal(args ...any) {
	m.ctrl.T.Helper()
	varargs := []any{}
	for _, a := range args {
		varargs = append(varargs, a)
	}
	m.ctrl.Call(m, "Fatal", varargs...)
}

// Fatal indicates an expected call of Fatal.
func (mr *MockTBMockRecorder) Fatal(args ...any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Fatal", reflect.TypeOf((*MockTB)(nil).Fatal), args...)
}

// Helper mocks base method.
func (m *MockTB) Helper() {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "Helper")
}

// Helper indicates an expected call of Helper.
func (mr *MockTBMockRecorder) Helper() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Helper", reflect.TypeOf((*MockTB)(nil).Helper))
}
