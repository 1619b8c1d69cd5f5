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

import "reflect"

// Cloner is implemented by generated values which are mutable and must not be
// shared between independent consumers.
type Cloner[T any] interface {
	Clone() T
}

// Value is a generated instance together with the shrink context of the
// arbitrary that produced it. Values are created by Generate and Shrink and
// never modified afterwards, apart from tracking whether they were read.
//
// If the instance can be cloned, the first read of Value returns the instance
// itself and every later read returns a fresh clone. Thus the run of a
// predicate and a later shrink attempt never observe each other's mutations.
type Value[T any] struct {
	raw      T
	context  any
	clone    func() T
	readOnce bool
}

// NewValue wraps raw and its context. Cloning is enabled automatically if raw
// provides a Clone method returning a value assignable to T.
func NewValue[T any](raw T, context any) *Value[T] {
	return &Value[T]{raw: raw, context: context, clone: clonerOf(raw)}
}

// NewValueWithCloner wraps raw and its context using an explicit clone
// function. A nil clone function disables cloning.
func NewValueWithCloner[T any](raw T, context any, clone func() T) *Value[T] {
	return &Value[T]{raw: raw, context: context, clone: clone}
}

// Value returns the generated instance, honoring the clone-on-read policy.
func (v *Value[T]) Value() T {
	if v.clone == nil {
		return v.raw
	}
	if !v.readOnce {
		v.readOnce = true
		return v.raw
	}
	return v.clone()
}

// Raw returns the instance as produced, without cloning and without counting
// as a read.
func (v *Value[T]) Raw() T {
	return v.raw
}

// Context returns the shrink context attached by the producing arbitrary.
func (v *Value[T]) Context() any {
	return v.context
}

// HasToBeCloned reports whether reads of this value are cloned.
func (v *Value[T]) HasToBeCloned() bool {
	return v.clone != nil
}

// withContext re-wraps the instance of v under a new context, keeping the
// cloning policy of v alive.
func withContext[T any](v *Value[T], context any) *Value[T] {
	if !v.HasToBeCloned() {
		return NewValueWithCloner(v.raw, context, nil)
	}
	return NewValueWithCloner(v.Value(), context, func() T { return v.Value() })
}

// cloneIfNeeded returns a clone of value if it can be cloned, value otherwise.
func cloneIfNeeded[T any](value T) T {
	if clone := clonerOf(value); clone != nil {
		return clone()
	}
	return value
}

// clonerOf returns the clone function of value, or nil if there is none. Type
// erased values (T being an interface) are inspected by reflection, such that
// a value of type *X with a method Clone() *X stays cloneable as an any.
func clonerOf[T any](value T) func() T {
	if c, ok := any(value).(Cloner[T]); ok {
		return c.Clone
	}
	if reflect.TypeFor[T]().Kind() != reflect.Interface {
		return nil
	}
	rv := reflect.ValueOf(value)
	if !rv.IsValid() {
		return nil
	}
	method := rv.MethodByName("Clone")
	if !method.IsValid() {
		return nil
	}
	methodType := method.Type()
	if methodType.NumIn() != 0 || methodType.NumOut() != 1 || !methodType.Out(0).AssignableTo(rv.Type()) {
		return nil
	}
	return func() T {
		res, _ := method.Call(nil)[0].Interface().(T)
		return res
	}
}
