// Copyright 2025 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package list

// Resource is implemented by value types that own resources and hence
// cannot be copied bit for bit. Lists created by NewConstructed start
// each new element from T's zero value and call Assign to copy the
// inserted value into it. Assign must also accept a receiver that already
// holds a value, in which case it replaces that value. Release is called
// before an element's node is freed, it must accept the zero value and
// must not fail.
type Resource[T any] interface {
	*T
	Assign(src *T) error
	Release()
}

// discipline determines how values are copied into, out of and destroyed
// within nodes.
type discipline[T any] interface {
	construct(dst, src *T) error
	assign(dst, src *T) error
	destroy(v *T)
}

// rawCopy copies values by assignment and never destroys them, freeing
// the node is sufficient.
type rawCopy[T any] struct{}

func (rawCopy[T]) construct(dst, src *T) error {
	*dst = *src
	return nil
}

func (rawCopy[T]) assign(dst, src *T) error {
	*dst = *src
	return nil
}

func (rawCopy[T]) destroy(*T) {}

type constructed[T any, PT Resource[T]] struct{}

func (constructed[T, PT]) construct(dst, src *T) error {
	if err := PT(dst).Assign(src); err != nil {
		PT(dst).Release()
		return err
	}
	return nil
}

func (constructed[T, PT]) assign(dst, src *T) error {
	return PT(dst).Assign(src)
}

func (constructed[T, PT]) destroy(v *T) {
	PT(v).Release()
}
