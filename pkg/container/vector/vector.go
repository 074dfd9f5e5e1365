// Copyright 2024 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package vector

import (
	"go.uber.org/zap"

	"github.com/matrixorigin/movector/pkg/common/malloc"
	"github.com/matrixorigin/movector/pkg/common/moerr"
	"github.com/matrixorigin/movector/pkg/logutil"
)

// Vector is a growable array of T kept in one contiguous block.
//
// Elements are stored by value. For pointer or handle types that is a
// shallow copy: the vector never looks behind an element and never frees
// what it refers to, except through Drain.
//
// Positions are indexes in [0, Len()], Len() being the one past the end
// position. A position is invalidated by an insert or erase at or before it.
// Slot addresses (Slot, Find, Slice, ForEach) are invalidated by any call that
// may reallocate: Resize, ShrinkToFit, and every insert or push.
//
// The zero Vector is uninitialized. Init (or New) makes it usable and Deinit
// returns it to the uninitialized state. A Vector must not be used by more
// than one goroutine at a time.
type Vector[T any] struct {
	buf    rawBuffer[T]
	alloc  malloc.Allocator[T]
	logger *zap.Logger
	inited bool
}

// New returns an initialized vector with room for capacity elements.
func New[T any](capacity int, opts ...Option[T]) (*Vector[T], error) {
	v := new(Vector[T])
	if err := v.Init(capacity, opts...); err != nil {
		return nil, err
	}
	return v, nil
}

// Init allocates a zeroed block of capacity slots. It fails on an already
// initialized vector, on a negative capacity and when the allocator fails.
func (v *Vector[T]) Init(capacity int, opts ...Option[T]) error {
	if v.inited {
		return moerr.NewInvalidStateNoCtx("vector is already initialized")
	}
	if capacity < 0 {
		return moerr.NewInvalidArgNoCtx("vector capacity", capacity)
	}
	v.alloc = nil
	v.logger = nil
	for _, opt := range opts {
		opt(v)
	}
	if v.alloc == nil {
		v.alloc = malloc.NewGoAllocator[T]()
	}
	if v.logger == nil {
		v.logger = logutil.Named("vector")
	}
	if err := v.buf.newBlock(v.alloc, capacity); err != nil {
		v.logger.Error("vector init failed",
			zap.Int("capacity", capacity),
			zap.Error(err),
		)
		return err
	}
	v.inited = true
	return nil
}

// Deinit gives the block back to the allocator. Elements are left alone, use
// Drain first if they need releasing.
func (v *Vector[T]) Deinit() {
	if !v.inited {
		return
	}
	v.buf.release()
	v.alloc = nil
	v.logger = nil
	v.inited = false
}

// Drain calls free on every element in order and then clears the vector.
// Capacity is kept.
func (v *Vector[T]) Drain(free func(T)) {
	for _, e := range v.buf.used() {
		free(e)
	}
	v.Clear()
}

func (v *Vector[T]) Initialized() bool {
	return v.inited
}

func (v *Vector[T]) Len() int {
	return v.buf.length
}

func (v *Vector[T]) Cap() int {
	return v.buf.capacity()
}

func (v *Vector[T]) Empty() bool {
	return v.buf.length == 0
}

// Begin is the position of the first element.
func (v *Vector[T]) Begin() int {
	return 0
}

// End is the one past the last element position.
func (v *Vector[T]) End() int {
	return v.buf.length
}

func (v *Vector[T]) Front() (T, bool) {
	if v.buf.length == 0 {
		var zero T
		return zero, false
	}
	return v.buf.data[0], true
}

func (v *Vector[T]) Back() (T, bool) {
	if v.buf.length == 0 {
		var zero T
		return zero, false
	}
	return v.buf.data[v.buf.length-1], true
}

// Get returns the element at i. Like slice indexing it panics when i is
// not in [0, Len()).
func (v *Vector[T]) Get(i int) T {
	return v.buf.used()[i]
}

// At returns the address of the slot at i, or nil when i is not in
// [0, Len()).
func (v *Vector[T]) At(i int) *T {
	if i < 0 || i >= v.buf.length {
		return nil
	}
	return &v.buf.data[i]
}

// Set overwrites the element at i. It panics when i is not in [0, Len()).
func (v *Vector[T]) Set(i int, value T) {
	v.buf.used()[i] = value
}

// Slot returns the address of the slot at i. It panics when i is not in
// [0, Len()).
func (v *Vector[T]) Slot(i int) *T {
	return &v.buf.used()[i]
}

// Slice returns the elements in use. It shares memory with the vector.
func (v *Vector[T]) Slice() []T {
	return v.buf.used()
}

// Resize grows the block to exactly n slots. It returns false without doing
// anything if n is not more than the capacity. Elements are kept.
func (v *Vector[T]) Resize(n int) (bool, error) {
	if err := v.checkInited(); err != nil {
		return false, err
	}
	if n <= v.buf.capacity() {
		return false, nil
	}
	if err := v.reallocate(n); err != nil {
		return false, err
	}
	return true, nil
}

// ShrinkToFit reallocates the block to exactly Len() slots. It returns false
// if there was no spare capacity.
func (v *Vector[T]) ShrinkToFit() (bool, error) {
	if err := v.checkInited(); err != nil {
		return false, err
	}
	if v.buf.capacity() <= v.buf.length {
		return false, nil
	}
	if err := v.reallocate(v.buf.length); err != nil {
		return false, err
	}
	return true, nil
}

// grow doubles the capacity, starting from one slot, until need elements
// fit.
func (v *Vector[T]) grow(need int) error {
	n := max(1, v.buf.capacity()*2)
	for n < need {
		n *= 2
	}
	return v.reallocate(n)
}

func (v *Vector[T]) reallocate(n int) error {
	from := v.buf.capacity()
	if err := v.buf.resizeBlock(v.alloc, n); err != nil {
		v.logger.Error("vector reallocate failed",
			zap.Int("from", from),
			zap.Int("to", n),
			zap.Int("length", v.buf.length),
			zap.Error(err),
		)
		return err
	}
	if ce := v.logger.Check(zap.DebugLevel, "vector reallocated"); ce != nil {
		ce.Write(
			zap.Int("from", from),
			zap.Int("to", n),
			zap.Int("length", v.buf.length),
		)
	}
	return nil
}

func (v *Vector[T]) checkInited() error {
	if !v.inited {
		return moerr.NewInvalidStateNoCtx("vector is not initialized")
	}
	return nil
}

// checkPosition accepts pos in [0, hi].
func checkPosition(pos, hi int) error {
	if pos < 0 || pos > hi {
		return moerr.NewOutOfRangeNoCtx("position", "%d not in [0, %d]", pos, hi)
	}
	return nil
}

// checkRange accepts 0 <= beg <= end <= hi.
func checkRange(beg, end, hi int) error {
	if beg < 0 || beg > end || end > hi {
		return moerr.NewOutOfRangeNoCtx("range", "[%d, %d) not in [0, %d]", beg, end, hi)
	}
	return nil
}
