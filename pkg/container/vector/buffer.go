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
	"unsafe"

	"github.com/matrixorigin/movector/pkg/common/malloc"
)

// rawBuffer is the storage of a Vector: one block of slots from an
// allocator. len(data) is the capacity, the first length slots are in use.
type rawBuffer[T any] struct {
	data   []T
	length int
	dec    malloc.Deallocator
}

func (b *rawBuffer[T]) capacity() int {
	return len(b.data)
}

func (b *rawBuffer[T]) full() bool {
	return b.length == len(b.data)
}

func (b *rawBuffer[T]) used() []T {
	return b.data[:b.length:b.length]
}

func (b *rawBuffer[T]) newBlock(alloc malloc.Allocator[T], capacity int) error {
	data, dec, err := alloc.Allocate(capacity, malloc.NoHints)
	if err != nil {
		return err
	}
	b.data = data[:capacity:capacity]
	b.length = 0
	b.dec = dec
	return nil
}

// resizeBlock moves the used slots into a new block of exactly capacity
// slots and gives the old block back. capacity must not be less than the
// length. On error the buffer is left as it was.
func (b *rawBuffer[T]) resizeBlock(alloc malloc.Allocator[T], capacity int) error {
	// the copy overwrites the head, only the tail needs zeroing
	data, dec, err := alloc.Allocate(capacity, malloc.NoClear)
	if err != nil {
		return err
	}
	data = data[:capacity:capacity]
	n := copy(data, b.data[:b.length])
	clear(data[n:])
	old := b.dec
	b.data = data
	b.dec = dec
	if old != nil {
		old.Deallocate(malloc.NoHints)
	}
	return nil
}

func (b *rawBuffer[T]) release() {
	if b.dec != nil {
		b.dec.Deallocate(malloc.NoHints)
	}
	*b = rawBuffer[T]{}
}

// overlaps reports whether s shares memory with the block.
func (b *rawBuffer[T]) overlaps(s []T) bool {
	var zero T
	size := unsafe.Sizeof(zero)
	if size == 0 || cap(s) == 0 || cap(b.data) == 0 {
		return false
	}
	lo := uintptr(unsafe.Pointer(unsafe.SliceData(b.data)))
	hi := lo + uintptr(cap(b.data))*size
	slo := uintptr(unsafe.Pointer(unsafe.SliceData(s)))
	shi := slo + uintptr(cap(s))*size
	return slo < hi && lo < shi
}
