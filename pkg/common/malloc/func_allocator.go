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

package malloc

import "github.com/matrixorigin/movector/pkg/common/moerr"

// FuncAllocator wraps a caller supplied allocate/free pair. The free
// function receives exactly the block its allocate call produced.
type FuncAllocator[T any] struct {
	alloc func(n int) ([]T, error)
	free  func([]T)
}

func NewFuncAllocator[T any](
	alloc func(n int) ([]T, error),
	free func([]T),
) *FuncAllocator[T] {
	return &FuncAllocator[T]{
		alloc: alloc,
		free:  free,
	}
}

var _ Allocator[int] = new(FuncAllocator[int])

func (f *FuncAllocator[T]) Allocate(n int, hints Hints) ([]T, Deallocator, error) {
	if n == 0 {
		return nil, dumbHandle, nil
	}
	block, err := f.alloc(n)
	if err != nil {
		return nil, nil, err
	}
	if len(block) < n {
		if f.free != nil && block != nil {
			f.free(block)
		}
		return nil, nil, moerr.NewInternalErrorNoCtx("allocate function returned %d slots, want %d", len(block), n)
	}
	slots := block[:n:n]
	if hints&NoClear == 0 {
		clear(slots)
	}
	if f.free == nil {
		return slots, dumbHandle, nil
	}
	return slots, DeallocatorFunc(func(Hints) {
		f.free(block)
	}), nil
}
