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

//go:build linux || darwin

package malloc

import (
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/matrixorigin/movector/pkg/common/moerr"
)

// MmapAllocator maps every block anonymously and unmaps it on deallocate.
// Fresh anonymous mappings are zero filled.
type MmapAllocator[T Scalar] struct{}

func NewMmapAllocator[T Scalar]() *MmapAllocator[T] {
	return new(MmapAllocator[T])
}

var _ Allocator[int64] = new(MmapAllocator[int64])

var (
	mmap   = unix.Mmap
	munmap = unix.Munmap
)

func (*MmapAllocator[T]) Allocate(n int, _ Hints) ([]T, Deallocator, error) {
	if n == 0 {
		return nil, dumbHandle, nil
	}
	var zero T
	size := n * int(unsafe.Sizeof(zero))
	mem, err := mmap(
		-1, 0,
		size,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANON,
	)
	if err != nil {
		return nil, nil, moerr.NewOOMWithCause(moerr.Context(), err)
	}
	slots := unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(mem))), n)
	return slots, DeallocatorFunc(func(Hints) {
		if err := munmap(mem); err != nil {
			panic(err)
		}
	}), nil
}
