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

//go:build !linux && !darwin

package malloc

import "github.com/matrixorigin/movector/pkg/common/moerr"

type MmapAllocator[T Scalar] struct{}

func NewMmapAllocator[T Scalar]() *MmapAllocator[T] {
	return new(MmapAllocator[T])
}

func (*MmapAllocator[T]) Allocate(n int, _ Hints) ([]T, Deallocator, error) {
	if n == 0 {
		return nil, dumbHandle, nil
	}
	return nil, nil, moerr.NewNotSupportedNoCtx("mmap allocator on this platform")
}
