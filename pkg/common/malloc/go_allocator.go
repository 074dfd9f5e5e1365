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

// GoAllocator allocates from the go heap and leaves freeing to the GC.
type GoAllocator[T any] struct{}

func NewGoAllocator[T any]() *GoAllocator[T] {
	return new(GoAllocator[T])
}

var _ Allocator[int] = new(GoAllocator[int])

func (*GoAllocator[T]) Allocate(n int, _ Hints) ([]T, Deallocator, error) {
	if n == 0 {
		return nil, dumbHandle, nil
	}
	return make([]T, n), dumbHandle, nil
}
