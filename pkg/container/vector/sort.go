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
	"slices"
)

// Sort orders the elements by cmp. It is not stable.
func (v *Vector[T]) Sort(cmp func(a, b T) int) {
	slices.SortFunc(v.buf.used(), cmp)
}

// SortFrom sorts [from, End()) and leaves the elements before from alone.
func (v *Vector[T]) SortFrom(cmp func(a, b T) int, from int) error {
	if err := checkPosition(from, v.buf.length); err != nil {
		return err
	}
	slices.SortFunc(v.buf.used()[from:], cmp)
	return nil
}

// StableSort orders the elements by cmp keeping equal elements in their
// original order.
func (v *Vector[T]) StableSort(cmp func(a, b T) int) {
	slices.SortStableFunc(v.buf.used(), cmp)
}

func (v *Vector[T]) StableSortFrom(cmp func(a, b T) int, from int) error {
	if err := checkPosition(from, v.buf.length); err != nil {
		return err
	}
	slices.SortStableFunc(v.buf.used()[from:], cmp)
	return nil
}

// HeapSort orders the elements by cmp in place with no extra memory and
// O(n log n) worst case. It is not stable.
func (v *Vector[T]) HeapSort(cmp func(a, b T) int) {
	heapSort(v.buf.used(), cmp)
}

func (v *Vector[T]) HeapSortFrom(cmp func(a, b T) int, from int) error {
	if err := checkPosition(from, v.buf.length); err != nil {
		return err
	}
	heapSort(v.buf.used()[from:], cmp)
	return nil
}

func heapSort[T any](data []T, cmp func(a, b T) int) {
	n := len(data)
	// build a max heap
	for i := n/2 - 1; i >= 0; i-- {
		siftDown(data, i, n, cmp)
	}
	// pop the max into the tail
	for i := n - 1; i > 0; i-- {
		data[0], data[i] = data[i], data[0]
		siftDown(data, 0, i, cmp)
	}
}

// siftDown restores the heap property of data[:hi] below root.
func siftDown[T any](data []T, root, hi int, cmp func(a, b T) int) {
	for {
		child := 2*root + 1
		if child >= hi {
			return
		}
		if child+1 < hi && cmp(data[child], data[child+1]) < 0 {
			child++
		}
		if cmp(data[root], data[child]) >= 0 {
			return
		}
		data[root], data[child] = data[child], data[root]
		root = child
	}
}
