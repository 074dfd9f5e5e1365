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
	"iter"
)

// ForEach calls fn with the address of every slot in order. fn may change
// the slot's value but must not change the vector's length or capacity.
func (v *Vector[T]) ForEach(fn func(slot *T)) {
	data := v.buf.used()
	for i := range data {
		fn(&data[i])
	}
}

// ForEachRange is ForEach over [beg, end).
func (v *Vector[T]) ForEachRange(fn func(slot *T), beg, end int) error {
	if err := checkRange(beg, end, v.buf.length); err != nil {
		return err
	}
	data := v.buf.used()
	for i := beg; i < end; i++ {
		fn(&data[i])
	}
	return nil
}

// All yields the position and value of every element in order.
func (v *Vector[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := 0; i < v.buf.length; i++ {
			if !yield(i, v.buf.data[i]) {
				return
			}
		}
	}
}

// Search returns the position of the first element e with cmp(e, value) == 0,
// counted from the start of the vector, or -1.
func (v *Vector[T]) Search(cmp func(a, b T) int, value T) int {
	return v.index(cmp, value, 0, v.buf.length)
}

// SearchRange is Search limited to [beg, end). The result is still counted
// from the start of the vector.
func (v *Vector[T]) SearchRange(cmp func(a, b T) int, value T, beg, end int) (int, error) {
	if err := checkRange(beg, end, v.buf.length); err != nil {
		return -1, err
	}
	return v.index(cmp, value, beg, end), nil
}

// Find returns the slot address of the first match, or nil.
func (v *Vector[T]) Find(cmp func(a, b T) int, value T) *T {
	if i := v.index(cmp, value, 0, v.buf.length); i >= 0 {
		return &v.buf.data[i]
	}
	return nil
}

// FindRange is Find limited to [beg, end).
func (v *Vector[T]) FindRange(cmp func(a, b T) int, value T, beg, end int) (*T, error) {
	if err := checkRange(beg, end, v.buf.length); err != nil {
		return nil, err
	}
	if i := v.index(cmp, value, beg, end); i >= 0 {
		return &v.buf.data[i], nil
	}
	return nil, nil
}

func (v *Vector[T]) index(cmp func(a, b T) int, value T, beg, end int) int {
	data := v.buf.data
	for i := beg; i < end; i++ {
		if cmp(data[i], value) == 0 {
			return i
		}
	}
	return -1
}
