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

// Insert puts value at pos, moving the elements from pos on one place to
// the right. pos must be in [0, Len()]. It returns the position of the new
// element.
func (v *Vector[T]) Insert(pos int, value T) (int, error) {
	if err := v.checkInited(); err != nil {
		return pos, err
	}
	if err := checkPosition(pos, v.buf.length); err != nil {
		return pos, err
	}
	if v.buf.full() {
		if err := v.grow(v.buf.length + 1); err != nil {
			return pos, err
		}
	}
	n := v.buf.length
	data := v.buf.data
	copy(data[pos+1:n+1], data[pos:n])
	data[pos] = value
	v.buf.length++
	return pos, nil
}

// InsertRange copies src in at pos. src may come from any vector, this one
// included: a source that shares memory with this vector is copied before
// anything moves.
func (v *Vector[T]) InsertRange(pos int, src []T) (int, error) {
	if err := v.checkInited(); err != nil {
		return pos, err
	}
	if err := checkPosition(pos, v.buf.length); err != nil {
		return pos, err
	}
	count := len(src)
	if count == 0 {
		return pos, nil
	}
	if v.buf.overlaps(src) {
		src = slices.Clone(src)
	}
	n := v.buf.length
	if n+count > v.buf.capacity() {
		if err := v.grow(n + count); err != nil {
			return pos, err
		}
	}
	data := v.buf.data
	copy(data[pos+count:n+count], data[pos:n])
	copy(data[pos:pos+count], src)
	v.buf.length += count
	return pos, nil
}

// Erase removes the element at pos and closes the gap. On an empty vector it
// does nothing. Otherwise pos must be in [0, Len()). The returned position
// now holds the element that followed the erased one, or is End().
func (v *Vector[T]) Erase(pos int) (int, error) {
	if err := v.checkInited(); err != nil {
		return pos, err
	}
	n := v.buf.length
	if n == 0 {
		return pos, nil
	}
	if err := checkPosition(pos, n-1); err != nil {
		return pos, err
	}
	data := v.buf.data
	copy(data[pos:n], data[pos+1:n])
	var zero T
	data[n-1] = zero
	v.buf.length--
	return pos, nil
}

// EraseRange removes [beg, end). On an empty vector it does nothing.
func (v *Vector[T]) EraseRange(beg, end int) (int, error) {
	if err := v.checkInited(); err != nil {
		return beg, err
	}
	n := v.buf.length
	if n == 0 {
		return beg, nil
	}
	if err := checkRange(beg, end, n); err != nil {
		return beg, err
	}
	count := end - beg
	if count == 0 {
		return beg, nil
	}
	data := v.buf.data
	copy(data[beg:n], data[end:n])
	clear(data[n-count : n])
	v.buf.length -= count
	return beg, nil
}

// PushBack appends value, doubling the capacity when full.
func (v *Vector[T]) PushBack(value T) error {
	if err := v.checkInited(); err != nil {
		return err
	}
	if v.buf.full() {
		if err := v.grow(v.buf.length + 1); err != nil {
			return err
		}
	}
	v.buf.data[v.buf.length] = value
	v.buf.length++
	return nil
}

// PushFront prepends value. Every element moves, so it costs O(Len()).
func (v *Vector[T]) PushFront(value T) error {
	_, err := v.Insert(0, value)
	return err
}

// PopBack removes the last element. It returns false if there was none.
func (v *Vector[T]) PopBack() bool {
	if v.buf.length == 0 {
		return false
	}
	var zero T
	v.buf.length--
	v.buf.data[v.buf.length] = zero
	return true
}

// PopFront removes the first element, moving all others. It returns false
// if there was none.
func (v *Vector[T]) PopFront() bool {
	if v.buf.length == 0 {
		return false
	}
	_, err := v.Erase(0)
	return err == nil
}

// Clear zeroes the used slots and sets the length to zero. Capacity is
// kept and elements are not freed.
func (v *Vector[T]) Clear() {
	clear(v.buf.used())
	v.buf.length = 0
}
