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

import (
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/matrixorigin/movector/pkg/logutil"
)

// ClassAllocator rounds requests up to a size class and keeps freed blocks
// of each class in a bounded free list. Requests above the largest class go
// straight to the go heap.
//
// Blocks are cleared when they enter a free list, so a cached block never
// keeps the values it held reachable.
type ClassAllocator[T any] struct {
	classSizes []int
	pools      []classAllocatorPool[T]
}

type classAllocatorPool[T any] struct {
	numAlloc atomic.Int64
	numFree  atomic.Int64
	ch       chan []T
}

type classAllocatorHandle[T any] struct {
	block     []T
	class     int
	allocator *ClassAllocator[T]
}

const (
	minClassSlots    = 16
	maxClassSlots    = 1 << 20
	classSizeFactor  = 1.8
	defaultMaxBuffer = 1 << 24
)

// NewClassAllocator builds the class table. maxBufferSlots bounds the total
// number of slots kept in free lists, 0 means the default.
func NewClassAllocator[T any](
	maxBufferSlots int,
) *ClassAllocator[T] {
	if maxBufferSlots <= 0 {
		maxBufferSlots = defaultMaxBuffer
	}

	classSizes := func() (ret []int) {
		for size := minClassSlots; size <= maxClassSlots; size = int(float64(size) * classSizeFactor) {
			ret = append(ret, size)
		}
		return
	}()

	classSumSize := func() (ret int) {
		for _, size := range classSizes {
			ret += size
		}
		return
	}()

	bufferedObjectsPerClass := max(maxBufferSlots/classSumSize, 1)

	logutil.Debug("class allocator",
		zap.Int("max buffer slots", maxBufferSlots),
		zap.Int("classes", len(classSizes)),
		zap.Int("min class slots", minClassSlots),
		zap.Int("max class slots", maxClassSlots),
		zap.Int("buffer objects per class", bufferedObjectsPerClass),
	)

	pools := make([]classAllocatorPool[T], len(classSizes))
	for i := range pools {
		pools[i].ch = make(chan []T, bufferedObjectsPerClass)
	}

	return &ClassAllocator[T]{
		classSizes: classSizes,
		pools:      pools,
	}
}

var _ Allocator[int] = new(ClassAllocator[int])

func (c *ClassAllocator[T]) requestSizeToClass(size int) int {
	for class, classSize := range c.classSizes {
		if classSize >= size {
			return class
		}
	}
	return -1
}

func (c *ClassAllocator[T]) classAllocate(class int) *classAllocatorHandle[T] {
	select {
	case block := <-c.pools[class].ch:
		c.pools[class].numAlloc.Add(1)
		return &classAllocatorHandle[T]{
			block:     block,
			class:     class,
			allocator: c,
		}
	default:
		return &classAllocatorHandle[T]{
			block:     make([]T, c.classSizes[class]),
			class:     class,
			allocator: c,
		}
	}
}

func (c *ClassAllocator[T]) Allocate(n int, _ Hints) ([]T, Deallocator, error) {
	if n == 0 {
		return nil, dumbHandle, nil
	}
	class := c.requestSizeToClass(n)
	if class == -1 {
		return make([]T, n), dumbHandle, nil
	}
	handle := c.classAllocate(class)
	return handle.block[:n:n], handle, nil
}

// Reused reports how many allocations were served from free lists.
func (c *ClassAllocator[T]) Reused() int64 {
	var n int64
	for i := range c.pools {
		n += c.pools[i].numAlloc.Load()
	}
	return n
}

// Recycled reports how many freed blocks were kept for reuse.
func (c *ClassAllocator[T]) Recycled() int64 {
	var n int64
	for i := range c.pools {
		n += c.pools[i].numFree.Load()
	}
	return n
}

func (h *classAllocatorHandle[T]) Deallocate(hints Hints) {
	if hints&DoNotReuse != 0 {
		return
	}
	clear(h.block)
	pool := &h.allocator.pools[h.class]
	select {
	case pool.ch <- h.block:
		pool.numFree.Add(1)
	default:
	}
}
