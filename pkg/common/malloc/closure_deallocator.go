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

import "sync"

type ClosureDeallocatorPool[A any] struct {
	fn   func(Hints, *A)
	pool sync.Pool
}

type closureDeallocator[A any] struct {
	args A
	pool *ClosureDeallocatorPool[A]
}

func NewClosureDeallocatorPool[A any](
	fn func(Hints, *A),
) *ClosureDeallocatorPool[A] {
	ret := &ClosureDeallocatorPool[A]{
		fn: fn,
	}
	ret.pool.New = func() any {
		return &closureDeallocator[A]{
			pool: ret,
		}
	}
	return ret
}

func (c *ClosureDeallocatorPool[A]) Get(args A) Deallocator {
	dec := c.pool.Get().(*closureDeallocator[A])
	dec.args = args
	return dec
}

func (c *closureDeallocator[A]) Deallocate(hints Hints) {
	c.pool.fn(hints, &c.args)
	var zero A
	c.args = zero
	c.pool.pool.Put(c)
}
