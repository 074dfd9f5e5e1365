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

// Allocator hands out blocks of n zeroed slots of T.
//
// The returned Deallocator must be used exactly once to give the block back,
// and only for the block it was returned with. Mixing blocks and
// deallocators of different allocators is not allowed.
type Allocator[T any] interface {
	Allocate(n int, hints Hints) ([]T, Deallocator, error)
}

type Deallocator interface {
	Deallocate(hints Hints)
}

type Hints uint64

const NoHints Hints = 0

const (
	// NoClear skips zeroing a recycled block
	NoClear Hints = 1 << iota
	// DoNotReuse asks the allocator not to keep the block for later use
	DoNotReuse
)

// DeallocatorFunc adapts a plain function to Deallocator.
type DeallocatorFunc func(Hints)

func (f DeallocatorFunc) Deallocate(hints Hints) {
	f(hints)
}

type dumbDeallocator struct{}

func (dumbDeallocator) Deallocate(Hints) {}

var dumbHandle Deallocator = dumbDeallocator{}

type chainDeallocator []Deallocator

func (c chainDeallocator) Deallocate(hints Hints) {
	for _, dec := range c {
		dec.Deallocate(hints)
	}
}

// ChainDeallocator runs the given deallocators in order.
func ChainDeallocator(decs ...Deallocator) Deallocator {
	var ret chainDeallocator
	for _, dec := range decs {
		if dec == nil {
			continue
		}
		if _, ok := dec.(dumbDeallocator); ok {
			continue
		}
		if chain, ok := dec.(chainDeallocator); ok {
			ret = append(ret, chain...)
			continue
		}
		ret = append(ret, dec)
	}
	switch len(ret) {
	case 0:
		return dumbHandle
	case 1:
		return ret[0]
	}
	return ret
}
