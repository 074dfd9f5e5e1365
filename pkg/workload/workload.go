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

package workload

import (
	"cmp"
	"context"
	"math/rand/v2"
	"slices"

	"github.com/matrixorigin/movector/pkg/common/malloc"
	"github.com/matrixorigin/movector/pkg/common/moerr"
	"github.com/matrixorigin/movector/pkg/config"
	"github.com/matrixorigin/movector/pkg/container/vector"
)

const checkCancelEvery = 1024

// Result is what one workload left behind.
type Result struct {
	ID       int
	Len      int
	Cap      int
	Pushed   int
	Inserted int
	Erased   int
	Popped   int
	Found    int
	Shrunk   bool
}

type workload struct {
	id    int
	cfg   *config.WorkloadConfig
	alloc malloc.Allocator[Element]
	rnd   *rand.Rand
}

func newWorkload(id int, cfg *config.WorkloadConfig, alloc malloc.Allocator[Element]) *workload {
	return &workload{
		id:    id,
		cfg:   cfg,
		alloc: alloc,
		rnd:   rand.New(rand.NewPCG(uint64(cfg.Seed), uint64(id))),
	}
}

// run drives a vector of its own through a random mix of operations, sorts
// it and checks the order.
func (w *workload) run(ctx context.Context) (res Result, err error) {
	res.ID = w.id
	vec, err := vector.New[Element](w.cfg.InitialCap, vector.WithAllocator[Element](w.alloc))
	if err != nil {
		return res, err
	}
	defer vec.Deinit()

	for i := 0; i < w.cfg.Operations; i++ {
		if i%checkCancelEvery == 0 {
			if err = ctx.Err(); err != nil {
				return res, err
			}
		}
		if err = w.step(vec, &res); err != nil {
			return res, err
		}
	}

	if err = w.sort(vec); err != nil {
		return res, err
	}
	if !slices.IsSorted(vec.Slice()) {
		return res, moerr.NewInternalErrorNoCtx("workload %d: vector is not sorted after %s sort", w.id, w.cfg.Sorter)
	}
	if w.cfg.ShrinkToFit {
		if res.Shrunk, err = vec.ShrinkToFit(); err != nil {
			return res, err
		}
	}
	res.Len = vec.Len()
	res.Cap = vec.Cap()
	return res, nil
}

func (w *workload) step(vec *vector.Vector[Element], res *Result) error {
	value := w.rnd.Int64N(int64(w.cfg.Operations) + 1)
	switch p := w.rnd.IntN(100); {
	case p < 45:
		if err := vec.PushBack(value); err != nil {
			return err
		}
		res.Pushed++
	case p < 60:
		if _, err := vec.Insert(w.rnd.IntN(vec.Len()+1), value); err != nil {
			return err
		}
		res.Inserted++
	case p < 65:
		if err := vec.PushFront(value); err != nil {
			return err
		}
		res.Inserted++
	case p < 70:
		n := w.rnd.IntN(4) + 1
		src := make([]Element, n)
		for i := range src {
			src[i] = w.rnd.Int64N(int64(w.cfg.Operations) + 1)
		}
		if _, err := vec.InsertRange(w.rnd.IntN(vec.Len()+1), src); err != nil {
			return err
		}
		res.Inserted += n
	case p < 82:
		if vec.Empty() {
			return nil
		}
		if _, err := vec.Erase(w.rnd.IntN(vec.Len())); err != nil {
			return err
		}
		res.Erased++
	case p < 92:
		if vec.PopBack() {
			res.Popped++
		}
	default:
		if vec.Search(cmp.Compare[Element], value) >= 0 {
			res.Found++
		}
	}
	return nil
}

func (w *workload) sort(vec *vector.Vector[Element]) error {
	switch w.cfg.Sorter {
	case config.SorterPdq:
		vec.Sort(cmp.Compare[Element])
	case config.SorterStable:
		vec.StableSort(cmp.Compare[Element])
	case config.SorterHeap:
		vec.HeapSort(cmp.Compare[Element])
	default:
		return moerr.NewBadConfigNoCtx("unknown sorter %q", w.cfg.Sorter)
	}
	return nil
}
