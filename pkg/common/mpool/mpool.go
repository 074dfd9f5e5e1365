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

package mpool

import (
	"encoding/json"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/matrixorigin/movector/pkg/common/malloc"
	"github.com/matrixorigin/movector/pkg/common/moerr"
	"github.com/matrixorigin/movector/pkg/logutil"
)

const (
	NoLimit = 0
)

// MPoolStats are the counters of one pool, in slots.
type MPoolStats struct {
	NumAlloc      atomic.Int64 // number of allocations
	NumFree       atomic.Int64 // number of frees
	NumCurrSlots  atomic.Int64 // current number of slots in use
	HighWaterMark atomic.Int64 // high water mark of slots in use
}

func (s *MPoolStats) Report(tab string) string {
	if s.HighWaterMark.Load() == 0 {
		// empty, reduce noise.
		return ""
	}
	ret, _ := json.Marshal(s.snapshot())
	return tab + string(ret)
}

type mpoolStatsSnapshot struct {
	NumAlloc      int64 `json:"num_alloc"`
	NumFree       int64 `json:"num_free"`
	NumCurrSlots  int64 `json:"num_curr_slots"`
	HighWaterMark int64 `json:"high_water_mark"`
}

func (s *MPoolStats) snapshot() mpoolStatsSnapshot {
	return mpoolStatsSnapshot{
		NumAlloc:      s.NumAlloc.Load(),
		NumFree:       s.NumFree.Load(),
		NumCurrSlots:  s.NumCurrSlots.Load(),
		HighWaterMark: s.HighWaterMark.Load(),
	}
}

// tryAlloc accounts sz slots unless that takes the pool over limit.
func (s *MPoolStats) tryAlloc(sz, limit int64) bool {
	curr := s.NumCurrSlots.Add(sz)
	if limit != NoLimit && curr > limit {
		s.NumCurrSlots.Add(-sz)
		return false
	}
	s.NumAlloc.Add(1)
	for {
		hw := s.HighWaterMark.Load()
		if curr <= hw || s.HighWaterMark.CompareAndSwap(hw, curr) {
			break
		}
	}
	return true
}

func (s *MPoolStats) recordFree(sz int64) int64 {
	s.NumFree.Add(1)
	return s.NumCurrSlots.Add(-sz)
}

// reporter is the type independent view a pool registers globally.
type reporter interface {
	Name() string
	Stats() *MPoolStats
}

// MPool is a named allocator with usage accounting and an optional cap on
// the number of slots in use. Going over the cap fails the allocation with
// an out of memory error instead of growing without bound.
type MPool[T any] struct {
	name     string
	cap      int64
	stats    MPoolStats
	upstream malloc.Allocator[T]
}

var globalPools sync.Map

var _ malloc.Allocator[int] = new(MPool[int])

// NewMPool creates and registers a pool. capSlots of NoLimit means no cap.
func NewMPool[T any](name string, capSlots int64, upstream malloc.Allocator[T]) (*MPool[T], error) {
	if capSlots < 0 {
		return nil, moerr.NewInvalidArgNoCtx("mpool cap", capSlots)
	}
	if upstream == nil {
		upstream = malloc.NewGoAllocator[T]()
	}
	mp := &MPool[T]{
		name:     name,
		cap:      capSlots,
		upstream: upstream,
	}
	if _, loaded := globalPools.LoadOrStore(name, reporter(mp)); loaded {
		return nil, moerr.NewInvalidArgNoCtx("mpool name", name)
	}
	logutil.Debug("mpool created",
		zap.String("name", name),
		zap.Int64("cap", capSlots),
	)
	return mp, nil
}

// MustNewMPool is NewMPool for pools set up at init time.
func MustNewMPool[T any](name string, capSlots int64, upstream malloc.Allocator[T]) *MPool[T] {
	mp, err := NewMPool(name, capSlots, upstream)
	if err != nil {
		panic(err)
	}
	return mp
}

// DeleteMPool unregisters a pool. Blocks still out keep working.
func DeleteMPool[T any](mp *MPool[T]) {
	if mp == nil {
		return
	}
	globalPools.CompareAndDelete(mp.name, reporter(mp))
}

func (mp *MPool[T]) Name() string {
	return mp.name
}

func (mp *MPool[T]) Cap() int64 {
	return mp.cap
}

func (mp *MPool[T]) Stats() *MPoolStats {
	return &mp.stats
}

// CurrNB returns the number of slots in use.
func (mp *MPool[T]) CurrNB() int64 {
	return mp.stats.NumCurrSlots.Load()
}

func (mp *MPool[T]) Allocate(n int, hints malloc.Hints) ([]T, malloc.Deallocator, error) {
	if n < 0 {
		return nil, nil, moerr.NewInvalidArgNoCtx("mpool alloc size", n)
	}
	if n == 0 {
		return nil, malloc.ChainDeallocator(), nil
	}
	sz := int64(n)
	if !mp.stats.tryAlloc(sz, mp.cap) {
		logutil.Warn("mpool out of memory",
			zap.String("name", mp.name),
			zap.Int64("cap", mp.cap),
			zap.Int64("request", sz),
		)
		return nil, nil, moerr.NewOOMNoCtx()
	}
	slots, dec, err := mp.upstream.Allocate(n, hints)
	if err != nil {
		mp.stats.recordFree(sz)
		return nil, nil, err
	}
	var once atomic.Bool
	return slots, malloc.ChainDeallocator(malloc.DeallocatorFunc(func(malloc.Hints) {
		if !once.CompareAndSwap(false, true) {
			panic(moerr.NewInternalErrorNoCtx("mpool %s: double free", mp.name))
		}
		mp.stats.recordFree(sz)
	}), dec), nil
}

// ReportMemUsage returns the usage of the pool with the given name as json,
// or of every pool when name is empty.
func ReportMemUsage(name string) string {
	usage := make(map[string]mpoolStatsSnapshot)
	globalPools.Range(func(k, v any) bool {
		if name == "" || name == k.(string) {
			usage[k.(string)] = v.(reporter).Stats().snapshot()
		}
		return true
	})
	ret, _ := json.Marshal(usage)
	return string(ret)
}
