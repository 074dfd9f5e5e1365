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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/movector/pkg/common/malloc"
	"github.com/matrixorigin/movector/pkg/common/moerr"
)

func BenchmarkMP(b *testing.B) {
	pool, err := NewMPool[int64]("bench-mp", 0, malloc.NewClassAllocator[int64](0))
	if err != nil {
		panic(err)
	}
	defer DeleteMPool(pool)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var wg sync.WaitGroup
		run := func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				_, dec, err := pool.Allocate(8, malloc.NoHints)
				if err != nil {
					panic(err)
				}
				dec.Deallocate(malloc.NoHints)
			}
		}
		for i := 0; i < 800; i++ {
			wg.Add(1)
			go run()
		}
		wg.Wait()
	}
}

func TestMPool(t *testing.T) {
	m, err := NewMPool[*string]("test-mpool-small", 0, nil)
	require.True(t, err == nil, "new mpool failed %v", err)
	defer DeleteMPool(m)

	nb0 := m.CurrNB()
	hw0 := m.Stats().HighWaterMark.Load()
	nalloc0 := m.Stats().NumAlloc.Load()
	nfree0 := m.Stats().NumFree.Load()

	require.True(t, nalloc0 == 0, "bad nalloc")
	require.True(t, nfree0 == 0, "bad nfree")

	for i := 1; i <= 1000; i++ {
		a, dec, err := m.Allocate(i*10, malloc.NoHints)
		require.True(t, err == nil, "alloc failure, %v", err)
		require.True(t, len(a) == i*10, "allocation i size error")
		require.True(t, a[0] == nil, "allocation result not zeroed.")
		dec.Deallocate(malloc.NoHints)
	}

	require.True(t, nb0 == m.CurrNB(), "leak")
	require.True(t, hw0+1000*10 == m.Stats().HighWaterMark.Load(), "hw")
	require.True(t, nalloc0+1000 == m.Stats().NumAlloc.Load(), "alloc")
	require.True(t, m.Stats().NumAlloc.Load() == m.Stats().NumFree.Load(), "free")
}

func TestMPoolCap(t *testing.T) {
	m, err := NewMPool[int]("test-mpool-cap", 100, nil)
	require.NoError(t, err)
	defer DeleteMPool(m)

	_, dec, err := m.Allocate(60, malloc.NoHints)
	require.NoError(t, err)

	_, _, err = m.Allocate(60, malloc.NoHints)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrOOM))
	require.Equal(t, int64(60), m.CurrNB())

	dec.Deallocate(malloc.NoHints)
	_, dec, err = m.Allocate(100, malloc.NoHints)
	require.NoError(t, err)
	require.Equal(t, int64(100), m.Stats().HighWaterMark.Load())
	dec.Deallocate(malloc.NoHints)
	require.Equal(t, int64(0), m.CurrNB())
}

func TestMPoolBadArgs(t *testing.T) {
	_, err := NewMPool[int]("test-mpool-neg", -1, nil)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidArg))

	m := MustNewMPool[int]("test-mpool-dup", 0, nil)
	defer DeleteMPool(m)
	_, err = NewMPool[int]("test-mpool-dup", 0, nil)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidArg))

	_, _, err = m.Allocate(-1, malloc.NoHints)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidArg))

	slots, dec, err := m.Allocate(0, malloc.NoHints)
	require.NoError(t, err)
	require.Nil(t, slots)
	dec.Deallocate(malloc.NoHints)
	require.Equal(t, int64(0), m.Stats().NumAlloc.Load())
}

func TestMPoolDoubleFree(t *testing.T) {
	m := MustNewMPool[int]("test-mpool-double-free", 0, nil)
	defer DeleteMPool(m)
	_, dec, err := m.Allocate(4, malloc.NoHints)
	require.NoError(t, err)
	dec.Deallocate(malloc.NoHints)
	require.Panics(t, func() {
		dec.Deallocate(malloc.NoHints)
	})
}

func TestReportMemUsage(t *testing.T) {
	m, err := NewMPool[int]("testjson", 0, nil)
	require.True(t, err == nil, "new mpool failed %v", err)

	_, dec, err := m.Allocate(1000, malloc.NoHints)
	require.True(t, err == nil, "mpool alloc failed %v", err)

	usage := make(map[string]mpoolStatsSnapshot)
	require.NoError(t, json.Unmarshal([]byte(ReportMemUsage("testjson")), &usage))
	require.Len(t, usage, 1)
	require.Equal(t, int64(1000), usage["testjson"].NumCurrSlots)

	all := make(map[string]mpoolStatsSnapshot)
	require.NoError(t, json.Unmarshal([]byte(ReportMemUsage("")), &all))
	require.Contains(t, all, "testjson")
	require.NotEmpty(t, m.Stats().Report("  "))

	dec.Deallocate(malloc.NoHints)
	DeleteMPool(m)
	require.Equal(t, "{}", ReportMemUsage("testjson"))
}

func TestMPoolForRace(t *testing.T) {
	m := MustNewMPool[int64]("test-mpool-race", 0, malloc.NewClassAllocator[int64](0))
	defer DeleteMPool(m)
	var wg sync.WaitGroup
	run := func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			_, dec, err := m.Allocate(10, malloc.NoHints)
			if err != nil {
				panic(err)
			}
			dec.Deallocate(malloc.NoHints)
		}
	}
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go run()
	}
	wg.Wait()
	require.Equal(t, int64(0), m.CurrNB())
	require.Equal(t, int64(100*1000), m.Stats().NumFree.Load())
}
