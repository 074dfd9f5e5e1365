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
	"cmp"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/movector/pkg/common/moerr"
)

type pair struct {
	key int
	seq int
}

func cmpPairKey(a, b pair) int {
	return cmp.Compare(a.key, b.key)
}

func randomInts(r *rand.Rand, n int) []int {
	ret := make([]int, n)
	for i := range ret {
		ret[i] = r.IntN(n/2 + 1)
	}
	return ret
}

func TestSortAlgorithms(t *testing.T) {
	r := rand.New(rand.NewPCG(42, 1024))
	sorters := map[string]func(v *Vector[int]){
		"sort":        func(v *Vector[int]) { v.Sort(cmp.Compare[int]) },
		"stable sort": func(v *Vector[int]) { v.StableSort(cmp.Compare[int]) },
		"heap sort":   func(v *Vector[int]) { v.HeapSort(cmp.Compare[int]) },
	}
	for name, sorter := range sorters {
		for _, n := range []int{0, 1, 2, 3, 17, 100, 1000} {
			vals := randomInts(r, n)
			v, err := New[int](n)
			require.NoError(t, err)
			require.NoError(t, v.appendAll(vals))

			sorter(v)

			want := slices.Clone(vals)
			slices.Sort(want)
			// an empty vector may hand out a nil slice
			require.True(t, slices.Equal(want, v.Slice()), "%s of %d elements: %v", name, n, v.Slice())
		}
	}
}

func TestSortFrom(t *testing.T) {
	sorters := map[string]func(v *Vector[int], from int) error{
		"sort": func(v *Vector[int], from int) error {
			return v.SortFrom(cmp.Compare[int], from)
		},
		"stable sort": func(v *Vector[int], from int) error {
			return v.StableSortFrom(cmp.Compare[int], from)
		},
		"heap sort": func(v *Vector[int], from int) error {
			return v.HeapSortFrom(cmp.Compare[int], from)
		},
	}
	for name, sorter := range sorters {
		v, err := New[int](8)
		require.NoError(t, err)
		require.NoError(t, v.appendAll([]int{9, 8, 7, 3, 1, 2, 0, 5}))

		require.NoError(t, sorter(v, 3), name)
		require.Equal(t, []int{9, 8, 7, 0, 1, 2, 3, 5}, v.Slice(), name)

		require.NoError(t, sorter(v, v.End()), name)
		require.Equal(t, []int{9, 8, 7, 0, 1, 2, 3, 5}, v.Slice(), name)

		err = sorter(v, v.End()+1)
		require.True(t, moerr.IsMoErrCode(err, moerr.ErrOutOfRange), name)
		err = sorter(v, -1)
		require.True(t, moerr.IsMoErrCode(err, moerr.ErrOutOfRange), name)
	}
}

func TestStableSortKeepsOrder(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 7))
	v, err := New[pair](0)
	require.NoError(t, err)
	for i := 0; i < 500; i++ {
		require.NoError(t, v.PushBack(pair{key: r.IntN(10), seq: i}))
	}

	v.StableSort(cmpPairKey)

	for i := 1; i < v.Len(); i++ {
		prev, cur := v.Get(i-1), v.Get(i)
		require.LessOrEqual(t, prev.key, cur.key)
		if prev.key == cur.key {
			require.Less(t, prev.seq, cur.seq)
		}
	}
}

func TestSortPointers(t *testing.T) {
	v := makeStrVector(t, 0, "pear", "apple", "fig", "kiwi")
	v.HeapSort(cmpStr)
	require.Equal(t, []string{"apple", "fig", "kiwi", "pear"}, strs(v))
	v.Sort(func(a, b *string) int { return cmpStr(b, a) })
	require.Equal(t, []string{"pear", "kiwi", "fig", "apple"}, strs(v))
}

func TestSortUninitialized(t *testing.T) {
	var v Vector[int]
	v.Sort(cmp.Compare[int])
	v.StableSort(cmp.Compare[int])
	v.HeapSort(cmp.Compare[int])
	require.NoError(t, v.HeapSortFrom(cmp.Compare[int], 0))
	require.Equal(t, 0, v.Len())
}

func BenchmarkSort(b *testing.B) {
	r := rand.New(rand.NewPCG(1, 2))
	vals := randomInts(r, 4096)
	v, err := New[int](len(vals))
	if err != nil {
		b.Fatal(err)
	}
	b.Run("pdq", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			v.Clear()
			_ = v.appendAll(vals)
			v.Sort(cmp.Compare[int])
		}
	})
	b.Run("heap", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			v.Clear()
			_ = v.appendAll(vals)
			v.HeapSort(cmp.Compare[int])
		}
	})
}
