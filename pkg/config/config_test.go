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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/movector/pkg/common/moerr"
)

func TestDefaults(t *testing.T) {
	cfg, err := Decode("")
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, AllocatorGo, cfg.Allocator.Kind)
	assert.Equal(t, defaultPoolName, cfg.Allocator.PoolName)
	assert.Equal(t, int64(0), cfg.Allocator.PoolCap)
	assert.Equal(t, defaultWorkers, cfg.Workload.Workers)
	assert.Equal(t, defaultWorkloads, cfg.Workload.Workloads)
	assert.Equal(t, defaultOperations, cfg.Workload.Operations)
	assert.Equal(t, SorterPdq, cfg.Workload.Sorter)
}

func TestParse(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mo-vector.toml")
	data := `
[log]
level = "debug"
format = "json"
max-size = 64

[allocator]
kind = "class"
max-buffer-size = 4096
pool-name = "bench"
pool-cap = 1048576
metrics = true

[workload]
workers = 2
workloads = 3
operations = 100
initial-cap = 0
seed = 42
sorter = "heap"
shrink-to-fit = true
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := Parse(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 64, cfg.Log.MaxSize)
	assert.Equal(t, AllocatorClass, cfg.Allocator.Kind)
	assert.Equal(t, 4096, cfg.Allocator.MaxBufferSize)
	assert.Equal(t, "bench", cfg.Allocator.PoolName)
	assert.Equal(t, int64(1<<20), cfg.Allocator.PoolCap)
	assert.True(t, cfg.Allocator.Metrics)
	assert.Equal(t, 2, cfg.Workload.Workers)
	assert.Equal(t, 3, cfg.Workload.Workloads)
	assert.Equal(t, 100, cfg.Workload.Operations)
	assert.Equal(t, defaultInitialCap, cfg.Workload.InitialCap)
	assert.Equal(t, int64(42), cfg.Workload.Seed)
	assert.Equal(t, SorterHeap, cfg.Workload.Sorter)
	assert.True(t, cfg.Workload.ShrinkToFit)
}

func TestParseMissingFile(t *testing.T) {
	_, err := Parse(filepath.Join(t.TempDir(), "missing.toml"))
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrBadConfig))
}

func TestValidate(t *testing.T) {
	cases := []string{
		`[allocator]
kind = "jemalloc"`,
		`[allocator]
pool-cap = -1`,
		`[allocator]
max-buffer-size = -1`,
		`[workload]
workers = -2`,
		`[workload]
operations = -1`,
		`[workload]
sorter = "bubble"`,
		`[workload
workers = 1`,
	}
	for _, c := range cases {
		_, err := Decode(c)
		require.True(t, moerr.IsMoErrCode(err, moerr.ErrBadConfig), c)
	}
}
