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
	"github.com/BurntSushi/toml"

	"github.com/matrixorigin/movector/pkg/common/moerr"
	"github.com/matrixorigin/movector/pkg/logutil"
)

const (
	AllocatorGo    = "go"
	AllocatorClass = "class"
	AllocatorMmap  = "mmap"

	SorterPdq    = "pdq"
	SorterStable = "stable"
	SorterHeap   = "heap"
)

const (
	defaultPoolName      = "mo-vector"
	defaultWorkers       = 4
	defaultWorkloads     = 16
	defaultOperations    = 10000
	defaultInitialCap    = 16
	defaultMaxBufferSize = 1 << 20
)

// Config is the mo-vector configuration file.
type Config struct {
	Log       logutil.LogConfig `toml:"log"`
	Allocator AllocatorConfig   `toml:"allocator"`
	Workload  WorkloadConfig    `toml:"workload"`
}

// AllocatorConfig describes the allocator chain every vector draws from:
// the base allocator, an optional capped pool and optional metrics.
type AllocatorConfig struct {
	// Kind is one of go, class and mmap.
	Kind string `toml:"kind"`
	// MaxBufferSize bounds the slots a class allocator keeps for reuse.
	MaxBufferSize int    `toml:"max-buffer-size"`
	PoolName      string `toml:"pool-name"`
	// PoolCap is the pool limit in slots, 0 means unlimited.
	PoolCap int64 `toml:"pool-cap"`
	Metrics bool  `toml:"metrics"`
}

type WorkloadConfig struct {
	Workers    int   `toml:"workers"`
	Workloads  int   `toml:"workloads"`
	Operations int   `toml:"operations"`
	InitialCap int   `toml:"initial-cap"`
	Seed       int64 `toml:"seed"`
	// Sorter is one of pdq, stable and heap.
	Sorter      string `toml:"sorter"`
	ShrinkToFit bool   `toml:"shrink-to-fit"`
}

// Parse decodes a config file, fills defaults and validates the result.
func Parse(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, moerr.NewBadConfigNoCtx("%s: %v", path, err)
	}
	cfg.Fill()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Decode is Parse for an in-memory document.
func Decode(data string) (*Config, error) {
	cfg := &Config{}
	if _, err := toml.Decode(data, cfg); err != nil {
		return nil, moerr.NewBadConfigNoCtx("%v", err)
	}
	cfg.Fill()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Fill() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if c.Allocator.Kind == "" {
		c.Allocator.Kind = AllocatorGo
	}
	if c.Allocator.MaxBufferSize == 0 {
		c.Allocator.MaxBufferSize = defaultMaxBufferSize
	}
	if c.Allocator.PoolName == "" {
		c.Allocator.PoolName = defaultPoolName
	}
	if c.Workload.Workers == 0 {
		c.Workload.Workers = defaultWorkers
	}
	if c.Workload.Workloads == 0 {
		c.Workload.Workloads = defaultWorkloads
	}
	if c.Workload.Operations == 0 {
		c.Workload.Operations = defaultOperations
	}
	if c.Workload.InitialCap == 0 {
		c.Workload.InitialCap = defaultInitialCap
	}
	if c.Workload.Sorter == "" {
		c.Workload.Sorter = SorterPdq
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	switch c.Allocator.Kind {
	case AllocatorGo, AllocatorClass, AllocatorMmap:
	default:
		return moerr.NewBadConfigNoCtx("unknown allocator kind %q", c.Allocator.Kind)
	}
	if c.Allocator.MaxBufferSize < 0 {
		return moerr.NewBadConfigNoCtx("max-buffer-size %d is negative", c.Allocator.MaxBufferSize)
	}
	if c.Allocator.PoolCap < 0 {
		return moerr.NewBadConfigNoCtx("pool-cap %d is negative", c.Allocator.PoolCap)
	}
	if c.Workload.Workers < 0 {
		return moerr.NewBadConfigNoCtx("workers %d is negative", c.Workload.Workers)
	}
	if c.Workload.Workloads < 0 {
		return moerr.NewBadConfigNoCtx("workloads %d is negative", c.Workload.Workloads)
	}
	if c.Workload.Operations < 0 {
		return moerr.NewBadConfigNoCtx("operations %d is negative", c.Workload.Operations)
	}
	if c.Workload.InitialCap < 0 {
		return moerr.NewBadConfigNoCtx("initial-cap %d is negative", c.Workload.InitialCap)
	}
	switch c.Workload.Sorter {
	case SorterPdq, SorterStable, SorterHeap:
	default:
		return moerr.NewBadConfigNoCtx("unknown sorter %q", c.Workload.Sorter)
	}
	return nil
}
