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
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/matrixorigin/movector/pkg/common/malloc"
	"github.com/matrixorigin/movector/pkg/common/moerr"
	"github.com/matrixorigin/movector/pkg/common/mpool"
	"github.com/matrixorigin/movector/pkg/config"
	"github.com/matrixorigin/movector/pkg/logutil"
)

// Element is the element type of workload vectors. It has to be a scalar
// so that every allocator kind, mmap included, can serve it.
type Element = int64

// AllocatorChain is the allocator every workload vector shares: a base
// allocator under a named pool, optionally counted by a metrics decorator.
type AllocatorChain struct {
	malloc.Allocator[Element]
	Pool    *mpool.MPool[Element]
	Metrics *malloc.MetricsAllocator[Element, malloc.Allocator[Element]]
	Class   *malloc.ClassAllocator[Element]
}

// NewAllocatorChain builds the chain described by cfg. Metric collectors
// are registered with reg when cfg.Metrics is set and reg is not nil.
// Close must be called to unregister the pool.
func NewAllocatorChain(cfg config.AllocatorConfig, reg prometheus.Registerer) (*AllocatorChain, error) {
	chain := &AllocatorChain{}

	var base malloc.Allocator[Element]
	switch cfg.Kind {
	case config.AllocatorGo:
		base = malloc.NewGoAllocator[Element]()
	case config.AllocatorClass:
		chain.Class = malloc.NewClassAllocator[Element](cfg.MaxBufferSize)
		base = chain.Class
	case config.AllocatorMmap:
		base = malloc.NewMmapAllocator[Element]()
	default:
		return nil, moerr.NewBadConfigNoCtx("unknown allocator kind %q", cfg.Kind)
	}

	pool, err := mpool.NewMPool(cfg.PoolName, cfg.PoolCap, base)
	if err != nil {
		return nil, err
	}
	chain.Pool = pool
	chain.Allocator = pool

	if cfg.Metrics {
		collectors, err := malloc.NewAllocatorCollectors(reg, cfg.PoolName)
		if err != nil {
			mpool.DeleteMPool(pool)
			return nil, err
		}
		chain.Metrics = malloc.WrapMetrics[Element](pool, collectors)
		chain.Allocator = chain.Metrics
	}

	logutil.Info("allocator chain ready",
		zap.String("kind", cfg.Kind),
		zap.String("pool", cfg.PoolName),
		zap.Int64("pool cap", cfg.PoolCap),
		zap.Bool("metrics", cfg.Metrics),
	)
	return chain, nil
}

func (c *AllocatorChain) Close() {
	mpool.DeleteMPool(c.Pool)
}
