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
	"context"
	"errors"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/matrixorigin/movector/pkg/common/malloc"
	"github.com/matrixorigin/movector/pkg/common/moerr"
	"github.com/matrixorigin/movector/pkg/common/mpool"
	"github.com/matrixorigin/movector/pkg/config"
	"github.com/matrixorigin/movector/pkg/logutil"
)

const releaseTimeout = 5 * time.Second

// Report sums up a Run.
type Report struct {
	Results []Result
	Elapsed time.Duration
	// PoolUsage is the pool's stats as JSON.
	PoolUsage string
	// Alloc is only set when the chain counts metrics.
	Alloc *malloc.AllocatorStats
}

// Runner runs independent vector workloads on a bounded worker pool. Every
// workload owns its vector, only the allocator chain is shared.
type Runner struct {
	cfg    *config.Config
	chain  *AllocatorChain
	pool   *ants.Pool
	logger *zap.Logger
}

func NewRunner(cfg *config.Config, reg prometheus.Registerer) (*Runner, error) {
	chain, err := NewAllocatorChain(cfg.Allocator, reg)
	if err != nil {
		return nil, err
	}
	r := &Runner{
		cfg:    cfg,
		chain:  chain,
		logger: logutil.Named("workload"),
	}
	pool, err := ants.NewPool(cfg.Workload.Workers)
	if err != nil {
		chain.Close()
		return nil, moerr.ConvertGoError(moerr.Context(), err)
	}
	r.pool = pool
	return r, nil
}

// Run starts every configured workload and waits for all of them. The
// returned error joins the failures of individual workloads, the report
// still carries the results of those that succeeded.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	start := time.Now()
	n := r.cfg.Workload.Workloads
	results := make([]Result, n)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	fail := func(err error) {
		mu.Lock()
		errs = append(errs, err)
		mu.Unlock()
	}

	for i := 0; i < n; i++ {
		w := newWorkload(i, &r.cfg.Workload, r.chain)
		wg.Add(1)
		err := r.pool.Submit(func() {
			defer wg.Done()
			defer func() {
				if v := recover(); v != nil {
					fail(moerr.ConvertPanicError(ctx, v))
				}
			}()
			res, err := w.run(ctx)
			if err != nil {
				r.logger.Error("workload failed",
					zap.Int("id", w.id),
					zap.Error(err),
				)
				fail(err)
				return
			}
			results[w.id] = res
			r.logger.Debug("workload done",
				zap.Int("id", res.ID),
				zap.Int("len", res.Len),
				zap.Int("cap", res.Cap),
			)
		})
		if err != nil {
			wg.Done()
			fail(moerr.ConvertGoError(ctx, err))
		}
	}
	wg.Wait()

	report := &Report{
		Results:   results,
		Elapsed:   time.Since(start),
		PoolUsage: mpool.ReportMemUsage(r.chain.Pool.Name()),
	}
	if r.chain.Metrics != nil {
		stats := r.chain.Metrics.Stats()
		report.Alloc = &stats
	}
	r.logger.Info("workloads finished",
		zap.Int("workloads", n),
		zap.Int("failed", len(errs)),
		logutil.Elapsed(start),
		zap.String("pool", report.PoolUsage),
	)
	return report, errors.Join(errs...)
}

// Close stops the workers and unregisters the pool.
func (r *Runner) Close() error {
	err := r.pool.ReleaseTimeout(releaseTimeout)
	r.chain.Close()
	return err
}
