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

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/matrixorigin/movector/pkg/config"
	"github.com/matrixorigin/movector/pkg/logutil"
	"github.com/matrixorigin/movector/pkg/workload"
)

var (
	configFile  = flag.String("cfg", "./mo-vector.toml", "toml configuration used to run the workloads")
	metricsAddr = flag.String("metrics-addr", "", "serve prometheus metrics on this address while running")
)

func main() {
	flag.Parse()
	path := *configFile
	if flag.NArg() > 0 {
		path = flag.Arg(0)
	}

	cfg, err := config.Parse(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to parse config from %s, error: %s\n", path, err.Error())
		os.Exit(1)
	}
	logutil.SetupMOLogger(&cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logutil.Error("mo-vector failed", zap.Error(err))
		_ = logutil.GetGlobalLogger().Sync()
		os.Exit(1)
	}
	_ = logutil.GetGlobalLogger().Sync()
}

func run(ctx context.Context, cfg *config.Config) error {
	reg := prometheus.NewRegistry()
	if *metricsAddr != "" {
		srv := serveMetrics(*metricsAddr, reg)
		defer func() {
			_ = srv.Close()
		}()
	}

	r, err := workload.NewRunner(cfg, reg)
	if err != nil {
		return err
	}
	defer func() {
		if err := r.Close(); err != nil {
			logutil.Warn("failed to stop workers", zap.Error(err))
		}
	}()

	report, err := r.Run(ctx)
	if report != nil {
		printReport(report)
	}
	return err
}

func serveMetrics(addr string, reg *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logutil.Error("metrics server failed", zap.Error(err))
		}
	}()
	return srv
}

func printReport(report *workload.Report) {
	var elements, slots int
	for _, res := range report.Results {
		elements += res.Len
		slots += res.Cap
	}
	fmt.Printf("workloads: %d, elements: %d, slots: %d, elapsed: %s\n",
		len(report.Results), elements, slots, report.Elapsed)
	fmt.Printf("pool: %s\n", report.PoolUsage)
	if report.Alloc != nil {
		fmt.Printf("allocated slots: %d, peak in use: %d, objects: %d\n",
			report.Alloc.AllocateSlots, report.Alloc.PeakInuseSlots, report.Alloc.AllocateObjects)
	}
}
