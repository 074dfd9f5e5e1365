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

import "github.com/prometheus/client_golang/prometheus"

// AllocatorCollectors are the prometheus collectors fed by a
// MetricsAllocator.
type AllocatorCollectors struct {
	AllocateBytes   prometheus.Counter
	InuseBytes      prometheus.Gauge
	AllocateObjects prometheus.Counter
	InuseObjects    prometheus.Gauge
}

// NewAllocatorCollectors creates the collectors labelled with the allocator
// name and registers them with reg when reg is not nil.
func NewAllocatorCollectors(reg prometheus.Registerer, name string) (*AllocatorCollectors, error) {
	labels := prometheus.Labels{"allocator": name}
	c := &AllocatorCollectors{
		AllocateBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "movector",
			Subsystem:   "alloc",
			Name:        "allocate_bytes_total",
			Help:        "Total bytes allocated.",
			ConstLabels: labels,
		}),
		InuseBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "movector",
			Subsystem:   "alloc",
			Name:        "inuse_bytes",
			Help:        "Bytes currently allocated.",
			ConstLabels: labels,
		}),
		AllocateObjects: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "movector",
			Subsystem:   "alloc",
			Name:        "allocate_objects_total",
			Help:        "Total blocks allocated.",
			ConstLabels: labels,
		}),
		InuseObjects: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "movector",
			Subsystem:   "alloc",
			Name:        "inuse_objects",
			Help:        "Blocks currently allocated.",
			ConstLabels: labels,
		}),
	}
	if reg == nil {
		return c, nil
	}
	for _, col := range []prometheus.Collector{
		c.AllocateBytes, c.InuseBytes, c.AllocateObjects, c.InuseObjects,
	} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// WrapMetrics decorates upstream with a MetricsAllocator fed into c.
func WrapMetrics[T any](upstream Allocator[T], c *AllocatorCollectors) *MetricsAllocator[T, Allocator[T]] {
	return NewMetricsAllocator[T, Allocator[T]](
		upstream,
		c.AllocateBytes,
		c.InuseBytes,
		c.AllocateObjects,
		c.InuseObjects,
	)
}
