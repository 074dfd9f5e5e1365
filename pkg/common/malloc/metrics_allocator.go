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

import (
	"sync/atomic"
	"unsafe"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsAllocator counts what flows through an upstream allocator. Counts
// are in slots; bytes are slots times the slot size.
type MetricsAllocator[T any, U Allocator[T]] struct {
	upstream        U
	deallocatorPool *ClosureDeallocatorPool[metricsDeallocatorArgs]
	slotSize        uint64

	allocateBytesCounter   prometheus.Counter
	inuseBytesGauge        prometheus.Gauge
	allocateObjectsCounter prometheus.Counter
	inuseObjectsGauge      prometheus.Gauge

	allocateSlots   atomic.Uint64
	inuseSlots      atomic.Int64
	allocateObjects atomic.Uint64
	inuseObjects    atomic.Int64
	peak            *PeakInuseTracker
}

type metricsDeallocatorArgs struct {
	slots uint64
}

// AllocatorStats is a point in time view of a MetricsAllocator.
type AllocatorStats struct {
	AllocateSlots   uint64
	InuseSlots      int64
	AllocateObjects uint64
	InuseObjects    int64
	PeakInuseSlots  uint64
}

// NewMetricsAllocator wraps upstream. Any collector may be nil.
func NewMetricsAllocator[T any, U Allocator[T]](
	upstream U,
	allocateBytesCounter prometheus.Counter,
	inuseBytesGauge prometheus.Gauge,
	allocateObjectsCounter prometheus.Counter,
	inuseObjectsGauge prometheus.Gauge,
) *MetricsAllocator[T, U] {

	var zero T
	var ret *MetricsAllocator[T, U]

	ret = &MetricsAllocator[T, U]{
		upstream:               upstream,
		slotSize:               uint64(unsafe.Sizeof(zero)),
		allocateBytesCounter:   allocateBytesCounter,
		inuseBytesGauge:        inuseBytesGauge,
		allocateObjectsCounter: allocateObjectsCounter,
		inuseObjectsGauge:      inuseObjectsGauge,
		peak:                   NewPeakInuseTracker(),

		deallocatorPool: NewClosureDeallocatorPool(
			func(hints Hints, args *metricsDeallocatorArgs) {
				ret.inuseSlots.Add(-int64(args.slots))
				ret.inuseObjects.Add(-1)
				if ret.inuseBytesGauge != nil {
					ret.inuseBytesGauge.Sub(float64(args.slots * ret.slotSize))
				}
				if ret.inuseObjectsGauge != nil {
					ret.inuseObjectsGauge.Dec()
				}
			},
		),
	}

	return ret
}

var _ Allocator[int] = new(MetricsAllocator[int, Allocator[int]])

func (m *MetricsAllocator[T, U]) Allocate(n int, hints Hints) ([]T, Deallocator, error) {
	slots, dec, err := m.upstream.Allocate(n, hints)
	if err != nil {
		return nil, nil, err
	}
	size := uint64(n)
	m.allocateSlots.Add(size)
	inuse := m.inuseSlots.Add(int64(size))
	m.allocateObjects.Add(1)
	m.inuseObjects.Add(1)
	if inuse > 0 {
		m.peak.Update(uint64(inuse))
	}

	if m.allocateBytesCounter != nil {
		m.allocateBytesCounter.Add(float64(size * m.slotSize))
	}
	if m.inuseBytesGauge != nil {
		m.inuseBytesGauge.Add(float64(size * m.slotSize))
	}
	if m.allocateObjectsCounter != nil {
		m.allocateObjectsCounter.Inc()
	}
	if m.inuseObjectsGauge != nil {
		m.inuseObjectsGauge.Inc()
	}

	return slots, ChainDeallocator(
		dec,
		m.deallocatorPool.Get(metricsDeallocatorArgs{
			slots: size,
		}),
	), nil
}

func (m *MetricsAllocator[T, U]) Stats() AllocatorStats {
	peak, _ := m.peak.Peak()
	return AllocatorStats{
		AllocateSlots:   m.allocateSlots.Load(),
		InuseSlots:      m.inuseSlots.Load(),
		AllocateObjects: m.allocateObjects.Load(),
		InuseObjects:    m.inuseObjects.Load(),
		PeakInuseSlots:  peak,
	}
}
