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
	"go.uber.org/zap"

	"github.com/matrixorigin/movector/pkg/common/malloc"
)

type Option[T any] func(*Vector[T])

// WithAllocator sets where the vector gets its slots. The same allocator is
// used for every block until Deinit.
func WithAllocator[T any](alloc malloc.Allocator[T]) Option[T] {
	return func(v *Vector[T]) {
		v.alloc = alloc
	}
}

func WithLogger[T any](logger *zap.Logger) Option[T] {
	return func(v *Vector[T]) {
		v.logger = logger
	}
}
