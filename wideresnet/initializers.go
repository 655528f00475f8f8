// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package wideresnet

import (
	"math"
	"math/rand"
	"time"

	. "github.com/gomlx/gomlx/graph"
	"github.com/gomlx/gomlx/ml/context"
	"github.com/gomlx/gomlx/types/shapes"
	"github.com/gomlx/gomlx/types/tensors"
	"github.com/gomlx/gopjrt/dtypes"
)

// TruncatedNormalFn returns a variable initializer drawing from a normal
// distribution with mean 0 and the given standard deviation, resampling any
// value that falls more than two standard deviations from the mean. Unlike
// clipping, resampling leaves no probability mass piled up at the bounds.
//
// Successive variables initialized from the same returned initializer
// consume one shared random stream, so a fixed initialSeed makes a whole
// model build reproducible. An initialSeed of 0 seeds from the wall clock.
//
// The values are sampled on the host and enter the graph as a constant,
// which keeps the distribution identical across backends.
func TruncatedNormalFn(initialSeed int64, stddev float64) context.VariableInitializer {
	if initialSeed == 0 {
		initialSeed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(initialSeed))
	return func(g *Graph, shape shapes.Shape) *Node {
		data := truncatedNormalSample(rng, stddev, shape.Size())
		values := Const(g, tensors.FromFlatDataAndDimensions(data, shape.Dimensions...))
		if shape.DType != dtypes.Float32 {
			values = ConvertDType(values, shape.DType)
		}
		return values
	}
}

// truncatedNormalSample draws n values from N(0, stddev^2), rejecting and
// redrawing anything beyond 2 stddev.
func truncatedNormalSample(rng *rand.Rand, stddev float64, n int) []float32 {
	data := make([]float32, n)
	for i := range data {
		for {
			v := rng.NormFloat64()
			if math.Abs(v) <= 2 {
				data[i] = float32(v * stddev)
				break
			}
		}
	}
	return data
}
