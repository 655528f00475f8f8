// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package wideresnet

import (
	. "github.com/gomlx/gomlx/graph"
	"github.com/gomlx/gomlx/ml/context"
	"github.com/gomlx/gomlx/ml/train/losses"
)

// Loss returns the training loss function for the model: the mean softmax
// cross-entropy between the logits and one-hot labels, plus WeightDecay
// times the L2 penalty over every trainable variable in ctx.
//
// The returned function has the losses.LossFn shape, so it plugs straight
// into train.NewTrainer next to Config.ModelGraph. It closes over ctx to
// reach the variables; pass the same context the trainer uses.
//
// Parameters:
//   - ctx: the variable context shared with the model graph.
//
// Returns a function mapping ([labels], [logits]) to a scalar loss node.
func (cfg Config) Loss(ctx *context.Context) losses.LossFn {
	return func(labels, predictions []*Node) *Node {
		loss := ReduceAllMean(losses.CategoricalCrossEntropyLogits(labels, predictions))
		if cfg.WeightDecay > 0 {
			penalty := cfg.L2Penalty(ctx, loss.Graph())
			loss = Add(loss, MulScalar(penalty, cfg.WeightDecay))
		}
		return loss
	}
}

// L2Penalty returns half the summed squares of every trainable variable
// registered in ctx, as a scalar node in g. Batch norm offsets and scales
// and the readout bias count as trainable and are included; the moving
// statistics are not.
func (cfg Config) L2Penalty(ctx *context.Context, g *Graph) *Node {
	penalty := Scalar(g, cfg.dtype(), 0)
	ctx.EnumerateVariables(func(v *context.Variable) {
		if !v.Trainable {
			return
		}
		value := v.ValueGraph(g)
		penalty = Add(penalty, ReduceAllSum(Mul(value, value)))
	})
	return MulScalar(penalty, 0.5)
}
