package wideresnet

import (
	"testing"

	"github.com/gomlx/gomlx/backends"
	_ "github.com/gomlx/gomlx/backends/simplego"
	. "github.com/gomlx/gomlx/graph"
	"github.com/gomlx/gomlx/ml/context"
	"github.com/gomlx/gomlx/types/shapes"
	"github.com/gomlx/gomlx/types/tensors"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/stretchr/testify/assert"
)

// onesInitializer fills variables with ones, keeping test penalties easy
// to compute by hand.
func onesInitializer(g *Graph, shape shapes.Shape) *Node {
	return Ones(g, shape)
}

// TestLoss_CrossEntropy tests the loss without weight decay against a
// hand-computed softmax cross-entropy.
//
// For logits (2, 1, 0) the log of the partition sum is
// ln(e^2+e^1+e^0) = 2.407606, so the example loss with the true class at
// logit 2 is 0.407606. The second example mirrors the first.
func TestLoss_CrossEntropy(t *testing.T) {
	cfg := New(3)
	ctx := context.New()
	lossFn := cfg.Loss(ctx)

	backend := backends.New()
	exec := context.NewExec(backend, ctx, func(ctx *context.Context, logits, labels *Node) *Node {
		return lossFn([]*Node{labels}, []*Node{logits})
	})

	logits := tensors.FromValue([][]float32{{2, 1, 0}, {0, 1, 2}})
	labels := tensors.FromValue([][]float32{{1, 0, 0}, {0, 0, 1}})
	loss := exec.Call(logits, labels)[0]

	assert.InDelta(t, 0.407606, loss.Value().(float32), 1e-4)
}

// TestLoss_WeightDecay tests that the L2 term scales half the squared
// parameter norm: a 2x2 variable of ones contributes 0.5*4 = 2, and with
// lambda 0.5 the loss grows by exactly 1 over the cross-entropy.
func TestLoss_WeightDecay(t *testing.T) {
	cfg := New(3)
	cfg.WeightDecay = 0.5
	ctx := context.New()
	lossFn := cfg.Loss(ctx)

	backend := backends.New()
	exec := context.NewExec(backend, ctx, func(ctx *context.Context, logits, labels *Node) *Node {
		ctx.WithInitializer(onesInitializer).VariableWithShape("w", shapes.Make(dtypes.Float32, 2, 2))
		return lossFn([]*Node{labels}, []*Node{logits})
	})

	logits := tensors.FromValue([][]float32{{2, 1, 0}, {0, 1, 2}})
	labels := tensors.FromValue([][]float32{{1, 0, 0}, {0, 0, 1}})
	loss := exec.Call(logits, labels)[0]

	assert.InDelta(t, 1.407606, loss.Value().(float32), 1e-4)
}

// TestL2Penalty_SkipsNonTrainable tests that frozen variables stay out of
// the penalty.
func TestL2Penalty_SkipsNonTrainable(t *testing.T) {
	cfg := New(3)
	ctx := context.New()

	backend := backends.New()
	exec := context.NewExec(backend, ctx, func(ctx *context.Context, x *Node) *Node {
		ctx.WithInitializer(onesInitializer).VariableWithShape("w", shapes.Make(dtypes.Float32, 2, 2))
		frozen := ctx.WithInitializer(onesInitializer).VariableWithShape("frozen", shapes.Make(dtypes.Float32, 3))
		frozen.Trainable = false
		return cfg.L2Penalty(ctx, x.Graph())
	})

	penalty := exec.Call(tensors.FromShape(shapes.Make(dtypes.Float32)))[0]
	assert.InDelta(t, 2.0, penalty.Value().(float32), 1e-6)
}
