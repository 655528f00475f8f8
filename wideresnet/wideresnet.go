// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package wideresnet

import (
	"github.com/gomlx/exceptions"
	. "github.com/gomlx/gomlx/graph"
	"github.com/gomlx/gomlx/ml/context"
	"github.com/gomlx/gomlx/ml/layers"
	"github.com/gomlx/gomlx/ml/layers/activations"
	"github.com/gomlx/gomlx/ml/layers/batchnorm"
	"github.com/gomlx/gomlx/types/shapes"
)

// ParamInitSeed is the context hyperparameter holding the seed for the conv
// kernel initializer. Set it to a non-zero int for reproducible builds; the
// default 0 seeds from the wall clock.
const ParamInitSeed = "wrn_init_seed"

const (
	// bnMomentum is the moving-average decay of every batch normalization.
	bnMomentum = 0.9
	// initStddev is the standard deviation of the truncated-normal kernel
	// initializer.
	initStddev = 0.1
)

// ModelGraph builds the forward pass in the shape GoMLX's train.Trainer
// consumes: inputs[0] must be an NHWC image batch, and the single returned
// node holds the per-class logits.
func (cfg Config) ModelGraph(ctx *context.Context, spec any, inputs []*Node) []*Node {
	return []*Node{cfg.LogitsGraph(ctx, inputs[0])}
}

// LogitsGraph builds the Wide Residual Network forward pass.
//
// Parameters:
//   - ctx: the variable context. Variables are created under the "model"
//     scope on the first build and reused afterwards.
//   - images: batch of shape [batch, ImageSize, ImageSize, InputChannels]
//     with the configured dtype.
//
// Returns the unnormalized class scores, shape [batch, NumClasses].
//
// The graph panics (GoMLX convention) on an invalid configuration or a
// mis-shaped input; call Config.Validate beforehand for an error instead.
func (cfg Config) LogitsGraph(ctx *context.Context, images *Node) *Node {
	if err := cfg.Validate(); err != nil {
		exceptions.Panicf("wideresnet: %v", err)
	}
	if images.DType() != cfg.dtype() {
		exceptions.Panicf("wideresnet: images dtype %s does not match configured dtype %s",
			images.DType(), cfg.dtype())
	}
	images.AssertRank(4)
	batchSize := images.Shape().Dimensions[0]
	images.AssertDims(batchSize, cfg.ImageSize, cfg.ImageSize, cfg.InputChannels)

	ctx = ctx.In("model")
	seed := int64(context.GetParamOr(ctx, ParamInitSeed, 0))
	initializer := TruncatedNormalFn(seed, initStddev)

	// Stem: a plain 3x3 convolution at the base width, before any widening.
	x := cfg.conv(ctx.In("stem"), images, 3, 1, true, cfg.Channels[0], initializer)

	size := cfg.ImageSize
	for group := 0; group < 3; group++ {
		stride := 2
		if group == 0 {
			stride = 1
		}
		width := cfg.Channels[group] * cfg.WidthMultiplier
		x = cfg.residualGroup(ctx.Inf("group%d", group+1), x, stride, width, initializer)
		size /= stride
		x.AssertDims(batchSize, size, size, width)
	}

	x = activations.Relu(batchNorm(ctx.In("head"), x))
	x = MeanPool(x).Window(size).Strides(1).Done()
	x = Reshape(x, batchSize, -1)

	logits := layers.Dense(ctx.In("scores"), x, true, cfg.NumClasses)
	logits.AssertDims(batchSize, cfg.NumClasses)
	return logits
}

// residualGroup stacks BlocksPerGroup pre-activation blocks at the given
// width. Only the first block strides (and projects its shortcut); the
// remaining blocks run at stride 1 with identity shortcuts.
func (cfg Config) residualGroup(ctx *context.Context, x *Node, stride, width int, initializer context.VariableInitializer) *Node {
	for block := 0; block < cfg.BlocksPerGroup; block++ {
		x = cfg.residualBlock(ctx.Inf("block%d", block+1), x, stride, width, block == 0, initializer)
		stride = 1
	}
	return x
}

// residualBlock is a pre-activation basic block:
//
//	out1  = ReLU(BN(x))
//	conv1 = 3x3 conv(out1), stride s
//	out2  = ReLU(BN(conv1))
//	conv2 = 3x3 conv(out2), stride 1
//
// When project is set the shortcut is a strided 1x1 convolution of out1,
// i.e. of the already-normalized activation rather than the raw input;
// otherwise the input is added back unchanged.
func (cfg Config) residualBlock(ctx *context.Context, x *Node, stride, width int, project bool, initializer context.VariableInitializer) *Node {
	out1 := activations.Relu(batchNorm(ctx.In("bn1"), x))
	conv1 := cfg.conv(ctx.In("conv1"), out1, 3, stride, true, width, initializer)
	out2 := activations.Relu(batchNorm(ctx.In("bn2"), conv1))
	conv2 := cfg.conv(ctx.In("conv2"), out2, 3, 1, true, width, initializer)
	if project {
		shortcut := cfg.conv(ctx.In("shortcut"), out1, 1, stride, false, width, initializer)
		return Add(conv2, shortcut)
	}
	return Add(conv2, x)
}

// conv creates a bias-free 2D convolution with an explicit kernel variable,
// shaped [kernelSize, kernelSize, inChannels, channels] for NHWC inputs.
func (cfg Config) conv(ctx *context.Context, x *Node, kernelSize, stride int, padSame bool, channels int, initializer context.VariableInitializer) *Node {
	g := x.Graph()
	inChannels := x.Shape().Dimensions[3]
	kernelShape := shapes.Make(x.DType(), kernelSize, kernelSize, inChannels, channels)
	kernel := ctx.WithInitializer(initializer).VariableWithShape("weight", kernelShape).ValueGraph(g)
	conv := Convolve(x, kernel).Strides(stride)
	if padSame {
		conv = conv.PadSame()
	} else {
		conv = conv.NoPadding()
	}
	return conv.Done()
}

// batchNorm normalizes over the channels axis with the decay the residual
// blocks were tuned for. Inference uses the moving averages maintained
// during training; the mode follows the context's training flag.
func batchNorm(ctx *context.Context, x *Node) *Node {
	return batchnorm.New(ctx, x, -1).Momentum(bnMomentum).Done()
}
