// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package wideresnet builds Wide Residual Network classifiers as GoMLX
// computation graphs.
//
// Wide Residual Networks (Zagoruyko and Komodakis, arXiv:1605.07146) trade
// depth for width: instead of stacking hundreds of thin residual blocks, they
// widen the convolutions of a moderately deep pre-activation ResNet by a
// factor k. A network with n blocks per group has depth 6n+4, so the
// canonical CIFAR model with n=3 and k=8 is WRN-22-8.
//
// # Overview
//
// This package contains:
//   - Config: model hyperparameters, validation, YAML load/save
//   - LogitsGraph / ModelGraph: the forward pass, from NHWC image batches
//     to per-class logits
//   - Loss: softmax cross-entropy plus L2 weight decay over the trainable
//     variables, in the shape GoMLX trainers consume
//   - Predictions / Accuracy: inference-side graph helpers
//   - Summary / NumParameters: a structural description of the network
//     without building any graph
//   - TruncatedNormalFn: the conv kernel initializer (truncated normal,
//     resampled beyond two standard deviations)
//
// The package only defines graphs. Data pipelines, optimizers, checkpoints
// and serving belong to the surrounding GoMLX machinery.
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/models/wideresnet"
//	    "github.com/gomlx/gomlx/backends"
//	    _ "github.com/gomlx/gomlx/backends/simplego"
//	    "github.com/gomlx/gomlx/ml/context"
//	    "github.com/gomlx/gomlx/ml/train"
//	    "github.com/gomlx/gomlx/ml/train/optimizers"
//	)
//
//	func main() {
//	    cfg := wideresnet.New(10) // WRN-22-8 for 32x32 RGB inputs
//	    cfg.WeightDecay = 5e-4
//
//	    backend := backends.New()
//	    ctx := context.New()
//	    trainer := train.NewTrainer(backend, ctx,
//	        cfg.ModelGraph, cfg.Loss(ctx),
//	        optimizers.Adam().Done(), nil, nil)
//	    // Feed the trainer any train.Dataset of [batch, 32, 32, 3] images
//	    // with one-hot [batch, 10] labels.
//	}
//
// # Architecture
//
// The forward pass is the pre-activation wide variant:
//
//	3x3 conv (stem)
//	group 1: n blocks, stride 1, width 16k
//	group 2: n blocks, stride 2, width 32k
//	group 3: n blocks, stride 2, width 64k
//	batch norm, ReLU
//	average pool (window = image size / 4)
//	dense readout to the class count
//
// Each block normalizes and activates before convolving. The first block of
// every group carries a 1x1 projection shortcut computed from the same
// pre-activation output as the block's first convolution; the remaining
// blocks use identity shortcuts.
package wideresnet
