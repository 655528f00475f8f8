// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package wideresnet

import (
	. "github.com/gomlx/gomlx/graph"
	"github.com/gomlx/gopjrt/dtypes"
)

// Predictions converts logits of shape [batch, numClasses] to predicted
// class ids of shape [batch], taking the argmax over the last axis.
func Predictions(logits *Node) *Node {
	return ArgMax(logits, -1, dtypes.Int32)
}

// Accuracy returns the fraction of examples whose predicted class matches
// the one-hot labels, as a scalar with the logits' dtype.
func Accuracy(labels, logits *Node) *Node {
	correct := Equal(Predictions(logits), ArgMax(labels, -1, dtypes.Int32))
	return ReduceAllMean(ConvertDType(correct, logits.DType()))
}
