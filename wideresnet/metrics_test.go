package wideresnet

import (
	"testing"

	"github.com/gomlx/gomlx/backends"
	_ "github.com/gomlx/gomlx/backends/simplego"
	. "github.com/gomlx/gomlx/graph"
	"github.com/gomlx/gomlx/types/tensors"
	"github.com/stretchr/testify/assert"
)

// TestPredictions tests argmax over the class axis.
func TestPredictions(t *testing.T) {
	backend := backends.New()
	exec := NewExec(backend, func(logits *Node) *Node {
		return Predictions(logits)
	})

	logits := tensors.FromValue([][]float32{{0.1, 2, -1}, {3, 0, 1}})
	out := exec.Call(logits)[0]
	assert.Equal(t, []int32{1, 0}, out.Value().([]int32))
}

// TestAccuracy tests the matched fraction against one-hot labels: three of
// the four rows below predict their labeled class.
func TestAccuracy(t *testing.T) {
	backend := backends.New()
	exec := NewExec(backend, func(labels, logits *Node) *Node {
		return Accuracy(labels, logits)
	})

	labels := tensors.FromValue([][]float32{
		{0, 1, 0},
		{1, 0, 0},
		{0, 0, 1},
		{1, 0, 0},
	})
	logits := tensors.FromValue([][]float32{
		{0, 5, 0},
		{3, 1, 0},
		{0, 1, 2},
		{0, 4, 1},
	})
	acc := exec.Call(labels, logits)[0]
	assert.InDelta(t, 0.75, acc.Value().(float32), 1e-6)
}
