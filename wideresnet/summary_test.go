package wideresnet

import (
	"testing"

	"github.com/gomlx/gomlx/ml/context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSummary_Stages tests every stage of a WRN-10-1 against hand-computed
// shapes and parameter counts.
func TestSummary_Stages(t *testing.T) {
	cfg := New(10)
	cfg.WidthMultiplier = 1
	cfg.BlocksPerGroup = 1

	stages := cfg.Summary()
	require.Len(t, stages, 6)

	expected := []Stage{
		// stem: 3x3x3x16 kernel.
		{Name: "stem", Output: [3]int{32, 32, 16}, Parameters: 432},
		// 2*16 + 9*16*16 + 2*16 + 9*16*16 + 16*16.
		{Name: "group1/block1", Output: [3]int{32, 32, 16}, Parameters: 4928},
		// 2*16 + 9*16*32 + 2*32 + 9*32*32 + 16*32.
		{Name: "group2/block1", Output: [3]int{16, 16, 32}, Parameters: 14432},
		// 2*32 + 9*32*64 + 2*64 + 9*64*64 + 32*64.
		{Name: "group3/block1", Output: [3]int{8, 8, 64}, Parameters: 57536},
		{Name: "head", Output: [3]int{1, 1, 64}, Parameters: 128},
		{Name: "scores", Output: [3]int{1, 1, 10}, Parameters: 650},
	}
	assert.Equal(t, expected, stages)
	assert.Equal(t, 78106, cfg.NumParameters())
}

// TestSummary_WRN22_8 tests the canonical model's total against the
// published figure of roughly 17.2M parameters.
func TestSummary_WRN22_8(t *testing.T) {
	cfg := New(10)
	assert.Equal(t, 17158106, cfg.NumParameters())
	assert.Len(t, cfg.Summary(), 12)
}

// TestSummary_MatchesGraphVariables tests the closed-form count against the
// variables a real build creates.
func TestSummary_MatchesGraphVariables(t *testing.T) {
	cfg := New(10)
	cfg.ImageSize = 16
	cfg.WidthMultiplier = 4
	cfg.BlocksPerGroup = 1

	ctx := context.New()
	ctx.SetParam(ParamInitSeed, 11)
	exec := logitsExec(cfg, ctx)
	exec.Call(rampImages(cfg, 1))

	trainableSize := 0
	ctx.EnumerateVariables(func(v *context.Variable) {
		if v.Trainable {
			trainableSize += v.Shape().Size()
		}
	})
	assert.Equal(t, cfg.NumParameters(), trainableSize)
}

// TestString_Table tests the rendered summary.
func TestString_Table(t *testing.T) {
	s := New(10).String()
	assert.Contains(t, s, "WRN-22-8")
	assert.Contains(t, s, "17,158,106")
	assert.Contains(t, s, "group3/block3")
	assert.Contains(t, s, "scores")
}
