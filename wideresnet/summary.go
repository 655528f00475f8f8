// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package wideresnet

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// Stage describes one architectural stage of the network: the stem, a
// single residual block, the normalization head or the dense readout.
type Stage struct {
	// Name identifies the stage, e.g. "stem" or "group2/block1".
	Name string
	// Output is the per-example output shape [height, width, channels].
	Output [3]int
	// Parameters is the number of trainable scalars the stage owns.
	Parameters int
}

// Summary returns the ordered stages of the network with their output
// shapes and trainable parameter counts, computed without building any
// graph. The counts cover exactly the variables LogitsGraph creates:
// conv kernels, batch norm scales and offsets, and the readout weights
// and bias. Moving statistics are not trainable and are not counted.
//
// The result assumes a valid Config; see Config.Validate.
func (cfg Config) Summary() []Stage {
	stages := make([]Stage, 0, 3*cfg.BlocksPerGroup+3)

	size := cfg.ImageSize
	in := cfg.InputChannels
	stages = append(stages, Stage{
		Name:       "stem",
		Output:     [3]int{size, size, cfg.Channels[0]},
		Parameters: 3 * 3 * in * cfg.Channels[0],
	})
	in = cfg.Channels[0]

	for group := 0; group < 3; group++ {
		width := cfg.Channels[group] * cfg.WidthMultiplier
		if group > 0 {
			size /= 2
		}
		for block := 0; block < cfg.BlocksPerGroup; block++ {
			// Two batch norms over the block's input and intermediate
			// widths, two 3x3 kernels, and on the first block the 1x1
			// projection kernel.
			params := 2*in + 3*3*in*width + 2*width + 3*3*width*width
			if block == 0 {
				params += in * width
			}
			stages = append(stages, Stage{
				Name:       fmt.Sprintf("group%d/block%d", group+1, block+1),
				Output:     [3]int{size, size, width},
				Parameters: params,
			})
			in = width
		}
	}

	stages = append(stages, Stage{
		Name:       "head",
		Output:     [3]int{1, 1, in},
		Parameters: 2 * in,
	})
	stages = append(stages, Stage{
		Name:       "scores",
		Output:     [3]int{1, 1, cfg.NumClasses},
		Parameters: in*cfg.NumClasses + cfg.NumClasses,
	})
	return stages
}

// NumParameters returns the total number of trainable parameters of the
// network described by cfg.
func (cfg Config) NumParameters() int {
	total := 0
	for _, stage := range cfg.Summary() {
		total += stage.Parameters
	}
	return total
}

// String renders the architecture as a table, one row per stage.
func (cfg Config) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: 3 groups x %d blocks, width x%d, %s parameters\n",
		cfg.Name(), cfg.BlocksPerGroup, cfg.WidthMultiplier, humanize.Comma(int64(cfg.NumParameters())))
	fmt.Fprintf(&b, "  %-15s %-12s %12s\n", "stage", "output", "params")
	for _, stage := range cfg.Summary() {
		output := fmt.Sprintf("%dx%dx%d", stage.Output[0], stage.Output[1], stage.Output[2])
		fmt.Fprintf(&b, "  %-15s %-12s %12s\n", stage.Name, output, humanize.Comma(int64(stage.Parameters)))
	}
	return b.String()
}
