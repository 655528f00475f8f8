// Package main provides the wide-resnet model inspection CLI.
//
// It prints the architecture summary for a model configuration, lists
// the variables of a built graph, and reads or writes YAML
// configuration files.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/born-ml/models/wideresnet"
	"github.com/dustin/go-humanize"
	"github.com/gomlx/gomlx/backends"
	_ "github.com/gomlx/gomlx/backends/simplego"
	. "github.com/gomlx/gomlx/graph"
	"github.com/gomlx/gomlx/ml/context"
	"github.com/gomlx/gomlx/types/shapes"
	"github.com/gomlx/gomlx/types/tensors"
	"github.com/gomlx/gopjrt/dtypes"
)

const version = "v0.0.1-dev"

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("wideresnet %s\n", version)
		return
	}

	var (
		configPath  = flag.String("config", "", "Load the model configuration from a YAML file instead of flags")
		depth       = flag.Int("depth", 22, "Network depth, must satisfy depth = 6n+4")
		width       = flag.Int("width", 8, "Width multiplier")
		classes     = flag.Int("classes", 10, "Number of output classes")
		imageSize   = flag.Int("image-size", 32, "Input image height and width")
		weightDecay = flag.Float64("weight-decay", 0, "L2 penalty weight added to the loss")
		listVars    = flag.Bool("vars", false, "Build the graph and list its variables")
		writeConfig = flag.String("write-config", "", "Write the resolved configuration to a YAML file and exit")
	)
	flag.Parse()

	cfg, err := resolveConfig(*configPath, *depth, *width, *classes, *imageSize, *weightDecay)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if *writeConfig != "" {
		if err := cfg.Save(*writeConfig); err != nil {
			log.Fatalf("Failed to write configuration: %v", err)
		}
		fmt.Printf("Wrote %s configuration to %s\n", cfg.Name(), *writeConfig)
		return
	}

	fmt.Print(cfg.String())

	if *listVars {
		printVariables(cfg)
	}
}

// resolveConfig builds the model configuration from a YAML file when
// given, otherwise from the command line flags.
func resolveConfig(path string, depth, width, classes, imageSize int, weightDecay float64) (wideresnet.Config, error) {
	if path != "" {
		return wideresnet.LoadConfig(path)
	}
	cfg, err := wideresnet.FromDepth(depth, width, classes)
	if err != nil {
		return cfg, err
	}
	cfg.ImageSize = imageSize
	cfg.WeightDecay = weightDecay
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// printVariables builds the forward graph on a single zero image and
// prints every variable it created, trainable or not.
func printVariables(cfg wideresnet.Config) {
	dtype := cfg.DType
	if dtype == dtypes.InvalidDType {
		dtype = dtypes.Float32
	}

	backend := backends.New()
	ctx := context.New()
	exec := context.NewExec(backend, ctx, func(ctx *context.Context, images *Node) *Node {
		return cfg.LogitsGraph(ctx, images)
	})
	input := tensors.FromShape(shapes.Make(dtype, 1, cfg.ImageSize, cfg.ImageSize, cfg.InputChannels))
	exec.Call(input)

	type row struct {
		path      string
		shape     string
		size      int
		trainable bool
	}
	var rows []row
	trainableSize, totalSize := 0, 0
	ctx.EnumerateVariables(func(v *context.Variable) {
		size := v.Shape().Size()
		totalSize += size
		if v.Trainable {
			trainableSize += size
		}
		rows = append(rows, row{
			path:      v.Scope() + "/" + v.Name(),
			shape:     v.Shape().String(),
			size:      size,
			trainable: v.Trainable,
		})
	})
	sort.Slice(rows, func(i, j int) bool { return rows[i].path < rows[j].path })

	fmt.Println()
	fmt.Printf("%-52s %-22s %12s\n", "variable", "shape", "size")
	for _, r := range rows {
		marker := ""
		if !r.trainable {
			marker = "  (frozen)"
		}
		fmt.Printf("%-52s %-22s %12s%s\n", r.path, r.shape, humanize.Comma(int64(r.size)), marker)
	}
	fmt.Println()
	fmt.Printf("Trainable parameters: %s\n", humanize.Comma(int64(trainableSize)))
	fmt.Printf("Total variable size:  %s\n", humanize.Comma(int64(totalSize)))
	if trainableSize != cfg.NumParameters() {
		fmt.Printf("Warning: summary predicts %s trainable parameters\n", humanize.Comma(int64(cfg.NumParameters())))
	}
}
