// Package synthetic generates labeled image datasets for exercising
// image classifiers without downloading anything. Each class renders as
// a bright horizontal band at a class-specific position over low noise,
// so a model can actually learn to separate the classes.
package synthetic

import (
	"fmt"
	"io"
	"math/rand"

	"github.com/gomlx/gomlx/types/tensors"
)

// Config describes the dataset to generate.
type Config struct {
	Samples    int
	ImageSize  int
	Channels   int
	NumClasses int

	// Seed for the noise generator. The same seed always produces the
	// same dataset.
	Seed int64
}

// Data holds a generated dataset in host memory.
type Data struct {
	Images [][]float32 // [samples, imageSize*imageSize*channels], NHWC row-major
	Labels []int32     // [samples]

	ImageSize  int
	Channels   int
	NumClasses int
}

// New generates a dataset per cfg. Labels cycle through the classes so
// the dataset stays balanced, and every pixel lands in [0, 1).
// Non-positive dimensions or class counts panic.
func New(cfg Config) *Data {
	if cfg.Samples < 0 || cfg.ImageSize < 1 || cfg.Channels < 1 || cfg.NumClasses < 1 {
		panic(fmt.Sprintf("synthetic: invalid config: %+v", cfg))
	}
	rng := rand.New(rand.NewSource(cfg.Seed))
	pixels := cfg.ImageSize * cfg.ImageSize * cfg.Channels

	bandHeight := cfg.ImageSize / cfg.NumClasses
	if bandHeight < 1 {
		bandHeight = 1
	}

	images := make([][]float32, cfg.Samples)
	labels := make([]int32, cfg.Samples)
	for i := 0; i < cfg.Samples; i++ {
		label := int32(i % cfg.NumClasses)
		labels[i] = label

		img := make([]float32, pixels)
		for j := range img {
			img[j] = 0.1 * rng.Float32()
		}

		// Bright band whose row position encodes the class.
		band := (int(label) * cfg.ImageSize) / cfg.NumClasses
		for row := band; row < band+bandHeight && row < cfg.ImageSize; row++ {
			for col := 0; col < cfg.ImageSize; col++ {
				for ch := 0; ch < cfg.Channels; ch++ {
					idx := (row*cfg.ImageSize+col)*cfg.Channels + ch
					img[idx] = 0.7 + 0.3*rng.Float32()
				}
			}
		}
		images[i] = img
	}

	return &Data{
		Images:     images,
		Labels:     labels,
		ImageSize:  cfg.ImageSize,
		Channels:   cfg.Channels,
		NumClasses: cfg.NumClasses,
	}
}

// NumSamples returns the total number of samples in the dataset.
func (d *Data) NumSamples() int {
	return len(d.Images)
}

// Split splits the dataset into train and validation sets.
//
// Parameters:
//   - validationRatio: Fraction of data to use for validation (e.g., 0.2 for 20%)
//
// Returns:
//   - trainData, validationData
func (d *Data) Split(validationRatio float64) (*Data, *Data) {
	splitIdx := int(float64(d.NumSamples()) * (1.0 - validationRatio))

	train := *d
	train.Images = d.Images[:splitIdx]
	train.Labels = d.Labels[:splitIdx]

	validation := *d
	validation.Images = d.Images[splitIdx:]
	validation.Labels = d.Labels[splitIdx:]

	return &train, &validation
}

// Dataset streams mini-batches of a Data as tensors. It implements
// train.Dataset from github.com/gomlx/gomlx/ml/train.
type Dataset struct {
	name      string
	data      *Data
	batchSize int
	loop      bool
	next      int
}

// Batches wraps the dataset in a batch iterator.
//
// Parameters:
//   - name: Dataset name reported to the training loop
//   - batchSize: Number of samples per yielded batch
//   - loop: If true, Yield restarts from the beginning instead of
//     returning io.EOF, for use with step-driven training loops
//
// Samples that do not fill a whole batch are dropped.
func (d *Data) Batches(name string, batchSize int, loop bool) (*Dataset, error) {
	if len(d.Images) != len(d.Labels) {
		return nil, fmt.Errorf("images and labels length mismatch: %d vs %d", len(d.Images), len(d.Labels))
	}
	if batchSize < 1 || batchSize > d.NumSamples() {
		return nil, fmt.Errorf("batch size %d out of range [1, %d]", batchSize, d.NumSamples())
	}
	return &Dataset{
		name:      name,
		data:      d,
		batchSize: batchSize,
		loop:      loop,
	}, nil
}

// Name implements train.Dataset.
func (ds *Dataset) Name() string { return ds.name }

// Yield implements train.Dataset. It returns one batch of images shaped
// [batch, size, size, channels] and one-hot labels shaped
// [batch, numClasses], both float32.
func (ds *Dataset) Yield() (spec any, inputs, labels []*tensors.Tensor, err error) {
	d := ds.data
	if ds.next+ds.batchSize > d.NumSamples() {
		if !ds.loop {
			return nil, nil, nil, io.EOF
		}
		ds.next = 0
	}

	pixels := d.ImageSize * d.ImageSize * d.Channels
	imagesFlat := make([]float32, ds.batchSize*pixels)
	labelsFlat := make([]float32, ds.batchSize*d.NumClasses)
	for i := 0; i < ds.batchSize; i++ {
		sample := ds.next + i
		copy(imagesFlat[i*pixels:(i+1)*pixels], d.Images[sample])
		labelsFlat[i*d.NumClasses+int(d.Labels[sample])] = 1
	}
	ds.next += ds.batchSize

	images := tensors.FromFlatDataAndDimensions(imagesFlat, ds.batchSize, d.ImageSize, d.ImageSize, d.Channels)
	oneHot := tensors.FromFlatDataAndDimensions(labelsFlat, ds.batchSize, d.NumClasses)
	return nil, []*tensors.Tensor{images}, []*tensors.Tensor{oneHot}, nil
}

// Reset implements train.Dataset, restarting the iterator.
func (ds *Dataset) Reset() {
	ds.next = 0
}
