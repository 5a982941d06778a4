package dataset

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

const clusterSpread = 2.0

// Synthesize builds a balanced classification frame with features
// feature_0..feature_{features-1}. Each class is a Gaussian cluster around its
// own random centroid. The same seed always yields the same frame.
func Synthesize(samples, features, classes int, seed uint64) (*Frame, error) {
	if samples <= 0 || features <= 0 || classes < 2 {
		return nil, fmt.Errorf("invalid synthetic dataset shape: samples=%d features=%d classes=%d", samples, features, classes)
	}

	src := rand.NewPCG(seed, seed)
	rng := rand.New(src)

	centroid := distuv.Normal{Mu: 0, Sigma: clusterSpread, Src: src}
	noise := distuv.Normal{Mu: 0, Sigma: 1, Src: src}

	centroids := make([][]float64, classes)
	for c := range centroids {
		centroids[c] = make([]float64, features)
		for f := range centroids[c] {
			centroids[c][f] = centroid.Rand()
		}
	}

	labels := make([]float64, samples)
	for i := range labels {
		labels[i] = float64(i % classes)
	}
	rng.Shuffle(len(labels), func(i, j int) { labels[i], labels[j] = labels[j], labels[i] })

	frame := &Frame{
		Features: make([]Column, features),
		Target:   Column{Name: TargetColumn, DType: Int64, Values: labels},
	}
	for f := range frame.Features {
		values := make([]float64, samples)
		for i, label := range labels {
			values[i] = centroids[int(label)][f] + noise.Rand()
		}
		frame.Features[f] = Column{Name: fmt.Sprintf("feature_%d", f), DType: Float64, Values: values}
	}

	return frame, nil
}
