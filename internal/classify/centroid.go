package classify

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/avasarala/signvoice/internal/landmark"
)

// CentroidClassifier classifies landmark vectors by distance to per-sign
// centroid templates. Each centroid is the mean of the normalized sample
// vectors recorded for that sign. It serves as the built-in classifier when
// no external model service is configured.
type CentroidClassifier struct {
	mu        sync.RWMutex
	centroids map[string]landmark.Vector
}

// NewCentroidClassifier creates an empty CentroidClassifier.
func NewCentroidClassifier() *CentroidClassifier {
	return &CentroidClassifier{
		centroids: make(map[string]landmark.Vector),
	}
}

// SetClass computes and stores the centroid for a sign label from recorded
// samples. Samples are normalized before averaging so the centroid lives in
// the same wrist-relative space as pipeline input.
func (c *CentroidClassifier) SetClass(label string, samples []landmark.Vector) error {
	if label == "" {
		return fmt.Errorf("empty sign label")
	}
	if len(samples) == 0 {
		return fmt.Errorf("no samples provided for sign %q", label)
	}

	var centroid landmark.Vector
	for _, s := range samples {
		norm := s.Normalize()
		for i := range centroid {
			centroid[i] += norm[i]
		}
	}

	n := float64(len(samples))
	for i := range centroid {
		centroid[i] /= n
	}

	c.mu.Lock()
	c.centroids[label] = centroid
	c.mu.Unlock()

	return nil
}

// RemoveClass drops the centroid for a sign label, if present.
func (c *CentroidClassifier) RemoveClass(label string) {
	c.mu.Lock()
	delete(c.centroids, label)
	c.mu.Unlock()
}

// Predict scores the input against every centroid and converts the distances
// into a probability distribution. Closer centroids receive higher weight
// using 1/(1+distance); weights are normalized to sum to 1.
func (c *CentroidClassifier) Predict(features landmark.Vector) ([]Score, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(c.centroids) == 0 {
		return nil, fmt.Errorf("no sign classes loaded")
	}

	scores := make([]Score, 0, len(c.centroids))
	var total float64

	for label, centroid := range c.centroids {
		weight := 1.0 / (1.0 + vectorDistance(features, centroid))
		scores = append(scores, Score{Label: label, Confidence: weight})
		total += weight
	}

	for i := range scores {
		scores[i].Confidence /= total
	}

	// Stable label order for callers that render the distribution.
	sort.Slice(scores, func(i, j int) bool {
		return scores[i].Label < scores[j].Label
	})

	return scores, nil
}

// Labels returns the known sign labels in sorted order.
func (c *CentroidClassifier) Labels() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	labels := make([]string, 0, len(c.centroids))
	for label := range c.centroids {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// Close is a no-op for the in-process classifier.
func (c *CentroidClassifier) Close() error {
	return nil
}

// vectorDistance sums the per-landmark Euclidean distance between two
// feature vectors.
func vectorDistance(a, b landmark.Vector) float64 {
	var total float64
	for i := 0; i < landmark.FeatureSize; i += landmark.CoordsPerPoint {
		dx := a[i] - b[i]
		dy := a[i+1] - b[i+1]
		dz := a[i+2] - b[i+2]
		total += math.Sqrt(dx*dx + dy*dy + dz*dz)
	}
	return total
}
