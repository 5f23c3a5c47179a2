// Package classify provides the sign classifier capability interface and its
// implementations. The recognition pipeline consumes classifiers opaquely:
// given a normalized landmark vector, a classifier returns a probability
// distribution over a fixed set of sign labels.
package classify

import (
	"github.com/avasarala/signvoice/internal/landmark"
)

// Score pairs a sign label with its predicted probability.
type Score struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Classifier is the capability interface for sign classification backends.
type Classifier interface {
	// Predict returns a probability distribution over the known sign labels
	// for the given normalized landmark vector.
	Predict(features landmark.Vector) ([]Score, error)

	// Labels returns the fixed label set this classifier predicts over.
	Labels() []string

	// Close releases any resources held by the classifier.
	Close() error
}

// Top extracts the arg-max score from a distribution.
// Returns false if the distribution is empty.
func Top(scores []Score) (Score, bool) {
	if len(scores) == 0 {
		return Score{}, false
	}

	best := scores[0]
	for _, s := range scores[1:] {
		if s.Confidence > best.Confidence {
			best = s
		}
	}
	return best, true
}
