package classify

import (
	"github.com/avasarala/signvoice/internal/landmark"
)

// MockClassifier is a test implementation of the Classifier interface.
// It allows tests to control the returned distribution.
type MockClassifier struct {
	scores []Score
	err    error
	calls  int
}

// NewMockClassifier creates a new MockClassifier instance.
func NewMockClassifier() *MockClassifier {
	return &MockClassifier{}
}

// SetScores sets the distribution that will be returned by Predict.
func (m *MockClassifier) SetScores(scores []Score) {
	m.scores = scores
	m.err = nil
}

// SetError sets the error that will be returned by Predict.
func (m *MockClassifier) SetError(err error) {
	m.err = err
}

// Calls returns how many times Predict has been invoked.
func (m *MockClassifier) Calls() int {
	return m.calls
}

// Predict returns the pre-configured distribution or error.
func (m *MockClassifier) Predict(features landmark.Vector) ([]Score, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.scores, nil
}

// Labels returns the labels of the pre-configured distribution.
func (m *MockClassifier) Labels() []string {
	labels := make([]string, 0, len(m.scores))
	for _, s := range m.scores {
		labels = append(labels, s.Label)
	}
	return labels
}

// Close is a no-op for the mock classifier.
func (m *MockClassifier) Close() error {
	return nil
}
