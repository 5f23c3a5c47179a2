package detector

import (
	"gocv.io/x/gocv"

	"github.com/avasarala/signvoice/internal/landmark"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	vector  landmark.Vector
	present bool
	err     error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetVector sets the landmark vector that will be returned by Detect.
func (m *MockDetector) SetVector(v landmark.Vector) {
	m.vector = v
	m.present = true
	m.err = nil
}

// SetNone makes Detect report that no hands are present.
func (m *MockDetector) SetNone() {
	m.vector = landmark.Vector{}
	m.present = false
	m.err = nil
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured vector, presence flag, or error.
func (m *MockDetector) Detect(frame *gocv.Mat) (landmark.Vector, bool, error) {
	if m.err != nil {
		return landmark.Vector{}, false, m.err
	}
	return m.vector, m.present, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// ThumbsUpHand returns a preset hand shaped like a thumbs up.
// The thumb is extended upward while other fingers are curled.
func ThumbsUpHand() [landmark.NumLandmarks]landmark.Point3D {
	var points [landmark.NumLandmarks]landmark.Point3D

	points[landmark.Wrist] = landmark.Point3D{X: 0.5, Y: 0.8, Z: 0.0}

	// Thumb extended upward (Y decreases going up)
	points[landmark.ThumbCMC] = landmark.Point3D{X: 0.55, Y: 0.75, Z: 0.0}
	points[landmark.ThumbMCP] = landmark.Point3D{X: 0.58, Y: 0.65, Z: 0.0}
	points[landmark.ThumbIP] = landmark.Point3D{X: 0.58, Y: 0.50, Z: 0.0}
	points[landmark.ThumbTip] = landmark.Point3D{X: 0.58, Y: 0.35, Z: 0.0}

	// Index finger curled
	points[landmark.IndexMCP] = landmark.Point3D{X: 0.55, Y: 0.70, Z: -0.02}
	points[landmark.IndexPIP] = landmark.Point3D{X: 0.55, Y: 0.68, Z: -0.05}
	points[landmark.IndexDIP] = landmark.Point3D{X: 0.52, Y: 0.70, Z: -0.04}
	points[landmark.IndexTip] = landmark.Point3D{X: 0.50, Y: 0.72, Z: -0.02}

	// Middle finger curled
	points[landmark.MiddleMCP] = landmark.Point3D{X: 0.50, Y: 0.68, Z: -0.02}
	points[landmark.MiddlePIP] = landmark.Point3D{X: 0.50, Y: 0.66, Z: -0.05}
	points[landmark.MiddleDIP] = landmark.Point3D{X: 0.47, Y: 0.68, Z: -0.04}
	points[landmark.MiddleTip] = landmark.Point3D{X: 0.45, Y: 0.70, Z: -0.02}

	// Ring finger curled
	points[landmark.RingMCP] = landmark.Point3D{X: 0.45, Y: 0.70, Z: -0.02}
	points[landmark.RingPIP] = landmark.Point3D{X: 0.45, Y: 0.68, Z: -0.05}
	points[landmark.RingDIP] = landmark.Point3D{X: 0.42, Y: 0.70, Z: -0.04}
	points[landmark.RingTip] = landmark.Point3D{X: 0.40, Y: 0.72, Z: -0.02}

	// Pinky finger curled
	points[landmark.PinkyMCP] = landmark.Point3D{X: 0.40, Y: 0.72, Z: -0.02}
	points[landmark.PinkyPIP] = landmark.Point3D{X: 0.40, Y: 0.70, Z: -0.05}
	points[landmark.PinkyDIP] = landmark.Point3D{X: 0.37, Y: 0.72, Z: -0.04}
	points[landmark.PinkyTip] = landmark.Point3D{X: 0.35, Y: 0.74, Z: -0.02}

	return points
}

// OpenPalmHand returns a preset hand with all fingers extended.
func OpenPalmHand() [landmark.NumLandmarks]landmark.Point3D {
	var points [landmark.NumLandmarks]landmark.Point3D

	points[landmark.Wrist] = landmark.Point3D{X: 0.5, Y: 0.8, Z: 0.0}

	// Thumb extended to the side
	points[landmark.ThumbCMC] = landmark.Point3D{X: 0.55, Y: 0.75, Z: 0.02}
	points[landmark.ThumbMCP] = landmark.Point3D{X: 0.62, Y: 0.70, Z: 0.03}
	points[landmark.ThumbIP] = landmark.Point3D{X: 0.68, Y: 0.65, Z: 0.03}
	points[landmark.ThumbTip] = landmark.Point3D{X: 0.73, Y: 0.60, Z: 0.03}

	// Index finger extended upward
	points[landmark.IndexMCP] = landmark.Point3D{X: 0.55, Y: 0.68, Z: 0.0}
	points[landmark.IndexPIP] = landmark.Point3D{X: 0.57, Y: 0.55, Z: 0.0}
	points[landmark.IndexDIP] = landmark.Point3D{X: 0.58, Y: 0.45, Z: 0.0}
	points[landmark.IndexTip] = landmark.Point3D{X: 0.58, Y: 0.35, Z: 0.0}

	// Middle finger extended upward
	points[landmark.MiddleMCP] = landmark.Point3D{X: 0.50, Y: 0.66, Z: 0.0}
	points[landmark.MiddlePIP] = landmark.Point3D{X: 0.50, Y: 0.52, Z: 0.0}
	points[landmark.MiddleDIP] = landmark.Point3D{X: 0.50, Y: 0.40, Z: 0.0}
	points[landmark.MiddleTip] = landmark.Point3D{X: 0.50, Y: 0.28, Z: 0.0}

	// Ring finger extended upward
	points[landmark.RingMCP] = landmark.Point3D{X: 0.45, Y: 0.68, Z: 0.0}
	points[landmark.RingPIP] = landmark.Point3D{X: 0.43, Y: 0.55, Z: 0.0}
	points[landmark.RingDIP] = landmark.Point3D{X: 0.42, Y: 0.45, Z: 0.0}
	points[landmark.RingTip] = landmark.Point3D{X: 0.42, Y: 0.35, Z: 0.0}

	// Pinky finger extended upward
	points[landmark.PinkyMCP] = landmark.Point3D{X: 0.40, Y: 0.70, Z: 0.0}
	points[landmark.PinkyPIP] = landmark.Point3D{X: 0.37, Y: 0.60, Z: 0.0}
	points[landmark.PinkyDIP] = landmark.Point3D{X: 0.35, Y: 0.50, Z: 0.0}
	points[landmark.PinkyTip] = landmark.Point3D{X: 0.34, Y: 0.42, Z: 0.0}

	return points
}
