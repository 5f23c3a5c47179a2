// Package detector provides hand detection for sign recognition.
package detector

import (
	"gocv.io/x/gocv"

	"github.com/avasarala/signvoice/internal/landmark"
)

// Detector defines the interface for hand detection implementations.
type Detector interface {
	// Detect analyzes a video frame and returns the flattened landmark
	// vector for up to two detected hands. The boolean is false when no
	// hands are present in the frame.
	Detect(frame *gocv.Mat) (landmark.Vector, bool, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for hand detection.
type Config struct {
	// MaxHands is the maximum number of hands to detect (default: 2).
	MaxHands int

	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		MaxHands:        landmark.MaxHands,
		MinConfidence:   0.5,
		MinTrackingConf: 0.5,
	}
}
