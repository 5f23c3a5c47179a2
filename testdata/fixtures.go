// Package testdata provides deterministic landmark fixtures for tests.
package testdata

import (
	"github.com/avasarala/signvoice/internal/landmark"
)

// Hand builds a synthetic one-hand pose. The wrist sits at (wristX, wristY)
// and the remaining landmarks fan out by spread, so different spreads give
// poses a classifier can tell apart while translation only moves the wrist.
func Hand(wristX, wristY, spread float64) [landmark.NumLandmarks]landmark.Point3D {
	var points [landmark.NumLandmarks]landmark.Point3D

	points[landmark.Wrist] = landmark.Point3D{X: wristX, Y: wristY}
	for i := 1; i < landmark.NumLandmarks; i++ {
		points[i] = landmark.Point3D{
			X: wristX + spread*float64(i),
			Y: wristY - spread*float64(i)/2,
			Z: spread / 10,
		}
	}

	return points
}

// Vector flattens a synthetic one-hand pose into a landmark vector.
func Vector(wristX, wristY, spread float64) landmark.Vector {
	return landmark.FromHands(Hand(wristX, wristY, spread))
}

// Samples returns n copies of the same pose translated to different wrist
// positions. After normalization they collapse onto one centroid, which
// mimics a signer holding a sign while drifting in front of the camera.
func Samples(n int, spread float64) [][]float64 {
	samples := make([][]float64, n)
	for i := range samples {
		v := Vector(0.1*float64(i), 0.5, spread)
		samples[i] = v[:]
	}
	return samples
}
