// Package landmark defines the hand landmark feature vector consumed by the
// sign classifier and the wrist-relative normalization applied to it.
package landmark

import "fmt"

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Feature vector dimensions. A frame carries up to two hands, each hand
// contributing 21 landmarks with x, y, z coordinates. Slots for an absent
// hand are zero-filled.
const (
	MaxHands       = 2
	CoordsPerPoint = 3
	HandStride     = NumLandmarks * CoordsPerPoint
	FeatureSize    = MaxHands * HandStride
)

// Point3D represents a 3D point in space with x, y, z coordinates.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Vector is the fixed-length feature vector for a single frame.
type Vector [FeatureSize]float64

// FromSlice converts a raw float slice into a Vector.
// A slice of any length other than FeatureSize is a contract violation
// from the upstream detector and is rejected.
func FromSlice(values []float64) (Vector, error) {
	var v Vector
	if len(values) != FeatureSize {
		return v, fmt.Errorf("landmark vector has %d values, expected %d", len(values), FeatureSize)
	}
	copy(v[:], values)
	return v, nil
}

// FromHands flattens up to MaxHands hand landmark sets into a Vector.
// Missing hands leave their slots zero-filled.
func FromHands(hands ...[NumLandmarks]Point3D) Vector {
	var v Vector
	for h, hand := range hands {
		if h >= MaxHands {
			break
		}
		base := h * HandStride
		for i, p := range hand {
			v[base+i*CoordsPerPoint] = p.X
			v[base+i*CoordsPerPoint+1] = p.Y
			v[base+i*CoordsPerPoint+2] = p.Z
		}
	}
	return v
}

// HandPresent reports whether the given hand slot (0 or 1) contains data.
// An all-zero slice means the detector saw no hand in that slot.
func (v Vector) HandPresent(hand int) bool {
	if hand < 0 || hand >= MaxHands {
		return false
	}
	base := hand * HandStride
	for i := base; i < base+HandStride; i++ {
		if v[i] != 0 {
			return true
		}
	}
	return false
}

// Hands returns the number of hand slots containing data.
func (v Vector) Hands() int {
	n := 0
	for h := 0; h < MaxHands; h++ {
		if v.HandPresent(h) {
			n++
		}
	}
	return n
}

// Normalize expresses each present hand's landmarks relative to that hand's
// wrist landmark, making the representation invariant to where the hand
// appears in the frame. The wrist itself becomes (0,0,0). An absent
// (all-zero) hand is left unchanged, since there is no wrist to subtract.
// Returns a new Vector; the receiver is not modified.
func (v Vector) Normalize() Vector {
	out := v

	for h := 0; h < MaxHands; h++ {
		if !out.HandPresent(h) {
			continue
		}

		base := h * HandStride
		wristX := out[base]
		wristY := out[base+1]
		wristZ := out[base+2]

		for i := base; i < base+HandStride; i += CoordsPerPoint {
			out[i] -= wristX
			out[i+1] -= wristY
			out[i+2] -= wristZ
		}
	}

	return out
}
