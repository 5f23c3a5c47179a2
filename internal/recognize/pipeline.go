package recognize

import (
	"fmt"
	"time"

	"github.com/avasarala/signvoice/internal/classify"
	"github.com/avasarala/signvoice/internal/landmark"
)

// Config holds the decision parameters for the recognition pipeline.
type Config struct {
	// ConfidenceThreshold is the minimum prediction confidence for a frame
	// to count toward stability (0.0-1.0).
	ConfidenceThreshold float64

	// StabilityFrames is how many consecutive identical predictions are
	// required before a sign is considered held (>= 1).
	StabilityFrames int

	// Cooldown is the minimum time before the same sign may be announced
	// again (>= 0).
	Cooldown time.Duration
}

// Validate checks the configuration for contract violations.
func (c Config) Validate() error {
	if c.ConfidenceThreshold < 0 || c.ConfidenceThreshold > 1 {
		return fmt.Errorf("confidence threshold %f outside [0,1]", c.ConfidenceThreshold)
	}
	if c.StabilityFrames < 1 {
		return fmt.Errorf("stability frames must be >= 1, got %d", c.StabilityFrames)
	}
	if c.Cooldown < 0 {
		return fmt.Errorf("cooldown must be >= 0, got %v", c.Cooldown)
	}
	return nil
}

// Announcement is the discrete output event of the pipeline: a sign that was
// held steadily, passed the confidence threshold, and cleared the cooldown.
type Announcement struct {
	Label      string    `json:"label"`
	Confidence float64   `json:"confidence"`
	At         time.Time `json:"at"`
}

// Sink receives announcement events. Implementations must not block; speech
// rendering and other slow consumers run on their own goroutines.
type Sink interface {
	Announce(a Announcement)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(a Announcement)

// Announce calls f(a).
func (f SinkFunc) Announce(a Announcement) {
	f(a)
}

// Pipeline orchestrates the per-frame decision flow: normalize landmarks,
// classify, threshold, track stability, gate, and emit. The pipeline owns
// the only mutable recognition state (stability window, last announcement)
// and must be driven from a single goroutine. It performs no I/O; emitting
// is a handoff to the configured sink.
type Pipeline struct {
	cfg        Config
	classifier classify.Classifier
	tracker    *StabilityTracker
	gate       *Gate
	sink       Sink
}

// NewPipeline creates a Pipeline with the given configuration, classifier,
// and announcement sink. The sink may be nil, in which case announcements
// are only returned to the caller.
func NewPipeline(cfg Config, classifier classify.Classifier, sink Sink) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if classifier == nil {
		return nil, fmt.Errorf("classifier is required")
	}

	return &Pipeline{
		cfg:        cfg,
		classifier: classifier,
		tracker:    NewStabilityTracker(cfg.StabilityFrames),
		gate:       NewGate(cfg.Cooldown),
		sink:       sink,
	}, nil
}

// ProcessFrame runs one frame through the pipeline. A nil raw slice means
// "no hands detected" this frame, which clears the stability window.
// Returns the announcement fired on this frame, if any.
//
// A wrong-length vector or an out-of-range confidence is a contract
// violation from an upstream collaborator and is returned as an error.
// Classifier failures are also returned; in every error case the stability
// window is cleared first, so a skipped frame degrades exactly like a frame
// with no hands.
func (p *Pipeline) ProcessFrame(raw []float64, at time.Time) (*Announcement, error) {
	if raw == nil {
		p.tracker.Clear()
		return nil, nil
	}

	vec, err := landmark.FromSlice(raw)
	if err != nil {
		p.tracker.Clear()
		return nil, err
	}

	scores, err := p.classifier.Predict(vec.Normalize())
	if err != nil {
		p.tracker.Clear()
		return nil, fmt.Errorf("classify frame: %w", err)
	}

	top, ok := classify.Top(scores)
	if !ok {
		p.tracker.Clear()
		return nil, nil
	}

	if top.Label == "" {
		p.tracker.Clear()
		return nil, fmt.Errorf("classifier returned empty label")
	}
	if top.Confidence < 0 || top.Confidence > 1 {
		p.tracker.Clear()
		return nil, fmt.Errorf("classifier confidence %f outside [0,1]", top.Confidence)
	}

	if top.Confidence < p.cfg.ConfidenceThreshold {
		p.tracker.Clear()
		return nil, nil
	}

	if !p.tracker.Observe(top.Label) {
		return nil, nil
	}

	if !p.gate.ShouldAnnounce(top.Label, at) {
		// Window stays stable; nothing fires until the sign changes or the
		// cooldown elapses. Re-evaluating here every frame is intended.
		return nil, nil
	}

	a := Announcement{
		Label:      top.Label,
		Confidence: top.Confidence,
		At:         at,
	}
	if p.sink != nil {
		p.sink.Announce(a)
	}

	// A fired announcement always starts a fresh stability window.
	p.tracker.Clear()

	return &a, nil
}

// Reset clears the stability window and forgets the last announcement.
// Mirrors the operator-facing reset in the inference loop.
func (p *Pipeline) Reset() {
	p.tracker.Clear()
	p.gate.Reset()
}

// Progress returns the current fill of the stability window as
// (observed, required). Used for status reporting.
func (p *Pipeline) Progress() (int, int) {
	return p.tracker.Len(), p.tracker.Cap()
}
