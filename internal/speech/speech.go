// Package speech provides the spoken-output sink for recognized signs.
// Synthesis runs in an external TTS binary so the frame loop never blocks
// on audio rendering.
package speech

import (
	"context"
	"fmt"
	"log"
	"os/exec"
	"strconv"
	"sync/atomic"
	"time"
)

// DefaultBinary is the TTS binary used when none is configured.
const DefaultBinary = "espeak"

// speakTimeout bounds a single synthesis run so a wedged TTS binary cannot
// hold the busy flag forever.
const speakTimeout = 10 * time.Second

// Speaker is the interface for spoken announcement output.
type Speaker interface {
	// Speak renders the text as speech. It must return immediately;
	// rendering happens asynchronously.
	Speak(text string)

	// Close releases any resources held by the speaker.
	Close() error
}

// Engine speaks text by shelling out to a TTS binary (espeak by default).
// While one utterance is rendering, further Speak calls are dropped rather
// than queued; a sign announced mid-utterance is simply lost, matching the
// frame cadence being much faster than speech.
type Engine struct {
	binary   string
	rate     int
	volume   float64
	speaking atomic.Bool

	// runCommand is swappable for tests.
	runCommand func(ctx context.Context, name string, args ...string) error
}

// Config holds speech engine settings.
type Config struct {
	// Binary is the TTS executable. Empty means DefaultBinary.
	Binary string

	// Rate is words per minute (espeak -s).
	Rate int

	// Volume is output volume in [0,1], mapped to espeak amplitude.
	Volume float64
}

// NewEngine creates a speech Engine with the given configuration.
func NewEngine(cfg Config) *Engine {
	binary := cfg.Binary
	if binary == "" {
		binary = DefaultBinary
	}

	return &Engine{
		binary: binary,
		rate:   cfg.Rate,
		volume: cfg.Volume,
		runCommand: func(ctx context.Context, name string, args ...string) error {
			return exec.CommandContext(ctx, name, args...).Run()
		},
	}
}

// Speak renders text asynchronously. Dropped silently if an utterance is
// already in progress.
func (e *Engine) Speak(text string) {
	if text == "" {
		return
	}

	if !e.speaking.CompareAndSwap(false, true) {
		return
	}

	go func() {
		defer e.speaking.Store(false)

		ctx, cancel := context.WithTimeout(context.Background(), speakTimeout)
		defer cancel()

		if err := e.runCommand(ctx, e.binary, e.args(text)...); err != nil {
			log.Printf("speech: %v", err)
		}
	}()
}

// Speaking reports whether an utterance is currently rendering.
func (e *Engine) Speaking() bool {
	return e.speaking.Load()
}

// Close is a no-op; any in-flight utterance finishes on its own.
func (e *Engine) Close() error {
	return nil
}

// args builds the espeak argument list: -s <rate> -a <amplitude> <text>.
// Amplitude is espeak's 0-200 scale.
func (e *Engine) args(text string) []string {
	var args []string
	if e.rate > 0 {
		args = append(args, "-s", strconv.Itoa(e.rate))
	}
	if e.volume > 0 {
		amplitude := int(e.volume * 200)
		if amplitude > 200 {
			amplitude = 200
		}
		args = append(args, "-a", strconv.Itoa(amplitude))
	}
	return append(args, text)
}

// Mock is a test implementation of the Speaker interface that records
// spoken text.
type Mock struct {
	Spoken []string
}

// NewMock creates a new Mock speaker.
func NewMock() *Mock {
	return &Mock{}
}

// Speak records the text.
func (m *Mock) Speak(text string) {
	m.Spoken = append(m.Spoken, text)
}

// Close is a no-op for the mock speaker.
func (m *Mock) Close() error {
	return nil
}

var _ Speaker = (*Engine)(nil)
var _ Speaker = (*Mock)(nil)

// String describes the engine for logs.
func (e *Engine) String() string {
	return fmt.Sprintf("speech engine (%s, rate=%d)", e.binary, e.rate)
}
