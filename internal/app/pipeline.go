package app

import (
	"log"
	"time"

	"github.com/avasarala/signvoice/internal/recognize"
)

// Frame loop timing constants.
const (
	// IdleFPS is the frame rate when no motion is detected.
	IdleFPS = 5
	// ActiveFPS is the frame rate during active recognition.
	ActiveFPS = 15
	// IdleTimeout is how long without motion before dropping back to idle.
	IdleTimeout = 2 * time.Second
)

// runLoop is the capture loop. It reads frames at a motion-gated rate and
// feeds them through the recognition pipeline.
//
// The loop idles at a low frame rate until motion is detected, then runs
// hand detection at the active rate. After IdleTimeout without motion it
// drops back to idle and clears the stability window, since nobody is
// signing at an empty camera.
func (a *App) runLoop(stopCh <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	activeMode := false
	lastMotionTime := time.Now()

	frameInterval := time.Second / time.Duration(IdleFPS)
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			frame, err := a.camera.ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				continue
			}

			motionDetected, _ := a.motion.Detect(frame)
			now := time.Now()

			if motionDetected {
				lastMotionTime = now

				if !activeMode {
					activeMode = true
					a.camera.SetFPS(ActiveFPS)
					frameInterval = time.Second / time.Duration(ActiveFPS)
					ticker.Reset(frameInterval)
					log.Println("Switched to active mode")
				}
			} else if activeMode && now.Sub(lastMotionTime) > IdleTimeout {
				activeMode = false
				a.camera.SetFPS(IdleFPS)
				frameInterval = time.Second / time.Duration(IdleFPS)
				ticker.Reset(frameInterval)
				// Nobody is signing; a stale window must not carry over.
				a.processFrame(nil, now)
				log.Println("Switched to idle mode")
			}

			if !activeMode {
				frame.Close()
				continue
			}

			vec, present, err := a.detector.Detect(frame)
			frame.Close()

			if err != nil {
				log.Printf("Error detecting hands: %v", err)
				a.processFrame(nil, now)
				continue
			}

			if !present {
				a.processFrame(nil, now)
				continue
			}

			raw := vec[:]
			if _, err := a.processFrame(raw, now); err != nil {
				log.Printf("Error processing frame: %v", err)
			}
		}
	}
}

// processFrame runs one frame through the engine under the app lock, so
// settings updates can swap the engine safely.
func (a *App) processFrame(raw []float64, at time.Time) (*recognize.Announcement, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.engine.ProcessFrame(raw, at)
}
