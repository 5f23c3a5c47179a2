// Package app wires the SignVoice components together: camera capture,
// hand detection, the recognition pipeline, speech output, and persistence.
package app

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/avasarala/signvoice/internal/capture"
	"github.com/avasarala/signvoice/internal/classify"
	"github.com/avasarala/signvoice/internal/config"
	"github.com/avasarala/signvoice/internal/detector"
	"github.com/avasarala/signvoice/internal/landmark"
	"github.com/avasarala/signvoice/internal/recognize"
	"github.com/avasarala/signvoice/internal/speech"
	"github.com/avasarala/signvoice/internal/store"
)

// Notifier receives recognition events for pushing to clients. The server
// event hub implements it.
type Notifier interface {
	Publish(event string, data any)
}

// Options holds the collaborators and configuration for a new App.
// Nil Camera, Detector, Classifier, and Speaker fields are filled with
// defaults built from the configuration.
type Options struct {
	Store      *store.Store
	Config     config.Config
	ConfigPath string
	Camera     capture.Camera
	Detector   detector.Detector
	Classifier classify.Classifier
	Speaker    speech.Speaker
	Notifier   Notifier
}

// App is the main application that drives the capture loop and feeds the
// recognition pipeline.
type App struct {
	store    *store.Store
	cfgPath  string
	camera   capture.Camera
	motion   *capture.MotionDetector
	detector detector.Detector
	speaker  speech.Speaker
	notifier Notifier

	mu         sync.RWMutex
	cfg        config.Config
	classifier classify.Classifier
	engine     *recognize.Pipeline
	stopCh     chan struct{}
	loopDone   chan struct{}

	lastLabel string
	lastConf  float64
	lastAt    time.Time

	// announceCh hands announcements from the frame loop to the dispatch
	// goroutine. Sends never block; a full channel drops the event.
	announceCh chan recognize.Announcement
	dispatchWG sync.WaitGroup
}

// New creates a new App instance with the given options.
func New(opts Options) (*App, error) {
	cfg := opts.Config

	a := &App{
		store:      opts.Store,
		cfgPath:    opts.ConfigPath,
		cfg:        cfg,
		camera:     opts.Camera,
		motion:     capture.NewMotionDetector(cfg.MotionThreshold),
		detector:   opts.Detector,
		speaker:    opts.Speaker,
		notifier:   opts.Notifier,
		classifier: opts.Classifier,
		announceCh: make(chan recognize.Announcement, 8),
	}

	if a.camera == nil {
		a.camera = capture.NewCamera(cfg.CameraID, cfg.CameraWidth, cfg.CameraHeight)
	}

	if a.detector == nil {
		// Try MediaPipe first, fall back to mock detector
		if mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig()); err == nil {
			a.detector = mp
			log.Println("Using MediaPipe hand detection")
		} else {
			log.Printf("MediaPipe not available (%v), using mock detector", err)
			a.detector = detector.NewMockDetector()
		}
	}

	if a.classifier == nil {
		if len(cfg.ModelCommand) > 0 {
			svc, err := classify.NewServiceClassifier(cfg.ModelCommand)
			if err != nil {
				return nil, fmt.Errorf("model service: %w", err)
			}
			a.classifier = svc
			log.Printf("Using model service: %v", cfg.ModelCommand)
		} else {
			a.classifier = classify.NewCentroidClassifier()
		}
	}

	if a.speaker == nil {
		a.speaker = speech.NewEngine(speech.Config{
			Binary: cfg.SpeechBinary,
			Rate:   cfg.SpeechRate,
			Volume: cfg.SpeechVolume,
		})
	}

	engine, err := recognize.NewPipeline(recognize.Config{
		ConfidenceThreshold: cfg.ConfidenceThreshold,
		StabilityFrames:     cfg.StabilityFrames,
		Cooldown:            cfg.Cooldown(),
	}, a.classifier, recognize.SinkFunc(a.enqueue))
	if err != nil {
		return nil, err
	}
	a.engine = engine

	a.dispatchWG.Add(1)
	go a.dispatch()

	return a, nil
}

// enqueue is the pipeline sink. It must not block the frame loop.
func (a *App) enqueue(ann recognize.Announcement) {
	select {
	case a.announceCh <- ann:
	default:
		log.Printf("Dropping announcement %q: dispatch backlog full", ann.Label)
	}
}

// dispatch consumes announcements: speaks them, records them, and pushes
// them to event subscribers.
func (a *App) dispatch() {
	defer a.dispatchWG.Done()

	for ann := range a.announceCh {
		log.Printf("Announcing %q (confidence %.2f)", ann.Label, ann.Confidence)

		a.mu.Lock()
		a.lastLabel = ann.Label
		a.lastConf = ann.Confidence
		a.lastAt = ann.At
		a.mu.Unlock()

		if a.speaker != nil {
			a.speaker.Speak(ann.Label)
		}

		if a.store != nil {
			err := a.store.Announcements().Record(&store.Announcement{
				Label:       ann.Label,
				Confidence:  ann.Confidence,
				AnnouncedAt: ann.At,
			})
			if err != nil {
				log.Printf("Failed to record announcement: %v", err)
			}
		}

		if a.notifier != nil {
			a.notifier.Publish("announcement", ann)
		}
	}
}

// LoadSigns loads stored sign samples into the centroid classifier. It is a
// no-op when an external model service does the classification.
func (a *App) LoadSigns() error {
	centroid, ok := a.classifier.(*classify.CentroidClassifier)
	if !ok || a.store == nil {
		return nil
	}

	signs, err := a.store.Signs().List()
	if err != nil {
		return err
	}

	loaded := 0
	for _, sign := range signs {
		samples, err := a.store.Samples().GetBySignID(sign.ID)
		if err != nil {
			return fmt.Errorf("load samples for %q: %w", sign.Label, err)
		}
		if len(samples) == 0 {
			continue
		}

		vectors := make([]landmark.Vector, 0, len(samples))
		for _, s := range samples {
			v, err := landmark.FromSlice(s.Features)
			if err != nil {
				log.Printf("Skipping bad sample for %q: %v", sign.Label, err)
				continue
			}
			vectors = append(vectors, v)
		}
		if len(vectors) == 0 {
			continue
		}

		if err := centroid.SetClass(sign.Label, vectors); err != nil {
			return fmt.Errorf("train %q: %w", sign.Label, err)
		}
		loaded++
	}

	log.Printf("Loaded %d signs from database", loaded)
	return nil
}

// StartRecognition begins the capture and recognition loop.
func (a *App) StartRecognition() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Already running
	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return err
	}
	a.camera.SetFPS(IdleFPS)

	a.stopCh = make(chan struct{})
	a.loopDone = make(chan struct{})
	go a.runLoop(a.stopCh, a.loopDone)

	log.Println("Recognition loop started")
	return nil
}

// StopRecognition halts the loop. Stopping a stopped app is a no-op.
func (a *App) StopRecognition() error {
	a.mu.Lock()
	if a.stopCh == nil {
		a.mu.Unlock()
		return nil
	}
	close(a.stopCh)
	a.stopCh = nil
	done := a.loopDone
	a.mu.Unlock()

	<-done

	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}
	a.motion.Reset()
	a.engine.Reset()

	log.Println("Recognition loop stopped")
	return nil
}

// Running reports whether the recognition loop is active.
func (a *App) Running() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.stopCh != nil
}

// Labels returns the sign labels the classifier currently knows.
func (a *App) Labels() []string {
	return a.classifier.Labels()
}

// WindowProgress returns the stability window fill and capacity.
func (a *App) WindowProgress() (int, int) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.engine.Progress()
}

// LastAnnouncement returns the most recent announcement, if any.
func (a *App) LastAnnouncement() (string, float64, time.Time, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.lastLabel == "" {
		return "", 0, time.Time{}, false
	}
	return a.lastLabel, a.lastConf, a.lastAt, true
}

// Camera returns the camera instance for the video stream endpoint.
func (a *App) Camera() capture.Camera {
	return a.camera
}

// Settings returns the live configuration.
func (a *App) Settings() config.Config {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.cfg
}

// UpdateSettings applies and persists a new configuration. Decision
// parameters take effect on the running loop; the recognition state is
// reset so the new window size starts clean.
func (a *App) UpdateSettings(cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	engine, err := recognize.NewPipeline(recognize.Config{
		ConfidenceThreshold: cfg.ConfidenceThreshold,
		StabilityFrames:     cfg.StabilityFrames,
		Cooldown:            cfg.Cooldown(),
	}, a.classifier, recognize.SinkFunc(a.enqueue))
	if err != nil {
		return err
	}
	a.engine = engine

	a.motion.SetThreshold(cfg.MotionThreshold)

	a.cfg = cfg
	if a.cfgPath != "" {
		if err := cfg.Save(a.cfgPath); err != nil {
			return err
		}
	}

	return nil
}

// ResetSettings restores and persists the default configuration.
func (a *App) ResetSettings() (config.Config, error) {
	cfg := config.Default()
	if err := a.UpdateSettings(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Close stops the loop and releases all resources.
func (a *App) Close() {
	a.StopRecognition()

	close(a.announceCh)
	a.dispatchWG.Wait()

	a.motion.Close()

	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}
	if a.classifier != nil {
		if err := a.classifier.Close(); err != nil {
			log.Printf("Error closing classifier: %v", err)
		}
	}
	if a.speaker != nil {
		if err := a.speaker.Close(); err != nil {
			log.Printf("Error closing speaker: %v", err)
		}
	}
}
