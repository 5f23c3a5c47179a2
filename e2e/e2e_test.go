package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/avasarala/signvoice/internal/app"
	"github.com/avasarala/signvoice/internal/capture"
	"github.com/avasarala/signvoice/internal/classify"
	"github.com/avasarala/signvoice/internal/config"
	"github.com/avasarala/signvoice/internal/detector"
	"github.com/avasarala/signvoice/internal/landmark"
	"github.com/avasarala/signvoice/internal/recognize"
	"github.com/avasarala/signvoice/internal/server"
	"github.com/avasarala/signvoice/internal/speech"
	"github.com/avasarala/signvoice/internal/store"
	"github.com/avasarala/signvoice/testdata"
)

func TestE2E_CompleteWorkflow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	tmpDir := t.TempDir()

	s, err := store.New(filepath.Join(tmpDir, "signvoice.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	cfg := config.Default()
	cfg.StabilityFrames = 3
	cfg.CooldownSeconds = 1

	application, err := app.New(app.Options{
		Store:      s,
		Config:     cfg,
		ConfigPath: filepath.Join(tmpDir, "config.json"),
		Camera:     capture.NewMockCamera(nil, true),
		Detector:   detector.NewMockDetector(),
		Speaker:    speech.NewMock(),
	})
	if err != nil {
		t.Fatalf("app.New() error = %v", err)
	}
	defer application.Close()

	srv := server.New(server.Config{
		Store:      s,
		Camera:     application.Camera(),
		Controller: application,
		Settings:   application,
		Events:     server.NewHub(),
	})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	client := ts.Client()
	var signID string

	t.Run("CreateSign", func(t *testing.T) {
		resp, err := client.Post(
			ts.URL+"/api/signs",
			"application/json",
			strings.NewReader(`{"label": "hello"}`),
		)
		if err != nil {
			t.Fatalf("create sign error = %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusCreated)
		}

		var created struct {
			ID string `json:"id"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
			t.Fatalf("decode create response: %v", err)
		}
		if created.ID == "" {
			t.Fatal("create response has empty id")
		}
		signID = created.ID
	})

	t.Run("UploadSamples", func(t *testing.T) {
		body, _ := json.Marshal(map[string][][]float64{
			"samples": testdata.Samples(3, 0.02),
		})

		resp, err := client.Post(
			ts.URL+"/api/signs/"+signID+"/samples",
			"application/json",
			bytes.NewReader(body),
		)
		if err != nil {
			t.Fatalf("upload samples error = %v", err)
		}
		resp.Body.Close()

		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusCreated)
		}

		resp, err = client.Get(ts.URL + "/api/signs/" + signID)
		if err != nil {
			t.Fatalf("get sign error = %v", err)
		}
		defer resp.Body.Close()

		var sign struct {
			Samples int `json:"samples"`
		}
		json.NewDecoder(resp.Body).Decode(&sign)
		if sign.Samples != 3 {
			t.Errorf("sign samples = %d, want 3", sign.Samples)
		}
	})

	t.Run("LoadSigns", func(t *testing.T) {
		if err := application.LoadSigns(); err != nil {
			t.Fatalf("LoadSigns() error = %v", err)
		}

		labels := application.Labels()
		if len(labels) != 1 || labels[0] != "hello" {
			t.Errorf("Labels() = %v, want [hello]", labels)
		}
	})

	t.Run("Status", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/api/status")
		if err != nil {
			t.Fatalf("get status error = %v", err)
		}
		defer resp.Body.Close()

		var status struct {
			Running    bool     `json:"running"`
			Labels     []string `json:"labels"`
			WindowSize int      `json:"window_size"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
			t.Fatalf("decode status: %v", err)
		}

		if status.Running {
			t.Error("recognition should not be running")
		}
		if len(status.Labels) != 1 || status.Labels[0] != "hello" {
			t.Errorf("status labels = %v, want [hello]", status.Labels)
		}
		if status.WindowSize != cfg.StabilityFrames {
			t.Errorf("window_size = %d, want %d", status.WindowSize, cfg.StabilityFrames)
		}
	})

	t.Run("Settings", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/api/settings")
		if err != nil {
			t.Fatalf("get settings error = %v", err)
		}
		defer resp.Body.Close()

		var settings struct {
			ConfidenceThreshold float64 `json:"confidence_threshold"`
			StabilityFrames     int     `json:"stability_frames"`
		}
		json.NewDecoder(resp.Body).Decode(&settings)

		if settings.ConfidenceThreshold != cfg.ConfidenceThreshold {
			t.Errorf("confidence_threshold = %f, want %f", settings.ConfidenceThreshold, cfg.ConfidenceThreshold)
		}
		if settings.StabilityFrames != cfg.StabilityFrames {
			t.Errorf("stability_frames = %d, want %d", settings.StabilityFrames, cfg.StabilityFrames)
		}
	})

	t.Run("APIStillWorks", func(t *testing.T) {
		resp, _ := client.Get(ts.URL + "/api/health")
		if resp.StatusCode != http.StatusOK {
			t.Errorf("health check failed after app operations")
		}
		resp.Body.Close()
	})
}

func TestE2E_TrainAndRecognize(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	tmpDir := t.TempDir()
	s, err := store.New(filepath.Join(tmpDir, "signvoice.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	// Two signs with clearly different hand shapes.
	signs := []struct {
		label  string
		spread float64
	}{
		{"yes", 0.05},
		{"no", 0.3},
	}

	for i, sign := range signs {
		rec := &store.Sign{ID: fmt.Sprintf("sign-%d", i), Label: sign.label}
		if err := s.Signs().Create(rec); err != nil {
			t.Fatalf("create sign %q: %v", sign.label, err)
		}
		if err := s.Samples().Create(rec.ID, testdata.Samples(4, sign.spread)); err != nil {
			t.Fatalf("store samples for %q: %v", sign.label, err)
		}
	}

	// Train the classifier from stored samples the same way the app does
	// on startup.
	classifier := classify.NewCentroidClassifier()
	stored, err := s.Signs().List()
	if err != nil {
		t.Fatalf("list signs: %v", err)
	}
	for _, sign := range stored {
		samples, err := s.Samples().GetBySignID(sign.ID)
		if err != nil {
			t.Fatalf("load samples: %v", err)
		}
		vectors := make([]landmark.Vector, 0, len(samples))
		for _, sample := range samples {
			v, err := landmark.FromSlice(sample.Features)
			if err != nil {
				t.Fatalf("bad stored sample: %v", err)
			}
			vectors = append(vectors, v)
		}
		if err := classifier.SetClass(sign.Label, vectors); err != nil {
			t.Fatalf("SetClass(%q) error = %v", sign.Label, err)
		}
	}

	var announced []recognize.Announcement
	pipeline, err := recognize.NewPipeline(recognize.Config{
		ConfidenceThreshold: 0.7,
		StabilityFrames:     3,
		Cooldown:            2 * time.Second,
	}, classifier, recognize.SinkFunc(func(a recognize.Announcement) {
		announced = append(announced, a)
	}))
	if err != nil {
		t.Fatalf("NewPipeline() error = %v", err)
	}

	start := time.Now()
	frame := testdata.Vector(0.3, 0.4, 0.05)

	t.Run("HoldSignUntilStable", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			ann, err := pipeline.ProcessFrame(frame[:], start.Add(time.Duration(i)*100*time.Millisecond))
			if err != nil {
				t.Fatalf("frame %d error = %v", i, err)
			}
			if ann != nil {
				t.Fatalf("frame %d announced early: %+v", i, ann)
			}
		}

		ann, err := pipeline.ProcessFrame(frame[:], start.Add(200*time.Millisecond))
		if err != nil {
			t.Fatalf("stable frame error = %v", err)
		}
		if ann == nil {
			t.Fatal("expected announcement after stability window filled")
		}
		if ann.Label != "yes" {
			t.Errorf("announced %q, want %q", ann.Label, "yes")
		}
		if ann.Confidence < 0.7 {
			t.Errorf("confidence = %f, want >= 0.7", ann.Confidence)
		}
	})

	t.Run("CooldownSuppressesRepeat", func(t *testing.T) {
		ann, err := pipeline.ProcessFrame(frame[:], start.Add(300*time.Millisecond))
		if err != nil {
			t.Fatalf("frame error = %v", err)
		}
		if ann != nil {
			t.Errorf("announcement during cooldown: %+v", ann)
		}
	})

	t.Run("AnnouncesAgainAfterCooldown", func(t *testing.T) {
		var last *recognize.Announcement
		for i := 0; i < 3; i++ {
			at := start.Add(3*time.Second + time.Duration(i)*100*time.Millisecond)
			ann, err := pipeline.ProcessFrame(frame[:], at)
			if err != nil {
				t.Fatalf("frame %d error = %v", i, err)
			}
			if ann != nil {
				last = ann
			}
		}
		if last == nil {
			t.Fatal("expected announcement after cooldown expired")
		}

		if len(announced) != 2 {
			t.Errorf("sink received %d announcements, want 2", len(announced))
		}
	})
}

func TestE2E_AnnouncementHistory(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	tmpDir := t.TempDir()
	s, err := store.New(filepath.Join(tmpDir, "signvoice.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	srv := server.New(server.Config{Store: s})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	base := time.Now().Add(-time.Minute)
	for i, label := range []string{"hello", "thanks", "yes"} {
		err := s.Announcements().Record(&store.Announcement{
			Label:       label,
			Confidence:  0.9,
			AnnouncedAt: base.Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatalf("record announcement: %v", err)
		}
	}

	resp, err := ts.Client().Get(ts.URL + "/api/announcements?limit=2")
	if err != nil {
		t.Fatalf("get announcements error = %v", err)
	}
	defer resp.Body.Close()

	var list struct {
		Announcements []struct {
			Label string `json:"label"`
		} `json:"announcements"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		t.Fatalf("decode announcements: %v", err)
	}

	if len(list.Announcements) != 2 {
		t.Fatalf("got %d announcements, want 2", len(list.Announcements))
	}
	if list.Announcements[0].Label != "yes" {
		t.Errorf("newest announcement = %q, want %q", list.Announcements[0].Label, "yes")
	}
}
