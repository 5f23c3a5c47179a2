// Package config loads and validates the SignVoice configuration file.
// The file is JSON; a missing file yields the defaults.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Config holds all runtime settings for the application.
type Config struct {
	// Recognition decision parameters.
	ConfidenceThreshold float64 `json:"confidence_threshold"`
	StabilityFrames     int     `json:"stability_frames"`
	CooldownSeconds     float64 `json:"cooldown_seconds"`

	// Speech output.
	SpeechBinary string  `json:"speech_binary,omitempty"`
	SpeechRate   int     `json:"speech_rate"`
	SpeechVolume float64 `json:"speech_volume"`

	// Camera.
	CameraID     int `json:"camera_id"`
	CameraWidth  int `json:"camera_width"`
	CameraHeight int `json:"camera_height"`

	// MotionThreshold is the percent of pixels that must change for the
	// frame loop to switch into active detection.
	MotionThreshold float64 `json:"motion_threshold"`

	// ModelCommand, when set, runs an external model service for
	// classification instead of the built-in centroid classifier.
	ModelCommand []string `json:"model_command,omitempty"`

	// ListenAddr is the control API listen address.
	ListenAddr string `json:"listen_addr"`

	// DataDir holds the database. Empty means ~/.signvoice.
	DataDir string `json:"data_dir,omitempty"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		ConfidenceThreshold: 0.7,
		StabilityFrames:     15,
		CooldownSeconds:     3,
		SpeechRate:          150,
		SpeechVolume:        0.9,
		CameraID:            0,
		CameraWidth:         640,
		CameraHeight:        480,
		MotionThreshold:     1.0,
		ListenAddr:          ":8080",
	}
}

// Load reads the configuration from path. A missing file is not an error;
// the defaults are returned. Fields absent from the file keep their default
// values.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, nil
}

// Save writes the configuration to path as indented JSON.
func (c Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

// Validate checks the configuration for out-of-range values.
func (c Config) Validate() error {
	if c.ConfidenceThreshold < 0 || c.ConfidenceThreshold > 1 {
		return fmt.Errorf("confidence_threshold %f outside [0,1]", c.ConfidenceThreshold)
	}
	if c.StabilityFrames < 1 {
		return fmt.Errorf("stability_frames must be >= 1, got %d", c.StabilityFrames)
	}
	if c.CooldownSeconds < 0 {
		return fmt.Errorf("cooldown_seconds must be >= 0, got %f", c.CooldownSeconds)
	}
	if c.SpeechVolume < 0 || c.SpeechVolume > 1 {
		return fmt.Errorf("speech_volume %f outside [0,1]", c.SpeechVolume)
	}
	if c.CameraWidth <= 0 || c.CameraHeight <= 0 {
		return fmt.Errorf("camera resolution %dx%d invalid", c.CameraWidth, c.CameraHeight)
	}
	return nil
}

// Cooldown returns the cooldown as a time.Duration.
func (c Config) Cooldown() time.Duration {
	return time.Duration(c.CooldownSeconds * float64(time.Second))
}
