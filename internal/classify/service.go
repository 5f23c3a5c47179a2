package classify

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/avasarala/signvoice/internal/landmark"
)

// serviceIdleTimeout is how long the model service may sit unused before the
// subprocess is shut down. It restarts lazily on the next prediction.
const serviceIdleTimeout = 30 * time.Second

// ServiceClassifier implements Classifier using an external model service
// subprocess (a Python TFLite runner). The process is started lazily on the
// first prediction and exchanges newline-delimited JSON over stdin/stdout.
//
// Protocol: on startup the service writes a single handshake line
// {"labels": [...]}. Each request is {"features": [126 floats]} and each
// response is {"scores": [floats]} aligned with the handshake label order.
type ServiceClassifier struct {
	command   []string
	mu        sync.Mutex
	cmd       *exec.Cmd
	stdin     io.WriteCloser
	stdout    *bufio.Reader
	labels    []string
	started   bool
	idleTimer *time.Timer
}

// NewServiceClassifier creates a classifier backed by the given command line
// (executable plus arguments). The subprocess is not started until needed.
func NewServiceClassifier(command []string) (*ServiceClassifier, error) {
	if len(command) == 0 {
		return nil, fmt.Errorf("model service command is empty")
	}
	return &ServiceClassifier{command: command}, nil
}

// FindModelScript searches common locations for the bundled model service
// script. Returns an empty string if not found.
func FindModelScript() string {
	execPath, err := os.Executable()
	var execDir string
	if err == nil {
		execDir = filepath.Dir(execPath)
	}

	candidates := []string{
		"scripts/model_service.py",
		"../scripts/model_service.py",
		filepath.Join(execDir, "scripts/model_service.py"),
		filepath.Join(os.Getenv("HOME"), ".signvoice/scripts/model_service.py"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				return absPath
			}
			return path
		}
	}
	return ""
}

// Predict sends the feature vector to the model service and returns the
// resulting distribution.
func (s *ServiceClassifier) Predict(features landmark.Vector) ([]Score, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureStarted(); err != nil {
		return nil, err
	}

	req := struct {
		Features []float64 `json:"features"`
	}{Features: features[:]}

	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	data = append(data, '\n')

	if _, err := s.stdin.Write(data); err != nil {
		s.shutdown()
		return nil, fmt.Errorf("write request: %w", err)
	}

	line, err := s.stdout.ReadString('\n')
	if err != nil {
		s.shutdown()
		return nil, fmt.Errorf("read response: %w", err)
	}

	var resp struct {
		Scores []float64 `json:"scores"`
	}
	if err := json.Unmarshal([]byte(line), &resp); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	if len(resp.Scores) != len(s.labels) {
		return nil, fmt.Errorf("model service returned %d scores for %d labels",
			len(resp.Scores), len(s.labels))
	}

	scores := make([]Score, len(s.labels))
	for i, label := range s.labels {
		scores[i] = Score{Label: label, Confidence: resp.Scores[i]}
	}

	s.resetIdleTimer()
	return scores, nil
}

// Labels returns the label set announced by the model service handshake.
// The service is started if it is not already running.
func (s *ServiceClassifier) Labels() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureStarted(); err != nil {
		return nil
	}

	labels := make([]string, len(s.labels))
	copy(labels, s.labels)
	return labels
}

// Close shuts down the model service subprocess.
func (s *ServiceClassifier) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shutdown()
}

func (s *ServiceClassifier) ensureStarted() error {
	if s.started {
		return nil
	}

	cmd := exec.Command(s.command[0], s.command[1:]...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("create stdin pipe: %w", err)
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("create stdout pipe: %w", err)
	}

	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start model service: %w", err)
	}

	reader := bufio.NewReader(stdout)

	// Handshake: the service announces its label set before serving.
	line, err := reader.ReadString('\n')
	if err != nil {
		stdin.Close()
		cmd.Wait()
		return fmt.Errorf("read handshake: %w", err)
	}

	var handshake struct {
		Labels []string `json:"labels"`
	}
	if err := json.Unmarshal([]byte(line), &handshake); err != nil {
		stdin.Close()
		cmd.Wait()
		return fmt.Errorf("parse handshake: %w", err)
	}
	if len(handshake.Labels) == 0 {
		stdin.Close()
		cmd.Wait()
		return fmt.Errorf("model service announced no labels")
	}

	s.cmd = cmd
	s.stdin = stdin
	s.stdout = reader
	s.labels = handshake.Labels
	s.started = true

	return nil
}

func (s *ServiceClassifier) shutdown() error {
	if !s.started {
		return nil
	}

	if s.idleTimer != nil {
		s.idleTimer.Stop()
		s.idleTimer = nil
	}

	if s.stdin != nil {
		s.stdin.Close()
	}

	err := s.cmd.Wait()
	s.started = false
	s.cmd = nil
	s.stdin = nil
	s.stdout = nil

	return err
}

func (s *ServiceClassifier) resetIdleTimer() {
	if s.idleTimer != nil {
		s.idleTimer.Stop()
	}
	s.idleTimer = time.AfterFunc(serviceIdleTimeout, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.shutdown()
	})
}
