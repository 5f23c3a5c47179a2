package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/avasarala/signvoice/internal/app"
	"github.com/avasarala/signvoice/internal/bluetooth"
	"github.com/avasarala/signvoice/internal/config"
	"github.com/avasarala/signvoice/internal/server"
	"github.com/avasarala/signvoice/internal/store"
)

func main() {
	fmt.Println("SignVoice - Sign Language to Speech")

	configPath := flag.String("config", "", "path to config file (default ~/.signvoice/config.json)")
	autostart := flag.Bool("autostart", true, "start the recognition loop immediately")
	flag.Parse()

	dataDir, err := dataDir()
	if err != nil {
		log.Fatalf("Failed to resolve data directory: %v", err)
	}

	if *configPath == "" {
		*configPath = filepath.Join(dataDir, "config.json")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.DataDir != "" {
		dataDir = cfg.DataDir
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			log.Fatalf("Failed to create data directory: %v", err)
		}
	}

	st, err := store.New(filepath.Join(dataDir, "signvoice.db"))
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	// Bluetooth audio is best effort; speech falls back to the default
	// output device when PulseAudio is unavailable.
	bt := bluetooth.NewManager()
	bt.EnsureAudio()

	events := server.NewHub()

	a, err := app.New(app.Options{
		Store:      st,
		Config:     cfg,
		ConfigPath: *configPath,
		Notifier:   events,
	})
	if err != nil {
		log.Fatalf("Failed to initialize app: %v", err)
	}
	defer a.Close()

	if err := a.LoadSigns(); err != nil {
		log.Fatalf("Failed to load signs: %v", err)
	}

	if *autostart {
		if err := a.StartRecognition(); err != nil {
			log.Printf("Recognition not started: %v", err)
		}
	}

	srv := server.New(server.Config{
		Store:      st,
		Camera:     a.Camera(),
		Controller: a,
		Settings:   a,
		Bluetooth:  bt,
		Events:     events,
	})

	// Shut down cleanly on SIGINT/SIGTERM
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("Shutting down")
		a.Close()
		st.Close()
		os.Exit(0)
	}()

	fmt.Printf("Starting control API on %s\n", cfg.ListenAddr)
	if err := srv.ListenAndServe(cfg.ListenAddr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// dataDir returns ~/.signvoice, creating it if needed.
func dataDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	dir := filepath.Join(homeDir, ".signvoice")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}
