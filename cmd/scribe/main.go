// ABOUTME: Entry point for the Scribe recorder
// ABOUTME: Parses CLI flags, then records or ingests audio and sends it for transcription
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Resonate-Protocol/scribe-go/internal/app"
	"github.com/Resonate-Protocol/scribe-go/internal/config"
	"github.com/Resonate-Protocol/scribe-go/internal/observe"
	"github.com/Resonate-Protocol/scribe-go/internal/ui"
	"github.com/Resonate-Protocol/scribe-go/internal/version"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"
)

var (
	configPath  = flag.String("config", "", "YAML configuration file")
	apiURL      = flag.String("api", "", "Transcription service URL (disables mDNS discovery)")
	discover    = flag.Bool("discover", false, "Look up the transcription service via mDNS")
	inputFile   = flag.String("file", "", "Transcribe an audio file instead of recording")
	play        = flag.Bool("play", false, "Play the clip before transcribing (no-TUI mode)")
	outFile     = flag.String("out", "", "Transcript output path (default: transcription.txt)")
	saveClip    = flag.String("save-clip", "", "Also save the submitted clip to this path")
	logFile     = flag.String("log-file", "", "Log file path (default: scribe.log)")
	metricsAddr = flag.String("metrics-addr", "", "Serve Prometheus metrics on this address")
	noTUI       = flag.Bool("no-tui", false, "Disable TUI, use streaming logs instead")
	backend     = flag.String("backend", "", "Capture backend: malgo, portaudio or ffmpeg")
	duration    = flag.Duration("duration", 0, "Stop recording automatically after this long")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s %s (%s)\n", version.Product, version.Version, version.Manufacturer)
		return
	}

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	useTUI := cfg.UI.Enabled

	// Set up logging
	f, err := os.OpenFile(cfg.Log.File, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer func() { _ = f.Close() }()

	if useTUI {
		// TUI mode: log only to file
		log.SetOutput(f)
	} else {
		// Streaming logs mode: log to both stderr and file, stdout carries the transcript
		multiWriter := io.MultiWriter(os.Stderr, f)
		log.SetOutput(multiWriter)
	}

	log.Printf("Starting %s %s", version.Product, version.Version)

	sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(sigCtx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	var metrics *observe.Metrics
	if cfg.Metrics.Addr != "" {
		provider, err := observe.InitProvider(observe.ProviderConfig{
			ServiceName:    "scribe",
			ServiceVersion: version.Version,
		})
		if err != nil {
			log.Fatalf("Failed to initialise metrics: %v", err)
		}
		defer provider.Shutdown(context.Background())

		metrics, err = observe.NewMetrics(provider.MeterProvider)
		if err != nil {
			log.Fatalf("Failed to create metrics: %v", err)
		}
		g.Go(func() error { return provider.Serve(gctx, cfg.Metrics.Addr) })
	}

	api, err := app.ResolveAPI(gctx, cfg.API)
	if err != nil {
		log.Fatalf("No transcription service: %v", err)
	}
	log.Printf("Using transcription service %s", api)

	g.Go(func() error {
		defer cancel()
		if useTUI {
			return runTUI(gctx, cfg, api, metrics)
		}
		return runHeadless(gctx, cfg, api, metrics)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("Error: %v", err)
		if !useTUI {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}

	log.Printf("%s stopped", version.Product)
}

// loadConfig layers flags over the config file over the defaults
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			return nil, err
		}
	}

	flag.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "api":
			cfg.API.URL = *apiURL
			cfg.API.Discover = false
		case "discover":
			cfg.API.Discover = *discover
		case "out":
			cfg.Output.TranscriptPath = *outFile
		case "save-clip":
			cfg.Output.ClipPath = *saveClip
		case "log-file":
			cfg.Log.File = *logFile
		case "metrics-addr":
			cfg.Metrics.Addr = *metricsAddr
		case "no-tui":
			cfg.UI.Enabled = !*noTUI
		case "backend":
			cfg.Capture.Backend = *backend
		case "duration":
			cfg.Capture.MaxDuration = *duration
		}
	})

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// runTUI drives the application from the bubbletea interface
func runTUI(ctx context.Context, cfg *config.Config, api string, metrics *observe.Metrics) error {
	ctrl := ui.NewControls()
	prog, err := ui.Run(ctrl)
	if err != nil {
		return fmt.Errorf("failed to start TUI: %w", err)
	}

	uiDone := make(chan error, 1)
	go func() {
		_, err := prog.Run()
		uiDone <- err
	}()

	a, err := app.New(cfg, api, app.Options{
		Metrics:  metrics,
		OnStatus: func(msg ui.StatusMsg) { prog.Send(msg) },
	})
	if err != nil {
		prog.Quit()
		<-uiDone
		return err
	}
	defer a.Close()

	if *inputFile != "" {
		if _, err := a.Ingest(*inputFile); err != nil {
			log.Printf("Failed to load %s: %v", *inputFile, err)
			prog.Send(ui.StatusMsg{Warning: err.Error()})
		}
	}

	runErr := a.Run(ctx, ctrl)
	prog.Quit()
	if err := <-uiDone; err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return runErr
}

// runHeadless records (or loads) one clip, transcribes it and saves the text
func runHeadless(ctx context.Context, cfg *config.Config, api string, metrics *observe.Metrics) error {
	a, err := app.New(cfg, api, app.Options{Metrics: metrics})
	if err != nil {
		return err
	}
	defer a.Close()

	if *inputFile != "" {
		result, err := a.Ingest(*inputFile)
		if err != nil {
			return err
		}
		log.Printf("Loaded %s: %d bytes %s (converted=%v)",
			*inputFile, len(result.Clip.Data), result.Clip.MimeType, result.Converted)
	} else {
		stopCh := make(chan struct{})
		go waitForEnter(stopCh)

		if cfg.Capture.MaxDuration > 0 {
			log.Printf("Recording for up to %v, press Enter to stop", cfg.Capture.MaxDuration)
		} else {
			log.Printf("Recording, press Enter to stop")
		}

		start := time.Now()
		result, err := a.Record(ctx, stopCh)
		if err != nil {
			return fmt.Errorf("recording failed: %w", err)
		}
		log.Printf("Recorded %v: %d bytes %s", time.Since(start).Round(time.Millisecond),
			len(result.Clip.Data), result.Clip.MimeType)
	}

	if cfg.Output.ClipPath != "" {
		if _, err := a.SaveClip(""); err != nil {
			log.Printf("Warning: %v", err)
		}
	}

	if *play {
		if err := a.Play(ctx); err != nil {
			log.Printf("Warning: playback failed: %v", err)
		}
	}

	text, err := a.Transcribe(ctx)
	if err != nil {
		return fmt.Errorf("transcription failed: %w", err)
	}

	if _, err := a.SaveTranscript(""); err != nil {
		return err
	}

	fmt.Println(text)
	return nil
}

// waitForEnter closes stop when a line is read from stdin. A closed stdin
// leaves the recording running until a signal or the duration limit.
func waitForEnter(stop chan<- struct{}) {
	reader := bufio.NewReader(os.Stdin)
	if _, err := reader.ReadString('\n'); err != nil {
		return
	}
	close(stop)
}
