// ABOUTME: Entry point for the development transcription server
// ABOUTME: Parses CLI flags, serves /transcribe and advertises it via mDNS
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Resonate-Protocol/scribe-go/internal/discovery"
)

var (
	port    = flag.Int("port", 8000, "HTTP server port")
	name    = flag.String("name", "", "Service friendly name (default: hostname-scribe-echo)")
	logFile = flag.String("log-file", "scribe-echo.log", "Log file path")
	noMDNS  = flag.Bool("no-mdns", false, "Disable mDNS advertisement")
)

func main() {
	flag.Parse()

	// Set up logging (both file and console)
	f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer f.Close()

	multiWriter := io.MultiWriter(os.Stdout, f)
	log.SetOutput(multiWriter)

	// Determine service name
	serviceName := *name
	if serviceName == "" {
		hostname, err := os.Hostname()
		if err != nil {
			hostname = "unknown"
		}
		serviceName = fmt.Sprintf("%s-scribe-echo", hostname)
	}

	log.Printf("Starting echo transcription server: %s on port %d", serviceName, *port)
	log.Printf("Logging to: %s", *logFile)
	log.Printf("Press Ctrl-C to stop")

	if !*noMDNS {
		disc := discovery.NewManager(discovery.Config{
			ServiceName: serviceName,
			Port:        *port,
		})
		if err := disc.Advertise(); err != nil {
			log.Printf("Warning: mDNS advertisement failed: %v", err)
		}
		defer disc.Stop()
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", *port),
		Handler:           newEchoHandler().routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Handle shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Printf("Received %v signal, shutting down gracefully...", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server error: %v", err)
	}

	log.Printf("Server stopped")
}
