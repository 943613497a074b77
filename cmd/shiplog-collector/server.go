package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/tinytelemetry/shiplog/internal/collector"
	"github.com/tinytelemetry/shiplog/internal/httpserver"
	"github.com/tinytelemetry/shiplog/internal/model"
	"github.com/tinytelemetry/shiplog/internal/sink"
	"github.com/tinytelemetry/shiplog/internal/tui"
	"golang.org/x/sync/errgroup"
)

// runCollector binds the collector, optionally the HTTP API, and blocks
// until a signal arrives or the TUI is closed.
func runCollector(cfg appConfig) error {
	tuiMode := cfg.Sink == sinkTUI
	if tuiMode {
		// The terminal belongs to the TUI; runtime logs go to a file.
		cleanupLogger := configureRuntimeLogger()
		defer cleanupLogger()
	} else {
		log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	}

	var (
		out     model.RecordSink
		channel *sink.ChannelSink
	)
	if tuiMode {
		channel = sink.NewChannelSink(cfg.TUIBuffer)
		out = channel
	} else {
		out = sink.NewConsoleSink(log.New(os.Stdout, "", log.LstdFlags|log.Lmicroseconds), cfg.Color)
	}

	srv := collector.NewServer(cfg.Addr, out, collector.ServerConfig{
		MaxFrameSize: cfg.frameLimit(),
		Logger:       log.Default(),
	})
	if err := srv.Start(); err != nil {
		return fmt.Errorf("failed to start collector: %w", err)
	}
	defer srv.Stop()

	if cfg.APIEnabled {
		apiServer := httpserver.NewServer(cfg.APIAddr, srv)
		if err := apiServer.Start(); err != nil {
			return fmt.Errorf("failed to start API server: %w", err)
		}
		defer apiServer.Stop()
	}

	// Set up context and signal handling before errgroup
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		if !tuiMode {
			fmt.Println("\nShutting down gracefully... (press Ctrl+C again to force)")
		}
		cancel()

		deadline := time.NewTimer(10 * time.Second)
		defer deadline.Stop()

		select {
		case <-sigCh:
			fmt.Println("\nForce shutdown.")
		case <-deadline.C:
			fmt.Println("Shutdown timed out, forcing exit.")
		}
		os.Exit(1)
	}()

	if !tuiMode {
		printStartupBanner(cfg, srv.Addr())
	}
	log.Printf("collector: listening on %s", srv.Addr())

	g, gctx := errgroup.WithContext(ctx)

	if tuiMode {
		g.Go(func() error {
			// Quitting the TUI stops the collector.
			defer cancel()
			return tui.Run(gctx, tui.Config{
				Records:  channel.Records(),
				Capacity: cfg.TUIBuffer,
				Stats:    srv.Stats,
				Dropped:  channel.Dropped,
			})
		})
	}

	// Wait for context cancellation (from signal handler) in the errgroup
	g.Go(func() error {
		<-gctx.Done()
		return nil
	})

	err := g.Wait()
	cancel()
	signal.Stop(sigCh)

	st := srv.Stats()
	log.Printf("collector: shutting down after %d records from %d connections", st.Records, st.AcceptedConnections)
	return err
}

func configureRuntimeLogger() func() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	home, err := os.UserHomeDir()
	if err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}

	logDir := filepath.Join(home, ".local", "state", "shiplog")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}

	logPath := filepath.Join(logDir, "collector.log")
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}

	log.SetOutput(f)
	return func() {
		_ = f.Close()
	}
}

func printStartupBanner(cfg appConfig, listenAddr string) {
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	green := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	cyan := lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	yellow := lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	bold := lipgloss.NewStyle().Bold(true)

	check := green.Render("●")
	dot := dim.Render("●")

	logo := cyan.Bold(true).Render(`
    ╔═╗╦ ╦╦╔═╗╦  ╔═╗╔═╗
    ╚═╗╠═╣║╠═╝║  ║ ║║ ╦
    ╚═╝╩ ╩╩╩  ╩═╝╚═╝╚═╝`)

	var lines []string
	lines = append(lines, "")
	lines = append(lines, logo)
	lines = append(lines, "    "+dim.Render("v"+version))
	lines = append(lines, "")

	separator := dim.Render("    ─────────────────────────────────")
	lines = append(lines, separator)
	lines = append(lines, "")

	lines = append(lines, bold.Render("    Collector"))
	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("    %s  TCP Ingest     %s", check, cyan.Render(listenAddr)))
	if cfg.APIEnabled {
		lines = append(lines, fmt.Sprintf("    %s  HTTP API       %s", check, cyan.Render(cfg.APIAddr)))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  HTTP API       %s", dot, dim.Render("disabled")))
	}
	if cfg.MaxFrameSize > 0 {
		lines = append(lines, fmt.Sprintf("    %s  Max Frame      %s", check, dim.Render(fmt.Sprintf("%d bytes", cfg.MaxFrameSize))))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  Max Frame      %s", dot, dim.Render("unlimited")))
	}
	lines = append(lines, fmt.Sprintf("    %s  Output         %s", check, dim.Render(cfg.Sink)))
	lines = append(lines, "")

	lines = append(lines, bold.Render("    Config"))
	lines = append(lines, "")
	if cfg.ConfigPath != "" {
		lines = append(lines, fmt.Sprintf("    %s  Config File    %s", check, dim.Render(shortenPath(cfg.ConfigPath))))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  Config File    %s", dot, dim.Render("default (no file)")))
	}

	lines = append(lines, "")
	lines = append(lines, separator)
	lines = append(lines, "")
	lines = append(lines, "    "+dim.Render("Press ")+yellow.Render("Ctrl+C")+dim.Render(" to stop"))
	lines = append(lines, "")

	fmt.Println(strings.Join(lines, "\n"))
}

func shortenPath(path string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if strings.HasPrefix(path, home) {
		return "~" + path[len(home):]
	}
	return path
}
