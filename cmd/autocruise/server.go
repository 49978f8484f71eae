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
	"golang.org/x/sync/errgroup"

	"github.com/tinytelemetry/autocruise/internal/httpserver"
	"github.com/tinytelemetry/autocruise/internal/resolver"
	"github.com/tinytelemetry/autocruise/internal/socketrpc"
)

// runServer serves cruise shells over HTTP and exposes the control socket.
func runServer(cfg appConfig) error {
	cleanupLogger := configureRuntimeLogger()
	defer cleanupLogger()

	srv := httpserver.NewServer(httpserver.Options{
		Addr:         cfg.Addr,
		HostDocument: cfg.HostDocument,
		Fetcher:      resolver.NewHTTPFetcher(cfg.FetchTimeout),
		PendingTTL:   cfg.PendingTTL,
		PendingLimit: cfg.PendingLimit,
	})
	if err := srv.Start(); err != nil {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	// Control socket for autocruisectl.
	var sockServer *socketrpc.Server
	if cfg.SocketEnabled {
		sockServer = socketrpc.NewServer(cfg.SocketPath, srv.Hub())
		if err := sockServer.Start(); err != nil {
			log.Printf("Warning: failed to start socket server: %v", err)
			sockServer = nil
		}
	}
	socketUp := sockServer != nil

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Println("\nShutting down gracefully... (press Ctrl+C again to force)")
		cancel()

		deadline := time.NewTimer(10 * time.Second)
		defer deadline.Stop()

		select {
		case <-sigCh:
			fmt.Println("\nForce shutdown.")
		case <-deadline.C:
			fmt.Println("Shutdown timed out, forcing exit.")
		}
		if socketUp {
			cleanupSocket(cfg.SocketPath)
		}
		os.Exit(1)
	}()

	printStartupBanner(cfg, socketUp)

	if err := shutdownOnDone(ctx, srv, sockServer); err != nil {
		log.Printf("server: errgroup exited with error: %v", err)
	}

	signal.Stop(sigCh)
	return nil
}

// shutdownOnDone blocks until ctx is cancelled, then stops the HTTP server and
// the control socket (when running) concurrently.
func shutdownOnDone(ctx context.Context, srv *httpserver.Server, sock *socketrpc.Server) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-gctx.Done()
		if err := srv.Stop(); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	})
	if sock != nil {
		g.Go(func() error {
			<-gctx.Done()
			sock.Stop()
			return nil
		})
	}
	return g.Wait()
}

func cleanupSocket(path string) {
	if path != "" {
		os.Remove(path)
	}
}

func configureRuntimeLogger() func() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	home, err := os.UserHomeDir()
	if err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}

	logDir := filepath.Join(home, ".local", "state", "autocruise")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}

	logPath := filepath.Join(logDir, "autocruise.log")
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

func printStartupBanner(cfg appConfig, socketUp bool) {
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	green := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	cyan := lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	yellow := lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	bold := lipgloss.NewStyle().Bold(true)

	check := green.Render("●")
	dot := dim.Render("●")

	logo := cyan.Bold(true).Render(`
    ╔═╗╦ ╦╔╦╗╔═╗╔═╗╦═╗╦ ╦╦╔═╗╔═╗
    ╠═╣║ ║ ║ ║ ║║  ╠╦╝║ ║║╚═╗║╣
    ╩ ╩╚═╝ ╩ ╚═╝╚═╝╩╚═╚═╝╩╚═╝╚═╝`)

	var lines []string
	lines = append(lines, "", logo, "    "+dim.Render("v"+version), "")

	separator := dim.Render("    ─────────────────────────────────")
	lines = append(lines, separator, "")

	lines = append(lines, bold.Render("    Gateway"), "")
	lines = append(lines, fmt.Sprintf("    %s  HTTP           %s", check, cyan.Render("http://"+cfg.Addr)))
	if socketUp {
		lines = append(lines, fmt.Sprintf("    %s  Unix Socket    %s", check, cyan.Render(shortenPath(cfg.SocketPath))))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  Unix Socket    %s", dot, dim.Render("disabled")))
	}
	lines = append(lines, "")

	lines = append(lines, bold.Render("    Cruise"), "")
	if cfg.HostDocument != "" {
		lines = append(lines, fmt.Sprintf("    %s  Host Document  %s", check, dim.Render(shortenPath(cfg.HostDocument))))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  Host Document  %s", dot, dim.Render("none (query only)")))
	}
	lines = append(lines, fmt.Sprintf("    %s  Fetch Timeout  %s", check, dim.Render(cfg.FetchTimeout.String())))
	lines = append(lines, "")

	lines = append(lines, bold.Render("    Config"), "")
	if cfg.ConfigPath != "" {
		lines = append(lines, fmt.Sprintf("    %s  Config File    %s", check, dim.Render(shortenPath(cfg.ConfigPath))))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  Config File    %s", dot, dim.Render("default (no file)")))
	}

	lines = append(lines, "", separator, "")
	lines = append(lines, "    "+dim.Render("Press ")+yellow.Render("Ctrl+C")+dim.Render(" to stop"), "")

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
