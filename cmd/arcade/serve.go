package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/bubble-arcade/internal/games/bubbles"
	"github.com/vovakirdan/bubble-arcade/internal/platform/tui"
	"github.com/vovakirdan/bubble-arcade/internal/web"
)

var (
	flagSSHAddr      string
	flagHTTPAddr     string
	flagHostKey      string
	flagIdleTimeout  int
	flagLiveInterval time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the arcade SSH server",
	Long: `Start an SSH server that allows users to connect and play games.

Each SSH connection gets their own session with a game picker menu.
Scores are stored per-server (all users share the same leaderboard)
under the SSH user name.

With --http the server also exposes:
  GET /api/games                   - registered games
  GET /api/games/:game/scores      - leaderboard (?limit=N)
  GET /api/games/:game/stats       - aggregated statistics
  GET /api/sessions                - live sessions
  GET /api/live                    - websocket stream of live snapshots

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.arcade/host_key

Examples:
  arcade serve                           # Listen on :23234 with auto-generated key
  arcade serve --ssh :2222               # Listen on port 2222
  arcade serve --http :8080              # Also serve the leaderboard API
  arcade serve --host-key ./my_host_key  # Use specific host key
  arcade serve --db ./scores.db          # Use specific database

Users can connect with:
  ssh localhost -p 23234`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHTTPAddr, "http", "", "HTTP API address (host:port); empty disables it")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().DurationVar(&flagLiveInterval, "live-interval", web.DefaultInterval, "Minimum spacing of live snapshots per session")
}

func runServe(_ *cobra.Command, _ []string) {
	logger := newStderrLogger("arcade-ssh")

	// Remote players get default preferences; engine diagnostics go to the server log.
	bubbles.SetLogger(logger.WithPrefix("bubbles"))

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	hub := web.NewHub(
		web.WithInterval(flagLiveInterval),
		web.WithHubLogger(logger.WithPrefix("live")),
	)

	server, err := tui.NewSSHServer(tui.SSHServerConfig{
		Address:     flagSSHAddr,
		HostKeyPath: flagHostKey,
		IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
		TickRate:    flagFPS,
		Scores:      ledger(store),
		Live:        hub,
		Logger:      logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 2)
	running := 1
	go func() { errCh <- server.ListenAndServe(ctx) }()

	if flagHTTPAddr != "" {
		var scores web.ScoreReader
		if store != nil {
			scores = store
		}
		api := web.NewServer(scores, hub, logger.WithPrefix("arcade-http"))
		running++
		go func() { errCh <- web.ListenAndServe(ctx, flagHTTPAddr, api, logger.WithPrefix("arcade-http")) }()
	}

	logger.Info("arcade ready", "ssh", flagSSHAddr, "http", flagHTTPAddr)
	fmt.Printf("Connect with: ssh localhost -p %s\n", portOf(flagSSHAddr))
	fmt.Println("Press Ctrl+C to stop")

	failed := false
	for range running {
		if err := <-errCh; err != nil {
			logger.Error("server stopped", "err", err)
			failed = true
			stop()
		}
	}
	if failed {
		os.Exit(1)
	}
}

// portOf returns the port part of a listen address.
func portOf(addr string) string {
	if _, port, err := net.SplitHostPort(addr); err == nil {
		return port
	}
	return addr
}
