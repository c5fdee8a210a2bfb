package main

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/superbreak/internal/core"
	"github.com/vovakirdan/superbreak/internal/games/superbreak"
	"github.com/vovakirdan/superbreak/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the superbreak SSH server",
	Long: `Start an SSH server that allows users to connect and play.

Each SSH connection gets its own game session.
Scores are stored per-server (all users share the same leaderboard).

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.superbreak/host_key

Examples:
  superbreak serve                           # Listen on :23234 with auto-generated key
  superbreak serve --ssh :2222               # Listen on port 2222
  superbreak serve --host-key ./my_host_key  # Use specific host key
  superbreak serve --db ./scores.db          # Use specific database

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
}

func runServe(_ *cobra.Command, _ []string) {
	gameCfg, err := loadConfig()
	if err != nil {
		fatalf("%v", err)
	}

	level := log.InfoLevel
	if flagDebug {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "superbreak-ssh",
		Level:           level,
	})

	cfg := tui.DefaultSSHServerConfig()
	cfg.Address = flagSSHAddr
	cfg.HostKeyPath = flagHostKey
	cfg.DBPath = flagDBPath
	cfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	cfg.TickRate = flagFPS
	cfg.MaxDelta = gameCfg.Timing.MaxDelta
	cfg.NewGame = func(l *log.Logger) (core.Game, error) {
		game, err := superbreak.New(gameCfg, superbreak.WithLogger(l))
		if err != nil {
			return nil, err
		}
		return game, nil
	}

	server, err := tui.NewSSHServer(cfg, logger)
	if err != nil {
		fatalf("creating server: %v", err)
	}

	fmt.Printf("Starting superbreak SSH server on %s\n", server.Addr())
	fmt.Printf("Connect with: ssh localhost -p %s\n", portOf(server.Addr()))
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		fatalf("server: %v", err)
	}
}

// portOf returns the port part of a host:port address.
func portOf(addr string) string {
	if _, port, err := net.SplitHostPort(addr); err == nil {
		return port
	}
	return addr
}
