package main

import (
	"fmt"
	"net"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-archery/internal/platform/tui"
	"github.com/vovakirdan/tui-archery/internal/registry"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
	flagServePolicy string
	flagServeFPS    int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the archery SSH server",
	Long: `Start an SSH server that lets users connect and watch a policy shoot.

Each SSH connection gets its own environment and viewer; sessions never
share state. Shots are recorded in the shared shot log, one run per
session, and the runs board is one key (b) away.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.archery/host_key

Examples:
  archery serve                           # Listen on :23234 with auto-generated key
  archery serve --ssh :2222               # Listen on port 2222
  archery serve --policy noisy-aim        # Sessions watch the noisy policy
  archery serve --db ./shots.db           # Use specific database

Users can connect with:
  ssh localhost -p 23234`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().StringVar(&flagServePolicy, "policy", "aim", "Policy every session watches")
	serveCmd.Flags().IntVar(&flagServeFPS, "fps", tui.DefaultFPS, "Replay rate (frames per second)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	if !registry.Exists(flagServePolicy) {
		return fmt.Errorf("unknown policy %q (run 'archery policies' to list them)", flagServePolicy)
	}

	logger, err := newLogger("archery-ssh")
	if err != nil {
		return err
	}
	world, err := loadConfig()
	if err != nil {
		return err
	}

	cfg := tui.SSHServerConfig{
		Address:     flagSSHAddr,
		HostKeyPath: flagHostKey,
		DBPath:      flagDBPath,
		IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
		Policy:      flagServePolicy,
		Preset:      presetName(),
		FPS:         flagServeFPS,
	}

	server, err := tui.NewSSHServer(cfg, world, logger)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Starting archery SSH server on %s\n", server.Addr())
	fmt.Fprintf(out, "Connect with: %s\n", connectHint(flagSSHAddr))
	fmt.Fprintln(out, "Press Ctrl+C to stop")

	return server.ListenAndServe()
}

// connectHint builds the ssh command line for a listen address.
func connectHint(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "ssh " + addr
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return fmt.Sprintf("ssh %s -p %s", host, port)
}
