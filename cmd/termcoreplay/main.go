// Command termcoreplay is a small demo host for driving a
// coordinator.Coordinator from a real TTY: it spawns a shell under the
// core, forwards stdin and output, and can print periodic JSON state
// snapshots instead for debugging.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vibetunnel/termcore/pkg/config"
	"github.com/vibetunnel/termcore/pkg/coordinator"
	"github.com/vibetunnel/termcore/pkg/term"
)

var (
	cfg = config.DefaultConfig()

	flagShell      string
	flagRows       int
	flagCols       int
	flagScrollback int
	flagSnapshots  bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "termcoreplay",
	Short: "Drive a termcore coordinator against a real shell",
	Long:  `A small demo host that spawns a shell under a coordinator.Coordinator, forwards stdin/stdout, and optionally prints periodic state snapshots.`,
	RunE:  run,
}

func init() {
	rootCmd.Flags().StringVar(&flagShell, "shell", defaultShell(), "Command to run under the PTY")
	rootCmd.Flags().IntVar(&flagRows, "rows", cfg.DefaultRows, "Initial terminal rows")
	rootCmd.Flags().IntVar(&flagCols, "cols", cfg.DefaultCols, "Initial terminal columns")
	rootCmd.Flags().IntVar(&flagScrollback, "scrollback", cfg.ScrollbackLines, "Scrollback line capacity")
	rootCmd.Flags().BoolVar(&flagSnapshots, "snapshots", false, "Print a JSON state snapshot to stderr once per second instead of raw output")
}

func defaultShell() string {
	if sh := os.Getenv("SHELL"); sh != "" {
		return sh
	}
	return "/bin/sh"
}

func run(cmd *cobra.Command, args []string) error {
	cfg.LoadFromEnv()
	cfg.DefaultRows = flagRows
	cfg.DefaultCols = flagCols
	cfg.ScrollbackLines = flagScrollback
	if err := cfg.Validate(); err != nil {
		return err
	}

	co, err := coordinator.New(coordinator.Options{
		Command: []string{flagShell},
		Size:    term.Size{Rows: uint16(flagRows), Cols: uint16(flagCols)},
		Config:  cfg,
	})
	if err != nil {
		return fmt.Errorf("failed to start coordinator: %w", err)
	}

	events, cancel := co.Subscribe()
	defer cancel()

	go co.Run()

	done := make(chan struct{})
	go forwardOutputOrSnapshots(co, events, done)

	if !flagSnapshots {
		go forwardStdin(co)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		log.Println("termcoreplay: shutting down")
	case <-done:
		log.Println("termcoreplay: shell exited")
	}

	co.Submit(coordinator.Command{Kind: coordinator.CommandClose})
	<-done
	return nil
}

// forwardOutputOrSnapshots relays EventOutputReady bytes to stdout, or, in
// --snapshots mode, prints a JSON snapshot once per second instead. It
// closes done once the coordinator reaches EventClosed.
func forwardOutputOrSnapshots(co *coordinator.Coordinator, events <-chan coordinator.Event, done chan<- struct{}) {
	defer close(done)

	var ticker *time.Ticker
	var tick <-chan time.Time
	if flagSnapshots {
		ticker = time.NewTicker(time.Second)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			switch ev.Kind {
			case coordinator.EventOutputReady:
				if !flagSnapshots {
					os.Stdout.Write(ev.Bytes)
				}
			case coordinator.EventError:
				log.Printf("termcoreplay: coordinator error: %s", ev.Err)
			case coordinator.EventClosed:
				return
			}
		case <-tick:
			snap := co.Snapshot()
			b, err := json.Marshal(snap)
			if err != nil {
				continue
			}
			fmt.Fprintln(os.Stderr, string(b))
		}
	}
}

// forwardStdin relays the host's stdin to the coordinator as write commands
// until EOF.
func forwardStdin(co *coordinator.Coordinator) {
	buf := make([]byte, 4096)
	for {
		n, err := os.Stdin.Read(buf)
		if n > 0 {
			co.Submit(coordinator.Command{Kind: coordinator.CommandWrite, Bytes: append([]byte(nil), buf[:n]...)})
		}
		if err != nil {
			if err != io.EOF {
				log.Printf("termcoreplay: stdin read error: %v", err)
			}
			return
		}
	}
}
