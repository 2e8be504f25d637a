// Command openniri is the OpenNiri daemon: it owns every tiled and
// floating window's layout, listens for IPC commands and hotkeys, and
// applies placements to the desktop. See spec.md sections 1 and 4.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/AdEx-Partners-DE/OpenNiri-Windows-sub000/internal/config"
	"github.com/AdEx-Partners-DE/OpenNiri-Windows-sub000/internal/daemon"
	"github.com/AdEx-Partners-DE/OpenNiri-Windows-sub000/internal/ipc"
	"github.com/AdEx-Partners-DE/OpenNiri-Windows-sub000/internal/platform"
	"github.com/AdEx-Partners-DE/OpenNiri-Windows-sub000/internal/wlog"
)

var log = wlog.New("openniri")

func main() {
	var configPath string

	root := &cobra.Command{
		Use:   "openniri",
		Short: "OpenNiri scrollable tiling window manager daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath)
		},
	}
	root.Flags().StringVar(&configPath, "config", "", "path to config.toml (default: search XDG config home, then ~/.config, then cwd)")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, source, warnings, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	for _, w := range warnings {
		log.Warnf("config: %s: %s", w.Field, w.Message)
	}
	if source != "" {
		log.Infof("loaded config from %s", source)
	} else {
		log.Infof("no config file found, using defaults")
	}

	if ipc.Probe() {
		return fmt.Errorf("another openniri daemon is already running")
	}

	plat, err := newPlatform()
	if err != nil {
		return fmt.Errorf("initialize platform: %w", err)
	}

	d := daemon.NewDaemon(plat, cfg)
	if err := runTrapped(plat, d.Start); err != nil {
		return err
	}

	listener, err := ipc.Listen()
	if err != nil {
		return fmt.Errorf("listen on ipc endpoint: %w", err)
	}
	server := ipc.NewServer(listener, d.Dispatch)
	server.SetLogger(func(format string, args ...any) { log.Warnf(format, args...) })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Infof("signal received, shutting down")
		cancel()
	}()

	go func() {
		if err := runTrapped(plat, func() error { return server.Serve(ctx) }); err != nil {
			log.Warnf("ipc server: %v", err)
		}
	}()

	return runTrapped(plat, func() error { return d.Run(ctx) })
}

// runTrapped installs spec.md section 7's panic/crash trap around fn:
// if fn panics, every currently-cloaked window is uncloaked before the
// panic is re-raised, so a crash never leaves windows invisible. Go
// has no global panic hook and recover only catches a panic on the
// goroutine that defers it, so this is called at every long-lived
// entry point the process runs — daemon startup, the steady-state
// event loop (d.Run), and the IPC server goroutine — rather than once
// at process scope the way original_source's std::panic::set_hook
// does. The daemon's own OS-event forwarder goroutines carry the same
// trap internally (see internal/daemon's trapPanics).
func runTrapped(plat platform.Platform, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if uerr := plat.UncloakAllVisibleWindows(); uerr != nil {
				log.Errorf("uncloak after panic: %v", uerr)
			}
			panic(r)
		}
	}()
	return fn()
}

func loadConfig(path string) (config.Config, string, []config.Warning, error) {
	if path != "" {
		cfg, warnings, err := config.LoadFromPath(path)
		return cfg, path, warnings, err
	}
	return config.Load()
}
