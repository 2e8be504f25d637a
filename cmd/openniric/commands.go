package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AdEx-Partners-DE/OpenNiri-Windows-sub000/internal/config"
	"github.com/AdEx-Partners-DE/OpenNiri-Windows-sub000/internal/ipc"
)

func focusCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "focus {left|right|up|down}",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"left", "right", "up", "down"},
		RunE: func(cmd *cobra.Command, args []string) error {
			t := map[string]ipc.CommandType{
				"left":  ipc.CmdFocusLeft,
				"right": ipc.CmdFocusRight,
				"up":    ipc.CmdFocusUp,
				"down":  ipc.CmdFocusDown,
			}[args[0]]
			return send(ipc.Command{Type: t})
		},
	}
}

func moveCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "move {left|right}",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"left", "right"},
		RunE: func(cmd *cobra.Command, args []string) error {
			t := ipc.CmdMoveColumnRight
			if args[0] == "left" {
				t = ipc.CmdMoveColumnLeft
			}
			return send(ipc.Command{Type: t})
		},
	}
}

func focusMonitorCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "focus-monitor {left|right}",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"left", "right"},
		RunE: func(cmd *cobra.Command, args []string) error {
			t := ipc.CmdFocusMonitorRight
			if args[0] == "left" {
				t = ipc.CmdFocusMonitorLeft
			}
			return send(ipc.Command{Type: t})
		},
	}
}

func moveToMonitorCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "move-to-monitor {left|right}",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"left", "right"},
		RunE: func(cmd *cobra.Command, args []string) error {
			t := ipc.CmdMoveWindowToMonitorRight
			if args[0] == "left" {
				t = ipc.CmdMoveWindowToMonitorLeft
			}
			return send(ipc.Command{Type: t})
		},
	}
}

func scrollCmd() *cobra.Command {
	var pixels int
	c := &cobra.Command{
		Use:       "scroll {left|right}",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"left", "right"},
		RunE: func(cmd *cobra.Command, args []string) error {
			delta := float64(pixels)
			if args[0] == "left" {
				delta = -delta
			}
			return send(ipc.Command{Type: ipc.CmdScroll, ScrollBy: delta})
		},
	}
	c.Flags().IntVar(&pixels, "pixels", 200, "scroll distance in pixels")
	return c
}

func resizeCmd() *cobra.Command {
	var delta int
	c := &cobra.Command{
		Use:  "resize",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return send(ipc.Command{Type: ipc.CmdResize, Delta: delta})
		},
	}
	c.Flags().IntVar(&delta, "delta", 0, "pixels to grow (positive) or shrink (negative) the focused column")
	c.MarkFlagRequired("delta")
	return c
}

func setColumnWidthCmd() *cobra.Command {
	var fraction float64
	c := &cobra.Command{
		Use:  "set-column-width",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return send(ipc.Command{Type: ipc.CmdSetColumnWidth, Fraction: fraction})
		},
	}
	c.Flags().Float64Var(&fraction, "fraction", 0.5, "focused column width as a fraction of the viewport (0,1]")
	return c
}

func closeWindowCmd() *cobra.Command {
	return simpleCmd("close-window", ipc.CmdCloseWindow)
}

func toggleFloatingCmd() *cobra.Command {
	return simpleCmd("toggle-floating", ipc.CmdToggleFloating)
}

func toggleFullscreenCmd() *cobra.Command {
	return simpleCmd("toggle-fullscreen", ipc.CmdToggleFullscreen)
}

func equalizeColumnWidthsCmd() *cobra.Command {
	return simpleCmd("equalize-column-widths", ipc.CmdEqualizeColumnWidths)
}

func queryCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "query {workspace|focused|all|status}",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"workspace", "focused", "all", "status"},
		RunE: func(cmd *cobra.Command, args []string) error {
			t := map[string]ipc.CommandType{
				"workspace": ipc.CmdQueryWorkspace,
				"focused":   ipc.CmdQueryFocused,
				"all":       ipc.CmdQueryAllWindows,
				"status":    ipc.CmdQueryStatus,
			}[args[0]]
			return send(ipc.Command{Type: t})
		},
	}
}

func initCmd() *cobra.Command {
	var output string
	var force bool
	c := &cobra.Command{
		Use:   "init",
		Short: "write a default config.toml; no IPC round-trip",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := output
			if path == "" {
				p, err := config.DefaultWritePath()
				if err != nil {
					return err
				}
				path = p
			}
			if !force {
				if _, err := os.Stat(path); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", path)
				}
			}
			if err := config.Save(config.Default(), path); err != nil {
				return err
			}
			fmt.Printf("wrote default config to %s\n", path)
			return nil
		},
	}
	c.Flags().StringVar(&output, "output", "", "path to write (default: the first candidate config path)")
	c.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	return c
}
