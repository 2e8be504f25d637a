// Command openniric is the OpenNiri CLI client: it encodes one IPC
// command per invocation, sends it to the daemon, and reports the
// reply, exiting 0 on ok/status and 1 on error (spec.md section 6).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AdEx-Partners-DE/OpenNiri-Windows-sub000/internal/ipc"
)

func main() {
	root := &cobra.Command{
		Use:   "openniric",
		Short: "OpenNiri CLI client",
	}

	root.AddCommand(
		focusCmd(),
		scrollCmd(),
		moveCmd(),
		resizeCmd(),
		focusMonitorCmd(),
		moveToMonitorCmd(),
		queryCmd(),
		closeWindowCmd(),
		toggleFloatingCmd(),
		toggleFullscreenCmd(),
		setColumnWidthCmd(),
		equalizeColumnWidthsCmd(),
		simpleCmd("refresh", ipc.CmdRefresh),
		simpleCmd("apply", ipc.CmdApply),
		simpleCmd("reload", ipc.CmdReload),
		simpleCmd("stop", ipc.CmdStop),
		initCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// send dials the daemon, sends cmd, prints the reply, and returns a
// non-nil error (causing exit 1) on a transport failure or an error
// response.
func send(cmd ipc.Command) error {
	client := ipc.NewClient(ipc.Dial)
	resp, err := client.Send(cmd)
	if err != nil {
		return err
	}
	if resp.Status == ipc.StatusError {
		return fmt.Errorf("%s", resp.Message)
	}
	printResponse(resp)
	return nil
}

func simpleCmd(use string, t ipc.CommandType) *cobra.Command {
	return &cobra.Command{
		Use:  use,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return send(ipc.Command{Type: t})
		},
	}
}
