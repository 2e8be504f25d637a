package main

import (
	"fmt"

	"github.com/AdEx-Partners-DE/OpenNiri-Windows-sub000/internal/ipc"
)

// printResponse renders a successful Response in a human-readable
// shape on stdout, one line per field, matching the teacher's plain
// stdout reporting rather than re-encoding JSON for a human reader.
func printResponse(resp ipc.Response) {
	switch resp.Status {
	case ipc.StatusOk:
		fmt.Println("ok")
	case ipc.StatusWorkspaceState:
		fmt.Printf("columns=%d windows=%d focused_column=%d focused_window=%d scroll_offset=%.1f total_width=%d\n",
			resp.Columns, resp.Windows, resp.FocusedColumn, resp.FocusedWindowIdx, resp.ScrollOffset, resp.TotalWidth)
	case ipc.StatusFocusedWindow:
		if resp.WindowID == nil {
			fmt.Println("no focused window")
			return
		}
		fmt.Printf("window_id=%d column=%d window=%d\n", *resp.WindowID, resp.ColumnIndex, resp.WindowIndex)
	case ipc.StatusWindowList:
		for _, w := range resp.WindowListField {
			fmt.Printf("%d\t%s\t%s\t%dx%d+%d+%d\tfloating=%v focused=%v\n",
				w.WindowID, w.ClassName, w.Title, w.Rect.Width, w.Rect.Height, w.Rect.X, w.Rect.Y, w.IsFloating, w.IsFocused)
		}
	case ipc.StatusFocusedWindowInfo:
		if resp.Window == nil {
			fmt.Println("no focused window")
			return
		}
		w := *resp.Window
		fmt.Printf("%d\t%s\t%s\t%s\n", w.WindowID, w.ClassName, w.Title, w.Executable)
	case ipc.StatusStatusInfo:
		fmt.Printf("version=%s monitors=%d total_windows=%d uptime_seconds=%d\n",
			resp.Version, resp.Monitors, resp.TotalWindows, resp.UptimeSeconds)
	default:
		fmt.Printf("%+v\n", resp)
	}
}
