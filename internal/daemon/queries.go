package daemon

import (
	"time"

	"github.com/AdEx-Partners-DE/OpenNiri-Windows-sub000/internal/geometry"
	"github.com/AdEx-Partners-DE/OpenNiri-Windows-sub000/internal/ipc"
)

// queryWorkspace answers query_workspace with the focused workspace's
// shape, matching spec.md section 4.D's workspace_state response.
func (d *Daemon) queryWorkspace() ipc.Response {
	ws := d.State.FocusedWorkspace()
	windows := 0
	for _, col := range ws.Columns {
		windows += len(col.Windows)
	}
	return ipc.WorkspaceState(len(ws.Columns), windows, ws.FocusedColumn, ws.FocusedWindowInColumn, ws.ScrollOffset, ws.TotalWidth())
}

// queryFocused answers query_focused with the focused window's id (if
// any) and its column/in-column indices.
func (d *Daemon) queryFocused() ipc.Response {
	ws := d.State.FocusedWorkspace()
	id, ok := ws.FocusedWindow()
	var idPtr *uint64
	if ok {
		v := uint64(id)
		idPtr = &v
	}
	return ipc.FocusedWindow(idPtr, ws.FocusedColumn, ws.FocusedWindowInColumn)
}

// queryAllWindows answers query_all_windows with every known window
// across every monitor, enriched from State.WindowInfo.
func (d *Daemon) queryAllWindows() ipc.Response {
	focused, _ := d.State.FocusedWorkspace().FocusedWindow()

	var out []ipc.WindowInfo
	for monitorID, ws := range d.State.Workspaces {
		for ci, col := range ws.Columns {
			for wi, id := range col.Windows {
				out = append(out, d.windowInfoResponse(id, monitorID, &ci, &wi, id == focused, false))
			}
		}
		for id := range ws.Floating {
			out = append(out, d.windowInfoResponse(id, monitorID, nil, nil, id == focused, true))
		}
	}
	return ipc.WindowList(out)
}

// queryStatus answers query_status with version, monitor/window counts,
// and process uptime.
func (d *Daemon) queryStatus() ipc.Response {
	return ipc.StatusInfo(Version, len(d.State.Monitors), len(d.State.ManagedWindowIDs()), uint64(time.Since(d.State.StartedAt)/time.Second))
}

func (d *Daemon) windowInfoResponse(id geometry.WindowID, monitorID geometry.MonitorID, columnIndex, windowIndex *int, focused, floating bool) ipc.WindowInfo {
	info := d.State.WindowInfo[id]
	return ipc.WindowInfo{
		WindowID:    uint64(id),
		Title:       info.Title,
		ClassName:   info.ClassName,
		ProcessID:   uint32(info.PID),
		Executable:  info.Executable,
		Rect:        ipc.Rect{X: info.Rect.X, Y: info.Rect.Y, Width: info.Rect.Width, Height: info.Rect.Height},
		ColumnIndex: columnIndex,
		WindowIndex: windowIndex,
		MonitorID:   int64(monitorID),
		IsFloating:  floating,
		IsFocused:   focused,
	}
}
