package daemon

import (
	"github.com/AdEx-Partners-DE/OpenNiri-Windows-sub000/internal/ipc"
	"github.com/AdEx-Partners-DE/OpenNiri-Windows-sub000/internal/layout"
)

// HandleCommand dispatches one decoded IPC command, mutating state and
// talking to the platform as needed, and returns the response to send
// plus whether the daemon should begin shutting down after it is sent
// (true only for CmdStop, matching spec.md section 4.D: "the response
// is sent first, then the daemon initiates shutdown").
func (d *Daemon) HandleCommand(cmd ipc.Command) (ipc.Response, bool) {
	switch cmd.Type {
	case ipc.CmdFocusLeft:
		return d.mutateFocused(func(ws *layout.Workspace) error { ws.FocusLeft(); return nil }, true), false
	case ipc.CmdFocusRight:
		return d.mutateFocused(func(ws *layout.Workspace) error { ws.FocusRight(); return nil }, true), false
	case ipc.CmdFocusUp:
		return d.mutateFocused(func(ws *layout.Workspace) error { ws.FocusUp(); return nil }, false), false
	case ipc.CmdFocusDown:
		return d.mutateFocused(func(ws *layout.Workspace) error { ws.FocusDown(); return nil }, false), false
	case ipc.CmdMoveColumnLeft:
		return d.mutateFocused(func(ws *layout.Workspace) error { ws.MoveColumnLeft(); return nil }, true), false
	case ipc.CmdMoveColumnRight:
		return d.mutateFocused(func(ws *layout.Workspace) error { ws.MoveColumnRight(); return nil }, true), false
	case ipc.CmdResize:
		return d.resize(cmd.Delta), false
	case ipc.CmdScroll:
		return d.scroll(cmd.ScrollBy), false
	case ipc.CmdSetColumnWidth:
		return d.mutateFocused(func(ws *layout.Workspace) error {
			return ws.SetFocusedColumnWidthFraction(cmd.Fraction, d.viewportWidth())
		}, false), false
	case ipc.CmdEqualizeColumnWidths:
		return d.mutateFocused(func(ws *layout.Workspace) error {
			ws.EqualizeColumnWidths(d.viewportWidth())
			return nil
		}, false), false
	case ipc.CmdToggleFloating:
		return d.mutateFocused(func(ws *layout.Workspace) error {
			return ws.ToggleFloating(d.State.Viewport(d.State.FocusedMonitor))
		}, false), false
	case ipc.CmdToggleFullscreen:
		return d.mutateFocused(func(ws *layout.Workspace) error { return ws.ToggleFullscreen() }, false), false
	case ipc.CmdCloseWindow:
		return d.closeWindow(), false

	case ipc.CmdFocusMonitorLeft:
		return d.focusMonitor(true), false
	case ipc.CmdFocusMonitorRight:
		return d.focusMonitor(false), false
	case ipc.CmdMoveWindowToMonitorLeft:
		return d.moveWindowToMonitor(true), false
	case ipc.CmdMoveWindowToMonitorRight:
		return d.moveWindowToMonitor(false), false

	case ipc.CmdQueryWorkspace:
		return d.queryWorkspace(), false
	case ipc.CmdQueryFocused:
		return d.queryFocused(), false
	case ipc.CmdQueryAllWindows:
		return d.queryAllWindows(), false
	case ipc.CmdQueryStatus:
		return d.queryStatus(), false

	case ipc.CmdRefresh:
		return d.refresh(), false
	case ipc.CmdApply:
		return d.applyAll(), false
	case ipc.CmdReload:
		return d.reloadConfig(), false
	case ipc.CmdStop:
		return ipc.OK(), true

	default:
		return ipc.Errorf("unknown command %q", cmd.Type), false
	}
}

// mutateFocused runs fn against the focused workspace, then — per
// spec.md section 4.E's command dispatch steps — re-centers if
// changesFocus, applies placements, and syncs the OS foreground window
// and border when focus moved.
func (d *Daemon) mutateFocused(fn func(*layout.Workspace) error, changesFocus bool) ipc.Response {
	ws := d.State.FocusedWorkspace()
	before, hadFocus := ws.FocusedWindow()

	if err := fn(ws); err != nil {
		return errResponse(err)
	}

	if changesFocus {
		ws.EnsureFocusedVisibleAnimated(d.viewportWidth(), 0)
	}
	d.applyWorkspace(d.State.FocusedMonitor)

	after, hasFocus := ws.FocusedWindow()
	if hasFocus && (!hadFocus || after != before) {
		d.syncForeground(after)
	}
	return ipc.OK()
}

func (d *Daemon) resize(delta int) ipc.Response {
	ws := d.State.FocusedWorkspace()
	if err := ws.ResizeFocusedColumn(delta); err != nil {
		return errResponse(err)
	}
	d.applyWorkspace(d.State.FocusedMonitor)
	d.showSnapHint()
	return ipc.OK()
}

func (d *Daemon) scroll(delta float64) ipc.Response {
	ws := d.State.FocusedWorkspace()
	ws.ScrollBy(delta, d.viewportWidth())
	d.applyWorkspace(d.State.FocusedMonitor)
	return ipc.OK()
}

func (d *Daemon) closeWindow() ipc.Response {
	ws := d.State.FocusedWorkspace()
	id, ok := ws.FocusedWindow()
	if !ok {
		return ipc.Errorf("no focused window to close")
	}
	if err := d.Platform.CloseWindow(id); err != nil {
		d.Log.Warnf("close_window %d: %v", id, err)
		return ipc.Errorf("close window: %v", err)
	}
	return ipc.OK()
}

// focusMonitor moves FocusedMonitor to the neighbor in the requested
// direction, a no-op if there is none.
func (d *Daemon) focusMonitor(left bool) ipc.Response {
	target, ok := d.neighborMonitor(left)
	if !ok {
		return ipc.OK()
	}
	d.State.FocusedMonitor = target
	ws := d.State.FocusedWorkspace()
	if id, has := ws.FocusedWindow(); has {
		d.syncForeground(id)
	}
	return ipc.OK()
}

// moveWindowToMonitor removes the focused window from its current
// workspace and inserts it into the neighboring monitor's workspace,
// following spec.md section 6's move_window_to_monitor_* commands.
func (d *Daemon) moveWindowToMonitor(left bool) ipc.Response {
	target, ok := d.neighborMonitor(left)
	if !ok {
		return ipc.OK()
	}

	src := d.State.FocusedWorkspace()
	id, has := src.FocusedWindow()
	if !has {
		return ipc.Errorf("no focused window to move")
	}
	width := 0
	for _, col := range src.Columns {
		if len(col.Windows) > 0 && col.Windows[0] == id {
			width = col.Width
		}
	}
	if err := src.RemoveWindow(id); err != nil {
		return errResponse(err)
	}
	dst := d.State.EnsureWorkspace(target)
	w := width
	if w == 0 {
		w = dst.DefaultColumnWidth
	}
	if err := dst.InsertWindow(id, &w); err != nil {
		return errResponse(err)
	}

	d.applyWorkspace(d.State.FocusedMonitor)
	d.State.FocusedMonitor = target
	dst.EnsureFocusedVisibleAnimated(d.State.Viewport(target).Width, 0)
	d.applyWorkspace(target)
	d.syncForeground(id)
	return ipc.OK()
}

func errResponse(err error) ipc.Response { return ipc.Errorf("%v", err) }

func (d *Daemon) viewportWidth() int {
	return d.State.Viewport(d.State.FocusedMonitor).Width
}
