package daemon

import (
	"github.com/AdEx-Partners-DE/OpenNiri-Windows-sub000/internal/config"
	"github.com/AdEx-Partners-DE/OpenNiri-Windows-sub000/internal/geometry"
	"github.com/AdEx-Partners-DE/OpenNiri-Windows-sub000/internal/ipc"
	"github.com/AdEx-Partners-DE/OpenNiri-Windows-sub000/internal/platform"
)

// HandleWindowEvent dispatches one OS window/display event (spec.md
// section 4.C's WindowEvent taxonomy) onto the state machine.
func (d *Daemon) HandleWindowEvent(ev platform.WindowEvent) {
	switch ev.Kind {
	case platform.WindowCreated:
		d.handleWindowCreated(ev.ID)
	case platform.WindowDestroyed:
		d.handleWindowDestroyed(ev.ID)
	case platform.WindowFocused:
		d.handleWindowFocused(ev.ID)
	case platform.WindowMovedOrResized:
		d.handleWindowMoved(ev.ID)
	case platform.DisplayChange:
		d.reconcileMonitors()
	case platform.WindowMinimized, platform.WindowRestored:
		d.Log.Debugf("window %d %v", ev.ID, ev.Kind)
	case platform.MouseEnterWindow:
		// Handled by loop.go's debounce timer, not here: MouseEnterWindow
		// arrives on a different channel (InstallMouseHook) than the rest
		// of WindowEvent, but shares the same struct shape.
	}
}

func (d *Daemon) handleWindowCreated(id geometry.WindowID) {
	wins, err := d.Platform.EnumerateWindows()
	if err != nil {
		d.Log.Warnf("enumerate windows after create event: %v", err)
		return
	}
	for _, w := range wins {
		if w.ID == id {
			d.insertWindow(w)
			return
		}
	}
}

// insertWindow classifies info against the compiled window rules and
// inserts it into the matching workspace as tiled or floating, or drops
// it entirely if the first matching rule says Ignore. Classification
// happens once, at insert time, and is not retroactively re-applied if
// the rules change later (spec.md section 3's Lifecycle note).
func (d *Daemon) insertWindow(info platform.WindowInfo) {
	if _, known := d.State.FindWindowMonitor(info.ID); known {
		return
	}
	action, width, height := d.classify(info)
	if action == config.ActionIgnore {
		return
	}

	monitorID := d.monitorForRect(info.Rect)
	ws := d.State.EnsureWorkspace(monitorID)
	d.State.WindowInfo[info.ID] = info

	if action == config.ActionFloat {
		vp := d.State.Viewport(monitorID)
		rect := floatingRect(vp, info.Rect, width, height)
		ws.AddFloating(info.ID, rect)
		d.applyWorkspace(monitorID)
		return
	}

	w := clampInt(info.Rect.Width, ws.MinColumnWidth, ws.MaxColumnWidth)
	if err := ws.InsertWindow(info.ID, &w); err != nil {
		d.Log.Warnf("insert window %d: %v", info.ID, err)
		return
	}
	if d.State.Config.Behavior.FocusNewWindows {
		ws.EnsureFocusedVisibleAnimated(d.State.Viewport(monitorID).Width, 0)
	}
	d.applyWorkspace(monitorID)
	if d.State.Config.Behavior.FocusNewWindows {
		d.State.FocusedMonitor = monitorID
		d.syncForeground(info.ID)
	}
}

// classify runs info against the compiled rule table, returning the
// first match's action and optional float dimensions, or ActionTile
// with no override if nothing matches.
func (d *Daemon) classify(info platform.WindowInfo) (config.WindowAction, int, int) {
	for _, r := range d.State.CompiledRules {
		if r.Matches(info.ClassName, info.Title, info.Executable) {
			w, _ := r.Width()
			h, _ := r.Height()
			return r.Action(), w, h
		}
	}
	return config.ActionTile, 0, 0
}

func floatingRect(viewport, observed geometry.Rect, widthOverride, heightOverride int) geometry.Rect {
	width, height := 800, 600
	if widthOverride > 0 {
		width = widthOverride
	}
	if heightOverride > 0 {
		height = heightOverride
	}
	return geometry.Rect{
		X:      viewport.X + (viewport.Width-width)/2,
		Y:      viewport.Y + (viewport.Height-height)/2,
		Width:  width,
		Height: height,
	}
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if max > 0 && v > max {
		return max
	}
	return v
}

// monitorForRect picks the monitor whose bounds contain rect's center,
// falling back to the primary monitor, or to the focused monitor when
// none is flagged primary.
func (d *Daemon) monitorForRect(rect geometry.Rect) geometry.MonitorID {
	if m, ok := platform.FindMonitorForRect(d.monitorSlice(), rect); ok {
		return m.ID
	}
	return d.State.FocusedMonitor
}

func (d *Daemon) handleWindowDestroyed(id geometry.WindowID) {
	monitorID, ok := d.State.FindWindowMonitor(id)
	delete(d.State.WindowInfo, id)
	if !ok {
		return
	}
	ws := d.State.Workspaces[monitorID]
	if err := ws.RemoveWindow(id); err != nil {
		d.Log.Warnf("remove destroyed window %d: %v", id, err)
		return
	}
	d.applyWorkspace(monitorID)
}

// handleWindowFocused sets both the column/in-column focus indices of
// whichever workspace owns id and makes its monitor the focused one.
// Per spec.md section 9's open question 3, this fails without surfacing
// an error when id isn't tracked in any column (an untracked id is
// ignored; a floating id is logged at debug level) — Focused events
// are not client-initiated, so there is no IPC caller to report to.
func (d *Daemon) handleWindowFocused(id geometry.WindowID) {
	monitorID, ok := d.State.FindWindowMonitor(id)
	if !ok {
		return
	}
	ws := d.State.Workspaces[monitorID]
	if err := ws.FocusWindow(id); err != nil {
		// id may be floating rather than tiled; floating windows have no
		// column/in-column indices to set, but still carry the monitor
		// focus forward.
		d.Log.Debugf("focus_window %d: %v", id, err)
	}
	d.State.FocusedMonitor = monitorID
	d.State.PreviousFocusedWindow = id
}

// handleWindowMoved updates a floating window's tracked rect when the
// user drags or resizes it; tiled windows' own moves are the daemon's
// own ApplyPlacements calls reflected back and are ignored to avoid a
// feedback loop.
func (d *Daemon) handleWindowMoved(id geometry.WindowID) {
	monitorID, ok := d.State.FindWindowMonitor(id)
	if !ok {
		return
	}
	ws := d.State.Workspaces[monitorID]
	if _, floating := ws.Floating[id]; !floating {
		return
	}
	wins, err := d.Platform.EnumerateWindows()
	if err != nil {
		return
	}
	for _, w := range wins {
		if w.ID == id {
			ws.Floating[id] = w.Rect
			return
		}
	}
}

// HandleHotkey resolves a fired hotkey to its configured command name
// and reuses the same dispatch path as an IPC command.
func (d *Daemon) HandleHotkey(ev platform.HotkeyEvent) {
	name, ok := d.State.Config.Hotkeys[ev.ID]
	if !ok {
		d.Log.Warnf("hotkey %q fired with no binding", ev.ID)
		return
	}
	d.dispatchNamedCommand(name)
}

// HandleGesture resolves a fired touchpad gesture to its configured
// command name via the four direction bindings.
func (d *Daemon) HandleGesture(ev platform.GestureEvent) {
	if !d.State.Config.Gestures.Enabled {
		return
	}
	var name string
	switch ev.Direction {
	case platform.SwipeLeft:
		name = d.State.Config.Gestures.SwipeLeft
	case platform.SwipeRight:
		name = d.State.Config.Gestures.SwipeRight
	case platform.SwipeUp:
		name = d.State.Config.Gestures.SwipeUp
	case platform.SwipeDown:
		name = d.State.Config.Gestures.SwipeDown
	}
	d.dispatchNamedCommand(name)
}

// dispatchNamedCommand resolves a hotkey/gesture command-name string to
// an ipc.Command and routes it through HandleCommand, discarding the
// response (there is no IPC client waiting for hotkey/gesture results).
func (d *Daemon) dispatchNamedCommand(name string) {
	cmd, ok := commandForName(name)
	if !ok {
		d.Log.Warnf("unknown hotkey/gesture command name %q", name)
		return
	}
	if resp, _ := d.HandleCommand(cmd); resp.Status == ipc.StatusError {
		d.Log.Warnf("command %q failed: %s", name, resp.Message)
	}
}

// resizeStepPixels is the width delta applied by the "resize_shrink" /
// "resize_grow" convenience command names used by the default hotkey
// table (internal/config.defaultHotkeys), which the closed IPC command
// set doesn't otherwise expose a named shortcut for.
const resizeStepPixels = 80

func commandForName(name string) (ipc.Command, bool) {
	switch name {
	case "resize_shrink":
		return ipc.Command{Type: ipc.CmdResize, Delta: -resizeStepPixels}, true
	case "resize_grow":
		return ipc.Command{Type: ipc.CmdResize, Delta: resizeStepPixels}, true
	}
	t := ipc.CommandType(name)
	if !t.Valid() {
		return ipc.Command{}, false
	}
	return ipc.Command{Type: t}, true
}

// HandleTray dispatches one tray menu event (spec.md section 4.E / the
// six-variant TrayEvent restored per SPEC_FULL.md section 4). The tray
// icon and its menu rendering are out of scope; this just consumes the
// events it would emit.
func (d *Daemon) HandleTray(ev TrayEvent) {
	switch ev {
	case TrayRefresh:
		d.refresh()
	case TrayReload:
		d.reloadConfig()
	case TrayExit:
		d.requestShutdown()
	case TrayTogglePause:
		d.State.Paused = !d.State.Paused
	case TrayOpenConfig, TrayViewLogs:
		d.Log.Infof("tray event %v (external surface, nothing to do in-core)", ev)
	}
}
