package daemon

import (
	"github.com/AdEx-Partners-DE/OpenNiri-Windows-sub000/internal/config"
	"github.com/AdEx-Partners-DE/OpenNiri-Windows-sub000/internal/geometry"
	"github.com/AdEx-Partners-DE/OpenNiri-Windows-sub000/internal/ipc"
)

// refresh re-enumerates every top-level window, inserting any the
// daemon hasn't seen yet and removing any that disappeared without
// firing a Destroyed event (the fallback path original_source's
// refresh_windows documents for events missed during a suspend/resume
// cycle).
func (d *Daemon) refresh() ipc.Response {
	wins, err := d.Platform.EnumerateWindows()
	if err != nil {
		d.Log.Warnf("refresh: enumerate windows: %v", err)
		return ipc.Errorf("enumerate windows: %v", err)
	}

	seen := make(map[geometry.WindowID]bool, len(wins))
	for _, w := range wins {
		seen[w.ID] = true
		if _, known := d.State.FindWindowMonitor(w.ID); !known {
			d.insertWindow(w)
		} else {
			d.State.WindowInfo[w.ID] = w
		}
	}
	for id := range d.State.WindowInfo {
		if !seen[id] {
			d.handleWindowDestroyed(id)
		}
	}

	d.applyAll()
	return ipc.OK()
}

// applyAll recomputes placements for every workspace from its current
// (already-committed or mid-animation) scroll offset and pushes them to
// the platform, without mutating any workspace — the semantics of the
// bare "apply" IPC command.
func (d *Daemon) applyAll() ipc.Response {
	var firstErr error
	for monitorID := range d.State.Workspaces {
		if err := d.applyWorkspace(monitorID); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if firstErr != nil {
		return ipc.Errorf("apply placements: %v", firstErr)
	}
	return ipc.OK()
}

// reloadConfig atomically swaps in a freshly loaded config file and
// rebuilds hotkey registrations from the new binding table, matching
// spec.md section 4.F's "A reload atomically swaps the config; hotkey
// registrations are rebuilt from the new binding table."
func (d *Daemon) reloadConfig() ipc.Response {
	cfg, _, warnings, err := config.Load()
	if err != nil {
		d.Log.Warnf("reload: %v", err)
		return ipc.Errorf("reload config: %v", err)
	}
	for _, w := range warnings {
		d.Log.Warnf("config: %s: %s", w.Field, w.Message)
	}
	for _, w := range d.State.ApplyConfig(cfg) {
		d.Log.Warnf("config: %s: %s", w.Field, w.Message)
	}
	d.reregisterHotkeys()
	d.applyAll()
	return ipc.OK()
}
