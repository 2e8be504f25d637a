package daemon

import (
	"github.com/AdEx-Partners-DE/OpenNiri-Windows-sub000/internal/geometry"
	"github.com/AdEx-Partners-DE/OpenNiri-Windows-sub000/internal/layout"
	"github.com/AdEx-Partners-DE/OpenNiri-Windows-sub000/internal/platform"
)

// reconcileMonitors implements spec.md section 4.E's monitor
// reconciliation protocol, run whenever a DisplayChange event arrives:
// new monitors get an empty workspace before anything else so migration
// targets always exist, removed monitors' windows move to the new
// primary, then the monitor map is replaced wholesale and the focused
// monitor falls back to the new primary if it was the one removed.
func (d *Daemon) reconcileMonitors() {
	newMonitors, err := d.Platform.EnumerateMonitors()
	if err != nil {
		d.Log.Warnf("reconcile: enumerate monitors: %v", err)
		return
	}
	if len(newMonitors) == 0 {
		newMonitors = []platform.MonitorInfo{fallbackMonitor()}
	}

	newByID := make(map[geometry.MonitorID]platform.MonitorInfo, len(newMonitors))
	for _, m := range newMonitors {
		newByID[m.ID] = m
	}
	primaryID, havePrimary := newPrimary(newMonitors)

	// Step 1: create empty workspaces for every newly observed monitor
	// before anything is migrated into them.
	for id := range newByID {
		if _, known := d.State.Monitors[id]; !known {
			d.State.EnsureWorkspace(id)
		}
	}

	// Step 2: migrate every removed monitor's windows into the new
	// primary's workspace, then drop the removed monitor's workspace.
	for id := range d.State.Monitors {
		if _, stillPresent := newByID[id]; stillPresent {
			continue
		}
		ws, ok := d.State.Workspaces[id]
		if ok && havePrimary && id != primaryID {
			migrateWorkspace(ws, d.State.EnsureWorkspace(primaryID))
		}
		delete(d.State.Workspaces, id)
	}

	// Step 3: replace the monitor map wholesale.
	d.State.Monitors = newByID

	// Step 4: fall back the focused monitor if it no longer exists.
	if _, stillPresent := newByID[d.State.FocusedMonitor]; !stillPresent {
		if havePrimary {
			d.State.FocusedMonitor = primaryID
		} else {
			d.State.FocusedMonitor = 0
		}
	}

	d.applyAll()
}

// newPrimary picks the monitor flagged primary, falling back to the
// first entry when none is flagged (platform.FindMonitorForRect, by
// contrast, reports no match in that case).
func newPrimary(monitors []platform.MonitorInfo) (geometry.MonitorID, bool) {
	for _, m := range monitors {
		if m.IsPrimary {
			return m.ID, true
		}
	}
	if len(monitors) > 0 {
		return monitors[0].ID, true
	}
	return 0, false
}

func fallbackMonitor() platform.MonitorInfo {
	rect := geometry.Rect{Width: 1920, Height: 1080}
	return platform.MonitorInfo{ID: 1, Rect: rect, WorkArea: rect, IsPrimary: true, DeviceName: "virtual-0"}
}

// migrateWorkspace appends every tiled and floating window of src onto
// dst, preserving each column's width but not its strip position, and
// leaves src empty.
func migrateWorkspace(src, dst *layout.Workspace) {
	for _, col := range src.Columns {
		width := col.Width
		for _, id := range col.Windows {
			w := width
			_ = dst.InsertWindow(id, &w)
		}
	}
	for id, rect := range src.Floating {
		dst.AddFloating(id, rect)
	}
}
