// Package persist saves and restores the shape of each monitor's
// workspace across daemon restarts: it saves column widths and window
// membership order, restores only the column widths, count, focused
// column and scroll offset, and keys each entry by the monitor's stable
// device name rather
// than its volatile enumeration-order ID, matching
// original_source/crates/daemon/src/main.rs's save_state / load_state /
// restore_state trio.
package persist

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/AdEx-Partners-DE/OpenNiri-Windows-sub000/internal/geometry"
	"github.com/AdEx-Partners-DE/OpenNiri-Windows-sub000/internal/layout"
)

// stateFileName is the JSON snapshot written under the XDG data home.
const stateFileName = "workspace-state.json"

// ColumnSnapshot is one column's persisted width and window membership.
type ColumnSnapshot struct {
	Width   int                  `json:"width"`
	Windows []geometry.WindowID `json:"windows"`
}

// WorkspaceSnapshot is one monitor's persisted workspace shape: column
// widths and window membership, focus, scroll offset, and the layout
// fields it was configured with, matching spec.md section 6's
// "Workspace serialization includes columns ..., focused indices,
// scroll offset, gaps, default width, centering mode."
type WorkspaceSnapshot struct {
	DeviceName         string               `json:"monitor_device_name"`
	Columns            []ColumnSnapshot     `json:"columns"`
	FocusedColumn      int                  `json:"focused_column"`
	ScrollOffset       float64              `json:"scroll_offset"`
	Gap                int                  `json:"gap"`
	OuterGap           int                  `json:"outer_gap"`
	DefaultColumnWidth int                  `json:"default_column_width"`
	CenteringMode      layout.CenteringMode `json:"centering_mode"`
}

// StateSnapshot is the full on-disk state file (spec.md section 6):
// a save timestamp, one entry per monitor known at the time of the
// last save keyed by device name (so a restart with monitors
// re-enumerated in a different order still matches workspaces to the
// right physical display), and the name of the monitor that was
// focused when the snapshot was taken.
type StateSnapshot struct {
	Version            int                 `json:"version"`
	SavedAtUnix        int64               `json:"saved_at"`
	Workspaces         []WorkspaceSnapshot `json:"workspaces"`
	FocusedMonitorName string              `json:"focused_monitor_name"`
}

const currentVersion = 1

// StatePath returns the path the state file is read from and written
// to, under the XDG data home.
func StatePath() (string, error) {
	p, err := xdg.DataFile(filepath.Join("openniri", stateFileName))
	if err != nil {
		return "", fmt.Errorf("persist: resolve state path: %w", err)
	}
	return p, nil
}

// Snapshot builds a StateSnapshot from the live workspace set, keyed
// by each monitor's device name. savedAtUnix and focusedMonitorName
// are supplied by the caller since this package doesn't read the
// clock or know which monitor ID is focused on its own.
func Snapshot(deviceNames map[geometry.MonitorID]string, workspaces map[geometry.MonitorID]*layout.Workspace, savedAtUnix int64, focusedMonitorName string) StateSnapshot {
	snap := StateSnapshot{Version: currentVersion, SavedAtUnix: savedAtUnix, FocusedMonitorName: focusedMonitorName}
	for monitorID, ws := range workspaces {
		name, ok := deviceNames[monitorID]
		if !ok || name == "" {
			continue
		}
		wsSnap := WorkspaceSnapshot{
			DeviceName:         name,
			FocusedColumn:      ws.FocusedColumn,
			ScrollOffset:       ws.ScrollOffset,
			Gap:                ws.Gap,
			OuterGap:           ws.OuterGap,
			DefaultColumnWidth: ws.DefaultColumnWidth,
			CenteringMode:      ws.CenteringMode,
		}
		for _, col := range ws.Columns {
			wsSnap.Columns = append(wsSnap.Columns, ColumnSnapshot{
				Width:   col.Width,
				Windows: append([]geometry.WindowID(nil), col.Windows...),
			})
		}
		snap.Workspaces = append(snap.Workspaces, wsSnap)
	}
	return snap
}

// Save writes snap to StatePath() as JSON.
func Save(snap StateSnapshot) error {
	path, err := StatePath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("persist: create directory for %s: %w", path, err)
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("persist: encode state: %w", err)
	}
	if err := os.WriteFile(path, data, 0o640); err != nil {
		return fmt.Errorf("persist: write %s: %w", path, err)
	}
	return nil
}

// Load reads and decodes the state file at StatePath(). A missing file
// is not an error: it returns a zero-value StateSnapshot, matching
// original_source's treatment of a fresh install with no prior state.
func Load() (StateSnapshot, error) {
	path, err := StatePath()
	if err != nil {
		return StateSnapshot{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return StateSnapshot{}, nil
		}
		return StateSnapshot{}, fmt.Errorf("persist: read %s: %w", path, err)
	}
	var snap StateSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return StateSnapshot{}, fmt.Errorf("persist: decode %s: %w", path, err)
	}
	return snap, nil
}

// ByDeviceName indexes a snapshot's per-monitor entries for lookup
// during restore.
func (s StateSnapshot) ByDeviceName() map[string]WorkspaceSnapshot {
	out := make(map[string]WorkspaceSnapshot, len(s.Workspaces))
	for _, ws := range s.Workspaces {
		out[ws.DeviceName] = ws
	}
	return out
}

// Restore applies a persisted WorkspaceSnapshot's column widths onto a
// freshly created, empty Workspace. Window membership is dropped: the
// live window set enumerated after restart is the source of truth for
// which windows exist. Every restored column starts with no windows,
// and windows discovered afterwards are inserted as new columns, not
// into the restored ones.
func Restore(ws *layout.Workspace, snap WorkspaceSnapshot) {
	ws.ScrollOffset = snap.ScrollOffset
	ws.TargetScrollOffset = snap.ScrollOffset
	if len(snap.Columns) == 0 {
		return
	}
	ws.Columns = make([]layout.Column, len(snap.Columns))
	for i, col := range snap.Columns {
		ws.Columns[i] = layout.Column{Width: col.Width}
	}
	if snap.FocusedColumn >= 0 && snap.FocusedColumn < len(ws.Columns) {
		ws.FocusedColumn = snap.FocusedColumn
	}
}
