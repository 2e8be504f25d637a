package persist

import (
	"testing"

	"github.com/AdEx-Partners-DE/OpenNiri-Windows-sub000/internal/geometry"
	"github.com/AdEx-Partners-DE/OpenNiri-Windows-sub000/internal/layout"
)

func TestSnapshotAndRestoreRoundTrip(t *testing.T) {
	ws := layout.New(10, 10, 800, 400, 1600, layout.Center)
	ws.InsertWindow(geometry.WindowID(1), nil)
	ws.InsertWindow(geometry.WindowID(2), nil)
	ws.Columns[0].Width = 650

	deviceNames := map[geometry.MonitorID]string{1: `\\.\DISPLAY1`}
	workspaces := map[geometry.MonitorID]*layout.Workspace{1: ws}

	snap := Snapshot(deviceNames, workspaces, 1700000000, `\\.\DISPLAY1`)
	if len(snap.Workspaces) != 1 {
		t.Fatalf("Snapshot() produced %d workspace entries, want 1", len(snap.Workspaces))
	}
	if snap.FocusedMonitorName != `\\.\DISPLAY1` {
		t.Fatalf("FocusedMonitorName = %q, want display name", snap.FocusedMonitorName)
	}
	if snap.Workspaces[0].DeviceName != `\\.\DISPLAY1` {
		t.Fatalf("DeviceName = %q, want display name", snap.Workspaces[0].DeviceName)
	}
	if len(snap.Workspaces[0].Columns) != 2 {
		t.Fatalf("Columns = %d, want 2", len(snap.Workspaces[0].Columns))
	}
	if snap.Workspaces[0].Columns[0].Width != 650 {
		t.Fatalf("Columns[0].Width = %d, want 650", snap.Workspaces[0].Columns[0].Width)
	}

	byName := snap.ByDeviceName()
	restored := layout.New(10, 10, 800, 400, 1600, layout.Center)
	Restore(restored, byName[`\\.\DISPLAY1`])

	if len(restored.Columns) != 2 {
		t.Fatalf("restored Columns = %d, want 2", len(restored.Columns))
	}
	if restored.Columns[0].Width != 650 {
		t.Fatalf("restored Columns[0].Width = %d, want 650", restored.Columns[0].Width)
	}
	if len(restored.Columns[0].Windows) != 0 {
		t.Fatal("restored columns must start with no window membership; callers re-attach live windows")
	}
}

func TestRestoreNoopOnEmptySnapshot(t *testing.T) {
	ws := layout.New(10, 10, 800, 400, 1600, layout.Center)
	ws.InsertWindow(geometry.WindowID(1), nil)
	Restore(ws, WorkspaceSnapshot{})
	if len(ws.Columns) != 1 {
		t.Fatalf("Restore with empty snapshot must be a no-op, got %d columns", len(ws.Columns))
	}
}
