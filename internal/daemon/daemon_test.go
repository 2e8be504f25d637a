package daemon

import (
	"testing"

	"github.com/AdEx-Partners-DE/OpenNiri-Windows-sub000/internal/config"
	"github.com/AdEx-Partners-DE/OpenNiri-Windows-sub000/internal/geometry"
	"github.com/AdEx-Partners-DE/OpenNiri-Windows-sub000/internal/ipc"
	"github.com/AdEx-Partners-DE/OpenNiri-Windows-sub000/internal/platform"
	"github.com/AdEx-Partners-DE/OpenNiri-Windows-sub000/internal/platform/fake"
)

func newTestDaemon(t *testing.T, mons []platform.MonitorInfo) (*Daemon, *fake.Platform) {
	t.Helper()
	plat := fake.New()
	plat.Monitors = mons
	d := NewDaemon(plat, config.Default())
	if err := d.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return d, plat
}

func twoMonitors() []platform.MonitorInfo {
	return []platform.MonitorInfo{
		{ID: 1, Rect: geometry.Rect{Width: 1920, Height: 1080}, WorkArea: geometry.Rect{Width: 1920, Height: 1080}, IsPrimary: true, DeviceName: `\\.\DISPLAY1`},
		{ID: 2, Rect: geometry.Rect{X: 1920, Width: 1920, Height: 1080}, WorkArea: geometry.Rect{X: 1920, Width: 1920, Height: 1080}, DeviceName: `\\.\DISPLAY2`},
	}
}

func TestStartCreatesOneWorkspacePerMonitorAndFocusesPrimary(t *testing.T) {
	d, _ := newTestDaemon(t, twoMonitors())
	if len(d.State.Workspaces) != 2 {
		t.Fatalf("Workspaces = %d, want 2", len(d.State.Workspaces))
	}
	if d.State.FocusedMonitor != geometry.MonitorID(1) {
		t.Fatalf("FocusedMonitor = %d, want 1 (the primary)", d.State.FocusedMonitor)
	}
}

func TestStartFallsBackToVirtualMonitorWhenNoneEnumerated(t *testing.T) {
	d, _ := newTestDaemon(t, nil)
	if len(d.State.Monitors) != 1 {
		t.Fatalf("Monitors = %d, want 1 (the fallback)", len(d.State.Monitors))
	}
}

func TestInsertWindowTilesIntoTheOwningMonitorsWorkspace(t *testing.T) {
	d, _ := newTestDaemon(t, twoMonitors())
	d.insertWindow(platform.WindowInfo{ID: 100, Rect: geometry.Rect{X: 2200, Y: 100, Width: 800, Height: 600}, ClassName: "Notepad"})

	monitorID, ok := d.State.FindWindowMonitor(geometry.WindowID(100))
	if !ok {
		t.Fatal("window 100 was not inserted into any workspace")
	}
	if monitorID != geometry.MonitorID(2) {
		t.Fatalf("window inserted on monitor %d, want 2 (its rect center is there)", monitorID)
	}
}

func TestInsertWindowFloatsWhenRuleMatches(t *testing.T) {
	plat := fake.New()
	plat.Monitors = twoMonitors()
	cfg := config.Default()
	cfg.WindowRules = []config.WindowRule{{MatchClass: "Calculator", Action: config.ActionFloat, Width: 400, Height: 300}}
	d := NewDaemon(plat, cfg)
	if err := d.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	d.insertWindow(platform.WindowInfo{ID: 5, ClassName: "Calculator", Rect: geometry.Rect{Width: 300, Height: 400}})

	ws := d.State.Workspaces[d.State.FocusedMonitor]
	if _, floating := ws.Floating[geometry.WindowID(5)]; !floating {
		t.Fatal("window matching a float rule must land in the floating set")
	}
}

func TestInsertWindowIgnoredByRuleIsNeverTracked(t *testing.T) {
	plat := fake.New()
	plat.Monitors = twoMonitors()
	cfg := config.Default()
	cfg.WindowRules = []config.WindowRule{{MatchClass: "TrayHelper", Action: config.ActionIgnore}}
	d := NewDaemon(plat, cfg)
	if err := d.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	d.insertWindow(platform.WindowInfo{ID: 9, ClassName: "TrayHelper", Rect: geometry.Rect{Width: 100, Height: 100}})

	if _, ok := d.State.FindWindowMonitor(geometry.WindowID(9)); ok {
		t.Fatal("an ignored window must not be tracked by any workspace")
	}
}

func TestHandleCommandFocusLeftSyncsForeground(t *testing.T) {
	d, plat := newTestDaemon(t, twoMonitors())
	d.insertWindow(platform.WindowInfo{ID: 1, Rect: geometry.Rect{Width: 800, Height: 600}})
	d.insertWindow(platform.WindowInfo{ID: 2, Rect: geometry.Rect{Width: 800, Height: 600}})
	// insertWindow already synced the foreground for each new window.
	plat.ForegroundWindows = nil

	resp, stop := d.HandleCommand(ipc.Command{Type: ipc.CmdFocusLeft})
	if stop {
		t.Fatal("focus_left must never request shutdown")
	}
	if resp.Status != ipc.StatusOk {
		t.Fatalf("status = %q, want ok", resp.Status)
	}
	if len(plat.ForegroundWindows) == 0 {
		t.Fatal("focus_left changing the focused window must sync the OS foreground window")
	}
}

func TestHandleCommandStopRequestsShutdown(t *testing.T) {
	d, _ := newTestDaemon(t, twoMonitors())
	resp, stop := d.HandleCommand(ipc.Command{Type: ipc.CmdStop})
	if !stop {
		t.Fatal("stop must request shutdown")
	}
	if resp.Status != ipc.StatusOk {
		t.Fatalf("status = %q, want ok", resp.Status)
	}
}

func TestHandleCommandCloseWindowWithNoFocusIsAnError(t *testing.T) {
	d, _ := newTestDaemon(t, twoMonitors())
	resp, _ := d.HandleCommand(ipc.Command{Type: ipc.CmdCloseWindow})
	if resp.Status != ipc.StatusError {
		t.Fatalf("status = %q, want error (no focused window to close)", resp.Status)
	}
}

func TestQueryStatusReportsMonitorAndWindowCounts(t *testing.T) {
	d, _ := newTestDaemon(t, twoMonitors())
	d.insertWindow(platform.WindowInfo{ID: 1, Rect: geometry.Rect{Width: 800, Height: 600}})

	resp := d.queryStatus()
	if resp.Status != ipc.StatusStatusInfo {
		t.Fatalf("status = %q, want status_info", resp.Status)
	}
	if resp.Monitors != 2 {
		t.Fatalf("Monitors = %d, want 2", resp.Monitors)
	}
	if resp.TotalWindows != 1 {
		t.Fatalf("TotalWindows = %d, want 1", resp.TotalWindows)
	}
}

func TestReconcileMonitorsMigratesWindowsOnFullReplacement(t *testing.T) {
	d, plat := newTestDaemon(t, []platform.MonitorInfo{
		{ID: 1, Rect: geometry.Rect{Width: 1920, Height: 1080}, WorkArea: geometry.Rect{Width: 1920, Height: 1080}, IsPrimary: true, DeviceName: "A"},
	})
	d.insertWindow(platform.WindowInfo{ID: 42, Rect: geometry.Rect{Width: 800, Height: 600}})

	// Scenario S5: the entire monitor id set is replaced (e.g. a docking
	// event re-enumerates with fresh ids).
	plat.Monitors = []platform.MonitorInfo{
		{ID: 99, Rect: geometry.Rect{Width: 2560, Height: 1440}, WorkArea: geometry.Rect{Width: 2560, Height: 1440}, IsPrimary: true, DeviceName: "B"},
	}
	d.reconcileMonitors()

	if _, ok := d.State.Monitors[1]; ok {
		t.Fatal("the removed monitor must be dropped from the monitor map")
	}
	monitorID, ok := d.State.FindWindowMonitor(geometry.WindowID(42))
	if !ok {
		t.Fatal("window 42 must survive the monitor replacement, migrated to the new primary")
	}
	if monitorID != geometry.MonitorID(99) {
		t.Fatalf("window migrated to monitor %d, want 99 (the new primary)", monitorID)
	}
	if d.State.FocusedMonitor != geometry.MonitorID(99) {
		t.Fatalf("FocusedMonitor = %d, want 99 after its old monitor was removed", d.State.FocusedMonitor)
	}
}

func TestRefreshInsertsUnseenAndRemovesMissingWindows(t *testing.T) {
	d, plat := newTestDaemon(t, twoMonitors())
	d.insertWindow(platform.WindowInfo{ID: 1, Rect: geometry.Rect{Width: 800, Height: 600}})

	// Simulate a suspend/resume cycle: window 1 closed without an event,
	// window 2 appeared without one.
	plat.Windows = []platform.WindowInfo{
		{ID: 2, Rect: geometry.Rect{Width: 800, Height: 600}},
	}

	resp := d.refresh()
	if resp.Status != ipc.StatusOk {
		t.Fatalf("refresh status = %q, want ok", resp.Status)
	}
	if _, ok := d.State.FindWindowMonitor(geometry.WindowID(1)); ok {
		t.Fatal("window 1 should have been dropped by refresh")
	}
	if _, ok := d.State.FindWindowMonitor(geometry.WindowID(2)); !ok {
		t.Fatal("window 2 should have been picked up by refresh")
	}
}

func TestHandleHotkeyWithNoBindingIsIgnored(t *testing.T) {
	d, plat := newTestDaemon(t, twoMonitors())
	d.HandleHotkey(platform.HotkeyEvent{ID: "Win+Z"})
	if len(plat.ForegroundWindows) != 0 {
		t.Fatal("an unbound hotkey must not dispatch any command")
	}
}

func TestHandleGestureDisabledByDefaultIsANoop(t *testing.T) {
	d, plat := newTestDaemon(t, twoMonitors())
	d.insertWindow(platform.WindowInfo{ID: 1, Rect: geometry.Rect{Width: 800, Height: 600}})
	before := len(plat.ForegroundWindows)
	d.HandleGesture(platform.GestureEvent{Direction: platform.SwipeLeft})
	if len(plat.ForegroundWindows) != before {
		t.Fatal("gestures are disabled by default and must not dispatch a command")
	}
}
