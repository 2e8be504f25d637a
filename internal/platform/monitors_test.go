package platform_test

import (
	"testing"

	"github.com/AdEx-Partners-DE/OpenNiri-Windows-sub000/internal/geometry"
	"github.com/AdEx-Partners-DE/OpenNiri-Windows-sub000/internal/platform"
)

func threeMonitors() []platform.MonitorInfo {
	return []platform.MonitorInfo{
		{ID: 1, Rect: geometry.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}, IsPrimary: true},
		{ID: 2, Rect: geometry.Rect{X: 1920, Y: 0, Width: 1920, Height: 1080}},
		{ID: 3, Rect: geometry.Rect{X: -1920, Y: 0, Width: 1920, Height: 1080}},
	}
}

func TestMonitorsByPositionOrdersByX(t *testing.T) {
	ordered := platform.MonitorsByPosition(threeMonitors())
	want := []geometry.MonitorID{3, 1, 2}
	for i, id := range want {
		if ordered[i].ID != id {
			t.Fatalf("position %d: want monitor %d, got %d", i, id, ordered[i].ID)
		}
	}
}

func TestMonitorToLeftAndRight(t *testing.T) {
	mons := threeMonitors()
	left, ok := platform.MonitorToLeft(mons, 1)
	if !ok || left.ID != 3 {
		t.Fatalf("MonitorToLeft(1) = %v, %v", left.ID, ok)
	}
	right, ok := platform.MonitorToRight(mons, 1)
	if !ok || right.ID != 2 {
		t.Fatalf("MonitorToRight(1) = %v, %v", right.ID, ok)
	}
	if _, ok := platform.MonitorToLeft(mons, 3); ok {
		t.Fatal("MonitorToLeft of the leftmost monitor should fail")
	}
	if _, ok := platform.MonitorToRight(mons, 2); ok {
		t.Fatal("MonitorToRight of the rightmost monitor should fail")
	}
}

func TestFindMonitorForRectFallsBackToPrimary(t *testing.T) {
	mons := threeMonitors()
	m, ok := platform.FindMonitorForRect(mons, geometry.Rect{X: 1950, Y: 10, Width: 100, Height: 100})
	if !ok || m.ID != 2 {
		t.Fatalf("expected monitor 2, got %v", m.ID)
	}
	m, ok = platform.FindMonitorForRect(mons, geometry.Rect{X: 100000, Y: 100000, Width: 10, Height: 10})
	if !ok || !m.IsPrimary {
		t.Fatalf("expected fallback to primary monitor, got %v", m)
	}
}
