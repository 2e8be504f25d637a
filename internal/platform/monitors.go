package platform

import (
	"sort"

	"github.com/AdEx-Partners-DE/OpenNiri-Windows-sub000/internal/geometry"
)

// MonitorsByPosition returns monitors sorted by (x, y), matching
// original_source's monitors_by_position.
func MonitorsByPosition(monitors []MonitorInfo) []MonitorInfo {
	sorted := append([]MonitorInfo(nil), monitors...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Rect.X != sorted[j].Rect.X {
			return sorted[i].Rect.X < sorted[j].Rect.X
		}
		return sorted[i].Rect.Y < sorted[j].Rect.Y
	})
	return sorted
}

func indexOf(monitors []MonitorInfo, id geometry.MonitorID) int {
	for i, m := range monitors {
		if m.ID == id {
			return i
		}
	}
	return -1
}

// MonitorToLeft returns the monitor immediately to the left of current
// in position order, if any.
func MonitorToLeft(monitors []MonitorInfo, current geometry.MonitorID) (MonitorInfo, bool) {
	ordered := MonitorsByPosition(monitors)
	i := indexOf(ordered, current)
	if i <= 0 {
		return MonitorInfo{}, false
	}
	return ordered[i-1], true
}

// MonitorToRight returns the monitor immediately to the right of
// current in position order, if any.
func MonitorToRight(monitors []MonitorInfo, current geometry.MonitorID) (MonitorInfo, bool) {
	ordered := MonitorsByPosition(monitors)
	i := indexOf(ordered, current)
	if i < 0 || i >= len(ordered)-1 {
		return MonitorInfo{}, false
	}
	return ordered[i+1], true
}

// FindMonitorForRect picks the monitor containing rect's center,
// falling back to the primary monitor.
func FindMonitorForRect(monitors []MonitorInfo, rect geometry.Rect) (MonitorInfo, bool) {
	cx := rect.X + rect.Width/2
	cy := rect.Y + rect.Height/2
	for _, m := range monitors {
		if m.Rect.Contains(cx, cy) {
			return m, true
		}
	}
	for _, m := range monitors {
		if m.IsPrimary {
			return m, true
		}
	}
	return MonitorInfo{}, false
}

// FindMonitorByID returns the monitor with the given id, if present.
func FindMonitorByID(monitors []MonitorInfo, id geometry.MonitorID) (MonitorInfo, bool) {
	for _, m := range monitors {
		if m.ID == id {
			return m, true
		}
	}
	return MonitorInfo{}, false
}

// PrimaryMonitor returns the first monitor flagged as primary.
func PrimaryMonitor(monitors []MonitorInfo) (MonitorInfo, bool) {
	for _, m := range monitors {
		if m.IsPrimary {
			return m, true
		}
	}
	return MonitorInfo{}, false
}
