package daemon

import (
	"github.com/AdEx-Partners-DE/OpenNiri-Windows-sub000/internal/geometry"
	"github.com/AdEx-Partners-DE/OpenNiri-Windows-sub000/internal/platform"
)

// monitorSlice returns d.State.Monitors as a slice, the shape
// platform's MonitorToLeft/MonitorToRight/FindMonitorForRect helpers
// consume.
func (d *Daemon) monitorSlice() []platform.MonitorInfo {
	out := make([]platform.MonitorInfo, 0, len(d.State.Monitors))
	for _, m := range d.State.Monitors {
		out = append(out, m)
	}
	return out
}

// neighborMonitor returns the monitor to the left or right of the
// currently focused one, in position order.
func (d *Daemon) neighborMonitor(left bool) (geometry.MonitorID, bool) {
	mons := d.monitorSlice()
	if left {
		m, ok := platform.MonitorToLeft(mons, d.State.FocusedMonitor)
		return m.ID, ok
	}
	m, ok := platform.MonitorToRight(mons, d.State.FocusedMonitor)
	return m.ID, ok
}
