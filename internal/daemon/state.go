package daemon

import (
	"time"

	"github.com/google/uuid"

	"github.com/AdEx-Partners-DE/OpenNiri-Windows-sub000/internal/config"
	"github.com/AdEx-Partners-DE/OpenNiri-Windows-sub000/internal/geometry"
	"github.com/AdEx-Partners-DE/OpenNiri-Windows-sub000/internal/layout"
	"github.com/AdEx-Partners-DE/OpenNiri-Windows-sub000/internal/platform"
)

// Version is surfaced in status_info responses and startup log lines.
// Overridden at link time via -ldflags in release builds; the teacher's
// own waybar module left this as a plain constant, so OpenNiri does too.
var Version = "dev"

// State is the single mutable value the event loop owns (spec.md
// section 4.E's DaemonState): one Workspace per monitor, the last
// enumerated monitor set, the focused monitor, the live config, and the
// bookkeeping the daemon itself needs (pause flag, previously focused
// window, run identity, start time for uptime reporting).
type State struct {
	Workspaces map[geometry.MonitorID]*layout.Workspace
	Monitors   map[geometry.MonitorID]platform.MonitorInfo

	FocusedMonitor geometry.MonitorID

	Config        config.Config
	CompiledRules []config.CompiledWindowRule

	Paused                bool
	PreviousFocusedWindow geometry.WindowID

	// WindowInfo caches the last enumerated details (title, class,
	// executable, pid) of every window the daemon has seen, keyed by
	// id. Workspaces themselves only ever store bare WindowIDs; this is
	// the side table query_all_windows and focused_window_info read
	// from.
	WindowInfo map[geometry.WindowID]platform.WindowInfo

	RunID     uuid.UUID
	StartedAt time.Time
}

// NewState builds an empty State from cfg; monitors and workspaces are
// populated by the startup sequence in loop.go. The returned warnings
// describe any window rule dropped for an invalid match_title regex
// (see config.Config.CompiledRules).
func NewState(cfg config.Config) (*State, []config.Warning) {
	rules, warnings := cfg.CompiledRules()
	return &State{
		Workspaces:    make(map[geometry.MonitorID]*layout.Workspace),
		Monitors:      make(map[geometry.MonitorID]platform.MonitorInfo),
		WindowInfo:    make(map[geometry.WindowID]platform.WindowInfo),
		Config:        cfg,
		CompiledRules: rules,
		RunID:         uuid.New(),
		StartedAt:     time.Now(),
	}, warnings
}

// newWorkspace builds an empty Workspace seeded from the current config's
// layout fields, matching original_source's Workspace::new(&config).
func (s *State) newWorkspace() *layout.Workspace {
	l := s.Config.Layout
	return layout.New(l.Gap, l.OuterGap, l.DefaultColumnWidth, l.MinColumnWidth, l.MaxColumnWidth, l.CenteringMode.ToLayout())
}

// EnsureWorkspace returns the workspace for monitorID, creating an empty
// one if this monitor has never been seen (spec.md section 3's Workspace
// lifecycle: "created when a monitor is first observed").
func (s *State) EnsureWorkspace(monitorID geometry.MonitorID) *layout.Workspace {
	if ws, ok := s.Workspaces[monitorID]; ok {
		return ws
	}
	ws := s.newWorkspace()
	s.Workspaces[monitorID] = ws
	return ws
}

// FocusedWorkspace returns the workspace of the currently focused
// monitor, creating it if necessary.
func (s *State) FocusedWorkspace() *layout.Workspace {
	return s.EnsureWorkspace(s.FocusedMonitor)
}

// Viewport returns the rectangle the focused (or given) monitor's
// workspace is scrolled over: the monitor's work area, per the
// GLOSSARY's "Viewport ... equal to the monitor's work area".
func (s *State) Viewport(monitorID geometry.MonitorID) geometry.Rect {
	if m, ok := s.Monitors[monitorID]; ok {
		return m.WorkArea
	}
	return geometry.Rect{Width: 1920, Height: 1080}
}

// FindWindowMonitor scans every workspace for id, in tiled columns or
// the floating set, and returns the monitor that owns it.
func (s *State) FindWindowMonitor(id geometry.WindowID) (geometry.MonitorID, bool) {
	for monitorID, ws := range s.Workspaces {
		for _, col := range ws.Columns {
			for _, w := range col.Windows {
				if w == id {
					return monitorID, true
				}
			}
		}
		if _, ok := ws.Floating[id]; ok {
			return monitorID, true
		}
	}
	return 0, false
}

// ManagedWindowIDs returns every window id currently tiled or floating
// across all workspaces, used for the clean-shutdown uncloak sweep and
// for status_info's total_windows count.
func (s *State) ManagedWindowIDs() []geometry.WindowID {
	var ids []geometry.WindowID
	for _, ws := range s.Workspaces {
		for _, col := range ws.Columns {
			ids = append(ids, col.Windows...)
		}
		for id := range ws.Floating {
			ids = append(ids, id)
		}
	}
	return ids
}

// DeviceNames returns the device-name of every currently known monitor,
// keyed by its (volatile) MonitorID, for internal/persist.Snapshot.
func (s *State) DeviceNames() map[geometry.MonitorID]string {
	out := make(map[geometry.MonitorID]string, len(s.Monitors))
	for id, m := range s.Monitors {
		out[id] = m.DeviceName
	}
	return out
}

// IsAnimating reports whether any workspace has an active scroll
// animation, the signal loop.go uses to start/stop the animation ticker.
func (s *State) IsAnimating() bool {
	for _, ws := range s.Workspaces {
		if ws.IsAnimating() {
			return true
		}
	}
	return false
}

// ApplyConfig swaps in a new config, matching original_source's reload:
// per-workspace gaps/bounds/centering are updated in place so existing
// column widths survive a reload untouched, but future placements and
// new workspaces use the new values. The returned warnings describe any
// window rule dropped for an invalid match_title regex.
func (s *State) ApplyConfig(cfg config.Config) []config.Warning {
	s.Config = cfg
	rules, warnings := cfg.CompiledRules()
	s.CompiledRules = rules
	for _, ws := range s.Workspaces {
		ws.Gap = cfg.Layout.Gap
		ws.OuterGap = cfg.Layout.OuterGap
		ws.DefaultColumnWidth = cfg.Layout.DefaultColumnWidth
		ws.MinColumnWidth = cfg.Layout.MinColumnWidth
		ws.MaxColumnWidth = cfg.Layout.MaxColumnWidth
		ws.CenteringMode = cfg.Layout.CenteringMode.ToLayout()
	}
	return warnings
}

// PlacementConfig derives the platform.PlacementConfig the current
// config implies.
func (s *State) PlacementConfig() platform.PlacementConfig {
	strategy := platform.Cloak
	if !s.Config.Appearance.UseCloaking {
		strategy = platform.MoveOffScreen
	}
	return platform.PlacementConfig{
		UseCloaking:            s.Config.Appearance.UseCloaking,
		UseDeferredPositioning: s.Config.Appearance.UseDeferredPositioning,
		HideStrategy:           strategy,
		ActiveBorder:           s.Config.Appearance.ActiveBorder,
	}
}
