// Package config is the immutable configuration snapshot the daemon
// core consumes (spec.md section 4.F): layout gaps/bounds, appearance,
// behavior flags, hotkey bindings, gesture bindings, snap hint
// cosmetics, and window rules. Field shapes and defaults are grounded
// on original_source/crates/daemon/src/config.rs, generalized with the
// snap-hint color fields and the complete hotkey/gesture/window-rule
// tables that original_source's own distillation omitted (see
// SPEC_FULL.md section 4).
package config

import (
	"fmt"
	"regexp"

	"github.com/AdEx-Partners-DE/OpenNiri-Windows-sub000/internal/layout"
)

// CenteringMode mirrors layout.CenteringMode for TOML purposes so the
// config package doesn't leak layout's internal iota values into the
// file format.
type CenteringMode string

const (
	CenteringCenter     CenteringMode = "center"
	CenteringJustInView CenteringMode = "just_in_view"
)

// ToLayout converts the wire representation to layout.CenteringMode,
// defaulting to Center for an unrecognized value.
func (c CenteringMode) ToLayout() layout.CenteringMode {
	if c == CenteringJustInView {
		return layout.JustInView
	}
	return layout.Center
}

// LayoutConfig is spec.md section 4.F's "Layout" field group.
type LayoutConfig struct {
	Gap                int           `toml:"gap"`
	OuterGap           int           `toml:"outer_gap"`
	DefaultColumnWidth int           `toml:"default_column_width"`
	MinColumnWidth     int           `toml:"min_column_width"`
	MaxColumnWidth     int           `toml:"max_column_width"`
	CenteringMode      CenteringMode `toml:"centering_mode"`
}

// AppearanceConfig is spec.md section 4.F's "Appearance" field group,
// completed per SPEC_FULL.md section 4 with active_border fields the
// distilled spec.md names but original_source/config.rs never defined.
type AppearanceConfig struct {
	UseCloaking           bool   `toml:"use_cloaking"`
	UseDeferredPositioning bool  `toml:"use_deferred_positioning"`
	ActiveBorder          bool   `toml:"active_border"`
	ActiveBorderColor     string `toml:"active_border_color"`
}

// BehaviorConfig is spec.md section 4.F's "Behavior" field group.
type BehaviorConfig struct {
	FocusNewWindows         bool   `toml:"focus_new_windows"`
	TrackFocusChanges       bool   `toml:"track_focus_changes"`
	FocusFollowsMouse       bool   `toml:"focus_follows_mouse"`
	FocusFollowsMouseDelayMs int64 `toml:"focus_follows_mouse_delay_ms"`
	LogLevel                string `toml:"log_level"`
}

// GesturesConfig is spec.md section 4.F's "Gestures" field group: a
// master enable flag plus one command-name string per swipe direction.
type GesturesConfig struct {
	Enabled    bool   `toml:"enabled"`
	SwipeLeft  string `toml:"swipe_left"`
	SwipeRight string `toml:"swipe_right"`
	SwipeUp    string `toml:"swipe_up"`
	SwipeDown  string `toml:"swipe_down"`
}

// SnapHintsConfig is spec.md section 4.F's "Snap hints" field group,
// enriched per SPEC_FULL.md section 4 with the three per-hint-type
// colors original_source/platform_win32/overlay.rs carries.
type SnapHintsConfig struct {
	Enabled     bool   `toml:"enabled"`
	DurationMs  int64  `toml:"duration_ms"`
	ResizeColor string `toml:"resize_color"`
	MoveColor   string `toml:"move_color"`
	FocusColor  string `toml:"focus_color"`
}

// WindowAction is the outcome of matching a window against the rule
// table.
type WindowAction string

const (
	ActionTile   WindowAction = "tile"
	ActionFloat  WindowAction = "float"
	ActionIgnore WindowAction = "ignore"
)

// WindowRule is one entry of spec.md section 4.F's ordered window-rule
// list: first match wins, fields left empty never constrain the match.
type WindowRule struct {
	MatchClass      string       `toml:"match_class,omitempty"`
	MatchTitle      string       `toml:"match_title,omitempty"`
	MatchExecutable string       `toml:"match_executable,omitempty"`
	Action          WindowAction `toml:"action"`
	Width           int          `toml:"width,omitempty"`
	Height          int          `toml:"height,omitempty"`
}

// Config is the full immutable snapshot consumed by internal/daemon.
type Config struct {
	Layout      LayoutConfig          `toml:"layout"`
	Appearance  AppearanceConfig      `toml:"appearance"`
	Behavior    BehaviorConfig        `toml:"behavior"`
	Hotkeys     map[string]string     `toml:"hotkeys"`
	Gestures    GesturesConfig        `toml:"gestures"`
	SnapHints   SnapHintsConfig       `toml:"snap_hints"`
	WindowRules []WindowRule          `toml:"window_rules"`
}

// Default returns the built-in configuration used when no config file
// is found, matching original_source/config.rs's #[derive(Default)]
// field values plus the SPEC_FULL.md-restored fields.
func Default() Config {
	return Config{
		Layout: LayoutConfig{
			Gap:                10,
			OuterGap:           10,
			DefaultColumnWidth: 800,
			MinColumnWidth:     400,
			MaxColumnWidth:     1600,
			CenteringMode:      CenteringCenter,
		},
		Appearance: AppearanceConfig{
			UseCloaking:            true,
			UseDeferredPositioning: true,
			ActiveBorder:           false,
			ActiveBorderColor:      "0078D4",
		},
		Behavior: BehaviorConfig{
			FocusNewWindows:          true,
			TrackFocusChanges:        true,
			FocusFollowsMouse:        false,
			FocusFollowsMouseDelayMs: 200,
			LogLevel:                 "info",
		},
		Hotkeys: defaultHotkeys(),
		Gestures: GesturesConfig{
			Enabled:    false,
			SwipeLeft:  "focus_left",
			SwipeRight: "focus_right",
			SwipeUp:    "focus_up",
			SwipeDown:  "focus_down",
		},
		SnapHints: SnapHintsConfig{
			Enabled:     true,
			DurationMs:  200,
			ResizeColor: "00FF8040",
			MoveColor:   "0040FF40",
			FocusColor:  "004080FF",
		},
		WindowRules: nil,
	}
}

func defaultHotkeys() map[string]string {
	return map[string]string{
		"Win+H":             "focus_left",
		"Win+L":             "focus_right",
		"Win+J":             "focus_down",
		"Win+K":             "focus_up",
		"Win+Shift+H":       "move_column_left",
		"Win+Shift+L":       "move_column_right",
		"Win+Ctrl+H":        "resize_shrink",
		"Win+Ctrl+L":        "resize_grow",
		"Win+Alt+H":         "focus_monitor_left",
		"Win+Alt+L":         "focus_monitor_right",
		"Win+Alt+Shift+H":   "move_window_to_monitor_left",
		"Win+Alt+Shift+L":   "move_window_to_monitor_right",
		"Win+R":             "refresh",
	}
}

// Warning is a non-fatal config validation finding (spec.md section 7:
// "out-of-range numeric values are clamped" and reported as warnings,
// never rejected).
type Warning struct {
	Field   string
	Message string
}

// Validate clamps out-of-range numeric fields in place and returns the
// warnings describing each clamp, matching original_source's
// Config::validate() -> Vec<ValidationWarning>.
func (c *Config) Validate() []Warning {
	var warnings []Warning

	clampInt := func(field string, v *int, min, max int) {
		if *v < min {
			warnings = append(warnings, Warning{field, "value below minimum, clamped"})
			*v = min
		} else if max > 0 && *v > max {
			warnings = append(warnings, Warning{field, "value above maximum, clamped"})
			*v = max
		}
	}

	clampInt("layout.gap", &c.Layout.Gap, 0, 500)
	clampInt("layout.outer_gap", &c.Layout.OuterGap, 0, 500)
	clampInt("layout.min_column_width", &c.Layout.MinColumnWidth, layout.AbsoluteMinColumnWidth, 0)
	if c.Layout.MaxColumnWidth > 0 && c.Layout.MaxColumnWidth < c.Layout.MinColumnWidth {
		warnings = append(warnings, Warning{"layout.max_column_width", "below min_column_width, raised to match"})
		c.Layout.MaxColumnWidth = c.Layout.MinColumnWidth
	}
	clampInt("layout.default_column_width", &c.Layout.DefaultColumnWidth, c.Layout.MinColumnWidth, c.Layout.MaxColumnWidth)

	if c.Behavior.FocusFollowsMouseDelayMs < 0 {
		warnings = append(warnings, Warning{"behavior.focus_follows_mouse_delay_ms", "negative delay, clamped to 0"})
		c.Behavior.FocusFollowsMouseDelayMs = 0
	}
	if c.SnapHints.DurationMs < 0 {
		warnings = append(warnings, Warning{"snap_hints.duration_ms", "negative duration, clamped to 0"})
		c.SnapHints.DurationMs = 0
	}

	switch c.Layout.CenteringMode {
	case CenteringCenter, CenteringJustInView:
	default:
		warnings = append(warnings, Warning{"layout.centering_mode", "unrecognized value, defaulted to center"})
		c.Layout.CenteringMode = CenteringCenter
	}

	return warnings
}

// CompiledRules compiles the ordered window-rule list once for the
// lifetime of a Config. It is a SPEC_FULL.md section 4 supplement —
// original_source/crates/daemon/src/config.rs has no window-rule or
// regex machinery of its own to match, so the compiled-rule shape and
// the drop-on-invalid-regex behavior below are this module's own. A
// rule whose match_title fails to compile as a regex is dropped, with
// a Warning explaining why, rather than kept with titleRe nil — nil
// reads as "no title constraint" in Matches, which would silently turn
// a typo'd title-only rule into a universal match.
func (c *Config) CompiledRules() ([]CompiledWindowRule, []Warning) {
	out := make([]CompiledWindowRule, 0, len(c.WindowRules))
	var warnings []Warning
	for i, r := range c.WindowRules {
		cr := CompiledWindowRule{rule: r}
		if r.MatchTitle != "" {
			re, err := regexp.Compile(r.MatchTitle)
			if err != nil {
				warnings = append(warnings, Warning{
					Field:   fmt.Sprintf("window_rules[%d].match_title", i),
					Message: fmt.Sprintf("invalid regex %q, rule dropped: %v", r.MatchTitle, err),
				})
				continue
			}
			cr.titleRe = re
		}
		out = append(out, cr)
	}
	return out, warnings
}

// CompiledWindowRule is one pre-compiled window rule ready for
// repeated Matches calls.
type CompiledWindowRule struct {
	rule    WindowRule
	titleRe *regexp.Regexp
}

// Matches reports whether class, title, executable satisfy every
// non-empty match field of the rule: regex on title, exact match on
// class/executable.
func (r CompiledWindowRule) Matches(class, title, executable string) bool {
	if r.rule.MatchClass != "" && r.rule.MatchClass != class {
		return false
	}
	if r.rule.MatchExecutable != "" && r.rule.MatchExecutable != executable {
		return false
	}
	if r.titleRe != nil && !r.titleRe.MatchString(title) {
		return false
	}
	return true
}

// Action returns the rule's action.
func (r CompiledWindowRule) Action() WindowAction { return r.rule.Action }

// Width and Height return the rule's requested floating dimensions,
// and whether each was set.
func (r CompiledWindowRule) Width() (int, bool)  { return r.rule.Width, r.rule.Width > 0 }
func (r CompiledWindowRule) Height() (int, bool) { return r.rule.Height, r.rule.Height > 0 }
