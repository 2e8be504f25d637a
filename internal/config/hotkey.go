package config

import (
	"fmt"
	"strings"

	"github.com/AdEx-Partners-DE/OpenNiri-Windows-sub000/internal/platform"
)

// ParseHotkeyString parses a "Mod[+Mod]*+Key" hotkey string (spec.md
// section 6's grammar) into a platform.ParsedHotkey. Modifiers are
// drawn from {Win, Ctrl, Alt, Shift}; the parser is case-insensitive.
func ParseHotkeyString(s string) (platform.ParsedHotkey, error) {
	parts := strings.Split(s, "+")
	if len(parts) < 2 {
		return platform.ParsedHotkey{}, fmt.Errorf("hotkey %q: need at least one modifier and a key", s)
	}

	var mods []platform.Modifier
	for _, p := range parts[:len(parts)-1] {
		mod, ok := parseModifier(p)
		if !ok {
			return platform.ParsedHotkey{}, fmt.Errorf("hotkey %q: unknown modifier %q", s, p)
		}
		mods = append(mods, mod)
	}

	key := strings.TrimSpace(parts[len(parts)-1])
	if key == "" {
		return platform.ParsedHotkey{}, fmt.Errorf("hotkey %q: empty key", s)
	}

	return platform.ParsedHotkey{Modifiers: mods, Key: strings.ToUpper(key)}, nil
}

func parseModifier(s string) (platform.Modifier, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "win", "super", "meta":
		return platform.ModWin, true
	case "ctrl", "control":
		return platform.ModCtrl, true
	case "alt":
		return platform.ModAlt, true
	case "shift":
		return platform.ModShift, true
	default:
		return 0, false
	}
}

// CompileHotkeys parses every binding in the hotkeys map, skipping (and
// collecting a warning for) any string that fails to parse rather than
// rejecting the whole config, per spec.md section 7's "invalid ...
// hotkey command names" handling.
func (c *Config) CompileHotkeys() ([]platform.HotkeyBinding, []Warning) {
	var bindings []platform.HotkeyBinding
	var warnings []Warning
	for hotkeyStr, cmdName := range c.Hotkeys {
		parsed, err := ParseHotkeyString(hotkeyStr)
		if err != nil {
			warnings = append(warnings, Warning{Field: "hotkeys." + hotkeyStr, Message: err.Error()})
			continue
		}
		bindings = append(bindings, platform.HotkeyBinding{ID: hotkeyStr, Key: parsed})
		_ = cmdName
	}
	return bindings, warnings
}
