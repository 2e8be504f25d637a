package config

import (
	"strings"
	"testing"

	"github.com/AdEx-Partners-DE/OpenNiri-Windows-sub000/internal/layout"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := Default()
	if warnings := cfg.Validate(); len(warnings) != 0 {
		t.Fatalf("Default() produced validation warnings: %+v", warnings)
	}
	if len(cfg.Hotkeys) == 0 {
		t.Fatal("Default() hotkeys must not be empty")
	}
	if cfg.Layout.CenteringMode.ToLayout() != layout.Center {
		t.Fatalf("Default() centering mode = %v, want Center", cfg.Layout.CenteringMode.ToLayout())
	}
}

func TestParsePartialTOMLUsesDefaults(t *testing.T) {
	data := `
[layout]
gap = 20
`
	cfg, warnings, err := parse([]byte(data))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %+v", warnings)
	}
	if cfg.Layout.Gap != 20 {
		t.Fatalf("Layout.Gap = %d, want 20", cfg.Layout.Gap)
	}
	if cfg.Layout.DefaultColumnWidth != 800 {
		t.Fatalf("Layout.DefaultColumnWidth = %d, want default 800", cfg.Layout.DefaultColumnWidth)
	}
	if cfg.Behavior.LogLevel != "info" {
		t.Fatalf("Behavior.LogLevel = %q, want default %q", cfg.Behavior.LogLevel, "info")
	}
	if len(cfg.Hotkeys) == 0 {
		t.Fatal("hotkeys must fall back to defaults when omitted")
	}
}

func TestValidateClampsOutOfRangeValues(t *testing.T) {
	cfg := Default()
	cfg.Layout.Gap = -5
	cfg.Layout.MinColumnWidth = 10
	cfg.Behavior.FocusFollowsMouseDelayMs = -100
	cfg.Layout.CenteringMode = CenteringMode("nonsense")

	warnings := cfg.Validate()
	if len(warnings) == 0 {
		t.Fatal("expected validation warnings for out-of-range config")
	}
	if cfg.Layout.Gap != 0 {
		t.Fatalf("Layout.Gap = %d, want clamped to 0", cfg.Layout.Gap)
	}
	if cfg.Layout.MinColumnWidth != layout.AbsoluteMinColumnWidth {
		t.Fatalf("Layout.MinColumnWidth = %d, want clamped to %d", cfg.Layout.MinColumnWidth, layout.AbsoluteMinColumnWidth)
	}
	if cfg.Behavior.FocusFollowsMouseDelayMs != 0 {
		t.Fatalf("FocusFollowsMouseDelayMs = %d, want clamped to 0", cfg.Behavior.FocusFollowsMouseDelayMs)
	}
	if cfg.Layout.CenteringMode != CenteringCenter {
		t.Fatalf("CenteringMode = %q, want defaulted to center", cfg.Layout.CenteringMode)
	}
}

func TestValidateRaisesMaxBelowMin(t *testing.T) {
	cfg := Default()
	cfg.Layout.MinColumnWidth = 900
	cfg.Layout.MaxColumnWidth = 500
	cfg.Validate()
	if cfg.Layout.MaxColumnWidth != cfg.Layout.MinColumnWidth {
		t.Fatalf("MaxColumnWidth = %d, want raised to MinColumnWidth %d", cfg.Layout.MaxColumnWidth, cfg.Layout.MinColumnWidth)
	}
}

func TestCompiledRulesMatching(t *testing.T) {
	cfg := Default()
	cfg.WindowRules = []WindowRule{
		{MatchClass: "Notepad", Action: ActionFloat, Width: 600, Height: 400},
		{MatchTitle: `^Slack \|`, Action: ActionTile},
		{Action: ActionIgnore},
	}
	rules, warnings := cfg.CompiledRules()
	if len(rules) != 3 {
		t.Fatalf("CompiledRules() returned %d rules, want 3", len(rules))
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings for valid rules: %+v", warnings)
	}

	if !rules[0].Matches("Notepad", "Untitled - Notepad", "notepad.exe") {
		t.Fatal("rule 0 should match on class")
	}
	if rules[0].Matches("Chrome", "anything", "chrome.exe") {
		t.Fatal("rule 0 should not match a different class")
	}
	if w, ok := rules[0].Width(); !ok || w != 600 {
		t.Fatalf("rule 0 Width() = (%d, %v), want (600, true)", w, ok)
	}

	if !rules[1].Matches("slack", "Slack | general", "slack.exe") {
		t.Fatal("rule 1 should match its title regex")
	}
	if rules[1].Matches("slack", "general", "slack.exe") {
		t.Fatal("rule 1 should not match a title missing the prefix")
	}

	if !rules[2].Matches("anything", "anything", "anything.exe") {
		t.Fatal("rule 2 (no match fields) should match everything")
	}
	if rules[2].Action() != ActionIgnore {
		t.Fatalf("rule 2 Action() = %q, want ignore", rules[2].Action())
	}
}

func TestCompiledRulesDropsInvalidTitleRegex(t *testing.T) {
	cfg := Default()
	cfg.WindowRules = []WindowRule{
		{MatchTitle: "(", Action: ActionFloat},
	}
	rules, warnings := cfg.CompiledRules()
	if len(rules) != 0 {
		t.Fatalf("CompiledRules() returned %d rules, want 0 (rule should be dropped)", len(rules))
	}
	if len(warnings) != 1 {
		t.Fatalf("CompiledRules() warnings = %d, want 1", len(warnings))
	}
	if !strings.Contains(warnings[0].Field, "match_title") {
		t.Fatalf("warning field = %q, want it to reference match_title", warnings[0].Field)
	}
}

func TestParseHotkeyString(t *testing.T) {
	cases := []struct {
		in      string
		wantKey string
		wantLen int
		wantErr bool
	}{
		{"Win+H", "H", 1, false},
		{"Win+Shift+L", "L", 2, false},
		{"win+ctrl+alt+shift+Q", "Q", 4, false},
		{"H", "", 0, true},
		{"Win+Bogus+H", "", 0, true},
	}
	for _, tc := range cases {
		parsed, err := ParseHotkeyString(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseHotkeyString(%q): expected error, got none", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseHotkeyString(%q): unexpected error: %v", tc.in, err)
			continue
		}
		if parsed.Key != tc.wantKey {
			t.Errorf("ParseHotkeyString(%q).Key = %q, want %q", tc.in, parsed.Key, tc.wantKey)
		}
		if len(parsed.Modifiers) != tc.wantLen {
			t.Errorf("ParseHotkeyString(%q).Modifiers = %v, want len %d", tc.in, parsed.Modifiers, tc.wantLen)
		}
	}
}

func TestCompileHotkeysSkipsInvalidEntries(t *testing.T) {
	cfg := Default()
	cfg.Hotkeys = map[string]string{
		"Win+H": "focus_left",
		"Bogus": "focus_right",
	}
	bindings, warnings := cfg.CompileHotkeys()
	if len(bindings) != 1 {
		t.Fatalf("CompileHotkeys() bindings = %d, want 1", len(bindings))
	}
	if len(warnings) != 1 {
		t.Fatalf("CompileHotkeys() warnings = %d, want 1", len(warnings))
	}
	if !strings.Contains(warnings[0].Field, "Bogus") {
		t.Fatalf("warning field = %q, want it to reference the bad hotkey", warnings[0].Field)
	}
}
