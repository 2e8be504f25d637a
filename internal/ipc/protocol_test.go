package ipc

import (
	"encoding/json"
	"testing"
)

func TestCommandRoundTripsThroughJSON(t *testing.T) {
	cases := []Command{
		{Type: CmdFocusLeft},
		{Type: CmdFocusRight},
		{Type: CmdFocusUp},
		{Type: CmdFocusDown},
		{Type: CmdMoveColumnLeft},
		{Type: CmdMoveColumnRight},
		{Type: CmdFocusMonitorLeft},
		{Type: CmdFocusMonitorRight},
		{Type: CmdMoveWindowToMonitorLeft},
		{Type: CmdMoveWindowToMonitorRight},
		{Type: CmdResize, Delta: -80},
		{Type: CmdScroll, ScrollBy: 123.5},
		{Type: CmdQueryWorkspace},
		{Type: CmdQueryFocused},
		{Type: CmdQueryAllWindows},
		{Type: CmdQueryStatus},
		{Type: CmdRefresh},
		{Type: CmdApply},
		{Type: CmdReload},
		{Type: CmdStop},
		{Type: CmdCloseWindow},
		{Type: CmdToggleFloating},
		{Type: CmdToggleFullscreen},
		{Type: CmdSetColumnWidth, Fraction: 0.33},
		{Type: CmdEqualizeColumnWidths},
	}
	if len(cases) != 25 {
		t.Fatalf("expected one case per closed command type, got %d", len(cases))
	}

	for _, c := range cases {
		data, err := json.Marshal(c)
		if err != nil {
			t.Fatalf("Marshal(%v): %v", c.Type, err)
		}
		var got Command
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("Unmarshal(%v): %v", c.Type, err)
		}
		if got != c {
			t.Fatalf("round trip mismatch for %v: got %+v, want %+v", c.Type, got, c)
		}
	}
}

func TestCommandUnmarshalRejectsUnknownType(t *testing.T) {
	var cmd Command
	err := json.Unmarshal([]byte(`{"type":"teleport_window"}`), &cmd)
	if err == nil {
		t.Fatal("expected an error for an unknown command type")
	}
}

func TestCommandTypeValid(t *testing.T) {
	if !CmdFocusLeft.Valid() {
		t.Error("CmdFocusLeft should be valid")
	}
	if CommandType("bogus").Valid() {
		t.Error("an unknown command type should not be valid")
	}
}

func TestResponseRoundTripsThroughJSON(t *testing.T) {
	windowID := uint64(42)
	cases := []Response{
		OK(),
		Errorf("close window: %s", "access denied"),
		WorkspaceState(3, 5, 1, 0, 120.5, 2400),
		FocusedWindow(&windowID, 1, 0),
		FocusedWindow(nil, 0, 0),
		WindowList([]WindowInfo{{WindowID: 1, Title: "t", ClassName: "c", Rect: Rect{Width: 800, Height: 600}}}),
		FocusedWindowInfo(&WindowInfo{WindowID: 7}),
		StatusInfo("dev", 2, 9, 3600),
	}

	for i, r := range cases {
		data, err := json.Marshal(r)
		if err != nil {
			t.Fatalf("case %d: Marshal: %v", i, err)
		}
		var got Response
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("case %d: Unmarshal: %v", i, err)
		}
		if got.Status != r.Status {
			t.Fatalf("case %d: status = %q, want %q", i, got.Status, r.Status)
		}
		if got.Windows != r.Windows {
			t.Fatalf("case %d: windows = %d, want %d", i, got.Windows, r.Windows)
		}
		if len(got.WindowListField) != len(r.WindowListField) {
			t.Fatalf("case %d: window list length = %d, want %d", i, len(got.WindowListField), len(r.WindowListField))
		}
	}
}

func TestWorkspaceStateAndWindowListShareWireKeyWithoutCollision(t *testing.T) {
	ws := WorkspaceState(3, 5, 1, 0, 120.5, 2400)
	data, err := json.Marshal(ws)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal to map: %v", err)
	}
	if got, ok := decoded["windows"].(float64); !ok || int(got) != 5 {
		t.Fatalf("workspace_state windows key = %v, want numeric 5", decoded["windows"])
	}

	wl := WindowList([]WindowInfo{{WindowID: 1, Title: "t"}, {WindowID: 2, Title: "u"}})
	data, err = json.Marshal(wl)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	decoded = nil
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal to map: %v", err)
	}
	arr, ok := decoded["windows"].([]any)
	if !ok || len(arr) != 2 {
		t.Fatalf("window_list windows key = %v, want array of length 2", decoded["windows"])
	}
}
