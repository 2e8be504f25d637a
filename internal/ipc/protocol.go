// Package ipc defines the tagged request/response wire types exchanged
// between the daemon and its CLI client, plus a line-framed, size- and
// time-bounded JSON transport (protocol.go / transport.go), generalizing
// the teacher's niri socket client (niri/niri_ipc.go) to OpenNiri's own
// closed command set.
package ipc

import (
	"encoding/json"
	"fmt"
)

// EndpointName is the local-only rendezvous path the daemon listens on
// and the CLI dials. Concrete per-OS encoding (named pipe vs. Unix
// socket path) is applied by Listen/Dial in endpoint_windows.go and
// endpoint_other.go.
const EndpointName = "openniri"

// MaxMessageSize bounds a single request line. The read loop refuses
// to buffer more than this many bytes before giving up on a client.
const MaxMessageSize = 64 * 1024

// ReadTimeoutSeconds bounds how long the server waits for a client to
// finish sending its one request line.
const ReadTimeoutSeconds = 5

// CommandType is the snake_case `type` tag of a Command.
type CommandType string

const (
	CmdFocusLeft                  CommandType = "focus_left"
	CmdFocusRight                 CommandType = "focus_right"
	CmdFocusUp                    CommandType = "focus_up"
	CmdFocusDown                  CommandType = "focus_down"
	CmdMoveColumnLeft             CommandType = "move_column_left"
	CmdMoveColumnRight            CommandType = "move_column_right"
	CmdFocusMonitorLeft           CommandType = "focus_monitor_left"
	CmdFocusMonitorRight          CommandType = "focus_monitor_right"
	CmdMoveWindowToMonitorLeft    CommandType = "move_window_to_monitor_left"
	CmdMoveWindowToMonitorRight   CommandType = "move_window_to_monitor_right"
	CmdResize                     CommandType = "resize"
	CmdScroll                     CommandType = "scroll"
	CmdQueryWorkspace             CommandType = "query_workspace"
	CmdQueryFocused               CommandType = "query_focused"
	CmdQueryAllWindows            CommandType = "query_all_windows"
	CmdQueryStatus                CommandType = "query_status"
	CmdRefresh                    CommandType = "refresh"
	CmdApply                      CommandType = "apply"
	CmdReload                     CommandType = "reload"
	CmdStop                       CommandType = "stop"
	CmdCloseWindow                CommandType = "close_window"
	CmdToggleFloating             CommandType = "toggle_floating"
	CmdToggleFullscreen           CommandType = "toggle_fullscreen"
	CmdSetColumnWidth             CommandType = "set_column_width"
	CmdEqualizeColumnWidths       CommandType = "equalize_column_widths"
)

// Command is a tagged request value. Only the fields relevant to Type
// are meaningful. The wire key `delta` is shared by resize (decoded
// into Delta as int pixels, truncated) and scroll (decoded into
// ScrollBy as float pixels).
type Command struct {
	Type     CommandType `json:"type"`
	Delta    int         `json:"delta,omitempty"`
	ScrollBy float64     `json:"-"`
	Fraction float64     `json:"fraction,omitempty"`
}

// wireCommand exists only so MarshalJSON can omit fields that don't
// belong to a given command's shape; the original_source wire format
// uses distinct struct shapes per variant even though Go models them
// with one Command struct.
type wireCommand struct {
	Type     CommandType `json:"type"`
	Delta    *float64    `json:"delta,omitempty"`
	Fraction *float64    `json:"fraction,omitempty"`
}

// MarshalJSON emits only the fields meaningful for c.Type, matching
// the original_source's `#[serde(tag = "type")]` enum shape.
func (c Command) MarshalJSON() ([]byte, error) {
	w := wireCommand{Type: c.Type}
	switch c.Type {
	case CmdResize:
		d := float64(c.Delta)
		w.Delta = &d
	case CmdScroll:
		w.Delta = &c.ScrollBy
	case CmdSetColumnWidth:
		w.Fraction = &c.Fraction
	}
	return json.Marshal(w)
}

// UnmarshalJSON reads the shared `delta` key into ScrollBy for scroll
// and into Delta (truncated to int) for every other type, matching the
// per-variant shape of the original protocol while keeping one Go struct.
func (c *Command) UnmarshalJSON(data []byte) error {
	var w wireCommand
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	c.Type = w.Type
	if w.Delta != nil {
		if c.Type == CmdScroll {
			c.ScrollBy = *w.Delta
		} else {
			c.Delta = int(*w.Delta)
		}
	}
	if w.Fraction != nil {
		c.Fraction = *w.Fraction
	}
	if !c.Type.valid() {
		return fmt.Errorf("unknown command type %q", c.Type)
	}
	return nil
}

// Valid reports whether t is one of the closed set of command types
// spec.md section 4.D defines, used by internal/daemon to validate a
// hotkey/gesture binding's configured command name before dispatch.
func (t CommandType) Valid() bool { return t.valid() }

func (t CommandType) valid() bool {
	switch t {
	case CmdFocusLeft, CmdFocusRight, CmdFocusUp, CmdFocusDown,
		CmdMoveColumnLeft, CmdMoveColumnRight,
		CmdFocusMonitorLeft, CmdFocusMonitorRight,
		CmdMoveWindowToMonitorLeft, CmdMoveWindowToMonitorRight,
		CmdResize, CmdScroll,
		CmdQueryWorkspace, CmdQueryFocused, CmdQueryAllWindows, CmdQueryStatus,
		CmdRefresh, CmdApply, CmdReload, CmdStop,
		CmdCloseWindow, CmdToggleFloating, CmdToggleFullscreen,
		CmdSetColumnWidth, CmdEqualizeColumnWidths:
		return true
	default:
		return false
	}
}

// ResponseStatus is the snake_case `status` tag of a Response.
type ResponseStatus string

const (
	StatusOk               ResponseStatus = "ok"
	StatusError            ResponseStatus = "error"
	StatusWorkspaceState   ResponseStatus = "workspace_state"
	StatusFocusedWindow    ResponseStatus = "focused_window"
	StatusWindowList       ResponseStatus = "window_list"
	StatusFocusedWindowInfo ResponseStatus = "focused_window_info"
	StatusStatusInfo       ResponseStatus = "status_info"
)

// WindowInfo is the detailed per-window shape used in query responses.
type WindowInfo struct {
	WindowID    uint64 `json:"window_id"`
	Title       string `json:"title"`
	ClassName   string `json:"class_name"`
	ProcessID   uint32 `json:"process_id"`
	Executable  string `json:"executable"`
	Rect        Rect   `json:"rect"`
	ColumnIndex *int   `json:"column_index,omitempty"`
	WindowIndex *int   `json:"window_index,omitempty"`
	MonitorID   int64  `json:"monitor_id"`
	IsFloating  bool   `json:"is_floating"`
	IsFocused   bool   `json:"is_focused"`
}

// Rect mirrors geometry.Rect for wire purposes without importing the
// layout stack into the IPC contract.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Response is the tagged reply value. Only the fields relevant to
// Status carry meaning. Windows and WindowListField both belong on the
// wire under the "windows" key (a count for workspace_state, an array
// for window_list) so Response implements its own (Un)MarshalJSON
// below rather than relying on struct tags, which cannot give two
// fields the same JSON name.
type Response struct {
	Status ResponseStatus `json:"status"`

	Message string `json:"message,omitempty"`

	Columns          int     `json:"columns,omitempty"`
	Windows          int     `json:"-"`
	FocusedColumn    int     `json:"focused_column,omitempty"`
	FocusedWindowIdx int     `json:"focused_window,omitempty"`
	ScrollOffset     float64 `json:"scroll_offset,omitempty"`
	TotalWidth       int     `json:"total_width,omitempty"`

	WindowID    *uint64 `json:"window_id,omitempty"`
	ColumnIndex int     `json:"column_index,omitempty"`
	WindowIndex int     `json:"window_index,omitempty"`

	WindowListField []WindowInfo `json:"-"`

	Window *WindowInfo `json:"window,omitempty"`

	Version       string `json:"version,omitempty"`
	Monitors      int    `json:"monitors,omitempty"`
	TotalWindows  int    `json:"total_windows,omitempty"`
	UptimeSeconds uint64 `json:"uptime_seconds,omitempty"`
}

// wireResponseBase is every Response field except the "windows" key,
// whose type varies by Status (a count for workspace_state, an array
// for window_list) and so cannot share a struct tag with a second
// field — Go's json package silently drops both fields on that kind
// of tag collision. MarshalJSON/UnmarshalJSON below splice the
// variant-typed "windows" key in and out via json.RawMessage.
type wireResponseBase struct {
	Status ResponseStatus `json:"status"`

	Message string `json:"message,omitempty"`

	Columns          int     `json:"columns,omitempty"`
	FocusedColumn    int     `json:"focused_column,omitempty"`
	FocusedWindowIdx int     `json:"focused_window,omitempty"`
	ScrollOffset     float64 `json:"scroll_offset,omitempty"`
	TotalWidth       int     `json:"total_width,omitempty"`

	WindowID    *uint64 `json:"window_id,omitempty"`
	ColumnIndex int     `json:"column_index,omitempty"`
	WindowIndex int     `json:"window_index,omitempty"`

	Windows json.RawMessage `json:"windows,omitempty"`

	Window *WindowInfo `json:"window,omitempty"`

	Version       string `json:"version,omitempty"`
	Monitors      int    `json:"monitors,omitempty"`
	TotalWindows  int    `json:"total_windows,omitempty"`
	UptimeSeconds uint64 `json:"uptime_seconds,omitempty"`
}

// MarshalJSON emits the "windows" key as a window count for
// workspace_state responses and as a WindowInfo array for window_list
// responses.
func (r Response) MarshalJSON() ([]byte, error) {
	w := wireResponseBase{
		Status:           r.Status,
		Message:          r.Message,
		Columns:          r.Columns,
		FocusedColumn:    r.FocusedColumn,
		FocusedWindowIdx: r.FocusedWindowIdx,
		ScrollOffset:     r.ScrollOffset,
		TotalWidth:       r.TotalWidth,
		WindowID:         r.WindowID,
		ColumnIndex:      r.ColumnIndex,
		WindowIndex:      r.WindowIndex,
		Window:           r.Window,
		Version:          r.Version,
		Monitors:         r.Monitors,
		TotalWindows:     r.TotalWindows,
		UptimeSeconds:    r.UptimeSeconds,
	}
	var raw []byte
	var err error
	if r.Status == StatusWindowList {
		raw, err = json.Marshal(r.WindowListField)
	} else if r.Windows != 0 {
		raw, err = json.Marshal(r.Windows)
	}
	if err != nil {
		return nil, err
	}
	if raw != nil {
		w.Windows = json.RawMessage(raw)
	}
	return json.Marshal(w)
}

// UnmarshalJSON is the inverse of MarshalJSON: it routes the "windows"
// key back into Windows or WindowListField by Status.
func (r *Response) UnmarshalJSON(data []byte) error {
	var w wireResponseBase
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*r = Response{
		Status:           w.Status,
		Message:          w.Message,
		Columns:          w.Columns,
		FocusedColumn:    w.FocusedColumn,
		FocusedWindowIdx: w.FocusedWindowIdx,
		ScrollOffset:     w.ScrollOffset,
		TotalWidth:       w.TotalWidth,
		WindowID:         w.WindowID,
		ColumnIndex:      w.ColumnIndex,
		WindowIndex:      w.WindowIndex,
		Window:           w.Window,
		Version:          w.Version,
		Monitors:         w.Monitors,
		TotalWindows:     w.TotalWindows,
		UptimeSeconds:    w.UptimeSeconds,
	}
	if len(w.Windows) == 0 {
		return nil
	}
	if w.Status == StatusWindowList {
		return json.Unmarshal(w.Windows, &r.WindowListField)
	}
	return json.Unmarshal(w.Windows, &r.Windows)
}

// OK builds the bare success response.
func OK() Response { return Response{Status: StatusOk} }

// Errorf builds an error response with a formatted message.
func Errorf(format string, args ...any) Response {
	return Response{Status: StatusError, Message: fmt.Sprintf(format, args...)}
}

// WorkspaceState builds a workspace_state response.
func WorkspaceState(columns, windows, focusedColumn, focusedWindow int, scrollOffset float64, totalWidth int) Response {
	return Response{
		Status:           StatusWorkspaceState,
		Columns:          columns,
		Windows:          windows,
		FocusedColumn:    focusedColumn,
		FocusedWindowIdx: focusedWindow,
		ScrollOffset:     scrollOffset,
		TotalWidth:       totalWidth,
	}
}

// FocusedWindow builds a focused_window response.
func FocusedWindow(windowID *uint64, columnIndex, windowIndex int) Response {
	return Response{
		Status:      StatusFocusedWindow,
		WindowID:    windowID,
		ColumnIndex: columnIndex,
		WindowIndex: windowIndex,
	}
}

// WindowList builds a window_list response.
func WindowList(windows []WindowInfo) Response {
	return Response{Status: StatusWindowList, WindowListField: windows}
}

// FocusedWindowInfo builds a focused_window_info response.
func FocusedWindowInfo(window *WindowInfo) Response {
	return Response{Status: StatusFocusedWindowInfo, Window: window}
}

// StatusInfo builds a status_info response.
func StatusInfo(version string, monitors, totalWindows int, uptimeSeconds uint64) Response {
	return Response{
		Status:        StatusStatusInfo,
		Version:       version,
		Monitors:      monitors,
		TotalWindows:  totalWindows,
		UptimeSeconds: uptimeSeconds,
	}
}
