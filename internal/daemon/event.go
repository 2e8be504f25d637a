// Package daemon is the single-writer core: one State value, mutated
// only from the event loop in loop.go, driven by the fused DaemonEvent
// stream described here. See spec.md section 4.E.
package daemon

import (
	"github.com/AdEx-Partners-DE/OpenNiri-Windows-sub000/internal/geometry"
	"github.com/AdEx-Partners-DE/OpenNiri-Windows-sub000/internal/ipc"
	"github.com/AdEx-Partners-DE/OpenNiri-Windows-sub000/internal/platform"
)

// TrayEvent is one of the six actions the (out-of-scope) tray icon's
// menu can raise, restored from original_source/crates/daemon/src/tray.rs
// since the daemon still consumes tray events even though the icon and
// its menu rendering are not this repository's concern.
type TrayEvent int

const (
	TrayRefresh TrayEvent = iota
	TrayReload
	TrayExit
	TrayTogglePause
	TrayOpenConfig
	TrayViewLogs
)

func (t TrayEvent) String() string {
	switch t {
	case TrayRefresh:
		return "refresh"
	case TrayReload:
		return "reload"
	case TrayExit:
		return "exit"
	case TrayTogglePause:
		return "toggle_pause"
	case TrayOpenConfig:
		return "open_config"
	case TrayViewLogs:
		return "view_logs"
	default:
		return "unknown"
	}
}

// IpcRequest pairs a decoded command with the channel its one response
// must be delivered on, matching ipc.Handler's call shape adapted onto
// the event loop's single-writer channel instead of being answered
// directly on the accepting goroutine.
type IpcRequest struct {
	Cmd       ipc.Command
	Responder chan<- ipc.Response
}

// Event is the tagged union every producer (IPC handler, OS-event
// forwarder, hotkey/gesture forwarders, tray forwarder, animation and
// debounce timers) pushes into the loop's bounded channel.
type Event struct {
	Kind EventKind

	IpcReq  IpcRequest
	Window  platform.WindowEvent
	Hotkey  platform.HotkeyEvent
	Gesture platform.GestureEvent
	Tray    TrayEvent

	// FocusFollowsMouseID is the window to focus when Kind is
	// EventFocusFollowsMouse.
	FocusFollowsMouseID uint64
}

// EventKind tags which field of Event is meaningful.
type EventKind int

const (
	EventIpcCommand EventKind = iota
	EventWindow
	EventHotkey
	EventGesture
	EventTray
	EventAnimationTick
	EventHideSnapHint
	EventFocusFollowsMouse
	EventShutdown
)
