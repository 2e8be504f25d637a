// Package platform declares the contract the layout and daemon
// packages consume for OS-specific window and monitor management
// (spec.md section 4.C). The OS-specific mechanics themselves —
// Win32 hook installation, cloaking, hotkey registration — are
// deliberately out of scope per spec.md section 1; this package
// models only the interface shape plus a build-tagged real
// implementation of the handful of primitives needed to ground it
// (internal/platform/win32) and an in-process fake used by tests
// (internal/platform/fake).
package platform

import (
	"io"

	"github.com/AdEx-Partners-DE/OpenNiri-Windows-sub000/internal/geometry"
	"github.com/AdEx-Partners-DE/OpenNiri-Windows-sub000/internal/layout"
)

// WindowInfo describes one enumerated top-level window.
type WindowInfo struct {
	ID         geometry.WindowID
	Title      string
	ClassName  string
	Executable string
	PID        int32
	Rect       geometry.Rect
	Visible    bool
}

// MonitorInfo describes one enumerated monitor.
type MonitorInfo struct {
	ID         geometry.MonitorID
	Rect       geometry.Rect
	WorkArea   geometry.Rect
	IsPrimary  bool
	DeviceName string
}

// HideStrategy selects how an off-screen window is hidden.
type HideStrategy int

const (
	// Cloak hides the window from the screen while leaving it in the
	// task switcher. Preferred: cheaper and reversible.
	Cloak HideStrategy = iota
	// MoveOffScreen physically relocates the window far outside any
	// monitor's bounds.
	MoveOffScreen
)

// PlacementConfig carries the appearance flags that affect how
// ApplyPlacements realizes a batch of placements.
type PlacementConfig struct {
	UseCloaking           bool
	UseDeferredPositioning bool
	HideStrategy          HideStrategy
	ActiveBorder          bool
	ActiveBorderColorBGR  uint32
}

// WindowEventKind tags the variant of a WindowEvent.
type WindowEventKind int

const (
	WindowCreated WindowEventKind = iota
	WindowDestroyed
	WindowFocused
	WindowMinimized
	WindowRestored
	WindowMovedOrResized
	DisplayChange
	MouseEnterWindow
)

// WindowEvent is one OS window/display event forwarded to the daemon's
// event loop.
type WindowEvent struct {
	Kind WindowEventKind
	ID   geometry.WindowID
}

// HotkeyEvent reports that a registered hotkey fired.
type HotkeyEvent struct {
	ID string
}

// GestureDirection is one of the four three-finger swipe directions.
type GestureDirection int

const (
	SwipeLeft GestureDirection = iota
	SwipeRight
	SwipeUp
	SwipeDown
)

// GestureEvent reports that a registered touchpad gesture fired.
type GestureEvent struct {
	Direction GestureDirection
}

// HotkeyBinding is one hotkey registration request; Key is the
// platform-specific encoded form produced by internal/config's
// grammar parser.
type HotkeyBinding struct {
	ID  string
	Key ParsedHotkey
}

// Modifier is one of the four hotkey modifier keys.
type Modifier int

const (
	ModWin Modifier = iota
	ModCtrl
	ModAlt
	ModShift
)

// ParsedHotkey is the parsed form of a "Mod[+Mod]*+Key" hotkey string.
type ParsedHotkey struct {
	Modifiers []Modifier
	Key       string
}

// Subscription is returned by every install/register call. Closing it
// uninstalls the corresponding OS hook (the Go analogue of the
// source's "drop the handle to uninstall").
type Subscription = io.Closer

// Platform is the full contract the daemon core consumes. Any
// OS-specific implementation — or internal/platform/fake for tests —
// satisfies it.
type Platform interface {
	SetHighDPIAwareness() error

	EnumerateWindows() ([]WindowInfo, error)
	EnumerateMonitors() ([]MonitorInfo, error)

	ApplyPlacements(placements []layout.WindowPlacement, cfg PlacementConfig) error

	InstallEventHooks() (Subscription, <-chan WindowEvent, error)
	RegisterHotkeys(bindings []HotkeyBinding) (Subscription, <-chan HotkeyEvent, error)
	RegisterGestures() (Subscription, <-chan GestureEvent, error)
	InstallMouseHook() (Subscription, <-chan WindowEvent, error)

	CloseWindow(id geometry.WindowID) error
	SetForegroundWindow(id geometry.WindowID) error
	IsValidWindow(id geometry.WindowID) bool
	GetProcessExecutable(pid int32) (string, error)

	UncloakAllVisibleWindows() error
	UncloakAllManagedWindows(ids []geometry.WindowID) error

	SetWindowBorderColor(id geometry.WindowID, bgr uint32) error
	ResetWindowBorderColor(id geometry.WindowID) error
}
