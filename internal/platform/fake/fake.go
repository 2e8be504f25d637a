// Package fake is an in-process implementation of platform.Platform for
// tests. It plays the role a generated mock would in a project that
// reaches for counterfeiter or gomock: every call is recorded and every
// response is pre-seeded, but it is hand-written so daemon tests can
// assert on exact call sequences without a code generator in the loop.
package fake

import (
	"fmt"
	"sync"

	"github.com/AdEx-Partners-DE/OpenNiri-Windows-sub000/internal/geometry"
	"github.com/AdEx-Partners-DE/OpenNiri-Windows-sub000/internal/layout"
	"github.com/AdEx-Partners-DE/OpenNiri-Windows-sub000/internal/platform"
)

// closerFunc adapts a plain func into an io.Closer/platform.Subscription.
type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// Platform is a fully in-memory platform.Platform. Build one with New:
// the zero value has nil event channels and a nil BorderedWindows map.
// Tests seed Windows/Monitors directly and inspect AppliedPlacements,
// ClosedWindows, BorderedWindows after exercising the code under test.
type Platform struct {
	mu sync.Mutex

	Windows  []platform.WindowInfo
	Monitors []platform.MonitorInfo

	AppliedPlacements []layout.WindowPlacement
	ClosedWindows     []geometry.WindowID
	ForegroundWindows []geometry.WindowID
	BorderedWindows   map[geometry.WindowID]uint32
	ResetBorders      []geometry.WindowID
	UncloakedAllCalls int
	UncloakedManaged  [][]geometry.WindowID

	windowEvents  chan platform.WindowEvent
	hotkeyEvents  chan platform.HotkeyEvent
	gestureEvents chan platform.GestureEvent
	mouseEvents   chan platform.WindowEvent

	HighDPIErr   error
	EnumWinErr   error
	EnumMonErr   error
	ApplyErr     error
	CloseErr     error
	ForegroundErr error
}

// New returns a ready-to-use fake with buffered event channels.
func New() *Platform {
	return &Platform{
		BorderedWindows: make(map[geometry.WindowID]uint32),
		windowEvents:    make(chan platform.WindowEvent, 64),
		hotkeyEvents:    make(chan platform.HotkeyEvent, 64),
		gestureEvents:   make(chan platform.GestureEvent, 64),
		mouseEvents:     make(chan platform.WindowEvent, 64),
	}
}

func (p *Platform) SetHighDPIAwareness() error { return p.HighDPIErr }

func (p *Platform) EnumerateWindows() ([]platform.WindowInfo, error) {
	if p.EnumWinErr != nil {
		return nil, p.EnumWinErr
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]platform.WindowInfo, len(p.Windows))
	copy(out, p.Windows)
	return out, nil
}

func (p *Platform) EnumerateMonitors() ([]platform.MonitorInfo, error) {
	if p.EnumMonErr != nil {
		return nil, p.EnumMonErr
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]platform.MonitorInfo, len(p.Monitors))
	copy(out, p.Monitors)
	return out, nil
}

func (p *Platform) ApplyPlacements(placements []layout.WindowPlacement, cfg platform.PlacementConfig) error {
	if p.ApplyErr != nil {
		return p.ApplyErr
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.AppliedPlacements = append(p.AppliedPlacements, placements...)
	return nil
}

func (p *Platform) InstallEventHooks() (platform.Subscription, <-chan platform.WindowEvent, error) {
	return closerFunc(func() error { return nil }), p.windowEvents, nil
}

func (p *Platform) RegisterHotkeys(bindings []platform.HotkeyBinding) (platform.Subscription, <-chan platform.HotkeyEvent, error) {
	return closerFunc(func() error { return nil }), p.hotkeyEvents, nil
}

func (p *Platform) RegisterGestures() (platform.Subscription, <-chan platform.GestureEvent, error) {
	return closerFunc(func() error { return nil }), p.gestureEvents, nil
}

func (p *Platform) InstallMouseHook() (platform.Subscription, <-chan platform.WindowEvent, error) {
	return closerFunc(func() error { return nil }), p.mouseEvents, nil
}

func (p *Platform) CloseWindow(id geometry.WindowID) error {
	if p.CloseErr != nil {
		return p.CloseErr
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ClosedWindows = append(p.ClosedWindows, id)
	return nil
}

func (p *Platform) SetForegroundWindow(id geometry.WindowID) error {
	if p.ForegroundErr != nil {
		return p.ForegroundErr
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ForegroundWindows = append(p.ForegroundWindows, id)
	return nil
}

func (p *Platform) IsValidWindow(id geometry.WindowID) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, w := range p.Windows {
		if w.ID == id {
			return true
		}
	}
	return false
}

func (p *Platform) GetProcessExecutable(pid int32) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, w := range p.Windows {
		if w.PID == pid {
			return w.Executable, nil
		}
	}
	return "", fmt.Errorf("fake: no window with pid %d", pid)
}

func (p *Platform) UncloakAllVisibleWindows() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.UncloakedAllCalls++
	return nil
}

func (p *Platform) UncloakAllManagedWindows(ids []geometry.WindowID) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	cp := append([]geometry.WindowID(nil), ids...)
	p.UncloakedManaged = append(p.UncloakedManaged, cp)
	return nil
}

func (p *Platform) SetWindowBorderColor(id geometry.WindowID, bgr uint32) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.BorderedWindows[id] = bgr
	return nil
}

func (p *Platform) ResetWindowBorderColor(id geometry.WindowID) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.BorderedWindows, id)
	p.ResetBorders = append(p.ResetBorders, id)
	return nil
}

// PushWindowEvent feeds a synthetic OS event to whatever is reading the
// channel returned by InstallEventHooks.
func (p *Platform) PushWindowEvent(ev platform.WindowEvent) {
	p.windowEvents <- ev
}

// PushHotkeyEvent feeds a synthetic hotkey firing.
func (p *Platform) PushHotkeyEvent(ev platform.HotkeyEvent) {
	p.hotkeyEvents <- ev
}

// PushGestureEvent feeds a synthetic gesture firing.
func (p *Platform) PushGestureEvent(ev platform.GestureEvent) {
	p.gestureEvents <- ev
}

var _ platform.Platform = (*Platform)(nil)
