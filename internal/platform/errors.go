package platform

import (
	"errors"
	"fmt"

	"github.com/AdEx-Partners-DE/OpenNiri-Windows-sub000/internal/geometry"
)

// Platform-layer errors (spec.md section 7): logged by the daemon and
// surfaced to IPC callers as error{message} without rolling back the
// workspace mutation that triggered them.
var (
	ErrEnumerationFailed        = errors.New("window enumeration failed")
	ErrMonitorEnumerationFailed = errors.New("monitor enumeration failed")
	ErrSetPositionFailed        = errors.New("failed to set window position")
	ErrCloakFailed              = errors.New("failed to cloak/uncloak window")
	ErrHookInstallFailed        = errors.New("failed to install event hook")
	ErrHotkeyRegistrationFailed = errors.New("failed to register hotkey")
)

// ErrWindowNotFound is returned by operations given an id the platform
// doesn't recognize (spec.md's Win32Error::WindowNotFound(WindowId)).
type ErrWindowNotFound struct {
	ID geometry.WindowID
}

func (e *ErrWindowNotFound) Error() string {
	return fmt.Sprintf("window %d not found", e.ID)
}
