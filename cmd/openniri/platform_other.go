//go:build !windows

package main

import (
	"github.com/AdEx-Partners-DE/OpenNiri-Windows-sub000/internal/platform"
	"github.com/AdEx-Partners-DE/OpenNiri-Windows-sub000/internal/platform/fake"
)

// newPlatform returns the in-memory fake platform on non-Windows
// builds: the real window-management core is Windows-only per
// spec.md section 1's Non-goals, so a development/CI build on another
// OS runs the daemon loop against the same loopback fake internal/daemon's
// own tests use, with no real windows to manage.
func newPlatform() (platform.Platform, error) {
	return fake.New(), nil
}
