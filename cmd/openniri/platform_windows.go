//go:build windows

package main

import (
	"github.com/AdEx-Partners-DE/OpenNiri-Windows-sub000/internal/platform"
	"github.com/AdEx-Partners-DE/OpenNiri-Windows-sub000/internal/platform/win32"
)

// newPlatform returns the real Win32 platform implementation.
func newPlatform() (platform.Platform, error) {
	return win32.New(), nil
}
