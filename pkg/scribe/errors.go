// ABOUTME: Error taxonomy for capture sessions
// ABOUTME: Defines busy, failed and device access errors
package scribe

import (
	"errors"
	"fmt"
)

// ErrSessionBusy is returned when Start is called while a recording is active
var ErrSessionBusy = errors.New("capture session busy")

// ErrSessionFailed is returned when Start is called on a failed session
var ErrSessionFailed = errors.New("capture session failed")

// ErrNotStarted is returned by Wait before the first recording
var ErrNotStarted = errors.New("capture session not started")

// DeviceAccessError reports that the input device could not be opened
// because permission was denied or no device exists.
type DeviceAccessError struct {
	Err error
}

func (e *DeviceAccessError) Error() string {
	return fmt.Sprintf("device access failed: %v", e.Err)
}

func (e *DeviceAccessError) Unwrap() error {
	return e.Err
}
