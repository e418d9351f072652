// Package platform implements the notification, alarm and history
// capabilities a session runtime drives: an SSE outbox for browsers and a
// terminal renderer for the CLI.
package platform

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSubscriber means no client is connected to receive the effect.
	ErrNoSubscriber = errors.New("no connected client")
	// ErrAudioUnavailable means the alarm cannot be played on this output.
	ErrAudioUnavailable  = errors.New("audio playback unavailable")
	ErrInvalidPermission = errors.New("invalid notification permission")
)

// Permission mirrors the browser Notification.permission states.
type Permission string

const (
	PermissionDefault     Permission = "default"
	PermissionGranted     Permission = "granted"
	PermissionDenied      Permission = "denied"
	PermissionUnsupported Permission = "unsupported"
)

func ParsePermission(s string) (Permission, error) {
	switch p := Permission(s); p {
	case PermissionDefault, PermissionGranted, PermissionDenied, PermissionUnsupported:
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPermission, s)
}
