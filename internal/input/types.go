// Package input provides synthetic mouse input injection.
package input

import "errors"

// ErrUnsupported is returned by injectors on platforms without SendInput.
var ErrUnsupported = errors.New("input injection is only supported on Windows")

// Injector defines the interface for injecting relative mouse movement
type Injector interface {
	MoveRelative(dx, dy int) error
}
