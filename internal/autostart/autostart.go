// Package autostart registers the application to run at login.
package autostart

import (
	"errors"
	"log"
)

// ErrUnsupported is returned on platforms without login registration.
var ErrUnsupported = errors.New("auto-start is only supported on Windows")

// Sync makes the registration match want, touching the system only when it differs.
func Sync(want bool) error {
	if IsEnabled() == want {
		return nil
	}
	if want {
		log.Println("Autostart: registering for login")
		return Enable()
	}
	log.Println("Autostart: removing login registration")
	return Disable()
}
