//go:build !windows

package autostart

// Enable returns ErrUnsupported.
func Enable() error {
	return ErrUnsupported
}

// Disable is a no-op; nothing was ever registered.
func Disable() error {
	return nil
}

// IsEnabled always reports false.
func IsEnabled() bool {
	return false
}
