//go:build !windows

package hook

import "log"

// unsupportedSource stands in for the mouse hook on other platforms.
type unsupportedSource struct{}

// NewSource returns a source whose Start always fails with ErrUnsupported.
func NewSource() Source {
	return unsupportedSource{}
}

func (unsupportedSource) Start(func(Event)) error {
	log.Println("Hook: Global mouse hook not supported on this platform.")
	return ErrUnsupported
}

func (unsupportedSource) Stop() error {
	return nil
}
