//go:build !windows

package input

// NoopInjector is a placeholder injector for non-Windows builds.
type NoopInjector struct{}

// NewInjector returns an injector whose moves fail with ErrUnsupported.
func NewInjector() Injector {
	return &NoopInjector{}
}

// MoveRelative returns ErrUnsupported.
func (n *NoopInjector) MoveRelative(dx, dy int) error {
	return ErrUnsupported
}
