//go:build !windows

package input

import (
	"errors"
	"testing"
)

func TestNoopInjectorUnsupported(t *testing.T) {
	inj := NewInjector()
	if err := inj.MoveRelative(1, 1); !errors.Is(err, ErrUnsupported) {
		t.Errorf("Expected ErrUnsupported, got %v", err)
	}
}
