package ui

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"mousejitter/internal/config"
	"mousejitter/internal/state"
)

func fieldByName(t *testing.T, f *Form, name string) FieldView {
	t.Helper()
	for _, fv := range f.Fields() {
		if fv.Name == name {
			return fv
		}
	}
	t.Fatalf("field %q not found", name)
	return FieldView{}
}

func TestNewFormShowsStoredValues(t *testing.T) {
	f := NewForm(state.New(config.DefaultJitter()))

	want := map[string]string{
		FieldHorizontal: "15",
		FieldVertical:   "15",
		FieldDelay:      "0.001",
	}
	for name, text := range want {
		if got := fieldByName(t, f, name).Text; got != text {
			t.Errorf("%s: expected text %q, got %q", name, text, got)
		}
	}
}

func TestApplyStoresEveryValidAmplitude(t *testing.T) {
	st := state.New(config.DefaultJitter())
	f := NewForm(st)

	for v := config.MinAmplitude; v <= config.MaxAmplitude; v++ {
		f.SetText(FieldHorizontal, fmt.Sprint(v))
		f.SetText(FieldVertical, fmt.Sprint(config.MaxAmplitude+1-v))
		f.Apply()

		h, vert := st.Amplitude()
		if h != v || vert != config.MaxAmplitude+1-v {
			t.Fatalf("entered (%d, %d), stored (%d, %d)", v, config.MaxAmplitude+1-v, h, vert)
		}
	}
}

func TestApplyStoresValidDelays(t *testing.T) {
	st := state.New(config.DefaultJitter())
	f := NewForm(st)

	tests := []struct {
		text string
		want time.Duration
	}{
		{"0.001", time.Millisecond},
		{"0.005", 5 * time.Millisecond},
		{"0.05", 50 * time.Millisecond},
		{"0.0124", 12 * time.Millisecond},
		{"0.1", 100 * time.Millisecond},
	}
	for _, tt := range tests {
		f.SetText(FieldDelay, tt.text)
		f.Apply()
		if got := st.Delay(); got != tt.want {
			t.Errorf("entered %q, stored %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestBlurClampsOutOfRange(t *testing.T) {
	f := NewForm(state.New(config.DefaultJitter()))

	tests := []struct {
		name   string
		text   string
		want   string
		slider float64
	}{
		{FieldHorizontal, "0", "1", 1},
		{FieldHorizontal, "-40", "1", 1},
		{FieldHorizontal, "26", "25", 25},
		{FieldHorizontal, "99999999999999999999999", "25", 25},
		{FieldVertical, " 12 ", "12", 12},
		{FieldDelay, "0", "0.001", 0.001},
		{FieldDelay, "5", "0.100", 0.1},
		{FieldDelay, "0.02", "0.020", 0.02},
	}
	for _, tt := range tests {
		fv, err := f.Blur(tt.name, tt.text)
		if err != nil {
			t.Fatalf("Blur(%s, %q): %v", tt.name, tt.text, err)
		}
		if fv.Text != tt.want || fv.Slider != tt.slider {
			t.Errorf("Blur(%s, %q) = (%q, %v), want (%q, %v)", tt.name, tt.text, fv.Text, fv.Slider, tt.want, tt.slider)
		}
	}
}

func TestBlurRevertsMalformedToStored(t *testing.T) {
	st := state.New(config.JitterConfig{Horizontal: 9, Vertical: 4, Delay: 20 * time.Millisecond})
	f := NewForm(st)

	// A typed but unapplied value must not be the revert target.
	f.Blur(FieldHorizontal, "20")

	tests := []struct {
		name string
		text string
		want string
	}{
		{FieldHorizontal, "abc", "9"},
		{FieldHorizontal, "12.5", "9"},
		{FieldHorizontal, "", "9"},
		{FieldVertical, "4x", "4"},
		{FieldDelay, "fast", "0.020"},
		{FieldDelay, "NaN", "0.020"},
	}
	for _, tt := range tests {
		fv, _ := f.Blur(tt.name, tt.text)
		if fv.Text != tt.want {
			t.Errorf("Blur(%s, %q) text = %q, want %q", tt.name, tt.text, fv.Text, tt.want)
		}
	}
	if got := st.Jitter(); got != (config.JitterConfig{Horizontal: 9, Vertical: 4, Delay: 20 * time.Millisecond}) {
		t.Errorf("Blur must not change stored values, got %+v", got)
	}
}

func TestSlideUpdatesText(t *testing.T) {
	f := NewForm(state.New(config.DefaultJitter()))

	fv, _ := f.Slide(FieldVertical, 7.6)
	if fv.Text != "8" {
		t.Errorf("Expected text %q, got %q", "8", fv.Text)
	}
	fv, _ = f.Slide(FieldDelay, 0.0421)
	if fv.Text != "0.042" {
		t.Errorf("Expected text %q, got %q", "0.042", fv.Text)
	}
	fv, _ = f.Slide(FieldHorizontal, 40)
	if fv.Text != "25" || fv.Slider != 25 {
		t.Errorf("Expected slider clamped to 25, got (%q, %v)", fv.Text, fv.Slider)
	}
}

func TestApplyWithoutBlurClamps(t *testing.T) {
	st := state.New(config.DefaultJitter())
	f := NewForm(st)

	f.SetText(FieldHorizontal, "300")
	f.SetText(FieldVertical, "oops")
	f.SetText(FieldDelay, "0.0001")
	stored := f.Apply()

	want := config.JitterConfig{Horizontal: 25, Vertical: 15, Delay: time.Millisecond}
	if stored != want || st.Jitter() != want {
		t.Fatalf("expected %+v, got returned %+v stored %+v", want, stored, st.Jitter())
	}
	if got := fieldByName(t, f, FieldHorizontal).Text; got != "25" {
		t.Errorf("Expected horizontal text %q after apply, got %q", "25", got)
	}
}

func TestUnknownField(t *testing.T) {
	f := NewForm(state.New(config.DefaultJitter()))
	if _, err := f.Blur("speed", "1"); !errors.Is(err, ErrUnknownField) {
		t.Errorf("Expected ErrUnknownField, got %v", err)
	}
	if _, err := f.Slide("speed", 1); !errors.Is(err, ErrUnknownField) {
		t.Errorf("Expected ErrUnknownField, got %v", err)
	}
}

func TestResetDiscardsTyping(t *testing.T) {
	f := NewForm(state.New(config.DefaultJitter()))
	f.SetText(FieldHorizontal, "3")
	f.Reset()
	if got := fieldByName(t, f, FieldHorizontal).Text; got != "15" {
		t.Errorf("Expected %q after reset, got %q", "15", got)
	}
}

func TestBlurThenApplyIsStable(t *testing.T) {
	st := state.New(config.DefaultJitter())
	f := NewForm(st)

	fv, _ := f.Blur(FieldDelay, "0.0125")
	if fv.Text != "0.013" {
		t.Fatalf("Expected text %q after blur, got %q", "0.013", fv.Text)
	}

	first := f.Apply()
	if first.Delay != 13*time.Millisecond {
		t.Errorf("Expected stored delay to match the shown text (13ms), got %v", first.Delay)
	}
	second := f.Apply()
	if second != first {
		t.Errorf("Expected a repeated Apply to keep %+v, got %+v", first, second)
	}
}

func TestApplyWithoutBlurStoresShownValue(t *testing.T) {
	st := state.New(config.DefaultJitter())
	f := NewForm(st)

	f.SetText(FieldDelay, "0.0125")
	first := f.Apply()
	if got := fieldByName(t, f, FieldDelay).Text; got != "0.013" {
		t.Errorf("Expected text %q after apply, got %q", "0.013", got)
	}
	if first.Delay != 13*time.Millisecond {
		t.Errorf("Expected 13ms, got %v", first.Delay)
	}
	if second := f.Apply(); second.Delay != first.Delay {
		t.Errorf("Expected delay to stay %v, got %v", first.Delay, second.Delay)
	}
}

func TestSlideSnapsToStep(t *testing.T) {
	f := NewForm(state.New(config.DefaultJitter()))

	fv, _ := f.Slide(FieldDelay, 0.0421)
	if fv.Slider != 0.042 || fv.Text != "0.042" {
		t.Errorf("Expected (0.042, %q), got (%v, %q)", "0.042", fv.Slider, fv.Text)
	}
	fv, _ = f.Slide(FieldHorizontal, 7.6)
	if fv.Slider != 8 {
		t.Errorf("Expected slider 8, got %v", fv.Slider)
	}
}
