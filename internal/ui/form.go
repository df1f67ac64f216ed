package ui

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"mousejitter/internal/config"
	"mousejitter/internal/state"
)

// ErrUnknownField is returned for a field name the form does not have.
var ErrUnknownField = errors.New("unknown field")

// Field names used by the page and the JSON API.
const (
	FieldHorizontal = "horizontal"
	FieldVertical   = "vertical"
	FieldDelay      = "delay"
)

type fieldKind int

const (
	kindInteger fieldKind = iota
	kindSeconds
)

// FieldView is the slider/text pair as shown on the page.
type FieldView struct {
	Name   string  `json:"name"`
	Label  string  `json:"label"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Step   float64 `json:"step"`
	Slider float64 `json:"slider"`
	Text   string  `json:"text"`
}

type field struct {
	name   string
	label  string
	kind   fieldKind
	min    float64
	max    float64
	step   float64
	slider float64
	text   string
}

func (f *field) view() FieldView {
	return FieldView{
		Name:   f.name,
		Label:  f.label,
		Min:    f.min,
		Max:    f.max,
		Step:   f.step,
		Slider: f.slider,
		Text:   f.text,
	}
}

func (f *field) format(v float64) string {
	if f.kind == kindSeconds {
		return fmt.Sprintf("%.3f", v)
	}
	return fmt.Sprintf("%.0f", v)
}

// parse reads the typed text the way the field expects: whole numbers for
// amplitudes, seconds for the delay.
func (f *field) parse(text string) (float64, bool) {
	text = strings.TrimSpace(text)
	if f.kind == kindInteger {
		n, err := strconv.Atoi(text)
		if errors.Is(err, strconv.ErrRange) {
			// Atoi saturates; the clamp brings it into bounds.
			return float64(n), true
		}
		if err != nil {
			return 0, false
		}
		return float64(n), true
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// clamp rounds v to the precision the text shows and limits it to the
// bounds, so the value kept is exactly the one on the page.
func (f *field) clamp(v float64) float64 {
	if f.kind == kindSeconds {
		v = math.Round(v*1000) / 1000
	} else {
		v = math.Round(v)
	}
	return math.Min(f.max, math.Max(f.min, v))
}

// set moves both halves of the pair to v.
func (f *field) set(v float64) {
	f.slider = v
	f.text = f.format(v)
}

// Form keeps the three slider/text pairs of the settings panel in sync and
// commits them to the shared state on Apply.
type Form struct {
	mu     sync.Mutex
	state  *state.State
	fields []*field
}

// NewForm creates a form showing the values currently stored in st.
func NewForm(st *state.State) *Form {
	f := &Form{
		state: st,
		fields: []*field{
			{
				name: FieldHorizontal, label: "Horizontal (1-25)", kind: kindInteger,
				min: config.MinAmplitude, max: config.MaxAmplitude, step: 1,
			},
			{
				name: FieldVertical, label: "Vertical (1-25)", kind: kindInteger,
				min: config.MinAmplitude, max: config.MaxAmplitude, step: 1,
			},
			{
				name: FieldDelay, label: "Delay (0.001-0.1 s)", kind: kindSeconds,
				min: config.MinDelay.Seconds(), max: config.MaxDelay.Seconds(), step: 0.001,
			},
		},
	}
	f.Reset()
	return f
}

// Reset shows the stored values again, discarding anything typed.
func (f *Form) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, fd := range f.fields {
		fd.set(f.storedLocked(fd))
	}
}

// Fields returns the current view of every pair.
func (f *Form) Fields() []FieldView {
	f.mu.Lock()
	defer f.mu.Unlock()
	views := make([]FieldView, 0, len(f.fields))
	for _, fd := range f.fields {
		views = append(views, fd.view())
	}
	return views
}

// Slide handles a slider drag: the text follows the slider.
func (f *Form) Slide(name string, value float64) (FieldView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fd, err := f.lookupLocked(name)
	if err != nil {
		return FieldView{}, err
	}
	if math.IsNaN(value) {
		return fd.view(), nil
	}
	fd.set(fd.clamp(value))
	return fd.view(), nil
}

// SetText records typed text without validating it.
func (f *Form) SetText(name, text string) (FieldView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fd, err := f.lookupLocked(name)
	if err != nil {
		return FieldView{}, err
	}
	fd.text = text
	return fd.view(), nil
}

// Blur validates typed text when the field loses focus. Valid numbers are
// clamped to the field bounds; anything else reverts to the stored value.
func (f *Form) Blur(name, text string) (FieldView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fd, err := f.lookupLocked(name)
	if err != nil {
		return FieldView{}, err
	}
	f.validateLocked(fd, text)
	return fd.view(), nil
}

// Apply validates every field and stores the result in the shared state.
func (f *Form) Apply() config.JitterConfig {
	f.mu.Lock()
	defer f.mu.Unlock()

	values := make(map[string]float64, len(f.fields))
	for _, fd := range f.fields {
		values[fd.name] = f.validateLocked(fd, fd.text)
	}

	stored := f.state.Apply(config.JitterConfig{
		Horizontal: int(values[FieldHorizontal]),
		Vertical:   int(values[FieldVertical]),
		Delay:      secondsToDuration(values[FieldDelay]),
	})

	for _, fd := range f.fields {
		fd.set(f.storedLocked(fd))
	}
	return stored
}

func (f *Form) validateLocked(fd *field, text string) float64 {
	v, ok := fd.parse(text)
	if !ok {
		v = f.storedLocked(fd)
	}
	v = fd.clamp(v)
	fd.set(v)
	return v
}

func (f *Form) storedLocked(fd *field) float64 {
	h, v := f.state.Amplitude()
	switch fd.name {
	case FieldHorizontal:
		return float64(h)
	case FieldVertical:
		return float64(v)
	default:
		return f.state.Delay().Seconds()
	}
}

func (f *Form) lookupLocked(name string) (*field, error) {
	for _, fd := range f.fields {
		if fd.name == name {
			return fd, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownField, name)
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}
