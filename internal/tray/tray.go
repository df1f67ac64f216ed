// Package tray provides system tray functionality using getlantern/systray.
package tray

import (
	"encoding/binary"
	"sync"

	"github.com/getlantern/systray"
)

// MenuItem represents a menu item
type MenuItem struct {
	ID       int
	Title    string
	Disabled bool
	Callback func()
	item     *systray.MenuItem
}

// Tray manages the system tray icon and menu
type Tray struct {
	title   string
	tooltip string

	mu       sync.Mutex
	items    []*MenuItem
	readyCh  chan struct{}
	quitCh   chan struct{}
	stopOnce sync.Once
}

// New creates a new system tray
func New(title, tooltip string) *Tray {
	return &Tray{
		title:   title,
		tooltip: tooltip,
		items:   make([]*MenuItem, 0),
		readyCh: make(chan struct{}),
		quitCh:  make(chan struct{}),
	}
}

// AddMenuItem adds a menu item to the tray. Items must be added before Run.
func (t *Tray) AddMenuItem(title string, callback func()) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	id := len(t.items)
	t.items = append(t.items, &MenuItem{
		ID:       id,
		Title:    title,
		Callback: callback,
	})
	return id
}

// AddLabel adds a disabled item whose title can be changed with SetItemTitle.
func (t *Tray) AddLabel(title string) int {
	id := t.AddMenuItem(title, nil)
	t.mu.Lock()
	t.items[id].Disabled = true
	t.mu.Unlock()
	return id
}

// AddSeparator adds a separator to the menu
func (t *Tray) AddSeparator() {
	t.mu.Lock()
	t.items = append(t.items, nil) // nil indicates separator
	t.mu.Unlock()
}

// SetItemTitle changes the text of a menu item.
func (t *Tray) SetItemTitle(id int, title string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if id < 0 || id >= len(t.items) || t.items[id] == nil {
		return
	}
	t.items[id].Title = title
	if t.items[id].item != nil {
		t.items[id].item.SetTitle(title)
	}
}

// Ready is closed once the menu has been built.
func (t *Tray) Ready() <-chan struct{} {
	return t.readyCh
}

// Run starts the tray event loop (blocks)
func (t *Tray) Run() {
	systray.Run(t.setupMenu, t.onExit)
}

// setupMenu is called when systray is ready
func (t *Tray) setupMenu() {
	systray.SetTitle(t.title)
	systray.SetTooltip(t.tooltip)
	systray.SetIcon(getIcon())

	t.mu.Lock()
	for _, menuItem := range t.items {
		if menuItem == nil {
			systray.AddSeparator()
			continue
		}

		item := systray.AddMenuItem(menuItem.Title, "")
		if menuItem.Disabled {
			item.Disable()
		}
		menuItem.item = item

		// Handle clicks in goroutine
		if menuItem.Callback != nil {
			go func(mi *MenuItem) {
				for {
					select {
					case <-mi.item.ClickedCh:
						mi.Callback()
					case <-t.quitCh:
						return
					}
				}
			}(menuItem)
		}
	}
	t.mu.Unlock()

	close(t.readyCh)
}

func (t *Tray) onExit() {
	close(t.quitCh)
}

// Stop stops the tray; safe to call more than once.
func (t *Tray) Stop() {
	t.stopOnce.Do(systray.Quit)
}

const iconSize = 16

// getIcon builds the tray icon: a 16x16 32-bit ICO showing a white
// four-way move cross on a blue disc.
func getIcon() []byte {
	const (
		headerSize = 6 + 16
		dibSize    = 40
		pixelBytes = iconSize * iconSize * 4
		maskBytes  = iconSize * 4 // 1bpp rows padded to 32 bits
		imageSize  = dibSize + pixelBytes + maskBytes
	)
	icon := make([]byte, headerSize+imageSize)
	le := binary.LittleEndian

	// ICO header: type 1 (icon), one image
	le.PutUint16(icon[2:], 1)
	le.PutUint16(icon[4:], 1)

	// Icon directory
	dir := icon[6:headerSize]
	dir[0], dir[1] = iconSize, iconSize
	le.PutUint16(dir[4:], 1)  // planes
	le.PutUint16(dir[6:], 32) // bpp
	le.PutUint32(dir[8:], imageSize)
	le.PutUint32(dir[12:], headerSize)

	// DIB header; height counts the AND mask too
	dib := icon[headerSize : headerSize+dibSize]
	le.PutUint32(dib[0:], dibSize)
	le.PutUint32(dib[4:], iconSize)
	le.PutUint32(dib[8:], iconSize*2)
	le.PutUint16(dib[12:], 1)
	le.PutUint16(dib[14:], 32)
	le.PutUint32(dib[20:], pixelBytes)

	// The alpha channel carries transparency, so the mask stays zero
	pixels := icon[headerSize+dibSize : headerSize+dibSize+pixelBytes]
	for y := 0; y < iconSize; y++ {
		for x := 0; x < iconSize; x++ {
			r, g, b, a := iconPixel(x, y)
			// Rows are stored bottom-up, channels as BGRA
			i := ((iconSize-1-y)*iconSize + x) * 4
			pixels[i], pixels[i+1], pixels[i+2], pixels[i+3] = b, g, r, a
		}
	}
	return icon
}

func iconPixel(x, y int) (r, g, b, a byte) {
	dx, dy := float64(x)-7.5, float64(y)-7.5
	if dx*dx+dy*dy > 7.5*7.5 {
		return 0, 0, 0, 0
	}
	onBar := func(p, q int) bool { return (p == 7 || p == 8) && q >= 3 && q <= 12 }
	if onBar(x, y) || onBar(y, x) {
		return 0xff, 0xff, 0xff, 0xff
	}
	return 0x66, 0x7e, 0xea, 0xff
}
