// Mouse Jitter - shakes the cursor while both mouse buttons are held
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"mousejitter/internal/autostart"
	"mousejitter/internal/config"
	"mousejitter/internal/hook"
	"mousejitter/internal/input"
	"mousejitter/internal/jitter"
	"mousejitter/internal/osutils"
	"mousejitter/internal/state"
	"mousejitter/internal/tray"
	"mousejitter/internal/ui"
)

var (
	version    = "0.1.0"
	showVer    = flag.Bool("version", false, "Show version")
	configPath = flag.String("config", "", "Path to the config file (default: per-user config dir)")
	noBrowser  = flag.Bool("no-browser", false, "Do not open the settings page on start")
	headless   = flag.Bool("headless", false, "Run without a tray icon until interrupted")
)

func main() {
	flag.Parse()

	if *showVer {
		fmt.Printf("mousejitter version %s\n", version)
		return
	}

	// Initialize config
	cfgMgr, err := config.NewManager(*configPath)
	if err != nil {
		log.Fatalf("Failed to initialize config: %v", err)
	}
	if err := cfgMgr.Load(); err != nil {
		log.Printf("Warning: failed to load config: %v", err)
	}

	syncAutostart := func(general config.GeneralConfig) {
		if err := autostart.Sync(general.StartOnBoot); err != nil {
			log.Printf("Autostart warning: %v", err)
		}
	}
	cfgMgr.RegisterGeneralCallback(syncAutostart)
	syncAutostart(cfgMgr.Get().General)

	run(cfgMgr)
}

func run(cfgMgr *config.Manager) {
	log.Println("Mouse Jitter starting...")
	cfg := cfgMgr.Get()

	if !osutils.IsAdmin() {
		log.Println("Note: not elevated, buttons held over elevated windows are not seen")
	}

	st := state.New(cfg.Jitter)

	// Global button hook
	src := hook.NewSource()
	if err := hook.NewTracker(st).Attach(src); err != nil {
		log.Printf("Hook: failed to start, jitter will never arm: %v", err)
	}

	// Emitter
	emitter := jitter.New(st, input.NewInjector())
	emitter.SetPollInterval(cfg.General.PollInterval)
	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		emitter.Run(ctx)
	}()

	var t *tray.Tray
	if !*headless {
		t = tray.New("Mouse Jitter", "Mouse Jitter - hold both buttons to jitter")
	}

	var shutdownOnce sync.Once
	var server *ui.Server
	shutdown := func() {
		shutdownOnce.Do(func() {
			log.Println("Shutting down...")
			st.Stop()
			if err := src.Stop(); err != nil {
				log.Printf("Hook: stop failed: %v", err)
			}
			if err := server.Stop(); err != nil {
				log.Printf("UI: stop failed: %v", err)
			}
			if t != nil {
				t.Stop()
			}
		})
	}

	// Settings page
	server = ui.NewServer(cfgMgr, st, emitter, shutdown)
	url, err := server.Listen(cfg.General.UIAddr)
	if err != nil {
		log.Printf("UI: %v", err)
	} else {
		go func() {
			if err := server.Serve(); err != nil {
				log.Printf("UI server error: %v", err)
			}
		}()
		if cfg.General.OpenBrowser && !*noBrowser {
			if err := osutils.OpenBrowser(url); err != nil {
				log.Printf("UI: failed to open browser: %v", err)
			}
		}
	}

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			shutdown()
		case <-st.Done():
		}
	}()

	if t != nil {
		runTray(t, st, server, shutdown)
	} else {
		log.Println("Mouse Jitter running headless. Press Ctrl+C to stop.")
		<-st.Done()
	}

	// Covers the tray being closed by the OS rather than through Quit
	shutdown()
	cancel()
	wg.Wait()

	stats := emitter.Stats()
	log.Printf("Mouse Jitter stopped after %d cycles (%d failed moves)", stats.Cycles, stats.Failures)
}

// runTray builds the tray menu and blocks until the tray exits.
func runTray(t *tray.Tray, st *state.State, server *ui.Server, shutdown func()) {
	statusID := t.AddLabel(statusTitle(st.Active()))
	t.AddSeparator()
	t.AddMenuItem("Settings...", func() {
		url := server.URL()
		if url == "" {
			log.Println("Tray: settings page is not available")
			return
		}
		if err := osutils.OpenBrowser(url); err != nil {
			log.Printf("Tray: failed to open browser: %v", err)
		}
	})
	t.AddSeparator()
	t.AddMenuItem("Quit", shutdown)

	go func() {
		select {
		case <-t.Ready():
		case <-st.Done():
			return
		}

		ticker := time.NewTicker(250 * time.Millisecond)
		defer ticker.Stop()
		last := st.Active()
		for {
			select {
			case <-ticker.C:
				if now := st.Active(); now != last {
					last = now
					t.SetItemTitle(statusID, statusTitle(now))
				}
			case <-st.Done():
				return
			}
		}
	}()

	log.Println("Mouse Jitter running. Hold both mouse buttons to jitter, Ctrl+C to stop.")
	t.Run()
}

func statusTitle(active bool) string {
	if active {
		return "Status: jittering"
	}
	return "Status: idle"
}
