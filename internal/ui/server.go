// Package ui provides the settings panel, served as a local web page.
package ui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log"
	"mime"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"mousejitter/internal/config"
	"mousejitter/internal/jitter"
	"mousejitter/internal/protocol"
	"mousejitter/internal/state"
)

const statusInterval = 100 * time.Millisecond

// StatsSource reports emitter counters for the status line.
type StatsSource interface {
	Stats() jitter.Stats
}

// Server provides the web-based settings panel
type Server struct {
	configMgr *config.Manager
	state     *state.State
	form      *Form
	stats     StatsSource
	onQuit    func()
	hub       *wsHub

	startOnce sync.Once
	mu        sync.Mutex
	listener  net.Listener
	httpSrv   *http.Server
	url       string
}

// NewServer creates a new settings server. cfgMgr may be nil, in which case
// applied settings are not persisted. onQuit is called when the page asks the
// application to close.
func NewServer(cfgMgr *config.Manager, st *state.State, stats StatsSource, onQuit func()) *Server {
	return &Server{
		configMgr: cfgMgr,
		state:     st,
		form:      NewForm(st),
		stats:     stats,
		onQuit:    onQuit,
		hub:       newWSHub(),
	}
}

// Form returns the form backing the page.
func (s *Server) Form() *Form {
	return s.form
}

// Handler returns the HTTP handler and starts the status broadcaster.
func (s *Server) Handler() http.Handler {
	s.startOnce.Do(func() {
		go s.hub.run()
		go s.watchStatus()
	})

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/api/settings", s.handleSettings)
	mux.HandleFunc("/api/slide", s.handleSlide)
	mux.HandleFunc("/api/blur", s.handleBlur)
	mux.HandleFunc("/api/apply", s.handleApply)
	mux.HandleFunc("/api/general", s.handleGeneral)
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/quit", s.handleQuit)
	mux.HandleFunc("/ws", s.hub.handleWebSocket)
	return recoverMiddleware(mux)
}

// Listen binds the settings page to addr and returns its URL.
func (s *Server) Listen(addr string) (string, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", fmt.Errorf("settings server listen on %s: %w", addr, err)
	}

	s.mu.Lock()
	s.listener = listener
	s.url = fmt.Sprintf("http://%s", listener.Addr().String())
	s.httpSrv = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	pageURL := s.url
	s.mu.Unlock()

	log.Printf("UI: Settings page at %s", pageURL)
	return pageURL, nil
}

// Serve blocks serving the listener bound by Listen.
func (s *Server) Serve() error {
	s.mu.Lock()
	srv, listener := s.httpSrv, s.listener
	s.mu.Unlock()
	if srv == nil {
		return errors.New("settings server not listening")
	}

	if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// URL returns the page address once Listen succeeded.
func (s *Server) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.url
}

// Stop closes open pages and stops the server
func (s *Server) Stop() error {
	s.hub.close()

	s.mu.Lock()
	srv := s.httpSrv
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

// watchStatus pushes the state to open pages whenever it changes.
func (s *Server) watchStatus() {
	ticker := time.NewTicker(statusInterval)
	defer ticker.Stop()

	var last protocol.StatusPayload
	for {
		select {
		case <-ticker.C:
			current := s.status()
			if current != last {
				last = current
				s.hub.publish(protocol.Message{Type: protocol.TypeStatus, Payload: current})
			}
		case <-s.state.Done():
			s.hub.publish(protocol.Message{Type: protocol.TypeShutdown})
			return
		case <-s.hub.shutdown:
			return
		}
	}
}

func (s *Server) status() protocol.StatusPayload {
	payload := protocol.StatusPayload{State: s.state.Snapshot()}
	if s.stats != nil {
		payload.Stats = s.stats.Stats()
	}
	return payload
}

// recoverMiddleware prevents panics from crashing the whole server
func recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("UI: PANIC RECOV: %v", err)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

type settingsResponse struct {
	Fields  []FieldView             `json:"fields"`
	Stored  protocol.AppliedPayload `json:"stored"`
	General config.GeneralConfig    `json:"general"`
}

type slideRequest struct {
	Field string  `json:"field"`
	Value float64 `json:"value"`
}

type blurRequest struct {
	Field string `json:"field"`
	Text  string `json:"text"`
}

// applyRequest carries the texts on the page; missing fields keep the form's text.
type applyRequest struct {
	Horizontal *string `json:"horizontal"`
	Vertical   *string `json:"vertical"`
	Delay      *string `json:"delay"`
}

type generalRequest struct {
	StartOnBoot *bool `json:"start_on_boot"`
	OpenBrowser *bool `json:"open_browser"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(w, s.form.Fields()); err != nil {
		log.Printf("UI: render failed: %v", err)
	}
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, s.settings())
}

func (s *Server) handleSlide(w http.ResponseWriter, r *http.Request) {
	var req slideRequest
	if !decodePost(w, r, &req) {
		return
	}
	fv, err := s.form.Slide(req.Field, req.Value)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, fv)
}

func (s *Server) handleBlur(w http.ResponseWriter, r *http.Request) {
	var req blurRequest
	if !decodePost(w, r, &req) {
		return
	}
	fv, err := s.form.Blur(req.Field, req.Text)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, fv)
}

func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	var req applyRequest
	if !decodePost(w, r, &req) {
		return
	}

	texts := map[string]*string{
		FieldHorizontal: req.Horizontal,
		FieldVertical:   req.Vertical,
		FieldDelay:      req.Delay,
	}
	for name, text := range texts {
		if text != nil {
			s.form.SetText(name, *text)
		}
	}

	stored := s.form.Apply()
	log.Printf("UI: Applied horizontal=%d vertical=%d delay=%v", stored.Horizontal, stored.Vertical, stored.Delay)

	if s.configMgr != nil {
		s.configMgr.SetJitter(stored)
		if err := s.configMgr.Save(); err != nil {
			log.Printf("UI: Failed to save config: %v", err)
		}
	}

	applied := appliedPayload(stored)
	s.hub.publish(protocol.Message{Type: protocol.TypeApplied, Payload: applied})
	writeJSON(w, s.settings())
}

func (s *Server) handleGeneral(w http.ResponseWriter, r *http.Request) {
	if s.configMgr == nil {
		http.Error(w, "settings are not persisted", http.StatusServiceUnavailable)
		return
	}
	var req generalRequest
	if !decodePost(w, r, &req) {
		return
	}

	cfg := s.configMgr.Get()
	if req.StartOnBoot != nil {
		cfg.General.StartOnBoot = *req.StartOnBoot
	}
	if req.OpenBrowser != nil {
		cfg.General.OpenBrowser = *req.OpenBrowser
	}
	s.configMgr.Set(cfg)
	if err := s.configMgr.Save(); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, s.settings())
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.status())
}

func (s *Server) handleQuit(w http.ResponseWriter, r *http.Request) {
	var req struct{}
	if !decodePost(w, r, &req) {
		return
	}
	log.Printf("UI: Quit requested from settings page")
	writeJSON(w, map[string]string{"status": "ok"})
	if s.onQuit != nil {
		go s.onQuit()
	}
}

func (s *Server) settings() settingsResponse {
	resp := settingsResponse{
		Fields: s.form.Fields(),
		Stored: appliedPayload(s.state.Jitter()),
	}
	if s.configMgr != nil {
		resp.General = s.configMgr.Get().General
	}
	return resp
}

func appliedPayload(j config.JitterConfig) protocol.AppliedPayload {
	return protocol.AppliedPayload{
		Horizontal:   j.Horizontal,
		Vertical:     j.Vertical,
		DelaySeconds: j.Delay.Seconds(),
	}
}

// decodePost accepts only same-origin JSON POSTs. A JSON content type cannot
// be sent cross-origin without a preflight, which this server never answers.
func decodePost(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	if !sameOrigin(r) {
		log.Printf("UI: Rejected %s from origin %q", r.URL.Path, r.Header.Get("Origin"))
		http.Error(w, "Forbidden", http.StatusForbidden)
		return false
	}
	if mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type")); err != nil || mt != "application/json" {
		http.Error(w, "Content-Type must be application/json", http.StatusUnsupportedMediaType)
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

// sameOrigin mirrors the websocket upgrader's default origin check: a
// missing Origin is allowed, otherwise its host must be the one served.
func sameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

var tmpl = template.Must(template.New("index").Parse(indexHTML))
