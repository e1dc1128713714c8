package mpv

import (
	"sync"

	"github.com/hayasedb/mediadeck/internal/screen"
)

// Screen is a fullscreen variant for targets whose pixels live in an mpv
// window. Targets must be bound to a window before they can go fullscreen.
type Screen struct {
	mu        sync.Mutex
	windows   map[string]*window
	targets   map[string]screen.Target
	active    string
	listeners map[int]func()
	nextID    int
}

func NewScreen() *Screen {
	return &Screen{
		windows:   make(map[string]*window),
		targets:   make(map[string]screen.Target),
		listeners: make(map[int]func()),
	}
}

func (s *Screen) Name() string {
	return "mpv"
}

func (s *Screen) Bind(t screen.Target, w *window) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.windows[t.TargetID()] = w
	s.targets[t.TargetID()] = t
}

func (s *Screen) Unbind(t screen.Target) {
	s.mu.Lock()
	id := t.TargetID()
	delete(s.windows, id)
	delete(s.targets, id)
	changed := s.active == id
	if changed {
		s.active = ""
	}
	s.mu.Unlock()

	if changed {
		s.notify()
	}
}

func (s *Screen) FullscreenElement() screen.Target {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == "" {
		return nil
	}
	return s.targets[s.active]
}

func (s *Screen) RequestFullscreen(t screen.Target) error {
	s.mu.Lock()
	w, ok := s.windows[t.TargetID()]
	s.mu.Unlock()
	if !ok {
		return screen.ErrUnsupported
	}

	if err := w.setFlag("fullscreen", true); err != nil {
		return err
	}

	s.mu.Lock()
	s.active = t.TargetID()
	s.mu.Unlock()
	s.notify()
	return nil
}

func (s *Screen) ExitFullscreen() error {
	s.mu.Lock()
	w := s.windows[s.active]
	s.mu.Unlock()
	if w == nil {
		return screen.ErrUnsupported
	}

	if err := w.setFlag("fullscreen", false); err != nil {
		return err
	}

	s.mu.Lock()
	s.active = ""
	s.mu.Unlock()
	s.notify()
	return nil
}

func (s *Screen) OnChange(fn func()) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *Screen) notify() {
	s.mu.Lock()
	fns := make([]func(), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
