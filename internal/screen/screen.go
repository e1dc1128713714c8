// Package screen hides the differences between fullscreen and orientation
// implementations behind one Adapter. Missing capabilities degrade to
// "stays windowed"; nothing here ever fails playback.
package screen

import (
	"errors"
	"sync"

	"github.com/charmbracelet/log"
)

var ErrUnsupported = errors.New("capability not supported")

// Target is anything fullscreen can be requested on.
type Target interface {
	TargetID() string
}

// API is one implementation variant of the fullscreen capability.
type API interface {
	Name() string
	// FullscreenElement returns the target currently fullscreen, or nil.
	FullscreenElement() Target
	RequestFullscreen(t Target) error
	ExitFullscreen() error
	// OnChange registers fn for this variant's change notifications.
	OnChange(fn func()) (cancel func())
}

// SelfFullscreener is a media target with its own fullscreen entry point.
type SelfFullscreener interface {
	Target
	EnterFullscreen() error
	ExitFullscreen() error
	IsFullscreen() bool
}

// FrameHost is a container that can list the embedded frames inside it.
type FrameHost interface {
	Target
	FrameTargets() []Target
}

type Orientation interface {
	Lock(orientation string) error
	Unlock() error
}

const Landscape = "landscape"

type Adapter struct {
	apis        []API
	orientation Orientation

	mu          sync.Mutex
	self        SelfFullscreener
	subscribers map[int]func()
	nextID      int
	cancels     []func()
}

// NewAdapter builds an adapter over the given variants in priority order.
// Nil variants and a nil orientation are allowed.
func NewAdapter(orientation Orientation, apis ...API) *Adapter {
	a := &Adapter{
		orientation: orientation,
		subscribers: make(map[int]func()),
	}
	for _, api := range apis {
		if api != nil {
			a.apis = append(a.apis, api)
		}
	}
	return a
}

func (a *Adapter) IsFullscreenActive() bool {
	for _, api := range a.apis {
		if api.FullscreenElement() != nil {
			return true
		}
	}

	a.mu.Lock()
	self := a.self
	a.mu.Unlock()

	return self != nil && self.IsFullscreen()
}

// EnterFullscreen tries the container first, then the media element's own
// fullscreen, then every frame inside the container. On success it asks for a
// landscape orientation lock and ignores a refusal.
func (a *Adapter) EnterFullscreen(container Target, media SelfFullscreener) bool {
	if container != nil && a.request(container) {
		a.lockOrientation()
		return true
	}

	if media != nil {
		err := media.EnterFullscreen()
		if err == nil {
			a.mu.Lock()
			a.self = media
			a.mu.Unlock()
			a.lockOrientation()
			return true
		}
		log.Debug("Media fullscreen failed", "target", media.TargetID(), "error", err)
	}

	if host, ok := container.(FrameHost); ok {
		for _, frame := range host.FrameTargets() {
			if a.request(frame) {
				a.lockOrientation()
				return true
			}
		}
	}

	return false
}

func (a *Adapter) request(t Target) bool {
	for _, api := range a.apis {
		err := api.RequestFullscreen(t)
		if err == nil {
			return true
		}
		log.Debug("Fullscreen request failed", "api", api.Name(), "target", t.TargetID(), "error", err)
	}
	return false
}

func (a *Adapter) ExitFullscreen() bool {
	exited := false
	for _, api := range a.apis {
		if api.FullscreenElement() == nil {
			continue
		}
		if err := api.ExitFullscreen(); err != nil {
			log.Debug("Exit fullscreen failed", "api", api.Name(), "error", err)
			continue
		}
		exited = true
	}

	a.mu.Lock()
	self := a.self
	a.mu.Unlock()

	if self != nil && self.IsFullscreen() {
		if err := self.ExitFullscreen(); err != nil {
			log.Debug("Exit media fullscreen failed", "target", self.TargetID(), "error", err)
		} else {
			exited = true
			a.mu.Lock()
			a.self = nil
			a.mu.Unlock()
		}
	}

	if exited && a.orientation != nil {
		if err := a.orientation.Unlock(); err != nil {
			log.Debug("Orientation unlock failed", "error", err)
		}
	}

	return exited
}

func (a *Adapter) lockOrientation() {
	if a.orientation == nil {
		return
	}
	if err := a.orientation.Lock(Landscape); err != nil {
		log.Debug("Orientation lock refused", "error", err)
	}
}

// Subscribe registers fn for fullscreen changes from any variant. The
// returned function removes only this subscription and is safe to call twice.
func (a *Adapter) Subscribe(fn func()) (unsubscribe func()) {
	a.mu.Lock()
	defer a.mu.Unlock()

	id := a.nextID
	a.nextID++
	a.subscribers[id] = fn

	if len(a.subscribers) == 1 {
		for _, api := range a.apis {
			a.cancels = append(a.cancels, api.OnChange(a.notify))
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			a.mu.Lock()
			defer a.mu.Unlock()

			delete(a.subscribers, id)
			if len(a.subscribers) == 0 {
				for _, cancel := range a.cancels {
					cancel()
				}
				a.cancels = nil
			}
		})
	}
}

// Notify fans a change out to every subscriber. Variants call it through
// OnChange; media targets with their own fullscreen may call it directly.
func (a *Adapter) Notify() {
	a.notify()
}

func (a *Adapter) notify() {
	a.mu.Lock()
	fns := make([]func(), 0, len(a.subscribers))
	for _, fn := range a.subscribers {
		fns = append(fns, fn)
	}
	a.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
