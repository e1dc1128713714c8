package players

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/hayasedb/mediadeck/internal/dom"
	"github.com/hayasedb/mediadeck/internal/linkclass"
	"github.com/hayasedb/mediadeck/internal/models"
	"github.com/hayasedb/mediadeck/internal/screen"
)

// Session identifies one playback session: one item in one controller.
// Asynchronous messages carry the session they were produced for, and a
// controller drops any message whose session is not its live one.
type Session string

func NewSession() Session {
	return Session(uuid.NewString())
}

// Controller plays items of a single link kind.
type Controller interface {
	Name() string

	Session() Session

	// Load starts a new session for item, discarding the previous one.
	Load(item *models.MediaItem, src linkclass.Source) tea.Cmd

	Update(msg tea.Msg) tea.Cmd

	View() string

	// Teardown releases everything the controller owns. Messages that arrive
	// afterwards are ignored.
	Teardown()
}

type EndedMsg struct{ Session Session }

type NextMsg struct{ Session Session }

type PrevMsg struct{ Session Session }

// QualityMsg reports the detected quality label once per session.
type QualityMsg struct {
	Session Session
	Label   string
}

func Emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// Env is what a controller may use from its host.
type Env struct {
	// Send delivers a message to the event loop from any goroutine.
	Send func(tea.Msg)

	Screen    *screen.Adapter
	Prefs     *Preferences
	Container *dom.Container

	NewMedia func() (MediaElement, error)
	External ExternalAPI
	Frames   FrameOpener
}

func (e *Env) send(msg tea.Msg) {
	if e.Send != nil {
		e.Send(msg)
	}
}

// Sender wraps Send so it is safe to call when no loop is attached.
func (e *Env) Sender() func(tea.Msg) {
	return e.send
}

type MountFunc func(env *Env) Controller

type Registry struct {
	mounts      map[linkclass.Kind]MountFunc
	fallback    linkclass.Kind
	hasFallback bool
}

func NewRegistry() *Registry {
	return &Registry{
		mounts: make(map[linkclass.Kind]MountFunc),
	}
}

// Register binds a link kind to a controller. The first registration becomes
// the fallback for kinds nobody registered.
func (r *Registry) Register(kind linkclass.Kind, mount MountFunc) {
	r.mounts[kind] = mount
	if !r.hasFallback {
		r.fallback = kind
		r.hasFallback = true
	}
}

func (r *Registry) Mount(kind linkclass.Kind, env *Env) (Controller, error) {
	mount, exists := r.mounts[kind]
	if !exists {
		if !r.hasFallback {
			return nil, fmt.Errorf("no controller registered for %s", kind)
		}
		mount = r.mounts[r.fallback]
	}
	return mount(env), nil
}
