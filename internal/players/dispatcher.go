package players

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/hayasedb/mediadeck/internal/linkclass"
	"github.com/hayasedb/mediadeck/internal/models"
)

// Callbacks are invoked on the event loop goroutine.
type Callbacks struct {
	OnEnded   func()
	OnNext    func()
	OnPrev    func()
	OnQuality func(label string)
}

// Dispatcher mounts the controller that matches the current item's link and
// gives the host one contract no matter which controller is active.
type Dispatcher struct {
	registry  *Registry
	env       *Env
	callbacks Callbacks

	current Controller
	kind    linkclass.Kind
	item    *models.MediaItem

	// Render may be called from inside a callback; its command is queued
	// and returned by the Update that ran the callback.
	dispatching bool
	pending     []tea.Cmd
}

func NewDispatcher(registry *Registry, env *Env, callbacks Callbacks) *Dispatcher {
	return &Dispatcher{
		registry:  registry,
		env:       env,
		callbacks: callbacks,
	}
}

func (d *Dispatcher) Item() *models.MediaItem {
	return d.item
}

func (d *Dispatcher) Controller() Controller {
	return d.current
}

// Render makes item current. A same-kind item reuses the mounted controller
// with a fresh session; a different kind tears it down first.
func (d *Dispatcher) Render(item *models.MediaItem) tea.Cmd {
	if item == nil {
		d.Close()
		return nil
	}
	if d.item != nil && d.current != nil && d.item.ID == item.ID {
		return nil
	}

	src := linkclass.Resolve(item.Link)

	if d.current != nil && d.kind != src.Kind() {
		log.Debug("Switching controller", "from", d.current.Name(), "to", src.Kind())
		d.current.Teardown()
		d.current = nil
	}

	if d.current == nil {
		c, err := d.registry.Mount(src.Kind(), d.env)
		if err != nil {
			log.Error("No controller for item", "item", item.ID, "kind", src.Kind(), "error", err)
			d.item = item
			return nil
		}
		d.current = c
		d.kind = src.Kind()
	}

	d.item = item
	log.Info("Rendering item", "item", item.ID, "kind", src.Kind(), "controller", d.current.Name())

	cmd := d.current.Load(item, src)
	if d.dispatching {
		d.pending = append(d.pending, cmd)
		return nil
	}
	return cmd
}

// Update forwards msg to the active controller and converts its navigation
// messages into callbacks. Messages from stale sessions are dropped.
func (d *Dispatcher) Update(msg tea.Msg) tea.Cmd {
	if d.current == nil {
		return nil
	}

	live := d.current.Session()

	switch msg := msg.(type) {
	case EndedMsg:
		if msg.Session == live {
			return d.dispatch(d.callbacks.OnEnded)
		}
		return nil
	case NextMsg:
		if msg.Session == live {
			return d.dispatch(d.callbacks.OnNext)
		}
		return nil
	case PrevMsg:
		if msg.Session == live {
			return d.dispatch(d.callbacks.OnPrev)
		}
		return nil
	case QualityMsg:
		if msg.Session == live && d.callbacks.OnQuality != nil {
			d.callbacks.OnQuality(msg.Label)
		}
		return nil
	}

	return d.current.Update(msg)
}

func (d *Dispatcher) dispatch(fn func()) tea.Cmd {
	if fn == nil {
		return nil
	}

	d.dispatching = true
	fn()
	d.dispatching = false

	cmds := d.pending
	d.pending = nil
	if len(cmds) == 1 {
		return cmds[0]
	}
	return tea.Batch(cmds...)
}

func (d *Dispatcher) View() string {
	if d.current == nil {
		return ""
	}
	return d.current.View()
}

func (d *Dispatcher) Close() {
	if d.current != nil {
		d.current.Teardown()
		d.current = nil
	}
	d.item = nil
}
