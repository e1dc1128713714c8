package players

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hayasedb/mediadeck/internal/linkclass"
	"github.com/hayasedb/mediadeck/internal/models"
)

type loadedMsg struct{ id string }

type fakeController struct {
	name      string
	session   Session
	loads     []string
	forwarded []tea.Msg
	tornDown  bool
}

func (f *fakeController) Name() string     { return f.name }
func (f *fakeController) Session() Session { return f.session }
func (f *fakeController) View() string     { return f.name + " view" }
func (f *fakeController) Teardown()        { f.tornDown = true }

func (f *fakeController) Update(msg tea.Msg) tea.Cmd {
	f.forwarded = append(f.forwarded, msg)
	return nil
}

func (f *fakeController) Load(item *models.MediaItem, src linkclass.Source) tea.Cmd {
	f.session = NewSession()
	f.loads = append(f.loads, item.ID)
	id := item.ID
	return func() tea.Msg { return loadedMsg{id: id} }
}

type mounts struct {
	all []*fakeController
}

func (m *mounts) mount(name string) MountFunc {
	return func(env *Env) Controller {
		c := &fakeController{name: name}
		m.all = append(m.all, c)
		return c
	}
}

func newTestDispatcher(cb Callbacks) (*Dispatcher, *mounts) {
	m := &mounts{}
	r := NewRegistry()
	r.Register(linkclass.Direct, m.mount("native"))
	r.Register(linkclass.ScriptedEmbed, m.mount("embed"))
	r.Register(linkclass.PassiveEmbed, m.mount("passive"))
	return NewDispatcher(r, &Env{Prefs: NewPreferences()}, cb), m
}

var (
	mp4   = &models.MediaItem{ID: "mp4", Link: "https://cdn.example.com/a.mp4"}
	mp4b  = &models.MediaItem{ID: "mp4b", Link: "https://cdn.example.com/b.mp4"}
	tube  = &models.MediaItem{ID: "tube", Link: "https://youtu.be/dQw4w9WgXcQ"}
	drive = &models.MediaItem{ID: "drive", Link: "https://drive.google.com/file/d/abc/view"}
)

func TestRenderMountsControllerByKind(t *testing.T) {
	tests := []struct {
		item *models.MediaItem
		want string
	}{
		{mp4, "native"},
		{tube, "embed"},
		{drive, "passive"},
	}

	for _, tt := range tests {
		t.Run(tt.item.ID, func(t *testing.T) {
			d, _ := newTestDispatcher(Callbacks{})
			d.Render(tt.item)
			if got := d.Controller().Name(); got != tt.want {
				t.Errorf("controller = %s, want %s", got, tt.want)
			}
			if d.View() != tt.want+" view" {
				t.Errorf("view = %q", d.View())
			}
		})
	}
}

func TestRenderReusesControllerForSameKind(t *testing.T) {
	d, m := newTestDispatcher(Callbacks{})

	d.Render(mp4)
	first := d.Controller().Session()
	d.Render(mp4b)

	if len(m.all) != 1 {
		t.Fatalf("mounted %d controllers, want 1", len(m.all))
	}
	c := m.all[0]
	if c.tornDown {
		t.Error("controller torn down on same-kind switch")
	}
	if len(c.loads) != 2 || c.session == first {
		t.Errorf("loads=%v session renewed=%v", c.loads, c.session != first)
	}
}

func TestRenderSameItemIsNoop(t *testing.T) {
	d, m := newTestDispatcher(Callbacks{})

	d.Render(mp4)
	if cmd := d.Render(mp4); cmd != nil {
		t.Error("re-render returned a command")
	}
	if len(m.all[0].loads) != 1 {
		t.Errorf("loads = %v", m.all[0].loads)
	}
}

func TestRenderTearsDownOnKindChange(t *testing.T) {
	d, m := newTestDispatcher(Callbacks{})

	d.Render(mp4)
	d.Render(tube)

	if len(m.all) != 2 {
		t.Fatalf("mounted %d controllers, want 2", len(m.all))
	}
	if !m.all[0].tornDown {
		t.Error("native controller not torn down")
	}
	if d.Controller() != m.all[1] {
		t.Error("embed controller not current")
	}
}

func TestCallbacksOnlyForLiveSession(t *testing.T) {
	var ended, next, prev int
	var quality string
	d, _ := newTestDispatcher(Callbacks{
		OnEnded:   func() { ended++ },
		OnNext:    func() { next++ },
		OnPrev:    func() { prev++ },
		OnQuality: func(l string) { quality = l },
	})

	d.Render(mp4)
	stale := d.Controller().Session()
	d.Render(mp4b)
	live := d.Controller().Session()

	d.Update(EndedMsg{Session: stale})
	d.Update(NextMsg{Session: stale})
	d.Update(QualityMsg{Session: stale, Label: "480p"})
	if ended != 0 || next != 0 || quality != "" {
		t.Fatalf("stale messages dispatched: ended=%d next=%d quality=%q", ended, next, quality)
	}

	d.Update(EndedMsg{Session: live})
	d.Update(NextMsg{Session: live})
	d.Update(PrevMsg{Session: live})
	d.Update(QualityMsg{Session: live, Label: "1080p"})
	if ended != 1 || next != 1 || prev != 1 || quality != "1080p" {
		t.Errorf("ended=%d next=%d prev=%d quality=%q", ended, next, prev, quality)
	}
}

func TestRenderFromCallbackReturnsLoadCommand(t *testing.T) {
	var d *Dispatcher
	d, _ = newTestDispatcher(Callbacks{
		OnEnded: func() { d.Render(tube) },
	})

	d.Render(mp4)
	cmd := d.Update(EndedMsg{Session: d.Controller().Session()})
	if cmd == nil {
		t.Fatal("load command lost")
	}
	if msg, ok := cmd().(loadedMsg); !ok || msg.id != "tube" {
		t.Errorf("cmd produced %#v", msg)
	}
	if d.Item() != tube {
		t.Errorf("item = %v", d.Item())
	}
}

func TestOtherMessagesForwarded(t *testing.T) {
	d, m := newTestDispatcher(Callbacks{})
	d.Render(mp4)

	d.Update(tea.KeyMsg{Type: tea.KeySpace})
	if len(m.all[0].forwarded) != 1 {
		t.Errorf("forwarded = %v", m.all[0].forwarded)
	}
}

func TestCloseTearsDown(t *testing.T) {
	d, m := newTestDispatcher(Callbacks{})
	d.Render(mp4)
	d.Close()

	if !m.all[0].tornDown || d.Controller() != nil || d.Item() != nil {
		t.Error("close left controller mounted")
	}
	if cmd := d.Update(EndedMsg{}); cmd != nil {
		t.Error("closed dispatcher produced a command")
	}
}

func TestRegistryFallback(t *testing.T) {
	m := &mounts{}
	r := NewRegistry()
	r.Register(linkclass.Direct, m.mount("native"))

	c, err := r.Mount(linkclass.ScriptedEmbed, &Env{})
	if err != nil {
		t.Fatal(err)
	}
	if c.Name() != "native" {
		t.Errorf("fallback = %s, want native", c.Name())
	}

	if _, err := NewRegistry().Mount(linkclass.Direct, &Env{}); err == nil {
		t.Error("empty registry mounted a controller")
	}
}
