package passive

import (
	"context"
	"errors"
	"testing"

	"github.com/hayasedb/mediadeck/internal/dom"
	"github.com/hayasedb/mediadeck/internal/linkclass"
	"github.com/hayasedb/mediadeck/internal/models"
	"github.com/hayasedb/mediadeck/internal/players"
	"github.com/hayasedb/mediadeck/internal/screen"
)

type fakeOpener struct {
	urls []string
	err  error
}

func (o *fakeOpener) Open(ctx context.Context, url string) error {
	o.urls = append(o.urls, url)
	return o.err
}

type fakeAPI struct {
	element screen.Target
}

func (a *fakeAPI) Name() string                    { return "fake" }
func (a *fakeAPI) FullscreenElement() screen.Target { return a.element }
func (a *fakeAPI) RequestFullscreen(t screen.Target) error {
	a.element = t
	return nil
}
func (a *fakeAPI) ExitFullscreen() error {
	a.element = nil
	return nil
}
func (a *fakeAPI) OnChange(fn func()) func() { return func() {} }

func newTestController(opener players.FrameOpener) *Controller {
	return New(&players.Env{
		Prefs:     players.NewPreferences(),
		Container: dom.NewContainer("player"),
		Frames:    opener,
	})
}

var doc = &models.MediaItem{
	ID:    "talk",
	Title: "Recorded talk",
	Link:  "https://drive.google.com/file/d/1AbCdEfGhIjK/view?usp=sharing",
}

func TestLoadRendersGuardedFrame(t *testing.T) {
	opener := &fakeOpener{}
	c := newTestController(opener)

	cmd := c.Load(doc, linkclass.Resolve(doc.Link))

	want := "https://drive.google.com/file/d/1AbCdEfGhIjK/preview"
	if c.EmbedURL() != want {
		t.Errorf("embed url = %q, want %q", c.EmbedURL(), want)
	}
	if c.Frame() == nil || c.Frame().Src() != want {
		t.Fatal("frame not rendered with embed url")
	}
	if v, _ := c.Frame().Attr("allowfullscreen"); v != "true" {
		t.Errorf("allowfullscreen = %q", v)
	}
	if c.State() != StateLoading {
		t.Errorf("state = %s, want loading", c.State())
	}

	c.Update(cmd())
	if c.State() != StateLoaded {
		t.Errorf("state = %s, want loaded", c.State())
	}
	if len(opener.urls) != 1 || opener.urls[0] != want {
		t.Errorf("opened %v", opener.urls)
	}
}

func TestLoadWithoutOpenerCompletesImmediately(t *testing.T) {
	c := newTestController(nil)
	cmd := c.Load(doc, linkclass.Resolve(doc.Link))
	c.Update(cmd())

	if c.State() != StateLoaded {
		t.Errorf("state = %s, want loaded", c.State())
	}
}

func TestOpenFailureCanBeRetried(t *testing.T) {
	opener := &fakeOpener{err: errors.New("no browser")}
	c := newTestController(opener)

	c.Update(c.Load(doc, linkclass.Resolve(doc.Link))())
	if c.State() != StateDetached {
		t.Fatalf("state = %s, want detached", c.State())
	}

	opener.err = nil
	handled, cmd := c.HandleKey("o", false)
	if !handled {
		t.Fatal("o not handled")
	}
	c.Update(cmd())
	if c.State() != StateLoaded {
		t.Errorf("state = %s, want loaded", c.State())
	}
}

func TestStaleLoadResultIgnored(t *testing.T) {
	c := newTestController(&fakeOpener{})
	first := c.Load(doc, linkclass.Resolve(doc.Link))

	other := &models.MediaItem{ID: "other", Title: "Other", Link: "https://drive.google.com/open?id=ZZZ"}
	c.Load(other, linkclass.Resolve(other.Link))

	c.Update(first())
	if c.State() != StateLoading {
		t.Errorf("state = %s, stale result applied", c.State())
	}
}

func TestNavigationKeys(t *testing.T) {
	c := newTestController(nil)
	c.Load(doc, linkclass.Resolve(doc.Link))

	_, cmd := c.HandleKey("n", false)
	if msg, ok := cmd().(players.NextMsg); !ok || msg.Session != c.Session() {
		t.Errorf("n produced %#v", msg)
	}
	_, cmd = c.HandleKey("p", false)
	if msg, ok := cmd().(players.PrevMsg); !ok || msg.Session != c.Session() {
		t.Errorf("p produced %#v", msg)
	}

	if handled, _ := c.HandleKey("n", true); handled {
		t.Error("n handled while typing")
	}
}

func TestFullscreenTargetsContainer(t *testing.T) {
	api := &fakeAPI{}
	c := newTestController(nil)
	c.env.Screen = screen.NewAdapter(nil, api)
	c.Load(doc, linkclass.Resolve(doc.Link))

	c.HandleKey("f", false)
	if api.element == nil || api.element.TargetID() != "#player" {
		t.Fatalf("fullscreen element = %v", api.element)
	}

	c.Teardown()
	if api.element != nil {
		t.Error("teardown left fullscreen active")
	}
	if len(c.env.Container.Frames()) != 0 {
		t.Error("teardown left frames behind")
	}
}
