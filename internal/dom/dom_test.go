package dom

import (
	"strings"
	"testing"
)

func TestAppendFrameAndObserve(t *testing.T) {
	c := NewContainer("player")

	calls := 0
	disconnect := c.Observe(func() { calls++ })

	f := c.AppendFrame("https://www.youtube.com/embed/abc", map[string]string{"title": "surface"})
	if calls != 1 {
		t.Fatalf("observer calls = %d, want 1", calls)
	}
	if f.Src() != "https://www.youtube.com/embed/abc" {
		t.Errorf("src = %q", f.Src())
	}
	if title, _ := f.Attr("title"); title != "surface" {
		t.Errorf("title = %q", title)
	}

	f.SetAttr("title", "surface")
	if calls != 1 {
		t.Error("setting an unchanged value must not notify")
	}

	disconnect()
	c.AppendFrame("x", nil)
	if calls != 1 {
		t.Error("disconnected observer was called")
	}
	if got := len(c.Frames()); got != 2 {
		t.Errorf("frames = %d, want 2", got)
	}
	if !strings.Contains(c.HTML(), `id="player"`) {
		t.Errorf("HTML missing container: %s", c.HTML())
	}
}

func TestResetEmptiesContainer(t *testing.T) {
	c := NewContainer("player")
	c.AppendFrame("x", nil)

	notified := false
	c.Observe(func() { notified = true })
	c.Reset()

	if len(c.Frames()) != 0 {
		t.Error("reset should drop frames")
	}
	if !notified {
		t.Error("reset should notify observers")
	}
}

func TestGuardFramesPatchesExistingAndNewFrames(t *testing.T) {
	c := NewContainer("player")
	existing := c.AppendFrame("a", map[string]string{"allow": "autoplay; camera"})

	stop := GuardFrames(c, DefaultFramePolicy)

	if v, _ := existing.Attr("allowfullscreen"); v != "true" {
		t.Errorf("allowfullscreen = %q", v)
	}
	allow, _ := existing.Attr("allow")
	for _, token := range []string{"autoplay", "camera", "fullscreen", "encrypted-media", "picture-in-picture"} {
		if !strings.Contains(allow, token) {
			t.Errorf("allow %q missing %q", allow, token)
		}
	}
	if strings.Count(allow, "autoplay") != 1 {
		t.Errorf("allow %q duplicates autoplay", allow)
	}

	added := c.AppendFrame("b", nil)
	if v, _ := added.Attr("sandbox"); !strings.Contains(v, "allow-scripts") {
		t.Errorf("new frame sandbox = %q", v)
	}

	added.RemoveAttr("allowfullscreen")
	if v, ok := added.Attr("allowfullscreen"); !ok || v != "true" {
		t.Error("guard should restore a removed attribute")
	}

	stop()
	late := c.AppendFrame("c", nil)
	if _, ok := late.Attr("allowfullscreen"); ok {
		t.Error("stopped guard must not patch new frames")
	}
}

func TestMergeTokensIdempotent(t *testing.T) {
	once := mergeTokens("fullscreen;autoplay", []string{"autoplay", "encrypted-media"}, ";", "; ")
	twice := mergeTokens(once, []string{"autoplay", "encrypted-media"}, ";", "; ")
	if once != twice {
		t.Errorf("%q != %q", once, twice)
	}
	if once != "fullscreen; autoplay; encrypted-media" {
		t.Errorf("got %q", once)
	}
}
