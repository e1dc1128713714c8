package mpv

import (
	"errors"
	"testing"
	"time"

	"github.com/hayasedb/mediadeck/internal/players"
	"github.com/hayasedb/mediadeck/internal/screen"
)

func TestFlagValue(t *testing.T) {
	tests := []struct {
		in   interface{}
		want bool
	}{
		{true, true},
		{false, false},
		{1, true},
		{0, false},
		{int64(1), true},
		{nil, false},
		{"yes", false},
	}
	for _, tt := range tests {
		if got := flagValue(tt.in); got != tt.want {
			t.Errorf("flagValue(%#v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestBufferedFraction(t *testing.T) {
	tests := []struct {
		end, duration, want float64
	}{
		{30, 120, 0.25},
		{0, 0, 0},
		{200, 100, 1},
		{-5, 100, 0},
	}
	for _, tt := range tests {
		if got := bufferedFraction(tt.end, tt.duration); got != tt.want {
			t.Errorf("bufferedFraction(%v, %v) = %v, want %v", tt.end, tt.duration, got, tt.want)
		}
	}
}

func types(events []players.MediaEvent) []players.MediaEventType {
	out := make([]players.MediaEventType, len(events))
	for i, ev := range events {
		out[i] = ev.Type
	}
	return out
}

func equalTypes(a, b []players.MediaEventType) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestTrackerLifecycle(t *testing.T) {
	var tr tracker
	tr.expect(1)

	if got := types(tr.start(1)); !equalTypes(got, []players.MediaEventType{players.MediaLoadStart}) {
		t.Errorf("start = %v", got)
	}

	// Pause changes before the file loads are remembered but not reported.
	if got := tr.property("pause", false); got != nil {
		t.Errorf("pause before load = %v", got)
	}

	got := tr.fileLoaded(120, 1080)
	want := []players.MediaEventType{players.MediaLoadedMetadata, players.MediaCanPlay, players.MediaPlaying}
	if !equalTypes(types(got), want) {
		t.Fatalf("fileLoaded = %v, want %v", types(got), want)
	}
	if got[0].Duration != 120 || got[0].Height != 1080 {
		t.Errorf("metadata = %+v", got[0])
	}

	if got := types(tr.property("paused-for-cache", true)); !equalTypes(got, []players.MediaEventType{players.MediaWaiting}) {
		t.Errorf("stall = %v", got)
	}
	if got := tr.property("paused-for-cache", true); got != nil {
		t.Errorf("repeated stall = %v", got)
	}
	if got := types(tr.property("paused-for-cache", false)); !equalTypes(got, []players.MediaEventType{players.MediaPlaying}) {
		t.Errorf("resume = %v", got)
	}

	ev := tr.property("time-pos", 30.5)
	if len(ev) != 1 || ev[0].Type != players.MediaTimeUpdate || ev[0].Time != 30.5 {
		t.Errorf("time-pos = %+v", ev)
	}

	ev = tr.property("demuxer-cache-time", 60.0)
	if len(ev) != 1 || ev[0].Buffered != 0.5 {
		t.Errorf("cache = %+v", ev)
	}

	if got := types(tr.property("pause", true)); !equalTypes(got, []players.MediaEventType{players.MediaPause}) {
		t.Errorf("pause = %v", got)
	}

	ev = tr.end(1, true, false, nil)
	if len(ev) != 1 || ev[0].Type != players.MediaEnded || ev[0].Time != 120 {
		t.Errorf("eof = %+v", ev)
	}
}

func TestTrackerLateHeightReported(t *testing.T) {
	var tr tracker
	tr.start(1)
	tr.fileLoaded(0, 0)

	ev := tr.property("height", int64(720))
	if len(ev) != 1 || ev[0].Type != players.MediaLoadedMetadata || ev[0].Height != 720 {
		t.Fatalf("height = %+v", ev)
	}
	if ev := tr.property("height", int64(720)); ev != nil {
		t.Errorf("unchanged height reported: %+v", ev)
	}
}

func TestTrackerEndReasons(t *testing.T) {
	var tr tracker
	tr.start(3)

	ev := tr.end(3, false, true, "loading failed")
	if len(ev) != 1 || ev[0].Type != players.MediaError || ev[0].Err == nil {
		t.Errorf("error end = %+v", ev)
	}
	if ev := tr.end(3, false, false, nil); ev != nil {
		t.Errorf("stop end = %+v", ev)
	}
}

func TestTrackerDropsPreviousEntry(t *testing.T) {
	var tr tracker
	tr.expect(1)
	tr.start(1)
	tr.fileLoaded(60, 720)

	// Load of entry 2 while 1 is still winding down.
	tr.expect(2)

	if ev := tr.end(1, true, false, nil); ev != nil {
		t.Errorf("end of entry 1 after reload = %+v", ev)
	}
	if ev := tr.property("time-pos", 59.9); ev != nil {
		t.Errorf("position of entry 1 after reload = %+v", ev)
	}
	if ev := tr.property("pause", true); ev != nil {
		t.Errorf("pause while waiting = %+v", ev)
	}
	if tr.current() {
		t.Error("tracker current before entry 2 started")
	}

	// A start for an entry that was replaced before it began.
	if ev := tr.start(5); ev != nil {
		t.Errorf("start of unexpected entry = %+v", ev)
	}

	if got := types(tr.start(2)); !equalTypes(got, []players.MediaEventType{players.MediaLoadStart}) {
		t.Fatalf("start of entry 2 = %v", got)
	}
	if !tr.paused {
		t.Error("pause seen while waiting was lost")
	}
	if ev := tr.end(1, true, false, nil); ev != nil {
		t.Errorf("late end of entry 1 = %+v", ev)
	}

	tr.fileLoaded(30, 0)
	ev := tr.end(2, true, false, nil)
	if len(ev) != 1 || ev[0].Type != players.MediaEnded {
		t.Errorf("end of entry 2 = %+v", ev)
	}
}

func TestTrackerUnknownEntryAcceptsNextStart(t *testing.T) {
	var tr tracker
	tr.expect(0)

	if got := types(tr.start(9)); !equalTypes(got, []players.MediaEventType{players.MediaLoadStart}) {
		t.Fatalf("start = %v", got)
	}
	if ev := tr.end(9, true, false, nil); len(ev) != 1 {
		t.Errorf("end = %+v", ev)
	}
}

func TestRelayRunsInOrder(t *testing.T) {
	r := newRelay(4)
	go r.run()
	defer r.stop()

	got := make(chan int, 3)
	for i := 1; i <= 3; i++ {
		i := i
		if !r.post(func() { got <- i }) {
			t.Fatalf("post %d refused", i)
		}
	}

	for want := 1; want <= 3; want++ {
		select {
		case n := <-got:
			if n != want {
				t.Fatalf("ran %d, want %d", n, want)
			}
		case <-time.After(time.Second):
			t.Fatalf("callback %d never ran", want)
		}
	}
}

// A consumer stuck forever, like a Send to a program that stopped reading,
// must not keep the event loop from returning once the window closes.
func TestRelayStopReleasesBlockedPoster(t *testing.T) {
	r := newRelay(1)
	go r.run()

	stuck := make(chan struct{})
	defer close(stuck)
	running := make(chan struct{})
	r.post(func() {
		close(running)
		<-stuck
	})
	<-running

	r.post(func() {}) // fills the queue

	returned := make(chan bool)
	go func() {
		returned <- r.post(func() {})
	}()

	select {
	case <-returned:
		t.Fatal("post returned while the queue was full")
	case <-time.After(50 * time.Millisecond):
	}

	r.stop()

	select {
	case ok := <-returned:
		if ok {
			t.Error("post accepted after stop")
		}
	case <-time.After(time.Second):
		t.Fatal("post still blocked after stop")
	}

	if r.post(func() {}) {
		t.Error("post accepted on a stopped relay")
	}
	if !r.stopped() {
		t.Error("relay not reported stopped")
	}
}

func TestErrorCode(t *testing.T) {
	if errorCode(false) != ErrorNotFound {
		t.Error("unresolved video should report not found")
	}
	if errorCode(true) != ErrorPlayback {
		t.Error("loaded video should report playback error")
	}
}

func TestExternalAPILoadedOnceResolverFound(t *testing.T) {
	api := NewExternalAPI(DefaultOptions(), nil)
	available := false
	calls := 0
	api.lookPath = func(name string) (string, error) {
		calls++
		if available && name == "yt-dlp" {
			return "/usr/bin/yt-dlp", nil
		}
		return "", errors.New("not found")
	}

	if api.Loaded() {
		t.Fatal("loaded without a resolver")
	}

	available = true
	if !api.Loaded() {
		t.Fatal("resolver not picked up")
	}

	before := calls
	if !api.Loaded() || calls != before {
		t.Error("resolver looked up again after it was found")
	}
	if api.Resolver() != "/usr/bin/yt-dlp" {
		t.Errorf("resolver = %q", api.Resolver())
	}
}

type target string

func (t target) TargetID() string { return string(t) }

func TestScreenUnboundTargetUnsupported(t *testing.T) {
	s := NewScreen()

	if err := s.RequestFullscreen(target("#player")); !errors.Is(err, screen.ErrUnsupported) {
		t.Errorf("request = %v, want ErrUnsupported", err)
	}
	if err := s.ExitFullscreen(); !errors.Is(err, screen.ErrUnsupported) {
		t.Errorf("exit = %v, want ErrUnsupported", err)
	}
	if s.FullscreenElement() != nil {
		t.Error("fullscreen element without a request")
	}
}

func TestScreenUnbindActiveNotifies(t *testing.T) {
	s := NewScreen()
	notified := 0
	cancel := s.OnChange(func() { notified++ })

	s.Bind(target("#player"), nil)
	s.active = "#player"
	if el := s.FullscreenElement(); el == nil || el.TargetID() != "#player" {
		t.Fatalf("element = %v", el)
	}

	s.Unbind(target("#player"))
	if notified != 1 || s.FullscreenElement() != nil {
		t.Errorf("notified=%d element=%v", notified, s.FullscreenElement())
	}

	cancel()
	s.Bind(target("#player"), nil)
	s.active = "#player"
	s.Unbind(target("#player"))
	if notified != 1 {
		t.Error("cancelled listener still notified")
	}
}

var _ screen.API = (*Screen)(nil)
var _ players.MediaElement = (*Media)(nil)
var _ players.ExternalAPI = (*ExternalAPI)(nil)
