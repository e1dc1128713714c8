package mpv

import (
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gen2brain/go-mpv"

	"github.com/hayasedb/mediadeck/internal/players"
)

var errClosed = errors.New("media element closed")

// Media is a players.MediaElement playing direct sources in an mpv window.
type Media struct {
	opts Options
	w    *window

	mu         sync.Mutex
	handler    func(players.MediaEvent)
	tracker    tracker
	loads      int
	fullscreen bool
	closed     bool

	// OnFullscreenChange is called from the relay goroutine.
	OnFullscreenChange func()
}

func NewMedia(opts Options) (*Media, error) {
	opts.Ytdl = false
	media := &Media{opts: opts}

	w, err := openWindow(opts)
	if err != nil {
		return nil, err
	}
	media.w = w
	w.start(media.handle)
	return media, nil
}

func (m *Media) TargetID() string {
	return "mpv-media"
}

func (m *Media) SetEventHandler(fn func(players.MediaEvent)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handler = fn
}

// Load counts every call, failed ones included, and stamps later events with
// that count. The lock is held across loadfile so the event loop cannot see
// the new entry before the tracker expects it.
func (m *Media) Load(src string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.loads++
	if m.closed {
		return errClosed
	}

	log.Debug("Loading into mpv", "src", src, "load", m.loads)
	if err := m.w.command("loadfile", src, "replace"); err != nil {
		m.tracker.expect(noEntry)
		return err
	}

	// replace leaves the new file as the only playlist entry.
	m.tracker.expect(int64(m.w.integer("playlist/0/id")))
	return nil
}

func (m *Media) Play() error {
	if m.isClosed() {
		return errClosed
	}
	return m.w.setFlag("pause", false)
}

func (m *Media) Pause() error {
	if m.isClosed() {
		return errClosed
	}
	return m.w.setFlag("pause", true)
}

func (m *Media) Seek(seconds float64) error {
	if m.isClosed() {
		return errClosed
	}
	return m.w.command("seek", strconv.FormatFloat(seconds, 'f', 3, 64), "absolute")
}

// SetVolume takes a value in [0,1]; mpv works in percent.
func (m *Media) SetVolume(volume float64) error {
	if m.isClosed() {
		return errClosed
	}
	return m.w.setDouble("volume", volume*100)
}

func (m *Media) SetMuted(muted bool) error {
	if m.isClosed() {
		return errClosed
	}
	return m.w.setFlag("mute", muted)
}

func (m *Media) SetRate(rate float64) error {
	if m.isClosed() {
		return errClosed
	}
	return m.w.setDouble("speed", rate)
}

func (m *Media) EnterFullscreen() error {
	if m.isClosed() {
		return errClosed
	}
	return m.w.setFlag("fullscreen", true)
}

func (m *Media) ExitFullscreen() error {
	if m.isClosed() {
		return errClosed
	}
	return m.w.setFlag("fullscreen", false)
}

func (m *Media) IsFullscreen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fullscreen
}

func (m *Media) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	m.mu.Unlock()

	m.w.close()
	return nil
}

func (m *Media) isClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

func (m *Media) handle(event *mpv.Event) {
	var events []players.MediaEvent
	fullscreenChanged := false

	m.mu.Lock()
	switch event.EventID {
	case mpv.EventStart:
		events = m.tracker.start(event.StartFile().EntryID)

	case mpv.EventFileLoaded:
		if m.tracker.current() {
			duration, _ := m.w.double("duration")
			height := m.w.integer("height")
			events = m.tracker.fileLoaded(duration, height)
		}

	case mpv.EventPropertyChange:
		prop := event.Property()
		if prop.Name == "fullscreen" {
			fs := flagValue(prop.Data)
			fullscreenChanged = fs != m.fullscreen
			m.fullscreen = fs
		} else {
			events = m.tracker.property(prop.Name, prop.Data)
		}

	case mpv.EventEnd:
		ef := event.EndFile()
		log.Debug("Playback ended", "entry_id", ef.EntryID, "reason", ef.Reason)
		events = m.tracker.end(ef.EntryID, ef.Reason == mpv.EndFileEOF, ef.Reason == mpv.EndFileError, ef.Error)
	}
	for i := range events {
		events[i].Load = m.loads
	}
	handler := m.handler
	onFullscreen := m.OnFullscreenChange
	m.mu.Unlock()

	if handler != nil && len(events) > 0 {
		m.w.post(func() {
			for _, ev := range events {
				handler(ev)
			}
		})
	}
	if fullscreenChanged && onFullscreen != nil {
		m.w.post(onFullscreen)
	}
}

// noEntry is never a playlist entry id, so nothing matches it.
const noEntry = -1

// tracker turns mpv's property stream into media element events for one
// playlist entry at a time.
type tracker struct {
	// want is the entry the last Load queued, or 0 when mpv did not say.
	want  int64
	entry int64
	// waiting is set from Load until the wanted entry starts. Everything
	// seen meanwhile belongs to the previous file.
	waiting bool

	loaded   bool
	paused   bool
	stalled  bool
	pos      float64
	duration float64
	height   int
}

func (t *tracker) expect(entry int64) {
	*t = tracker{paused: t.paused, want: entry, waiting: true}
}

func (t *tracker) start(entry int64) []players.MediaEvent {
	if t.want != 0 && entry != t.want {
		return nil
	}
	*t = tracker{paused: t.paused, want: t.want, entry: entry}
	return []players.MediaEvent{{Type: players.MediaLoadStart}}
}

// current reports whether events now describe the last loaded entry.
func (t *tracker) current() bool {
	return !t.waiting
}

func (t *tracker) fileLoaded(duration float64, height int) []players.MediaEvent {
	t.loaded = true
	if duration > 0 {
		t.duration = duration
	}
	if height > 0 {
		t.height = height
	}

	events := []players.MediaEvent{
		{Type: players.MediaLoadedMetadata, Duration: t.duration, Height: t.height},
		{Type: players.MediaCanPlay},
	}
	if !t.paused {
		events = append(events, players.MediaEvent{Type: players.MediaPlaying})
	}
	return events
}

func (t *tracker) property(name string, data interface{}) []players.MediaEvent {
	if t.waiting {
		if name == "pause" {
			t.paused = flagValue(data)
		}
		return nil
	}

	switch name {
	case "pause":
		t.paused = flagValue(data)
		if !t.loaded {
			return nil
		}
		if t.paused {
			return []players.MediaEvent{{Type: players.MediaPause}}
		}
		return []players.MediaEvent{{Type: players.MediaPlaying}}

	case "paused-for-cache":
		stalled := flagValue(data)
		if stalled == t.stalled || !t.loaded {
			t.stalled = stalled
			return nil
		}
		t.stalled = stalled
		if stalled {
			return []players.MediaEvent{{Type: players.MediaWaiting}}
		}
		if !t.paused {
			return []players.MediaEvent{{Type: players.MediaPlaying}}
		}

	case "time-pos":
		if pos, ok := floatValue(data); ok {
			t.pos = pos
			return []players.MediaEvent{{Type: players.MediaTimeUpdate, Time: pos}}
		}

	case "duration":
		if d, ok := floatValue(data); ok && d > 0 && d != t.duration {
			t.duration = d
			return []players.MediaEvent{{Type: players.MediaLoadedMetadata, Duration: d, Height: t.height}}
		}

	case "height":
		if h := intValue(data); h > 0 && h != t.height {
			t.height = h
			return []players.MediaEvent{{Type: players.MediaLoadedMetadata, Duration: t.duration, Height: h}}
		}

	case "demuxer-cache-time":
		if end, ok := floatValue(data); ok {
			return []players.MediaEvent{{Type: players.MediaProgress, Buffered: bufferedFraction(end, t.duration)}}
		}
	}

	return nil
}

// end maps an end-of-file event. Stops, quits and ends of other entries
// report nothing.
func (t *tracker) end(entry int64, eof, failed bool, cause interface{}) []players.MediaEvent {
	if t.waiting || entry != t.entry {
		return nil
	}

	switch {
	case eof:
		return []players.MediaEvent{{Type: players.MediaEnded, Time: t.duration}}
	case failed:
		return []players.MediaEvent{{Type: players.MediaError, Err: fmt.Errorf("playback error: %v", cause)}}
	default:
		return nil
	}
}
