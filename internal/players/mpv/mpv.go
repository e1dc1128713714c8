// Package mpv backs the player platform contracts with libmpv windows.
package mpv

import (
	"fmt"
	"runtime"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gen2brain/go-mpv"
)

// Options configures every window this package opens.
type Options struct {
	Hwdec      string
	YtdlFormat string
	UserAgent  string
	Title      string
	// Ytdl enables the youtube-dl hook so page URLs can be played.
	Ytdl bool

	ytdlPath string
}

func DefaultOptions() Options {
	return Options{
		Hwdec:      "auto",
		YtdlFormat: "bestvideo[height<=?1080]+bestaudio/best",
		UserAgent:  "Mozilla/5.0 (X11; Linux x86_64; rv:109.0) Gecko/20100101 Firefox/115.0",
	}
}

// Properties reported to the event loop as EventPropertyChange.
var (
	observedFlags   = []string{"pause", "paused-for-cache", "fullscreen"}
	observedDoubles = []string{"time-pos", "duration", "demuxer-cache-time"}
	observedInts    = []string{"height"}
)

// window owns one mpv handle and the goroutine draining its events.
// Callbacks leave the loop through the relay, so a slow consumer never holds
// the handle open.
type window struct {
	m     *mpv.Mpv
	done  chan struct{}
	relay *relay

	closeOnce sync.Once
}

// openWindow creates and initializes the handle. Events are not read until
// start is called, so the caller can finish wiring first.
func openWindow(opts Options) (*window, error) {
	m := mpv.New()
	if m == nil {
		return nil, fmt.Errorf("failed to create mpv instance")
	}

	configure(m, opts)

	if err := m.Initialize(); err != nil {
		m.TerminateDestroy()
		return nil, fmt.Errorf("failed to initialize MPV: %w", err)
	}

	for _, name := range observedFlags {
		if err := m.ObserveProperty(0, name, mpv.FormatFlag); err != nil {
			log.Debug("Failed to observe property", "property", name, "error", err)
		}
	}
	for _, name := range observedDoubles {
		if err := m.ObserveProperty(0, name, mpv.FormatDouble); err != nil {
			log.Debug("Failed to observe property", "property", name, "error", err)
		}
	}
	for _, name := range observedInts {
		if err := m.ObserveProperty(0, name, mpv.FormatInt64); err != nil {
			log.Debug("Failed to observe property", "property", name, "error", err)
		}
	}

	return &window{m: m, done: make(chan struct{}), relay: newRelay(relaySize)}, nil
}

func (w *window) start(handle func(*mpv.Event)) {
	go w.relay.run()
	go w.loop(handle)
}

func configure(m *mpv.Mpv, opts Options) {
	if opts.UserAgent != "" {
		if err := m.SetOptionString("user-agent", opts.UserAgent); err != nil {
			log.Debug("Failed to set user-agent", "error", err)
		}
	}

	if err := m.SetOptionString("input-default-bindings", "yes"); err != nil {
		log.Debug("Failed to set input-default-bindings", "error", err)
	}

	if err := m.SetOptionString("input-vo-keyboard", "yes"); err != nil {
		log.Debug("Failed to set input-vo-keyboard", "error", err)
	}

	if err := m.SetOption("osc", mpv.FormatFlag, opts.Ytdl); err != nil {
		log.Debug("Failed to set OSC", "error", err)
	}

	if err := m.SetOption("force-window", mpv.FormatFlag, true); err != nil {
		log.Debug("Failed to force window", "error", err)
	}

	if err := m.SetOption("idle", mpv.FormatFlag, true); err != nil {
		log.Debug("Failed to enable idle", "error", err)
	}

	if opts.Title != "" {
		if err := m.SetOptionString("title", opts.Title); err != nil {
			log.Debug("Failed to set window title", "error", err)
		}
	}

	if err := m.SetOptionString("hwdec", opts.Hwdec); err != nil {
		log.Debug("Failed to set hardware decoding", "error", err)
	}

	if err := m.SetOptionString("vo", "gpu"); err != nil {
		log.Debug("Failed to set video output", "error", err)
	}

	switch runtime.GOOS {
	case "linux":
		if err := m.SetOptionString("ao", "pulse"); err != nil {
			log.Debug("Failed to set audio output to pulse", "error", err)
		}
	case "darwin":
		if err := m.SetOptionString("ao", "coreaudio"); err != nil {
			log.Debug("Failed to set audio output to coreaudio", "error", err)
		}
	}

	if opts.Ytdl {
		if err := m.SetOption("ytdl", mpv.FormatFlag, true); err != nil {
			log.Debug("Failed to enable ytdl", "error", err)
		}
		if opts.ytdlPath != "" {
			if err := m.SetOptionString("script-opts", "ytdl_hook-ytdl_path="+opts.ytdlPath); err != nil {
				log.Debug("Failed to set ytdl path", "error", err)
			}
		}
		if opts.YtdlFormat != "" {
			if err := m.SetOptionString("ytdl-format", opts.YtdlFormat); err != nil {
				log.Debug("Failed to set ytdl format", "error", err)
			}
		}
	} else if err := m.SetOption("ytdl", mpv.FormatFlag, false); err != nil {
		log.Debug("Failed to disable ytdl", "error", err)
	}

	if err := m.SetOption("cache", mpv.FormatFlag, true); err != nil {
		log.Debug("Failed to enable cache", "error", err)
	}

	if err := m.SetOption("network-timeout", mpv.FormatInt64, int64(30)); err != nil {
		log.Debug("Failed to set network timeout", "error", err)
	}

	if err := m.SetOption("terminal", mpv.FormatFlag, false); err != nil {
		log.Debug("Failed to disable terminal", "error", err)
	}

	if err := m.RequestLogMessages("warn"); err != nil {
		log.Debug("Failed to request log messages", "error", err)
	}
}

func (w *window) loop(handle func(*mpv.Event)) {
	defer close(w.done)

	for {
		event := w.m.WaitEvent(1000)

		switch event.EventID {
		case mpv.EventNone:
			if w.relay.stopped() {
				return
			}
			continue

		case mpv.EventShutdown:
			log.Debug("MPV shutdown")
			return

		case mpv.EventLogMsg:
			msg := event.LogMessage()
			log.Debug("MPV log", "level", msg.Level, "text", strings.TrimSpace(msg.Text))
			continue
		}

		if event.Error != nil {
			log.Debug("Event error", "event_id", event.EventID, "error", event.Error)
		}

		handle(event)
	}
}

// post hands fn to the relay goroutine. It is a no-op once the window is
// closing.
func (w *window) post(fn func()) {
	w.relay.post(fn)
}

func (w *window) command(args ...string) error {
	if err := w.m.Command(args); err != nil {
		return fmt.Errorf("mpv %s: %w", args[0], err)
	}
	return nil
}

func (w *window) setFlag(name string, v bool) error {
	if err := w.m.SetProperty(name, mpv.FormatFlag, v); err != nil {
		return fmt.Errorf("set %s: %w", name, err)
	}
	return nil
}

func (w *window) setDouble(name string, v float64) error {
	if err := w.m.SetProperty(name, mpv.FormatDouble, v); err != nil {
		return fmt.Errorf("set %s: %w", name, err)
	}
	return nil
}

func (w *window) double(name string) (float64, bool) {
	v, err := w.m.GetProperty(name, mpv.FormatDouble)
	if err != nil {
		return 0, false
	}
	return floatValue(v)
}

func (w *window) flag(name string) bool {
	v, err := w.m.GetProperty(name, mpv.FormatFlag)
	if err != nil {
		return false
	}
	return flagValue(v)
}

func (w *window) str(name string) string {
	v, err := w.m.GetProperty(name, mpv.FormatString)
	if err != nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

func (w *window) integer(name string) int {
	v, err := w.m.GetProperty(name, mpv.FormatInt64)
	if err != nil {
		return 0
	}
	return intValue(v)
}

// close quits the player and destroys the handle once the event loop has
// returned. The loop only blocks on the relay, which is stopped first, so the
// wait is bounded by one WaitEvent timeout.
func (w *window) close() {
	w.closeOnce.Do(func() {
		w.relay.stop()

		if err := w.m.Command([]string{"quit"}); err != nil {
			log.Debug("Failed to quit MPV gracefully", "error", err)
		}

		<-w.done
		w.m.TerminateDestroy()
	})
}

// flagValue accepts both encodings libmpv bindings use for flags.
func flagValue(v interface{}) bool {
	switch b := v.(type) {
	case bool:
		return b
	case int:
		return b != 0
	case int64:
		return b != 0
	default:
		return false
	}
}

func intValue(v interface{}) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case int:
		return n
	case float64:
		return int(n)
	default:
		return 0
	}
}

func floatValue(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

// bufferedFraction converts the end of mpv's demuxer cache into a fraction of
// the item.
func bufferedFraction(cacheEnd, duration float64) float64 {
	if duration <= 0 {
		return 0
	}
	f := cacheEnd / duration
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
