package mpv

import (
	"os/exec"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gen2brain/go-mpv"

	"github.com/hayasedb/mediadeck/internal/dom"
	"github.com/hayasedb/mediadeck/internal/linkclass"
	"github.com/hayasedb/mediadeck/internal/players"
)

// Error codes reported through ExternalEvents.OnError.
const (
	ErrorPlayback = 5
	ErrorNotFound = 100
)

// resolvers are the page-URL helpers mpv's ytdl hook can drive.
var resolvers = []string{"yt-dlp", "youtube-dl"}

// ExternalAPI plays scripted-embed ids through mpv's ytdl hook. It counts as
// loaded once a resolver binary is on PATH.
type ExternalAPI struct {
	opts   Options
	screen *Screen

	mu       sync.Mutex
	lookPath func(string) (string, error)
	resolver string
}

func NewExternalAPI(opts Options, screen *Screen) *ExternalAPI {
	opts.Ytdl = true
	return &ExternalAPI{
		opts:     opts,
		screen:   screen,
		lookPath: exec.LookPath,
	}
}

func (a *ExternalAPI) Loaded() bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.resolver != "" {
		return true
	}
	for _, name := range resolvers {
		if path, err := a.lookPath(name); err == nil {
			log.Debug("Found stream resolver", "path", path)
			a.resolver = path
			return true
		}
	}
	return false
}

// Resolver is the path of the helper found by Loaded, or "".
func (a *ExternalAPI) Resolver() string {
	if !a.Loaded() {
		return ""
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.resolver
}

func (a *ExternalAPI) NewPlayer(container *dom.Container, id string, events players.ExternalEvents) (players.ExternalPlayer, error) {
	p := &externalPlayer{
		events:    events,
		container: container,
		requested: id,
	}

	a.mu.Lock()
	opts := a.opts
	opts.ytdlPath = a.resolver
	a.mu.Unlock()

	w, err := openWindow(opts)
	if err != nil {
		return nil, err
	}
	p.w = w
	w.start(p.handle)

	if container != nil {
		p.frame = container.AppendFrame(linkclass.EmbedURL(id), map[string]string{
			"data-player": "mpv",
		})
		if a.screen != nil {
			a.screen.Bind(container, w)
			a.screen.Bind(p.frame, w)
			p.unbind = func() {
				a.screen.Unbind(container)
				a.screen.Unbind(p.frame)
			}
		}
	}

	if err := p.LoadVideoByID(id); err != nil {
		p.Destroy()
		return nil, err
	}
	return p, nil
}

type externalPlayer struct {
	w         *window
	events    players.ExternalEvents
	container *dom.Container
	frame     *dom.Frame
	unbind    func()

	mu        sync.Mutex
	requested string
	height    int
	loaded    bool
	destroyed bool
}

func (p *externalPlayer) LoadVideoByID(id string) error {
	p.mu.Lock()
	p.requested = id
	p.loaded = false
	p.mu.Unlock()

	if p.frame != nil {
		p.frame.SetAttr("src", linkclass.EmbedURL(id))
	}
	return p.w.command("loadfile", linkclass.WatchURL(id), "replace")
}

func (p *externalPlayer) PlaybackQuality() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return linkclass.QualityToken(p.height)
}

func (p *externalPlayer) VideoURL() string {
	return p.w.str("path")
}

// VideoData reads what mpv is actually playing, which may differ from the
// requested id after a playlist or redirect.
func (p *externalPlayer) VideoData() players.VideoData {
	return players.VideoData{
		ID:     linkclass.ExtractEmbedID(p.w.str("path")),
		Title:  p.w.str("media-title"),
		Author: p.w.str("metadata/by-key/uploader"),
	}
}

func (p *externalPlayer) Destroy() error {
	p.mu.Lock()
	if p.destroyed {
		p.mu.Unlock()
		return nil
	}
	p.destroyed = true
	p.mu.Unlock()

	if p.unbind != nil {
		p.unbind()
	}
	p.w.close()
	return nil
}

func (p *externalPlayer) handle(event *mpv.Event) {
	p.mu.Lock()
	if p.destroyed {
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	switch event.EventID {
	case mpv.EventStart:
		p.emitState(players.ExternalBuffering)

	case mpv.EventFileLoaded:
		p.mu.Lock()
		first := !p.loaded
		p.loaded = true
		p.mu.Unlock()

		if first && p.events.OnReady != nil {
			p.w.post(p.events.OnReady)
		}
		if !p.w.flag("pause") {
			p.emitState(players.ExternalPlaying)
		}

	case mpv.EventPropertyChange:
		prop := event.Property()
		switch prop.Name {
		case "pause":
			if !p.isLoaded() {
				return
			}
			if flagValue(prop.Data) {
				p.emitState(players.ExternalPaused)
			} else {
				p.emitState(players.ExternalPlaying)
			}
		case "paused-for-cache":
			if !p.isLoaded() {
				return
			}
			if flagValue(prop.Data) {
				p.emitState(players.ExternalBuffering)
			} else if !p.w.flag("pause") {
				p.emitState(players.ExternalPlaying)
			}
		case "height":
			h := intValue(prop.Data)
			p.mu.Lock()
			changed := h > 0 && h != p.height
			p.height = h
			p.mu.Unlock()
			if cb := p.events.OnPlaybackQualityChange; changed && cb != nil {
				quality := linkclass.QualityToken(h)
				p.w.post(func() { cb(quality) })
			}
		}

	case mpv.EventEnd:
		ef := event.EndFile()
		switch {
		case ef.Reason == mpv.EndFileEOF:
			p.emitState(players.ExternalEnded)
		case ef.Reason == mpv.EndFileError:
			log.Warn("Embedded playback failed", "error", ef.Error)
			if cb := p.events.OnError; cb != nil {
				code := errorCode(p.isLoaded())
				p.w.post(func() { cb(code) })
			}
		}
	}
}

func (p *externalPlayer) isLoaded() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loaded
}

// emitState and the other callbacks run on the relay goroutine.
func (p *externalPlayer) emitState(s players.ExternalState) {
	if cb := p.events.OnStateChange; cb != nil {
		p.w.post(func() { cb(s) })
	}
}

// errorCode distinguishes a video that never resolved from one that failed
// mid-playback.
func errorCode(loaded bool) int {
	if loaded {
		return ErrorPlayback
	}
	return ErrorNotFound
}
