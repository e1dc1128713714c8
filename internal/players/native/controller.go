package native

import (
	"math"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/hayasedb/mediadeck/internal/linkclass"
	"github.com/hayasedb/mediadeck/internal/models"
	"github.com/hayasedb/mediadeck/internal/players"
)

const (
	SkipSeconds  = 10.0
	VolumeStep   = 0.1
	HideControls = 3 * time.Second
)

type mediaEventMsg struct {
	session players.Session
	event   players.MediaEvent
}

type hideControlsMsg struct {
	session players.Session
	gen     int
}

type fullscreenChangedMsg struct {
	session players.Session
}

type barLayout struct {
	x, y, width int
}

// Controller drives a native media element with a full set of custom
// transport controls.
type Controller struct {
	env   *players.Env
	media players.MediaElement
	// loads counts Load calls on media. Events stamped with another count
	// describe an earlier source.
	loads int

	session players.Session
	// live mirrors session for the media event goroutine.
	live  atomic.Value
	alive bool

	item   *models.MediaItem
	source string
	state  State

	elapsed  float64
	duration float64
	buffered float64
	quality  string

	fullscreen bool
	hovering   bool
	hoverTime  float64

	controlsVisible bool
	hideGen         int

	width int
	bar   barLayout

	unsubscribeScreen func()
}

func Mount(env *players.Env) players.Controller {
	return New(env)
}

func New(env *players.Env) *Controller {
	c := &Controller{
		env:   env,
		state: StateIdle,
		width: 80,
	}
	c.live.Store(players.Session(""))
	return c
}

func (c *Controller) Name() string {
	return "native"
}

func (c *Controller) Session() players.Session {
	return c.session
}

func (c *Controller) State() State                { return c.state }
func (c *Controller) Elapsed() float64            { return c.elapsed }
func (c *Controller) Duration() float64           { return c.duration }
func (c *Controller) Buffered() float64           { return c.buffered }
func (c *Controller) Quality() string             { return c.quality }
func (c *Controller) Fullscreen() bool            { return c.fullscreen }
func (c *Controller) ControlsVisible() bool       { return c.controlsVisible }
func (c *Controller) Prefs() *players.Preferences { return c.env.Prefs }

// HoverTime returns the timestamp under the pointer while hovering the
// progress bar.
func (c *Controller) HoverTime() (float64, bool) {
	return c.hoverTime, c.hovering
}

func (c *Controller) Load(item *models.MediaItem, src linkclass.Source) tea.Cmd {
	c.session = players.NewSession()
	c.live.Store(c.session)
	c.alive = true

	c.item = item
	c.source = src.Link()
	c.elapsed = 0
	c.duration = 0
	c.buffered = 0
	c.quality = ""
	c.hovering = false
	c.hoverTime = 0
	c.state = StateLoading

	if c.env.Container != nil {
		c.env.Container.Reset()
	}

	if c.unsubscribeScreen == nil && c.env.Screen != nil {
		send := c.env.Sender()
		c.unsubscribeScreen = c.env.Screen.Subscribe(func() {
			send(fullscreenChangedMsg{session: c.liveSession()})
		})
	}

	if err := c.ensureMedia(); err != nil {
		log.Error("Failed to create media element", "item", item.ID, "error", err)
		c.state = StateUnavailable
		return nil
	}

	log.Debug("Loading direct source", "item", item.ID, "session", c.session, "src", c.source)

	c.loads++
	if err := c.media.Load(c.source); err != nil {
		log.Warn("Failed to assign source", "item", item.ID, "error", err)
		c.state = StateUnavailable
		return nil
	}

	c.applyPreferences()

	if err := c.media.Play(); err != nil {
		log.Debug("Autoplay rejected", "item", item.ID, "error", err)
	}

	return c.ShowControls()
}

func (c *Controller) ensureMedia() error {
	if c.media != nil {
		return nil
	}

	media, err := c.env.NewMedia()
	if err != nil {
		return err
	}

	send := c.env.Sender()
	media.SetEventHandler(func(ev players.MediaEvent) {
		send(mediaEventMsg{session: c.liveSession(), event: ev})
	})
	c.media = media
	c.loads = 0
	return nil
}

func (c *Controller) liveSession() players.Session {
	s, _ := c.live.Load().(players.Session)
	return s
}

func (c *Controller) isLive(s players.Session) bool {
	return c.alive && s == c.session
}

func (c *Controller) applyPreferences() {
	prefs := c.env.Prefs
	if err := c.media.SetVolume(prefs.Volume); err != nil {
		log.Debug("Failed to set volume", "error", err)
	}
	if err := c.media.SetMuted(prefs.Muted); err != nil {
		log.Debug("Failed to set mute", "error", err)
	}
	if err := c.media.SetRate(prefs.Rate); err != nil {
		log.Debug("Failed to set rate", "error", err)
	}
}

func (c *Controller) transition(to State) bool {
	if c.state == to {
		return true
	}
	if !c.state.CanTransition(to) {
		log.Debug("Ignoring illegal transition", "from", c.state, "to", to, "session", c.session)
		return false
	}
	log.Debug("Native state", "from", c.state, "to", to)
	c.state = to
	if !to.Active() {
		c.controlsVisible = true
	}
	return true
}

func (c *Controller) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case mediaEventMsg:
		if !c.isLive(msg.session) || msg.event.Load != c.loads {
			return nil
		}
		return c.handleMediaEvent(msg.event)

	case hideControlsMsg:
		if c.isLive(msg.session) && msg.gen == c.hideGen && c.state.Active() {
			c.controlsVisible = false
		}
		return nil

	case fullscreenChangedMsg:
		if c.isLive(msg.session) && c.env.Screen != nil {
			c.fullscreen = c.env.Screen.IsFullscreenActive()
		}
		return nil

	case tea.WindowSizeMsg:
		c.width = msg.Width
		return nil

	case tea.KeyMsg:
		_, cmd := c.HandleKey(msg.String(), false)
		return cmd

	case tea.MouseMsg:
		return c.handleMouse(msg)
	}

	return nil
}

func (c *Controller) handleMediaEvent(ev players.MediaEvent) tea.Cmd {
	switch ev.Type {
	case players.MediaLoadStart:
		c.transition(StateLoading)

	case players.MediaLoadedMetadata:
		if ev.Duration > 0 {
			c.duration = ev.Duration
		}
		var cmd tea.Cmd
		if c.quality == "" && ev.Height > 0 {
			c.quality = linkclass.ResolutionLabel(ev.Height)
			cmd = players.Emit(players.QualityMsg{Session: c.session, Label: c.quality})
		}
		if c.state == StateLoading {
			c.transition(StateReady)
		}
		return cmd

	case players.MediaCanPlay:
		if c.state == StateLoading {
			c.transition(StateReady)
		}

	case players.MediaPlaying:
		if c.transition(StatePlaying) {
			return c.ShowControls()
		}

	case players.MediaPause:
		c.transition(StatePaused)

	case players.MediaWaiting:
		if c.state == StatePlaying {
			c.transition(StateLoading)
		}

	case players.MediaTimeUpdate:
		c.elapsed = c.clampTime(ev.Time)

	case players.MediaProgress:
		c.buffered = math.Max(0, math.Min(1, ev.Buffered))

	case players.MediaEnded:
		if c.state != StateEnded && c.transition(StateEnded) {
			c.elapsed = c.duration
			return players.Emit(players.EndedMsg{Session: c.session})
		}

	case players.MediaError:
		log.Warn("Media element error", "item", c.itemID(), "error", ev.Err)
		c.transition(StateUnavailable)
	}

	return nil
}

func (c *Controller) itemID() string {
	if c.item == nil {
		return ""
	}
	return c.item.ID
}

func (c *Controller) clampTime(t float64) float64 {
	if t < 0 {
		return 0
	}
	if c.duration > 0 && t > c.duration {
		return c.duration
	}
	return t
}

// TogglePlay requests play or pause. State follows the element's events; a
// rejected play leaves the controller paused.
func (c *Controller) TogglePlay() {
	if c.media == nil {
		return
	}

	switch c.state {
	case StatePlaying, StateLoading:
		if err := c.media.Pause(); err != nil {
			log.Debug("Pause failed", "error", err)
		}
	case StateReady, StatePaused, StateEnded:
		if c.state == StateEnded {
			c.seek(0)
		}
		if err := c.media.Play(); err != nil {
			log.Debug("Play rejected", "error", err)
		}
	}
}

func (c *Controller) seek(t float64) {
	t = c.clampTime(t)
	if err := c.media.Seek(t); err != nil {
		log.Debug("Seek failed", "to", t, "error", err)
		return
	}
	c.elapsed = t
}

// SeekTo maps a horizontal position on a progress surface of the given width
// linearly onto [0, duration]. Nothing happens while the duration is unknown.
func (c *Controller) SeekTo(x, width float64) {
	if c.media == nil || c.duration <= 0 || width <= 0 {
		return
	}
	frac := math.Max(0, math.Min(1, x/width))
	c.seek(frac * c.duration)
}

// Hover records the timestamp under x without moving playback.
func (c *Controller) Hover(x, width float64) (float64, bool) {
	if c.duration <= 0 || width <= 0 {
		c.hovering = false
		return 0, false
	}
	frac := math.Max(0, math.Min(1, x/width))
	c.hoverTime = frac * c.duration
	c.hovering = true
	return c.hoverTime, true
}

func (c *Controller) HoverEnd() {
	c.hovering = false
}

func (c *Controller) Skip(seconds float64) {
	if c.media == nil || c.duration <= 0 {
		return
	}
	c.seek(c.elapsed + seconds)
}

func (c *Controller) SetVolume(v float64) {
	c.env.Prefs.SetVolume(v)
	c.applyVolume()
}

func (c *Controller) ToggleMute() {
	c.env.Prefs.ToggleMute()
	c.applyVolume()
}

func (c *Controller) NudgeVolume(delta float64) {
	c.env.Prefs.Nudge(delta)
	c.applyVolume()
}

func (c *Controller) applyVolume() {
	if c.media == nil {
		return
	}
	if err := c.media.SetVolume(c.env.Prefs.Volume); err != nil {
		log.Debug("Failed to set volume", "error", err)
	}
	if err := c.media.SetMuted(c.env.Prefs.Muted); err != nil {
		log.Debug("Failed to set mute", "error", err)
	}
}

func (c *Controller) SetRate(r float64) bool {
	if !c.env.Prefs.SetRate(r) {
		return false
	}
	c.applyRate()
	return true
}

func (c *Controller) CycleRate(step int) {
	c.env.Prefs.CycleRate(step)
	c.applyRate()
}

func (c *Controller) applyRate() {
	if c.media == nil {
		return
	}
	if err := c.media.SetRate(c.env.Prefs.Rate); err != nil {
		log.Debug("Failed to set rate", "error", err)
	}
}

func (c *Controller) ToggleFullscreen() {
	if c.env.Screen == nil {
		return
	}
	switch {
	case c.env.Screen.IsFullscreenActive():
		c.env.Screen.ExitFullscreen()
	case c.env.Container != nil:
		c.env.Screen.EnterFullscreen(c.env.Container, c.media)
	default:
		c.env.Screen.EnterFullscreen(nil, c.media)
	}
	c.fullscreen = c.env.Screen.IsFullscreenActive()
}

// ShowControls reveals the overlay and restarts the inactivity timer.
func (c *Controller) ShowControls() tea.Cmd {
	c.controlsVisible = true
	c.hideGen++
	session, gen := c.session, c.hideGen
	return tea.Tick(HideControls, func(time.Time) tea.Msg {
		return hideControlsMsg{session: session, gen: gen}
	})
}

// HandleKey runs a keyboard shortcut. Shortcuts are ignored while a text
// input has focus.
func (c *Controller) HandleKey(key string, inTextInput bool) (bool, tea.Cmd) {
	if inTextInput {
		return false, nil
	}

	switch key {
	case " ", "k":
		c.TogglePlay()
	case "f":
		c.ToggleFullscreen()
	case "m":
		c.ToggleMute()
	case "left":
		c.Skip(-SkipSeconds)
	case "right":
		c.Skip(SkipSeconds)
	case "up":
		c.NudgeVolume(VolumeStep)
	case "down":
		c.NudgeVolume(-VolumeStep)
	case ">", ".":
		c.CycleRate(1)
	case "<", ",":
		c.CycleRate(-1)
	case "n":
		return true, players.Emit(players.NextMsg{Session: c.session})
	case "p":
		return true, players.Emit(players.PrevMsg{Session: c.session})
	default:
		return false, nil
	}

	return true, c.ShowControls()
}

func (c *Controller) handleMouse(msg tea.MouseMsg) tea.Cmd {
	cmd := c.ShowControls()

	onBar := msg.Y == c.bar.y && msg.X >= c.bar.x && msg.X < c.bar.x+c.bar.width
	if !onBar {
		c.HoverEnd()
		return cmd
	}

	col := float64(msg.X - c.bar.x)
	span := float64(c.bar.width - 1)

	switch {
	case msg.Button == tea.MouseButtonLeft && (msg.Action == tea.MouseActionPress || msg.Action == tea.MouseActionMotion):
		c.SeekTo(col, span)
	case msg.Action == tea.MouseActionMotion:
		c.Hover(col, span)
	}

	return cmd
}

func (c *Controller) Teardown() {
	c.alive = false
	c.live.Store(players.Session(""))

	if c.unsubscribeScreen != nil {
		c.unsubscribeScreen()
		c.unsubscribeScreen = nil
	}

	if c.fullscreen && c.env.Screen != nil {
		c.env.Screen.ExitFullscreen()
		c.fullscreen = false
	}

	if c.media != nil {
		if err := c.media.Close(); err != nil {
			log.Debug("Failed to close media element", "error", err)
		}
		c.media = nil
	}

	log.Debug("Native controller torn down", "session", c.session)
}
