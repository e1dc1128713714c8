package embed

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/hayasedb/mediadeck/internal/dom"
	"github.com/hayasedb/mediadeck/internal/linkclass"
	"github.com/hayasedb/mediadeck/internal/models"
	"github.com/hayasedb/mediadeck/internal/players"
)

const (
	PollAttempts = 50
	PollInterval = 200 * time.Millisecond
)

type pollMsg struct {
	session players.Session
	attempt int
}

type readyMsg struct {
	session players.Session
}

type stateMsg struct {
	session players.Session
	state   players.ExternalState
}

type qualityMsg struct {
	session players.Session
	quality string
}

type errorMsg struct {
	session players.Session
	code    int
}

type fullscreenChangedMsg struct {
	session players.Session
}

// Controller hosts a scripted third-party player. The player owns its own
// transport UI; the controller mirrors its state and watches for it drifting
// away from the requested video.
type Controller struct {
	env    *players.Env
	player players.ExternalPlayer

	session players.Session
	alive   bool

	item      *models.MediaItem
	requested string
	state     State

	quality      string
	foreign      bool
	foreignTitle string
	errorCode    int
	fullscreen   bool

	stopGuard         func()
	unsubscribeScreen func()
}

func Mount(env *players.Env) players.Controller {
	return New(env)
}

func New(env *players.Env) *Controller {
	return &Controller{
		env:   env,
		state: StateWaiting,
	}
}

func (c *Controller) Name() string {
	return "embed"
}

func (c *Controller) Session() players.Session {
	return c.session
}

func (c *Controller) State() State { return c.state }

func (c *Controller) Quality() string { return c.quality }

// Foreign reports whether the player has moved on to something other than
// the requested video, and that video's title. Detection is best-effort.
func (c *Controller) Foreign() (bool, string) {
	return c.foreign, c.foreignTitle
}

func (c *Controller) Load(item *models.MediaItem, src linkclass.Source) tea.Cmd {
	c.destroyPlayer()

	c.session = players.NewSession()
	c.alive = true
	c.item = item
	c.requested = embedID(src)
	c.state = StateWaiting
	c.quality = ""
	c.foreign = false
	c.foreignTitle = ""
	c.errorCode = 0

	if c.env.Container != nil {
		c.env.Container.Reset()
		if c.stopGuard == nil {
			c.stopGuard = dom.GuardFrames(c.env.Container, dom.DefaultFramePolicy)
		}
	}

	if c.unsubscribeScreen == nil && c.env.Screen != nil {
		send := c.env.Sender()
		c.unsubscribeScreen = c.env.Screen.Subscribe(func() {
			send(fullscreenChangedMsg{})
		})
	}

	if c.requested == "" {
		log.Warn("No embed id in link", "item", item.ID, "link", src.Link())
		c.state = StateUnavailable
		return nil
	}

	log.Debug("Loading scripted embed", "item", item.ID, "id", c.requested, "session", c.session)

	return c.check(0)
}

func embedID(src linkclass.Source) string {
	if s, ok := src.(linkclass.ScriptedSource); ok && s.EmbedID != "" {
		return s.EmbedID
	}
	return linkclass.ExtractEmbedID(src.Link())
}

// check looks for the external library once. Until it is available the check
// is repeated every PollInterval, up to PollAttempts checks in total.
func (c *Controller) check(attempt int) tea.Cmd {
	if c.env.External != nil && c.env.External.Loaded() {
		c.create()
		return nil
	}

	if attempt+1 >= PollAttempts {
		log.Info("External player never loaded", "item", c.itemID(), "attempts", attempt+1)
		c.transition(StateStopped)
		return nil
	}

	session := c.session
	return tea.Tick(PollInterval, func(time.Time) tea.Msg {
		return pollMsg{session: session, attempt: attempt + 1}
	})
}

func (c *Controller) create() {
	send := c.env.Sender()
	session := c.session

	events := players.ExternalEvents{
		OnReady: func() {
			send(readyMsg{session: session})
		},
		OnStateChange: func(s players.ExternalState) {
			send(stateMsg{session: session, state: s})
		},
		OnPlaybackQualityChange: func(q string) {
			send(qualityMsg{session: session, quality: q})
		},
		OnError: func(code int) {
			send(errorMsg{session: session, code: code})
		},
	}

	player, err := c.env.External.NewPlayer(c.env.Container, c.requested, events)
	if err != nil {
		log.Error("Failed to create external player", "item", c.itemID(), "error", err)
		c.transition(StateUnavailable)
		return
	}

	c.player = player
	c.transition(StateLoading)
}

func (c *Controller) destroyPlayer() {
	if c.player == nil {
		return
	}
	if err := c.player.Destroy(); err != nil {
		log.Debug("Destroying external player failed", "error", err)
	}
	c.player = nil
}

func (c *Controller) itemID() string {
	if c.item == nil {
		return ""
	}
	return c.item.ID
}

func (c *Controller) isLive(s players.Session) bool {
	return c.alive && s == c.session
}

func (c *Controller) transition(to State) bool {
	if c.state == to {
		return true
	}
	if !c.state.CanTransition(to) {
		log.Debug("Ignoring illegal transition", "from", c.state, "to", to, "session", c.session)
		return false
	}
	log.Debug("Embed state", "from", c.state, "to", to)
	c.state = to
	return true
}

func (c *Controller) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case pollMsg:
		if !c.isLive(msg.session) || c.state != StateWaiting {
			return nil
		}
		return c.check(msg.attempt)

	case readyMsg:
		if !c.isLive(msg.session) {
			return nil
		}
		if c.state == StateLoading {
			c.transition(StateReady)
		}
		c.refreshQuality()
		return nil

	case stateMsg:
		if !c.isLive(msg.session) {
			return nil
		}
		return c.handleState(msg.state)

	case qualityMsg:
		if !c.isLive(msg.session) {
			return nil
		}
		return c.setQuality(msg.quality)

	case errorMsg:
		if !c.isLive(msg.session) {
			return nil
		}
		log.Warn("External player error", "item", c.itemID(), "code", msg.code)
		c.errorCode = msg.code
		c.transition(StateUnavailable)
		return nil

	case fullscreenChangedMsg:
		if c.alive && c.env.Screen != nil {
			c.fullscreen = c.env.Screen.IsFullscreenActive()
		}
		return nil

	case tea.KeyMsg:
		_, cmd := c.HandleKey(msg.String(), false)
		return cmd
	}

	return nil
}

func (c *Controller) handleState(s players.ExternalState) tea.Cmd {
	switch s {
	case players.ExternalBuffering:
		c.transition(StateLoading)

	case players.ExternalPlaying:
		if c.transition(StatePlaying) {
			c.detectForeign()
			return c.refreshQuality()
		}

	case players.ExternalPaused:
		c.transition(StatePaused)

	case players.ExternalEnded:
		if c.state != StateEnded && c.transition(StateEnded) {
			return players.Emit(players.EndedMsg{Session: c.session})
		}
	}

	return nil
}

func (c *Controller) refreshQuality() tea.Cmd {
	if c.player == nil {
		return nil
	}
	return c.setQuality(c.player.PlaybackQuality())
}

func (c *Controller) setQuality(token string) tea.Cmd {
	label := linkclass.QualityLabel(token)
	if label == "" || label == c.quality {
		return nil
	}
	c.quality = label
	return players.Emit(players.QualityMsg{Session: c.session, Label: label})
}

func (c *Controller) detectForeign() {
	if c.player == nil {
		return
	}

	data := c.player.VideoData()
	id := data.ID
	if id == "" {
		id = linkclass.ExtractEmbedID(c.player.VideoURL())
	}

	// An unknown id is treated as a match.
	if id == "" || id == c.requested {
		c.foreign = false
		c.foreignTitle = ""
		return
	}

	if !c.foreign {
		log.Info("Player moved to other content", "requested", c.requested, "playing", id, "title", data.Title)
	}
	c.foreign = true
	c.foreignTitle = data.Title
}

// ReturnToRequested reloads the requested video after the player drifted.
func (c *Controller) ReturnToRequested() {
	if c.player == nil || c.requested == "" {
		return
	}
	if err := c.player.LoadVideoByID(c.requested); err != nil {
		log.Warn("Failed to return to requested video", "id", c.requested, "error", err)
		return
	}
	c.foreign = false
	c.foreignTitle = ""
}

func (c *Controller) ToggleFullscreen() {
	if c.env.Screen == nil {
		return
	}
	switch {
	case c.env.Screen.IsFullscreenActive():
		c.env.Screen.ExitFullscreen()
	case c.env.Container != nil:
		c.env.Screen.EnterFullscreen(c.env.Container, nil)
	}
	c.fullscreen = c.env.Screen.IsFullscreenActive()
}

// HandleKey covers only what sits on top of the player; transport keys belong
// to the player itself.
func (c *Controller) HandleKey(key string, inTextInput bool) (bool, tea.Cmd) {
	if inTextInput {
		return false, nil
	}

	switch key {
	case "r":
		if !c.foreign {
			return false, nil
		}
		c.ReturnToRequested()
	case "f":
		c.ToggleFullscreen()
	case "n":
		return true, players.Emit(players.NextMsg{Session: c.session})
	case "p":
		return true, players.Emit(players.PrevMsg{Session: c.session})
	case "enter":
		if c.state != StateUnavailable {
			return false, nil
		}
		return true, players.Emit(players.NextMsg{Session: c.session})
	default:
		return false, nil
	}

	return true, nil
}

func (c *Controller) Teardown() {
	c.alive = false
	c.destroyPlayer()

	if c.stopGuard != nil {
		c.stopGuard()
		c.stopGuard = nil
	}
	if c.unsubscribeScreen != nil {
		c.unsubscribeScreen()
		c.unsubscribeScreen = nil
	}
	if c.fullscreen && c.env.Screen != nil {
		c.env.Screen.ExitFullscreen()
		c.fullscreen = false
	}

	log.Debug("Embed controller torn down", "session", c.session)
}
