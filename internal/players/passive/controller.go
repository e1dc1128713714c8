package passive

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/hayasedb/mediadeck/internal/dom"
	"github.com/hayasedb/mediadeck/internal/linkclass"
	"github.com/hayasedb/mediadeck/internal/models"
	"github.com/hayasedb/mediadeck/internal/players"
)

const OpenTimeout = 15 * time.Second

type State int

const (
	StateLoading State = iota
	StateLoaded
	// StateDetached means the frame exists but no surface could show it.
	StateDetached
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateDetached:
		return "detached"
	default:
		return "unknown"
	}
}

type frameLoadedMsg struct {
	session players.Session
	err     error
}

type fullscreenChangedMsg struct{}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	urlStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("75")).Underline(true)
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

// Controller shows a host's own embeddable player. All transport lives in
// that player; only navigation and fullscreen are layered on top.
type Controller struct {
	env *players.Env

	session players.Session
	alive   bool

	item     *models.MediaItem
	embedURL string
	frame    *dom.Frame
	state    State
	openErr  error

	fullscreen bool

	cancel            context.CancelFunc
	stopGuard         func()
	unsubscribeScreen func()
}

func Mount(env *players.Env) players.Controller {
	return New(env)
}

func New(env *players.Env) *Controller {
	return &Controller{env: env}
}

func (c *Controller) Name() string {
	return "passive"
}

func (c *Controller) Session() players.Session {
	return c.session
}

func (c *Controller) State() State { return c.state }

func (c *Controller) EmbedURL() string { return c.embedURL }

func (c *Controller) Frame() *dom.Frame { return c.frame }

func (c *Controller) Load(item *models.MediaItem, src linkclass.Source) tea.Cmd {
	c.cancelOpen()

	c.session = players.NewSession()
	c.alive = true
	c.item = item
	c.state = StateLoading
	c.openErr = nil
	c.embedURL = embeddable(src)

	if c.env.Container != nil {
		c.env.Container.Reset()
		if c.stopGuard == nil {
			c.stopGuard = dom.GuardFrames(c.env.Container, dom.DefaultFramePolicy)
		}
		c.frame = c.env.Container.AppendFrame(c.embedURL, map[string]string{
			"title": item.Title,
		})
	}

	if c.unsubscribeScreen == nil && c.env.Screen != nil {
		send := c.env.Sender()
		c.unsubscribeScreen = c.env.Screen.Subscribe(func() {
			send(fullscreenChangedMsg{})
		})
	}

	log.Debug("Loading passive embed", "item", item.ID, "url", c.embedURL, "session", c.session)

	return c.open()
}

func embeddable(src linkclass.Source) string {
	if s, ok := src.(linkclass.PassiveSource); ok && s.EmbedURL != "" {
		return s.EmbedURL
	}
	return linkclass.ToEmbeddableURL(src.Link(), linkclass.ModePreview)
}

// open shows the frame's URL. The returned command reports back once the
// surface has accepted it.
func (c *Controller) open() tea.Cmd {
	session, url := c.session, c.embedURL

	if c.env.Frames == nil {
		return players.Emit(frameLoadedMsg{session: session})
	}

	ctx, cancel := context.WithTimeout(context.Background(), OpenTimeout)
	c.cancel = cancel
	opener := c.env.Frames

	return func() tea.Msg {
		defer cancel()
		return frameLoadedMsg{session: session, err: opener.Open(ctx, url)}
	}
}

func (c *Controller) cancelOpen() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

func (c *Controller) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case frameLoadedMsg:
		if !c.alive || msg.session != c.session {
			return nil
		}
		c.cancel = nil
		if msg.err != nil {
			log.Warn("Failed to open embed", "item", c.item.ID, "url", c.embedURL, "error", msg.err)
			c.openErr = msg.err
			c.state = StateDetached
			return nil
		}
		c.state = StateLoaded
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

// ToggleFullscreen targets the container and falls back to the frame itself.
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

func (c *Controller) HandleKey(key string, inTextInput bool) (bool, tea.Cmd) {
	if inTextInput {
		return false, nil
	}

	switch key {
	case "n":
		return true, players.Emit(players.NextMsg{Session: c.session})
	case "p":
		return true, players.Emit(players.PrevMsg{Session: c.session})
	case "f":
		c.ToggleFullscreen()
		return true, nil
	case "o":
		if c.item == nil {
			return false, nil
		}
		c.cancelOpen()
		c.state = StateLoading
		c.openErr = nil
		return true, c.open()
	}

	return false, nil
}

func (c *Controller) View() string {
	var b strings.Builder

	if c.item != nil {
		b.WriteString(titleStyle.Render(c.item.Title))
		b.WriteString("\n")
	}

	switch c.state {
	case StateLoading:
		b.WriteString(statusStyle.Render("  Opening player..."))
	case StateLoaded:
		status := "  Playing in the host's player"
		if c.fullscreen {
			status += " • fullscreen"
		}
		b.WriteString(statusStyle.Render(status))
	case StateDetached:
		b.WriteString(warnStyle.Render(fmt.Sprintf("  Could not open the player: %v", c.openErr)))
		b.WriteString("\n")
		b.WriteString(statusStyle.Render("  o: try again"))
	}

	if c.embedURL != "" {
		b.WriteString("\n  ")
		b.WriteString(urlStyle.Render(c.embedURL))
	}

	return b.String()
}

func (c *Controller) Teardown() {
	c.alive = false
	c.cancelOpen()

	if c.env.Container != nil {
		c.env.Container.RemoveFrames()
	}
	c.frame = nil

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

	log.Debug("Passive controller torn down", "session", c.session)
}
