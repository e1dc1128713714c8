package players

import (
	"context"

	"github.com/hayasedb/mediadeck/internal/dom"
	"github.com/hayasedb/mediadeck/internal/screen"
)

type MediaEventType int

const (
	MediaLoadStart MediaEventType = iota
	MediaLoadedMetadata
	MediaCanPlay
	MediaPlaying
	MediaPause
	MediaWaiting
	MediaTimeUpdate
	MediaProgress
	MediaEnded
	MediaError
)

func (t MediaEventType) String() string {
	switch t {
	case MediaLoadStart:
		return "loadstart"
	case MediaLoadedMetadata:
		return "loadedmetadata"
	case MediaCanPlay:
		return "canplay"
	case MediaPlaying:
		return "playing"
	case MediaPause:
		return "pause"
	case MediaWaiting:
		return "waiting"
	case MediaTimeUpdate:
		return "timeupdate"
	case MediaProgress:
		return "progress"
	case MediaEnded:
		return "ended"
	case MediaError:
		return "error"
	default:
		return "unknown"
	}
}

// MediaEvent is one notification from a native media element. Only the fields
// relevant to Type are set; times are in seconds.
type MediaEvent struct {
	Type     MediaEventType
	Time     float64
	Duration float64
	Buffered float64
	Height   int
	Err      error
	// Load is the number of Load calls the element had seen when the event
	// was produced. Events of an earlier source carry a smaller number.
	Load int
}

// MediaElement is a directly addressable media player.
type MediaElement interface {
	screen.SelfFullscreener

	// SetEventHandler must be called before Load. The handler may run on any goroutine.
	SetEventHandler(fn func(MediaEvent))

	// Load stops current playback and assigns a new source. Every call counts
	// towards MediaEvent.Load, including failed ones.
	Load(src string) error
	Play() error
	Pause() error
	Seek(seconds float64) error
	SetVolume(volume float64) error
	SetMuted(muted bool) error
	SetRate(rate float64) error

	Close() error
}

// ExternalState mirrors the state codes a scripted embed player reports.
type ExternalState int

const (
	ExternalUnstarted ExternalState = -1
	ExternalEnded     ExternalState = 0
	ExternalPlaying   ExternalState = 1
	ExternalPaused    ExternalState = 2
	ExternalBuffering ExternalState = 3
	ExternalCued      ExternalState = 5
)

func (s ExternalState) String() string {
	switch s {
	case ExternalUnstarted:
		return "unstarted"
	case ExternalEnded:
		return "ended"
	case ExternalPlaying:
		return "playing"
	case ExternalPaused:
		return "paused"
	case ExternalBuffering:
		return "buffering"
	case ExternalCued:
		return "cued"
	default:
		return "unknown"
	}
}

// ExternalEvents is the subscription object handed to a new external player.
// Callbacks may run on any goroutine.
type ExternalEvents struct {
	OnReady                 func()
	OnStateChange           func(ExternalState)
	OnPlaybackQualityChange func(quality string)
	OnError                 func(code int)
}

type VideoData struct {
	ID     string
	Title  string
	Author string
}

// ExternalAPI is the asynchronously loaded scripted-embed library.
type ExternalAPI interface {
	// Loaded reports whether players can be constructed yet.
	Loaded() bool
	NewPlayer(container *dom.Container, id string, events ExternalEvents) (ExternalPlayer, error)
}

type ExternalPlayer interface {
	Destroy() error
	PlaybackQuality() string
	VideoURL() string
	VideoData() VideoData
	LoadVideoByID(id string) error
}

// FrameOpener shows an embeddable URL in a surface the host does not control.
type FrameOpener interface {
	Open(ctx context.Context, url string) error
}
