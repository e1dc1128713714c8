// Package linkclass decides how a media link is played back and derives the
// identifiers and URLs each playback strategy needs. Everything here is pure.
package linkclass

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

type Kind int

const (
	Direct Kind = iota
	ScriptedEmbed
	PassiveEmbed
)

func (k Kind) String() string {
	switch k {
	case ScriptedEmbed:
		return "scripted-embed"
	case PassiveEmbed:
		return "passive-embed"
	default:
		return "direct"
	}
}

var (
	scriptedHost = regexp.MustCompile(`(?i)^(?:https?://)?(?:[a-z0-9-]+\.)*(?:youtube\.com|youtube-nocookie\.com|youtu\.be)(?:[/?#:]|$)`)
	passiveHost  = regexp.MustCompile(`(?i)^(?:https?://)?(?:drive|docs)\.google\.com(?:[/?#:]|$)`)

	embedIDPattern = regexp.MustCompile(`(?i)(?:youtube(?:-nocookie)?\.com/(?:watch\?(?:[^#]*&)?v=|embed/|shorts/|live/|v/)|youtu\.be/)([A-Za-z0-9_-]{11})(?:[^A-Za-z0-9_-]|$)`)

	driveFilePattern = regexp.MustCompile(`/file/d/([A-Za-z0-9_-]+)`)
)

// Classify matches a link against the known host signatures. Links that match
// neither embed kind are treated as directly playable.
func Classify(link string) Kind {
	link = strings.TrimSpace(link)
	switch {
	case scriptedHost.MatchString(link):
		return ScriptedEmbed
	case passiveHost.MatchString(link):
		return PassiveEmbed
	default:
		return Direct
	}
}

// ExtractEmbedID returns the 11 character content id of a scripted-embed link
// (watch page, short link, embed, shorts or live form), or "" when there is none.
func ExtractEmbedID(link string) string {
	matches := embedIDPattern.FindStringSubmatch(strings.TrimSpace(link))
	if len(matches) < 2 {
		return ""
	}
	return matches[1]
}

// WatchURL builds the canonical watch page for an embed id.
func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}

func EmbedURL(id string) string {
	return "https://www.youtube.com/embed/" + id
}

type EmbedMode int

const (
	// ModePreview targets the host's embeddable preview player.
	ModePreview EmbedMode = iota
	// ModeDownload targets the raw file stream.
	ModeDownload
)

// ToEmbeddableURL rewrites a file-view link of a passive-embed host into the
// form the given mode needs. Unrecognised shapes are returned unchanged.
func ToEmbeddableURL(link string, mode EmbedMode) string {
	id := driveFileID(link)
	if id == "" {
		return link
	}

	switch mode {
	case ModeDownload:
		return fmt.Sprintf("https://drive.google.com/uc?export=download&id=%s", id)
	default:
		return fmt.Sprintf("https://drive.google.com/file/d/%s/preview", id)
	}
}

func driveFileID(link string) string {
	if !passiveHost.MatchString(strings.TrimSpace(link)) {
		return ""
	}

	if m := driveFilePattern.FindStringSubmatch(link); len(m) > 1 {
		return m[1]
	}

	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil {
		return ""
	}
	switch strings.TrimSuffix(u.Path, "/") {
	case "/open", "/uc":
		return u.Query().Get("id")
	}
	return ""
}

var resolutions = []struct {
	height int
	label  string
}{
	{2160, "2160p (4K)"},
	{1440, "1440p"},
	{1080, "1080p"},
	{720, "720p"},
	{480, "480p"},
	{360, "360p"},
	{240, "240p"},
}

// ResolutionLabel maps a vertical pixel count onto the highest standard
// resolution it reaches.
func ResolutionLabel(height int) string {
	for _, r := range resolutions {
		if height >= r.height {
			return r.label
		}
	}
	if height > 0 {
		return fmt.Sprintf("%dp", height)
	}
	return ""
}

var qualityTokens = map[string]int{
	"highres": 4320,
	"hd2160":  2160,
	"hd1440":  1440,
	"hd1080":  1080,
	"hd720":   720,
	"large":   480,
	"medium":  360,
	"small":   240,
	"tiny":    144,
}

// QualityLabel translates a scripted player's quality token ("hd1080",
// "medium", ...) into a resolution label. Unknown tokens yield "".
func QualityLabel(token string) string {
	height, ok := qualityTokens[strings.ToLower(strings.TrimSpace(token))]
	if !ok {
		return ""
	}
	return ResolutionLabel(height)
}

// QualityToken is the inverse of QualityLabel for a raw pixel height.
func QualityToken(height int) string {
	switch {
	case height > 2160:
		return "highres"
	case height >= 2160:
		return "hd2160"
	case height >= 1440:
		return "hd1440"
	case height >= 1080:
		return "hd1080"
	case height >= 720:
		return "hd720"
	case height >= 480:
		return "large"
	case height >= 360:
		return "medium"
	case height >= 240:
		return "small"
	case height > 0:
		return "tiny"
	default:
		return ""
	}
}
