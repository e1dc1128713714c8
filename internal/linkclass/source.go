package linkclass

import "strings"

// Source is the resolved playback strategy for one link. The concrete types
// carry only what their strategy needs.
type Source interface {
	Kind() Kind
	Link() string
}

type ScriptedSource struct {
	Original string
	EmbedID  string
}

func (s ScriptedSource) Kind() Kind   { return ScriptedEmbed }
func (s ScriptedSource) Link() string { return s.Original }

type PassiveSource struct {
	Original string
	EmbedURL string
}

func (s PassiveSource) Kind() Kind   { return PassiveEmbed }
func (s PassiveSource) Link() string { return s.Original }

type DirectSource struct {
	URL string
}

func (s DirectSource) Kind() Kind   { return Direct }
func (s DirectSource) Link() string { return s.URL }

// Resolve classifies a link once and builds the matching Source.
func Resolve(link string) Source {
	link = strings.TrimSpace(link)
	switch Classify(link) {
	case ScriptedEmbed:
		return ScriptedSource{Original: link, EmbedID: ExtractEmbedID(link)}
	case PassiveEmbed:
		return PassiveSource{Original: link, EmbedURL: ToEmbeddableURL(link, ModePreview)}
	default:
		return DirectSource{URL: link}
	}
}
