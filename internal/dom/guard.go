package dom

import (
	"strings"
	"sync"
)

// FramePolicy lists the attributes every frame in a container must carry.
type FramePolicy struct {
	AllowFullscreen bool
	Allow           []string
	Sandbox         []string
}

// DefaultFramePolicy is the minimum a playback frame needs to go fullscreen
// and autoplay.
var DefaultFramePolicy = FramePolicy{
	AllowFullscreen: true,
	Allow:           []string{"autoplay", "encrypted-media", "fullscreen", "picture-in-picture"},
	Sandbox:         []string{"allow-scripts", "allow-same-origin", "allow-presentation", "allow-popups"},
}

// GuardFrames applies policy to every frame now and after every later change
// to the container, until stop is called.
func GuardFrames(c *Container, policy FramePolicy) (stop func()) {
	var (
		mu       sync.Mutex
		applying bool
		stopped  bool
	)

	enforce := func() {
		mu.Lock()
		if applying || stopped {
			mu.Unlock()
			return
		}
		applying = true
		mu.Unlock()

		for _, f := range c.Frames() {
			ApplyPolicy(f, policy)
		}

		mu.Lock()
		applying = false
		mu.Unlock()
	}

	disconnect := c.Observe(enforce)
	enforce()

	return func() {
		mu.Lock()
		stopped = true
		mu.Unlock()
		disconnect()
	}
}

// ApplyPolicy patches a single frame, keeping any tokens it already has.
func ApplyPolicy(f *Frame, policy FramePolicy) {
	if policy.AllowFullscreen {
		f.SetAttr("allowfullscreen", "true")
	}
	if len(policy.Allow) > 0 {
		current, _ := f.Attr("allow")
		f.SetAttr("allow", mergeTokens(current, policy.Allow, ";", "; "))
	}
	if len(policy.Sandbox) > 0 {
		current, _ := f.Attr("sandbox")
		f.SetAttr("sandbox", mergeTokens(current, policy.Sandbox, " ", " "))
	}
}

func mergeTokens(current string, required []string, sep, join string) string {
	var tokens []string
	seen := make(map[string]bool)

	for _, t := range strings.Split(current, sep) {
		t = strings.TrimSpace(t)
		if t == "" || seen[strings.ToLower(t)] {
			continue
		}
		seen[strings.ToLower(t)] = true
		tokens = append(tokens, t)
	}
	for _, t := range required {
		if !seen[strings.ToLower(t)] {
			seen[strings.ToLower(t)] = true
			tokens = append(tokens, t)
		}
	}

	return strings.Join(tokens, join)
}
