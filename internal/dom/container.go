// Package dom holds the markup fragment a player mounts into: a container
// element, the frames playback surfaces add to it, and observers that are told
// about every structural change.
package dom

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/charmbracelet/log"

	"github.com/hayasedb/mediadeck/internal/screen"
)

type Container struct {
	id  string
	doc *goquery.Document

	mu        sync.Mutex
	observers map[int]func()
	nextID    int
	frameSeq  int
}

func NewContainer(id string) *Container {
	c := &Container{
		id:        id,
		observers: make(map[int]func()),
	}
	c.doc = c.newDocument()
	return c
}

func (c *Container) newDocument() *goquery.Document {
	markup := fmt.Sprintf(`<div id="%s" class="player-container"></div>`, c.id)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		// The markup is static; a parse failure means the html package itself is broken.
		panic(fmt.Sprintf("dom: failed to parse container markup: %v", err))
	}
	return doc
}

func (c *Container) TargetID() string {
	return "#" + c.id
}

func (c *Container) root() *goquery.Selection {
	return c.doc.Find("#" + c.id)
}

// Reset replaces the container element with a fresh, empty one.
func (c *Container) Reset() {
	c.mu.Lock()
	c.doc = c.newDocument()
	c.mu.Unlock()

	log.Debug("Container reset", "container", c.id)
	c.notify()
}

// AppendFrame adds an iframe with the given source and attributes.
func (c *Container) AppendFrame(src string, attrs map[string]string) *Frame {
	c.mu.Lock()
	c.frameSeq++
	id := fmt.Sprintf("%s-frame-%d", c.id, c.frameSeq)

	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	c.root().AppendHtml(fmt.Sprintf(`<iframe id="%s"></iframe>`, id))
	sel := c.doc.Find("#" + id)
	sel.SetAttr("src", src)
	for _, k := range keys {
		sel.SetAttr(k, attrs[k])
	}
	c.mu.Unlock()

	c.notify()
	return &Frame{c: c, id: id}
}

// RemoveFrames drops every frame from the container.
func (c *Container) RemoveFrames() {
	c.mu.Lock()
	removed := c.root().Find("iframe").Remove().Length()
	c.mu.Unlock()

	if removed > 0 {
		c.notify()
	}
}

func (c *Container) Frames() []*Frame {
	c.mu.Lock()
	defer c.mu.Unlock()

	var frames []*Frame
	c.root().Find("iframe").Each(func(_ int, s *goquery.Selection) {
		if id, ok := s.Attr("id"); ok {
			frames = append(frames, &Frame{c: c, id: id})
		}
	})
	return frames
}

func (c *Container) FrameTargets() []screen.Target {
	frames := c.Frames()
	targets := make([]screen.Target, len(frames))
	for i, f := range frames {
		targets[i] = f
	}
	return targets
}

func (c *Container) HTML() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	html, err := goquery.OuterHtml(c.root())
	if err != nil {
		return ""
	}
	return html
}

// Observe registers fn to run after every mutation. The returned function
// disconnects it.
func (c *Container) Observe(fn func()) (disconnect func()) {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.observers[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.observers, id)
		c.mu.Unlock()
	}
}

func (c *Container) notify() {
	c.mu.Lock()
	ids := make([]int, 0, len(c.observers))
	for id := range c.observers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, c.observers[id])
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

type Frame struct {
	c  *Container
	id string
}

func (f *Frame) TargetID() string {
	return "#" + f.id
}

func (f *Frame) ID() string {
	return f.id
}

func (f *Frame) sel() *goquery.Selection {
	return f.c.doc.Find("#" + f.id)
}

func (f *Frame) Attr(name string) (string, bool) {
	f.c.mu.Lock()
	defer f.c.mu.Unlock()
	return f.sel().Attr(name)
}

func (f *Frame) Src() string {
	src, _ := f.Attr("src")
	return src
}

// SetAttr updates an attribute and notifies observers only when the value changes.
func (f *Frame) SetAttr(name, value string) {
	f.c.mu.Lock()
	sel := f.sel()
	if sel.Length() == 0 {
		f.c.mu.Unlock()
		return
	}
	if current, ok := sel.Attr(name); ok && current == value {
		f.c.mu.Unlock()
		return
	}
	sel.SetAttr(name, value)
	f.c.mu.Unlock()

	f.c.notify()
}

func (f *Frame) RemoveAttr(name string) {
	f.c.mu.Lock()
	sel := f.sel()
	if _, ok := sel.Attr(name); !ok {
		f.c.mu.Unlock()
		return
	}
	sel.RemoveAttr(name)
	f.c.mu.Unlock()

	f.c.notify()
}
