package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/hayasedb/mediadeck/internal/catalog"
	"github.com/hayasedb/mediadeck/internal/linkclass"
	"github.com/hayasedb/mediadeck/internal/models"
	"github.com/hayasedb/mediadeck/internal/players"
)

func TestPrintSource(t *testing.T) {
	tests := []struct {
		link string
		want []string
	}{
		{"https://youtu.be/dQw4w9WgXcQ", []string{"scripted-embed", "dQw4w9WgXcQ", "https://www.youtube.com/embed/dQw4w9WgXcQ"}},
		{"https://youtube.com/channel/xyz", []string{"scripted-embed", "playback unavailable"}},
		{"https://drive.google.com/file/d/abc123/view", []string{"passive-embed", "/file/d/abc123/preview", "export=download&id=abc123"}},
		{"https://cdn.example.com/a.mp4", []string{"direct", "https://cdn.example.com/a.mp4"}},
	}

	for _, tt := range tests {
		t.Run(tt.link, func(t *testing.T) {
			var buf bytes.Buffer
			printSource(&buf, linkclass.Resolve(tt.link))
			for _, want := range tt.want {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("output missing %q:\n%s", want, buf.String())
				}
			}
		})
	}
}

func TestStartSelection(t *testing.T) {
	cat, err := catalog.Load("")
	if err != nil {
		t.Fatal(err)
	}
	item := cat.Items(models.Music)[0]

	defer func() { sectionName, itemID = "", "" }()

	sectionName, itemID = "", item.ID
	start, err := startSelection(cat)
	if err != nil {
		t.Fatal(err)
	}
	if !start.HasKind || start.Kind != models.Music || start.Item.ID != item.ID {
		t.Errorf("start = %+v", start)
	}

	sectionName = "videos"
	if _, err := startSelection(cat); err == nil {
		t.Error("item outside the requested section accepted")
	}

	sectionName, itemID = "", "missing"
	if _, err := startSelection(cat); err == nil {
		t.Error("unknown item accepted")
	}

	sectionName, itemID = "shows", ""
	if _, err := startSelection(cat); err == nil {
		t.Error("unknown section accepted")
	}
}

func TestPrintSection(t *testing.T) {
	items := []models.MediaItem{
		{ID: "a", Title: "Alpha", Link: "https://youtu.be/dQw4w9WgXcQ"},
		{ID: "b", Title: "Beta", Link: "https://cdn.example.com/b.mp3"},
	}

	var buf bytes.Buffer
	printSection(&buf, models.Music, catalog.Search(items, ""))

	out := buf.String()
	if !strings.HasPrefix(out, "Music (2)") {
		t.Errorf("header = %q", out)
	}
	if !strings.Contains(out, "scripted-embed") || !strings.Contains(out, "Beta") {
		t.Errorf("output = %q", out)
	}
}

func TestPrintVersionWithoutResolver(t *testing.T) {
	var buf bytes.Buffer
	printVersion(&buf, "")

	if !strings.HasPrefix(buf.String(), "mediadeck ") {
		t.Errorf("output = %q", buf.String())
	}
	if !strings.Contains(buf.String(), "YouTube items will be unavailable") {
		t.Errorf("missing resolver hint: %q", buf.String())
	}
}

func TestNewRegistryFollowsPlayerSetting(t *testing.T) {
	tests := []struct {
		player  string
		want    map[linkclass.Kind]string
		wantErr bool
	}{
		{
			player: "mpv",
			want: map[linkclass.Kind]string{
				linkclass.Direct:        "native",
				linkclass.ScriptedEmbed: "embed",
				linkclass.PassiveEmbed:  "passive",
			},
		},
		{
			player: "browser",
			want: map[linkclass.Kind]string{
				linkclass.Direct:        "passive",
				linkclass.ScriptedEmbed: "passive",
				linkclass.PassiveEmbed:  "passive",
			},
		},
		{player: "vlc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.player, func(t *testing.T) {
			registry, err := newRegistry(tt.player)
			if (err != nil) != tt.wantErr {
				t.Fatalf("newRegistry(%q) error = %v, wantErr %v", tt.player, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}

			for kind, name := range tt.want {
				c, err := registry.Mount(kind, &players.Env{Prefs: players.NewPreferences()})
				if err != nil {
					t.Fatalf("mount %s: %v", kind, err)
				}
				if c.Name() != name {
					t.Errorf("%s mounted %s, want %s", kind, c.Name(), name)
				}
			}
		})
	}
}
