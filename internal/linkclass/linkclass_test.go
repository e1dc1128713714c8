package linkclass

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		link string
		want Kind
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", ScriptedEmbed},
		{"https://youtu.be/dQw4w9WgXcQ", ScriptedEmbed},
		{"https://m.youtube.com/watch?v=dQw4w9WgXcQ", ScriptedEmbed},
		{"https://www.youtube-nocookie.com/embed/dQw4w9WgXcQ", ScriptedEmbed},
		{"https://drive.google.com/file/d/1AbCdEf/view?usp=sharing", PassiveEmbed},
		{"https://docs.google.com/uc?id=1AbCdEf", PassiveEmbed},
		{"https://cdn.example.com/media/clip.mp4", Direct},
		{"https://example.com/youtube.com/fake.mp3", Direct},
		{"https://notyoutube.com/watch?v=dQw4w9WgXcQ", Direct},
		{"file:///home/me/music/song.flac", Direct},
	}

	for _, tt := range tests {
		t.Run(tt.link, func(t *testing.T) {
			if got := Classify(tt.link); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.link, got, tt.want)
			}
		})
	}
}

func TestExtractEmbedID(t *testing.T) {
	const id = "dQw4w9WgXcQ"
	equivalent := []string{
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		"https://www.youtube.com/watch?feature=share&v=dQw4w9WgXcQ&t=42",
		"https://youtu.be/dQw4w9WgXcQ",
		"https://youtu.be/dQw4w9WgXcQ?si=abc",
		"https://www.youtube.com/embed/dQw4w9WgXcQ",
		"https://www.youtube-nocookie.com/embed/dQw4w9WgXcQ?autoplay=1",
		"https://www.youtube.com/shorts/dQw4w9WgXcQ",
		"youtube.com/watch?v=dQw4w9WgXcQ",
	}
	for _, link := range equivalent {
		if got := ExtractEmbedID(link); got != id {
			t.Errorf("ExtractEmbedID(%q) = %q, want %q", link, got, id)
		}
	}

	empty := []string{
		"",
		"https://www.youtube.com/watch?v=short",
		"https://www.youtube.com/watch?v=dQw4w9WgXcQtoolong",
		"https://www.youtube.com/channel/UC1234567890",
		"https://cdn.example.com/dQw4w9WgXcQ.mp4",
		"https://drive.google.com/file/d/dQw4w9WgXcQ/view",
	}
	for _, link := range empty {
		if got := ExtractEmbedID(link); got != "" {
			t.Errorf("ExtractEmbedID(%q) = %q, want empty", link, got)
		}
	}
}

func TestToEmbeddableURL(t *testing.T) {
	tests := []struct {
		name string
		link string
		mode EmbedMode
		want string
	}{
		{"file view", "https://drive.google.com/file/d/1AbC_d-E/view?usp=sharing", ModePreview, "https://drive.google.com/file/d/1AbC_d-E/preview"},
		{"already preview", "https://drive.google.com/file/d/1AbC_d-E/preview", ModePreview, "https://drive.google.com/file/d/1AbC_d-E/preview"},
		{"open form", "https://drive.google.com/open?id=1AbC", ModePreview, "https://drive.google.com/file/d/1AbC/preview"},
		{"download mode", "https://drive.google.com/file/d/1AbC/view", ModeDownload, "https://drive.google.com/uc?export=download&id=1AbC"},
		{"folder passes through", "https://drive.google.com/drive/folders/xyz", ModePreview, "https://drive.google.com/drive/folders/xyz"},
		{"other host passes through", "https://cdn.example.com/a.mp4", ModePreview, "https://cdn.example.com/a.mp4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToEmbeddableURL(tt.link, tt.mode); got != tt.want {
				t.Errorf("ToEmbeddableURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestToEmbeddableURLIdempotent(t *testing.T) {
	links := []string{
		"https://drive.google.com/file/d/1AbC/view?usp=sharing",
		"https://drive.google.com/open?id=1AbC",
		"https://docs.google.com/uc?id=1AbC&export=view",
		"https://drive.google.com/drive/folders/xyz",
		"https://youtu.be/dQw4w9WgXcQ",
		"not a url at all",
	}
	for _, mode := range []EmbedMode{ModePreview, ModeDownload} {
		for _, link := range links {
			once := ToEmbeddableURL(link, mode)
			if twice := ToEmbeddableURL(once, mode); twice != once {
				t.Errorf("mode %d: %q -> %q -> %q", mode, link, once, twice)
			}
		}
	}
}

func TestResolutionLabel(t *testing.T) {
	tests := []struct {
		height int
		want   string
	}{
		{4320, "2160p (4K)"},
		{2160, "2160p (4K)"},
		{2159, "1440p"},
		{1440, "1440p"},
		{1080, "1080p"},
		{1079, "720p"},
		{720, "720p"},
		{480, "480p"},
		{360, "360p"},
		{240, "240p"},
		{239, "239p"},
		{100, "100p"},
		{0, ""},
		{-5, ""},
	}

	for _, tt := range tests {
		if got := ResolutionLabel(tt.height); got != tt.want {
			t.Errorf("ResolutionLabel(%d) = %q, want %q", tt.height, got, tt.want)
		}
	}
}

func TestQualityLabelRoundTrip(t *testing.T) {
	for _, height := range []int{2160, 1440, 1080, 720, 480, 360, 240} {
		token := QualityToken(height)
		if got := QualityLabel(token); got != ResolutionLabel(height) {
			t.Errorf("height %d: token %q labels as %q, want %q", height, token, got, ResolutionLabel(height))
		}
	}
	if got := QualityLabel("unknown"); got != "" {
		t.Errorf("QualityLabel(unknown) = %q, want empty", got)
	}
}

func TestResolve(t *testing.T) {
	src := Resolve(" https://youtu.be/dQw4w9WgXcQ ")
	scripted, ok := src.(ScriptedSource)
	if !ok {
		t.Fatalf("Resolve returned %T, want ScriptedSource", src)
	}
	if scripted.EmbedID != "dQw4w9WgXcQ" {
		t.Errorf("EmbedID = %q", scripted.EmbedID)
	}

	passive, ok := Resolve("https://drive.google.com/file/d/1AbC/view").(PassiveSource)
	if !ok {
		t.Fatal("expected PassiveSource")
	}
	if passive.EmbedURL != "https://drive.google.com/file/d/1AbC/preview" {
		t.Errorf("EmbedURL = %q", passive.EmbedURL)
	}

	direct := Resolve("https://cdn.example.com/a.mp3")
	if direct.Kind() != Direct || direct.Link() != "https://cdn.example.com/a.mp3" {
		t.Errorf("unexpected direct source %#v", direct)
	}
}
