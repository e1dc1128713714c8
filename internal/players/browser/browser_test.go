package browser

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestCommandFor(t *testing.T) {
	tests := []struct {
		name     string
		command  string
		goos     string
		wantName string
		wantArgs []string
	}{
		{"linux default", "", "linux", "xdg-open", []string{"https://x"}},
		{"mac default", "", "darwin", "open", []string{"https://x"}},
		{"windows default", "", "windows", "rundll32", []string{"url.dll,FileProtocolHandler", "https://x"}},
		{"configured", "firefox --new-window", "linux", "firefox", []string{"--new-window", "https://x"}},
		{"unknown os", "", "plan9", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, args := New(tt.command).commandFor("https://x", tt.goos)
			if name != tt.wantName || !reflect.DeepEqual(args, tt.wantArgs) {
				t.Errorf("commandFor = %q %v, want %q %v", name, args, tt.wantName, tt.wantArgs)
			}
		})
	}
}

func TestOpenUsesConfiguredCommand(t *testing.T) {
	o := New("mybrowser --flag")
	var gotName string
	var gotArgs []string
	o.start = func(_ context.Context, name string, args ...string) error {
		gotName, gotArgs = name, args
		return nil
	}

	if err := o.Open(context.Background(), "https://drive.google.com/file/d/x/preview"); err != nil {
		t.Fatal(err)
	}
	if gotName != "mybrowser" || len(gotArgs) != 2 || gotArgs[1] != "https://drive.google.com/file/d/x/preview" {
		t.Errorf("started %q %v", gotName, gotArgs)
	}
}

func TestOpenWrapsStartError(t *testing.T) {
	o := New("missing-browser")
	boom := errors.New("exec: not found")
	o.start = func(context.Context, string, ...string) error { return boom }

	if err := o.Open(context.Background(), "https://x"); !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped %v", err, boom)
	}
}

func TestStartProcessHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := startProcess(ctx, "true"); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
