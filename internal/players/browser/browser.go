// Package browser shows passive embeds in the system web browser.
package browser

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"
)

// Opener launches a browser command for each URL. It returns once the command
// has started; the browser keeps running on its own.
type Opener struct {
	command []string
	start   func(ctx context.Context, name string, args ...string) error
}

// New uses command when set (split on spaces, the URL appended) and the
// platform's default URL handler otherwise.
func New(command string) *Opener {
	return &Opener{
		command: strings.Fields(command),
		start:   startProcess,
	}
}

func (o *Opener) Open(ctx context.Context, url string) error {
	name, args := o.commandFor(url, runtime.GOOS)
	if name == "" {
		return fmt.Errorf("no browser command for %s", runtime.GOOS)
	}

	log.Debug("Opening in browser", "command", name, "url", url)

	if err := o.start(ctx, name, args...); err != nil {
		return fmt.Errorf("failed to start %s: %w", name, err)
	}
	return nil
}

func (o *Opener) commandFor(url, goos string) (string, []string) {
	if len(o.command) > 0 {
		args := append(append([]string{}, o.command[1:]...), url)
		return o.command[0], args
	}

	switch goos {
	case "darwin":
		return "open", []string{url}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}
	case "linux", "freebsd", "openbsd", "netbsd":
		return "xdg-open", []string{url}
	default:
		return "", nil
	}
}

// startProcess does not tie the browser to ctx; ctx only guards the launch.
func startProcess(ctx context.Context, name string, args ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() {
		if err := cmd.Wait(); err != nil {
			log.Debug("Browser command exited", "command", name, "error", err)
		}
	}()
	return nil
}
