package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/hayasedb/mediadeck/internal/catalog"
	"github.com/hayasedb/mediadeck/internal/dom"
	"github.com/hayasedb/mediadeck/internal/linkclass"
	"github.com/hayasedb/mediadeck/internal/models"
	"github.com/hayasedb/mediadeck/internal/players"
	"github.com/hayasedb/mediadeck/internal/players/browser"
	"github.com/hayasedb/mediadeck/internal/players/embed"
	"github.com/hayasedb/mediadeck/internal/players/mpv"
	"github.com/hayasedb/mediadeck/internal/players/native"
	"github.com/hayasedb/mediadeck/internal/players/passive"
	"github.com/hayasedb/mediadeck/internal/screen"
	"github.com/hayasedb/mediadeck/internal/storage"
	"github.com/hayasedb/mediadeck/internal/tui/app"
)

var (
	catalogPath string
	sectionName string
	itemID      string
	debug       bool
)

var rootCmd = &cobra.Command{
	Use:     "mediadeck",
	Short:   "Browse and play a media catalog from your terminal",
	Version: Version,
	Long: `mediadeck plays videos, music and podcasts from a catalog file.

Direct media links play in mpv, YouTube links play through yt-dlp and
Drive or Docs files open in your browser.

Examples:
  mediadeck                                  # Full TUI experience
  mediadeck --section music                  # Start in the music section
  mediadeck --item intro-video               # Play one item right away
  mediadeck --catalog ~/media/catalog.yaml   # Use your own catalog`,

	RunE: runBrowse,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&catalogPath, "catalog", "c", "", "Catalog file (overrides the configured one)")
	rootCmd.Flags().StringVarP(&sectionName, "section", "s", "", "Section to open (videos, music, podcasts)")
	rootCmd.Flags().StringVarP(&itemID, "item", "i", "", "Item id to play")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
}

func runBrowse(*cobra.Command, []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if !canAccessTTY() {
		fmt.Println("Warning: mediadeck needs a terminal.")
		fmt.Println("   Use 'mediadeck list' or 'mediadeck classify <link>' instead.")
		return fmt.Errorf("TTY not available for interactive mode")
	}

	logFile, err := setupFileLogging()
	if err != nil {
		fmt.Printf("Warning: Could not setup file logging: %v\n", err)
	} else {
		defer func() {
			if err := logFile.Close(); err != nil {
				log.Debug("Failed to close log file", "error", err)
			}
		}()
		log.Info("Starting mediadeck", "version", Version, "timestamp", time.Now())
	}

	setLogLevel()

	config, err := storage.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	cat, err := loadCatalog(config)
	if err != nil {
		return err
	}

	start, err := startSelection(cat)
	if err != nil {
		return err
	}

	registry, err := newRegistry(config.GetPlayer())
	if err != nil {
		return err
	}

	env := newEnv(config)

	model := app.NewModel(ctx, cancel, cat, registry, env, config, start)

	p := tea.NewProgram(
		&model,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithContext(ctx),
	)
	env.Send = p.Send

	_, err = p.Run()
	return err
}

func setLogLevel() {
	if debug {
		log.SetLevel(log.DebugLevel)
		log.Debug("Debug logging enabled")
	} else {
		log.SetLevel(log.InfoLevel)
	}
}

// loadCatalog prefers --catalog, then the configured file, then the built-in one.
func loadCatalog(config *storage.Config) (*models.Catalog, error) {
	path := catalogPath
	if path == "" {
		path = config.GetCatalog()
	}
	cat, err := catalog.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	if cat.Len() == 0 {
		return nil, fmt.Errorf("catalog is empty")
	}
	return cat, nil
}

func startSelection(cat *models.Catalog) (app.Start, error) {
	var start app.Start

	if sectionName != "" {
		kind, err := models.ParseKind(sectionName)
		if err != nil {
			return start, err
		}
		start.Kind = kind
		start.HasKind = true
	}

	if itemID != "" {
		item, kind, ok := cat.Find(itemID)
		if !ok {
			return start, fmt.Errorf("%q: %w", itemID, catalog.ErrNotFound)
		}
		if start.HasKind && kind != start.Kind {
			return start, fmt.Errorf("item %q is in %s, not %s", itemID, kind, start.Kind)
		}
		start.Kind = kind
		start.HasKind = true
		start.Item = item
	}

	return start, nil
}

// newEnv wires the mpv, screen and browser bindings the controllers share.
func newEnv(config *storage.Config) *players.Env {
	opts := mpv.DefaultOptions()
	opts.Hwdec = config.GetHwdec()
	opts.YtdlFormat = config.GetYtdlFormat()

	mpvScreen := mpv.NewScreen()
	adapter := screen.NewAdapter(nil, mpvScreen)

	env := &players.Env{
		Screen:    adapter,
		Prefs:     players.NewPreferences(),
		Container: dom.NewContainer("player"),
		External:  mpv.NewExternalAPI(opts, mpvScreen),
		Frames:    browser.New(config.GetBrowser()),
	}

	env.NewMedia = func() (players.MediaElement, error) {
		media, err := mpv.NewMedia(opts)
		if err != nil {
			return nil, fmt.Errorf("failed to start mpv: %w", err)
		}
		media.OnFullscreenChange = adapter.Notify
		return media, nil
	}

	return env
}

// newRegistry maps link kinds to controllers for the configured player.
// "browser" hands every item to the browser, mpv included.
func newRegistry(player string) (*players.Registry, error) {
	registry := players.NewRegistry()

	switch player {
	case "mpv", "":
		registry.Register(linkclass.Direct, native.Mount)
		registry.Register(linkclass.ScriptedEmbed, embed.Mount)
		registry.Register(linkclass.PassiveEmbed, passive.Mount)
	case "browser":
		registry.Register(linkclass.PassiveEmbed, passive.Mount)
		registry.Register(linkclass.Direct, passive.Mount)
		registry.Register(linkclass.ScriptedEmbed, passive.Mount)
	default:
		return nil, fmt.Errorf("unknown player %q (want mpv or browser)", player)
	}

	log.Debug("Player registry ready", "player", player)
	return registry, nil
}

func canAccessTTY() bool {
	if file, err := os.OpenFile("/dev/tty", os.O_RDWR, 0); err == nil {
		func() {
			if err := file.Close(); err != nil {
				log.Debug("Failed to close TTY file", "error", err)
			}
		}()
		return true
	}

	if fi, err := os.Stdin.Stat(); err == nil {
		if (fi.Mode() & os.ModeCharDevice) != 0 {
			return true
		}
	}

	return false
}

func setupFileLogging() (*os.File, error) {
	configDir, err := storage.ConfigDir()
	if err != nil {
		return nil, fmt.Errorf("could not get config directory: %w", err)
	}

	logDir := filepath.Join(configDir, "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("could not create log directory: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	logPath := filepath.Join(logDir, fmt.Sprintf("%s-%s.log", storage.AppName, timestamp))

	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("could not open log file: %w", err)
	}

	log.SetOutput(logFile)

	fmt.Printf("Logging to: %s\n", logPath)

	return logFile, nil
}
