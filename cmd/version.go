package cmd

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/hayasedb/mediadeck/internal/players/mpv"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long: `Display version, commit and build date information for mediadeck,
along with the stream resolver YouTube links will be played through.`,
	RunE: runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func runVersion(*cobra.Command, []string) error {
	resolver := mpv.NewExternalAPI(mpv.DefaultOptions(), nil).Resolver()
	printVersion(os.Stdout, resolver)
	return nil
}

func printVersion(w io.Writer, resolver string) {
	fmt.Fprintf(w, "mediadeck %s\n", Version)
	fmt.Fprintf(w, "Commit: %s\n", Commit)
	fmt.Fprintf(w, "Built: %s\n", Date)
	fmt.Fprintf(w, "Go: %s\n", runtime.Version())
	fmt.Fprintf(w, "Platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)

	if resolver == "" {
		resolver = "not found (YouTube items will be unavailable)"
	}
	fmt.Fprintf(w, "Resolver: %s\n", resolver)
}

func SetVersionInfo(version, commit, date string) {
	Version = version
	Commit = commit
	Date = date
	rootCmd.Version = version
}
