package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/hayasedb/mediadeck/internal/linkclass"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <link>",
	Short: "Show how a link would be played",
	Long: `Show the playback strategy chosen for a link and the ids and URLs
derived from it.

Examples:
  mediadeck classify https://youtu.be/dQw4w9WgXcQ
  mediadeck classify https://drive.google.com/file/d/abc123/view`,

	Args: cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		printSource(os.Stdout, linkclass.Resolve(args[0]))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(classifyCmd)
}

func printSource(w io.Writer, src linkclass.Source) {
	fmt.Fprintf(w, "Kind:      %s\n", src.Kind())

	switch src := src.(type) {
	case linkclass.ScriptedSource:
		if src.EmbedID == "" {
			fmt.Fprintln(w, "Embed id:  (none, playback unavailable)")
			return
		}
		fmt.Fprintf(w, "Embed id:  %s\n", src.EmbedID)
		fmt.Fprintf(w, "Watch:     %s\n", linkclass.WatchURL(src.EmbedID))
		fmt.Fprintf(w, "Embed:     %s\n", linkclass.EmbedURL(src.EmbedID))
	case linkclass.PassiveSource:
		fmt.Fprintf(w, "Preview:   %s\n", src.EmbedURL)
		fmt.Fprintf(w, "Download:  %s\n", linkclass.ToEmbeddableURL(src.Original, linkclass.ModeDownload))
	case linkclass.DirectSource:
		fmt.Fprintf(w, "Source:    %s\n", src.URL)
	}
}
