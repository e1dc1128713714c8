package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/hayasedb/mediadeck/internal/catalog"
	"github.com/hayasedb/mediadeck/internal/linkclass"
	"github.com/hayasedb/mediadeck/internal/models"
	"github.com/hayasedb/mediadeck/internal/storage"
)

var listQuery string

var listCmd = &cobra.Command{
	Use:   "list [section]",
	Short: "Print the items of a catalog section",
	Long: `Print the items of a catalog section with their ids and playback kind.
Without a section every section is printed.

Examples:
  mediadeck list                     # Everything
  mediadeck list music               # Music only
  mediadeck list videos -q trailer   # Videos matching "trailer"`,

	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVarP(&listQuery, "query", "q", "", "Only show items matching the query")
	rootCmd.AddCommand(listCmd)
}

func runList(_ *cobra.Command, args []string) error {
	setLogLevel()

	config, err := storage.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	cat, err := loadCatalog(config)
	if err != nil {
		return err
	}

	kinds := models.Kinds
	if len(args) == 1 {
		kind, err := models.ParseKind(args[0])
		if err != nil {
			return err
		}
		kinds = []models.Kind{kind}
	}

	for _, kind := range kinds {
		printSection(os.Stdout, kind, catalog.Search(cat.Items(kind), listQuery))
	}
	return nil
}

func printSection(w io.Writer, kind models.Kind, results []*models.SearchResult) {
	fmt.Fprintf(w, "%s (%d)\n", kind.Title(), len(results))
	for _, r := range results {
		fmt.Fprintf(w, "  %-20s %-15s %s\n", r.Item.ID, linkclass.Classify(r.Item.Link), r.Item.String())
	}
	fmt.Fprintln(w)
}
