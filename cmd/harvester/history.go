package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/openlit/harvester/internal/store"
	"github.com/openlit/harvester/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past search sessions from the local catalog",
	Long: `History reads the session catalog (harvester.db under the downloads
directory) and lists completed sessions, newest first.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum sessions to list")
	historyCmd.Flags().String("downloads-dir", "", "base directory holding the catalog (default ./downloads)")
	historyCmd.Flags().Bool("json", false, "output sessions as JSON")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	downloadsDir, _ := cmd.Flags().GetString("downloads-dir")
	if downloadsDir == "" {
		downloadsDir = viper.GetString("downloads_dir")
	}
	if downloadsDir == "" {
		downloadsDir = "downloads"
	}
	limit, _ := cmd.Flags().GetInt("limit")

	catalog, err := store.Open(types.CatalogConfig{Dir: downloadsDir})
	if err != nil {
		return err
	}
	defer catalog.Close()

	sessions, err := catalog.ListSessions(context.Background(), limit)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(sessions)
	}

	if len(sessions) == 0 {
		fmt.Println("No sessions recorded.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-22s  %-40s  %6s  %5s  %9s  %6s\n",
		"Session", "Query", "Papers", "PDFs", "Abstracts", "Errors")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 98))

	for _, s := range sessions {
		query := s.Query
		if len(query) > 40 {
			query = query[:37] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-22s  %-40s  %6d  %5d  %9d  %6d\n",
			s.ID, query, s.Total, s.PDFCount, s.AbstractCount, s.ErrorCount)
	}

	fmt.Fprintf(os.Stdout, "\n%d sessions\n", len(sessions))
	return nil
}
