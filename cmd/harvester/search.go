package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/openlit/harvester/internal/observability"
	"github.com/openlit/harvester/internal/pipeline"
	"github.com/openlit/harvester/internal/store"
	"github.com/openlit/harvester/pkg/types"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "harvester/0.1"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search providers for a topic and download open-access PDFs",
	Long: `Search runs one full session: queries every provider in order, filters and
ranks the merged results, attempts a full-text download for each unique paper,
and packages everything into a session folder under the downloads directory.

Papers without an obtainable PDF are kept as abstract-only entries. The final
report is printed to stdout; session logs land in the session's Errors folder.`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().String("query", "", "search topic (alternatively pass as positional args)")
	searchCmd.Flags().Int("max-results", 0, "maximum results per source (clamped to 1-50, default 20)")
	searchCmd.Flags().Int("year-start", 0, "keep only papers published in or after this year")
	searchCmd.Flags().Int("year-end", 0, "keep only papers published in or before this year")
	searchCmd.Flags().String("downloads-dir", "", "base directory for session folders (default ./downloads)")
	searchCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 30s)")
	searchCmd.Flags().Duration("min-interval", 0, "minimum spacing between outbound requests (default 1s)")
	searchCmd.Flags().String("core-api-key", "", "CORE v3 API key (or .secrets/core-api-key)")
	searchCmd.Flags().String("s2-api-key", "", "Semantic Scholar API key (or .secrets/semantic-scholar-api-key)")
	searchCmd.Flags().String("email", "", "contact email for polite API pools (or .secrets/contact-email)")
	searchCmd.Flags().Bool("json", false, "print the full report as JSON")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query, _ := cmd.Flags().GetString("query")
	if query == "" && len(args) > 0 {
		query = strings.Join(args, " ")
	}
	if query == "" {
		return fmt.Errorf("provide a search query")
	}

	cfg := searchPipelineConfig(cmd)

	level, _ := rootCmd.PersistentFlags().GetString("log-level")
	logger := observability.NewLogger(observability.LoggingConfig{
		Level:  level,
		Format: "console",
		Output: "stderr",
	})

	p := pipeline.New(cfg, logger)
	catalog, err := store.Open(cfg.Catalog)
	if err != nil {
		logger.Warn().Err(err).Msg("catalog unavailable, history will not record this session")
	} else {
		p.Catalog = catalog
		defer catalog.Close()
	}

	req := pipeline.Request{Query: query}
	req.MaxResults, _ = cmd.Flags().GetInt("max-results")
	yearStart, _ := cmd.Flags().GetInt("year-start")
	yearEnd, _ := cmd.Flags().GetInt("year-end")
	if yearStart != 0 || yearEnd != 0 {
		req.YearRange = &types.YearRange{Start: yearStart, End: yearEnd}
	}

	rep := p.Run(context.Background(), req)

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if err := formatReport(rep, jsonOutput); err != nil {
		return err
	}
	if rep.Status == types.StatusError {
		return fmt.Errorf("search failed: %s", rep.Message)
	}
	return nil
}

func searchPipelineConfig(cmd *cobra.Command) types.PipelineConfig {
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}
	minInterval, _ := cmd.Flags().GetDuration("min-interval")
	downloadsDir, _ := cmd.Flags().GetString("downloads-dir")
	if downloadsDir == "" {
		downloadsDir = viper.GetString("downloads_dir")
	}
	if downloadsDir == "" {
		downloadsDir = "downloads"
	}

	coreKey, _ := cmd.Flags().GetString("core-api-key")
	s2Key, _ := cmd.Flags().GetString("s2-api-key")
	email, _ := cmd.Flags().GetString("email")

	httpCfg := types.HTTPConfig{Timeout: timeout, UserAgent: defaultUserAgent}

	return types.PipelineConfig{
		Search: types.SearchConfig{
			HTTPConfig:            httpCfg,
			MinRequestInterval:    minInterval,
			CoreAPIKey:            secretDefault("core-api-key", coreKey),
			SemanticScholarAPIKey: secretDefault("semantic-scholar-api-key", s2Key),
			ContactEmail:          secretDefault("contact-email", email),
		},
		Acquisition: types.AcquisitionConfig{
			HTTPConfig:   httpCfg,
			ContactEmail: secretDefault("contact-email", email),
		},
		Catalog:      types.CatalogConfig{Dir: downloadsDir},
		DownloadsDir: downloadsDir,
	}
}

func formatReport(rep types.Report, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}

	if rep.Status == types.StatusError {
		fmt.Fprintf(os.Stdout, "FAILED: %s\n", rep.Message)
		return nil
	}

	fmt.Fprintf(os.Stdout, "Session %s: %d papers (%d PDFs, %d abstract-only)\n",
		rep.SessionID, rep.Count, rep.PDFCount, rep.AbstractCount)
	if rep.ErrorCount > 0 || rep.WarningCount > 0 {
		fmt.Fprintf(os.Stdout, "%d errors, %d warnings (see session Errors folder)\n",
			rep.ErrorCount, rep.WarningCount)
	}

	for i, p := range rep.Papers {
		title := p.Title
		if len(title) > 70 {
			title = title[:67] + "..."
		}
		fmt.Fprintf(os.Stdout, "%3d. [%2d] %-70s  %s  %s\n",
			i+1, p.RelevanceScore, title, p.Year, p.AccessType)
	}

	if rep.ArchivePath != "" {
		fmt.Fprintf(os.Stdout, "\nArchive: %s\n", rep.ArchivePath)
	}
	return nil
}
