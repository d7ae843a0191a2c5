package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/lineage-engine/internal/cache"
	"github.com/pdiddy/lineage-engine/internal/ratelimit"
	"github.com/pdiddy/lineage-engine/internal/search"
	"github.com/pdiddy/lineage-engine/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search genealogical providers for records matching a person",
	Long: `Search queries the configured record providers for a person and merges
the results into one deduplicated list ranked by match confidence. Results
are cached; an identical query repeated within the cache TTL is served
locally without counting against the rate limit.`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().String("given", "", "given name to search for")
	searchCmd.Flags().String("surname", "", "surname to search for")
	searchCmd.Flags().Int("year", 0, "life event year (birth, census, marriage)")
	searchCmd.Flags().String("place", "", "event place")
	searchCmd.Flags().String("record-type", "", "restrict to a record type (e.g. Census, Birth, Marriage)")
	searchCmd.Flags().Int("max-results", 0, "maximum number of results to return")
	searchCmd.Flags().Bool("collections", false, "also search the record-collection catalog")
	searchCmd.Flags().Bool("json", false, "output results as JSON")
	searchCmd.Flags().Bool("no-cache", false, "bypass the result cache")
	searchCmd.Flags().String("save", "", "save the query and results to a YAML file")
	searchCmd.Flags().String("load", "", "print a previously saved result file instead of searching")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")

	if path, _ := cmd.Flags().GetString("load"); path != "" {
		rf, err := search.ReadResultFile(path)
		if err != nil {
			return err
		}
		out := search.Output{Matches: rf.Matches, DupsRemoved: rf.Summary.DuplicatesRemoved}
		if asJSON {
			return search.FormatJSON(out, os.Stdout)
		}
		search.FormatTable(out, os.Stdout)
		return nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	query := queryFromFlags(cmd)
	if query.IsEmpty() {
		return fmt.Errorf("provide at least one of --given, --surname, --place or --record-type")
	}
	if query.MaxResults > 0 {
		cfg.Search.MaxResults = query.MaxResults
	}
	if enable, _ := cmd.Flags().GetBool("collections"); enable {
		cfg.Search.EnableCollections = true
	}
	cfg.Search.AccessToken = secretDefault("familysearch-access-token", cfg.Search.AccessToken)

	store, err := openStore(cmd, cfg.Cache)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	limiter := ratelimit.New(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.RequestsPerHour, logger)
	httpClient := &http.Client{Timeout: cfg.Search.Timeout}

	var providers []search.Provider
	if cfg.Search.EnableRecords {
		providers = append(providers, &search.RecordsProvider{Client: httpClient})
	}
	if cfg.Search.EnableCollections {
		providers = append(providers, &search.CollectionsProvider{Client: httpClient})
	}

	clients := make([]*search.Client, len(providers))
	for i, p := range providers {
		clients[i] = search.NewClient(p, limiter, store, cfg.Retry, logger)
	}

	out, err := search.Search(cmd.Context(), query, clients, cfg.Search, logger)
	if err != nil {
		return err
	}

	stats := limiter.Stats()
	logger.Debug("rate limit usage",
		"minute", fmt.Sprintf("%d/%d", stats.MinuteUsed, stats.MinuteLimit),
		"hour", fmt.Sprintf("%d/%d", stats.HourUsed, stats.HourLimit))

	if path, _ := cmd.Flags().GetString("save"); path != "" {
		if err := search.WriteResultFile(path, query, cfg.Search, out); err != nil {
			return err
		}
		logger.Info("saved results", "path", path)
	}

	if asJSON {
		return search.FormatJSON(out, os.Stdout)
	}
	search.FormatTable(out, os.Stdout)
	return nil
}

func queryFromFlags(cmd *cobra.Command) search.Query {
	given, _ := cmd.Flags().GetString("given")
	surname, _ := cmd.Flags().GetString("surname")
	year, _ := cmd.Flags().GetInt("year")
	place, _ := cmd.Flags().GetString("place")
	recordType, _ := cmd.Flags().GetString("record-type")
	maxResults, _ := cmd.Flags().GetInt("max-results")

	return search.Query{
		GivenName:  given,
		Surname:    surname,
		Year:       year,
		Place:      place,
		RecordType: recordType,
		MaxResults: maxResults,
	}
}

// openStore selects the cache backend: none with --no-cache, SQLite when a
// path is configured, in-memory otherwise.
func openStore(cmd *cobra.Command, cfg types.CacheConfig) (cache.Store, error) {
	if noCache, _ := cmd.Flags().GetBool("no-cache"); noCache {
		return nil, nil
	}
	if cfg.Path != "" {
		return cache.NewSQLite(cfg.Path, cfg.TTL, cfg.MaxEntries)
	}
	return cache.NewMemory(cfg.TTL, cfg.MaxEntries), nil
}
