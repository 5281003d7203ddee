package main

import (
	"encoding/json"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/renbran/dubai-sme-scraper-sub000/internal/leadgen"
)

var (
	searchLocation   string
	searchMaxResults int
	searchMinResults int
	searchSources    []string
	searchScore      bool
	searchEnrich     bool
	searchFull       bool
)

var searchCmd = &cobra.Command{
	Use:   "search QUERY",
	Short: "Search every configured source for businesses matching QUERY",
	Long: "Runs one multi-source search and prints the merged records as JSON. " +
		"With --score the ranked leads are printed instead, and --full prints the " +
		"whole result including the search session.",
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if searchEnrich {
			cfg.Enrich.Enabled = true
		}
		e, err := initEnv(cfg, "search", nil)
		if err != nil {
			return err
		}

		req := leadgen.Request{
			Query:    strings.Join(args, " "),
			Location: searchLocation,
			Options:  e.Options,
			Enrich:   searchEnrich,
			Score:    searchScore,
		}
		if searchMaxResults > 0 {
			req.Options.MaxResults = searchMaxResults
		}
		if searchMinResults > 0 {
			req.Options.RequireMinResults = searchMinResults
		}
		if len(searchSources) > 0 {
			req.Options.SourceOrder = searchSources
		}

		res, err := e.Pipeline.Run(ctx, req)
		if err != nil {
			return eris.Wrap(err, "search")
		}

		if s := res.Session; s != nil {
			zap.L().Info("search complete",
				zap.String("session", s.ID),
				zap.Strings("sources_used", s.SourcesUsed),
				zap.Int("fetched", s.Fetched),
				zap.Int("duplicates", s.Duplicates),
				zap.Int("returned", s.Returned),
				zap.Bool("fallback", s.UsedFallback),
				zap.Duration("duration", s.Duration),
			)
		}

		var out any = res.Records
		switch {
		case searchFull:
			out = res
		case searchScore:
			out = res.Leads
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(out), "search: write output")
	},
}

func init() {
	searchCmd.Flags().StringVar(&searchLocation, "location", "", "location appended to the query, e.g. \"Dubai Marina\"")
	searchCmd.Flags().IntVar(&searchMaxResults, "max-results", 0, "maximum records to return (default from config)")
	searchCmd.Flags().IntVar(&searchMinResults, "min-results", 0, "stop trying sources once this many records are found (default from config)")
	searchCmd.Flags().StringSliceVar(&searchSources, "sources", nil, "comma-separated source order (default from config)")
	searchCmd.Flags().BoolVar(&searchScore, "score", false, "score and rank the records as leads")
	searchCmd.Flags().BoolVar(&searchEnrich, "enrich", false, "enrich records with website, AI and contact data")
	searchCmd.Flags().BoolVar(&searchFull, "full", false, "print the full result including the search session")
	rootCmd.AddCommand(searchCmd)
}
