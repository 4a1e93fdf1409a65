// Command crosslink runs the cross-venue market matching service: catalog
// ingestion, the matching engine, watchlist sync, and the review CLI.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/pmxlab/crosslink/internal/config"
	"github.com/pmxlab/crosslink/internal/domain"
	"github.com/pmxlab/crosslink/internal/engine"
	"github.com/pmxlab/crosslink/internal/ingest"
	"github.com/pmxlab/crosslink/internal/metrics"
	"github.com/pmxlab/crosslink/internal/persistence"
	"github.com/pmxlab/crosslink/internal/persistence/postgres"
	"github.com/pmxlab/crosslink/internal/pipeline"
	"github.com/pmxlab/crosslink/internal/sched"
	"github.com/pmxlab/crosslink/internal/venue"
	"github.com/pmxlab/crosslink/internal/watchlist"
)

var (
	cfgPath string
	cfg     *config.Config
)

// app bundles the wired collaborators each command needs.
type app struct {
	markets   persistence.MarketRepository
	links     persistence.MarketLinkRepository
	watchrepo persistence.WatchlistRepository
	runs      persistence.IngestionRepository
	redis     *redis.Client
	close     func()
}

func main() {
	godotenv.Load()
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})

	root := &cobra.Command{
		Use:           "crosslink",
		Short:         "Cross-venue prediction-market matching engine",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(cfgPath)
			return err
		},
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "path to YAML config (defaults apply when empty)")

	root.AddCommand(
		matchCmd(),
		ingestCmd(),
		watchlistCmd(),
		suggestionsCmd(),
		statusCmd(),
		daemonCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := root.ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// connect wires Postgres (and Redis when enabled).
func connect(ctx context.Context) (*app, error) {
	db, err := postgres.Connect(ctx, cfg.Database.DSN, cfg.Database.MaxOpenConns)
	if err != nil {
		return nil, err
	}
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	timeout := cfg.DBTimeout()

	a := &app{
		markets:   postgres.NewMarketsRepo(db, timeout),
		links:     postgres.NewLinksRepo(db, timeout),
		watchrepo: postgres.NewWatchlistRepo(db, timeout),
		runs:      postgres.NewIngestionRepo(db, timeout),
	}
	closers := []func(){func() { db.Close() }}
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		a.redis = rdb
		closers = append(closers, func() { rdb.Close() })
	}
	a.close = func() {
		for _, c := range closers {
			c()
		}
	}
	return a, nil
}

func (a *app) ingester() *ingest.Ingester {
	in := ingest.New(a.markets, a.runs, cfg.Write.BatchSize)
	in.AddCatalog(venue.NewKalshiClient(
		cfg.Venues.Kalshi.BaseURL, cfg.Venues.Kalshi.RatePerSec,
		cfg.Venues.Kalshi.Burst, cfg.FetchTimeout(), cfg.Fetch.MaxAttempts),
		cfg.Venues.Kalshi.PageLimit)
	in.AddCatalog(venue.NewPolymarketClient(
		cfg.Venues.Polymarket.BaseURL, cfg.Venues.Polymarket.RatePerSec,
		cfg.Venues.Polymarket.Burst, cfg.FetchTimeout(), cfg.Fetch.MaxAttempts),
		cfg.Venues.Polymarket.PageLimit)
	return in
}

func isTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func printJSON(v any) {
	raw, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(raw))
}

func matchCmd() *cobra.Command {
	var (
		left, right, topicFlag, explain string
		asJSON                          bool
	)
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Run the matching engine for a venue pair and topic",
		RunE: func(cmd *cobra.Command, args []string) error {
			lv, err := domain.ParseVenue(left)
			if err != nil {
				return err
			}
			rv, err := domain.ParseVenue(right)
			if err != nil {
				return err
			}

			a, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			pipeline.RegisterAll()
			eng := engine.New(a.markets, a.links, cfg)

			if explain != "" {
				topic, terr := domain.ParseTopic(topicFlag)
				if terr != nil {
					return terr
				}
				parts := strings.SplitN(explain, ":", 2)
				if len(parts) != 2 {
					return fmt.Errorf("--explain wants <leftID>:<rightID>, got %q", explain)
				}
				leftID, _ := strconv.ParseInt(parts[0], 10, 64)
				rightID, _ := strconv.ParseInt(parts[1], 10, 64)
				out, eerr := eng.Explain(cmd.Context(), engine.RunOptions{
					LeftVenue: lv, RightVenue: rv, Topic: topic,
				}, leftID, rightID)
				if eerr != nil {
					return eerr
				}
				fmt.Println(out)
				return nil
			}

			var summaries []*engine.RunSummary
			if strings.EqualFold(topicFlag, "all") {
				summaries, err = eng.RunAll(cmd.Context(), lv, rv)
			} else {
				topic, terr := domain.ParseTopic(topicFlag)
				if terr != nil {
					return terr
				}
				var s *engine.RunSummary
				s, err = eng.Run(cmd.Context(), engine.RunOptions{LeftVenue: lv, RightVenue: rv, Topic: topic})
				if s != nil {
					summaries = append(summaries, s)
				}
			}
			for _, s := range summaries {
				if asJSON || !isTTY() {
					fmt.Println(s.JSON())
				} else {
					fmt.Print(s.Table())
				}
			}
			return err
		},
	}
	cmd.Flags().StringVar(&left, "left", "kalshi", "left venue")
	cmd.Flags().StringVar(&right, "right", "polymarket", "right venue")
	cmd.Flags().StringVar(&topicFlag, "topic", "all", "topic to match, or 'all'")
	cmd.Flags().StringVar(&explain, "explain", "", "re-score one pair: <leftID>:<rightID>")
	cmd.Flags().BoolVar(&asJSON, "json", false, "force JSON output")
	return cmd
}

func ingestCmd() *cobra.Command {
	var venueFlag string
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Page venue catalogs into the market store",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			in := a.ingester()
			if strings.EqualFold(venueFlag, "all") {
				runs := in.RunAll(cmd.Context())
				printJSON(runs)
				return nil
			}
			v, err := domain.ParseVenue(venueFlag)
			if err != nil {
				return err
			}
			run, err := in.Run(cmd.Context(), v)
			if run != nil {
				printJSON(run)
			}
			return err
		},
	}
	cmd.Flags().StringVar(&venueFlag, "venue", "all", "venue to ingest, or 'all'")
	return cmd
}

func watchlistCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watchlist",
		Short: "Watchlist sync and stats",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "sync",
		Short: "Recompute the watchlist from current links",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()
			res, err := watchlist.NewSyncer(a.links, a.watchrepo, a.redis, cfg).Sync(cmd.Context())
			if err != nil {
				return err
			}
			printJSON(res)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Watchlist counts by venue and priority",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()
			stats, err := a.watchrepo.GetStats(cmd.Context())
			if err != nil {
				return err
			}
			printJSON(stats)
			return nil
		},
	})
	return cmd
}

func suggestionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suggestions",
		Short: "List and review link suggestions",
	}

	var (
		minScore   float64
		statusFlag string
		limit      int
	)
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List link suggestions",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()
			links, err := a.links.ListSuggestions(cmd.Context(), persistence.LinkQuery{
				MinScore: minScore,
				Status:   domain.LinkStatus(statusFlag),
				Limit:    limit,
			})
			if err != nil {
				return err
			}
			if !isTTY() {
				printJSON(links)
				return nil
			}
			for _, l := range links {
				fmt.Printf("%6d  %.3f  %-10s %-14s %d:%d  %s\n",
					l.ID, l.Score, l.Status, l.Topic, l.LeftMarketID, l.RightMarketID, l.AlgoVersion)
			}
			return nil
		},
	}
	listCmd.Flags().Float64Var(&minScore, "min-score", 0, "minimum score")
	listCmd.Flags().StringVar(&statusFlag, "status", "suggested", "status filter, empty for any")
	listCmd.Flags().IntVar(&limit, "limit", 50, "max rows")
	cmd.AddCommand(listCmd)

	cmd.AddCommand(reviewCmd("confirm", "Confirm a suggestion", func(ctx context.Context, a *app, id int64) error {
		return a.links.Confirm(ctx, id)
	}))
	cmd.AddCommand(reviewCmd("reject", "Reject a suggestion", func(ctx context.Context, a *app, id int64) error {
		return a.links.Reject(ctx, id)
	}))

	var (
		olderThan int
		dryRun    bool
		algo      string
	)
	cleanupCmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Prune stale suggestions",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()
			n, err := a.links.CleanupSuggestions(cmd.Context(), persistence.CleanupQuery{
				OlderThanDays: olderThan,
				Status:        domain.LinkSuggested,
				AlgoVersion:   algo,
				DryRun:        dryRun,
			})
			if err != nil {
				return err
			}
			if dryRun {
				fmt.Printf("would delete %d suggestions\n", n)
			} else {
				fmt.Printf("deleted %d suggestions\n", n)
			}
			return nil
		},
	}
	cleanupCmd.Flags().IntVar(&olderThan, "older-than-days", 30, "age threshold")
	cleanupCmd.Flags().BoolVar(&dryRun, "dry-run", false, "count only")
	cleanupCmd.Flags().StringVar(&algo, "algo-version", "", "restrict to one algo version")
	cmd.AddCommand(cleanupCmd)

	return cmd
}

func reviewCmd(use, short string, fn func(context.Context, *app, int64) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("bad link id %q", args[0])
			}
			a, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()
			if err := fn(cmd.Context(), a, id); err != nil {
				return err
			}
			fmt.Printf("link %d %sed\n", id, use)
			return nil
		},
	}
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Market and link counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			out := map[string]any{}
			for _, v := range domain.AllVenues() {
				counts, err := a.markets.GetStatusCounts(cmd.Context(), v)
				if err != nil {
					return err
				}
				out["markets_"+string(v)] = counts
			}
			linkCounts, err := a.links.CountByStatus(cmd.Context())
			if err != nil {
				return err
			}
			out["links"] = linkCounts
			printJSON(out)
			return nil
		},
	}
}

func daemonCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Run scheduled ingest, match, and watchlist sync",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			pipeline.RegisterAll()
			srv := metrics.NewServer(cfg.Metrics.Addr)
			srv.Start()
			defer srv.Close()

			eng := engine.New(a.markets, a.links, cfg)
			syncer := watchlist.NewSyncer(a.links, a.watchrepo, a.redis, cfg)
			d := sched.NewDaemon(eng, a.ingester(), syncer, cfg)
			err = d.Start(cmd.Context())
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
}
