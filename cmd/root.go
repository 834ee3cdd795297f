package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/userdeck/userdeck/internal/api"
	"github.com/userdeck/userdeck/internal/config"
	"github.com/userdeck/userdeck/internal/config/data"
	"github.com/userdeck/userdeck/internal/logging"
	"github.com/userdeck/userdeck/internal/model"
	"github.com/userdeck/userdeck/internal/model1"
	"github.com/userdeck/userdeck/internal/render"
	"github.com/userdeck/userdeck/internal/telemetry"
	"github.com/userdeck/userdeck/internal/view"
)

const (
	appName    = "userdeck"
	appVersion = "0.1.0"
)

var (
	deckFlags *data.Flags
	listPage  int
	listWide  bool
	listCol   string
	listDesc  bool
	rootCmd   = &cobra.Command{
		Use:   appName,
		Short: "A terminal admin client for user records",
		Long:  `userdeck browses, filters and edits the user records of a REST collection.`,
		RunE:  run,
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s\n", appName, appVersion)
		},
	}
	listCmd = &cobra.Command{
		Use:   "list",
		Short: "Print one page of users and exit",
		RunE:  runList,
	}
)

func init() {
	deckFlags = config.NewFlags()
	initDeckFlags()
	listCmd.Flags().IntVarP(&listPage, "page", "p", 1, "Page to print")
	listCmd.Flags().BoolVarP(&listWide, "wide", "w", false, "Print every column")
	listCmd.Flags().StringVar(&listCol, "sortCol", "", "Sort the printed rows on this column (NAME, AGE, ...)")
	listCmd.Flags().BoolVar(&listDesc, "desc", false, "Reverse the column sort")
	rootCmd.AddCommand(versionCmd, listCmd)
}

func initDeckFlags() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(deckFlags.LogLevel, "logLevel", "l", config.DefaultLogLevel, "Log level (debug, info, warn, error)")
	pf.StringVar(deckFlags.LogFile, "logFile", "", "Log file path")
	pf.StringVar(deckFlags.URL, "url", "", "Users collection url")
	pf.StringVar(deckFlags.Profile, "profile", "", "Endpoint profile to use")
	pf.IntVar(deckFlags.Limit, "limit", 0, "Page size (10, 20, 50 or 100)")
	pf.StringVar(deckFlags.SortBy, "sortBy", "", "Sort field (createdAt, name, email)")
	pf.StringVar(deckFlags.Order, "order", "", "Sort order (asc, desc)")
	pf.BoolVar(deckFlags.ReadOnly, "readonly", false, "Disable create, update and delete")
	pf.StringVar(deckFlags.MetricsAddr, "metrics", "", "Serve prometheus metrics on this address")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

// stack holds the wired application services.
type stack struct {
	cfg     *config.Config
	client  *api.Client
	store   *model.UserStore
	log     zerolog.Logger
	cleanup func()
}

func bootstrap(ctx context.Context, logOut io.Writer) (*stack, error) {
	// 1. Initialize locations
	if err := config.InitLocs(); err != nil {
		return nil, fmt.Errorf("failed to initialize locations: %w", err)
	}

	// 2. Load endpoint profiles
	profiles := api.NewProfiles()
	if err := profiles.Load(config.AppEndpointsFile); err != nil {
		return nil, fmt.Errorf("failed to load endpoints: %w", err)
	}

	// 3. Load configuration and apply CLI overrides
	cfg := config.NewConfig(profiles)
	if err := cfg.Load(config.AppConfigFile, false); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Refine(deckFlags); err != nil {
		return nil, fmt.Errorf("failed to refine configuration: %w", err)
	}

	// 4. Logging
	logger, closeLog, err := setupLogger(cfg.Deck.Logger, logOut)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}
	cleanup := closeLog

	// 5. Metrics
	reg := prometheus.NewRegistry()
	collector, err := telemetry.NewPrometheusCollector(reg)
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}
	if addr := cfg.Deck.Metrics.Addr; addr != "" {
		go func() {
			if err := telemetry.Serve(ctx, addr, reg, logger); err != nil {
				logger.Error().Err(err).Str("addr", addr).Msg("metrics server stopped")
			}
		}()
	}

	// 6. List preferences. Explicit flags beat the stored ones.
	fallback := cfg.Deck.DefaultPrefs()
	prefsStore := data.NewPrefsStore(config.AppPrefsFile, fallback)
	prefs, err := prefsStore.Load()
	if err != nil {
		logger.Warn().Err(err).Msg("ignoring stored preferences")
	}
	if config.IsIntSet(deckFlags.Limit) {
		prefs.Limit = fallback.Limit
	}
	if config.IsStringSet(deckFlags.SortBy) {
		prefs.SortBy = fallback.SortBy
	}
	if config.IsStringSet(deckFlags.Order) {
		prefs.Order = fallback.Order
	}

	// 7. API client
	client, err := api.NewClient(&api.ClientConfig{
		URL:     cfg.Deck.API.URL,
		Timeout: cfg.Deck.APITimeout(),
	}, logger)
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("failed to create api client: %w", err)
	}

	// 8. User store
	store, err := model.NewUserStore(client,
		model.WithLogger(logger),
		model.WithTelemetry(collector),
		model.WithPrefs(prefs.Limit, prefs.SortBy, prefs.Order, prefsStore),
		model.WithReadOnly(cfg.Deck.IsReadOnly()),
	)
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("failed to create user store: %w", err)
	}
	logger.Info().
		Str("url", client.URL()).
		Int("limit", prefs.Limit).
		Str("sortBy", string(prefs.SortBy)).
		Str("order", string(prefs.Order)).
		Bool("readOnly", store.IsReadOnly()).
		Msg("userdeck starting")

	return &stack{cfg: cfg, client: client, store: store, log: logger, cleanup: cleanup}, nil
}

func setupLogger(cfg data.Logger, out io.Writer) (zerolog.Logger, func(), error) {
	if out != nil && cfg.File == "" {
		return logging.New(cfg, out)
	}
	if cfg.File == "" {
		cfg.File = config.AppLogFile
	}
	if err := config.InitLogLoc(cfg.File); err != nil {
		return zerolog.Logger{}, nil, err
	}
	return logging.Setup(cfg)
}

func run(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	s, err := bootstrap(ctx, nil)
	if err != nil {
		return err
	}
	defer s.cleanup()

	app := view.NewApp(s.cfg, s.store, appVersion, s.log)
	app.SetClient(s.client)
	if err := app.Init(); err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer app.Stop()

	return app.Run()
}

func runList(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	s, err := bootstrap(ctx, os.Stderr)
	if err != nil {
		return err
	}
	defer s.cleanup()

	s.store.SetPage(listPage)
	fctx, fcancel := context.WithTimeout(ctx, s.cfg.Deck.APITimeout())
	defer fcancel()
	if err := s.store.Fetch(fctx); err != nil {
		return err
	}

	return printPage(cmd.OutOrStdout(), s.store.Snapshot(), listWide, listCol, !listDesc)
}

// printPage writes the snapshot users as an aligned table. Rows keep the
// server order unless sortCol names a column.
func printPage(w io.Writer, snap model.Snapshot, wide bool, sortCol string, asc bool) error {
	var r render.User
	h := r.Header()
	cols := h.Columns(wide)

	rows := make(model1.Rows, 0, len(snap.Users))
	for i, u := range snap.Users {
		row := model1.NewRow(len(h))
		if err := r.Render(u, i, &row); err != nil {
			return err
		}
		rows = append(rows, row)
	}
	if sortCol != "" {
		idx, ok := h.IndexOf(strings.ToUpper(sortCol), true)
		if !ok {
			return fmt.Errorf("unknown column %q", sortCol)
		}
		model1.SortRows(h, rows, idx, asc)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(h.ColumnNames(wide), "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row.Customize(cols).Fields, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	source := "network"
	if snap.FromCache {
		source = "cache"
	}
	pg := snap.Pagination
	_, err := fmt.Fprintf(w, "\npage %d/%d  limit %d  total %d  sort %s %s  source %s\n",
		pg.Page, pg.PageCount(), pg.Limit, pg.Total, snap.SortBy, snap.Order, source)

	return err
}
