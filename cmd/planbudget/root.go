package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Afrawles/planbudget/internal/config"
	"github.com/Afrawles/planbudget/internal/planbudget"
	"github.com/Afrawles/planbudget/internal/planmill"
	"github.com/Afrawles/planbudget/internal/prompt"
	"github.com/spf13/cobra"
)

var (
	host           string
	projectID      string
	clientID       string
	clientSecret   string
	currencyCode   string
	billableStatus string
	windowDays     int
	rowCount       int
	timeout        time.Duration
	concurrency    int
	rps            float64
	taskIndex      int
	output         string
	formats        string
	logLevel       string
	logFormat      string
	noProgress     bool
)

var rootCmd = &cobra.Command{
	Use:   "planbudget",
	Short: "Show the budget and hours used on a project task",
	Long: `planbudget lists the tasks of a PlanMill project, lets you pick one and sums the
billable time reports of every project member over the trailing window.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runBudget,
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, planmill.ErrUnauthorized) {
			fmt.Fprintln(os.Stderr, "Unable to get access key. Do you need to re-authorize?")
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	registerFlags(rootCmd)
}

func registerFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&host, "host", "", "API base URL (HOST)")
	cmd.Flags().StringVar(&projectID, "project", "", "Project ID (PROJECT_ID)")
	cmd.Flags().StringVar(&clientID, "client-id", "", "OAuth client ID (CLIENT_ID)")
	cmd.Flags().StringVar(&clientSecret, "client-secret", "", "OAuth client secret (CLIENT_SECRET)")
	cmd.Flags().StringVar(&currencyCode, "currency", config.DefaultCurrency, "Currency for amounts (CURRENCY)")
	cmd.Flags().StringVar(&billableStatus, "billable-status", config.DefaultBillableStatus, "Billable status filter sent to the API (BILLABLE_STATUS)")
	cmd.Flags().IntVar(&windowDays, "window-days", config.DefaultWindowDays, "Trailing window of time reports in days (WINDOW_DAYS)")
	cmd.Flags().IntVar(&rowCount, "row-count", config.DefaultRowCount, "Maximum time reports per person; the API truncates beyond this (ROW_COUNT)")
	cmd.Flags().DurationVar(&timeout, "timeout", config.DefaultTimeout, "Per-request timeout (REQUEST_TIMEOUT)")
	cmd.Flags().IntVar(&concurrency, "concurrency", config.DefaultConcurrency, "Parallel time report requests (MAX_CONCURRENCY)")
	cmd.Flags().Float64Var(&rps, "rps", config.DefaultRPS, "Requests per second, 0 for unlimited (REQUESTS_PER_SECOND)")
	cmd.Flags().IntVarP(&taskIndex, "task-index", "t", 0, "Select the task by index instead of prompting")

	cmd.Flags().StringVarP(&output, "output", "o", "reports", "Output directory for exports (OUTPUT_DIR)")
	cmd.Flags().StringVar(&formats, "format", "", "Comma-separated export formats: json, csv, xlsx (OUTPUT_FORMAT)")

	cmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error (LOG_LEVEL)")
	cmd.Flags().StringVar(&logFormat, "log-format", "text", "Log format: text, json (LOG_FORMAT)")
	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "Hide the fetch progress bar")
}

func runBudget(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return err
	}
	applyFlags(cmd, &cfg)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration:\n%w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := planmill.NewClient(cfg.API)
	app := planbudget.New(cfg, client, prompt.New(os.Stdin, os.Stdout), os.Stdout)
	if !noProgress {
		app.Progress = newProgressBar("Fetching time reports")
	}

	_, err = app.Run(ctx, selectedIndex(cmd))
	return err
}

// selectedIndex returns the --task-index value, or nil when the flag was not given.
func selectedIndex(cmd *cobra.Command) *int {
	if !cmd.Flags().Changed("task-index") {
		return nil
	}
	index := taskIndex
	return &index
}

// applyFlags overrides environment values with flags set on the command line.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	set := func(name string, apply func()) {
		if flags.Changed(name) {
			apply()
		}
	}

	set("host", func() { cfg.API.Host = host })
	set("project", func() { cfg.API.ProjectID = projectID })
	set("client-id", func() { cfg.API.ClientID = clientID })
	set("client-secret", func() { cfg.API.ClientSecret = clientSecret })
	set("currency", func() { cfg.API.Currency = currencyCode })
	set("billable-status", func() { cfg.API.BillableStatus = billableStatus })
	set("window-days", func() { cfg.API.WindowDays = windowDays })
	set("row-count", func() { cfg.API.RowCount = rowCount })
	set("timeout", func() { cfg.API.Timeout = timeout })
	set("concurrency", func() { cfg.Concurrency = concurrency })
	set("rps", func() { cfg.API.RequestsPerSecond = rps })
	set("output", func() { cfg.Output.Directory = output })
	set("format", func() { cfg.Output.Format = config.ParseList(formats) })
	set("log-level", func() { cfg.Log.Level = logLevel })
	set("log-format", func() { cfg.Log.Format = logFormat })
}
