package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rustyeddy/tradejournal/report"
	"github.com/rustyeddy/tradejournal/scheduler"
	"github.com/rustyeddy/tradejournal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the journal REST API",
	Long: `Serve the trade journal over HTTP.

The API exposes trade CRUD, CSV import/export, analytics under
/trades/stats and Prometheus metrics on /metrics. When report.schedule
is set, reports are also written to report.dir on that cron schedule.

Examples:
  tradejournal serve
  tradejournal serve --addr :9090 --config journal.yaml`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var serveAddr string

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address; overrides server.addr")
}

func runServe(cmd *cobra.Command, args []string) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.Close()

	loc, err := e.cfg.Location()
	if err != nil {
		return err
	}
	addr := e.cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if spec := e.cfg.Report.Schedule; spec != "" {
		sched := scheduler.New(ctx, e.store, scheduler.Options{
			Dir:             e.cfg.Report.Dir,
			StartingBalance: e.cfg.Account.StartingBalance,
			Currency:        e.cfg.Account.Currency,
			Location:        loc,
			Formats:         []report.Format{report.FormatOrg, report.FormatXLSX},
		}, e.log)
		if err := sched.Register(spec); err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()
	}

	srv := server.New(e.store, server.Options{
		StartingBalance: e.cfg.Account.StartingBalance,
		Location:        loc,
		RateLimit:       e.cfg.Server.RateLimit,
		Burst:           e.cfg.Server.Burst,
		Mode:            e.cfg.Server.Mode,
	}, e.log)

	if err := srv.Run(ctx, addr); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
