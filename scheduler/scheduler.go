// Package scheduler writes performance reports on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rustyeddy/tradejournal/analytics"
	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/report"
	"github.com/sirupsen/logrus"
)

// Options configure the report job.
type Options struct {
	Dir             string
	StartingBalance float64
	Currency        string
	Location        *time.Location
	// Formats defaults to Org and XLSX.
	Formats []report.Format
}

// Scheduler runs the report job on its own cron goroutine.
type Scheduler struct {
	Cron  *cron.Cron
	store journal.Store
	opts  Options
	log   logrus.FieldLogger
	ctx   context.Context
}

func New(ctx context.Context, store journal.Store, opts Options, log logrus.FieldLogger) *Scheduler {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if len(opts.Formats) == 0 {
		opts.Formats = []report.Format{report.FormatOrg, report.FormatXLSX}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Scheduler{
		Cron:  cron.New(cron.WithSeconds(), cron.WithLocation(opts.Location)),
		store: store,
		opts:  opts,
		log:   log,
		ctx:   ctx,
	}
}

// Register adds the report job under a six-field cron spec.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.reportTask); err != nil {
		return fmt.Errorf("register report task: %w", err)
	}
	return nil
}

func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Info("scheduler started")
}

// Stop waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.log.Info("scheduler stopped")
}

func (s *Scheduler) reportTask() {
	if _, err := s.RunNow(s.ctx); err != nil {
		s.log.WithError(err).Error("scheduled report")
	}
}

// RunNow writes one report per configured format into Dir, named
// report-YYYY-MM-DD, and returns the file paths.
func (s *Scheduler) RunNow(ctx context.Context) ([]string, error) {
	trades, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list trades: %w", err)
	}
	if err := os.MkdirAll(s.opts.Dir, 0755); err != nil {
		return nil, fmt.Errorf("report dir: %w", err)
	}

	summary := analytics.Summarize(trades, s.opts.StartingBalance, s.opts.Location)
	meta := report.NewMeta("Trade Journal", s.opts.Currency, "all time")
	day := meta.Created.In(s.opts.Location).Format("2006-01-02")
	log := s.log.WithField("run", meta.RunID)

	var paths []string
	for _, f := range s.opts.Formats {
		path := filepath.Join(s.opts.Dir, "report-"+day+f.Ext())
		if err := report.WriteFile(path, f, summary, trades, meta); err != nil {
			return paths, fmt.Errorf("write %s report: %w", f, err)
		}
		paths = append(paths, path)
	}

	log.WithFields(logrus.Fields{
		"trades":  len(trades),
		"balance": summary.Account.CurrentBalance,
		"files":   paths,
	}).Info("report written")
	return paths, nil
}
