package scheduler

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rustyeddy/tradejournal/internal/logging"
	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) journal.Store {
	t.Helper()
	s := journal.NewMemoryStore(journal.Normalizer{})
	_, err := s.Create(context.Background(), journal.TradeInput{
		Symbol:     journal.String("EURUSD"),
		EntryPrice: journal.Float(1.1),
		ExitPrice:  journal.Float(1.2),
		LotSize:    journal.Float(100),
	})
	require.NoError(t, err)
	return s
}

func TestRunNowWritesReports(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "reports")
	s := New(context.Background(), newStore(t), Options{Dir: dir, StartingBalance: 1000, Location: time.UTC}, logging.Discard())

	paths, err := s.RunNow(context.Background())
	require.NoError(t, err)
	require.Len(t, paths, 2)

	day := time.Now().UTC().Format("2006-01-02")
	assert.Equal(t, filepath.Join(dir, "report-"+day+".org"), paths[0])
	assert.Equal(t, filepath.Join(dir, "report-"+day+".xlsx"), paths[1])

	org, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(org), "* PERFORMANCE: Trade Journal (all time)"))
	assert.Contains(t, string(org), ":END_BAL:     1010.00")

	_, err = os.Stat(paths[1])
	assert.NoError(t, err)
}

func TestRunNowTextOnly(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := New(context.Background(), newStore(t), Options{Dir: dir, Formats: []report.Format{report.FormatText}}, logging.Discard())

	paths, err := s.RunNow(context.Background())
	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.True(t, strings.HasSuffix(paths[0], ".txt"))
}

func TestRegisterRejectsBadSpec(t *testing.T) {
	t.Parallel()

	s := New(context.Background(), newStore(t), Options{Dir: t.TempDir()}, logging.Discard())
	assert.Error(t, s.Register("every tuesday"))
	assert.NoError(t, s.Register("0 0 18 * * 1-5"))
	assert.Len(t, s.Cron.Entries(), 1)
}

func TestScheduledRun(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := New(context.Background(), newStore(t), Options{Dir: dir, Formats: []report.Format{report.FormatOrg}}, logging.Discard())
	require.NoError(t, s.Register("* * * * * *"))

	s.Start()
	defer s.Stop()

	assert.Eventually(t, func() bool {
		entries, err := os.ReadDir(dir)
		return err == nil && len(entries) > 0
	}, 3*time.Second, 50*time.Millisecond)
}
