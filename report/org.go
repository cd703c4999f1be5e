package report

import (
	"fmt"
	"io"
	"text/template"
	"time"

	"github.com/rustyeddy/tradejournal/analytics"
)

var orgFuncs = template.FuncMap{
	"money": money,
	"ratio": ratio,
	"orTime": func(t time.Time) time.Time {
		if t.IsZero() {
			return time.Now()
		}
		return t
	},
}

var orgTemplate = template.Must(template.New("performance").Funcs(orgFuncs).Parse(PerformanceOrgTemplate))

type orgView struct {
	Meta
	analytics.Summary
}

// WriteOrg renders the performance report as an Org-mode document.
func WriteOrg(w io.Writer, s analytics.Summary, meta Meta) error {
	if err := orgTemplate.Execute(w, orgView{Meta: meta, Summary: s}); err != nil {
		return fmt.Errorf("render org report: %w", err)
	}
	return nil
}

const PerformanceOrgTemplate = `* PERFORMANCE: {{if .Title}}{{.Title}}{{else}}Trade Journal{{end}}{{if .Period}} ({{.Period}}){{end}}
:PROPERTIES:
:RUN_ID:      {{if .RunID}}{{.RunID}}{{else}}(run-id?){{end}}
:CURRENCY:    {{if .Currency}}{{.Currency}}{{else}}(currency?){{end}}
:START_BAL:   {{money .Account.StartingBalance}}
:END_BAL:     {{money .Account.CurrentBalance}}
:NET_PL:      {{money .Account.TotalPnL}}
:RETURN_PCT:  {{printf "%.2f" .Account.ReturnPct}}
:MAX_DD_PCT:  {{printf "%.2f" .Risk.MaxDrawdown}}
:TRADES:      {{.Account.TotalTrades}}
:WINS:        {{.Account.WinningTrades}}
:LOSSES:      {{.Account.LosingTrades}}
:WIN_RATE:    {{printf "%.1f" .Metrics.WinRate}}
:PROFIT_FAC:  {{ratio .Metrics.ProfitFactor}}
:CREATED:     [{{(orTime .Created).Format "2006-01-02 Mon 15:04"}}]
:END:

** Performance Summary
- Net P/L:          *{{money .Account.TotalPnL}}*
- Return:           *{{printf "%.2f" .Account.ReturnPct}}%*
- Max Drawdown:     *{{printf "%.2f" .Risk.MaxDrawdown}}%*
- Win Rate:         *{{printf "%.1f" .Metrics.WinRate}}%*
- Profit Factor:    *{{ratio .Metrics.ProfitFactor}}*
- Expectancy:       *{{money .Metrics.Expectancy}}*
- Recovery Factor:  *{{ratio .Risk.RecoveryFactor}}*

** Trade Statistics
| Metric          | Value |
|-----------------+-------|
| Avg Win         | {{money .Metrics.AvgWin}} |
| Avg Loss        | {{money .Metrics.AvgLoss}} |
| Largest Win     | {{money .Metrics.LargestWin}} |
| Largest Loss    | {{money .Metrics.LargestLoss}} |
| Best Day        | {{money .Risk.BestDay}} |
| Worst Day       | {{money .Risk.WorstDay}} |
| Win Streak      | {{.Risk.MaxConsecutiveWins}} |
| Loss Streak     | {{.Risk.MaxConsecutiveLosses}} |
| Sharpe          | {{printf "%.2f" .Risk.SharpeLike}} |
| Avg Confluence  | {{printf "%.1f" .Metrics.AvgConfluence}} |

** Trade Distribution
| Outcome | Count |
|---------+-------|
| Wins    | {{.Account.WinningTrades}} |
| Losses  | {{.Account.LosingTrades}} |
| Open    | {{.Account.OpenTrades}} |
| Total   | {{.Account.TotalTrades}} |

{{- if .Monthly }}

** Monthly P/L
| Month   | Trades | P/L |
|---------+--------+-----|
{{- range .Monthly }}
| {{.Month}} | {{.Trades}} | {{money .PnL}} |
{{- end }}
{{- end }}

** Open Confluence
- Weekly {{.Confluence.Weekly}}, Daily {{.Confluence.Daily}}, H4 {{.Confluence.H4}}, H1 {{.Confluence.H1}}, Lower {{.Confluence.Lower}}
- Total: *{{.Confluence.Total}}* ({{.Confluence.Label}}) over {{.Confluence.Count}} open trades

** Review
- 
`
