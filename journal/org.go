package journal

import (
	"fmt"
	"strings"
	"time"
)

// FormatTradeOrg renders a TradeRecord as an Org-mode block suitable for pasting into a journal.
// Structured facts go in the PROPERTIES drawer; Thesis/Execution/Review are left for the trader.
func FormatTradeOrg(t TradeRecord) string {
	heading := fmt.Sprintf("** Trade: %s %s (#%d)", t.Symbol, t.Direction, t.ID)

	var b strings.Builder
	b.WriteString(heading)
	b.WriteString("\n")
	b.WriteString(":PROPERTIES:\n")
	b.WriteString(fmt.Sprintf(":ID: %d\n", t.ID))
	b.WriteString(fmt.Sprintf(":SYMBOL: %s\n", t.Symbol))
	b.WriteString(fmt.Sprintf(":DIRECTION: %s\n", t.Direction))
	b.WriteString(fmt.Sprintf(":STATUS: %s\n", t.Status))
	b.WriteString(fmt.Sprintf(":LOT_SIZE: %g\n", t.LotSize))
	b.WriteString(fmt.Sprintf(":ENTRY_PRICE: %s\n", orgPrice(t.EntryPrice)))
	b.WriteString(fmt.Sprintf(":EXIT_PRICE: %s\n", orgPrice(t.ExitPrice)))
	b.WriteString(fmt.Sprintf(":TRADE_DATE: %s\n", t.TradeDate.UTC().Format(time.RFC3339)))
	b.WriteString(fmt.Sprintf(":PNL: %.2f\n", t.PnL))
	b.WriteString(fmt.Sprintf(":CONFLUENCE: W%d D%d H4:%d H1:%d L%d\n",
		t.Confluence.Weekly, t.Confluence.Daily, t.Confluence.H4, t.Confluence.H1, t.Confluence.Lower))
	b.WriteString(fmt.Sprintf(":TOTAL_CONFLUENCE: %d\n", t.TotalConfluence))
	b.WriteString(":END:\n")
	b.WriteString("\n")
	b.WriteString("*** Thesis\n- ")
	b.WriteString(t.Notes)
	b.WriteString("\n\n")
	b.WriteString("*** Execution\n- \n\n")
	b.WriteString("*** Review\n- \n")

	return b.String()
}

// FormatTradesOrg renders multiple trades separated by blank lines.
func FormatTradesOrg(trades []TradeRecord) string {
	var b strings.Builder
	for i, t := range trades {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(FormatTradeOrg(t))
	}
	return b.String()
}

func orgPrice(p *float64) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("%.5f", *p)
}
