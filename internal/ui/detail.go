package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"arbdash/internal/model"
)

// DetailPanel binds a rendering region to at most one selected bot id.
// Binding a new id rebuilds the whole panel; updates for the bound id
// patch substructures only. The log region is diffed on length alone,
// guarded by a cheap tail check in case the server ever rewrites
// history.
type DetailPanel struct {
	boundID string
	symbol  string

	opportunity string
	books       string
	stats       [4]segment

	logEntries []string
	logLines   []string
	logs       viewport.Model
}

// NewDetailPanel creates an empty (unbound) panel.
func NewDetailPanel() DetailPanel {
	logs := viewport.New(58, 8)
	return DetailPanel{logs: logs}
}

// Bound returns the bound bot id, or "" when the panel is empty.
func (d *DetailPanel) Bound() string {
	return d.boundID
}

// SetSize resizes the panel's log viewport.
func (d *DetailPanel) SetSize(width, height int) {
	if width > 4 {
		d.logs.Width = width - 4
	}
	if height > 0 {
		d.logs.Height = height
	}
}

// Bind enters Bound(id) and performs a full structural build from the
// bot's current snapshot. Re-binding the already-bound id is a no-op.
func (d *DetailPanel) Bind(bot model.Bot) {
	if d.boundID == bot.ID {
		return
	}
	d.boundID = bot.ID
	d.symbol = bot.Symbol

	d.opportunity = renderOpportunity(bot.Opportunity)
	d.books = renderOrderbooks(bot.Orderbooks)
	d.buildStats(bot)
	d.rebuildLogs(bot.Logs)
}

// Clear returns the panel to Empty.
func (d *DetailPanel) Clear() {
	*d = DetailPanel{logs: d.logs}
	d.logs.SetContent("")
}

// Apply patches the panel from a new snapshot of the bound bot.
// Updates for any other id are ignored.
func (d *DetailPanel) Apply(bot model.Bot) {
	if d.boundID != bot.ID {
		return
	}
	d.symbol = bot.Symbol

	// Small blocks are fully replaced; the scalars patch by value.
	d.opportunity = renderOpportunity(bot.Opportunity)
	d.books = renderOrderbooks(bot.Orderbooks)
	d.buildStats(bot)
	d.patchLogs(bot.Logs)
}

// LogCount returns the number of rendered log entries. Test hook.
func (d *DetailPanel) LogCount() int {
	return len(d.logEntries)
}

// logLine returns the rendered log line at i. Test hook for identity
// checks.
func (d *DetailPanel) logLine(i int) string {
	return d.logLines[i]
}

func (d *DetailPanel) buildStats(bot model.Bot) {
	d.stats[0].set("best "+fmtSignedPct(bot.Spread.Best), statusStyle)
	d.stats[1].set("avg "+fmtSignedPct(bot.Spread.Avg), mutedStyle)
	d.stats[2].set("min "+fmtLatency(bot.Latency.MinMs), mutedStyle)
	d.stats[3].set("max "+fmtLatency(bot.Latency.MaxMs), mutedStyle)
}

// patchLogs appends exactly the suffix of a longer log sequence and
// leaves existing entries untouched, then pins the viewport to the end.
// A shrink, or a rewritten entry at the previous tail position, voids
// the append-only assumption and forces a full rebuild.
func (d *DetailPanel) patchLogs(entries []string) {
	n := len(d.logEntries)
	extended := len(entries) >= n && (n == 0 || entries[n-1] == d.logEntries[n-1])
	if !extended {
		d.rebuildLogs(entries)
		return
	}
	if len(entries) == n {
		return
	}
	for _, entry := range entries[n:] {
		d.logEntries = append(d.logEntries, entry)
		d.logLines = append(d.logLines, renderLogEntry(entry))
	}
	d.logs.SetContent(strings.Join(d.logLines, "\n"))
	d.logs.GotoBottom()
}

func (d *DetailPanel) rebuildLogs(entries []string) {
	d.logEntries = append([]string(nil), entries...)
	d.logLines = make([]string, len(entries))
	for i, entry := range entries {
		d.logLines[i] = renderLogEntry(entry)
	}
	d.logs.SetContent(strings.Join(d.logLines, "\n"))
	d.logs.GotoBottom()
}

func renderLogEntry(entry string) string {
	return mutedStyle.Render(entry)
}

// View draws the whole panel, or an empty-state hint when unbound.
func (d *DetailPanel) View(width int) string {
	if d.boundID == "" {
		return panelStyle.Render(mutedStyle.Render("Select a bot to inspect it."))
	}

	sections := []string{
		panelTitleStyle.Render(d.symbol + "  (" + d.boundID + ")"),
		d.opportunity,
		d.books,
		strings.Join([]string{
			d.stats[0].rendered,
			d.stats[1].rendered,
			d.stats[2].rendered,
			d.stats[3].rendered,
		}, "  "),
		panelTitleStyle.Render("log"),
		d.logs.View(),
	}

	style := panelStyle
	if width > 4 {
		style = style.Width(width)
	}
	return style.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func renderOpportunity(opp *model.Opportunity) string {
	if opp == nil {
		return mutedStyle.Render("no opportunity")
	}
	head := fmt.Sprintf("%s %s → %s %s",
		strings.ToUpper(opp.BuyExchange), fmtPrice(opp.BuyPrice),
		strings.ToUpper(opp.SellExchange), fmtPrice(opp.SellPrice))
	econ := fmt.Sprintf("net %s  conf %s  est %s",
		fmtSignedPct(opp.NetSpread),
		fmtFloat(opp.Confidence, 2),
		"$"+fmtFloat(opp.ExpectedProfit, 2))
	return statusStyle.Render(head) + "\n" + mutedStyle.Render(econ)
}

// renderOrderbooks draws both venue sides with their top five levels,
// imbalance percentage and total depth.
func renderOrderbooks(books model.Orderbooks) string {
	left := renderBookSide(books.A)
	right := renderBookSide(books.B)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, "   ", right)
}

const bookLevels = 5

func renderBookSide(side *model.OrderbookSide) string {
	if side == nil {
		return mutedStyle.Render("book pending")
	}

	lines := make([]string, 0, bookLevels+2)
	lines = append(lines, panelTitleStyle.Render(side.Exchange))
	for i := 0; i < bookLevels; i++ {
		var bid, ask string
		if i < len(side.Bids) {
			bid = fmt.Sprintf("%10s %9s", fmtPrice(side.Bids[i].Price), fmtSize(side.Bids[i].Size))
		} else {
			bid = fmt.Sprintf("%10s %9s", placeholder, "")
		}
		if i < len(side.Asks) {
			ask = fmt.Sprintf("%10s %9s", fmtPrice(side.Asks[i].Price), fmtSize(side.Asks[i].Size))
		} else {
			ask = fmt.Sprintf("%10s %9s", placeholder, "")
		}
		lines = append(lines, bid+" │ "+ask)
	}
	lines = append(lines, mutedStyle.Render(fmt.Sprintf("imb %s  depth %s",
		fmtPct(side.Imbalance*100),
		fmtFloat(side.BidDepth+side.AskDepth, 2))))
	return strings.Join(lines, "\n")
}
