package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arbdash/internal/model"
)

func detailBot(id string, logs ...string) model.Bot {
	return model.Bot{
		ID:        id,
		Symbol:    "BTC-PERP",
		ExchangeA: "lighter",
		ExchangeB: "extended",
		Running:   true,
		Spread:    model.Spread{Current: 0.1, Best: 0.3, Avg: 0.08},
		Latency:   model.Latency{AvgMs: 10, MinMs: 2, MaxMs: 45},
		Logs:      logs,
	}
}

func TestDetailBindBuildsEverything(t *testing.T) {
	d := NewDetailPanel()
	require.Empty(t, d.Bound())

	d.Bind(detailBot("a1", "line-0", "line-1"))
	assert.Equal(t, "a1", d.Bound())
	assert.Equal(t, 2, d.LogCount(), "full existing log sequence rendered on bind")
}

func TestDetailRebindSameIDIsNoop(t *testing.T) {
	d := NewDetailPanel()
	d.Bind(detailBot("a1", "line-0", "line-1"))

	// Re-selection of the bound id must not rebuild the panel.
	d.Bind(detailBot("a1", "line-0", "line-1", "line-2"))
	assert.Equal(t, 2, d.LogCount(), "re-binding the bound id is idempotent")
}

func TestDetailBindNewIDRebuilds(t *testing.T) {
	d := NewDetailPanel()
	d.Bind(detailBot("a1", "a1-line"))
	d.Bind(detailBot("a2", "a2-line-0", "a2-line-1"))

	assert.Equal(t, "a2", d.Bound())
	assert.Equal(t, 2, d.LogCount(), "binding a different id performs a full structural build")
}

// Scenario: 2 rendered log lines, an update arrives with 5. Exactly the
// 3 suffix entries are appended and the first 2 keep their identity.
func TestDetailLogAppendSuffixOnly(t *testing.T) {
	d := NewDetailPanel()
	d.Bind(detailBot("a1", "line-0", "line-1"))

	line0 := d.logLine(0)
	line1 := d.logLine(1)

	d.Apply(detailBot("a1", "line-0", "line-1", "line-2", "line-3", "line-4"))

	require.Equal(t, 5, d.LogCount(), "rendered entry count equals the new log length")
	assert.Equal(t, line0, d.logLine(0), "existing entries are never re-rendered")
	assert.Equal(t, line1, d.logLine(1), "existing entries are never re-rendered")
	assert.Contains(t, d.logLine(2), "line-2", "suffix appended in order")
	assert.Contains(t, d.logLine(4), "line-4", "suffix appended in order")
	assert.True(t, d.logs.AtBottom(), "log viewport pinned to the end after an append")
}

func TestDetailLogEqualLengthIsNoop(t *testing.T) {
	d := NewDetailPanel()
	d.Bind(detailBot("a1", "line-0", "line-1"))
	d.Apply(detailBot("a1", "line-0", "line-1"))
	assert.Equal(t, 2, d.LogCount())
}

// A shrink or a rewritten tail voids the append-only assumption and
// forces a full rebuild of the log region.
func TestDetailLogResyncOnHistoryRewrite(t *testing.T) {
	d := NewDetailPanel()
	d.Bind(detailBot("a1", "line-0", "line-1", "line-2"))

	d.Apply(detailBot("a1", "other-0"))
	assert.Equal(t, 1, d.LogCount(), "shrunk log triggers a rebuild")

	d.Apply(detailBot("a1", "rewritten-0", "rewritten-1"))
	assert.Equal(t, 2, d.LogCount(), "rewritten tail triggers a rebuild")
	assert.Contains(t, d.logLine(0), "rewritten-0")
}

func TestDetailApplyIgnoresOtherIDs(t *testing.T) {
	d := NewDetailPanel()
	d.Bind(detailBot("a1", "line-0"))

	d.Apply(detailBot("a2", "x", "y", "z"))
	assert.Equal(t, "a1", d.Bound())
	assert.Equal(t, 1, d.LogCount(), "updates for other ids are ignored")
}

func TestDetailStatsPatchByValue(t *testing.T) {
	d := NewDetailPanel()
	bot := detailBot("a1")
	d.Bind(bot)
	best := d.stats[0].rendered
	minLat := d.stats[2].rendered

	bot.Spread.Best = 0.9
	d.Apply(bot)
	assert.NotEqual(t, best, d.stats[0].rendered, "changed scalar is re-rendered")
	assert.Equal(t, minLat, d.stats[2].rendered, "unchanged scalar keeps its rendering")
}

func TestDetailClear(t *testing.T) {
	d := NewDetailPanel()
	d.Bind(detailBot("a1", "line-0"))
	d.Clear()

	assert.Empty(t, d.Bound())
	assert.Zero(t, d.LogCount())
}

func TestDetailOpportunityBlockReplaced(t *testing.T) {
	d := NewDetailPanel()
	bot := detailBot("a1")
	d.Bind(bot)
	empty := d.opportunity

	bot.Opportunity = &model.Opportunity{
		BuyExchange:    "lighter",
		SellExchange:   "extended",
		BuyPrice:       100.5,
		SellPrice:      100.9,
		NetSpread:      0.21,
		Confidence:     0.8,
		ExpectedProfit: 3.5,
	}
	d.Apply(bot)
	assert.NotEqual(t, empty, d.opportunity, "opportunity block is fully replaced on update")
	assert.Contains(t, d.opportunity, "LIGHTER")
}
