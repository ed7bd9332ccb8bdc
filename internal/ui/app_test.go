package ui

import (
	"io"
	"testing"

	"github.com/benbjohnson/clock"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arbdash/internal/api"
	"arbdash/internal/ws"
)

func testModel(t *testing.T) *Model {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	manager := ws.NewManager(ws.Config{URL: "ws://test"}, clock.NewMock(), log.WithField("component", "ws"))
	t.Cleanup(manager.Close)

	m := New(log, manager, api.NewClient("http://test"))
	return &m
}

const snapshotTwoBots = `{
	"type": "status",
	"data": {
		"bots": [
			{"id": "a1", "symbol": "BTC-PERP", "running": true, "spread": {"current": 0.12}, "stats": {"profitable": 2}},
			{"id": "a2", "symbol": "ETH-PERP", "running": false, "logs": ["l0", "l1"]}
		],
		"latencies": {"lighter": {"avg_ms": 9.7}}
	}
}`

func TestDispatchSnapshotPopulatesEverything(t *testing.T) {
	m := testModel(t)
	m.dispatch([]byte(snapshotTwoBots))

	assert.Equal(t, 2, m.bots.Len())
	assert.Equal(t, []string{"a1", "a2"}, m.recon.IDs())
	assert.Equal(t, 2, m.agg.total)
	assert.Equal(t, 1, m.agg.running)
	assert.Equal(t, int64(2), m.agg.profitable)
	assert.Equal(t, 9.7, m.latencies["lighter"].AvgMs)
}

func TestDispatchBotUpdateUpserts(t *testing.T) {
	m := testModel(t)
	m.dispatch([]byte(snapshotTwoBots))
	node := m.recon.node("a1")

	m.dispatch([]byte(`{"type": "bot_update", "data": {"id": "a2", "symbol": "ETH-PERP", "running": true}}`))

	got, ok := m.bots.Get("a2")
	require.True(t, ok)
	assert.True(t, got.Running)
	assert.Same(t, node, m.recon.node("a1"), "an update for a2 must not rebuild a1's node")
}

// When the selected bot disappears from a snapshot, its node is
// destroyed and the panel returns to Empty.
func TestDispatchRemovalClearsSelection(t *testing.T) {
	m := testModel(t)
	m.dispatch([]byte(snapshotTwoBots))

	bot, ok := m.bots.Get("a2")
	require.True(t, ok)
	m.selected = "a2"
	m.detail.Bind(bot)

	m.dispatch([]byte(`{"type": "bots_list", "data": {"bots": [{"id": "a1", "running": true}]}}`))

	assert.Equal(t, []string{"a1"}, m.recon.IDs(), "the node for a2 is destroyed")
	assert.Empty(t, m.selected, "selection cleared when the selected bot is removed")
	assert.Empty(t, m.detail.Bound(), "panel returns to Empty")
}

func TestDispatchMalformedDropped(t *testing.T) {
	m := testModel(t)
	m.dispatch([]byte(snapshotTwoBots))

	m.dispatch([]byte(`garbage`))
	m.dispatch([]byte(`{"type": "bots_list", "data": 1}`))
	m.dispatch([]byte(`{"type": "pong"}`))

	assert.Equal(t, 2, m.bots.Len(), "malformed and unknown messages leave state untouched")
}

func TestSelectionBindsDetail(t *testing.T) {
	m := testModel(t)
	m.dispatch([]byte(snapshotTwoBots))

	m.moveSelection(1)
	assert.Equal(t, "a1", m.selected, "first move selects the first visible bot")
	assert.Equal(t, "a1", m.detail.Bound())

	m.moveSelection(1)
	assert.Equal(t, "a2", m.selected)
	assert.Equal(t, "a2", m.detail.Bound())

	m.moveSelection(1)
	assert.Equal(t, "a2", m.selected, "selection clamps at the end of the list")
}

func TestSelectionRespectsFilter(t *testing.T) {
	m := testModel(t)
	m.dispatch([]byte(snapshotTwoBots))
	m.filter = FilterRunning

	m.moveSelection(1)
	assert.Equal(t, "a1", m.selected)

	m.moveSelection(1)
	assert.Equal(t, "a1", m.selected, "stopped bots are not selectable under the running filter")
}
