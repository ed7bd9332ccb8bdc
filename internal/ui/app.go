// Package ui is the terminal rendering target for the dashboard: a
// bubbletea program whose update loop is the single owner of the bot
// store and of the reconciler's node table. Every handler runs to
// completion before the next event, so neither needs locking.
package ui

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"arbdash/internal/api"
	"arbdash/internal/model"
	"arbdash/internal/protocol"
	"arbdash/internal/store"
	"arbdash/internal/ws"
)

type wsEventMsg struct {
	ev ws.Event
	ok bool
}

type apiResultMsg struct {
	action string
	result api.Result
	err    error
}

type aggregates struct {
	total      int
	running    int
	profitable int64
}

// Model is the top-level bubbletea model.
type Model struct {
	log     *logrus.Logger
	manager *ws.Manager
	client  *api.Client

	bots      *store.Store
	latencies map[string]model.VenueLatency
	agg       aggregates

	recon  *Reconciler
	detail DetailPanel

	filter   Filter
	selected string

	creating      bool
	form          createForm
	confirmDelete string

	notice string

	ready  bool
	width  int
	height int
}

// New wires the model to its collaborators. The store is created here
// and never escapes the update loop's ownership.
func New(log *logrus.Logger, manager *ws.Manager, client *api.Client) Model {
	return Model{
		log:     log,
		manager: manager,
		client:  client,
		bots:    store.New(),
		recon:   NewReconciler(),
		detail:  NewDetailPanel(),
		form:    newCreateForm(),
	}
}

// Init starts consuming connection events.
func (m Model) Init() tea.Cmd {
	return waitForEvent(m.manager)
}

func waitForEvent(manager *ws.Manager) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-manager.Events()
		return wsEventMsg{ev: ev, ok: ok}
	}
}

// Update is the event loop. Connection events, server messages, timer
// ticks and key presses are all processed here in arrival order.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.width = msg.Width
		m.height = msg.Height
		m.detail.SetSize(m.detailWidth(), 8)
		return m, nil

	case wsEventMsg:
		if !msg.ok {
			return m, nil
		}
		m.handleConnEvent(msg.ev)
		return m, waitForEvent(m.manager)

	case apiResultMsg:
		m.handleAPIResult(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleConnEvent(ev ws.Event) {
	switch ev.Kind {
	case ws.EventOpened:
		m.notice = ""
	case ws.EventClosed:
		// The persistent indicator comes from the manager state in the
		// header; the notice only carries the latest cause.
		if ev.Err != nil {
			m.notice = errorStyle.Render("connection lost: " + ev.Err.Error())
		}
	case ws.EventMessage:
		m.dispatch(ev.Payload)
	}
}

// dispatch routes one inbound payload. This is the only code path that
// mutates the bot store.
func (m *Model) dispatch(raw []byte) {
	msg, err := protocol.Parse(raw)
	if err != nil {
		m.log.WithError(err).Warn("dropping malformed message")
		return
	}
	if msg == nil {
		return
	}

	switch v := msg.(type) {
	case protocol.Snapshot:
		m.bots.ReplaceAll(v.Bots)
		m.latencies = v.Latencies
	case protocol.BotsList:
		m.bots.ReplaceAll(v.Bots)
	case protocol.BotUpdate:
		m.bots.Upsert(v.Bot)
	}
	m.recomputeAggregates()
	m.syncViews()
}

// syncViews re-renders from canonical state: selection fallback,
// reconciliation pass, detail patch. Runs after every store mutation.
func (m *Model) syncViews() {
	if m.selected != "" && !m.bots.Contains(m.selected) {
		m.selected = ""
		m.detail.Clear()
	}
	m.recon.Apply(m.bots.All(), m.selected)
	if m.selected != "" {
		if bot, ok := m.bots.Get(m.selected); ok {
			m.detail.Apply(bot)
		}
	}
}

func (m *Model) recomputeAggregates() {
	m.agg = aggregates{}
	for _, bot := range m.bots.All() {
		m.agg.total++
		if bot.Running {
			m.agg.running++
		}
		m.agg.profitable += bot.Stats.Profitable
	}
}

func (m *Model) handleAPIResult(msg apiResultMsg) {
	switch {
	case msg.err != nil:
		m.log.WithError(msg.err).WithField("action", msg.action).Warn("mutation call failed")
		m.notice = errorStyle.Render(msg.action + " failed: " + msg.err.Error())
	case !msg.result.Success:
		m.notice = errorStyle.Render(msg.action + " rejected: " + msg.result.Error)
	default:
		m.notice = statusStyle.Render(msg.action + " accepted")
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.creating {
		return m.handleFormKey(msg)
	}
	if m.confirmDelete != "" {
		return m.handleConfirmKey(msg)
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "up", "k":
		m.moveSelection(-1)
	case "down", "j":
		m.moveSelection(1)

	case "esc":
		if m.selected != "" {
			m.selected = ""
			m.detail.Clear()
			m.recon.Apply(m.bots.All(), m.selected)
		}

	case "f":
		m.filter = m.filter.Next()

	case "n":
		m.creating = true
		m.form = newCreateForm()
		return m, textinput.Blink

	case "r":
		// Manual recovery out of the fail-stop state: resets the retry
		// counter before dialing.
		m.manager.Reconnect()
		m.notice = statusStyle.Render("reconnecting")

	case "s":
		if id := m.selected; id != "" {
			return m, m.apiCmd("start", func(ctx context.Context) (api.Result, error) {
				return m.client.StartBot(ctx, id)
			})
		}

	case "x":
		if id := m.selected; id != "" {
			return m, m.apiCmd("stop", func(ctx context.Context) (api.Result, error) {
				return m.client.StopBot(ctx, id)
			})
		}

	case "d":
		if m.selected != "" {
			m.confirmDelete = m.selected
		}
	}
	return m, nil
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	id := m.confirmDelete
	switch msg.String() {
	case "y", "Y":
		m.confirmDelete = ""
		return m, m.apiCmd("delete", func(ctx context.Context) (api.Result, error) {
			return m.client.DeleteBot(ctx, id)
		})
	case "n", "N", "esc":
		m.confirmDelete = ""
	}
	return m, nil
}

// moveSelection walks the visible (filtered) node order. Selecting a
// bot binds the detail panel to it.
func (m *Model) moveSelection(delta int) {
	ids := m.recon.VisibleIDs(m.filter)
	if len(ids) == 0 {
		return
	}

	idx := -1
	for i, id := range ids {
		if id == m.selected {
			idx = i
			break
		}
	}
	idx += delta
	if idx < 0 {
		idx = 0
	}
	if idx >= len(ids) {
		idx = len(ids) - 1
	}

	m.selected = ids[idx]
	if bot, ok := m.bots.Get(m.selected); ok {
		m.detail.Bind(bot)
	}
	m.recon.Apply(m.bots.All(), m.selected)
}

func (m Model) apiCmd(action string, call func(ctx context.Context) (api.Result, error)) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		result, err := call(ctx)
		return apiResultMsg{action: action, result: result, err: err}
	}
}

func (m Model) listWidth() int {
	if m.width <= 0 {
		return 52
	}
	w := m.width * 2 / 5
	if w < 40 {
		w = 40
	}
	return w
}

func (m Model) detailWidth() int {
	if m.width <= 0 {
		return 62
	}
	w := m.width - m.listWidth() - 4
	if w < 50 {
		w = 50
	}
	return w
}

// View assembles the frame from the cached node renderings.
func (m Model) View() string {
	if !m.ready {
		return "starting..."
	}
	if m.creating {
		return m.form.view()
	}

	header := m.renderHeader()
	list := m.recon.Render(m.filter, m.listWidth())
	detail := m.detail.View(m.detailWidth())
	body := lipgloss.JoinHorizontal(lipgloss.Top, list, " ", detail)

	footer := m.renderFooter()
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m Model) renderHeader() string {
	state := m.manager.State()
	conn := statusStyle.Render(state.String())
	switch {
	case m.manager.Exhausted():
		conn = errorStyle.Render("disconnected (gave up — press r)")
	case state == ws.StateDisconnected:
		conn = errorStyle.Render(fmt.Sprintf("disconnected (retry %d)", m.manager.Attempts()))
	}

	parts := []string{
		headerStyle.Render("arbdash"),
		conn,
		mutedStyle.Render(fmt.Sprintf("bots %d  running %d  profitable %d",
			m.agg.total, m.agg.running, m.agg.profitable)),
	}
	if strip := m.renderLatencyStrip(); strip != "" {
		parts = append(parts, strip)
	}
	return strings.Join(parts, "  ")
}

// renderLatencyStrip shows per-venue latency from the last snapshot.
func (m Model) renderLatencyStrip() string {
	if len(m.latencies) == 0 {
		return ""
	}
	venues := make([]string, 0, len(m.latencies))
	for venue := range m.latencies {
		venues = append(venues, venue)
	}
	sort.Strings(venues)
	parts := make([]string, 0, len(venues))
	for _, venue := range venues {
		parts = append(parts, fmt.Sprintf("%s %s", venue, fmtLatency(m.latencies[venue].AvgMs)))
	}
	return mutedStyle.Render(strings.Join(parts, "  "))
}

func (m Model) renderFooter() string {
	if m.confirmDelete != "" {
		return errorStyle.Render(fmt.Sprintf("delete bot %s? [y/n]", m.confirmDelete))
	}
	help := helpStyle.Render(fmt.Sprintf(
		"↑/↓ select  esc clear  f filter(%s)  n new  s start  x stop  d delete  r reconnect  q quit",
		m.filter))
	if m.notice != "" {
		return m.notice + "  " + help
	}
	return help
}
