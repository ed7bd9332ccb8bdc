package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"arbdash/internal/api"
)

// createForm is the modal for creating a new bot. Everything beyond
// symbol and venues keeps the server defaults.
type createForm struct {
	inputs [3]textinput.Model
	focus  int
	dryRun bool
}

func newCreateForm() createForm {
	var f createForm

	symbol := textinput.New()
	symbol.Prompt = "symbol      > "
	symbol.Placeholder = "BTC-PERP"
	symbol.CharLimit = 32
	symbol.Focus()

	venueA := textinput.New()
	venueA.Prompt = "exchange a  > "
	venueA.Placeholder = "lighter"
	venueA.CharLimit = 32

	venueB := textinput.New()
	venueB.Prompt = "exchange b  > "
	venueB.Placeholder = "extended"
	venueB.CharLimit = 32

	f.inputs = [3]textinput.Model{symbol, venueA, venueB}
	f.dryRun = true
	return f
}

func (f *createForm) cycleFocus(delta int) {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + len(f.inputs)) % len(f.inputs)
	f.inputs[f.focus].Focus()
}

func (f *createForm) request() (api.CreateBotRequest, bool) {
	req := api.DefaultCreateBotRequest()
	req.Symbol = strings.TrimSpace(f.inputs[0].Value())
	req.ExchangeA = strings.TrimSpace(f.inputs[1].Value())
	req.ExchangeB = strings.TrimSpace(f.inputs[2].Value())
	req.DryRun = f.dryRun
	ok := req.Symbol != "" && req.ExchangeA != "" && req.ExchangeB != ""
	return req, ok
}

func (f createForm) view() string {
	mode := "live"
	if f.dryRun {
		mode = "dry-run"
	}
	lines := []string{
		panelTitleStyle.Render("New bot"),
		f.inputs[0].View(),
		f.inputs[1].View(),
		f.inputs[2].View(),
		mutedStyle.Render("mode        : " + mode + "  (ctrl+d toggles)"),
		"",
		helpStyle.Render("tab next field  enter create  esc cancel"),
	}
	return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.creating = false
		return m, nil

	case "tab", "down":
		m.form.cycleFocus(1)
		return m, nil

	case "shift+tab", "up":
		m.form.cycleFocus(-1)
		return m, nil

	case "ctrl+d":
		m.form.dryRun = !m.form.dryRun
		return m, nil

	case "enter":
		req, ok := m.form.request()
		if !ok {
			m.notice = errorStyle.Render("symbol and both exchanges are required")
			return m, nil
		}
		m.creating = false
		return m, m.apiCmd("create", func(ctx context.Context) (api.Result, error) {
			return m.client.CreateBot(ctx, req)
		})
	}

	var cmd tea.Cmd
	m.form.inputs[m.form.focus], cmd = m.form.inputs[m.form.focus].Update(msg)
	return m, cmd
}
