package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"arbdash/internal/model"
)

// Filter is the presentation-only visibility overlay for the bot list.
// It hides and shows existing nodes; it never creates or destroys them.
type Filter int

const (
	FilterAll Filter = iota
	FilterRunning
	FilterStopped
)

// String returns the filter label for the status line.
func (f Filter) String() string {
	switch f {
	case FilterRunning:
		return "running"
	case FilterStopped:
		return "stopped"
	default:
		return "all"
	}
}

// Next cycles to the following filter.
func (f Filter) Next() Filter {
	return (f + 1) % 3
}

// segment is one independently patched region of a view node. The
// rendered string is recomputed only when the plain text changes, so an
// identical update leaves the segment untouched.
type segment struct {
	text     string
	rendered string
}

func (s *segment) set(text string, style lipgloss.Style) bool {
	if text == s.text {
		return false
	}
	s.text = text
	s.rendered = style.Render(text)
	return true
}

// botNode is the view node owned by the reconciler for one bot id. It
// exists exactly as long as the id is present in the canonical
// collection.
type botNode struct {
	id      string
	running bool

	header    segment
	spread    segment
	direction segment
	metrics   segment
	footer    segment
}

// ApplyStats reports what one reconciliation pass did, for logging and
// for the idempotence guarantees exercised by tests.
type ApplyStats struct {
	Created int
	Patched int
	Removed int
}

// Reconciler converges the set of view nodes to exactly one node per
// canonical bot id with minimal mutation. It owns the node table;
// nothing else may touch it.
type Reconciler struct {
	nodes map[string]*botNode
	order []string
	sel   string
}

// NewReconciler creates an empty reconciler.
func NewReconciler() *Reconciler {
	return &Reconciler{
		nodes: make(map[string]*botNode),
	}
}

// Apply runs one reconciliation pass against the canonical collection.
// New ids get a full structural build appended in canonical order;
// existing nodes are patched in place and never reordered; nodes whose
// id is gone are destroyed. The selection highlight is re-applied on
// every pass.
func (r *Reconciler) Apply(bots []model.Bot, selected string) ApplyStats {
	var stats ApplyStats

	present := make(map[string]bool, len(bots))
	for _, bot := range bots {
		present[bot.ID] = true
		if node, ok := r.nodes[bot.ID]; ok {
			if node.patch(bot) > 0 {
				stats.Patched++
			}
			continue
		}
		node := newBotNode(bot)
		r.nodes[bot.ID] = node
		r.order = append(r.order, bot.ID)
		stats.Created++
	}

	if len(present) != len(r.order) {
		kept := r.order[:0]
		for _, id := range r.order {
			if present[id] {
				kept = append(kept, id)
				continue
			}
			delete(r.nodes, id)
			stats.Removed++
		}
		r.order = kept
	}

	r.sel = selected
	return stats
}

// Len returns the number of live view nodes.
func (r *Reconciler) Len() int {
	return len(r.order)
}

// IDs returns the rendering order of the live nodes.
func (r *Reconciler) IDs() []string {
	return append([]string(nil), r.order...)
}

// VisibleIDs returns the rendering order restricted to the filter.
func (r *Reconciler) VisibleIDs(filter Filter) []string {
	ids := make([]string, 0, len(r.order))
	for _, id := range r.order {
		if r.visible(r.nodes[id], filter) {
			ids = append(ids, id)
		}
	}
	return ids
}

func (r *Reconciler) visible(node *botNode, filter Filter) bool {
	switch filter {
	case FilterRunning:
		return node.running
	case FilterStopped:
		return !node.running
	default:
		return true
	}
}

// node returns the view node for id. Test hook for identity checks.
func (r *Reconciler) node(id string) *botNode {
	return r.nodes[id]
}

// Render draws the visible nodes in order at the given card width.
func (r *Reconciler) Render(filter Filter, width int) string {
	if len(r.order) == 0 {
		return mutedStyle.Render("No bots yet. Press n to create one.")
	}

	cards := make([]string, 0, len(r.order))
	for _, id := range r.order {
		node := r.nodes[id]
		if !r.visible(node, filter) {
			continue
		}
		cards = append(cards, node.render(id == r.sel, width))
	}
	if len(cards) == 0 {
		return mutedStyle.Render(fmt.Sprintf("No %s bots.", filter))
	}
	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}

func newBotNode(bot model.Bot) *botNode {
	node := &botNode{id: bot.ID, running: bot.Running}
	node.buildHeader(bot)
	node.buildSpread(bot)
	node.buildDirection(bot)
	node.buildMetrics(bot)
	node.buildFooter(bot)
	return node
}

// patch updates only the mutable sub-fields, returning how many
// segments actually changed. The footer is rebuilt only when the
// running state flipped, so its region is left alone otherwise.
func (n *botNode) patch(bot model.Bot) int {
	changed := 0
	runningFlipped := bot.Running != n.running
	n.running = bot.Running

	if n.buildHeader(bot) {
		changed++
	}
	if n.buildSpread(bot) {
		changed++
	}
	if n.buildDirection(bot) {
		changed++
	}
	if n.buildMetrics(bot) {
		changed++
	}
	if runningFlipped && n.buildFooter(bot) {
		changed++
	}
	return changed
}

func (n *botNode) buildHeader(bot model.Bot) bool {
	badge := "■ stopped"
	style := stoppedBadgeStyle
	if bot.Running {
		badge = "▶ running"
		style = runningBadgeStyle
	}
	mode := "poll"
	if bot.WsMode {
		mode = "ws"
	}
	text := fmt.Sprintf("%s  %s  [%s]", bot.Symbol, badge, mode)
	if text == n.header.text {
		return false
	}
	n.header.text = text
	n.header.rendered = fmt.Sprintf("%s  %s  %s",
		panelTitleStyle.Render(bot.Symbol),
		style.Render(badge),
		mutedStyle.Render("["+mode+"]"))
	return true
}

func (n *botNode) buildSpread(bot model.Bot) bool {
	style := spreadFlatStyle
	switch {
	case bot.Spread.Current > 0:
		style = spreadPositiveStyle
	case bot.Spread.Current < 0:
		style = spreadNegativeStyle
	}
	return n.spread.set("spread "+fmtSignedPct(bot.Spread.Current), style)
}

// buildDirection prefers the live opportunity's buy/sell direction and
// falls back to the static venue pairing.
func (n *botNode) buildDirection(bot model.Bot) bool {
	text := bot.ExchangeA + " ⇄ " + bot.ExchangeB
	if opp := bot.Opportunity; opp != nil {
		text = opp.BuyExchange + " → " + opp.SellExchange
	}
	return n.direction.set(text, mutedStyle)
}

func (n *botNode) buildMetrics(bot model.Bot) bool {
	text := fmt.Sprintf("upd %d  prof %d  lat %s  up %s",
		bot.Stats.Updates(),
		bot.Stats.Profitable,
		fmtLatency(bot.Latency.AvgMs),
		fmtRuntime(bot.Stats.Runtime))
	return n.metrics.set(text, lipgloss.NewStyle())
}

func (n *botNode) buildFooter(bot model.Bot) bool {
	text := "[s] start  [d] delete"
	if bot.Running {
		text = "[x] stop  [d] delete"
	}
	return n.footer.set(text, helpStyle)
}

func (n *botNode) render(selected bool, width int) string {
	body := strings.Join([]string{
		n.header.rendered,
		n.spread.rendered,
		n.direction.rendered,
		n.metrics.rendered,
		n.footer.rendered,
	}, "\n")

	style := cardStyle
	if selected {
		style = cardSelectedStyle
	}
	if width > 4 {
		style = style.Width(width)
	}
	return style.Render(body)
}
