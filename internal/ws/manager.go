// Package ws maintains the single logical websocket channel to the
// dashboard server: dialing, reconnection with bounded exponential
// backoff, and the liveness heartbeat. The manager raises lifecycle
// events and never interprets payload content.
package ws

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// State is the connection lifecycle state.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
)

// String returns the state for status display.
func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

// EventKind discriminates manager events.
type EventKind int

const (
	// EventOpened fires once per successful dial.
	EventOpened EventKind = iota
	// EventClosed fires once per connection loss or failed dial.
	EventClosed
	// EventMessage carries one raw inbound payload.
	EventMessage
)

// Event is a single lifecycle or message event raised by the manager.
type Event struct {
	Kind    EventKind
	Payload []byte
	Err     error
}

// Config holds the connection and retry parameters.
type Config struct {
	URL               string
	HeartbeatInterval time.Duration // default 30s
	InitialDelay      time.Duration // default 1s
	MaxDelay          time.Duration // default 30s
	MaxRetries        int           // default 10; fail-stop beyond this
}

// pingFrame is the liveness payload. The server answers with a pong the
// dispatcher ignores; no acknowledgement is awaited.
var pingFrame = []byte(`{"type":"ping"}`)

// Conn is the minimal websocket surface the manager needs. Satisfied by
// *websocket.Conn; tests substitute a scripted implementation.
type Conn interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Manager owns the one logical channel. All lifecycle transitions are
// serialized under its mutex; consumers observe them in order on the
// Events channel.
type Manager struct {
	cfg    Config
	clock  clock.Clock
	log    *logrus.Entry
	events chan Event

	// Allow test override of the dial function
	dialFunc func(url string) (Conn, error)

	mu           sync.Mutex
	state        State
	attempts     int
	bo           *backoff.ExponentialBackOff
	conn         Conn
	connStop     chan struct{}
	retryTimer   *clock.Timer
	retryPending bool
	done         chan struct{}
	closedOnce   sync.Once
}

// NewManager creates a manager for the given endpoint. The clock is
// injectable so reconnect and heartbeat timing is testable.
func NewManager(cfg Config, clk clock.Clock, log *logrus.Entry) *Manager {
	if cfg.HeartbeatInterval <= 0 {
		cfg.HeartbeatInterval = 30 * time.Second
	}
	if cfg.InitialDelay <= 0 {
		cfg.InitialDelay = time.Second
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = 30 * time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 10
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = cfg.InitialDelay
	bo.MaxInterval = cfg.MaxDelay
	bo.Multiplier = 2.0
	bo.RandomizationFactor = 0 // exact 1s,2s,4s,... sequence
	bo.MaxElapsedTime = 0
	bo.Reset()

	m := &Manager{
		cfg:    cfg,
		clock:  clk,
		log:    log,
		events: make(chan Event, 256),
		bo:     bo,
		done:   make(chan struct{}),
	}
	m.dialFunc = m.dial
	return m
}

// Events returns the ordered stream of lifecycle and message events.
func (m *Manager) Events() <-chan Event {
	return m.events
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Attempts returns the current retry counter.
func (m *Manager) Attempts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.attempts
}

// Exhausted reports whether the retry ceiling has been reached and no
// further attempt is scheduled.
func (m *Manager) Exhausted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state == StateDisconnected && !m.retryPending && m.attempts >= m.cfg.MaxRetries
}

// Connect establishes the logical channel. It is a no-op while a dial
// or a scheduled retry is already pending.
func (m *Manager) Connect() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateDisconnected || m.retryPending {
		return
	}
	m.startDialLocked()
}

// Reconnect resets the retry counter and dials again, cancelling any
// pending retry. This is the manual recovery path out of the fail-stop
// state after the retry ceiling.
func (m *Manager) Reconnect() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateDisconnected {
		return
	}
	if m.retryTimer != nil {
		m.retryTimer.Stop()
		m.retryTimer = nil
	}
	m.retryPending = false
	m.attempts = 0
	m.bo.Reset()
	m.startDialLocked()
}

func (m *Manager) startDialLocked() {
	m.state = StateConnecting
	go m.runDial()
}

func (m *Manager) runDial() {
	conn, err := m.dialFunc(m.cfg.URL)
	if err != nil {
		m.log.WithError(err).Warn("dial failed")
		m.handleDisconnect(err)
		return
	}

	m.mu.Lock()
	select {
	case <-m.done:
		m.mu.Unlock()
		conn.Close()
		return
	default:
	}
	m.state = StateConnected
	m.attempts = 0
	m.bo.Reset()
	m.conn = conn
	m.connStop = make(chan struct{})
	stop := m.connStop
	m.mu.Unlock()

	m.log.Info("channel opened")
	m.emit(Event{Kind: EventOpened})

	go m.heartbeat(conn, stop)
	m.readLoop(conn)
}

func (m *Manager) dial(url string) (Conn, error) {
	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}
	conn, _, err := dialer.Dial(url, http.Header{})
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", url, err)
	}
	return conn, nil
}

// readLoop pumps inbound payloads until the connection errors out. Any
// read error, including a heartbeat-induced close, ends the connection
// through the ordinary close path.
func (m *Manager) readLoop(conn Conn) {
	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			m.log.WithError(err).Warn("channel closed")
			m.handleDisconnect(err)
			return
		}
		m.emit(Event{Kind: EventMessage, Payload: payload})
	}
}

// heartbeat keeps an idle channel alive. Write failures are not handled
// here: closing the connection surfaces them to readLoop.
func (m *Manager) heartbeat(conn Conn, stop chan struct{}) {
	ticker := m.clock.Ticker(m.cfg.HeartbeatInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := conn.WriteMessage(websocket.TextMessage, pingFrame); err != nil {
				m.log.WithError(err).Warn("heartbeat write failed")
				conn.Close()
				return
			}
		case <-stop:
			return
		case <-m.done:
			return
		}
	}
}

// handleDisconnect transitions to Disconnected, emits Closed, and
// schedules the next attempt unless the retry ceiling is reached.
func (m *Manager) handleDisconnect(cause error) {
	m.mu.Lock()
	if m.conn != nil {
		m.conn.Close()
		m.conn = nil
	}
	if m.connStop != nil {
		close(m.connStop)
		m.connStop = nil
	}
	m.state = StateDisconnected

	select {
	case <-m.done:
		m.mu.Unlock()
		return
	default:
	}

	if m.attempts >= m.cfg.MaxRetries {
		// Deliberate fail-stop: no further automatic attempts. The
		// Reconnect operation is the only way out.
		m.log.WithField("attempts", m.attempts).Error("retry ceiling reached, staying disconnected")
		m.mu.Unlock()
		m.emit(Event{Kind: EventClosed, Err: cause})
		return
	}

	m.attempts++
	delay := m.bo.NextBackOff()
	m.retryPending = true
	m.retryTimer = m.clock.AfterFunc(delay, func() {
		m.mu.Lock()
		m.retryPending = false
		m.retryTimer = nil
		if m.state != StateDisconnected {
			m.mu.Unlock()
			return
		}
		m.startDialLocked()
		m.mu.Unlock()
	})
	attempt := m.attempts
	m.mu.Unlock()

	m.log.WithFields(logrus.Fields{"attempt": attempt, "delay": delay}).Info("reconnect scheduled")
	m.emit(Event{Kind: EventClosed, Err: cause})
}

func (m *Manager) emit(ev Event) {
	select {
	case m.events <- ev:
	case <-m.done:
	}
}

// Close tears the manager down. No events are emitted afterwards.
func (m *Manager) Close() {
	m.closedOnce.Do(func() {
		m.mu.Lock()
		close(m.done)
		if m.retryTimer != nil {
			m.retryTimer.Stop()
			m.retryTimer = nil
		}
		m.retryPending = false
		if m.conn != nil {
			m.conn.Close()
			m.conn = nil
		}
		m.state = StateDisconnected
		m.mu.Unlock()
	})
}
