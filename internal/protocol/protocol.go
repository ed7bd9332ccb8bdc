// Package protocol parses the JSON envelope pushed over the dashboard
// websocket into typed messages. Unknown discriminants are not errors:
// Parse returns (nil, nil) and the caller drops the message.
package protocol

import (
	"encoding/json"
	"fmt"

	"arbdash/internal/model"
)

// Recognized envelope discriminants.
const (
	TypeInit      = "init"
	TypeStatus    = "status"
	TypeBotsList  = "bots_list"
	TypeBotUpdate = "bot_update"
)

type envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Message is one recognized inbound payload. The concrete type is
// Snapshot, BotsList or BotUpdate.
type Message interface {
	message()
}

// Snapshot is a full replacement of all known bots plus per-venue
// latency statistics. Sent as "init" on connect and "status" on the
// server's periodic broadcast.
type Snapshot struct {
	Bots      []model.Bot                   `json:"bots"`
	Latencies map[string]model.VenueLatency `json:"latencies"`
	Timestamp int64                         `json:"timestamp"`
}

// BotsList is a full replacement of the bot collection only.
type BotsList struct {
	Bots []model.Bot `json:"bots"`
}

// BotUpdate carries the latest state of a single bot.
type BotUpdate struct {
	Bot model.Bot
}

func (Snapshot) message()  {}
func (BotsList) message()  {}
func (BotUpdate) message() {}

// Parse decodes a raw channel payload. Malformed envelopes or payloads
// return an error; envelopes with an unrecognized type (including the
// server's "pong") return (nil, nil) and are ignored by the caller.
func Parse(raw []byte) (Message, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("failed to unmarshal envelope: %w", err)
	}

	switch env.Type {
	case TypeInit, TypeStatus:
		var snap Snapshot
		if err := json.Unmarshal(env.Data, &snap); err != nil {
			return nil, fmt.Errorf("failed to unmarshal %s payload: %w", env.Type, err)
		}
		return snap, nil

	case TypeBotsList:
		var list BotsList
		if err := json.Unmarshal(env.Data, &list); err != nil {
			return nil, fmt.Errorf("failed to unmarshal bots_list payload: %w", err)
		}
		return list, nil

	case TypeBotUpdate:
		var bot model.Bot
		if err := json.Unmarshal(env.Data, &bot); err != nil {
			return nil, fmt.Errorf("failed to unmarshal bot_update payload: %w", err)
		}
		return BotUpdate{Bot: bot}, nil
	}

	return nil, nil
}
