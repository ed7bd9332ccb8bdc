package model

// PriceLevel is one rung of an orderbook ladder.
type PriceLevel struct {
	Price float64 `json:"price"`
	Size  float64 `json:"size"`
}

// OrderbookSide holds one venue's view of the book for a bot's symbol.
// Bids are sorted high to low, asks low to high, as served.
type OrderbookSide struct {
	Exchange  string       `json:"exchange"`
	Symbol    string       `json:"symbol"`
	BestBid   float64      `json:"best_bid"`
	BestAsk   float64      `json:"best_ask"`
	MidPrice  float64      `json:"mid_price"`
	SpreadBps float64      `json:"spread_bps"`
	Imbalance float64      `json:"imbalance"`
	BidDepth  float64      `json:"bid_depth"`
	AskDepth  float64      `json:"ask_depth"`
	LatencyMs float64      `json:"latency_ms"`
	Bids      []PriceLevel `json:"bids"`
	Asks      []PriceLevel `json:"asks"`
	Timestamp int64        `json:"timestamp"`
}

// Orderbooks pairs the two venue-side books of a bot.
type Orderbooks struct {
	A *OrderbookSide `json:"a"`
	B *OrderbookSide `json:"b"`
}

// Opportunity is a detected cross-venue price discrepancy with its
// economics. Optional on the wire; nil when the bot has seen none yet.
type Opportunity struct {
	Symbol          string  `json:"symbol"`
	BuyExchange     string  `json:"buy_exchange"`
	SellExchange    string  `json:"sell_exchange"`
	BuyPrice        float64 `json:"buy_price"`
	SellPrice       float64 `json:"sell_price"`
	SpreadPercent   float64 `json:"spread_percent"`
	SpreadBps       float64 `json:"spread_bps"`
	NetSpread       float64 `json:"net_spread_after_slippage"`
	RecommendedSize float64 `json:"recommended_size"`
	ExpectedProfit  float64 `json:"expected_profit_usd"`
	Confidence      float64 `json:"confidence"`
	LatencyMs       float64 `json:"latency_ms"`
	Timestamp       int64   `json:"timestamp"`
}

// Spread carries the bot's spread measurements in percent.
type Spread struct {
	Current float64 `json:"current"`
	Net     float64 `json:"net"`
	Best    float64 `json:"best"`
	Avg     float64 `json:"avg"`
}

// Latency carries the bot's own polling latency statistics.
type Latency struct {
	AvgMs float64 `json:"avg_ms"`
	MinMs float64 `json:"min_ms"`
	MaxMs float64 `json:"max_ms"`
}

// Stats carries the bot's lifetime counters. Runtime is in seconds.
type Stats struct {
	Polls         int64 `json:"polls"`
	WsUpdates     int64 `json:"ws_updates"`
	Opportunities int64 `json:"opportunities"`
	Profitable    int64 `json:"profitable"`
	Trades        int64 `json:"trades"`
	Errors        int64 `json:"errors"`
	Runtime       int64 `json:"runtime"`
}

// Updates is the combined update count across polling and websocket feeds.
func (s Stats) Updates() int64 {
	return s.Polls + s.WsUpdates
}

// Bot is one monitored trading agent as pushed by the server. The id is
// opaque and unique; an update for an existing id never changes identity.
// Logs only ever grow by appending.
type Bot struct {
	ID          string       `json:"id"`
	Symbol      string       `json:"symbol"`
	ExchangeA   string       `json:"exchange_a"`
	ExchangeB   string       `json:"exchange_b"`
	Running     bool         `json:"running"`
	WsMode      bool         `json:"ws_mode"`
	Stats       Stats        `json:"stats"`
	Latency     Latency      `json:"latency"`
	Spread      Spread       `json:"spread"`
	Opportunity *Opportunity `json:"opportunity"`
	Orderbooks  Orderbooks   `json:"orderbooks"`
	Logs        []string     `json:"logs"`
}

// VenueLatency is the server-side latency summary for one venue.
type VenueLatency struct {
	LastMs  float64 `json:"last_ms"`
	AvgMs   float64 `json:"avg_ms"`
	MinMs   float64 `json:"min_ms"`
	MaxMs   float64 `json:"max_ms"`
	Updates int64   `json:"updates"`
}
