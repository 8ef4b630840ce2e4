// Package feed provides a push tick source as an alternative to
// polling: a websocket price stream whose updates are fanned out to
// registered callbacks.
package feed

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type priceUpdate struct {
	Asset string  `json:"asset"`
	Price float64 `json:"price"`
}

// WSFeed dials a price-stream endpoint and delivers per-asset price
// updates. Callbacks run on the read loop goroutine; they must not
// block.
type WSFeed struct {
	endpoint string
	logger   *zap.Logger

	mu        sync.Mutex
	conn      *websocket.Conn
	callbacks []func(assetID string, price float64)
}

func NewWSFeed(endpoint string, logger *zap.Logger) *WSFeed {
	return &WSFeed{endpoint: endpoint, logger: logger}
}

// OnPriceUpdate registers a callback for every delivered tick.
func (f *WSFeed) OnPriceUpdate(callback func(assetID string, price float64)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.callbacks = append(f.callbacks, callback)
}

// Connect dials the stream and subscribes to the given assets. Safe to
// call again to subscribe to more assets on the open connection.
func (f *WSFeed) Connect(assets []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.conn == nil {
		conn, _, err := websocket.DefaultDialer.Dial(f.endpoint, nil)
		if err != nil {
			return err
		}
		f.conn = conn
		go f.readLoop(conn)
	}

	if len(assets) == 0 {
		return nil
	}
	return f.conn.WriteJSON(map[string]any{
		"op":   "subscribe",
		"args": assets,
	})
}

// Close shuts the stream down; the read loop exits on the closed
// connection.
func (f *WSFeed) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.conn == nil {
		return nil
	}
	err := f.conn.Close()
	f.conn = nil
	return err
}

func (f *WSFeed) readLoop(conn *websocket.Conn) {
	defer func() {
		conn.Close()
		f.mu.Lock()
		if f.conn == conn {
			f.conn = nil
		}
		f.mu.Unlock()
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			f.logger.Warn("price feed closed", zap.Error(err))
			return
		}

		var update priceUpdate
		if err := json.Unmarshal(message, &update); err != nil {
			f.logger.Warn("malformed feed message", zap.Error(err))
			continue
		}
		if update.Asset == "" || update.Price <= 0 {
			continue
		}

		f.mu.Lock()
		callbacks := make([]func(string, float64), len(f.callbacks))
		copy(callbacks, f.callbacks)
		f.mu.Unlock()

		for _, cb := range callbacks {
			cb(update.Asset, update.Price)
		}
	}
}
