package rpcclient

import (
	"context"

	"github.com/gorilla/websocket"
	"github.com/hashicorp/go-hclog"
)

// HeadSubscriber delivers a best-effort wakeup whenever the network
// produces a new head, so confirmation loops do not have to rely on their
// poll timer alone. Losing the stream is not an error; consumers keep
// polling regardless.
type HeadSubscriber struct {
	logger hclog.Logger
	url    string
}

func NewHeadSubscriber(logger hclog.Logger, wsURL string) *HeadSubscriber {
	return &HeadSubscriber{
		logger: logger.Named("heads"),
		url:    wsURL,
	}
}

// Subscribe dials the websocket endpoint and streams head notifications
// into the returned channel until the context is done. The channel is
// closed when the stream ends.
func (h *HeadSubscriber) Subscribe(ctx context.Context) (<-chan struct{}, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, h.url, nil)
	if err != nil {
		return nil, err
	}

	sub := &requestOut{
		JSONRPC: "2.0",
		Method:  "eth_subscribe",
		Params:  []interface{}{"newHeads"},
		ID:      "newHeads",
	}

	if err := conn.WriteJSON(sub); err != nil {
		_ = conn.Close()

		return nil, err
	}

	heads := make(chan struct{}, 1)

	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	go func() {
		defer close(heads)

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if ctx.Err() == nil {
					h.logger.Debug("head stream closed", "err", err)
				}

				return
			}

			select {
			case heads <- struct{}{}:
			default:
				// a pending wakeup is already queued
			}
		}
	}()

	return heads, nil
}
