package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcastEventEnvelope(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := &Client{Hub: hub, Send: make(chan []byte, 1)}
	hub.register <- client

	hub.BroadcastEvent("purchase_order.created", map[string]interface{}{"order_number": "PO-1"})

	select {
	case payload := <-client.Send:
		var msg struct {
			Event string                 `json:"event"`
			Data  map[string]interface{} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(payload, &msg))
		assert.Equal(t, "purchase_order.created", msg.Event)
		assert.Equal(t, "PO-1", msg.Data["order_number"])
	case <-time.After(time.Second):
		t.Fatal("no broadcast received")
	}
}

func TestSlowClientDropped(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	// Zero-capacity send channel simulates a client that never drains
	client := &Client{Hub: hub, Send: make(chan []byte)}
	hub.register <- client

	hub.BroadcastEvent("receiving.posted", map[string]interface{}{"receipt_number": "GR-1"})
	hub.BroadcastEvent("receiving.posted", map[string]interface{}{"receipt_number": "GR-2"})

	// The dispatch loop closes the channel of clients that cannot keep up
	select {
	case _, open := <-client.Send:
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("expected slow client channel to be closed")
	}
}
