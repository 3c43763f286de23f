// Package groundlink streams mission telemetry to a ground-station
// websocket endpoint.
package groundlink

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	reconnectInterval = 5 * time.Second
	sendBuffer        = 64
)

// Event is a single telemetry record.
type Event struct {
	Type    string    `json:"type"`
	Payload string    `json:"payload"`
	Time    time.Time `json:"time"`
}

// Client publishes events over a websocket, reconnecting on failure.
// Publishing never blocks the mission flow: events are dropped when the
// buffer is full or the link is down.
type Client struct {
	serverURL string
	sendChan  chan Event
	log       *logrus.Entry
}

func New(serverURL string, log *logrus.Entry) *Client {
	return &Client{
		serverURL: serverURL,
		sendChan:  make(chan Event, sendBuffer),
		log:       log,
	}
}

// Publish queues a telemetry event.
func (c *Client) Publish(eventType, payload string) {
	event := Event{
		Type:    eventType,
		Payload: payload,
		Time:    time.Now(),
	}
	select {
	case c.sendChan <- event:
	default:
		c.log.Debugf("ground link buffer full, dropping %s event", eventType)
	}
}

// Run maintains the connection until ctx is cancelled.
func (c *Client) Run(ctx context.Context) {
	c.log.Warnf("started ground link")
	timer := time.NewTimer(0)
	wsURL := "ws" + strings.TrimPrefix(c.serverURL, "http") + "/mission/ws"
	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			c.log.Warnf("stopped ground link")
			return
		case <-timer.C:
			c.serve(ctx, wsURL)
			timer.Reset(reconnectInterval)
		}
	}
}

func (c *Client) serve(ctx context.Context, wsURL string) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		c.log.Error(fmt.Errorf("error connecting to ground station web socket: %w", err))
		return
	}
	defer func() { _ = conn.Close() }()

	for {
		select {
		case <-ctx.Done():
			return
		case event := <-c.sendChan:
			if err := conn.WriteJSON(event); err != nil {
				c.log.Error(fmt.Errorf("error writing event to web socket: %w", err))
				return
			}
		}
	}
}
