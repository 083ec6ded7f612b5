package event

import (
	"sync"

	"go-crashout/internal/lib/logger/sl"

	"github.com/gorilla/websocket"
	"golang.org/x/exp/slog"
)

// Message is the envelope understood by the ws fan-out hub.
type Message struct {
	Channel string         `json:"channel"`
	Event   string         `json:"event"`
	Data    map[string]any `json:"data"`
}

// WSPublisher writes events to the fan-out hub over a single websocket
// connection. Writes are serialized; gorilla connections do not allow
// concurrent writers.
type WSPublisher struct {
	log  *slog.Logger
	mu   sync.Mutex
	conn *websocket.Conn
}

func NewWSPublisher(log *slog.Logger, conn *websocket.Conn) *WSPublisher {
	return &WSPublisher{
		log:  log,
		conn: conn,
	}
}

func (p *WSPublisher) Publish(event string, data map[string]any) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	msg := Message{
		Channel: Channel,
		Event:   event,
		Data:    data,
	}

	if err := p.conn.WriteJSON(msg); err != nil {
		p.log.Error("failed to publish event", sl.Err(err), sl.String("event", event))

		return err
	}

	return nil
}
