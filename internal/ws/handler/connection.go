package handler

import (
	"encoding/json"
	"net/http"

	"go-crashout/internal/lib/logger/sl"

	"github.com/gorilla/websocket"
	"golang.org/x/exp/slog"
)

// Message is the hub envelope. The API binary publishes table events into a
// channel; browsers subscribe by sending {"channel": ..., "event": "subscribe"}.
type Message struct {
	Channel string         `json:"channel"`
	Event   string         `json:"event"`
	Data    map[string]any `json:"data"`
}

const eventSubscribe = "subscribe"

type subscription struct {
	conn    *websocket.Conn
	channel string
}

// Hub fans messages out to channel subscribers. The channel map is owned by
// the run goroutine; reader goroutines only talk to it through channels.
type Hub struct {
	channels    map[string]map[*websocket.Conn]bool
	broadcast   chan Message
	subscribe   chan subscription
	unsubscribe chan *websocket.Conn
	log         *slog.Logger
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		channels:    make(map[string]map[*websocket.Conn]bool),
		broadcast:   make(chan Message, 64),
		subscribe:   make(chan subscription),
		unsubscribe: make(chan *websocket.Conn),
		log:         log,
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

func (hub *Hub) run() {
	for {
		select {
		case sub := <-hub.subscribe:
			if hub.channels[sub.channel] == nil {
				hub.channels[sub.channel] = make(map[*websocket.Conn]bool)
			}

			hub.channels[sub.channel][sub.conn] = true
		case conn := <-hub.unsubscribe:
			for _, receivers := range hub.channels {
				delete(receivers, conn)
			}
		case message := <-hub.broadcast:
			receivers, ok := hub.channels[message.Channel]
			if !ok {
				continue
			}

			data, err := json.Marshal(message)
			if err != nil {
				hub.log.Error("failed to marshal message", sl.Err(err))

				continue
			}

			for conn := range receivers {
				if err = conn.WriteMessage(websocket.TextMessage, data); err != nil {
					hub.log.Error("failed to write message", sl.Err(err))

					delete(receivers, conn)
				}
			}
		}
	}
}

func (hub *Hub) HandleConnection(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		hub.log.Error("failed to upgrade connection", sl.Err(err))

		return
	}

	defer func() {
		hub.unsubscribe <- ws

		if err = ws.Close(); err != nil {
			hub.log.Error("failed to close connection", sl.Err(err))
		}
	}()

	for {
		_, p, err := ws.ReadMessage()
		if err != nil {
			hub.log.Debug("connection closed", sl.Err(err))

			return
		}

		var message Message

		if err = json.Unmarshal(p, &message); err != nil {
			hub.log.Error("failed to unmarshal message", sl.Err(err))

			continue
		}

		if message.Event == eventSubscribe {
			hub.subscribe <- subscription{conn: ws, channel: message.Channel}

			continue
		}

		hub.broadcast <- message
	}
}

func (hub *Hub) RunServer() {
	go hub.run()
}
