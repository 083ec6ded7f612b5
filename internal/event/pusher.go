package event

import (
	"go-crashout/internal/lib/logger/sl"

	"github.com/pusher/pusher-http-go/v5"
	"golang.org/x/exp/slog"
)

// PusherPublisher publishes events through the Pusher HTTP API instead of the
// local ws hub.
type PusherPublisher struct {
	log    *slog.Logger
	pusher *pusher.Client
}

func NewPusherPublisher(log *slog.Logger, pusherClient *pusher.Client) *PusherPublisher {
	return &PusherPublisher{
		log:    log,
		pusher: pusherClient,
	}
}

func (p *PusherPublisher) Publish(event string, data map[string]any) error {
	if err := p.pusher.Trigger(Channel, event, data); err != nil {
		p.log.Error("failed to trigger pusher event", sl.Err(err), sl.String("event", event))

		return err
	}

	return nil
}
