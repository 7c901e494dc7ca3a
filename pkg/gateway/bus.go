package gateway

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/go-go-golems/revchat/pkg/chat"
)

// topicFor computes the per-user event topic.
func topicFor(userID string) string { return "chat:" + userID }

// Bus is the in-process event channel between orchestration and websocket
// writers. Each connection subscribes to its user's topic; publishing to a
// topic with no subscriber drops the message, which is exactly the
// at-most-once semantics the gateway wants after a disconnect.
type Bus struct {
	pubsub *gochannel.GoChannel
}

// NewBus creates the gochannel-backed event bus.
func NewBus() *Bus {
	return &Bus{
		pubsub: gochannel.NewGoChannel(
			gochannel.Config{OutputChannelBuffer: 64},
			watermillLogger{logger: log.Logger},
		),
	}
}

// Publish serializes an event and publishes it on the user's topic.
func (b *Bus) Publish(_ context.Context, userID string, ev chat.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return errors.Wrap(err, "marshal event")
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	return errors.Wrap(b.pubsub.Publish(topicFor(userID), msg), "publish event")
}

// Subscribe opens the user's topic; the returned channel closes when ctx is
// cancelled.
func (b *Bus) Subscribe(ctx context.Context, userID string) (<-chan *message.Message, error) {
	ch, err := b.pubsub.Subscribe(ctx, topicFor(userID))
	if err != nil {
		return nil, errors.Wrap(err, "subscribe topic")
	}
	return ch, nil
}

// Close shuts the bus down.
func (b *Bus) Close() error {
	return b.pubsub.Close()
}

// watermillLogger adapts zerolog to watermill's LoggerAdapter.
type watermillLogger struct {
	logger zerolog.Logger
}

func (w watermillLogger) event(e *zerolog.Event, msg string, err error, fields watermill.LogFields) {
	if err != nil {
		e = e.Err(err)
	}
	for k, v := range fields {
		e = e.Interface(k, v)
	}
	e.Msg(msg)
}

func (w watermillLogger) Error(msg string, err error, fields watermill.LogFields) {
	w.event(w.logger.Error(), msg, err, fields)
}

func (w watermillLogger) Info(msg string, fields watermill.LogFields) {
	w.event(w.logger.Debug(), msg, nil, fields)
}

func (w watermillLogger) Debug(msg string, fields watermill.LogFields) {
	w.event(w.logger.Trace(), msg, nil, fields)
}

func (w watermillLogger) Trace(msg string, fields watermill.LogFields) {
	w.event(w.logger.Trace(), msg, nil, fields)
}

func (w watermillLogger) With(fields watermill.LogFields) watermill.LoggerAdapter {
	ctx := w.logger.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return watermillLogger{logger: ctx.Logger()}
}
