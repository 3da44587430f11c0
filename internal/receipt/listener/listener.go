package listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fekuna/omnipos-storefront/internal/receipt/publisher"
	"github.com/fekuna/omnipos-storefront/pkg/logger"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is satisfied by broker.KafkaConsumer.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// HandlerFunc receives every decoded receipt.created event.
type HandlerFunc func(ctx context.Context, ev publisher.ReceiptEvent) error

type ReceiptListener struct {
	consumer MessageReader
	handle   HandlerFunc
	backoff  time.Duration
	logger   logger.ZapLogger
}

func NewReceiptListener(consumer MessageReader, handle HandlerFunc, log logger.ZapLogger) *ReceiptListener {
	return &ReceiptListener{
		consumer: consumer,
		handle:   handle,
		backoff:  time.Second,
		logger:   log,
	}
}

// Start reads until ctx is done. Read errors are logged and retried after a
// pause; undecodable or foreign messages are skipped.
func (l *ReceiptListener) Start(ctx context.Context) error {
	l.logger.Info("starting receipt event listener")
	for {
		msg, err := l.consumer.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				l.logger.Info("stopping receipt event listener")
				return nil
			}
			l.logger.Error("failed to read kafka message", zap.Error(err))
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(l.backoff):
			}
			continue
		}
		l.processMessage(ctx, msg.Value)
	}
}

func (l *ReceiptListener) processMessage(ctx context.Context, value []byte) {
	var ev publisher.ReceiptEvent
	if err := json.Unmarshal(value, &ev); err != nil {
		l.logger.Error("failed to unmarshal event", zap.Error(err))
		return
	}
	if ev.Type != publisher.EventReceiptCreated {
		return
	}

	if err := l.handle(ctx, ev); err != nil {
		l.logger.Error("failed to handle receipt event",
			zap.Int64("receipt_id", ev.ReceiptID),
			zap.Error(err),
		)
	}
}
