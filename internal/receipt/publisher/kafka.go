package publisher

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fekuna/omnipos-storefront/internal/model"
)

const EventReceiptCreated = "receipt.created"

// MessageWriter is satisfied by broker.KafkaProducer.
type MessageWriter interface {
	Publish(ctx context.Context, key, value []byte) error
}

type ReceiptEvent struct {
	Type      string    `json:"type"`
	ReceiptID int64     `json:"receipt_id"`
	Customer  string    `json:"customer"`
	CreatedBy string    `json:"created_by"`
	URL       string    `json:"url"`
	Items     int       `json:"items"`
	Pages     int       `json:"pages"`
	CreatedAt time.Time `json:"created_at"`
}

type ReceiptPublisher struct {
	writer MessageWriter
}

// NewReceiptPublisher returns a publisher; a nil writer makes it a no-op.
func NewReceiptPublisher(writer MessageWriter) *ReceiptPublisher {
	return &ReceiptPublisher{writer: writer}
}

// PublishCreated emits one receipt.created event keyed by customer name.
func (p *ReceiptPublisher) PublishCreated(ctx context.Context, r *model.Receipt, items, pages int) error {
	if p == nil || p.writer == nil {
		return nil
	}
	ev := ReceiptEvent{
		Type:      EventReceiptCreated,
		ReceiptID: r.ID,
		Customer:  r.Customer,
		CreatedBy: r.CreatedBy,
		URL:       r.URL,
		Items:     items,
		Pages:     pages,
		CreatedAt: r.CreatedAt,
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.writer.Publish(ctx, []byte(r.Customer), data)
}
