package publisher

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/fekuna/omnipos-storefront/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureWriter struct {
	key, value []byte
}

func (c *captureWriter) Publish(ctx context.Context, key, value []byte) error {
	c.key, c.value = key, value
	return nil
}

func TestPublishCreated(t *testing.T) {
	w := &captureWriter{}
	p := NewReceiptPublisher(w)
	at := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

	err := p.PublishCreated(context.Background(), &model.Receipt{
		ID: 7, Customer: "Asha", CreatedBy: "staff@example.com", URL: "https://x/a.pdf", CreatedAt: at,
	}, 23, 3)
	require.NoError(t, err)

	assert.Equal(t, "Asha", string(w.key))
	var ev ReceiptEvent
	require.NoError(t, json.Unmarshal(w.value, &ev))
	assert.Equal(t, ReceiptEvent{
		Type: EventReceiptCreated, ReceiptID: 7, Customer: "Asha", CreatedBy: "staff@example.com",
		URL: "https://x/a.pdf", Items: 23, Pages: 3, CreatedAt: at,
	}, ev)
}

func TestNilWriterIsNoOp(t *testing.T) {
	p := NewReceiptPublisher(nil)
	assert.NoError(t, p.PublishCreated(context.Background(), &model.Receipt{}, 0, 0))
}
