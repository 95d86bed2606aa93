package event

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	pkgkafka "github.com/Maverickd18/Frontend-Perfume-sub000/pkg/kafka"
	"github.com/Maverickd18/Frontend-Perfume-sub000/pkg/logger"
)

// Kafka topics written by the seller console.
var (
	TopicItemCreated = pkgkafka.Topic("catalog", "item_created")
)

const (
	EventTypeItemCreated = "catalog.item.created"
	AggregateTypePerfume = "perfume"
	SourceSellerConsole  = "seller-console"
)

// ItemCreatedData is the payload of a catalog.item.created event.
type ItemCreatedData struct {
	ItemID          int64   `json:"item_id"`
	Name            string  `json:"name"`
	SellerID        string  `json:"seller_id"`
	BrandID         int64   `json:"brand_id"`
	CategoryID      int64   `json:"category_id"`
	ImageURL        *string `json:"image_url,omitempty"`
	BrandCreated    bool    `json:"brand_created"`
	CategoryCreated bool    `json:"category_created"`
}

// publisher is the part of *pkgkafka.Producer used here.
type publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// Producer publishes seller console events.
type Producer struct {
	kafka  publisher
	logger *slog.Logger
}

func NewProducer(kafka publisher, logger *slog.Logger) *Producer {
	return &Producer{kafka: kafka, logger: logger}
}

// PublishItemCreated announces a perfume created through the wizard.
func (p *Producer) PublishItemCreated(ctx context.Context, data ItemCreatedData) error {
	evt, err := pkgkafka.NewEvent(EventTypeItemCreated, strconv.FormatInt(data.ItemID, 10), AggregateTypePerfume, SourceSellerConsole, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", EventTypeItemCreated, err)
	}
	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		evt.WithCorrelationID(id)
	}
	evt.WithMetadata("seller_id", data.SellerID)

	if err := p.kafka.Publish(ctx, TopicItemCreated, evt); err != nil {
		return fmt.Errorf("publish %s event: %w", EventTypeItemCreated, err)
	}

	p.logger.DebugContext(ctx, "published item created event",
		slog.Int64("item_id", data.ItemID),
		slog.String("seller_id", data.SellerID),
	)
	return nil
}
