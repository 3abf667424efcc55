package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Guilherme-Denarde/coffee-orders/internal/catalog/domain"
	pkgkafka "github.com/Guilherme-Denarde/coffee-orders/pkg/kafka"
	pkglogger "github.com/Guilherme-Denarde/coffee-orders/pkg/logger"
)

// TopicProductCreated is published whenever a staff member adds a product.
const TopicProductCreated = "coffee.product.created"

const (
	aggregateTypeProduct = "product"
	sourceCatalog        = "orderd"
)

// ProductCreatedData is the payload for a product.created event.
type ProductCreatedData struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Price    int64  `json:"price"`
	Category string `json:"category"`
	InStock  bool   `json:"in_stock"`
}

// Producer publishes catalog domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the catalog.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishProductCreated publishes a product.created event.
func (p *Producer) PublishProductCreated(ctx context.Context, product *domain.Product) error {
	data := ProductCreatedData{
		ID:       product.ID,
		Name:     product.Name,
		Slug:     product.Slug,
		Price:    product.Price,
		Category: product.Category,
		InStock:  product.InStock,
	}

	event, err := pkgkafka.NewEvent(TopicProductCreated, product.ID, aggregateTypeProduct, sourceCatalog, data)
	if err != nil {
		return fmt.Errorf("create product.created event: %w", err)
	}
	event.WithCorrelationID(pkglogger.CorrelationIDFromContext(ctx))

	if err := p.kafka.Publish(ctx, TopicProductCreated, event); err != nil {
		return fmt.Errorf("publish product.created event: %w", err)
	}

	p.logger.DebugContext(ctx, "published product.created event",
		slog.String("product_id", product.ID),
		slog.String("slug", product.Slug),
	)

	return nil
}
