// Package events contains the payloads published on product changes.
package events

import (
	"encoding/json"
	"time"

	"github.com/abgdnv/productcrud/pkg/messaging"
)

// ProductEventType names the lifecycle transition carried by a ProductEvent.
type ProductEventType string

const (
	ProductCreated ProductEventType = "created"
	ProductUpdated ProductEventType = "updated"
	ProductDeleted ProductEventType = "deleted"
)

// ProductEvent is a snapshot of a product after (or, for deletes, before) a change.
// Carrier holds the W3C trace context of the originating request.
type ProductEvent struct {
	Carrier     map[string]string `json:"carrier,omitempty"`
	Type        ProductEventType  `json:"type"`
	ProductID   string            `json:"product_id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	OccurredAt  time.Time         `json:"occurred_at"`
}

func (e ProductEvent) Subject() string {
	switch e.Type {
	case ProductCreated:
		return messaging.ProductsCreatedSubject
	case ProductUpdated:
		return messaging.ProductsUpdatedSubject
	default:
		return messaging.ProductsDeletedSubject
	}
}

func (e ProductEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}
