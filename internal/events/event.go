// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"github.com/google/uuid"

	"quotation_backend/platform/events"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Catalog Domain Events
// =============================================================================

// CatalogChanged is published after any catalog write (category, item detail,
// device, license or cost server). Cache invalidation hangs off this event.
type CatalogChanged struct {
	BaseEvent
	Entity   string    `json:"entity"` // "category", "item_detail", "device", "license", "cost_server"
	EntityID uuid.UUID `json:"entityId"`
	Action   string    `json:"action"` // "created", "updated", "deleted"
}

func (e CatalogChanged) EventName() string { return "catalog.changed" }

// =============================================================================
// Quotation Domain Events
// =============================================================================

// QuotationComputed is published when the pricing engine produces a quotation
// and its snapshot has been persisted.
type QuotationComputed struct {
	BaseEvent
	QuotationID    uuid.UUID `json:"quotationId"`
	DeploymentType string    `json:"deploymentType"`
	ServiceName    string    `json:"serviceName"`
	GrandTotal     float64   `json:"grandTotal"`
}

func (e QuotationComputed) EventName() string { return "quotation.computed" }

// QuotationExported is published when a quotation workbook has been rendered
// and uploaded to object storage.
type QuotationExported struct {
	BaseEvent
	QuotationID uuid.UUID `json:"quotationId"`
	FileKey     string    `json:"fileKey"`
	SizeBytes   int64     `json:"sizeBytes"`
}

func (e QuotationExported) EventName() string { return "quotation.exported" }
