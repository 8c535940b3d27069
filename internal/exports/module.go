package exports

import (
	"quotation_backend/internal/adapters/storage"
	"quotation_backend/internal/events"
	apphttp "quotation_backend/internal/http"
	"quotation_backend/platform/logger"
)

// Module is the exports bounded context module implementing http.Module.
type Module struct {
	handler *Handler
}

// NewModule creates and initializes the exports module. The quotation reader
// comes from the quotation module.
func NewModule(quotations QuotationReader, storageService storage.StorageService, cfg Config, eventBus events.Bus, log *logger.Logger) *Module {
	svc := NewService(quotations, storageService, cfg, eventBus, log)
	return &Module{handler: NewHandler(svc)}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "exports"
}

// RegisterRoutes mounts export routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// The customer downloads their own quotation straight from the form.
	ctx.V1.POST("/quotations/:id/export", m.handler.Export)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
