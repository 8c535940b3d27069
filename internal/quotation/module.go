// Package quotation provides the quotation bounded context module: the
// pricing engine that turns a customer configuration and the catalog into a
// priced, persisted quotation.
package quotation

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"quotation_backend/internal/events"
	apphttp "quotation_backend/internal/http"
	"quotation_backend/internal/quotation/handler"
	"quotation_backend/internal/quotation/repository"
	"quotation_backend/internal/quotation/service"
	"quotation_backend/platform/logger"
	"quotation_backend/platform/validator"
)

// Module is the quotation bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the quotation module. The catalog reader
// comes from the catalog module; the two contexts share only that interface.
func NewModule(pool *pgxpool.Pool, catalog service.CatalogReader, policy service.Policy, eventBus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.NewService(catalog, repo, policy, log, eventBus)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "quotation"
}

// Service returns the service layer for the exports module.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts quotation routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// The customer-facing form computes quotations without credentials.
	ctx.V1.POST("/quotations", m.handler.Compute)

	// Snapshot history is back-office only.
	admin := ctx.Admin.Group("/quotations")
	admin.GET("", m.handler.List)
	admin.GET("/:id", m.handler.GetByID)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
