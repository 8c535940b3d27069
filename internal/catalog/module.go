// Package catalog provides the product catalog bounded context module:
// categories, item details, devices, licenses and cost servers, the data the
// quotation engine selects from.
package catalog

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"quotation_backend/internal/catalog/cache"
	"quotation_backend/internal/catalog/handler"
	"quotation_backend/internal/catalog/repository"
	"quotation_backend/internal/catalog/service"
	"quotation_backend/internal/events"
	apphttp "quotation_backend/internal/http"
	"quotation_backend/platform/logger"
	"quotation_backend/platform/validator"
)

// Module is the catalog bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
	lists   *cache.ListCache
}

// NewModule creates and initializes the catalog module with all its
// dependencies. redisClient may be nil; list caching is then disabled.
func NewModule(pool *pgxpool.Pool, redisClient *redis.Client, eventBus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.NewService(repo, log, eventBus)
	lists := cache.New(redisClient, log)
	h := handler.New(svc, lists, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
		lists:   lists,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "catalog"
}

// Repository returns the repository for the quotation selector.
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// RegisterRoutes mounts catalog routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// Public reads for the quotation form.
	public := ctx.V1.Group("/catalog")
	public.GET("/categories", m.handler.ListCategories)
	public.GET("/categories/:id", m.handler.GetCategory)
	public.GET("/item-details", m.handler.ListItemDetails)
	public.GET("/item-details/:id", m.handler.GetItemDetail)

	// Authenticated reads for back-office tooling.
	protected := ctx.Protected.Group("/catalog")
	protected.GET("/devices", m.handler.ListDevices)
	protected.GET("/devices/:id", m.handler.GetDevice)
	protected.GET("/licenses", m.handler.ListLicenses)
	protected.GET("/licenses/:id", m.handler.GetLicense)
	protected.GET("/cost-servers", m.handler.ListCostServers)
	protected.GET("/cost-servers/:id", m.handler.GetCostServer)

	// Admin-only CRUD endpoints.
	admin := ctx.Admin.Group("/catalog")
	admin.POST("/categories", m.handler.CreateCategory)
	admin.PATCH("/categories/:id", m.handler.UpdateCategory)
	admin.DELETE("/categories/:id", m.handler.DeleteCategory)
	admin.POST("/item-details", m.handler.CreateItemDetail)
	admin.PATCH("/item-details/:id", m.handler.UpdateItemDetail)
	admin.DELETE("/item-details/:id", m.handler.DeleteItemDetail)
	admin.POST("/devices", m.handler.CreateDevice)
	admin.PATCH("/devices/:id", m.handler.UpdateDevice)
	admin.DELETE("/devices/:id", m.handler.DeleteDevice)
	admin.POST("/licenses", m.handler.CreateLicense)
	admin.PATCH("/licenses/:id", m.handler.UpdateLicense)
	admin.DELETE("/licenses/:id", m.handler.DeleteLicense)
	admin.POST("/cost-servers", m.handler.CreateCostServer)
	admin.PATCH("/cost-servers/:id", m.handler.UpdateCostServer)
	admin.DELETE("/cost-servers/:id", m.handler.DeleteCostServer)
}

// RegisterHandlers subscribes to domain events for cache invalidation.
func (m *Module) RegisterHandlers(bus *events.InMemoryBus) {
	bus.Subscribe(events.CatalogChanged{}.EventName(), m)
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch event.(type) {
	case events.CatalogChanged:
		m.lists.Invalidate(ctx)
		return nil
	default:
		return nil
	}
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
