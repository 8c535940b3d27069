// Package search provides ranked full-text search over the catalog for
// back-office tooling.
package search

import (
	apphttp "quotation_backend/internal/http"
	"quotation_backend/internal/search/handler"
	"quotation_backend/internal/search/repository"
	"quotation_backend/internal/search/service"
	"quotation_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Module struct {
	handler *handler.Handler
}

func NewModule(pool *pgxpool.Pool, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo)
	h := handler.New(svc, val)

	return &Module{handler: h}
}

func (m *Module) Name() string {
	return "search"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/search")
	m.handler.RegisterRoutes(group)
}

var _ apphttp.Module = (*Module)(nil)
