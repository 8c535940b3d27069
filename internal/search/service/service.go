package service

import (
	"context"
	"strings"

	"quotation_backend/internal/search/repository"
	"quotation_backend/internal/search/transport"
	"quotation_backend/platform/apperr"
)

type Service struct {
	repo *repository.Repository
}

func New(repo *repository.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CatalogSearch(ctx context.Context, req transport.SearchRequest) (*transport.SearchResponse, error) {
	q := strings.TrimSpace(req.Query)
	if q == "" {
		return &transport.SearchResponse{Items: []transport.SearchResultItem{}, Total: 0}, nil
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 10
	}

	results, err := s.repo.CatalogSearch(ctx, q, limit)
	if err != nil {
		appErr := apperr.Internal("search failed").WithOp("search.CatalogSearch").WithDetails(err.Error())
		appErr.Err = err
		return nil, appErr
	}

	total := 0
	if len(results) > 0 {
		// COUNT(*) OVER() returns bigint
		if results[0].Total > 0 {
			if results[0].Total > int64(^uint(0)>>1) {
				total = int(^uint(0) >> 1)
			} else {
				total = int(results[0].Total)
			}
		}
	}

	items := make([]transport.SearchResultItem, len(results))
	for i, r := range results {
		items[i] = transport.SearchResultItem{
			ID:        r.ID.String(),
			Type:      r.Type,
			Title:     r.Title,
			Subtitle:  r.Subtitle,
			Preview:   r.Preview,
			Link:      buildFrontendLink(r.Type, r.ID.String()),
			Score:     float64(r.Score),
			CreatedAt: r.CreatedAt,
		}
	}

	return &transport.SearchResponse{Items: items, Total: total}, nil
}

func buildFrontendLink(entityType, id string) string {
	switch entityType {
	case "item_detail":
		return "/admin/catalog/item-details/" + id
	case "cost_server":
		return "/admin/catalog/cost-servers/" + id
	case "category":
		return "/admin/catalog/categories/" + id
	default:
		return "/admin/catalog"
	}
}
