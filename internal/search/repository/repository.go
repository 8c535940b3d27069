package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type SearchResult struct {
	ID        uuid.UUID
	Type      string
	Title     string
	Subtitle  string
	Preview   string
	Score     float32
	CreatedAt time.Time
	Total     int64
}

// CatalogSearch runs a ranked full-text search across item details, cost
// servers and categories. Accents are stripped so Vietnamese product names
// match with or without diacritics.
func (r *Repository) CatalogSearch(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	querySQL := `
		WITH search_query AS (
			SELECT websearch_to_tsquery('simple', quot_immutable_unaccent($1)) AS q
		),
		matches AS (
			SELECT
				i.id,
				'item_detail' AS type,
				i.name AS title,
				concat_ws(' - ', nullif(i.vendor, ''), i.environment) AS subtitle,
				ts_headline('simple', quot_immutable_unaccent(coalesce(i.description, '')), sq.q,
					'MaxWords=18, MinWords=6, StartSel=, StopSel=') AS preview,
				ts_rank(
					setweight(to_tsvector('simple', quot_immutable_unaccent(coalesce(i.name, ''))), 'A') ||
					setweight(to_tsvector('simple', quot_immutable_unaccent(coalesce(i.vendor, ''))), 'B') ||
					setweight(to_tsvector('simple', quot_immutable_unaccent(coalesce(i.description, ''))), 'C'),
					sq.q
				) AS score,
				i.created_at
			FROM item_details i, search_query sq
			WHERE (
				setweight(to_tsvector('simple', quot_immutable_unaccent(coalesce(i.name, ''))), 'A') ||
				setweight(to_tsvector('simple', quot_immutable_unaccent(coalesce(i.vendor, ''))), 'B') ||
				setweight(to_tsvector('simple', quot_immutable_unaccent(coalesce(i.description, ''))), 'C')
			) @@ sq.q

			UNION ALL

			SELECT
				s.id,
				'cost_server' AS type,
				s.name AS title,
				'' AS subtitle,
				ts_headline('simple', quot_immutable_unaccent(coalesce(s.description, '')), sq.q,
					'MaxWords=18, MinWords=6, StartSel=, StopSel=') AS preview,
				ts_rank(
					setweight(to_tsvector('simple', quot_immutable_unaccent(coalesce(s.name, ''))), 'A') ||
					setweight(to_tsvector('simple', quot_immutable_unaccent(coalesce(s.description, ''))), 'C'),
					sq.q
				) AS score,
				s.created_at
			FROM cost_servers s, search_query sq
			WHERE (
				setweight(to_tsvector('simple', quot_immutable_unaccent(coalesce(s.name, ''))), 'A') ||
				setweight(to_tsvector('simple', quot_immutable_unaccent(coalesce(s.description, ''))), 'C')
			) @@ sq.q

			UNION ALL

			SELECT
				c.id,
				'category' AS type,
				c.name AS title,
				c.icon_key AS subtitle,
				'' AS preview,
				ts_rank(
					setweight(to_tsvector('simple', quot_immutable_unaccent(c.name)), 'A'),
					sq.q
				) AS score,
				c.created_at
			FROM categories c, search_query sq
			WHERE to_tsvector('simple', quot_immutable_unaccent(c.name)) @@ sq.q
		)
		SELECT id, type, title, subtitle, preview, score, created_at,
			count(*) OVER() AS total
		FROM matches
		ORDER BY score DESC, created_at DESC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, querySQL, query, limit)
	if err != nil {
		return nil, fmt.Errorf("catalog search: %w", err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var result SearchResult
		if err := rows.Scan(
			&result.ID, &result.Type, &result.Title, &result.Subtitle,
			&result.Preview, &result.Score, &result.CreatedAt, &result.Total,
		); err != nil {
			return nil, fmt.Errorf("scan search result: %w", err)
		}
		results = append(results, result)
	}
	return results, rows.Err()
}
