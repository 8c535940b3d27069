package transport

import "time"

type SearchRequest struct {
	Query string `form:"q" validate:"required,min=2,max=100"`
	Limit int    `form:"limit" validate:"omitempty,min=1,max=50"`
}

type SearchResultItem struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`     // "item_detail", "cost_server", "category"
	Title     string    `json:"title"`    // Primary display text (product/server name)
	Subtitle  string    `json:"subtitle"` // Secondary context (vendor, environment)
	Preview   string    `json:"preview"`  // Short snippet of the matched description
	Link      string    `json:"link"`     // Frontend route
	Score     float64   `json:"score"`    // Relevance score
	CreatedAt time.Time `json:"createdAt"`
}

type SearchResponse struct {
	Items []SearchResultItem `json:"items"`
	Total int                `json:"total"`
}
