package dto

type SearchQuery struct {
	Q     string `form:"q" binding:"required,max=200"`
	Limit int    `form:"limit" binding:"omitempty,min=1,max=50"`
}

type NewsHit struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Excerpt     string   `json:"excerpt"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	ImageURL    string   `json:"image_url"`
	PublishDate int64    `json:"publish_date"`
}

type EventHit struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Category    string `json:"category"`
	Status      string `json:"status"`
	EventDate   int64  `json:"event_date"`
}

type DocumentHit struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Department  string `json:"department"`
	FileURL     string `json:"file_url"`
}

type SearchResponse struct {
	Query     string        `json:"query"`
	News      []NewsHit     `json:"news"`
	Events    []EventHit    `json:"events"`
	Documents []DocumentHit `json:"documents"`
}
