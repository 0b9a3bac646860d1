package response_models

type TripResponse struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Destination    string     `json:"destination"`
	Origin         string     `json:"origin,omitempty"`
	StartDate      string     `json:"start_date"`
	EndDate        string     `json:"end_date"`
	DurationDays   int        `json:"duration_days"`
	Budget         float64    `json:"budget"`
	Currency       string     `json:"currency"`
	Travelers      int        `json:"travelers"`
	Adults         int        `json:"adults"`
	Children       int        `json:"children"`
	PreferenceTags []string   `json:"preference_tags"`
	Notes          string     `json:"notes,omitempty"`
	Status         string     `json:"status"`
	Itinerary      *Itinerary `json:"itinerary,omitempty"`
	CreatedAt      string     `json:"created_at"`
	UpdatedAt      string     `json:"updated_at"`
}

type TripPage struct {
	Items    []TripResponse `json:"items"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
	Total    int64          `json:"total"`
}
