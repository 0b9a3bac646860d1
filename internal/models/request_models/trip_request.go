package request_models

// TripRequest carries the trip preferences submitted from the planning form.
// Dates are calendar dates (YYYY-MM-DD).
type TripRequest struct {
	Title          string   `json:"title" binding:"max=120"`
	Destination    string   `json:"destination" binding:"required,max=120"`
	Origin         string   `json:"origin" binding:"max=120"`
	StartDate      string   `json:"start_date" binding:"required"`
	EndDate        string   `json:"end_date" binding:"required"`
	Budget         float64  `json:"budget" binding:"gte=0"`
	Currency       string   `json:"currency" binding:"omitempty,len=3"`
	Travelers      int      `json:"travelers" binding:"gte=0,lte=50"`
	Adults         int      `json:"adults" binding:"gte=0,lte=50"`
	Children       int      `json:"children" binding:"gte=0,lte=50"`
	PreferenceTags []string `json:"preference_tags" binding:"max=20"`
	Notes          string   `json:"notes" binding:"max=2000"`
}

// UpdateTripRequest is a partial update; nil fields are left unchanged.
type UpdateTripRequest struct {
	Title          *string   `json:"title"`
	Destination    *string   `json:"destination"`
	Origin         *string   `json:"origin"`
	StartDate      *string   `json:"start_date"`
	EndDate        *string   `json:"end_date"`
	Budget         *float64  `json:"budget"`
	Currency       *string   `json:"currency"`
	Travelers      *int      `json:"travelers"`
	Adults         *int      `json:"adults"`
	Children       *int      `json:"children"`
	PreferenceTags *[]string `json:"preference_tags"`
	Notes          *string   `json:"notes"`
}

type ChangeTripStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type ListTripsRequest struct {
	Page     int    `form:"page,default=1"`
	PageSize int    `form:"page_size,default=10"`
	Status   string `form:"status"`
}
