package response_models

// Itinerary is the day-by-day plan synthesized by the LLM. The same shape is
// stored on the trip and returned to clients.
type Itinerary struct {
	Summary   string          `json:"summary"`
	Days      []DayPlan       `json:"days"`
	Lodging   []LodgingOption `json:"lodging,omitempty"`
	Transport *TransportPlan  `json:"transport,omitempty"`
	Budget    BudgetBreakdown `json:"budget"`
	Tips      []string        `json:"tips,omitempty"`
}

type DayPlan struct {
	Day        int            `json:"day"`
	Date       string         `json:"date,omitempty"`
	Theme      string         `json:"theme,omitempty"`
	Activities []Activity     `json:"activities"`
	Lodging    *LodgingOption `json:"lodging,omitempty"`
	Transport  []TransportLeg `json:"transport,omitempty"`
}

type Activity struct {
	Time          string   `json:"time,omitempty"`
	EndTime       string   `json:"end_time,omitempty"`
	Title         string   `json:"title"`
	Description   string   `json:"description,omitempty"`
	Location      string   `json:"location,omitempty"`
	Type          string   `json:"type,omitempty"`
	EstimatedCost float64  `json:"estimated_cost,omitempty"`
	Lat           *float64 `json:"lat,omitempty"`
	Lng           *float64 `json:"lng,omitempty"`
}

type LodgingOption struct {
	Name          string  `json:"name"`
	Address       string  `json:"address,omitempty"`
	PricePerNight float64 `json:"price_per_night,omitempty"`
	Nights        int     `json:"nights,omitempty"`
	Notes         string  `json:"notes,omitempty"`
}

type TransportLeg struct {
	Mode          string  `json:"mode"`
	From          string  `json:"from,omitempty"`
	To            string  `json:"to,omitempty"`
	Duration      string  `json:"duration,omitempty"`
	EstimatedCost float64 `json:"estimated_cost,omitempty"`
}

type TransportPlan struct {
	Arrival   string `json:"arrival,omitempty"`
	Local     string `json:"local,omitempty"`
	Departure string `json:"departure,omitempty"`
}

type BudgetBreakdown struct {
	Transport     float64 `json:"transport"`
	Accommodation float64 `json:"accommodation"`
	Food          float64 `json:"food"`
	Attractions   float64 `json:"attractions"`
	Shopping      float64 `json:"shopping"`
	Other         float64 `json:"other"`
	Total         float64 `json:"total"`
	Currency      string  `json:"currency,omitempty"`
}

// CategorySum adds up the individual budget lines.
func (b BudgetBreakdown) CategorySum() float64 {
	return b.Transport + b.Accommodation + b.Food + b.Attractions + b.Shopping + b.Other
}

// ItineraryResult is what one generation pass yields. RawText is the model
// output and is kept so a malformed answer can still be shown to the user.
type ItineraryResult struct {
	TripID    string     `json:"trip_id,omitempty"`
	Itinerary *Itinerary `json:"itinerary,omitempty"`
	RawText   string     `json:"raw_text,omitempty"`
	Cached    bool       `json:"cached"`
}
