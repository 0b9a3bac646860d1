package response_models

type GeoResult struct {
	FormattedAddress string  `json:"formatted_address"`
	Province         string  `json:"province,omitempty"`
	City             string  `json:"city,omitempty"`
	District         string  `json:"district,omitempty"`
	Level            string  `json:"level,omitempty"`
	Location         string  `json:"location"`
	Lng              float64 `json:"lng"`
	Lat              float64 `json:"lat"`
}

type POI struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Type     string  `json:"type,omitempty"`
	Address  string  `json:"address,omitempty"`
	Location string  `json:"location"`
	Lng      float64 `json:"lng"`
	Lat      float64 `json:"lat"`
	Tel      string  `json:"tel,omitempty"`
	Distance int     `json:"distance,omitempty"`
	CityName string  `json:"city_name,omitempty"`
}

type POIPage struct {
	Items    []POI `json:"items"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	Total    int   `json:"total"`
}

type RouteStep struct {
	Instruction     string `json:"instruction"`
	Road            string `json:"road,omitempty"`
	DistanceMeters  int    `json:"distance_meters"`
	DurationSeconds int    `json:"duration_seconds"`
	Polyline        string `json:"polyline,omitempty"`
}

type RouteResult struct {
	Mode            string      `json:"mode"`
	Origin          string      `json:"origin"`
	Destination     string      `json:"destination"`
	DistanceMeters  int         `json:"distance_meters"`
	DurationSeconds int         `json:"duration_seconds"`
	Cost            float64     `json:"cost,omitempty"`
	Steps           []RouteStep `json:"steps"`
}
