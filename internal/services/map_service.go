package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"travelmind/internal/config"
	"travelmind/internal/models/response_models"
	"travelmind/internal/observability"
	mem "travelmind/pkg/memcache"
	"travelmind/pkg/utils"
)

const (
	RouteDriving = "driving"
	RouteWalking = "walking"
	RouteTransit = "transit"
)

var lngLatPattern = regexp.MustCompile(`^-?\d{1,3}(\.\d+)?,-?\d{1,2}(\.\d+)?$`)

type MapServiceInterface interface {
	Geocode(ctx context.Context, address, city string) ([]response_models.GeoResult, error)
	SearchPOI(ctx context.Context, keywords, city string, page, pageSize int) (*response_models.POIPage, error)
	SearchAround(ctx context.Context, location, keywords string, radius int) (*response_models.POIPage, error)
	Route(ctx context.Context, origin, destination, mode, city string) (*response_models.RouteResult, error)
}

// AMapClient talks to the AMap web service REST API. Every answer is memoized
// for the configured TTL.
type AMapClient struct {
	HTTP     *http.Client
	Key      string
	BaseURL  string
	Cache    mem.Store
	CacheTTL time.Duration
}

func NewAMapClient(cfg config.MapsConfig, cache mem.Store) MapServiceInterface {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &AMapClient{
		HTTP:     &http.Client{Timeout: timeout},
		Key:      cfg.Key,
		BaseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		Cache:    cache,
		CacheTTL: cfg.CacheTTL,
	}
}

// amapText accepts AMap's habit of sending [] for empty string fields.
type amapText string

func (t *amapText) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] == 'n' {
		*t = ""
		return nil
	}
	if b[0] == '[' {
		var items []string
		if err := json.Unmarshal(b, &items); err != nil || len(items) == 0 {
			*t = ""
			return nil
		}
		*t = amapText(items[0])
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = amapText(s)
		return nil
	}
	*t = amapText(b)
	return nil
}

func (t amapText) Int() int {
	f, err := strconv.ParseFloat(string(t), 64)
	if err != nil {
		return 0
	}
	return int(f + 0.5)
}

func (t amapText) Float() float64 {
	f, _ := strconv.ParseFloat(string(t), 64)
	return f
}

type amapStatus struct {
	Status   string   `json:"status"`
	Info     string   `json:"info"`
	InfoCode string   `json:"infocode"`
	Count    amapText `json:"count"`
}

func (s amapStatus) err() error {
	if s.Status == "1" {
		return nil
	}
	return fmt.Errorf("%w: %s (%s)", utils.ErrMapFailed, s.Info, s.InfoCode)
}

func (c *AMapClient) Geocode(ctx context.Context, address, city string) ([]response_models.GeoResult, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, fmt.Errorf("%w: address is required", utils.ErrInvalidInput)
	}

	key := utils.CacheKey("maps.geocode", address, city)
	return mem.Remember(c.Cache, key, c.CacheTTL, func() ([]response_models.GeoResult, error) {
		q := url.Values{}
		q.Set("address", address)
		if city != "" {
			q.Set("city", city)
		}

		var payload struct {
			amapStatus
			Geocodes []struct {
				FormattedAddress amapText `json:"formatted_address"`
				Province         amapText `json:"province"`
				City             amapText `json:"city"`
				District         amapText `json:"district"`
				Level            amapText `json:"level"`
				Location         amapText `json:"location"`
			} `json:"geocodes"`
		}
		if err := c.get(ctx, "geocode", "/v3/geocode/geo", q, &payload); err != nil {
			return nil, err
		}
		if err := payload.err(); err != nil {
			return nil, err
		}

		out := make([]response_models.GeoResult, 0, len(payload.Geocodes))
		for _, g := range payload.Geocodes {
			lng, lat := splitLngLat(string(g.Location))
			out = append(out, response_models.GeoResult{
				FormattedAddress: string(g.FormattedAddress),
				Province:         string(g.Province),
				City:             string(g.City),
				District:         string(g.District),
				Level:            string(g.Level),
				Location:         string(g.Location),
				Lng:              lng,
				Lat:              lat,
			})
		}
		return out, nil
	})
}

func (c *AMapClient) SearchPOI(ctx context.Context, keywords, city string, page, pageSize int) (*response_models.POIPage, error) {
	keywords = strings.TrimSpace(keywords)
	if keywords == "" {
		return nil, fmt.Errorf("%w: keywords are required", utils.ErrInvalidInput)
	}
	page, pageSize = clampPOIPage(page, pageSize)

	key := utils.CacheKey("maps.pois", keywords, city, strconv.Itoa(page), strconv.Itoa(pageSize))
	return mem.Remember(c.Cache, key, c.CacheTTL, func() (*response_models.POIPage, error) {
		q := url.Values{}
		q.Set("keywords", keywords)
		if city != "" {
			q.Set("city", city)
			q.Set("citylimit", "true")
		}
		q.Set("offset", strconv.Itoa(pageSize))
		q.Set("page", strconv.Itoa(page))
		q.Set("extensions", "base")
		return c.searchPlaces(ctx, "place.text", "/v3/place/text", q, page, pageSize)
	})
}

func (c *AMapClient) SearchAround(ctx context.Context, location, keywords string, radius int) (*response_models.POIPage, error) {
	if err := validateLngLat(location); err != nil {
		return nil, err
	}
	if radius <= 0 {
		radius = 1000
	}
	if radius > 50000 {
		radius = 50000
	}
	page, pageSize := 1, 20

	key := utils.CacheKey("maps.around", location, keywords, strconv.Itoa(radius))
	return mem.Remember(c.Cache, key, c.CacheTTL, func() (*response_models.POIPage, error) {
		q := url.Values{}
		q.Set("location", location)
		if kw := strings.TrimSpace(keywords); kw != "" {
			q.Set("keywords", kw)
		}
		q.Set("radius", strconv.Itoa(radius))
		q.Set("sortrule", "distance")
		q.Set("offset", strconv.Itoa(pageSize))
		q.Set("page", strconv.Itoa(page))
		return c.searchPlaces(ctx, "place.around", "/v3/place/around", q, page, pageSize)
	})
}

func (c *AMapClient) searchPlaces(ctx context.Context, op, path string, q url.Values, page, pageSize int) (*response_models.POIPage, error) {
	var payload struct {
		amapStatus
		POIs []struct {
			ID       amapText `json:"id"`
			Name     amapText `json:"name"`
			Type     amapText `json:"type"`
			Address  amapText `json:"address"`
			Location amapText `json:"location"`
			Tel      amapText `json:"tel"`
			Distance amapText `json:"distance"`
			CityName amapText `json:"cityname"`
		} `json:"pois"`
	}
	if err := c.get(ctx, op, path, q, &payload); err != nil {
		return nil, err
	}
	if err := payload.err(); err != nil {
		return nil, err
	}

	result := &response_models.POIPage{
		Items:    make([]response_models.POI, 0, len(payload.POIs)),
		Page:     page,
		PageSize: pageSize,
		Total:    payload.Count.Int(),
	}
	for _, p := range payload.POIs {
		lng, lat := splitLngLat(string(p.Location))
		result.Items = append(result.Items, response_models.POI{
			ID:       string(p.ID),
			Name:     string(p.Name),
			Type:     string(p.Type),
			Address:  string(p.Address),
			Location: string(p.Location),
			Lng:      lng,
			Lat:      lat,
			Tel:      string(p.Tel),
			Distance: p.Distance.Int(),
			CityName: string(p.CityName),
		})
	}
	return result, nil
}

type amapStep struct {
	Instruction amapText `json:"instruction"`
	Road        amapText `json:"road"`
	Distance    amapText `json:"distance"`
	Duration    amapText `json:"duration"`
	Polyline    amapText `json:"polyline"`
}

func (s amapStep) toRouteStep() response_models.RouteStep {
	return response_models.RouteStep{
		Instruction:     string(s.Instruction),
		Road:            string(s.Road),
		DistanceMeters:  s.Distance.Int(),
		DurationSeconds: s.Duration.Int(),
		Polyline:        string(s.Polyline),
	}
}

func (c *AMapClient) Route(ctx context.Context, origin, destination, mode, city string) (*response_models.RouteResult, error) {
	if err := validateLngLat(origin); err != nil {
		return nil, err
	}
	if err := validateLngLat(destination); err != nil {
		return nil, err
	}
	mode = strings.ToLower(strings.TrimSpace(mode))
	if mode == "" {
		mode = RouteDriving
	}
	switch mode {
	case RouteDriving, RouteWalking:
	case RouteTransit:
		if strings.TrimSpace(city) == "" {
			return nil, fmt.Errorf("%w: city is required for transit routes", utils.ErrInvalidInput)
		}
	default:
		return nil, fmt.Errorf("%w: unknown route mode %q", utils.ErrInvalidInput, mode)
	}

	key := utils.CacheKey("maps.route", mode, origin, destination, city)
	return mem.Remember(c.Cache, key, c.CacheTTL, func() (*response_models.RouteResult, error) {
		q := url.Values{}
		q.Set("origin", origin)
		q.Set("destination", destination)

		var (
			result *response_models.RouteResult
			err    error
		)
		if mode == RouteTransit {
			q.Set("city", city)
			q.Set("cityd", city)
			result, err = c.transitRoute(ctx, q)
		} else {
			result, err = c.pathRoute(ctx, mode, q)
		}
		if err != nil {
			return nil, err
		}
		result.Mode = mode
		result.Origin = origin
		result.Destination = destination
		return result, nil
	})
}

func (c *AMapClient) pathRoute(ctx context.Context, mode string, q url.Values) (*response_models.RouteResult, error) {
	if mode == RouteDriving {
		q.Set("extensions", "base")
	}
	var payload struct {
		amapStatus
		Route struct {
			TaxiCost amapText `json:"taxi_cost"`
			Paths    []struct {
				Distance amapText   `json:"distance"`
				Duration amapText   `json:"duration"`
				Steps    []amapStep `json:"steps"`
			} `json:"paths"`
		} `json:"route"`
	}
	if err := c.get(ctx, "direction."+mode, "/v3/direction/"+mode, q, &payload); err != nil {
		return nil, err
	}
	if err := payload.err(); err != nil {
		return nil, err
	}
	if len(payload.Route.Paths) == 0 {
		return nil, fmt.Errorf("%w: no route found", utils.ErrMapFailed)
	}

	path := payload.Route.Paths[0]
	result := &response_models.RouteResult{
		DistanceMeters:  path.Distance.Int(),
		DurationSeconds: path.Duration.Int(),
		Cost:            payload.Route.TaxiCost.Float(),
		Steps:           make([]response_models.RouteStep, 0, len(path.Steps)),
	}
	for _, s := range path.Steps {
		result.Steps = append(result.Steps, s.toRouteStep())
	}
	return result, nil
}

func (c *AMapClient) transitRoute(ctx context.Context, q url.Values) (*response_models.RouteResult, error) {
	type stop struct {
		Name amapText `json:"name"`
	}
	var payload struct {
		amapStatus
		Route struct {
			Distance amapText `json:"distance"`
			Transits []struct {
				Cost     amapText `json:"cost"`
				Duration amapText `json:"duration"`
				Distance amapText `json:"distance"`
				Segments []struct {
					Walking struct {
						Steps []amapStep `json:"steps"`
					} `json:"walking"`
					Bus struct {
						Buslines []struct {
							Name          amapText `json:"name"`
							DepartureStop stop     `json:"departure_stop"`
							ArrivalStop   stop     `json:"arrival_stop"`
							Distance      amapText `json:"distance"`
							Duration      amapText `json:"duration"`
							Polyline      amapText `json:"polyline"`
						} `json:"buslines"`
					} `json:"bus"`
				} `json:"segments"`
			} `json:"transits"`
		} `json:"route"`
	}
	if err := c.get(ctx, "direction.transit", "/v3/direction/transit/integrated", q, &payload); err != nil {
		return nil, err
	}
	if err := payload.err(); err != nil {
		return nil, err
	}
	if len(payload.Route.Transits) == 0 {
		return nil, fmt.Errorf("%w: no transit route found", utils.ErrMapFailed)
	}

	best := payload.Route.Transits[0]
	result := &response_models.RouteResult{
		DistanceMeters:  best.Distance.Int(),
		DurationSeconds: best.Duration.Int(),
		Cost:            best.Cost.Float(),
		Steps:           []response_models.RouteStep{},
	}
	if result.DistanceMeters == 0 {
		result.DistanceMeters = payload.Route.Distance.Int()
	}
	for _, seg := range best.Segments {
		for _, s := range seg.Walking.Steps {
			result.Steps = append(result.Steps, s.toRouteStep())
		}
		// Only the first busline is the planned one; the rest are alternatives.
		if len(seg.Bus.Buslines) > 0 {
			line := seg.Bus.Buslines[0]
			result.Steps = append(result.Steps, response_models.RouteStep{
				Instruction:     fmt.Sprintf("Take %s from %s to %s", line.Name, line.DepartureStop.Name, line.ArrivalStop.Name),
				Road:            string(line.Name),
				DistanceMeters:  line.Distance.Int(),
				DurationSeconds: line.Duration.Int(),
				Polyline:        string(line.Polyline),
			})
		}
	}
	return result, nil
}

func (c *AMapClient) get(ctx context.Context, op, path string, q url.Values, out interface{}) (err error) {
	if c.Key == "" {
		return fmt.Errorf("%w: maps key not configured", utils.ErrMapFailed)
	}
	ctx, finish := observability.StartVendorSpan(ctx, "amap", op, attribute.String("http.path", path))
	defer func() { finish(err) }()

	q.Set("key", c.Key)
	q.Set("output", "JSON")
	u := c.BaseURL + path + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", utils.ErrMapFailed, err)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		slog.ErrorContext(ctx, "AMap request failed", slog.String("op", op), slog.Any("error", err))
		return fmt.Errorf("%w: %v", utils.ErrMapFailed, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("%w: bad status %s", utils.ErrMapFailed, resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode: %v", utils.ErrMapFailed, err)
	}
	return nil
}

func validateLngLat(s string) error {
	if !lngLatPattern.MatchString(s) {
		return fmt.Errorf("%w: location %q must be \"lng,lat\"", utils.ErrInvalidInput, s)
	}
	lng, lat := splitLngLat(s)
	if lng < -180 || lng > 180 || lat < -90 || lat > 90 {
		return fmt.Errorf("%w: location %q out of range", utils.ErrInvalidInput, s)
	}
	return nil
}

func splitLngLat(s string) (float64, float64) {
	parts := strings.SplitN(s, ",", 2)
	if len(parts) != 2 {
		return 0, 0
	}
	lng, _ := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lat, _ := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	return lng, lat
}

func clampPOIPage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 25 {
		pageSize = 25
	}
	return page, pageSize
}
