package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	dbm "travelmind/internal/models/db_models"
	"travelmind/internal/models/request_models"
	"travelmind/internal/models/response_models"
	"travelmind/internal/repositories"
	"travelmind/pkg/utils"
)

const (
	defaultCurrency = "CNY"
	maxTripDays     = 30
	maxPageSize     = 100
	maxSimilarTrips = 20
)

type TripServiceInterface interface {
	Create(ctx context.Context, userID uuid.UUID, req request_models.TripRequest) (*response_models.TripResponse, error)
	Get(ctx context.Context, userID, tripID uuid.UUID) (*response_models.TripResponse, error)
	List(ctx context.Context, userID uuid.UUID, req request_models.ListTripsRequest) (*response_models.TripPage, error)
	Update(ctx context.Context, userID, tripID uuid.UUID, req request_models.UpdateTripRequest) (*response_models.TripResponse, error)
	Delete(ctx context.Context, userID, tripID uuid.UUID) error
	ChangeStatus(ctx context.Context, userID, tripID uuid.UUID, status string) (*response_models.TripResponse, error)
	FindSimilar(ctx context.Context, userID, tripID uuid.UUID, limit int) ([]response_models.TripResponse, error)
}

type TripService struct {
	tripRepo repositories.TripRepository
	embedder utils.EmbeddingClientInterface
}

func NewTripService(tripRepo repositories.TripRepository, embedder utils.EmbeddingClientInterface) TripServiceInterface {
	return &TripService{
		tripRepo: tripRepo,
		embedder: embedder,
	}
}

func (s *TripService) Create(ctx context.Context, userID uuid.UUID, req request_models.TripRequest) (*response_models.TripResponse, error) {
	trip, err := tripFromRequest(userID, req)
	if err != nil {
		return nil, err
	}
	s.embedTrip(ctx, trip)

	if err := s.tripRepo.Create(ctx, trip); err != nil {
		return nil, fmt.Errorf("%w: create trip: %v", utils.ErrDatabaseError, err)
	}
	return toTripResponse(trip), nil
}

func (s *TripService) Get(ctx context.Context, userID, tripID uuid.UUID) (*response_models.TripResponse, error) {
	trip, err := s.loadTrip(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}
	return toTripResponse(trip), nil
}

func (s *TripService) List(ctx context.Context, userID uuid.UUID, req request_models.ListTripsRequest) (*response_models.TripPage, error) {
	if req.Page < 1 {
		return nil, utils.ErrInvalidPage
	}
	if req.PageSize < 1 || req.PageSize > maxPageSize {
		return nil, utils.ErrInvalidPageSize
	}
	status := dbm.TripStatus(strings.ToLower(req.Status))
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", utils.ErrInvalidInput, req.Status)
	}

	trips, total, err := s.tripRepo.List(ctx, userID, status, req.Page, req.PageSize)
	if err != nil {
		return nil, fmt.Errorf("%w: list trips: %v", utils.ErrDatabaseError, err)
	}

	page := &response_models.TripPage{
		Items:    make([]response_models.TripResponse, 0, len(trips)),
		Page:     req.Page,
		PageSize: req.PageSize,
		Total:    total,
	}
	for i := range trips {
		item := toTripResponse(&trips[i])
		// Listing stays light; the itinerary is fetched per trip.
		item.Itinerary = nil
		page.Items = append(page.Items, *item)
	}
	return page, nil
}

func (s *TripService) Update(ctx context.Context, userID, tripID uuid.UUID, req request_models.UpdateTripRequest) (*response_models.TripResponse, error) {
	trip, err := s.loadTrip(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}

	reembed := false
	redate := req.StartDate != nil || req.EndDate != nil
	if req.Title != nil {
		trip.Title = strings.TrimSpace(*req.Title)
	}
	if req.Destination != nil {
		trip.Destination = strings.TrimSpace(*req.Destination)
		reembed = true
	}
	if req.Origin != nil {
		trip.Origin = strings.TrimSpace(*req.Origin)
	}
	if req.StartDate != nil {
		if trip.StartDate, err = utils.ParseDate(*req.StartDate); err != nil {
			return nil, err
		}
	}
	if req.EndDate != nil {
		if trip.EndDate, err = utils.ParseDate(*req.EndDate); err != nil {
			return nil, err
		}
	}
	if req.Budget != nil {
		trip.Budget = *req.Budget
	}
	if req.Currency != nil {
		trip.Currency = *req.Currency
	}
	if req.Travelers != nil {
		trip.Travelers = *req.Travelers
		if req.Adults == nil && req.Children == nil {
			trip.Adults, trip.Children = 0, 0
		}
	}
	if req.Adults != nil {
		trip.Adults = *req.Adults
	}
	if req.Children != nil {
		trip.Children = *req.Children
	}
	if req.PreferenceTags != nil {
		trip.PreferenceTags = cleanTags(*req.PreferenceTags)
		reembed = true
	}
	if req.Notes != nil {
		trip.Notes = *req.Notes
	}

	if err := normalizeTrip(trip); err != nil {
		return nil, err
	}
	if redate {
		if err := refitItinerary(trip); err != nil {
			slog.WarnContext(ctx, "Stored itinerary left as is",
				slog.String("trip_id", trip.ID.String()), slog.Any("error", err))
		}
	}
	if reembed {
		s.embedTrip(ctx, trip)
	}

	if err := s.tripRepo.Update(ctx, trip); err != nil {
		return nil, fmt.Errorf("%w: update trip: %v", utils.ErrDatabaseError, err)
	}
	return toTripResponse(trip), nil
}

func (s *TripService) Delete(ctx context.Context, userID, tripID uuid.UUID) error {
	deleted, err := s.tripRepo.Delete(ctx, userID, tripID)
	if err != nil {
		return fmt.Errorf("%w: delete trip: %v", utils.ErrDatabaseError, err)
	}
	if !deleted {
		return utils.ErrTripNotFound
	}
	return nil
}

func (s *TripService) ChangeStatus(ctx context.Context, userID, tripID uuid.UUID, status string) (*response_models.TripResponse, error) {
	next := dbm.TripStatus(strings.ToLower(strings.TrimSpace(status)))
	if !next.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", utils.ErrInvalidInput, status)
	}

	trip, err := s.loadTrip(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}
	if trip.Status == next {
		return toTripResponse(trip), nil
	}
	if !trip.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s -> %s", utils.ErrInvalidStatusTransition, trip.Status, next)
	}
	// A trip cannot be marked planned without something to follow.
	if next == dbm.TripStatusPlanned && len(trip.Itinerary) == 0 {
		return nil, utils.ErrNoItinerary
	}

	if err := s.tripRepo.UpdateStatus(ctx, trip.ID, next); err != nil {
		return nil, fmt.Errorf("%w: update status: %v", utils.ErrDatabaseError, err)
	}
	slog.InfoContext(ctx, "Trip status changed",
		slog.String("trip_id", trip.ID.String()),
		slog.String("from", string(trip.Status)),
		slog.String("to", string(next)))
	trip.Status = next
	return toTripResponse(trip), nil
}

func (s *TripService) FindSimilar(ctx context.Context, userID, tripID uuid.UUID, limit int) ([]response_models.TripResponse, error) {
	if limit <= 0 {
		limit = 5
	}
	if limit > maxSimilarTrips {
		limit = maxSimilarTrips
	}

	trip, err := s.loadTrip(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}

	vector := trip.Embedding
	if vector == nil {
		v, err := s.embedder.Embed(ctx, tripEmbeddingText(trip))
		if err != nil {
			return nil, fmt.Errorf("%w: embed trip: %v", utils.ErrLLMUnavailable, err)
		}
		vector = &v
	}

	trips, err := s.tripRepo.FindSimilar(ctx, userID, trip.ID, *vector, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: similar trips: %v", utils.ErrDatabaseError, err)
	}

	out := make([]response_models.TripResponse, 0, len(trips))
	for i := range trips {
		item := toTripResponse(&trips[i])
		item.Itinerary = nil
		out = append(out, *item)
	}
	return out, nil
}

func (s *TripService) loadTrip(ctx context.Context, userID, tripID uuid.UUID) (*dbm.Trip, error) {
	trip, err := s.tripRepo.FindByID(ctx, userID, tripID)
	if err != nil {
		return nil, fmt.Errorf("%w: find trip: %v", utils.ErrDatabaseError, err)
	}
	if trip == nil {
		return nil, utils.ErrTripNotFound
	}
	return trip, nil
}

// embedTrip refreshes the similarity vector. A failing embedder only costs
// the trip its place in similarity search.
func (s *TripService) embedTrip(ctx context.Context, trip *dbm.Trip) {
	vector, err := s.embedder.Embed(ctx, tripEmbeddingText(trip))
	if err != nil {
		slog.WarnContext(ctx, "Trip embedding failed", slog.Any("error", err))
		trip.Embedding = nil
		return
	}
	trip.Embedding = &vector
}

func tripEmbeddingText(trip *dbm.Trip) string {
	return strings.TrimSpace(trip.Destination + " " + strings.Join(trip.PreferenceTags, " ") + " " + trip.Title)
}

func tripFromRequest(userID uuid.UUID, req request_models.TripRequest) (*dbm.Trip, error) {
	start, err := utils.ParseDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := utils.ParseDate(req.EndDate)
	if err != nil {
		return nil, err
	}

	trip := &dbm.Trip{
		UserID:         userID,
		Title:          strings.TrimSpace(req.Title),
		Destination:    strings.TrimSpace(req.Destination),
		Origin:         strings.TrimSpace(req.Origin),
		StartDate:      start,
		EndDate:        end,
		Budget:         req.Budget,
		Currency:       req.Currency,
		Travelers:      req.Travelers,
		Adults:         req.Adults,
		Children:       req.Children,
		PreferenceTags: cleanTags(req.PreferenceTags),
		Notes:          strings.TrimSpace(req.Notes),
		Status:         dbm.TripStatusDraft,
	}
	if err := normalizeTrip(trip); err != nil {
		return nil, err
	}
	return trip, nil
}

// normalizeTrip enforces the trip invariants and fills defaults.
func normalizeTrip(trip *dbm.Trip) error {
	if trip.Destination == "" {
		return fmt.Errorf("%w: destination is required", utils.ErrInvalidInput)
	}
	if trip.EndDate.Before(trip.StartDate) {
		return fmt.Errorf("%w: end_date is before start_date", utils.ErrInvalidInput)
	}
	if days := utils.TripDays(trip.StartDate, trip.EndDate); days > maxTripDays {
		return fmt.Errorf("%w: trip spans %d days, at most %d allowed", utils.ErrInvalidInput, days, maxTripDays)
	}
	if trip.Budget < 0 {
		return fmt.Errorf("%w: budget must not be negative", utils.ErrInvalidInput)
	}
	if trip.Travelers < 0 || trip.Adults < 0 || trip.Children < 0 {
		return fmt.Errorf("%w: party sizes must not be negative", utils.ErrInvalidInput)
	}

	party := trip.Adults + trip.Children
	switch {
	case trip.Travelers == 0 && party == 0:
		trip.Travelers, trip.Adults = 1, 1
	case trip.Travelers == 0:
		trip.Travelers = party
	case party == 0:
		trip.Adults = trip.Travelers
	case party != trip.Travelers:
		return fmt.Errorf("%w: adults + children must equal travelers", utils.ErrInvalidInput)
	}
	if trip.Adults == 0 {
		return fmt.Errorf("%w: at least one adult is required", utils.ErrInvalidInput)
	}

	trip.Currency = strings.ToUpper(strings.TrimSpace(trip.Currency))
	if trip.Currency == "" {
		trip.Currency = defaultCurrency
	}
	if trip.Title == "" {
		trip.Title = fmt.Sprintf("%s %d-day trip", trip.Destination, utils.TripDays(trip.StartDate, trip.EndDate))
	}
	return nil
}

func cleanTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		key := strings.ToLower(tag)
		if tag == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, tag)
	}
	return out
}

func toTripResponse(trip *dbm.Trip) *response_models.TripResponse {
	resp := &response_models.TripResponse{
		ID:             trip.ID.String(),
		Title:          trip.Title,
		Destination:    trip.Destination,
		Origin:         trip.Origin,
		StartDate:      utils.FormatDate(trip.StartDate),
		EndDate:        utils.FormatDate(trip.EndDate),
		DurationDays:   utils.TripDays(trip.StartDate, trip.EndDate),
		Budget:         trip.Budget,
		Currency:       trip.Currency,
		Travelers:      trip.Travelers,
		Adults:         trip.Adults,
		Children:       trip.Children,
		PreferenceTags: append([]string{}, trip.PreferenceTags...),
		Notes:          trip.Notes,
		Status:         string(trip.Status),
		CreatedAt:      trip.CreatedTime().Format(time.RFC3339),
		UpdatedAt:      trip.UpdatedTime().Format(time.RFC3339),
	}
	if it, err := decodeItinerary(trip.Itinerary); err == nil && it != nil {
		resp.Itinerary = it
	}
	return resp
}

// refitItinerary re-dates a stored itinerary from the trip's start date and
// drops the days past its end.
func refitItinerary(trip *dbm.Trip) error {
	it, err := decodeItinerary(trip.Itinerary)
	if err != nil || it == nil {
		return err
	}
	if days := utils.TripDays(trip.StartDate, trip.EndDate); days > 0 && len(it.Days) > days {
		it.Days = it.Days[:days]
	}
	NormalizeItinerary(it, trip.StartDate, trip.Currency)

	blob, err := encodeItinerary(it)
	if err != nil {
		return err
	}
	trip.Itinerary = blob
	return nil
}

func decodeItinerary(raw datatypes.JSON) (*response_models.Itinerary, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var it response_models.Itinerary
	if err := json.Unmarshal(raw, &it); err != nil {
		return nil, err
	}
	return &it, nil
}

func encodeItinerary(it *response_models.Itinerary) (datatypes.JSON, error) {
	b, err := json.Marshal(it)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}
