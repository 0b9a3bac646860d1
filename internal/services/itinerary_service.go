package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"travelmind/internal/config"
	dbm "travelmind/internal/models/db_models"
	"travelmind/internal/models/request_models"
	"travelmind/internal/models/response_models"
	"travelmind/internal/repositories"
	mem "travelmind/pkg/memcache"
	"travelmind/pkg/utils"
)

const itinerarySystemPrompt = "You are an experienced travel planner. You answer with a single JSON object and nothing else."

type ItineraryServiceInterface interface {
	GenerateItinerary(ctx context.Context, userID uuid.UUID, req request_models.TripRequest) (*response_models.ItineraryResult, error)
	GenerateForTrip(ctx context.Context, userID, tripID uuid.UUID) (*response_models.ItineraryResult, error)
	CreateAndGenerate(ctx context.Context, userID uuid.UUID, req request_models.TripRequest) (*response_models.ItineraryResult, error)
	ReplaceItinerary(ctx context.Context, userID, tripID uuid.UUID, it response_models.Itinerary) (*response_models.Itinerary, error)
	UpdateActivity(ctx context.Context, userID, tripID uuid.UUID, day, index int, patch request_models.ActivityPatch) (*response_models.Itinerary, error)
	AddActivity(ctx context.Context, userID, tripID uuid.UUID, day int, req request_models.AddActivityRequest) (*response_models.Itinerary, error)
	RemoveActivity(ctx context.Context, userID, tripID uuid.UUID, day, index int) (*response_models.Itinerary, error)
	MoveActivity(ctx context.Context, userID, tripID uuid.UUID, req request_models.MoveActivityRequest) (*response_models.Itinerary, error)
}

type ItineraryService struct {
	tripService TripServiceInterface
	tripRepo    repositories.TripRepository
	profileRepo repositories.ProfileRepository
	llm         utils.LLMClientInterface
	memo        mem.Store
	cfg         config.LLMConfig
}

func NewItineraryService(
	tripService TripServiceInterface,
	tripRepo repositories.TripRepository,
	profileRepo repositories.ProfileRepository,
	llm utils.LLMClientInterface,
	memo mem.Store,
	cfg config.LLMConfig,
) ItineraryServiceInterface {
	return &ItineraryService{
		tripService: tripService,
		tripRepo:    tripRepo,
		profileRepo: profileRepo,
		llm:         llm,
		memo:        memo,
		cfg:         cfg,
	}
}

// GenerateItinerary plans a trip without persisting anything.
func (s *ItineraryService) GenerateItinerary(ctx context.Context, userID uuid.UUID, req request_models.TripRequest) (*response_models.ItineraryResult, error) {
	trip, err := tripFromRequest(userID, req)
	if err != nil {
		return nil, err
	}
	return s.generate(ctx, trip)
}

func (s *ItineraryService) GenerateForTrip(ctx context.Context, userID, tripID uuid.UUID) (*response_models.ItineraryResult, error) {
	trip, err := s.loadTrip(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}

	result, err := s.generate(ctx, trip)
	if err != nil {
		if result != nil {
			result.TripID = trip.ID.String()
		}
		return result, err
	}

	blob, err := encodeItinerary(result.Itinerary)
	if err != nil {
		return nil, fmt.Errorf("encode itinerary: %w", err)
	}
	status := dbm.TripStatus("")
	if trip.Status == dbm.TripStatusDraft {
		status = dbm.TripStatusPlanned
	}
	if err := s.tripRepo.UpdateItinerary(ctx, trip.ID, blob, status); err != nil {
		return nil, fmt.Errorf("%w: store itinerary: %v", utils.ErrDatabaseError, err)
	}

	result.TripID = trip.ID.String()
	return result, nil
}

// CreateAndGenerate stores the trip as a draft first, so a failed generation
// still leaves something the user can retry on.
func (s *ItineraryService) CreateAndGenerate(ctx context.Context, userID uuid.UUID, req request_models.TripRequest) (*response_models.ItineraryResult, error) {
	created, err := s.tripService.Create(ctx, userID, req)
	if err != nil {
		return nil, err
	}
	tripID, err := uuid.Parse(created.ID)
	if err != nil {
		return nil, fmt.Errorf("created trip has invalid id %q: %w", created.ID, err)
	}

	result, err := s.GenerateForTrip(ctx, userID, tripID)
	if err != nil {
		if result == nil {
			result = &response_models.ItineraryResult{}
		}
		result.TripID = created.ID
		slog.WarnContext(ctx, "Itinerary generation failed, trip kept as draft",
			slog.String("trip_id", created.ID), slog.Any("error", err))
		return result, err
	}
	return result, nil
}

func (s *ItineraryService) generate(ctx context.Context, trip *dbm.Trip) (*response_models.ItineraryResult, error) {
	prefs := s.profilePreferences(ctx, trip.UserID)
	prompt := BuildItineraryPrompt(requestFromTrip(trip), prefs)
	expectedDays := utils.TripDays(trip.StartDate, trip.EndDate)
	key := utils.CacheKey("itinerary", s.llm.Provider(), prompt)

	var rawText string
	computed := false
	blob, err := mem.Remember(s.memo, key, s.cfg.CacheTTL, func() ([]byte, error) {
		computed = true
		text, err := s.complete(ctx, "itinerary.generate", utils.CompletionRequest{
			System:      itinerarySystemPrompt,
			Prompt:      prompt,
			JSON:        true,
			Temperature: s.cfg.Temperature,
			MaxTokens:   s.cfg.MaxTokens,
		})
		if err != nil {
			return nil, err
		}
		rawText = text

		it, err := ParseItinerary(text, expectedDays)
		if err != nil {
			return nil, err
		}
		NormalizeItinerary(it, trip.StartDate, trip.Currency)
		return json.Marshal(it)
	})
	if err != nil {
		if errors.Is(err, utils.ErrItineraryMalformed) {
			slog.WarnContext(ctx, "LLM returned an unusable itinerary",
				slog.String("destination", trip.Destination), slog.Any("error", err))
			return &response_models.ItineraryResult{RawText: rawText}, err
		}
		return nil, err
	}

	var it response_models.Itinerary
	if err := json.Unmarshal(blob, &it); err != nil {
		return nil, fmt.Errorf("decode memoized itinerary: %w", err)
	}
	return &response_models.ItineraryResult{
		Itinerary: &it,
		RawText:   rawText,
		Cached:    !computed,
	}, nil
}

func (s *ItineraryService) complete(ctx context.Context, operation string, req utils.CompletionRequest) (string, error) {
	return callLLM(ctx, s.llm, s.cfg.Timeout, operation, req)
}

func (s *ItineraryService) profilePreferences(ctx context.Context, userID uuid.UUID) json.RawMessage {
	if s.profileRepo == nil {
		return nil
	}
	profile, err := s.profileRepo.FindByUserID(ctx, userID)
	if err != nil {
		slog.WarnContext(ctx, "Could not load profile preferences", slog.Any("error", err))
		return nil
	}
	if profile == nil || len(profile.Preferences) == 0 {
		return nil
	}
	return json.RawMessage(profile.Preferences)
}

func (s *ItineraryService) loadTrip(ctx context.Context, userID, tripID uuid.UUID) (*dbm.Trip, error) {
	trip, err := s.tripRepo.FindByID(ctx, userID, tripID)
	if err != nil {
		return nil, fmt.Errorf("%w: find trip: %v", utils.ErrDatabaseError, err)
	}
	if trip == nil {
		return nil, utils.ErrTripNotFound
	}
	return trip, nil
}

// edit loads the stored itinerary, applies fn, re-normalizes and saves.
func (s *ItineraryService) edit(ctx context.Context, userID, tripID uuid.UUID, fn func(it *response_models.Itinerary) error) (*response_models.Itinerary, error) {
	trip, err := s.loadTrip(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}
	it, err := decodeItinerary(trip.Itinerary)
	if err != nil {
		return nil, fmt.Errorf("decode stored itinerary: %w", err)
	}
	if it == nil {
		return nil, utils.ErrNoItinerary
	}

	if err := fn(it); err != nil {
		return nil, err
	}
	NormalizeItinerary(it, trip.StartDate, trip.Currency)

	blob, err := encodeItinerary(it)
	if err != nil {
		return nil, fmt.Errorf("encode itinerary: %w", err)
	}
	if err := s.tripRepo.UpdateItinerary(ctx, trip.ID, blob, ""); err != nil {
		return nil, fmt.Errorf("%w: store itinerary: %v", utils.ErrDatabaseError, err)
	}
	return it, nil
}

func (s *ItineraryService) ReplaceItinerary(ctx context.Context, userID, tripID uuid.UUID, replacement response_models.Itinerary) (*response_models.Itinerary, error) {
	trip, err := s.loadTrip(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}
	if err := validateItinerary(&replacement, utils.TripDays(trip.StartDate, trip.EndDate)); err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrInvalidInput, err)
	}
	NormalizeItinerary(&replacement, trip.StartDate, trip.Currency)

	blob, err := encodeItinerary(&replacement)
	if err != nil {
		return nil, fmt.Errorf("encode itinerary: %w", err)
	}
	if err := s.tripRepo.UpdateItinerary(ctx, trip.ID, blob, ""); err != nil {
		return nil, fmt.Errorf("%w: store itinerary: %v", utils.ErrDatabaseError, err)
	}
	return &replacement, nil
}

func (s *ItineraryService) UpdateActivity(ctx context.Context, userID, tripID uuid.UUID, day, index int, patch request_models.ActivityPatch) (*response_models.Itinerary, error) {
	return s.edit(ctx, userID, tripID, func(it *response_models.Itinerary) error {
		d, err := dayAt(it, day)
		if err != nil {
			return err
		}
		if index < 0 || index >= len(d.Activities) {
			return utils.ErrActivityOutOfRange
		}
		return applyActivityPatch(&d.Activities[index], patch)
	})
}

func (s *ItineraryService) AddActivity(ctx context.Context, userID, tripID uuid.UUID, day int, req request_models.AddActivityRequest) (*response_models.Itinerary, error) {
	activity := req.Activity
	if err := cleanActivity(&activity); err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrInvalidInput, err)
	}
	return s.edit(ctx, userID, tripID, func(it *response_models.Itinerary) error {
		d, err := dayAt(it, day)
		if err != nil {
			return err
		}
		position := len(d.Activities)
		if req.Position != nil {
			position = *req.Position
		}
		if position < 0 || position > len(d.Activities) {
			return utils.ErrActivityOutOfRange
		}
		d.Activities = insertActivity(d.Activities, position, activity)
		return nil
	})
}

func (s *ItineraryService) RemoveActivity(ctx context.Context, userID, tripID uuid.UUID, day, index int) (*response_models.Itinerary, error) {
	return s.edit(ctx, userID, tripID, func(it *response_models.Itinerary) error {
		d, err := dayAt(it, day)
		if err != nil {
			return err
		}
		if index < 0 || index >= len(d.Activities) {
			return utils.ErrActivityOutOfRange
		}
		d.Activities = append(d.Activities[:index], d.Activities[index+1:]...)
		return nil
	})
}

// MoveActivity relocates one activity. The activity keeps its time, so
// within a day the time order still decides its final slot.
func (s *ItineraryService) MoveActivity(ctx context.Context, userID, tripID uuid.UUID, req request_models.MoveActivityRequest) (*response_models.Itinerary, error) {
	return s.edit(ctx, userID, tripID, func(it *response_models.Itinerary) error {
		from, err := dayAt(it, req.FromDay)
		if err != nil {
			return err
		}
		to, err := dayAt(it, req.ToDay)
		if err != nil {
			return err
		}
		if req.FromIndex < 0 || req.FromIndex >= len(from.Activities) {
			return utils.ErrActivityOutOfRange
		}

		moved := from.Activities[req.FromIndex]
		from.Activities = append(from.Activities[:req.FromIndex], from.Activities[req.FromIndex+1:]...)
		if req.ToIndex < 0 || req.ToIndex > len(to.Activities) {
			return utils.ErrActivityOutOfRange
		}
		to.Activities = insertActivity(to.Activities, req.ToIndex, moved)
		return nil
	})
}

func dayAt(it *response_models.Itinerary, day int) (*response_models.DayPlan, error) {
	if day < 1 || day > len(it.Days) {
		return nil, utils.ErrDayOutOfRange
	}
	return &it.Days[day-1], nil
}

func insertActivity(list []response_models.Activity, at int, a response_models.Activity) []response_models.Activity {
	list = append(list, response_models.Activity{})
	copy(list[at+1:], list[at:])
	list[at] = a
	return list
}

func applyActivityPatch(a *response_models.Activity, p request_models.ActivityPatch) error {
	patched := *a
	if p.Time != nil {
		patched.Time = *p.Time
	}
	if p.EndTime != nil {
		patched.EndTime = *p.EndTime
	}
	if p.Title != nil {
		patched.Title = *p.Title
	}
	if p.Description != nil {
		patched.Description = *p.Description
	}
	if p.Location != nil {
		patched.Location = *p.Location
	}
	if p.Type != nil {
		patched.Type = *p.Type
	}
	if p.EstimatedCost != nil {
		patched.EstimatedCost = *p.EstimatedCost
	}
	if p.Lat != nil {
		patched.Lat = p.Lat
	}
	if p.Lng != nil {
		patched.Lng = p.Lng
	}
	if err := cleanActivity(&patched); err != nil {
		return fmt.Errorf("%w: %v", utils.ErrInvalidInput, err)
	}
	*a = patched
	return nil
}

// cleanActivity validates a user supplied activity.
func cleanActivity(a *response_models.Activity) error {
	a.Title = strings.TrimSpace(a.Title)
	if a.Title == "" {
		return errors.New("activity title is required")
	}
	if a.Time != "" && !utils.IsClock(a.Time) {
		return fmt.Errorf("activity time %q must be HH:MM", a.Time)
	}
	if a.EndTime != "" && !utils.IsClock(a.EndTime) {
		return fmt.Errorf("activity end_time %q must be HH:MM", a.EndTime)
	}
	if a.EstimatedCost < 0 {
		return errors.New("activity estimated_cost must not be negative")
	}
	a.Time = padClock(a.Time)
	a.EndTime = padClock(a.EndTime)
	return nil
}

func validateItinerary(it *response_models.Itinerary, maxDays int) error {
	if len(it.Days) == 0 {
		return errors.New("itinerary has no days")
	}
	if maxDays > 0 && len(it.Days) > maxDays {
		return fmt.Errorf("itinerary has %d days, trip has %d", len(it.Days), maxDays)
	}
	for i := range it.Days {
		for j := range it.Days[i].Activities {
			if err := cleanActivity(&it.Days[i].Activities[j]); err != nil {
				return fmt.Errorf("day %d activity %d: %w", i+1, j, err)
			}
		}
	}
	return nil
}

// ParseItinerary pulls the JSON plan out of a model answer and checks its
// shape. Extra days beyond expectedDays are dropped.
func ParseItinerary(raw string, expectedDays int) (*response_models.Itinerary, error) {
	candidates := utils.JSONCandidates(raw)
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: no json found in response", utils.ErrItineraryMalformed)
	}

	var it response_models.Itinerary
	var decodeErr error
	for _, text := range candidates {
		var next response_models.Itinerary
		if strings.HasPrefix(text, "[") {
			// Some models answer with the bare days array.
			decodeErr = json.Unmarshal([]byte(text), &next.Days)
		} else {
			decodeErr = json.Unmarshal([]byte(text), &next)
		}
		if decodeErr == nil && len(next.Days) > 0 {
			it = next
			break
		}
	}
	if len(it.Days) == 0 {
		if decodeErr != nil {
			return nil, fmt.Errorf("%w: %v", utils.ErrItineraryMalformed, decodeErr)
		}
		return nil, fmt.Errorf("%w: no days in plan", utils.ErrItineraryMalformed)
	}

	sort.SliceStable(it.Days, func(i, j int) bool {
		return dayOrder(it.Days[i].Day) < dayOrder(it.Days[j].Day)
	})
	if expectedDays > 0 && len(it.Days) > expectedDays {
		it.Days = it.Days[:expectedDays]
	}

	for i := range it.Days {
		it.Days[i].Day = i + 1
		kept := it.Days[i].Activities[:0]
		for _, a := range it.Days[i].Activities {
			a.Title = strings.TrimSpace(a.Title)
			if a.Title == "" {
				a.Title = strings.TrimSpace(a.Location)
			}
			if a.Title == "" {
				continue
			}
			if !utils.IsClock(a.Time) {
				a.Time = ""
			}
			if !utils.IsClock(a.EndTime) {
				a.EndTime = ""
			}
			a.Time = padClock(a.Time)
			a.EndTime = padClock(a.EndTime)
			if a.EstimatedCost < 0 {
				a.EstimatedCost = 0
			}
			kept = append(kept, a)
		}
		it.Days[i].Activities = kept
	}
	return &it, nil
}

// dayOrder sorts unnumbered days after numbered ones.
func dayOrder(n int) int {
	if n <= 0 {
		return math.MaxInt32
	}
	return n
}

// NormalizeItinerary dates each day from start, orders activities by time
// with untimed ones last, and repairs the budget total.
func NormalizeItinerary(it *response_models.Itinerary, start time.Time, currency string) {
	start = utils.TruncateDate(start)
	for i := range it.Days {
		day := &it.Days[i]
		day.Day = i + 1
		day.Date = utils.FormatDate(start.AddDate(0, 0, i))
		if day.Activities == nil {
			day.Activities = []response_models.Activity{}
		}
		sort.SliceStable(day.Activities, func(a, b int) bool {
			return activityOrder(day.Activities[a]) < activityOrder(day.Activities[b])
		})
	}

	if it.Budget.Currency == "" {
		it.Budget.Currency = currency
	}
	if it.Budget.Currency == "" {
		it.Budget.Currency = defaultCurrency
	}
	sum := it.Budget.CategorySum()
	if sum > 0 && (it.Budget.Total <= 0 || math.Abs(it.Budget.Total-sum) > 1) {
		it.Budget.Total = math.Round(sum*100) / 100
	}
}

func activityOrder(a response_models.Activity) int {
	m := utils.ClockMinutes(a.Time)
	if m < 0 {
		return math.MaxInt32
	}
	return m
}

func padClock(s string) string {
	if len(s) == 4 && s[1] == ':' {
		return "0" + s
	}
	return s
}

func requestFromTrip(trip *dbm.Trip) request_models.TripRequest {
	return request_models.TripRequest{
		Title:          trip.Title,
		Destination:    trip.Destination,
		Origin:         trip.Origin,
		StartDate:      utils.FormatDate(trip.StartDate),
		EndDate:        utils.FormatDate(trip.EndDate),
		Budget:         trip.Budget,
		Currency:       trip.Currency,
		Travelers:      trip.Travelers,
		Adults:         trip.Adults,
		Children:       trip.Children,
		PreferenceTags: trip.PreferenceTags,
		Notes:          trip.Notes,
	}
}

// BuildItineraryPrompt renders the planning request. preferences is the raw
// profile preference object and may be empty.
func BuildItineraryPrompt(req request_models.TripRequest, preferences json.RawMessage) string {
	days := 0
	start, errStart := utils.ParseDate(req.StartDate)
	end, errEnd := utils.ParseDate(req.EndDate)
	if errStart == nil && errEnd == nil {
		days = utils.TripDays(start, end)
	}
	currency := req.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Plan a %d-day trip to %s.\n\n", days, req.Destination))
	b.WriteString("Trip details:\n")
	if req.Origin != "" {
		b.WriteString(fmt.Sprintf("- Departing from: %s\n", req.Origin))
	}
	b.WriteString(fmt.Sprintf("- Dates: %s to %s (%d days)\n", req.StartDate, req.EndDate, days))
	if req.Budget > 0 {
		b.WriteString(fmt.Sprintf("- Total budget: %.0f %s\n", req.Budget, currency))
	} else {
		b.WriteString(fmt.Sprintf("- Budget: flexible, estimate costs in %s\n", currency))
	}
	b.WriteString(fmt.Sprintf("- Travelers: %d (%d adults, %d children)\n", req.Travelers, req.Adults, req.Children))
	if len(req.PreferenceTags) > 0 {
		b.WriteString(fmt.Sprintf("- Interests: %s\n", strings.Join(req.PreferenceTags, ", ")))
	}
	if strings.TrimSpace(req.Notes) != "" {
		b.WriteString(fmt.Sprintf("- Notes from the traveler: %s\n", strings.TrimSpace(req.Notes)))
	}
	if len(preferences) > 0 && string(preferences) != "null" && string(preferences) != "{}" {
		b.WriteString(fmt.Sprintf("- Saved traveler preferences: %s\n", compactJSON(preferences)))
	}

	b.WriteString("\nREQUIREMENTS:\n")
	b.WriteString(fmt.Sprintf("1. Return exactly %d entries in \"days\", numbered 1 to %d\n", days, days))
	b.WriteString("2. Use 24-hour HH:MM times and order activities by time\n")
	b.WriteString("3. Every activity needs a title and a concrete location name\n")
	b.WriteString(fmt.Sprintf("4. All costs are numbers in %s; keep the total within the budget when one is given\n", currency))
	b.WriteString("5. type is one of sightseeing, food, shopping, entertainment, transport, accommodation, other\n")
	b.WriteString("6. Return ONLY valid JSON, no markdown and no extra text\n\n")

	b.WriteString("Return JSON in this EXACT format:\n")
	b.WriteString(`{
  "summary": "one paragraph overview",
  "days": [
    {
      "day": 1,
      "date": "YYYY-MM-DD",
      "theme": "short theme of the day",
      "activities": [
        {
          "time": "09:00",
          "end_time": "11:00",
          "title": "Visit ...",
          "description": "what to do there",
          "location": "place name",
          "type": "sightseeing",
          "estimated_cost": 0,
          "lat": 0.0,
          "lng": 0.0
        }
      ],
      "lodging": {"name": "", "address": "", "price_per_night": 0, "notes": ""},
      "transport": [{"mode": "metro", "from": "", "to": "", "duration": "30 min", "estimated_cost": 0}]
    }
  ],
  "lodging": [{"name": "", "address": "", "price_per_night": 0, "nights": 1, "notes": ""}],
  "transport": {"arrival": "", "local": "", "departure": ""},
  "budget": {"transport": 0, "accommodation": 0, "food": 0, "attractions": 0, "shopping": 0, "other": 0, "total": 0, "currency": "`)
	b.WriteString(currency)
	b.WriteString(`"},
  "tips": ["..."]
}`)
	return b.String()
}

func compactJSON(raw json.RawMessage) string {
	var buf strings.Builder
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return string(raw)
	}
	return strings.TrimSpace(buf.String())
}
