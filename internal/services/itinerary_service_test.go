package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"travelmind/internal/config"
	dbm "travelmind/internal/models/db_models"
	"travelmind/internal/models/request_models"
	"travelmind/internal/models/response_models"
	mem "travelmind/pkg/memcache"
	"travelmind/pkg/utils"
)

const twoDayPlan = "Here is your plan:\n```json\n" + `{
  "summary": "Lakes and tea",
  "days": [
    {"day": 1, "activities": [
      {"time": "14:00", "title": "Lingyin Temple", "type": "sightseeing", "estimated_cost": 75},
      {"time": "9:00", "title": "West Lake walk", "type": "sightseeing"},
      {"title": "Night market", "type": "food"}
    ]},
    {"day": 2, "activities": [
      {"time": "10:00", "title": "", "location": "Longjing village"},
      {"time": "25:99", "title": "Tea tasting"}
    ]}
  ],
  "budget": {"transport": 200, "accommodation": 800, "food": 300, "total": 9999}
}` + "\n```"

func testLLMConfig() config.LLMConfig {
	return config.LLMConfig{
		Temperature: 0.7,
		MaxTokens:   2048,
		Timeout:     5 * time.Second,
		CacheTTL:    time.Minute,
	}
}

func testTripRequest() request_models.TripRequest {
	return request_models.TripRequest{
		Destination:    "Hangzhou",
		StartDate:      "2025-05-01",
		EndDate:        "2025-05-02",
		Budget:         3000,
		Travelers:      2,
		PreferenceTags: []string{"tea", "lakes"},
	}
}

func TestParseItinerary_CleansModelOutput(t *testing.T) {
	it, err := ParseItinerary(twoDayPlan, 2)
	require.NoError(t, err)
	require.Len(t, it.Days, 2)

	assert.Equal(t, "Lakes and tea", it.Summary)
	assert.Equal(t, "09:00", it.Days[0].Activities[1].Time, "single digit hour is padded")

	day2 := it.Days[1].Activities
	require.Len(t, day2, 2)
	assert.Equal(t, "Longjing village", day2[0].Title, "location stands in for a missing title")
	assert.Empty(t, day2[1].Time, "invalid clock is dropped")
}

func TestParseItinerary_TruncatesAndRenumbers(t *testing.T) {
	raw := `{"days":[{"day":3,"activities":[]},{"day":1,"activities":[]},{"day":7,"activities":[]}]}`

	it, err := ParseItinerary(raw, 2)
	require.NoError(t, err)
	require.Len(t, it.Days, 2)
	assert.Equal(t, 1, it.Days[0].Day)
	assert.Equal(t, 2, it.Days[1].Day)
}

func TestParseItinerary_AcceptsBareDaysArray(t *testing.T) {
	it, err := ParseItinerary(`[{"day":1,"activities":[{"title":"Bund"}]}]`, 3)
	require.NoError(t, err)
	require.Len(t, it.Days, 1)
	assert.Equal(t, "Bund", it.Days[0].Activities[0].Title)
}

func TestParseItinerary_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"no json", "Sorry, I cannot help with that."},
		{"no days", `{"summary":"empty","days":[]}`},
		{"wrong shape", `{"days":"tomorrow"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseItinerary(tt.raw, 2)
			assert.ErrorIs(t, err, utils.ErrItineraryMalformed)
		})
	}
}

func TestParseItinerary_SkipsLeadingArray(t *testing.T) {
	raw := "Sources [1]\n{\"summary\":\"West Lake\",\"days\":[{\"day\":1,\"activities\":[{\"time\":\"09:00\",\"title\":\"Boat ride\"}]}]}"

	it, err := ParseItinerary(raw, 2)
	require.NoError(t, err)
	assert.Equal(t, "West Lake", it.Summary)
	require.Len(t, it.Days, 1)
	assert.Equal(t, "Boat ride", it.Days[0].Activities[0].Title)
}

func TestNormalizeItinerary(t *testing.T) {
	it, err := ParseItinerary(twoDayPlan, 2)
	require.NoError(t, err)

	NormalizeItinerary(it, time.Date(2025, 5, 1, 15, 30, 0, 0, time.UTC), "CNY")

	assert.Equal(t, "2025-05-01", it.Days[0].Date)
	assert.Equal(t, "2025-05-02", it.Days[1].Date)

	titles := []string{}
	for _, a := range it.Days[0].Activities {
		titles = append(titles, a.Title)
	}
	assert.Equal(t, []string{"West Lake walk", "Lingyin Temple", "Night market"}, titles)

	assert.Equal(t, 1300.0, it.Budget.Total, "inconsistent total is recomputed")
	assert.Equal(t, "CNY", it.Budget.Currency)
}

func TestNormalizeItinerary_KeepsConsistentTotal(t *testing.T) {
	it := &response_models.Itinerary{
		Days:   []response_models.DayPlan{{}},
		Budget: response_models.BudgetBreakdown{Food: 100, Other: 50.5, Total: 150, Currency: "USD"},
	}
	NormalizeItinerary(it, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), "CNY")

	assert.Equal(t, 150.0, it.Budget.Total)
	assert.Equal(t, "USD", it.Budget.Currency)
	assert.NotNil(t, it.Days[0].Activities)
}

func TestBuildItineraryPrompt(t *testing.T) {
	req := testTripRequest()
	req.Adults = 2
	req.Notes = "vegetarian"

	prompt := BuildItineraryPrompt(req, json.RawMessage(`{"pace":"slow"}`))

	assert.Contains(t, prompt, "2-day trip to Hangzhou")
	assert.Contains(t, prompt, "2025-05-01 to 2025-05-02")
	assert.Contains(t, prompt, "3000 CNY")
	assert.Contains(t, prompt, "tea, lakes")
	assert.Contains(t, prompt, "vegetarian")
	assert.Contains(t, prompt, `{"pace":"slow"}`)
	assert.Contains(t, prompt, `"days"`)
}

func TestGenerateItinerary_Memoized(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	llm := new(MockLLMClient)
	profiles := new(MockProfileRepository)
	profiles.On("FindByUserID", mock.Anything, userID).Return(nil, nil)
	llm.On("Complete", mock.Anything, mock.MatchedBy(func(req utils.CompletionRequest) bool {
		return req.JSON && req.MaxTokens == 2048
	})).Return(twoDayPlan, nil).Once()

	svc := NewItineraryService(nil, new(MockTripRepository), profiles, llm, mem.NewMemoStore(time.Minute, time.Minute), testLLMConfig())

	first, err := svc.GenerateItinerary(ctx, userID, testTripRequest())
	require.NoError(t, err)
	assert.False(t, first.Cached)
	require.NotNil(t, first.Itinerary)
	assert.Len(t, first.Itinerary.Days, 2)

	second, err := svc.GenerateItinerary(ctx, userID, testTripRequest())
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Itinerary.Days[0].Activities, second.Itinerary.Days[0].Activities)

	llm.AssertExpectations(t)
}

func TestGenerateItinerary_InvalidRequest(t *testing.T) {
	svc := NewItineraryService(nil, nil, nil, new(MockLLMClient), mem.NewMemoStore(time.Minute, time.Minute), testLLMConfig())

	req := testTripRequest()
	req.EndDate = "2025-04-01"
	_, err := svc.GenerateItinerary(context.Background(), uuid.New(), req)
	assert.ErrorIs(t, err, utils.ErrInvalidInput)
}

func TestGenerateItinerary_LLMDown(t *testing.T) {
	llm := new(MockLLMClient)
	llm.On("Complete", mock.Anything, mock.Anything).Return("", errors.New("503 overloaded"))

	svc := NewItineraryService(nil, nil, nil, llm, mem.NewMemoStore(time.Minute, time.Minute), testLLMConfig())
	res, err := svc.GenerateItinerary(context.Background(), uuid.New(), testTripRequest())

	assert.ErrorIs(t, err, utils.ErrLLMUnavailable)
	assert.Nil(t, res)
}

func draftTrip(userID uuid.UUID) *dbm.Trip {
	trip := &dbm.Trip{
		UserID:      userID,
		Destination: "Hangzhou",
		StartDate:   time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC),
		Budget:      3000,
		Currency:    "CNY",
		Travelers:   2,
		Adults:      2,
		Status:      dbm.TripStatusDraft,
	}
	trip.ID = uuid.New()
	return trip
}

func TestGenerateForTrip_PlansDraft(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	trip := draftTrip(userID)

	repo := new(MockTripRepository)
	repo.On("FindByID", mock.Anything, userID, trip.ID).Return(trip, nil)
	repo.On("UpdateItinerary", mock.Anything, trip.ID, mock.AnythingOfType("datatypes.JSON"), dbm.TripStatusPlanned).Return(nil)

	llm := new(MockLLMClient)
	llm.On("Complete", mock.Anything, mock.Anything).Return(twoDayPlan, nil)

	svc := NewItineraryService(nil, repo, nil, llm, mem.NewMemoStore(time.Minute, time.Minute), testLLMConfig())
	res, err := svc.GenerateForTrip(ctx, userID, trip.ID)

	require.NoError(t, err)
	assert.Equal(t, trip.ID.String(), res.TripID)
	assert.Equal(t, "2025-05-01", res.Itinerary.Days[0].Date)
	repo.AssertExpectations(t)
}

func TestGenerateForTrip_NotFound(t *testing.T) {
	repo := new(MockTripRepository)
	repo.On("FindByID", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)

	svc := NewItineraryService(nil, repo, nil, new(MockLLMClient), mem.NewMemoStore(time.Minute, time.Minute), testLLMConfig())
	_, err := svc.GenerateForTrip(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, utils.ErrTripNotFound)
}

func TestCreateAndGenerate_KeepsDraftOnMalformedAnswer(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	var stored *dbm.Trip

	repo := new(MockTripRepository)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*db_models.Trip")).
		Run(func(args mock.Arguments) {
			stored = args.Get(1).(*dbm.Trip)
			stored.ID = uuid.New()
		}).Return(nil)
	repo.On("FindByID", mock.Anything, userID, mock.Anything).
		Return(func(context.Context, uuid.UUID, uuid.UUID) *dbm.Trip { return stored }, nil)

	embedder := new(MockEmbeddingClient)
	embedder.On("Embed", mock.Anything, mock.Anything).Return(utils.HashVector("hangzhou", 8), nil)

	llm := new(MockLLMClient)
	llm.On("Complete", mock.Anything, mock.Anything).Return("I would love to plan this trip!", nil)

	trips := NewTripService(repo, embedder)
	svc := NewItineraryService(trips, repo, nil, llm, mem.NewMemoStore(time.Minute, time.Minute), testLLMConfig())

	res, err := svc.CreateAndGenerate(ctx, userID, testTripRequest())

	assert.ErrorIs(t, err, utils.ErrItineraryMalformed)
	require.NotNil(t, res)
	assert.Equal(t, stored.ID.String(), res.TripID)
	assert.Equal(t, "I would love to plan this trip!", res.RawText)
	assert.Equal(t, dbm.TripStatusDraft, stored.Status)
	repo.AssertNotCalled(t, "UpdateItinerary", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func plannedTrip(t *testing.T, userID uuid.UUID) *dbm.Trip {
	t.Helper()
	trip := draftTrip(userID)
	trip.Status = dbm.TripStatusPlanned
	it, err := ParseItinerary(twoDayPlan, 2)
	require.NoError(t, err)
	NormalizeItinerary(it, trip.StartDate, trip.Currency)
	blob, err := json.Marshal(it)
	require.NoError(t, err)
	trip.Itinerary = datatypes.JSON(blob)
	return trip
}

func newEditService(t *testing.T, trip *dbm.Trip) (ItineraryServiceInterface, *MockTripRepository) {
	t.Helper()
	repo := new(MockTripRepository)
	repo.On("FindByID", mock.Anything, trip.UserID, trip.ID).Return(trip, nil)
	repo.On("UpdateItinerary", mock.Anything, trip.ID, mock.Anything, dbm.TripStatus("")).
		Run(func(args mock.Arguments) {
			trip.Itinerary = args.Get(2).(datatypes.JSON)
		}).Return(nil)
	return NewItineraryService(nil, repo, nil, nil, mem.NewMemoStore(time.Minute, time.Minute), testLLMConfig()), repo
}

func TestUpdateActivity(t *testing.T) {
	userID := uuid.New()
	trip := plannedTrip(t, userID)
	svc, repo := newEditService(t, trip)

	title := "Sunset boat"
	clock := "18:30"
	it, err := svc.UpdateActivity(context.Background(), userID, trip.ID, 1, 0, request_models.ActivityPatch{Title: &title, Time: &clock})
	require.NoError(t, err)

	acts := it.Days[0].Activities
	assert.Equal(t, "Sunset boat", acts[1].Title, "re-sorted after the 14:00 temple")
	assert.Equal(t, "18:30", acts[1].Time)
	repo.AssertCalled(t, "UpdateItinerary", mock.Anything, trip.ID, mock.Anything, dbm.TripStatus(""))
}

func TestUpdateActivity_Validation(t *testing.T) {
	userID := uuid.New()
	trip := plannedTrip(t, userID)
	svc, _ := newEditService(t, trip)
	ctx := context.Background()

	_, err := svc.UpdateActivity(ctx, userID, trip.ID, 5, 0, request_models.ActivityPatch{})
	assert.ErrorIs(t, err, utils.ErrDayOutOfRange)

	_, err = svc.UpdateActivity(ctx, userID, trip.ID, 1, 9, request_models.ActivityPatch{})
	assert.ErrorIs(t, err, utils.ErrActivityOutOfRange)

	bad := "noon"
	_, err = svc.UpdateActivity(ctx, userID, trip.ID, 1, 0, request_models.ActivityPatch{Time: &bad})
	assert.ErrorIs(t, err, utils.ErrInvalidInput)
}

func TestAddRemoveMoveActivity(t *testing.T) {
	userID := uuid.New()
	trip := plannedTrip(t, userID)
	svc, _ := newEditService(t, trip)
	ctx := context.Background()

	pos := 0
	it, err := svc.AddActivity(ctx, userID, trip.ID, 2, request_models.AddActivityRequest{
		Activity: response_models.Activity{Title: "Breakfast", Time: "08:00"},
		Position: &pos,
	})
	require.NoError(t, err)
	assert.Equal(t, "Breakfast", it.Days[1].Activities[0].Title)
	assert.Len(t, it.Days[1].Activities, 3)

	tooFar := 10
	_, err = svc.AddActivity(ctx, userID, trip.ID, 2, request_models.AddActivityRequest{
		Activity: response_models.Activity{Title: "Late"},
		Position: &tooFar,
	})
	assert.ErrorIs(t, err, utils.ErrActivityOutOfRange)

	it, err = svc.MoveActivity(ctx, userID, trip.ID, request_models.MoveActivityRequest{FromDay: 1, FromIndex: 2, ToDay: 2, ToIndex: 0})
	require.NoError(t, err)
	assert.Len(t, it.Days[0].Activities, 2)
	require.Len(t, it.Days[1].Activities, 4)
	assert.Equal(t, "Night market", it.Days[1].Activities[2].Title, "untimed activities follow timed ones")

	it, err = svc.RemoveActivity(ctx, userID, trip.ID, 1, 0)
	require.NoError(t, err)
	assert.Len(t, it.Days[0].Activities, 1)
	assert.Equal(t, "Lingyin Temple", it.Days[0].Activities[0].Title)
}

func TestEdit_NoItinerary(t *testing.T) {
	userID := uuid.New()
	trip := draftTrip(userID)
	svc, _ := newEditService(t, trip)

	_, err := svc.RemoveActivity(context.Background(), userID, trip.ID, 1, 0)
	assert.ErrorIs(t, err, utils.ErrNoItinerary)
}

func TestReplaceItinerary_RejectsTooManyDays(t *testing.T) {
	userID := uuid.New()
	trip := plannedTrip(t, userID)
	svc, _ := newEditService(t, trip)

	replacement := response_models.Itinerary{Days: make([]response_models.DayPlan, 3)}
	_, err := svc.ReplaceItinerary(context.Background(), userID, trip.ID, replacement)
	assert.ErrorIs(t, err, utils.ErrInvalidInput)

	replacement = response_models.Itinerary{Days: []response_models.DayPlan{{Activities: []response_models.Activity{{Title: "Only this"}}}}}
	got, err := svc.ReplaceItinerary(context.Background(), userID, trip.ID, replacement)
	require.NoError(t, err)
	assert.Equal(t, "2025-05-01", got.Days[0].Date)
}
