package controllers

import (
	"context"
	"encoding/json"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"travelmind/internal/models/request_models"
	"travelmind/internal/models/response_models"
)

type MockTripService struct {
	mock.Mock
}

func (m *MockTripService) Create(ctx context.Context, userID uuid.UUID, req request_models.TripRequest) (*response_models.TripResponse, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*response_models.TripResponse), args.Error(1)
}

func (m *MockTripService) Get(ctx context.Context, userID, tripID uuid.UUID) (*response_models.TripResponse, error) {
	args := m.Called(ctx, userID, tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*response_models.TripResponse), args.Error(1)
}

func (m *MockTripService) List(ctx context.Context, userID uuid.UUID, req request_models.ListTripsRequest) (*response_models.TripPage, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*response_models.TripPage), args.Error(1)
}

func (m *MockTripService) Update(ctx context.Context, userID, tripID uuid.UUID, req request_models.UpdateTripRequest) (*response_models.TripResponse, error) {
	args := m.Called(ctx, userID, tripID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*response_models.TripResponse), args.Error(1)
}

func (m *MockTripService) Delete(ctx context.Context, userID, tripID uuid.UUID) error {
	return m.Called(ctx, userID, tripID).Error(0)
}

func (m *MockTripService) ChangeStatus(ctx context.Context, userID, tripID uuid.UUID, status string) (*response_models.TripResponse, error) {
	args := m.Called(ctx, userID, tripID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*response_models.TripResponse), args.Error(1)
}

func (m *MockTripService) FindSimilar(ctx context.Context, userID, tripID uuid.UUID, limit int) ([]response_models.TripResponse, error) {
	args := m.Called(ctx, userID, tripID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]response_models.TripResponse), args.Error(1)
}

type MockItineraryService struct {
	mock.Mock
}

func (m *MockItineraryService) result(args mock.Arguments) (*response_models.ItineraryResult, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*response_models.ItineraryResult), args.Error(1)
}

func (m *MockItineraryService) itinerary(args mock.Arguments) (*response_models.Itinerary, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*response_models.Itinerary), args.Error(1)
}

func (m *MockItineraryService) GenerateItinerary(ctx context.Context, userID uuid.UUID, req request_models.TripRequest) (*response_models.ItineraryResult, error) {
	return m.result(m.Called(ctx, userID, req))
}

func (m *MockItineraryService) GenerateForTrip(ctx context.Context, userID, tripID uuid.UUID) (*response_models.ItineraryResult, error) {
	return m.result(m.Called(ctx, userID, tripID))
}

func (m *MockItineraryService) CreateAndGenerate(ctx context.Context, userID uuid.UUID, req request_models.TripRequest) (*response_models.ItineraryResult, error) {
	return m.result(m.Called(ctx, userID, req))
}

func (m *MockItineraryService) ReplaceItinerary(ctx context.Context, userID, tripID uuid.UUID, it response_models.Itinerary) (*response_models.Itinerary, error) {
	return m.itinerary(m.Called(ctx, userID, tripID, it))
}

func (m *MockItineraryService) UpdateActivity(ctx context.Context, userID, tripID uuid.UUID, day, index int, patch request_models.ActivityPatch) (*response_models.Itinerary, error) {
	return m.itinerary(m.Called(ctx, userID, tripID, day, index, patch))
}

func (m *MockItineraryService) AddActivity(ctx context.Context, userID, tripID uuid.UUID, day int, req request_models.AddActivityRequest) (*response_models.Itinerary, error) {
	return m.itinerary(m.Called(ctx, userID, tripID, day, req))
}

func (m *MockItineraryService) RemoveActivity(ctx context.Context, userID, tripID uuid.UUID, day, index int) (*response_models.Itinerary, error) {
	return m.itinerary(m.Called(ctx, userID, tripID, day, index))
}

func (m *MockItineraryService) MoveActivity(ctx context.Context, userID, tripID uuid.UUID, req request_models.MoveActivityRequest) (*response_models.Itinerary, error) {
	return m.itinerary(m.Called(ctx, userID, tripID, req))
}

type MockExpenseService struct {
	mock.Mock
}

func (m *MockExpenseService) Create(ctx context.Context, userID, tripID uuid.UUID, req request_models.CreateExpenseRequest) (*response_models.ExpenseResponse, error) {
	args := m.Called(ctx, userID, tripID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*response_models.ExpenseResponse), args.Error(1)
}

func (m *MockExpenseService) List(ctx context.Context, userID, tripID uuid.UUID, category string) ([]response_models.ExpenseResponse, error) {
	args := m.Called(ctx, userID, tripID, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]response_models.ExpenseResponse), args.Error(1)
}

func (m *MockExpenseService) Update(ctx context.Context, userID, expenseID uuid.UUID, req request_models.UpdateExpenseRequest) (*response_models.ExpenseResponse, error) {
	args := m.Called(ctx, userID, expenseID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*response_models.ExpenseResponse), args.Error(1)
}

func (m *MockExpenseService) Delete(ctx context.Context, userID, expenseID uuid.UUID) error {
	return m.Called(ctx, userID, expenseID).Error(0)
}

func (m *MockExpenseService) Summary(ctx context.Context, userID, tripID uuid.UUID) (*response_models.ExpenseSummary, error) {
	args := m.Called(ctx, userID, tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*response_models.ExpenseSummary), args.Error(1)
}

type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) profile(args mock.Arguments) (*response_models.ProfileResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*response_models.ProfileResponse), args.Error(1)
}

func (m *MockProfileService) Get(ctx context.Context, userID uuid.UUID) (*response_models.ProfileResponse, error) {
	return m.profile(m.Called(ctx, userID))
}

func (m *MockProfileService) Upsert(ctx context.Context, userID uuid.UUID, req request_models.UpsertProfileRequest) (*response_models.ProfileResponse, error) {
	return m.profile(m.Called(ctx, userID, req))
}

func (m *MockProfileService) UpdatePreferences(ctx context.Context, userID uuid.UUID, patch map[string]json.RawMessage) (*response_models.ProfileResponse, error) {
	return m.profile(m.Called(ctx, userID, patch))
}

// UploadAvatar reads the body so tests can assert on what was uploaded.
func (m *MockProfileService) UploadAvatar(ctx context.Context, userID uuid.UUID, filename, contentType string, r io.Reader) (*response_models.ProfileResponse, error) {
	body, _ := io.ReadAll(r)
	return m.profile(m.Called(ctx, userID, filename, contentType, body))
}

type MockVoiceService struct {
	mock.Mock
}

func (m *MockVoiceService) Transcribe(ctx context.Context, audio io.Reader) (string, error) {
	body, _ := io.ReadAll(audio)
	args := m.Called(ctx, body)
	return args.String(0), args.Error(1)
}

func (m *MockVoiceService) ParseVoiceText(ctx context.Context, text string) (*response_models.VoiceParseResult, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*response_models.VoiceParseResult), args.Error(1)
}

func (m *MockVoiceService) TranscribeAndParse(ctx context.Context, audio io.Reader) (*response_models.VoiceParseResult, error) {
	body, _ := io.ReadAll(audio)
	args := m.Called(ctx, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*response_models.VoiceParseResult), args.Error(1)
}

// StreamRelay collects the frames it receives and emits one partial per
// frame count before the configured final text.
func (m *MockVoiceService) StreamRelay(ctx context.Context, frames <-chan []byte, emit func(response_models.StreamMessage)) (string, error) {
	var total int
	for f := range frames {
		total += len(f)
		emit(response_models.StreamMessage{Type: "partial", Text: string(f)})
	}
	args := m.Called(ctx, total)
	if err := args.Error(1); err != nil {
		emit(response_models.StreamMessage{Type: "error", Text: "speech recognition failed"})
		return "", err
	}
	emit(response_models.StreamMessage{Type: "final", Text: args.String(0)})
	return args.String(0), nil
}

type MockMapService struct {
	mock.Mock
}

func (m *MockMapService) Geocode(ctx context.Context, address, city string) ([]response_models.GeoResult, error) {
	args := m.Called(ctx, address, city)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]response_models.GeoResult), args.Error(1)
}

func (m *MockMapService) SearchPOI(ctx context.Context, keywords, city string, page, pageSize int) (*response_models.POIPage, error) {
	args := m.Called(ctx, keywords, city, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*response_models.POIPage), args.Error(1)
}

func (m *MockMapService) SearchAround(ctx context.Context, location, keywords string, radius int) (*response_models.POIPage, error) {
	args := m.Called(ctx, location, keywords, radius)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*response_models.POIPage), args.Error(1)
}

func (m *MockMapService) Route(ctx context.Context, origin, destination, mode, city string) (*response_models.RouteResult, error) {
	args := m.Called(ctx, origin, destination, mode, city)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*response_models.RouteResult), args.Error(1)
}
