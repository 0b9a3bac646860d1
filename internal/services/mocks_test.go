package services

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/mock"
	"gorm.io/datatypes"
	dbm "travelmind/internal/models/db_models"
	"travelmind/pkg/utils"
)

// --- Repository mocks ---

type MockTripRepository struct {
	mock.Mock
}

func (m *MockTripRepository) Create(ctx context.Context, trip *dbm.Trip) error {
	args := m.Called(ctx, trip)
	return args.Error(0)
}

func (m *MockTripRepository) FindByID(ctx context.Context, userID, tripID uuid.UUID) (*dbm.Trip, error) {
	args := m.Called(ctx, userID, tripID)
	if fn, ok := args.Get(0).(func(context.Context, uuid.UUID, uuid.UUID) *dbm.Trip); ok {
		return fn(ctx, userID, tripID), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dbm.Trip), args.Error(1)
}

func (m *MockTripRepository) List(ctx context.Context, userID uuid.UUID, status dbm.TripStatus, page, pageSize int) ([]dbm.Trip, int64, error) {
	args := m.Called(ctx, userID, status, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]dbm.Trip), args.Get(1).(int64), args.Error(2)
}

func (m *MockTripRepository) Update(ctx context.Context, trip *dbm.Trip) error {
	args := m.Called(ctx, trip)
	return args.Error(0)
}

func (m *MockTripRepository) UpdateItinerary(ctx context.Context, tripID uuid.UUID, itinerary datatypes.JSON, status dbm.TripStatus) error {
	args := m.Called(ctx, tripID, itinerary, status)
	return args.Error(0)
}

func (m *MockTripRepository) UpdateStatus(ctx context.Context, tripID uuid.UUID, status dbm.TripStatus) error {
	args := m.Called(ctx, tripID, status)
	return args.Error(0)
}

func (m *MockTripRepository) Delete(ctx context.Context, userID, tripID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, tripID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTripRepository) FindSimilar(ctx context.Context, userID, excludeID uuid.UUID, vector pgvector.Vector, limit int) ([]dbm.Trip, error) {
	args := m.Called(ctx, userID, excludeID, vector, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dbm.Trip), args.Error(1)
}

type MockExpenseRepository struct {
	mock.Mock
}

func (m *MockExpenseRepository) Create(ctx context.Context, expense *dbm.Expense) error {
	args := m.Called(ctx, expense)
	return args.Error(0)
}

func (m *MockExpenseRepository) FindByID(ctx context.Context, userID, expenseID uuid.UUID) (*dbm.Expense, error) {
	args := m.Called(ctx, userID, expenseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dbm.Expense), args.Error(1)
}

func (m *MockExpenseRepository) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]dbm.Expense, error) {
	args := m.Called(ctx, tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dbm.Expense), args.Error(1)
}

func (m *MockExpenseRepository) Update(ctx context.Context, expense *dbm.Expense) error {
	args := m.Called(ctx, expense)
	return args.Error(0)
}

func (m *MockExpenseRepository) Delete(ctx context.Context, userID, expenseID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, expenseID)
	return args.Bool(0), args.Error(1)
}

type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*dbm.UserProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dbm.UserProfile), args.Error(1)
}

func (m *MockProfileRepository) Upsert(ctx context.Context, profile *dbm.UserProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockProfileRepository) UpdateAvatar(ctx context.Context, userID uuid.UUID, avatarURL string) error {
	args := m.Called(ctx, userID, avatarURL)
	return args.Error(0)
}

// --- Vendor mocks ---

type MockLLMClient struct {
	mock.Mock
}

func (m *MockLLMClient) Complete(ctx context.Context, req utils.CompletionRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockLLMClient) Provider() string {
	return "mock"
}

type MockEmbeddingClient struct {
	mock.Mock
}

func (m *MockEmbeddingClient) Embed(ctx context.Context, text string) (pgvector.Vector, error) {
	args := m.Called(ctx, text)
	return args.Get(0).(pgvector.Vector), args.Error(1)
}

type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) Upload(ctx context.Context, bucket, objectPath, contentType string, body []byte) (string, error) {
	args := m.Called(ctx, bucket, objectPath, contentType, body)
	return args.String(0), args.Error(1)
}

type MockSpeechClient struct {
	mock.Mock
}

func (m *MockSpeechClient) Transcribe(ctx context.Context, audio io.Reader) (string, error) {
	args := m.Called(ctx, audio)
	return args.String(0), args.Error(1)
}

// Stream replays the configured partials through onUpdate before returning.
func (m *MockSpeechClient) Stream(ctx context.Context, frames <-chan []byte, onUpdate func(text string, final bool)) (string, error) {
	for range frames {
	}
	args := m.Called(ctx)
	if partials, ok := args.Get(0).([]string); ok && onUpdate != nil {
		for _, p := range partials {
			onUpdate(p, false)
		}
	}
	if onUpdate != nil && args.Error(2) == nil {
		onUpdate(args.String(1), true)
	}
	return args.String(1), args.Error(2)
}
