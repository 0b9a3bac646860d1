package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"travelmind/internal/infra"
	dbm "travelmind/internal/models/db_models"
)

type TripRepository interface {
	Create(ctx context.Context, trip *dbm.Trip) error
	FindByID(ctx context.Context, userID, tripID uuid.UUID) (*dbm.Trip, error)
	List(ctx context.Context, userID uuid.UUID, status dbm.TripStatus, page, pageSize int) ([]dbm.Trip, int64, error)
	Update(ctx context.Context, trip *dbm.Trip) error
	UpdateItinerary(ctx context.Context, tripID uuid.UUID, itinerary datatypes.JSON, status dbm.TripStatus) error
	UpdateStatus(ctx context.Context, tripID uuid.UUID, status dbm.TripStatus) error
	Delete(ctx context.Context, userID, tripID uuid.UUID) (bool, error)
	FindSimilar(ctx context.Context, userID, excludeID uuid.UUID, vector pgvector.Vector, limit int) ([]dbm.Trip, error)
}

type tripRepository struct {
	db *gorm.DB
}

func NewTripRepository(db *gorm.DB) TripRepository {
	return &tripRepository{db: db}
}

func (r *tripRepository) Create(ctx context.Context, trip *dbm.Trip) error {
	return r.db.WithContext(ctx).Create(trip).Error
}

// FindByID returns (nil, nil) when the trip does not exist or belongs to
// another user.
func (r *tripRepository) FindByID(ctx context.Context, userID, tripID uuid.UUID) (*dbm.Trip, error) {
	var trip dbm.Trip
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", tripID, userID).
		First(&trip).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &trip, nil
}

func (r *tripRepository) List(ctx context.Context, userID uuid.UUID, status dbm.TripStatus, page, pageSize int) ([]dbm.Trip, int64, error) {
	q := r.db.WithContext(ctx).Model(&dbm.Trip{}).Where("user_id = ?", userID)
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var trips []dbm.Trip
	err := q.Order("start_date DESC").Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&trips).Error
	if err != nil {
		return nil, 0, err
	}
	return trips, total, nil
}

func (r *tripRepository) Update(ctx context.Context, trip *dbm.Trip) error {
	return r.db.WithContext(ctx).Save(trip).Error
}

func (r *tripRepository) UpdateItinerary(ctx context.Context, tripID uuid.UUID, itinerary datatypes.JSON, status dbm.TripStatus) error {
	updates := map[string]interface{}{"itinerary": itinerary}
	if status != "" {
		updates["status"] = status
	}
	return r.db.WithContext(ctx).Model(&dbm.Trip{}).
		Where("id = ?", tripID).
		Updates(updates).Error
}

func (r *tripRepository) UpdateStatus(ctx context.Context, tripID uuid.UUID, status dbm.TripStatus) error {
	return r.db.WithContext(ctx).Model(&dbm.Trip{}).
		Where("id = ?", tripID).
		Update("status", status).Error
}

// Delete removes the trip and its expenses. It reports false when nothing
// matched.
func (r *tripRepository) Delete(ctx context.Context, userID, tripID uuid.UUID) (bool, error) {
	tx := infra.StartTransaction(r.db.WithContext(ctx))
	if tx.Error != nil {
		return false, tx.Error
	}

	res := tx.Where("id = ? AND user_id = ?", tripID, userID).Delete(&dbm.Trip{})
	err := res.Error
	deleted := err == nil && res.RowsAffected > 0
	if deleted {
		err = tx.Where("trip_id = ?", tripID).Delete(&dbm.Expense{}).Error
	}
	if err := infra.ReleaseTransaction(tx, err); err != nil {
		return false, err
	}
	return deleted, nil
}

// FindSimilar orders the user's other trips by L2 distance to vector.
// Requires the pgvector extension.
func (r *tripRepository) FindSimilar(ctx context.Context, userID, excludeID uuid.UUID, vector pgvector.Vector, limit int) ([]dbm.Trip, error) {
	var trips []dbm.Trip
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND id <> ? AND embedding IS NOT NULL", userID, excludeID).
		Clauses(clause.OrderBy{
			Expression: clause.Expr{SQL: "embedding <-> ?", Vars: []interface{}{vector}},
		}).
		Limit(limit).
		Find(&trips).Error
	if err != nil {
		return nil, err
	}
	return trips, nil
}
