package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	dbm "travelmind/internal/models/db_models"
)

type ExpenseRepository interface {
	Create(ctx context.Context, expense *dbm.Expense) error
	FindByID(ctx context.Context, userID, expenseID uuid.UUID) (*dbm.Expense, error)
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]dbm.Expense, error)
	Update(ctx context.Context, expense *dbm.Expense) error
	Delete(ctx context.Context, userID, expenseID uuid.UUID) (bool, error)
}

type expenseRepository struct {
	db *gorm.DB
}

func NewExpenseRepository(db *gorm.DB) ExpenseRepository {
	return &expenseRepository{db: db}
}

func (r *expenseRepository) Create(ctx context.Context, expense *dbm.Expense) error {
	return r.db.WithContext(ctx).Create(expense).Error
}

func (r *expenseRepository) FindByID(ctx context.Context, userID, expenseID uuid.UUID) (*dbm.Expense, error) {
	var expense dbm.Expense
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", expenseID, userID).
		First(&expense).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &expense, nil
}

// ListByTrip returns expenses oldest first.
func (r *expenseRepository) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]dbm.Expense, error) {
	var expenses []dbm.Expense
	err := r.db.WithContext(ctx).
		Where("trip_id = ?", tripID).
		Order("spent_on ASC").Order("created_at ASC").
		Find(&expenses).Error
	if err != nil {
		return nil, err
	}
	return expenses, nil
}

func (r *expenseRepository) Update(ctx context.Context, expense *dbm.Expense) error {
	return r.db.WithContext(ctx).Save(expense).Error
}

func (r *expenseRepository) Delete(ctx context.Context, userID, expenseID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", expenseID, userID).
		Delete(&dbm.Expense{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
