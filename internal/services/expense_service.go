package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"
	dbm "travelmind/internal/models/db_models"
	"travelmind/internal/models/request_models"
	"travelmind/internal/models/response_models"
	"travelmind/internal/repositories"
	"travelmind/pkg/utils"
)

type ExpenseServiceInterface interface {
	Create(ctx context.Context, userID, tripID uuid.UUID, req request_models.CreateExpenseRequest) (*response_models.ExpenseResponse, error)
	List(ctx context.Context, userID, tripID uuid.UUID, category string) ([]response_models.ExpenseResponse, error)
	Update(ctx context.Context, userID, expenseID uuid.UUID, req request_models.UpdateExpenseRequest) (*response_models.ExpenseResponse, error)
	Delete(ctx context.Context, userID, expenseID uuid.UUID) error
	Summary(ctx context.Context, userID, tripID uuid.UUID) (*response_models.ExpenseSummary, error)
}

type ExpenseService struct {
	expenseRepo repositories.ExpenseRepository
	tripRepo    repositories.TripRepository
}

func NewExpenseService(expenseRepo repositories.ExpenseRepository, tripRepo repositories.TripRepository) ExpenseServiceInterface {
	return &ExpenseService{
		expenseRepo: expenseRepo,
		tripRepo:    tripRepo,
	}
}

func (s *ExpenseService) Create(ctx context.Context, userID, tripID uuid.UUID, req request_models.CreateExpenseRequest) (*response_models.ExpenseResponse, error) {
	trip, err := s.ownedTrip(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}

	spentOn, err := utils.ParseDate(req.SpentOn)
	if err != nil {
		return nil, err
	}
	expense := &dbm.Expense{
		TripID:        trip.ID,
		UserID:        userID,
		Category:      dbm.ExpenseCategory(strings.ToLower(strings.TrimSpace(req.Category))),
		Amount:        req.Amount,
		Currency:      req.Currency,
		SpentOn:       spentOn,
		PaymentMethod: dbm.PaymentMethod(strings.ToLower(strings.TrimSpace(req.PaymentMethod))),
		Notes:         strings.TrimSpace(req.Notes),
	}
	if err := normalizeExpense(expense, trip.Currency); err != nil {
		return nil, err
	}

	if err := s.expenseRepo.Create(ctx, expense); err != nil {
		return nil, fmt.Errorf("%w: create expense: %v", utils.ErrDatabaseError, err)
	}
	return toExpenseResponse(expense), nil
}

func (s *ExpenseService) List(ctx context.Context, userID, tripID uuid.UUID, category string) ([]response_models.ExpenseResponse, error) {
	if _, err := s.ownedTrip(ctx, userID, tripID); err != nil {
		return nil, err
	}
	filter := dbm.ExpenseCategory(strings.ToLower(strings.TrimSpace(category)))
	if filter != "" && !filter.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", utils.ErrInvalidInput, category)
	}

	expenses, err := s.expenseRepo.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("%w: list expenses: %v", utils.ErrDatabaseError, err)
	}

	out := make([]response_models.ExpenseResponse, 0, len(expenses))
	for i := range expenses {
		if filter != "" && expenses[i].Category != filter {
			continue
		}
		out = append(out, *toExpenseResponse(&expenses[i]))
	}
	return out, nil
}

func (s *ExpenseService) Update(ctx context.Context, userID, expenseID uuid.UUID, req request_models.UpdateExpenseRequest) (*response_models.ExpenseResponse, error) {
	expense, err := s.expenseRepo.FindByID(ctx, userID, expenseID)
	if err != nil {
		return nil, fmt.Errorf("%w: find expense: %v", utils.ErrDatabaseError, err)
	}
	if expense == nil {
		return nil, utils.ErrExpenseNotFound
	}
	trip, err := s.ownedTrip(ctx, userID, expense.TripID)
	if err != nil {
		return nil, err
	}

	if req.Category != nil {
		expense.Category = dbm.ExpenseCategory(strings.ToLower(strings.TrimSpace(*req.Category)))
	}
	if req.Amount != nil {
		expense.Amount = *req.Amount
	}
	if req.Currency != nil {
		expense.Currency = *req.Currency
	}
	if req.SpentOn != nil {
		if expense.SpentOn, err = utils.ParseDate(*req.SpentOn); err != nil {
			return nil, err
		}
	}
	if req.PaymentMethod != nil {
		expense.PaymentMethod = dbm.PaymentMethod(strings.ToLower(strings.TrimSpace(*req.PaymentMethod)))
	}
	if req.Notes != nil {
		expense.Notes = strings.TrimSpace(*req.Notes)
	}
	if err := normalizeExpense(expense, trip.Currency); err != nil {
		return nil, err
	}

	if err := s.expenseRepo.Update(ctx, expense); err != nil {
		return nil, fmt.Errorf("%w: update expense: %v", utils.ErrDatabaseError, err)
	}
	return toExpenseResponse(expense), nil
}

func (s *ExpenseService) Delete(ctx context.Context, userID, expenseID uuid.UUID) error {
	deleted, err := s.expenseRepo.Delete(ctx, userID, expenseID)
	if err != nil {
		return fmt.Errorf("%w: delete expense: %v", utils.ErrDatabaseError, err)
	}
	if !deleted {
		return utils.ErrExpenseNotFound
	}
	return nil
}

// Summary totals spending in the trip currency. Amounts recorded in other
// currencies are reported per currency and left out of the budget math.
func (s *ExpenseService) Summary(ctx context.Context, userID, tripID uuid.UUID) (*response_models.ExpenseSummary, error) {
	trip, err := s.ownedTrip(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}
	expenses, err := s.expenseRepo.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("%w: list expenses: %v", utils.ErrDatabaseError, err)
	}
	return summarize(trip, expenses), nil
}

func summarize(trip *dbm.Trip, expenses []dbm.Expense) *response_models.ExpenseSummary {
	currency := trip.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	summary := &response_models.ExpenseSummary{
		TripID:          trip.ID.String(),
		Currency:        currency,
		Budget:          trip.Budget,
		ByCategory:      make(map[string]float64, len(dbm.ExpenseCategories)),
		ByPaymentMethod: map[string]float64{},
		ByDay:           []response_models.DailySpend{},
		Count:           len(expenses),
	}
	for _, c := range dbm.ExpenseCategories {
		summary.ByCategory[string(c)] = 0
	}

	byDay := map[string]float64{}
	for _, e := range expenses {
		if e.Currency != "" && e.Currency != currency {
			if summary.OtherCurrencies == nil {
				summary.OtherCurrencies = map[string]float64{}
			}
			summary.OtherCurrencies[e.Currency] = round2(summary.OtherCurrencies[e.Currency] + e.Amount)
			continue
		}
		summary.TotalSpent += e.Amount
		summary.ByCategory[string(e.Category)] += e.Amount
		method := string(e.PaymentMethod)
		if method == "" {
			method = string(dbm.PaymentOther)
		}
		summary.ByPaymentMethod[method] += e.Amount
		byDay[utils.FormatDate(e.SpentOn)] += e.Amount
	}

	for k, v := range summary.ByCategory {
		summary.ByCategory[k] = round2(v)
	}
	for k, v := range summary.ByPaymentMethod {
		summary.ByPaymentMethod[k] = round2(v)
	}
	for day, amount := range byDay {
		summary.ByDay = append(summary.ByDay, response_models.DailySpend{Date: day, Amount: round2(amount)})
	}
	sort.Slice(summary.ByDay, func(i, j int) bool { return summary.ByDay[i].Date < summary.ByDay[j].Date })

	summary.TotalSpent = round2(summary.TotalSpent)
	summary.Remaining = round2(summary.Budget - summary.TotalSpent)
	summary.OverBudget = summary.Budget > 0 && summary.TotalSpent > summary.Budget
	if summary.Budget > 0 {
		summary.UsedPercent = round2(summary.TotalSpent / summary.Budget * 100)
	}
	return summary
}

func (s *ExpenseService) ownedTrip(ctx context.Context, userID, tripID uuid.UUID) (*dbm.Trip, error) {
	trip, err := s.tripRepo.FindByID(ctx, userID, tripID)
	if err != nil {
		return nil, fmt.Errorf("%w: find trip: %v", utils.ErrDatabaseError, err)
	}
	if trip == nil {
		return nil, utils.ErrTripNotFound
	}
	return trip, nil
}

func normalizeExpense(e *dbm.Expense, tripCurrency string) error {
	if !e.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", utils.ErrInvalidInput, e.Category)
	}
	if e.Amount <= 0 || math.IsNaN(e.Amount) || math.IsInf(e.Amount, 0) {
		return fmt.Errorf("%w: amount must be greater than 0", utils.ErrInvalidInput)
	}
	if e.PaymentMethod == "" {
		e.PaymentMethod = dbm.PaymentOther
	}
	if !e.PaymentMethod.Valid() {
		return fmt.Errorf("%w: unknown payment method %q", utils.ErrInvalidInput, e.PaymentMethod)
	}
	e.Currency = strings.ToUpper(strings.TrimSpace(e.Currency))
	if e.Currency == "" {
		e.Currency = tripCurrency
	}
	if e.Currency == "" {
		e.Currency = defaultCurrency
	}
	return nil
}

func toExpenseResponse(e *dbm.Expense) *response_models.ExpenseResponse {
	return &response_models.ExpenseResponse{
		ID:            e.ID.String(),
		TripID:        e.TripID.String(),
		Category:      string(e.Category),
		Amount:        e.Amount,
		Currency:      e.Currency,
		SpentOn:       utils.FormatDate(e.SpentOn),
		PaymentMethod: string(e.PaymentMethod),
		Notes:         e.Notes,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
