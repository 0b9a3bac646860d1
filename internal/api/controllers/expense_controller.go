package controllers

import (
	"github.com/gin-gonic/gin"
	"travelmind/internal/models/request_models"
	"travelmind/internal/services"
	"travelmind/pkg/utils"
)

type ExpenseController struct {
	expenseService services.ExpenseServiceInterface
}

func NewExpenseController(expenseService services.ExpenseServiceInterface) *ExpenseController {
	return &ExpenseController{expenseService: expenseService}
}

// CreateExpense godoc
// @Summary Record an expense against a trip
// @Tags Expense
// @Accept json
// @Produce json
// @Param id path string true "Trip ID"
// @Param request body request_models.CreateExpenseRequest true "Expense"
// @Success 201 {object} response_models.ExpenseResponse
// @Security BearerAuth
// @Router /trips/{id}/expenses [post]
func (e *ExpenseController) CreateExpense(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	tripID, ok := uuidParam(c, "id", "trip")
	if !ok {
		return
	}
	var req request_models.CreateExpenseRequest
	if !bindJSON(c, &req) {
		return
	}

	expense, err := e.expenseService.Create(c.Request.Context(), userID, tripID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondCreated(c, expense, "Expense recorded successfully")
}

// ListExpenses godoc
// @Summary List a trip's expenses
// @Tags Expense
// @Produce json
// @Param id path string true "Trip ID"
// @Param category query string false "Filter by category"
// @Success 200 {array} response_models.ExpenseResponse
// @Security BearerAuth
// @Router /trips/{id}/expenses [get]
func (e *ExpenseController) ListExpenses(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	tripID, ok := uuidParam(c, "id", "trip")
	if !ok {
		return
	}

	expenses, err := e.expenseService.List(c.Request.Context(), userID, tripID, c.Query("category"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, expenses, "Expenses fetched successfully")
}

// ExpenseSummary godoc
// @Summary Spending totals against the trip budget
// @Tags Expense
// @Produce json
// @Param id path string true "Trip ID"
// @Success 200 {object} response_models.ExpenseSummary
// @Security BearerAuth
// @Router /trips/{id}/expenses/summary [get]
func (e *ExpenseController) ExpenseSummary(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	tripID, ok := uuidParam(c, "id", "trip")
	if !ok {
		return
	}

	summary, err := e.expenseService.Summary(c.Request.Context(), userID, tripID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, summary, "Expense summary fetched successfully")
}

// UpdateExpense godoc
// @Summary Update an expense
// @Tags Expense
// @Accept json
// @Produce json
// @Param id path string true "Expense ID"
// @Param request body request_models.UpdateExpenseRequest true "Fields to change"
// @Success 200 {object} response_models.ExpenseResponse
// @Security BearerAuth
// @Router /expenses/{id} [put]
func (e *ExpenseController) UpdateExpense(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	expenseID, ok := uuidParam(c, "id", "expense")
	if !ok {
		return
	}
	var req request_models.UpdateExpenseRequest
	if !bindJSON(c, &req) {
		return
	}

	expense, err := e.expenseService.Update(c.Request.Context(), userID, expenseID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, expense, "Expense updated successfully")
}

// DeleteExpense godoc
// @Summary Delete an expense
// @Tags Expense
// @Param id path string true "Expense ID"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /expenses/{id} [delete]
func (e *ExpenseController) DeleteExpense(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	expenseID, ok := uuidParam(c, "id", "expense")
	if !ok {
		return
	}

	if err := e.expenseService.Delete(c.Request.Context(), userID, expenseID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Expense deleted successfully")
}
