package response_models

type ExpenseResponse struct {
	ID            string  `json:"id"`
	TripID        string  `json:"trip_id"`
	Category      string  `json:"category"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	SpentOn       string  `json:"spent_on"`
	PaymentMethod string  `json:"payment_method"`
	Notes         string  `json:"notes,omitempty"`
}

type DailySpend struct {
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
}

// ExpenseSummary compares recorded spending against the trip budget. Amounts
// in other currencies are listed separately and not converted.
type ExpenseSummary struct {
	TripID          string             `json:"trip_id"`
	Currency        string             `json:"currency"`
	Budget          float64            `json:"budget"`
	TotalSpent      float64            `json:"total_spent"`
	Remaining       float64            `json:"remaining"`
	OverBudget      bool               `json:"over_budget"`
	UsedPercent     float64            `json:"used_percent"`
	ByCategory      map[string]float64 `json:"by_category"`
	ByPaymentMethod map[string]float64 `json:"by_payment_method"`
	ByDay           []DailySpend       `json:"by_day"`
	OtherCurrencies map[string]float64 `json:"other_currencies,omitempty"`
	Count           int                `json:"count"`
}
