package request_models

type CreateExpenseRequest struct {
	Category      string  `json:"category" binding:"required"`
	Amount        float64 `json:"amount" binding:"required,gt=0"`
	Currency      string  `json:"currency" binding:"omitempty,len=3"`
	SpentOn       string  `json:"spent_on" binding:"required"`
	PaymentMethod string  `json:"payment_method"`
	Notes         string  `json:"notes" binding:"max=1000"`
}

type UpdateExpenseRequest struct {
	Category      *string  `json:"category"`
	Amount        *float64 `json:"amount"`
	Currency      *string  `json:"currency"`
	SpentOn       *string  `json:"spent_on"`
	PaymentMethod *string  `json:"payment_method"`
	Notes         *string  `json:"notes"`
}
