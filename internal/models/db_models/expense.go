package db_models

import (
	"time"

	"github.com/google/uuid"
)

type ExpenseCategory string

const (
	ExpenseTransport     ExpenseCategory = "transport"
	ExpenseAccommodation ExpenseCategory = "accommodation"
	ExpenseFood          ExpenseCategory = "food"
	ExpenseAttraction    ExpenseCategory = "attraction"
	ExpenseShopping      ExpenseCategory = "shopping"
	ExpenseEntertainment ExpenseCategory = "entertainment"
	ExpenseOther         ExpenseCategory = "other"
)

var ExpenseCategories = []ExpenseCategory{
	ExpenseTransport, ExpenseAccommodation, ExpenseFood, ExpenseAttraction,
	ExpenseShopping, ExpenseEntertainment, ExpenseOther,
}

func (c ExpenseCategory) Valid() bool {
	for _, known := range ExpenseCategories {
		if c == known {
			return true
		}
	}
	return false
}

type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentCard   PaymentMethod = "card"
	PaymentAlipay PaymentMethod = "alipay"
	PaymentWechat PaymentMethod = "wechat"
	PaymentOther  PaymentMethod = "other"
)

func (p PaymentMethod) Valid() bool {
	switch p {
	case PaymentCash, PaymentCard, PaymentAlipay, PaymentWechat, PaymentOther:
		return true
	}
	return false
}

type Expense struct {
	BaseModel
	TripID        uuid.UUID       `gorm:"type:uuid;index;not null"`
	UserID        uuid.UUID       `gorm:"type:uuid;index;not null"`
	Category      ExpenseCategory `gorm:"type:varchar(32);not null"`
	Amount        float64         `gorm:"not null"`
	Currency      string          `gorm:"size:3"`
	SpentOn       time.Time       `gorm:"type:date;not null"`
	PaymentMethod PaymentMethod   `gorm:"type:varchar(16)"`
	Notes         string
}
