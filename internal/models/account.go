package models

import (
	"github.com/shopspring/decimal"
)

// Account represents a wallet row in the accounts table.
type Account struct {
	AccountID     string          `db:"account_id"`
	UserID        string          `db:"user_id"`
	AccountNumber string          `db:"account_number"`
	Balance       decimal.Decimal `db:"balance"`
	CurrencyCode  string          `db:"currency_code"`
	AuditFields
}
